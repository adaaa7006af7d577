package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("0912345678"))
	assert.True(t, ValidatePhone("03123456789")) // 11 digits
	assert.True(t, ValidatePhone("0581234567"))

	assert.False(t, ValidatePhone(""))
	assert.False(t, ValidatePhone("091234567"))    // 9 digits
	assert.False(t, ValidatePhone("091234567890")) // 12 digits
	assert.False(t, ValidatePhone("0112345678"))   // bad prefix digit
	assert.False(t, ValidatePhone("1912345678"))   // no leading zero
	assert.False(t, ValidatePhone("09123a5678"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("Matkhau123"))

	assert.False(t, ValidatePassword("Mk123"))      // too short
	assert.False(t, ValidatePassword("matkhau123")) // no uppercase
	assert.False(t, ValidatePassword("MATKHAU123")) // no lowercase
	assert.False(t, ValidatePassword("Matkhauabc")) // no digit
}

func TestValidateUsername(t *testing.T) {
	assert.True(t, ValidateUsername("an"))
	assert.False(t, ValidateUsername("a"))
	assert.False(t, ValidateUsername(""))
}

func TestValidateHolderName(t *testing.T) {
	assert.True(t, ValidateHolderName("NGUYEN VAN A"))
	assert.True(t, ValidateHolderName("Nguyễn Văn Ánh"))

	assert.False(t, ValidateHolderName(""))
	assert.False(t, ValidateHolderName("Nguyen Van A 2"))
	assert.False(t, ValidateHolderName("a@b"))
}

func TestValidateAccountNumber(t *testing.T) {
	assert.True(t, ValidateAccountNumber("123456"))
	assert.True(t, ValidateAccountNumber("0000000000"))

	assert.False(t, ValidateAccountNumber(""))
	assert.False(t, ValidateAccountNumber("123"))
	assert.False(t, ValidateAccountNumber("12345678x"))
}
