package util

import (
	"regexp"
)

// ValidatePhone accepts Vietnamese mobile numbers: 10-11 digits starting
// with 0 followed by a valid carrier prefix digit.
func ValidatePhone(phone string) bool {
	re := regexp.MustCompile(`^0[35789][0-9]{8,9}$`)
	return re.MatchString(phone)
}

func ValidateUsername(username string) bool {
	return len(username) >= 2 && len(username) <= 50
}

func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLower := regexp.MustCompile("[a-z]").MatchString(password)
	hasUpper := regexp.MustCompile("[A-Z]").MatchString(password)
	hasDigit := regexp.MustCompile("[0-9]").MatchString(password)

	return hasLower && hasUpper && hasDigit
}

// ValidateHolderName restricts legal-name fields to letters and spaces,
// including accented letters.
func ValidateHolderName(name string) bool {
	if name == "" {
		return false
	}
	re := regexp.MustCompile(`^[\p{L} ]+$`)
	return re.MatchString(name)
}

func ValidateAccountNumber(number string) bool {
	re := regexp.MustCompile(`^[0-9]{4,20}$`)
	return re.MatchString(number)
}
