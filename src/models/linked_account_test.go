package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkStatusUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want LinkStatus
	}{
		{"string verified", `"verified"`, LinkStatusVerified},
		{"string rejected", `"rejected"`, LinkStatusRejected},
		{"string pending", `"pending"`, LinkStatusPending},
		{"mixed case", `"VERIFIED"`, LinkStatusVerified},
		{"numeric verified", `1`, LinkStatusVerified},
		{"numeric rejected", `2`, LinkStatusRejected},
		{"numeric unknown", `7`, LinkStatusPending},
		{"unknown token", `"unknown_token"`, LinkStatusPending},
		{"empty string", `""`, LinkStatusPending},
		{"null", `null`, LinkStatusPending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var status LinkStatus
			err := json.Unmarshal([]byte(tc.raw), &status)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestLinkedAccountMissingStatusRendersPending(t *testing.T) {
	var account LinkedAccount
	err := json.Unmarshal([]byte(`{"bank_id":"tpbank","type":2}`), &account)
	assert.NoError(t, err)

	view := NewLinkedAccountView(account)
	assert.Equal(t, LinkStatusPending, view.Status)
	assert.Equal(t, "Card/Account", view.TypeLabel)
}

func TestAccountTypeLabels(t *testing.T) {
	assert.Equal(t, "E-Banking", AccountTypeNew.Label())
	assert.Equal(t, "Card/Account", AccountTypeOld.Label())
	assert.True(t, AccountTypeNew.Valid())
	assert.True(t, AccountTypeOld.Valid())
	assert.False(t, AccountType(0).Valid())
	assert.False(t, AccountType(3).Valid())
}
