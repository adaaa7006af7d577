package models

// AccountType distinguishes how a bank link is authenticated.
// The wire values are fixed by the upstream tax-core API.
type AccountType int

const (
	// AccountTypeNew links via e-banking login credentials.
	AccountTypeNew AccountType = 1
	// AccountTypeOld links via a raw account/card number.
	AccountTypeOld AccountType = 2
)

func (t AccountType) Valid() bool {
	return t == AccountTypeNew || t == AccountTypeOld
}

func (t AccountType) Label() string {
	if t == AccountTypeNew {
		return "E-Banking"
	}
	return "Card/Account"
}

// FillerAccountNumber is sent as number_account for e-banking links.
// The upstream validator unconditionally requires the field even when it
// carries no meaning for this link type; this is a workaround, not a real
// account number.
const FillerAccountNumber = "0000000000"

// LinkRequest is the payload for POST /user/add-bank, built fresh per
// submission attempt and discarded once the call resolves.
type LinkRequest struct {
	BankID            string      `json:"bank_id"`
	NumberAccount     string      `json:"number_account"`
	AccountName       string      `json:"account_name,omitempty"`
	Type              AccountType `json:"type"`
	Password          string      `json:"password,omitempty"`
	Branch            string      `json:"branch,omitempty"`
	AccountHolderName string      `json:"account_holder_name,omitempty"`
}
