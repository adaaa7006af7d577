package models

import (
	"encoding/json"
	"strings"
)

type LinkStatus string

const (
	LinkStatusPending  LinkStatus = "pending"
	LinkStatusVerified LinkStatus = "verified"
	LinkStatusRejected LinkStatus = "rejected"
)

// UnmarshalJSON tolerates the upstream's mixed status encodings: string
// tokens, numeric codes (1 = verified, 2 = rejected), null, or anything
// else. Unrecognized values normalize to pending so a link is never shown
// as verified before the upstream says so.
func (s *LinkStatus) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*s = NormalizeLinkStatus(asString)
		return nil
	}

	var asNumber int
	if err := json.Unmarshal(data, &asNumber); err == nil {
		switch asNumber {
		case 1:
			*s = LinkStatusVerified
		case 2:
			*s = LinkStatusRejected
		default:
			*s = LinkStatusPending
		}
		return nil
	}

	*s = LinkStatusPending
	return nil
}

func NormalizeLinkStatus(token string) LinkStatus {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "verified":
		return LinkStatusVerified
	case "rejected":
		return LinkStatusRejected
	default:
		return LinkStatusPending
	}
}

// LinkedAccount is the read model returned by GET /user/list-bank. It is
// owned by the upstream and only cached transiently for rendering.
type LinkedAccount struct {
	BankID            string      `json:"bank_id"`
	NumberAccount     string      `json:"number_account,omitempty"`
	AccountHolderName string      `json:"account_holder_name,omitempty"`
	Branch            string      `json:"branch,omitempty"`
	Type              AccountType `json:"type"`
	Status            LinkStatus  `json:"status"`
}

// LinkedAccountView is what the gateway renders to the mobile client: the
// raw record plus the display label for its link type.
type LinkedAccountView struct {
	LinkedAccount
	TypeLabel string `json:"type_label"`
}

func NewLinkedAccountView(a LinkedAccount) LinkedAccountView {
	if a.Status == "" {
		a.Status = LinkStatusPending
	}
	return LinkedAccountView{
		LinkedAccount: a,
		TypeLabel:     a.Type.Label(),
	}
}
