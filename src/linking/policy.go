// Package linking implements the bank-account linking workflow: the
// account-type policy, draft validation, the link-flow state machine and the
// submission coordinator.
package linking

import (
	"etax-gateway/src/models"
	"etax-gateway/src/util"
)

// Draft is the in-progress, unsubmitted form. It lives in memory for the
// lifetime of a link-flow session and nowhere else. Switching account type
// never clears fields; validation simply stops considering the ones that no
// longer apply.
type Draft struct {
	AccountNumber     string `json:"account_number"`
	AccountName       string `json:"account_name"`
	Username          string `json:"username"`
	Password          string `json:"-"`
	Phone             string `json:"phone"`
	Branch            string `json:"branch"`
	AccountHolderName string `json:"account_holder_name"`
}

// FieldErrors maps a field name to a human-readable message for that field.
type FieldErrors map[string]string

// RequiredFields lists the draft fields the given account type makes
// mandatory. Card/account-number links need the number; e-banking links need
// the login credentials plus a display name for the account.
func RequiredFields(t models.AccountType) []string {
	if t == models.AccountTypeNew {
		return []string{"username", "password", "account_name"}
	}
	return []string{"account_number"}
}

// ValidateDraft checks the draft against the active account type and
// returns field-scoped messages. Fields irrelevant to the active type are
// never flagged, even when filled.
func ValidateDraft(t models.AccountType, d Draft) FieldErrors {
	errs := FieldErrors{}

	switch t {
	case models.AccountTypeNew:
		if d.Username == "" {
			errs["username"] = "Vui lòng nhập tên đăng nhập"
		}
		if d.Password == "" {
			errs["password"] = "Vui lòng nhập mật khẩu"
		}
		if d.AccountName == "" {
			errs["account_name"] = "Vui lòng nhập tên tài khoản"
		}
	default:
		if d.AccountNumber == "" {
			errs["account_number"] = "Vui lòng nhập số tài khoản"
		} else if !util.ValidateAccountNumber(d.AccountNumber) {
			errs["account_number"] = "Số tài khoản không hợp lệ"
		}
	}

	// Phone is pre-filled from the profile and optional; only its format is
	// checked.
	if d.Phone != "" && !util.ValidatePhone(d.Phone) {
		errs["phone"] = "Số điện thoại không hợp lệ"
	}

	if d.AccountHolderName != "" && !util.ValidateHolderName(d.AccountHolderName) {
		errs["account_holder_name"] = "Tên chủ tài khoản không hợp lệ"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// BuildRequest freezes a draft into the wire payload for the active account
// type. Irrelevant fields are left out of the payload's semantic content.
func BuildRequest(bankID string, t models.AccountType, d Draft) models.LinkRequest {
	if t == models.AccountTypeNew {
		return models.LinkRequest{
			BankID: bankID,
			// See models.FillerAccountNumber; the upstream rejects an empty
			// number_account even for e-banking links.
			NumberAccount: models.FillerAccountNumber,
			AccountName:   d.Username,
			Type:          t,
			Password:      d.Password,
		}
	}
	return models.LinkRequest{
		BankID:            bankID,
		NumberAccount:     d.AccountNumber,
		AccountName:       d.AccountName,
		Type:              t,
		Branch:            d.Branch,
		AccountHolderName: d.AccountHolderName,
	}
}

// ValidateRequest checks an already-assembled payload, for the one-shot
// add-bank endpoint that bypasses the session flow.
func ValidateRequest(req models.LinkRequest) FieldErrors {
	errs := FieldErrors{}

	if req.BankID == "" {
		errs["bank_id"] = "Vui lòng chọn ngân hàng"
	}
	if !req.Type.Valid() {
		errs["type"] = "Vui lòng chọn loại liên kết"
	}

	switch req.Type {
	case models.AccountTypeNew:
		if req.AccountName == "" {
			errs["account_name"] = "Vui lòng nhập tên đăng nhập"
		}
		if req.Password == "" {
			errs["password"] = "Vui lòng nhập mật khẩu"
		}
	case models.AccountTypeOld:
		if req.NumberAccount == "" {
			errs["number_account"] = "Vui lòng nhập số tài khoản"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
