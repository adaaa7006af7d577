package models

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username             string `json:"username"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Phone                string `json:"phone"`
}

// ProfileUpdateRequest mirrors the upstream's field names for
// POST /user/update-profile, misspellings included.
type ProfileUpdateRequest struct {
	BussinessName         string `json:"bussiness_name,omitempty"`
	TaxCode               string `json:"tax_code,omitempty"`
	CompanyRepresentative string `json:"company_representative,omitempty"`
	BussinessAddress      string `json:"bussiness_address,omitempty"`
	BussinessPhone        string `json:"bussiness_phone,omitempty"`
	CharterCapital        string `json:"charter_capital,omitempty"`
	DateOfEstablishment   string `json:"date_of_establishment,omitempty"`
	PrimaryBusinessLines  string `json:"primary_business_lines,omitempty"`
	NumberAccount         string `json:"number_account,omitempty"`
	BankName              string `json:"bank_name,omitempty"`
}
