package models

type Bank struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"shortName"`
	Logo        string `json:"logo,omitempty"`
	Recommended bool   `json:"recommended,omitempty"`
}
