package models

import "time"

// The broker's account-creation payload. The signup flow captures all of
// this; callers may submit the full profile or just the four contact basics,
// in which case the demo defaults below fill the compliance sections.

// Contact holds the applicant's contact details.
type Contact struct {
	EmailAddress  string   `json:"email_address" validate:"required,email"`
	PhoneNumber   string   `json:"phone_number" validate:"required"`
	StreetAddress []string `json:"street_address" validate:"required,min=1"`
	City          string   `json:"city" validate:"required"`
	State         string   `json:"state" validate:"required"`
	PostalCode    string   `json:"postal_code" validate:"required"`
	Country       string   `json:"country" validate:"required"`
}

// Identity holds the applicant's identity and tax details.
type Identity struct {
	GivenName             string   `json:"given_name" validate:"required"`
	FamilyName            string   `json:"family_name" validate:"required"`
	DateOfBirth           string   `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	TaxIDType             string   `json:"tax_id_type" validate:"required"`
	TaxID                 string   `json:"tax_id" validate:"required"`
	CountryOfCitizenship  string   `json:"country_of_citizenship" validate:"required"`
	CountryOfBirth        string   `json:"country_of_birth" validate:"required"`
	CountryOfTaxResidence string   `json:"country_of_tax_residence" validate:"required"`
	FundingSource         []string `json:"funding_source" validate:"required,min=1"`
}

// EmployerAddress is the employer's mailing address inside Disclosures.
type EmployerAddress struct {
	StreetAddress []string `json:"street_address" validate:"required,min=1"`
	City          string   `json:"city" validate:"required"`
	State         string   `json:"state" validate:"required"`
	PostalCode    string   `json:"postal_code" validate:"required"`
	Country       string   `json:"country" validate:"required"`
}

// Disclosures holds the regulatory disclosure answers.
type Disclosures struct {
	IsControlPerson             bool            `json:"is_control_person"`
	IsAffiliatedExchangeOrFINRA bool            `json:"is_affiliated_exchange_or_finra"`
	IsPoliticallyExposed        bool            `json:"is_politically_exposed"`
	ImmediateFamilyExposed      bool            `json:"immediate_family_exposed"`
	EmploymentStatus            string          `json:"employment_status" validate:"required"`
	EmployerName                string          `json:"employer_name,omitempty"`
	EmployerAddress             EmployerAddress `json:"employer_address"`
	EmploymentPosition          string          `json:"employment_position,omitempty"`
	AnnualIncomeMin             int64           `json:"annual_income_min" validate:"gte=0"`
	AnnualIncomeMax             int64           `json:"annual_income_max" validate:"gtefield=AnnualIncomeMin"`
	NetWorthMin                 int64           `json:"net_worth_min" validate:"gte=0"`
	NetWorthMax                 int64           `json:"net_worth_max" validate:"gtefield=NetWorthMin"`
	LiquidNetWorthMin           int64           `json:"liquid_net_worth_min" validate:"gte=0"`
	LiquidNetWorthMax           int64           `json:"liquid_net_worth_max" validate:"gtefield=LiquidNetWorthMin"`
}

// Agreement is a signed customer agreement. SignedAt and IPAddress are
// stamped by the service with the request's own IP and clock.
type Agreement struct {
	Agreement string    `json:"agreement" validate:"required,oneof=margin_agreement account_agreement customer_agreement crypto_agreement"`
	SignedAt  time.Time `json:"signed_at"`
	IPAddress string    `json:"ip_address"`
}

// Document is an identity-verification document reference.
type Document struct {
	DocumentType    string `json:"document_type" validate:"required"`
	DocumentSubType string `json:"document_sub_type,omitempty"`
	Content         string `json:"content" validate:"required"`
	MimeType        string `json:"mime_type" validate:"required"`
}

// TrustedContact is the emergency contact record required by the broker.
type TrustedContact struct {
	GivenName     string   `json:"given_name" validate:"required"`
	FamilyName    string   `json:"family_name" validate:"required"`
	EmailAddress  string   `json:"email_address" validate:"required,email"`
	PhoneNumber   string   `json:"phone_number,omitempty"`
	StreetAddress []string `json:"street_address,omitempty"`
	City          string   `json:"city,omitempty"`
	State         string   `json:"state,omitempty"`
	PostalCode    string   `json:"postal_code,omitempty"`
	Country       string   `json:"country,omitempty"`
}

// AccountApplication is the full payload submitted to the broker's account
// endpoint.
type AccountApplication struct {
	Contact        Contact        `json:"contact" validate:"required"`
	Identity       Identity       `json:"identity" validate:"required"`
	Disclosures    Disclosures    `json:"disclosures" validate:"required"`
	Agreements     []Agreement    `json:"agreements" validate:"required,min=1,dive"`
	Documents      []Document     `json:"documents,omitempty" validate:"dive"`
	TrustedContact TrustedContact `json:"trusted_contact" validate:"required"`
}

// CreateAccountRequest is the inbound contract. The four basics are always
// required; the optional sections, when present, override the demo defaults
// instead of being discarded.
type CreateAccountRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`

	Contact        *Contact        `json:"contact,omitempty"`
	Identity       *Identity       `json:"identity,omitempty"`
	Disclosures    *Disclosures    `json:"disclosures,omitempty"`
	Documents      []Document      `json:"documents,omitempty"`
	TrustedContact *TrustedContact `json:"trusted_contact,omitempty"`
}

// MissingFields returns the names of the absent required basics, in the
// order the wire contract lists them.
func (r *CreateAccountRequest) MissingFields() []string {
	var missing []string
	if r.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if r.LastName == "" {
		missing = append(missing, "lastName")
	}
	if r.Email == "" {
		missing = append(missing, "email")
	}
	if r.Phone == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// CreateAccountResponse combines the broker account with the virtual card,
// which may be a synthesized fallback record.
type CreateAccountResponse struct {
	Success       bool           `json:"success"`
	AlpacaAccount *BrokerAccount `json:"alpaca_account"`
	VirtualCard   *VirtualCard   `json:"virtual_card"`
	Message       string         `json:"message"`
}
