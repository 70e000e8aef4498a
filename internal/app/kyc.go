package app

import (
	"time"

	"matty-api/models"
)

// Demo defaults for the compliance sections of an account application.
// The mobile flow only collects name, email and phone; everything else is
// filled with sandbox-safe placeholder data unless the caller supplied its
// own section.

func defaultContact(email, phone string) models.Contact {
	return models.Contact{
		EmailAddress:  email,
		PhoneNumber:   phone,
		StreetAddress: []string{"123 Main St"},
		City:          "New York",
		State:         "NY",
		PostalCode:    "10001",
		Country:       "USA",
	}
}

func defaultIdentity(firstName, lastName string) models.Identity {
	return models.Identity{
		GivenName:             firstName,
		FamilyName:            lastName,
		DateOfBirth:           "1990-01-01",
		TaxIDType:             "USA_SSN",
		TaxID:                 "123456789",
		CountryOfCitizenship:  "USA",
		CountryOfBirth:        "USA",
		CountryOfTaxResidence: "USA",
		FundingSource:         []string{"employment_income"},
	}
}

func defaultDisclosures() models.Disclosures {
	return models.Disclosures{
		IsControlPerson:             false,
		IsAffiliatedExchangeOrFINRA: false,
		IsPoliticallyExposed:        false,
		ImmediateFamilyExposed:      false,
		EmploymentStatus:            "employed",
		EmployerName:                "Acme Corp",
		EmployerAddress: models.EmployerAddress{
			StreetAddress: []string{"123 Work St"},
			City:          "New York",
			State:         "NY",
			PostalCode:    "10001",
			Country:       "USA",
		},
		EmploymentPosition: "Software Engineer",
		AnnualIncomeMin:    50000,
		AnnualIncomeMax:    100000,
		NetWorthMin:        10000,
		NetWorthMax:        100000,
		LiquidNetWorthMin:  5000,
		LiquidNetWorthMax:  50000,
	}
}

func defaultDocuments() []models.Document {
	return []models.Document{
		{
			DocumentType:    "identity_verification",
			DocumentSubType: "passport",
			Content:         "base64_encoded_document_content_here",
			MimeType:        "image/jpeg",
		},
	}
}

func defaultTrustedContact() models.TrustedContact {
	return models.TrustedContact{
		GivenName:     "Emergency",
		FamilyName:    "Contact",
		EmailAddress:  "emergency@example.com",
		PhoneNumber:   "+15551234567",
		StreetAddress: []string{"456 Emergency St"},
		City:          "New York",
		State:         "NY",
		PostalCode:    "10001",
		Country:       "USA",
	}
}

// buildApplication merges the inbound request with the demo defaults. Any
// section the caller supplied is passed through untouched; agreements are
// always stamped here with the caller's IP and the current time.
func (a *App) buildApplication(req *models.CreateAccountRequest, callerIP string, now time.Time) *models.AccountApplication {
	if callerIP == "" {
		callerIP = "192.168.1.1"
	}

	application := &models.AccountApplication{
		Contact:        defaultContact(req.Email, req.Phone),
		Identity:       defaultIdentity(req.FirstName, req.LastName),
		Disclosures:    defaultDisclosures(),
		Documents:      defaultDocuments(),
		TrustedContact: defaultTrustedContact(),
	}

	if req.Contact != nil {
		application.Contact = *req.Contact
	}
	if req.Identity != nil {
		application.Identity = *req.Identity
	}
	if req.Disclosures != nil {
		application.Disclosures = *req.Disclosures
	}
	if len(req.Documents) > 0 {
		application.Documents = req.Documents
	}
	if req.TrustedContact != nil {
		application.TrustedContact = *req.TrustedContact
	}

	for _, name := range []string{"margin_agreement", "account_agreement", "customer_agreement"} {
		application.Agreements = append(application.Agreements, models.Agreement{
			Agreement: name,
			SignedAt:  now,
			IPAddress: callerIP,
		})
	}

	return application
}
