package model

import (
	"time"
)

type Patient struct {
	Base
	Name          string    `db:"name" json:"name" gorm:"not null"`
	Email         string    `db:"email" json:"email" gorm:"uniqueIndex;not null"`
	BirthDate     time.Time `db:"birth_date" json:"birthDate" gorm:"not null"`
	PostalCode    string    `db:"postal_code" json:"postalCode" gorm:"not null"`
	StreetAddress string    `db:"street_address" json:"streetAddress" gorm:"not null"`
	City          string    `db:"city" json:"city" gorm:"not null"`
	State         string    `db:"state" json:"state" gorm:"not null"`
}

// PatientInput is the candidate payload accepted by create and update.
// Field order is the order in which required fields are checked.
type PatientInput struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required"`
	BirthDate     string `json:"birthDate" validate:"required"`
	City          string `json:"city" validate:"required"`
	PostalCode    string `json:"postalCode" validate:"required"`
	State         string `json:"state" validate:"required"`
	StreetAddress string `json:"streetAddress" validate:"required"`
}

// Input returns the business fields of p as a candidate payload.
func (p *Patient) Input() *PatientInput {
	return &PatientInput{
		Name:          p.Name,
		Email:         p.Email,
		BirthDate:     p.BirthDate.UTC().Format(time.RFC3339),
		City:          p.City,
		PostalCode:    p.PostalCode,
		State:         p.State,
		StreetAddress: p.StreetAddress,
	}
}

// FormatAddress renders the address the way the patient table shows it.
func FormatAddress(p *Patient) string {
	if p.City != "" && p.State != "" && p.StreetAddress != "" {
		return p.StreetAddress + ", " + p.City + " - " + p.State
	}

	if p.StreetAddress != "" {
		return p.StreetAddress
	}

	return "N/A"
}
