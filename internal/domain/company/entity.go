package company

import "time"

type Company struct {
	ID             string
	Name           string
	ShortName      string
	BusinessNumber string
	IsContractor   bool
	StreetAddress  string
	City           string
	Province       string
	PostalCode     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
