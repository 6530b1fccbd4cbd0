package types

import "time"

// Organization is the root of the record hierarchy: the institution that
// operates one or more sites.
type Organization struct {
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	ContactName    string    `json:"contact_name"`
	ContactEmail   string    `json:"contact_email"`
	ContactPhone   string    `json:"contact_phone"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate checks required fields before persistence.
func (o *Organization) Validate() error {
	if o.OrganizationID == "" {
		return ErrInvalidID
	}
	if o.Name == "" {
		return ErrInvalidName
	}
	return nil
}
