package types

import "time"

// Site is a physical location belonging to an organization.
type Site struct {
	SiteID         string    `json:"site_id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	ContactName    string    `json:"contact_name"`
	ContactPhone   string    `json:"contact_phone"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate checks required fields before persistence.
func (s *Site) Validate() error {
	if s.SiteID == "" {
		return ErrInvalidID
	}
	if s.Name == "" {
		return ErrInvalidName
	}
	return nil
}
