// Sites table accessor.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/coilworks/magbook/pkg/types"
)

var siteColumns = []string{
	"site_id", "organization_id", "name", "address",
	"contact_name", "contact_phone", "created_at", "updated_at",
}

func newSitesTable(b *Backend) types.Table {
	return &table{
		backend: b,
		spec: tableSpec{
			name:     types.SitesTable,
			idColumn: "site_id",
			columns:  siteColumns,
			queryable: map[string]bool{
				"organization_id": true,
			},
			updatable: map[string]bool{
				"organization_id": true, "name": true, "address": true,
				"contact_name": true, "contact_phone": true,
			},
			bind:    bindSite,
			hydrate: hydrateSite,
		},
	}
}

func bindSite(entity any, createdAt, updatedAt time.Time) ([]any, error) {
	s, ok := entity.(*types.Site)
	if !ok {
		return nil, types.ErrInvalidData
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.CreatedAt = createdAt
	s.UpdatedAt = updatedAt
	return []any{
		s.SiteID, s.OrganizationID, s.Name, s.Address,
		s.ContactName, s.ContactPhone, formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	}, nil
}

func hydrateSite(rows *sql.Rows) (any, error) {
	var s types.Site
	var createdAt, updatedAt string
	if err := rows.Scan(
		&s.SiteID, &s.OrganizationID, &s.Name, &s.Address,
		&s.ContactName, &s.ContactPhone, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}
