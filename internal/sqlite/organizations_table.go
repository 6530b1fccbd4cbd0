// Organizations table accessor: the root level of the hierarchy.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/coilworks/magbook/pkg/types"
)

var organizationColumns = []string{
	"organization_id", "name", "contact_name", "contact_email",
	"contact_phone", "notes", "created_at", "updated_at",
}

func newOrganizationsTable(b *Backend) types.Table {
	return &table{
		backend: b,
		spec: tableSpec{
			name:      types.OrganizationsTable,
			idColumn:  "organization_id",
			columns:   organizationColumns,
			queryable: map[string]bool{},
			updatable: map[string]bool{
				"name": true, "contact_name": true, "contact_email": true,
				"contact_phone": true, "notes": true,
			},
			bind:    bindOrganization,
			hydrate: hydrateOrganization,
		},
	}
}

func bindOrganization(entity any, createdAt, updatedAt time.Time) ([]any, error) {
	o, ok := entity.(*types.Organization)
	if !ok {
		return nil, types.ErrInvalidData
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	o.CreatedAt = createdAt
	o.UpdatedAt = updatedAt
	return []any{
		o.OrganizationID, o.Name, o.ContactName, o.ContactEmail,
		o.ContactPhone, o.Notes, formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	}, nil
}

func hydrateOrganization(rows *sql.Rows) (any, error) {
	var o types.Organization
	var createdAt, updatedAt string
	if err := rows.Scan(
		&o.OrganizationID, &o.Name, &o.ContactName, &o.ContactEmail,
		&o.ContactPhone, &o.Notes, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &o, nil
}
