package types

// Standard table names for Store.GetTable.
const (
	OrganizationsTable = "organizations"
	SitesTable         = "sites"
	RoomsTable         = "rooms"
	EquipmentTable     = "equipment"
	EventsTable        = "events"
	ImagesTable        = "images"
	TimelinesTable     = "timelines"
)

// StandardTableNames lists all standard table names in hierarchy order,
// parents before children.
var StandardTableNames = []string{
	OrganizationsTable,
	SitesTable,
	RoomsTable,
	EquipmentTable,
	EventsTable,
	ImagesTable,
	TimelinesTable,
}
