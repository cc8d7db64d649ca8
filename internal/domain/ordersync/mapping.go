package ordersync

import "time"

// CounterpartyMapping binds a source-system counterparty to the destination
// organizational context that purchase orders for its orders are created under.
// Mappings are operator-configured and read-only to the sync engine.
type CounterpartyMapping struct {
	ID uint

	// Source counterparty (the customer whose orders are replicated).
	SourceID   string
	SourceName string
	SourceMeta Reference

	// Destination context. Each reference is stored verbatim as returned by
	// the destination system's search endpoints; the name is kept for display.
	OrganizationName string
	OrganizationMeta Reference
	DepartmentName   string
	DepartmentMeta   Reference
	EmployeeName     string
	EmployeeMeta     Reference
	WarehouseName    string
	WarehouseMeta    Reference

	CreatedAt time.Time
	UpdatedAt time.Time
}
