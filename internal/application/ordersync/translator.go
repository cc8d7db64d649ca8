package ordersync

import (
	"fmt"

	domain "github.com/ordersync/backend/internal/domain/ordersync"
)

// BuildPurchaseOrder assembles the destination purchase order payload for one
// source order. The organizational context comes entirely from the mapping;
// quantities and prices pass through the resolved lines unchanged.
//
// Purchase orders are created inapplicable to VAT and with the source order id
// embedded in the description, so an operator can trace any purchase back to
// its origin.
func BuildPurchaseOrder(mapping *domain.CounterpartyMapping, orderID, moment string, lines []ResolvedLine) *domain.PurchaseOrder {
	positions := make([]domain.PurchasePosition, len(lines))
	for i, line := range lines {
		positions[i] = domain.PurchasePosition{
			Quantity:   line.Quantity,
			Price:      line.Price,
			Assortment: domain.MetaHolder{Meta: line.Product},
		}
	}

	return &domain.PurchaseOrder{
		Organization: domain.MetaHolder{Meta: mapping.OrganizationMeta},
		Department:   domain.MetaHolder{Meta: mapping.DepartmentMeta},
		Employee:     domain.MetaHolder{Meta: mapping.EmployeeMeta},
		Warehouse:    domain.MetaHolder{Meta: mapping.WarehouseMeta},
		Moment:       moment,
		Applicable:   true,
		VatEnabled:   false,
		VatIncluded:  false,
		Description:  fmt.Sprintf("Synchronized by ordersync. Source order ID: %s", orderID),
		Positions:    positions,
	}
}
