package ordersync

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Entity type tags used in remote references.
const (
	TypeProduct = "product"
	TypeBundle  = "bundle"
)

// Reference is the identifier object the remote systems use to address an
// entity. Only the fields this engine reads or writes are modeled; they are
// round-tripped verbatim into outgoing payloads.
type Reference struct {
	Href         string `json:"href"`
	MetadataHref string `json:"metadataHref,omitempty"`
	Type         string `json:"type,omitempty"`
	MediaType    string `json:"mediaType,omitempty"`
	UUIDHref     string `json:"uuidHref,omitempty"`
}

// EntityID extracts the entity id from the reference href (its last path
// segment).
func (r Reference) EntityID() string {
	idx := strings.LastIndex(r.Href, "/")
	if idx < 0 {
		return r.Href
	}
	return r.Href[idx+1:]
}

// MetaHolder wraps a Reference the way the remote wire format does.
type MetaHolder struct {
	Meta Reference `json:"meta"`
}

// Order is a source-system customer order as listed by the client.
type Order struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Moment string          `json:"moment"`
	Sum    decimal.Decimal `json:"sum"`
	Agent  MetaHolder      `json:"agent"`
}

// Position is one line item of a source order. Quantity and Price are passed
// through to the destination unchanged.
type Position struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Assortment MetaHolder      `json:"assortment"`
}

// IsBundle reports whether the position's catalog item is a composite item.
func (p Position) IsBundle() bool {
	return p.Assortment.Meta.Type == TypeBundle
}

// EntityHit is one result of a remote catalog search.
type EntityHit struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Meta Reference `json:"meta"`
}

// PurchaseOrder is the destination-system order payload built by the
// translator. Wire keys follow the destination API's naming.
type PurchaseOrder struct {
	Organization MetaHolder         `json:"organization"`
	Department   MetaHolder         `json:"group"`
	Employee     MetaHolder         `json:"owner"`
	Warehouse    MetaHolder         `json:"store"`
	Moment       string             `json:"moment,omitempty"`
	Applicable   bool               `json:"applicable"`
	VatEnabled   bool               `json:"vatEnabled"`
	VatIncluded  bool               `json:"vatIncluded"`
	Description  string             `json:"description"`
	Positions    []PurchasePosition `json:"positions"`
}

// PurchasePosition is one line of a destination purchase order.
type PurchasePosition struct {
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Assortment MetaHolder      `json:"assortment"`
}

// CreateResult is the outcome of a purchase order submission. An
// application-level rejection by the destination system is reported here, not
// as an error; only transport failures surface as errors.
type CreateResult struct {
	Success      bool
	PurchaseID   string
	ErrorMessage string
}

// RemoteClient is the port to one remote accounting system. The engine holds
// two instances: one bound to the source system and one to the destination.
//
// Transport failures are returned as errors so callers can distinguish "no
// data" from "could not ask"; lookup misses are reported as zero values with
// a nil error.
type RemoteClient interface {
	// ListOrders returns all orders belonging to the given counterparties,
	// restricted to the given workflow states (empty slice = unfiltered) and
	// to moments at or after minMoment (empty = unbounded). Paging is
	// transparent to the caller.
	ListOrders(ctx context.Context, counterpartyIDs, stateIDs []string, minMoment string) ([]Order, error)

	// ListPositions returns all line items of one order.
	ListPositions(ctx context.Context, orderID string) ([]Position, error)

	// ProductExternalCode returns the product's shared external code (SKU),
	// or "" if the catalog item has none set.
	ProductExternalCode(ctx context.Context, productID string, isBundle bool) (string, error)

	// FindProductByExternalCode returns the reference of the first catalog
	// item carrying the code, or nil if there is no match.
	FindProductByExternalCode(ctx context.Context, code string, isBundle bool) (*Reference, error)

	// CreatePurchaseOrder submits a purchase order. Application-level
	// rejections are reported in the result, never as an error.
	CreatePurchaseOrder(ctx context.Context, payload *PurchaseOrder) (*CreateResult, error)

	// Search operations back the mapping configuration UI. At most 10
	// candidates are returned per call.
	SearchCounterparties(ctx context.Context, term string) ([]EntityHit, error)
	SearchOrganizations(ctx context.Context, term string) ([]EntityHit, error)
	SearchDepartments(ctx context.Context, term string) ([]EntityHit, error)
	SearchEmployees(ctx context.Context, term string) ([]EntityHit, error)
	SearchWarehouses(ctx context.Context, term string) ([]EntityHit, error)
}
