package ordersync

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/ordersync/backend/internal/domain/ordersync"
)

// ResolvedLine is one order position with its product rebound to the
// destination catalog.
type ResolvedLine struct {
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Product  domain.Reference
}

// Resolution is the outcome of resolving every position of one order. Lines
// and Failures partition the positions; an order is translatable only when
// Failures is empty.
type Resolution struct {
	Lines    []ResolvedLine
	Failures []string
}

// Resolver rebinds source order positions to destination catalog items via
// their shared external code. It never aborts mid-order: each position either
// resolves or contributes a failure reason, so the caller sees the full
// picture at once.
type Resolver struct {
	source      domain.RemoteClient
	destination domain.RemoteClient
	logger      *zap.Logger
}

// NewResolver creates a Resolver over the two systems
func NewResolver(source, destination domain.RemoteClient, logger *zap.Logger) *Resolver {
	return &Resolver{
		source:      source,
		destination: destination,
		logger:      logger.Named("resolver"),
	}
}

// ResolvePositions resolves every position of one order against the
// destination catalog. Lookup errors and missing matches both land in
// Failures; the returned error covers only the resolver's own failure to
// operate (currently always nil, kept for interface symmetry with the
// client calls it wraps).
func (r *Resolver) ResolvePositions(ctx context.Context, positions []domain.Position) (*Resolution, error) {
	resolution := &Resolution{}

	for _, pos := range positions {
		product, reason := r.resolveOne(ctx, &pos)
		if reason != "" {
			resolution.Failures = append(resolution.Failures, reason)
			continue
		}
		resolution.Lines = append(resolution.Lines, ResolvedLine{
			Quantity: pos.Quantity,
			Price:    pos.Price,
			Product:  *product,
		})
	}

	return resolution, nil
}

// resolveOne maps one position's assortment to a destination catalog item.
// Returns the destination reference, or a human-readable failure reason.
func (r *Resolver) resolveOne(ctx context.Context, pos *domain.Position) (*domain.Reference, string) {
	productID := pos.Assortment.Meta.EntityID()
	if productID == "" {
		return nil, fmt.Sprintf("position %s has no assortment reference", pos.ID)
	}
	name := pos.Name
	if name == "" {
		name = productID
	}
	isBundle := pos.IsBundle()

	code, err := r.source.ProductExternalCode(ctx, productID, isBundle)
	if err != nil {
		r.logger.Warn("Source catalog lookup failed",
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return nil, fmt.Sprintf("failed to read source item %s: %v", productID, err)
	}
	if code == "" {
		return nil, fmt.Sprintf("item %q has no external code in the source catalog", name)
	}

	match, err := r.destination.FindProductByExternalCode(ctx, code, isBundle)
	if err != nil {
		r.logger.Warn("Destination catalog lookup failed",
			zap.String("external_code", code),
			zap.Error(err),
		)
		return nil, fmt.Sprintf("failed to search destination catalog for %s: %v", code, err)
	}
	if match == nil {
		return nil, fmt.Sprintf("item %q: no destination item carries external code %s", name, code)
	}

	return match, ""
}
