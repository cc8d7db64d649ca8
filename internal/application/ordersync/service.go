package ordersync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	domain "github.com/ordersync/backend/internal/domain/ordersync"
)

// momentLayout is the timestamp format the remote systems exchange. Parsing
// tolerates a trailing fractional second.
const momentLayout = "2006-01-02 15:04:05"

// Config carries the batch driver's sync parameters.
type Config struct {
	// StateIDs restricts the source listing to orders in these workflow
	// states. Empty means no state filter.
	StateIDs []string

	// StartMoment bounds the source listing from below, in momentLayout form.
	StartMoment string
}

// BatchResult summarizes one batch run.
type BatchResult struct {
	Total   int `json:"total"`
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Stats is the aggregate view over mappings and sync outcomes.
type Stats struct {
	Mappings  int64 `json:"mappings"`
	Records   int64 `json:"records"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

// Service drives order synchronization: it discovers new source orders for
// the tracked counterparties, replicates each as a destination purchase
// order, and records the outcome per order. Every tracked order ends up with
// exactly one record; reprocessing happens only through Retry, which
// overwrites that record in place.
type Service struct {
	source      domain.RemoteClient
	destination domain.RemoteClient
	resolver    *Resolver
	mappings    domain.MappingRepository
	records     domain.RecordRepository
	config      Config
	logger      *zap.Logger
}

// NewService creates the sync service
func NewService(
	source, destination domain.RemoteClient,
	mappings domain.MappingRepository,
	records domain.RecordRepository,
	config Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		source:      source,
		destination: destination,
		resolver:    NewResolver(source, destination, logger),
		mappings:    mappings,
		records:     records,
		config:      config,
		logger:      logger.Named("sync"),
	}
}

// syncOutcome is the terminal outcome of one order's sync attempt.
type syncOutcome struct {
	status     domain.SyncStatus
	message    string
	purchaseID string
}

func failedOutcome(format string, args ...any) syncOutcome {
	return syncOutcome{
		status:  domain.SyncStatusFailed,
		message: fmt.Sprintf(format, args...),
	}
}

// ---------------------------------------------------------------------------
// Batch run
// ---------------------------------------------------------------------------

// SyncOrders runs one batch: list matching source orders, skip the already
// recorded ones, and sync each remaining order in isolation. A listing or
// storage failure aborts the batch; a single order's sync failure only marks
// that order FAILED.
func (s *Service) SyncOrders(ctx context.Context) (*BatchResult, error) {
	result := &BatchResult{}

	sourceIDs, err := s.mappings.ListSourceIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked counterparties: %w", err)
	}
	if len(sourceIDs) == 0 {
		s.logger.Info("No counterparty mappings configured, nothing to sync")
		return result, nil
	}

	orders, err := s.source.ListOrders(ctx, sourceIDs, s.config.StateIDs, s.config.StartMoment)
	if err != nil {
		return nil, fmt.Errorf("failed to list source orders: %w", err)
	}
	result.Total = len(orders)

	s.logger.Info("Starting sync batch",
		zap.Int("orders", len(orders)),
		zap.Int("counterparties", len(sourceIDs)),
	)

	for _, order := range orders {
		exists, err := s.records.ExistsByOrderID(ctx, order.ID)
		if err != nil {
			return result, fmt.Errorf("failed to check sync record for order %s: %w", order.ID, err)
		}
		if exists {
			result.Skipped++
			continue
		}

		mapping, err := s.mappings.FindBySourceID(ctx, order.Agent.Meta.EntityID())
		if err != nil {
			if errors.Is(err, domain.ErrMappingNotFound) {
				// The listing filter and the mapping table drifted apart
				// between the two reads. Leave the order untracked; the next
				// batch picks it up.
				s.logger.Warn("Order belongs to an unmapped counterparty",
					zap.String("order_id", order.ID),
					zap.String("counterparty_id", order.Agent.Meta.EntityID()),
				)
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("failed to load mapping for order %s: %w", order.ID, err)
		}

		outcome := s.performSync(ctx, mapping, order.ID, order.Moment)

		record := s.newRecord(&order, mapping, outcome)
		if err := s.records.Create(ctx, record); err != nil {
			if errors.Is(err, domain.ErrRecordExists) {
				// A concurrent writer beat us to this order.
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("failed to record outcome for order %s: %w", order.ID, err)
		}

		if outcome.status == domain.SyncStatusCompleted {
			result.Synced++
		} else {
			result.Failed++
			s.logger.Warn("Order sync failed",
				zap.String("order_id", order.ID),
				zap.String("reason", outcome.message),
			)
		}
	}

	s.logger.Info("Sync batch finished",
		zap.Int("total", result.Total),
		zap.Int("synced", result.Synced),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// performSync replicates one order to the destination and reports the
// outcome. Fail-closed: if any position cannot be resolved, nothing is
// created.
func (s *Service) performSync(ctx context.Context, mapping *domain.CounterpartyMapping, orderID, moment string) syncOutcome {
	positions, err := s.source.ListPositions(ctx, orderID)
	if err != nil {
		return failedOutcome("failed to list order positions: %v", err)
	}

	resolution, err := s.resolver.ResolvePositions(ctx, positions)
	if err != nil {
		return failedOutcome("failed to resolve order positions: %v", err)
	}
	if len(resolution.Failures) > 0 {
		return failedOutcome("%s", strings.Join(resolution.Failures, "\n"))
	}

	payload := BuildPurchaseOrder(mapping, orderID, moment, resolution.Lines)
	created, err := s.destination.CreatePurchaseOrder(ctx, payload)
	if err != nil {
		return failedOutcome("failed to create purchase order: %v", err)
	}
	if !created.Success {
		return failedOutcome("purchase order rejected: %s", created.ErrorMessage)
	}

	// A completed outcome carries no message; the purchase id is the result.
	return syncOutcome{
		status:     domain.SyncStatusCompleted,
		purchaseID: created.PurchaseID,
	}
}

// newRecord builds the persisted record for a freshly synced order.
func (s *Service) newRecord(order *domain.Order, mapping *domain.CounterpartyMapping, outcome syncOutcome) *domain.SyncRecord {
	now := time.Now().UTC()
	return &domain.SyncRecord{
		OrderID:        order.ID,
		CounterpartyID: mapping.ID,
		OrderMoment:    s.parseMoment(order.ID, order.Moment),
		OrderAmount:    order.Sum.Shift(-2),
		SyncTime:       &now,
		Status:         outcome.status,
		Message:        outcome.message,
		PurchaseID:     outcome.purchaseID,
	}
}

// parseMoment parses the source order timestamp. The wire format carries a
// fractional second which time.Parse tolerates without it being in the layout.
func (s *Service) parseMoment(orderID, moment string) time.Time {
	parsed, err := time.Parse(momentLayout, moment)
	if err != nil {
		s.logger.Warn("Unparseable order moment",
			zap.String("order_id", orderID),
			zap.String("moment", moment),
		)
		return time.Now().UTC()
	}
	return parsed
}

// ---------------------------------------------------------------------------
// Retry
// ---------------------------------------------------------------------------

// Retry reruns the sync for one recorded order and overwrites the record with
// the new outcome. The record keeps its row identity; no second record for
// the order ever appears. A completed record may be retried, matching the
// operator-driven nature of the endpoint.
func (s *Service) Retry(ctx context.Context, recordID uint) (*domain.SyncRecord, error) {
	record, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	mapping := record.Counterparty
	if mapping == nil {
		mapping, err = s.mappings.FindByID(ctx, record.CounterpartyID)
		if err != nil {
			// The mapping is gone; persist the failure so the operator sees
			// why the retry went nowhere.
			_ = s.writeOutcome(ctx, record, failedOutcome("mapping %d no longer exists", record.CounterpartyID))
			return nil, err
		}
	}

	outcome := s.performSync(ctx, mapping, record.OrderID, "")
	if err := s.writeOutcome(ctx, record, outcome); err != nil {
		return nil, err
	}

	s.logger.Info("Retry finished",
		zap.Uint("record_id", record.ID),
		zap.String("order_id", record.OrderID),
		zap.String("status", string(record.Status)),
	)
	return record, nil
}

// writeOutcome overwrites the record with a new outcome. The purchase id is
// only replaced when the new attempt produced one, so a failed retry of a
// completed record keeps the original purchase reference visible.
func (s *Service) writeOutcome(ctx context.Context, record *domain.SyncRecord, outcome syncOutcome) error {
	now := time.Now().UTC()
	record.Status = outcome.status
	record.Message = outcome.message
	record.SyncTime = &now
	if outcome.purchaseID != "" {
		record.PurchaseID = outcome.purchaseID
	}
	return s.records.Update(ctx, record)
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// GetRecord returns one sync record
func (s *Service) GetRecord(ctx context.Context, id uint) (*domain.SyncRecord, error) {
	return s.records.FindByID(ctx, id)
}

// ListRecords lists sync records matching the filter
func (s *Service) ListRecords(ctx context.Context, filter domain.RecordFilter) ([]domain.SyncRecord, int64, error) {
	return s.records.List(ctx, filter)
}

// GetStats aggregates counts over mappings and records
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.Mappings, err = s.mappings.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Completed, err = s.records.CountByStatus(ctx, domain.SyncStatusCompleted); err != nil {
		return nil, err
	}
	if stats.Failed, err = s.records.CountByStatus(ctx, domain.SyncStatusFailed); err != nil {
		return nil, err
	}
	stats.Records = stats.Completed + stats.Failed

	return stats, nil
}
