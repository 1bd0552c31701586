package stock

import (
	"context"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/appctx"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/authz"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/tx"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/pkg/logger"
)

// SnapshotWriter keeps the day's snapshot row in step with manual
// ledger corrections.
type SnapshotWriter interface {
	ApplyAdjustment(ctx context.Context, productID, locationID id.ID, at time.Time, corrected int64) error
}

// Service provides business operations on the stock ledger.
type Service struct {
	repo      Repository
	snapshots SnapshotWriter
	txManager tx.Manager
}

// NewService creates a stock service. snapshots may be nil; adjustments
// then leave snapshot rows untouched.
func NewService(repo Repository, snapshots SnapshotWriter, txManager tx.Manager) *Service {
	return &Service{repo: repo, snapshots: snapshots, txManager: txManager}
}

// GetStock returns the current carton count for a pair. Unknown pairs
// read as zero.
func (s *Service) GetStock(ctx context.Context, productID, locationID id.ID) (*Entry, error) {
	if err := authz.AuthorizeLocation(ctx, authz.OpStockRead, locationID.String()); err != nil {
		return nil, err
	}
	return s.repo.GetStock(ctx, productID, locationID)
}

// ListByLocation returns all ledger entries at a location.
func (s *Service) ListByLocation(ctx context.Context, locationID id.ID) ([]*Entry, error) {
	if err := authz.AuthorizeLocation(ctx, authz.OpStockRead, locationID.String()); err != nil {
		return nil, err
	}
	return s.repo.ListByLocation(ctx, locationID)
}

// AdjustInput carries an absolute manual correction of the ledger.
type AdjustInput struct {
	ProductID  id.ID
	LocationID id.ID
	NewCartons int64
	Reason     string
}

// Adjust sets a pair's count to an absolute value and records why. The
// read, the write, the history row and the snapshot reconciliation all
// commit together.
func (s *Service) Adjust(ctx context.Context, input AdjustInput) (*Adjustment, error) {
	if err := authz.Authorize(ctx, authz.OpStockAdjust); err != nil {
		return nil, err
	}

	if input.NewCartons < 0 {
		return nil, apperror.NewInvalidQuantity("carton count cannot be negative").
			WithDetail("newCartons", input.NewCartons)
	}

	var adj *Adjustment
	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetStockForUpdate(txCtx, input.ProductID, input.LocationID)
		if err != nil {
			return err
		}

		adj = &Adjustment{
			ID:              id.New(),
			ProductID:       input.ProductID,
			LocationID:      input.LocationID,
			PreviousCartons: current.Cartons,
			NewCartons:      input.NewCartons,
			Reason:          input.Reason,
			AdjustedBy:      appctx.GetUserID(txCtx),
			CreatedAt:       time.Now().UTC(),
		}
		if err := adj.Validate(txCtx); err != nil {
			return err
		}

		if err := s.repo.SetStock(txCtx, input.ProductID, input.LocationID, input.NewCartons); err != nil {
			return err
		}
		if err := s.repo.AppendAdjustment(txCtx, adj); err != nil {
			return err
		}

		// Today's persisted snapshot must keep tracking the live count.
		if s.snapshots != nil {
			return s.snapshots.ApplyAdjustment(txCtx, input.ProductID, input.LocationID, adj.CreatedAt, input.NewCartons)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock adjusted",
		"product_id", input.ProductID,
		"location_id", input.LocationID,
		"previous", adj.PreviousCartons,
		"new", adj.NewCartons,
		"reason", adj.Reason,
	)
	return adj, nil
}

// AdjustmentHistory returns recent adjustments for a pair.
func (s *Service) AdjustmentHistory(ctx context.Context, productID, locationID id.ID, limit int) ([]*Adjustment, error) {
	if err := authz.Authorize(ctx, authz.OpStockAdjust); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListAdjustments(ctx, productID, locationID, limit)
}
