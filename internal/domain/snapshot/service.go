package snapshot

import (
	"context"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/authz"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/tx"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/stock"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/pkg/logger"
)

// Service provides the daily snapshot engine.
type Service struct {
	repo      Repository
	ledger    stock.Repository
	txManager tx.Manager
}

// NewService creates a snapshot service.
func NewService(repo Repository, ledger stock.Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, ledger: ledger, txManager: txManager}
}

// GetRow returns the snapshot for a key. A persisted row is returned
// verbatim. For today with no row yet, a live approximation is
// computed on read and never persisted: sold comes from today's sale
// lines and opening is back-derived so that closing equals live stock.
// For a past day with no row, all counters are zero.
func (s *Service) GetRow(ctx context.Context, productID, locationID id.ID, day time.Time) (*DailySnapshot, error) {
	if err := authz.AuthorizeLocation(ctx, authz.OpSnapshotRead, locationID.String()); err != nil {
		return nil, err
	}

	day = Day(day)
	snap, err := s.repo.Get(ctx, productID, locationID, day)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		return snap, nil
	}

	zero := &DailySnapshot{ProductID: productID, LocationID: locationID, Day: day}
	if !day.Equal(Today()) {
		return zero, nil
	}

	entry, err := s.ledger.GetStock(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	sold, err := s.repo.SoldOn(ctx, productID, locationID, day)
	if err != nil {
		return nil, err
	}

	zero.Opening = entry.Cartons + sold
	zero.Sold = sold
	zero.Closing = entry.Cartons
	return zero, nil
}

// ApplySale increments today's sold counter for a pair, creating the
// row if needed, and recomputes closing clamped at zero. Callers run
// it in the same transaction as the ledger decrement, after the
// decrement has been applied.
func (s *Service) ApplySale(ctx context.Context, productID, locationID id.ID, cartons int64, at time.Time) error {
	if cartons <= 0 {
		return apperror.NewInvalidQuantity("sold cartons must be positive").
			WithDetail("cartons", cartons)
	}

	day := Day(at)
	snap, err := s.repo.Get(ctx, productID, locationID, day)
	if err != nil {
		return err
	}
	if snap != nil {
		return s.repo.AddSold(ctx, productID, locationID, day, cartons)
	}

	opening, err := s.openingFor(ctx, productID, locationID, day, cartons)
	if err != nil {
		return err
	}

	row := Row{Opening: opening, Sold: cartons}
	return s.repo.Create(ctx, &DailySnapshot{
		ProductID:  productID,
		LocationID: locationID,
		Day:        day,
		Opening:    opening,
		Sold:       cartons,
		Closing:    row.Derived(),
		UpdatedAt:  time.Now().UTC(),
	})
}

// openingFor resolves the bootstrap opening count: the prior day's
// closing, or the live count when no prior snapshot exists. The live
// count already reflects the decrement of the sale being applied, so
// the cartons of that sale are added back.
func (s *Service) openingFor(ctx context.Context, productID, locationID id.ID, day time.Time, applying int64) (int64, error) {
	prior, err := s.repo.Get(ctx, productID, locationID, day.AddDate(0, 0, -1))
	if err != nil {
		return 0, err
	}
	if prior != nil {
		return prior.Closing, nil
	}

	entry, err := s.ledger.GetStock(ctx, productID, locationID)
	if err != nil {
		return 0, err
	}
	return entry.Cartons + applying, nil
}

// ApplyAdjustment folds a manual ledger correction into the day's
// persisted row, if one exists: closing becomes the corrected count
// and increases land in added, keeping the row arithmetic intact.
// With no persisted row nothing is written; the live read derives the
// same numbers. Callers run it in the same transaction as the ledger
// write.
func (s *Service) ApplyAdjustment(ctx context.Context, productID, locationID id.ID, at time.Time, corrected int64) error {
	return s.repo.Reconcile(ctx, productID, locationID, Day(at), corrected)
}

// OverrideItem is one edited row in a bulk override.
type OverrideItem struct {
	ProductID id.ID
	Row       Row
}

// BulkOverride persists edited rows verbatim. Closing is taken as
// given, not recomputed, so a supervisor can correct drift that the
// arithmetic identity would otherwise preserve. When day is today the
// live ledger is overwritten with each row's closing count.
func (s *Service) BulkOverride(ctx context.Context, locationID id.ID, day time.Time, items []OverrideItem) error {
	if err := authz.Authorize(ctx, authz.OpSnapshotOverride); err != nil {
		return err
	}
	if len(items) == 0 {
		return apperror.NewValidation("no rows to override")
	}

	day = Day(day)
	isToday := day.Equal(Today())

	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		for _, item := range items {
			snap := &DailySnapshot{
				ProductID:  item.ProductID,
				LocationID: locationID,
				Day:        day,
				Opening:    item.Row.Opening,
				Added:      item.Row.Added,
				Sold:       item.Row.Sold,
				Closing:    item.Row.Closing,
				Manual:     true,
				UpdatedAt:  time.Now().UTC(),
			}
			if err := snap.Validate(txCtx); err != nil {
				return err
			}
			if err := s.repo.Override(txCtx, snap); err != nil {
				return err
			}
			if isToday {
				if err := s.ledger.SetStock(txCtx, item.ProductID, locationID, item.Row.Closing); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "snapshots overridden",
		"location_id", locationID,
		"day", day.Format(time.DateOnly),
		"rows", len(items),
		"ledger_updated", isToday,
	)
	return nil
}

// RunDailyRollover creates the day's snapshot rows for every pair with
// a live ledger entry: opening carries over from yesterday's closing
// (live count when no prior row), added and sold start at zero, and
// closing mirrors the live count. If any row already exists for the
// day the entire rollover is a no-op, so overlapping scheduler ticks
// are harmless; rows created mid-tick by a first sale are kept as is.
func (s *Service) RunDailyRollover(ctx context.Context, day time.Time) error {
	day = Day(day)

	return s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.ExistsForDay(txCtx, day)
		if err != nil {
			return err
		}
		if exists {
			logger.Debug(txCtx, "rollover skipped, rows already exist",
				"day", day.Format(time.DateOnly))
			return nil
		}

		entries, err := s.ledger.ListAll(txCtx)
		if err != nil {
			return err
		}

		created := 0
		for _, e := range entries {
			prior, err := s.repo.Get(txCtx, e.ProductID, e.LocationID, day.AddDate(0, 0, -1))
			if err != nil {
				return err
			}

			opening := e.Cartons
			if prior != nil {
				opening = prior.Closing
			}

			// A sale committing mid-tick may have created the row
			// already; its counters win over the rollover's.
			inserted, err := s.repo.CreateIfAbsent(txCtx, &DailySnapshot{
				ProductID:  e.ProductID,
				LocationID: e.LocationID,
				Day:        day,
				Opening:    opening,
				Closing:    e.Cartons,
				UpdatedAt:  time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			if inserted {
				created++
			}
		}

		logger.Info(txCtx, "daily rollover completed",
			"day", day.Format(time.DateOnly),
			"rows_created", created,
		)
		return nil
	})
}

// Range returns persisted snapshots for a location over an inclusive
// date range.
func (s *Service) Range(ctx context.Context, locationID id.ID, from, to time.Time) ([]*DailySnapshot, error) {
	if err := authz.AuthorizeLocation(ctx, authz.OpSnapshotRead, locationID.String()); err != nil {
		return nil, err
	}

	from, to = Day(from), Day(to)
	if to.Before(from) {
		return nil, apperror.NewValidation("date range end precedes start").
			WithDetail("from", from.Format(time.DateOnly)).
			WithDetail("to", to.Format(time.DateOnly))
	}
	return s.repo.Range(ctx, locationID, from, to)
}
