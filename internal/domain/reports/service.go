package reports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/authz"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/sales"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/snapshot"
)

// Service builds read projections over the sale and snapshot ledgers.
type Service struct {
	sales     sales.Repository
	snapshots snapshot.Repository
}

// NewService creates a reports service.
func NewService(salesRepo sales.Repository, snapshotRepo snapshot.Repository) *Service {
	return &Service{sales: salesRepo, snapshots: snapshotRepo}
}

// Receipt returns the printable projection of a completed sale.
func (s *Service) Receipt(ctx context.Context, saleID id.ID) (*Receipt, error) {
	if err := authz.Authorize(ctx, authz.OpReportRead); err != nil {
		return nil, err
	}

	sale, err := s.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	receiptType := "sale"
	if sale.OrderID != nil {
		receiptType = "order"
	}

	r := &Receipt{
		Type:          receiptType,
		ReceiptNumber: receiptNumber(sale.ID),
		Date:          sale.CreatedAt,
		CustomerName:  sale.CustomerName,
		Total:         sale.TotalAmount,
		Items:         make([]ReceiptItem, 0, len(sale.Items)),
	}
	for _, item := range sale.Items {
		r.Items = append(r.Items, ReceiptItem{
			Name:           item.ProductName,
			Cartons:        item.Cartons,
			PricePerCarton: item.PricePerCarton,
		})
	}
	return r, nil
}

// receiptNumber renders a short human-readable number from the sale
// id. Collisions are acceptable for printing; the sale id remains the
// durable identifier.
func receiptNumber(saleID id.ID) string {
	compact := strings.ReplaceAll(saleID.String(), "-", "")
	return fmt.Sprintf("R-%s", strings.ToUpper(compact[:8]))
}

// SalesByDateRange returns sale headers for an export.
func (s *Service) SalesByDateRange(ctx context.Context, filter SalesFilter) ([]*sales.Sale, error) {
	if err := authz.Authorize(ctx, authz.OpReportRead); err != nil {
		return nil, err
	}
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	return s.sales.List(ctx, sales.ListFilter{
		LocationID: filter.LocationID,
		From:       filter.From,
		To:         filter.To,
		Limit:      limit,
		Offset:     filter.Offset,
	})
}

// SnapshotsByDateRange returns snapshot rows for an export.
func (s *Service) SnapshotsByDateRange(ctx context.Context, filter SnapshotsFilter) ([]*snapshot.DailySnapshot, error) {
	if err := authz.Authorize(ctx, authz.OpReportRead); err != nil {
		return nil, err
	}
	if err := validateRange(filter.From, filter.To); err != nil {
		return nil, err
	}
	return s.snapshots.Range(ctx, filter.LocationID, snapshot.Day(filter.From), snapshot.Day(filter.To))
}

func validateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return apperror.NewValidation("date range is required").
			WithDetail("fields", "from, to")
	}
	if to.Before(from) {
		return apperror.NewValidation("date range end precedes start")
	}
	return nil
}
