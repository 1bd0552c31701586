package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/appctx"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/types"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/sales"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/snapshot"
)

type memSales struct {
	sales map[id.ID]*sales.Sale
}

func (m *memSales) Create(_ context.Context, sale *sales.Sale) error {
	m.sales[sale.ID] = sale
	return nil
}

func (m *memSales) GetByID(_ context.Context, saleID id.ID) (*sales.Sale, error) {
	if s, ok := m.sales[saleID]; ok {
		return s, nil
	}
	return nil, apperror.NewNotFound("sale", saleID.String())
}

func (m *memSales) List(_ context.Context, _ sales.ListFilter) ([]*sales.Sale, error) {
	return nil, nil
}

type memSnapshots struct{}

func (memSnapshots) Get(_ context.Context, _, _ id.ID, _ time.Time) (*snapshot.DailySnapshot, error) {
	return nil, nil
}
func (memSnapshots) Create(_ context.Context, _ *snapshot.DailySnapshot) error { return nil }
func (memSnapshots) CreateIfAbsent(_ context.Context, _ *snapshot.DailySnapshot) (bool, error) {
	return true, nil
}
func (memSnapshots) Reconcile(_ context.Context, _, _ id.ID, _ time.Time, _ int64) error {
	return nil
}
func (memSnapshots) AddSold(_ context.Context, _, _ id.ID, _ time.Time, _ int64) error {
	return nil
}
func (memSnapshots) Override(_ context.Context, _ *snapshot.DailySnapshot) error { return nil }
func (memSnapshots) ExistsForDay(_ context.Context, _ time.Time) (bool, error)   { return false, nil }
func (memSnapshots) Range(_ context.Context, _ id.ID, _, _ time.Time) ([]*snapshot.DailySnapshot, error) {
	return nil, nil
}
func (memSnapshots) SoldOn(_ context.Context, _, _ id.ID, _ time.Time) (int64, error) {
	return 0, nil
}

func staffCtx() context.Context {
	return appctx.WithActor(context.Background(), &appctx.Actor{
		UserID: "u-1",
		Role:   appctx.RoleStoreStaff,
	})
}

func TestReceipt_TypeFollowsOrigin(t *testing.T) {
	store := &memSales{sales: make(map[id.ID]*sales.Sale)}
	svc := NewService(store, memSnapshots{})

	walkIn := &sales.Sale{
		ID:           id.New(),
		LocationID:   id.New(),
		CustomerName: "Walk-in",
		TotalAmount:  types.MustMoney("9000"),
		CreatedAt:    time.Now().UTC(),
		Items: []*sales.Item{
			{ProductName: "Cream Crackers", Cartons: 2, PricePerCarton: types.MustMoney("4500")},
		},
	}
	require.NoError(t, store.Create(context.Background(), walkIn))

	orderID := id.New()
	fulfillment := &sales.Sale{
		ID:           id.New(),
		LocationID:   id.New(),
		CustomerName: "Mrs. Adeyemi",
		OrderID:      &orderID,
		TotalAmount:  types.MustMoney("4500"),
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.Create(context.Background(), fulfillment))

	r, err := svc.Receipt(staffCtx(), walkIn.ID)
	require.NoError(t, err)
	assert.Equal(t, "sale", r.Type)
	assert.Equal(t, "Walk-in", r.CustomerName)
	require.Len(t, r.Items, 1)
	assert.Equal(t, "Cream Crackers", r.Items[0].Name)
	assert.True(t, types.MustMoney("9000").Equal(r.Total))

	r, err = svc.Receipt(staffCtx(), fulfillment.ID)
	require.NoError(t, err)
	assert.Equal(t, "order", r.Type)
}

func TestReceiptNumber_ShortAndStable(t *testing.T) {
	saleID := id.MustParse("0191a2b3-c4d5-7e6f-8a9b-0c1d2e3f4a5b")

	num := receiptNumber(saleID)
	assert.Equal(t, "R-0191A2B3", num)
	assert.Equal(t, num, receiptNumber(saleID))
}

func TestSalesByDateRange_RequiresRange(t *testing.T) {
	svc := NewService(&memSales{sales: make(map[id.ID]*sales.Sale)}, memSnapshots{})

	_, err := svc.SalesByDateRange(staffCtx(), SalesFilter{})
	require.Error(t, err)

	now := time.Now()
	_, err = svc.SalesByDateRange(staffCtx(), SalesFilter{From: now, To: now.AddDate(0, 0, -1)})
	require.Error(t, err)

	_, err = svc.SalesByDateRange(staffCtx(), SalesFilter{From: now.AddDate(0, 0, -7), To: now})
	require.NoError(t, err)
}

func TestReceipt_DeniedForCustomer(t *testing.T) {
	svc := NewService(&memSales{sales: make(map[id.ID]*sales.Sale)}, memSnapshots{})

	ctx := appctx.WithActor(context.Background(), &appctx.Actor{
		UserID:   "c-1",
		Role:     appctx.RoleCustomer,
		Approved: true,
	})
	_, err := svc.Receipt(ctx, id.New())
	require.Error(t, err)
}
