package sales

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
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/location"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/product"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/snapshot"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/stock"
)

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- in-memory collaborators ---

type memSales struct {
	sales map[id.ID]*Sale
}

func newMemSales() *memSales {
	return &memSales{sales: make(map[id.ID]*Sale)}
}

func (m *memSales) Create(_ context.Context, sale *Sale) error {
	m.sales[sale.ID] = sale
	return nil
}

func (m *memSales) GetByID(_ context.Context, saleID id.ID) (*Sale, error) {
	if s, ok := m.sales[saleID]; ok {
		return s, nil
	}
	return nil, apperror.NewNotFound("sale", saleID.String())
}

func (m *memSales) List(_ context.Context, filter ListFilter) ([]*Sale, error) {
	var out []*Sale
	for _, s := range m.sales {
		if filter.LocationID != nil && s.LocationID != *filter.LocationID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type memProducts struct {
	products map[id.ID]*product.Product
}

func newMemProducts() *memProducts {
	return &memProducts{products: make(map[id.ID]*product.Product)}
}

func (m *memProducts) add(name, price string, active bool) id.ID {
	p := &product.Product{
		ID:             id.New(),
		Name:           name,
		PricePerCarton: types.MustMoney(price),
		Active:         active,
		Version:        1,
	}
	m.products[p.ID] = p
	return p.ID
}

func (m *memProducts) Create(_ context.Context, p *product.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *memProducts) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	if p, ok := m.products[productID]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("product", productID.String())
}

func (m *memProducts) Update(_ context.Context, p *product.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *memProducts) SetDeletionMark(_ context.Context, productID id.ID, mark bool) error {
	m.products[productID].DeletionMark = mark
	return nil
}

func (m *memProducts) List(_ context.Context, _ product.ListFilter) ([]*product.Product, error) {
	return nil, nil
}

func (m *memProducts) Exists(_ context.Context, productID id.ID) (bool, error) {
	_, ok := m.products[productID]
	return ok, nil
}

type memLocations struct {
	known map[id.ID]bool
}

func (m *memLocations) Create(_ context.Context, _ *location.Location) error { return nil }
func (m *memLocations) GetByID(_ context.Context, locationID id.ID) (*location.Location, error) {
	return &location.Location{ID: locationID, Name: "Shop", Type: location.TypeShop}, nil
}
func (m *memLocations) Update(_ context.Context, _ *location.Location) error { return nil }
func (m *memLocations) List(_ context.Context) ([]*location.Location, error) { return nil, nil }
func (m *memLocations) Exists(_ context.Context, locationID id.ID) (bool, error) {
	return m.known[locationID], nil
}

type pairKey struct {
	product  id.ID
	location id.ID
}

type memLedger struct {
	entries map[pairKey]int64
}

func newMemLedger() *memLedger {
	return &memLedger{entries: make(map[pairKey]int64)}
}

func (m *memLedger) GetStock(_ context.Context, productID, locationID id.ID) (*stock.Entry, error) {
	return &stock.Entry{
		ProductID:  productID,
		LocationID: locationID,
		Cartons:    m.entries[pairKey{productID, locationID}],
	}, nil
}

func (m *memLedger) GetStockForUpdate(ctx context.Context, productID, locationID id.ID) (*stock.Entry, error) {
	return m.GetStock(ctx, productID, locationID)
}

func (m *memLedger) SetStock(_ context.Context, productID, locationID id.ID, cartons int64) error {
	m.entries[pairKey{productID, locationID}] = cartons
	return nil
}

func (m *memLedger) Decrement(_ context.Context, productID, locationID id.ID, by int64) (int64, error) {
	k := pairKey{productID, locationID}
	next := m.entries[k] - by
	if next < 0 {
		next = 0
	}
	m.entries[k] = next
	return next, nil
}

func (m *memLedger) ListByLocation(_ context.Context, _ id.ID) ([]*stock.Entry, error) {
	return nil, nil
}

func (m *memLedger) ListAll(_ context.Context) ([]*stock.Entry, error) { return nil, nil }

func (m *memLedger) AppendAdjustment(_ context.Context, _ *stock.Adjustment) error { return nil }

func (m *memLedger) ListAdjustments(_ context.Context, _, _ id.ID, _ int) ([]*stock.Adjustment, error) {
	return nil, nil
}

type snapKey struct {
	product  id.ID
	location id.ID
	day      time.Time
}

type memSnapshots struct {
	rows map[snapKey]*snapshot.DailySnapshot
}

func newMemSnapshots() *memSnapshots {
	return &memSnapshots{rows: make(map[snapKey]*snapshot.DailySnapshot)}
}

func (m *memSnapshots) key(productID, locationID id.ID, day time.Time) snapKey {
	return snapKey{productID, locationID, snapshot.Day(day)}
}

func (m *memSnapshots) Get(_ context.Context, productID, locationID id.ID, day time.Time) (*snapshot.DailySnapshot, error) {
	if s, ok := m.rows[m.key(productID, locationID, day)]; ok {
		return s, nil
	}
	return nil, nil
}

func (m *memSnapshots) Create(_ context.Context, snap *snapshot.DailySnapshot) error {
	m.rows[m.key(snap.ProductID, snap.LocationID, snap.Day)] = snap
	return nil
}

func (m *memSnapshots) CreateIfAbsent(ctx context.Context, snap *snapshot.DailySnapshot) (bool, error) {
	if _, ok := m.rows[m.key(snap.ProductID, snap.LocationID, snap.Day)]; ok {
		return false, nil
	}
	return true, m.Create(ctx, snap)
}

func (m *memSnapshots) Reconcile(_ context.Context, productID, locationID id.ID, day time.Time, closing int64) error {
	if s, ok := m.rows[m.key(productID, locationID, day)]; ok {
		if delta := closing - s.Closing; delta > 0 {
			s.Added += delta
		}
		s.Closing = closing
	}
	return nil
}

func (m *memSnapshots) AddSold(_ context.Context, productID, locationID id.ID, day time.Time, cartons int64) error {
	s := m.rows[m.key(productID, locationID, day)]
	s.Sold += cartons
	s.Closing = snapshot.Row{Opening: s.Opening, Added: s.Added, Sold: s.Sold}.Derived()
	return nil
}

func (m *memSnapshots) Override(_ context.Context, snap *snapshot.DailySnapshot) error {
	m.rows[m.key(snap.ProductID, snap.LocationID, snap.Day)] = snap
	return nil
}

func (m *memSnapshots) ExistsForDay(_ context.Context, _ time.Time) (bool, error) {
	return false, nil
}

func (m *memSnapshots) Range(_ context.Context, _ id.ID, _, _ time.Time) ([]*snapshot.DailySnapshot, error) {
	return nil, nil
}

func (m *memSnapshots) SoldOn(_ context.Context, _, _ id.ID, _ time.Time) (int64, error) {
	return 0, nil
}

// --- fixture ---

type fixture struct {
	svc       *Service
	repo      *memSales
	products  *memProducts
	ledger    *memLedger
	snapshots *memSnapshots
	locations *memLocations
}

func newFixture() *fixture {
	products := newMemProducts()
	ledger := newMemLedger()
	snapshots := newMemSnapshots()
	locations := &memLocations{known: make(map[id.ID]bool)}
	repo := newMemSales()

	productService := product.NewService(products)
	snapshotService := snapshot.NewService(snapshots, ledger, noopTxManager{})

	return &fixture{
		svc: NewService(
			repo, productService, locations, ledger, snapshotService,
			noopTxManager{}, DefaultRetries,
		),
		repo:      repo,
		products:  products,
		ledger:    ledger,
		snapshots: snapshots,
		locations: locations,
	}
}

func (f *fixture) location() id.ID {
	locationID := id.New()
	f.locations.known[locationID] = true
	return locationID
}

func staffCtx() context.Context {
	return appctx.WithActor(context.Background(), &appctx.Actor{
		UserID: "u-1",
		Name:   "Shop Attendant",
		Role:   appctx.RoleStoreStaff,
	})
}

// --- tests ---

func TestRecordSale_DecrementsStockAndUpdatesSnapshot(t *testing.T) {
	f := newFixture()
	locationID := f.location()
	productID := f.products.add("Cream Crackers", "4500", true)
	require.NoError(t, f.ledger.SetStock(context.Background(), productID, locationID, 5))

	sale, err := f.svc.RecordSale(staffCtx(), RecordSaleInput{
		LocationID:   locationID,
		CustomerName: "Walk-in",
		Items:        []InputItem{{ProductID: productID, Cartons: 2}},
	})
	require.NoError(t, err)

	assert.True(t, types.MustMoney("9000").Equal(sale.TotalAmount))
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Cream Crackers", sale.Items[0].ProductName)
	assert.True(t, types.MustMoney("4500").Equal(sale.Items[0].PricePerCarton))
	assert.Equal(t, "u-1", sale.CreatedBy)

	entry, err := f.ledger.GetStock(context.Background(), productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), entry.Cartons)

	snap, err := f.snapshots.Get(context.Background(), productID, locationID, snapshot.Today())
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(2), snap.Sold)
	assert.Equal(t, int64(3), snap.Closing)
}

func TestRecordSale_RejectsOversell(t *testing.T) {
	f := newFixture()
	locationID := f.location()
	productID := f.products.add("Sugar", "2000", true)
	require.NoError(t, f.ledger.SetStock(context.Background(), productID, locationID, 3))

	_, err := f.svc.RecordSale(staffCtx(), RecordSaleInput{
		LocationID:   locationID,
		CustomerName: "Walk-in",
		Items:        []InputItem{{ProductID: productID, Cartons: 5}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Nothing was persisted or decremented.
	assert.Empty(t, f.repo.sales)
	entry, err := f.ledger.GetStock(context.Background(), productID, locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), entry.Cartons)
}

func TestRecordSale_AnyInsufficientItemRejectsWholeSale(t *testing.T) {
	f := newFixture()
	locationID := f.location()
	okProduct := f.products.add("Flour", "3000", true)
	shortProduct := f.products.add("Rice", "8000", true)
	require.NoError(t, f.ledger.SetStock(context.Background(), okProduct, locationID, 10))
	require.NoError(t, f.ledger.SetStock(context.Background(), shortProduct, locationID, 1))

	_, err := f.svc.RecordSale(staffCtx(), RecordSaleInput{
		LocationID:   locationID,
		CustomerName: "Walk-in",
		Items: []InputItem{
			{ProductID: okProduct, Cartons: 2},
			{ProductID: shortProduct, Cartons: 2},
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	entry, err := f.ledger.GetStock(context.Background(), okProduct, locationID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), entry.Cartons)
}

func TestRecordSale_TotalsComputedServerSide(t *testing.T) {
	f := newFixture()
	locationID := f.location()
	crackers := f.products.add("Cream Crackers", "4500", true)
	sugar := f.products.add("Sugar", "2000", true)
	require.NoError(t, f.ledger.SetStock(context.Background(), crackers, locationID, 10))
	require.NoError(t, f.ledger.SetStock(context.Background(), sugar, locationID, 10))

	sale, err := f.svc.RecordSale(staffCtx(), RecordSaleInput{
		LocationID:   locationID,
		CustomerName: "Mrs. Adeyemi",
		Items: []InputItem{
			{ProductID: crackers, Cartons: 2},
			{ProductID: sugar, Cartons: 3},
		},
	})
	require.NoError(t, err)
	assert.True(t, types.MustMoney("15000").Equal(sale.TotalAmount))
}

func TestRecordSale_RejectsInactiveProduct(t *testing.T) {
	f := newFixture()
	locationID := f.location()
	productID := f.products.add("Discontinued", "1000", false)
	require.NoError(t, f.ledger.SetStock(context.Background(), productID, locationID, 10))

	_, err := f.svc.RecordSale(staffCtx(), RecordSaleInput{
		LocationID:   locationID,
		CustomerName: "Walk-in",
		Items:        []InputItem{{ProductID: productID, Cartons: 1}},
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "PRODUCT_INACTIVE", appErr.Code)
}

func TestRecordSale_ValidatesInput(t *testing.T) {
	f := newFixture()
	locationID := f.location()
	productID := f.products.add("Sugar", "2000", true)

	tests := []struct {
		name  string
		input RecordSaleInput
	}{
		{
			"missing customer name",
			RecordSaleInput{
				LocationID: locationID,
				Items:      []InputItem{{ProductID: productID, Cartons: 1}},
			},
		},
		{
			"no items",
			RecordSaleInput{LocationID: locationID, CustomerName: "X"},
		},
		{
			"zero cartons",
			RecordSaleInput{
				LocationID:   locationID,
				CustomerName: "X",
				Items:        []InputItem{{ProductID: productID, Cartons: 0}},
			},
		},
		{
			"duplicate product",
			RecordSaleInput{
				LocationID:   locationID,
				CustomerName: "X",
				Items: []InputItem{
					{ProductID: productID, Cartons: 1},
					{ProductID: productID, Cartons: 2},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.RecordSale(staffCtx(), tt.input)
			assert.Error(t, err)
		})
	}
}

func TestRecordSale_UnknownLocation(t *testing.T) {
	f := newFixture()
	productID := f.products.add("Sugar", "2000", true)

	_, err := f.svc.RecordSale(staffCtx(), RecordSaleInput{
		LocationID:   id.New(),
		CustomerName: "Walk-in",
		Items:        []InputItem{{ProductID: productID, Cartons: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestList_ShopStaffForcedToOwnLocation(t *testing.T) {
	f := newFixture()
	own := f.location()
	other := f.location()
	productID := f.products.add("Sugar", "2000", true)
	require.NoError(t, f.ledger.SetStock(context.Background(), productID, own, 10))
	require.NoError(t, f.ledger.SetStock(context.Background(), productID, other, 10))

	shopCtx := appctx.WithActor(context.Background(), &appctx.Actor{
		UserID:     "u-2",
		Role:       appctx.RoleShopStaff,
		LocationID: own.String(),
	})

	_, err := f.svc.RecordSale(shopCtx, RecordSaleInput{
		LocationID:   own,
		CustomerName: "Walk-in",
		Items:        []InputItem{{ProductID: productID, Cartons: 1}},
	})
	require.NoError(t, err)

	_, err = f.svc.RecordSale(staffCtx(), RecordSaleInput{
		LocationID:   other,
		CustomerName: "Walk-in",
		Items:        []InputItem{{ProductID: productID, Cartons: 1}},
	})
	require.NoError(t, err)

	listed, err := f.svc.List(shopCtx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, own, listed[0].LocationID)
}
