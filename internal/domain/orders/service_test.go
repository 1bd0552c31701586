package orders

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
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/sales"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/snapshot"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/stock"
)

type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- in-memory collaborators ---

type memOrders struct {
	orders map[id.ID]*Order
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[id.ID]*Order)}
}

func (m *memOrders) Create(_ context.Context, order *Order) error {
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *memOrders) GetByID(_ context.Context, orderID id.ID) (*Order, error) {
	if o, ok := m.orders[orderID]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, apperror.NewNotFound("order", orderID.String())
}

func (m *memOrders) GetForUpdate(ctx context.Context, orderID id.ID) (*Order, error) {
	return m.GetByID(ctx, orderID)
}

func (m *memOrders) Update(_ context.Context, order *Order) error {
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *memOrders) List(_ context.Context, filter ListFilter) ([]*Order, error) {
	var out []*Order
	for _, o := range m.orders {
		if filter.CustomerID != "" && o.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type memProducts struct {
	products map[id.ID]*product.Product
}

func newMemProducts() *memProducts {
	return &memProducts{products: make(map[id.ID]*product.Product)}
}

func (m *memProducts) add(name, price string) id.ID {
	p := &product.Product{
		ID:             id.New(),
		Name:           name,
		PricePerCarton: types.MustMoney(price),
		Active:         true,
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

type memLocations struct{}

func (memLocations) Create(_ context.Context, _ *location.Location) error { return nil }
func (memLocations) GetByID(_ context.Context, locationID id.ID) (*location.Location, error) {
	return &location.Location{ID: locationID, Name: "Store", Type: location.TypeStore}, nil
}
func (memLocations) Update(_ context.Context, _ *location.Location) error { return nil }
func (memLocations) List(_ context.Context) ([]*location.Location, error) { return nil, nil }
func (memLocations) Exists(_ context.Context, _ id.ID) (bool, error)      { return true, nil }

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
func (m *memLedger) ListAll(_ context.Context) ([]*stock.Entry, error)             { return nil, nil }
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

func (m *memSnapshots) ExistsForDay(_ context.Context, _ time.Time) (bool, error) { return false, nil }
func (m *memSnapshots) Range(_ context.Context, _ id.ID, _, _ time.Time) ([]*snapshot.DailySnapshot, error) {
	return nil, nil
}
func (m *memSnapshots) SoldOn(_ context.Context, _, _ id.ID, _ time.Time) (int64, error) {
	return 0, nil
}

type memSaleStore struct {
	sales map[id.ID]*sales.Sale
}

func (m *memSaleStore) Create(_ context.Context, sale *sales.Sale) error {
	m.sales[sale.ID] = sale
	return nil
}

func (m *memSaleStore) GetByID(_ context.Context, saleID id.ID) (*sales.Sale, error) {
	if s, ok := m.sales[saleID]; ok {
		return s, nil
	}
	return nil, apperror.NewNotFound("sale", saleID.String())
}

func (m *memSaleStore) List(_ context.Context, _ sales.ListFilter) ([]*sales.Sale, error) {
	return nil, nil
}

type capturingNotifier struct {
	published []Notification
}

func (n *capturingNotifier) Publish(_ context.Context, notification Notification) error {
	n.published = append(n.published, notification)
	return nil
}

// --- fixture ---

type fixture struct {
	svc       *Service
	repo      *memOrders
	products  *memProducts
	ledger    *memLedger
	saleStore *memSaleStore
	notifier  *capturingNotifier
	storeID   id.ID
}

func newFixture() *fixture {
	products := newMemProducts()
	ledger := newMemLedger()
	saleStore := &memSaleStore{sales: make(map[id.ID]*sales.Sale)}
	notifier := &capturingNotifier{}
	repo := newMemOrders()
	storeID := id.New()

	productService := product.NewService(products)
	snapshotService := snapshot.NewService(newMemSnapshots(), ledger, noopTxManager{})
	salesService := sales.NewService(
		saleStore, productService, memLocations{}, ledger, snapshotService,
		noopTxManager{}, sales.DefaultRetries,
	)

	return &fixture{
		svc: NewService(
			repo, productService, salesService, noopTxManager{}, notifier, storeID,
			sales.DefaultRetries,
		),
		repo:      repo,
		products:  products,
		ledger:    ledger,
		saleStore: saleStore,
		notifier:  notifier,
		storeID:   storeID,
	}
}

func customerCtx(userID string) context.Context {
	return appctx.WithActor(context.Background(), &appctx.Actor{
		UserID:   userID,
		Name:     "Mrs. Adeyemi",
		Role:     appctx.RoleCustomer,
		Approved: true,
	})
}

func staffCtx() context.Context {
	return appctx.WithActor(context.Background(), &appctx.Actor{
		UserID: "staff-1",
		Name:   "Store Keeper",
		Role:   appctx.RoleStoreStaff,
	})
}

// --- tests ---

func TestCreate_PricesFromCatalogAndNotifiesStaff(t *testing.T) {
	f := newFixture()
	productID := f.products.add("Cream Crackers", "4500")

	order, err := f.svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, "c-1", order.CustomerID)
	assert.True(t, types.MustMoney("13500").Equal(order.TotalAmount))

	require.Len(t, f.notifier.published, 1)
	assert.Equal(t, "order_created", f.notifier.published[0].Type)
	assert.Contains(t, f.notifier.published[0].TargetRoles, string(appctx.RoleStoreStaff))
}

func TestCreate_ReservesNoStock(t *testing.T) {
	f := newFixture()
	productID := f.products.add("Sugar", "2000")
	require.NoError(t, f.ledger.SetStock(context.Background(), productID, f.storeID, 10))

	_, err := f.svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 4},
	})
	require.NoError(t, err)

	entry, err := f.ledger.GetStock(context.Background(), productID, f.storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), entry.Cartons)
}

func TestCreate_DeniedForStaff(t *testing.T) {
	f := newFixture()
	productID := f.products.add("Sugar", "2000")

	_, err := f.svc.Create(staffCtx(), []sales.InputItem{
		{ProductID: productID, Cartons: 1},
	})
	require.Error(t, err)
}

func TestApprove_SetsApprovalFields(t *testing.T) {
	f := newFixture()
	productID := f.products.add("Sugar", "2000")
	order, err := f.svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 1},
	})
	require.NoError(t, err)

	approved, err := f.svc.Approve(staffCtx(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "staff-1", *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
}

func TestFulfill_DecrementsStoreAndLinksSale(t *testing.T) {
	f := newFixture()
	productID := f.products.add("Cream Crackers", "4500")
	require.NoError(t, f.ledger.SetStock(context.Background(), productID, f.storeID, 10))

	order, err := f.svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 4},
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(staffCtx(), order.ID)
	require.NoError(t, err)

	fulfilled, err := f.svc.Fulfill(staffCtx(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusFulfilled, fulfilled.Status)
	require.NotNil(t, fulfilled.SaleID)
	assert.NotNil(t, fulfilled.FulfilledAt)

	entry, err := f.ledger.GetStock(context.Background(), productID, f.storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), entry.Cartons)

	sale, err := f.saleStore.GetByID(context.Background(), *fulfilled.SaleID)
	require.NoError(t, err)
	require.NotNil(t, sale.OrderID)
	assert.Equal(t, order.ID, *sale.OrderID)
	assert.Equal(t, f.storeID, sale.LocationID)
	assert.True(t, order.TotalAmount.Equal(sale.TotalAmount))
}

func TestFulfill_InsufficientStockLeavesOrderApproved(t *testing.T) {
	f := newFixture()
	productID := f.products.add("Rice", "8000")
	require.NoError(t, f.ledger.SetStock(context.Background(), productID, f.storeID, 2))

	order, err := f.svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 5},
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(staffCtx(), order.ID)
	require.NoError(t, err)

	_, err = f.svc.Fulfill(staffCtx(), order.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	stored, err := f.repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
	assert.Nil(t, stored.SaleID)

	entry, err := f.ledger.GetStock(context.Background(), productID, f.storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.Cartons)
}

// flakyOrders surfaces concurrency conflicts from the locked read, as
// a contended row would.
type flakyOrders struct {
	*memOrders
	conflicts int
}

func (f *flakyOrders) GetForUpdate(ctx context.Context, orderID id.ID) (*Order, error) {
	if f.conflicts > 0 {
		f.conflicts--
		return nil, apperror.NewConcurrencyConflict("order", orderID.String())
	}
	return f.memOrders.GetForUpdate(ctx, orderID)
}

func TestFulfill_RetriesOnConcurrencyConflict(t *testing.T) {
	products := newMemProducts()
	ledger := newMemLedger()
	saleStore := &memSaleStore{sales: make(map[id.ID]*sales.Sale)}
	repo := &flakyOrders{memOrders: newMemOrders()}
	storeID := id.New()

	productService := product.NewService(products)
	snapshotService := snapshot.NewService(newMemSnapshots(), ledger, noopTxManager{})
	salesService := sales.NewService(
		saleStore, productService, memLocations{}, ledger, snapshotService,
		noopTxManager{}, sales.DefaultRetries,
	)
	svc := NewService(
		repo, productService, salesService, noopTxManager{}, nil, storeID,
		sales.DefaultRetries,
	)

	productID := products.add("Cream Crackers", "4500")
	require.NoError(t, ledger.SetStock(context.Background(), productID, storeID, 10))

	order, err := svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 4},
	})
	require.NoError(t, err)
	_, err = svc.Approve(staffCtx(), order.ID)
	require.NoError(t, err)

	// One conflict is absorbed transparently.
	repo.conflicts = 1
	fulfilled, err := svc.Fulfill(staffCtx(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFulfilled, fulfilled.Status)

	entry, err := ledger.GetStock(context.Background(), productID, storeID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), entry.Cartons)
}

func TestFulfill_SurfacesConflictAfterRetriesExhausted(t *testing.T) {
	f := newFixture()
	flaky := &flakyOrders{memOrders: f.repo}
	f.svc.repo = flaky

	productID := f.products.add("Sugar", "2000")
	require.NoError(t, f.ledger.SetStock(context.Background(), productID, f.storeID, 10))

	order, err := f.svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 1},
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(staffCtx(), order.ID)
	require.NoError(t, err)

	flaky.conflicts = sales.DefaultRetries + 1
	_, err = f.svc.Fulfill(staffCtx(), order.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsConcurrencyConflict(err))

	stored, err := f.repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
}

func TestFulfill_RequiresApprovedState(t *testing.T) {
	f := newFixture()
	productID := f.products.add("Sugar", "2000")
	require.NoError(t, f.ledger.SetStock(context.Background(), productID, f.storeID, 10))

	order, err := f.svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 1},
	})
	require.NoError(t, err)

	_, err = f.svc.Fulfill(staffCtx(), order.ID)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOrderState, appErr.Code)
}

func TestFulfill_StoreNotConfigured(t *testing.T) {
	f := newFixture()
	f.svc.storeLocationID = id.Nil()
	productID := f.products.add("Sugar", "2000")

	order, err := f.svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 1},
	})
	require.NoError(t, err)
	_, err = f.svc.Approve(staffCtx(), order.ID)
	require.NoError(t, err)

	_, err = f.svc.Fulfill(staffCtx(), order.ID)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "STORE_NOT_CONFIGURED", appErr.Code)
}

func TestReject_TerminalFromPendingAndApproved(t *testing.T) {
	f := newFixture()
	productID := f.products.add("Sugar", "2000")

	order, err := f.svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 1},
	})
	require.NoError(t, err)

	rejected, err := f.svc.Reject(staffCtx(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	// No further transitions out of rejected.
	_, err = f.svc.Approve(staffCtx(), order.ID)
	require.Error(t, err)
	_, err = f.svc.Fulfill(staffCtx(), order.ID)
	require.Error(t, err)
}

func TestCustomerScoping(t *testing.T) {
	f := newFixture()
	productID := f.products.add("Sugar", "2000")

	mine, err := f.svc.Create(customerCtx("c-1"), []sales.InputItem{
		{ProductID: productID, Cartons: 1},
	})
	require.NoError(t, err)
	theirs, err := f.svc.Create(customerCtx("c-2"), []sales.InputItem{
		{ProductID: productID, Cartons: 2},
	})
	require.NoError(t, err)

	// Customers cannot read another customer's order.
	_, err = f.svc.GetByID(customerCtx("c-1"), theirs.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	// List is forced to the caller's own orders.
	listed, err := f.svc.List(customerCtx("c-1"), ListFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, mine.ID, listed[0].ID)

	// Staff see everything.
	all, err := f.svc.List(staffCtx(), ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		ok   bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusFulfilled, false},
		{StatusApproved, StatusFulfilled, true},
		{StatusApproved, StatusRejected, true},
		{StatusApproved, StatusPending, false},
		{StatusFulfilled, StatusRejected, false},
		{StatusRejected, StatusApproved, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, StatusFulfilled.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.False(t, StatusPending.Terminal())
}
