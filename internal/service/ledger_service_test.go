package service

import (
	"errors"
	"sort"
	"testing"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeStore is an in-memory LedgerRepository and ProductRepository used
// across the service tests. WithTransaction snapshots state and restores
// it when the callback fails, mirroring the commit-or-rollback contract.
type fakeStore struct {
	products   map[uuid.UUID]*model.Product
	entries    []model.StockTransaction
	nextID     uint
	failCreate error
}

func newFakeStore(products ...*model.Product) *fakeStore {
	store := &fakeStore{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		store.products[p.ID] = p
	}
	return store
}

func (f *fakeStore) WithTransaction(fn func(repository.LedgerRepository) error) error {
	snapshotProducts := make(map[uuid.UUID]*model.Product, len(f.products))
	for id, p := range f.products {
		cp := *p
		snapshotProducts[id] = &cp
	}
	snapshotEntries := make([]model.StockTransaction, len(f.entries))
	copy(snapshotEntries, f.entries)
	snapshotNext := f.nextID

	if err := fn(f); err != nil {
		f.products = snapshotProducts
		f.entries = snapshotEntries
		f.nextID = snapshotNext
		return err
	}
	return nil
}

func (f *fakeStore) FindProductForUpdate(id uuid.UUID) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) UpdateProductQuantity(id uuid.UUID, newQuantity int, updatedBy string) error {
	p, ok := f.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Quantity = newQuantity
	p.UpdatedBy = updatedBy
	return nil
}

func (f *fakeStore) CreateTransaction(t *model.StockTransaction) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	t.ID = f.nextID
	t.CreatedAt = time.Now()
	f.entries = append(f.entries, *t)
	return nil
}

func (f *fakeStore) FindByProduct(productID uuid.UUID) ([]model.StockTransaction, error) {
	var result []model.StockTransaction
	for _, e := range f.entries {
		if e.ProductID == productID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (f *fakeStore) FindAll() ([]model.StockTransaction, error) {
	result := make([]model.StockTransaction, len(f.entries))
	copy(result, f.entries)
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (f *fakeStore) FindByID(id uint) (*model.StockTransaction, error) {
	for _, e := range f.entries {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) StockMovement(startDate, endDate time.Time) ([]repository.StockMovementData, error) {
	return nil, nil
}

// fakeProductRepo exposes the ProductRepository view over the same
// backing store, so product CRUD and ledger changes see one state.
type fakeProductRepo struct {
	store *fakeStore
}

func (f *fakeProductRepo) Create(product *model.Product) error {
	for _, p := range f.store.products {
		if p.SKU == product.SKU {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	cp := *product
	f.store.products[product.ID] = &cp
	return nil
}

func (f *fakeProductRepo) FindAll() ([]model.Product, error) {
	var result []model.Product
	for _, p := range f.store.products {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (f *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	p, ok := f.store.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) FindBySKU(sku string) (*model.Product, error) {
	for _, p := range f.store.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) Update(product *model.Product) error {
	existing, ok := f.store.products[product.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	// Quantity column stays untouched, same as the real repository
	quantity := existing.Quantity
	cp := *product
	cp.Quantity = quantity
	f.store.products[product.ID] = &cp
	return nil
}

func (f *fakeProductRepo) Delete(id uuid.UUID, deletedBy string) error {
	if _, ok := f.store.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.store.products, id)
	kept := f.store.entries[:0]
	for _, e := range f.store.entries {
		if e.ProductID != id {
			kept = append(kept, e)
		}
	}
	f.store.entries = kept
	return nil
}

func (f *fakeProductRepo) Count() (int64, error) {
	return int64(len(f.store.products)), nil
}

func TestApplyChangeRecordsBeforeAndAfter(t *testing.T) {
	product := &model.Product{SKU: "WID-1", Name: "Widget", Quantity: 20}
	store := newFakeStore(product)
	ledger := NewLedgerService(store, nil)
	actorID := uuid.New()

	entry, err := ledger.ApplyChange(&StockChangeRequest{
		ProductID:      product.ID,
		QuantityChange: -5,
		Type:           model.TxManualAdjustment,
		Reason:         "x",
	}, actorID.String(), "Budi")

	require.NoError(t, err)
	assert.Equal(t, 20, entry.QuantityBefore)
	assert.Equal(t, 15, entry.QuantityAfter)
	assert.Equal(t, -5, entry.QuantityChange)
	assert.Equal(t, model.TxManualAdjustment, entry.Type)
	assert.Equal(t, 15, store.products[product.ID].Quantity)
	require.NotNil(t, entry.PerformedByUserID)
	assert.Equal(t, actorID, *entry.PerformedByUserID)
}

func TestApplyChangeRejectsNegativeStock(t *testing.T) {
	product := &model.Product{SKU: "WID-1", Name: "Widget", Quantity: 20}
	store := newFakeStore(product)
	ledger := NewLedgerService(store, nil)

	_, err := ledger.ApplyChange(&StockChangeRequest{
		ProductID:      product.ID,
		QuantityChange: -15,
		Type:           model.TxManualAdjustment,
		Reason:         "x",
	}, "user-1", "Budi")
	require.NoError(t, err)

	// Quantity is now 5; another -15 would go negative
	_, err = ledger.ApplyChange(&StockChangeRequest{
		ProductID:      product.ID,
		QuantityChange: -15,
		Type:           model.TxManualAdjustment,
		Reason:         "x",
	}, "user-1", "Budi")

	var negErr *NegativeStockError
	require.ErrorAs(t, err, &negErr)
	assert.Equal(t, 5, negErr.Current)
	assert.Equal(t, -15, negErr.Requested)

	// No mutation happened: quantity and ledger untouched
	assert.Equal(t, 5, store.products[product.ID].Quantity)
	history, _ := ledger.History(product.ID)
	assert.Len(t, history, 1)
}

func TestApplyChangeRejectsZeroAndUnknownType(t *testing.T) {
	product := &model.Product{SKU: "WID-1", Name: "Widget", Quantity: 10}
	store := newFakeStore(product)
	ledger := NewLedgerService(store, nil)

	var invErr *InvalidTransactionError

	_, err := ledger.ApplyChange(&StockChangeRequest{
		ProductID:      product.ID,
		QuantityChange: 0,
		Type:           model.TxManualAdjustment,
		Reason:         "noop",
	}, "", "")
	require.ErrorAs(t, err, &invErr)

	_, err = ledger.ApplyChange(&StockChangeRequest{
		ProductID:      product.ID,
		QuantityChange: 1,
		Type:           model.TransactionType("sale"),
		Reason:         "typo",
	}, "", "")
	require.ErrorAs(t, err, &invErr)

	assert.Equal(t, 10, store.products[product.ID].Quantity)
	assert.Empty(t, store.entries)
}

func TestApplyChangeRollsBackWhenPersistenceFails(t *testing.T) {
	product := &model.Product{SKU: "WID-1", Name: "Widget", Quantity: 10}
	store := newFakeStore(product)
	store.failCreate = errors.New("connection reset")
	ledger := NewLedgerService(store, nil)

	_, err := ledger.ApplyChange(&StockChangeRequest{
		ProductID:      product.ID,
		QuantityChange: 3,
		Type:           model.TxManualAdjustment,
		Reason:         "restock",
	}, "", "")

	require.Error(t, err)
	// Storage errors propagate unchanged and leave no partial state
	assert.Equal(t, "connection reset", err.Error())
	assert.Equal(t, 10, store.products[product.ID].Quantity)
	assert.Empty(t, store.entries)
}

func TestApplyChangeUnknownProduct(t *testing.T) {
	store := newFakeStore()
	ledger := NewLedgerService(store, nil)

	_, err := ledger.ApplyChange(&StockChangeRequest{
		ProductID:      uuid.New(),
		QuantityChange: 1,
		Type:           model.TxManualAdjustment,
		Reason:         "x",
	}, "", "")

	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestLedgerStaysConsistentOverSequence(t *testing.T) {
	product := &model.Product{SKU: "WID-1", Name: "Widget", Quantity: 0}
	store := newFakeStore(product)
	ledger := NewLedgerService(store, nil)

	changes := []int{10, -3, 25, -7, -5, 40, -60}
	for _, delta := range changes {
		_, err := ledger.ApplyChange(&StockChangeRequest{
			ProductID:      product.ID,
			QuantityChange: delta,
			Type:           model.TxManualAdjustment,
			Reason:         "seq",
		}, "", "")
		require.NoError(t, err)
	}

	history, err := ledger.History(product.ID)
	require.NoError(t, err)
	require.Len(t, history, len(changes))

	// Newest first
	assert.True(t, history[0].ID > history[len(history)-1].ID)

	// Live quantity equals both the sum of changes and the latest entry's after
	sum := 0
	for _, e := range history {
		assert.Equal(t, e.QuantityAfter, e.QuantityBefore+e.QuantityChange)
		assert.GreaterOrEqual(t, e.QuantityAfter, 0)
		sum += e.QuantityChange
	}
	assert.Equal(t, sum, store.products[product.ID].Quantity)
	assert.Equal(t, history[0].QuantityAfter, store.products[product.ID].Quantity)
}

func TestHistoryIsIdempotent(t *testing.T) {
	product := &model.Product{SKU: "WID-1", Name: "Widget", Quantity: 5}
	store := newFakeStore(product)
	ledger := NewLedgerService(store, nil)

	_, err := ledger.ApplyChange(&StockChangeRequest{
		ProductID:      product.ID,
		QuantityChange: 5,
		Type:           model.TxManualAdjustment,
		Reason:         "x",
	}, "", "")
	require.NoError(t, err)

	first, err := ledger.History(product.ID)
	require.NoError(t, err)
	second, err := ledger.History(product.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	statsFirst, err := ledger.HistoryStats(product.ID)
	require.NoError(t, err)
	statsSecond, err := ledger.HistoryStats(product.ID)
	require.NoError(t, err)
	assert.Equal(t, statsFirst, statsSecond)
}

func TestComputeHistoryStats(t *testing.T) {
	transactions := []model.StockTransaction{
		{QuantityChange: 10},
		{QuantityChange: -4},
		{QuantityChange: 6},
		{QuantityChange: -1},
		{QuantityChange: -2},
	}

	stats := ComputeHistoryStats(transactions)

	assert.Equal(t, 5, stats.Count)
	assert.Equal(t, 2, stats.Increases)
	assert.Equal(t, 3, stats.Decreases)
	assert.Equal(t, 16, stats.UnitsAdded)
	assert.Equal(t, 7, stats.UnitsRemoved)
}

func TestComputeHistoryStatsEmpty(t *testing.T) {
	stats := ComputeHistoryStats(nil)
	assert.Equal(t, HistoryStats{}, stats)
}
