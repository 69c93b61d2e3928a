package service

import (
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeReorderRepo struct {
	store   *fakeStore
	configs map[uuid.UUID]*model.ReorderPoint
	nextID  uint
}

func newFakeReorderRepo(store *fakeStore) *fakeReorderRepo {
	return &fakeReorderRepo{
		store:   store,
		configs: make(map[uuid.UUID]*model.ReorderPoint),
	}
}

func (f *fakeReorderRepo) FindByProduct(productID uuid.UUID) (*model.ReorderPoint, error) {
	rp, ok := f.configs[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rp
	return &cp, nil
}

func (f *fakeReorderRepo) Save(rp *model.ReorderPoint) error {
	if rp.ID == 0 {
		f.nextID++
		rp.ID = f.nextID
	}
	cp := *rp
	f.configs[rp.ProductID] = &cp
	return nil
}

func (f *fakeReorderRepo) FindActivePairs() ([]repository.ProductReorderPair, error) {
	var pairs []repository.ProductReorderPair
	for productID, rp := range f.configs {
		if !rp.IsActive {
			continue
		}
		product, ok := f.store.products[productID]
		if !ok {
			continue
		}
		pairs = append(pairs, repository.ProductReorderPair{Product: *product, ReorderPoint: *rp})
	}
	return pairs, nil
}

func (f *fakeReorderRepo) FindProductsWithoutConfig() ([]model.Product, error) {
	var products []model.Product
	for id, p := range f.store.products {
		if _, ok := f.configs[id]; !ok {
			products = append(products, *p)
		}
	}
	return products, nil
}

func TestEvaluateBoundaries(t *testing.T) {
	rp := &model.ReorderPoint{MinimumQuantity: 10, ReorderQuantity: 50, IsActive: true}

	tests := []struct {
		name     string
		quantity int
		want     AlertLevel
	}{
		{"zero stock is critical", 0, AlertCritical},
		{"below half minimum is urgent", 4, AlertUrgent},
		{"exactly half minimum is warning, not urgent", 5, AlertWarning},
		{"just below minimum is warning", 9, AlertWarning},
		{"exactly minimum is ok", 10, AlertOK},
		{"above minimum is ok", 11, AlertOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Evaluate(tc.quantity, rp)
			assert.Equal(t, tc.want, result.Level)
		})
	}
}

func TestEvaluateOddMinimumHalfBoundary(t *testing.T) {
	// minimum 7: half is 3.5, so 3 is urgent and 4 is warning
	rp := &model.ReorderPoint{MinimumQuantity: 7, ReorderQuantity: 30, IsActive: true}

	assert.Equal(t, AlertUrgent, Evaluate(3, rp).Level)
	assert.Equal(t, AlertWarning, Evaluate(4, rp).Level)
}

func TestEvaluateSuggestedOrder(t *testing.T) {
	rp := &model.ReorderPoint{MinimumQuantity: 10, ReorderQuantity: 50, IsActive: true}

	assert.Equal(t, 47, Evaluate(3, rp).SuggestedOrder)
	assert.Equal(t, 50, Evaluate(0, rp).SuggestedOrder)
	// Never negative, even when stock already exceeds the reorder target
	assert.Equal(t, 0, Evaluate(80, rp).SuggestedOrder)
}

func TestEvaluateDisabledWinsOverEverything(t *testing.T) {
	rp := &model.ReorderPoint{MinimumQuantity: 10, ReorderQuantity: 50, IsActive: false}

	result := Evaluate(0, rp)
	assert.Equal(t, AlertDisabled, result.Level)
	assert.Equal(t, 0, result.SuggestedOrder)
}

func TestEvaluateDegenerateConfigs(t *testing.T) {
	// Evaluate is total: configs the write path would reject still classify
	zeroMin := &model.ReorderPoint{MinimumQuantity: 0, ReorderQuantity: 10, IsActive: true}
	assert.Equal(t, AlertCritical, Evaluate(0, zeroMin).Level)
	assert.Equal(t, AlertOK, Evaluate(1, zeroMin).Level)

	inverted := &model.ReorderPoint{MinimumQuantity: 50, ReorderQuantity: 10, IsActive: true}
	assert.Equal(t, AlertUrgent, Evaluate(20, inverted).Level)
	assert.Equal(t, 0, Evaluate(20, inverted).SuggestedOrder)
}

func newAlertFixture(t *testing.T) (*fakeStore, *fakeReorderRepo, AlertService) {
	t.Helper()
	store := newFakeStore()
	reorderRepo := newFakeReorderRepo(store)
	alerts := NewAlertService(reorderRepo, &fakeProductRepo{store: store})
	return store, reorderRepo, alerts
}

func addConfiguredProduct(store *fakeStore, reorderRepo *fakeReorderRepo, sku string, quantity, minimum, reorder int, active bool) *model.Product {
	product := &model.Product{SKU: sku, Name: sku, Quantity: quantity}
	product.ID = uuid.New()
	store.products[product.ID] = product
	reorderRepo.Save(&model.ReorderPoint{
		ProductID:       product.ID,
		MinimumQuantity: minimum,
		ReorderQuantity: reorder,
		IsActive:        active,
	})
	return product
}

func TestListAlertsOrderedBySeverity(t *testing.T) {
	store, reorderRepo, alerts := newAlertFixture(t)

	addConfiguredProduct(store, reorderRepo, "OK-1", 30, 10, 50, true)
	addConfiguredProduct(store, reorderRepo, "WARN-1", 8, 10, 50, true)
	addConfiguredProduct(store, reorderRepo, "CRIT-1", 0, 10, 50, true)
	addConfiguredProduct(store, reorderRepo, "URG-1", 3, 10, 50, true)
	addConfiguredProduct(store, reorderRepo, "OFF-1", 0, 10, 50, false)

	list, err := alerts.ListAlerts()
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, AlertCritical, list[0].Level)
	assert.Equal(t, "CRIT-1", list[0].Product.SKU)
	assert.Equal(t, AlertUrgent, list[1].Level)
	assert.Equal(t, AlertWarning, list[2].Level)
	assert.Equal(t, 42, list[2].SuggestedOrder)
}

func TestSummaryMatchesPerItemEvaluation(t *testing.T) {
	store, reorderRepo, alerts := newAlertFixture(t)

	addConfiguredProduct(store, reorderRepo, "A", 0, 10, 50, true)
	addConfiguredProduct(store, reorderRepo, "B", 0, 10, 50, true)
	addConfiguredProduct(store, reorderRepo, "C", 3, 10, 50, true)
	addConfiguredProduct(store, reorderRepo, "D", 8, 10, 50, true)
	addConfiguredProduct(store, reorderRepo, "E", 25, 10, 50, true)
	addConfiguredProduct(store, reorderRepo, "F", 0, 10, 50, false)

	summary, err := alerts.Summary()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Critical)
	assert.Equal(t, 1, summary.Urgent)
	assert.Equal(t, 1, summary.Warning)
	assert.Equal(t, 1, summary.OK)
	assert.Equal(t, 4, summary.TotalActive)

	// Counts are a partition of the active configs: buckets plus ok cover all
	pairs, _ := reorderRepo.FindActivePairs()
	assert.Equal(t, len(pairs), summary.TotalActive+summary.OK)
}

func TestEvaluateProductWithoutConfig(t *testing.T) {
	store, _, alerts := newAlertFixture(t)

	product := &model.Product{SKU: "BARE-1", Name: "Bare", Quantity: 5}
	product.ID = uuid.New()
	store.products[product.ID] = product

	result, err := alerts.EvaluateProduct(product.ID)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestEvaluateProductNotFound(t *testing.T) {
	_, _, alerts := newAlertFixture(t)

	_, err := alerts.EvaluateProduct(uuid.New())
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestConfigureValidation(t *testing.T) {
	store, _, alerts := newAlertFixture(t)

	product := &model.Product{SKU: "CFG-1", Name: "Config", Quantity: 5}
	product.ID = uuid.New()
	store.products[product.ID] = product

	_, err := alerts.Configure(product.ID, &ConfigureReorderRequest{
		MinimumQuantity: -1,
		ReorderQuantity: 10,
		IsActive:        true,
	}, "admin")
	require.Error(t, err)

	_, err = alerts.Configure(product.ID, &ConfigureReorderRequest{
		MinimumQuantity: 10,
		ReorderQuantity: 10,
		IsActive:        true,
	}, "admin")
	require.ErrorIs(t, err, ErrReorderBelowMinimum)

	_, err = alerts.Configure(uuid.New(), &ConfigureReorderRequest{
		MinimumQuantity: 5,
		ReorderQuantity: 25,
		IsActive:        true,
	}, "admin")
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestConfigureCreatesThenUpdates(t *testing.T) {
	store, reorderRepo, alerts := newAlertFixture(t)

	product := &model.Product{SKU: "CFG-1", Name: "Config", Quantity: 5}
	product.ID = uuid.New()
	store.products[product.ID] = product

	created, err := alerts.Configure(product.ID, &ConfigureReorderRequest{
		MinimumQuantity: 5,
		ReorderQuantity: 25,
		IsActive:        true,
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, 5, created.MinimumQuantity)

	updated, err := alerts.Configure(product.ID, &ConfigureReorderRequest{
		MinimumQuantity: 8,
		ReorderQuantity: 40,
		IsActive:        false,
	}, "admin")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 8, updated.MinimumQuantity)
	assert.False(t, updated.IsActive)

	// Inactive config still evaluates, as disabled
	result, err := alerts.EvaluateProduct(product.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, AlertDisabled, result.Level)

	assert.Len(t, reorderRepo.configs, 1)
}

func TestSeedDefaultsSkipsConfigured(t *testing.T) {
	store, reorderRepo, alerts := newAlertFixture(t)

	addConfiguredProduct(store, reorderRepo, "HAS-CFG", 100, 10, 50, true)

	bare := &model.Product{SKU: "NO-CFG", Name: "Bare", Quantity: 40}
	bare.ID = uuid.New()
	store.products[bare.ID] = bare

	created, err := alerts.SeedDefaults()
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	rp, err := reorderRepo.FindByProduct(bare.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, rp.MinimumQuantity)
	assert.Equal(t, 60, rp.ReorderQuantity)
	assert.True(t, rp.IsActive)

	// Second run finds nothing left to seed
	created, err = alerts.SeedDefaults()
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestDefaultThresholds(t *testing.T) {
	tests := []struct {
		stock       int
		wantMinimum int
		wantReorder int
	}{
		{0, 5, 25},
		{10, 5, 25},
		{40, 10, 60},
		{100, 20, 150},
		{500, 20, 750},
	}

	for _, tc := range tests {
		minimum, reorder := DefaultThresholds(tc.stock)
		assert.Equal(t, tc.wantMinimum, minimum, "stock %d", tc.stock)
		assert.Equal(t, tc.wantReorder, reorder, "stock %d", tc.stock)
		// Seeded configs always pass the write-path validation
		assert.Greater(t, reorder, minimum, "stock %d", tc.stock)
	}
}
