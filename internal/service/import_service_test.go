package service

import (
	"bytes"
	"strings"
	"testing"

	"go-inventory-ledger/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImportFixture() (*fakeStore, ImportExportService, LedgerService) {
	store := newFakeStore()
	ledger := NewLedgerService(store, nil)
	svc := NewImportExportService(&fakeProductRepo{store: store}, ledger)
	return store, svc, ledger
}

func TestImportCreatesNewSKUWithInitialLedgerEntry(t *testing.T) {
	store, svc, ledger := newImportFixture()

	csvData := "sku,name,description,price,quantity,unit\n" +
		"WID-1,Widget,Standard widget,10.50,30,pcs\n"

	result, err := svc.ImportProducts(strings.NewReader(csvData), "user-1", "Budi")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Adjusted)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)

	product, err := (&fakeProductRepo{store: store}).FindBySKU("WID-1")
	require.NoError(t, err)
	assert.Equal(t, 30, product.Quantity)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("10.50")))

	history, err := ledger.History(product.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.TxImportInitial, history[0].Type)
	assert.Equal(t, 0, history[0].QuantityBefore)
	assert.Equal(t, 30, history[0].QuantityAfter)
}

func TestImportAdjustsExistingSKU(t *testing.T) {
	store, svc, ledger := newImportFixture()

	existing := &model.Product{SKU: "WID-1", Name: "Widget", Quantity: 10}
	repo := &fakeProductRepo{store: store}
	require.NoError(t, repo.Create(existing))

	csvData := "sku,name,description,price,quantity,unit\n" +
		"WID-1,Widget,,5.00,25,pcs\n"

	result, err := svc.ImportProducts(strings.NewReader(csvData), "user-1", "Budi")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Adjusted)

	product, _ := repo.FindBySKU("WID-1")
	assert.Equal(t, 25, product.Quantity)

	history, _ := ledger.History(product.ID)
	require.Len(t, history, 1)
	assert.Equal(t, model.TxImportAdjustment, history[0].Type)
	assert.Equal(t, 15, history[0].QuantityChange)
}

func TestImportSkipsUnchangedAndBadRows(t *testing.T) {
	store, svc, _ := newImportFixture()

	existing := &model.Product{SKU: "WID-1", Name: "Widget", Quantity: 10}
	require.NoError(t, (&fakeProductRepo{store: store}).Create(existing))

	csvData := "sku,name,description,price,quantity,unit\n" +
		"WID-1,Widget,,5.00,10,pcs\n" + // same quantity, nothing to record
		",Nameless,,5.00,3,pcs\n" + // missing sku
		"BAD-1,Bad,,not-a-price,3,pcs\n" +
		"BAD-2,Bad,,5.00,-3,pcs\n" +
		"NEW-1,Fresh,,2.00,0,pcs\n"

	result, err := svc.ImportProducts(strings.NewReader(csvData), "user-1", "Budi")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Adjusted)
	assert.Equal(t, 4, result.Skipped)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "line 3")

	// Zero-quantity new product exists but produced no ledger entry
	fresh, err := (&fakeProductRepo{store: store}).FindBySKU("NEW-1")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Quantity)
	assert.Empty(t, store.entries)
}

func TestImportRejectsBadHeader(t *testing.T) {
	_, svc, _ := newImportFixture()

	_, err := svc.ImportProducts(strings.NewReader("id,label\n1,x\n"), "", "")
	require.Error(t, err)

	_, err = svc.ImportProducts(strings.NewReader(""), "", "")
	require.Error(t, err)
}

func TestExportRoundTrip(t *testing.T) {
	store, svc, _ := newImportFixture()

	repo := &fakeProductRepo{store: store}
	require.NoError(t, repo.Create(&model.Product{
		SKU:      "WID-1",
		Name:     "Widget",
		Price:    decimal.RequireFromString("10.5"),
		Quantity: 30,
		Unit:     "pcs",
	}))
	require.NoError(t, repo.Create(&model.Product{
		SKU:      "GAD-1",
		Name:     "Gadget",
		Price:    decimal.RequireFromString("3"),
		Quantity: 7,
		Unit:     "box",
	}))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportProducts(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "sku,name,description,price,quantity,unit", lines[0])
	// Products are listed by name, prices rendered with two decimals
	assert.Equal(t, "GAD-1,Gadget,,3.00,7,box", lines[1])
	assert.Equal(t, "WID-1,Widget,,10.50,30,pcs", lines[2])
}
