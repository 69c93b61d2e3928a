package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// csvHeader is the column layout for both import and export.
var csvHeader = []string{"sku", "name", "description", "price", "quantity", "unit"}

// ImportResult summarizes one CSV import run.
type ImportResult struct {
	Created  int      `json:"created"`
	Adjusted int      `json:"adjusted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

type ImportExportService interface {
	ImportProducts(r io.Reader, actorID, actorName string) (*ImportResult, error)
	ExportProducts(w io.Writer) error
}

type importExportService struct {
	productRepo repository.ProductRepository
	ledger      LedgerService
}

func NewImportExportService(productRepo repository.ProductRepository, ledger LedgerService) ImportExportService {
	return &importExportService{
		productRepo: productRepo,
		ledger:      ledger,
	}
}

// ImportProducts reads CSV rows and applies them through the regular
// paths: new SKUs are created and their starting stock is recorded as an
// import_initial ledger entry, known SKUs get an import_adjustment entry
// for the quantity difference. Bad rows are skipped, not fatal.
func (s *importExportService) ImportProducts(r io.Reader, actorID, actorName string) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("empty or unreadable CSV file")
	}
	if len(header) < len(csvHeader) || header[0] != "sku" {
		return nil, fmt.Errorf("unexpected CSV header, want: %v", csvHeader)
	}

	result := &ImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		if err := s.importRow(record, actorID, actorName, result); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
		}
	}
	return result, nil
}

func (s *importExportService) importRow(record []string, actorID, actorName string, result *ImportResult) error {
	if len(record) < len(csvHeader) {
		return fmt.Errorf("want %d columns, got %d", len(csvHeader), len(record))
	}

	sku, name := record[0], record[1]
	if sku == "" || name == "" {
		return errors.New("sku and name are required")
	}
	price, err := decimal.NewFromString(record[3])
	if err != nil || price.IsNegative() {
		return fmt.Errorf("invalid price %q", record[3])
	}
	quantity, err := strconv.Atoi(record[4])
	if err != nil || quantity < 0 {
		return fmt.Errorf("invalid quantity %q", record[4])
	}

	existing, err := s.productRepo.FindBySKU(sku)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return s.createFromRow(sku, name, record, price, quantity, actorID, actorName, result)
	}

	// SKU sudah ada: selisih stok dicatat sebagai import_adjustment
	delta := quantity - existing.Quantity
	if delta == 0 {
		result.Skipped++
		return nil
	}
	_, err = s.ledger.ApplyChange(&StockChangeRequest{
		ProductID:      existing.ID,
		QuantityChange: delta,
		Type:           model.TxImportAdjustment,
		Reason:         "CSV import",
	}, actorID, actorName)
	if err != nil {
		return err
	}
	result.Adjusted++
	return nil
}

func (s *importExportService) createFromRow(sku, name string, record []string, price decimal.Decimal, quantity int, actorID, actorName string, result *ImportResult) error {
	product := &model.Product{
		SKU:         sku,
		Name:        name,
		Description: record[2],
		Price:       price,
		Unit:        record[5],
	}
	product.CreatedBy = actorID
	product.UpdatedBy = actorID

	// Dibuat dengan stok 0, lalu stok awal dicatat sebagai entry ledger
	// import_initial supaya histori impor ikut teraudit.
	if err := s.productRepo.Create(product); err != nil {
		return err
	}
	if quantity > 0 {
		if _, err := s.ledger.ApplyChange(&StockChangeRequest{
			ProductID:      product.ID,
			QuantityChange: quantity,
			Type:           model.TxImportInitial,
			Reason:         "CSV import (initial stock)",
		}, actorID, actorName); err != nil {
			return err
		}
	}
	result.Created++
	return nil
}

func (s *importExportService) ExportProducts(w io.Writer) error {
	products, err := s.productRepo.FindAll()
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, p := range products {
		record := []string{
			p.SKU,
			p.Name,
			p.Description,
			p.Price.StringFixed(2),
			strconv.Itoa(p.Quantity),
			p.Unit,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
