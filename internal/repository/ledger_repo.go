package repository

import (
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository is the persistence contract of the stock ledger.
//
// WithTransaction hands the callback a repository bound to one database
// transaction and guarantees commit-or-rollback on every exit path.
// FindProductForUpdate takes a row lock (SELECT ... FOR UPDATE), so
// concurrent changes to the same product serialize at the database and the
// negative-stock precondition is always checked against a consistent
// snapshot. Callers must pair it with WithTransaction.
type LedgerRepository interface {
	WithTransaction(fn func(LedgerRepository) error) error
	FindProductForUpdate(id uuid.UUID) (*model.Product, error)
	UpdateProductQuantity(id uuid.UUID, newQuantity int, updatedBy string) error
	CreateTransaction(t *model.StockTransaction) error

	FindByProduct(productID uuid.UUID) ([]model.StockTransaction, error)
	FindAll() ([]model.StockTransaction, error)
	FindByID(id uint) (*model.StockTransaction, error)
	StockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db}
}

func (r *ledgerRepo) WithTransaction(fn func(LedgerRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepo{db: tx})
	})
}

func (r *ledgerRepo) FindProductForUpdate(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ledgerRepo) UpdateProductQuantity(id uuid.UUID, newQuantity int, updatedBy string) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   newQuantity,
			"updated_by": updatedBy,
		}).Error
}

func (r *ledgerRepo) CreateTransaction(t *model.StockTransaction) error {
	return r.db.Create(t).Error
}

func (r *ledgerRepo) FindByProduct(productID uuid.UUID) ([]model.StockTransaction, error) {
	var transactions []model.StockTransaction
	err := r.db.Preload("PerformedByUser").
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *ledgerRepo) FindAll() ([]model.StockTransaction, error) {
	var transactions []model.StockTransaction
	err := r.db.Preload("Product").Preload("PerformedByUser").
		Order("created_at DESC, id DESC").
		Find(&transactions).Error
	return transactions, err
}

func (r *ledgerRepo) FindByID(id uint) (*model.StockTransaction, error) {
	var transaction model.StockTransaction
	err := r.db.Preload("Product").Preload("PerformedByUser").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *ledgerRepo) StockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	// Aggregate ledger entries per hari
	rows, err := r.db.Model(&model.StockTransaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN quantity_change > 0 THEN quantity_change ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN quantity_change < 0 THEN -quantity_change ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
