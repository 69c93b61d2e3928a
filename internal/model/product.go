package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	SKU         string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"price"`
	Quantity    int             `gorm:"default:0" json:"quantity"` // Never negative, guarded by the ledger
	Unit        string          `gorm:"type:varchar(20)" json:"unit"`

	// Supplier opsional (produk lama boleh tanpa supplier)
	SupplierID *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Supplier   *Supplier  `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	// Relasi
	Transactions []StockTransaction `json:"transactions,omitempty"`
	ReorderPoint *ReorderPoint      `json:"reorder_point,omitempty"`
}
