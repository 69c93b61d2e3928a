package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionType is a closed set of ledger entry categories.
// Bare strings would let a typo silently create a new category.
type TransactionType string

const (
	TxManualAdjustment TransactionType = "manual_adjustment"
	TxEditAdjustment   TransactionType = "edit_adjustment"
	TxBulkAdjustment   TransactionType = "bulk_adjustment"
	TxImportAdjustment TransactionType = "import_adjustment"
	TxImportInitial    TransactionType = "import_initial"
)

// IsValid reports whether t is one of the enumerated types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TxManualAdjustment, TxEditAdjustment, TxBulkAdjustment, TxImportAdjustment, TxImportInitial:
		return true
	}
	return false
}

// StockTransaction is one immutable row of the stock ledger.
// Rows are append-only: there is no update or delete path anywhere,
// the history is the audit trail of truth.
// Invariant: QuantityAfter == QuantityBefore + QuantityChange, QuantityAfter >= 0.
type StockTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `json:"product,omitempty" validate:"-"`

	Type           TransactionType `gorm:"type:varchar(20);not null" json:"transaction_type" validate:"required"`
	QuantityChange int             `gorm:"not null" json:"quantity_change"` // signed, nonzero
	QuantityBefore int             `gorm:"not null" json:"quantity_before"`
	QuantityAfter  int             `gorm:"not null" json:"quantity_after"`

	Reason    string `gorm:"type:varchar(200)" json:"reason"`
	UserNotes string `gorm:"type:text" json:"user_notes,omitempty"`

	// Nullable: system/unauthenticated changes carry no actor
	PerformedByUserID *uuid.UUID `gorm:"type:uuid;index" json:"performed_by_user_id,omitempty"`
	PerformedByUser   *User      `gorm:"foreignKey:PerformedByUserID" json:"performed_by_user,omitempty"`
}

// IsIncrease reports whether this transaction added stock.
func (t *StockTransaction) IsIncrease() bool {
	return t.QuantityChange > 0
}

// IsDecrease reports whether this transaction removed stock.
func (t *StockTransaction) IsDecrease() bool {
	return t.QuantityChange < 0
}

// Display returns a human-friendly description, e.g. "Added 5 units".
func (t *StockTransaction) Display() string {
	if t.QuantityChange > 0 {
		return fmt.Sprintf("Added %d units", t.QuantityChange)
	}
	return fmt.Sprintf("Removed %d units", -t.QuantityChange)
}
