package model

import (
	"time"

	"github.com/google/uuid"
)

// ReorderPoint is the per-product low stock configuration.
// At most one row per product (unique index on ProductID).
type ReorderPoint struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"product_id" validate:"uuid_required"`
	Product   *Product  `json:"product,omitempty" validate:"-"`

	// Alert fires when stock drops below MinimumQuantity.
	// ReorderQuantity is the target stock level after restocking,
	// must be > MinimumQuantity (enforced on write, not on evaluate).
	MinimumQuantity int  `gorm:"not null" json:"minimum_quantity" validate:"gte=0"`
	ReorderQuantity int  `gorm:"not null" json:"reorder_quantity" validate:"gt=0"`
	IsActive        bool `gorm:"default:true" json:"is_active"`
}
