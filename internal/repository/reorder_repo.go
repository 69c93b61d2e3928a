package repository

import (
	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductReorderPair joins a product with its configuration for alert evaluation.
type ProductReorderPair struct {
	Product      model.Product
	ReorderPoint model.ReorderPoint
}

type ReorderPointRepository interface {
	FindByProduct(productID uuid.UUID) (*model.ReorderPoint, error)
	Save(rp *model.ReorderPoint) error
	// FindActivePairs returns every (product, config) pair with is_active = true.
	FindActivePairs() ([]ProductReorderPair, error)
	// FindProductsWithoutConfig lists products with no reorder point row at all.
	FindProductsWithoutConfig() ([]model.Product, error)
}

type reorderRepo struct {
	db *gorm.DB
}

func NewReorderRepo(db *gorm.DB) ReorderPointRepository {
	return &reorderRepo{db}
}

func (r *reorderRepo) FindByProduct(productID uuid.UUID) (*model.ReorderPoint, error) {
	var rp model.ReorderPoint
	err := r.db.First(&rp, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &rp, nil
}

func (r *reorderRepo) Save(rp *model.ReorderPoint) error {
	return r.db.Save(rp).Error
}

func (r *reorderRepo) FindActivePairs() ([]ProductReorderPair, error) {
	var configs []model.ReorderPoint
	err := r.db.Preload("Product").
		Joins("JOIN products ON products.id = reorder_points.product_id AND products.deleted_at IS NULL").
		Where("reorder_points.is_active = ?", true).
		Find(&configs).Error
	if err != nil {
		return nil, err
	}

	pairs := make([]ProductReorderPair, 0, len(configs))
	for _, cfg := range configs {
		if cfg.Product == nil {
			continue
		}
		pairs = append(pairs, ProductReorderPair{Product: *cfg.Product, ReorderPoint: cfg})
	}
	return pairs, nil
}

func (r *reorderRepo) FindProductsWithoutConfig() ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Joins("LEFT JOIN reorder_points ON reorder_points.product_id = products.id").
		Where("reorder_points.id IS NULL").
		Find(&products).Error
	return products, err
}
