package service

import (
	"errors"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertLevel is the computed stock urgency classification.
type AlertLevel string

const (
	AlertCritical AlertLevel = "critical"
	AlertUrgent   AlertLevel = "urgent"
	AlertWarning  AlertLevel = "warning"
	AlertOK       AlertLevel = "ok"
	AlertDisabled AlertLevel = "disabled"
)

// AlertResult pairs the level with the suggested order amount.
type AlertResult struct {
	Level          AlertLevel `json:"level"`
	SuggestedOrder int        `json:"suggested_order"`
}

// Evaluate classifies stock urgency from current quantity and configuration.
// Pure and total: any input combination, including degenerate configs that
// the write path rejects, produces a deterministic result.
//
// Boundaries are strict: quantity == minimum is ok, and quantity equal to
// exactly half the minimum is warning, not urgent.
func Evaluate(currentQuantity int, rp *model.ReorderPoint) AlertResult {
	result := AlertResult{
		SuggestedOrder: rp.ReorderQuantity - currentQuantity,
	}
	if result.SuggestedOrder < 0 {
		result.SuggestedOrder = 0
	}

	switch {
	case !rp.IsActive:
		result.Level = AlertDisabled
		result.SuggestedOrder = 0
	case currentQuantity == 0:
		result.Level = AlertCritical
	case 2*currentQuantity < rp.MinimumQuantity: // quantity < minimum * 0.5, exact in integers
		result.Level = AlertUrgent
	case currentQuantity < rp.MinimumQuantity:
		result.Level = AlertWarning
	default:
		result.Level = AlertOK
	}
	return result
}

// Alert is one product that needs attention.
type Alert struct {
	Product        model.Product      `json:"product"`
	ReorderPoint   model.ReorderPoint `json:"reorder_point"`
	Level          AlertLevel         `json:"level"`
	SuggestedOrder int                `json:"suggested_order"`
}

// AlertSummary carries per-level counts. TotalActive excludes ok.
type AlertSummary struct {
	Critical    int `json:"critical"`
	Urgent      int `json:"urgent"`
	Warning     int `json:"warning"`
	OK          int `json:"ok"`
	TotalActive int `json:"total_active"`
}

// ConfigureReorderRequest is the write-path input, validated strictly here
// so that Evaluate never has to re-check.
type ConfigureReorderRequest struct {
	MinimumQuantity int  `json:"minimum_quantity" validate:"gte=0"`
	ReorderQuantity int  `json:"reorder_quantity" validate:"gt=0"`
	IsActive        bool `json:"is_active"`
}

var (
	ErrReorderBelowMinimum = errors.New("reorder quantity must be greater than minimum quantity")
	ErrProductNotFound     = errors.New("product not found")
)

type AlertService interface {
	// EvaluateProduct returns nil when the product has no configuration at
	// all; "no config" is distinct from "config present but inactive".
	EvaluateProduct(productID uuid.UUID) (*AlertResult, error)
	ListAlerts() ([]Alert, error)
	Summary() (*AlertSummary, error)
	Configure(productID uuid.UUID, req *ConfigureReorderRequest, actorID string) (*model.ReorderPoint, error)
	SeedDefaults() (int, error)
}

type alertService struct {
	reorderRepo repository.ReorderPointRepository
	productRepo repository.ProductRepository
}

func NewAlertService(reorderRepo repository.ReorderPointRepository, productRepo repository.ProductRepository) AlertService {
	return &alertService{
		reorderRepo: reorderRepo,
		productRepo: productRepo,
	}
}

func (s *alertService) EvaluateProduct(productID uuid.UUID) (*AlertResult, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	rp, err := s.reorderRepo.FindByProduct(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // belum dikonfigurasi, tidak ada alert state
		}
		return nil, err
	}

	result := Evaluate(product.Quantity, rp)
	return &result, nil
}

// ListAlerts partitions all active configurations by the per-item rule.
// There is deliberately no SQL-side severity counting: every number shown
// anywhere comes from Evaluate, so the buckets can never drift apart.
func (s *alertService) ListAlerts() ([]Alert, error) {
	pairs, err := s.reorderRepo.FindActivePairs()
	if err != nil {
		return nil, err
	}

	var alerts []Alert
	for _, level := range []AlertLevel{AlertCritical, AlertUrgent, AlertWarning} {
		for _, pair := range pairs {
			result := Evaluate(pair.Product.Quantity, &pair.ReorderPoint)
			if result.Level != level {
				continue
			}
			alerts = append(alerts, Alert{
				Product:        pair.Product,
				ReorderPoint:   pair.ReorderPoint,
				Level:          result.Level,
				SuggestedOrder: result.SuggestedOrder,
			})
		}
	}
	return alerts, nil
}

func (s *alertService) Summary() (*AlertSummary, error) {
	pairs, err := s.reorderRepo.FindActivePairs()
	if err != nil {
		return nil, err
	}

	var summary AlertSummary
	for _, pair := range pairs {
		switch Evaluate(pair.Product.Quantity, &pair.ReorderPoint).Level {
		case AlertCritical:
			summary.Critical++
		case AlertUrgent:
			summary.Urgent++
		case AlertWarning:
			summary.Warning++
		case AlertOK:
			summary.OK++
		}
	}
	summary.TotalActive = summary.Critical + summary.Urgent + summary.Warning
	return &summary, nil
}

// Configure creates the product's reorder point lazily on first use,
// or updates the existing row.
func (s *alertService) Configure(productID uuid.UUID, req *ConfigureReorderRequest, actorID string) (*model.ReorderPoint, error) {
	if req.MinimumQuantity < 0 {
		return nil, errors.New("minimum quantity cannot be negative")
	}
	if req.ReorderQuantity <= req.MinimumQuantity {
		return nil, ErrReorderBelowMinimum
	}

	if _, err := s.productRepo.FindByID(productID); err != nil {
		return nil, ErrProductNotFound
	}

	rp, err := s.reorderRepo.FindByProduct(productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		rp = &model.ReorderPoint{ProductID: productID}
	}

	rp.MinimumQuantity = req.MinimumQuantity
	rp.ReorderQuantity = req.ReorderQuantity
	rp.IsActive = req.IsActive

	if err := s.reorderRepo.Save(rp); err != nil {
		return nil, err
	}
	return rp, nil
}

// SeedDefaults creates a configuration for every product that has none:
// minimum is 25% of current stock clamped to [5, 20], reorder target
// replenishes to 150% of current stock with a floor of 25.
func (s *alertService) SeedDefaults() (int, error) {
	products, err := s.reorderRepo.FindProductsWithoutConfig()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, product := range products {
		minimum, reorder := DefaultThresholds(product.Quantity)
		rp := &model.ReorderPoint{
			ProductID:       product.ID,
			MinimumQuantity: minimum,
			ReorderQuantity: reorder,
			IsActive:        true,
		}
		if err := s.reorderRepo.Save(rp); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// DefaultThresholds computes the seeding defaults from current stock.
func DefaultThresholds(currentStock int) (minimum, reorder int) {
	minimum = currentStock / 4
	if minimum < 5 {
		minimum = 5
	}
	if minimum > 20 {
		minimum = 20
	}

	reorder = currentStock * 3 / 2
	if reorder < 25 {
		reorder = 25
	}
	return minimum, reorder
}
