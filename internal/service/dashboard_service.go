package service

import (
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardStats untuk overview stats.
// Alert counts come from the shared Evaluate rule, never from a separate
// dashboard-only query that could drift from the alerts page.
type DashboardStats struct {
	TotalProducts  int64           `json:"total_products"`
	TotalValuation decimal.Decimal `json:"total_valuation"`
	Alerts         AlertSummary    `json:"alerts"`
}

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

type dashboardService struct {
	productRepo repository.ProductRepository
	ledgerRepo  repository.LedgerRepository
	alerts      AlertService
}

func NewDashboardService(productRepo repository.ProductRepository, ledgerRepo repository.LedgerRepository, alerts AlertService) DashboardService {
	return &dashboardService{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		alerts:      alerts,
	}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.ledgerRepo.StockMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*DashboardStats, error) {
	count, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindAll()
	if err != nil {
		return nil, err
	}

	summary, err := s.alerts.Summary()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalProducts:  count,
		TotalValuation: TotalValuation(products),
		Alerts:         *summary,
	}, nil
}

// TotalValuation sums price * quantity over all products.
func TotalValuation(products []model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total
}
