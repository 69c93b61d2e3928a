package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NegativeStockError is returned when a change would drive stock below zero.
// Nothing is written when it fires.
type NegativeStockError struct {
	ProductID uuid.UUID
	Current   int
	Requested int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("stock change %+d would make quantity negative (current %d)", e.Requested, e.Current)
}

// InvalidTransactionError rejects meaningless ledger entries before any
// database work happens.
type InvalidTransactionError struct {
	Reason string
}

func (e *InvalidTransactionError) Error() string {
	return "invalid stock transaction: " + e.Reason
}

// StockChangeRequest describes one requested quantity change.
type StockChangeRequest struct {
	ProductID      uuid.UUID             `json:"product_id" validate:"uuid_required"`
	QuantityChange int                   `json:"quantity_change"`
	Type           model.TransactionType `json:"transaction_type" validate:"required"`
	Reason         string                `json:"reason" validate:"required,max=200"`
	UserNotes      string                `json:"user_notes"`
}

// HistoryStats are aggregate numbers derived from a product's ledger.
// Always recomputed from the stored rows, never kept as running counters.
type HistoryStats struct {
	Count        int `json:"count"`
	Increases    int `json:"increases"`
	Decreases    int `json:"decreases"`
	UnitsAdded   int `json:"units_added"`
	UnitsRemoved int `json:"units_removed"`
}

// LedgerService is the single path through which a product's quantity may
// change. Every change is applied and recorded in one atomic unit.
type LedgerService interface {
	ApplyChange(req *StockChangeRequest, actorID, actorName string) (*model.StockTransaction, error)
	History(productID uuid.UUID) ([]model.StockTransaction, error)
	HistoryStats(productID uuid.UUID) (*HistoryStats, error)
	GetAllTransactions() ([]model.StockTransaction, error)
	GetTransactionByID(id uint) (*model.StockTransaction, error)
}

type ledgerService struct {
	repo  repository.LedgerRepository
	wsHub *ws.Hub
}

func NewLedgerService(repo repository.LedgerRepository, hub *ws.Hub) LedgerService {
	return &ledgerService{
		repo:  repo,
		wsHub: hub,
	}
}

func (s *ledgerService) ApplyChange(req *StockChangeRequest, actorID, actorName string) (*model.StockTransaction, error) {
	// 1. Tolak request yang tidak bermakna sebelum menyentuh database
	if req.QuantityChange == 0 {
		return nil, &InvalidTransactionError{Reason: "quantity_change must be nonzero"}
	}
	if !req.Type.IsValid() {
		return nil, &InvalidTransactionError{Reason: fmt.Sprintf("unknown transaction type %q", req.Type)}
	}

	var created *model.StockTransaction

	// 2. Atomic block: lock row product, cek precondition, update stok,
	// append ledger entry. Rollback total kalau ada yang gagal.
	err := s.repo.WithTransaction(func(r repository.LedgerRepository) error {
		product, err := r.FindProductForUpdate(req.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		before := product.Quantity
		after := before + req.QuantityChange
		if after < 0 {
			return &NegativeStockError{
				ProductID: product.ID,
				Current:   before,
				Requested: req.QuantityChange,
			}
		}

		if err := r.UpdateProductQuantity(product.ID, after, actorID); err != nil {
			return err
		}

		entry := &model.StockTransaction{
			ProductID:      product.ID,
			Type:           req.Type,
			QuantityChange: req.QuantityChange,
			QuantityBefore: before,
			QuantityAfter:  after,
			Reason:         req.Reason,
			UserNotes:      req.UserNotes,
		}
		if actorUUID, parseErr := uuid.Parse(actorID); parseErr == nil {
			entry.PerformedByUserID = &actorUUID
		}
		if err := r.CreateTransaction(entry); err != nil {
			return err
		}

		entry.Product = product
		product.Quantity = after
		created = entry
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 3. Broadcast ke WebSocket setelah commit
	s.broadcastChange(created, actorID, actorName)

	return created, nil
}

func (s *ledgerService) broadcastChange(t *model.StockTransaction, actorID, actorName string) {
	if s.wsHub == nil {
		return
	}
	go func() {
		productName, productSKU := "", ""
		if t.Product != nil {
			productName = t.Product.Name
			productSKU = t.Product.SKU
		}
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "stock_changed",
			"transaction": map[string]interface{}{
				"id":              t.ID,
				"product_id":      t.ProductID,
				"type":            t.Type,
				"quantity_change": t.QuantityChange,
				"quantity_after":  t.QuantityAfter,
				"product": map[string]interface{}{
					"name": productName,
					"sku":  productSKU,
				},
			},
			"user": map[string]interface{}{
				"id":   actorID,
				"name": actorName,
			},
			"message": fmt.Sprintf("%s %s of '%s' (%s)", actorName, t.Display(), productName, t.Type),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}

func (s *ledgerService) History(productID uuid.UUID) ([]model.StockTransaction, error) {
	return s.repo.FindByProduct(productID)
}

func (s *ledgerService) HistoryStats(productID uuid.UUID) (*HistoryStats, error) {
	transactions, err := s.repo.FindByProduct(productID)
	if err != nil {
		return nil, err
	}
	stats := ComputeHistoryStats(transactions)
	return &stats, nil
}

// ComputeHistoryStats derives aggregates from ledger rows.
func ComputeHistoryStats(transactions []model.StockTransaction) HistoryStats {
	var stats HistoryStats
	stats.Count = len(transactions)
	for _, t := range transactions {
		if t.IsIncrease() {
			stats.Increases++
			stats.UnitsAdded += t.QuantityChange
		} else if t.IsDecrease() {
			stats.Decreases++
			stats.UnitsRemoved += -t.QuantityChange
		}
	}
	return stats
}

func (s *ledgerService) GetAllTransactions() ([]model.StockTransaction, error) {
	return s.repo.FindAll()
}

func (s *ledgerService) GetTransactionByID(id uint) (*model.StockTransaction, error) {
	return s.repo.FindByID(id)
}
