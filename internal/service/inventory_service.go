package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/ws"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
)

var ErrSKUTaken = errors.New("SKU already exists")

type InventoryService interface {
	CreateProduct(req *model.Product, actorID, actorName string) error
	UpdateProduct(id uuid.UUID, req *model.Product, actorID, actorName string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, actorID string) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
	ledger      LedgerService
	wsHub       *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, ledger LedgerService, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo: pRepo,
		ledger:      ledger,
		wsHub:       hub,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product, actorID, actorName string) error {
	// 1. Validasi Struct Dasar
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.Quantity < 0 {
		return errors.New("initial quantity cannot be negative")
	}
	if req.Price.IsNegative() {
		return errors.New("price cannot be negative")
	}

	// 2. Cek Duplikasi SKU
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUTaken
	}

	// 3. Set Audit Fields
	req.CreatedBy = actorID
	req.UpdatedBy = actorID

	// 4. Simpan ke Database. Stok awal ditulis langsung di sini;
	// semua perubahan berikutnya lewat ledger.
	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	// 5. Broadcast ke WebSocket
	s.broadcast("product_created", req, actorID, actorName,
		fmt.Sprintf("%s created product '%s'", actorName, req.Name))

	return nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product, actorID, actorName string) (*model.Product, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.Price.IsNegative() {
		return nil, errors.New("price cannot be negative")
	}

	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	// Cek SKU unik, kecuali milik produk ini sendiri
	if req.SKU != existing.SKU {
		other, _ := s.productRepo.FindBySKU(req.SKU)
		if other != nil && other.ID != uuid.Nil && other.ID != id {
			return nil, ErrSKUTaken
		}
	}

	delta := req.Quantity - existing.Quantity

	existing.Name = req.Name
	existing.SKU = req.SKU
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Unit = req.Unit
	existing.SupplierID = req.SupplierID
	existing.UpdatedBy = actorID

	// Update detail dulu (kolom quantity tidak pernah disentuh di sini)
	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	// Perubahan quantity dari form edit dialihkan ke ledger, satu-satunya
	// jalur mutasi stok.
	if delta != 0 {
		entry, err := s.ledger.ApplyChange(&StockChangeRequest{
			ProductID:      id,
			QuantityChange: delta,
			Type:           model.TxEditAdjustment,
			Reason:         "Product edit",
		}, actorID, actorName)
		if err != nil {
			return nil, err
		}
		existing.Quantity = entry.QuantityAfter
	}

	s.broadcast("product_updated", existing, actorID, actorName,
		fmt.Sprintf("%s updated product '%s'", actorName, existing.Name))

	return existing, nil
}

func (s *inventoryService) DeleteProduct(id uuid.UUID, actorID string) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(product.ID, actorID)
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *inventoryService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(id)
}

func (s *inventoryService) broadcast(action string, product *model.Product, actorID, actorName, message string) {
	if s.wsHub == nil {
		return
	}
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": action,
			"product": map[string]interface{}{
				"id":       product.ID,
				"sku":      product.SKU,
				"name":     product.Name,
				"quantity": product.Quantity,
				"price":    product.Price,
			},
			"user": map[string]interface{}{
				"id":   actorID,
				"name": actorName,
			},
			"message": message,
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
