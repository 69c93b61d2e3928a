package service

import (
	"errors"
	"fmt"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/validator"

	"github.com/google/uuid"
)

var ErrSupplierNotFound = errors.New("supplier not found")

type SupplierService interface {
	CreateSupplier(req *model.Supplier, actorID string) error
	UpdateSupplier(id uuid.UUID, req *model.Supplier, actorID string) (*model.Supplier, error)
	DeleteSupplier(id uuid.UUID, actorID string) error
	GetAllSuppliers() ([]model.Supplier, error)
	GetSupplierByID(id uuid.UUID) (*model.Supplier, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
}

func NewSupplierService(repo repository.SupplierRepository) SupplierService {
	return &supplierService{supplierRepo: repo}
}

func (s *supplierService) CreateSupplier(req *model.Supplier, actorID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	req.CreatedBy = actorID
	req.UpdatedBy = actorID
	return s.supplierRepo.Create(req)
}

func (s *supplierService) UpdateSupplier(id uuid.UUID, req *model.Supplier, actorID string) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, ErrSupplierNotFound
	}

	existing.Name = req.Name
	existing.ContactPerson = req.ContactPerson
	existing.Email = req.Email
	existing.Phone = req.Phone
	existing.Address = req.Address
	existing.UpdatedBy = actorID

	if err := s.supplierRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *supplierService) DeleteSupplier(id uuid.UUID, actorID string) error {
	if _, err := s.supplierRepo.FindByID(id); err != nil {
		return ErrSupplierNotFound
	}
	return s.supplierRepo.Delete(id, actorID)
}

func (s *supplierService) GetAllSuppliers() ([]model.Supplier, error) {
	return s.supplierRepo.FindAll()
}

func (s *supplierService) GetSupplierByID(id uuid.UUID) (*model.Supplier, error) {
	return s.supplierRepo.FindByID(id)
}
