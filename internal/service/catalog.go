package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
	"github.com/and161185/repairflow/internal/repository"
)

// CatalogService defines the reference data used to fill equipment forms.
type CatalogService interface {
	ListManufacturers(ctx context.Context) ([]model.Manufacturer, error)
	CreateManufacturer(ctx context.Context, name string) (*model.Manufacturer, error)
	// ListModels returns the models of equipmentType, or every model when it is empty.
	ListModels(ctx context.Context, equipmentType string) ([]model.EquipmentModel, error)
	CreateModel(ctx context.Context, name, equipmentType string) (*model.EquipmentModel, error)
	// ListFaultTypes seeds the default fault types when the catalog is empty.
	ListFaultTypes(ctx context.Context) ([]model.FaultType, error)
	CreateFaultType(ctx context.Context, name string, requiresSensor bool) (*model.FaultType, error)
}

type CatalogServiceImpl struct {
	catalog repository.CatalogRepository
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(catalog repository.CatalogRepository) *CatalogServiceImpl {
	return &CatalogServiceImpl{catalog: catalog}
}

func (s *CatalogServiceImpl) ListManufacturers(ctx context.Context) ([]model.Manufacturer, error) {
	return s.catalog.ListManufacturers(ctx)
}

func (s *CatalogServiceImpl) CreateManufacturer(ctx context.Context, name string) (*model.Manufacturer, error) {
	name, err := requiredName(name)
	if err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	m := &model.Manufacturer{ID: id, Name: name}
	if err := s.catalog.CreateManufacturer(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CatalogServiceImpl) ListModels(ctx context.Context, equipmentType string) ([]model.EquipmentModel, error) {
	return s.catalog.ListModels(ctx, strings.TrimSpace(equipmentType))
}

func (s *CatalogServiceImpl) CreateModel(ctx context.Context, name, equipmentType string) (*model.EquipmentModel, error) {
	name, err := requiredName(name)
	if err != nil {
		return nil, err
	}
	equipmentType = strings.TrimSpace(equipmentType)
	if equipmentType == "" {
		return nil, fmt.Errorf("equipment type is required: %w", errs.ErrValidation)
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	m := &model.EquipmentModel{ID: id, Name: name, EquipmentType: equipmentType}
	if err := s.catalog.CreateModel(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CatalogServiceImpl) ListFaultTypes(ctx context.Context) ([]model.FaultType, error) {
	fts, err := s.catalog.ListFaultTypes(ctx)
	if err != nil || len(fts) > 0 {
		return fts, err
	}
	seed := model.DefaultFaultTypes()
	for i := range seed {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		seed[i].ID = id
		if err := s.catalog.CreateFaultType(ctx, &seed[i]); err != nil {
			return nil, fmt.Errorf("seed fault types: %w", err)
		}
	}
	return seed, nil
}

func (s *CatalogServiceImpl) CreateFaultType(ctx context.Context, name string, requiresSensor bool) (*model.FaultType, error) {
	name, err := requiredName(name)
	if err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	ft := &model.FaultType{ID: id, Name: name, RequiresSensor: requiresSensor}
	if err := s.catalog.CreateFaultType(ctx, ft); err != nil {
		return nil, err
	}
	return ft, nil
}

func requiredName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("name is required: %w", errs.ErrValidation)
	}
	return name, nil
}
