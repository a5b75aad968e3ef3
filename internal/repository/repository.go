// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/repairflow/internal/model"
)

// ClientRepository provides access to clients and their embedded work centers.
type ClientRepository interface {
	// Create inserts a new client. A duplicate tax id yields errs.ErrConflict.
	Create(ctx context.Context, c *model.Client) error
	// GetByID loads a client by ID.
	GetByID(ctx context.Context, id string) (*model.Client, error)
	// List returns every client ordered by creation time.
	List(ctx context.Context) ([]model.Client, error)
	// FindByTaxID returns the clients holding the tax id (at most one in a consistent store).
	FindByTaxID(ctx context.Context, taxID string) ([]model.Client, error)
	// Update replaces the stored client. A duplicate tax id yields errs.ErrConflict.
	Update(ctx context.Context, c *model.Client) error
	// PushWorkCenter appends a work center to the client's list.
	PushWorkCenter(ctx context.Context, clientID string, wc model.WorkCenter) error
	// PullWorkCenter removes every work center with the given id. Missing ids are not an error.
	PullWorkCenter(ctx context.Context, clientID, workCenterID string) error
}

// EquipmentRepository provides filtered, field-level access to equipment records.
type EquipmentRepository interface {
	// Create inserts a new equipment record.
	Create(ctx context.Context, e *model.Equipment) error
	// GetByID loads an equipment record by ID.
	GetByID(ctx context.Context, id string) (*model.Equipment, error)
	// Find returns the matching records, newest first.
	Find(ctx context.Context, f model.EquipmentFilter) ([]model.Equipment, error)
	// UpdateOne applies the field set to a single record.
	UpdateOne(ctx context.Context, id string, set model.FieldSet) error
	// UpdateMany applies the field set to every matching record and returns the matched count.
	UpdateMany(ctx context.Context, f model.EquipmentFilter, set model.FieldSet) (int64, error)
	// DistinctOrderNumbers returns the purchase order numbers of matching records, sorted.
	DistinctOrderNumbers(ctx context.Context, f model.EquipmentFilter) ([]string, error)
}

// PurchaseOrderRepository provides access to the purchase order ledger.
type PurchaseOrderRepository interface {
	// GetByNumber loads a ledger entry by order number.
	GetByNumber(ctx context.Context, number string) (*model.PurchaseOrder, error)
	// List returns every ledger entry, newest first.
	List(ctx context.Context) ([]model.PurchaseOrder, error)
	// Merge creates the entry or appends the ids not yet recorded under its number.
	// It reports whether a new entry was created.
	Merge(ctx context.Context, po *model.PurchaseOrder) (bool, error)
}

// CatalogRepository provides access to reference data.
type CatalogRepository interface {
	ListManufacturers(ctx context.Context) ([]model.Manufacturer, error)
	CreateManufacturer(ctx context.Context, m *model.Manufacturer) error
	ListModels(ctx context.Context, equipmentType string) ([]model.EquipmentModel, error)
	CreateModel(ctx context.Context, m *model.EquipmentModel) error
	ListFaultTypes(ctx context.Context) ([]model.FaultType, error)
	CreateFaultType(ctx context.Context, ft *model.FaultType) error
}

// Wiper empties every collection of a store.
type Wiper interface {
	// Wipe deletes all data and returns the number of removed records per collection.
	Wipe(ctx context.Context) (map[string]int64, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Clients   ClientRepository
	Equipment EquipmentRepository
	Orders    PurchaseOrderRepository
	Catalog   CatalogRepository
	Wiper     Wiper
	// Close releases backend resources. May be nil.
	Close func(ctx context.Context) error
}

// Collection names shared by every backend.
const (
	CollectionClients        = "clients"
	CollectionEquipment      = "equipment"
	CollectionPurchaseOrders = "purchase_orders"
	CollectionManufacturers  = "manufacturers"
	CollectionModels         = "equipment_models"
	CollectionFaultTypes     = "fault_types"
)
