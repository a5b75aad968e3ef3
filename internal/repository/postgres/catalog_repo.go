package postgres

import (
	"context"

	"github.com/and161185/repairflow/internal/model"
)

// CatalogRepo implements CatalogRepository using PostgreSQL.
type CatalogRepo struct{ db *DB }

// NewCatalogRepo constructs a reference-data repository.
func NewCatalogRepo(db *DB) *CatalogRepo { return &CatalogRepo{db: db} }

// ListManufacturers returns manufacturers in insertion order.
func (r *CatalogRepo) ListManufacturers(ctx context.Context) ([]model.Manufacturer, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name FROM manufacturers ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Manufacturer{}
	for rows.Next() {
		var m model.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateManufacturer inserts a manufacturer.
func (r *CatalogRepo) CreateManufacturer(ctx context.Context, m *model.Manufacturer) error {
	_, err := r.db.Pool.Exec(ctx, `INSERT INTO manufacturers (id, name) VALUES ($1, $2)`, m.ID, m.Name)
	return err
}

// ListModels returns models, optionally restricted to an equipment type.
func (r *CatalogRepo) ListModels(ctx context.Context, equipmentType string) ([]model.EquipmentModel, error) {
	const q = `
SELECT id, name, equipment_type FROM equipment_models
WHERE $1 = '' OR equipment_type = $1
ORDER BY seq`
	rows, err := r.db.Pool.Query(ctx, q, equipmentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.EquipmentModel{}
	for rows.Next() {
		var m model.EquipmentModel
		if err := rows.Scan(&m.ID, &m.Name, &m.EquipmentType); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateModel inserts an equipment model.
func (r *CatalogRepo) CreateModel(ctx context.Context, m *model.EquipmentModel) error {
	const q = `INSERT INTO equipment_models (id, name, equipment_type) VALUES ($1, $2, $3)`
	_, err := r.db.Pool.Exec(ctx, q, m.ID, m.Name, m.EquipmentType)
	return err
}

// ListFaultTypes returns fault types in insertion order.
func (r *CatalogRepo) ListFaultTypes(ctx context.Context) ([]model.FaultType, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, requires_sensor FROM fault_types ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.FaultType{}
	for rows.Next() {
		var ft model.FaultType
		if err := rows.Scan(&ft.ID, &ft.Name, &ft.RequiresSensor); err != nil {
			return nil, err
		}
		out = append(out, ft)
	}
	return out, rows.Err()
}

// CreateFaultType inserts a fault type.
func (r *CatalogRepo) CreateFaultType(ctx context.Context, ft *model.FaultType) error {
	const q = `INSERT INTO fault_types (id, name, requires_sensor) VALUES ($1, $2, $3)`
	_, err := r.db.Pool.Exec(ctx, q, ft.ID, ft.Name, ft.RequiresSensor)
	return err
}
