package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
)

// EquipmentRepo implements EquipmentRepository using PostgreSQL.
type EquipmentRepo struct{ db *DB }

// NewEquipmentRepo constructs an equipment repository.
func NewEquipmentRepo(db *DB) *EquipmentRepo { return &EquipmentRepo{db: db} }

const equipmentColumns = `id, work_order, client_id, client_name, work_center_id, work_center_name,
equipment_type, model, ato, manufacturer, serial_number, manufacture_date, fault_type, notes,
sensor_serial_number, sensor_install_date, state, purchase_order_number,
manufacturer_reception_number, under_warranty, quote_number, quote_accepted, created_at, updated_at`

// updatable lists the columns a field set may assign.
var updatable = map[string]struct{}{
	model.FieldWorkOrder: {}, model.FieldEquipmentType: {}, model.FieldModel: {},
	model.FieldATO: {}, model.FieldManufacturer: {}, model.FieldSerialNumber: {},
	model.FieldManufactureDate: {}, model.FieldFaultType: {}, model.FieldNotes: {},
	model.FieldSensorSerialNumber: {}, model.FieldSensorInstallDate: {}, model.FieldState: {},
	model.FieldPurchaseOrderNumber: {}, model.FieldReceptionNumber: {}, model.FieldUnderWarranty: {},
	model.FieldQuoteNumber: {}, model.FieldQuoteAccepted: {}, model.FieldUpdatedAt: {},
}

func scanEquipment(row scanner) (*model.Equipment, error) {
	var (
		e     model.Equipment
		state string
	)
	err := row.Scan(
		&e.ID, &e.WorkOrder, &e.ClientID, &e.ClientName, &e.WorkCenterID, &e.WorkCenterName,
		&e.EquipmentType, &e.Model, &e.ATO, &e.Manufacturer, &e.SerialNumber, &e.ManufactureDate,
		&e.FaultType, &e.Notes, &e.SensorSerialNumber, &e.SensorInstallDate, &state,
		&e.PurchaseOrderNumber, &e.ReceptionNumber, &e.UnderWarranty, &e.QuoteNumber,
		&e.QuoteAccepted, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.State = model.State(state)
	return &e, nil
}

// Create inserts a new equipment row.
func (r *EquipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	const q = `
INSERT INTO equipment (` + equipmentColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)`
	_, err := r.db.Pool.Exec(ctx, q,
		e.ID, e.WorkOrder, e.ClientID, e.ClientName, e.WorkCenterID, e.WorkCenterName,
		e.EquipmentType, e.Model, e.ATO, e.Manufacturer, e.SerialNumber, e.ManufactureDate,
		e.FaultType, e.Notes, e.SensorSerialNumber, e.SensorInstallDate, string(e.State),
		e.PurchaseOrderNumber, e.ReceptionNumber, e.UnderWarranty, e.QuoteNumber,
		e.QuoteAccepted, e.CreatedAt, e.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return errs.ErrConflict
	}
	return err
}

// GetByID selects an equipment row by ID.
func (r *EquipmentRepo) GetByID(ctx context.Context, id string) (*model.Equipment, error) {
	const q = `SELECT ` + equipmentColumns + ` FROM equipment WHERE id=$1`
	e, err := scanEquipment(r.db.Pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return e, err
}

// Find returns the rows matching f, newest first.
func (r *EquipmentRepo) Find(ctx context.Context, f model.EquipmentFilter) ([]model.Equipment, error) {
	where, args := buildWhere(f, nil)
	q := `SELECT ` + equipmentColumns + ` FROM equipment WHERE ` + where + ` ORDER BY created_at DESC, id`
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Equipment{}
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// UpdateOne applies set to a single row.
func (r *EquipmentRepo) UpdateOne(ctx context.Context, id string, set model.FieldSet) error {
	n, err := r.UpdateMany(ctx, model.ByIDs([]string{id}), set)
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// UpdateMany applies set to every matching row in one statement.
func (r *EquipmentRepo) UpdateMany(ctx context.Context, f model.EquipmentFilter, set model.FieldSet) (int64, error) {
	if len(set) == 0 {
		return 0, fmt.Errorf("empty field set: %w", errs.ErrValidation)
	}
	assign := make([]string, 0, len(set))
	args := make([]any, 0, len(set)+3)
	for _, fv := range set {
		if _, ok := updatable[fv.Name]; !ok {
			return 0, fmt.Errorf("unknown equipment field %q", fv.Name)
		}
		args = append(args, columnValue(fv.Value))
		assign = append(assign, fmt.Sprintf("%s=$%d", fv.Name, len(args)))
	}
	where, args := buildWhere(f, args)
	q := `UPDATE equipment SET ` + strings.Join(assign, ", ") + ` WHERE ` + where
	tag, err := r.db.Pool.Exec(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DistinctOrderNumbers returns the sorted set of order numbers among matching rows.
func (r *EquipmentRepo) DistinctOrderNumbers(ctx context.Context, f model.EquipmentFilter) ([]string, error) {
	f.HasOrderNumber = true
	where, args := buildWhere(f, nil)
	q := `SELECT DISTINCT purchase_order_number FROM equipment WHERE ` + where + ` ORDER BY 1`
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// buildWhere renders f as a WHERE clause, appending its parameters to args.
func buildWhere(f model.EquipmentFilter, args []any) (string, []any) {
	var conds []string
	if f.IDs != nil {
		if len(f.IDs) == 0 {
			return "FALSE", args
		}
		args = append(args, f.IDs)
		conds = append(conds, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if f.OrderNumber != "" {
		args = append(args, f.OrderNumber)
		conds = append(conds, fmt.Sprintf("purchase_order_number = $%d", len(args)))
	}
	if f.HasOrderNumber {
		conds = append(conds, "purchase_order_number IS NOT NULL")
	}
	if len(f.States) > 0 {
		states := make([]string, 0, len(f.States))
		for _, s := range f.States {
			states = append(states, string(s))
		}
		args = append(args, states)
		conds = append(conds, fmt.Sprintf("state = ANY($%d)", len(args)))
	}
	if len(conds) == 0 {
		return "TRUE", args
	}
	return strings.Join(conds, " AND "), args
}

func columnValue(v any) any {
	switch x := v.(type) {
	case model.State:
		return string(x)
	case time.Time:
		return x.UTC()
	default:
		return v
	}
}
