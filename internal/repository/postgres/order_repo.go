package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
)

// OrderRepo implements PurchaseOrderRepository using PostgreSQL.
type OrderRepo struct{ db *DB }

// NewOrderRepo constructs a purchase order repository.
func NewOrderRepo(db *DB) *OrderRepo { return &OrderRepo{db: db} }

// GetByNumber selects a ledger entry by order number.
func (r *OrderRepo) GetByNumber(ctx context.Context, number string) (*model.PurchaseOrder, error) {
	const q = `SELECT id, number, equipment_ids, created_at FROM purchase_orders WHERE number=$1`
	var po model.PurchaseOrder
	err := r.db.Pool.QueryRow(ctx, q, number).Scan(&po.ID, &po.Number, &po.EquipmentIDs, &po.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// List returns every ledger entry, newest first.
func (r *OrderRepo) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	const q = `SELECT id, number, equipment_ids, created_at FROM purchase_orders ORDER BY created_at DESC, number`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PurchaseOrder{}
	for rows.Next() {
		var po model.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.Number, &po.EquipmentIDs, &po.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, rows.Err()
}

// Merge upserts by order number, appending only ids not yet recorded.
// xmax is zero for freshly inserted tuples, which tells creation from merge.
func (r *OrderRepo) Merge(ctx context.Context, po *model.PurchaseOrder) (bool, error) {
	const q = `
INSERT INTO purchase_orders (id, number, equipment_ids, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (number) DO UPDATE
SET equipment_ids = purchase_orders.equipment_ids || ARRAY(
  SELECT x FROM unnest(EXCLUDED.equipment_ids) WITH ORDINALITY AS t(x, i)
  WHERE NOT (x = ANY(purchase_orders.equipment_ids))
  ORDER BY i
)
RETURNING (xmax = 0)`
	ids := model.MergeIDs([]string{}, po.EquipmentIDs...)
	var created bool
	if err := r.db.Pool.QueryRow(ctx, q, po.ID, po.Number, ids, po.CreatedAt).Scan(&created); err != nil {
		return false, err
	}
	return created, nil
}
