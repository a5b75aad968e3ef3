package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/repairflow/internal/repository"
)

// Wiper deletes every business table in one transaction.
type Wiper struct{ db *DB }

// NewWiper constructs a wiper.
func NewWiper(db *DB) *Wiper { return &Wiper{db: db} }

var wipeTables = []string{
	repository.CollectionClients,
	repository.CollectionEquipment,
	repository.CollectionPurchaseOrders,
	repository.CollectionManufacturers,
	repository.CollectionModels,
	repository.CollectionFaultTypes,
}

// Wipe deletes all rows and reports the per-table counts.
func (w *Wiper) Wipe(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(wipeTables))
	err := w.db.inTx(ctx, func(tx pgx.Tx) error {
		for _, table := range wipeTables {
			tag, err := tx.Exec(ctx, "DELETE FROM "+table)
			if err != nil {
				return fmt.Errorf("wipe %s: %w", table, err)
			}
			counts[table] = tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}
