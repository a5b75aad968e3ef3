package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
)

// ClientRepo implements ClientRepository using PostgreSQL.
// Work centers live in a JSONB array column of the client row.
type ClientRepo struct{ db *DB }

// NewClientRepo constructs a client repository.
func NewClientRepo(db *DB) *ClientRepo { return &ClientRepo{db: db} }

type workCenterDoc struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

func encodeWorkCenters(wcs []model.WorkCenter) ([]byte, error) {
	docs := make([]workCenterDoc, 0, len(wcs))
	for _, wc := range wcs {
		docs = append(docs, workCenterDoc(wc))
	}
	return json.Marshal(docs)
}

func decodeWorkCenters(raw []byte) ([]model.WorkCenter, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var docs []workCenterDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode work centers: %w", err)
	}
	out := make([]model.WorkCenter, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.WorkCenter(d))
	}
	return out, nil
}

const clientColumns = `id, name, tax_id, phone, email, work_centers, created_at`

func scanClient(row scanner) (*model.Client, error) {
	var (
		c   model.Client
		raw []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.TaxID, &c.Phone, &c.Email, &raw, &c.CreatedAt); err != nil {
		return nil, err
	}
	wcs, err := decodeWorkCenters(raw)
	if err != nil {
		return nil, err
	}
	c.WorkCenters = wcs
	return &c, nil
}

// Create inserts a new client row.
func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	wcs, err := encodeWorkCenters(c.WorkCenters)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO clients (id, name, tax_id, phone, email, work_centers, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.Pool.Exec(ctx, q, c.ID, c.Name, c.TaxID, c.Phone, c.Email, wcs, c.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrConflict
	}
	return err
}

// GetByID selects a client by ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*model.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE id=$1`
	c, err := scanClient(r.db.Pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return c, err
}

// List returns all clients ordered by creation time.
func (r *ClientRepo) List(ctx context.Context) ([]model.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at, id`
	return r.query(ctx, q)
}

// FindByTaxID returns the clients with the given tax id.
func (r *ClientRepo) FindByTaxID(ctx context.Context, taxID string) ([]model.Client, error) {
	const q = `SELECT ` + clientColumns + ` FROM clients WHERE tax_id=$1 ORDER BY created_at, id`
	return r.query(ctx, q, taxID)
}

func (r *ClientRepo) query(ctx context.Context, q string, args ...any) ([]model.Client, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update replaces every mutable column of the client.
func (r *ClientRepo) Update(ctx context.Context, c *model.Client) error {
	wcs, err := encodeWorkCenters(c.WorkCenters)
	if err != nil {
		return err
	}
	const q = `
UPDATE clients
SET name=$2, tax_id=$3, phone=$4, email=$5, work_centers=$6
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, c.ID, c.Name, c.TaxID, c.Phone, c.Email, wcs)
	if isUniqueViolation(err) {
		return errs.ErrConflict
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// PushWorkCenter appends a work center to the JSONB array.
func (r *ClientRepo) PushWorkCenter(ctx context.Context, clientID string, wc model.WorkCenter) error {
	doc, err := encodeWorkCenters([]model.WorkCenter{wc})
	if err != nil {
		return err
	}
	const q = `UPDATE clients SET work_centers = work_centers || $2::jsonb WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, clientID, doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// PullWorkCenter removes the entries with the given id, preserving the order of the rest.
func (r *ClientRepo) PullWorkCenter(ctx context.Context, clientID, workCenterID string) error {
	const q = `
UPDATE clients
SET work_centers = COALESCE((
  SELECT jsonb_agg(wc ORDER BY ord)
  FROM jsonb_array_elements(work_centers) WITH ORDINALITY AS t(wc, ord)
  WHERE wc->>'id' IS DISTINCT FROM $2
), '[]'::jsonb)
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, clientID, workCenterID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
