package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

var clientCols = []string{"id", "name", "tax_id", "phone", "email", "work_centers", "created_at"}

func TestClientRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewClientRepo(db)
	ctx := context.Background()
	c := &model.Client{ID: "c1", Name: "Acme", TaxID: "B1", Phone: "600", CreatedAt: time.Now().UTC()}

	mock.ExpectExec(`INSERT INTO clients \(id, name, tax_id, phone, email, work_centers, created_at\)`).
		WithArgs(c.ID, c.Name, c.TaxID, c.Phone, c.Email, pgxmock.AnyArg(), c.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, c))

	mock.ExpectExec(`INSERT INTO clients`).
		WithArgs(c.ID, c.Name, c.TaxID, c.Phone, c.Email, pgxmock.AnyArg(), c.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Create(ctx, c), errs.ErrConflict)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepo_GetByID_DecodesWorkCenters(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewClientRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()
	email := "ops@acme.test"

	mock.ExpectQuery(`SELECT id, name, tax_id, phone, email, work_centers, created_at FROM clients WHERE id=\$1`).
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows(clientCols).
			AddRow("c1", "Acme", "B1", "600", &email, []byte(`[{"id":"w1","name":"Madrid"},{"id":"","name":"broken"}]`), now))
	c, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "Acme", c.Name)
	require.Equal(t, email, *c.Email)
	require.Len(t, c.WorkCenters, 2)
	require.Equal(t, "Madrid", c.WorkCenters[0].Name)

	mock.ExpectQuery(`FROM clients WHERE id=\$1`).
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, "nope")
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewClientRepo(db)
	ctx := context.Background()
	c := &model.Client{ID: "c1", Name: "Acme", TaxID: "B2"}

	mock.ExpectExec(`UPDATE clients SET name=\$2, tax_id=\$3, phone=\$4, email=\$5, work_centers=\$6 WHERE id=\$1`).
		WithArgs(c.ID, c.Name, c.TaxID, c.Phone, c.Email, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.Update(ctx, c), errs.ErrNotFound)

	mock.ExpectExec(`UPDATE clients SET name`).
		WithArgs(c.ID, c.Name, c.TaxID, c.Phone, c.Email, pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Update(ctx, c), errs.ErrConflict)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepo_PushPullWorkCenter(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewClientRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE clients SET work_centers = work_centers \|\| \$2::jsonb WHERE id=\$1`).
		WithArgs("c1", []byte(`[{"id":"w1","name":"Madrid"}]`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.PushWorkCenter(ctx, "c1", model.WorkCenter{ID: "w1", Name: "Madrid"}))

	mock.ExpectExec(`jsonb_array_elements\(work_centers\) WITH ORDINALITY`).
		WithArgs("c1", "w1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.PullWorkCenter(ctx, "c1", "w1"))

	mock.ExpectExec(`jsonb_array_elements`).
		WithArgs("ghost", "w1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.PullWorkCenter(ctx, "ghost", "w1"), errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepo_FindByTaxID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewClientRepo(db)

	mock.ExpectQuery(`FROM clients WHERE tax_id=\$1 ORDER BY created_at, id`).
		WithArgs("B1").
		WillReturnRows(pgxmock.NewRows(clientCols).
			AddRow("c1", "Acme", "B1", "", nil, []byte(`[]`), time.Now()))
	got, err := r.FindByTaxID(context.Background(), "B1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Nil(t, got[0].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}
