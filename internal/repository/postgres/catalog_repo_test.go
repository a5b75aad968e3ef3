package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/repairflow/internal/model"
)

func TestCatalogRepo_FaultTypes(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCatalogRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO fault_types \(id, name, requires_sensor\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs("f1", "SENSOR FAILURE", true).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.CreateFaultType(ctx, &model.FaultType{ID: "f1", Name: "SENSOR FAILURE", RequiresSensor: true}))

	mock.ExpectQuery(`SELECT id, name, requires_sensor FROM fault_types ORDER BY seq`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "requires_sensor"}).AddRow("f1", "SENSOR FAILURE", true))
	got, err := r.ListFaultTypes(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.FaultType{{ID: "f1", Name: "SENSOR FAILURE", RequiresSensor: true}}, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepo_ListModelsByType(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewCatalogRepo(db)

	mock.ExpectQuery(`FROM equipment_models WHERE \$1 = '' OR equipment_type = \$1 ORDER BY seq`).
		WithArgs("Detector").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "equipment_type"}).AddRow("m1", "X-200", "Detector"))
	got, err := r.ListModels(context.Background(), "Detector")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
