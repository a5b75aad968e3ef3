package service

import (
	"context"
	"errors"
	"testing"

	"github.com/and161185/repairflow/internal/errs"
)

func TestCatalog_FaultTypesSeededOnce(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.catalog.ListFaultTypes(ctx)
	if err != nil {
		t.Fatalf("ListFaultTypes: %v", err)
	}
	if len(first) != 5 || first[0].Name != "SENSOR LEAKING ACID, PCB DAMAGED" || !first[0].RequiresSensor || first[4].Name != "OTHER" {
		t.Fatalf("seed: %+v", first)
	}
	for _, ft := range first {
		if ft.ID == "" {
			t.Fatalf("seeded entries need ids: %+v", ft)
		}
	}
	second, _ := env.catalog.ListFaultTypes(ctx)
	if len(second) != 5 || second[0].ID != first[0].ID {
		t.Fatalf("second read must not reseed: %+v", second)
	}

	if _, err := env.catalog.CreateFaultType(ctx, "NO POWER", false); err != nil {
		t.Fatalf("CreateFaultType: %v", err)
	}
	third, _ := env.catalog.ListFaultTypes(ctx)
	if len(third) != 6 {
		t.Fatalf("after create: %d", len(third))
	}
}

func TestCatalog_ManufacturersAndModels(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.catalog.CreateManufacturer(ctx, " "); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("blank manufacturer: %v", err)
	}
	m, err := env.catalog.CreateManufacturer(ctx, "Dräger")
	if err != nil || m.ID == "" {
		t.Fatalf("CreateManufacturer: %+v %v", m, err)
	}
	ms, _ := env.catalog.ListManufacturers(ctx)
	if len(ms) != 1 || ms[0].Name != "Dräger" {
		t.Fatalf("manufacturers: %+v", ms)
	}

	if _, err := env.catalog.CreateModel(ctx, "X-200", ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("model without type: %v", err)
	}
	for _, in := range [][2]string{{"X-200", "Detector"}, {"Pac 8000", "Detector"}, {"Alpha", "Pump"}} {
		if _, err := env.catalog.CreateModel(ctx, in[0], in[1]); err != nil {
			t.Fatalf("CreateModel: %v", err)
		}
	}
	detectors, _ := env.catalog.ListModels(ctx, "Detector")
	all, _ := env.catalog.ListModels(ctx, "")
	if len(detectors) != 2 || len(all) != 3 {
		t.Fatalf("models: detectors=%d all=%d", len(detectors), len(all))
	}
}
