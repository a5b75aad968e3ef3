package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
)

func TestEquipment_CreateNormalizes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	c := env.mustClient(t, "Acme", "B1", model.WorkCenter{ID: "w1", Name: "Plant"})

	e := env.mustEquipment(t, model.EquipmentInput{
		WorkOrder:         "WO-1",
		ClientID:          c.ID,
		WorkCenterID:      "w1",
		EquipmentType:     "Detector",
		Model:             "X-200",
		ATO:               "   ",
		Manufacturer:      "Dräger",
		SerialNumber:      "SN1",
		ManufactureDate:   "not-a-date",
		SensorInstallDate: "2024-05-10",
		FaultType:         "AIR LEAK",
	})
	if e.State != model.StatePending {
		t.Fatalf("state: %s", e.State)
	}
	if e.ManufactureDate != nil {
		t.Fatalf("malformed date must be stored as null, got %v", e.ManufactureDate)
	}
	if e.SensorInstallDate == nil || !e.SensorInstallDate.Equal(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("sensor install date: %v", e.SensorInstallDate)
	}
	if e.ATO != nil || e.Notes != nil {
		t.Fatalf("blank optional strings must be null: ato=%v notes=%v", e.ATO, e.Notes)
	}
	if e.ClientName != "Acme" || e.WorkCenterName == nil || *e.WorkCenterName != "Plant" {
		t.Fatalf("snapshots: client=%q wc=%v", e.ClientName, e.WorkCenterName)
	}
	if e.CreatedAt.IsZero() || !e.CreatedAt.Equal(e.UpdatedAt) {
		t.Fatalf("timestamps: %v %v", e.CreatedAt, e.UpdatedAt)
	}

	stored, err := env.equipment.Get(context.Background(), e.ID)
	if err != nil || stored.ManufactureDate != nil {
		t.Fatalf("stored: %+v err=%v", stored, err)
	}
}

func TestEquipment_CreateRejectsUnknownReferences(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.mustClient(t, "Acme", "B1")

	if _, err := env.equipment.Create(ctx, model.EquipmentInput{}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("missing client id: %v", err)
	}
	if _, err := env.equipment.Create(ctx, model.EquipmentInput{ClientID: "ghost"}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown client: %v", err)
	}
	if _, err := env.equipment.Create(ctx, model.EquipmentInput{ClientID: c.ID, WorkCenterID: "ghost"}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown work center: %v", err)
	}
}

func TestEquipment_SnapshotsAreNotRefreshed(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.mustClient(t, "Acme", "B1")
	e := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID})

	if _, err := env.clients.Update(ctx, c.ID, model.ClientUpdate{Name: model.StringPtr("Acme Renamed")}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := env.equipment.Get(ctx, e.ID)
	if got.ClientName != "Acme" {
		t.Fatalf("snapshot must keep the name at creation, got %q", got.ClientName)
	}
}

func TestEquipment_UpdatePatch(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.mustClient(t, "Acme", "B1")
	e := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID, Model: "X-100", Notes: "scratch"})

	got, err := env.equipment.Update(ctx, e.ID, model.EquipmentPatch{
		Model:           model.StringPtr("X-200"),
		Notes:           model.StringPtr(""),
		ManufactureDate: model.StringPtr("2020-01-02"),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Model != "X-200" || got.Notes != nil || got.ManufactureDate == nil {
		t.Fatalf("patched: %+v", got)
	}
	if got.State != model.StatePending || !got.UpdatedAt.After(e.UpdatedAt) {
		t.Fatalf("state=%s updated_at=%v (was %v)", got.State, got.UpdatedAt, e.UpdatedAt)
	}

	if _, err := env.equipment.Update(ctx, e.ID, model.EquipmentPatch{SerialNumber: model.StringPtr(" ")}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("blanking a required field: %v", err)
	}
	if _, err := env.equipment.Update(ctx, "ghost", model.EquipmentPatch{}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown id: %v", err)
	}
}

func TestEquipment_OverrideState(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.mustClient(t, "Acme", "B1")
	e := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID})

	if _, err := env.equipment.OverrideState(ctx, model.Identity{Username: "Mariano"}, e.ID, "Received"); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("non-admin: %v", err)
	}
	admin := model.Identity{Username: model.AdminUsername}
	if _, err := env.equipment.OverrideState(ctx, admin, e.ID, "Lost"); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("unknown state: %v", err)
	}
	got, err := env.equipment.OverrideState(ctx, admin, e.ID, "Received")
	if err != nil {
		t.Fatalf("OverrideState: %v", err)
	}
	if got.State != model.StateReceived {
		t.Fatalf("state: %s", got.State)
	}
	if _, err := env.equipment.OverrideState(ctx, admin, "ghost", "Sent"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown id: %v", err)
	}
}

func TestEquipment_ManufacturerResponseScopedToOrder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.mustClient(t, "Acme", "B1")
	a := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID})
	b := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID})
	other := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID})

	if _, err := env.orders.Assign(ctx, "PO-1", []string{a.ID, b.ID}); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if _, err := env.orders.Assign(ctx, "PO-2", []string{other.ID}); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	// the id of another order is ignored
	n, err := env.equipment.RecordManufacturerResponse(ctx, model.ManufacturerResponse{
		OrderNumber:     "PO-1",
		EquipmentIDs:    []string{a.ID, other.ID, "ghost"},
		ReceptionNumber: "R-9",
		UnderWarranty:   false,
		QuoteNumber:     model.StringPtr("Q-1"),
		QuoteAccepted:   model.BoolPtr(true),
	})
	if err != nil || n != 1 {
		t.Fatalf("RecordManufacturerResponse: n=%d err=%v", n, err)
	}
	got, _ := env.equipment.Get(ctx, a.ID)
	if got.State != model.StateAtManufacturer || *got.ReceptionNumber != "R-9" || *got.UnderWarranty ||
		*got.QuoteNumber != "Q-1" || !*got.QuoteAccepted {
		t.Fatalf("response not applied: %+v", got)
	}
	untouched, _ := env.equipment.Get(ctx, other.ID)
	if untouched.State != model.StateSent {
		t.Fatalf("other order changed: %s", untouched.State)
	}

	// a later warranty answer leaves the quote fields alone
	if _, err := env.equipment.RecordManufacturerResponse(ctx, model.ManufacturerResponse{
		OrderNumber: "PO-1", EquipmentIDs: []string{a.ID}, ReceptionNumber: "R-10", UnderWarranty: true,
	}); err != nil {
		t.Fatalf("RecordManufacturerResponse: %v", err)
	}
	got, _ = env.equipment.Get(ctx, a.ID)
	if !*got.UnderWarranty || *got.ReceptionNumber != "R-10" || got.QuoteNumber == nil || *got.QuoteNumber != "Q-1" {
		t.Fatalf("warranty answer: %+v", got)
	}

	if n, err := env.equipment.RecordManufacturerResponse(ctx, model.ManufacturerResponse{OrderNumber: "PO-1"}); err != nil || n != 0 {
		t.Fatalf("empty list: n=%d err=%v", n, err)
	}
	if _, err := env.equipment.RecordManufacturerResponse(ctx, model.ManufacturerResponse{EquipmentIDs: []string{b.ID}}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("missing order number: %v", err)
	}
}

func TestEquipment_Projections(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	c := env.mustClient(t, "Acme", "B1")
	pending := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID})
	warranty := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID})
	quoted := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID})
	noQuote := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID})
	done := env.mustEquipment(t, model.EquipmentInput{ClientID: c.ID})

	if _, err := env.orders.Assign(ctx, "PO-1", []string{warranty.ID, quoted.ID, noQuote.ID}); err != nil {
		t.Fatalf("Assign: %v", err)
	}
	mustRespond := func(r model.ManufacturerResponse) {
		t.Helper()
		r.OrderNumber = "PO-1"
		if _, err := env.equipment.RecordManufacturerResponse(ctx, r); err != nil {
			t.Fatalf("respond: %v", err)
		}
	}
	mustRespond(model.ManufacturerResponse{EquipmentIDs: []string{warranty.ID}, UnderWarranty: true})
	mustRespond(model.ManufacturerResponse{EquipmentIDs: []string{quoted.ID}, QuoteNumber: model.StringPtr("Q")})
	mustRespond(model.ManufacturerResponse{EquipmentIDs: []string{noQuote.ID}})
	if n, err := env.equipment.Receive(ctx, []string{done.ID, "ghost"}); err != nil || n != 1 {
		t.Fatalf("Receive: n=%d err=%v", n, err)
	}

	check := func(name string, list func(context.Context) ([]model.Equipment, error), want ...string) {
		t.Helper()
		got, err := list(ctx)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		gotIDs := map[string]bool{}
		for _, id := range ids(got) {
			gotIDs[id] = true
		}
		if len(got) != len(want) {
			t.Fatalf("%s: got %d items, want %d", name, len(got), len(want))
		}
		for _, id := range want {
			if !gotIDs[id] {
				t.Fatalf("%s: missing %s", name, id)
			}
		}
	}
	check("pending", env.equipment.ListPending, pending.ID)
	check("reception", env.equipment.ListForReception, warranty.ID, quoted.ID)
	check("completed", env.equipment.ListCompleted, done.ID)
	check("all", env.equipment.List, pending.ID, warranty.ID, quoted.ID, noQuote.ID, done.ID)

	if n, err := env.equipment.Receive(ctx, nil); err != nil || n != 0 {
		t.Fatalf("empty receive: n=%d err=%v", n, err)
	}
}
