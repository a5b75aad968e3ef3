package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/and161185/repairflow/internal/model"
)

func TestStorePersistAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := Open(ctx, path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}

	repos := store.Repositories()
	if err := repos.Clients.Create(ctx, &model.Client{ID: "c1", Name: "Acme", TaxID: "B1", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("create client: %v", err)
	}
	if err := repos.Equipment.Create(ctx, &model.Equipment{ID: "e1", ClientID: "c1", State: model.StatePending}); err != nil {
		t.Fatalf("create equipment: %v", err)
	}
	if _, err := repos.Orders.Merge(ctx, &model.PurchaseOrder{ID: "o1", Number: "PO-1", EquipmentIDs: []string{"e1"}}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })

	snap := reloaded.ExportState()
	if len(snap.Clients) != 1 || snap.Clients[0].TaxID != "B1" {
		t.Fatalf("clients not reloaded: %+v", snap.Clients)
	}
	if len(snap.Equipment) != 1 || snap.Equipment[0].State != model.StatePending {
		t.Fatalf("equipment not reloaded: %+v", snap.Equipment)
	}
	if len(snap.PurchaseOrders) != 1 || snap.PurchaseOrders[0].EquipmentIDs[0] != "e1" {
		t.Fatalf("orders not reloaded: %+v", snap.PurchaseOrders)
	}
}

func TestStoreCreatesStateTable(t *testing.T) {
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "state.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	var name string
	if err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", "state").Scan(&name); err != nil {
		t.Fatalf("lookup state table: %v", err)
	}
}
