package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/and161185/repairflow/internal/archive"
	"github.com/and161185/repairflow/internal/model"
	"github.com/and161185/repairflow/internal/repository"
	"github.com/and161185/repairflow/internal/repository/memory"
)

// tickClock advances one second on every read.
type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTickClock() *tickClock {
	return &tickClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type testEnv struct {
	store     repository.Store
	clock     *tickClock
	archive   *archive.Memory
	clients   *ClientServiceImpl
	equipment *EquipmentServiceImpl
	orders    *OrderServiceImpl
	catalog   *CatalogServiceImpl
	export    *ExportServiceImpl
	admin     *AdminServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zaptest.NewLogger(t)
	st := memory.NewStore().Repositories()
	clk := newTickClock()
	arch := archive.NewMemory()

	env := &testEnv{
		store:     st,
		clock:     clk,
		archive:   arch,
		clients:   NewClientService(st.Clients),
		equipment: NewEquipmentService(st.Equipment, st.Clients, log, nil),
		orders:    NewOrderService(st.Orders, st.Equipment, log, nil),
		catalog:   NewCatalogService(st.Catalog),
		export:    NewExportService(st.Equipment, arch, log, nil),
		admin:     NewAdminService(st.Wiper, log),
	}
	env.clients.now = clk.Now
	env.equipment.now = clk.Now
	env.orders.now = clk.Now
	env.export.now = clk.Now
	return env
}

func (e *testEnv) mustClient(t *testing.T, name, taxID string, wcs ...model.WorkCenter) *model.Client {
	t.Helper()
	c, err := e.clients.Create(context.Background(), model.ClientInput{Name: name, TaxID: taxID, Phone: "600000000", WorkCenters: wcs})
	if err != nil {
		t.Fatalf("create client %s: %v", name, err)
	}
	return c
}

func (e *testEnv) mustEquipment(t *testing.T, in model.EquipmentInput) *model.Equipment {
	t.Helper()
	eq, err := e.equipment.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create equipment: %v", err)
	}
	return eq
}

func ids(es []model.Equipment) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}
