// Package memory contains an in-process implementation of the repository interfaces.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
	"github.com/and161185/repairflow/internal/repository"
)

// Snapshot is the full exported state of a Store.
type Snapshot struct {
	Clients        []model.Client         `json:"clients"`
	Equipment      []model.Equipment      `json:"equipment"`
	PurchaseOrders []model.PurchaseOrder  `json:"purchase_orders"`
	Manufacturers  []model.Manufacturer   `json:"manufacturers"`
	Models         []model.EquipmentModel `json:"equipment_models"`
	FaultTypes     []model.FaultType      `json:"fault_types"`
}

// CommitFunc receives the state after every successful mutation.
// A returned error rolls the mutation back.
type CommitFunc func(Snapshot) error

// Store keeps every collection in memory behind a single lock.
type Store struct {
	mu sync.RWMutex

	clients       map[string]model.Client
	equipment     map[string]model.Equipment
	orders        map[string]model.PurchaseOrder // keyed by order number
	manufacturers []model.Manufacturer
	models        []model.EquipmentModel
	faultTypes    []model.FaultType

	commit CommitFunc
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		clients:   map[string]model.Client{},
		equipment: map[string]model.Equipment{},
		orders:    map[string]model.PurchaseOrder{},
	}
}

// OnCommit installs a hook run after each mutation while the lock is held.
func (s *Store) OnCommit(fn CommitFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commit = fn
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Clients:   s.Clients(),
		Equipment: s.Equipment(),
		Orders:    s.Orders(),
		Catalog:   s.Catalog(),
		Wiper:     s,
	}
}

// Clients returns the client repository view.
func (s *Store) Clients() repository.ClientRepository { return &clientRepo{s: s} }

// Equipment returns the equipment repository view.
func (s *Store) Equipment() repository.EquipmentRepository { return &equipmentRepo{s: s} }

// Orders returns the purchase order repository view.
func (s *Store) Orders() repository.PurchaseOrderRepository { return &orderRepo{s: s} }

// Catalog returns the reference-data repository view.
func (s *Store) Catalog() repository.CatalogRepository { return &catalogRepo{s: s} }

// ExportState returns a deep copy of the current state.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.exportLocked()
}

// ImportState replaces the current state with the snapshot.
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.importLocked(snap)
}

// Wipe removes every record.
func (s *Store) Wipe(_ context.Context) (map[string]int64, error) {
	var counts map[string]int64
	err := s.mutate(func() error {
		counts = map[string]int64{
			repository.CollectionClients:        int64(len(s.clients)),
			repository.CollectionEquipment:      int64(len(s.equipment)),
			repository.CollectionPurchaseOrders: int64(len(s.orders)),
			repository.CollectionManufacturers:  int64(len(s.manufacturers)),
			repository.CollectionModels:         int64(len(s.models)),
			repository.CollectionFaultTypes:     int64(len(s.faultTypes)),
		}
		s.importLocked(Snapshot{})
		return nil
	})
	return counts, err
}

// mutate runs fn under the write lock and hands the result to the commit hook.
func (s *Store) mutate(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var before Snapshot
	if s.commit != nil {
		before = s.exportLocked()
	}
	if err := fn(); err != nil {
		return err
	}
	if s.commit == nil {
		return nil
	}
	if err := s.commit(s.exportLocked()); err != nil {
		s.importLocked(before)
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) exportLocked() Snapshot {
	snap := Snapshot{
		Clients:        make([]model.Client, 0, len(s.clients)),
		Equipment:      make([]model.Equipment, 0, len(s.equipment)),
		PurchaseOrders: make([]model.PurchaseOrder, 0, len(s.orders)),
		Manufacturers:  slices.Clone(s.manufacturers),
		Models:         slices.Clone(s.models),
		FaultTypes:     slices.Clone(s.faultTypes),
	}
	for _, c := range s.clients {
		snap.Clients = append(snap.Clients, cloneClient(c))
	}
	for _, e := range s.equipment {
		snap.Equipment = append(snap.Equipment, cloneEquipment(e))
	}
	for _, po := range s.orders {
		snap.PurchaseOrders = append(snap.PurchaseOrders, cloneOrder(po))
	}
	sortClients(snap.Clients)
	sortEquipment(snap.Equipment)
	sortOrders(snap.PurchaseOrders)
	return snap
}

func (s *Store) importLocked(snap Snapshot) {
	s.clients = make(map[string]model.Client, len(snap.Clients))
	for _, c := range snap.Clients {
		s.clients[c.ID] = cloneClient(c)
	}
	s.equipment = make(map[string]model.Equipment, len(snap.Equipment))
	for _, e := range snap.Equipment {
		s.equipment[e.ID] = cloneEquipment(e)
	}
	s.orders = make(map[string]model.PurchaseOrder, len(snap.PurchaseOrders))
	for _, po := range snap.PurchaseOrders {
		s.orders[po.Number] = cloneOrder(po)
	}
	s.manufacturers = slices.Clone(snap.Manufacturers)
	s.models = slices.Clone(snap.Models)
	s.faultTypes = slices.Clone(snap.FaultTypes)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneClient(c model.Client) model.Client {
	c.Email = clonePtr(c.Email)
	if c.WorkCenters != nil {
		wcs := make([]model.WorkCenter, len(c.WorkCenters))
		for i, wc := range c.WorkCenters {
			wc.Address = clonePtr(wc.Address)
			wc.Phone = clonePtr(wc.Phone)
			wcs[i] = wc
		}
		c.WorkCenters = wcs
	}
	return c
}

// cloneEquipment detaches every optional field from the stored record.
func cloneEquipment(e model.Equipment) model.Equipment {
	e.WorkCenterID = clonePtr(e.WorkCenterID)
	e.WorkCenterName = clonePtr(e.WorkCenterName)
	e.ATO = clonePtr(e.ATO)
	e.ManufactureDate = clonePtr(e.ManufactureDate)
	e.Notes = clonePtr(e.Notes)
	e.SensorSerialNumber = clonePtr(e.SensorSerialNumber)
	e.SensorInstallDate = clonePtr(e.SensorInstallDate)
	e.PurchaseOrderNumber = clonePtr(e.PurchaseOrderNumber)
	e.ReceptionNumber = clonePtr(e.ReceptionNumber)
	e.UnderWarranty = clonePtr(e.UnderWarranty)
	e.QuoteNumber = clonePtr(e.QuoteNumber)
	e.QuoteAccepted = clonePtr(e.QuoteAccepted)
	return e
}

func cloneOrder(po model.PurchaseOrder) model.PurchaseOrder {
	po.EquipmentIDs = slices.Clone(po.EquipmentIDs)
	return po
}

func sortClients(cs []model.Client) {
	slices.SortStableFunc(cs, func(a, b model.Client) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// sortEquipment orders newest first.
func sortEquipment(es []model.Equipment) {
	slices.SortStableFunc(es, func(a, b model.Equipment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// sortOrders orders newest first.
func sortOrders(pos []model.PurchaseOrder) {
	slices.SortStableFunc(pos, func(a, b model.PurchaseOrder) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
}

type clientRepo struct{ s *Store }

func (r *clientRepo) Create(_ context.Context, c *model.Client) error {
	return r.s.mutate(func() error {
		if _, ok := r.s.clients[c.ID]; ok {
			return errs.ErrConflict
		}
		if r.s.taxIDTakenLocked(c.TaxID, "") {
			return errs.ErrConflict
		}
		r.s.clients[c.ID] = cloneClient(*c)
		return nil
	})
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*model.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c = cloneClient(c)
	return &c, nil
}

func (r *clientRepo) List(_ context.Context) ([]model.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		out = append(out, cloneClient(c))
	}
	sortClients(out)
	return out, nil
}

func (r *clientRepo) FindByTaxID(_ context.Context, taxID string) ([]model.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Client
	for _, c := range r.s.clients {
		if c.TaxID == taxID {
			out = append(out, cloneClient(c))
		}
	}
	sortClients(out)
	return out, nil
}

func (r *clientRepo) Update(_ context.Context, c *model.Client) error {
	return r.s.mutate(func() error {
		if _, ok := r.s.clients[c.ID]; !ok {
			return errs.ErrNotFound
		}
		if r.s.taxIDTakenLocked(c.TaxID, c.ID) {
			return errs.ErrConflict
		}
		r.s.clients[c.ID] = cloneClient(*c)
		return nil
	})
}

func (r *clientRepo) PushWorkCenter(_ context.Context, clientID string, wc model.WorkCenter) error {
	return r.s.mutate(func() error {
		c, ok := r.s.clients[clientID]
		if !ok {
			return errs.ErrNotFound
		}
		c.WorkCenters = append(slices.Clone(c.WorkCenters), wc)
		r.s.clients[clientID] = c
		return nil
	})
}

func (r *clientRepo) PullWorkCenter(_ context.Context, clientID, workCenterID string) error {
	return r.s.mutate(func() error {
		c, ok := r.s.clients[clientID]
		if !ok {
			return errs.ErrNotFound
		}
		c.WorkCenters = slices.DeleteFunc(slices.Clone(c.WorkCenters), func(wc model.WorkCenter) bool {
			return wc.ID == workCenterID
		})
		r.s.clients[clientID] = c
		return nil
	})
}

func (s *Store) taxIDTakenLocked(taxID, exceptID string) bool {
	for id, c := range s.clients {
		if id != exceptID && c.TaxID == taxID {
			return true
		}
	}
	return false
}

type equipmentRepo struct{ s *Store }

func (r *equipmentRepo) Create(_ context.Context, e *model.Equipment) error {
	return r.s.mutate(func() error {
		if _, ok := r.s.equipment[e.ID]; ok {
			return errs.ErrConflict
		}
		r.s.equipment[e.ID] = cloneEquipment(*e)
		return nil
	})
}

func (r *equipmentRepo) GetByID(_ context.Context, id string) (*model.Equipment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.equipment[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	e = cloneEquipment(e)
	return &e, nil
}

func (r *equipmentRepo) Find(_ context.Context, f model.EquipmentFilter) ([]model.Equipment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Equipment{}
	for _, e := range r.s.equipment {
		if f.Match(e) {
			out = append(out, cloneEquipment(e))
		}
	}
	sortEquipment(out)
	return out, nil
}

func (r *equipmentRepo) UpdateOne(_ context.Context, id string, set model.FieldSet) error {
	return r.s.mutate(func() error {
		e, ok := r.s.equipment[id]
		if !ok {
			return errs.ErrNotFound
		}
		if err := set.Apply(&e); err != nil {
			return err
		}
		r.s.equipment[id] = e
		return nil
	})
}

func (r *equipmentRepo) UpdateMany(_ context.Context, f model.EquipmentFilter, set model.FieldSet) (int64, error) {
	var n int64
	err := r.s.mutate(func() error {
		updated := map[string]model.Equipment{}
		for id, e := range r.s.equipment {
			if !f.Match(e) {
				continue
			}
			if err := set.Apply(&e); err != nil {
				return err
			}
			updated[id] = e
		}
		for id, e := range updated {
			r.s.equipment[id] = e
		}
		n = int64(len(updated))
		return nil
	})
	return n, err
}

func (r *equipmentRepo) DistinctOrderNumbers(_ context.Context, f model.EquipmentFilter) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := map[string]struct{}{}
	for _, e := range r.s.equipment {
		if e.PurchaseOrderNumber != nil && f.Match(e) {
			seen[*e.PurchaseOrderNumber] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	slices.Sort(out)
	return out, nil
}

type orderRepo struct{ s *Store }

func (r *orderRepo) GetByNumber(_ context.Context, number string) (*model.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	po, ok := r.s.orders[number]
	if !ok {
		return nil, errs.ErrNotFound
	}
	po = cloneOrder(po)
	return &po, nil
}

func (r *orderRepo) List(_ context.Context) ([]model.PurchaseOrder, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.PurchaseOrder, 0, len(r.s.orders))
	for _, po := range r.s.orders {
		out = append(out, cloneOrder(po))
	}
	sortOrders(out)
	return out, nil
}

func (r *orderRepo) Merge(_ context.Context, po *model.PurchaseOrder) (bool, error) {
	var created bool
	err := r.s.mutate(func() error {
		cur, ok := r.s.orders[po.Number]
		if !ok {
			cur = model.PurchaseOrder{ID: po.ID, Number: po.Number, CreatedAt: po.CreatedAt}
			created = true
		}
		cur.EquipmentIDs = model.MergeIDs(slices.Clone(cur.EquipmentIDs), po.EquipmentIDs...)
		r.s.orders[po.Number] = cur
		return nil
	})
	return created, err
}

type catalogRepo struct{ s *Store }

func (r *catalogRepo) ListManufacturers(_ context.Context) ([]model.Manufacturer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]model.Manufacturer{}, r.s.manufacturers...), nil
}

func (r *catalogRepo) CreateManufacturer(_ context.Context, m *model.Manufacturer) error {
	return r.s.mutate(func() error {
		r.s.manufacturers = append(r.s.manufacturers, *m)
		return nil
	})
}

func (r *catalogRepo) ListModels(_ context.Context, equipmentType string) ([]model.EquipmentModel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.EquipmentModel{}
	for _, m := range r.s.models {
		if equipmentType == "" || m.EquipmentType == equipmentType {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *catalogRepo) CreateModel(_ context.Context, m *model.EquipmentModel) error {
	return r.s.mutate(func() error {
		r.s.models = append(r.s.models, *m)
		return nil
	})
}

func (r *catalogRepo) ListFaultTypes(_ context.Context) ([]model.FaultType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]model.FaultType{}, r.s.faultTypes...), nil
}

func (r *catalogRepo) CreateFaultType(_ context.Context, ft *model.FaultType) error {
	return r.s.mutate(func() error {
		r.s.faultTypes = append(r.s.faultTypes, *ft)
		return nil
	})
}
