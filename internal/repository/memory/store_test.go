package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
	"github.com/stretchr/testify/require"
)

func TestClientRepo_TaxIDUnique(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	r := s.Clients()

	require.NoError(t, r.Create(ctx, &model.Client{ID: "c1", Name: "Acme", TaxID: "B1"}))
	require.ErrorIs(t, r.Create(ctx, &model.Client{ID: "c2", Name: "Other", TaxID: "B1"}), errs.ErrConflict)
	require.NoError(t, r.Create(ctx, &model.Client{ID: "c2", Name: "Other", TaxID: "B2"}))

	c2, err := r.GetByID(ctx, "c2")
	require.NoError(t, err)
	c2.TaxID = "B1"
	require.ErrorIs(t, r.Update(ctx, c2), errs.ErrConflict)

	found, err := r.FindByTaxID(ctx, "B1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "c1", found[0].ID)
}

func TestClientRepo_WorkCenters(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Clients()

	require.NoError(t, r.Create(ctx, &model.Client{ID: "c1", Name: "Acme", TaxID: "B1"}))
	require.NoError(t, r.PushWorkCenter(ctx, "c1", model.WorkCenter{ID: "w1", Name: "Madrid"}))
	require.NoError(t, r.PushWorkCenter(ctx, "c1", model.WorkCenter{ID: "w2", Name: "Huelva"}))
	require.NoError(t, r.PullWorkCenter(ctx, "c1", "w1"))
	require.NoError(t, r.PullWorkCenter(ctx, "c1", "missing"))

	c, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, []model.WorkCenter{{ID: "w2", Name: "Huelva"}}, c.WorkCenters)

	require.ErrorIs(t, r.PushWorkCenter(ctx, "nope", model.WorkCenter{ID: "x", Name: "x"}), errs.ErrNotFound)
}

func TestClientRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Clients()
	require.NoError(t, r.Create(ctx, &model.Client{ID: "c1", TaxID: "B1", WorkCenters: []model.WorkCenter{{ID: "w1", Name: "A"}}}))

	c, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	c.WorkCenters[0].Name = "mutated"

	again, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "A", again.WorkCenters[0].Name)
}

func TestEquipmentRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Equipment()
	in := &model.Equipment{ID: "e1", Notes: model.StringPtr("original"), UnderWarranty: model.BoolPtr(false), State: model.StatePending}
	require.NoError(t, r.Create(ctx, in))
	*in.Notes = "caller kept a pointer"

	got, err := r.GetByID(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, "original", *got.Notes)
	*got.Notes = "mutated"
	*got.UnderWarranty = true

	found, err := r.Find(ctx, model.EquipmentFilter{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "original", *found[0].Notes)
	require.False(t, *found[0].UnderWarranty)
	*found[0].Notes = "mutated again"

	again, err := r.GetByID(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, "original", *again.Notes)
}

func TestEquipmentRepo_UpdateManyAndDistinct(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Equipment()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"e1", "e2", "e3"} {
		require.NoError(t, r.Create(ctx, &model.Equipment{ID: id, State: model.StatePending, CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	set := model.FieldSet{}.
		With(model.FieldState, model.StateSent).
		With(model.FieldPurchaseOrderNumber, model.StringPtr("PO-1"))
	n, err := r.UpdateMany(ctx, model.ByIDs([]string{"e1", "e3", "ghost"}), set)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	n, err = r.UpdateMany(ctx, model.ByIDs(nil), set)
	require.NoError(t, err)
	require.Zero(t, n)

	sent, err := r.Find(ctx, model.EquipmentFilter{States: []model.State{model.StateSent}})
	require.NoError(t, err)
	require.Len(t, sent, 2)
	require.Equal(t, "e3", sent[0].ID, "newest first")

	nums, err := r.DistinctOrderNumbers(ctx, model.EquipmentFilter{HasOrderNumber: true})
	require.NoError(t, err)
	require.Equal(t, []string{"PO-1"}, nums)

	require.ErrorIs(t, r.UpdateOne(ctx, "ghost", set), errs.ErrNotFound)
}

func TestEquipmentRepo_UpdateManyIsAtomicOnBadSet(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Equipment()
	require.NoError(t, r.Create(ctx, &model.Equipment{ID: "e1", State: model.StatePending}))

	bad := model.FieldSet{{Name: model.FieldState, Value: model.StateSent}, {Name: "bogus", Value: 1}}
	_, err := r.UpdateMany(ctx, model.EquipmentFilter{}, bad)
	require.Error(t, err)

	e, err := r.GetByID(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, model.StatePending, e.State)
}

func TestOrderRepo_Merge(t *testing.T) {
	ctx := context.Background()
	r := NewStore().Orders()

	created, err := r.Merge(ctx, &model.PurchaseOrder{ID: "o1", Number: "PO-1", EquipmentIDs: []string{"a", "b"}})
	require.NoError(t, err)
	require.True(t, created)

	created, err = r.Merge(ctx, &model.PurchaseOrder{ID: "o2", Number: "PO-1", EquipmentIDs: []string{"b", "c"}})
	require.NoError(t, err)
	require.False(t, created)

	po, err := r.GetByNumber(ctx, "PO-1")
	require.NoError(t, err)
	require.Equal(t, "o1", po.ID)
	require.Equal(t, []string{"a", "b", "c"}, po.EquipmentIDs)

	_, err = r.GetByNumber(ctx, "PO-9")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_CommitHookRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Clients().Create(ctx, &model.Client{ID: "c1", TaxID: "B1"}))

	s.OnCommit(func(Snapshot) error { return errors.New("disk full") })
	require.Error(t, s.Clients().Create(ctx, &model.Client{ID: "c2", TaxID: "B2"}))

	all, err := s.Clients().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestStore_Wipe(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.Clients().Create(ctx, &model.Client{ID: "c1", TaxID: "B1"}))
	require.NoError(t, s.Equipment().Create(ctx, &model.Equipment{ID: "e1"}))
	require.NoError(t, s.Catalog().CreateFaultType(ctx, &model.FaultType{ID: "f1", Name: "OTHER"}))

	counts, err := s.Wipe(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, counts["clients"])
	require.EqualValues(t, 1, counts["equipment"])
	require.EqualValues(t, 1, counts["fault_types"])

	snap := s.ExportState()
	require.Empty(t, snap.Clients)
	require.Empty(t, snap.Equipment)
	require.Empty(t, snap.FaultTypes)
}
