package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/and161185/repairflow/internal/model"
)

func TestEquipmentFilter(t *testing.T) {
	require.Equal(t, bson.D{}, equipmentFilter(model.EquipmentFilter{}))

	got := equipmentFilter(model.EquipmentFilter{
		IDs:         []string{"e1"},
		OrderNumber: "PO-1",
		States:      []model.State{model.StateSent},
	})
	want := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: []string{"e1"}}}},
		{Key: "purchase_order_number", Value: "PO-1"},
		{Key: "state", Value: bson.D{{Key: "$in", Value: []string{"Sent"}}}},
	}
	require.Equal(t, want, got)

	got = equipmentFilter(model.EquipmentFilter{HasOrderNumber: true})
	require.Equal(t, bson.D{{Key: "purchase_order_number", Value: bson.D{{Key: "$type", Value: "string"}}}}, got)

	got = equipmentFilter(model.ByIDs(nil))
	require.Equal(t, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: []string{}}}}}, got)
}

func TestSetDocument(t *testing.T) {
	now := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	set := model.FieldSet{}.
		With(model.FieldState, model.StateAtManufacturer).
		With(model.FieldReceptionNumber, model.StringPtr("R-9")).
		With(model.FieldUpdatedAt, now)

	doc, err := setDocument(set)
	require.NoError(t, err)
	require.Equal(t, bson.D{{Key: "$set", Value: bson.D{
		{Key: "state", Value: "AtManufacturer"},
		{Key: "manufacturer_reception_number", Value: model.StringPtr("R-9")},
		{Key: "updated_at", Value: now},
	}}}, doc)

	_, err = setDocument(nil)
	require.Error(t, err)

	_, err = setDocument(model.FieldSet{{Name: model.FieldState, Value: "Sent"}})
	require.Error(t, err, "untyped state must be rejected")
}

func TestMergeUpdate_DedupsAndSetsOnInsert(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	doc := mergeUpdate(&model.PurchaseOrder{ID: "o1", Number: "PO-1", EquipmentIDs: []string{"a", "a", "b"}, CreatedAt: created})

	require.Equal(t, bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: "equipment_ids", Value: bson.D{{Key: "$each", Value: []string{"a", "b"}}}}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "_id", Value: "o1"}, {Key: "created_at", Value: created}}},
	}, doc)
}

func TestClientEntityMapping(t *testing.T) {
	c := &model.Client{
		ID:          "c1",
		Name:        "Acme",
		TaxID:       "B1",
		CreatedAt:   time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		WorkCenters: []model.WorkCenter{{ID: "w1", Name: "Madrid", Address: model.StringPtr("C/ Mayor 1")}},
	}
	e := toClientEntity(c)
	require.Equal(t, "B1", e.TaxID)
	require.Equal(t, "C/ Mayor 1", *e.WorkCenters[0].Address)

	raw, err := bson.Marshal(e)
	require.NoError(t, err)
	var back clientEntity
	require.NoError(t, bson.Unmarshal(raw, &back))
	require.Equal(t, *c, back.toModel())
}
