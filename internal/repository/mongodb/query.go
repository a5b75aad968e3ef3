package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/and161185/repairflow/internal/model"
)

// equipmentFilter renders f as a query document.
func equipmentFilter(f model.EquipmentFilter) bson.D {
	var d bson.D
	if f.IDs != nil {
		d = append(d, bson.E{Key: "_id", Value: bson.D{{Key: "$in", Value: f.IDs}}})
	}
	switch {
	case f.OrderNumber != "":
		d = append(d, bson.E{Key: model.FieldPurchaseOrderNumber, Value: f.OrderNumber})
	case f.HasOrderNumber:
		d = append(d, bson.E{Key: model.FieldPurchaseOrderNumber, Value: bson.D{{Key: "$type", Value: "string"}}})
	}
	if len(f.States) > 0 {
		states := make([]string, 0, len(f.States))
		for _, s := range f.States {
			states = append(states, string(s))
		}
		d = append(d, bson.E{Key: model.FieldState, Value: bson.D{{Key: "$in", Value: states}}})
	}
	if d == nil {
		d = bson.D{}
	}
	return d
}

// setDocument renders set as a $set update.
func setDocument(set model.FieldSet) (bson.D, error) {
	if len(set) == 0 {
		return nil, fmt.Errorf("empty field set")
	}
	fields := make(bson.D, 0, len(set))
	for _, fv := range set {
		if err := (model.FieldSet{fv}).Apply(&model.Equipment{}); err != nil {
			return nil, err
		}
		fields = append(fields, bson.E{Key: fv.Name, Value: documentValue(fv.Value)})
	}
	return bson.D{{Key: "$set", Value: fields}}, nil
}

func documentValue(v any) any {
	switch x := v.(type) {
	case model.State:
		return string(x)
	case time.Time:
		return x.UTC()
	default:
		return v
	}
}
