package model

import (
	"fmt"
	"slices"
	"time"
)

// Equipment field names. Every store backend uses them as document keys or column names.
const (
	FieldWorkOrder           = "work_order"
	FieldEquipmentType       = "equipment_type"
	FieldModel               = "model"
	FieldATO                 = "ato"
	FieldManufacturer        = "manufacturer"
	FieldSerialNumber        = "serial_number"
	FieldManufactureDate     = "manufacture_date"
	FieldFaultType           = "fault_type"
	FieldNotes               = "notes"
	FieldSensorSerialNumber  = "sensor_serial_number"
	FieldSensorInstallDate   = "sensor_install_date"
	FieldState               = "state"
	FieldPurchaseOrderNumber = "purchase_order_number"
	FieldReceptionNumber     = "manufacturer_reception_number"
	FieldUnderWarranty       = "under_warranty"
	FieldQuoteNumber         = "quote_number"
	FieldQuoteAccepted       = "quote_accepted"
	FieldUpdatedAt           = "updated_at"
)

// FieldValue is one assignment of an update.
//
// Value types: string for required text, *string for optional text, *time.Time
// for dates, *bool for flags, State for the state and time.Time for updated_at.
type FieldValue struct {
	Name  string
	Value any
}

// FieldSet is an ordered list of assignments applied atomically to each matched record.
type FieldSet []FieldValue

// With returns the set extended (or overridden) with name=v.
func (s FieldSet) With(name string, v any) FieldSet {
	for i := range s {
		if s[i].Name == name {
			out := slices.Clone(s)
			out[i].Value = v
			return out
		}
	}
	return append(slices.Clone(s), FieldValue{Name: name, Value: v})
}

// Get returns the value assigned to name.
func (s FieldSet) Get(name string) (any, bool) {
	for _, f := range s {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Apply assigns every field of the set to e.
func (s FieldSet) Apply(e *Equipment) error {
	for _, f := range s {
		if err := applyField(e, f); err != nil {
			return err
		}
	}
	return nil
}

func applyField(e *Equipment, f FieldValue) error {
	var ok bool
	switch f.Name {
	case FieldWorkOrder:
		e.WorkOrder, ok = f.Value.(string)
	case FieldEquipmentType:
		e.EquipmentType, ok = f.Value.(string)
	case FieldModel:
		e.Model, ok = f.Value.(string)
	case FieldManufacturer:
		e.Manufacturer, ok = f.Value.(string)
	case FieldSerialNumber:
		e.SerialNumber, ok = f.Value.(string)
	case FieldFaultType:
		e.FaultType, ok = f.Value.(string)
	case FieldATO:
		e.ATO, ok = f.Value.(*string)
	case FieldNotes:
		e.Notes, ok = f.Value.(*string)
	case FieldSensorSerialNumber:
		e.SensorSerialNumber, ok = f.Value.(*string)
	case FieldPurchaseOrderNumber:
		e.PurchaseOrderNumber, ok = f.Value.(*string)
	case FieldReceptionNumber:
		e.ReceptionNumber, ok = f.Value.(*string)
	case FieldQuoteNumber:
		e.QuoteNumber, ok = f.Value.(*string)
	case FieldManufactureDate:
		e.ManufactureDate, ok = f.Value.(*time.Time)
	case FieldSensorInstallDate:
		e.SensorInstallDate, ok = f.Value.(*time.Time)
	case FieldUnderWarranty:
		e.UnderWarranty, ok = f.Value.(*bool)
	case FieldQuoteAccepted:
		e.QuoteAccepted, ok = f.Value.(*bool)
	case FieldState:
		e.State, ok = f.Value.(State)
	case FieldUpdatedAt:
		e.UpdatedAt, ok = f.Value.(time.Time)
	default:
		return fmt.Errorf("unknown equipment field %q", f.Name)
	}
	if !ok {
		return fmt.Errorf("field %q: unexpected value type %T", f.Name, f.Value)
	}
	return nil
}

// EquipmentFilter selects equipment. Zero-valued criteria match everything.
type EquipmentFilter struct {
	// IDs restricts to the listed ids when non-nil; an empty non-nil slice matches nothing.
	IDs []string
	// OrderNumber restricts to equipment dispatched under this order number.
	OrderNumber string
	// States restricts to the listed states.
	States []State
	// HasOrderNumber restricts to equipment that was dispatched at least once.
	HasOrderNumber bool
}

// ByIDs selects the listed ids.
func ByIDs(ids []string) EquipmentFilter {
	if ids == nil {
		ids = []string{}
	}
	return EquipmentFilter{IDs: ids}
}

// Match reports whether e satisfies the filter.
func (f EquipmentFilter) Match(e Equipment) bool {
	if f.IDs != nil && !slices.Contains(f.IDs, e.ID) {
		return false
	}
	if f.OrderNumber != "" && (e.PurchaseOrderNumber == nil || *e.PurchaseOrderNumber != f.OrderNumber) {
		return false
	}
	if f.HasOrderNumber && e.PurchaseOrderNumber == nil {
		return false
	}
	if len(f.States) > 0 && !slices.Contains(f.States, e.State) {
		return false
	}
	return true
}
