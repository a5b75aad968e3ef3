package model

// Manufacturer is a reference-data entry.
type Manufacturer struct {
	ID   string
	Name string
}

// EquipmentModel is a reference-data entry scoped to an equipment type.
type EquipmentModel struct {
	ID            string
	Name          string
	EquipmentType string
}

// FaultType is a reference-data entry; some faults require sensor details.
type FaultType struct {
	ID             string
	Name           string
	RequiresSensor bool
}

// DefaultFaultTypes is the seed used when the fault-type catalog is read empty.
func DefaultFaultTypes() []FaultType {
	return []FaultType{
		{Name: "SENSOR LEAKING ACID, PCB DAMAGED", RequiresSensor: true},
		{Name: "SENSOR FAILURE", RequiresSensor: true},
		{Name: "AIR LEAK"},
		{Name: "LOW SOUND"},
		{Name: "OTHER"},
	}
}
