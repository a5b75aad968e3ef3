package mongodb

import (
	"time"

	"github.com/and161185/repairflow/internal/model"
)

type workCenterEntity struct {
	ID      string  `bson:"id"`
	Name    string  `bson:"name"`
	Address *string `bson:"address,omitempty"`
	Phone   *string `bson:"phone,omitempty"`
}

type clientEntity struct {
	ID          string             `bson:"_id"`
	Name        string             `bson:"name"`
	TaxID       string             `bson:"tax_id"`
	Phone       string             `bson:"phone"`
	Email       *string            `bson:"email"`
	WorkCenters []workCenterEntity `bson:"work_centers"`
	CreatedAt   time.Time          `bson:"created_at"`
}

type equipmentEntity struct {
	ID                  string     `bson:"_id"`
	WorkOrder           string     `bson:"work_order"`
	ClientID            string     `bson:"client_id"`
	ClientName          string     `bson:"client_name"`
	WorkCenterID        *string    `bson:"work_center_id"`
	WorkCenterName      *string    `bson:"work_center_name"`
	EquipmentType       string     `bson:"equipment_type"`
	Model               string     `bson:"model"`
	ATO                 *string    `bson:"ato"`
	Manufacturer        string     `bson:"manufacturer"`
	SerialNumber        string     `bson:"serial_number"`
	ManufactureDate     *time.Time `bson:"manufacture_date"`
	FaultType           string     `bson:"fault_type"`
	Notes               *string    `bson:"notes"`
	SensorSerialNumber  *string    `bson:"sensor_serial_number"`
	SensorInstallDate   *time.Time `bson:"sensor_install_date"`
	State               string     `bson:"state"`
	PurchaseOrderNumber *string    `bson:"purchase_order_number"`
	ReceptionNumber     *string    `bson:"manufacturer_reception_number"`
	UnderWarranty       *bool      `bson:"under_warranty"`
	QuoteNumber         *string    `bson:"quote_number"`
	QuoteAccepted       *bool      `bson:"quote_accepted"`
	CreatedAt           time.Time  `bson:"created_at"`
	UpdatedAt           time.Time  `bson:"updated_at"`
}

type purchaseOrderEntity struct {
	ID           string    `bson:"_id"`
	Number       string    `bson:"number"`
	EquipmentIDs []string  `bson:"equipment_ids"`
	CreatedAt    time.Time `bson:"created_at"`
}

type manufacturerEntity struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type equipmentModelEntity struct {
	ID            string `bson:"_id"`
	Name          string `bson:"name"`
	EquipmentType string `bson:"equipment_type"`
}

type faultTypeEntity struct {
	ID             string `bson:"_id"`
	Name           string `bson:"name"`
	RequiresSensor bool   `bson:"requires_sensor"`
}

func toClientEntity(c *model.Client) clientEntity {
	wcs := make([]workCenterEntity, 0, len(c.WorkCenters))
	for _, wc := range c.WorkCenters {
		wcs = append(wcs, workCenterEntity(wc))
	}
	return clientEntity{
		ID:          c.ID,
		Name:        c.Name,
		TaxID:       c.TaxID,
		Phone:       c.Phone,
		Email:       c.Email,
		WorkCenters: wcs,
		CreatedAt:   c.CreatedAt,
	}
}

func (e clientEntity) toModel() model.Client {
	wcs := make([]model.WorkCenter, 0, len(e.WorkCenters))
	for _, wc := range e.WorkCenters {
		wcs = append(wcs, model.WorkCenter(wc))
	}
	return model.Client{
		ID:          e.ID,
		Name:        e.Name,
		TaxID:       e.TaxID,
		Phone:       e.Phone,
		Email:       e.Email,
		WorkCenters: wcs,
		CreatedAt:   e.CreatedAt,
	}
}

func toEquipmentEntity(e *model.Equipment) equipmentEntity {
	return equipmentEntity{
		ID:                  e.ID,
		WorkOrder:           e.WorkOrder,
		ClientID:            e.ClientID,
		ClientName:          e.ClientName,
		WorkCenterID:        e.WorkCenterID,
		WorkCenterName:      e.WorkCenterName,
		EquipmentType:       e.EquipmentType,
		Model:               e.Model,
		ATO:                 e.ATO,
		Manufacturer:        e.Manufacturer,
		SerialNumber:        e.SerialNumber,
		ManufactureDate:     e.ManufactureDate,
		FaultType:           e.FaultType,
		Notes:               e.Notes,
		SensorSerialNumber:  e.SensorSerialNumber,
		SensorInstallDate:   e.SensorInstallDate,
		State:               string(e.State),
		PurchaseOrderNumber: e.PurchaseOrderNumber,
		ReceptionNumber:     e.ReceptionNumber,
		UnderWarranty:       e.UnderWarranty,
		QuoteNumber:         e.QuoteNumber,
		QuoteAccepted:       e.QuoteAccepted,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func (e equipmentEntity) toModel() model.Equipment {
	return model.Equipment{
		ID:                  e.ID,
		WorkOrder:           e.WorkOrder,
		ClientID:            e.ClientID,
		ClientName:          e.ClientName,
		WorkCenterID:        e.WorkCenterID,
		WorkCenterName:      e.WorkCenterName,
		EquipmentType:       e.EquipmentType,
		Model:               e.Model,
		ATO:                 e.ATO,
		Manufacturer:        e.Manufacturer,
		SerialNumber:        e.SerialNumber,
		ManufactureDate:     e.ManufactureDate,
		FaultType:           e.FaultType,
		Notes:               e.Notes,
		SensorSerialNumber:  e.SensorSerialNumber,
		SensorInstallDate:   e.SensorInstallDate,
		State:               model.State(e.State),
		PurchaseOrderNumber: e.PurchaseOrderNumber,
		ReceptionNumber:     e.ReceptionNumber,
		UnderWarranty:       e.UnderWarranty,
		QuoteNumber:         e.QuoteNumber,
		QuoteAccepted:       e.QuoteAccepted,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func (e purchaseOrderEntity) toModel() model.PurchaseOrder {
	return model.PurchaseOrder{
		ID:           e.ID,
		Number:       e.Number,
		EquipmentIDs: e.EquipmentIDs,
		CreatedAt:    e.CreatedAt,
	}
}
