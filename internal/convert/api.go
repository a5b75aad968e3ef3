// Package convert maps between wire messages and domain models.
package convert

import (
	"time"

	"github.com/and161185/repairflow/internal/api"
	"github.com/and161185/repairflow/internal/model"
)

// --- helpers ---

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// listOf maps a slice, returning an empty (not nil) slice so lists encode as [].
func listOf[In, Out any](in []In, fn func(In) Out) []Out {
	out := make([]Out, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

// --- Auth ---

// ToAPILogin converts issued tokens to the login response.
func ToAPILogin(t model.Tokens) *api.LoginResponse {
	return &api.LoginResponse{AccessToken: t.AccessToken, TokenType: t.TokenType, ExpiresAt: t.ExpiresAt.UTC()}
}

// ToAPIMe describes the caller.
func ToAPIMe(id model.Identity) *api.MeResponse {
	return &api.MeResponse{Username: id.Username, Admin: id.IsAdmin()}
}

// --- Clients ---

func ToAPIWorkCenter(wc model.WorkCenter) api.WorkCenter {
	return api.WorkCenter{ID: wc.ID, Name: wc.Name, Address: wc.Address, Phone: wc.Phone}
}

func ToAPIWorkCenters(wcs []model.WorkCenter) []api.WorkCenter {
	return listOf(wcs, ToAPIWorkCenter)
}

// FromAPIWorkCenter keeps entries verbatim; blank optional fields become nil.
func FromAPIWorkCenter(wc api.WorkCenter) model.WorkCenter {
	out := model.WorkCenter{ID: wc.ID, Name: wc.Name}
	if wc.Address != nil {
		out.Address = model.OptionalString(*wc.Address)
	}
	if wc.Phone != nil {
		out.Phone = model.OptionalString(*wc.Phone)
	}
	return out
}

func FromAPIWorkCenters(wcs []api.WorkCenter) []model.WorkCenter {
	if len(wcs) == 0 {
		return nil
	}
	return listOf(wcs, FromAPIWorkCenter)
}

func ToAPIClient(c model.Client) api.Client {
	return api.Client{
		ID:          c.ID,
		Name:        c.Name,
		TaxID:       c.TaxID,
		Phone:       c.Phone,
		Email:       c.Email,
		WorkCenters: ToAPIWorkCenters(c.WorkCenters),
		CreatedAt:   c.CreatedAt.UTC(),
	}
}

func ToAPIClients(cs []model.Client) []api.Client {
	return listOf(cs, ToAPIClient)
}

func FromAPICreateClient(in *api.CreateClientRequest) model.ClientInput {
	return model.ClientInput{
		Name:        in.Name,
		TaxID:       in.TaxID,
		Phone:       in.Phone,
		Email:       in.Email,
		WorkCenters: FromAPIWorkCenters(in.WorkCenters),
	}
}

func FromAPIUpdateClient(in *api.UpdateClientRequest) model.ClientUpdate {
	return model.ClientUpdate{
		Name:        in.Name,
		TaxID:       in.TaxID,
		Phone:       in.Phone,
		Email:       in.Email,
		WorkCenters: FromAPIWorkCenters(in.WorkCenters),
	}
}

// --- Equipment ---

func ToAPIEquipment(e model.Equipment) api.Equipment {
	return api.Equipment{
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
		ManufactureDate:     utc(e.ManufactureDate),
		FaultType:           e.FaultType,
		Notes:               e.Notes,
		SensorSerialNumber:  e.SensorSerialNumber,
		SensorInstallDate:   utc(e.SensorInstallDate),
		State:               string(e.State),
		PurchaseOrderNumber: e.PurchaseOrderNumber,
		ReceptionNumber:     e.ReceptionNumber,
		UnderWarranty:       e.UnderWarranty,
		QuoteNumber:         e.QuoteNumber,
		QuoteAccepted:       e.QuoteAccepted,
		CreatedAt:           e.CreatedAt.UTC(),
		UpdatedAt:           e.UpdatedAt.UTC(),
	}
}

// ToAPIEquipmentList wraps records in a list response.
func ToAPIEquipmentList(es []model.Equipment) *api.ListEquipmentResponse {
	return &api.ListEquipmentResponse{Equipment: listOf(es, ToAPIEquipment)}
}

func FromAPICreateEquipment(in *api.CreateEquipmentRequest) model.EquipmentInput {
	return model.EquipmentInput{
		WorkOrder:          in.WorkOrder,
		ClientID:           in.ClientID,
		WorkCenterID:       in.WorkCenterID,
		EquipmentType:      in.EquipmentType,
		Model:              in.Model,
		ATO:                in.ATO,
		Manufacturer:       in.Manufacturer,
		SerialNumber:       in.SerialNumber,
		ManufactureDate:    in.ManufactureDate,
		FaultType:          in.FaultType,
		Notes:              in.Notes,
		SensorSerialNumber: in.SensorSerialNumber,
		SensorInstallDate:  in.SensorInstallDate,
	}
}

func FromAPIUpdateEquipment(in *api.UpdateEquipmentRequest) model.EquipmentPatch {
	return model.EquipmentPatch{
		WorkOrder:          in.WorkOrder,
		EquipmentType:      in.EquipmentType,
		Model:              in.Model,
		ATO:                in.ATO,
		Manufacturer:       in.Manufacturer,
		SerialNumber:       in.SerialNumber,
		ManufactureDate:    in.ManufactureDate,
		FaultType:          in.FaultType,
		Notes:              in.Notes,
		SensorSerialNumber: in.SensorSerialNumber,
		SensorInstallDate:  in.SensorInstallDate,
		ReceptionNumber:    in.ReceptionNumber,
		UnderWarranty:      in.UnderWarranty,
		QuoteNumber:        in.QuoteNumber,
		QuoteAccepted:      in.QuoteAccepted,
	}
}

func FromAPIManufacturerResponse(in *api.ManufacturerResponseRequest) model.ManufacturerResponse {
	return model.ManufacturerResponse{
		OrderNumber:     in.OrderNumber,
		EquipmentIDs:    in.EquipmentIDs,
		ReceptionNumber: in.ReceptionNumber,
		UnderWarranty:   in.UnderWarranty,
		QuoteNumber:     in.QuoteNumber,
		QuoteAccepted:   in.QuoteAccepted,
	}
}

// --- Purchase orders ---

func ToAPIPurchaseOrder(po model.PurchaseOrder) api.PurchaseOrder {
	ids := po.EquipmentIDs
	if ids == nil {
		ids = []string{}
	}
	return api.PurchaseOrder{ID: po.ID, Number: po.Number, EquipmentIDs: ids, CreatedAt: po.CreatedAt.UTC()}
}

func ToAPIPurchaseOrders(pos []model.PurchaseOrder) []api.PurchaseOrder {
	return listOf(pos, ToAPIPurchaseOrder)
}

func ToAPIExport(e model.Export) *api.ExportResponse {
	return &api.ExportResponse{
		Filename:       e.Filename,
		Content:        e.Content,
		EquipmentCount: e.EquipmentCount,
		ArchiveKey:     e.ArchiveKey,
	}
}

// --- Catalog ---

func ToAPIManufacturer(m model.Manufacturer) api.Manufacturer {
	return api.Manufacturer{ID: m.ID, Name: m.Name}
}

func ToAPIEquipmentModel(m model.EquipmentModel) api.EquipmentModel {
	return api.EquipmentModel{ID: m.ID, Name: m.Name, EquipmentType: m.EquipmentType}
}

func ToAPIFaultType(ft model.FaultType) api.FaultType {
	return api.FaultType{ID: ft.ID, Name: ft.Name, RequiresSensor: ft.RequiresSensor}
}

func ToAPIManufacturers(ms []model.Manufacturer) []api.Manufacturer {
	return listOf(ms, ToAPIManufacturer)
}

func ToAPIEquipmentModels(ms []model.EquipmentModel) []api.EquipmentModel {
	return listOf(ms, ToAPIEquipmentModel)
}

func ToAPIFaultTypes(fts []model.FaultType) []api.FaultType {
	return listOf(fts, ToAPIFaultType)
}
