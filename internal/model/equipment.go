package model

import (
	"fmt"
	"time"
)

// State is the position of an equipment item in the repair workflow.
type State string

// Workflow states. Pending is initial, Received is terminal.
const (
	StatePending        State = "Pending"
	StateSent           State = "Sent"
	StateAtManufacturer State = "AtManufacturer"
	StateReceived       State = "Received"
)

// ParseState validates a state name.
func ParseState(s string) (State, error) {
	switch st := State(s); st {
	case StatePending, StateSent, StateAtManufacturer, StateReceived:
		return st, nil
	}
	return "", fmt.Errorf("unknown state %q", s)
}

// Equipment is a device sent for repair.
//
// ClientName and WorkCenterName are snapshots taken at creation; renaming the
// client afterwards does not update them.
type Equipment struct {
	ID                  string
	WorkOrder           string
	ClientID            string
	ClientName          string
	WorkCenterID        *string
	WorkCenterName      *string
	EquipmentType       string
	Model               string
	ATO                 *string
	Manufacturer        string
	SerialNumber        string
	ManufactureDate     *time.Time
	FaultType           string
	Notes               *string
	SensorSerialNumber  *string
	SensorInstallDate   *time.Time
	State               State
	PurchaseOrderNumber *string // set on dispatch, never cleared
	ReceptionNumber     *string // manufacturer reception number
	UnderWarranty       *bool
	QuoteNumber         *string
	QuoteAccepted       *bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AwaitingReception reports whether the manufacturer answered with a warranty
// decision or a quote, so the item can be expected back.
func (e Equipment) AwaitingReception() bool {
	if e.State != StateAtManufacturer {
		return false
	}
	return (e.UnderWarranty != nil && *e.UnderWarranty) || e.QuoteNumber != nil
}

// EquipmentInput carries raw creation fields. Dates are unparsed strings and
// are normalized leniently on create.
type EquipmentInput struct {
	WorkOrder          string
	ClientID           string
	ClientName         string
	WorkCenterID       string
	WorkCenterName     string
	EquipmentType      string
	Model              string
	ATO                string
	Manufacturer       string
	SerialNumber       string
	ManufactureDate    string
	FaultType          string
	Notes              string
	SensorSerialNumber string
	SensorInstallDate  string
}

// EquipmentPatch is the allow-list of fields a generic update may touch.
// State and purchase order number are deliberately absent.
type EquipmentPatch struct {
	WorkOrder          *string
	EquipmentType      *string
	Model              *string
	ATO                *string
	Manufacturer       *string
	SerialNumber       *string
	ManufactureDate    *string
	FaultType          *string
	Notes              *string
	SensorSerialNumber *string
	SensorInstallDate  *string
	ReceptionNumber    *string
	UnderWarranty      *bool
	QuoteNumber        *string
	QuoteAccepted      *bool
}

// Fields converts the patch into a field set. Required text fields may not be blanked.
func (p EquipmentPatch) Fields() (FieldSet, error) {
	var set FieldSet
	required := []struct {
		name string
		v    *string
	}{
		{FieldWorkOrder, p.WorkOrder},
		{FieldEquipmentType, p.EquipmentType},
		{FieldModel, p.Model},
		{FieldManufacturer, p.Manufacturer},
		{FieldSerialNumber, p.SerialNumber},
		{FieldFaultType, p.FaultType},
	}
	for _, r := range required {
		if r.v == nil {
			continue
		}
		v := OptionalString(*r.v)
		if v == nil {
			return nil, fmt.Errorf("%s cannot be blank", r.name)
		}
		set = set.With(r.name, *v)
	}
	optional := []struct {
		name string
		v    *string
	}{
		{FieldATO, p.ATO},
		{FieldNotes, p.Notes},
		{FieldSensorSerialNumber, p.SensorSerialNumber},
		{FieldReceptionNumber, p.ReceptionNumber},
		{FieldQuoteNumber, p.QuoteNumber},
	}
	for _, o := range optional {
		if o.v != nil {
			set = set.With(o.name, OptionalString(*o.v))
		}
	}
	if p.ManufactureDate != nil {
		set = set.With(FieldManufactureDate, ParseDate(*p.ManufactureDate))
	}
	if p.SensorInstallDate != nil {
		set = set.With(FieldSensorInstallDate, ParseDate(*p.SensorInstallDate))
	}
	if p.UnderWarranty != nil {
		set = set.With(FieldUnderWarranty, BoolPtr(*p.UnderWarranty))
	}
	if p.QuoteAccepted != nil {
		set = set.With(FieldQuoteAccepted, BoolPtr(*p.QuoteAccepted))
	}
	return set, nil
}

// ManufacturerResponse is the manufacturer's answer for part of a purchase order.
type ManufacturerResponse struct {
	OrderNumber     string
	EquipmentIDs    []string
	ReceptionNumber string
	UnderWarranty   bool
	QuoteNumber     *string // applied only when UnderWarranty is false
	QuoteAccepted   *bool   // applied only when UnderWarranty is false
}
