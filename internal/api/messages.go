package api

import "time"

// Empty is used by methods without arguments or results.
type Empty struct{}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type MeResponse struct {
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
}

// --- Clients ---

type WorkCenter struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
}

type Client struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	TaxID       string       `json:"tax_id"`
	Phone       string       `json:"phone"`
	Email       *string      `json:"email,omitempty"`
	WorkCenters []WorkCenter `json:"work_centers"`
	CreatedAt   time.Time    `json:"created_at"`
}

type CreateClientRequest struct {
	Name        string       `json:"name"`
	TaxID       string       `json:"tax_id"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email,omitempty"`
	WorkCenters []WorkCenter `json:"work_centers,omitempty"`
}

type GetClientRequest struct {
	ID string `json:"id"`
}

type ListClientsResponse struct {
	Clients []Client `json:"clients"`
}

// UpdateClientRequest is a partial replace. An empty work center list keeps the stored one.
type UpdateClientRequest struct {
	ID          string       `json:"id"`
	Name        *string      `json:"name,omitempty"`
	TaxID       *string      `json:"tax_id,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Email       *string      `json:"email,omitempty"`
	WorkCenters []WorkCenter `json:"work_centers,omitempty"`
}

type AddWorkCenterRequest struct {
	ClientID   string     `json:"client_id"`
	WorkCenter WorkCenter `json:"work_center"`
}

type RemoveWorkCenterRequest struct {
	ClientID     string `json:"client_id"`
	WorkCenterID string `json:"work_center_id"`
}

type ListWorkCentersRequest struct {
	ClientID string `json:"client_id"`
}

type ListWorkCentersResponse struct {
	WorkCenters []WorkCenter `json:"work_centers"`
}

// --- Equipment ---

type Equipment struct {
	ID                  string     `json:"id"`
	WorkOrder           string     `json:"work_order"`
	ClientID            string     `json:"client_id"`
	ClientName          string     `json:"client_name"`
	WorkCenterID        *string    `json:"work_center_id,omitempty"`
	WorkCenterName      *string    `json:"work_center_name,omitempty"`
	EquipmentType       string     `json:"equipment_type"`
	Model               string     `json:"model"`
	ATO                 *string    `json:"ato,omitempty"`
	Manufacturer        string     `json:"manufacturer"`
	SerialNumber        string     `json:"serial_number"`
	ManufactureDate     *time.Time `json:"manufacture_date,omitempty"`
	FaultType           string     `json:"fault_type"`
	Notes               *string    `json:"notes,omitempty"`
	SensorSerialNumber  *string    `json:"sensor_serial_number,omitempty"`
	SensorInstallDate   *time.Time `json:"sensor_install_date,omitempty"`
	State               string     `json:"state"`
	PurchaseOrderNumber *string    `json:"purchase_order_number,omitempty"`
	ReceptionNumber     *string    `json:"manufacturer_reception_number,omitempty"`
	UnderWarranty       *bool      `json:"under_warranty,omitempty"`
	QuoteNumber         *string    `json:"quote_number,omitempty"`
	QuoteAccepted       *bool      `json:"quote_accepted,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// CreateEquipmentRequest carries raw form values; dates are ISO strings and may be blank.
type CreateEquipmentRequest struct {
	WorkOrder          string `json:"work_order"`
	ClientID           string `json:"client_id"`
	WorkCenterID       string `json:"work_center_id,omitempty"`
	EquipmentType      string `json:"equipment_type"`
	Model              string `json:"model"`
	ATO                string `json:"ato,omitempty"`
	Manufacturer       string `json:"manufacturer"`
	SerialNumber       string `json:"serial_number"`
	ManufactureDate    string `json:"manufacture_date,omitempty"`
	FaultType          string `json:"fault_type"`
	Notes              string `json:"notes,omitempty"`
	SensorSerialNumber string `json:"sensor_serial_number,omitempty"`
	SensorInstallDate  string `json:"sensor_install_date,omitempty"`
}

type GetEquipmentRequest struct {
	ID string `json:"id"`
}

type ListEquipmentResponse struct {
	Equipment []Equipment `json:"equipment"`
}

// UpdateEquipmentRequest is the allow-listed patch; absent fields are left unchanged.
type UpdateEquipmentRequest struct {
	ID                 string  `json:"id"`
	WorkOrder          *string `json:"work_order,omitempty"`
	EquipmentType      *string `json:"equipment_type,omitempty"`
	Model              *string `json:"model,omitempty"`
	ATO                *string `json:"ato,omitempty"`
	Manufacturer       *string `json:"manufacturer,omitempty"`
	SerialNumber       *string `json:"serial_number,omitempty"`
	ManufactureDate    *string `json:"manufacture_date,omitempty"`
	FaultType          *string `json:"fault_type,omitempty"`
	Notes              *string `json:"notes,omitempty"`
	SensorSerialNumber *string `json:"sensor_serial_number,omitempty"`
	SensorInstallDate  *string `json:"sensor_install_date,omitempty"`
	ReceptionNumber    *string `json:"manufacturer_reception_number,omitempty"`
	UnderWarranty      *bool   `json:"under_warranty,omitempty"`
	QuoteNumber        *string `json:"quote_number,omitempty"`
	QuoteAccepted      *bool   `json:"quote_accepted,omitempty"`
}

type OverrideStateRequest struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

type ReceiveRequest struct {
	EquipmentIDs []string `json:"equipment_ids"`
}

// CountResponse reports how many records a bulk operation touched.
type CountResponse struct {
	Count int64 `json:"count"`
}

// --- Purchase orders ---

type PurchaseOrder struct {
	ID           string    `json:"id"`
	Number       string    `json:"order_number"`
	EquipmentIDs []string  `json:"equipment_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

type AssignOrderRequest struct {
	OrderNumber  string   `json:"order_number"`
	EquipmentIDs []string `json:"equipment_ids"`
}

type ListOrdersResponse struct {
	Orders []PurchaseOrder `json:"orders"`
}

type ActiveOrdersResponse struct {
	OrderNumbers []string `json:"order_numbers"`
}

type OrderRequest struct {
	OrderNumber string `json:"order_number"`
}

type ManufacturerResponseRequest struct {
	OrderNumber     string   `json:"order_number"`
	EquipmentIDs    []string `json:"equipment_ids"`
	ReceptionNumber string   `json:"manufacturer_reception_number"`
	UnderWarranty   bool     `json:"under_warranty"`
	QuoteNumber     *string  `json:"quote_number,omitempty"`
	QuoteAccepted   *bool    `json:"quote_accepted,omitempty"`
}

type ExportResponse struct {
	Filename       string `json:"filename"`
	Content        string `json:"content"`
	EquipmentCount int    `json:"equipment_count"`
	ArchiveKey     string `json:"archive_key,omitempty"`
}

// --- Catalog ---

type Manufacturer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EquipmentModel struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	EquipmentType string `json:"equipment_type"`
}

type FaultType struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	RequiresSensor bool   `json:"requires_sensor"`
}

type ListManufacturersResponse struct {
	Manufacturers []Manufacturer `json:"manufacturers"`
}

type CreateManufacturerRequest struct {
	Name string `json:"name"`
}

type ListModelsRequest struct {
	EquipmentType string `json:"equipment_type,omitempty"`
}

type ListModelsResponse struct {
	Models []EquipmentModel `json:"models"`
}

type CreateModelRequest struct {
	Name          string `json:"name"`
	EquipmentType string `json:"equipment_type"`
}

type ListFaultTypesResponse struct {
	FaultTypes []FaultType `json:"fault_types"`
}

type CreateFaultTypeRequest struct {
	Name           string `json:"name"`
	RequiresSensor bool   `json:"requires_sensor"`
}

// --- Admin ---

type WipeResponse struct {
	Deleted map[string]int64 `json:"deleted"`
}
