package api

import (
	"context"

	"google.golang.org/grpc"
)

// RepairFlowClient is the client stub of the RepairFlow service. Every call uses the JSON codec.
type RepairFlowClient struct {
	cc grpc.ClientConnInterface
}

// NewRepairFlowClient wraps a connection.
func NewRepairFlowClient(cc grpc.ClientConnInterface) *RepairFlowClient { return &RepairFlowClient{cc: cc} }

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *RepairFlowClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *RepairFlowClient) Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*MeResponse, error) {
	return invoke[MeResponse](ctx, c.cc, MethodMe, in, opts)
}

func (c *RepairFlowClient) CreateClient(ctx context.Context, in *CreateClientRequest, opts ...grpc.CallOption) (*Client, error) {
	return invoke[Client](ctx, c.cc, MethodCreateClient, in, opts)
}

func (c *RepairFlowClient) ListClients(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListClientsResponse, error) {
	return invoke[ListClientsResponse](ctx, c.cc, MethodListClients, in, opts)
}

func (c *RepairFlowClient) GetClient(ctx context.Context, in *GetClientRequest, opts ...grpc.CallOption) (*Client, error) {
	return invoke[Client](ctx, c.cc, MethodGetClient, in, opts)
}

func (c *RepairFlowClient) UpdateClient(ctx context.Context, in *UpdateClientRequest, opts ...grpc.CallOption) (*Client, error) {
	return invoke[Client](ctx, c.cc, MethodUpdateClient, in, opts)
}

func (c *RepairFlowClient) AddWorkCenter(ctx context.Context, in *AddWorkCenterRequest, opts ...grpc.CallOption) (*WorkCenter, error) {
	return invoke[WorkCenter](ctx, c.cc, MethodAddWorkCenter, in, opts)
}

func (c *RepairFlowClient) RemoveWorkCenter(ctx context.Context, in *RemoveWorkCenterRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodRemoveWorkCenter, in, opts)
}

func (c *RepairFlowClient) ListWorkCenters(ctx context.Context, in *ListWorkCentersRequest, opts ...grpc.CallOption) (*ListWorkCentersResponse, error) {
	return invoke[ListWorkCentersResponse](ctx, c.cc, MethodListWorkCenters, in, opts)
}

func (c *RepairFlowClient) CreateEquipment(ctx context.Context, in *CreateEquipmentRequest, opts ...grpc.CallOption) (*Equipment, error) {
	return invoke[Equipment](ctx, c.cc, MethodCreateEquipment, in, opts)
}

func (c *RepairFlowClient) ListEquipment(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListEquipmentResponse, error) {
	return invoke[ListEquipmentResponse](ctx, c.cc, MethodListEquipment, in, opts)
}

func (c *RepairFlowClient) GetEquipment(ctx context.Context, in *GetEquipmentRequest, opts ...grpc.CallOption) (*Equipment, error) {
	return invoke[Equipment](ctx, c.cc, MethodGetEquipment, in, opts)
}

func (c *RepairFlowClient) UpdateEquipment(ctx context.Context, in *UpdateEquipmentRequest, opts ...grpc.CallOption) (*Equipment, error) {
	return invoke[Equipment](ctx, c.cc, MethodUpdateEquipment, in, opts)
}

func (c *RepairFlowClient) OverrideEquipmentState(ctx context.Context, in *OverrideStateRequest, opts ...grpc.CallOption) (*Equipment, error) {
	return invoke[Equipment](ctx, c.cc, MethodOverrideEquipmentState, in, opts)
}

func (c *RepairFlowClient) ListPendingEquipment(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListEquipmentResponse, error) {
	return invoke[ListEquipmentResponse](ctx, c.cc, MethodListPendingEquipment, in, opts)
}

func (c *RepairFlowClient) ListReceptionEquipment(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListEquipmentResponse, error) {
	return invoke[ListEquipmentResponse](ctx, c.cc, MethodListReceptionEquipment, in, opts)
}

func (c *RepairFlowClient) ListCompletedEquipment(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListEquipmentResponse, error) {
	return invoke[ListEquipmentResponse](ctx, c.cc, MethodListCompletedEquipment, in, opts)
}

func (c *RepairFlowClient) AssignPurchaseOrder(ctx context.Context, in *AssignOrderRequest, opts ...grpc.CallOption) (*CountResponse, error) {
	return invoke[CountResponse](ctx, c.cc, MethodAssignPurchaseOrder, in, opts)
}

func (c *RepairFlowClient) ListPurchaseOrders(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return invoke[ListOrdersResponse](ctx, c.cc, MethodListPurchaseOrders, in, opts)
}

func (c *RepairFlowClient) ListActiveOrders(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ActiveOrdersResponse, error) {
	return invoke[ActiveOrdersResponse](ctx, c.cc, MethodListActiveOrders, in, opts)
}

func (c *RepairFlowClient) ListOrderEquipment(ctx context.Context, in *OrderRequest, opts ...grpc.CallOption) (*ListEquipmentResponse, error) {
	return invoke[ListEquipmentResponse](ctx, c.cc, MethodListOrderEquipment, in, opts)
}

func (c *RepairFlowClient) ListSentOrderEquipment(ctx context.Context, in *OrderRequest, opts ...grpc.CallOption) (*ListEquipmentResponse, error) {
	return invoke[ListEquipmentResponse](ctx, c.cc, MethodListSentOrderEquipment, in, opts)
}

func (c *RepairFlowClient) RecordManufacturerResponse(ctx context.Context, in *ManufacturerResponseRequest, opts ...grpc.CallOption) (*CountResponse, error) {
	return invoke[CountResponse](ctx, c.cc, MethodRecordManufacturerResponse, in, opts)
}

func (c *RepairFlowClient) ReceiveEquipment(ctx context.Context, in *ReceiveRequest, opts ...grpc.CallOption) (*CountResponse, error) {
	return invoke[CountResponse](ctx, c.cc, MethodReceiveEquipment, in, opts)
}

func (c *RepairFlowClient) ExportOrder(ctx context.Context, in *OrderRequest, opts ...grpc.CallOption) (*ExportResponse, error) {
	return invoke[ExportResponse](ctx, c.cc, MethodExportOrder, in, opts)
}

func (c *RepairFlowClient) ListManufacturers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListManufacturersResponse, error) {
	return invoke[ListManufacturersResponse](ctx, c.cc, MethodListManufacturers, in, opts)
}

func (c *RepairFlowClient) CreateManufacturer(ctx context.Context, in *CreateManufacturerRequest, opts ...grpc.CallOption) (*Manufacturer, error) {
	return invoke[Manufacturer](ctx, c.cc, MethodCreateManufacturer, in, opts)
}

func (c *RepairFlowClient) ListModels(ctx context.Context, in *ListModelsRequest, opts ...grpc.CallOption) (*ListModelsResponse, error) {
	return invoke[ListModelsResponse](ctx, c.cc, MethodListModels, in, opts)
}

func (c *RepairFlowClient) CreateModel(ctx context.Context, in *CreateModelRequest, opts ...grpc.CallOption) (*EquipmentModel, error) {
	return invoke[EquipmentModel](ctx, c.cc, MethodCreateModel, in, opts)
}

func (c *RepairFlowClient) ListFaultTypes(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListFaultTypesResponse, error) {
	return invoke[ListFaultTypesResponse](ctx, c.cc, MethodListFaultTypes, in, opts)
}

func (c *RepairFlowClient) CreateFaultType(ctx context.Context, in *CreateFaultTypeRequest, opts ...grpc.CallOption) (*FaultType, error) {
	return invoke[FaultType](ctx, c.cc, MethodCreateFaultType, in, opts)
}

func (c *RepairFlowClient) WipeDatabase(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*WipeResponse, error) {
	return invoke[WipeResponse](ctx, c.cc, MethodWipeDatabase, in, opts)
}
