package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "repairflow.v1.RepairFlow"

// FullMethod returns the "/service/method" path of a method.
func FullMethod(method string) string { return "/" + ServiceName + "/" + method }

// Method names.
const (
	MethodLogin                      = "Login"
	MethodMe                         = "Me"
	MethodCreateClient               = "CreateClient"
	MethodListClients                = "ListClients"
	MethodGetClient                  = "GetClient"
	MethodUpdateClient               = "UpdateClient"
	MethodAddWorkCenter              = "AddWorkCenter"
	MethodRemoveWorkCenter           = "RemoveWorkCenter"
	MethodListWorkCenters            = "ListWorkCenters"
	MethodCreateEquipment            = "CreateEquipment"
	MethodListEquipment              = "ListEquipment"
	MethodGetEquipment               = "GetEquipment"
	MethodUpdateEquipment            = "UpdateEquipment"
	MethodOverrideEquipmentState     = "OverrideEquipmentState"
	MethodListPendingEquipment       = "ListPendingEquipment"
	MethodListReceptionEquipment     = "ListReceptionEquipment"
	MethodListCompletedEquipment     = "ListCompletedEquipment"
	MethodAssignPurchaseOrder        = "AssignPurchaseOrder"
	MethodListPurchaseOrders         = "ListPurchaseOrders"
	MethodListActiveOrders           = "ListActiveOrders"
	MethodListOrderEquipment         = "ListOrderEquipment"
	MethodListSentOrderEquipment     = "ListSentOrderEquipment"
	MethodRecordManufacturerResponse = "RecordManufacturerResponse"
	MethodReceiveEquipment           = "ReceiveEquipment"
	MethodExportOrder                = "ExportOrder"
	MethodListManufacturers          = "ListManufacturers"
	MethodCreateManufacturer         = "CreateManufacturer"
	MethodListModels                 = "ListModels"
	MethodCreateModel                = "CreateModel"
	MethodListFaultTypes             = "ListFaultTypes"
	MethodCreateFaultType            = "CreateFaultType"
	MethodWipeDatabase               = "WipeDatabase"
)

// RepairFlowServer is the server API for the RepairFlow service.
type RepairFlowServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Me(context.Context, *Empty) (*MeResponse, error)
	CreateClient(context.Context, *CreateClientRequest) (*Client, error)
	ListClients(context.Context, *Empty) (*ListClientsResponse, error)
	GetClient(context.Context, *GetClientRequest) (*Client, error)
	UpdateClient(context.Context, *UpdateClientRequest) (*Client, error)
	AddWorkCenter(context.Context, *AddWorkCenterRequest) (*WorkCenter, error)
	RemoveWorkCenter(context.Context, *RemoveWorkCenterRequest) (*Empty, error)
	ListWorkCenters(context.Context, *ListWorkCentersRequest) (*ListWorkCentersResponse, error)
	CreateEquipment(context.Context, *CreateEquipmentRequest) (*Equipment, error)
	ListEquipment(context.Context, *Empty) (*ListEquipmentResponse, error)
	GetEquipment(context.Context, *GetEquipmentRequest) (*Equipment, error)
	UpdateEquipment(context.Context, *UpdateEquipmentRequest) (*Equipment, error)
	OverrideEquipmentState(context.Context, *OverrideStateRequest) (*Equipment, error)
	ListPendingEquipment(context.Context, *Empty) (*ListEquipmentResponse, error)
	ListReceptionEquipment(context.Context, *Empty) (*ListEquipmentResponse, error)
	ListCompletedEquipment(context.Context, *Empty) (*ListEquipmentResponse, error)
	AssignPurchaseOrder(context.Context, *AssignOrderRequest) (*CountResponse, error)
	ListPurchaseOrders(context.Context, *Empty) (*ListOrdersResponse, error)
	ListActiveOrders(context.Context, *Empty) (*ActiveOrdersResponse, error)
	ListOrderEquipment(context.Context, *OrderRequest) (*ListEquipmentResponse, error)
	ListSentOrderEquipment(context.Context, *OrderRequest) (*ListEquipmentResponse, error)
	RecordManufacturerResponse(context.Context, *ManufacturerResponseRequest) (*CountResponse, error)
	ReceiveEquipment(context.Context, *ReceiveRequest) (*CountResponse, error)
	ExportOrder(context.Context, *OrderRequest) (*ExportResponse, error)
	ListManufacturers(context.Context, *Empty) (*ListManufacturersResponse, error)
	CreateManufacturer(context.Context, *CreateManufacturerRequest) (*Manufacturer, error)
	ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error)
	CreateModel(context.Context, *CreateModelRequest) (*EquipmentModel, error)
	ListFaultTypes(context.Context, *Empty) (*ListFaultTypesResponse, error)
	CreateFaultType(context.Context, *CreateFaultTypeRequest) (*FaultType, error)
	WipeDatabase(context.Context, *Empty) (*WipeResponse, error)
}

// UnimplementedRepairFlowServer answers codes.Unimplemented for every method. Embed it
// to stay forward compatible.
type UnimplementedRepairFlowServer struct{}

func (UnimplementedRepairFlowServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedRepairFlowServer) Me(context.Context, *Empty) (*MeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Me not implemented")
}
func (UnimplementedRepairFlowServer) CreateClient(context.Context, *CreateClientRequest) (*Client, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateClient not implemented")
}
func (UnimplementedRepairFlowServer) ListClients(context.Context, *Empty) (*ListClientsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListClients not implemented")
}
func (UnimplementedRepairFlowServer) GetClient(context.Context, *GetClientRequest) (*Client, error) {
	return nil, status.Error(codes.Unimplemented, "method GetClient not implemented")
}
func (UnimplementedRepairFlowServer) UpdateClient(context.Context, *UpdateClientRequest) (*Client, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateClient not implemented")
}
func (UnimplementedRepairFlowServer) AddWorkCenter(context.Context, *AddWorkCenterRequest) (*WorkCenter, error) {
	return nil, status.Error(codes.Unimplemented, "method AddWorkCenter not implemented")
}
func (UnimplementedRepairFlowServer) RemoveWorkCenter(context.Context, *RemoveWorkCenterRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveWorkCenter not implemented")
}
func (UnimplementedRepairFlowServer) ListWorkCenters(context.Context, *ListWorkCentersRequest) (*ListWorkCentersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListWorkCenters not implemented")
}
func (UnimplementedRepairFlowServer) CreateEquipment(context.Context, *CreateEquipmentRequest) (*Equipment, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateEquipment not implemented")
}
func (UnimplementedRepairFlowServer) ListEquipment(context.Context, *Empty) (*ListEquipmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListEquipment not implemented")
}
func (UnimplementedRepairFlowServer) GetEquipment(context.Context, *GetEquipmentRequest) (*Equipment, error) {
	return nil, status.Error(codes.Unimplemented, "method GetEquipment not implemented")
}
func (UnimplementedRepairFlowServer) UpdateEquipment(context.Context, *UpdateEquipmentRequest) (*Equipment, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateEquipment not implemented")
}
func (UnimplementedRepairFlowServer) OverrideEquipmentState(context.Context, *OverrideStateRequest) (*Equipment, error) {
	return nil, status.Error(codes.Unimplemented, "method OverrideEquipmentState not implemented")
}
func (UnimplementedRepairFlowServer) ListPendingEquipment(context.Context, *Empty) (*ListEquipmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPendingEquipment not implemented")
}
func (UnimplementedRepairFlowServer) ListReceptionEquipment(context.Context, *Empty) (*ListEquipmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListReceptionEquipment not implemented")
}
func (UnimplementedRepairFlowServer) ListCompletedEquipment(context.Context, *Empty) (*ListEquipmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCompletedEquipment not implemented")
}
func (UnimplementedRepairFlowServer) AssignPurchaseOrder(context.Context, *AssignOrderRequest) (*CountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AssignPurchaseOrder not implemented")
}
func (UnimplementedRepairFlowServer) ListPurchaseOrders(context.Context, *Empty) (*ListOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPurchaseOrders not implemented")
}
func (UnimplementedRepairFlowServer) ListActiveOrders(context.Context, *Empty) (*ActiveOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListActiveOrders not implemented")
}
func (UnimplementedRepairFlowServer) ListOrderEquipment(context.Context, *OrderRequest) (*ListEquipmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListOrderEquipment not implemented")
}
func (UnimplementedRepairFlowServer) ListSentOrderEquipment(context.Context, *OrderRequest) (*ListEquipmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSentOrderEquipment not implemented")
}
func (UnimplementedRepairFlowServer) RecordManufacturerResponse(context.Context, *ManufacturerResponseRequest) (*CountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordManufacturerResponse not implemented")
}
func (UnimplementedRepairFlowServer) ReceiveEquipment(context.Context, *ReceiveRequest) (*CountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReceiveEquipment not implemented")
}
func (UnimplementedRepairFlowServer) ExportOrder(context.Context, *OrderRequest) (*ExportResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportOrder not implemented")
}
func (UnimplementedRepairFlowServer) ListManufacturers(context.Context, *Empty) (*ListManufacturersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListManufacturers not implemented")
}
func (UnimplementedRepairFlowServer) CreateManufacturer(context.Context, *CreateManufacturerRequest) (*Manufacturer, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateManufacturer not implemented")
}
func (UnimplementedRepairFlowServer) ListModels(context.Context, *ListModelsRequest) (*ListModelsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListModels not implemented")
}
func (UnimplementedRepairFlowServer) CreateModel(context.Context, *CreateModelRequest) (*EquipmentModel, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateModel not implemented")
}
func (UnimplementedRepairFlowServer) ListFaultTypes(context.Context, *Empty) (*ListFaultTypesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListFaultTypes not implemented")
}
func (UnimplementedRepairFlowServer) CreateFaultType(context.Context, *CreateFaultTypeRequest) (*FaultType, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateFaultType not implemented")
}
func (UnimplementedRepairFlowServer) WipeDatabase(context.Context, *Empty) (*WipeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method WipeDatabase not implemented")
}

// ServiceDesc describes the RepairFlow service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RepairFlowServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodLogin, RepairFlowServer.Login),
		unary(MethodMe, RepairFlowServer.Me),
		unary(MethodCreateClient, RepairFlowServer.CreateClient),
		unary(MethodListClients, RepairFlowServer.ListClients),
		unary(MethodGetClient, RepairFlowServer.GetClient),
		unary(MethodUpdateClient, RepairFlowServer.UpdateClient),
		unary(MethodAddWorkCenter, RepairFlowServer.AddWorkCenter),
		unary(MethodRemoveWorkCenter, RepairFlowServer.RemoveWorkCenter),
		unary(MethodListWorkCenters, RepairFlowServer.ListWorkCenters),
		unary(MethodCreateEquipment, RepairFlowServer.CreateEquipment),
		unary(MethodListEquipment, RepairFlowServer.ListEquipment),
		unary(MethodGetEquipment, RepairFlowServer.GetEquipment),
		unary(MethodUpdateEquipment, RepairFlowServer.UpdateEquipment),
		unary(MethodOverrideEquipmentState, RepairFlowServer.OverrideEquipmentState),
		unary(MethodListPendingEquipment, RepairFlowServer.ListPendingEquipment),
		unary(MethodListReceptionEquipment, RepairFlowServer.ListReceptionEquipment),
		unary(MethodListCompletedEquipment, RepairFlowServer.ListCompletedEquipment),
		unary(MethodAssignPurchaseOrder, RepairFlowServer.AssignPurchaseOrder),
		unary(MethodListPurchaseOrders, RepairFlowServer.ListPurchaseOrders),
		unary(MethodListActiveOrders, RepairFlowServer.ListActiveOrders),
		unary(MethodListOrderEquipment, RepairFlowServer.ListOrderEquipment),
		unary(MethodListSentOrderEquipment, RepairFlowServer.ListSentOrderEquipment),
		unary(MethodRecordManufacturerResponse, RepairFlowServer.RecordManufacturerResponse),
		unary(MethodReceiveEquipment, RepairFlowServer.ReceiveEquipment),
		unary(MethodExportOrder, RepairFlowServer.ExportOrder),
		unary(MethodListManufacturers, RepairFlowServer.ListManufacturers),
		unary(MethodCreateManufacturer, RepairFlowServer.CreateManufacturer),
		unary(MethodListModels, RepairFlowServer.ListModels),
		unary(MethodCreateModel, RepairFlowServer.CreateModel),
		unary(MethodListFaultTypes, RepairFlowServer.ListFaultTypes),
		unary(MethodCreateFaultType, RepairFlowServer.CreateFaultType),
		unary(MethodWipeDatabase, RepairFlowServer.WipeDatabase),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "repairflow/v1/repairflow.json",
}

// RegisterRepairFlowServer registers srv on s.
func RegisterRepairFlowServer(s grpc.ServiceRegistrar, srv RepairFlowServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodDesc.
func unary[Req, Resp any](method string, call func(RepairFlowServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(RepairFlowServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(RepairFlowServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
