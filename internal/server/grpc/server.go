// Package grpcserver exposes the RepairFlow gRPC API handlers.
package grpcserver

import (
	"context"
	"errors"
	"net"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/and161185/repairflow/internal/api"
	"github.com/and161185/repairflow/internal/convert"
	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
	"github.com/and161185/repairflow/internal/service"
)

// Services groups the application services behind the API.
type Services struct {
	Auth      service.AuthService
	Clients   service.ClientService
	Equipment service.EquipmentService
	Orders    service.OrderService
	Catalog   service.CatalogService
	Export    service.ExportService
	Admin     service.AdminService
}

// Server wires services into gRPC handlers.
type Server struct {
	api.UnimplementedRepairFlowServer
	auth      service.AuthService
	clients   service.ClientService
	equipment service.EquipmentService
	orders    service.OrderService
	catalog   service.CatalogService
	export    service.ExportService
	admin     service.AdminService
}

// New constructs a gRPC server with injected services.
func New(s Services) *Server {
	return &Server{
		auth:      s.Auth,
		clients:   s.Clients,
		equipment: s.Equipment,
		orders:    s.Orders,
		catalog:   s.Catalog,
		export:    s.Export,
		admin:     s.Admin,
	}
}

// --- Auth ---

func remoteIP(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// Login authenticates a user against the allow-list and returns an access token.
func (s *Server) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "empty username/password")
	}
	tok, err := s.auth.Login(ctx, req.Username, req.Password, remoteIP(ctx))
	if err != nil {
		if errors.Is(err, errs.ErrUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "bad credentials")
		}
		return nil, toStatus("login", err)
	}
	return convert.ToAPILogin(tok), nil
}

// Me returns the identity of the caller.
func (s *Server) Me(ctx context.Context, _ *api.Empty) (*api.MeResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	return convert.ToAPIMe(id), nil
}

// --- Clients ---

func (s *Server) CreateClient(ctx context.Context, req *api.CreateClientRequest) (*api.Client, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	c, err := s.clients.Create(ctx, convert.FromAPICreateClient(req))
	if err != nil {
		return nil, toStatus("create client", err)
	}
	out := convert.ToAPIClient(*c)
	return &out, nil
}

func (s *Server) ListClients(ctx context.Context, _ *api.Empty) (*api.ListClientsResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	cs, err := s.clients.List(ctx)
	if err != nil {
		return nil, toStatus("list clients", err)
	}
	return &api.ListClientsResponse{Clients: convert.ToAPIClients(cs)}, nil
}

func (s *Server) GetClient(ctx context.Context, req *api.GetClientRequest) (*api.Client, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	c, err := s.clients.Get(ctx, req.ID)
	if err != nil {
		return nil, toStatus("get client", err)
	}
	out := convert.ToAPIClient(*c)
	return &out, nil
}

func (s *Server) UpdateClient(ctx context.Context, req *api.UpdateClientRequest) (*api.Client, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	c, err := s.clients.Update(ctx, req.ID, convert.FromAPIUpdateClient(req))
	if err != nil {
		return nil, toStatus("update client", err)
	}
	out := convert.ToAPIClient(*c)
	return &out, nil
}

func (s *Server) AddWorkCenter(ctx context.Context, req *api.AddWorkCenterRequest) (*api.WorkCenter, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	wc, err := s.clients.AddWorkCenter(ctx, req.ClientID, convert.FromAPIWorkCenter(req.WorkCenter))
	if err != nil {
		return nil, toStatus("add work center", err)
	}
	out := convert.ToAPIWorkCenter(wc)
	return &out, nil
}

func (s *Server) RemoveWorkCenter(ctx context.Context, req *api.RemoveWorkCenterRequest) (*api.Empty, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	if err := s.clients.RemoveWorkCenter(ctx, req.ClientID, req.WorkCenterID); err != nil {
		return nil, toStatus("remove work center", err)
	}
	return &api.Empty{}, nil
}

func (s *Server) ListWorkCenters(ctx context.Context, req *api.ListWorkCentersRequest) (*api.ListWorkCentersResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	wcs, err := s.clients.ListWorkCenters(ctx, req.ClientID)
	if err != nil {
		return nil, toStatus("list work centers", err)
	}
	return &api.ListWorkCentersResponse{WorkCenters: convert.ToAPIWorkCenters(wcs)}, nil
}

// --- Equipment ---

func (s *Server) CreateEquipment(ctx context.Context, req *api.CreateEquipmentRequest) (*api.Equipment, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	e, err := s.equipment.Create(ctx, convert.FromAPICreateEquipment(req))
	if err != nil {
		return nil, toStatus("create equipment", err)
	}
	out := convert.ToAPIEquipment(*e)
	return &out, nil
}

func (s *Server) ListEquipment(ctx context.Context, _ *api.Empty) (*api.ListEquipmentResponse, error) {
	return s.list(ctx, "list equipment", s.equipment.List)
}

func (s *Server) GetEquipment(ctx context.Context, req *api.GetEquipmentRequest) (*api.Equipment, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	e, err := s.equipment.Get(ctx, req.ID)
	if err != nil {
		return nil, toStatus("get equipment", err)
	}
	out := convert.ToAPIEquipment(*e)
	return &out, nil
}

func (s *Server) UpdateEquipment(ctx context.Context, req *api.UpdateEquipmentRequest) (*api.Equipment, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	e, err := s.equipment.Update(ctx, req.ID, convert.FromAPIUpdateEquipment(req))
	if err != nil {
		return nil, toStatus("update equipment", err)
	}
	out := convert.ToAPIEquipment(*e)
	return &out, nil
}

func (s *Server) OverrideEquipmentState(ctx context.Context, req *api.OverrideStateRequest) (*api.Equipment, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	e, err := s.equipment.OverrideState(ctx, id, req.ID, req.State)
	if err != nil {
		return nil, toStatus("override state", err)
	}
	out := convert.ToAPIEquipment(*e)
	return &out, nil
}

func (s *Server) ListPendingEquipment(ctx context.Context, _ *api.Empty) (*api.ListEquipmentResponse, error) {
	return s.list(ctx, "list pending", s.equipment.ListPending)
}

func (s *Server) ListReceptionEquipment(ctx context.Context, _ *api.Empty) (*api.ListEquipmentResponse, error) {
	return s.list(ctx, "list reception", s.equipment.ListForReception)
}

func (s *Server) ListCompletedEquipment(ctx context.Context, _ *api.Empty) (*api.ListEquipmentResponse, error) {
	return s.list(ctx, "list completed", s.equipment.ListCompleted)
}

func (s *Server) RecordManufacturerResponse(ctx context.Context, req *api.ManufacturerResponseRequest) (*api.CountResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	n, err := s.equipment.RecordManufacturerResponse(ctx, convert.FromAPIManufacturerResponse(req))
	if err != nil {
		return nil, toStatus("manufacturer response", err)
	}
	return &api.CountResponse{Count: n}, nil
}

func (s *Server) ReceiveEquipment(ctx context.Context, req *api.ReceiveRequest) (*api.CountResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	n, err := s.equipment.Receive(ctx, req.EquipmentIDs)
	if err != nil {
		return nil, toStatus("receive", err)
	}
	return &api.CountResponse{Count: n}, nil
}

// --- Purchase orders ---

func (s *Server) AssignPurchaseOrder(ctx context.Context, req *api.AssignOrderRequest) (*api.CountResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	n, err := s.orders.Assign(ctx, req.OrderNumber, req.EquipmentIDs)
	if err != nil {
		return nil, toStatus("assign order", err)
	}
	return &api.CountResponse{Count: n}, nil
}

func (s *Server) ListPurchaseOrders(ctx context.Context, _ *api.Empty) (*api.ListOrdersResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	pos, err := s.orders.List(ctx)
	if err != nil {
		return nil, toStatus("list orders", err)
	}
	return &api.ListOrdersResponse{Orders: convert.ToAPIPurchaseOrders(pos)}, nil
}

func (s *Server) ListActiveOrders(ctx context.Context, _ *api.Empty) (*api.ActiveOrdersResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	nums, err := s.orders.ActiveOrders(ctx)
	if err != nil {
		return nil, toStatus("active orders", err)
	}
	if nums == nil {
		nums = []string{}
	}
	return &api.ActiveOrdersResponse{OrderNumbers: nums}, nil
}

func (s *Server) ListOrderEquipment(ctx context.Context, req *api.OrderRequest) (*api.ListEquipmentResponse, error) {
	return s.list(ctx, "order equipment", func(ctx context.Context) ([]model.Equipment, error) {
		return s.orders.EquipmentForOrder(ctx, req.OrderNumber)
	})
}

func (s *Server) ListSentOrderEquipment(ctx context.Context, req *api.OrderRequest) (*api.ListEquipmentResponse, error) {
	return s.list(ctx, "sent order equipment", func(ctx context.Context) ([]model.Equipment, error) {
		return s.orders.SentEquipmentForOrder(ctx, req.OrderNumber)
	})
}

func (s *Server) ExportOrder(ctx context.Context, req *api.OrderRequest) (*api.ExportResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	exp, err := s.export.Export(ctx, req.OrderNumber)
	if err != nil {
		return nil, toStatus("export order", err)
	}
	return convert.ToAPIExport(exp), nil
}

// --- Catalog ---

func (s *Server) ListManufacturers(ctx context.Context, _ *api.Empty) (*api.ListManufacturersResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	ms, err := s.catalog.ListManufacturers(ctx)
	if err != nil {
		return nil, toStatus("list manufacturers", err)
	}
	return &api.ListManufacturersResponse{Manufacturers: convert.ToAPIManufacturers(ms)}, nil
}

func (s *Server) CreateManufacturer(ctx context.Context, req *api.CreateManufacturerRequest) (*api.Manufacturer, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	m, err := s.catalog.CreateManufacturer(ctx, req.Name)
	if err != nil {
		return nil, toStatus("create manufacturer", err)
	}
	out := convert.ToAPIManufacturer(*m)
	return &out, nil
}

func (s *Server) ListModels(ctx context.Context, req *api.ListModelsRequest) (*api.ListModelsResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	ms, err := s.catalog.ListModels(ctx, req.EquipmentType)
	if err != nil {
		return nil, toStatus("list models", err)
	}
	return &api.ListModelsResponse{Models: convert.ToAPIEquipmentModels(ms)}, nil
}

func (s *Server) CreateModel(ctx context.Context, req *api.CreateModelRequest) (*api.EquipmentModel, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	m, err := s.catalog.CreateModel(ctx, req.Name, req.EquipmentType)
	if err != nil {
		return nil, toStatus("create model", err)
	}
	out := convert.ToAPIEquipmentModel(*m)
	return &out, nil
}

func (s *Server) ListFaultTypes(ctx context.Context, _ *api.Empty) (*api.ListFaultTypesResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	fts, err := s.catalog.ListFaultTypes(ctx)
	if err != nil {
		return nil, toStatus("list fault types", err)
	}
	return &api.ListFaultTypesResponse{FaultTypes: convert.ToAPIFaultTypes(fts)}, nil
}

func (s *Server) CreateFaultType(ctx context.Context, req *api.CreateFaultTypeRequest) (*api.FaultType, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	ft, err := s.catalog.CreateFaultType(ctx, req.Name, req.RequiresSensor)
	if err != nil {
		return nil, toStatus("create fault type", err)
	}
	out := convert.ToAPIFaultType(*ft)
	return &out, nil
}

// --- Admin ---

func (s *Server) WipeDatabase(ctx context.Context, _ *api.Empty) (*api.WipeResponse, error) {
	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.admin.Wipe(ctx, id)
	if err != nil {
		return nil, toStatus("wipe", err)
	}
	return &api.WipeResponse{Deleted: counts}, nil
}

// list runs an authenticated equipment projection.
func (s *Server) list(ctx context.Context, op string, fn func(context.Context) ([]model.Equipment, error)) (*api.ListEquipmentResponse, error) {
	if _, err := caller(ctx); err != nil {
		return nil, err
	}
	es, err := fn(ctx)
	if err != nil {
		return nil, toStatus(op, err)
	}
	return convert.ToAPIEquipmentList(es), nil
}

// caller returns the identity placed in ctx by AuthUnary.
func caller(ctx context.Context) (model.Identity, error) {
	id, ok := IdentityFromCtx(ctx)
	if !ok {
		return model.Identity{}, status.Error(codes.Unauthenticated, "no auth")
	}
	return id, nil
}

// toStatus maps service errors to gRPC status codes.
func toStatus(op string, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, errs.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, errs.ErrConflict):
		code = codes.AlreadyExists
	case errors.Is(err, errs.ErrUnauthorized):
		code = codes.Unauthenticated
	case errors.Is(err, errs.ErrForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, errs.ErrRateLimited):
		code = codes.ResourceExhausted
	case errors.Is(err, errs.ErrValidation):
		code = codes.InvalidArgument
	default:
		return status.Errorf(codes.Internal, "%s: %v", op, err)
	}
	return status.Error(code, err.Error())
}

func bearerTokenFromMD(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", errors.New("no metadata")
	}
	for _, v := range md.Get("authorization") {
		v = strings.TrimSpace(v)
		if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
			t := strings.TrimSpace(v[7:])
			if t != "" {
				return t, nil
			}
		}
	}
	return "", errors.New("no bearer token")
}
