package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/metrics"
	"github.com/and161185/repairflow/internal/model"
	"github.com/and161185/repairflow/internal/repository"
)

// EquipmentService defines the equipment lifecycle.
type EquipmentService interface {
	// Create stores a Pending record with client and work center names snapshotted.
	Create(ctx context.Context, in model.EquipmentInput) (*model.Equipment, error)
	Get(ctx context.Context, id string) (*model.Equipment, error)
	List(ctx context.Context) ([]model.Equipment, error)
	// Update applies an allow-listed patch. It never touches the state or the order number.
	Update(ctx context.Context, id string, patch model.EquipmentPatch) (*model.Equipment, error)
	// OverrideState forces a state. Admin only.
	OverrideState(ctx context.Context, caller model.Identity, id, state string) (*model.Equipment, error)

	ListPending(ctx context.Context) ([]model.Equipment, error)
	ListForReception(ctx context.Context) ([]model.Equipment, error)
	ListCompleted(ctx context.Context) ([]model.Equipment, error)

	// RecordManufacturerResponse moves the listed items of one order to AtManufacturer.
	RecordManufacturerResponse(ctx context.Context, resp model.ManufacturerResponse) (int64, error)
	// Receive moves every listed item to Received.
	Receive(ctx context.Context, ids []string) (int64, error)
}

type EquipmentServiceImpl struct {
	equipment repository.EquipmentRepository
	clients   repository.ClientRepository
	log       *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewEquipmentService constructs EquipmentService. log and m may be nil.
func NewEquipmentService(equipment repository.EquipmentRepository, clients repository.ClientRepository, log *zap.Logger, m *metrics.Metrics) *EquipmentServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &EquipmentServiceImpl{equipment: equipment, clients: clients, log: log, metrics: m, now: time.Now}
}

func (s *EquipmentServiceImpl) Create(ctx context.Context, in model.EquipmentInput) (*model.Equipment, error) {
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" {
		return nil, fmt.Errorf("client id is required: %w", errs.ErrValidation)
	}
	client, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("client %q: %w", clientID, err)
	}
	var wcID, wcName *string
	if id := model.OptionalString(in.WorkCenterID); id != nil {
		wc, ok := client.FindWorkCenter(*id)
		if !ok {
			return nil, fmt.Errorf("work center %q of client %q: %w", *id, clientID, errs.ErrNotFound)
		}
		wcID, wcName = id, model.OptionalString(wc.Name)
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	e := &model.Equipment{
		ID:                 id,
		WorkOrder:          strings.TrimSpace(in.WorkOrder),
		ClientID:           client.ID,
		ClientName:         client.Name,
		WorkCenterID:       wcID,
		WorkCenterName:     wcName,
		EquipmentType:      strings.TrimSpace(in.EquipmentType),
		Model:              strings.TrimSpace(in.Model),
		ATO:                model.OptionalString(in.ATO),
		Manufacturer:       strings.TrimSpace(in.Manufacturer),
		SerialNumber:       strings.TrimSpace(in.SerialNumber),
		ManufactureDate:    model.ParseDate(in.ManufactureDate),
		FaultType:          strings.TrimSpace(in.FaultType),
		Notes:              model.OptionalString(in.Notes),
		SensorSerialNumber: model.OptionalString(in.SensorSerialNumber),
		SensorInstallDate:  model.ParseDate(in.SensorInstallDate),
		State:              model.StatePending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.equipment.Create(ctx, e); err != nil {
		return nil, err
	}
	s.metrics.Transition(model.StatePending, 1)
	return e, nil
}

func (s *EquipmentServiceImpl) Get(ctx context.Context, id string) (*model.Equipment, error) {
	return s.equipment.GetByID(ctx, id)
}

func (s *EquipmentServiceImpl) List(ctx context.Context) ([]model.Equipment, error) {
	return s.equipment.Find(ctx, model.EquipmentFilter{})
}

func (s *EquipmentServiceImpl) Update(ctx context.Context, id string, patch model.EquipmentPatch) (*model.Equipment, error) {
	set, err := patch.Fields()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrValidation)
	}
	set = set.With(model.FieldUpdatedAt, s.now().UTC())
	if err := s.equipment.UpdateOne(ctx, id, set); err != nil {
		return nil, err
	}
	return s.equipment.GetByID(ctx, id)
}

func (s *EquipmentServiceImpl) OverrideState(ctx context.Context, caller model.Identity, id, state string) (*model.Equipment, error) {
	if !caller.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	st, err := model.ParseState(state)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, errs.ErrValidation)
	}
	set := model.FieldSet{}.
		With(model.FieldState, st).
		With(model.FieldUpdatedAt, s.now().UTC())
	if err := s.equipment.UpdateOne(ctx, id, set); err != nil {
		return nil, err
	}
	s.log.Warn("equipment state overridden",
		zap.String("id", id),
		zap.String("state", string(st)),
		zap.String("by", caller.Username),
	)
	s.metrics.Transition(st, 1)
	return s.equipment.GetByID(ctx, id)
}

func (s *EquipmentServiceImpl) ListPending(ctx context.Context) ([]model.Equipment, error) {
	return s.equipment.Find(ctx, model.EquipmentFilter{States: []model.State{model.StatePending}})
}

// ListForReception returns AtManufacturer items with a warranty decision or a quote.
func (s *EquipmentServiceImpl) ListForReception(ctx context.Context) ([]model.Equipment, error) {
	all, err := s.equipment.Find(ctx, model.EquipmentFilter{States: []model.State{model.StateAtManufacturer}})
	if err != nil {
		return nil, err
	}
	out := make([]model.Equipment, 0, len(all))
	for _, e := range all {
		if e.AwaitingReception() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *EquipmentServiceImpl) ListCompleted(ctx context.Context) ([]model.Equipment, error) {
	return s.equipment.Find(ctx, model.EquipmentFilter{States: []model.State{model.StateReceived}})
}

func (s *EquipmentServiceImpl) RecordManufacturerResponse(ctx context.Context, resp model.ManufacturerResponse) (int64, error) {
	number := strings.TrimSpace(resp.OrderNumber)
	if number == "" {
		return 0, fmt.Errorf("order number is required: %w", errs.ErrValidation)
	}
	filter := model.ByIDs(resp.EquipmentIDs)
	filter.OrderNumber = number

	set := model.FieldSet{}.
		With(model.FieldReceptionNumber, model.OptionalString(resp.ReceptionNumber)).
		With(model.FieldUnderWarranty, model.BoolPtr(resp.UnderWarranty)).
		With(model.FieldState, model.StateAtManufacturer).
		With(model.FieldUpdatedAt, s.now().UTC())
	if !resp.UnderWarranty {
		var quote *string
		if resp.QuoteNumber != nil {
			quote = model.OptionalString(*resp.QuoteNumber)
		}
		var accepted *bool
		if resp.QuoteAccepted != nil {
			accepted = model.BoolPtr(*resp.QuoteAccepted)
		}
		set = set.
			With(model.FieldQuoteNumber, quote).
			With(model.FieldQuoteAccepted, accepted)
	}

	n, err := s.equipment.UpdateMany(ctx, filter, set)
	if err != nil {
		return 0, err
	}
	s.log.Info("manufacturer response recorded",
		zap.String("order", number),
		zap.Bool("warranty", resp.UnderWarranty),
		zap.Int64("count", n),
	)
	s.metrics.Transition(model.StateAtManufacturer, n)
	return n, nil
}

func (s *EquipmentServiceImpl) Receive(ctx context.Context, ids []string) (int64, error) {
	set := model.FieldSet{}.
		With(model.FieldState, model.StateReceived).
		With(model.FieldUpdatedAt, s.now().UTC())
	n, err := s.equipment.UpdateMany(ctx, model.ByIDs(ids), set)
	if err != nil {
		return 0, err
	}
	s.log.Info("equipment received", zap.Int64("count", n))
	s.metrics.Transition(model.StateReceived, n)
	return n, nil
}
