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

// OrderService defines the purchase order ledger.
type OrderService interface {
	// Assign merges ids into the ledger entry of number and dispatches them (state Sent).
	// It returns the number of dispatched records.
	Assign(ctx context.Context, number string, ids []string) (int64, error)
	List(ctx context.Context) ([]model.PurchaseOrder, error)
	// ActiveOrders returns the order numbers that still have Sent equipment.
	ActiveOrders(ctx context.Context) ([]string, error)
	EquipmentForOrder(ctx context.Context, number string) ([]model.Equipment, error)
	SentEquipmentForOrder(ctx context.Context, number string) ([]model.Equipment, error)
}

type OrderServiceImpl struct {
	orders    repository.PurchaseOrderRepository
	equipment repository.EquipmentRepository
	log       *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewOrderService constructs OrderService. log and m may be nil.
func NewOrderService(orders repository.PurchaseOrderRepository, equipment repository.EquipmentRepository, log *zap.Logger, m *metrics.Metrics) *OrderServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderServiceImpl{orders: orders, equipment: equipment, log: log, metrics: m, now: time.Now}
}

// Assign runs two atomic steps: ledger merge, then bulk dispatch. A failed
// dispatch leaves the merged ledger entry in place.
func (s *OrderServiceImpl) Assign(ctx context.Context, number string, ids []string) (int64, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return 0, fmt.Errorf("order number is required: %w", errs.ErrValidation)
	}
	ids = model.MergeIDs(nil, ids...)

	poID, err := newID()
	if err != nil {
		return 0, err
	}
	now := s.now().UTC()
	created, err := s.orders.Merge(ctx, &model.PurchaseOrder{
		ID:           poID,
		Number:       number,
		EquipmentIDs: ids,
		CreatedAt:    now,
	})
	if err != nil {
		return 0, fmt.Errorf("merge order %q: %w", number, err)
	}
	s.metrics.OrderAssigned(created)

	set := model.FieldSet{}.
		With(model.FieldPurchaseOrderNumber, model.StringPtr(number)).
		With(model.FieldState, model.StateSent).
		With(model.FieldUpdatedAt, now)
	n, err := s.equipment.UpdateMany(ctx, model.ByIDs(ids), set)
	if err != nil {
		return 0, fmt.Errorf("dispatch order %q: %w", number, err)
	}
	s.log.Info("purchase order assigned",
		zap.String("order", number),
		zap.Bool("created", created),
		zap.Int("requested", len(ids)),
		zap.Int64("count", n),
	)
	s.metrics.Transition(model.StateSent, n)
	return n, nil
}

func (s *OrderServiceImpl) List(ctx context.Context) ([]model.PurchaseOrder, error) {
	return s.orders.List(ctx)
}

// ActiveOrders is derived from current equipment state on every call.
func (s *OrderServiceImpl) ActiveOrders(ctx context.Context) ([]string, error) {
	return s.equipment.DistinctOrderNumbers(ctx, model.EquipmentFilter{
		States:         []model.State{model.StateSent},
		HasOrderNumber: true,
	})
}

// EquipmentForOrder returns every record dispatched under number. Unknown numbers yield an empty list.
func (s *OrderServiceImpl) EquipmentForOrder(ctx context.Context, number string) ([]model.Equipment, error) {
	if strings.TrimSpace(number) == "" {
		return []model.Equipment{}, nil
	}
	return s.equipment.Find(ctx, model.EquipmentFilter{OrderNumber: number})
}

func (s *OrderServiceImpl) SentEquipmentForOrder(ctx context.Context, number string) ([]model.Equipment, error) {
	if strings.TrimSpace(number) == "" {
		return []model.Equipment{}, nil
	}
	return s.equipment.Find(ctx, model.EquipmentFilter{
		OrderNumber: number,
		States:      []model.State{model.StateSent},
	})
}

