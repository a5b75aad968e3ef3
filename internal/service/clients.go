package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
	"github.com/and161185/repairflow/internal/repository"
)

// ClientService defines the client directory.
type ClientService interface {
	// Create stores a new client. A tax id held by any client yields errs.ErrConflict.
	Create(ctx context.Context, in model.ClientInput) (*model.Client, error)
	Get(ctx context.Context, id string) (*model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	// Update applies a partial replace. Only another client's tax id is a conflict.
	Update(ctx context.Context, id string, upd model.ClientUpdate) (*model.Client, error)
	// AddWorkCenter appends a work center, generating its id when missing.
	AddWorkCenter(ctx context.Context, clientID string, wc model.WorkCenter) (model.WorkCenter, error)
	// RemoveWorkCenter removes a work center by id; absent ids are a no-op.
	RemoveWorkCenter(ctx context.Context, clientID, workCenterID string) error
	// ListWorkCenters returns the selectable work centers of a client.
	ListWorkCenters(ctx context.Context, clientID string) ([]model.WorkCenter, error)
}

type ClientServiceImpl struct {
	clients repository.ClientRepository
	now     func() time.Time
}

// NewClientService constructs ClientService over the client repository.
func NewClientService(clients repository.ClientRepository) *ClientServiceImpl {
	return &ClientServiceImpl{clients: clients, now: time.Now}
}

func (s *ClientServiceImpl) Create(ctx context.Context, in model.ClientInput) (*model.Client, error) {
	name := strings.TrimSpace(in.Name)
	taxID := strings.TrimSpace(in.TaxID)
	if name == "" || taxID == "" {
		return nil, fmt.Errorf("name and tax id are required: %w", errs.ErrValidation)
	}
	if err := s.ensureTaxIDFree(ctx, taxID, ""); err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}
	c := &model.Client{
		ID:          id,
		Name:        name,
		TaxID:       taxID,
		Phone:       strings.TrimSpace(in.Phone),
		Email:       model.OptionalString(in.Email),
		WorkCenters: append([]model.WorkCenter(nil), in.WorkCenters...),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, conflictOnTaxID(err, taxID)
	}
	return c, nil
}

func (s *ClientServiceImpl) Get(ctx context.Context, id string) (*model.Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *ClientServiceImpl) List(ctx context.Context) ([]model.Client, error) {
	return s.clients.List(ctx)
}

func (s *ClientServiceImpl) Update(ctx context.Context, id string, upd model.ClientUpdate) (*model.Client, error) {
	c, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("name cannot be blank: %w", errs.ErrValidation)
	}
	if upd.TaxID != nil {
		taxID := strings.TrimSpace(*upd.TaxID)
		if taxID == "" {
			return nil, fmt.Errorf("tax id cannot be blank: %w", errs.ErrValidation)
		}
		upd.TaxID = &taxID
		if err := s.ensureTaxIDFree(ctx, taxID, id); err != nil {
			return nil, err
		}
	}
	upd.Apply(c)
	if err := s.clients.Update(ctx, c); err != nil {
		return nil, conflictOnTaxID(err, c.TaxID)
	}
	return c, nil
}

func (s *ClientServiceImpl) AddWorkCenter(ctx context.Context, clientID string, wc model.WorkCenter) (model.WorkCenter, error) {
	if wc.ID == "" {
		id, err := newID()
		if err != nil {
			return model.WorkCenter{}, err
		}
		wc.ID = id
	}
	if err := s.clients.PushWorkCenter(ctx, clientID, wc); err != nil {
		return model.WorkCenter{}, err
	}
	return wc, nil
}

func (s *ClientServiceImpl) RemoveWorkCenter(ctx context.Context, clientID, workCenterID string) error {
	return s.clients.PullWorkCenter(ctx, clientID, workCenterID)
}

func (s *ClientServiceImpl) ListWorkCenters(ctx context.Context, clientID string) ([]model.WorkCenter, error) {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return model.SelectableWorkCenters(c.WorkCenters), nil
}

// ensureTaxIDFree fails when a client other than exceptID holds taxID.
func (s *ClientServiceImpl) ensureTaxIDFree(ctx context.Context, taxID, exceptID string) error {
	holders, err := s.clients.FindByTaxID(ctx, taxID)
	if err != nil {
		return err
	}
	for _, h := range holders {
		if h.ID != exceptID {
			return taxIDConflict(taxID)
		}
	}
	return nil
}

func taxIDConflict(taxID string) error {
	return fmt.Errorf("tax id %q already registered: %w", taxID, errs.ErrConflict)
}

// conflictOnTaxID names the tax id when the store reports a unique violation.
func conflictOnTaxID(err error, taxID string) error {
	if errors.Is(err, errs.ErrConflict) {
		return taxIDConflict(taxID)
	}
	return err
}
