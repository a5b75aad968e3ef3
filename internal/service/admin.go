package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/model"
	"github.com/and161185/repairflow/internal/repository"
)

// AdminService defines administrative operations.
type AdminService interface {
	// Wipe deletes every record of every collection. Admin only.
	Wipe(ctx context.Context, caller model.Identity) (map[string]int64, error)
}

type AdminServiceImpl struct {
	wiper repository.Wiper
	log   *zap.Logger
}

// NewAdminService constructs AdminService. log may be nil.
func NewAdminService(wiper repository.Wiper, log *zap.Logger) *AdminServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminServiceImpl{wiper: wiper, log: log}
}

func (s *AdminServiceImpl) Wipe(ctx context.Context, caller model.Identity) (map[string]int64, error) {
	if !caller.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	counts, err := s.wiper.Wipe(ctx)
	if err != nil {
		return nil, err
	}
	fields := make([]zap.Field, 0, len(counts)+1)
	fields = append(fields, zap.String("by", caller.Username))
	for coll, n := range counts {
		fields = append(fields, zap.Int64(coll, n))
	}
	s.log.Warn("database wiped", fields...)
	return counts, nil
}
