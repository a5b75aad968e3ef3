package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/repairflow/internal/archive"
	"github.com/and161185/repairflow/internal/errs"
	"github.com/and161185/repairflow/internal/metrics"
	"github.com/and161185/repairflow/internal/model"
	"github.com/and161185/repairflow/internal/repository"
)

// ExportContentType is the media type of rendered exports.
const ExportContentType = "text/csv; charset=utf-8"

var exportHeader = []string{
	"Orden de Trabajo",
	"Cliente",
	"Tipo de Equipo",
	"Modelo",
	"Fabricante",
	"Número de Serie",
	"Estado",
	"Fecha de Creación",
}

// ExportService renders the equipment of a purchase order as CSV.
type ExportService interface {
	// Export renders every record of the order. An order without equipment yields errs.ErrNotFound.
	Export(ctx context.Context, number string) (model.Export, error)
}

type ExportServiceImpl struct {
	equipment repository.EquipmentRepository
	archive   archive.Store
	log       *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewExportService constructs ExportService. archive, log and m may be nil.
func NewExportService(equipment repository.EquipmentRepository, arch archive.Store, log *zap.Logger, m *metrics.Metrics) *ExportServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportServiceImpl{equipment: equipment, archive: arch, log: log, metrics: m, now: time.Now}
}

func (s *ExportServiceImpl) Export(ctx context.Context, number string) (model.Export, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return model.Export{}, fmt.Errorf("order number is required: %w", errs.ErrValidation)
	}
	items, err := s.equipment.Find(ctx, model.EquipmentFilter{OrderNumber: number})
	if err != nil {
		return model.Export{}, err
	}
	if len(items) == 0 {
		return model.Export{}, fmt.Errorf("no equipment for order %q: %w", number, errs.ErrNotFound)
	}
	// oldest first, the order items were taken in
	slices.SortStableFunc(items, func(a, b model.Equipment) int { return a.CreatedAt.Compare(b.CreatedAt) })

	content, err := renderCSV(items)
	if err != nil {
		return model.Export{}, err
	}
	out := model.Export{
		Filename:       fmt.Sprintf("orden_compra_%s_%s.csv", number, s.now().UTC().Format("20060102")),
		Content:        content,
		EquipmentCount: len(items),
	}
	if s.archive != nil {
		key := "exports/" + out.Filename
		if err := s.archive.Put(ctx, key, []byte(content), ExportContentType); err != nil {
			return model.Export{}, fmt.Errorf("archive export: %w", err)
		}
		out.ArchiveKey = key
	}
	s.log.Info("order exported",
		zap.String("order", number),
		zap.Int("count", out.EquipmentCount),
		zap.String("archive_key", out.ArchiveKey),
	)
	s.metrics.Exported()
	return out, nil
}

func renderCSV(items []model.Equipment) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return "", err
	}
	for _, e := range items {
		row := []string{
			e.WorkOrder,
			e.ClientName,
			e.EquipmentType,
			e.Model,
			e.Manufacturer,
			e.SerialNumber,
			string(e.State),
			e.CreatedAt.UTC().Format(time.DateOnly),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
