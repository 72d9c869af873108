package stock

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/xiuxiu-stock/internal/application/dto"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/inventory"
	"github.com/jhoicas/xiuxiu-stock/internal/domain/repository"
	"github.com/jhoicas/xiuxiu-stock/pkg/logger"
)

// ReconcileUseCase concilia un archivo de pedido contra la existencia actual
// y opcionalmente genera el PDF del reporte de faltantes.
type ReconcileUseCase struct {
	repo     repository.StockTableRepository
	parser   OrderParser
	renderer ShortageReportRenderer
	location *time.Location
	now      func() time.Time
	log      *logger.Logger
}

// NewReconcileUseCase construye el caso de uso. location es la zona horaria del
// sello de tiempo del PDF (UTC si es nil).
func NewReconcileUseCase(
	repo repository.StockTableRepository,
	parser OrderParser,
	renderer ShortageReportRenderer,
	location *time.Location,
	log *logger.Logger,
) *ReconcileUseCase {
	if location == nil {
		location = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ReconcileUseCase{
		repo:     repo,
		parser:   parser,
		renderer: renderer,
		location: location,
		now:      time.Now,
		log:      log.Component("reconcile"),
	}
}

// ReconcileOrders interpreta el pedido, lee la tabla y calcula los faltantes por
// identidad (código, color, tienda) en el orden de primera aparición del pedido.
func (uc *ReconcileUseCase) ReconcileOrders(ctx context.Context, filename string, r io.Reader) (*dto.ShortageReportDTO, error) {
	lines, err := uc.parser.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	table, _, err := uc.repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	entries := inventory.Reconcile(lines, table)
	report := &dto.ShortageReportDTO{
		OrderFile:    filename,
		Lines:        len(lines),
		FullyStocked: len(entries) == 0,
		Entries:      make([]dto.ShortageEntryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		report.TotalShortage += e.Shortage
		report.Entries = append(report.Entries, dto.ShortageEntryDTO{
			Code:     e.Code,
			Color:    e.Color,
			Vendor:   e.Vendor,
			Demand:   e.Demand,
			Supply:   e.Supply,
			Shortage: e.Shortage,
		})
	}

	uc.log.Info().Str("op_id", uuid.New().String()).Str("order_file", filename).
		Int("lines", report.Lines).Int("entries", len(report.Entries)).
		Int("total_shortage", report.TotalShortage).Msg("pedido conciliado")
	return report, nil
}

// ReconcileOrdersPDF concilia el pedido y devuelve el PDF del reporte junto con el nombre sugerido.
func (uc *ReconcileUseCase) ReconcileOrdersPDF(ctx context.Context, filename string, r io.Reader) ([]byte, string, error) {
	report, err := uc.ReconcileOrders(ctx, filename, r)
	if err != nil {
		return nil, "", err
	}
	generatedAt := uc.now().In(uc.location)
	pdf, err := uc.renderer.RenderShortageReport(ctx, report, generatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("reporte de faltantes: %w", err)
	}
	return pdf, fmt.Sprintf("faltantes_%s.pdf", generatedAt.Format("20060102_1504")), nil
}
