// Package pdf genera el reporte de faltantes de un pedido en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + archivo del pedido  │  Fecha de generación │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: líneas del pedido / total faltante                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR TIENDA: Código | Color | Pedido | Existencia | Faltante │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/jhoicas/xiuxiu-stock/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 176, Green: 32, Blue: 32}
)

// cjkFamily nombre con el que se registra la fuente TTF configurada (colores y
// tiendas suelen venir en chino y las fuentes base de PDF no los cubren).
const cjkFamily = "report-cjk"

// ── Generator ─────────────────────────────────────────────────────────────────

// ShortageReportGenerator implementa stock.ShortageReportRenderer usando Maroto v2.
type ShortageReportGenerator struct {
	fontPath string
}

// NewShortageReportGenerator construye el generador. fontPath es opcional (TTF con
// glifos CJK); vacío usa helvetica.
func NewShortageReportGenerator(fontPath string) (*ShortageReportGenerator, error) {
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err != nil {
			return nil, fmt.Errorf("pdf: fuente %q: %w", fontPath, err)
		}
	}
	return &ShortageReportGenerator{fontPath: fontPath}, nil
}

// RenderShortageReport genera el PDF y devuelve sus bytes.
func (g *ShortageReportGenerator) RenderShortageReport(
	_ context.Context,
	report *dto.ShortageReportDTO,
	generatedAt time.Time,
) ([]byte, error) {
	builder := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithTitle("Reporte de faltantes", true)

	family := "helvetica"
	if g.fontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(cjkFamily, fontstyle.Normal, g.fontPath).
			AddUTF8Font(cjkFamily, fontstyle.Bold, g.fontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("pdf: cargar fuente: %w", err)
		}
		builder = builder.WithCustomFonts(fonts)
		family = cjkFamily
	}
	builder = builder.WithDefaultFont(&props.Font{Family: family, Size: 9})

	m := maroto.New(builder.Build())

	m.AddRows(headerRow(report, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(report.Entries) == 0 {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("El pedido está cubierto por la existencia actual.", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: colorPrimary, Top: 3,
			}),
		)))
	}
	for _, group := range groupByVendor(report.Entries) {
		m.AddRows(vendorRow(group.vendor))
		m.AddRows(tableHeaderRow())
		m.AddRows(tableDetailRows(group.entries)...)
		m.AddRows(line.NewRow(3))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + archivo del pedido (izq) y fecha de generación (der).
func headerRow(report *dto.ShortageReportDTO, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE FALTANTES", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Pedido: "+nonEmpty(report.OrderFile, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(generatedAt.Format("02/01/2006 15:04 MST"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

// summaryRow: totales del pedido.
func summaryRow(report *dto.ShortageReportDTO) core.Row {
	return row.New(10).Add(
		col.New(4).Add(text.New(
			"Líneas del pedido: "+strconv.Itoa(report.Lines),
			props.Text{Size: 9, Top: 2},
		)),
		col.New(4).Add(text.New(
			"Identidades con faltante: "+strconv.Itoa(len(report.Entries)),
			props.Text{Size: 9, Top: 2},
		)),
		col.New(4).Add(text.New(
			"Total faltante: "+strconv.Itoa(report.TotalShortage),
			props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2, Color: colorAlert},
		)),
	)
}

// vendorRow: subtítulo de la tienda a la que hay que pedir.
func vendorRow(vendor string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Tienda: "+vendor, props.Text{
			Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
		}),
	))
}

// tableHeaderRow: cabecera de la tabla con fondo azul.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 3, align.Left),
		h("Color", 3, align.Left),
		h("Pedido", 2, align.Right),
		h("Existencia", 2, align.Right),
		h("Faltante", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por faltante.
func tableDetailRows(entries []dto.ShortageEntryDTO) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(e.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(e.Color, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(strconv.Itoa(e.Demand), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(strconv.Itoa(e.Supply), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(strconv.Itoa(e.Shortage), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorAlert,
			})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

type vendorGroup struct {
	vendor  string
	entries []dto.ShortageEntryDTO
}

// groupByVendor agrupa los faltantes por tienda respetando el orden de primera aparición.
func groupByVendor(entries []dto.ShortageEntryDTO) []vendorGroup {
	index := make(map[string]int)
	var groups []vendorGroup
	for _, e := range entries {
		i, ok := index[e.Vendor]
		if !ok {
			i = len(groups)
			index[e.Vendor] = i
			groups = append(groups, vendorGroup{vendor: e.Vendor})
		}
		groups[i].entries = append(groups[i].entries, e)
	}
	return groups
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
