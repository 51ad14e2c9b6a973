// Package pdf genera el reporte imprimible de una corrida de reconciliación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la herramienta │ Corrida + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Lista | Armables | Costo Prom. | Costo Total         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Armables / Costo total de lo armado                │
//	│  SOBRANTE: posiciones y unidades que quedaron sin asignar    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/minifig-profit/internal/application/dto"
	"github.com/jhoicas/minifig-profit/internal/domain/entity"
	"github.com/jhoicas/minifig-profit/pkg/logger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Sink ──────────────────────────────────────────────────────────────────────

// ReportWriter implementa recon.ReportSink usando Maroto v2: genera el PDF de
// resumen y lo escribe en la ruta configurada.
type ReportWriter struct {
	outputPath string
	log        *logger.Logger
}

// NewReportWriter construye el sink.
func NewReportWriter(outputPath string, log *logger.Logger) *ReportWriter {
	return &ReportWriter{outputPath: outputPath, log: log}
}

// Publish genera el PDF del reporte y lo escribe en disco.
func (w *ReportWriter) Publish(_ context.Context, rep *dto.Report) error {
	raw, err := Generate(rep)
	if err != nil {
		return err
	}
	if err := os.WriteFile(w.outputPath, raw, 0o644); err != nil {
		return fmt.Errorf("pdf: escribir %s: %w", w.outputPath, err)
	}
	w.log.Info().Str("ruta", w.outputPath).Int("bytes", len(raw)).Msg("reporte PDF escrito")
	return nil
}

// Generate genera el PDF y devuelve sus bytes.
func Generate(rep *dto.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de armables", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range summaryRows(rep.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(rep))
	m.AddRows(leftoversRow(rep.Leftovers))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la herramienta (izq) y corrida + fecha (der).
func headerRow(rep *dto.Report) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Minifig Profit", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de armables por lista de deseados", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CORRIDA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(rep.RunID, props.Text{
				Size: 7, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New("Fecha: "+rep.StartedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de resumen.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Lista de deseados", 6, align.Left),
		h("Armables", 2, align.Center),
		h("Costo Prom.", 2, align.Right),
		h("Costo Total", 2, align.Right),
	)
}

// summaryRows: una fila por lista.
func summaryRows(rows []dto.SummaryRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(
				r.Title,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", r.Buildable),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				"$"+r.AvgCost.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				// Costo exacto del stock consumido; no es Armables×Promedio
				// porque el promedio va redondeado a centavos.
				"$"+r.Cost.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(rep *dto.Report) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(18).Add(
		col.New(4),
		col.New(4).Add(
			label("Armables totales:"),
			grandLabel("COSTO TOTAL:"),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", rep.TotalBuilds)),
			grandValue("$"+rep.TotalCost.StringFixed(2)),
		),
		col.New(1),
	)
}

// leftoversRow: resumen del inventario que quedó sin asignar.
func leftoversRow(leftovers *entity.Inventory) core.Row {
	positions, units := 0, int64(0)
	value := decimal.Zero
	if leftovers != nil {
		for _, l := range leftovers.Lines() {
			if l.Qty <= 0 {
				continue
			}
			positions++
			units += l.Qty
			value = value.Add(l.TotalCost)
		}
	}
	return row.New(10).Add(col.New(12).Add(
		text.New("SOBRANTE", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New(fmt.Sprintf("%d posiciones   |   %d unidades   |   valor $%s",
			positions, units, value.StringFixed(2),
		), props.Text{Size: 8, Top: 6, Color: colorGray}),
	))
}
