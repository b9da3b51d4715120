// Package pdf genera los estados de cuenta de facturas y comprobantes de pago.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Proyecto + Referencia  │  Tipo + Fecha + Estado    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PARTES: Contraparte / Emitido por / Período                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tarea | Horas | Tarifa | Monto                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total / Pagado / Saldo                             │
//	│  ABONOS: Fecha | Monto | Notas                               │
//	│  FOOTER: QR con la referencia + notas                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/ProjectLedger-api/internal/application/reporting"
	"github.com/jhoicas/ProjectLedger-api/internal/domain/billing"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorPaid    = &props.Color{Red: 20, Green: 120, Blue: 60}
	colorPending = &props.Color{Red: 180, Green: 90, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ reporting.StatementPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa reporting.StatementPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateStatementPDF genera el PDF del estado de cuenta y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStatementPDF(_ context.Context, st *reporting.Statement) ([]byte, error) {
	if st == nil {
		return nil, fmt.Errorf("pdf: estado de cuenta vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title(st.Kind)+" "+st.Reference, true).
		WithAuthor(nonEmpty(st.IssuedBy, "ProjectLedger"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(st))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(st))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(st.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(st))

	if len(st.Payments) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(paymentRows(st.Payments)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(st)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: proyecto + referencia (izq) y tipo, fecha y estado (der).
func headerRow(st *reporting.Statement) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(st.ProjectName, "Proyecto"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Referencia: "+st.Reference, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(strings.ToUpper(title(st.Kind)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+st.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(statusLabel(st.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 13,
				Color: statusColor(st.Status),
			}),
		),
	)
}

// partiesRow: contraparte, emisor y período cubierto.
func partiesRow(st *reporting.Statement) core.Row {
	counterparty := "CLIENTE"
	if st.Kind == reporting.StatementVoucher {
		counterparty = "DESARROLLADOR"
	}
	return row.New(14).Add(
		col.New(6).Add(
			text.New(counterparty, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(st.Counterparty, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Emitido por: %s", nonEmpty(st.IssuedBy, "-")), props.Text{
				Size: 8, Top: 2, Align: align.Right, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Período: %s", nonEmpty(st.Period, "-")), props.Text{
				Size: 8, Top: 8, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de tareas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Tarea", 6, align.Left),
		h("Horas", 2, align.Center),
		h("Tarifa", 2, align.Right),
		h("Monto", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableLineRows: una fila por tarea.
func tableLineRows(lines []reporting.StatementLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rate := "-"
		if l.Rate.IsPositive() {
			rate = formatMoney(l.Rate)
		}
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(l.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.Hours.StringFixed(2), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(rate, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: total del documento, pagado y saldo.
func totalsRow(st *reporting.Statement) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Total:", 1),
			label("Pagado:", 7),
			text.New("SALDO:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 13,
			}),
		),
		col.New(3).Add(
			value(formatMoney(st.Amount), 1),
			value(formatMoney(st.TotalPaid), 7),
			text.New(formatMoney(st.Remaining), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 13,
			}),
		),
	)
}

// paymentRows: historial de abonos, más recientes primero.
func paymentRows(payments []reporting.StatementPayment) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ABONOS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, p := range payments {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(p.Date.Format("02/01/2006"), props.Text{Size: 8, Top: 0.5, Left: 1})),
			col.New(3).Add(text.New(formatMoney(p.Amount), props.Text{Size: 8, Top: 0.5, Align: align.Right})),
			col.New(6).Add(text.New(p.Notes, props.Text{Size: 7.5, Top: 0.5, Left: 3, Color: colorGray})),
		))
	}
	return rows
}

// footerRows: QR con la referencia para ubicar el documento + notas.
func footerRows(st *reporting.Statement) []core.Row {
	notes := "Documento generado a partir del diario contable del proyecto."
	if st.Notes != "" {
		notes = st.Notes
	}
	return []core.Row{
		row.New(30).Add(
			col.New(3).Add(code.NewQr(st.Reference, props.Rect{Percent: 90, Center: true})),
			col.New(9).Add(
				text.New("Notas", props.Text{Style: fontstyle.Bold, Size: 8, Top: 3, Left: 3, Color: colorPrimary}),
				text.New(notes, props.Text{Size: 8, Top: 9, Left: 3, Color: colorGray}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func title(k reporting.StatementKind) string {
	if k == reporting.StatementVoucher {
		return "Comprobante de pago"
	}
	return "Factura"
}

func statusLabel(s billing.Status) string {
	switch s {
	case billing.StatusPaid:
		return "PAGADO"
	case billing.StatusPartial:
		return "PAGO PARCIAL"
	default:
		return "PENDIENTE"
	}
}

func statusColor(s billing.Status) *props.Color {
	if s == billing.StatusPaid {
		return colorPaid
	}
	return colorPending
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con puntos de miles y coma decimal.
// Ej: 25000 → "$25.000,00", -1234.5 → "-$1.234,50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + "," + frac
}
