// Package pdf genera la versión imprimible del reporte de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Empresa | Cant. | Costo | Valor           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: cantidad / valor / costo promedio del catálogo     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

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
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/stock-ledger-api/internal/application/analytics"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

var _ analytics.ReportRenderer = (*StockReportRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ContentTypePDF tipo MIME del documento generado.
const ContentTypePDF = "application/pdf"

// StockReportRenderer implementa analytics.ReportRenderer usando Maroto v2.
type StockReportRenderer struct {
	title   string
	printer *message.Printer
}

// NewStockReportRenderer construye el renderer. Los montos se formatean según tag
// (separador de miles y decimales); language.Und usa el formato neutro.
func NewStockReportRenderer(title string, tag language.Tag) *StockReportRenderer {
	if title == "" {
		title = "Reporte de stock"
	}
	return &StockReportRenderer{title: title, printer: message.NewPrinter(tag)}
}

func (r *StockReportRenderer) ContentType() string { return ContentTypePDF }

// Render genera el PDF y devuelve sus bytes.
func (r *StockReportRenderer) Render(report *dto.StockReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(r.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(report.Lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin registros de stock", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	for _, l := range report.Lines {
		m.AddRows(r.detailRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(r.totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (r *StockReportRenderer) headerRow(report *dto.StockReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(r.title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New(r.printer.Sprintf("%d productos", report.ProductCount), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Empresa", 3, align.Left),
		h("Cant.", 1, align.Right),
		h("Costo", 2, align.Right),
		h("Valor", 2, align.Right),
	)
}

func (r *StockReportRenderer) detailRow(l dto.StockReportLine) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(6).Add(
		cell(l.ProductName, 4, align.Left),
		cell(l.CompanyName, 3, align.Left),
		cell(r.printer.Sprintf("%d", l.Quantity), 1, align.Right),
		cell(r.money(l.CostPrice), 2, align.Right),
		cell(r.money(l.Value), 2, align.Right),
	)
}

func (r *StockReportRenderer) totalsRow(report *dto.StockReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Cantidad total:"),
			label("Valor total:"),
			label("Costo promedio:"),
		),
		col.New(3).Add(
			value(r.printer.Sprintf("%d", report.TotalQuantity)),
			value(r.money(report.TotalValue)),
			value(r.money(report.CatalogAverageCost)),
		),
	)
}

// money formatea con dos decimales y separadores del idioma configurado.
func (r *StockReportRenderer) money(d decimal.Decimal) string {
	return r.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
