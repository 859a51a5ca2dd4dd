// Package xmlexport serializa el reporte de stock como documento XML para
// integraciones que no consumen JSON.
package xmlexport

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/stock-ledger-api/internal/application/analytics"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

var _ analytics.ReportRenderer = (*StockReportRenderer)(nil)

// Namespace espacio de nombres del documento.
const Namespace = "urn:stock-ledger:report:v1"

// StockReportRenderer implementa analytics.ReportRenderer con etree.
type StockReportRenderer struct {
	indent int
}

// NewStockReportRenderer indent = espacios por nivel; 0 genera el documento en una línea.
func NewStockReportRenderer(indent int) *StockReportRenderer {
	return &StockReportRenderer{indent: indent}
}

func (r *StockReportRenderer) ContentType() string { return "application/xml" }

// Render arma el documento:
//
//	<StockReport generatedAt="...">
//	  <Lines><Line productId=".." companyId=".."><Quantity/>...</Line></Lines>
//	  <Totals><Quantity/><Value/><CatalogAverageCost/><ProductCount/></Totals>
//	</StockReport>
func (r *StockReportRenderer) Render(report *dto.StockReport) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("StockReport")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("generatedAt", report.GeneratedAt.UTC().Format(time.RFC3339))

	lines := root.CreateElement("Lines")
	for _, l := range report.Lines {
		el := lines.CreateElement("Line")
		el.CreateAttr("productId", l.ProductID)
		el.CreateAttr("companyId", l.CompanyID)
		el.CreateElement("ProductName").SetText(l.ProductName)
		el.CreateElement("CompanyName").SetText(l.CompanyName)
		el.CreateElement("Quantity").SetText(strconv.Itoa(l.Quantity))
		el.CreateElement("CostPrice").SetText(l.CostPrice.String())
		el.CreateElement("Value").SetText(l.Value.String())
	}

	totals := root.CreateElement("Totals")
	totals.CreateElement("Quantity").SetText(strconv.FormatInt(report.TotalQuantity, 10))
	totals.CreateElement("Value").SetText(report.TotalValue.String())
	totals.CreateElement("CatalogAverageCost").SetText(report.CatalogAverageCost.String())
	totals.CreateElement("ProductCount").SetText(strconv.Itoa(report.ProductCount))

	if r.indent > 0 {
		doc.Indent(r.indent)
	}
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: serializar reporte: %w", err)
	}
	return out, nil
}
