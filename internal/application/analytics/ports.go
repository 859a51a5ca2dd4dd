package analytics

import "github.com/jhoicas/stock-ledger-api/internal/application/dto"

// ReportRenderer serializa el reporte de stock en un formato de exportación (PDF, XML...).
type ReportRenderer interface {
	Render(report *dto.StockReport) ([]byte, error)
	ContentType() string
}
