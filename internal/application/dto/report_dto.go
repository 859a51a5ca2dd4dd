package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TotalValueResponse salida de GET /api/stock/total-value.
type TotalValueResponse struct {
	TotalValue decimal.Decimal `json:"total_value" swaggertype:"string"`
}

// TotalQuantityResponse salida de GET /api/stock/total-quantity.
type TotalQuantityResponse struct {
	TotalQuantity int64 `json:"total_quantity"`
}

// QuantityResponse cantidad de un par; 0 también significa "sin registro".
type QuantityResponse struct {
	ProductID string `json:"product_id"`
	CompanyID string `json:"company_id"`
	Quantity  int    `json:"quantity"`
}

// AverageCostResponse costo promedio de un producto o del catálogo.
type AverageCostResponse struct {
	ProductID   string          `json:"product_id,omitempty"`
	AverageCost decimal.Decimal `json:"average_cost" swaggertype:"string"`
}

// StockReportLine una fila del reporte de stock.
type StockReportLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	CompanyID   string          `json:"company_id"`
	CompanyName string          `json:"company_name"`
	Quantity    int             `json:"quantity"`
	CostPrice   decimal.Decimal `json:"cost_price" swaggertype:"string"`
	Value       decimal.Decimal `json:"value" swaggertype:"string"`
}

// StockReport foto del stock con totales.
type StockReport struct {
	GeneratedAt        time.Time         `json:"generated_at"`
	Lines              []StockReportLine `json:"lines"`
	TotalQuantity      int64             `json:"total_quantity"`
	TotalValue         decimal.Decimal   `json:"total_value" swaggertype:"string"`
	CatalogAverageCost decimal.Decimal   `json:"catalog_average_cost" swaggertype:"string"`
	ProductCount       int               `json:"product_count"`
}
