package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// TotalValue suma Quantity × CostPrice de todos los registros.
func TotalValue(valuations []*entity.StockValuation) decimal.Decimal {
	total := decimal.Zero
	for _, v := range valuations {
		total = total.Add(v.Value())
	}
	return total
}

// TotalQuantity suma las cantidades de todos los registros.
func TotalQuantity(valuations []*entity.StockValuation) int64 {
	var total int64
	for _, v := range valuations {
		total += int64(v.Quantity)
	}
	return total
}

// AverageCost es la media aritmética de los precios de costo, sin ponderar por
// cantidad. Catálogo vacío -> 0.
func AverageCost(products []*entity.Product) decimal.Decimal {
	if len(products) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.CostPrice)
	}
	return sum.Div(decimal.NewFromInt(int64(len(products))))
}
