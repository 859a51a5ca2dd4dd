package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock no vive aquí sino en
// StockEntry, uno por empresa que lo tenga.
type Product struct {
	ID        string
	Name      string
	CostPrice decimal.Decimal // precio de costo, base de la valorización del stock
	SalePrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
