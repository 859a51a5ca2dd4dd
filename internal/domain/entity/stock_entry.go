package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry es la cantidad de un producto en poder de una empresa.
// Hay como máximo uno por par (ProductID, CompanyID) y Quantity nunca es negativa.
type StockEntry struct {
	ID        string
	ProductID string
	CompanyID string
	Quantity  int
	UpdatedAt time.Time
}

// StockValuation es un StockEntry unido a los datos de catálogo necesarios para valorizarlo.
type StockValuation struct {
	EntryID     string
	ProductID   string
	ProductName string
	CompanyID   string
	CompanyName string
	Quantity    int
	CostPrice   decimal.Decimal
}

// Value = Quantity × CostPrice.
func (v StockValuation) Value() decimal.Decimal {
	return v.CostPrice.Mul(decimal.NewFromInt(int64(v.Quantity)))
}

// StockChange notifica el nuevo saldo de un par después de un commit.
type StockChange struct {
	TransactionID string    `json:"transaction_id"`
	ProductID     string    `json:"product_id"`
	CompanyID     string    `json:"company_id"`
	Type          string    `json:"type"`
	Delta         int       `json:"delta"`
	Quantity      int       `json:"quantity"`
	OccurredAt    time.Time `json:"occurred_at"`
}
