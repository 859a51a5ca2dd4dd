package entity

import "time"

// Tipos de movimiento registrados en el diario.
const (
	MovementTypeOpening     = "opening"      // primer movimiento del par, fija el saldo inicial
	MovementTypeIn          = "in"           // entrada
	MovementTypeOut         = "out"          // salida
	MovementTypeTransferOut = "transfer_out" // débito en la empresa origen
	MovementTypeTransferIn  = "transfer_in"  // crédito en la empresa destino
)

// StockMovement es una fila del diario de movimientos. Se escribe en la misma
// transacción que el cambio de saldo que describe.
type StockMovement struct {
	ID            string
	TransactionID string // agrupa las dos patas de un traslado
	ProductID     string
	CompanyID     string
	Type          string
	Quantity      int // positivo entra, negativo sale
	BalanceAfter  int
	CreatedAt     time.Time
}

// StockChange convierte el movimiento en el evento publicado tras el commit.
func (m *StockMovement) StockChange() StockChange {
	return StockChange{
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		CompanyID:     m.CompanyID,
		Type:          m.Type,
		Delta:         m.Quantity,
		Quantity:      m.BalanceAfter,
		OccurredAt:    m.CreatedAt,
	}
}
