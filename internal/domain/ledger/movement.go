// Package ledger contiene las reglas puras de saldo: cómo cambia la cantidad de un
// StockEntry con cada movimiento y cómo se agregan los saldos en reportes.
// No conoce persistencia ni concurrencia; eso lo resuelve la capa de aplicación.
package ledger

import (
	"fmt"
	"math"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// MaxQuantity es el saldo máximo representable por registro (columna INTEGER).
const MaxQuantity = math.MaxInt32

// ValidateQuantity rechaza cantidades que no sean estrictamente positivas.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que 0")
	}
	if quantity > MaxQuantity {
		return domain.NewValidationError("quantity", fmt.Sprintf("no puede superar %d", MaxQuantity))
	}
	return nil
}

// Credit devuelve balance + quantity.
func Credit(balance, quantity int) (int, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return balance, err
	}
	if balance > MaxQuantity-quantity {
		return balance, domain.NewValidationError("quantity", fmt.Sprintf("el saldo resultante supera %d", MaxQuantity))
	}
	return balance + quantity, nil
}

// Debit devuelve balance - quantity, o ErrInsufficientStock sin tocar el saldo
// cuando balance < quantity.
func Debit(balance, quantity int) (int, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return balance, err
	}
	if balance < quantity {
		return balance, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, balance, quantity)
	}
	return balance - quantity, nil
}

// Apply aplica un movimiento de entrada (isAddition) o salida sobre balance.
func Apply(balance, quantity int, isAddition bool) (int, error) {
	if isAddition {
		return Credit(balance, quantity)
	}
	return Debit(balance, quantity)
}
