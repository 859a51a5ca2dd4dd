package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// MovementFilter filtra el diario; campos vacíos no filtran.
type MovementFilter struct {
	ProductID string
	CompanyID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockMovementRepository define el puerto de persistencia para el diario de movimientos (DIP).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List devuelve los movimientos más recientes primero.
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
}
