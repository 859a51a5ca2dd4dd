package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza atomicidad para el motor de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockEntryRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// EventPublisher difunde los cambios de saldo ya confirmados (RabbitMQ, WebSocket).
// Un error al publicar no revierte el movimiento.
type EventPublisher interface {
	PublishStockChanged(ctx context.Context, changes []entity.StockChange) error
}

type nopPublisher struct{}

func (nopPublisher) PublishStockChanged(context.Context, []entity.StockChange) error { return nil }
