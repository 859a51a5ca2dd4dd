package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockEntryRepository define el puerto para leer y actualizar el saldo por (producto, empresa).
// Las operaciones de escritura se usan dentro de transacciones (ver ledger.TxRunner).
type StockEntryRepository interface {
	// GetByPair devuelve (nil, nil) si el par no tiene registro.
	GetByPair(ctx context.Context, productID, companyID string) (*entity.StockEntry, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, companyID string) (*entity.StockEntry, error)
	// CreateIfAbsent inserta entry salvo que el par ya exista; devuelve true si lo insertó.
	// Producto o empresa inexistentes -> domain.ErrNotFound.
	CreateIfAbsent(ctx context.Context, entry *entity.StockEntry) (bool, error)
	Update(ctx context.Context, entry *entity.StockEntry) (bool, error)
	ListValuations(ctx context.Context) ([]*entity.StockValuation, error)
}
