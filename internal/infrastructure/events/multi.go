package events

import (
	"context"
	"errors"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// MultiPublisher reenvía los cambios a todos los publicadores; un fallo no impide los demás.
type MultiPublisher []ledger.EventPublisher

func (m MultiPublisher) PublishStockChanged(ctx context.Context, changes []entity.StockChange) error {
	var errs []error
	for _, p := range m {
		if err := p.PublishStockChanged(ctx, changes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
