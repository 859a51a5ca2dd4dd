package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// StockMovementRepo implementa repository.StockMovementRepository en memoria.
type StockMovementRepo struct {
	s  *Store
	tx *state
}

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

func (r *StockMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.s.do(r.tx, func(st *state) error {
		if _, ok := st.pairs[pairKey{m.ProductID, m.CompanyID}]; !ok {
			return fmt.Errorf("stock_movements: %w", domain.ErrNotFound)
		}
		st.appendMovement(*m)
		return nil
	})
}

// List recorre el diario desde el final: los más recientes primero.
func (r *StockMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.s.do(r.tx, func(st *state) error {
		out = make([]*entity.StockMovement, 0)
		for _, movs := range [][]entity.StockMovement{st.pending, st.movements} {
			for i := len(movs) - 1; i >= 0; i-- {
				m := movs[i]
				if f.ProductID != "" && m.ProductID != f.ProductID {
					continue
				}
				if f.CompanyID != "" && m.CompanyID != f.CompanyID {
					continue
				}
				if f.From != nil && m.CreatedAt.Before(*f.From) {
					continue
				}
				if f.To != nil && !m.CreatedAt.Before(*f.To) {
					continue
				}
				out = append(out, &m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paginate(out, f.Limit, f.Offset), nil
}
