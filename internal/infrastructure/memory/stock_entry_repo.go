package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// StockEntryRepo implementa repository.StockEntryRepository en memoria.
// Dentro de TxRunner.Run el mutex del store ya está tomado, así que GetForUpdate
// equivale a GetByPair.
type StockEntryRepo struct {
	s  *Store
	tx *state
}

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

func (r *StockEntryRepo) GetByPair(_ context.Context, productID, companyID string) (*entity.StockEntry, error) {
	var out *entity.StockEntry
	err := r.s.do(r.tx, func(st *state) error {
		id, ok := st.pairs[pairKey{productID, companyID}]
		if !ok {
			return nil
		}
		e := st.entries[id]
		out = &e
		return nil
	})
	return out, err
}

func (r *StockEntryRepo) GetForUpdate(ctx context.Context, productID, companyID string) (*entity.StockEntry, error) {
	return r.GetByPair(ctx, productID, companyID)
}

func (r *StockEntryRepo) CreateIfAbsent(_ context.Context, e *entity.StockEntry) (bool, error) {
	var created bool
	err := r.s.do(r.tx, func(st *state) error {
		key := pairKey{e.ProductID, e.CompanyID}
		if _, ok := st.pairs[key]; ok {
			return nil
		}
		if _, ok := st.products[e.ProductID]; !ok {
			return fmt.Errorf("stock_entries.product_id: %w", domain.ErrNotFound)
		}
		if _, ok := st.companies[e.CompanyID]; !ok {
			return fmt.Errorf("stock_entries.company_id: %w", domain.ErrNotFound)
		}
		if e.Quantity < 0 {
			return domain.ErrInvalidInput
		}
		st.entries[e.ID] = *e
		st.pairs[key] = e.ID
		created = true
		return nil
	})
	return created, err
}

func (r *StockEntryRepo) Update(_ context.Context, e *entity.StockEntry) (bool, error) {
	var updated bool
	err := r.s.do(r.tx, func(st *state) error {
		cur, ok := st.entries[e.ID]
		if !ok {
			return nil
		}
		if e.Quantity < 0 {
			// CHECK (quantity >= 0)
			return domain.ErrInvalidInput
		}
		cur.Quantity = e.Quantity
		cur.UpdatedAt = e.UpdatedAt
		st.entries[e.ID] = cur
		updated = true
		return nil
	})
	return updated, err
}

// ListValuations une cada registro con su producto y empresa, ordenado por nombre.
func (r *StockEntryRepo) ListValuations(_ context.Context) ([]*entity.StockValuation, error) {
	var out []*entity.StockValuation
	err := r.s.do(r.tx, func(st *state) error {
		out = make([]*entity.StockValuation, 0, len(st.entries))
		for _, e := range st.entries {
			p := st.products[e.ProductID]
			c := st.companies[e.CompanyID]
			out = append(out, &entity.StockValuation{
				EntryID:     e.ID,
				ProductID:   e.ProductID,
				ProductName: p.Name,
				CompanyID:   e.CompanyID,
				CompanyName: c.Name,
				Quantity:    e.Quantity,
				CostPrice:   p.CostPrice,
			})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		if out[i].CompanyName != out[j].CompanyName {
			return out[i].CompanyName < out[j].CompanyName
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out, err
}
