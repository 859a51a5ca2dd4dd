package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ProductRepo implementa repository.ProductRepository en memoria.
type ProductRepo struct {
	s  *Store
	tx *state
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.do(r.tx, func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.s.do(r.tx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) (bool, error) {
	var updated bool
	err := r.s.do(r.tx, func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return nil
		}
		cur.Name = p.Name
		cur.CostPrice = p.CostPrice
		cur.SalePrice = p.SalePrice
		cur.UpdatedAt = p.UpdatedAt
		st.products[p.ID] = cur
		updated = true
		return nil
	})
	return updated, err
}

// Delete borra el producto con su stock y sus movimientos.
func (r *ProductRepo) Delete(_ context.Context, id string) (bool, error) {
	var deleted bool
	err := r.s.do(r.tx, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return nil
		}
		delete(st.products, id)
		st.deleteWhere(func(productID, _ string) bool { return productID == id })
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return paginate(all, limit, offset), nil
}

func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.s.do(r.tx, func(st *state) error {
		out = make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			out = append(out, &p)
		}
		return nil
	})
	sortByCreated(out, func(p *entity.Product) (int64, string) { return p.CreatedAt.UnixNano(), p.ID })
	return out, err
}
