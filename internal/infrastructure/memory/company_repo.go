package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// CompanyRepo implementa repository.CompanyRepository en memoria.
// TaxID es único, como el índice de la tabla companies.
type CompanyRepo struct {
	s  *Store
	tx *state
}

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

func taxIDTaken(st *state, taxID, exceptID string) bool {
	for _, c := range st.companies {
		if c.TaxID == taxID && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.s.do(r.tx, func(st *state) error {
		if _, ok := st.companies[c.ID]; ok || taxIDTaken(st, c.TaxID, "") {
			return domain.ErrDuplicate
		}
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.s.do(r.tx, func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	var out *entity.Company
	err := r.s.do(r.tx, func(st *state) error {
		for _, c := range st.companies {
			if c.TaxID == taxID {
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) (bool, error) {
	var updated bool
	err := r.s.do(r.tx, func(st *state) error {
		cur, ok := st.companies[c.ID]
		if !ok {
			return nil
		}
		if taxIDTaken(st, c.TaxID, c.ID) {
			return domain.ErrDuplicate
		}
		cur.Name = c.Name
		cur.TaxID = c.TaxID
		cur.UpdatedAt = c.UpdatedAt
		st.companies[c.ID] = cur
		updated = true
		return nil
	})
	return updated, err
}

// Delete borra la empresa con su stock y sus movimientos.
func (r *CompanyRepo) Delete(_ context.Context, id string) (bool, error) {
	var deleted bool
	err := r.s.do(r.tx, func(st *state) error {
		if _, ok := st.companies[id]; !ok {
			return nil
		}
		delete(st.companies, id)
		st.deleteWhere(func(_, companyID string) bool { return companyID == id })
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.s.do(r.tx, func(st *state) error {
		out = make([]*entity.Company, 0, len(st.companies))
		for _, c := range st.companies {
			out = append(out, &c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByCreated(out, func(c *entity.Company) (int64, string) { return c.CreatedAt.UnixNano(), c.ID })
	return paginate(out, limit, offset), nil
}
