package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// UserRepo implementa repository.UserRepository en memoria (username único).
type UserRepo struct {
	s  *Store
	tx *state
}

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.s.do(r.tx, func(st *state) error {
		if _, ok := st.users[u.Username]; ok {
			return domain.ErrDuplicate
		}
		st.users[u.Username] = *u
		return nil
	})
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.s.do(r.tx, func(st *state) error {
		if u, ok := st.users[username]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}
