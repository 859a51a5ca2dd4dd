// Package memory implementa los repositorios sobre mapas en memoria. Se usa con
// STORAGE_DRIVER=memory y en los tests; replica las reglas de integridad del esquema
// Postgres (claves foráneas, unicidad, borrado en cascada).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

type pairKey struct {
	productID string
	companyID string
}

// state es una foto completa de los datos; las transacciones trabajan sobre una copia.
// El diario no se copia: la tx lo comparte en solo lectura y acumula sus filas en pending.
type state struct {
	products  map[string]entity.Product
	companies map[string]entity.Company
	entries   map[string]entity.StockEntry
	pairs     map[pairKey]string // par -> id del StockEntry
	movements []entity.StockMovement
	pending   []entity.StockMovement // filas nuevas de la tx, en orden
	inTx      bool
	users     map[string]entity.User // por username
}

func newState() *state {
	return &state{
		products:  make(map[string]entity.Product),
		companies: make(map[string]entity.Company),
		entries:   make(map[string]entity.StockEntry),
		pairs:     make(map[pairKey]string),
		users:     make(map[string]entity.User),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:  make(map[string]entity.Product, len(s.products)),
		companies: make(map[string]entity.Company, len(s.companies)),
		entries:   make(map[string]entity.StockEntry, len(s.entries)),
		pairs:     make(map[pairKey]string, len(s.pairs)),
		movements: s.movements,
		inTx:      true,
		users:     make(map[string]entity.User, len(s.users)),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	for k, v := range s.pairs {
		c.pairs[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// deleteWhere borra los registros de stock y movimientos que cumplan match (cascada).
func (s *state) deleteWhere(match func(productID, companyID string) bool) {
	for id, e := range s.entries {
		if match(e.ProductID, e.CompanyID) {
			delete(s.entries, id)
			delete(s.pairs, pairKey{e.ProductID, e.CompanyID})
		}
	}
	s.movements = filterMovements(s.movements, match)
	s.pending = filterMovements(s.pending, match)
}

// filterMovements devuelve un slice nuevo; el original puede estar compartido con otra foto.
func filterMovements(movs []entity.StockMovement, match func(productID, companyID string) bool) []entity.StockMovement {
	kept := make([]entity.StockMovement, 0, len(movs))
	for _, m := range movs {
		if !match(m.ProductID, m.CompanyID) {
			kept = append(kept, m)
		}
	}
	return kept
}

// appendMovement agrega m al diario, o a pending dentro de una tx.
func (s *state) appendMovement(m entity.StockMovement) {
	if s.inTx {
		s.pending = append(s.pending, m)
		return
	}
	s.movements = append(s.movements, m)
}

// commit vuelca pending al diario y deja la foto lista para publicarse.
func (s *state) commit() {
	s.movements = append(s.movements, s.pending...)
	s.pending = nil
	s.inTx = false
}

// Store guarda el estado y serializa las escrituras con un único mutex: cada transacción
// lo retiene de principio a fin, lo que equivale a bloquear todas las filas.
type Store struct {
	mu   sync.Mutex
	data *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// do ejecuta fn sobre el estado de la tx si existe; si no, toma el mutex.
func (s *Store) do(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// Products devuelve el repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Companies devuelve el repositorio de empresas fuera de transacción.
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s: s} }

// StockEntries devuelve el repositorio de saldos fuera de transacción.
func (s *Store) StockEntries() *StockEntryRepo { return &StockEntryRepo{s: s} }

// Movements devuelve el diario fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{s: s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// TxRunner ejecuta fn sobre una copia del estado y la publica solo si fn no falla.
type TxRunner struct {
	s *Store
}

var _ ledger.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run implementa ledger.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockEntryRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tx := r.s.data.clone()
	if err := fn(&StockEntryRepo{s: r.s, tx: tx}, &StockMovementRepo{s: r.s, tx: tx}); err != nil {
		return err // rollback: la copia se descarta
	}
	tx.commit()
	r.s.data = tx
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortByCreated[T any](items []T, created func(T) (int64, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := created(items[i])
		tj, idj := created(items[j])
		if ti != tj {
			return ti < tj
		}
		return idi < idj
	})
}
