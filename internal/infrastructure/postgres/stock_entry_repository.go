package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo implementación de StockEntryRepository sobre PostgreSQL (usable con pool o tx).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

const stockEntryColumns = `id, product_id, company_id, quantity, updated_at`

// GetByPair obtiene el saldo de un producto en una empresa. (nil, nil) si no hay registro.
func (r *StockEntryRepo) GetByPair(ctx context.Context, productID, companyID string) (*entity.StockEntry, error) {
	query := `SELECT ` + stockEntryColumns + ` FROM stock_entries WHERE product_id = $1 AND company_id = $2`
	e, err := scanStockEntry(r.q.QueryRow(ctx, query, productID, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return e, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila hasta el fin de la tx (SELECT FOR UPDATE).
func (r *StockEntryRepo) GetForUpdate(ctx context.Context, productID, companyID string) (*entity.StockEntry, error) {
	query := `
		SELECT ` + stockEntryColumns + `
		FROM stock_entries WHERE product_id = $1 AND company_id = $2
		FOR UPDATE`
	e, err := scanStockEntry(r.q.QueryRow(ctx, query, productID, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry for update: %w", err)
	}
	return e, nil
}

// CreateIfAbsent inserta el registro salvo que el par ya exista. Si otra transacción
// está insertando el mismo par, espera a que termine (ON CONFLICT DO NOTHING).
func (r *StockEntryRepo) CreateIfAbsent(ctx context.Context, e *entity.StockEntry) (bool, error) {
	query := `
		INSERT INTO stock_entries (` + stockEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, company_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, e.ID, e.ProductID, e.CompanyID, e.Quantity, e.UpdatedAt)
	if err != nil {
		return false, mapWriteErr("insert stock entry", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Update guarda la cantidad. El CHECK (quantity >= 0) rechaza saldos negativos.
func (r *StockEntryRepo) Update(ctx context.Context, e *entity.StockEntry) (bool, error) {
	query := `UPDATE stock_entries SET quantity = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, e.ID, e.Quantity, e.UpdatedAt)
	if err != nil {
		return false, mapWriteErr("update stock entry", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListValuations une cada registro con su producto y empresa.
func (r *StockEntryRepo) ListValuations(ctx context.Context) ([]*entity.StockValuation, error) {
	query := `
		SELECT s.id, s.product_id, p.name, s.company_id, c.name, s.quantity, p.cost_price
		FROM stock_entries s
		JOIN products p ON p.id = s.product_id
		JOIN companies c ON c.id = s.company_id
		ORDER BY p.name, c.name, s.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list valuations: %w", err)
	}
	defer rows.Close()
	var out []*entity.StockValuation
	for rows.Next() {
		var v entity.StockValuation
		if err := rows.Scan(&v.EntryID, &v.ProductID, &v.ProductName, &v.CompanyID, &v.CompanyName, &v.Quantity, &v.CostPrice); err != nil {
			return nil, fmt.Errorf("scan valuation: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func scanStockEntry(row pgx.Row) (*entity.StockEntry, error) {
	var e entity.StockEntry
	if err := row.Scan(&e.ID, &e.ProductID, &e.CompanyID, &e.Quantity, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
