package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TransferInput entrada de un traslado entre empresas.
type TransferInput struct {
	ProductID     string
	FromCompanyID string
	ToCompanyID   string
	Quantity      int
}

// Transfer mueve Quantity del producto de FromCompanyID a ToCompanyID en una sola
// transacción: o se aplican el débito y el crédito, o ninguno.
//
// No verifica que producto o empresas existan; solo importa el registro de origen.
// Origen sin registro o con saldo menor -> domain.ErrInsufficientStock. El destino se
// crea con Quantity si no tenía registro. Los dos registros se bloquean en orden de
// company_id para que traslados cruzados no se bloqueen mutuamente.
func (uc *LedgerUseCase) Transfer(ctx context.Context, in TransferInput) (*dto.TransferResponse, error) {
	if err := validateInput(in.Quantity, map[string]string{
		"product_id":      in.ProductID,
		"from_company_id": in.FromCompanyID,
		"to_company_id":   in.ToCompanyID,
	}); err != nil {
		return nil, err
	}

	txID := uuid.New().String()
	var (
		src, dst *entity.StockEntry
		movs     []*entity.StockMovement
	)
	err := uc.txRunner.Run(ctx, func(stockRepo repository.StockEntryRepository, movRepo repository.StockMovementRepository) error {
		now := uc.now()
		movs = movs[:0]

		locked, err := lockInOrder(ctx, stockRepo, in.ProductID, in.FromCompanyID, in.ToCompanyID)
		if err != nil {
			return err
		}
		src = locked[in.FromCompanyID]
		if src == nil {
			return fmt.Errorf("%w: la empresa origen no tiene registro del producto", domain.ErrInsufficientStock)
		}
		newQty, err := ledger.Debit(src.Quantity, in.Quantity)
		if err != nil {
			return err
		}
		if in.FromCompanyID == in.ToCompanyID {
			// débito y crédito sobre el mismo registro: saldo sin cambios
			dst = src
			return nil
		}

		src.Quantity = newQty
		src.UpdatedAt = now
		if err := save(ctx, stockRepo, src); err != nil {
			return err
		}

		dst = locked[in.ToCompanyID]
		if dst == nil {
			dst, err = createOrLock(ctx, stockRepo, in.ProductID, in.ToCompanyID, in.Quantity, now)
			if err != nil {
				return err
			}
		} else {
			if err := credit(ctx, stockRepo, dst, in.Quantity, now); err != nil {
				return err
			}
		}

		out, err := uc.journal(ctx, movRepo, txID, entity.MovementTypeTransferOut, src, -in.Quantity, now)
		if err != nil {
			return err
		}
		inMov, err := uc.journal(ctx, movRepo, txID, entity.MovementTypeTransferIn, dst, in.Quantity, now)
		if err != nil {
			return err
		}
		movs = append(movs, out, inMov)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Debug().
		Str("transaction_id", txID).
		Str("product_id", in.ProductID).
		Str("from_company_id", in.FromCompanyID).
		Str("to_company_id", in.ToCompanyID).
		Int("quantity", in.Quantity).
		Msg("traslado registrado")
	uc.publish(ctx, movs...)

	return &dto.TransferResponse{
		TransactionID: txID,
		From:          toEntryResponse(src),
		To:            toEntryResponse(dst),
	}, nil
}

// lockInOrder bloquea los registros existentes del producto para las empresas dadas,
// en orden ascendente de company_id. El mapa no contiene las empresas sin registro.
func lockInOrder(ctx context.Context, stockRepo repository.StockEntryRepository, productID, a, b string) (map[string]*entity.StockEntry, error) {
	order := []string{a, b}
	if b < a {
		order = []string{b, a}
	}
	if a == b {
		order = order[:1]
	}
	locked := make(map[string]*entity.StockEntry, len(order))
	for _, companyID := range order {
		entry, err := stockRepo.GetForUpdate(ctx, productID, companyID)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			locked[companyID] = entry
		}
	}
	return locked, nil
}

// createOrLock crea el registro destino con quantity; si otra transacción lo creó
// entretanto, lo bloquea y le acredita quantity.
func createOrLock(ctx context.Context, stockRepo repository.StockEntryRepository, productID, companyID string, quantity int, now time.Time) (*entity.StockEntry, error) {
	entry := &entity.StockEntry{
		ID:        uuid.New().String(),
		ProductID: productID,
		CompanyID: companyID,
		Quantity:  quantity,
		UpdatedAt: now,
	}
	created, err := stockRepo.CreateIfAbsent(ctx, entry)
	if err != nil {
		return nil, err
	}
	if created {
		return entry, nil
	}
	entry, err = stockRepo.GetForUpdate(ctx, productID, companyID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrStockEntryNotFound
	}
	if err := credit(ctx, stockRepo, entry, quantity, now); err != nil {
		return nil, err
	}
	return entry, nil
}

func credit(ctx context.Context, stockRepo repository.StockEntryRepository, entry *entity.StockEntry, quantity int, now time.Time) error {
	newQty, err := ledger.Credit(entry.Quantity, quantity)
	if err != nil {
		return err
	}
	entry.Quantity = newQty
	entry.UpdatedAt = now
	return save(ctx, stockRepo, entry)
}
