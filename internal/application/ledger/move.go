package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// MoveInput entrada de un movimiento simple.
type MoveInput struct {
	ProductID  string
	CompanyID  string
	Quantity   int
	IsAddition bool
}

// Move aplica una entrada o salida sobre el par (producto, empresa).
//
// Si el par no tiene registro, el primer movimiento lo crea con saldo = Quantity,
// sea entrada o salida. Si existe, bloquea la fila (SELECT FOR UPDATE) y suma o resta;
// una salida mayor al saldo devuelve domain.ErrInsufficientStock sin modificar nada.
func (uc *LedgerUseCase) Move(ctx context.Context, in MoveInput) (*dto.MovementResponse, error) {
	if err := validateInput(in.Quantity, map[string]string{
		"product_id": in.ProductID,
		"company_id": in.CompanyID,
	}); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}

	txID := uuid.New().String()
	var (
		result  *entity.StockEntry
		created bool
		mov     *entity.StockMovement
	)
	err = uc.txRunner.Run(ctx, func(stockRepo repository.StockEntryRepository, movRepo repository.StockMovementRepository) error {
		now := uc.now()
		seed := &entity.StockEntry{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			CompanyID: in.CompanyID,
			Quantity:  in.Quantity,
			UpdatedAt: now,
		}
		ok, err := stockRepo.CreateIfAbsent(ctx, seed)
		if err != nil {
			return err
		}
		if ok {
			result, created = seed, true
			mov, err = uc.journal(ctx, movRepo, txID, entity.MovementTypeOpening, seed, seed.Quantity, now)
			return err
		}

		// Bloquea la fila para evitar condiciones de carrera
		entry, err := stockRepo.GetForUpdate(ctx, in.ProductID, in.CompanyID)
		if err != nil {
			return err
		}
		if entry == nil {
			// eliminado en cascada entre el insert y el bloqueo
			return domain.ErrStockEntryNotFound
		}
		newQty, err := ledger.Apply(entry.Quantity, in.Quantity, in.IsAddition)
		if err != nil {
			return err
		}
		entry.Quantity = newQty
		entry.UpdatedAt = now
		if err := save(ctx, stockRepo, entry); err != nil {
			return err
		}
		movType, delta := entity.MovementTypeIn, in.Quantity
		if !in.IsAddition {
			movType, delta = entity.MovementTypeOut, -in.Quantity
		}
		result = entry
		mov, err = uc.journal(ctx, movRepo, txID, movType, entry, delta, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if created && !in.IsAddition {
		uc.log.Warn().
			Str("product_id", in.ProductID).
			Str("company_id", in.CompanyID).
			Int("quantity", in.Quantity).
			Msg("salida como primer movimiento: el saldo inicial se fijó en la cantidad solicitada")
	}
	uc.log.Debug().
		Str("transaction_id", txID).
		Str("product_id", in.ProductID).
		Str("company_id", in.CompanyID).
		Int("balance", result.Quantity).
		Msg("movimiento registrado")
	uc.publish(ctx, mov)

	return &dto.MovementResponse{
		TransactionID: txID,
		Created:       created,
		Entry:         toEntryResponse(result),
	}, nil
}
