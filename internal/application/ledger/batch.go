package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// BatchItem un movimiento dentro de un lote.
type BatchItem struct {
	ProductID  string
	CompanyID  string
	Quantity   int
	IsAddition bool
}

// BatchItemError indica qué elemento detuvo el lote y por qué.
type BatchItemError struct {
	Index int
	Err   error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("lote: elemento %d: %v", e.Index, e.Err)
}

func (e *BatchItemError) Unwrap() error { return e.Err }

// MoveBatch aplica los elementos en orden, cada uno en su propia transacción.
//
// El lote no es atómico: ante el primer fallo se detiene, los elementos anteriores quedan
// confirmados y los posteriores no se intentan. A diferencia de Move, un par sin registro
// es un fallo (domain.ErrStockEntryNotFound); el lote solo mueve stock existente.
// Las cantidades e ids se validan antes de escribir nada.
func (uc *LedgerUseCase) MoveBatch(ctx context.Context, items []BatchItem) (*dto.BatchMovementResult, error) {
	result := &dto.BatchMovementResult{Applied: make([]dto.StockEntryResponse, 0, len(items))}

	for i, it := range items {
		if err := validateInput(it.Quantity, map[string]string{
			"product_id": it.ProductID,
			"company_id": it.CompanyID,
		}); err != nil {
			return failBatch(result, i, err)
		}
	}

	txID := uuid.New().String()
	for i, it := range items {
		var (
			entry *entity.StockEntry
			mov   *entity.StockMovement
		)
		err := uc.txRunner.Run(ctx, func(stockRepo repository.StockEntryRepository, movRepo repository.StockMovementRepository) error {
			now := uc.now()
			var err error
			entry, err = stockRepo.GetForUpdate(ctx, it.ProductID, it.CompanyID)
			if err != nil {
				return err
			}
			if entry == nil {
				return domain.ErrStockEntryNotFound
			}
			newQty, err := ledger.Apply(entry.Quantity, it.Quantity, it.IsAddition)
			if err != nil {
				return err
			}
			entry.Quantity = newQty
			entry.UpdatedAt = now
			if err := save(ctx, stockRepo, entry); err != nil {
				return err
			}
			movType, delta := entity.MovementTypeIn, it.Quantity
			if !it.IsAddition {
				movType, delta = entity.MovementTypeOut, -it.Quantity
			}
			mov, err = uc.journal(ctx, movRepo, txID, movType, entry, delta, now)
			return err
		})
		if err != nil {
			uc.log.Info().Err(err).Int("index", i).Int("applied", len(result.Applied)).Str("transaction_id", txID).
				Msg("lote detenido; los elementos anteriores quedan aplicados")
			return failBatch(result, i, err)
		}
		result.Applied = append(result.Applied, toEntryResponse(entry))
		uc.publish(ctx, mov)
	}

	result.Success = true
	uc.log.Debug().Str("transaction_id", txID).Int("applied", len(result.Applied)).Msg("lote registrado")
	return result, nil
}

func failBatch(result *dto.BatchMovementResult, index int, err error) (*dto.BatchMovementResult, error) {
	idx := index
	result.Success = false
	result.FailedIndex = &idx
	result.Error = err.Error()
	return result, &BatchItemError{Index: index, Err: err}
}
