package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// LedgerUseCase registra movimientos de stock de forma transaccional (entrada, salida,
// lote y traslado) con bloqueo de fila y Commit/Rollback vía TxRunner.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	companyRepo repository.CompanyRepository
	movRepo     repository.StockMovementRepository
	publisher   EventPublisher
	log         *logger.Logger
	now         func() time.Time
}

// Option configura un LedgerUseCase.
type Option func(*LedgerUseCase)

// WithPublisher difunde cada cambio confirmado.
func WithPublisher(p EventPublisher) Option {
	return func(uc *LedgerUseCase) {
		if p != nil {
			uc.publisher = p
		}
	}
}

// WithLogger reemplaza el logger (por defecto descarta todo).
func WithLogger(l *logger.Logger) Option {
	return func(uc *LedgerUseCase) {
		if l != nil {
			uc.log = l
		}
	}
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	companyRepo repository.CompanyRepository,
	movRepo repository.StockMovementRepository,
	opts ...Option,
) *LedgerUseCase {
	uc := &LedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		companyRepo: companyRepo,
		movRepo:     movRepo,
		publisher:   nopPublisher{},
		log:         logger.NewNop(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Movements lista el diario de movimientos, más recientes primero.
func (uc *LedgerUseCase) Movements(ctx context.Context, q dto.MovementQuery) (*dto.StockMovementListResponse, error) {
	q.DefaultPage()
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	list, err := uc.movRepo.List(ctx, repository.MovementFilter{
		ProductID: q.ProductID,
		CompanyID: q.CompanyID,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			CompanyID:     m.CompanyID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			BalanceAfter:  m.BalanceAfter,
			CreatedAt:     m.CreatedAt,
		})
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// journal guarda la fila del diario y la devuelve para publicarla tras el commit.
func (uc *LedgerUseCase) journal(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	txID, movType string,
	entry *entity.StockEntry,
	delta int,
	now time.Time,
) (*entity.StockMovement, error) {
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		TransactionID: txID,
		ProductID:     entry.ProductID,
		CompanyID:     entry.CompanyID,
		Type:          movType,
		Quantity:      delta,
		BalanceAfter:  entry.Quantity,
		CreatedAt:     now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// save persiste el saldo; una actualización que no toca filas es un conflicto.
func save(ctx context.Context, stockRepo repository.StockEntryRepository, entry *entity.StockEntry) error {
	ok, err := stockRepo.Update(ctx, entry)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrConflict
	}
	return nil
}

// publish difunde los movimientos confirmados. Los errores solo se registran.
func (uc *LedgerUseCase) publish(ctx context.Context, movs ...*entity.StockMovement) {
	if len(movs) == 0 {
		return
	}
	changes := make([]entity.StockChange, 0, len(movs))
	for _, m := range movs {
		changes = append(changes, m.StockChange())
	}
	if err := uc.publisher.PublishStockChanged(ctx, changes); err != nil {
		uc.log.Warn().Err(err).Str("transaction_id", movs[0].TransactionID).Msg("no se pudo publicar el cambio de stock")
	}
}

func toEntryResponse(e *entity.StockEntry) dto.StockEntryResponse {
	return dto.StockEntryResponse{
		ID:        e.ID,
		ProductID: e.ProductID,
		CompanyID: e.CompanyID,
		Quantity:  e.Quantity,
		UpdatedAt: e.UpdatedAt,
	}
}

// validateInput reúne en un solo ValidationError los ids vacíos y la cantidad inválida.
func validateInput(quantity int, ids map[string]string) error {
	verr := &domain.ValidationError{Fields: map[string]string{}}
	for field, id := range ids {
		if id == "" {
			verr.Fields[field] = "required"
		}
	}
	if err := ledger.ValidateQuantity(quantity); err != nil {
		var qerr *domain.ValidationError
		if errors.As(err, &qerr) {
			for k, v := range qerr.Fields {
				verr.Fields[k] = v
			}
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
