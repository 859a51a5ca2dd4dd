package dto

import "time"

// MovementRequest cuerpo de POST /api/products/:id/movements.
type MovementRequest struct {
	CompanyID  string `json:"company_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	IsAddition bool   `json:"is_addition"`
}

// BatchMovementItem un elemento del lote.
type BatchMovementItem struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	CompanyID  string `json:"company_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	IsAddition bool   `json:"is_addition"`
}

// BatchMovementRequest cuerpo de POST /api/products/movements/batch.
type BatchMovementRequest struct {
	Items []BatchMovementItem `json:"items" validate:"dive"`
}

// TransferRequest cuerpo de POST /api/products/:id/transfers.
type TransferRequest struct {
	FromCompanyID string `json:"from_company_id" validate:"required,uuid"`
	ToCompanyID   string `json:"to_company_id" validate:"required,uuid"`
	Quantity      int    `json:"quantity" validate:"gt=0"`
}

// StockEntryResponse saldo de un par (producto, empresa) después de una operación.
type StockEntryResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	CompanyID string    `json:"company_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovementResponse resultado de un Move.
type MovementResponse struct {
	TransactionID string             `json:"transaction_id"`
	Created       bool               `json:"created"` // true si fue el primer movimiento del par
	Entry         StockEntryResponse `json:"entry"`
}

// BatchMovementResult resultado de un lote. Success es el indicador todo-o-nada;
// los elementos anteriores a FailedIndex quedan aplicados aunque Success sea false.
type BatchMovementResult struct {
	Success     bool                 `json:"success"`
	Applied     []StockEntryResponse `json:"applied"`
	FailedIndex *int                 `json:"failed_index,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// TransferResponse saldos de ambas empresas tras el traslado.
type TransferResponse struct {
	TransactionID string             `json:"transaction_id"`
	From          StockEntryResponse `json:"from"`
	To            StockEntryResponse `json:"to"`
}

// MovementQuery filtros de GET /api/stock/movements.
type MovementQuery struct {
	ProductID string `query:"product_id" validate:"omitempty,uuid"`
	CompanyID string `query:"company_id" validate:"omitempty,uuid"`
	PageRequest
}

// StockMovementResponse fila del diario de movimientos.
type StockMovementResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transaction_id"`
	ProductID     string    `json:"product_id"`
	CompanyID     string    `json:"company_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	BalanceAfter  int       `json:"balance_after"`
	CreatedAt     time.Time `json:"created_at"`
}

// StockMovementListResponse lista paginada del diario.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
