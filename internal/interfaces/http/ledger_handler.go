package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/ledger"
)

// LedgerHandler expone entradas, salidas, lotes y traslados de stock.
type LedgerHandler struct {
	uc *ledger.LedgerUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// Move godoc
// @Summary      Registrar entrada o salida de stock
// @Description  El primer movimiento de un par (producto, empresa) crea el registro con la cantidad indicada.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del producto"
// @Param        body  body  dto.MovementRequest  true  "Empresa, cantidad y sentido"
// @Success      200   {object}  dto.MovementResponse
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [post]
func (h *LedgerHandler) Move(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Move(c.UserContext(), ledger.MoveInput{
		ProductID:  c.Params("id"),
		CompanyID:  in.CompanyID,
		Quantity:   in.Quantity,
		IsAddition: in.IsAddition,
	})
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// MoveBatch godoc
// @Summary      Aplicar un lote de movimientos
// @Description  Se aplica en orden y se detiene en el primer fallo; los elementos previos quedan confirmados.
// @Description  En caso de fallo el cuerpo es el BatchMovementResult con failed_index.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchMovementRequest  true  "Elementos del lote"
// @Success      200   {object}  dto.BatchMovementResult
// @Failure      400   {object}  dto.BatchMovementResult
// @Failure      404   {object}  dto.BatchMovementResult
// @Failure      409   {object}  dto.BatchMovementResult
// @Router       /api/products/movements/batch [post]
func (h *LedgerHandler) MoveBatch(c *fiber.Ctx) error {
	var in dto.BatchMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	// Un elemento inválido detiene el lote antes de escribir nada.
	for i, it := range in.Items {
		if err := dto.Validate(it); err != nil {
			idx := i
			return c.Status(fiber.StatusBadRequest).JSON(dto.BatchMovementResult{
				Applied:     []dto.StockEntryResponse{},
				FailedIndex: &idx,
				Error:       err.Error(),
			})
		}
	}
	items := make([]ledger.BatchItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, ledger.BatchItem{
			ProductID:  it.ProductID,
			CompanyID:  it.CompanyID,
			Quantity:   it.Quantity,
			IsAddition: it.IsAddition,
		})
	}
	out, err := h.uc.MoveBatch(c.UserContext(), items)
	if err != nil {
		var itemErr *ledger.BatchItemError
		if out != nil && errors.As(err, &itemErr) {
			status, _ := errorStatus(itemErr.Err)
			if status == fiber.StatusInternalServerError {
				out.Error = "error interno"
			}
			return c.Status(status).JSON(out)
		}
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Trasladar stock entre empresas
// @Description  Débito y crédito se confirman en una sola transacción.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID del producto"
// @Param        body  body  dto.TransferRequest  true  "Origen, destino y cantidad"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/transfers [post]
func (h *LedgerHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Transfer(c.UserContext(), ledger.TransferInput{
		ProductID:     c.Params("id"),
		FromCompanyID: in.FromCompanyID,
		ToCompanyID:   in.ToCompanyID,
		Quantity:      in.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Diario de movimientos
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        company_id  query  string  false  "Filtrar por empresa"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockMovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *LedgerHandler) Movements(c *fiber.Ctx) error {
	out, err := h.uc.Movements(c.UserContext(), dto.MovementQuery{
		ProductID: c.Query("product_id"),
		CompanyID: c.Query("company_id"),
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 20),
			Offset: c.QueryInt("offset", 0),
		},
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
