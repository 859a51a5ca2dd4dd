package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/analytics"
)

// StockHandler expone las consultas agregadas y el reporte exportable.
type StockHandler struct {
	uc *analytics.StockReportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *analytics.StockReportUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// TotalValue godoc
// @Summary      Valor total del stock (cantidad × costo)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TotalValueResponse
// @Router       /api/stock/total-value [get]
func (h *StockHandler) TotalValue(c *fiber.Ctx) error {
	out, err := h.uc.TotalStockValue(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TotalQuantity godoc
// @Summary      Cantidad total en todas las empresas
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TotalQuantityResponse
// @Router       /api/stock/total-quantity [get]
func (h *StockHandler) TotalQuantity(c *fiber.Ctx) error {
	out, err := h.uc.TotalQuantity(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CatalogAverageCost godoc
// @Summary      Costo promedio del catálogo
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AverageCostResponse
// @Router       /api/stock/average-cost [get]
func (h *StockHandler) CatalogAverageCost(c *fiber.Ctx) error {
	out, err := h.uc.CatalogAverageCost(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ProductAverageCost godoc
// @Summary      Costo promedio de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.AverageCostResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/average-cost [get]
func (h *StockHandler) ProductAverageCost(c *fiber.Ctx) error {
	out, err := h.uc.ProductAverageCost(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Quantity godoc
// @Summary      Cantidad de un producto en una empresa
// @Description  Un par sin registro devuelve 0.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del producto"
// @Param        companyId  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.QuantityResponse
// @Router       /api/products/{id}/companies/{companyId}/quantity [get]
func (h *StockHandler) Quantity(c *fiber.Ctx) error {
	out, err := h.uc.QuantityFor(c.UserContext(), c.Params("id"), c.Params("companyId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte de stock exportable
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Produce      application/pdf
// @Produce      application/xml
// @Param        format  query  string  false  "json | pdf | xml"  default(json)
// @Success      200  {object}  dto.StockReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/report [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("format", analytics.FormatJSON))
	body, contentType, err := h.uc.Export(c.UserContext(), format)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	if format != analytics.FormatJSON {
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stock-report-%s.%s"`,
			time.Now().UTC().Format("20060102"), format))
	}
	return c.Send(body)
}
