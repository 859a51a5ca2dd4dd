package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name      string          `json:"name" validate:"required,max=100"`
	CostPrice decimal.Decimal `json:"cost_price" validate:"gt=0" swaggertype:"string"`
	SalePrice decimal.Decimal `json:"sale_price" validate:"gt=0" swaggertype:"string"`
}

// UpdateProductRequest reemplaza los campos editables de un producto.
type UpdateProductRequest struct {
	Name      string          `json:"name" validate:"required,max=100"`
	CostPrice decimal.Decimal `json:"cost_price" validate:"gt=0" swaggertype:"string"`
	SalePrice decimal.Decimal `json:"sale_price" validate:"gt=0" swaggertype:"string"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CostPrice decimal.Decimal `json:"cost_price" swaggertype:"string"`
	SalePrice decimal.Decimal `json:"sale_price" swaggertype:"string"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
