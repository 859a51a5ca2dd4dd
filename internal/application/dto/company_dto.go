package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	TaxID string `json:"tax_id" validate:"required,cnpj"`
}

// UpdateCompanyRequest reemplaza los campos editables de una empresa.
type UpdateCompanyRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	TaxID string `json:"tax_id" validate:"required,cnpj"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
