package entity

import "time"

// Company representa una empresa que mantiene stock de productos.
type Company struct {
	ID        string
	Name      string
	TaxID     string // identificador fiscal (CNPJ) normalizado, solo dígitos
	CreatedAt time.Time
	UpdatedAt time.Time
}
