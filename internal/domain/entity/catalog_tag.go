package entity

import "time"

// Tipos de etiqueta de catálogo.
const (
	TagBrand = "brand"
	TagType  = "type"
)

// CatalogTag marca o tipo de producto. El nombre es único dentro de cada Kind.
type CatalogTag struct {
	ID        string
	Kind      string // brand, type
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
