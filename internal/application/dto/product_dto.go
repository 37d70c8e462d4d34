package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU             string          `json:"sku" validate:"required,min=1,max=100"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Brand           string          `json:"brand" validate:"omitempty,max=100"`
	Category        string          `json:"category" validate:"omitempty,max=100"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	CentralQuantity int             `json:"centralQuantity" validate:"min=0"`
	Image           string          `json:"image" validate:"omitempty,max=500"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
// El stock central se modifica con PUT /products/:id/stock.
type UpdateProductRequest struct {
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Brand       *string          `json:"brand" validate:"omitempty,max=100"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image" validate:"omitempty,max=500"`
}

// BranchPriceDTO override de precio de una sucursal.
type BranchPriceDTO struct {
	BranchID string           `json:"branchId"`
	Price    decimal.Decimal  `json:"price"`
	Markup   *decimal.Decimal `json:"markup,omitempty"`
}

// ProductResponse salida de un producto. Los campos de sucursal solo vienen en la vista por sucursal.
type ProductResponse struct {
	ID              string           `json:"id"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Brand           string           `json:"brand"`
	Category        string           `json:"category"`
	Description     string           `json:"description"`
	Price           decimal.Decimal  `json:"price"`
	CentralQuantity int              `json:"centralQuantity"`
	Image           string           `json:"image,omitempty"`
	BranchPrices    []BranchPriceDTO `json:"branchPrices"`
	BranchAvailable *int             `json:"branchAvailable,omitempty"`
	BranchReserved  *int             `json:"branchReserved,omitempty"`
	EffectivePrice  *decimal.Decimal `json:"effectivePrice,omitempty"`
	Markup          *decimal.Decimal `json:"markup,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// CentralStockRequest suma (o resta) stock central.
type CentralStockRequest struct {
	Quantity int `json:"quantity" validate:"required"`
}

// BranchPriceRequest body de PUT /products/:id/branch-price/:branchId.
type BranchPriceRequest struct {
	Price  *decimal.Decimal `json:"price"`
	Markup *decimal.Decimal `json:"markup"`
}

// RecalculatePricesRequest body del recálculo masivo.
type RecalculatePricesRequest struct {
	Rate  decimal.Decimal `json:"rate"`
	Force bool            `json:"force"`
}

// RecalculatePricesResponse cantidad de productos actualizados.
type RecalculatePricesResponse struct {
	Updated int `json:"updated"`
}

// MostSoldResponse línea de más vendidos.
type MostSoldResponse struct {
	ProductID string `json:"productId"`
	TotalSold int    `json:"totalSold"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Brand     string `json:"brand"`
}

// TagRequest alta o renombre de marca o tipo.
type TagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// TagResponse marca o tipo.
type TagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
