package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBranchRequest entrada para crear una sucursal. Number es el teléfono de contacto.
type CreateBranchRequest struct {
	Name          string           `json:"name" validate:"required,min=1,max=200"`
	Number        string           `json:"number" validate:"required,max=50"`
	Address       string           `json:"address" validate:"omitempty,max=300"`
	City          string           `json:"city" validate:"omitempty,max=100"`
	Province      string           `json:"province" validate:"omitempty,max=100"`
	Phone         string           `json:"phone" validate:"omitempty,max=50"`
	AdminID       string           `json:"admin" validate:"omitempty"`
	ExchangeRate  *decimal.Decimal `json:"exchangeRate"`
	DefaultMarkup *decimal.Decimal `json:"defaultMarkup"`
}

// UpdateBranchRequest entrada para actualizar una sucursal (campos opcionales).
type UpdateBranchRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Number        *string          `json:"number" validate:"omitempty,min=1,max=50"`
	Address       *string          `json:"address" validate:"omitempty,max=300"`
	City          *string          `json:"city" validate:"omitempty,max=100"`
	Province      *string          `json:"province" validate:"omitempty,max=100"`
	Phone         *string          `json:"phone" validate:"omitempty,max=50"`
	AdminID       *string          `json:"admin"`
	DefaultMarkup *decimal.Decimal `json:"defaultMarkup"`
}

// StockEntryDTO entrada del ledger de una sucursal.
type StockEntryDTO struct {
	ProductID        string `json:"productId"`
	Quantity         int    `json:"quantity"`
	ReservedQuantity int    `json:"reservedQuantity"`
}

// LegacyProductPriceDTO precio del esquema anterior.
type LegacyProductPriceDTO struct {
	ProductID    string          `json:"productId" validate:"required"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`
	FinalPrice   decimal.Decimal `json:"finalPrice"`
}

// BranchResponse salida de una sucursal.
type BranchResponse struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	Number        string                  `json:"number"`
	Address       string                  `json:"address"`
	City          string                  `json:"city"`
	Province      string                  `json:"province"`
	Phone         string                  `json:"phone"`
	AdminID       string                  `json:"admin,omitempty"`
	ExchangeRate  decimal.Decimal         `json:"exchangeRate"`
	DefaultMarkup decimal.Decimal         `json:"defaultMarkup"`
	Stock         []StockEntryDTO         `json:"stock"`
	ProductPrices []LegacyProductPriceDTO `json:"productPrices,omitempty"`
	CreatedAt     time.Time               `json:"createdAt"`
	UpdatedAt     time.Time               `json:"updatedAt"`
}

// ExchangeRateRequest body de PUT /branches/:id/exchange-rate.
type ExchangeRateRequest struct {
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
}

// ProductPricesRequest body de PUT /branches/:id/product-prices.
type ProductPricesRequest struct {
	ProductPrices []LegacyProductPriceDTO `json:"productPrices" validate:"dive"`
}

// TransferRequest body de POST /branches/:id/transfer.
type TransferRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Notes     string `json:"notes" validate:"omitempty,max=500"`
}

// TransferResponse resultado de la transferencia.
type TransferResponse struct {
	Branch          BranchResponse `json:"branch"`
	CentralQuantity int            `json:"centralQuantity"`
	MovementID      string         `json:"movementId,omitempty"`
}

// ManualLoadItem línea de la carga manual.
type ManualLoadItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ManualLoadRequest body de POST /branches/:id/stock/manual.
// Las líneas se validan una por una en el caso de uso para informar errores parciales.
type ManualLoadRequest struct {
	Products []ManualLoadItem `json:"products" validate:"required,min=1"`
	Notes    string           `json:"notes" validate:"omitempty,max=500"`
}

// ManualLoadError línea rechazada.
type ManualLoadError struct {
	ProductID string `json:"productId"`
	Message   string `json:"message"`
}

// ManualLoadResponse resultado de la carga manual (207 si hubo errores parciales).
type ManualLoadResponse struct {
	Message      string            `json:"message"`
	SuccessCount int               `json:"successCount"`
	Errors       []ManualLoadError `json:"errors,omitempty"`
	Branch       BranchResponse    `json:"branch"`
}

// MovementResponse movimiento de stock.
type MovementResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	ProductID  string    `json:"productId"`
	Source     string    `json:"source"`
	ToBranchID string    `json:"toBranch"`
	Quantity   int       `json:"quantity"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
}
