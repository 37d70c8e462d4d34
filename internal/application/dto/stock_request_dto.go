package dto

import "time"

// StockRequestItemDTO línea de una solicitud de stock.
type StockRequestItemDTO struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// CreateStockRequestRequest body de POST /stock-requests. La sucursal sale del token.
type CreateStockRequestRequest struct {
	Items []StockRequestItemDTO `json:"items" validate:"required,min=1,dive"`
	Notes string                `json:"notes" validate:"omitempty,max=1000"`
}

// StockRequestResponse salida de una solicitud.
type StockRequestResponse struct {
	ID          string                `json:"id"`
	RequestedBy string                `json:"requestedBy"`
	BranchID    string                `json:"branch"`
	Items       []StockRequestItemDTO `json:"items"`
	Status      string                `json:"status"`
	Notes       string                `json:"notes,omitempty"`
	ProcessedBy string                `json:"processedBy,omitempty"`
	ProcessedAt *time.Time            `json:"processedAt,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}
