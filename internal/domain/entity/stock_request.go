package entity

import "time"

// Estados de una solicitud de stock.
const (
	RequestPending         = "pending"
	RequestApproved        = "approved"
	RequestRejected        = "rejected"
	RequestDeliveredUnpaid = "delivered_unpaid"
	RequestFulfilled       = "fulfilled"
)

// StockRequestItem línea solicitada (cantidad >= 1).
type StockRequestItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// StockRequest pedido de reposición de una sucursal al depósito central.
type StockRequest struct {
	ID          string
	RequestedBy string
	BranchID    string
	Items       []StockRequestItem
	Status      string
	Notes       string
	ProcessedBy string
	ProcessedAt *time.Time
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone devuelve una copia profunda.
func (r *StockRequest) Clone() *StockRequest {
	if r == nil {
		return nil
	}
	c := *r
	c.Items = append([]StockRequestItem(nil), r.Items...)
	if r.ProcessedAt != nil {
		t := *r.ProcessedAt
		c.ProcessedAt = &t
	}
	return &c
}
