package http

import (
	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		status := it.Status
		if status == "" {
			status = entity.ItemNormal
		}
		items = append(items, dto.OrderItemResponse{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			Price:           it.UnitPrice,
			BasePriceAtSale: it.BasePriceAtSale,
			Status:          status,
		})
	}
	out := dto.OrderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		BranchID:       o.BranchID,
		Items:          items,
		Total:          o.Total,
		Status:         o.Status,
		PaymentMethod:  o.PaymentMethod,
		DeliveryMethod: o.DeliveryMethod,
		CustomerName:   o.CustomerName,
		CustomerEmail:  o.CustomerEmail,
		CustomerPhone:  o.CustomerPhone,
		Notes:          o.Notes,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if a := o.DeliveryAddress; a != nil {
		out.DeliveryAddress = &dto.DeliveryAddressDTO{Address: a.Address, City: a.City, PostalCode: a.PostalCode}
	}
	return out
}

func toOrderList(list []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func toStockRequestResponse(r *entity.StockRequest) dto.StockRequestResponse {
	items := make([]dto.StockRequestItemDTO, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, dto.StockRequestItemDTO{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return dto.StockRequestResponse{
		ID:          r.ID,
		RequestedBy: r.RequestedBy,
		BranchID:    r.BranchID,
		Items:       items,
		Status:      r.Status,
		Notes:       r.Notes,
		ProcessedBy: r.ProcessedBy,
		ProcessedAt: r.ProcessedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:         m.ID,
		UserID:     m.UserID,
		ProductID:  m.ProductID,
		Source:     m.Source,
		ToBranchID: m.ToBranchID,
		Quantity:   m.Quantity,
		Notes:      m.Notes,
		CreatedAt:  m.CreatedAt,
	}
}

func toMostSold(list []repository.MostSoldResult) []dto.MostSoldResponse {
	out := make([]dto.MostSoldResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.MostSoldResponse(r))
	}
	return out
}
