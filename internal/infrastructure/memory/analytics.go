package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

// AnalyticsRepo resuelve en memoria las mismas consultas que el adaptador SQL.
type AnalyticsRepo struct {
	orders   *OrderRepo
	products *ProductRepo
}

// NewAnalyticsRepository construye el repositorio sobre el store.
func NewAnalyticsRepository(s *Store) *AnalyticsRepo {
	return &AnalyticsRepo{orders: NewOrderRepository(s), products: NewProductRepository(s)}
}

// GetMostSold suma cantidades de órdenes aprobadas desde since (incluye ítems devueltos, igual que la consulta SQL).
func (r *AnalyticsRepo) GetMostSold(ctx context.Context, since time.Time, branchID string, limit int) ([]repository.MostSoldResult, error) {
	orders, err := r.orders.List(ctx, repository.OrderFilter{
		BranchID: branchID,
		Statuses: []string{entity.OrderApproved},
		From:     &since,
	})
	if err != nil {
		return nil, err
	}
	totals := make(map[string]int)
	for _, o := range orders {
		for _, it := range o.Items {
			totals[it.ProductID] += it.Quantity
		}
	}
	out := make([]repository.MostSoldResult, 0, len(totals))
	for id, n := range totals {
		row := repository.MostSoldResult{ProductID: id, TotalSold: n}
		if p, _ := r.products.GetByID(ctx, id); p != nil {
			row.Name, row.SKU, row.Brand = p.Name, p.SKU, p.Brand
		}
		out = append(out, row)
	}
	out = sortedBy(out, func(a, b repository.MostSoldResult) bool {
		if a.TotalSold != b.TotalSold {
			return a.TotalSold > b.TotalSold
		}
		return a.ProductID < b.ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
