package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre órdenes.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetMostSold desarma los ítems jsonb de las órdenes aprobadas y suma cantidades por producto.
// Los ítems devueltos también cuentan. Productos borrados aparecen sin nombre.
func (r *AnalyticsRepo) GetMostSold(ctx context.Context, since time.Time, branchID string, limit int) ([]repository.MostSoldResult, error) {
	const query = `
	SELECT
	    it.product                              AS product_id,
	    SUM(it.quantity)::INT                   AS total_sold,
	    COALESCE(p.name,  '')                   AS name,
	    COALESCE(p.sku,   '')                   AS sku,
	    COALESCE(p.brand, '')                   AS brand
	FROM orders o
	CROSS JOIN LATERAL jsonb_to_recordset(o.items) AS it(product TEXT, quantity INT)
	LEFT JOIN products p ON p.id = it.product
	WHERE o.status = $1
	  AND o.created_at >= $2
	  AND ($3::TEXT = '' OR o.branch_id = $3::TEXT)
	GROUP BY it.product, p.name, p.sku, p.brand
	ORDER BY total_sold DESC, it.product
	LIMIT $4`

	var rows []struct {
		ProductID string `db:"product_id"`
		TotalSold int    `db:"total_sold"`
		Name      string `db:"name"`
		SKU       string `db:"sku"`
		Brand     string `db:"brand"`
	}
	if err := pgxscan.Select(ctx, r.q, &rows, query, entity.OrderApproved, since, branchID, limit); err != nil {
		return nil, fmt.Errorf("analytics.GetMostSold: %w", err)
	}
	out := make([]repository.MostSoldResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.MostSoldResult(row))
	}
	return out, nil
}
