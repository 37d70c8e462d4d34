package stockrequest

import (
	"context"

	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// RemitoLine línea del remito con el nombre del producto ya resuelto.
type RemitoLine struct {
	ProductID string
	SKU       string
	Name      string
	Quantity  int
}

// RemitoPDFGenerator genera el remito (nota de entrega) de una solicitud.
type RemitoPDFGenerator interface {
	GenerateRemitoPDF(ctx context.Context, req *entity.StockRequest, branch *entity.Branch, lines []RemitoLine) ([]byte, error)
}
