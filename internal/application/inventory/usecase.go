package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/inventory"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

const (
	defaultManualNotes = "Carga manual de stock"
	movementListLimit  = 200
)

// StockUseCase operaciones de stock fuera del ciclo de órdenes: transferencia central → sucursal,
// carga manual, ajuste de stock central, historial de movimientos y reporte por sucursal.
type StockUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	movementRepo repository.StockMovementRepository
	audit        *AuditLog
	log          zerolog.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	movementRepo repository.StockMovementRepository,
	log zerolog.Logger,
) *StockUseCase {
	return &StockUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		movementRepo: movementRepo,
		audit:        NewAuditLog(movementRepo, log),
		log:          log,
	}
}

// TransferInput entrada de TransferStock.
type TransferInput struct {
	BranchID  string
	ProductID string
	Quantity  int
	Notes     string
}

// TransferResult sucursal y producto ya persistidos; Movement es nil si el registro de auditoría falló.
type TransferResult struct {
	Branch   *entity.Branch
	Product  *entity.Product
	Movement *entity.StockMovement
}

// TransferStock descuenta del stock central y suma al disponible de la sucursal en una sola transacción.
func (uc *StockUseCase) TransferStock(ctx context.Context, p *entity.Principal, in TransferInput) (*TransferResult, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if in.BranchID == "" || in.ProductID == "" {
		return nil, domain.Invalid("", "branchId y productId son requeridos")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("quantity", "debe ser mayor a 0")
	}
	if !p.CanManageBranch(in.BranchID) {
		return nil, domain.ErrForbidden
	}

	var out TransferResult
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		branch, err := r.Branches.GetByID(ctx, in.BranchID)
		if err != nil {
			return err
		}
		if product == nil || branch == nil {
			return fmt.Errorf("sucursal o producto: %w", domain.ErrNotFound)
		}
		central, err := inventory.TransferOut(product.CentralQuantity, in.Quantity)
		if err != nil {
			return WithProduct(err, product)
		}
		if err := inventory.TransferIn(branch.EnsureStock(product.ID), in.Quantity); err != nil {
			return err
		}
		now := time.Now()
		product.CentralQuantity = central
		product.UpdatedAt = now
		branch.UpdatedAt = now
		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
		if err := r.Branches.Update(ctx, branch); err != nil {
			return err
		}
		out.Branch, out.Product = branch, product
		return nil
	})
	if err != nil {
		return nil, err
	}

	saved := uc.audit.Record(ctx, &entity.StockMovement{
		UserID:     p.UserID,
		ProductID:  in.ProductID,
		Source:     entity.MovementFromCentral,
		ToBranchID: in.BranchID,
		Quantity:   in.Quantity,
		Notes:      in.Notes,
	})
	if len(saved) == 1 {
		out.Movement = saved[0]
	}
	return &out, nil
}

// LoadItem una línea de la carga manual.
type LoadItem struct {
	ProductID string
	Quantity  int
}

// LoadError error de una línea que no se aplicó.
type LoadError struct {
	ProductID string `json:"productId"`
	Message   string `json:"message"`
}

// LoadResult resultado de la carga manual. Es éxito parcial si Errors no está vacío.
type LoadResult struct {
	Branch       *entity.Branch
	Movements    []*entity.StockMovement
	Errors       []LoadError
	SuccessCount int
}

// Partial indica si alguna línea no se pudo aplicar.
func (r *LoadResult) Partial() bool { return len(r.Errors) > 0 }

// LoadBranchStock suma stock a la sucursal línea por línea. Las líneas inválidas o con producto
// inexistente se informan en Errors; las válidas se aplican todas juntas en una transacción.
func (uc *StockUseCase) LoadBranchStock(ctx context.Context, p *entity.Principal, branchID string, items []LoadItem, notes string) (*LoadResult, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if len(items) == 0 {
		return nil, domain.Invalid("products", "debe proporcionar al menos un producto")
	}
	if !p.CanManageBranch(branchID) {
		return nil, domain.ErrForbidden
	}
	if notes == "" {
		notes = defaultManualNotes
	}

	var res LoadResult
	var applied []LoadItem
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		res, applied = LoadResult{}, nil
		branch, err := r.Branches.GetByID(ctx, branchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return domain.Invalid("branchId", "sucursal no encontrada")
		}
		for _, it := range items {
			if it.ProductID == "" || it.Quantity <= 0 {
				res.Errors = append(res.Errors, LoadError{ProductID: it.ProductID, Message: "cantidad inválida"})
				continue
			}
			product, err := r.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				res.Errors = append(res.Errors, LoadError{ProductID: it.ProductID, Message: "no encontrado"})
				continue
			}
			if err := inventory.TransferIn(branch.EnsureStock(it.ProductID), it.Quantity); err != nil {
				return err
			}
			applied = append(applied, it)
		}
		if len(applied) == 0 {
			res.Branch = branch
			return nil
		}
		branch.UpdatedAt = time.Now()
		if err := r.Branches.Update(ctx, branch); err != nil {
			return err
		}
		res.Branch = branch
		return nil
	})
	if err != nil {
		return nil, err
	}

	movs := make([]*entity.StockMovement, 0, len(applied))
	for _, it := range applied {
		movs = append(movs, &entity.StockMovement{
			UserID:     p.UserID,
			ProductID:  it.ProductID,
			Source:     entity.MovementFromManual,
			ToBranchID: branchID,
			Quantity:   it.Quantity,
			Notes:      notes,
		})
	}
	res.Movements = uc.audit.Record(ctx, movs...)
	res.SuccessCount = len(applied)
	if res.Partial() {
		uc.log.Info().Str("branch_id", branchID).Int("ok", res.SuccessCount).Int("errors", len(res.Errors)).
			Msg("carga manual aplicada parcialmente")
	}
	return &res, nil
}

// UpdateCentralStock suma delta (puede ser negativo) al stock central. Solo admin central.
// Un resultado negativo se acota en cero y se registra como advertencia.
func (uc *StockUseCase) UpdateCentralStock(ctx context.Context, p *entity.Principal, productID string, delta int) (*entity.Product, error) {
	if !p.IsCentralAdmin() {
		return nil, domain.ErrForbidden
	}
	if delta == 0 {
		return nil, domain.Invalid("quantity", "debe ser distinta de 0")
	}
	var out *entity.Product
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		product, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		next, clamp := inventory.AdjustCentral(product.CentralQuantity, delta)
		if clamp.Clamped() {
			uc.log.Warn().Str("product_id", productID).Int("wanted", clamp.Wanted).Int("had", clamp.Had).
				Msg("stock central acotado en cero")
		}
		product.CentralQuantity = next
		product.UpdatedAt = time.Now()
		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
		out = product
		return nil
	})
	return out, err
}

// ListMovements devuelve los últimos movimientos. Un admin de sucursal solo ve los de su sucursal.
func (uc *StockUseCase) ListMovements(ctx context.Context, p *entity.Principal, branchID string) ([]*entity.StockMovement, error) {
	if !p.IsPrivileged() {
		return nil, domain.ErrForbidden
	}
	if p.IsBranchAdmin() {
		if branchID != "" && branchID != p.BranchID {
			return nil, domain.ErrForbidden
		}
		branchID = p.BranchID
	}
	return uc.movementRepo.List(ctx, branchID, movementListLimit)
}

// BranchStockReport disponibilidad de una sucursal.
type BranchStockReport struct {
	BranchID      string               `json:"branchId"`
	Name          string               `json:"name"`
	City          string               `json:"city"`
	TotalProducts int                  `json:"totalProducts"`
	Products      []ProductStockReport `json:"products"`
}

// ProductStockReport línea del reporte.
type ProductStockReport struct {
	ProductID         string `json:"productId"`
	Name              string `json:"name,omitempty"`
	SKU               string `json:"sku,omitempty"`
	AvailableQuantity int    `json:"availableQuantity"`
	ReservedQuantity  int    `json:"reservedQuantity"`
}

// StockReport arma el reporte de stock por sucursal con nombres de producto.
func (uc *StockUseCase) StockReport(ctx context.Context, p *entity.Principal) ([]BranchStockReport, error) {
	if !p.IsPrivileged() {
		return nil, domain.ErrForbidden
	}
	branches, err := uc.branchRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, pr := range products {
		byID[pr.ID] = pr
	}

	report := make([]BranchStockReport, 0, len(branches))
	for _, b := range branches {
		if p.IsBranchAdmin() && b.ID != p.BranchID {
			continue
		}
		row := BranchStockReport{BranchID: b.ID, Name: b.Name, City: b.City, TotalProducts: len(b.Stock)}
		for _, e := range b.Stock {
			line := ProductStockReport{ProductID: e.ProductID, AvailableQuantity: e.Available, ReservedQuantity: e.Reserved}
			if pr, ok := byID[e.ProductID]; ok {
				line.Name, line.SKU = pr.Name, pr.SKU
			}
			row.Products = append(row.Products, line)
		}
		sort.Slice(row.Products, func(i, j int) bool { return row.Products[i].Name < row.Products[j].Name })
		report = append(report, row)
	}
	return report, nil
}

// WithProduct completa el nombre del producto en el detalle de stock insuficiente.
func WithProduct(err error, product *entity.Product) error {
	var detail *domain.InsufficientStockError
	if errors.As(err, &detail) {
		detail.ProductID = product.ID
		detail.ProductName = product.Name
	}
	return err
}
