// Package stockrequest implementa las solicitudes de reposición que una sucursal hace al depósito central.
//
// Estados:
//
//	pending ──► approved ──► fulfilled
//	   │            │
//	   │            └──► delivered_unpaid ──► fulfilled
//	   ├──► delivered_unpaid
//	   └──► rejected
//
// Solo el admin central mueve la solicitud; el alta la hace el admin de la sucursal.
package stockrequest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appinv "github.com/jhoicas/Sucursales-api/internal/application/inventory"
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/inventory"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

const (
	notesFulfilled       = "Solicitud completada y stock transferido"
	notesDeliveredUnpaid = "Stock entregado, falta pago"
	notesPaid            = "Pago recibido, solicitud completada"
)

// UseCase ciclo de vida de las solicitudes de stock.
type UseCase struct {
	txRunner    appinv.TxRunner
	requestRepo repository.StockRequestRepository
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
	audit       *appinv.AuditLog
	pdf         RemitoPDFGenerator
	log         zerolog.Logger
}

// NewUseCase construye el caso de uso. pdf puede ser nil si no se exponen remitos.
func NewUseCase(
	txRunner appinv.TxRunner,
	requestRepo repository.StockRequestRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	movementRepo repository.StockMovementRepository,
	pdf RemitoPDFGenerator,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		requestRepo: requestRepo,
		productRepo: productRepo,
		branchRepo:  branchRepo,
		audit:       appinv.NewAuditLog(movementRepo, log),
		pdf:         pdf,
		log:         log,
	}
}

// CreateInput alta de una solicitud. La sucursal es siempre la del admin que la crea.
type CreateInput struct {
	Items []entity.StockRequestItem
	Notes string
}

// Create registra una solicitud pendiente. Verifica que cada producto exista y que el central
// alcance en este momento; no reserva stock central.
func (uc *UseCase) Create(ctx context.Context, p *entity.Principal, in CreateInput) (*entity.StockRequest, error) {
	if !p.IsBranchAdmin() {
		return nil, domain.ErrForbidden
	}
	if p.BranchID == "" {
		return nil, domain.Invalid("branchId", "el usuario no tiene sucursal asignada")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "debe solicitar al menos un producto")
	}
	for i, it := range in.Items {
		if it.ProductID == "" || it.Quantity < 1 {
			return nil, domain.Invalid(fmt.Sprintf("items[%d]", i), "productId y quantity >= 1 son requeridos")
		}
	}
	for _, it := range in.Items {
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.Invalid("items", fmt.Sprintf("producto %s no encontrado", it.ProductID))
		}
		if product.CentralQuantity < it.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: product.ID, ProductName: product.Name,
				Available: product.CentralQuantity, Requested: it.Quantity, Central: true,
			}
		}
	}

	now := time.Now()
	req := &entity.StockRequest{
		ID:          uuid.New().String(),
		RequestedBy: p.UserID,
		BranchID:    p.BranchID,
		Items:       append([]entity.StockRequestItem(nil), in.Items...),
		Status:      entity.RequestPending,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.requestRepo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("solicitud de stock: %w", err)
	}
	return req, nil
}

// List devuelve todas las solicitudes al admin central y las de su sucursal al admin de sucursal.
func (uc *UseCase) List(ctx context.Context, p *entity.Principal) ([]*entity.StockRequest, error) {
	switch {
	case p.IsCentralAdmin():
		return uc.requestRepo.List(ctx, "")
	case p.IsBranchAdmin():
		return uc.requestRepo.List(ctx, p.BranchID)
	}
	return nil, domain.ErrForbidden
}

// Get devuelve una solicitud respetando la misma regla de visibilidad que List.
func (uc *UseCase) Get(ctx context.Context, p *entity.Principal, id string) (*entity.StockRequest, error) {
	if !p.IsPrivileged() {
		return nil, domain.ErrForbidden
	}
	req, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if p.IsBranchAdmin() && req.BranchID != p.BranchID {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

// Approve pasa una solicitud pendiente a aprobada. No mueve stock.
func (uc *UseCase) Approve(ctx context.Context, p *entity.Principal, id, notes string) (*entity.StockRequest, error) {
	return uc.transition(ctx, p, id, entity.RequestApproved, notes, false, entity.RequestPending)
}

// Reject pasa una solicitud pendiente a rechazada. No mueve stock.
func (uc *UseCase) Reject(ctx context.Context, p *entity.Principal, id, notes string) (*entity.StockRequest, error) {
	return uc.transition(ctx, p, id, entity.RequestRejected, notes, false, entity.RequestPending)
}

// Fulfill transfiere del central a la sucursal todas las líneas de una solicitud aprobada.
func (uc *UseCase) Fulfill(ctx context.Context, p *entity.Principal, id string) (*entity.StockRequest, error) {
	return uc.transition(ctx, p, id, entity.RequestFulfilled, notesFulfilled, true, entity.RequestApproved)
}

// MarkDeliveredUnpaid hace la misma transferencia que Fulfill pero deja la solicitud a la espera del pago.
func (uc *UseCase) MarkDeliveredUnpaid(ctx context.Context, p *entity.Principal, id string) (*entity.StockRequest, error) {
	return uc.transition(ctx, p, id, entity.RequestDeliveredUnpaid, notesDeliveredUnpaid, true,
		entity.RequestPending, entity.RequestApproved)
}

// MarkFulfilled registra el pago de una solicitud ya entregada. No mueve stock.
func (uc *UseCase) MarkFulfilled(ctx context.Context, p *entity.Principal, id string) (*entity.StockRequest, error) {
	return uc.transition(ctx, p, id, entity.RequestFulfilled, notesPaid, false, entity.RequestDeliveredUnpaid)
}

// transition valida el estado de origen y, si transfer es true, mueve el stock de todas las líneas.
// Todas las líneas se verifican antes de modificar nada.
func (uc *UseCase) transition(
	ctx context.Context,
	p *entity.Principal,
	id, target, notes string,
	transfer bool,
	from ...string,
) (*entity.StockRequest, error) {
	if !p.IsCentralAdmin() {
		return nil, domain.ErrForbidden
	}

	var out *entity.StockRequest
	err := uc.txRunner.Run(ctx, func(r appinv.Repos) error {
		req, err := r.Requests.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !slices.Contains(from, req.Status) {
			return &domain.StateConflictError{Entity: "solicitud", Current: req.Status, Want: strings.Join(from, " o ")}
		}
		if transfer {
			if err := uc.transferLines(ctx, r, req); err != nil {
				return err
			}
		}
		now := time.Now()
		req.Status = target
		req.ProcessedBy = p.UserID
		req.ProcessedAt = &now
		req.UpdatedAt = now
		if notes != "" {
			req.Notes = notes
		}
		if err := r.Requests.Update(ctx, req); err != nil {
			return err
		}
		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	if transfer {
		movs := make([]*entity.StockMovement, 0, len(out.Items))
		for _, it := range out.Items {
			movs = append(movs, &entity.StockMovement{
				UserID:     p.UserID,
				ProductID:  it.ProductID,
				Source:     entity.MovementFromCentral,
				ToBranchID: out.BranchID,
				Quantity:   it.Quantity,
				Notes:      fmt.Sprintf("Solicitud %s", out.ID),
			})
		}
		uc.audit.Record(ctx, movs...)
		uc.log.Info().Str("request_id", out.ID).Str("branch_id", out.BranchID).Str("status", out.Status).
			Msg("solicitud de stock transferida")
	}
	return out, nil
}

func (uc *UseCase) transferLines(ctx context.Context, r appinv.Repos, req *entity.StockRequest) error {
	branch, err := r.Branches.GetByID(ctx, req.BranchID)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.Invalid("branchId", "sucursal destino no encontrada")
	}

	// primero se verifican todas las líneas sobre los productos cargados
	products := make(map[string]*entity.Product, len(req.Items))
	need := make(map[string]int, len(req.Items))
	for _, it := range req.Items {
		product, ok := products[it.ProductID]
		if !ok {
			product, err = r.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.Invalid("items", fmt.Sprintf("producto %s no encontrado", it.ProductID))
			}
			products[it.ProductID] = product
		}
		need[it.ProductID] += it.Quantity
		if product.CentralQuantity < need[it.ProductID] {
			return &domain.InsufficientStockError{
				ProductID: product.ID, ProductName: product.Name,
				Available: product.CentralQuantity, Requested: need[it.ProductID], Central: true,
			}
		}
	}

	now := time.Now()
	for _, it := range req.Items {
		product := products[it.ProductID]
		central, err := inventory.TransferOut(product.CentralQuantity, it.Quantity)
		if err != nil {
			return appinv.WithProduct(err, product)
		}
		product.CentralQuantity = central
		if err := inventory.TransferIn(branch.EnsureStock(it.ProductID), it.Quantity); err != nil {
			return err
		}
	}
	for _, product := range products {
		product.UpdatedAt = now
		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
	}
	branch.UpdatedAt = now
	return r.Branches.Update(ctx, branch)
}

// Remito genera el PDF de entrega de una solicitud.
func (uc *UseCase) Remito(ctx context.Context, p *entity.Principal, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("remito: generador no configurado")
	}
	req, err := uc.Get(ctx, p, id)
	if err != nil {
		return nil, "", err
	}
	branch, err := uc.branchRepo.GetByID(ctx, req.BranchID)
	if err != nil {
		return nil, "", err
	}
	if branch == nil {
		return nil, "", fmt.Errorf("sucursal %s: %w", req.BranchID, domain.ErrNotFound)
	}
	lines := make([]RemitoLine, 0, len(req.Items))
	for _, it := range req.Items {
		line := RemitoLine{ProductID: it.ProductID, Quantity: it.Quantity, Name: it.ProductID}
		product, err := uc.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, "", err
		}
		if product != nil {
			line.Name, line.SKU = product.Name, product.SKU
		}
		lines = append(lines, line)
	}
	doc, err := uc.pdf.GenerateRemitoPDF(ctx, req, branch, lines)
	if err != nil {
		return nil, "", fmt.Errorf("remito: %w", err)
	}
	return doc, fmt.Sprintf("remito-%s.pdf", req.ID), nil
}
