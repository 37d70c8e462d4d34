// Package order implementa el ciclo de vida de las órdenes de venta: alta con reserva o descuento
// directo de stock, edición por diferencias, aprobación y rechazo. Toda mutación del ledger de la
// sucursal y de la orden se confirma en una única transacción.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	appinv "github.com/jhoicas/Sucursales-api/internal/application/inventory"
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/inventory"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

var tracer = otel.Tracer("sucursales/order")

// UseCase orquesta las operaciones sobre órdenes.
type UseCase struct {
	txRunner    appinv.TxRunner
	orderRepo   repository.OrderRepository
	branchRepo  repository.BranchRepository
	productRepo repository.ProductRepository
	log         zerolog.Logger
}

// NewUseCase construye el caso de uso. txRunner debería venir envuelto en un RetryingTxRunner.
func NewUseCase(
	txRunner appinv.TxRunner,
	orderRepo repository.OrderRepository,
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		branchRepo:  branchRepo,
		productRepo: productRepo,
		log:         log,
	}
}

// ItemInput línea pedida al crear una orden.
type ItemInput struct {
	ProductID       string
	Quantity        int
	Price           decimal.Decimal
	BasePriceAtSale *decimal.Decimal
}

// CreateInput datos de alta de una orden.
type CreateInput struct {
	BranchID        string
	Items           []ItemInput
	PaymentMethod   string
	DeliveryMethod  string
	DeliveryAddress *entity.DeliveryAddress
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Notes           string
	CustomTotal     *decimal.Decimal
}

// CreateResult orden persistida y datos de contacto de la sucursal.
// WhatsAppLink queda vacío si la sucursal no tiene un teléfono usable.
type CreateResult struct {
	Order        *entity.Order
	Branch       *entity.Branch
	WhatsAppLink string
}

func validateCreate(in CreateInput) error {
	if in.BranchID == "" {
		return domain.Invalid("branchId", "es requerido")
	}
	if len(in.Items) == 0 {
		return domain.Invalid("items", "son requeridos")
	}
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == "" {
			return domain.Invalid(field, "productId es requerido")
		}
		if it.Quantity <= 0 {
			return domain.Invalid(field, "quantity debe ser un número positivo")
		}
		if !it.Price.IsPositive() {
			return domain.Invalid(field, "price debe ser un número positivo")
		}
	}
	if !entity.IsValidPaymentMethod(in.PaymentMethod) {
		return domain.Invalid("paymentMethod", "método de pago inválido")
	}
	if !entity.IsValidDeliveryMethod(in.DeliveryMethod) {
		return domain.Invalid("deliveryMethod", "método de entrega inválido")
	}
	if in.DeliveryMethod == entity.DeliveryHome {
		a := in.DeliveryAddress
		if a == nil || a.Address == "" || a.City == "" || a.PostalCode == "" {
			return domain.Invalid("deliveryAddress", "dirección de entrega requerida para envío a domicilio")
		}
		if in.PaymentMethod == entity.PaymentCash {
			return domain.Invalid("paymentMethod", "el pago en efectivo no está disponible para entregas a domicilio")
		}
	}
	return nil
}

// CreateOrder valida la orden, descuenta el stock de la sucursal según el modo del principal
// (reserva para clientes, descuento directo para administradores) y persiste todo junto.
// p nil es una compra anónima.
func (uc *UseCase) CreateOrder(ctx context.Context, p *entity.Principal, in CreateInput) (*CreateResult, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	mode := inventory.ModeFor(p)

	ctx, span := tracer.Start(ctx, "order.create", trace.WithAttributes(
		attribute.String("branch_id", in.BranchID),
		attribute.String("mode", mode.String()),
		attribute.Int("items", len(in.Items)),
	))
	defer span.End()

	var (
		out   CreateResult
		names map[string]string
	)
	err := uc.txRunner.Run(ctx, func(r appinv.Repos) error {
		names = make(map[string]string, len(in.Items))
		branch, err := r.Branches.GetByID(ctx, in.BranchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return domain.Invalid("branchId", "sucursal no encontrada")
		}

		items := make([]entity.OrderItem, 0, len(in.Items))
		for _, it := range in.Items {
			product, err := r.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.Invalid("items", fmt.Sprintf("producto %s no encontrado", it.ProductID))
			}
			names[product.ID] = product.Name

			entry, ok := branch.FindStock(it.ProductID)
			if !ok {
				return &domain.InsufficientStockError{ProductID: product.ID, ProductName: product.Name, Requested: it.Quantity}
			}
			if err := inventory.Apply(mode, entry, it.Quantity); err != nil {
				return appinv.WithProduct(err, product)
			}

			base := it.BasePriceAtSale
			if base == nil {
				price := product.Price
				base = &price
			}
			items = append(items, entity.OrderItem{
				ProductID:       it.ProductID,
				Quantity:        it.Quantity,
				UnitPrice:       it.Price,
				BasePriceAtSale: base,
				Status:          entity.ItemNormal,
			})
		}

		now := time.Now()
		o := &entity.Order{
			ID:             uuid.New().String(),
			BranchID:       branch.ID,
			Items:          items,
			Status:         entity.OrderPending,
			PaymentMethod:  in.PaymentMethod,
			DeliveryMethod: in.DeliveryMethod,
			CustomerName:   in.CustomerName,
			CustomerEmail:  in.CustomerEmail,
			CustomerPhone:  in.CustomerPhone,
			Notes:          in.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if p != nil {
			o.UserID = p.UserID
		}
		if mode == inventory.Direct {
			o.Status = entity.OrderApproved
		}
		if in.DeliveryMethod == entity.DeliveryHome {
			addr := *in.DeliveryAddress
			o.DeliveryAddress = &addr
		}
		if in.CustomTotal != nil {
			o.Total = *in.CustomTotal
		} else {
			o.RecalculateTotal()
		}

		branch.UpdatedAt = now
		if err := r.Branches.Update(ctx, branch); err != nil {
			return err
		}
		if err := r.Orders.Create(ctx, o); err != nil {
			return err
		}
		out.Order, out.Branch = o, branch
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	link, err := WhatsAppLink(out.Order, out.Branch, names)
	if err != nil {
		uc.log.Warn().Err(err).Str("order_id", out.Order.ID).Str("branch_id", out.Branch.ID).
			Msg("orden creada sin enlace de WhatsApp")
	}
	out.WhatsAppLink = link
	return &out, nil
}

// UpdateItemInput línea de la orden editada. Status vacío equivale a "normal".
type UpdateItemInput struct {
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	BasePriceAtSale *decimal.Decimal
	Status          string
}

// UpdateInput edición de una orden. Items nil significa que no se envió lista de ítems;
// Status vacío deja el estado como está.
type UpdateInput struct {
	Items  []UpdateItemInput
	Status string
}

func validateUpdate(in UpdateInput) error {
	if in.Status != "" && !entity.IsValidOrderStatus(in.Status) {
		return domain.Invalid("status", "estado de orden inválido")
	}
	seen := make(map[string]bool, len(in.Items))
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == "" {
			return domain.Invalid(field, "product es requerido")
		}
		if seen[it.ProductID] {
			return domain.Invalid(field, "producto repetido")
		}
		seen[it.ProductID] = true
		if it.Quantity < 0 {
			return domain.Invalid(field, "quantity no puede ser negativa")
		}
		if it.UnitPrice.IsNegative() {
			return domain.Invalid(field, "unitPrice no puede ser negativo")
		}
		if it.Status != "" && it.Status != entity.ItemNormal && it.Status != entity.ItemDevolucion {
			return domain.Invalid(field, "estado de ítem inválido")
		}
	}
	return nil
}

type lineState struct {
	qty      int
	returned bool
}

// UpdateOrder reconcilia el stock de la sucursal con la diferencia entre los ítems viejos y los nuevos.
// Los productos con ítems en devolución no tocan stock. Si un producto tocado no tiene entrada en el
// ledger la operación falla completa.
func (uc *UseCase) UpdateOrder(ctx context.Context, p *entity.Principal, orderID string, in UpdateInput) (*entity.Order, error) {
	if !p.IsPrivileged() {
		return nil, domain.ErrForbidden
	}
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "order.update", trace.WithAttributes(attribute.String("order_id", orderID)))
	defer span.End()

	var out *entity.Order
	err := uc.txRunner.Run(ctx, func(r appinv.Repos) error {
		o, err := r.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if !p.CanManageBranch(o.BranchID) {
			return domain.ErrForbidden
		}
		now := time.Now()

		// devolución total sin lista de ítems: solo marca, sin movimiento de stock
		if in.Items == nil && in.Status == entity.OrderDevolucion {
			for i := range o.Items {
				o.Items[i].Status = entity.ItemDevolucion
			}
			o.Status = entity.OrderDevolucion
			o.UpdatedAt = now
			if err := r.Orders.Update(ctx, o); err != nil {
				return err
			}
			out = o
			return nil
		}

		newItems := normalizeItems(in)
		if newItems != nil {
			branch, err := r.Branches.GetByID(ctx, o.BranchID)
			if err != nil {
				return err
			}
			if branch == nil {
				return fmt.Errorf("sucursal %s: %w", o.BranchID, domain.ErrNotFound)
			}
			touched, err := uc.reconcile(ctx, r, o, branch, newItems, in.Status)
			if err != nil {
				return err
			}
			if touched {
				branch.UpdatedAt = now
				if err := r.Branches.Update(ctx, branch); err != nil {
					return err
				}
			}
			o.Items = mergeItems(o.Items, newItems)
			o.RecalculateTotal()
		}

		if in.Status != "" {
			o.Status = in.Status
		}
		o.UpdatedAt = now
		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}

// normalizeItems completa el estado de cada ítem; con estado de orden devolución todos los ítems enviados
// quedan como devolución. Devuelve nil si no se envió lista.
func normalizeItems(in UpdateInput) []UpdateItemInput {
	if in.Items == nil {
		return nil
	}
	out := make([]UpdateItemInput, len(in.Items))
	for i, it := range in.Items {
		if it.Status == "" {
			it.Status = entity.ItemNormal
		}
		if in.Status == entity.OrderDevolucion {
			it.Status = entity.ItemDevolucion
		}
		out[i] = it
	}
	return out
}

// reconcile aplica al ledger de la sucursal la diferencia de cantidades por producto.
// Devuelve true si alguna entrada cambió.
func (uc *UseCase) reconcile(ctx context.Context, r appinv.Repos, o *entity.Order, branch *entity.Branch, newItems []UpdateItemInput, newStatus string) (bool, error) {
	oldLines := make(map[string]lineState, len(o.Items))
	order := make([]string, 0, len(o.Items)+len(newItems))
	for _, it := range o.Items {
		if _, ok := oldLines[it.ProductID]; !ok {
			order = append(order, it.ProductID)
		}
		l := oldLines[it.ProductID]
		l.qty += it.Quantity
		l.returned = l.returned || it.Returned()
		oldLines[it.ProductID] = l
	}
	newLines := make(map[string]lineState, len(newItems))
	for _, it := range newItems {
		if _, ok := oldLines[it.ProductID]; !ok {
			order = append(order, it.ProductID)
		}
		newLines[it.ProductID] = lineState{qty: it.Quantity, returned: it.Status == entity.ItemDevolucion}
	}

	pending := isReserving(o.Status) || isReserving(newStatus)
	approved := o.Status == entity.OrderApproved || newStatus == entity.OrderApproved

	touched := false
	for _, pid := range order {
		oldL, newL := oldLines[pid], newLines[pid]
		delta := newL.qty - oldL.qty
		if delta == 0 || oldL.returned || newL.returned {
			continue
		}
		if !pending && !approved {
			continue
		}
		entry, ok := branch.FindStock(pid)
		if !ok {
			return false, &domain.StockEntryNotFoundError{BranchID: branch.ID, ProductID: pid}
		}

		switch {
		case delta > 0 && pending:
			if err := inventory.Reserve(entry, delta); err != nil {
				return false, uc.withName(ctx, r, err, pid)
			}
		case delta > 0:
			if err := inventory.ConsumeDirect(entry, delta); err != nil {
				return false, uc.withName(ctx, r, err, pid)
			}
		case pending:
			clamp, err := inventory.Release(entry, -delta)
			if err != nil {
				return false, err
			}
			uc.logClamp(clamp, o, pid)
		default:
			if err := inventory.Restore(entry, -delta); err != nil {
				return false, err
			}
		}
		touched = true
	}
	return touched, nil
}

// mergeItems construye los ítems nuevos conservando basePriceAtSale del ítem viejo si no se envió uno.
func mergeItems(old []entity.OrderItem, newItems []UpdateItemInput) []entity.OrderItem {
	bases := make(map[string]*decimal.Decimal, len(old))
	for _, it := range old {
		if it.BasePriceAtSale != nil {
			bases[it.ProductID] = it.BasePriceAtSale
		}
	}
	out := make([]entity.OrderItem, 0, len(newItems))
	for _, it := range newItems {
		base := it.BasePriceAtSale
		if base == nil {
			base = bases[it.ProductID]
		}
		out = append(out, entity.OrderItem{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			BasePriceAtSale: base,
			Status:          it.Status,
		})
	}
	return out
}

func isReserving(status string) bool {
	return status == entity.OrderPending || status == entity.OrderModificado
}

// ApproveOrder confirma las reservas de una orden pendiente. Las entradas que ya no existen en el
// ledger se omiten.
func (uc *UseCase) ApproveOrder(ctx context.Context, p *entity.Principal, orderID string) (*entity.Order, error) {
	return uc.settle(ctx, p, orderID, entity.OrderApproved, func(o *entity.Order, e *entity.StockEntry, qty int) error {
		clamp, err := inventory.ConfirmReservation(e, qty)
		if err != nil {
			return err
		}
		uc.logClamp(clamp, o, e.ProductID)
		return nil
	})
}

// RejectOrder libera las reservas de una orden pendiente y devuelve el stock al disponible.
func (uc *UseCase) RejectOrder(ctx context.Context, p *entity.Principal, orderID string) (*entity.Order, error) {
	return uc.settle(ctx, p, orderID, entity.OrderRejected, func(o *entity.Order, e *entity.StockEntry, qty int) error {
		clamp, err := inventory.Release(e, qty)
		if err != nil {
			return err
		}
		uc.logClamp(clamp, o, e.ProductID)
		return nil
	})
}

func (uc *UseCase) settle(
	ctx context.Context,
	p *entity.Principal,
	orderID, target string,
	apply func(o *entity.Order, e *entity.StockEntry, qty int) error,
) (*entity.Order, error) {
	if !p.IsPrivileged() {
		return nil, domain.ErrForbidden
	}
	ctx, span := tracer.Start(ctx, "order.settle", trace.WithAttributes(
		attribute.String("order_id", orderID),
		attribute.String("target", target),
	))
	defer span.End()

	var out *entity.Order
	err := uc.txRunner.Run(ctx, func(r appinv.Repos) error {
		o, err := r.Orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if !p.CanManageBranch(o.BranchID) {
			return domain.ErrForbidden
		}
		if o.Status != entity.OrderPending {
			return &domain.StateConflictError{Entity: "orden", Current: o.Status, Want: entity.OrderPending}
		}
		branch, err := r.Branches.GetByID(ctx, o.BranchID)
		if err != nil {
			return err
		}
		if branch == nil {
			return fmt.Errorf("sucursal %s: %w", o.BranchID, domain.ErrNotFound)
		}
		for _, it := range o.Items {
			entry, ok := branch.FindStock(it.ProductID)
			if !ok || it.Quantity <= 0 {
				continue
			}
			if err := apply(o, entry, it.Quantity); err != nil {
				return err
			}
		}
		now := time.Now()
		branch.UpdatedAt = now
		if err := r.Branches.Update(ctx, branch); err != nil {
			return err
		}
		o.Status = target
		o.UpdatedAt = now
		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}

// GetOrder devuelve una orden. Un admin de sucursal solo ve las de su sucursal y un usuario solo las propias.
func (uc *UseCase) GetOrder(ctx context.Context, p *entity.Principal, orderID string) (*entity.Order, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	switch {
	case p.IsCentralAdmin():
	case p.IsBranchAdmin():
		if o.BranchID != p.BranchID {
			return nil, domain.ErrForbidden
		}
	default:
		if o.UserID != p.UserID {
			return nil, domain.ErrForbidden
		}
	}
	return o, nil
}

// ListFilter filtros del listado de órdenes.
type ListFilter struct {
	BranchID string
	Status   string
}

// ListOrders lista órdenes, más nuevas primero, acotadas a lo que el principal puede ver.
func (uc *UseCase) ListOrders(ctx context.Context, p *entity.Principal, f ListFilter) ([]*entity.Order, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if f.Status != "" && !entity.IsValidOrderStatus(f.Status) {
		return nil, domain.Invalid("status", "estado de orden inválido")
	}
	filter := repository.OrderFilter{BranchID: f.BranchID}
	if f.Status != "" {
		filter.Statuses = []string{f.Status}
	}
	switch {
	case p.IsCentralAdmin():
	case p.IsBranchAdmin():
		if f.BranchID != "" && f.BranchID != p.BranchID {
			return nil, domain.ErrForbidden
		}
		filter.BranchID = p.BranchID
	default:
		filter.UserID = p.UserID
	}
	return uc.orderRepo.List(ctx, filter)
}

func (uc *UseCase) withName(ctx context.Context, r appinv.Repos, err error, productID string) error {
	product, perr := r.Products.GetByID(ctx, productID)
	if perr != nil || product == nil {
		return err
	}
	return appinv.WithProduct(err, product)
}

func (uc *UseCase) logClamp(c inventory.Clamp, o *entity.Order, productID string) {
	if !c.Clamped() {
		return
	}
	uc.log.Warn().
		Str("order_id", o.ID).
		Str("branch_id", o.BranchID).
		Str("product_id", productID).
		Str("field", c.Field).
		Int("wanted", c.Wanted).
		Int("had", c.Had).
		Msg("descuento acotado en cero: el ledger tenía menos de lo esperado")
}
