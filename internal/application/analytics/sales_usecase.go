// Package analytics contiene los reportes de ventas por sucursal: estadísticas por producto,
// detalle con métricas de ganancia, más vendidos y exportación a Excel.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

const (
	defaultMostSoldDays  = 30
	defaultMostSoldLimit = 50
)

var (
	statsStatuses = []string{entity.OrderApproved, entity.OrderPending, entity.OrderDevolucion, entity.OrderModificado}
	// el detalle lista todos los estados; las métricas solo cuentan approved y modificado
	detailStatuses = []string{entity.OrderApproved, entity.OrderPending, entity.OrderRejected, entity.OrderDevolucion, entity.OrderModificado}
)

// SalesExporter genera el archivo de exportación del detalle de ventas.
type SalesExporter interface {
	ExportSalesDetail(ctx context.Context, detail *SalesDetail) ([]byte, error)
}

// SalesUseCase reportes de ventas.
//
// Fuente de datos: OrderRepository y ProductRepository para estadísticas y detalle,
// AnalyticsRepository para la agregación de más vendidos.
type SalesUseCase struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	analyticsRepo repository.AnalyticsRepository
	exporter      SalesExporter
}

// NewSalesUseCase construye el caso de uso. exporter puede ser nil si no se expone la exportación.
func NewSalesUseCase(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	analyticsRepo repository.AnalyticsRepository,
	exporter SalesExporter,
) *SalesUseCase {
	return &SalesUseCase{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		analyticsRepo: analyticsRepo,
		exporter:      exporter,
	}
}

// ProductSales unidades vendidas y devueltas de un producto.
type ProductSales struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Sold      int    `json:"sold"`
	Returned  int    `json:"returned"`
}

// Metrics métricas del detalle de ventas.
type Metrics struct {
	TotalOrders   int             `json:"totalOrders"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalReturned int             `json:"totalReturned"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
	AverageOrder  decimal.Decimal `json:"averageOrder"`
}

// SalesDetail órdenes listadas, productos referenciados y métricas.
type SalesDetail struct {
	BranchID string
	Orders   []*entity.Order
	Products map[string]*entity.Product
	Metrics  Metrics
}

// DetailFilter filtros de fecha (YYYY-MM-DD, YYYY-MM, YYYY) y medio de pago.
// Month pisa el rango; Year solo aplica si no hay Month.
type DetailFilter struct {
	StartDate     string
	EndDate       string
	Month         string
	Year          string
	PaymentMethod string
}

func authorizeBranch(p *entity.Principal, branchID string) error {
	if branchID == "" {
		return domain.Invalid("branchId", "es requerido")
	}
	if !p.IsPrivileged() {
		return domain.ErrForbidden
	}
	if !p.CanManageBranch(branchID) {
		return domain.ErrForbidden
	}
	return nil
}

// loadOrdersAndProducts trae órdenes y catálogo en paralelo.
func (uc *SalesUseCase) loadOrdersAndProducts(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, map[string]*entity.Product, error) {
	type ordersResult struct {
		orders []*entity.Order
		err    error
	}
	type productsResult struct {
		products []*entity.Product
		err      error
	}

	ordersCh := make(chan ordersResult, 1)
	productsCh := make(chan productsResult, 1)

	go func() {
		orders, err := uc.orderRepo.List(ctx, f)
		ordersCh <- ordersResult{orders, err}
	}()
	go func() {
		products, err := uc.productRepo.List(ctx)
		productsCh <- productsResult{products, err}
	}()

	o := <-ordersCh
	p := <-productsCh
	if o.err != nil {
		return nil, nil, fmt.Errorf("ventas: órdenes: %w", o.err)
	}
	if p.err != nil {
		return nil, nil, fmt.Errorf("ventas: productos: %w", p.err)
	}
	byID := make(map[string]*entity.Product, len(p.products))
	for _, prod := range p.products {
		byID[prod.ID] = prod
	}
	return o.orders, byID, nil
}

// GetSalesStats agrupa por producto las unidades vendidas y devueltas, ordenado por vendidas.
func (uc *SalesUseCase) GetSalesStats(ctx context.Context, p *entity.Principal, branchID, paymentMethod string) ([]ProductSales, error) {
	if err := authorizeBranch(p, branchID); err != nil {
		return nil, err
	}
	orders, products, err := uc.loadOrdersAndProducts(ctx, repository.OrderFilter{
		BranchID:      branchID,
		Statuses:      statsStatuses,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]*ProductSales)
	for _, o := range orders {
		for _, it := range o.Items {
			row, ok := byProduct[it.ProductID]
			if !ok {
				row = &ProductSales{ProductID: it.ProductID, Name: "Producto desconocido"}
				if prod, ok := products[it.ProductID]; ok {
					row.Name, row.SKU = prod.Name, prod.SKU
				}
				byProduct[it.ProductID] = row
			}
			if it.Returned() {
				row.Returned += it.Quantity
			} else {
				row.Sold += it.Quantity
			}
		}
	}

	stats := make([]ProductSales, 0, len(byProduct))
	for _, row := range byProduct {
		stats = append(stats, *row)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Sold != stats[j].Sold {
			return stats[i].Sold > stats[j].Sold
		}
		return stats[i].ProductID < stats[j].ProductID
	})
	return stats, nil
}

// GetSalesDetail lista las órdenes de la sucursal en el rango y calcula las métricas.
func (uc *SalesUseCase) GetSalesDetail(ctx context.Context, p *entity.Principal, branchID string, f DetailFilter) (*SalesDetail, error) {
	if err := authorizeBranch(p, branchID); err != nil {
		return nil, err
	}
	from, to, err := dateRange(f, time.Local)
	if err != nil {
		return nil, err
	}
	orders, products, err := uc.loadOrdersAndProducts(ctx, repository.OrderFilter{
		BranchID:      branchID,
		Statuses:      detailStatuses,
		PaymentMethod: f.PaymentMethod,
		From:          from,
		To:            to,
	})
	if err != nil {
		return nil, err
	}
	return &SalesDetail{
		BranchID: branchID,
		Orders:   orders,
		Products: products,
		Metrics:  ComputeMetrics(orders, products),
	}, nil
}

// ExportSalesDetail genera el Excel del detalle de ventas.
func (uc *SalesUseCase) ExportSalesDetail(ctx context.Context, p *entity.Principal, branchID string, f DetailFilter) ([]byte, string, error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("exportación de ventas no configurada")
	}
	detail, err := uc.GetSalesDetail(ctx, p, branchID, f)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.exporter.ExportSalesDetail(ctx, detail)
	if err != nil {
		return nil, "", fmt.Errorf("exportar ventas: %w", err)
	}
	return data, fmt.Sprintf("ventas-%s-%s.xlsx", branchID, time.Now().Format("20060102")), nil
}

// GetMostSold productos más vendidos en órdenes aprobadas de los últimos days días.
// Un admin de sucursal solo puede consultar su propia sucursal.
func (uc *SalesUseCase) GetMostSold(ctx context.Context, p *entity.Principal, days int, branchID string, limit int) ([]repository.MostSoldResult, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if branchID != "" && p.IsBranchAdmin() && branchID != p.BranchID {
		return nil, domain.ErrForbidden
	}
	if days <= 0 {
		days = defaultMostSoldDays
	}
	if limit <= 0 {
		limit = defaultMostSoldLimit
	}
	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	out, err := uc.analyticsRepo.GetMostSold(ctx, since, branchID, limit)
	if err != nil {
		return nil, fmt.Errorf("más vendidos: %w", err)
	}
	return out, nil
}

// ComputeMetrics calcula las métricas del detalle. Solo approved y modificado cuentan como venta;
// los ítems devueltos se excluyen de cantidad, monto y ganancia y se suman en TotalReturned
// (sobre todas las órdenes listadas).
func ComputeMetrics(orders []*entity.Order, products map[string]*entity.Product) Metrics {
	m := Metrics{TotalAmount: decimal.Zero, TotalProfit: decimal.Zero, AverageOrder: decimal.Zero}
	for _, o := range orders {
		for _, it := range o.Items {
			if it.Returned() {
				m.TotalReturned += it.Quantity
			}
		}
		if o.Status != entity.OrderApproved && o.Status != entity.OrderModificado {
			continue
		}
		m.TotalOrders++
		for _, it := range o.Items {
			if it.Returned() {
				continue
			}
			m.TotalQuantity += it.Quantity
			m.TotalAmount = m.TotalAmount.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		m.TotalProfit = m.TotalProfit.Add(orderProfit(o, products))
	}
	if m.TotalOrders > 0 {
		m.AverageOrder = m.TotalAmount.Div(decimal.NewFromInt(int64(m.TotalOrders))).Round(2)
	}
	return m
}

var hundred = decimal.NewFromInt(100)

// orderProfit: una venta manual (con nombre de cliente) usa total − costo; una venta web suma
// (precio − costo) por ítem, descartando costos absurdos (más de 100 veces el precio).
func orderProfit(o *entity.Order, products map[string]*entity.Product) decimal.Decimal {
	productPrice := func(id string) decimal.Decimal {
		if prod, ok := products[id]; ok {
			return prod.Price
		}
		return decimal.Zero
	}
	baseOf := func(it entity.OrderItem) decimal.Decimal {
		if it.BasePriceAtSale != nil {
			return *it.BasePriceAtSale
		}
		return productPrice(it.ProductID)
	}

	if o.CustomerName != "" {
		cost := decimal.Zero
		for _, it := range o.Items {
			if it.Returned() {
				continue
			}
			cost = cost.Add(baseOf(it).Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
		return o.Total.Sub(cost)
	}

	profit := decimal.Zero
	for _, it := range o.Items {
		if it.Returned() {
			continue
		}
		base := baseOf(it)
		if base.GreaterThan(it.UnitPrice.Mul(hundred)) {
			base = productPrice(it.ProductID)
		}
		profit = profit.Add(it.UnitPrice.Sub(base).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return profit
}

// dateRange traduce el filtro a [from, to]. El fin de un día, mes o año es inclusivo hasta 23:59:59.999.
func dateRange(f DetailFilter, loc *time.Location) (*time.Time, *time.Time, error) {
	endOfDay := func(t time.Time) time.Time { return t.Add(24*time.Hour - time.Millisecond) }

	if f.Month != "" {
		start, err := time.ParseInLocation("2006-01", f.Month, loc)
		if err != nil {
			return nil, nil, domain.Invalid("month", "formato esperado YYYY-MM")
		}
		end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
		return &start, &end, nil
	}
	if f.Year != "" {
		start, err := time.ParseInLocation("2006", f.Year, loc)
		if err != nil {
			return nil, nil, domain.Invalid("year", "formato esperado YYYY")
		}
		end := start.AddDate(1, 0, 0).Add(-time.Millisecond)
		return &start, &end, nil
	}

	var from, to *time.Time
	if f.StartDate != "" {
		start, err := time.ParseInLocation("2006-01-02", f.StartDate, loc)
		if err != nil {
			return nil, nil, domain.Invalid("startDate", "formato esperado YYYY-MM-DD")
		}
		from = &start
	}
	if f.EndDate != "" {
		day, err := time.ParseInLocation("2006-01-02", f.EndDate, loc)
		if err != nil {
			return nil, nil, domain.Invalid("endDate", "formato esperado YYYY-MM-DD")
		}
		end := endOfDay(day)
		to = &end
	}
	return from, to, nil
}
