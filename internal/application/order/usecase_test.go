package order_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Sucursales-api/internal/application/order"
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/memory"
)

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

var (
	cliente      = &entity.Principal{UserID: "u1", Role: entity.RoleUser}
	adminCentral = &entity.Principal{UserID: "a1", Role: entity.RoleCentralAdmin}
	adminB1      = &entity.Principal{UserID: "a2", Role: entity.RoleBranchAdmin, BranchID: "b1"}
	adminB2      = &entity.Principal{UserID: "a3", Role: entity.RoleBranchAdmin, BranchID: "b2"}
)

type fixture struct {
	store    *memory.Store
	uc       *order.UseCase
	branches *memory.BranchRepo
	orders   *memory.OrderRepo
}

func newFixture(t *testing.T, available, reserved int) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	products := memory.NewProductRepository(s)
	branches := memory.NewBranchRepository(s)
	orders := memory.NewOrderRepository(s)

	require.NoError(t, products.Create(ctx, &entity.Product{ID: "p1", SKU: "SKU-1", Name: "Yerba", Price: decimal.NewFromInt(80)}))
	require.NoError(t, products.Create(ctx, &entity.Product{ID: "p2", SKU: "SKU-2", Name: "Mate", Price: decimal.NewFromInt(40)}))
	require.NoError(t, branches.Create(ctx, &entity.Branch{
		ID:      "b1",
		Name:    "Centro",
		Number:  "+54 9 11 1234-5678",
		Address: "Av. Siempre Viva 742",
		City:    "Rosario",
		Stock:   []entity.StockEntry{{ProductID: "p1", Available: available, Reserved: reserved}},
	}))

	uc := order.NewUseCase(memory.NewTxRunner(s), orders, branches, products, zerolog.Nop())
	return &fixture{store: s, uc: uc, branches: branches, orders: orders}
}

func (f *fixture) entry(t *testing.T, productID string) entity.StockEntry {
	t.Helper()
	b, err := f.branches.GetByID(context.Background(), "b1")
	require.NoError(t, err)
	e, ok := b.FindStock(productID)
	require.True(t, ok)
	return *e
}

func (f *fixture) seedOrder(t *testing.T, status string, items ...entity.OrderItem) *entity.Order {
	t.Helper()
	o := &entity.Order{ID: "o1", BranchID: "b1", Items: items, Status: status, CreatedAt: time.Now()}
	o.RecalculateTotal()
	require.NoError(t, f.orders.Create(context.Background(), o))
	return o
}

func item(productID string, qty int, price int64) entity.OrderItem {
	return entity.OrderItem{ProductID: productID, Quantity: qty, UnitPrice: decimal.NewFromInt(price), Status: entity.ItemNormal}
}

func pickup(items ...order.ItemInput) order.CreateInput {
	return order.CreateInput{
		BranchID:       "b1",
		Items:          items,
		PaymentMethod:  entity.PaymentDebit,
		DeliveryMethod: entity.DeliveryPickup,
		CustomerName:   "Ana",
	}
}

func line(productID string, qty int, price int64) order.ItemInput {
	return order.ItemInput{ProductID: productID, Quantity: qty, Price: decimal.NewFromInt(price)}
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateOrder
// ─────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_ClienteReserva(t *testing.T) {
	f := newFixture(t, 5, 0)

	res, err := f.uc.CreateOrder(context.Background(), cliente, pickup(line("p1", 2, 100)))
	require.NoError(t, err)

	assert.Equal(t, entity.OrderPending, res.Order.Status)
	assert.Equal(t, "u1", res.Order.UserID)
	assert.True(t, res.Order.Total.Equal(decimal.NewFromInt(200)))
	e := f.entry(t, "p1")
	assert.Equal(t, 3, e.Available)
	assert.Equal(t, 2, e.Reserved)
}

func TestCreateOrder_AdminDescuentaDirecto(t *testing.T) {
	f := newFixture(t, 5, 0)

	res, err := f.uc.CreateOrder(context.Background(), adminB1, pickup(line("p1", 2, 100)))
	require.NoError(t, err)

	assert.Equal(t, entity.OrderApproved, res.Order.Status)
	e := f.entry(t, "p1")
	assert.Equal(t, 3, e.Available)
	assert.Equal(t, 0, e.Reserved)
}

func TestCreateOrder_Anonimo(t *testing.T) {
	f := newFixture(t, 5, 0)

	res, err := f.uc.CreateOrder(context.Background(), nil, pickup(line("p1", 1, 100)))
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, res.Order.Status)
	assert.Empty(t, res.Order.UserID)
}

func TestCreateOrder_BasePriceYTotalPersonalizado(t *testing.T) {
	f := newFixture(t, 5, 0)
	custom := decimal.NewFromInt(150)
	base := decimal.NewFromInt(60)

	in := pickup(line("p1", 2, 100))
	in.CustomTotal = &custom
	res, err := f.uc.CreateOrder(context.Background(), cliente, in)
	require.NoError(t, err)
	assert.True(t, res.Order.Total.Equal(custom), "customTotal reemplaza la suma de líneas")
	require.NotNil(t, res.Order.Items[0].BasePriceAtSale)
	assert.True(t, res.Order.Items[0].BasePriceAtSale.Equal(decimal.NewFromInt(80)), "sin base enviada se usa el precio del producto")

	in = pickup(order.ItemInput{ProductID: "p1", Quantity: 1, Price: decimal.NewFromInt(100), BasePriceAtSale: &base})
	res, err = f.uc.CreateOrder(context.Background(), cliente, in)
	require.NoError(t, err)
	assert.True(t, res.Order.Items[0].BasePriceAtSale.Equal(base))
}

func TestCreateOrder_StockInsuficienteNoModifica(t *testing.T) {
	f := newFixture(t, 5, 0)

	_, err := f.uc.CreateOrder(context.Background(), cliente, pickup(line("p1", 6, 100)))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Stock insuficiente para Yerba. Disponible: 5, solicitado: 6")

	e := f.entry(t, "p1")
	assert.Equal(t, 5, e.Available)
	assert.Equal(t, 0, e.Reserved)
	list, _ := f.orders.List(context.Background(), repository.OrderFilter{})
	assert.Empty(t, list, "no se persiste ninguna orden")
}

func TestCreateOrder_SinEntradaEnLedgerEsInsuficiente(t *testing.T) {
	f := newFixture(t, 5, 0)

	_, err := f.uc.CreateOrder(context.Background(), cliente, pickup(line("p1", 1, 100), line("p2", 1, 50)))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, f.entry(t, "p1").Available, "la primera línea tampoco se aplica")
}

func TestCreateOrder_Validaciones(t *testing.T) {
	f := newFixture(t, 5, 0)
	ctx := context.Background()

	cases := map[string]order.CreateInput{
		"sin items":        pickup(),
		"cantidad cero":    pickup(line("p1", 0, 100)),
		"precio cero":      pickup(line("p1", 1, 0)),
		"pago desconocido": func() order.CreateInput { in := pickup(line("p1", 1, 100)); in.PaymentMethod = "cheque"; return in }(),
		"delivery sin dirección": func() order.CreateInput {
			in := pickup(line("p1", 1, 100))
			in.DeliveryMethod = entity.DeliveryHome
			return in
		}(),
		"delivery en efectivo": func() order.CreateInput {
			in := pickup(line("p1", 1, 100))
			in.DeliveryMethod = entity.DeliveryHome
			in.PaymentMethod = entity.PaymentCash
			in.DeliveryAddress = &entity.DeliveryAddress{Address: "Calle 1", City: "Rosario", PostalCode: "2000"}
			return in
		}(),
		"sucursal inexistente": func() order.CreateInput { in := pickup(line("p1", 1, 100)); in.BranchID = "nope"; return in }(),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.CreateOrder(ctx, cliente, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateOrder_EnlaceWhatsApp(t *testing.T) {
	f := newFixture(t, 5, 0)

	res, err := f.uc.CreateOrder(context.Background(), cliente, pickup(line("p1", 2, 1500)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.WhatsAppLink, "https://wa.me/5491112345678?text="))
	assert.Contains(t, res.WhatsAppLink, res.Order.ID)
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateOrder
// ─────────────────────────────────────────────────────────────────────────────

func TestUpdateOrder_AumentoPendienteReserva(t *testing.T) {
	f := newFixture(t, 10, 2)
	f.seedOrder(t, entity.OrderPending, item("p1", 2, 100))

	o, err := f.uc.UpdateOrder(context.Background(), adminB1, "o1", order.UpdateInput{
		Items: []order.UpdateItemInput{{ProductID: "p1", Quantity: 5, UnitPrice: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)

	e := f.entry(t, "p1")
	assert.Equal(t, 7, e.Available)
	assert.Equal(t, 5, e.Reserved)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(500)))
}

func TestUpdateOrder_AprobadaPasaAModificadoLibera(t *testing.T) {
	f := newFixture(t, 3, 0)
	f.seedOrder(t, entity.OrderApproved, item("p1", 4, 100))

	_, err := f.uc.UpdateOrder(context.Background(), adminCentral, "o1", order.UpdateInput{
		Items:  []order.UpdateItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(100)}},
		Status: entity.OrderModificado,
	})
	require.NoError(t, err)

	// el nuevo estado modificado cuenta como pendiente: se libera del reservado (acotado) y vuelve al disponible
	e := f.entry(t, "p1")
	assert.Equal(t, 6, e.Available)
	assert.Equal(t, 0, e.Reserved)
}

func TestUpdateOrder_ReduccionAprobadaRestauraDisponible(t *testing.T) {
	f := newFixture(t, 3, 1)
	f.seedOrder(t, entity.OrderApproved, item("p1", 4, 100))

	o, err := f.uc.UpdateOrder(context.Background(), adminB1, "o1", order.UpdateInput{
		Items: []order.UpdateItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderApproved, o.Status)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(100)))
	e := f.entry(t, "p1")
	assert.Equal(t, 6, e.Available, "las 3 unidades quitadas vuelven al disponible")
	assert.Equal(t, 1, e.Reserved, "el reservado de otras órdenes no se toca")
}

func TestUpdateOrder_AumentoAprobadoDescuentaDirecto(t *testing.T) {
	f := newFixture(t, 6, 1)
	f.seedOrder(t, entity.OrderApproved, item("p1", 1, 100))

	o, err := f.uc.UpdateOrder(context.Background(), adminB1, "o1", order.UpdateInput{
		Items: []order.UpdateItemInput{{ProductID: "p1", Quantity: 3, UnitPrice: decimal.NewFromInt(100)}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderApproved, o.Status)
	e := f.entry(t, "p1")
	assert.Equal(t, 4, e.Available)
	assert.Equal(t, 1, e.Reserved, "una orden aprobada no reserva")
}

func TestUpdateOrder_AumentoAprobadoSinStockNoModifica(t *testing.T) {
	f := newFixture(t, 2, 1)
	f.seedOrder(t, entity.OrderApproved, item("p1", 1, 100))

	_, err := f.uc.UpdateOrder(context.Background(), adminB1, "o1", order.UpdateInput{
		Items: []order.UpdateItemInput{{ProductID: "p1", Quantity: 4, UnitPrice: decimal.NewFromInt(100)}},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	e := f.entry(t, "p1")
	assert.Equal(t, 2, e.Available)
	assert.Equal(t, 1, e.Reserved)
	o, err := f.orders.GetByID(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, entity.OrderApproved, o.Status)
}

func TestUpdateOrder_DevolucionTotalNoTocaStock(t *testing.T) {
	f := newFixture(t, 3, 0)
	f.seedOrder(t, entity.OrderApproved, item("p1", 2, 100))

	o, err := f.uc.UpdateOrder(context.Background(), adminB1, "o1", order.UpdateInput{Status: entity.OrderDevolucion})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderDevolucion, o.Status)
	for _, it := range o.Items {
		assert.Equal(t, entity.ItemDevolucion, it.Status)
	}
	e := f.entry(t, "p1")
	assert.Equal(t, 3, e.Available)
	assert.Equal(t, 0, e.Reserved)
}

func TestUpdateOrder_ItemDevolucionNoTocaStock(t *testing.T) {
	f := newFixture(t, 3, 0)
	f.seedOrder(t, entity.OrderApproved, item("p1", 2, 100))

	o, err := f.uc.UpdateOrder(context.Background(), adminB1, "o1", order.UpdateInput{
		Items: []order.UpdateItemInput{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(100), Status: entity.ItemDevolucion}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, f.entry(t, "p1").Available)
	assert.True(t, o.Total.IsZero(), "los ítems devueltos no suman al total")
}

func TestUpdateOrder_SinEntradaFallaCompleto(t *testing.T) {
	f := newFixture(t, 10, 2)
	f.seedOrder(t, entity.OrderPending, item("p1", 2, 100))

	_, err := f.uc.UpdateOrder(context.Background(), adminB1, "o1", order.UpdateInput{
		Items: []order.UpdateItemInput{
			{ProductID: "p1", Quantity: 4, UnitPrice: decimal.NewFromInt(100)},
			{ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(40)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrStockEntryNotFound)

	e := f.entry(t, "p1")
	assert.Equal(t, 10, e.Available, "el aumento de p1 no se confirma")
	assert.Equal(t, 2, e.Reserved)
	o, _ := f.orders.GetByID(context.Background(), "o1")
	assert.Len(t, o.Items, 1)
}

func TestUpdateOrder_RechazadaNoTocaStock(t *testing.T) {
	f := newFixture(t, 10, 2)
	f.seedOrder(t, entity.OrderRejected, item("p1", 2, 100))

	o, err := f.uc.UpdateOrder(context.Background(), adminB1, "o1", order.UpdateInput{
		Items: []order.UpdateItemInput{
			{ProductID: "p1", Quantity: 5, UnitPrice: decimal.NewFromInt(100)},
			{ProductID: "p2", Quantity: 1, UnitPrice: decimal.NewFromInt(40)},
		},
	})
	require.NoError(t, err, "sin movimiento de stock no se busca la entrada de p2")

	assert.Equal(t, entity.OrderRejected, o.Status)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(540)))
	e := f.entry(t, "p1")
	assert.Equal(t, 10, e.Available)
	assert.Equal(t, 2, e.Reserved)
}

func TestUpdateOrder_Autorizacion(t *testing.T) {
	f := newFixture(t, 10, 2)
	f.seedOrder(t, entity.OrderPending, item("p1", 2, 100))

	_, err := f.uc.UpdateOrder(context.Background(), adminB2, "o1", order.UpdateInput{Status: entity.OrderModificado})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.UpdateOrder(context.Background(), cliente, "o1", order.UpdateInput{Status: entity.OrderModificado})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.UpdateOrder(context.Background(), adminB1, "o1", order.UpdateInput{Status: "enviado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─────────────────────────────────────────────────────────────────────────────
// Approve / Reject
// ─────────────────────────────────────────────────────────────────────────────

func TestApproveOrder_ConfirmaReserva(t *testing.T) {
	f := newFixture(t, 5, 0)
	ctx := context.Background()
	res, err := f.uc.CreateOrder(ctx, cliente, pickup(line("p1", 2, 100)))
	require.NoError(t, err)

	o, err := f.uc.ApproveOrder(ctx, adminB1, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderApproved, o.Status)
	e := f.entry(t, "p1")
	assert.Equal(t, 3, e.Available, "aprobar no devuelve stock")
	assert.Equal(t, 0, e.Reserved)

	_, err = f.uc.ApproveOrder(ctx, adminB1, res.Order.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestRejectOrder_DevuelveStock(t *testing.T) {
	f := newFixture(t, 5, 0)
	ctx := context.Background()
	res, err := f.uc.CreateOrder(ctx, cliente, pickup(line("p1", 2, 100)))
	require.NoError(t, err)

	_, err = f.uc.RejectOrder(ctx, adminB2, res.Order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "admin de otra sucursal")

	o, err := f.uc.RejectOrder(ctx, adminCentral, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderRejected, o.Status)
	e := f.entry(t, "p1")
	assert.Equal(t, 5, e.Available)
	assert.Equal(t, 0, e.Reserved)
}

func TestApproveOrder_OmiteEntradasFaltantes(t *testing.T) {
	f := newFixture(t, 5, 2)
	f.seedOrder(t, entity.OrderPending, item("p1", 2, 100), item("p2", 1, 40))

	_, err := f.uc.ApproveOrder(context.Background(), adminB1, "o1")
	require.NoError(t, err)
	assert.Equal(t, 0, f.entry(t, "p1").Reserved)
}

// ─────────────────────────────────────────────────────────────────────────────
// Get / List
// ─────────────────────────────────────────────────────────────────────────────

func TestGetOrder_Visibilidad(t *testing.T) {
	f := newFixture(t, 5, 0)
	ctx := context.Background()
	res, err := f.uc.CreateOrder(ctx, cliente, pickup(line("p1", 1, 100)))
	require.NoError(t, err)

	_, err = f.uc.GetOrder(ctx, cliente, res.Order.ID)
	assert.NoError(t, err)
	_, err = f.uc.GetOrder(ctx, &entity.Principal{UserID: "otro", Role: entity.RoleUser}, res.Order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.GetOrder(ctx, adminB2, res.Order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.GetOrder(ctx, adminCentral, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrders_AdminSucursalSoloSuya(t *testing.T) {
	f := newFixture(t, 5, 0)
	ctx := context.Background()
	_, err := f.uc.CreateOrder(ctx, cliente, pickup(line("p1", 1, 100)))
	require.NoError(t, err)

	list, err := f.uc.ListOrders(ctx, adminB1, order.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = f.uc.ListOrders(ctx, adminCentral, order.ListFilter{Status: entity.OrderApproved})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.uc.ListOrders(ctx, adminB1, order.ListFilter{BranchID: "b2"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
