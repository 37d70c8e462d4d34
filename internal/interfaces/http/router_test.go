package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Sucursales-api/internal/application/analytics"
	"github.com/jhoicas/Sucursales-api/internal/application/auth"
	"github.com/jhoicas/Sucursales-api/internal/application/inventory"
	"github.com/jhoicas/Sucursales-api/internal/application/order"
	"github.com/jhoicas/Sucursales-api/internal/application/pricing"
	"github.com/jhoicas/Sucursales-api/internal/application/stockrequest"
	"github.com/jhoicas/Sucursales-api/internal/application/usecase"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/lock"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/memory"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/report"
	apphttp "github.com/jhoicas/Sucursales-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Sucursales-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	log := zerolog.Nop()
	s := memory.NewStore()

	products := memory.NewProductRepository(s)
	branches := memory.NewBranchRepository(s)
	orders := memory.NewOrderRepository(s)
	requests := memory.NewStockRequestRepository(s)
	movements := memory.NewMovementRepository(s)

	require.NoError(t, branches.Create(ctx, &entity.Branch{
		ID: "b1", Name: "Centro", Number: "5491122334455",
		ExchangeRate: decimal.NewFromInt(1), DefaultMarkup: decimal.NewFromInt(20),
		Stock: []entity.StockEntry{{ProductID: "p1", Available: 10}},
	}))
	require.NoError(t, products.Create(ctx, &entity.Product{
		ID: "p1", SKU: "YER-1", Name: "Yerba", Price: decimal.NewFromInt(100), CentralQuantity: 20,
	}))

	tx := inventory.NewRetryingTxRunner(memory.NewTxRunner(s), 3, log)
	stockUC := inventory.NewStockUseCase(tx, products, branches, movements, log)
	salesUC := analytics.NewSalesUseCase(orders, products, memory.NewAnalyticsRepository(s), report.NewSalesExcelExporter())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(memory.NewUserRepository(s), branches, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		ProductUC:      usecase.NewProductUseCase(products, branches, log),
		BranchUC:       usecase.NewBranchUseCase(branches),
		CatalogTagUC:   usecase.NewCatalogTagUseCase(memory.NewCatalogTagRepository(s), products, log),
		StockUC:        stockUC,
		PricingUC:      pricing.NewUseCase(tx, lock.NewLocalLocker(), log),
		OrderUC:        order.NewUseCase(tx, orders, branches, products, log),
		StockRequestUC: stockrequest.NewUseCase(tx, requests, products, branches, movements, report.NewRemitoGenerator(), log),
		SalesUC:        salesUC,
		JWTSecret:      testJWTSecret,
	})
	return &testAPI{app: app, store: s}
}

func bearerFor(t *testing.T, userID, branchID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, branchID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (a *testAPI) call(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func decodeMap(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

func orderBody(qty int) fiber.Map {
	return fiber.Map{
		"branchId":       "b1",
		"items":          []fiber.Map{{"productId": "p1", "quantity": qty, "price": 150}},
		"paymentMethod":  entity.PaymentCash,
		"deliveryMethod": entity.DeliveryPickup,
		"customerName":   "Ana",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Health y auth
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t)
	resp, body := api.call(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeMap(t, body)["status"])
}

func TestRouter_RegistroYLogin(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"fullname": "Ana Pérez", "email": "Ana@Mail.com", "username": "ana", "password": "secreto!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "ana@mail.com", decodeMap(t, body)["email"], "el email se guarda normalizado")

	resp, body = api.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"fullname": "Otra", "email": "ana@mail.com", "username": "otra", "password": "secreto!",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decodeMap(t, body)["code"])

	resp, body = api.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"username": "ana", "password": "secreto!"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.NotEmpty(t, decodeMap(t, body)["token"])

	resp, body = api.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"username": "ana", "password": "otra"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(body))
}

func TestRouter_ValidacionDelBody(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.call(t, http.MethodPost, "/api/auth/register", "", fiber.Map{"email": "no-es-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeMap(t, body)["code"])

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader([]byte("{roto")))
	req.Header.Set("Content-Type", "application/json")
	r, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer r.Body.Close()
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_OrdenAnonimaYAprobacion(t *testing.T) {
	api := newTestAPI(t)
	admin := bearerFor(t, "u-b1", "b1", entity.RoleBranchAdmin)

	resp, body := api.call(t, http.MethodPost, "/api/orders", "", orderBody(3))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decodeMap(t, body)
	o := created["order"].(map[string]any)
	assert.Equal(t, entity.OrderPending, o["status"], "la compra anónima queda pendiente")
	assert.Contains(t, created["whatsappLink"], "https://wa.me/5491122334455")
	orderID := o["id"].(string)

	resp, _ = api.call(t, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "el listado requiere token")

	resp, body = api.call(t, http.MethodGet, "/api/branches/b1", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stock := decodeMap(t, body)["stock"].([]any)[0].(map[string]any)
	assert.EqualValues(t, 7, stock["quantity"])
	assert.EqualValues(t, 3, stock["reservedQuantity"])

	resp, body = api.call(t, http.MethodPost, "/api/orders/"+orderID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, entity.OrderApproved, decodeMap(t, body)["status"])

	resp, body = api.call(t, http.MethodPost, "/api/orders/"+orderID+"/reject", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "STATE_CONFLICT", decodeMap(t, body)["code"])
}

func TestRouter_OrdenSinStock(t *testing.T) {
	api := newTestAPI(t)

	resp, body := api.call(t, http.MethodPost, "/api/orders", "", orderBody(11))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeMap(t, body)["code"])
}

func TestRouter_AprobarRequiereAdmin(t *testing.T) {
	api := newTestAPI(t)
	user := bearerFor(t, "u-1", "", entity.RoleUser)

	resp, body := api.call(t, http.MethodPost, "/api/orders", user, orderBody(1))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	orderID := decodeMap(t, body)["order"].(map[string]any)["id"].(string)

	resp, _ = api.call(t, http.MethodPost, "/api/orders/"+orderID+"/approve", user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock de sucursales
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_TransferenciaCentral(t *testing.T) {
	api := newTestAPI(t)
	central := bearerFor(t, "u-c", "", entity.RoleCentralAdmin)

	resp, body := api.call(t, http.MethodPost, "/api/branches/b1/transfer", central, fiber.Map{"productId": "p1", "quantity": 21})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_CENTRAL_STOCK", decodeMap(t, body)["code"])

	resp, body = api.call(t, http.MethodPost, "/api/branches/b1/transfer", central, fiber.Map{"productId": "p1", "quantity": 20})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	out := decodeMap(t, body)
	assert.EqualValues(t, 0, out["centralQuantity"])
	assert.NotEmpty(t, out["movementId"])
}

func TestRouter_CargaManualParcial(t *testing.T) {
	api := newTestAPI(t)
	admin := bearerFor(t, "u-b1", "b1", entity.RoleBranchAdmin)

	resp, body := api.call(t, http.MethodPost, "/api/branches/b1/stock/manual", admin, fiber.Map{
		"products": []fiber.Map{{"productId": "p1", "quantity": 5}, {"productId": "nope", "quantity": 1}},
	})
	require.Equal(t, http.StatusMultiStatus, resp.StatusCode, string(body))
	out := decodeMap(t, body)
	assert.EqualValues(t, 1, out["successCount"])
	assert.Len(t, out["errors"], 1)

	resp, _ = api.call(t, http.MethodPost, "/api/branches/b2/stock/manual", admin, fiber.Map{
		"products": []fiber.Map{{"productId": "p1", "quantity": 5}},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "otra sucursal")
}

func TestRouter_CrearProductoSoloCentral(t *testing.T) {
	api := newTestAPI(t)
	body := fiber.Map{"sku": "AZU-1", "name": "Azúcar", "price": 30}

	resp, _ := api.call(t, http.MethodPost, "/api/products", bearerFor(t, "u-b1", "b1", entity.RoleBranchAdmin), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := api.call(t, http.MethodPost, "/api/products", bearerFor(t, "u-c", "", entity.RoleCentralAdmin), body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = api.call(t, http.MethodGet, "/api/products/nope", bearerFor(t, "u-1", "", entity.RoleUser), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeMap(t, raw)["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Solicitudes de stock y remito
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_SolicitudDeStockYRemito(t *testing.T) {
	api := newTestAPI(t)
	admin := bearerFor(t, "u-b1", "b1", entity.RoleBranchAdmin)
	central := bearerFor(t, "u-c", "", entity.RoleCentralAdmin)

	resp, body := api.call(t, http.MethodPost, "/api/stock-requests", admin, fiber.Map{
		"items": []fiber.Map{{"productId": "p1", "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	id := decodeMap(t, body)["id"].(string)

	resp, _ = api.call(t, http.MethodPut, "/api/stock-requests/"+id+"/approve", admin, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "solo el admin central procesa solicitudes")

	resp, body = api.call(t, http.MethodPut, "/api/stock-requests/"+id+"/approve", central, fiber.Map{"notes": "ok"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, body = api.call(t, http.MethodPut, "/api/stock-requests/"+id+"/fulfill", central, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, entity.RequestFulfilled, decodeMap(t, body)["status"])

	resp, body = api.call(t, http.MethodGet, "/api/stock-requests/"+id+"/remito", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "remito-"+id+".pdf")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = api.call(t, http.MethodGet, "/api/stock/movements", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movs []map[string]any
	require.NoError(t, json.Unmarshal(body, &movs))
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementFromCentral, movs[0]["source"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Marcas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_Marcas(t *testing.T) {
	api := newTestAPI(t)
	central := bearerFor(t, "u-c", "", entity.RoleCentralAdmin)

	resp, body := api.call(t, http.MethodPost, "/api/brands", central, fiber.Map{"name": "Cañuelas"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = api.call(t, http.MethodPost, "/api/brands", central, fiber.Map{"name": "Cañuelas"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decodeMap(t, body)["code"])

	resp, body = api.call(t, http.MethodGet, "/api/types", central, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body), "marcas y tipos no se mezclan")
}
