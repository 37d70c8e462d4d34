package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Sucursales-api/internal/application/analytics"
	"github.com/jhoicas/Sucursales-api/internal/application/auth"
	"github.com/jhoicas/Sucursales-api/internal/application/inventory"
	"github.com/jhoicas/Sucursales-api/internal/application/order"
	"github.com/jhoicas/Sucursales-api/internal/application/pricing"
	"github.com/jhoicas/Sucursales-api/internal/application/stockrequest"
	"github.com/jhoicas/Sucursales-api/internal/application/usecase"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *usecase.ProductUseCase
	BranchUC       *usecase.BranchUseCase
	CatalogTagUC   *usecase.CatalogTagUseCase
	StockUC        *inventory.StockUseCase
	PricingUC      *pricing.UseCase
	OrderUC        *order.UseCase
	StockRequestUC *stockrequest.UseCase
	SalesUC        *analytics.SalesUseCase
	HealthChecks   map[string]HealthCheck
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	central := RequireRole(entity.RoleCentralAdmin)
	admins := RequireRole(entity.RoleCentralAdmin, entity.RoleBranchAdmin)

	api.Get("/health", NewHealthHandler(deps.HealthChecks).Health)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Products. Las rutas fijas van antes de /:id.
	products := api.Group("/products", requireAuth)
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC, deps.PricingUC, deps.SalesUC)
	products.Get("/", productHandler.List)
	products.Get("/most-sold", productHandler.MostSold)
	products.Get("/branch/:branchId", productHandler.ListByBranch)
	products.Put("/branch-prices/recalculate/:branchId", admins, productHandler.RecalculateBranchPrices)
	products.Post("/", central, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", central, productHandler.Update)
	products.Delete("/:id", central, productHandler.Delete)
	products.Put("/:id/stock", central, productHandler.UpdateCentralStock)
	products.Put("/:id/branch-price/:branchId", admins, productHandler.SetBranchPrice)
	products.Delete("/:id/branch-price/:branchId", admins, productHandler.ClearBranchPrice)

	// Branches
	branches := api.Group("/branches", requireAuth)
	branchHandler := NewBranchHandler(deps.BranchUC, deps.StockUC)
	branches.Get("/", branchHandler.List)
	branches.Post("/", central, branchHandler.Create)
	branches.Get("/:id", branchHandler.GetByID)
	branches.Put("/:id", admins, branchHandler.Update)
	branches.Delete("/:id", central, branchHandler.Delete)
	branches.Put("/:id/exchange-rate", admins, branchHandler.UpdateExchangeRate)
	branches.Get("/:id/product-prices", admins, branchHandler.GetProductPrices)
	branches.Put("/:id/product-prices", admins, branchHandler.UpdateProductPrices)
	branches.Post("/:id/transfer", admins, branchHandler.Transfer)
	branches.Post("/:id/stock/manual", admins, branchHandler.ManualLoad)

	// Orders. La creación admite compra anónima.
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.SalesUC)
	orders.Post("/", OptionalAuth(deps.JWTSecret), orderHandler.Create)
	orders.Get("/", requireAuth, orderHandler.List)
	orders.Get("/stats/sales", requireAuth, admins, orderHandler.SalesStats)
	orders.Get("/detail/sales", requireAuth, admins, orderHandler.SalesDetail)
	orders.Get("/detail/sales/export", requireAuth, admins, orderHandler.ExportSalesDetail)
	orders.Get("/:id", requireAuth, orderHandler.GetByID)
	orders.Put("/:id", requireAuth, admins, orderHandler.Update)
	orders.Post("/:id/approve", requireAuth, admins, orderHandler.Approve)
	orders.Post("/:id/reject", requireAuth, admins, orderHandler.Reject)

	// Stock requests
	requests := api.Group("/stock-requests", requireAuth, admins)
	requestHandler := NewStockRequestHandler(deps.StockRequestUC)
	requests.Post("/", requestHandler.Create)
	requests.Get("/", requestHandler.List)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Get("/:id/remito", requestHandler.Remito)
	requests.Put("/:id/approve", central, requestHandler.Approve)
	requests.Put("/:id/reject", central, requestHandler.Reject)
	requests.Put("/:id/fulfill", central, requestHandler.Fulfill)
	requests.Put("/:id/delivered-unpaid", central, requestHandler.MarkDeliveredUnpaid)
	requests.Put("/:id/mark-fulfilled", central, requestHandler.MarkFulfilled)

	// Stock
	stock := api.Group("/stock", requireAuth, admins)
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/movements", stockHandler.Movements)
	stock.Get("/reports/stock", stockHandler.Report)

	// Brands y types
	registerTags(api.Group("/brands", requireAuth), NewCatalogTagHandler(deps.CatalogTagUC, entity.TagBrand), central)
	registerTags(api.Group("/types", requireAuth), NewCatalogTagHandler(deps.CatalogTagUC, entity.TagType), central)
}

func registerTags(g fiber.Router, h *CatalogTagHandler, central fiber.Handler) {
	g.Get("/", h.List)
	g.Post("/", central, h.Create)
	g.Put("/:id", central, h.Update)
	g.Delete("/:id", central, h.Delete)
}
