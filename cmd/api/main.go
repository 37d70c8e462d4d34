package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Sucursales-api/internal/application/analytics"
	"github.com/jhoicas/Sucursales-api/internal/application/auth"
	"github.com/jhoicas/Sucursales-api/internal/application/inventory"
	"github.com/jhoicas/Sucursales-api/internal/application/order"
	"github.com/jhoicas/Sucursales-api/internal/application/pricing"
	"github.com/jhoicas/Sucursales-api/internal/application/stockrequest"
	"github.com/jhoicas/Sucursales-api/internal/application/usecase"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/lock"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/memory"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/report"
	httpRouter "github.com/jhoicas/Sucursales-api/internal/interfaces/http"
	"github.com/jhoicas/Sucursales-api/pkg/config"
	"github.com/jhoicas/Sucursales-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage agrupa los repositorios del backend elegido (PostgreSQL o memoria).
type storage struct {
	products  repository.ProductRepository
	branches  repository.BranchRepository
	orders    repository.OrderRepository
	requests  repository.StockRequestRepository
	movements repository.StockMovementRepository
	users     repository.UserRepository
	tags      repository.CatalogTagRepository
	analytics repository.AnalyticsRepository
	tx        inventory.TxRunner
	checks    map[string]httpRouter.HealthCheck
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	var locker pricing.Locker = lock.NewLocalLocker()
	if cfg.Redis.Addr != "" {
		redisLocker := lock.NewRedisLocker(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := redisLocker.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, se usa lock en proceso")
			_ = redisLocker.Close()
		} else {
			locker = redisLocker
			store.checks["redis"] = redisLocker.Ping
			defer redisLocker.Close()
		}
	}

	tx := inventory.NewRetryingTxRunner(store.tx, cfg.Tx.MaxRetries, log.Component("tx"))

	authUC := auth.NewAuthUseCase(store.users, store.branches, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if created, err := authUC.EnsureCentralAdmin(ctx, cfg.Seed.AdminUsername, cfg.Seed.AdminPassword); err != nil {
		log.Error().Err(err).Msg("crear administrador central inicial")
	} else if created {
		log.Info().Str("username", cfg.Seed.AdminUsername).Msg("administrador central creado")
	}

	stockUC := inventory.NewStockUseCase(tx, store.products, store.branches, store.movements, log.Component("inventory"))
	salesUC := analytics.NewSalesUseCase(store.orders, store.products, store.analytics, report.NewSalesExcelExporter())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en /docs cuando existe docs/swagger.json.
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Sucursales API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      usecase.NewProductUseCase(store.products, store.branches, log.Component("products")),
		BranchUC:       usecase.NewBranchUseCase(store.branches),
		CatalogTagUC:   usecase.NewCatalogTagUseCase(store.tags, store.products, log.Component("catalog")),
		StockUC:        stockUC,
		PricingUC:      pricing.NewUseCase(tx, locker, log.Component("pricing")),
		OrderUC:        order.NewUseCase(tx, store.orders, store.branches, store.products, log.Component("orders")),
		StockRequestUC: stockrequest.NewUseCase(tx, store.requests, store.products, store.branches, store.movements, report.NewRemitoGenerator(), log.Component("stock_requests")),
		SalesUC:        salesUC,
		HealthChecks:   store.checks,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage conecta PostgreSQL y aplica migraciones; sin base configurada usa el store en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if !cfg.DB.Enabled() {
		log.Warn().Msg("sin DATABASE_URL ni DB_HOST: datos en memoria, se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			products:  memory.NewProductRepository(s),
			branches:  memory.NewBranchRepository(s),
			orders:    memory.NewOrderRepository(s),
			requests:  memory.NewStockRequestRepository(s),
			movements: memory.NewMovementRepository(s),
			users:     memory.NewUserRepository(s),
			tags:      memory.NewCatalogTagRepository(s),
			analytics: memory.NewAnalyticsRepository(s),
			tx:        memory.NewTxRunner(s),
			checks:    map[string]httpRouter.HealthCheck{},
			close:     func() {},
		}, nil
	}

	dbLog := log.Component("postgres")
	pool, err := postgres.NewPool(ctx, cfg.DB, dbLog)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool, dbLog); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		products:  postgres.NewProductRepository(pool),
		branches:  postgres.NewBranchRepository(pool),
		orders:    postgres.NewOrderRepository(pool),
		requests:  postgres.NewStockRequestRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		users:     postgres.NewUserRepository(pool),
		tags:      postgres.NewCatalogTagRepository(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		checks:    map[string]httpRouter.HealthCheck{"database": pool.Ping},
		close:     pool.Close,
	}, nil
}
