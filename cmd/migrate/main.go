// migrate corre migraciones de datos sobre la base PostgreSQL configurada.
//
// Uso: go run ./cmd/migrate <stock|base-price|branch-prices> [...]
// Sin argumentos corre todas en orden alfabético. Cada una es una transacción independiente.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/Sucursales-api/internal/application/maintenance"
	"github.com/jhoicas/Sucursales-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Sucursales-api/pkg/config"
	"github.com/jhoicas/Sucursales-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name + "-migrate",
	})
	if !cfg.DB.Enabled() {
		log.Fatal().Msg("DATABASE_URL o DB_HOST es requerido")
	}

	names := os.Args[1:]
	if len(names) == 0 {
		names = maintenance.Names()
	}

	ctx := context.Background()
	dbLog := log.Component("postgres")
	pool, err := postgres.NewPool(ctx, cfg.DB, dbLog)
	if err != nil {
		log.Fatal().Err(err).Msg("conectar PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, dbLog); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	runner := maintenance.NewRunner(postgres.NewTxRunner(pool), log.Component("migrate"))
	failed := false
	for _, name := range names {
		if _, err := runner.Run(ctx, name); err != nil {
			log.Error().Err(err).Str("migration", name).Msg("migración fallida")
			failed = true
		}
	}
	if failed {
		pool.Close()
		os.Exit(1)
	}
}
