// Package maintenance agrupa las migraciones de datos que se corren a mano sobre una base existente.
package maintenance

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Sucursales-api/internal/application/inventory"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

// Result conteo de una migración. Scanned son los registros leídos, Updated los reescritos.
type Result struct {
	Name    string
	Scanned int
	Updated int
}

// Migration reescribe datos dentro de una única transacción.
type Migration func(ctx context.Context, r inventory.Repos) (Result, error)

// Runner ejecuta migraciones por nombre.
type Runner struct {
	tx  inventory.TxRunner
	log zerolog.Logger
}

// NewRunner construye el runner.
func NewRunner(tx inventory.TxRunner, log zerolog.Logger) *Runner {
	return &Runner{tx: tx, log: log}
}

// Migrations devuelve las migraciones disponibles.
func Migrations() map[string]Migration {
	return map[string]Migration{
		"stock":         RewriteStockLedgers,
		"base-price":    FillBasePriceAtSale,
		"branch-prices": SeedBranchPrices,
	}
}

// Names devuelve los nombres de las migraciones ordenados.
func Names() []string {
	names := make([]string, 0, len(Migrations()))
	for name := range Migrations() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run ejecuta la migración name. Si falla no se persiste nada.
func (r *Runner) Run(ctx context.Context, name string) (Result, error) {
	m, ok := Migrations()[name]
	if !ok {
		return Result{}, fmt.Errorf("migración desconocida %q", name)
	}
	var res Result
	err := r.tx.Run(ctx, func(repos inventory.Repos) error {
		var err error
		res, err = m(ctx, repos)
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}
	res.Name = name
	r.log.Info().
		Str("migration", name).
		Int("scanned", res.Scanned).
		Int("updated", res.Updated).
		Msg("migración aplicada")
	return res, nil
}

// RewriteStockLedgers vuelve a guardar el ledger de cada sucursal. Al leerlo se aceptan las claves
// viejas (availableQuantity, product) y al escribirlo se usa el formato actual.
// Las entradas sin producto se descartan.
func RewriteStockLedgers(ctx context.Context, r inventory.Repos) (Result, error) {
	branches, err := r.Branches.List(ctx)
	if err != nil {
		return Result{}, err
	}
	var res Result
	for _, b := range branches {
		res.Scanned++
		kept := b.Stock[:0]
		for _, e := range b.Stock {
			if e.ProductID != "" {
				kept = append(kept, e)
			}
		}
		b.Stock = kept
		if err := r.Branches.Update(ctx, b); err != nil {
			return Result{}, fmt.Errorf("sucursal %s: %w", b.ID, err)
		}
		res.Updated++
	}
	return res, nil
}

// FillBasePriceAtSale completa basePriceAtSale en los ítems que no lo tienen con el precio actual
// del producto, o 0 si el producto ya no existe.
func FillBasePriceAtSale(ctx context.Context, r inventory.Repos) (Result, error) {
	orders, err := r.Orders.List(ctx, repository.OrderFilter{})
	if err != nil {
		return Result{}, err
	}
	prices := map[string]decimal.Decimal{}
	priceOf := func(productID string) (decimal.Decimal, error) {
		if p, ok := prices[productID]; ok {
			return p, nil
		}
		prod, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return decimal.Zero, err
		}
		price := decimal.Zero
		if prod != nil {
			price = prod.Price
		}
		prices[productID] = price
		return price, nil
	}

	var res Result
	for _, o := range orders {
		res.Scanned++
		changed := false
		for i := range o.Items {
			if o.Items[i].BasePriceAtSale != nil {
				continue
			}
			price, err := priceOf(o.Items[i].ProductID)
			if err != nil {
				return Result{}, fmt.Errorf("orden %s: %w", o.ID, err)
			}
			o.Items[i].BasePriceAtSale = &price
			changed = true
		}
		if !changed {
			continue
		}
		if err := r.Orders.Update(ctx, o); err != nil {
			return Result{}, fmt.Errorf("orden %s: %w", o.ID, err)
		}
		res.Updated++
	}
	return res, nil
}

// SeedBranchPrices crea overrides de precio a partir de Branch.ProductPrices (esquema anterior).
// Un producto que ya tiene override para la sucursal no se toca.
func SeedBranchPrices(ctx context.Context, r inventory.Repos) (Result, error) {
	branches, err := r.Branches.List(ctx)
	if err != nil {
		return Result{}, err
	}
	legacy := map[string][]seedPrice{}
	for _, b := range branches {
		for _, lp := range b.ProductPrices {
			if lp.ProductID == "" || !lp.FinalPrice.IsPositive() {
				continue
			}
			legacy[lp.ProductID] = append(legacy[lp.ProductID], seedPrice{branchID: b.ID, legacy: lp})
		}
	}
	if len(legacy) == 0 {
		return Result{}, nil
	}

	products, err := r.Products.List(ctx)
	if err != nil {
		return Result{}, err
	}
	var res Result
	for _, p := range products {
		res.Scanned++
		changed := false
		for _, sp := range legacy[p.ID] {
			if p.BranchPrice(sp.branchID) != nil {
				continue
			}
			markup := sp.legacy.ProfitMargin
			p.BranchPrices = append(p.BranchPrices, entity.BranchPrice{
				BranchID: sp.branchID,
				Price:    sp.legacy.FinalPrice,
				Markup:   &markup,
			})
			changed = true
		}
		if !changed {
			continue
		}
		if err := r.Products.Update(ctx, p); err != nil {
			return Result{}, fmt.Errorf("producto %s: %w", p.ID, err)
		}
		res.Updated++
	}
	return res, nil
}

type seedPrice struct {
	branchID string
	legacy   entity.LegacyProductPrice
}
