package memory

import (
	"context"

	"github.com/jhoicas/Sucursales-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn sobre escrituras diferidas y las confirma juntas.
// Al confirmar valida que ninguna entidad tocada haya cambiado de versión (si no, ErrWriteConflict).
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn; si devuelve error se descartan todas las escrituras.
func (r *TxRunner) Run(ctx context.Context, fn func(inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	products := newStaged(&r.s.mu, r.s.products)
	branches := newStaged(&r.s.mu, r.s.branches)
	orders := newStaged(&r.s.mu, r.s.orders)
	requests := newStaged(&r.s.mu, r.s.requests)

	repos := inventory.Repos{
		Products: &ProductRepo{src: products},
		Branches: &BranchRepo{src: branches},
		Orders:   &OrderRepo{src: orders},
		Requests: &StockRequestRepo{src: requests},
	}
	if err := fn(repos); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range []interface{ validate() error }{products, branches, orders, requests} {
		if err := v.validate(); err != nil {
			return err
		}
	}
	products.apply()
	branches.apply()
	orders.apply()
	requests.apply()
	return nil
}
