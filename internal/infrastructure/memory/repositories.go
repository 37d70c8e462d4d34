package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository       = (*ProductRepo)(nil)
	_ repository.BranchRepository        = (*BranchRepo)(nil)
	_ repository.OrderRepository         = (*OrderRepo)(nil)
	_ repository.StockRequestRepository  = (*StockRequestRepo)(nil)
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.UserRepository          = (*UserRepo)(nil)
	_ repository.CatalogTagRepository    = (*CatalogTagRepo)(nil)
	_ repository.AnalyticsRepository     = (*AnalyticsRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct {
	src rowSource[*entity.Product]
}

// NewProductRepository construye el repositorio sobre el store.
func NewProductRepository(s *Store) *ProductRepo {
	return &ProductRepo{src: direct[*entity.Product]{mu: &s.mu, c: s.products}}
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	if existing, _ := r.GetBySKU(context.Background(), p.SKU); existing != nil {
		return domain.ErrDuplicate
	}
	return r.src.insert(p)
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.src.get(id)
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	for _, p := range r.src.list() {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	return sortedBy(r.src.list(), func(a, b *entity.Product) bool { return a.Name < b.Name }), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.src.update(p)
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.src.remove(id)
	return nil
}

func (r *ProductRepo) RenameBrand(_ context.Context, oldName, newName string) (int, error) {
	n := 0
	for _, p := range r.src.list() {
		if p.Brand != oldName {
			continue
		}
		p.Brand = newName
		p.UpdatedAt = time.Now()
		if err := r.src.update(p); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Sucursales
// ──────────────────────────────────────────────────────────────────────────────

// BranchRepo sucursales en memoria.
type BranchRepo struct {
	src rowSource[*entity.Branch]
}

// NewBranchRepository construye el repositorio sobre el store.
func NewBranchRepository(s *Store) *BranchRepo {
	return &BranchRepo{src: direct[*entity.Branch]{mu: &s.mu, c: s.branches}}
}

func (r *BranchRepo) Create(_ context.Context, b *entity.Branch) error { return r.src.insert(b) }

func (r *BranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	b, ok := r.src.get(id)
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (r *BranchRepo) List(_ context.Context) ([]*entity.Branch, error) {
	return sortedBy(r.src.list(), func(a, b *entity.Branch) bool { return a.Name < b.Name }), nil
}

func (r *BranchRepo) Update(_ context.Context, b *entity.Branch) error { return r.src.update(b) }

func (r *BranchRepo) Delete(_ context.Context, id string) error {
	r.src.remove(id)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes
// ──────────────────────────────────────────────────────────────────────────────

// OrderRepo órdenes en memoria.
type OrderRepo struct {
	src rowSource[*entity.Order]
}

// NewOrderRepository construye el repositorio sobre el store.
func NewOrderRepository(s *Store) *OrderRepo {
	return &OrderRepo{src: direct[*entity.Order]{mu: &s.mu, c: s.orders}}
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error { return r.src.insert(o) }

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := r.src.get(id)
	if !ok {
		return nil, nil
	}
	return o, nil
}

func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error { return r.src.update(o) }

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.src.list() {
		if matchOrder(o, f) {
			out = append(out, o)
		}
	}
	return sortedBy(out, func(a, b *entity.Order) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

func matchOrder(o *entity.Order, f repository.OrderFilter) bool {
	if f.BranchID != "" && o.BranchID != f.BranchID {
		return false
	}
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.PaymentMethod != "" && o.PaymentMethod != f.PaymentMethod {
		return false
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, o.Status) {
		return false
	}
	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && o.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────────────────────────────────────
// Solicitudes de stock
// ──────────────────────────────────────────────────────────────────────────────

// StockRequestRepo solicitudes en memoria.
type StockRequestRepo struct {
	src rowSource[*entity.StockRequest]
}

// NewStockRequestRepository construye el repositorio sobre el store.
func NewStockRequestRepository(s *Store) *StockRequestRepo {
	return &StockRequestRepo{src: direct[*entity.StockRequest]{mu: &s.mu, c: s.requests}}
}

func (r *StockRequestRepo) Create(_ context.Context, req *entity.StockRequest) error {
	return r.src.insert(req)
}

func (r *StockRequestRepo) GetByID(_ context.Context, id string) (*entity.StockRequest, error) {
	req, ok := r.src.get(id)
	if !ok {
		return nil, nil
	}
	return req, nil
}

func (r *StockRequestRepo) Update(_ context.Context, req *entity.StockRequest) error {
	return r.src.update(req)
}

func (r *StockRequestRepo) List(_ context.Context, branchID string) ([]*entity.StockRequest, error) {
	var out []*entity.StockRequest
	for _, req := range r.src.list() {
		if branchID == "" || req.BranchID == branchID {
			out = append(out, req)
		}
	}
	return sortedBy(out, func(a, b *entity.StockRequest) bool { return a.CreatedAt.After(b.CreatedAt) }), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos, usuarios y etiquetas
// ──────────────────────────────────────────────────────────────────────────────

// MovementRepo log de movimientos en memoria.
type MovementRepo struct {
	s   *Store
	src rowSource[*entity.StockMovement]
}

// NewMovementRepository construye el repositorio sobre el store.
func NewMovementRepository(s *Store) *MovementRepo {
	return &MovementRepo{s: s, src: direct[*entity.StockMovement]{mu: &s.mu, c: s.movements}}
}

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.RLock()
	failErr := r.s.movementErr
	r.s.mu.RUnlock()
	if failErr != nil {
		return failErr
	}
	return r.src.insert(m)
}

func (r *MovementRepo) List(_ context.Context, branchID string, limit int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.src.list() {
		if branchID == "" || m.ToBranchID == branchID {
			out = append(out, m)
		}
	}
	out = sortedBy(out, func(a, b *entity.StockMovement) bool { return a.CreatedAt.After(b.CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UserRepo usuarios en memoria.
type UserRepo struct {
	src rowSource[*entity.User]
}

// NewUserRepository construye el repositorio sobre el store.
func NewUserRepository(s *Store) *UserRepo {
	return &UserRepo{src: direct[*entity.User]{mu: &s.mu, c: s.users}}
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error { return r.src.insert(u) }

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.src.get(id)
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.src.list() {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ExistsEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	for _, u := range r.src.list() {
		if strings.EqualFold(u.Email, email) || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// CatalogTagRepo marcas y tipos en memoria.
type CatalogTagRepo struct {
	src rowSource[*entity.CatalogTag]
}

// NewCatalogTagRepository construye el repositorio sobre el store.
func NewCatalogTagRepository(s *Store) *CatalogTagRepo {
	return &CatalogTagRepo{src: direct[*entity.CatalogTag]{mu: &s.mu, c: s.tags}}
}

func (r *CatalogTagRepo) Create(_ context.Context, t *entity.CatalogTag) error { return r.src.insert(t) }

func (r *CatalogTagRepo) GetByID(_ context.Context, kind, id string) (*entity.CatalogTag, error) {
	t, ok := r.src.get(kind + ":" + id)
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (r *CatalogTagRepo) GetByName(_ context.Context, kind, name string) (*entity.CatalogTag, error) {
	for _, t := range r.src.list() {
		if t.Kind == kind && t.Name == name {
			return t, nil
		}
	}
	return nil, nil
}

func (r *CatalogTagRepo) Update(_ context.Context, t *entity.CatalogTag) error { return r.src.update(t) }

func (r *CatalogTagRepo) List(_ context.Context, kind string) ([]*entity.CatalogTag, error) {
	var out []*entity.CatalogTag
	for _, t := range r.src.list() {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return sortedBy(out, func(a, b *entity.CatalogTag) bool { return a.Name < b.Name }), nil
}

func (r *CatalogTagRepo) Delete(_ context.Context, kind, id string) error {
	r.src.remove(kind + ":" + id)
	return nil
}
