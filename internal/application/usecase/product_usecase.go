package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/pricing"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock central se maneja vía StockUseCase
// y los precios por sucursal vía el caso de uso de pricing.
type ProductUseCase struct {
	repo       repository.ProductRepository
	branchRepo repository.BranchRepository
	log        zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, branchRepo repository.BranchRepository, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, branchRepo: branchRepo, log: log}
}

// ListFilter filtros del listado. Search compara nombre, SKU y marca sin distinguir acentos.
type ListFilter struct {
	BranchID string
	Search   string
	Brand    string
	Category string
}

// Create crea un nuevo producto. Solo admin central.
func (uc *ProductUseCase) Create(ctx context.Context, p *entity.Principal, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !p.IsCentralAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Price.IsNegative() {
		return nil, domain.Invalid("price", "no puede ser negativo")
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             strings.TrimSpace(in.SKU),
		Name:            strings.TrimSpace(in.Name),
		Brand:           in.Brand,
		Category:        in.Category,
		Description:     in.Description,
		Price:           in.Price,
		CentralQuantity: in.CentralQuantity,
		Image:           in.Image,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto. Con branchID agrega la vista de esa sucursal.
func (uc *ProductUseCase) GetByID(ctx context.Context, id, branchID string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	branch, err := uc.optionalBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return withBranchView(product, branch), nil
}

// Update actualiza un producto. No toca stock central ni precios por sucursal.
func (uc *ProductUseCase) Update(ctx context.Context, p *entity.Principal, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !p.IsCentralAdmin() {
		return nil, domain.ErrForbidden
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil && *in.SKU != product.SKU {
		other, err := uc.repo.GetBySKU(ctx, *in.SKU)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
		product.SKU = *in.SKU
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.Invalid("price", "no puede ser negativo")
		}
		product.Price = *in.Price
	}
	if in.Image != nil {
		product.Image = *in.Image
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto. No verifica referencias: si alguna sucursal todavía lo tiene
// en stock solo se registra una advertencia.
func (uc *ProductUseCase) Delete(ctx context.Context, p *entity.Principal, id string) error {
	if !p.IsCentralAdmin() {
		return domain.ErrForbidden
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	branches, err := uc.branchRepo.List(ctx)
	if err != nil {
		return err
	}
	for _, b := range branches {
		if st, ok := b.FindStock(id); ok && st.Available+st.Reserved > 0 {
			uc.log.Warn().Str("product_id", id).Str("branch_id", b.ID).
				Int("available", st.Available).Int("reserved", st.Reserved).
				Msg("se elimina un producto con stock en sucursal")
		}
	}
	return uc.repo.Delete(ctx, id)
}

// List lista productos. Con BranchID cada producto trae disponible, reservado y precio efectivo de esa sucursal.
func (uc *ProductUseCase) List(ctx context.Context, f ListFilter) ([]dto.ProductResponse, error) {
	products, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	branch, err := uc.optionalBranch(ctx, f.BranchID)
	if err != nil {
		return nil, err
	}
	search := foldText(f.Search)
	items := make([]dto.ProductResponse, 0, len(products))
	for _, prod := range products {
		if f.Brand != "" && !strings.EqualFold(prod.Brand, f.Brand) {
			continue
		}
		if f.Category != "" && !strings.EqualFold(prod.Category, f.Category) {
			continue
		}
		if search != "" && !matchesSearch(prod, search) {
			continue
		}
		items = append(items, *withBranchView(prod, branch))
	}
	return items, nil
}

// ListByBranch productos con entrada en el ledger de la sucursal.
func (uc *ProductUseCase) ListByBranch(ctx context.Context, branchID string) ([]dto.ProductResponse, error) {
	branch, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("sucursal %s: %w", branchID, domain.ErrNotFound)
	}
	products, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(branch.Stock))
	for _, prod := range products {
		if _, ok := branch.FindStock(prod.ID); !ok {
			continue
		}
		items = append(items, *withBranchView(prod, branch))
	}
	return items, nil
}

func (uc *ProductUseCase) optionalBranch(ctx context.Context, branchID string) (*entity.Branch, error) {
	if branchID == "" {
		return nil, nil
	}
	branch, err := uc.branchRepo.GetByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("sucursal %s: %w", branchID, domain.ErrNotFound)
	}
	return branch, nil
}

func withBranchView(p *entity.Product, branch *entity.Branch) *dto.ProductResponse {
	out := toProductResponse(p)
	if branch == nil {
		return out
	}
	available, reserved := 0, 0
	if st, ok := branch.FindStock(p.ID); ok {
		available, reserved = st.Available, st.Reserved
	}
	price := pricing.ResolvePrice(p, branch.ID)
	out.BranchAvailable = &available
	out.BranchReserved = &reserved
	out.EffectivePrice = &price
	if bp := p.BranchPrice(branch.ID); bp != nil && bp.Markup != nil {
		m := *bp.Markup
		out.Markup = &m
	}
	return out
}

func matchesSearch(p *entity.Product, folded string) bool {
	return strings.Contains(foldText(p.Name), folded) ||
		strings.Contains(foldText(p.SKU), folded) ||
		strings.Contains(foldText(p.Brand), folded)
}

// foldText pasa a minúsculas y quita tildes ("Café" → "cafe").
func foldText(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	prices := make([]dto.BranchPriceDTO, 0, len(p.BranchPrices))
	for _, bp := range p.BranchPrices {
		prices = append(prices, dto.BranchPriceDTO{BranchID: bp.BranchID, Price: bp.Price, Markup: bp.Markup})
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Brand:           p.Brand,
		Category:        p.Category,
		Description:     p.Description,
		Price:           p.Price,
		CentralQuantity: p.CentralQuantity,
		Image:           p.Image,
		BranchPrices:    prices,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProductResponse expone el mapeo para los handlers que reciben entidades de otros casos de uso.
func ToProductResponse(p *entity.Product) *dto.ProductResponse { return toProductResponse(p) }
