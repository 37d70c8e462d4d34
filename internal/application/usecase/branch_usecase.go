package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

// BranchUseCase casos de uso CRUD para sucursales, tasa de cambio y precios heredados.
// El ledger de stock no se toca acá: lo modifican órdenes, solicitudes y transferencias.
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// Create crea una nueva sucursal. Solo admin central.
func (uc *BranchUseCase) Create(ctx context.Context, p *entity.Principal, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if !p.IsCentralAdmin() {
		return nil, domain.ErrForbidden
	}
	rate := entity.DefaultExchangeRate
	if in.ExchangeRate != nil {
		if !in.ExchangeRate.IsPositive() {
			return nil, domain.Invalid("exchangeRate", "debe ser mayor a 0")
		}
		rate = *in.ExchangeRate
	}
	markup := entity.DefaultBranchMarkup
	if in.DefaultMarkup != nil {
		if in.DefaultMarkup.IsNegative() {
			return nil, domain.Invalid("defaultMarkup", "no puede ser negativo")
		}
		markup = *in.DefaultMarkup
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Number:        in.Number,
		Address:       in.Address,
		City:          in.City,
		Province:      in.Province,
		Phone:         in.Phone,
		AdminID:       in.AdminID,
		ExchangeRate:  rate,
		DefaultMarkup: markup,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// GetByID obtiene una sucursal por ID.
func (uc *BranchUseCase) GetByID(ctx context.Context, id string) (*dto.BranchResponse, error) {
	branch, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// List lista todas las sucursales.
func (uc *BranchUseCase) List(ctx context.Context) ([]dto.BranchResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBranchResponse(b))
	}
	return items, nil
}

// Update actualiza los datos de contacto de la sucursal. Admin central o el admin de esa sucursal.
func (uc *BranchUseCase) Update(ctx context.Context, p *entity.Principal, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	if !p.CanManageBranch(id) {
		return nil, domain.ErrForbidden
	}
	branch, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		branch.Name = *in.Name
	}
	if in.Number != nil {
		branch.Number = *in.Number
	}
	if in.Address != nil {
		branch.Address = *in.Address
	}
	if in.City != nil {
		branch.City = *in.City
	}
	if in.Province != nil {
		branch.Province = *in.Province
	}
	if in.Phone != nil {
		branch.Phone = *in.Phone
	}
	if in.AdminID != nil {
		if !p.IsCentralAdmin() {
			return nil, domain.ErrForbidden
		}
		branch.AdminID = *in.AdminID
	}
	if in.DefaultMarkup != nil {
		if in.DefaultMarkup.IsNegative() {
			return nil, domain.Invalid("defaultMarkup", "no puede ser negativo")
		}
		branch.DefaultMarkup = *in.DefaultMarkup
	}
	return uc.save(ctx, branch)
}

// Delete elimina una sucursal. Solo admin central.
func (uc *BranchUseCase) Delete(ctx context.Context, p *entity.Principal, id string) error {
	if !p.IsCentralAdmin() {
		return domain.ErrForbidden
	}
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// UpdateExchangeRate guarda la tasa de cambio. No recalcula precios: eso lo hace el recálculo masivo.
func (uc *BranchUseCase) UpdateExchangeRate(ctx context.Context, p *entity.Principal, id string, rate decimal.Decimal) (*dto.BranchResponse, error) {
	if !p.CanManageBranch(id) {
		return nil, domain.ErrForbidden
	}
	if !rate.IsPositive() {
		return nil, domain.Invalid("exchangeRate", "debe ser mayor a 0")
	}
	branch, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	branch.ExchangeRate = rate
	return uc.save(ctx, branch)
}

// GetProductPrices devuelve los precios del esquema anterior.
func (uc *BranchUseCase) GetProductPrices(ctx context.Context, p *entity.Principal, id string) ([]dto.LegacyProductPriceDTO, error) {
	if !p.CanManageBranch(id) {
		return nil, domain.ErrForbidden
	}
	branch, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLegacyPrices(branch.ProductPrices), nil
}

// UpdateProductPrices reemplaza los precios del esquema anterior.
func (uc *BranchUseCase) UpdateProductPrices(ctx context.Context, p *entity.Principal, id string, prices []dto.LegacyProductPriceDTO) ([]dto.LegacyProductPriceDTO, error) {
	if !p.CanManageBranch(id) {
		return nil, domain.ErrForbidden
	}
	branch, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(prices))
	out := make([]entity.LegacyProductPrice, 0, len(prices))
	for _, lp := range prices {
		if lp.ProductID == "" {
			return nil, domain.Invalid("productPrices", "productId es requerido")
		}
		if seen[lp.ProductID] {
			return nil, domain.Invalid("productPrices", "producto duplicado "+lp.ProductID)
		}
		if lp.FinalPrice.IsNegative() {
			return nil, domain.Invalid("productPrices", "finalPrice no puede ser negativo")
		}
		seen[lp.ProductID] = true
		out = append(out, entity.LegacyProductPrice{ProductID: lp.ProductID, ProfitMargin: lp.ProfitMargin, FinalPrice: lp.FinalPrice})
	}
	branch.ProductPrices = out
	if _, err := uc.save(ctx, branch); err != nil {
		return nil, err
	}
	return toLegacyPrices(out), nil
}

func (uc *BranchUseCase) get(ctx context.Context, id string) (*entity.Branch, error) {
	branch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	return branch, nil
}

func (uc *BranchUseCase) save(ctx context.Context, branch *entity.Branch) (*dto.BranchResponse, error) {
	branch.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

func toLegacyPrices(list []entity.LegacyProductPrice) []dto.LegacyProductPriceDTO {
	out := make([]dto.LegacyProductPriceDTO, 0, len(list))
	for _, lp := range list {
		out = append(out, dto.LegacyProductPriceDTO{ProductID: lp.ProductID, ProfitMargin: lp.ProfitMargin, FinalPrice: lp.FinalPrice})
	}
	return out
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	stock := make([]dto.StockEntryDTO, 0, len(b.Stock))
	for _, e := range b.Stock {
		stock = append(stock, dto.StockEntryDTO{ProductID: e.ProductID, Quantity: e.Available, ReservedQuantity: e.Reserved})
	}
	return &dto.BranchResponse{
		ID:            b.ID,
		Name:          b.Name,
		Number:        b.Number,
		Address:       b.Address,
		City:          b.City,
		Province:      b.Province,
		Phone:         b.Phone,
		AdminID:       b.AdminID,
		ExchangeRate:  b.ExchangeRate,
		DefaultMarkup: b.DefaultMarkup,
		Stock:         stock,
		ProductPrices: toLegacyPrices(b.ProductPrices),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// ToBranchResponse expone el mapeo para los handlers que reciben entidades de otros casos de uso.
func ToBranchResponse(b *entity.Branch) *dto.BranchResponse { return toBranchResponse(b) }
