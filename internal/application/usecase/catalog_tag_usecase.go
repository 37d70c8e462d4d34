package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Sucursales-api/internal/application/dto"
	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

// CatalogTagUseCase marcas y tipos de producto. El nombre es único por Kind.
type CatalogTagUseCase struct {
	repo        repository.CatalogTagRepository
	productRepo repository.ProductRepository
	log         zerolog.Logger
}

// NewCatalogTagUseCase construye el caso de uso.
func NewCatalogTagUseCase(repo repository.CatalogTagRepository, productRepo repository.ProductRepository, log zerolog.Logger) *CatalogTagUseCase {
	return &CatalogTagUseCase{repo: repo, productRepo: productRepo, log: log}
}

// List lista las etiquetas de un Kind ordenadas por nombre.
func (uc *CatalogTagUseCase) List(ctx context.Context, kind string) ([]dto.TagResponse, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TagResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTagResponse(t))
	}
	return out, nil
}

// Create da de alta una marca o tipo. Solo admin central.
func (uc *CatalogTagUseCase) Create(ctx context.Context, p *entity.Principal, kind string, in dto.TagRequest) (*dto.TagResponse, error) {
	if !p.IsCentralAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es requerido")
	}
	if err := uc.ensureFree(ctx, kind, name, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	tag := &entity.CatalogTag{ID: uuid.New().String(), Kind: kind, Name: name, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	res := toTagResponse(tag)
	return &res, nil
}

// Update renombra una marca o tipo. Renombrar una marca actualiza los productos que la usan.
func (uc *CatalogTagUseCase) Update(ctx context.Context, p *entity.Principal, kind, id string, in dto.TagRequest) (*dto.TagResponse, error) {
	if !p.IsCentralAdmin() {
		return nil, domain.ErrForbidden
	}
	tag, err := uc.get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "es requerido")
	}
	if err := uc.ensureFree(ctx, kind, name, id); err != nil {
		return nil, err
	}
	oldName := tag.Name
	tag.Name = name
	tag.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, tag); err != nil {
		return nil, err
	}
	if kind == entity.TagBrand && oldName != name {
		n, err := uc.productRepo.RenameBrand(ctx, oldName, name)
		if err != nil {
			return nil, err
		}
		uc.log.Info().Str("from", oldName).Str("to", name).Int("products", n).Msg("marca renombrada")
	}
	res := toTagResponse(tag)
	return &res, nil
}

// Delete elimina una marca o tipo. Los productos conservan el texto.
func (uc *CatalogTagUseCase) Delete(ctx context.Context, p *entity.Principal, kind, id string) error {
	if !p.IsCentralAdmin() {
		return domain.ErrForbidden
	}
	if _, err := uc.get(ctx, kind, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, kind, id)
}

func (uc *CatalogTagUseCase) get(ctx context.Context, kind, id string) (*entity.CatalogTag, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	tag, err := uc.repo.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, domain.ErrNotFound
	}
	return tag, nil
}

// ensureFree falla con ErrDuplicate si otra etiqueta del mismo Kind ya usa el nombre.
func (uc *CatalogTagUseCase) ensureFree(ctx context.Context, kind, name, selfID string) error {
	other, err := uc.repo.GetByName(ctx, kind, name)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return domain.ErrDuplicate
	}
	return nil
}

func checkKind(kind string) error {
	if kind != entity.TagBrand && kind != entity.TagType {
		return domain.Invalid("kind", "debe ser brand o type")
	}
	return nil
}

func toTagResponse(t *entity.CatalogTag) dto.TagResponse {
	return dto.TagResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}
