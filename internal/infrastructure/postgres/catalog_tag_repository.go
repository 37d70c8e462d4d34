package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/Sucursales-api/internal/domain"
	"github.com/jhoicas/Sucursales-api/internal/domain/entity"
	"github.com/jhoicas/Sucursales-api/internal/domain/repository"
)

var _ repository.CatalogTagRepository = (*CatalogTagRepo)(nil)

var tagColumns = []string{"id", "kind", "name", "created_at", "updated_at"}

type tagRow struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CatalogTagRepo marcas y tipos; (kind, name) es único.
type CatalogTagRepo struct {
	q Querier
}

// NewCatalogTagRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogTagRepository(q Querier) *CatalogTagRepo {
	return &CatalogTagRepo{q: q}
}

func (r *CatalogTagRepo) Create(ctx context.Context, t *entity.CatalogTag) error {
	ins := psql.Insert("catalog_tags").Columns(tagColumns...).
		Values(t.ID, t.Kind, t.Name, t.CreatedAt, t.UpdatedAt)
	_, err := exec(ctx, r.q, ins, "insert catalog tag")
	return err
}

func (r *CatalogTagRepo) GetByID(ctx context.Context, kind, id string) (*entity.CatalogTag, error) {
	return r.getOne(ctx, squirrel.Eq{"kind": kind, "id": id})
}

func (r *CatalogTagRepo) GetByName(ctx context.Context, kind, name string) (*entity.CatalogTag, error) {
	return r.getOne(ctx, squirrel.Eq{"kind": kind, "name": name})
}

func (r *CatalogTagRepo) Update(ctx context.Context, t *entity.CatalogTag) error {
	upd := psql.Update("catalog_tags").
		Set("name", t.Name).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"kind": t.Kind, "id": t.ID})
	tag, err := exec(ctx, r.q, upd, "update catalog tag")
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CatalogTagRepo) List(ctx context.Context, kind string) ([]*entity.CatalogTag, error) {
	sql, args, err := psql.Select(tagColumns...).From("catalog_tags").
		Where(squirrel.Eq{"kind": kind}).OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list catalog tags: %w", err)
	}
	var rows []tagRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list catalog tags: %w", err)
	}
	out := make([]*entity.CatalogTag, 0, len(rows))
	for _, row := range rows {
		t := entity.CatalogTag(row)
		out = append(out, &t)
	}
	return out, nil
}

func (r *CatalogTagRepo) Delete(ctx context.Context, kind, id string) error {
	_, err := exec(ctx, r.q, psql.Delete("catalog_tags").Where(squirrel.Eq{"kind": kind, "id": id}), "delete catalog tag")
	return err
}

func (r *CatalogTagRepo) getOne(ctx context.Context, where squirrel.Sqlizer) (*entity.CatalogTag, error) {
	sql, args, err := psql.Select(tagColumns...).From("catalog_tags").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get catalog tag: %w", err)
	}
	var row tagRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog tag: %w", err)
	}
	t := entity.CatalogTag(row)
	return &t, nil
}
