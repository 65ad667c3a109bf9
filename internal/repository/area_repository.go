package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/rowstore"
)

// AreaRepository reads areas (directorates)
type AreaRepository interface {
	List(ctx context.Context) ([]domain.Area, error)
	GetByID(ctx context.Context, id int64) (*domain.Area, error)
}

type areaRepository struct {
	base
}

// NewAreaRepository creates a new repository instance
func NewAreaRepository(store rowstore.Store, pageSize int, logger *slog.Logger) AreaRepository {
	return &areaRepository{base: newBase(store, pageSize, logger)}
}

func areasQuery() rowstore.Query {
	return rowstore.Query{
		Table: TableAreas,
		Order: []rowstore.Order{rowstore.Asc("name"), rowstore.Asc("id")},
	}
}

func (r *areaRepository) List(ctx context.Context) ([]domain.Area, error) {
	const op = "repository.area.List"

	areas, err := fetch(ctx, r.base, areasQuery(), parseArea)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return areas, nil
}

func (r *areaRepository) GetByID(ctx context.Context, id int64) (*domain.Area, error) {
	const op = "repository.area.GetByID"

	row, err := rowstore.SelectOne[areaRow](ctx, r.store, areasQuery().Where(rowstore.Eq("id", id)))
	if err != nil {
		if errors.Is(err, rowstore.ErrNoRows) {
			return nil, domain.ErrAreaNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	area, ok := parseArea(row)
	if !ok {
		return nil, domain.ErrAreaNotFound
	}
	return &area, nil
}
