package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/rowstore"
)

// ActivityFilter narrows an activity listing. Zero fields do not filter.
type ActivityFilter struct {
	AreaID     *int64
	CostCenter string
}

// ActivityRepository reads and writes activities
type ActivityRepository interface {
	List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Activity, error)
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	Create(ctx context.Context, activity *domain.Activity) error
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id string) error
}

type activityRepository struct {
	base
}

// NewActivityRepository creates a new repository instance
func NewActivityRepository(store rowstore.Store, pageSize int, logger *slog.Logger) ActivityRepository {
	return &activityRepository{base: newBase(store, pageSize, logger)}
}

func activitiesQuery() rowstore.Query {
	return rowstore.Query{
		Table: TableActivities,
		Order: []rowstore.Order{rowstore.Asc("name"), rowstore.Asc("id")},
	}
}

func (r *activityRepository) List(ctx context.Context, filter ActivityFilter) ([]domain.Activity, error) {
	const op = "repository.activity.List"

	q := activitiesQuery()
	if filter.AreaID != nil {
		q = q.Where(rowstore.Eq("area_id", *filter.AreaID))
	}
	if cc := strings.TrimSpace(filter.CostCenter); cc != "" {
		q = q.Where(rowstore.Eq("cost_center", cc))
	}

	activities, err := fetch(ctx, r.base, q, parseActivity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return activities, nil
}

func (r *activityRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Activity, error) {
	const op = "repository.activity.ListByIDs"

	activities, err := fetchIn(ctx, r.base, activitiesQuery(), "id", dedupe(ids), parseActivity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return activities, nil
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	const op = "repository.activity.GetByID"

	row, err := rowstore.SelectOne[activityRow](ctx, r.store, activitiesQuery().Where(rowstore.Eq("id", strings.TrimSpace(id))))
	if err != nil {
		if errors.Is(err, rowstore.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	activity, ok := parseActivity(row)
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	return &activity, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	const op = "repository.activity.Create"

	if err := r.store.Insert(ctx, TableActivities, []activityRow{toActivityRow(*activity)}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *activityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	const op = "repository.activity.Update"

	patch := map[string]any{
		"name":               activity.Name,
		"description":        activity.Description,
		"type":               activity.Type,
		"client":             activity.Client,
		"required_resources": activity.RequiredResources,
		"area_id":            activity.AreaID,
		"cost_center":        activity.CostCenter,
	}

	n, err := r.store.Update(ctx, TableActivities, patch, rowstore.Eq("id", activity.ID))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	const op = "repository.activity.Delete"

	n, err := r.store.Delete(ctx, TableActivities, rowstore.Eq("id", id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}
