package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/rowstore"
)

// DistributionRepository reads and writes activity distributions
type DistributionRepository interface {
	List(ctx context.Context) ([]domain.Distribution, error)
	ListByEmployees(ctx context.Context, employeeIDs []string) ([]domain.Distribution, error)
	// Upsert replaces any stored row with the same (employee, activity) pair
	Upsert(ctx context.Context, rows []domain.Distribution) error
	DeleteByEmployee(ctx context.Context, employeeID string) (int64, error)
	DeleteByActivity(ctx context.Context, activityID string) (int64, error)
}

type distributionRepository struct {
	base
}

// NewDistributionRepository creates a new repository instance
func NewDistributionRepository(store rowstore.Store, pageSize int, logger *slog.Logger) DistributionRepository {
	return &distributionRepository{base: newBase(store, pageSize, logger)}
}

func distributionsQuery() rowstore.Query {
	return rowstore.Query{
		Table: TableDistributions,
		Order: []rowstore.Order{rowstore.Asc("employee_id"), rowstore.Asc("activity_id")},
	}
}

func (r *distributionRepository) List(ctx context.Context) ([]domain.Distribution, error) {
	const op = "repository.distribution.List"

	rows, err := fetch(ctx, r.base, distributionsQuery(), parseDistribution)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

func (r *distributionRepository) ListByEmployees(ctx context.Context, employeeIDs []string) ([]domain.Distribution, error) {
	const op = "repository.distribution.ListByEmployees"

	rows, err := fetchIn(ctx, r.base, distributionsQuery(), "employee_id", dedupe(employeeIDs), parseDistribution)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

func (r *distributionRepository) Upsert(ctx context.Context, rows []domain.Distribution) error {
	const op = "repository.distribution.Upsert"

	if len(rows) == 0 {
		return nil
	}

	batch := make([]distributionRow, len(rows))
	for i, d := range rows {
		batch[i] = toDistributionRow(d)
	}

	if err := r.store.Upsert(ctx, TableDistributions, batch, "employee_id", "activity_id"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *distributionRepository) DeleteByEmployee(ctx context.Context, employeeID string) (int64, error) {
	const op = "repository.distribution.DeleteByEmployee"

	n, err := r.store.Delete(ctx, TableDistributions, rowstore.Eq("employee_id", employeeID))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (r *distributionRepository) DeleteByActivity(ctx context.Context, activityID string) (int64, error) {
	const op = "repository.distribution.DeleteByActivity"

	n, err := r.store.Delete(ctx, TableDistributions, rowstore.Eq("activity_id", activityID))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
