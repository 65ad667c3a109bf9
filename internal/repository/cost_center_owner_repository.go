package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/rowstore"
)

// CostCenterOwnerRepository reads the cost centers each employee answers for
type CostCenterOwnerRepository interface {
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.CostCenterOwner, error)
}

type costCenterOwnerRepository struct {
	base
}

// NewCostCenterOwnerRepository creates a new repository instance
func NewCostCenterOwnerRepository(store rowstore.Store, pageSize int, logger *slog.Logger) CostCenterOwnerRepository {
	return &costCenterOwnerRepository{base: newBase(store, pageSize, logger)}
}

func (r *costCenterOwnerRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.CostCenterOwner, error) {
	const op = "repository.costCenterOwner.ListByEmployee"

	q := rowstore.Query{
		Table: TableCostCenterOwners,
		Order: []rowstore.Order{rowstore.Asc("unit"), rowstore.Asc("cost_center")},
	}.Where(rowstore.Eq("employee_id", employeeID))

	owners, err := fetch(ctx, r.base, q, parseCostCenterOwner)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return owners, nil
}
