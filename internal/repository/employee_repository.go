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

// EmployeeRepository reads employees
type EmployeeRepository interface {
	List(ctx context.Context) ([]domain.Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Employee, error)
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
}

type employeeRepository struct {
	base
}

// NewEmployeeRepository creates a new repository instance
func NewEmployeeRepository(store rowstore.Store, pageSize int, logger *slog.Logger) EmployeeRepository {
	return &employeeRepository{base: newBase(store, pageSize, logger)}
}

func employeesQuery() rowstore.Query {
	return rowstore.Query{
		Table: TableEmployees,
		Order: []rowstore.Order{rowstore.Asc("name"), rowstore.Asc("id")},
	}
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	const op = "repository.employee.List"

	employees, err := fetch(ctx, r.base, employeesQuery(), parseEmployee)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return employees, nil
}

func (r *employeeRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Employee, error) {
	const op = "repository.employee.ListByIDs"

	employees, err := fetchIn(ctx, r.base, employeesQuery(), "id", dedupe(ids), parseEmployee)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return employees, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	const op = "repository.employee.GetByID"

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrEmptyEmployeeID
	}

	row, err := rowstore.SelectOne[employeeRow](ctx, r.store, employeesQuery().Where(rowstore.Eq("id", id)))
	if err != nil {
		if errors.Is(err, rowstore.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	emp, ok := parseEmployee(row)
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return &emp, nil
}
