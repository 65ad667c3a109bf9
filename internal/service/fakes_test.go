package service

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"github.com/stretchr/testify/mock"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

type fakeEmployees struct {
	employees []domain.Employee
	err       error
}

func (f *fakeEmployees) List(ctx context.Context) ([]domain.Employee, error) {
	return slices.Clone(f.employees), f.err
}

func (f *fakeEmployees) ListByIDs(ctx context.Context, ids []string) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, e := range f.employees {
		if slices.Contains(ids, e.ID) {
			out = append(out, e)
		}
	}
	return out, f.err
}

func (f *fakeEmployees) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.employees {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, domain.ErrEmployeeNotFound
}

type fakeAreas struct {
	areas []domain.Area
}

func (f *fakeAreas) List(ctx context.Context) ([]domain.Area, error) {
	return slices.Clone(f.areas), nil
}

func (f *fakeAreas) GetByID(ctx context.Context, id int64) (*domain.Area, error) {
	for _, a := range f.areas {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, domain.ErrAreaNotFound
}

// fakeDistributions keeps rows keyed by (employee, activity) like the real table
type fakeDistributions struct {
	rows    []domain.Distribution
	upserts int
	err     error
}

func (f *fakeDistributions) List(ctx context.Context) ([]domain.Distribution, error) {
	return slices.Clone(f.rows), f.err
}

func (f *fakeDistributions) ListByEmployees(ctx context.Context, ids []string) ([]domain.Distribution, error) {
	var out []domain.Distribution
	for _, d := range f.rows {
		if slices.Contains(ids, d.EmployeeID) {
			out = append(out, d)
		}
	}
	return out, f.err
}

func (f *fakeDistributions) Upsert(ctx context.Context, rows []domain.Distribution) error {
	if f.err != nil {
		return f.err
	}
	f.upserts++
	for _, d := range rows {
		i := slices.IndexFunc(f.rows, func(x domain.Distribution) bool {
			return x.EmployeeID == d.EmployeeID && x.ActivityID == d.ActivityID
		})
		if i >= 0 {
			f.rows[i] = d
		} else {
			f.rows = append(f.rows, d)
		}
	}
	return nil
}

func (f *fakeDistributions) DeleteByEmployee(ctx context.Context, id string) (int64, error) {
	return f.deleteWhere(func(d domain.Distribution) bool { return d.EmployeeID == id })
}

func (f *fakeDistributions) DeleteByActivity(ctx context.Context, id string) (int64, error) {
	return f.deleteWhere(func(d domain.Distribution) bool { return d.ActivityID == id })
}

func (f *fakeDistributions) deleteWhere(match func(domain.Distribution) bool) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	before := len(f.rows)
	f.rows = slices.DeleteFunc(f.rows, match)
	return int64(before - len(f.rows)), nil
}

func (f *fakeDistributions) of(employeeID string) []domain.Distribution {
	var out []domain.Distribution
	for _, d := range f.rows {
		if d.EmployeeID == employeeID {
			out = append(out, d)
		}
	}
	return out
}

type fakeActivities struct {
	activities []domain.Activity
}

func (f *fakeActivities) List(ctx context.Context, filter repository.ActivityFilter) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, a := range f.activities {
		if filter.AreaID != nil && (a.AreaID == nil || *a.AreaID != *filter.AreaID) {
			continue
		}
		if filter.CostCenter != "" && a.CostCenter != filter.CostCenter {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeActivities) ListByIDs(ctx context.Context, ids []string) ([]domain.Activity, error) {
	var out []domain.Activity
	for _, a := range f.activities {
		if slices.Contains(ids, a.ID) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActivities) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	for _, a := range f.activities {
		if a.ID == id {
			return &a, nil
		}
	}
	return nil, domain.ErrActivityNotFound
}

func (f *fakeActivities) Create(ctx context.Context, a *domain.Activity) error {
	f.activities = append(f.activities, *a)
	return nil
}

func (f *fakeActivities) Update(ctx context.Context, a *domain.Activity) error {
	for i := range f.activities {
		if f.activities[i].ID == a.ID {
			f.activities[i] = *a
			return nil
		}
	}
	return domain.ErrActivityNotFound
}

func (f *fakeActivities) Delete(ctx context.Context, id string) error {
	before := len(f.activities)
	f.activities = slices.DeleteFunc(f.activities, func(a domain.Activity) bool { return a.ID == id })
	if len(f.activities) == before {
		return domain.ErrActivityNotFound
	}
	return nil
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type mockOwners struct {
	mock.Mock
}

func (m *mockOwners) ListByEmployee(ctx context.Context, id string) ([]domain.CostCenterOwner, error) {
	args := m.Called(ctx, id)
	owned, _ := args.Get(0).([]domain.CostCenterOwner)
	return owned, args.Error(1)
}

func employee(id, name, reportsTo string, capacity float64) domain.Employee {
	e := domain.Employee{ID: id, Name: name, Unit: "Plant A", CostCenter: "CC-" + id}
	if reportsTo != "" {
		e.ReportsTo = ptr(reportsTo)
	}
	if capacity > 0 {
		e.Capacity = ptr(capacity)
	}
	return e
}

// org is a small chart:
//
//	dir (area 1)
//	├── mgr
//	│   ├── ana
//	│   └── bia
//	└── out
func org() []domain.Employee {
	dir := employee("dir", "Diana", "", 160)
	dir.AreaID = ptr(int64(1))
	return []domain.Employee{
		dir,
		employee("mgr", "Marcos", "dir", 160),
		employee("ana", "Ana", "mgr", 160),
		employee("bia", "Bia", "mgr", 100),
		employee("out", "Otto", "dir", 160),
	}
}

func testDeps(employees []domain.Employee, areas []domain.Area) Deps {
	return Deps{
		Employees: &fakeEmployees{employees: employees},
		Areas:     &fakeAreas{areas: areas},
		Logger:    discardLogger(),
	}
}

func filler(employeeID string, scope ...string) *Principal {
	return NewPrincipal(domain.User{ID: "u-" + employeeID, Role: domain.RoleFiller, Active: true, EmployeeID: ptr(employeeID)}, scope...)
}

func admin() *Principal {
	return NewPrincipal(domain.User{ID: "root", Role: domain.RoleAdmin, Active: true})
}
