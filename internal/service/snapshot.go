package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/hierarchy"
	"github.com/workforce-api/internal/repository"
)

// orgSnapshot is the organization as loaded for one request
type orgSnapshot struct {
	employees []domain.Employee
	areas     []domain.Area
	full      *hierarchy.Resolver
}

// loader reads the employee and area tables in parallel. Repeated loads are
// served by the caching row store underneath the repositories.
type loader struct {
	empRepo  repository.EmployeeRepository
	areaRepo repository.AreaRepository
	locale   language.Tag
	logger   *slog.Logger
}

func (l *loader) load(ctx context.Context) (*orgSnapshot, error) {
	const op = "service.loader.load"

	var (
		employees []domain.Employee
		areas     []domain.Area
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = l.empRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		areas, err = l.areaRepo.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		l.logger.Error("failed to load organization", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &orgSnapshot{
		employees: employees,
		areas:     areas,
		full:      hierarchy.NewResolver(hierarchy.NewSnapshot(employees), areas, hierarchy.WithLocale(l.locale)),
	}, nil
}

// scoped returns a resolver that walks only the employees p may see and
// falls back to the whole organization to name responsible parties
func (s *orgSnapshot) scoped(p *Principal, locale language.Tag) *hierarchy.Resolver {
	if p.IsAdmin() {
		return s.full
	}
	return hierarchy.NewResolver(
		hierarchy.NewSnapshot(s.visible(p)),
		s.areas,
		hierarchy.WithSupplementary(s.full.Snapshot()),
		hierarchy.WithLocale(locale),
	)
}

func (s *orgSnapshot) visible(p *Principal) []domain.Employee {
	if p.IsAdmin() {
		return s.employees
	}
	out := make([]domain.Employee, 0, len(p.scope))
	for _, e := range s.employees {
		if p.CanSee(e.ID) {
			out = append(out, e)
		}
	}
	return out
}
