package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/workforce-api/internal/distribution"
	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/dto"
	"github.com/workforce-api/internal/repository"
)

// SaveResult reports how an edit was persisted
type SaveResult struct {
	Saved      int
	Incomplete int
}

// CopyResult reports which employees received copied rows
type CopyResult struct {
	Targets []string
	Rows    int
}

// DistributionService reads and changes the activity distribution of employees
type DistributionService interface {
	Summary(ctx context.Context, p *Principal, employeeID string) (*distribution.Summary, error)
	Summaries(ctx context.Context, p *Principal, query *dto.EmployeeQuery) ([]distribution.Summary, error)
	Save(ctx context.Context, p *Principal, employeeID string, rows []domain.Distribution) (*SaveResult, error)
	Clear(ctx context.Context, p *Principal, employeeID string) (int64, error)
	Copy(ctx context.Context, p *Principal, req *dto.CopyDistributionsRequest) (*CopyResult, error)
	FillRemaining(ctx context.Context, p *Principal, req *dto.FillRemainingRequest) ([]string, error)
}

type distributionService struct {
	distRepo     repository.DistributionRepository
	activityRepo repository.ActivityRepository
	empRepo      repository.EmployeeRepository
	loader       *loader
	logger       *slog.Logger
}

// NewDistributionService creates a new service instance
func NewDistributionService(
	distRepo repository.DistributionRepository,
	activityRepo repository.ActivityRepository,
	deps Deps,
) DistributionService {
	return &distributionService{
		distRepo:     distRepo,
		activityRepo: activityRepo,
		empRepo:      deps.Employees,
		loader:       deps.loader(),
		logger:       deps.Logger,
	}
}

func (s *distributionService) Summary(ctx context.Context, p *Principal, employeeID string) (*distribution.Summary, error) {
	if err := p.authorizeRead(employeeID); err != nil {
		return nil, err
	}

	var (
		employee *domain.Employee
		rows     []domain.Distribution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employee, err = s.empRepo.GetByID(gctx, employeeID)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.distRepo.ListByEmployees(gctx, []string{employeeID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names, err := s.activityNames(ctx, rows)
	if err != nil {
		return nil, err
	}
	summary := distribution.Summarize(*employee, rows, names)
	return &summary, nil
}

// Summaries returns one summary per visible employee matching query, in name order
func (s *distributionService) Summaries(ctx context.Context, p *Principal, query *dto.EmployeeQuery) ([]distribution.Summary, error) {
	org, err := s.loader.load(ctx)
	if err != nil {
		return nil, err
	}

	var (
		employees []domain.Employee
		ids       []string
	)
	for _, e := range org.visible(p) {
		if matchesEmployeeQuery(e, query) {
			employees = append(employees, e)
			ids = append(ids, e.ID)
		}
	}
	if len(employees) == 0 {
		return []distribution.Summary{}, nil
	}

	rows, err := s.distRepo.ListByEmployees(ctx, ids)
	if err != nil {
		return nil, err
	}
	names, err := s.activityNames(ctx, rows)
	if err != nil {
		return nil, err
	}

	byEmployee := distribution.GroupByEmployee(rows)
	out := make([]distribution.Summary, 0, len(employees))
	for _, e := range employees {
		out = append(out, distribution.Summarize(e, byEmployee[e.ID], names))
	}
	return out, nil
}

// Save upserts the complete rows of an edit. Incomplete rows are counted and
// dropped; when nothing is complete no write happens.
func (s *distributionService) Save(ctx context.Context, p *Principal, employeeID string, rows []domain.Distribution) (*SaveResult, error) {
	const op = "service.distribution.Save"

	if err := p.authorizeWrite(employeeID); err != nil {
		return nil, err
	}
	if _, err := s.empRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	batch := distribution.PrepareBatch(employeeID, rows)
	if len(batch.Rows) == 0 {
		return nil, domain.ErrNoValidRows
	}

	if err := s.distRepo.Upsert(ctx, batch.Rows); err != nil {
		s.logger.Error("failed to save distribution",
			slog.String("op", op),
			slog.String("employee_id", employeeID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("distribution saved",
		slog.String("employee_id", employeeID),
		slog.Int("saved", len(batch.Rows)),
		slog.Int("incomplete", batch.Incomplete),
	)
	return &SaveResult{Saved: len(batch.Rows), Incomplete: batch.Incomplete}, nil
}

func (s *distributionService) Clear(ctx context.Context, p *Principal, employeeID string) (int64, error) {
	const op = "service.distribution.Clear"

	if err := p.authorizeWrite(employeeID); err != nil {
		return 0, err
	}
	n, err := s.distRepo.DeleteByEmployee(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to clear distribution",
			slog.String("op", op),
			slog.String("employee_id", employeeID),
			slog.Any("error", err),
		)
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// Copy replaces the rows of every target with the complete rows of the source
func (s *distributionService) Copy(ctx context.Context, p *Principal, req *dto.CopyDistributionsRequest) (*CopyResult, error) {
	const op = "service.distribution.Copy"

	source := strings.TrimSpace(req.SourceEmployeeID)
	if err := p.authorizeRead(source); err != nil {
		return nil, err
	}
	targets := make([]string, 0, len(req.TargetEmployeeIDs))
	for _, id := range req.TargetEmployeeIDs {
		id = strings.TrimSpace(id)
		if id == source || id == "" {
			continue
		}
		if err := p.authorizeWrite(id); err != nil {
			return nil, err
		}
		targets = append(targets, id)
	}
	if err := s.requireEmployees(ctx, append(targets, source)); err != nil {
		return nil, err
	}

	rows, err := s.distRepo.ListByEmployees(ctx, []string{source})
	if err != nil {
		return nil, err
	}
	grid := distribution.NewGrid(rows)
	grid.CopyFrom(source, targets)

	result := &CopyResult{Targets: []string{}}
	for _, target := range grid.Dirty() {
		copied := grid.Rows(target)
		if _, err := s.distRepo.DeleteByEmployee(ctx, target); err != nil {
			return nil, fmt.Errorf("%s: clear %s: %w", op, target, err)
		}
		if err := s.distRepo.Upsert(ctx, copied); err != nil {
			return nil, fmt.Errorf("%s: save %s: %w", op, target, err)
		}
		grid.MarkSaved(target)
		result.Targets = append(result.Targets, target)
		result.Rows = len(copied)
	}

	s.logger.Info("distribution copied",
		slog.String("source", source),
		slog.Int("targets", len(result.Targets)),
		slog.Int("rows", result.Rows),
	)
	return result, nil
}

// FillRemaining gives each employee's unallocated capacity to one activity
func (s *distributionService) FillRemaining(ctx context.Context, p *Principal, req *dto.FillRemainingRequest) ([]string, error) {
	const op = "service.distribution.FillRemaining"

	ids := make([]string, 0, len(req.EmployeeIDs))
	for _, id := range req.EmployeeIDs {
		id = strings.TrimSpace(id)
		if err := p.authorizeWrite(id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	activityID := strings.TrimSpace(req.ActivityID)
	if _, err := s.activityRepo.GetByID(ctx, activityID); err != nil {
		return nil, err
	}

	var (
		employees []domain.Employee
		rows      []domain.Distribution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.empRepo.ListByIDs(gctx, ids)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.distRepo.ListByEmployees(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	capacities := make(map[string]float64, len(employees))
	for _, e := range employees {
		capacities[e.ID] = e.CapacityHours()
	}

	grid := distribution.NewGrid(rows)
	changed := grid.FillRemaining(capacities, ids, activityID)

	var filled []domain.Distribution
	for _, id := range changed {
		for _, d := range grid.Rows(id) {
			if d.ActivityID == activityID {
				filled = append(filled, d)
			}
		}
	}
	if err := s.distRepo.Upsert(ctx, filled); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if changed == nil {
		changed = []string{}
	}

	s.logger.Info("remaining capacity filled",
		slog.String("activity_id", activityID),
		slog.Int("changed", len(changed)),
	)
	return changed, nil
}

func (s *distributionService) requireEmployees(ctx context.Context, ids []string) error {
	found, err := s.empRepo.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(found))
	for _, e := range found {
		known[e.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrEmployeeNotFound, id)
		}
	}
	return nil
}

// activityNames maps the activities referenced by rows to their names
func (s *distributionService) activityNames(ctx context.Context, rows []domain.Distribution) (map[string]string, error) {
	ids := make([]string, 0, len(rows))
	for _, d := range rows {
		ids = append(ids, d.ActivityID)
	}
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	activities, err := s.activityRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(activities))
	for _, a := range activities {
		names[a.ID] = a.Name
	}
	return names, nil
}

func matchesEmployeeQuery(e domain.Employee, q *dto.EmployeeQuery) bool {
	if q == nil {
		return true
	}
	if q.Unit != "" && !strings.EqualFold(strings.TrimSpace(e.Unit), strings.TrimSpace(q.Unit)) {
		return false
	}
	if q.CostCenter != "" && !strings.EqualFold(strings.TrimSpace(e.CostCenter), strings.TrimSpace(q.CostCenter)) {
		return false
	}
	if q.AreaID != nil && (e.AreaID == nil || *e.AreaID != *q.AreaID) {
		return false
	}
	return true
}
