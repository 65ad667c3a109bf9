package service

import (
	"context"
	"log/slog"

	"golang.org/x/text/language"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/dto"
	"github.com/workforce-api/internal/hierarchy"
	"github.com/workforce-api/internal/repository"
)

// HierarchyService answers org chart questions on behalf of a principal
type HierarchyService interface {
	Areas(ctx context.Context) ([]domain.Area, error)
	Scope(ctx context.Context, p *Principal) ([]domain.Employee, error)
	Directory(ctx context.Context, p *Principal, employeeID string, query *dto.DirectoryQuery) (*hierarchy.DirectoryNode, error)
	Directorate(ctx context.Context, p *Principal, employeeID string) (*hierarchy.Directorate, error)
	Chain(ctx context.Context, p *Principal, employeeID string) (*hierarchy.Chain, error)
	Overview(ctx context.Context, p *Principal) (*hierarchy.Overview, error)
}

type hierarchyService struct {
	areaRepo  repository.AreaRepository
	ownerRepo repository.CostCenterOwnerRepository
	loader    *loader
	locale    language.Tag
	logger    *slog.Logger
}

// NewHierarchyService creates a new service instance
func NewHierarchyService(ownerRepo repository.CostCenterOwnerRepository, deps Deps) HierarchyService {
	return &hierarchyService{
		areaRepo:  deps.Areas,
		ownerRepo: ownerRepo,
		loader:    deps.loader(),
		locale:    deps.locale(),
		logger:    deps.Logger,
	}
}

func (s *hierarchyService) Areas(ctx context.Context) ([]domain.Area, error) {
	return s.areaRepo.List(ctx)
}

func (s *hierarchyService) Scope(ctx context.Context, p *Principal) ([]domain.Employee, error) {
	org, err := s.loader.load(ctx)
	if err != nil {
		return nil, err
	}
	return org.visible(p), nil
}

func (s *hierarchyService) Directory(ctx context.Context, p *Principal, employeeID string, query *dto.DirectoryQuery) (*hierarchy.DirectoryNode, error) {
	if err := p.authorizeRead(employeeID); err != nil {
		return nil, err
	}
	org, err := s.loader.load(ctx)
	if err != nil {
		return nil, err
	}

	node, ok := org.full.Directory(employeeID, hierarchy.DirectoryOptions{
		SameUnit: query.SameUnit,
		AreaID:   query.AreaID,
	})
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return &node, nil
}

func (s *hierarchyService) Directorate(ctx context.Context, p *Principal, employeeID string) (*hierarchy.Directorate, error) {
	if err := p.authorizeRead(employeeID); err != nil {
		return nil, err
	}
	org, err := s.loader.load(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := org.full.Snapshot().Get(employeeID); !ok {
		return nil, domain.ErrEmployeeNotFound
	}

	d := org.scoped(p, s.locale).ResolveDirectorate(employeeID)
	return &d, nil
}

func (s *hierarchyService) Chain(ctx context.Context, p *Principal, employeeID string) (*hierarchy.Chain, error) {
	if err := p.authorizeRead(employeeID); err != nil {
		return nil, err
	}
	org, err := s.loader.load(ctx)
	if err != nil {
		return nil, err
	}
	top, ok := org.full.TopOfChain(employeeID)
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}

	managers := org.full.ChainOfCommand(employeeID)
	if managers == nil {
		managers = []domain.Employee{}
	}
	return &hierarchy.Chain{Managers: managers, Top: top}, nil
}

// Overview groups the cost centers related to p by unit and directorate: the
// cost centers of everyone in scope, those p answers for directly, and those
// staffed under areas p is responsible for. Only the cost centers come from
// the scope; directorates are traced through the whole organization.
func (s *hierarchyService) Overview(ctx context.Context, p *Principal) (*hierarchy.Overview, error) {
	org, err := s.loader.load(ctx)
	if err != nil {
		return nil, err
	}

	in := hierarchy.OverviewInput{Scope: org.visible(p)}
	if p.User.EmployeeID != nil {
		viewer := *p.User.EmployeeID
		owned, err := s.ownerRepo.ListByEmployee(ctx, viewer)
		if err != nil {
			// the overview is still useful without the owned cost centers
			s.logger.Error("failed to load owned cost centers",
				slog.String("employee_id", viewer),
				slog.Any("error", err),
			)
		}
		in.Owned = owned
		in.ViewerID = viewer
	}

	ov := org.full.BuildOverview(in)
	return &ov, nil
}
