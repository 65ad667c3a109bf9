package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/dto"
	"github.com/workforce-api/internal/repository"
)

// ActivityService manages the activity catalog
type ActivityService interface {
	List(ctx context.Context, query *dto.ActivityQuery) ([]domain.Activity, error)
	Create(ctx context.Context, p *Principal, req *dto.ActivityRequest) (*domain.Activity, error)
	Update(ctx context.Context, p *Principal, id string, req *dto.ActivityRequest) (*domain.Activity, error)
	Delete(ctx context.Context, p *Principal, id string) error
}

type activityService struct {
	activityRepo repository.ActivityRepository
	areaRepo     repository.AreaRepository
	distRepo     repository.DistributionRepository
	newID        func() string
	logger       *slog.Logger
}

// NewActivityService creates a new service instance
func NewActivityService(
	activityRepo repository.ActivityRepository,
	distRepo repository.DistributionRepository,
	deps Deps,
) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		areaRepo:     deps.Areas,
		distRepo:     distRepo,
		newID:        uuid.NewString,
		logger:       deps.Logger,
	}
}

func (s *activityService) List(ctx context.Context, query *dto.ActivityQuery) ([]domain.Activity, error) {
	return s.activityRepo.List(ctx, repository.ActivityFilter{
		AreaID:     query.AreaID,
		CostCenter: query.CostCenter,
	})
}

func (s *activityService) Create(ctx context.Context, p *Principal, req *dto.ActivityRequest) (*domain.Activity, error) {
	if err := p.authorizeAdmin(); err != nil {
		return nil, err
	}
	if err := s.checkArea(ctx, req.AreaID); err != nil {
		return nil, err
	}

	activity := toActivity(s.newID(), req)
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *activityService) Update(ctx context.Context, p *Principal, id string, req *dto.ActivityRequest) (*domain.Activity, error) {
	if err := p.authorizeAdmin(); err != nil {
		return nil, err
	}
	if err := s.checkArea(ctx, req.AreaID); err != nil {
		return nil, err
	}

	activity := toActivity(strings.TrimSpace(id), req)
	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Delete removes the activity and every distribution row pointing at it
func (s *activityService) Delete(ctx context.Context, p *Principal, id string) error {
	const op = "service.activity.Delete"

	if err := p.authorizeAdmin(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if _, err := s.activityRepo.GetByID(ctx, id); err != nil {
		return err
	}

	n, err := s.distRepo.DeleteByActivity(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.activityRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("activity deleted",
		slog.String("activity_id", id),
		slog.Int64("distributions_removed", n),
	)
	return nil
}

// checkArea makes sure the area exists when one is given
func (s *activityService) checkArea(ctx context.Context, areaID *int64) error {
	if areaID == nil {
		return nil
	}
	_, err := s.areaRepo.GetByID(ctx, *areaID)
	return err
}

func toActivity(id string, req *dto.ActivityRequest) *domain.Activity {
	return &domain.Activity{
		ID:                id,
		Name:              strings.TrimSpace(req.Name),
		Description:       strings.TrimSpace(req.Description),
		Type:              strings.TrimSpace(req.Type),
		Client:            strings.TrimSpace(req.Client),
		RequiredResources: strings.TrimSpace(req.RequiredResources),
		AreaID:            req.AreaID,
		CostCenter:        strings.TrimSpace(req.CostCenter),
	}
}
