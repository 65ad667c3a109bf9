package service

import (
	"context"
	"log/slog"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/repository"
)

// Principal is an authenticated user together with the employees they may see
type Principal struct {
	User domain.User
	// scope is nil for admins, who see everyone
	scope map[string]struct{}
}

// NewPrincipal builds a principal seeing employeeIDs. Admins ignore the list.
func NewPrincipal(user domain.User, employeeIDs ...string) *Principal {
	p := &Principal{User: user}
	if user.Role == domain.RoleAdmin {
		return p
	}
	p.scope = make(map[string]struct{}, len(employeeIDs))
	for _, id := range employeeIDs {
		p.scope[id] = struct{}{}
	}
	return p
}

// IsAdmin reports whether p has unrestricted access
func (p *Principal) IsAdmin() bool {
	return p.User.Role == domain.RoleAdmin
}

// CanSee reports whether employeeID is inside p's scope
func (p *Principal) CanSee(employeeID string) bool {
	if p.IsAdmin() {
		return true
	}
	_, ok := p.scope[employeeID]
	return ok
}

// authorizeRead returns ErrForbidden unless p may see employeeID
func (p *Principal) authorizeRead(employeeID string) error {
	if !p.CanSee(employeeID) {
		return domain.ErrForbidden
	}
	return nil
}

// authorizeWrite returns ErrReadOnly for viewers and ErrForbidden outside scope
func (p *Principal) authorizeWrite(employeeID string) error {
	if !p.User.Role.CanWrite() {
		return domain.ErrReadOnly
	}
	return p.authorizeRead(employeeID)
}

func (p *Principal) authorizeAdmin() error {
	if !p.IsAdmin() {
		return domain.ErrAdminOnly
	}
	return nil
}

// AccessService resolves authenticated users to principals
type AccessService interface {
	Resolve(ctx context.Context, userID string) (*Principal, error)
}

type accessService struct {
	userRepo repository.UserRepository
	loader   *loader
	logger   *slog.Logger
}

// NewAccessService creates a new service instance
func NewAccessService(userRepo repository.UserRepository, deps Deps) AccessService {
	return &accessService{
		userRepo: userRepo,
		loader:   deps.loader(),
		logger:   deps.Logger,
	}
}

// Resolve loads the user and computes their scope: the linked employee plus
// everyone reporting to them, directly or not
func (s *accessService) Resolve(ctx context.Context, userID string) (*Principal, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrInactiveUser
	}
	if user.Role == domain.RoleAdmin {
		return NewPrincipal(*user), nil
	}
	if user.EmployeeID == nil {
		s.logger.Warn("user is not linked to an employee",
			slog.String("user_id", user.ID),
		)
		return NewPrincipal(*user), nil
	}

	org, err := s.loader.load(ctx)
	if err != nil {
		return nil, err
	}
	self := *user.EmployeeID
	return NewPrincipal(*user, append(org.full.Subordinates(self), self)...), nil
}
