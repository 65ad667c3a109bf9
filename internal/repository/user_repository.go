package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/workforce-api/internal/domain"
	"github.com/workforce-api/internal/rowstore"
)

// UserRepository reads application accounts
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userRepository struct {
	base
}

// NewUserRepository creates a new repository instance
func NewUserRepository(store rowstore.Store, logger *slog.Logger) UserRepository {
	return &userRepository{base: newBase(store, 0, logger)}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const op = "repository.user.GetByID"

	q := rowstore.Query{Table: TableUsers}.Where(rowstore.Eq("id", id))
	row, err := rowstore.SelectOne[userRow](ctx, r.store, q)
	if err != nil {
		if errors.Is(err, rowstore.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, ok := parseUser(row)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}
