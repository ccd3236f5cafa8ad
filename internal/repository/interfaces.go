package repository

import (
	"context"

	"github.com/sajango/account-service/internal/domain"
)

// UserRepository defines methods for user persistence. The store's
// uniqueness constraints on email and username are the authority of last
// resort: a create racing another create fails one side with a duplicate
// error rather than producing two rows.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
