package ports

import (
	"context"

	"github.com/accountd/account-service/internal/core/domain"
)

// UserRepository defines the interface for user persistence.
//
// Create must reject duplicate emails atomically at the storage layer
// (unique index, not check-then-insert) and return domain.ErrEmailInUse.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
}
