package ports

import (
	"context"

	"github.com/andreypavlenko/postingguard/modules/users/model"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, userID string) error

	// Exists reports whether userID resolves to a known user. Backs the
	// apply module's unknown_user check on enqueue.
	Exists(ctx context.Context, userID string) (bool, error)
}
