package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/user"
)

// Repository defines user data access. Lookups return (nil, nil) when no
// row matches.
type Repository interface {
	// Create inserts a new user. A duplicate email yields domain.ErrAlreadyExists.
	Create(ctx context.Context, u *user.User) error

	// Get retrieves a user by its ID.
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)

	// GetByEmail retrieves a user by email, compared case-insensitively.
	GetByEmail(ctx context.Context, email string) (*user.User, error)

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
