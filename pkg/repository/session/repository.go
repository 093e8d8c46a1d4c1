package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/session"
)

// Repository defines access to server-side login records.
type Repository interface {
	Create(ctx context.Context, s *session.Session) error

	// FindByUserID returns any session of the user, or (nil, nil).
	FindByUserID(ctx context.Context, userID uuid.UUID) (*session.Session, error)

	// FindByToken returns the user's session with the given token, or (nil, nil).
	FindByToken(ctx context.Context, userID uuid.UUID, token string) (*session.Session, error)

	// DeleteByUserID removes every session of the user and returns how many
	// were removed.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
