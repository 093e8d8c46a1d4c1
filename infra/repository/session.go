package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/session"
	sessionrepo "github.com/lensastro/astroapi/pkg/repository/session"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository returns a GORM backed session.Repository.
func NewSessionRepository(db *gorm.DB) sessionrepo.Repository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, s *session.Session) error {
	model := Session{
		ID:           s.ID,
		SessionToken: s.SessionToken,
		UserID:       s.UserID,
		Expires:      s.Expires,
		CreatedAt:    s.CreatedAt,
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&model).Error
	})
}

func (r *sessionRepository) FindByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*session.Session, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *sessionRepository) FindByToken(
	ctx context.Context,
	userID uuid.UUID,
	token string,
) (*session.Session, error) {
	return r.first(r.db.WithContext(ctx).
		Where("user_id = ? AND session_token = ?", userID, token))
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Session{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *sessionRepository) first(q *gorm.DB) (*session.Session, error) {
	var model Session
	if err := q.Take(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session.Session{
		ID:           model.ID,
		SessionToken: model.SessionToken,
		UserID:       model.UserID,
		Expires:      model.Expires,
		CreatedAt:    model.CreatedAt,
	}, nil
}

var _ sessionrepo.Repository = (*sessionRepository)(nil)
