package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/user"
	userrepo "github.com/lensastro/astroapi/pkg/repository/user"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a GORM backed user.Repository.
func NewUserRepository(db *gorm.DB) userrepo.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := mapUserToModel(u)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&model).Error
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var model User
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapUserToDomain(&model), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapUserToDomain(&model), nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func mapUserToModel(u *user.User) User {
	return User{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Password:      u.HashedPassword,
		EmailVerified: u.EmailVerified,
		Image:         u.Image,
		CoverImage:    u.CoverImage,
		Bio:           u.Bio,
		Location:      u.Location,
		Website:       u.Website,
		Address:       u.Address,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func mapUserToDomain(m *User) *user.User {
	return &user.User{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		HashedPassword: m.Password,
		EmailVerified:  m.EmailVerified,
		Image:          m.Image,
		CoverImage:     m.CoverImage,
		Bio:            m.Bio,
		Location:       m.Location,
		Website:        m.Website,
		Address:        m.Address,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

var _ userrepo.Repository = (*userRepository)(nil)
