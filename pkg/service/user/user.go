// Package user provides registration and profile lookup.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/domain/user"
	"github.com/lensastro/astroapi/pkg/dto"
	"github.com/lensastro/astroapi/pkg/repository"
	userrepo "github.com/lensastro/astroapi/pkg/repository/user"
	"github.com/lensastro/astroapi/pkg/utils"
)

var repoType = reflect.TypeOf((*userrepo.Repository)(nil)).Elem()

// Service provides user operations.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: uow, logger: logger}
}

func userRepository(uow repository.UnitOfWork) (userrepo.Repository, error) {
	repoAny, err := uow.GetRepository(repoType)
	if err != nil {
		return nil, err
	}
	repo, ok := repoAny.(userrepo.Repository)
	if !ok {
		return nil, fmt.Errorf("unexpected repository type %T", repoAny)
	}
	return repo, nil
}

// CreateUser registers a user. The email is stored normalized.
func (s *Service) CreateUser(
	ctx context.Context,
	in *dto.UserCreate,
) (*dto.UserRead, error) {
	log := s.logger.With("context", "user.CreateUser")
	email := utils.NormalizeEmail(in.Email)
	u, err := user.New(email, in.Password, in.Profile())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := userRepository(uow)
		if err != nil {
			return err
		}
		exists, err := repo.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			return user.ErrEmailTaken
		}
		return repo.Create(ctx, u)
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		log.Info("Registration rejected", "reason", "email taken")
		return nil, user.ErrEmailTaken
	}
	if err != nil {
		log.Error("User creation failed", "error", err)
		return nil, err
	}
	log.Info("User created", "userID", u.ID)
	return dto.NewUserRead(u), nil
}

// GetUser returns the profile of userID. Callers may only read their own
// profile.
func (s *Service) GetUser(
	ctx context.Context,
	requesterID, userID uuid.UUID,
) (*dto.UserRead, error) {
	if requesterID != userID {
		return nil, domain.ErrForbidden
	}
	var u *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := userRepository(uow)
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, userID)
		return err
	})
	if err != nil {
		s.logger.Error("User lookup failed", "context", "user.GetUser", "error", err)
		return nil, err
	}
	if u == nil {
		return nil, user.ErrUserNotFound
	}
	return dto.NewUserRead(u), nil
}
