// Package auth handles login, single-device sessions and JWT minting.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/config"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/domain/session"
	"github.com/lensastro/astroapi/pkg/domain/user"
	"github.com/lensastro/astroapi/pkg/dto"
	"github.com/lensastro/astroapi/pkg/repository"
	"github.com/lensastro/astroapi/pkg/utils"
)

const (
	ClaimUserID    = "user_id"
	ClaimEmail     = "email"
	ClaimSessionID = "sid"

	// DefaultSessionTTL applies when the configuration leaves it unset.
	DefaultSessionTTL = 30 * 24 * time.Hour
)

var ErrInvalidToken = fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)

type Service struct {
	uow        repository.UnitOfWork
	jwt        *config.Jwt
	sessionTTL time.Duration
	logger     *slog.Logger
}

func New(
	uow repository.UnitOfWork,
	cfg *config.Auth,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{uow: uow, sessionTTL: DefaultSessionTTL, logger: logger}
	if cfg != nil {
		s.jwt = cfg.Jwt
		if cfg.Session != nil && cfg.Session.TTL > 0 {
			s.sessionTTL = cfg.Session.TTL
		}
	}
	return s
}

// Login verifies email and password and returns the public profile.
// Unknown emails still run a bcrypt comparison so both failures take
// similar time.
func (s *Service) Login(
	ctx context.Context,
	email, password string,
) (*dto.UserRead, error) {
	log := s.logger.With("context", "auth.Login")
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, user.ErrRequiredFields
	}

	var found *user.User
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return fmt.Errorf("failed to get user repository: %w", err)
		}
		found, err = repo.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		log.Error("User lookup failed", "error", err)
		return nil, err
	}
	if found == nil {
		_ = utils.CheckPasswordHash(password, utils.DummyPasswordHash)
		log.Info("Login rejected", "reason", "unknown email")
		return nil, user.ErrUserNotFound
	}
	if !found.VerifyPassword(password) {
		log.Info("Login rejected", "reason", "password mismatch", "userID", found.ID)
		return nil, user.ErrIncorrectPassword
	}
	log.Info("Login successful", "userID", found.ID)
	return dto.NewUserRead(found), nil
}

// IssueSession replaces every session of userID with a fresh one, which
// signs out any other device.
func (s *Service) IssueSession(
	ctx context.Context,
	userID uuid.UUID,
) (*session.Session, error) {
	log := s.logger.With("context", "auth.IssueSession", "userID", userID)
	sess := session.New(userID, s.sessionTTL)
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.SessionRepository()
		if err != nil {
			return fmt.Errorf("failed to get session repository: %w", err)
		}
		removed, err := repo.DeleteByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if removed > 0 {
			log.Info("Previous sessions removed", "count", removed)
		}
		return repo.Create(ctx, sess)
	})
	if err != nil {
		log.Error("Session creation failed", "error", err)
		return nil, err
	}
	return sess, nil
}

// GenerateToken signs an HS256 token for u bound to session sid.
func (s *Service) GenerateToken(u *dto.UserRead, sid string) (string, error) {
	if s.jwt == nil || s.jwt.Secret == "" {
		return "", errors.New("jwt secret is not configured")
	}
	expiry := s.jwt.Expiry
	if expiry <= 0 {
		expiry = s.sessionTTL
	}
	claims := jwt.MapClaims{
		ClaimUserID: u.ID.String(),
		ClaimEmail:  u.Email,
		"exp":       time.Now().Add(expiry).Unix(),
	}
	if sid != "" {
		claims[ClaimSessionID] = sid
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwt.Secret))
	if err != nil {
		s.logger.Error("Token signing failed", "userID", u.ID, "error", err)
		return "", err
	}
	return signed, nil
}

// LoginWithSession runs Login, replaces the user's sessions and mints a
// token bound to the new session.
func (s *Service) LoginWithSession(
	ctx context.Context,
	email, password string,
) (*dto.LoginResult, error) {
	u, err := s.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	sess, err := s.IssueSession(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	token, err := s.GenerateToken(u, sess.SessionToken)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResult{User: u, Token: token, SessionToken: sess.SessionToken}, nil
}

// ValidateSession reports whether the caller still holds a live session.
// With a session token the exact session must exist, otherwise any session
// of the user counts. Storage failures are logged and reported as
// session.StatusError.
func (s *Service) ValidateSession(
	ctx context.Context,
	userID *uuid.UUID,
	sessionToken string,
) session.Status {
	if userID == nil {
		return session.StatusNone
	}
	log := s.logger.With("context", "auth.ValidateSession", "userID", *userID)

	var found *session.Session
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.SessionRepository()
		if err != nil {
			return err
		}
		if sessionToken != "" {
			found, err = repo.FindByToken(ctx, *userID, sessionToken)
		} else {
			found, err = repo.FindByUserID(ctx, *userID)
		}
		return err
	})
	if err != nil {
		log.Error("Session lookup failed", "error", err)
		return session.StatusError
	}
	if found == nil {
		log.Info("Session not found")
		return session.StatusDeleted
	}
	return session.StatusValid
}

// Identity extracts the user id and optional session token from a verified
// token.
func Identity(token *jwt.Token) (uuid.UUID, string, error) {
	if token == nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", ErrInvalidToken
	}
	raw, ok := claims[ClaimUserID].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return uuid.Nil, "", ErrInvalidToken
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	sid, _ := claims[ClaimSessionID].(string)
	return id, sid, nil
}
