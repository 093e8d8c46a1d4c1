package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/utils"
)

var (
	// ErrUserNotFound is returned when no profile matches the lookup key.
	ErrUserNotFound = fmt.Errorf("user not found: %w", domain.ErrNotFound)
	// ErrIncorrectPassword is returned when the password does not verify
	// against the stored hash.
	ErrIncorrectPassword = fmt.Errorf("incorrect password: %w", domain.ErrUnauthorized)
	// ErrRequiredFields is returned when email or password is missing.
	ErrRequiredFields = fmt.Errorf("email and password are required: %w", domain.ErrValidation)
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = fmt.Errorf("email already exists: %w", domain.ErrAlreadyExists)
)

// User is a persisted identity. HashedPassword never leaves the service layer;
// see dto.UserRead for the public projection.
type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	HashedPassword string
	EmailVerified  *time.Time
	Image          string
	CoverImage     string
	Bio            string
	Location       string
	Website        string
	Address        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Profile holds the optional display fields of a user.
type Profile struct {
	Name       string
	Image      string
	CoverImage string
	Bio        string
	Location   string
	Website    string
	Address    string
}

// New creates a User with a bcrypt-hashed password and current timestamps.
func New(email, password string, profile Profile) (*User, error) {
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	if password == "" {
		return nil, errors.New("password cannot be empty")
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:             uuid.New(),
		Name:           profile.Name,
		Email:          email,
		HashedPassword: hashedPassword,
		Image:          profile.Image,
		CoverImage:     profile.CoverImage,
		Bio:            profile.Bio,
		Location:       profile.Location,
		Website:        profile.Website,
		Address:        profile.Address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// VerifyPassword reports whether password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return utils.CheckPasswordHash(password, u.HashedPassword)
}
