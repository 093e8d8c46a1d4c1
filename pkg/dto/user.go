package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/user"
)

// UserCreate represents the data needed to register a new user.
type UserCreate struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Name       string `json:"name,omitempty" validate:"omitempty,max=255"`
	Image      string `json:"image,omitempty" validate:"omitempty,url"`
	CoverImage string `json:"coverImage,omitempty" validate:"omitempty,url"`
	Bio        string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	Location   string `json:"location,omitempty" validate:"omitempty,max=255"`
	Website    string `json:"website,omitempty" validate:"omitempty,url"`
	Address    string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// Profile returns the optional display fields of the request.
func (c *UserCreate) Profile() user.Profile {
	return user.Profile{
		Name:       c.Name,
		Image:      c.Image,
		CoverImage: c.CoverImage,
		Bio:        c.Bio,
		Location:   c.Location,
		Website:    c.Website,
		Address:    c.Address,
	}
}

// UserRead is the public view of a user. It never carries the password hash.
type UserRead struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	EmailVerified *time.Time `json:"emailVerified"`
	Image         string     `json:"image"`
	CoverImage    string     `json:"coverImage"`
	Bio           string     `json:"bio"`
	Location      string     `json:"location"`
	Website       string     `json:"website"`
	Address       string     `json:"address"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// NewUserRead projects u for API output.
func NewUserRead(u *user.User) *UserRead {
	if u == nil {
		return nil
	}
	return &UserRead{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
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

// LoginResult is returned after a successful login.
type LoginResult struct {
	User  *UserRead `json:"user"`
	Token string    `json:"token"`
	// SessionToken identifies the server-side session created by the login.
	SessionToken string `json:"sessionToken"`
}
