// Package session models the server-side record backing a login. A signed
// token held by the client is only honoured while its session row exists.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of validating the caller's session.
type Status string

const (
	StatusValid   Status = "valid"
	StatusNone    Status = "no_session"
	StatusDeleted Status = "session_deleted"
	StatusError   Status = "error"
)

// Valid reports whether the status allows the request to proceed.
func (s Status) Valid() bool {
	return s == StatusValid
}

// Reason returns the client-facing reason, empty for a valid session.
func (s Status) Reason() string {
	if s == StatusValid {
		return ""
	}
	return string(s)
}

type Session struct {
	ID           uuid.UUID
	SessionToken string
	UserID       uuid.UUID
	Expires      time.Time
	CreatedAt    time.Time
}

// New creates a session for userID that expires after ttl.
func New(userID uuid.UUID, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           uuid.New(),
		SessionToken: uuid.NewString(),
		UserID:       userID,
		Expires:      now.Add(ttl),
		CreatedAt:    now,
	}
}
