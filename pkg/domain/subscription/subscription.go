package subscription

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrPlanNotFound         = fmt.Errorf("subscription plan not found: %w", domain.ErrNotFound)
	ErrSubscriptionNotFound = fmt.Errorf("subscription not found: %w", domain.ErrNotFound)
	// ErrNotActive is returned when cancelling or renewing a subscription
	// that is no longer active.
	ErrNotActive = fmt.Errorf("subscription is not active: %w", domain.ErrValidation)
	// ErrAutoRenewDisabled is returned when renewing a subscription whose
	// owner turned auto renew off.
	ErrAutoRenewDisabled = fmt.Errorf("subscription auto renew is disabled: %w", domain.ErrValidation)
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

const (
	// PlanStatusActive marks a plan that can be purchased.
	PlanStatusActive = 1

	CurrencyUSD = "USD"
	CurrencyTWD = "TWD"

	// ExpiringWindow is how close to EndDate a subscription counts as expiring.
	ExpiringWindow = 30 * 24 * time.Hour
)

// Plan is a purchasable subscription offer attached to a lens.
type Plan struct {
	ID          uuid.UUID       `json:"id"`
	LensViewID  string          `json:"lensViewId"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	// Duration is the length of one billing period in days.
	Duration  int       `json:"duration"`
	Status    int       `json:"status"`
	IsPopular bool      `json:"isPopular"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Plan) Active() bool {
	return p.Status == PlanStatusActive
}

type Subscription struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	PlanID      uuid.UUID  `json:"planId"`
	LensViewID  string     `json:"lensViewId"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Status      Status     `json:"status"`
	AutoRenew   bool       `json:"autoRenew"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Plan        *Plan      `json:"plan,omitempty"`
}

// New starts an active subscription to plan at start. An empty lensViewID
// falls back to the plan's lens.
func New(
	userID uuid.UUID,
	plan *Plan,
	lensViewID string,
	start time.Time,
	autoRenew bool,
) *Subscription {
	if lensViewID == "" {
		lensViewID = plan.LensViewID
	}
	return &Subscription{
		ID:         uuid.New(),
		UserID:     userID,
		PlanID:     plan.ID,
		LensViewID: lensViewID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, plan.Duration),
		Status:     StatusActive,
		AutoRenew:  autoRenew,
		CreatedAt:  start,
		UpdatedAt:  start,
		Plan:       plan,
	}
}

// IsActiveAt reports whether the subscription grants access at now.
func (s *Subscription) IsActiveAt(now time.Time) bool {
	return s.Status == StatusActive && !s.EndDate.Before(now)
}

// IsExpiring reports whether EndDate falls within ExpiringWindow of now.
func (s *Subscription) IsExpiring(now time.Time) bool {
	return !s.EndDate.After(now.Add(ExpiringWindow))
}

// DaysRemaining rounds the time left up to whole days.
func (s *Subscription) DaysRemaining(now time.Time) int {
	return int(math.Ceil(s.EndDate.Sub(now).Hours() / 24))
}

// Cancel stops auto renew and marks the subscription cancelled. Access is
// kept until EndDate.
func (s *Subscription) Cancel(now time.Time) error {
	if s.Status != StatusActive {
		return ErrNotActive
	}
	s.Status = StatusCancelled
	s.AutoRenew = false
	s.CancelledAt = &now
	s.UpdatedAt = now
	return nil
}

// CheckRenewable returns the reason a renewal must be refused, or nil.
func (s *Subscription) CheckRenewable() error {
	if !s.AutoRenew {
		return ErrAutoRenewDisabled
	}
	if s.Status != StatusActive {
		return ErrNotActive
	}
	return nil
}

// Extend pushes EndDate forward by days, continuing from the current end.
func (s *Subscription) Extend(days int, now time.Time) {
	s.EndDate = s.EndDate.AddDate(0, 0, days)
	s.UpdatedAt = now
}
