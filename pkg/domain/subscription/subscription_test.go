package subscription_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

func monthlyPlan() *subscription.Plan {
	return &subscription.Plan{
		ID:         uuid.New(),
		LensViewID: "lens-1",
		Name:       "Monthly",
		Price:      decimal.NewFromFloat(9.99),
		Currency:   subscription.CurrencyUSD,
		Duration:   30,
		Status:     subscription.PlanStatusActive,
	}
}

func TestNew(t *testing.T) {
	plan := monthlyPlan()
	userID := uuid.New()

	s := subscription.New(userID, plan, "", start, true)
	assert.Equal(t, userID, s.UserID)
	assert.Equal(t, plan.ID, s.PlanID)
	assert.Equal(t, "lens-1", s.LensViewID)
	assert.Equal(t, start.AddDate(0, 0, 30), s.EndDate)
	assert.Equal(t, subscription.StatusActive, s.Status)
	assert.True(t, s.AutoRenew)
	assert.Same(t, plan, s.Plan)

	s = subscription.New(userID, plan, "lens-2", start, false)
	assert.Equal(t, "lens-2", s.LensViewID)
	assert.False(t, s.AutoRenew)
}

func TestPlanActive(t *testing.T) {
	plan := monthlyPlan()
	assert.True(t, plan.Active())
	plan.Status = 0
	assert.False(t, plan.Active())
}

func TestIsActiveAt(t *testing.T) {
	s := subscription.New(uuid.New(), monthlyPlan(), "", start, true)
	assert.True(t, s.IsActiveAt(start))
	assert.True(t, s.IsActiveAt(s.EndDate))
	assert.False(t, s.IsActiveAt(s.EndDate.Add(time.Second)))

	s.Status = subscription.StatusCancelled
	assert.False(t, s.IsActiveAt(start))
}

func TestExpiringAndDaysRemaining(t *testing.T) {
	plan := monthlyPlan()
	plan.Duration = 365
	s := subscription.New(uuid.New(), plan, "", start, true)

	assert.False(t, s.IsExpiring(start))
	assert.Equal(t, 365, s.DaysRemaining(start))

	nearEnd := s.EndDate.Add(-30 * 24 * time.Hour)
	assert.True(t, s.IsExpiring(nearEnd))
	assert.False(t, s.IsExpiring(nearEnd.Add(-time.Second)))

	assert.Equal(t, 1, s.DaysRemaining(s.EndDate.Add(-time.Hour)))
	assert.Equal(t, 2, s.DaysRemaining(s.EndDate.Add(-25*time.Hour)))
}

func TestCancel(t *testing.T) {
	s := subscription.New(uuid.New(), monthlyPlan(), "", start, true)
	now := start.Add(24 * time.Hour)

	require.NoError(t, s.Cancel(now))
	assert.Equal(t, subscription.StatusCancelled, s.Status)
	assert.False(t, s.AutoRenew)
	require.NotNil(t, s.CancelledAt)
	assert.Equal(t, now, *s.CancelledAt)

	err := s.Cancel(now)
	assert.ErrorIs(t, err, subscription.ErrNotActive)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCheckRenewable(t *testing.T) {
	s := subscription.New(uuid.New(), monthlyPlan(), "", start, true)
	assert.NoError(t, s.CheckRenewable())

	s.AutoRenew = false
	assert.ErrorIs(t, s.CheckRenewable(), subscription.ErrAutoRenewDisabled)

	s.AutoRenew = true
	s.Status = subscription.StatusExpired
	assert.ErrorIs(t, s.CheckRenewable(), subscription.ErrNotActive)
}

func TestExtend(t *testing.T) {
	s := subscription.New(uuid.New(), monthlyPlan(), "", start, true)
	end := s.EndDate
	now := start.Add(20 * 24 * time.Hour)

	s.Extend(30, now)
	assert.Equal(t, end.AddDate(0, 0, 30), s.EndDate)
	assert.Equal(t, now, s.UpdatedAt)
}
