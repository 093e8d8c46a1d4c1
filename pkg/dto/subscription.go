package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
)

// SubscriptionCreate is the request to start a subscription directly.
type SubscriptionCreate struct {
	PlanID uuid.UUID `json:"planId" validate:"required"`
	// AutoRenew defaults to true when omitted.
	AutoRenew *bool `json:"autoRenew,omitempty"`
}

// SubscriptionRef identifies a subscription in cancel and renew requests.
type SubscriptionRef struct {
	SubscriptionID uuid.UUID `json:"subscriptionId" validate:"required"`
}

// ActiveSubscription is one entry of SubscriptionStatus.
type ActiveSubscription struct {
	ID            uuid.UUID `json:"id"`
	PlanName      string    `json:"planName"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	AutoRenew     bool      `json:"autoRenew"`
	IsExpiring    bool      `json:"isExpiring"`
	DaysRemaining int       `json:"daysRemaining"`
}

// SubscriptionStatus summarises a user's current access.
type SubscriptionStatus struct {
	HasActiveSubscription      bool                 `json:"hasActiveSubscription"`
	ActiveSubscriptions        []ActiveSubscription `json:"activeSubscriptions"`
	ExpiringSubscriptionsCount int                  `json:"expiringSubscriptionsCount"`
}

// NewSubscriptionStatus builds the summary of subs, which must already be
// filtered to active ones, at now.
func NewSubscriptionStatus(subs []*subscription.Subscription, now time.Time) *SubscriptionStatus {
	status := &SubscriptionStatus{
		HasActiveSubscription: len(subs) > 0,
		ActiveSubscriptions:   make([]ActiveSubscription, 0, len(subs)),
	}
	for _, sub := range subs {
		planName := ""
		if sub.Plan != nil {
			planName = sub.Plan.Name
		}
		expiring := sub.IsExpiring(now)
		if expiring {
			status.ExpiringSubscriptionsCount++
		}
		status.ActiveSubscriptions = append(status.ActiveSubscriptions, ActiveSubscription{
			ID:            sub.ID,
			PlanName:      planName,
			StartDate:     sub.StartDate,
			EndDate:       sub.EndDate,
			AutoRenew:     sub.AutoRenew,
			IsExpiring:    expiring,
			DaysRemaining: sub.DaysRemaining(now),
		})
	}
	return status
}

// CancelResult reports a cancellation. Access continues until ValidUntil.
type CancelResult struct {
	CancelledAt time.Time `json:"cancelledAt"`
	ValidUntil  time.Time `json:"validUntil"`
}

// RenewResult carries the pending renewal order and its gateway form.
type RenewResult struct {
	OrderID        uuid.UUID         `json:"orderId"`
	SubscriptionID uuid.UUID         `json:"subscriptionId"`
	APIURL         string            `json:"apiUrl"`
	FormData       map[string]string `json:"formData"`
}
