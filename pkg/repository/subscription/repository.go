package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
)

// Repository defines subscription data access. Lookups return (nil, nil)
// when no row matches.
type Repository interface {
	Create(ctx context.Context, s *subscription.Subscription) error

	// Get retrieves a subscription with its plan.
	Get(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error)

	Update(ctx context.Context, s *subscription.Subscription) error

	// ListActive returns the user's active subscriptions ending at or after
	// now, latest end first, with plans loaded.
	ListActive(
		ctx context.Context,
		userID uuid.UUID,
		now time.Time,
	) ([]*subscription.Subscription, error)
}

// PlanRepository defines read access to subscription plans.
type PlanRepository interface {
	// Get retrieves a plan regardless of its status, or (nil, nil).
	Get(ctx context.Context, id uuid.UUID) (*subscription.Plan, error)

	// ListActiveByLens returns the purchasable plans of a lens, cheapest first.
	ListActiveByLens(ctx context.Context, lensViewID string) ([]*subscription.Plan, error)
}
