package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/order"
)

// Repository defines order data access. Lookups return (nil, nil) when no
// row matches.
type Repository interface {
	Create(ctx context.Context, o *order.Order) error

	// Get retrieves an order without relations.
	Get(ctx context.Context, id uuid.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and locks its row until the enclosing
	// transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error)

	// GetWithSubscription retrieves an order with its subscription and the
	// subscription's plan.
	GetWithSubscription(ctx context.Context, id uuid.UUID) (*order.Order, error)

	// Update persists status, subscription link and payment details.
	Update(ctx context.Context, o *order.Order) error
}
