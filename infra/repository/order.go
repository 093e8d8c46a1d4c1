package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/order"
	orderrepo "github.com/lensastro/astroapi/pkg/repository/order"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository returns a GORM backed order.Repository.
func NewOrderRepository(db *gorm.DB) orderrepo.Repository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model, err := mapOrderToModel(o)
	if err != nil {
		return err
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).Omit("Subscription").Create(&model).Error
	})
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.find(r.db.WithContext(ctx), id)
}

func (r *orderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *orderRepository) GetWithSubscription(
	ctx context.Context,
	id uuid.UUID,
) (*order.Order, error) {
	return r.find(r.db.WithContext(ctx).Preload("Subscription.Plan"), id)
}

func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	details, err := json.Marshal(o.PaymentDetails)
	if err != nil {
		return fmt.Errorf("encode payment details: %w", err)
	}
	return WrapError(func() error {
		return r.db.WithContext(ctx).
			Model(&Order{}).
			Where("id = ?", o.ID).
			Updates(map[string]any{
				"status":          string(o.Status),
				"subscription_id": o.SubscriptionID,
				"payment_details": string(details),
				"updated_at":      o.UpdatedAt,
			}).Error
	})
}

func (r *orderRepository) find(q *gorm.DB, id uuid.UUID) (*order.Order, error) {
	var model Order
	if err := q.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapOrderToDomain(&model)
}

func mapOrderToModel(o *order.Order) (Order, error) {
	details, err := json.Marshal(o.PaymentDetails)
	if err != nil {
		return Order{}, fmt.Errorf("encode payment details: %w", err)
	}
	return Order{
		ID:             o.ID,
		UserID:         o.UserID,
		SubscriptionID: o.SubscriptionID,
		TotalAmount:    o.TotalAmount,
		OriginalAmount: o.OriginalAmount,
		Status:         string(o.Status),
		PaymentDetails: string(details),
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}, nil
}

// mapOrderToDomain fails with order.ErrInvalidPaymentDetails when the stored
// details are not valid JSON.
func mapOrderToDomain(m *Order) (*order.Order, error) {
	o := &order.Order{
		ID:             m.ID,
		UserID:         m.UserID,
		SubscriptionID: m.SubscriptionID,
		TotalAmount:    m.TotalAmount,
		OriginalAmount: m.OriginalAmount,
		Status:         order.Status(m.Status),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.PaymentDetails != "" {
		if err := json.Unmarshal([]byte(m.PaymentDetails), &o.PaymentDetails); err != nil {
			return nil, fmt.Errorf("%w: %v", order.ErrInvalidPaymentDetails, err)
		}
	}
	if m.Subscription != nil {
		o.Subscription = mapSubscriptionToDomain(m.Subscription)
	}
	return o, nil
}

var _ orderrepo.Repository = (*orderRepository)(nil)
