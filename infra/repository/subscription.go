package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
	subscriptionrepo "github.com/lensastro/astroapi/pkg/repository/subscription"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository returns a GORM backed subscription.Repository.
func NewSubscriptionRepository(db *gorm.DB) subscriptionrepo.Repository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	model := mapSubscriptionToModel(s)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Omit("Plan").Create(&model).Error
	})
}

func (r *subscriptionRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*subscription.Subscription, error) {
	var model Subscription
	err := r.db.WithContext(ctx).Preload("Plan").First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapSubscriptionToDomain(&model), nil
}

func (r *subscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).
			Model(&Subscription{}).
			Where("id = ?", s.ID).
			Updates(map[string]any{
				"end_date":     s.EndDate,
				"status":       string(s.Status),
				"auto_renew":   s.AutoRenew,
				"cancelled_at": s.CancelledAt,
				"updated_at":   s.UpdatedAt,
			}).Error
	})
}

func (r *subscriptionRepository) ListActive(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]*subscription.Subscription, error) {
	var models []Subscription
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("user_id = ? AND status = ? AND end_date >= ?",
			userID, string(subscription.StatusActive), now).
		Order("end_date DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	result := make([]*subscription.Subscription, 0, len(models))
	for i := range models {
		result = append(result, mapSubscriptionToDomain(&models[i]))
	}
	return result, nil
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository returns a GORM backed subscription.PlanRepository.
func NewPlanRepository(db *gorm.DB) subscriptionrepo.PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Get(ctx context.Context, id uuid.UUID) (*subscription.Plan, error) {
	var model SubscriptionPlan
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapPlanToDomain(&model), nil
}

func (r *planRepository) ListActiveByLens(
	ctx context.Context,
	lensViewID string,
) ([]*subscription.Plan, error) {
	var models []SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("lens_view_id = ? AND status = ?", lensViewID, subscription.PlanStatusActive).
		Order("price ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	result := make([]*subscription.Plan, 0, len(models))
	for i := range models {
		result = append(result, mapPlanToDomain(&models[i]))
	}
	return result, nil
}

func mapSubscriptionToModel(s *subscription.Subscription) Subscription {
	return Subscription{
		ID:          s.ID,
		UserID:      s.UserID,
		PlanID:      s.PlanID,
		LensViewID:  s.LensViewID,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Status:      string(s.Status),
		AutoRenew:   s.AutoRenew,
		CancelledAt: s.CancelledAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func mapSubscriptionToDomain(m *Subscription) *subscription.Subscription {
	s := &subscription.Subscription{
		ID:          m.ID,
		UserID:      m.UserID,
		PlanID:      m.PlanID,
		LensViewID:  m.LensViewID,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Status:      subscription.Status(m.Status),
		AutoRenew:   m.AutoRenew,
		CancelledAt: m.CancelledAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.Plan != nil {
		s.Plan = mapPlanToDomain(m.Plan)
	}
	return s
}

func mapPlanToDomain(m *SubscriptionPlan) *subscription.Plan {
	return &subscription.Plan{
		ID:          m.ID,
		LensViewID:  m.LensViewID,
		Name:        m.Name,
		Type:        m.Type,
		Description: m.Description,
		Price:       m.Price,
		Currency:    m.Currency,
		Duration:    m.Duration,
		Status:      m.Status,
		IsPopular:   m.IsPopular,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

var (
	_ subscriptionrepo.Repository     = (*subscriptionRepository)(nil)
	_ subscriptionrepo.PlanRepository = (*planRepository)(nil)
)
