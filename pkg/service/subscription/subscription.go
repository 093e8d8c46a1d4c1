// Package subscription lists plans and manages a user's subscriptions.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
	"github.com/lensastro/astroapi/pkg/dto"
	"github.com/lensastro/astroapi/pkg/repository"
)

var ErrMissingLensViewID = fmt.Errorf("lensViewId is required: %w", domain.ErrValidation)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	now    func() time.Time
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: uow, logger: logger, now: time.Now}
}

// ListPlans returns the purchasable plans of a lens, cheapest first.
func (s *Service) ListPlans(ctx context.Context, lensViewID string) ([]*subscription.Plan, error) {
	lensViewID = strings.TrimSpace(lensViewID)
	if lensViewID == "" {
		return nil, ErrMissingLensViewID
	}
	var plans []*subscription.Plan
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.PlanRepository()
		if err != nil {
			return err
		}
		plans, err = repo.ListActiveByLens(ctx, lensViewID)
		return err
	})
	if err != nil {
		s.logger.Error("Plan listing failed", "context", "subscription.ListPlans", "lensViewID", lensViewID, "error", err)
		return nil, err
	}
	if plans == nil {
		plans = []*subscription.Plan{}
	}
	return plans, nil
}

// Create starts a subscription without payment. Auto renew defaults to on.
func (s *Service) Create(
	ctx context.Context,
	userID uuid.UUID,
	req *dto.SubscriptionCreate,
) (*subscription.Subscription, error) {
	log := s.logger.With("context", "subscription.Create", "userID", userID, "planID", req.PlanID)
	autoRenew := true
	if req.AutoRenew != nil {
		autoRenew = *req.AutoRenew
	}

	var sub *subscription.Subscription
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		plans, err := uow.PlanRepository()
		if err != nil {
			return err
		}
		plan, err := plans.Get(ctx, req.PlanID)
		if err != nil {
			return err
		}
		if plan == nil || !plan.Active() {
			return subscription.ErrPlanNotFound
		}
		subs, err := uow.SubscriptionRepository()
		if err != nil {
			return err
		}
		sub = subscription.New(userID, plan, "", s.now().UTC(), autoRenew)
		return subs.Create(ctx, sub)
	})
	if err != nil {
		log.Error("Subscription creation failed", "error", err)
		return nil, err
	}
	log.Info("Subscription created", "subscriptionID", sub.ID, "endDate", sub.EndDate)
	return sub, nil
}

// Status summarises the user's active subscriptions.
func (s *Service) Status(ctx context.Context, userID uuid.UUID) (*dto.SubscriptionStatus, error) {
	now := s.now().UTC()
	var subs []*subscription.Subscription
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.SubscriptionRepository()
		if err != nil {
			return err
		}
		subs, err = repo.ListActive(ctx, userID, now)
		return err
	})
	if err != nil {
		s.logger.Error("Subscription listing failed", "context", "subscription.Status", "userID", userID, "error", err)
		return nil, err
	}
	return dto.NewSubscriptionStatus(subs, now), nil
}

// Cancel turns off renewal of one of the user's subscriptions. Access is
// kept until the current end date.
func (s *Service) Cancel(
	ctx context.Context,
	userID, subscriptionID uuid.UUID,
) (*dto.CancelResult, error) {
	log := s.logger.With("context", "subscription.Cancel", "userID", userID, "subscriptionID", subscriptionID)
	var res *dto.CancelResult
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.SubscriptionRepository()
		if err != nil {
			return err
		}
		sub, err := repo.Get(ctx, subscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return subscription.ErrSubscriptionNotFound
		}
		if sub.UserID != userID {
			return domain.ErrForbidden
		}
		now := s.now().UTC()
		if err := sub.Cancel(now); err != nil {
			return err
		}
		if err := repo.Update(ctx, sub); err != nil {
			return err
		}
		res = &dto.CancelResult{CancelledAt: now, ValidUntil: sub.EndDate}
		return nil
	})
	if err != nil {
		log.Warn("Cancellation failed", "error", err)
		return nil, err
	}
	log.Info("Subscription cancelled", "validUntil", res.ValidUntil)
	return res, nil
}
