// Package payment turns plan purchases and renewals into ECPay checkout
// forms and settles orders when ECPay reports the outcome.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/domain/order"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
	"github.com/lensastro/astroapi/pkg/dto"
	"github.com/lensastro/astroapi/pkg/ecpay"
	"github.com/lensastro/astroapi/pkg/repository"
	"github.com/shopspring/decimal"
)

const (
	NotifyPath = "/api/ecpay/notify"
	// DefaultCallbackPath is where the browser returns when the checkout
	// request names no page.
	DefaultCallbackPath = "payment/result"

	RenewTradeDesc  = "訂閱續訂付款"
	renewItemSuffix = "續訂"

	// RtnCodePaid is the ECPay result code of a successful payment.
	RtnCodePaid = "1"
)

var (
	ErrInvalidCheckMac = fmt.Errorf("invalid CheckMacValue: %w", domain.ErrValidation)
	ErrMissingOrderID  = fmt.Errorf("missing order id: %w", domain.ErrValidation)
)

// PriceConverter converts a plan price into the whole TWD amount charged.
type PriceConverter interface {
	ToTWD(ctx context.Context, amount decimal.Decimal, currency string) (int64, decimal.Decimal, error)
}

type Service struct {
	uow       repository.UnitOfWork
	gateway   *ecpay.Client
	converter PriceConverter
	baseURL   string
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a payment service. baseURL is the public origin used in the
// gateway callback and redirect URLs.
func New(
	uow repository.UnitOfWork,
	gateway *ecpay.Client,
	converter PriceConverter,
	baseURL string,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:       uow,
		gateway:   gateway,
		converter: converter,
		baseURL:   strings.TrimRight(baseURL, "/"),
		logger:    logger,
		now:       time.Now,
	}
}

// Language maps a site locale to the ECPay checkout language. Traditional
// Chinese is ECPay's default and is sent as an empty value.
func Language(locale string) string {
	switch strings.ToLower(locale) {
	case "tw":
		return ""
	case "jp":
		return "JPN"
	case "kr":
		return "KOR"
	default:
		return "ENG"
	}
}

func (s *Service) callbackURL(path string, orderID uuid.UUID) string {
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		path = DefaultCallbackPath
	}
	return fmt.Sprintf("%s/%s?order_id=%s", s.baseURL, path, orderID)
}

// CreateCheckout creates a pending order for the plan and returns the form
// the browser posts to ECPay.
func (s *Service) CreateCheckout(
	ctx context.Context,
	userID uuid.UUID,
	req *dto.CheckoutRequest,
) (*dto.CheckoutResult, error) {
	log := s.logger.With("context", "payment.CreateCheckout", "userID", userID, "planID", req.PlanID)

	var plan *subscription.Plan
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.PlanRepository()
		if err != nil {
			return err
		}
		plan, err = repo.Get(ctx, req.PlanID)
		return err
	})
	if err != nil {
		log.Error("Plan lookup failed", "error", err)
		return nil, err
	}
	if plan == nil {
		return nil, subscription.ErrPlanNotFound
	}

	total, rate, err := s.converter.ToTWD(ctx, plan.Price, plan.Currency)
	if err != nil {
		log.Error("Price conversion failed", "currency", plan.Currency, "error", err)
		return nil, err
	}

	tradeNo := s.gateway.GenerateMerchantTradeNo()
	o := order.New(userID, total, plan.Price, order.PaymentDetails{
		PlanID:          plan.ID,
		PlanName:        plan.Name,
		PlanDuration:    plan.Duration,
		LensViewID:      plan.LensViewID,
		MerchantTradeNo: tradeNo,
		Currency:        plan.Currency,
		ExchangeRate:    rate,
	})

	back := s.callbackURL(req.CallbackURL, o.ID)
	form, err := s.gateway.BuildForm(ecpay.OrderDescription{
		MerchantTradeNo:   tradeNo,
		MerchantTradeDate: s.gateway.GenerateMerchantTradeDate(),
		TotalAmount:       total,
		TradeDesc:         fmt.Sprintf("%s - %d", plan.Name, plan.Duration),
		ItemName:          fmt.Sprintf("%s - %s", plan.Name, plan.Type),
		ReturnURL:         s.baseURL + NotifyPath,
		ClientBackURL:     back,
		OrderResultURL:    back,
		CustomField1:      o.ID.String(),
		Language:          Language(req.Locale),
	})
	if err != nil {
		log.Error("Checkout form build failed", "error", err)
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.OrderRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, o)
	})
	if err != nil {
		log.Error("Order creation failed", "error", err)
		return nil, err
	}

	log.Info("Checkout created",
		"orderID", o.ID,
		"merchantTradeNo", tradeNo,
		"totalAmount", total,
		"exchangeRate", rate.String(),
	)
	return &dto.CheckoutResult{OrderID: o.ID, APIURL: form.APIURL, FormData: form.Fields}, nil
}

// HandleNotification verifies and applies an ECPay payment notification. A
// successful payment marks the order paid and either starts a subscription
// or, for a renewal order, extends the linked one. Repeated notifications
// for a paid order are accepted without changes. Everything runs in one
// transaction.
func (s *Service) HandleNotification(ctx context.Context, fields map[string]string) error {
	log := s.logger.With("context", "payment.HandleNotification",
		"merchantTradeNo", fields["MerchantTradeNo"],
		"rtnCode", fields["RtnCode"],
	)
	if !s.gateway.VerifyCallback(fields) {
		log.Warn("Notification rejected", "reason", "CheckMacValue mismatch")
		return ErrInvalidCheckMac
	}
	rawID := strings.TrimSpace(fields["CustomField1"])
	if rawID == "" {
		log.Warn("Notification rejected", "reason", "missing order id")
		return ErrMissingOrderID
	}
	orderID, err := uuid.Parse(rawID)
	if err != nil {
		log.Warn("Notification references unknown order format", "orderID", rawID)
		return order.ErrOrderNotFound
	}
	log = log.With("orderID", orderID)

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		orders, err := uow.OrderRepository()
		if err != nil {
			return err
		}
		// ECPay retries notifications; the row lock serializes them so
		// only one settles the order.
		o, err := orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return order.ErrOrderNotFound
		}
		if o.IsPaid() {
			log.Info("Duplicate notification for paid order ignored")
			return nil
		}

		now := s.now().UTC()
		response := gatewayResponse(fields)
		if fields["RtnCode"] != RtnCodePaid {
			o.MarkFailed(response, now)
			log.Info("Payment failed", "rtnMsg", fields["RtnMsg"])
			return orders.Update(ctx, o)
		}
		return s.settle(ctx, uow, o, response, now, log)
	})
	if err != nil {
		log.Error("Notification handling failed", "error", err)
		return err
	}
	return nil
}

func (s *Service) settle(
	ctx context.Context,
	uow repository.UnitOfWork,
	o *order.Order,
	response map[string]string,
	now time.Time,
	log *slog.Logger,
) error {
	if o.PaymentDetails.PlanID == uuid.Nil {
		return order.ErrMissingPlanID
	}
	plans, err := uow.PlanRepository()
	if err != nil {
		return err
	}
	plan, err := plans.Get(ctx, o.PaymentDetails.PlanID)
	if err != nil {
		return err
	}
	if plan == nil {
		return subscription.ErrPlanNotFound
	}

	subs, err := uow.SubscriptionRepository()
	if err != nil {
		return err
	}
	orders, err := uow.OrderRepository()
	if err != nil {
		return err
	}

	if o.SubscriptionID != nil {
		sub, err := subs.Get(ctx, *o.SubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return subscription.ErrSubscriptionNotFound
		}
		sub.Extend(plan.Duration, now)
		if err := subs.Update(ctx, sub); err != nil {
			return err
		}
		o.MarkPaid(response, now)
		log.Info("Renewal paid", "subscriptionID", sub.ID, "endDate", sub.EndDate)
		return orders.Update(ctx, o)
	}

	sub := subscription.New(o.UserID, plan, o.PaymentDetails.LensViewID, now, false)
	if err := subs.Create(ctx, sub); err != nil {
		return err
	}
	o.MarkPaid(response, now)
	o.LinkSubscription(sub.ID)
	log.Info("Payment settled", "subscriptionID", sub.ID, "endDate", sub.EndDate)
	return orders.Update(ctx, o)
}

func gatewayResponse(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// ConfirmPayment reports whether the caller's order was paid and which
// subscription it produced.
func (s *Service) ConfirmPayment(
	ctx context.Context,
	userID, orderID uuid.UUID,
) (*dto.PaymentConfirmation, error) {
	var o *order.Order
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.OrderRepository()
		if err != nil {
			return err
		}
		o, err = repo.GetWithSubscription(ctx, orderID)
		return err
	})
	if err != nil {
		s.logger.Error("Order lookup failed", "context", "payment.ConfirmPayment", "error", err)
		return nil, err
	}
	if o == nil {
		return nil, order.ErrOrderNotFound
	}
	if !o.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}

	res := &dto.PaymentConfirmation{
		Order: dto.OrderSummary{
			ID:          o.ID,
			Status:      string(o.Status),
			TotalAmount: o.TotalAmount,
			CreatedAt:   o.CreatedAt,
		},
		IsPaid: o.IsPaid(),
	}
	if sub := o.Subscription; sub != nil {
		res.Subscription = &dto.SubscriptionSummary{
			ID:        sub.ID,
			Status:    string(sub.Status),
			StartDate: sub.StartDate,
			EndDate:   sub.EndDate,
		}
		res.HasSubscription = true
	}
	return res, nil
}

// Renew creates a pending renewal order for one of the caller's
// subscriptions. The subscription is extended when ECPay confirms payment.
func (s *Service) Renew(
	ctx context.Context,
	userID, subscriptionID uuid.UUID,
) (*dto.RenewResult, error) {
	log := s.logger.With("context", "payment.Renew", "userID", userID, "subscriptionID", subscriptionID)

	var sub *subscription.Subscription
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.SubscriptionRepository()
		if err != nil {
			return err
		}
		sub, err = repo.Get(ctx, subscriptionID)
		return err
	})
	if err != nil {
		log.Error("Subscription lookup failed", "error", err)
		return nil, err
	}
	if sub == nil {
		return nil, subscription.ErrSubscriptionNotFound
	}
	if sub.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if err := sub.CheckRenewable(); err != nil {
		log.Info("Renewal refused", "reason", err)
		return nil, err
	}
	plan := sub.Plan
	if plan == nil {
		return nil, subscription.ErrPlanNotFound
	}

	total, rate, err := s.converter.ToTWD(ctx, plan.Price, plan.Currency)
	if err != nil {
		return nil, err
	}

	tradeNo := s.gateway.GenerateMerchantTradeNo()
	o := order.New(userID, total, plan.Price, order.PaymentDetails{
		PlanID:          plan.ID,
		PlanName:        plan.Name,
		PlanDuration:    plan.Duration,
		LensViewID:      sub.LensViewID,
		MerchantTradeNo: tradeNo,
		Currency:        plan.Currency,
		ExchangeRate:    rate,
	})
	o.LinkSubscription(sub.ID)

	form, err := s.gateway.BuildForm(ecpay.OrderDescription{
		MerchantTradeNo:   tradeNo,
		MerchantTradeDate: s.gateway.GenerateMerchantTradeDate(),
		TotalAmount:       total,
		TradeDesc:         RenewTradeDesc,
		ItemName:          fmt.Sprintf("%s - %s", plan.Name, renewItemSuffix),
		ReturnURL:         s.baseURL + NotifyPath,
		ClientBackURL:     s.baseURL + "/subscriptions",
		OrderResultURL:    fmt.Sprintf("%s/subscriptions/%s", s.baseURL, sub.ID),
		CustomField1:      o.ID.String(),
	})
	if err != nil {
		log.Error("Renewal form build failed", "error", err)
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.OrderRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, o)
	})
	if err != nil {
		log.Error("Renewal order creation failed", "error", err)
		return nil, err
	}

	log.Info("Renewal order created", "orderID", o.ID, "totalAmount", total)
	return &dto.RenewResult{
		OrderID:        o.ID,
		SubscriptionID: sub.ID,
		APIURL:         form.APIURL,
		FormData:       form.Fields,
	}, nil
}
