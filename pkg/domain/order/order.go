package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = fmt.Errorf("order not found: %w", domain.ErrNotFound)
	// ErrInvalidPaymentDetails is returned when the stored payment details
	// cannot be decoded.
	ErrInvalidPaymentDetails = fmt.Errorf("invalid payment details: %w", domain.ErrValidation)
	// ErrMissingPlanID is returned when settling an order whose payment
	// details carry no plan.
	ErrMissingPlanID = fmt.Errorf("missing plan id in payment details: %w", domain.ErrValidation)
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// PaymentDetails is the snapshot of what was purchased, stored with the
// order so that settlement does not depend on the plan changing later.
type PaymentDetails struct {
	PlanID          uuid.UUID         `json:"planId"`
	PlanName        string            `json:"planName,omitempty"`
	PlanDuration    int               `json:"planDuration,omitempty"`
	LensViewID      string            `json:"lensViewId,omitempty"`
	MerchantTradeNo string            `json:"merchantTradeNo,omitempty"`
	Currency        string            `json:"currency,omitempty"`
	ExchangeRate    decimal.Decimal   `json:"exchangeRate"`
	GatewayResponse map[string]string `json:"ecpayResponse,omitempty"`
}

type Order struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"userId"`
	SubscriptionID *uuid.UUID `json:"subscriptionId,omitempty"`
	// TotalAmount is the charged amount in whole TWD.
	TotalAmount int64 `json:"totalAmount"`
	// OriginalAmount is the plan price in the plan's own currency.
	OriginalAmount decimal.Decimal            `json:"originalAmount"`
	Status         Status                     `json:"status"`
	PaymentDetails PaymentDetails             `json:"paymentDetails"`
	CreatedAt      time.Time                  `json:"createdAt"`
	UpdatedAt      time.Time                  `json:"updatedAt"`
	Subscription   *subscription.Subscription `json:"subscription,omitempty"`
}

// New creates a pending order for userID.
func New(
	userID uuid.UUID,
	totalAmount int64,
	originalAmount decimal.Decimal,
	details PaymentDetails,
) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:             uuid.New(),
		UserID:         userID,
		TotalAmount:    totalAmount,
		OriginalAmount: originalAmount,
		Status:         StatusPending,
		PaymentDetails: details,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (o *Order) IsPaid() bool {
	return o.Status == StatusPaid
}

// OwnedBy reports whether userID placed the order.
func (o *Order) OwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}

// MarkPaid settles the order and records the gateway notification.
func (o *Order) MarkPaid(gatewayResponse map[string]string, now time.Time) {
	o.Status = StatusPaid
	o.PaymentDetails.GatewayResponse = gatewayResponse
	o.UpdatedAt = now
}

// MarkFailed records a failed payment attempt.
func (o *Order) MarkFailed(gatewayResponse map[string]string, now time.Time) {
	o.Status = StatusFailed
	o.PaymentDetails.GatewayResponse = gatewayResponse
	o.UpdatedAt = now
}

// LinkSubscription attaches the subscription the order paid for.
func (o *Order) LinkSubscription(id uuid.UUID) {
	o.SubscriptionID = &id
}
