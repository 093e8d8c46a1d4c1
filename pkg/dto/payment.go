package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/order"
)

// CheckoutRequest starts a purchase of a plan.
type CheckoutRequest struct {
	PlanID uuid.UUID `json:"planId" validate:"required"`
	// Locale is the site language: tw, jp, kr, anything else means English.
	Locale string `json:"locale,omitempty" validate:"omitempty,max=8"`
	// CallbackURL is the site path the gateway sends the browser back to.
	CallbackURL string `json:"callbackUrl,omitempty" validate:"omitempty,max=255"`
}

// CheckoutResult carries the created order and the gateway form the browser
// must post.
type CheckoutResult struct {
	OrderID  uuid.UUID         `json:"orderId"`
	APIURL   string            `json:"apiUrl"`
	FormData map[string]string `json:"formData"`
}

// PaymentResult is the gateway-shaped status of an order returned to the
// browser after the redirect. The stored payment details, when known, are
// flattened into it.
type PaymentResult struct {
	*order.PaymentDetails
	RtnCode         string `json:"RtnCode"`
	RtnMsg          string `json:"RtnMsg,omitempty"`
	MerchantTradeNo string `json:"MerchantTradeNo"`
}

// PaymentConfirm is sent by the browser after being redirected back from the
// gateway.
type PaymentConfirm struct {
	OrderID uuid.UUID `json:"orderId" validate:"required"`
}

// OrderSummary is the short order view returned by payment confirmation.
type OrderSummary struct {
	ID          uuid.UUID `json:"id"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SubscriptionSummary is the short subscription view returned by payment
// confirmation.
type SubscriptionSummary struct {
	ID        uuid.UUID `json:"id"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// PaymentConfirmation reports whether an order was settled.
type PaymentConfirmation struct {
	Order           OrderSummary         `json:"order"`
	Subscription    *SubscriptionSummary `json:"subscription"`
	IsPaid          bool                 `json:"isPaid"`
	HasSubscription bool                 `json:"hasSubscription"`
}
