package order_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	userID := uuid.New()
	details := order.PaymentDetails{PlanID: uuid.New(), Currency: "USD", ExchangeRate: decimal.NewFromInt(30)}

	o := order.New(userID, 300, decimal.NewFromFloat(9.99), details)
	assert.NotEqual(t, uuid.Nil, o.ID)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, int64(300), o.TotalAmount)
	assert.True(t, o.OwnedBy(userID))
	assert.False(t, o.OwnedBy(uuid.New()))
	assert.False(t, o.IsPaid())
	assert.Nil(t, o.SubscriptionID)
}

func TestMarkPaidAndFailed(t *testing.T) {
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	response := map[string]string{"RtnCode": "1", "TradeNo": "2502010000001"}

	o := order.New(uuid.New(), 300, decimal.NewFromInt(10), order.PaymentDetails{})
	o.MarkPaid(response, now)
	assert.True(t, o.IsPaid())
	assert.Equal(t, response, o.PaymentDetails.GatewayResponse)
	assert.Equal(t, now, o.UpdatedAt)

	failed := order.New(uuid.New(), 300, decimal.NewFromInt(10), order.PaymentDetails{})
	failed.MarkFailed(map[string]string{"RtnCode": "10100058"}, now)
	assert.Equal(t, order.StatusFailed, failed.Status)
	assert.False(t, failed.IsPaid())
}

func TestLinkSubscription(t *testing.T) {
	o := order.New(uuid.New(), 300, decimal.NewFromInt(10), order.PaymentDetails{})
	subID := uuid.New()
	o.LinkSubscription(subID)
	require.NotNil(t, o.SubscriptionID)
	assert.Equal(t, subID, *o.SubscriptionID)
}

func TestErrors(t *testing.T) {
	assert.ErrorIs(t, order.ErrOrderNotFound, domain.ErrNotFound)
	assert.ErrorIs(t, order.ErrMissingPlanID, domain.ErrValidation)
	assert.ErrorIs(t, order.ErrInvalidPaymentDetails, domain.ErrValidation)
}
