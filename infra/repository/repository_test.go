package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/order"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE LOWER\(email\) = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "created_at", "updated_at"}).
			AddRow(id.String(), "Luna", "luna@example.com", "$2a$10$hash", now, now))

	u, err := repo.GetByEmail(context.Background(), "Luna@Example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "Luna", u.Name)
	assert.Equal(t, "$2a$10$hash", u.HashedPassword)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	u, err := repo.Get(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestUserRepository_GetError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	boom := errors.New("connection refused")

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnError(boom)

	u, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, u)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "luna@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSessionRepository_FindByToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)
	userID := uuid.New()
	sessionID := uuid.New()
	expires := time.Now().Add(time.Hour).UTC()

	mock.ExpectQuery(`SELECT \* FROM "sessions" WHERE user_id = \$1 AND session_token = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_token", "user_id", "expires", "created_at"}).
			AddRow(sessionID.String(), "tok", userID.String(), expires, time.Now()))

	s, err := repo.FindByToken(context.Background(), userID, "tok")
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, sessionID, s.ID)
	assert.Equal(t, userID, s.UserID)
	assert.Equal(t, "tok", s.SessionToken)
}

func TestSessionRepository_FindByUserIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "sessions" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	s, err := repo.FindByUserID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestSessionRepository_DeleteByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSessionRepository(db)

	mock.ExpectExec(`DELETE FROM "sessions" WHERE user_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteByUserID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetDecodesPaymentDetails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	orderID := uuid.New()
	userID := uuid.New()
	planID := uuid.New()
	details := `{"planId":"` + planID.String() + `","planName":"Monthly","planDuration":30,` +
		`"merchantTradeNo":"a1b2c312345678","currency":"USD","exchangeRate":"31.5"}`

	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "subscription_id", "total_amount", "original_amount", "status", "payment_details",
		}).AddRow(orderID.String(), userID.String(), nil, 315, "9.99", "pending", details))

	o, err := repo.Get(context.Background(), orderID)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, int64(315), o.TotalAmount)
	assert.True(t, decimal.RequireFromString("9.99").Equal(o.OriginalAmount))
	assert.Nil(t, o.SubscriptionID)
	assert.Equal(t, planID, o.PaymentDetails.PlanID)
	assert.Equal(t, 30, o.PaymentDetails.PlanDuration)
	assert.True(t, decimal.RequireFromString("31.5").Equal(o.PaymentDetails.ExchangeRate))
}

func TestOrderRepository_GetInvalidPaymentDetails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status", "payment_details"}).
			AddRow(uuid.NewString(), uuid.NewString(), "pending", "{not json"))

	o, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, order.ErrInvalidPaymentDetails)
	assert.Nil(t, o)
}

func TestOrderRepository_GetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	o, err := repo.Get(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, o)
}

func TestOrderRepository_GetForUpdateLocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)
	orderID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "status"}).
			AddRow(orderID.String(), uuid.NewString(), 299, "pending"))

	o, err := repo.GetForUpdate(context.Background(), orderID)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, orderID, o.ID)
	assert.Equal(t, order.StatusPending, o.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanRepository_ListActiveByLens(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPlanRepository(db)
	cheap := uuid.New()
	dear := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "subscription_plans" WHERE lens_view_id = \$1 AND status = \$2 ORDER BY price ASC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "lens_view_id", "name", "type", "price", "currency", "duration", "status", "is_popular",
		}).
			AddRow(cheap.String(), "tarot", "Monthly", "monthly", "9.99", "USD", 30, 1, false).
			AddRow(dear.String(), "tarot", "Yearly", "yearly", "99.00", "USD", 365, 1, true))

	plans, err := repo.ListActiveByLens(context.Background(), "tarot")
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, cheap, plans[0].ID)
	assert.True(t, plans[0].Active())
	assert.Equal(t, 365, plans[1].Duration)
	assert.True(t, plans[1].IsPopular)
}

func TestSubscriptionRepository_ListActivePreloadsPlan(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)
	userID := uuid.New()
	subID := uuid.New()
	planID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE user_id = \$1 AND status = \$2 AND end_date >= \$3 ORDER BY end_date DESC`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "plan_id", "lens_view_id", "start_date", "end_date", "status", "auto_renew",
		}).AddRow(subID.String(), userID.String(), planID.String(), "tarot",
			now.AddDate(0, 0, -10), now.AddDate(0, 0, 20), "active", true))
	mock.ExpectQuery(`SELECT \* FROM "subscription_plans" WHERE "subscription_plans"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "duration"}).
			AddRow(planID.String(), "Monthly", 30))

	subs, err := repo.ListActive(context.Background(), userID, now)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, subscription.StatusActive, subs[0].Status)
	require.NotNil(t, subs[0].Plan)
	assert.Equal(t, "Monthly", subs[0].Plan.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewSubscriptionRepository(db)
	now := time.Now().UTC()
	sub := &subscription.Subscription{
		ID:        uuid.New(),
		Status:    subscription.StatusActive,
		EndDate:   now.AddDate(0, 0, 30),
		AutoRenew: true,
	}
	require.NoError(t, sub.Cancel(now))

	mock.ExpectExec(`UPDATE "subscriptions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), sub))
	assert.NoError(t, mock.ExpectationsWereMet())
}
