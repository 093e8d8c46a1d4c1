package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain/order"
	"github.com/lensastro/astroapi/pkg/domain/session"
	"github.com/lensastro/astroapi/pkg/domain/subscription"
	"github.com/lensastro/astroapi/pkg/domain/user"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of user.Repository.
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository(t testingT) *MockUserRepository {
	m := &MockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Get(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockSessionRepository is a mock of session.Repository.
type MockSessionRepository struct {
	mock.Mock
}

func NewMockSessionRepository(t testingT) *MockSessionRepository {
	m := &MockSessionRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionRepository) Create(ctx context.Context, s *session.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSessionRepository) FindByUserID(
	ctx context.Context,
	userID uuid.UUID,
) (*session.Session, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*session.Session)
	return s, args.Error(1)
}

func (m *MockSessionRepository) FindByToken(
	ctx context.Context,
	userID uuid.UUID,
	token string,
) (*session.Session, error) {
	args := m.Called(ctx, userID, token)
	s, _ := args.Get(0).(*session.Session)
	return s, args.Error(1)
}

func (m *MockSessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

// MockOrderRepository is a mock of order.Repository.
type MockOrderRepository struct {
	mock.Mock
}

func NewMockOrderRepository(t testingT) *MockOrderRepository {
	m := &MockOrderRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetWithSubscription(
	ctx context.Context,
	id uuid.UUID,
) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

// MockSubscriptionRepository is a mock of subscription.Repository.
type MockSubscriptionRepository struct {
	mock.Mock
}

func NewMockSubscriptionRepository(t testingT) *MockSubscriptionRepository {
	m := &MockSubscriptionRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSubscriptionRepository) Create(
	ctx context.Context,
	s *subscription.Subscription,
) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubscriptionRepository) Get(
	ctx context.Context,
	id uuid.UUID,
) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*subscription.Subscription)
	return s, args.Error(1)
}

func (m *MockSubscriptionRepository) Update(
	ctx context.Context,
	s *subscription.Subscription,
) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubscriptionRepository) ListActive(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, userID, now)
	subs, _ := args.Get(0).([]*subscription.Subscription)
	return subs, args.Error(1)
}

// MockPlanRepository is a mock of subscription.PlanRepository.
type MockPlanRepository struct {
	mock.Mock
}

func NewMockPlanRepository(t testingT) *MockPlanRepository {
	m := &MockPlanRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockPlanRepository) Get(ctx context.Context, id uuid.UUID) (*subscription.Plan, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*subscription.Plan)
	return p, args.Error(1)
}

func (m *MockPlanRepository) ListActiveByLens(
	ctx context.Context,
	lensViewID string,
) ([]*subscription.Plan, error) {
	args := m.Called(ctx, lensViewID)
	plans, _ := args.Get(0).([]*subscription.Plan)
	return plans, args.Error(1)
}
