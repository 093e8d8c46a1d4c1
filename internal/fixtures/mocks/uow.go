// Package mocks holds testify mocks for the repository, cache and provider
// interfaces. Each constructor registers AssertExpectations on cleanup.
package mocks

import (
	"context"
	"reflect"

	"github.com/lensastro/astroapi/pkg/repository"
	"github.com/lensastro/astroapi/pkg/repository/order"
	"github.com/lensastro/astroapi/pkg/repository/session"
	"github.com/lensastro/astroapi/pkg/repository/subscription"
	"github.com/lensastro/astroapi/pkg/repository/user"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// DoFunc is the signature accepted by MockUnitOfWork.Do return values.
type DoFunc = func(ctx context.Context, fn func(repository.UnitOfWork) error) error

// MockUnitOfWork is a mock of repository.UnitOfWork.
type MockUnitOfWork struct {
	mock.Mock
}

func NewMockUnitOfWork(t testingT) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// PassThrough makes Do run fn against the mock itself, so repositories
// registered on the mock are visible inside the transaction.
func (m *MockUnitOfWork) PassThrough() *mock.Call {
	return m.On("Do", mock.Anything, mock.Anything).Return(DoFunc(
		func(_ context.Context, fn func(repository.UnitOfWork) error) error {
			return fn(m)
		},
	))
}

func (m *MockUnitOfWork) Do(ctx context.Context, fn func(repository.UnitOfWork) error) error {
	args := m.Called(ctx, fn)
	if rf, ok := args.Get(0).(DoFunc); ok {
		return rf(ctx, fn)
	}
	return args.Error(0)
}

func (m *MockUnitOfWork) GetRepository(repoType reflect.Type) (any, error) {
	args := m.Called(repoType)
	return args.Get(0), args.Error(1)
}

func (m *MockUnitOfWork) UserRepository() (user.Repository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(user.Repository)
	return repo, args.Error(1)
}

func (m *MockUnitOfWork) SessionRepository() (session.Repository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(session.Repository)
	return repo, args.Error(1)
}

func (m *MockUnitOfWork) OrderRepository() (order.Repository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(order.Repository)
	return repo, args.Error(1)
}

func (m *MockUnitOfWork) SubscriptionRepository() (subscription.Repository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(subscription.Repository)
	return repo, args.Error(1)
}

func (m *MockUnitOfWork) PlanRepository() (subscription.PlanRepository, error) {
	args := m.Called()
	repo, _ := args.Get(0).(subscription.PlanRepository)
	return repo, args.Error(1)
}
