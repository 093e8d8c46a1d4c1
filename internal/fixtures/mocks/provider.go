package mocks

import (
	"context"

	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/stretchr/testify/mock"
)

// MockExchangeRateProvider is a mock of provider.ExchangeRateProvider.
type MockExchangeRateProvider struct {
	mock.Mock
}

func NewMockExchangeRateProvider(t testingT) *MockExchangeRateProvider {
	m := &MockExchangeRateProvider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockExchangeRateProvider) GetRate(
	ctx context.Context,
	from, to string,
) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, from, to)
	rate, _ := args.Get(0).(*domain.ExchangeRate)
	return rate, args.Error(1)
}

func (m *MockExchangeRateProvider) Name() string {
	args := m.Called()
	return args.String(0)
}
