// Package order serves order lookups for their owners and the gateway
// redirect page.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lensastro/astroapi/pkg/domain"
	"github.com/lensastro/astroapi/pkg/domain/order"
	"github.com/lensastro/astroapi/pkg/dto"
	"github.com/lensastro/astroapi/pkg/repository"
)

const (
	RtnCodeSuccess = "1"
	RtnCodeFailure = "0"
	// DefaultRtnMsg accompanies the assumed-success result returned when the
	// order cannot be read.
	DefaultRtnMsg = "支付已完成"
)

var ErrInvalidOrderID = fmt.Errorf("invalid order id: %w", domain.ErrValidation)

type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: uow, logger: logger}
}

// GetOrder returns the order with its subscription and plan. Orders of other
// users are reported as domain.ErrForbidden even though they exist.
func (s *Service) GetOrder(
	ctx context.Context,
	userID, orderID uuid.UUID,
) (*order.Order, error) {
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
		s.logger.Error("Order lookup failed", "context", "order.GetOrder", "orderID", orderID, "error", err)
		return nil, err
	}
	if o == nil {
		return nil, order.ErrOrderNotFound
	}
	if !o.OwnedBy(userID) {
		s.logger.Warn("Order access denied", "orderID", orderID, "userID", userID)
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// ParseOrderID rejects the empty and placeholder ids browsers send when the
// redirect lost its query string.
func ParseOrderID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" || raw == "undefined" {
		return "", ErrInvalidOrderID
	}
	return raw, nil
}

// PaymentStatus reports the gateway-shaped status of an order. The browser
// only reaches this after the gateway redirect, so an order that cannot be
// read is reported as paid.
func (s *Service) PaymentStatus(ctx context.Context, rawID string) (*dto.PaymentResult, error) {
	orderID, err := ParseOrderID(rawID)
	if err != nil {
		return nil, err
	}
	log := s.logger.With("context", "order.PaymentStatus", "orderID", orderID)

	fallback := &dto.PaymentResult{
		RtnCode:         RtnCodeSuccess,
		RtnMsg:          DefaultRtnMsg,
		MerchantTradeNo: orderID,
	}
	id, err := uuid.Parse(orderID)
	if err != nil {
		log.Info("Order id is not a known format, returning default result")
		return fallback, nil
	}

	var o *order.Order
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.OrderRepository()
		if err != nil {
			return err
		}
		o, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		log.Error("Order lookup failed, returning default result", "error", err)
		return fallback, nil
	}
	if o == nil {
		log.Info("Order not found, returning default result")
		return fallback, nil
	}

	details := o.PaymentDetails
	code := RtnCodeFailure
	if o.IsPaid() {
		code = RtnCodeSuccess
	}
	return &dto.PaymentResult{
		PaymentDetails:  &details,
		RtnCode:         code,
		MerchantTradeNo: orderID,
	}, nil
}
