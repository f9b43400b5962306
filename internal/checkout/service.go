// Package checkout orchestrates the payment flow: a server-side order is
// created first, the gateway session opens against it, and the purchase is
// confirmed only after both the gateway and the backend verify the callback.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/payments"
	"github.com/rishi-store/storefront/internal/session"
)

var (
	// ErrCheckoutAnonymous is returned for checkout attempts without a login.
	ErrCheckoutAnonymous = errors.New("checkout: authentication required")
	// ErrUnknownOrder reports a callback for an order this session never opened.
	ErrUnknownOrder = errors.New("checkout: unknown order")
)

const defaultOrderTTL = 15 * time.Minute

// PaymentAPI is the backend surface the checkout flow depends on.
type PaymentAPI interface {
	CreatePaymentOrder(ctx context.Context, token, payableType string, payableID, amountCents int64, ttl time.Duration) (domain.PaymentOrder, error)
	VerifyPayment(ctx context.Context, token string, paymentID int64, callback domain.PaymentCallback) error
}

// Gateway opens provider sessions and performs local callback verification.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, provider string, req payments.CheckoutRequest) (payments.CheckoutSession, error)
	VerifyCallback(ctx context.Context, provider string, cb domain.PaymentCallback) error
}

// ServiceDeps collects the checkout service dependencies.
type ServiceDeps struct {
	API     PaymentAPI
	Gateway Gateway
	Session *session.Session
	Logger  *zap.Logger
}

// Service drives a session's payment attempts. Pending orders are tracked so
// a callback can be matched back to the payment record it belongs to.
type Service struct {
	api     PaymentAPI
	gateway Gateway
	session *session.Session
	logger  *zap.Logger

	mu      sync.Mutex
	pending map[string]pendingOrder
}

type pendingOrder struct {
	paymentID int64
	provider  string
	expiresAt time.Time
}

// NewService validates dependencies and constructs the checkout service.
func NewService(deps ServiceDeps) (*Service, error) {
	if deps.API == nil {
		return nil, errors.New("checkout: payment api is required")
	}
	if deps.Gateway == nil {
		return nil, errors.New("checkout: gateway is required")
	}
	if deps.Session == nil {
		return nil, errors.New("checkout: session is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:     deps.API,
		gateway: deps.Gateway,
		session: deps.Session,
		logger:  logger,
		pending: map[string]pendingOrder{},
	}, nil
}

// BeginRequest describes the purchase to open a payment for.
type BeginRequest struct {
	Provider    string
	PayableType string
	PayableID   int64
	AmountCents int64
	Description string
	TTL         time.Duration
}

// Begin creates the backend payment order and opens the gateway session.
func (s *Service) Begin(ctx context.Context, req BeginRequest) (payments.CheckoutSession, error) {
	token := s.session.Token()
	if token == "" {
		return payments.CheckoutSession{}, ErrCheckoutAnonymous
	}
	if strings.TrimSpace(req.PayableType) == "" || req.PayableID <= 0 {
		return payments.CheckoutSession{}, errors.New("checkout: payable type and id are required")
	}
	if req.AmountCents <= 0 {
		return payments.CheckoutSession{}, fmt.Errorf("checkout: invalid amount %d", req.AmountCents)
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = defaultOrderTTL
	}

	order, err := s.api.CreatePaymentOrder(ctx, token, req.PayableType, req.PayableID, req.AmountCents, ttl)
	if err != nil {
		return payments.CheckoutSession{}, fmt.Errorf("checkout: create order: %w", err)
	}

	var customer domain.User
	if user := s.session.User(); user != nil {
		customer = *user
	}
	gatewayReq := payments.CheckoutRequest{
		Order:          order,
		Customer:       customer,
		Description:    req.Description,
		IdempotencyKey: ulid.Make().String(),
		Notes: map[string]string{
			"payable_type": req.PayableType,
			"payable_id":   fmt.Sprint(req.PayableID),
		},
	}
	checkoutSession, err := s.gateway.CreateCheckoutSession(ctx, req.Provider, gatewayReq)
	if err != nil {
		return payments.CheckoutSession{}, fmt.Errorf("checkout: open gateway session: %w", err)
	}

	s.mu.Lock()
	s.pending[order.OrderID] = pendingOrder{
		paymentID: order.PaymentID,
		provider:  checkoutSession.Provider,
		expiresAt: order.ExpiresAt,
	}
	s.mu.Unlock()

	s.logger.Info("payment order opened",
		zap.String("orderId", order.OrderID),
		zap.Int64("paymentId", order.PaymentID),
		zap.String("provider", checkoutSession.Provider))
	return checkoutSession, nil
}

// Complete verifies the gateway callback locally, then with the backend. Only
// a double pass confirms the purchase.
func (s *Service) Complete(ctx context.Context, cb domain.PaymentCallback) error {
	token := s.session.Token()
	if token == "" {
		return ErrCheckoutAnonymous
	}

	s.mu.Lock()
	pending, ok := s.pending[cb.OrderID]
	s.mu.Unlock()
	if !ok {
		return ErrUnknownOrder
	}

	if err := s.gateway.VerifyCallback(ctx, pending.provider, cb); err != nil {
		s.logger.Warn("gateway callback verification failed",
			zap.String("orderId", cb.OrderID), zap.Error(err))
		return err
	}
	if err := s.api.VerifyPayment(ctx, token, pending.paymentID, cb); err != nil {
		s.logger.Warn("backend payment verification failed",
			zap.String("orderId", cb.OrderID), zap.Error(err))
		return err
	}

	s.mu.Lock()
	delete(s.pending, cb.OrderID)
	s.mu.Unlock()

	s.logger.Info("payment verified", zap.String("orderId", cb.OrderID))
	return nil
}

// Dismiss drops a pending order after the customer closes the widget without
// paying. The backend order simply expires.
func (s *Service) Dismiss(orderID string) {
	s.mu.Lock()
	_, ok := s.pending[orderID]
	delete(s.pending, orderID)
	s.mu.Unlock()
	if ok {
		s.logger.Info("payment dismissed", zap.String("orderId", orderID))
	}
}

// Pending reports whether the order is still awaiting a callback.
func (s *Service) Pending(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[orderID]
	return ok
}
