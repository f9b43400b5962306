package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rishi-store/storefront/internal/domain"
)

const razorpayName = "razorpay"

// RazorpayProvider opens an embedded checkout widget and verifies the
// signature the widget hands back on success.
type RazorpayProvider struct {
	keyID     string
	keySecret string
	currency  string
	merchant  string
}

// RazorpayConfig configures the RazorpayProvider.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
	// Merchant is the display name shown in the widget header.
	Merchant string
}

// NewRazorpayProvider constructs a Razorpay Provider from key credentials.
func NewRazorpayProvider(cfg RazorpayConfig) (*RazorpayProvider, error) {
	keyID := strings.TrimSpace(cfg.KeyID)
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keyID == "" || keySecret == "" {
		return nil, errors.New("razorpay: key id and secret are required")
	}
	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "INR"
	}
	return &RazorpayProvider{
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
		merchant:  strings.TrimSpace(cfg.Merchant),
	}, nil
}

// Name implements Provider.
func (p *RazorpayProvider) Name() string { return razorpayName }

// CreateCheckoutSession builds the widget options for an already-created
// gateway order. The order itself is created server-side; the widget only
// needs the public key, amount, and order id.
func (p *RazorpayProvider) CreateCheckoutSession(_ context.Context, req CheckoutRequest) (CheckoutSession, error) {
	if p == nil {
		return CheckoutSession{}, errors.New("razorpay: provider is nil")
	}
	order := req.Order
	if strings.TrimSpace(order.OrderID) == "" {
		return CheckoutSession{}, errors.New("razorpay: order id is required")
	}
	if order.Amount <= 0 {
		return CheckoutSession{}, fmt.Errorf("razorpay: invalid amount %d", order.Amount)
	}

	currency := strings.ToUpper(strings.TrimSpace(order.Currency))
	if currency == "" {
		currency = p.currency
	}
	key := order.KeyID
	if strings.TrimSpace(key) == "" {
		key = p.keyID
	}

	widget := &WidgetOptions{
		Key:         key,
		Amount:      order.Amount,
		Currency:    currency,
		OrderID:     order.OrderID,
		Name:        p.merchant,
		Description: req.Description,
		Prefill: Prefill{
			Name:    req.Customer.Name,
			Email:   req.Customer.Email,
			Contact: req.Customer.Phone,
		},
		Notes: req.Notes,
	}
	return CheckoutSession{
		ID:        order.OrderID,
		Provider:  razorpayName,
		Widget:    widget,
		ExpiresAt: order.ExpiresAt,
	}, nil
}

// VerifyCallback checks the widget success payload against the key secret.
// The gateway signs "orderID|paymentID" with HMAC-SHA256, hex encoded.
func (p *RazorpayProvider) VerifyCallback(_ context.Context, cb domain.PaymentCallback) error {
	if p == nil {
		return errors.New("razorpay: provider is nil")
	}
	orderID := strings.TrimSpace(cb.OrderID)
	paymentID := strings.TrimSpace(cb.PaymentID)
	signature := strings.TrimSpace(cb.Signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return fmt.Errorf("%w: incomplete callback", ErrSignatureMismatch)
	}

	mac := hmac.New(sha256.New, []byte(p.keySecret))
	_, _ = mac.Write([]byte(orderID + "|" + paymentID))
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: signature not hex encoded", ErrSignatureMismatch)
	}
	if !hmac.Equal(got, expected) {
		return ErrSignatureMismatch
	}
	return nil
}
