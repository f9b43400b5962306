// Package payments adapts checkout gateways behind a common provider
// interface. Razorpay opens an embedded widget; Stripe redirects to a hosted
// session.
package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rishi-store/storefront/internal/domain"
)

var (
	// ErrUnsupportedProvider is returned when the manager cannot locate a provider.
	ErrUnsupportedProvider = errors.New("payments: unsupported provider")
	// ErrSignatureMismatch reports a callback whose signature does not verify.
	ErrSignatureMismatch = errors.New("payments: signature mismatch")
)

// CheckoutRequest captures the payload required to open a gateway session.
type CheckoutRequest struct {
	Order          domain.PaymentOrder
	Customer       domain.User
	Description    string
	Notes          map[string]string
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
}

// Prefill seeds the gateway widget with customer contact details.
type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// WidgetOptions is the client-side configuration for an embedded checkout
// widget. Field names follow the gateway's option keys.
type WidgetOptions struct {
	Key         string            `json:"key"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	OrderID     string            `json:"order_id"`
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Prefill     Prefill           `json:"prefill"`
	Notes       map[string]string `json:"notes,omitempty"`
}

// CheckoutSession is the opened gateway session handed to the client. Widget
// gateways fill Widget; redirect gateways fill RedirectURL.
type CheckoutSession struct {
	ID          string         `json:"id"`
	Provider    string         `json:"provider"`
	Widget      *WidgetOptions `json:"widget,omitempty"`
	RedirectURL string         `json:"redirect_url,omitempty"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

// Provider is the contract gateway adapters implement.
type Provider interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error)
	VerifyCallback(ctx context.Context, cb domain.PaymentCallback) error
}

// Manager selects a provider by name and exposes the aggregated interface.
type Manager struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewManager constructs a Manager over the supplied providers. The default
// provider must be registered when named.
func NewManager(providers map[string]Provider, defaultProvider string) (*Manager, error) {
	if len(providers) == 0 {
		return nil, errors.New("payments: at least one provider is required")
	}
	registry := make(map[string]Provider, len(providers))
	for k, v := range providers {
		key := strings.TrimSpace(strings.ToLower(k))
		if key == "" || v == nil {
			return nil, fmt.Errorf("payments: invalid provider registration for key %q", k)
		}
		registry[key] = v
	}
	def := strings.TrimSpace(strings.ToLower(defaultProvider))
	if def != "" {
		if _, ok := registry[def]; !ok {
			return nil, fmt.Errorf("payments: default provider %q is not registered", defaultProvider)
		}
	}
	return &Manager{providers: registry, defaultProvider: def}, nil
}

func (m *Manager) resolve(name string) (Provider, error) {
	if m == nil || len(m.providers) == 0 {
		return nil, errors.New("payments: no providers registered")
	}
	if key := strings.TrimSpace(strings.ToLower(name)); key != "" {
		if p, ok := m.providers[key]; ok {
			return p, nil
		}
		return nil, ErrUnsupportedProvider
	}
	if m.defaultProvider != "" {
		return m.providers[m.defaultProvider], nil
	}
	if len(m.providers) == 1 {
		for _, p := range m.providers {
			return p, nil
		}
	}
	return nil, ErrUnsupportedProvider
}

// CreateCheckoutSession delegates to the named provider, falling back to the
// default when the name is empty.
func (m *Manager) CreateCheckoutSession(ctx context.Context, provider string, req CheckoutRequest) (CheckoutSession, error) {
	p, err := m.resolve(provider)
	if err != nil {
		return CheckoutSession{}, err
	}
	session, err := p.CreateCheckoutSession(ctx, req)
	if err != nil {
		return CheckoutSession{}, err
	}
	session.Provider = p.Name()
	return session, nil
}

// VerifyCallback delegates callback verification to the named provider.
func (m *Manager) VerifyCallback(ctx context.Context, provider string, cb domain.PaymentCallback) error {
	p, err := m.resolve(provider)
	if err != nil {
		return err
	}
	return p.VerifyCallback(ctx, cb)
}
