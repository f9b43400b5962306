package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/rishi-store/storefront/internal/domain"
)

const stripeName = "stripe"

type stripeSessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeIntentAPI interface {
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeProvider implements Provider over Stripe hosted checkout. Callbacks
// carry no local signature; verification looks the intent up instead.
type StripeProvider struct {
	sessions stripeSessionAPI
	intents  stripeIntentAPI
	clock    func() time.Time
}

// StripeConfig configures the StripeProvider. Sessions and Intents override
// the real API clients in tests.
type StripeConfig struct {
	APIKey   string
	Sessions stripeSessionAPI
	Intents  stripeIntentAPI
	Clock    func() time.Time
}

// NewStripeProvider constructs a Stripe Provider.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	sessions := cfg.Sessions
	intents := cfg.Intents
	if sessions == nil || intents == nil {
		if apiKey == "" {
			return nil, errors.New("stripe: api key is required")
		}
		sc := client.New(apiKey, nil)
		sessions = sc.CheckoutSessions
		intents = sc.PaymentIntents
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &StripeProvider{sessions: sessions, intents: intents, clock: clock}, nil
}

// Name implements Provider.
func (p *StripeProvider) Name() string { return stripeName }

// CreateCheckoutSession opens a hosted checkout session for the order total.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	if p == nil {
		return CheckoutSession{}, errors.New("stripe: provider is nil")
	}
	if req.Order.Amount <= 0 {
		return CheckoutSession{}, fmt.Errorf("stripe: invalid amount %d", req.Order.Amount)
	}

	currency := strings.ToLower(strings.TrimSpace(req.Order.Currency))
	if currency == "" {
		currency = "inr"
	}
	name := req.Description
	if strings.TrimSpace(name) == "" {
		name = "Order"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(req.Order.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
			},
		}},
	}
	params.Context = ctx
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}
	if email := strings.TrimSpace(req.Customer.Email); email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	if len(req.Notes) > 0 {
		params.Metadata = make(map[string]string, len(req.Notes))
		for k, v := range req.Notes {
			params.Metadata[k] = v
		}
	}

	session, err := p.sessions.New(params)
	if err != nil {
		return CheckoutSession{}, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	expiresAt := p.clock().Add(30 * time.Minute)
	if session.ExpiresAt != 0 {
		expiresAt = time.Unix(session.ExpiresAt, 0).UTC()
	}
	return CheckoutSession{
		ID:          session.ID,
		Provider:    stripeName,
		RedirectURL: session.URL,
		ExpiresAt:   expiresAt,
	}, nil
}

// VerifyCallback confirms the payment intent named by the callback has been
// captured. Stripe callbacks are not signed client-side, so the intent status
// is the source of truth.
func (p *StripeProvider) VerifyCallback(ctx context.Context, cb domain.PaymentCallback) error {
	if p == nil {
		return errors.New("stripe: provider is nil")
	}
	intentID := strings.TrimSpace(cb.PaymentID)
	if intentID == "" {
		return fmt.Errorf("%w: missing payment intent id", ErrSignatureMismatch)
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	intent, err := p.intents.Get(intentID, params)
	if err != nil {
		return fmt.Errorf("stripe: lookup payment intent: %w", err)
	}
	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return fmt.Errorf("%w: intent status %s", ErrSignatureMismatch, intent.Status)
	}
	return nil
}
