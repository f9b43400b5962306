package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rishi-store/storefront/internal/domain"
)

// ErrVerificationFailed is returned when the backend rejects a payment
// callback; the purchase must not be treated as confirmed.
var ErrVerificationFailed = errors.New("backend: payment verification failed")

// CreatePaymentOrder asks the backend to open a gateway order for the payable.
func (c *Client) CreatePaymentOrder(ctx context.Context, token, payableType string, payableID, amountCents int64, ttl time.Duration) (domain.PaymentOrder, error) {
	ttlMinutes := int(ttl.Minutes())
	if ttlMinutes <= 0 {
		ttlMinutes = 15
	}
	body := map[string]any{
		"payable_type": payableType,
		"payable_id":   payableID,
		"amount_cents": amountCents,
		"ttl_minutes":  ttlMinutes,
	}
	var payload struct {
		Success bool `json:"success"`
		Data    struct {
			PaymentID ID     `json:"payment_id"`
			KeyID     string `json:"key_id"`
			OrderID   string `json:"order_id"`
			Amount    Number `json:"amount"`
			Currency  string `json:"currency"`
			ExpiresAt string `json:"expires_at"`
		} `json:"data"`
	}
	if err := c.post(ctx, "payments/create", token, body, &payload); err != nil {
		return domain.PaymentOrder{}, err
	}
	if !payload.Success {
		return domain.PaymentOrder{}, errors.New("backend: payment order was not created")
	}
	order := domain.PaymentOrder{
		PaymentID: payload.Data.PaymentID.Int64(),
		KeyID:     payload.Data.KeyID,
		OrderID:   payload.Data.OrderID,
		Amount:    int64(payload.Data.Amount.Float()),
		Currency:  payload.Data.Currency,
	}
	if ts, err := time.Parse(time.RFC3339, payload.Data.ExpiresAt); err == nil {
		order.ExpiresAt = ts
	}
	return order, nil
}

// VerifyPayment forwards the gateway callback to the backend's verification
// endpoint. The purchase is confirmed only when the backend agrees.
func (c *Client) VerifyPayment(ctx context.Context, token string, paymentID int64, callback domain.PaymentCallback) error {
	body := map[string]any{
		"razorpay_payment_id": callback.PaymentID,
		"razorpay_order_id":   callback.OrderID,
		"razorpay_signature":  callback.Signature,
	}
	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	path := fmt.Sprintf("payments/%d/verify", paymentID)
	if err := c.post(ctx, path, token, body, &payload); err != nil {
		return err
	}
	if !payload.Success {
		if payload.Message != "" {
			return fmt.Errorf("%w: %s", ErrVerificationFailed, payload.Message)
		}
		return ErrVerificationFailed
	}
	return nil
}
