package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rishi-store/storefront/internal/checkout"
	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/payments"
	"github.com/rishi-store/storefront/internal/platform/httpx"
)

// CheckoutHandlers exposes the payment flow.
type CheckoutHandlers struct {
	checkout *checkout.Service
}

// NewCheckoutHandlers constructs the checkout endpoints.
func NewCheckoutHandlers(svc *checkout.Service) *CheckoutHandlers {
	return &CheckoutHandlers{checkout: svc}
}

// Routes wires the /checkout endpoints onto the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/begin", h.begin)
	r.Post("/callback", h.callback)
	r.Post("/dismiss", h.dismiss)
}

type beginRequest struct {
	Provider    string `json:"provider"`
	PayableType string `json:"payable_type"`
	PayableID   int64  `json:"payable_id"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description"`
	TTLMinutes  int    `json:"ttl_minutes"`
}

func (h *CheckoutHandlers) begin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req beginRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	session, err := h.checkout.Begin(ctx, checkout.BeginRequest{
		Provider:    req.Provider,
		PayableType: req.PayableType,
		PayableID:   req.PayableID,
		AmountCents: req.AmountCents,
		Description: req.Description,
		TTL:         time.Duration(req.TTLMinutes) * time.Minute,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, session)
}

type callbackRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

func (h *CheckoutHandlers) callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req callbackRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	err := h.checkout.Complete(ctx, domain.PaymentCallback{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"verified": true})
}

type dismissRequest struct {
	OrderID string `json:"order_id"`
}

func (h *CheckoutHandlers) dismiss(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req dismissRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	h.checkout.Dismiss(req.OrderID)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"dismissed": true})
}

func (h *CheckoutHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, checkout.ErrCheckoutAnonymous):
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "sign in to pay", http.StatusUnauthorized))
	case errors.Is(err, checkout.ErrUnknownOrder):
		httpx.WriteError(ctx, w, httpx.NewError("unknown_order", "no pending payment for this order", http.StatusNotFound))
	case errors.Is(err, payments.ErrSignatureMismatch):
		httpx.WriteError(ctx, w, httpx.NewError("verification_failed", "payment could not be verified", http.StatusBadRequest))
	case errors.Is(err, payments.ErrUnsupportedProvider):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "unsupported payment provider", http.StatusBadRequest))
	default:
		writeBackendError(ctx, w, err, "payment request failed")
	}
}
