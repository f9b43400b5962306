package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rishi-store/storefront/internal/backend"
	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/format"
	"github.com/rishi-store/storefront/internal/platform/httpx"
	"github.com/rishi-store/storefront/internal/services"
)

const maxBodySize = 16 * 1024

// CartHandlers exposes the session cart.
type CartHandlers struct {
	cart *services.CartService
}

// NewCartHandlers constructs the cart endpoints over the synchronizer.
func NewCartHandlers(cart *services.CartService) *CartHandlers {
	return &CartHandlers{cart: cart}
}

// Routes wires the /cart endpoints onto the provided router.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Post("/items", h.addItem)
	r.Patch("/items", h.updateQuantity)
	r.Delete("/items", h.removeItem)
	r.Post("/clear", h.clearCart)
	r.Post("/refresh", h.refresh)
}

type cartLinePayload struct {
	ProductID     int64   `json:"product_id"`
	VariationID   *int64  `json:"variation_id,omitempty"`
	Name          string  `json:"name"`
	VariationName string  `json:"variation_name,omitempty"`
	Price         float64 `json:"price"`
	PriceDisplay  string  `json:"price_display"`
	Image         string  `json:"image,omitempty"`
	Quantity      int     `json:"quantity"`
	LineTotal     float64 `json:"line_total"`
}

type cartPayload struct {
	Items        []cartLinePayload `json:"items"`
	TotalItems   int               `json:"total_items"`
	TotalPrice   float64           `json:"total_price"`
	TotalDisplay string            `json:"total_display"`
}

func (h *CartHandlers) buildPayload() cartPayload {
	items := h.cart.Items()
	payload := cartPayload{
		Items:      make([]cartLinePayload, 0, len(items)),
		TotalItems: h.cart.TotalItems(),
		TotalPrice: h.cart.TotalPrice(),
	}
	payload.TotalDisplay = format.Price(payload.TotalPrice)
	for _, item := range items {
		payload.Items = append(payload.Items, cartLinePayload{
			ProductID:     item.ProductID,
			VariationID:   item.VariationID,
			Name:          item.Name,
			VariationName: item.VariationName,
			Price:         item.Price,
			PriceDisplay:  format.Price(item.Price),
			Image:         item.Image,
			Quantity:      item.Quantity,
			LineTotal:     item.LineTotal(),
		})
	}
	return payload
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

type addItemRequest struct {
	Product  productRequest `json:"product"`
	Quantity int            `json:"quantity"`
}

type productRequest struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Price         float64 `json:"price"`
	SalePrice     float64 `json:"sale_price"`
	Image         string  `json:"image"`
	Stock         float64 `json:"stock"`
	VariationID   *int64  `json:"variation_id"`
	VariationName string  `json:"variation_name"`
}

func (p productRequest) toDomain() domain.Product {
	return domain.Product{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Price:         p.Price,
		SalePrice:     p.SalePrice,
		Image:         p.Image,
		Stock:         p.Stock,
		VariationID:   p.VariationID,
		VariationName: p.VariationName,
	}
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if req.Product.ID <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product id is required", http.StatusBadRequest))
		return
	}

	if err := h.cart.AddItem(ctx, req.Product.toDomain(), req.Quantity); err != nil {
		writeBackendError(ctx, w, err, "could not add item to cart")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

type lineRequest struct {
	ProductID   int64  `json:"product_id"`
	VariationID *int64 `json:"variation_id"`
	Quantity    int    `json:"quantity"`
}

func (h *CartHandlers) updateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req lineRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if req.ProductID <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product id is required", http.StatusBadRequest))
		return
	}

	h.cart.UpdateQuantity(ctx, req.ProductID, req.VariationID, req.Quantity)
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req lineRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if req.ProductID <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product id is required", http.StatusBadRequest))
		return
	}

	h.cart.RemoveItem(ctx, req.ProductID, req.VariationID)
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

func (h *CartHandlers) refresh(w http.ResponseWriter, r *http.Request) {
	h.cart.FetchRemote(r.Context())
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

// decodeBody decodes a JSON request body with a size cap.
func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	if err := decoder.Decode(out); err != nil {
		return errors.New("request body must be valid JSON")
	}
	return nil
}

// writeBackendError translates an upstream failure into a response, keeping
// the backend-provided message when one exists.
func writeBackendError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, backend.ErrNotFound) {
		httpx.WriteError(ctx, w, httpx.NewError("not_found", fallback, http.StatusNotFound))
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		httpx.WriteError(ctx, w, httpx.NewError("backend_error", apiErr.UserMessage(fallback), status))
		return
	}
	httpx.WriteError(ctx, w, httpx.NewError("backend_unavailable", fallback, http.StatusBadGateway))
}
