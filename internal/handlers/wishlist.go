package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/platform/httpx"
	"github.com/rishi-store/storefront/internal/services"
)

// WishlistHandlers exposes the authenticated wishlist.
type WishlistHandlers struct {
	wishlist *services.WishlistService
}

// NewWishlistHandlers constructs the wishlist endpoints.
func NewWishlistHandlers(wishlist *services.WishlistService) *WishlistHandlers {
	return &WishlistHandlers{wishlist: wishlist}
}

// Routes wires the /wishlist endpoints onto the provided router.
func (h *WishlistHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getWishlist)
	r.Post("/items", h.addItem)
	r.Delete("/items/{productID}", h.removeItem)
	r.Post("/toggle", h.toggleItem)
	r.Post("/clear", h.clearWishlist)
}

type wishlistItemPayload struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	CreatedAt string          `json:"created_at,omitempty"`
	Product   productResponse `json:"product"`
}

type productResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Price     float64 `json:"price"`
	SalePrice float64 `json:"sale_price,omitempty"`
	Image     string  `json:"image,omitempty"`
	Stock     float64 `json:"stock"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Price:     p.Price,
		SalePrice: p.SalePrice,
		Image:     p.Image,
		Stock:     p.Stock,
	}
}

func (h *WishlistHandlers) buildPayload() map[string]any {
	items := h.wishlist.Items()
	out := make([]wishlistItemPayload, 0, len(items))
	for _, item := range items {
		payload := wishlistItemPayload{
			ID:        item.ID,
			ProductID: item.ProductID,
			Product:   toProductResponse(item.Product),
		}
		if !item.CreatedAt.IsZero() {
			payload.CreatedAt = item.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, payload)
	}
	return map[string]any{
		"items":       out,
		"total_items": h.wishlist.TotalItems(),
	}
}

func (h *WishlistHandlers) getWishlist(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

type wishlistRequest struct {
	Product productRequest `json:"product"`
}

func (h *WishlistHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req wishlistRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if req.Product.ID <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product id is required", http.StatusBadRequest))
		return
	}

	if err := h.wishlist.Add(ctx, req.Product.toDomain()); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

func (h *WishlistHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product id must be a positive integer", http.StatusBadRequest))
		return
	}

	h.wishlist.Remove(ctx, productID)
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

func (h *WishlistHandlers) toggleItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req wishlistRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if req.Product.ID <= 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product id is required", http.StatusBadRequest))
		return
	}

	if err := h.wishlist.Toggle(ctx, req.Product.toDomain()); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

func (h *WishlistHandlers) clearWishlist(w http.ResponseWriter, r *http.Request) {
	h.wishlist.Clear(r.Context())
	httpx.WriteJSON(w, http.StatusOK, h.buildPayload())
}

func (h *WishlistHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	if errors.Is(err, services.ErrWishlistAnonymous) {
		httpx.WriteError(ctx, w, httpx.NewError("unauthenticated", "sign in to use the wishlist", http.StatusUnauthorized))
		return
	}
	writeBackendError(ctx, w, err, "could not update wishlist")
}
