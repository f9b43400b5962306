package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/platform/httpx"
	"github.com/rishi-store/storefront/internal/session"
)

// AuthHandlers manages the session identity. The backend issues tokens; these
// endpoints only install or clear them, which is what triggers the cart and
// wishlist synchronizers.
type AuthHandlers struct {
	session *session.Session
}

// NewAuthHandlers constructs the session endpoints.
func NewAuthHandlers(sess *session.Session) *AuthHandlers {
	return &AuthHandlers{session: sess}
}

// Routes wires the /auth endpoints onto the provided router.
func (h *AuthHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/me", h.me)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
}

func (h *AuthHandlers) me(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"authenticated": h.session.Authenticated(),
	}
	if user := h.session.User(); user != nil {
		payload["user"] = map[string]any{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"phone": user.Phone,
		}
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}

type loginRequest struct {
	Token string `json:"token"`
	User  *struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"user"`
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "token is required", http.StatusBadRequest))
		return
	}

	var user *domain.User
	if req.User != nil {
		user = &domain.User{
			ID:    req.User.ID,
			Name:  req.User.Name,
			Email: req.User.Email,
			Phone: req.User.Phone,
		}
	}
	h.session.Login(req.Token, user)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": true})
}

func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
}
