package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rishi-store/storefront/internal/backend"
	"github.com/rishi-store/storefront/internal/catalog"
	"github.com/rishi-store/storefront/internal/domain"
	"github.com/rishi-store/storefront/internal/format"
	"github.com/rishi-store/storefront/internal/platform/httpx"
)

// CategoryHandlers serves the category hierarchy.
type CategoryHandlers struct {
	backend *backend.Client
	builder *catalog.Builder
}

// NewCategoryHandlers constructs the category endpoints.
func NewCategoryHandlers(client *backend.Client, builder *catalog.Builder) *CategoryHandlers {
	if builder == nil {
		builder = &catalog.Builder{}
	}
	return &CategoryHandlers{backend: client, builder: builder}
}

// Routes wires the /categories endpoints onto the provided router.
func (h *CategoryHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getTree)
	r.Get("/{categoryID}/path", h.getPath)
	r.Get("/{categoryID}/children", h.getChildren)
}

type categoryPayload struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Slug          string             `json:"slug,omitempty"`
	Icon          string             `json:"icon,omitempty"`
	Level         int                `json:"level"`
	ParentID      string             `json:"parent_id,omitempty"`
	ProductsCount int                `json:"products_count"`
	Children      []categoryPayload `json:"children,omitempty"`
}

func toCategoryPayload(c *domain.Category) categoryPayload {
	payload := categoryPayload{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		Icon:          c.Icon,
		Level:         c.Level,
		ParentID:      c.ParentID,
		ProductsCount: c.ProductsCount,
	}
	for _, child := range c.Children {
		payload.Children = append(payload.Children, toCategoryPayload(child))
	}
	return payload
}

func toCategoryPayloads(categories []*domain.Category) []categoryPayload {
	out := make([]categoryPayload, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryPayload(c))
	}
	return out
}

func (h *CategoryHandlers) buildTree(r *http.Request) (*catalog.Tree, error) {
	categories, err := h.backend.FetchCategories(r.Context())
	if err != nil {
		return nil, err
	}
	return h.builder.Build(categories), nil
}

func (h *CategoryHandlers) getTree(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tree, err := h.buildTree(r)
	if err != nil {
		writeBackendError(ctx, w, err, "could not load categories")
		return
	}

	if levelRaw := strings.TrimSpace(r.URL.Query().Get("level")); levelRaw != "" {
		level, err := strconv.Atoi(levelRaw)
		if err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "level must be an integer", http.StatusBadRequest))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"categories": toCategoryPayloads(tree.ByLevel(level)),
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"categories": toCategoryPayloads(tree.Roots),
	})
}

func (h *CategoryHandlers) getPath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tree, err := h.buildTree(r)
	if err != nil {
		writeBackendError(ctx, w, err, "could not load categories")
		return
	}

	id := chi.URLParam(r, "categoryID")
	path := tree.Path(id)
	if path == nil {
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "unknown category", http.StatusNotFound))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"path":      toCategoryPayloads(path),
		"full_path": tree.FullPath(id),
	})
}

func (h *CategoryHandlers) getChildren(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tree, err := h.buildTree(r)
	if err != nil {
		writeBackendError(ctx, w, err, "could not load categories")
		return
	}

	id := chi.URLParam(r, "categoryID")
	if tree.Find(id) == nil {
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "unknown category", http.StatusNotFound))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"children": toCategoryPayloads(tree.Children(id)),
	})
}

// ProductHandlers serves catalog products.
type ProductHandlers struct {
	backend *backend.Client
}

// NewProductHandlers constructs the product endpoints.
func NewProductHandlers(client *backend.Client) *ProductHandlers {
	return &ProductHandlers{backend: client}
}

// Routes wires the /products endpoints onto the provided router.
func (h *ProductHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listProducts)
	r.Get("/{slug}", h.getProduct)
}

type productDetailPayload struct {
	productResponse
	Description   string  `json:"description,omitempty"`
	OnSale        bool    `json:"on_sale"`
	Effective     float64 `json:"effective_price"`
	PriceDisplay  string  `json:"price_display"`
	VariationName string  `json:"variation_name,omitempty"`
}

func toProductDetail(p domain.Product) productDetailPayload {
	return productDetailPayload{
		productResponse: toProductResponse(p),
		Description:     p.Description,
		OnSale:          p.OnSale(),
		Effective:       p.EffectivePrice(),
		PriceDisplay:    format.Price(p.EffectivePrice()),
		VariationName:   p.VariationName,
	}
}

func (h *ProductHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()
	categorySlug := strings.TrimSpace(query.Get("category"))

	products, err := h.backend.FetchProducts(ctx, categorySlug)
	if err != nil {
		writeBackendError(ctx, w, err, "could not load products")
		return
	}

	filter := catalog.ProductFilter{
		MinPrice: parsePrice(query.Get("min_price")),
		MaxPrice: parsePrice(query.Get("max_price")),
		InStock:  query.Get("in_stock") == "true",
		OnSale:   query.Get("on_sale") == "true",
		Query:    query.Get("q"),
	}
	products = catalog.FilterProducts(products, filter)
	if sortKey := strings.TrimSpace(query.Get("sort")); sortKey != "" {
		products = catalog.SortProducts(products, sortKey)
	}

	out := make([]productDetailPayload, 0, len(products))
	for _, product := range products {
		out = append(out, toProductDetail(product))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"products": out})
}

// parsePrice reads a price query parameter, treating absence and garbage as
// unset.
func parsePrice(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func (h *ProductHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "product slug is required", http.StatusBadRequest))
		return
	}

	product, err := h.backend.FetchProduct(ctx, slug)
	if err != nil {
		writeBackendError(ctx, w, err, "product not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProductDetail(product))
}
