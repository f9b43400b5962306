package backend

import (
	"context"
	"strconv"
	"strings"

	"github.com/rishi-store/storefront/internal/domain"
)

type productPayload struct {
	ID            ID         `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	Price         Number     `json:"price"`
	SalePrice     Number     `json:"sale_price"`
	Image         string     `json:"image"`
	Stock         Number     `json:"stock"`
	CategoryID    ID         `json:"category_id"`
	VariationID   OptionalID `json:"variation_id"`
	VariationName string     `json:"variation_name"`
}

func (p productPayload) toDomain() domain.Product {
	return domain.Product{
		ID:            p.ID.Int64(),
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price.Float(),
		SalePrice:     p.SalePrice.Float(),
		Image:         p.Image,
		Stock:         p.Stock.Float(),
		CategoryID:    p.CategoryID.Int64(),
		VariationID:   p.VariationID.Ptr(),
		VariationName: p.VariationName,
	}
}

// categoryPayload decodes both the flat and the pre-nested category shapes.
type categoryPayload struct {
	RawID         ID                `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	ProductsCount Number            `json:"products_count"`
	Icon          string            `json:"icon"`
	Level         Number            `json:"level"`
	ParentID      OptionalID        `json:"parent_id"`
	FullPath      string            `json:"full_path"`
	Children      []categoryPayload `json:"children"`
}

func (p categoryPayload) toDomain() *domain.Category {
	cat := &domain.Category{
		ID:            idString(p.RawID.Int64()),
		Name:          strings.TrimSpace(p.Name),
		Slug:          p.Slug,
		ProductsCount: int(p.ProductsCount.Float()),
		Icon:          p.Icon,
		Level:         int(p.Level.Float()),
		FullPath:      p.FullPath,
	}
	if cat.Name == "" {
		cat.Name = "Unnamed Category"
	}
	if cat.Icon == "" {
		cat.Icon = "mdi:tag"
	}
	if cat.Level == 0 {
		cat.Level = 1
	}
	if parent := p.ParentID.Ptr(); parent != nil {
		cat.ParentID = idString(*parent)
	}
	for _, child := range p.Children {
		cat.Children = append(cat.Children, child.toDomain())
	}
	return cat
}

// FetchCategories returns the category list in whichever shape the backend
// emits; callers hand the result to the catalog builder, which detects
// flat-versus-nested structure.
func (c *Client) FetchCategories(ctx context.Context) ([]*domain.Category, error) {
	envelope := ListEnvelope[categoryPayload]{Key: "categories"}
	if err := c.get(ctx, "categories", "", &envelope); err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(envelope.Items))
	for _, payload := range envelope.Items {
		categories = append(categories, payload.toDomain())
	}
	return categories, nil
}

// FetchProducts returns the product list, optionally scoped to a category.
func (c *Client) FetchProducts(ctx context.Context, categorySlug string) ([]domain.Product, error) {
	path := "products"
	if slug := strings.TrimSpace(categorySlug); slug != "" {
		path = "categories/" + slug + "/products"
	}
	envelope := ListEnvelope[productPayload]{Key: "products"}
	if err := c.get(ctx, path, "", &envelope); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(envelope.Items))
	for _, payload := range envelope.Items {
		products = append(products, payload.toDomain())
	}
	return products, nil
}

// FetchProduct returns a single product by slug. A miss returns ErrNotFound.
func (c *Client) FetchProduct(ctx context.Context, slug string) (domain.Product, error) {
	var payload struct {
		Data productPayload `json:"data"`
	}
	if err := c.get(ctx, "products/"+strings.TrimSpace(slug), "", &payload); err != nil {
		return domain.Product{}, err
	}
	return payload.Data.toDomain(), nil
}

// idString renders an identifier in the canonical string form used by the
// category tree; zero becomes the empty string.
func idString(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
