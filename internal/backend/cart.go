package backend

import (
	"context"
	"fmt"

	"github.com/rishi-store/storefront/internal/domain"
)

// cartItemPayload is the wire form of a cart line.
type cartItemPayload struct {
	ProductID     ID         `json:"product_id"`
	VariationID   OptionalID `json:"variation_id"`
	Name          string     `json:"name"`
	VariationName string     `json:"variation_name"`
	Price         Number     `json:"price"`
	Image         string     `json:"image"`
	Stock         Number     `json:"stock"`
	Quantity      Quantity   `json:"quantity"`
}

func (p cartItemPayload) toDomain() domain.CartItem {
	return domain.CartItem{
		ProductID:     p.ProductID.Int64(),
		VariationID:   p.VariationID.Ptr(),
		Name:          p.Name,
		VariationName: p.VariationName,
		Price:         p.Price.Float(),
		Image:         p.Image,
		Stock:         p.Stock.Float(),
		Quantity:      p.Quantity.Int(),
	}
}

// FetchCart returns the authenticated user's remote cart.
func (c *Client) FetchCart(ctx context.Context, token string) ([]domain.CartItem, error) {
	envelope := ListEnvelope[cartItemPayload]{Key: "cart"}
	if err := c.get(ctx, "cart", token, &envelope); err != nil {
		return nil, err
	}
	items := make([]domain.CartItem, 0, len(envelope.Items))
	for _, payload := range envelope.Items {
		items = append(items, payload.toDomain())
	}
	return items, nil
}

// SyncCart replaces the remote cart with the provided lines.
func (c *Client) SyncCart(ctx context.Context, token string, items []domain.CartItem) error {
	type syncLine struct {
		ProductID   int64  `json:"product_id"`
		VariationID *int64 `json:"variation_id"`
		Quantity    int    `json:"quantity"`
	}
	lines := make([]syncLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, syncLine{
			ProductID:   item.ProductID,
			VariationID: item.VariationID,
			Quantity:    item.Quantity,
		})
	}
	body := map[string]any{"items": lines}
	return c.post(ctx, "cart", token, body, nil)
}

// UpsertCartItem adds quantity to the identity-keyed line, or sets it when
// replace is true.
func (c *Client) UpsertCartItem(ctx context.Context, token string, item domain.CartItem, replace bool) error {
	body := map[string]any{
		"product_id":   item.ProductID,
		"variation_id": item.VariationID,
		"quantity":     item.Quantity,
	}
	if replace {
		body["replace"] = true
	}
	return c.post(ctx, "cart", token, body, nil)
}

// DeleteCartItem removes the identity-keyed line from the remote cart.
func (c *Client) DeleteCartItem(ctx context.Context, token string, productID int64, variationID *int64) error {
	return c.delete(ctx, "cart/"+cartKeyPath(productID, variationID), token)
}

// ClearCart empties the remote cart.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.post(ctx, "cart/clear", token, nil, nil)
}

// cartKeyPath renders the identity key the way the delete endpoint expects:
// "{product_id}:{variation_id}", with a literal "null" variation for base
// products.
func cartKeyPath(productID int64, variationID *int64) string {
	if variationID == nil {
		return fmt.Sprintf("%d:null", productID)
	}
	return fmt.Sprintf("%d:%d", productID, *variationID)
}
