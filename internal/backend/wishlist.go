package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/rishi-store/storefront/internal/domain"
)

type wishlistItemPayload struct {
	ID        ID             `json:"id"`
	UserID    ID             `json:"user_id"`
	ProductID ID             `json:"product_id"`
	CreatedAt string         `json:"created_at"`
	Product   productPayload `json:"product"`
}

func (p wishlistItemPayload) toDomain() domain.WishlistItem {
	item := domain.WishlistItem{
		ID:        p.ID.Int64(),
		UserID:    p.UserID.Int64(),
		ProductID: p.ProductID.Int64(),
		Product:   p.Product.toDomain(),
	}
	if ts, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
		item.CreatedAt = ts
	}
	return item
}

// FetchWishlist returns the authenticated user's wishlist.
func (c *Client) FetchWishlist(ctx context.Context, token string) ([]domain.WishlistItem, error) {
	envelope := ListEnvelope[wishlistItemPayload]{Key: "wishlist"}
	if err := c.get(ctx, "wishlist", token, &envelope); err != nil {
		return nil, err
	}
	items := make([]domain.WishlistItem, 0, len(envelope.Items))
	for _, payload := range envelope.Items {
		items = append(items, payload.toDomain())
	}
	return items, nil
}

// AddWishlistItem saves a product to the remote wishlist.
func (c *Client) AddWishlistItem(ctx context.Context, token string, productID int64) error {
	body := map[string]any{"product_id": productID}
	return c.post(ctx, "wishlist", token, body, nil)
}

// DeleteWishlistItem removes a product from the remote wishlist.
func (c *Client) DeleteWishlistItem(ctx context.Context, token string, productID int64) error {
	return c.delete(ctx, fmt.Sprintf("wishlist/%d", productID), token)
}

// ClearWishlist empties the remote wishlist.
func (c *Client) ClearWishlist(ctx context.Context, token string) error {
	return c.post(ctx, "wishlist/clear", token, nil, nil)
}
