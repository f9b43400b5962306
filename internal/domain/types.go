package domain

import (
	"time"
)

// Product is the catalog snapshot the storefront renders and carts reference.
// A SalePrice of zero means no sale is active.
type Product struct {
	ID            int64
	Name          string
	Slug          string
	Description   string
	Price         float64
	SalePrice     float64
	Image         string
	Stock         float64
	CategoryID    int64
	VariationID   *int64
	VariationName string
}

// EffectivePrice resolves the unit price used when the product enters a cart:
// the sale price when one is present and lower than the list price.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice > 0 && p.SalePrice < p.Price {
		return p.SalePrice
	}
	return p.Price
}

// OnSale reports whether the sale price undercuts the list price.
func (p Product) OnSale() bool {
	return p.SalePrice > 0 && p.SalePrice < p.Price
}

// CartItem is a single cart line. Identity is the (ProductID, VariationID)
// pair; a nil VariationID means the base product.
type CartItem struct {
	ProductID     int64
	VariationID   *int64
	Name          string
	VariationName string
	Price         float64
	Image         string
	Stock         float64
	Quantity      int
}

// Key returns the deduplication identity of the line.
func (i CartItem) Key() CartKey {
	return NewCartKey(i.ProductID, i.VariationID)
}

// LineTotal is the price contribution of this line.
func (i CartItem) LineTotal() float64 {
	if i.Quantity <= 0 {
		return 0
	}
	return i.Price * float64(i.Quantity)
}

// CartKey identifies a cart line by product and optional variation.
type CartKey struct {
	ProductID   int64
	VariationID int64
	HasVariant  bool
}

// NewCartKey builds the identity key for a product/variation pair.
func NewCartKey(productID int64, variationID *int64) CartKey {
	key := CartKey{ProductID: productID}
	if variationID != nil {
		key.VariationID = *variationID
		key.HasVariant = true
	}
	return key
}

// WishlistItem is a saved product reference, unique per product.
type WishlistItem struct {
	ID        int64
	UserID    int64
	ProductID int64
	CreatedAt time.Time
	Product   Product
}

// GlossaryTerm is a read-only CMS record. Slug is the stable identity; Title
// and RelatedTerms are the surface forms matched in content.
type GlossaryTerm struct {
	Title           string
	Slug            string
	Excerpt         string
	Category        string
	Description     string
	Details         []GlossaryDetail
	RelatedTerms    []string
	Linkable        bool
	OccurrenceLimit int
}

// GlossaryDetail is a titled description block within a term record.
type GlossaryDetail struct {
	Title       string
	Description string
}

// Category is a node in the storefront category hierarchy. IDs are canonical
// strings because upstream sources emit numeric and string identifiers
// interchangeably. Children are owned top-down; Parent is a non-owning
// back-reference and must never be serialized.
type Category struct {
	ID            string
	Name          string
	Slug          string
	ProductsCount int
	Icon          string
	Level         int
	ParentID      string
	FullPath      string
	Children      []*Category
	Parent        *Category `json:"-"`
}

// User is the authenticated storefront identity.
type User struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// Consultation is a doctor booking request assembled by the multi-step flow.
type Consultation struct {
	ID        int64
	DoctorID  int64
	Date      string
	TimeStart string
	TimeEnd   string
	Name      string
	Email     string
	Phone     string
	Notes     string
}

// PaymentOrder is a gateway order created server-side ahead of opening the
// checkout widget.
type PaymentOrder struct {
	PaymentID int64
	KeyID     string
	OrderID   string
	Amount    int64
	Currency  string
	ExpiresAt time.Time
}

// PaymentCallback is the payload the gateway widget hands to its success
// handler; it must be verified server-side before the purchase is confirmed.
type PaymentCallback struct {
	PaymentID string
	OrderID   string
	Signature string
}

// ContentPage is a CMS article body plus metadata, rendered to HTML before
// glossary auto-linking.
type ContentPage struct {
	Slug      string
	Title     string
	Excerpt   string
	Body      string
	Format    string // "markdown" (default) or "html"
	UpdatedAt time.Time
}
