package catalog

import (
	"sort"
	"strings"

	"github.com/rishi-store/storefront/internal/domain"
)

// ProductFilter narrows a product list. Zero-valued fields do not constrain;
// MaxPrice of zero means unbounded.
type ProductFilter struct {
	MinPrice float64
	MaxPrice float64
	InStock  bool
	OnSale   bool
	Query    string
}

// Sort keys accepted by SortProducts.
const (
	SortName      = "name"
	SortPriceAsc  = "price"
	SortPriceDesc = "price_desc"
)

// FilterProducts returns the products matching every set constraint. Prices
// are compared on the effective (sale-aware) price. The input is not mutated.
func FilterProducts(products []domain.Product, filter ProductFilter) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]domain.Product, 0, len(products))
	for _, product := range products {
		price := product.EffectivePrice()
		if price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && price > filter.MaxPrice {
			continue
		}
		if filter.InStock && product.Stock <= 0 {
			continue
		}
		if filter.OnSale && !product.OnSale() {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(product.Name), query) {
			continue
		}
		out = append(out, product)
	}
	return out
}

// SortProducts orders a copy of the list by the given key. An unknown key
// returns the input order unchanged. Name ordering uses the shared collator so
// product and category listings agree on alphabetical.
func SortProducts(products []domain.Product, key string) []domain.Product {
	out := append([]domain.Product(nil), products...)
	switch key {
	case SortName:
		nameCollator.mu.Lock()
		defer nameCollator.mu.Unlock()
		sort.SliceStable(out, func(i, j int) bool {
			return nameCollator.c.CompareString(out[i].Name, out[j].Name) < 0
		})
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectivePrice() < out[j].EffectivePrice()
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectivePrice() > out[j].EffectivePrice()
		})
	}
	return out
}
