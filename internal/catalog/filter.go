package catalog

import (
	"strings"

	"github.com/bichitomultihogar/elcausa/internal/domain"
)

// Filter keeps the products in the given category (every category for
// "todos" or "") whose name contains query, ignoring case. Input order is
// preserved and the input slice is not modified.
func Filter(products []domain.Product, category, query string) []domain.Product {
	allCategories := category == "" || category == domain.CategoryAll
	q := strings.ToLower(query)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !allCategories && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Favorites returns the catalog products whose id is in ids, in catalog order.
func (c *Catalog) Favorites(ids []string) []domain.Product {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]domain.Product, 0, len(ids))
	for _, p := range c.products {
		if _, ok := want[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out
}
