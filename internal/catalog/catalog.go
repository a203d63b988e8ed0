// Package catalog holds the read-only product catalog and the product filter.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bichitomultihogar/elcausa/internal/domain"
	"github.com/bichitomultihogar/elcausa/pkg/slug"
	"github.com/bichitomultihogar/elcausa/pkg/validator"
)

//go:embed catalog.json
var defaultCatalog []byte

type document struct {
	Categories []domain.Category `json:"categories"`
	Products   []domain.Product  `json:"products"`
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	categories []domain.Category
	products   []domain.Product
	byID       map[string]int
	bySlug     map[string]int
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes and validates a catalog document.
func Parse(r io.Reader) (*Catalog, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(doc.Categories, doc.Products)
}

// New validates categories and products and builds the lookup indexes.
// Products without a slug get one derived from their name.
func New(categories []domain.Category, products []domain.Product) (*Catalog, error) {
	known := make(map[string]struct{}, len(categories))
	for i, c := range categories {
		if err := validator.Validate(c); err != nil {
			return nil, fmt.Errorf("category %d: %w", i, err)
		}
		if _, dup := known[c.ID]; dup {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}
		known[c.ID] = struct{}{}
	}

	c := &Catalog{
		categories: categories,
		products:   make([]domain.Product, len(products)),
		byID:       make(map[string]int, len(products)),
		bySlug:     make(map[string]int, len(products)),
	}

	for i, p := range products {
		if err := validator.Validate(p); err != nil {
			return nil, fmt.Errorf("product %q: %w", p.ID, err)
		}
		if p.Category == domain.CategoryAll {
			return nil, fmt.Errorf("product %q: category %q is reserved", p.ID, domain.CategoryAll)
		}
		if _, ok := known[p.Category]; !ok {
			return nil, fmt.Errorf("product %q: unknown category %q", p.ID, p.Category)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		if p.Slug == "" {
			p.Slug = slug.Generate(p.Name)
		}
		if _, dup := c.bySlug[p.Slug]; dup {
			return nil, fmt.Errorf("product %q: duplicate slug %q", p.ID, p.Slug)
		}

		c.products[i] = p
		c.byID[p.ID] = i
		c.bySlug[p.Slug] = i
	}

	return c, nil
}

// Products returns every product in catalog order.
func (c *Catalog) Products() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Categories returns every category, including the "todos" sentinel when
// the document lists it.
func (c *Catalog) Categories() []domain.Category {
	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// ByID looks a product up by id.
func (c *Catalog) ByID(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// BySlug looks a product up by slug, falling back to id.
func (c *Catalog) BySlug(s string) (domain.Product, bool) {
	if i, ok := c.bySlug[s]; ok {
		return c.products[i], true
	}
	return c.ByID(s)
}

// Filter applies the storefront filter to the whole catalog.
func (c *Catalog) Filter(category, query string) []domain.Product {
	return Filter(c.products, category, query)
}
