package domain

// CategoryAll is the sentinel category that matches every product.
const CategoryAll = "todos"

// Product is an item of the static catalog. Prices are whole pesos.
type Product struct {
	ID            string  `json:"id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Slug          string  `json:"slug"`
	Price         int64   `json:"price" validate:"gte=0"`
	OriginalPrice *int64  `json:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Image         string  `json:"image"`
	Category      string  `json:"category" validate:"required"`
	Available     bool    `json:"available"`
	Description   string  `json:"description"`
	Rating        float64 `json:"rating" validate:"gte=0,lte=5"`
	Reviews       int     `json:"reviews" validate:"gte=0"`
	IsPopular     bool    `json:"isPopular,omitempty"`
	IsNew         bool    `json:"isNew,omitempty"`
}

// Discount returns the whole-number percentage off the original price, or 0
// when the product is not discounted.
func (p Product) Discount() int {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price || *p.OriginalPrice == 0 {
		return 0
	}
	off := *p.OriginalPrice - p.Price
	return int((off*100 + *p.OriginalPrice/2) / *p.OriginalPrice)
}

// Category groups products in the storefront navigation.
type Category struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name" validate:"required"`
	Icon string `json:"icon"`
}
