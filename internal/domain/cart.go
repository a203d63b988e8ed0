package domain

// CartItem is a product snapshot taken when it was first added, plus a
// quantity that stays at 1 or more while the item is in the cart.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity.
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart is an ordered list of items with unique product ids.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Find returns the index of the item with the given product id, or -1.
func (c *Cart) Find(productID string) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing item or appends the product
// with quantity 1. The snapshot of an existing item is not refreshed.
func (c *Cart) Add(p Product) {
	if i := c.Find(p.ID); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	c.Items = append(c.Items, CartItem{Product: p, Quantity: 1})
}

// SetQuantity sets the quantity of an existing item, removing it when the
// quantity is zero. Absent ids are left alone. It reports whether the cart
// changed. Callers reject negative quantities before calling.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	i := c.Find(productID)
	if i < 0 || quantity < 0 {
		return false
	}
	if quantity == 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	if c.Items[i].Quantity == quantity {
		return false
	}
	c.Items[i].Quantity = quantity
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// TotalPrice is the sum of every line total.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.LineTotal()
	}
	return total
}

// TotalItems is the sum of every quantity.
func (c *Cart) TotalItems() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Snapshot returns a copy of the items that callers may keep.
func (c *Cart) Snapshot() []CartItem {
	out := make([]CartItem, len(c.Items))
	copy(out, c.Items)
	return out
}

// Normalize drops entries that break the cart invariants: missing ids,
// non-positive quantities and duplicates (the first occurrence wins).
func (c *Cart) Normalize() {
	seen := make(map[string]struct{}, len(c.Items))
	kept := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID == "" || item.Quantity < 1 {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		kept = append(kept, item)
	}
	c.Items = kept
}
