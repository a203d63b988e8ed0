package domain

const (
	DefaultDeliveryFee           int64 = 800
	DefaultFreeDeliveryThreshold int64 = 10000
)

// DeliveryPricing charges Fee on subtotals below FreeThreshold.
type DeliveryPricing struct {
	Fee           int64
	FreeThreshold int64
}

// DefaultDeliveryPricing is 800 below 10000, free from 10000 up.
func DefaultDeliveryPricing() DeliveryPricing {
	return DeliveryPricing{Fee: DefaultDeliveryFee, FreeThreshold: DefaultFreeDeliveryThreshold}
}

// DeliveryFee is Fee when subtotal < FreeThreshold, else 0.
func (p DeliveryPricing) DeliveryFee(subtotal int64) int64 {
	if subtotal < p.FreeThreshold {
		return p.Fee
	}
	return 0
}

// Total is subtotal plus the delivery fee.
func (p DeliveryPricing) Total(subtotal int64) int64 {
	return subtotal + p.DeliveryFee(subtotal)
}

// RemainingForFree is how much more the shopper must add to get free
// delivery, 0 once the threshold is reached.
func (p DeliveryPricing) RemainingForFree(subtotal int64) int64 {
	if subtotal >= p.FreeThreshold {
		return 0
	}
	return p.FreeThreshold - subtotal
}

// Totals is the price breakdown shown on the cart and in the order message.
type Totals struct {
	Subtotal                 int64 `json:"subtotal"`
	DeliveryFee              int64 `json:"deliveryFee"`
	Total                    int64 `json:"total"`
	TotalItems               int   `json:"totalItems"`
	RemainingForFreeDelivery int64 `json:"remainingForFreeDelivery"`
}

// TotalsFor computes the breakdown for a cart.
func (p DeliveryPricing) TotalsFor(c *Cart) Totals {
	subtotal := c.TotalPrice()
	return Totals{
		Subtotal:                 subtotal,
		DeliveryFee:              p.DeliveryFee(subtotal),
		Total:                    p.Total(subtotal),
		TotalItems:               c.TotalItems(),
		RemainingForFreeDelivery: p.RemainingForFree(subtotal),
	}
}
