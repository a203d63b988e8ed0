// Package checkout turns a cart and a customer form into a WhatsApp order
// message and drives the checkout dialog from open to dispatched.
package checkout

import (
	"fmt"
	"strings"

	"github.com/bichitomultihogar/elcausa/internal/domain"
)

const noDetails = "Sin detalles adicionales"

var paymentText = map[domain.PaymentMethod]string{
	domain.PaymentMercadoPago: "💳 MercadoPago (Pago realizado)",
	domain.PaymentTransfer:    "🏦 Transferencia Bancaria (Comprobante pendiente)",
	domain.PaymentCash:        "💵 Efectivo en entrega",
}

// Formatter renders order messages. The zero value uses the 30-45 minute
// delivery window; configuration never yields a 0-0 window.
type Formatter struct {
	ETAMinMinutes int
	ETAMaxMinutes int
}

func (f Formatter) window() (int, int) {
	if f.ETAMinMinutes == 0 && f.ETAMaxMinutes == 0 {
		return 30, 45
	}
	return f.ETAMinMinutes, f.ETAMaxMinutes
}

// ETA renders the delivery window for API responses, e.g. "30 min - 45 min".
func (f Formatter) ETA() string {
	lo, hi := f.window()
	return domain.FormatMinutes(lo) + " - " + domain.FormatMinutes(hi)
}

// FormatMessage renders with the default Formatter.
func FormatMessage(items []domain.CartItem, customer domain.CustomerData, subtotal, deliveryFee, total int64) string {
	return Formatter{}.Format(items, customer, subtotal, deliveryFee, total)
}

// Format renders the order message. It has no side effects; amounts are
// taken as given and not recomputed from items.
func (f Formatter) Format(items []domain.CartItem, customer domain.CustomerData, subtotal, deliveryFee, total int64) string {
	details := customer.Details
	if details == "" {
		details = noDetails
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = fmt.Sprintf("• %s x%d - %s", item.Name, item.Quantity, domain.FormatPrice(item.LineTotal()))
	}

	shipping := "GRATIS"
	if deliveryFee != 0 {
		shipping = domain.FormatPrice(deliveryFee)
	}

	var transferNote, cashNote string
	switch customer.PaymentMethod {
	case domain.PaymentTransfer:
		transferNote = "⚠️ *Esperando comprobante de transferencia*"
	case domain.PaymentCash:
		cashNote = "💵 *Cobrar en efectivo al entregar*"
	}

	lo, hi := f.window()

	var b strings.Builder
	b.WriteString("🛒 *NUEVO PEDIDO - EL CAUSA DELIVERY*\n\n")
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", customer.Name)
	fmt.Fprintf(&b, "📱 *Teléfono:* %s\n", customer.Phone)
	fmt.Fprintf(&b, "📍 *Dirección:* %s\n", customer.Address)
	fmt.Fprintf(&b, "📝 *Detalles:* %s\n\n", details)
	b.WriteString("🛍️ *PRODUCTOS:*\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n💰 *RESUMEN:*\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", domain.FormatPrice(subtotal))
	fmt.Fprintf(&b, "Envío: %s\n", shipping)
	fmt.Fprintf(&b, "*TOTAL: %s*\n\n", domain.FormatPrice(total))
	b.WriteString(paymentText[customer.PaymentMethod])
	b.WriteString("\n\n")
	b.WriteString(transferNote)
	b.WriteString("\n")
	b.WriteString(cashNote)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "🚚 *Tiempo estimado de entrega: %d-%d minutos*\n\n", lo, hi)
	b.WriteString("¡Gracias por tu pedido! 🙏")
	return b.String()
}
