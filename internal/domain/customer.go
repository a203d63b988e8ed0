package domain

import (
	"fmt"
	"strings"
)

// PaymentMethod is how the shopper intends to pay. No payment is processed.
type PaymentMethod string

const (
	PaymentTransfer    PaymentMethod = "transfer"
	PaymentCash        PaymentMethod = "cash"
	PaymentMercadoPago PaymentMethod = "mercadopago"
)

// DefaultPaymentMethod is preselected on the checkout form.
const DefaultPaymentMethod = PaymentCash

// PaymentMethods lists the accepted methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMercadoPago, PaymentTransfer, PaymentCash}
}

// Valid reports whether m is one of the accepted methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentTransfer, PaymentCash, PaymentMercadoPago:
		return true
	}
	return false
}

// ParsePaymentMethod maps user input to a method. Empty input yields the default.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultPaymentMethod, nil
	}
	m := PaymentMethod(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown payment method %q", s)
	}
	return m, nil
}

// CustomerData is the checkout form. Details is optional.
type CustomerData struct {
	Name          string        `json:"name"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	Details       string        `json:"details"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
}

// NewCustomerData returns an empty form with the default payment method.
func NewCustomerData() CustomerData {
	return CustomerData{PaymentMethod: DefaultPaymentMethod}
}

// MissingFields returns the required fields that are blank, in form order.
func (c CustomerData) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(c.Address) == "" {
		missing = append(missing, "address")
	}
	return missing
}

// Complete reports whether every required field is filled.
func (c CustomerData) Complete() bool {
	return len(c.MissingFields()) == 0
}
