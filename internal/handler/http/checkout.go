package http

import (
	"net/http"

	"github.com/bichitomultihogar/elcausa/internal/domain"
	"github.com/bichitomultihogar/elcausa/pkg/httputil"
	"github.com/bichitomultihogar/elcausa/pkg/validator"
)

// CheckoutRequest is the checkout form. Required fields are checked by the
// checkout flow so the shopper gets the full list of what is missing.
type CheckoutRequest struct {
	Name          string `json:"name" validate:"max=120"`
	Phone         string `json:"phone" validate:"omitempty,phone"`
	Address       string `json:"address" validate:"max=300"`
	Details       string `json:"details" validate:"max=500"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=transfer cash mercadopago"`
}

func (req CheckoutRequest) customer() domain.CustomerData {
	return domain.CustomerData{
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		Details:       req.Details,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	}
}

// Checkout handles POST /api/v1/checkout. With ?redirect=1 the response is a
// 303 to the chat link instead of the JSON result.
func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	res, err := h.service.Checkout(r.Context(), sessionID(r), req.customer())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("redirect") == "1" {
		http.Redirect(w, r, res.Link, http.StatusSeeOther)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}
