package handlers

import (
	"net/http"

	"github.com/zatekoja/campusmove/internal/application/services"
)

// PaymentHandler serves the payment page
type PaymentHandler struct {
	payments *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// ListMethods handles GET /api/payments/methods
func (h *PaymentHandler) ListMethods(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.payments.Methods())
}

// SendPayment handles POST /api/payments
func (h *PaymentHandler) SendPayment(w http.ResponseWriter, r *http.Request) {
	var form services.PaymentForm
	if !decodeJSON(w, r, &form) {
		return
	}

	receipt, err := h.payments.Send(r.Context(), form)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, receipt)
}
