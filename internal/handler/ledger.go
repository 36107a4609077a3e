package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/service"
	"github.com/guilhermeviannac/credpix/pkg/response"
)

type LedgerHandler struct {
	service   *service.LedgerService
	validator *validator.Validate
}

func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		service:   service,
		validator: validator.New(),
	}
}

// RecordPayment applies a tender against an installment.
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	installmentID, ok := pathID(w, r, "installmentId")
	if !ok {
		return
	}

	var request domain.RecordPaymentRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), installmentID, request.Amount)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, payment)
}

// EditPayment changes a recorded payment's amount.
func (h *LedgerHandler) EditPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := pathID(w, r, "paymentId")
	if !ok {
		return
	}

	var request domain.EditPaymentRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	payment, err := h.service.EditPayment(r.Context(), paymentID, request.Amount)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payment)
}

// CancelPayment reverses a payment and deletes its record.
func (h *LedgerHandler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	paymentID, ok := pathID(w, r, "paymentId")
	if !ok {
		return
	}

	if err := h.service.CancelPayment(r.Context(), paymentID); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, nil)
}

// ListPayments returns a loan's payment history.
func (h *LedgerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	loanID, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	payments, err := h.service.ListPayments(r.Context(), loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payments)
}
