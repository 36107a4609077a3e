package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/service"
	"github.com/guilhermeviannac/credpix/pkg/response"
)

type LendingHandler struct {
	service   *service.LendingService
	validator *validator.Validate
}

func NewLendingHandler(service *service.LendingService) *LendingHandler {
	return &LendingHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreateLoan registers a loan and returns it with the generated schedule.
func (h *LendingHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateLoanRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	detail, err := h.service.CreateLoan(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, detail)
}

// GetLoan returns a loan with its schedule.
func (h *LendingHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	detail, err := h.service.GetLoan(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, detail)
}

// EditLoan reprices a loan and regenerates its schedule.
func (h *LendingHandler) EditLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	var request domain.EditLoanRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	detail, err := h.service.EditLoan(r.Context(), id, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, detail)
}

// DeleteLoan removes a loan with its installments and payments.
func (h *LendingHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "loanId")
	if !ok {
		return
	}

	if err := h.service.DeleteLoan(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, nil)
}

// Shared handler helpers.

func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return false
	}
	if err := v.Struct(dst); err != nil {
		response.BadRequest(w, "validation failed", err)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[key])
	if err != nil {
		response.BadRequest(w, "invalid "+key, err)
		return uuid.Nil, false
	}
	return id, true
}
