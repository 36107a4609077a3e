package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/service"
	"github.com/guilhermeviannac/credpix/pkg/response"
)

type UserHandler struct {
	service   *service.AuthService
	validator *validator.Validate
}

func NewUserHandler(service *service.AuthService) *UserHandler {
	return &UserHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Login verifies credentials and returns a bearer token.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request domain.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	result, err := h.service.Login(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, result)
}

// RegisterUser creates an admin or collector account.
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateUserRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	user, err := h.service.RegisterUser(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, user)
}

// ListUsers returns every operator account.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, users)
}

// ListCollectors returns collector accounts only.
func (h *UserHandler) ListCollectors(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListCollectors(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, users)
}

// DeleteCollector removes a collector account.
func (h *UserHandler) DeleteCollector(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	if err := h.service.DeleteCollector(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, nil)
}
