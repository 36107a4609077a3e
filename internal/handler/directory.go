package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/service"
	"github.com/guilhermeviannac/credpix/pkg/response"
)

type DirectoryHandler struct {
	service   *service.DirectoryService
	validator *validator.Validate
}

func NewDirectoryHandler(service *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterClient adds a client to a region with a collector assignment.
func (h *DirectoryHandler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateClientRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	client, err := h.service.RegisterClient(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, client)
}

// UpdateClient edits a client's contact details.
func (h *DirectoryHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clientId")
	if !ok {
		return
	}

	var request domain.UpdateClientRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	client, err := h.service.UpdateClient(r.Context(), id, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, client)
}

// ListClients returns every registered client.
func (h *DirectoryHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.service.ListClients(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, clients)
}

// DeleteClient removes a client and their whole loan tree.
func (h *DirectoryHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clientId")
	if !ok {
		return
	}

	if err := h.service.DeleteClient(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, nil)
}

// RegisterRegion creates a region with collector assignments.
func (h *DirectoryHandler) RegisterRegion(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateRegionRequest
	if !decodeAndValidate(w, r, h.validator, &request) {
		return
	}

	region, err := h.service.RegisterRegion(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, region)
}

// ListRegions returns every region with its collectors.
func (h *DirectoryHandler) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.service.ListRegions(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, regions)
}

// DeleteRegion removes a region and the client tree beneath it.
func (h *DirectoryHandler) DeleteRegion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "regionId")
	if !ok {
		return
	}

	if err := h.service.DeleteRegion(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, nil)
}
