package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/guilhermeviannac/credpix/internal/domain"
	"github.com/guilhermeviannac/credpix/internal/service"
	"github.com/guilhermeviannac/credpix/pkg/auth"
	"github.com/guilhermeviannac/credpix/pkg/response"
)

type DashboardHandler struct {
	service *service.DashboardService
}

func NewDashboardHandler(service *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Admin serves the admin dashboard, optionally filtered by region and
// collector query parameters.
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	summary, err := h.service.AdminDashboard(r.Context(), principal, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, summary)
}

// Collector serves the collection-route dashboard for a reference date
// (query parameter "date", default today).
func (h *DashboardHandler) Collector(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	var day time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "date must be in YYYY-MM-DD form", err)
			return
		}
		day = parsed
	}

	summary, err := h.service.CollectorDashboard(r.Context(), principal, day, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, summary)
}

func parseFilter(w http.ResponseWriter, r *http.Request) (domain.DashboardFilter, bool) {
	var filter domain.DashboardFilter

	if raw := r.URL.Query().Get("region_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid region_id", err)
			return filter, false
		}
		filter.RegionID = &id
	}

	if raw := r.URL.Query().Get("collector_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid collector_id", err)
			return filter, false
		}
		filter.CollectorID = &id
	}

	return filter, true
}
