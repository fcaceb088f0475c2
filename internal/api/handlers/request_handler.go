package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/campusmove/internal/application/services"
	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/providers"
)

// defaultRadiusKm applies when near is given without radius_km.
const defaultRadiusKm = 10.0

// RequestHandler serves move requests and the request map
type RequestHandler struct {
	marketplace *services.MarketplaceService
	form        *services.RequestFormService
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(marketplace *services.MarketplaceService, form *services.RequestFormService) *RequestHandler {
	return &RequestHandler{
		marketplace: marketplace,
		form:        form,
	}
}

// ListRequests handles GET /api/requests
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.marketplace.ListMoveRequests(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, requests)
}

// ListOpenRequests handles GET /api/requests/open
func (h *RequestHandler) ListOpenRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.marketplace.ListOpenRequests(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, requests)
}

// GetRequest handles GET /api/requests/{id}
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	request, err := h.marketplace.GetMoveRequest(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, request)
}

// CreateRequest handles POST /api/requests
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var form services.MoveRequestForm
	if !decodeJSON(w, r, &form) {
		return
	}

	request, err := h.form.Submit(r.Context(), form)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, request)
}

// UpdateRequest handles PATCH /api/requests/{id}
func (h *RequestHandler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	var patch entities.MoveRequestPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		respondWithError(w, http.StatusBadRequest, "unknown status")
		return
	}

	request, err := h.marketplace.UpdateMoveRequest(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, request)
}

// ListUserRequests handles GET /api/users/{id}/requests
func (h *RequestHandler) ListUserRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.marketplace.ListUserRequests(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, requests)
}

// ListHelperAssignments handles GET /api/helpers/{id}/assignments
func (h *RequestHandler) ListHelperAssignments(w http.ResponseWriter, r *http.Request) {
	requests, err := h.marketplace.ListHelperAssignments(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, requests)
}

// ListMapMarkers handles GET /api/map/markers. With near=lat,lng only pins
// within radius_km of that point are returned.
func (h *RequestHandler) ListMapMarkers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("near") == "" {
		markers, err := h.marketplace.ListMapMarkers(r.Context())
		if err != nil {
			respondWithAppError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, markers)
		return
	}

	center, ok := parseCoordinates(query.Get("near"))
	if !ok {
		respondWithError(w, http.StatusBadRequest, "near must be lat,lng")
		return
	}
	radius := defaultRadiusKm
	if raw := query.Get("radius_km"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "radius_km must be a number")
			return
		}
		radius = parsed
	}

	markers, err := h.marketplace.ListMapMarkersNear(r.Context(), center, radius)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, markers)
}

func parseCoordinates(raw string) (providers.Coordinates, bool) {
	latRaw, lngRaw, found := strings.Cut(raw, ",")
	if !found {
		return providers.Coordinates{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return providers.Coordinates{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
	if err != nil {
		return providers.Coordinates{}, false
	}
	return providers.Coordinates{Latitude: lat, Longitude: lng}, true
}
