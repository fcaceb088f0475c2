package handlers

import (
	"net/http"
	"strings"

	"github.com/zatekoja/campusmove/internal/application/services"
	"github.com/zatekoja/campusmove/internal/domain/entities"
)

// UserHandler serves profiles, helpers and reviews
type UserHandler struct {
	marketplace *services.MarketplaceService
	session     *services.SessionService
}

// NewUserHandler creates a new user handler
func NewUserHandler(marketplace *services.MarketplaceService, session *services.SessionService) *UserHandler {
	return &UserHandler{
		marketplace: marketplace,
		session:     session,
	}
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.marketplace.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if user == nil {
		respondWithError(w, http.StatusNotFound, "user not found")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateUser handles PATCH /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var patch entities.UserProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	user, err := h.marketplace.UpdateUserProfile(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// ListHelpers handles GET /api/helpers
func (h *UserHandler) ListHelpers(w http.ResponseWriter, r *http.Request) {
	helpers, err := h.marketplace.ListHelpers(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, helpers)
}

// ListReviews handles GET /api/users/{id}/reviews
func (h *UserHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.marketplace.ListUserReviews(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

type reviewRequest struct {
	ToUserID  string `json:"to_user_id"`
	RequestID string `json:"request_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// CreateReview handles POST /api/reviews. The author is the signed-in user.
func (h *UserHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	author := h.session.CurrentUser()
	if author == nil {
		respondWithError(w, http.StatusUnauthorized, "sign in to leave a review")
		return
	}

	var payload reviewRequest
	if !decodeJSON(w, r, &payload) {
		return
	}

	payload.ToUserID = strings.TrimSpace(payload.ToUserID)
	if payload.ToUserID == "" {
		respondWithError(w, http.StatusBadRequest, "to_user_id is required")
		return
	}
	if payload.Rating < 1 || payload.Rating > 5 {
		respondWithError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	review, err := h.marketplace.CreateReview(r.Context(), entities.Review{
		FromUserID:     author.ID,
		FromUserName:   author.Name,
		FromUserAvatar: author.Avatar,
		ToUserID:       payload.ToUserID,
		RequestID:      strings.TrimSpace(payload.RequestID),
		Rating:         payload.Rating,
		Comment:        strings.TrimSpace(payload.Comment),
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}
