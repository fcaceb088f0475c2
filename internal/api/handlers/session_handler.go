package handlers

import (
	"net/http"
	"strings"

	"github.com/zatekoja/campusmove/internal/application/services"
	"github.com/zatekoja/campusmove/internal/domain/entities"
)

// SessionHandler signs users in and out
type SessionHandler struct {
	marketplace *services.MarketplaceService
	session     *services.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(marketplace *services.MarketplaceService, session *services.SessionService) *SessionHandler {
	return &SessionHandler{
		marketplace: marketplace,
		session:     session,
	}
}

type sessionResponse struct {
	User            *entities.UserProfile `json:"user"`
	IsAuthenticated bool                  `json:"is_authenticated"`
	Loading         bool                  `json:"loading"`
}

func (h *SessionHandler) state() sessionResponse {
	user := h.session.CurrentUser()
	return sessionResponse{
		User:            user,
		IsAuthenticated: user != nil,
		Loading:         h.session.Loading(),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" {
		respondWithError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, err := h.marketplace.LoginUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, "no account uses that email")
		return
	}

	if err := h.session.Login(r.Context(), user); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.state())
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if !decodeJSON(w, r, &payload) {
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Name == "" || payload.Email == "" {
		respondWithError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	user, err := h.marketplace.RegisterUser(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	if err := h.session.Login(r.Context(), user); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, h.state())
}

// Logout handles POST /api/auth/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.state())
}

// GetSession handles GET /api/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.state())
}

// UpdateSession handles PATCH /api/session. Without a signed-in user the
// patch is ignored.
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var patch entities.UserProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	if _, err := h.session.UpdateUser(r.Context(), patch); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.state())
}
