package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/providers"
	"github.com/zatekoja/campusmove/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/campusmove/pkg/errors"
)

// Bounds enforced on a new request before it reaches the marketplace.
const (
	MinPrice          = 5.0
	MaxPrice          = 500.0
	MinEstimatedHours = 1.0
	MaxEstimatedHours = 12.0
	HoursStep         = 0.5

	DefaultRequestTime = "14:00"

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// MoveRequestForm is the input of the Create Request page.
type MoveRequestForm struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Address        string  `json:"address"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Price          float64 `json:"price"`
	IsHourly       bool    `json:"is_hourly"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// RequestFormService validates a posted form and turns it into a move
// request owned by the signed-in user.
type RequestFormService struct {
	marketplace *MarketplaceService
	session     *SessionService
	geolocation providers.GeolocationProvider
}

// NewRequestFormService creates a new request form service
func NewRequestFormService(marketplace *MarketplaceService, session *SessionService, geolocation providers.GeolocationProvider) *RequestFormService {
	return &RequestFormService{
		marketplace: marketplace,
		session:     session,
		geolocation: geolocation,
	}
}

// Submit validates form and creates the request. Nothing reaches the
// marketplace unless validation passes.
func (s *RequestFormService) Submit(ctx context.Context, form MoveRequestForm) (*entities.MoveRequest, error) {
	user := s.session.CurrentUser()
	if user == nil {
		return nil, apperrors.NewUnauthorizedError("sign in to post a request")
	}

	form = normalizeForm(form)
	if err := ValidateMoveRequestForm(form); err != nil {
		return nil, err
	}

	coords, err := s.geolocation.Geocode(ctx, form.Address)
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).Str("address", form.Address).Msg("geocoding failed")
		return nil, apperrors.NewInternalError("failed to locate address", err)
	}

	request := entities.MoveRequest{
		UserID:      user.ID,
		UserName:    user.Name,
		UserAvatar:  user.Avatar,
		Title:       form.Title,
		Description: form.Description,
		Location: entities.Location{
			Address: form.Address,
			Lat:     coords.Latitude,
			Lng:     coords.Longitude,
		},
		Date:     form.Date,
		Time:     form.Time,
		Price:    form.Price,
		IsHourly: form.IsHourly,
		Status:   entities.RequestStatusOpen,
	}
	if form.IsHourly {
		hours := form.EstimatedHours
		request.EstimatedHours = &hours
	}

	return s.marketplace.CreateMoveRequest(ctx, request)
}

func normalizeForm(form MoveRequestForm) MoveRequestForm {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	form.Address = strings.TrimSpace(form.Address)
	form.Date = strings.TrimSpace(form.Date)
	form.Time = strings.TrimSpace(form.Time)
	if form.Time == "" {
		form.Time = DefaultRequestTime
	}
	return form
}

// ValidateMoveRequestForm checks required fields and numeric bounds.
func ValidateMoveRequestForm(form MoveRequestForm) error {
	switch {
	case form.Title == "":
		return apperrors.NewValidationError("title is required")
	case form.Description == "":
		return apperrors.NewValidationError("description is required")
	case form.Address == "":
		return apperrors.NewValidationError("address is required")
	case form.Date == "":
		return apperrors.NewValidationError("date is required")
	}

	if _, err := time.Parse(dateLayout, form.Date); err != nil {
		return apperrors.NewValidationError("date must be YYYY-MM-DD")
	}
	if _, err := time.Parse(timeLayout, form.Time); err != nil {
		return apperrors.NewValidationError("time must be HH:MM")
	}

	// written so NaN fails the range check
	if !(form.Price >= MinPrice && form.Price <= MaxPrice) {
		return apperrors.NewValidationError(fmt.Sprintf("price must be between %.0f and %.0f", MinPrice, MaxPrice))
	}

	if form.IsHourly {
		h := form.EstimatedHours
		if !(h >= MinEstimatedHours && h <= MaxEstimatedHours) {
			return apperrors.NewValidationError(fmt.Sprintf("estimated hours must be between %.0f and %.0f", MinEstimatedHours, MaxEstimatedHours))
		}
		if math.Mod(h, HoursStep) != 0 {
			return apperrors.NewValidationError("estimated hours must be in half-hour steps")
		}
	}
	return nil
}

// EstimatedTotal is the amount shown for an hourly request.
func EstimatedTotal(price, hours float64) float64 {
	return price * hours
}
