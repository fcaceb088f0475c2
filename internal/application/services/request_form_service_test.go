package services_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/campusmove/internal/adapters/cache"
	"github.com/zatekoja/campusmove/internal/adapters/providers/geolocation"
	"github.com/zatekoja/campusmove/internal/application/services"
	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/providers"
	apperrors "github.com/zatekoja/campusmove/pkg/errors"
)

type MockGeolocationProvider struct {
	mock.Mock
}

func (m *MockGeolocationProvider) Geocode(ctx context.Context, address string) (*providers.Coordinates, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.Coordinates), args.Error(1)
}

func (m *MockGeolocationProvider) CalculateDistance(ctx context.Context, from, to providers.Coordinates) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func signedInSession(t *testing.T) *services.SessionService {
	t.Helper()
	session := services.NewSessionService(cache.NewMemoryAdapter(), 0)
	require.NoError(t, session.Initialize(context.Background()))
	return session
}

func validForm() services.MoveRequestForm {
	return services.MoveRequestForm{
		Title:          "Dorm move",
		Description:    "Ten boxes and a mini fridge",
		Address:        "Fordham University, Bronx, NY",
		Date:           "2025-09-01",
		Time:           "10:30",
		Price:          25,
		IsHourly:       true,
		EstimatedHours: 2.5,
	}
}

func TestRequestFormService_Submit(t *testing.T) {
	f := newFixture(t)
	session := signedInSession(t)
	form := services.NewRequestFormService(f.marketplace, session, geolocation.NewDeterministicGeolocationProvider())
	ctx := context.Background()

	created, err := form.Submit(ctx, validForm())
	require.NoError(t, err)

	assert.Equal(t, "req4", created.ID)
	assert.Equal(t, "user1", created.UserID)
	assert.Equal(t, "Demo User", created.UserName)
	assert.Equal(t, services.DefaultSessionUser().Avatar, created.UserAvatar)
	assert.Equal(t, entities.RequestStatusOpen, created.Status)
	assert.Equal(t, "10:30", created.Time)
	require.NotNil(t, created.EstimatedHours)
	assert.Equal(t, 2.5, *created.EstimatedHours)
	assert.InDelta(t, 40.8448, created.Location.Lat, 0.001)
	assert.InDelta(t, -73.8648, created.Location.Lng, 0.001)
}

func TestRequestFormService_FlatRateOmitsHours(t *testing.T) {
	f := newFixture(t)
	form := services.NewRequestFormService(f.marketplace, signedInSession(t), geolocation.NewDeterministicGeolocationProvider())

	input := validForm()
	input.IsHourly = false
	input.EstimatedHours = 3
	input.Time = ""
	input.Address = "Somewhere unmapped"

	created, err := form.Submit(context.Background(), input)
	require.NoError(t, err)

	assert.Nil(t, created.EstimatedHours)
	assert.Equal(t, services.DefaultRequestTime, created.Time)
	assert.InDelta(t, geolocation.DefaultCenter.Latitude, created.Location.Lat, 0.001)
}

func TestRequestFormService_RequiresSignedInUser(t *testing.T) {
	f := newFixture(t)
	session := services.NewSessionService(cache.NewMemoryAdapter(), 0)
	form := services.NewRequestFormService(f.marketplace, session, geolocation.NewDeterministicGeolocationProvider())

	_, err := form.Submit(context.Background(), validForm())
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))

	_, requests, _ := f.store.Counts()
	assert.Equal(t, 3, requests)
}

func TestRequestFormService_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*services.MoveRequestForm)
	}{
		{"missing title", func(f *services.MoveRequestForm) { f.Title = "  " }},
		{"missing description", func(f *services.MoveRequestForm) { f.Description = "" }},
		{"missing address", func(f *services.MoveRequestForm) { f.Address = "" }},
		{"missing date", func(f *services.MoveRequestForm) { f.Date = "" }},
		{"malformed date", func(f *services.MoveRequestForm) { f.Date = "09/01/2025" }},
		{"malformed time", func(f *services.MoveRequestForm) { f.Time = "25:00" }},
		{"price below minimum", func(f *services.MoveRequestForm) { f.Price = 4 }},
		{"price above maximum", func(f *services.MoveRequestForm) { f.Price = 501 }},
		{"hours below minimum", func(f *services.MoveRequestForm) { f.EstimatedHours = 0.5 }},
		{"hours above maximum", func(f *services.MoveRequestForm) { f.EstimatedHours = 12.5 }},
		{"hours off the half-hour step", func(f *services.MoveRequestForm) { f.EstimatedHours = 2.25 }},
		{"price not a number", func(f *services.MoveRequestForm) { f.Price = math.NaN() }},
		{"price infinite", func(f *services.MoveRequestForm) { f.Price = math.Inf(1) }},
		{"hours not a number", func(f *services.MoveRequestForm) { f.EstimatedHours = math.NaN() }},
		{"hours infinite", func(f *services.MoveRequestForm) { f.EstimatedHours = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			geo := new(MockGeolocationProvider)
			form := services.NewRequestFormService(f.marketplace, signedInSession(t), geo)

			input := validForm()
			tt.mutate(&input)

			_, err := form.Submit(context.Background(), input)
			assert.True(t, apperrors.IsValidation(err), "got %v", err)
			geo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)

			_, requests, _ := f.store.Counts()
			assert.Equal(t, 3, requests)
		})
	}
}

func TestRequestFormService_Bounds(t *testing.T) {
	input := validForm()

	for _, price := range []float64{5, 500} {
		input.Price = price
		assert.NoError(t, services.ValidateMoveRequestForm(input))
	}

	input.Price = 25
	for _, hours := range []float64{1, 1.5, 12} {
		input.EstimatedHours = hours
		assert.NoError(t, services.ValidateMoveRequestForm(input))
	}

	input.IsHourly = false
	input.EstimatedHours = 0
	assert.NoError(t, services.ValidateMoveRequestForm(input))
}

func TestRequestFormService_GeocodeFailure(t *testing.T) {
	f := newFixture(t)
	geo := new(MockGeolocationProvider)
	geo.On("Geocode", mock.Anything, "Fordham University, Bronx, NY").Return(nil, errors.New("quota exceeded"))
	form := services.NewRequestFormService(f.marketplace, signedInSession(t), geo)

	_, err := form.Submit(context.Background(), validForm())
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
	geo.AssertExpectations(t)
}

func TestEstimatedTotal(t *testing.T) {
	assert.Equal(t, 75.0, services.EstimatedTotal(25, 3))
	assert.Equal(t, 62.5, services.EstimatedTotal(25, 2.5))
}
