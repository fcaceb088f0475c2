package services_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/campusmove/internal/adapters/memory"
	"github.com/zatekoja/campusmove/internal/adapters/providers/geolocation"
	"github.com/zatekoja/campusmove/internal/application/services"
	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/providers"
	"github.com/zatekoja/campusmove/pkg/config"
	apperrors "github.com/zatekoja/campusmove/pkg/errors"
)

// Mocks

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.MarketplaceEvent) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.MarketplaceEvent, error) {
	args := m.Called(ctx, channel)
	return args.Get(0).(<-chan *entities.MarketplaceEvent), args.Error(1)
}

func (m *MockEventBus) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Helpers

type fixture struct {
	store       *memory.Store
	marketplace *services.MarketplaceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	seed, err := memory.DefaultSeed()
	require.NoError(t, err)
	return newFixtureWithSeed(seed, config.LatencyConfig{})
}

func newFixtureWithSeed(seed *memory.Seed, latency config.LatencyConfig) *fixture {
	store := memory.NewStore(seed)
	return &fixture{
		store: store,
		marketplace: services.NewMarketplaceService(
			memory.NewUserAdapter(store),
			memory.NewMoveRequestAdapter(store),
			memory.NewReviewAdapter(store),
			latency,
		),
	}
}

func ptr[T any](v T) *T { return &v }

// Tests

func TestMarketplaceService_CreateMoveRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplied := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

	created, err := f.marketplace.CreateMoveRequest(ctx, entities.MoveRequest{
		ID:        "req1",
		CreatedAt: supplied,
		UserID:    "user1",
		UserName:  "Alex Chen",
		Title:     "Bookshelf pickup",
		Date:      "2025-09-10",
		Time:      "09:00",
		Price:     30,
		Status:    entities.RequestStatusOpen,
	})
	require.NoError(t, err)

	assert.Equal(t, "req4", created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NotEqual(t, supplied, created.CreatedAt)
	_, err = time.Parse(time.RFC3339, created.CreatedAt.Format(time.RFC3339))
	assert.NoError(t, err)

	all, err := f.marketplace.ListMoveRequests(ctx)
	require.NoError(t, err)
	seen := map[string]int{}
	for _, r := range all {
		seen[r.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "id %s is not unique", id)
	}
	assert.Len(t, all, 4)
}

func TestMarketplaceService_UpdateMoveRequest(t *testing.T) {
	t.Run("changes only the patched fields", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		before, err := f.marketplace.GetMoveRequest(ctx, "req1")
		require.NoError(t, err)

		updated, err := f.marketplace.UpdateMoveRequest(ctx, "req1", entities.MoveRequestPatch{
			Status:   ptr(entities.RequestStatusAssigned),
			HelperID: ptr("helper2"),
		})
		require.NoError(t, err)

		expected := before.Clone()
		expected.Status = entities.RequestStatusAssigned
		expected.HelperID = "helper2"
		assert.Equal(t, expected, updated)
	})

	t.Run("missing id fails with not found", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		before, err := f.marketplace.ListMoveRequests(ctx)
		require.NoError(t, err)

		_, err = f.marketplace.UpdateMoveRequest(ctx, "req99", entities.MoveRequestPatch{
			Status: ptr(entities.RequestStatusAssigned),
		})
		assert.True(t, apperrors.IsNotFound(err))

		after, err := f.marketplace.ListMoveRequests(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestMarketplaceService_ListOpenRequests(t *testing.T) {
	seed := &memory.Seed{
		Users: []entities.UserProfile{{ID: "user1", Name: "Alex", Email: "alex@school.edu"}},
		Requests: []entities.MoveRequest{
			{ID: "req1", UserID: "user1", Status: entities.RequestStatusOpen},
			{ID: "req2", UserID: "user1", Status: entities.RequestStatusAssigned, HelperID: "helper1"},
			{ID: "req3", UserID: "user1", Status: entities.RequestStatusCompleted, HelperID: "helper1"},
		},
	}
	f := newFixtureWithSeed(seed, config.LatencyConfig{})
	ctx := context.Background()

	open, err := f.marketplace.ListOpenRequests(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "req1", open[0].ID)

	markers, err := f.marketplace.ListMapMarkers(ctx)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, "req1", markers[0].ID)

	assigned, err := f.marketplace.ListHelperAssignments(ctx, "helper1")
	require.NoError(t, err)
	assert.Len(t, assigned, 2)

	mine, err := f.marketplace.ListUserRequests(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	none, err := f.marketplace.ListUserRequests(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMarketplaceService_ListMapMarkersNear(t *testing.T) {
	f := newFixture(t)
	f.marketplace.SetGeolocation(geolocation.NewDeterministicGeolocationProvider())
	ctx := context.Background()
	fordham := providers.Coordinates{Latitude: 40.8618, Longitude: -73.8847}

	nearby, err := f.marketplace.ListMapMarkersNear(ctx, fordham, 5)
	require.NoError(t, err)
	require.Len(t, nearby, 1)
	assert.Equal(t, "req1", nearby[0].ID)

	wider, err := f.marketplace.ListMapMarkersNear(ctx, fordham, 20)
	require.NoError(t, err)
	require.Len(t, wider, 2)
	assert.Equal(t, "req1", wider[0].ID)
	assert.Equal(t, "req2", wider[1].ID)

	all, err := f.marketplace.ListMapMarkersNear(ctx, fordham, 50)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMarketplaceService_ListMapMarkersNearRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	f.marketplace.SetGeolocation(geolocation.NewDeterministicGeolocationProvider())
	ctx := context.Background()
	center := providers.Coordinates{Latitude: 40.8618, Longitude: -73.8847}

	for _, radius := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := f.marketplace.ListMapMarkersNear(ctx, center, radius)
		assert.True(t, apperrors.IsValidation(err), "radius %v", radius)
	}

	_, err := f.marketplace.ListMapMarkersNear(ctx, providers.Coordinates{Latitude: 91, Longitude: 0}, 10)
	assert.True(t, apperrors.IsValidation(err))
	_, err = f.marketplace.ListMapMarkersNear(ctx, providers.Coordinates{Latitude: math.NaN(), Longitude: 0}, 10)
	assert.True(t, apperrors.IsValidation(err))
}

func TestMarketplaceService_ListMapMarkersNearProviderFailure(t *testing.T) {
	f := newFixture(t)
	geo := new(MockGeolocationProvider)
	geo.On("CalculateDistance", mock.Anything, mock.Anything, mock.Anything).Return(0.0, errors.New("quota exceeded"))
	f.marketplace.SetGeolocation(geo)

	_, err := f.marketplace.ListMapMarkersNear(context.Background(), providers.Coordinates{}, 10)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
	geo.AssertExpectations(t)

	unconfigured := newFixture(t)
	_, err = unconfigured.marketplace.ListMapMarkersNear(context.Background(), providers.Coordinates{}, 10)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
}

func TestMarketplaceService_GetUserByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.marketplace.GetUserByID(ctx, "helper1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Jordan Martinez", user.Name)

	missing, err := f.marketplace.GetUserByID(ctx, "ghost")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMarketplaceService_ListHelpers(t *testing.T) {
	f := newFixture(t)

	helpers, err := f.marketplace.ListHelpers(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(helpers))
	for _, h := range helpers {
		assert.True(t, h.IsHelper)
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []string{"helper1", "helper2", "helper3"}, ids)
}

func TestMarketplaceService_CreateReview(t *testing.T) {
	t.Run("rating is the rounded mean of all reviews", func(t *testing.T) {
		seed := &memory.Seed{
			Users: []entities.UserProfile{
				{ID: "user1", Name: "Alex", Email: "alex@school.edu"},
				{ID: "helper1", Name: "Jordan", Email: "jordan@school.edu", IsHelper: true},
			},
		}
		f := newFixtureWithSeed(seed, config.LatencyConfig{})
		ctx := context.Background()

		for _, rating := range []int{5, 5, 4} {
			_, err := f.marketplace.CreateReview(ctx, entities.Review{
				FromUserID: "user1",
				ToUserID:   "helper1",
				Rating:     rating,
				Comment:    "thanks",
			})
			require.NoError(t, err)
		}

		helper, err := f.marketplace.GetUserByID(ctx, "helper1")
		require.NoError(t, err)
		assert.Equal(t, 4.7, helper.Rating)
		assert.Equal(t, 3, helper.Reviews)

		reviews, err := f.marketplace.ListUserReviews(ctx, "helper1")
		require.NoError(t, err)
		assert.Len(t, reviews, 3)
	})

	t.Run("unknown target stores the review only", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		usersBefore, err := f.marketplace.ListHelpers(ctx)
		require.NoError(t, err)

		review, err := f.marketplace.CreateReview(ctx, entities.Review{FromUserID: "user1", ToUserID: "ghost", Rating: 1})
		require.NoError(t, err)
		assert.Equal(t, "rev7", review.ID)

		usersAfter, err := f.marketplace.ListHelpers(ctx)
		require.NoError(t, err)
		assert.Equal(t, usersBefore, usersAfter)
	})
}

func TestMarketplaceService_UpdateUserProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	updated, err := f.marketplace.UpdateUserProfile(ctx, "user1", entities.UserProfilePatch{Name: ptr("Alexandra Chen")})
	require.NoError(t, err)
	assert.Equal(t, "Alexandra Chen", updated.Name)
	assert.Equal(t, "alex.chen@nyu.edu", updated.Email)

	// snapshot fields on existing requests keep the old name
	req2, err := f.marketplace.GetMoveRequest(ctx, "req2")
	require.NoError(t, err)
	assert.Equal(t, "Alex Chen", req2.UserName)

	_, err = f.marketplace.UpdateUserProfile(ctx, "ghost", entities.UserProfilePatch{Name: ptr("x")})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMarketplaceService_UpdateUserProfileKeepsEmailsUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.marketplace.UpdateUserProfile(ctx, "user1", entities.UserProfilePatch{Email: ptr("jordan.martinez@columbia.edu")})
	assert.True(t, apperrors.IsValidation(err))

	owner, err := f.marketplace.LoginUser(ctx, "jordan.martinez@columbia.edu", "")
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, "helper1", owner.ID)

	registered, err := f.marketplace.RegisterUser(ctx, "Someone Else", "jordan.martinez@columbia.edu", "")
	require.NoError(t, err)
	assert.Equal(t, "helper1", registered.ID)

	seen := map[string]string{}
	for _, id := range []string{"user1", "user2", "helper1", "helper2", "helper3"} {
		u, err := f.marketplace.GetUserByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.NotContains(t, seen, u.Email, "%s shares an email with %s", id, seen[u.Email])
		seen[u.Email] = id
	}
}

func TestMarketplaceService_LoginUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	right, err := f.marketplace.LoginUser(ctx, "alex.chen@nyu.edu", "correct-horse")
	require.NoError(t, err)
	wrong, err := f.marketplace.LoginUser(ctx, "alex.chen@nyu.edu", "definitely-wrong")
	require.NoError(t, err)

	require.NotNil(t, right)
	assert.Equal(t, "user1", right.ID)
	assert.Equal(t, right, wrong)

	missing, err := f.marketplace.LoginUser(ctx, "nobody@school.edu", "x")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMarketplaceService_RegisterUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.marketplace.RegisterUser(ctx, "Riley Park", "riley@school.edu", "pw")
	require.NoError(t, err)
	users, _, _ := f.store.Counts()

	second, err := f.marketplace.RegisterUser(ctx, "Someone Else", "riley@school.edu", "other")
	require.NoError(t, err)
	usersAfter, _, _ := f.store.Counts()

	assert.Equal(t, "user6", first.ID)
	assert.Equal(t, first, second)
	assert.Equal(t, users, usersAfter)

	assert.Equal(t, "Riley Park", first.Name)
	assert.Zero(t, first.Rating)
	assert.Zero(t, first.Reviews)
	assert.False(t, first.IsHelper)
	assert.Empty(t, first.School)
	assert.NotNil(t, first.JoinedDate)
	assert.True(t, strings.HasPrefix(first.Avatar, "https://i.pravatar.cc/150?img="))
}

func TestMarketplaceService_CancelDuringLatency(t *testing.T) {
	seed, err := memory.DefaultSeed()
	require.NoError(t, err)
	f := newFixtureWithSeed(seed, config.LatencyConfig{Write: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = f.marketplace.CreateMoveRequest(ctx, entities.MoveRequest{UserID: "user1", Title: "late"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	_, requests, _ := f.store.Counts()
	assert.Equal(t, 3, requests)
}

func TestMarketplaceService_Events(t *testing.T) {
	t.Run("publishes to the marketplace and user channels", func(t *testing.T) {
		f := newFixture(t)
		bus := new(MockEventBus)
		f.marketplace.SetEventBus(bus)

		bus.On("Publish", mock.Anything, providers.EventChannelMarketplace, mock.MatchedBy(func(e *entities.MarketplaceEvent) bool {
			return e.Type == entities.MarketplaceEventRequestUpdated && e.EntityID == "req1"
		})).Return(nil).Once()
		bus.On("Publish", mock.Anything, providers.GetUserChannel("user2"), mock.Anything).Return(nil).Once()

		_, err := f.marketplace.UpdateMoveRequest(context.Background(), "req1", entities.MoveRequestPatch{
			Status: ptr(entities.RequestStatusAssigned),
		})
		require.NoError(t, err)
		bus.AssertExpectations(t)
	})

	t.Run("publish failure does not fail the mutation", func(t *testing.T) {
		f := newFixture(t)
		bus := new(MockEventBus)
		f.marketplace.SetEventBus(bus)
		bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

		review, err := f.marketplace.CreateReview(context.Background(), entities.Review{FromUserID: "user1", ToUserID: "helper1", Rating: 5})
		require.NoError(t, err)
		assert.NotEmpty(t, review.ID)
	})

	t.Run("failed mutation publishes nothing", func(t *testing.T) {
		f := newFixture(t)
		bus := new(MockEventBus)
		f.marketplace.SetEventBus(bus)

		_, err := f.marketplace.UpdateMoveRequest(context.Background(), "missing", entities.MoveRequestPatch{})
		assert.Error(t, err)
		bus.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMarketplaceService_ConcurrentReviews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.marketplace.CreateReview(ctx, entities.Review{FromUserID: "user2", ToUserID: "helper3", Rating: 4})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	reviews, err := f.marketplace.ListUserReviews(ctx, "helper3")
	require.NoError(t, err)
	helper, err := f.marketplace.GetUserByID(ctx, "helper3")
	require.NoError(t, err)

	assert.Len(t, reviews, 21)
	assert.Equal(t, len(reviews), helper.Reviews)
}
