package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/providers"
	"github.com/zatekoja/campusmove/internal/domain/repositories"
	"github.com/zatekoja/campusmove/internal/infrastructure/observability"
	"github.com/zatekoja/campusmove/pkg/config"
	apperrors "github.com/zatekoja/campusmove/pkg/errors"
	"github.com/zatekoja/campusmove/pkg/latency"
)

// avatarPool is the number of placeholder avatars handed out at registration.
const avatarPool = 70

// MarketplaceService is the single entry point to users, move requests and
// reviews. Every call waits out its configured latency before touching the
// repositories, so cancelling ctx during the wait leaves the data unchanged.
type MarketplaceService struct {
	users    repositories.UserRepository
	requests repositories.MoveRequestRepository
	reviews  repositories.ReviewRepository
	latency  config.LatencyConfig
	eventBus providers.EventBus
	geo      providers.GeolocationProvider
	metrics  *observability.Metrics
	avatar   func() string
	now      func() time.Time
}

// NewMarketplaceService creates a new marketplace service
func NewMarketplaceService(
	users repositories.UserRepository,
	requests repositories.MoveRequestRepository,
	reviews repositories.ReviewRepository,
	latency config.LatencyConfig,
) *MarketplaceService {
	return &MarketplaceService{
		users:    users,
		requests: requests,
		reviews:  reviews,
		latency:  latency,
		avatar:   randomAvatar,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetEventBus sets the bus that receives marketplace events
func (s *MarketplaceService) SetEventBus(eventBus providers.EventBus) {
	s.eventBus = eventBus
}

// SetGeolocation sets the provider used for distance filters
func (s *MarketplaceService) SetGeolocation(geo providers.GeolocationProvider) {
	s.geo = geo
}

// SetMetrics sets the metrics recorded per operation
func (s *MarketplaceService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

func randomAvatar() string {
	return fmt.Sprintf("https://i.pravatar.cc/150?img=%d", rand.IntN(avatarPool))
}

// begin opens a span for operation and returns the function that closes it.
func (s *MarketplaceService) begin(ctx context.Context, operation string) (context.Context, func(*error)) {
	ctx, span := observability.StartSpan(ctx, "MarketplaceService."+operation)
	start := time.Now()
	return ctx, func(errp *error) {
		observability.RecordError(span, *errp)
		observability.RecordOperationMetric(ctx, s.metrics, operation, time.Since(start), *errp)
		span.End()
	}
}

func (s *MarketplaceService) wait(ctx context.Context, d time.Duration) error {
	if err := latency.Wait(ctx, d); err != nil {
		return apperrors.NewInternalError("operation canceled", err)
	}
	return nil
}

// ListMoveRequests returns every request in insertion order
func (s *MarketplaceService) ListMoveRequests(ctx context.Context) (result []*entities.MoveRequest, err error) {
	ctx, end := s.begin(ctx, "ListMoveRequests")
	defer end(&err)

	if err = s.wait(ctx, s.latency.List); err != nil {
		return nil, err
	}
	return s.requests.List(ctx, repositories.MoveRequestFilter{})
}

// ListUserRequests returns the requests posted by userID
func (s *MarketplaceService) ListUserRequests(ctx context.Context, userID string) (result []*entities.MoveRequest, err error) {
	ctx, end := s.begin(ctx, "ListUserRequests")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Filter); err != nil {
		return nil, err
	}
	return s.requests.List(ctx, repositories.MoveRequestFilter{UserID: userID})
}

// ListOpenRequests returns the requests still waiting for a helper
func (s *MarketplaceService) ListOpenRequests(ctx context.Context) (result []*entities.MoveRequest, err error) {
	ctx, end := s.begin(ctx, "ListOpenRequests")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Filter); err != nil {
		return nil, err
	}
	return s.requests.List(ctx, repositories.MoveRequestFilter{Status: entities.RequestStatusOpen})
}

// ListHelperAssignments returns the requests assigned to helperID
func (s *MarketplaceService) ListHelperAssignments(ctx context.Context, helperID string) (result []*entities.MoveRequest, err error) {
	ctx, end := s.begin(ctx, "ListHelperAssignments")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Filter); err != nil {
		return nil, err
	}
	return s.requests.List(ctx, repositories.MoveRequestFilter{HelperID: helperID})
}

// GetMoveRequest returns a single request or a not found error
func (s *MarketplaceService) GetMoveRequest(ctx context.Context, id string) (result *entities.MoveRequest, err error) {
	ctx, end := s.begin(ctx, "GetMoveRequest")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Filter); err != nil {
		return nil, err
	}
	return s.requests.GetByID(ctx, id)
}

// ListMapMarkers returns one pin per open request
func (s *MarketplaceService) ListMapMarkers(ctx context.Context) (result []entities.MapMarker, err error) {
	ctx, end := s.begin(ctx, "ListMapMarkers")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Filter); err != nil {
		return nil, err
	}
	return s.openMarkers(ctx, nil)
}

// ListMapMarkersNear returns the pins of open requests within radiusKm of
// center, in insertion order.
func (s *MarketplaceService) ListMapMarkersNear(ctx context.Context, center providers.Coordinates, radiusKm float64) (result []entities.MapMarker, err error) {
	ctx, end := s.begin(ctx, "ListMapMarkersNear")
	defer end(&err)

	if !(center.Latitude >= -90 && center.Latitude <= 90) || !(center.Longitude >= -180 && center.Longitude <= 180) {
		return nil, apperrors.NewValidationError("center is not a valid coordinate")
	}
	if !(radiusKm > 0) || math.IsInf(radiusKm, 0) {
		return nil, apperrors.NewValidationError("radius must be a positive number of kilometers")
	}
	if s.geo == nil {
		return nil, apperrors.NewInternalError("distance lookup is not configured", nil)
	}

	if err = s.wait(ctx, s.latency.Filter); err != nil {
		return nil, err
	}
	return s.openMarkers(ctx, func(r *entities.MoveRequest) (bool, error) {
		d, err := s.geo.CalculateDistance(ctx, center, providers.Coordinates{
			Latitude:  r.Location.Lat,
			Longitude: r.Location.Lng,
		})
		if err != nil {
			return false, apperrors.NewInternalError("failed to measure distance", err)
		}
		return d <= radiusKm, nil
	})
}

// openMarkers builds pins for open requests accepted by keep, or all of
// them when keep is nil.
func (s *MarketplaceService) openMarkers(ctx context.Context, keep func(*entities.MoveRequest) (bool, error)) ([]entities.MapMarker, error) {
	open, err := s.requests.List(ctx, repositories.MoveRequestFilter{Status: entities.RequestStatusOpen})
	if err != nil {
		return nil, err
	}

	result := make([]entities.MapMarker, 0, len(open))
	for _, r := range open {
		if keep != nil {
			ok, err := keep(r)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		result = append(result, entities.MarkerForRequest(r))
	}
	return result, nil
}

// CreateMoveRequest stores a new request. Any id or creation time on the
// input is replaced.
func (s *MarketplaceService) CreateMoveRequest(ctx context.Context, request entities.MoveRequest) (result *entities.MoveRequest, err error) {
	ctx, end := s.begin(ctx, "CreateMoveRequest")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}
	result, err = s.requests.Create(ctx, request)
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("request_id", result.ID).
		Str("user_id", result.UserID).
		Float64("price", result.Price).
		Msg("move request created")

	s.publish(ctx, entities.NewMarketplaceEvent(entities.MarketplaceEventRequestCreated, result.ID, result.UserID, map[string]any{
		"status": result.Status,
		"price":  result.Price,
	}))
	return result, nil
}

// UpdateMoveRequest merges patch into the request with the given id
func (s *MarketplaceService) UpdateMoveRequest(ctx context.Context, id string, patch entities.MoveRequestPatch) (result *entities.MoveRequest, err error) {
	ctx, end := s.begin(ctx, "UpdateMoveRequest")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}
	result, err = s.requests.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if patch.Status != nil {
		changes["status"] = *patch.Status
	}
	if patch.HelperID != nil {
		changes["helper_id"] = *patch.HelperID
	}
	s.publish(ctx, entities.NewMarketplaceEvent(entities.MarketplaceEventRequestUpdated, result.ID, result.UserID, changes))
	return result, nil
}

// GetUserByID returns the profile, or nil when no such user exists.
func (s *MarketplaceService) GetUserByID(ctx context.Context, id string) (result *entities.UserProfile, err error) {
	ctx, end := s.begin(ctx, "GetUserByID")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Filter); err != nil {
		return nil, err
	}
	return absentOnNotFound(s.users.GetByID(ctx, id))
}

// ListHelpers returns the users who accept move requests
func (s *MarketplaceService) ListHelpers(ctx context.Context) (result []*entities.UserProfile, err error) {
	ctx, end := s.begin(ctx, "ListHelpers")
	defer end(&err)

	if err = s.wait(ctx, s.latency.List); err != nil {
		return nil, err
	}
	return s.users.List(ctx, repositories.UserFilter{HelpersOnly: true})
}

// ListUserReviews returns the reviews received by userID
func (s *MarketplaceService) ListUserReviews(ctx context.Context, userID string) (result []*entities.Review, err error) {
	ctx, end := s.begin(ctx, "ListUserReviews")
	defer end(&err)

	if err = s.wait(ctx, s.latency.List); err != nil {
		return nil, err
	}
	return s.reviews.ListByTarget(ctx, userID)
}

// CreateReview stores a review and refreshes the target's rating
func (s *MarketplaceService) CreateReview(ctx context.Context, review entities.Review) (result *entities.Review, err error) {
	ctx, end := s.begin(ctx, "CreateReview")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}
	result, err = s.reviews.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("review_id", result.ID).
		Str("to_user_id", result.ToUserID).
		Int("rating", result.Rating).
		Msg("review created")

	s.publish(ctx, entities.NewMarketplaceEvent(entities.MarketplaceEventReviewCreated, result.ID, result.ToUserID, map[string]any{
		"rating": result.Rating,
	}))
	return result, nil
}

// UpdateUserProfile merges patch into the profile of userID
func (s *MarketplaceService) UpdateUserProfile(ctx context.Context, userID string, patch entities.UserProfilePatch) (result *entities.UserProfile, err error) {
	ctx, end := s.begin(ctx, "UpdateUserProfile")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Write); err != nil {
		return nil, err
	}
	result, err = s.users.Update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, entities.NewMarketplaceEvent(entities.MarketplaceEventUserUpdated, result.ID, result.ID, nil))
	return result, nil
}

// LoginUser looks the user up by email. The password is accepted so a
// credential check can be added without changing callers, but it is not
// verified. A nil profile means no account uses that email.
func (s *MarketplaceService) LoginUser(ctx context.Context, email, password string) (result *entities.UserProfile, err error) {
	ctx, end := s.begin(ctx, "LoginUser")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Login); err != nil {
		return nil, err
	}
	return absentOnNotFound(s.users.GetByEmail(ctx, email))
}

// RegisterUser creates a member with no reputation yet. Registering an
// email that already exists returns the existing profile unchanged.
func (s *MarketplaceService) RegisterUser(ctx context.Context, name, email, password string) (result *entities.UserProfile, err error) {
	ctx, end := s.begin(ctx, "RegisterUser")
	defer end(&err)

	if err = s.wait(ctx, s.latency.Register); err != nil {
		return nil, err
	}

	joined := s.now()
	result, created, err := s.users.CreateIfAbsent(ctx, entities.UserProfile{
		Name:       name,
		Email:      email,
		Avatar:     s.avatar(),
		JoinedDate: &joined,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return result, nil
	}

	observability.LoggerFromContext(ctx).Info().
		Str("user_id", result.ID).
		Msg("user registered")

	s.publish(ctx, entities.NewMarketplaceEvent(entities.MarketplaceEventUserRegistered, result.ID, result.ID, nil))
	return result, nil
}

// publish sends the event to the marketplace channel and to the user's own
// channel. Failures are logged and never fail the mutation.
func (s *MarketplaceService) publish(ctx context.Context, event *entities.MarketplaceEvent) {
	if s.eventBus == nil {
		return
	}

	logger := observability.LoggerFromContext(ctx)
	if err := s.eventBus.Publish(ctx, providers.EventChannelMarketplace, event); err != nil {
		logger.Warn().Err(err).Str("event_type", string(event.Type)).Msg("failed to publish marketplace event")
	}
	if event.UserID != "" {
		if err := s.eventBus.Publish(ctx, providers.GetUserChannel(event.UserID), event); err != nil {
			logger.Warn().Err(err).Str("event_type", string(event.Type)).Msg("failed to publish user event")
		}
	}
}

func absentOnNotFound(user *entities.UserProfile, err error) (*entities.UserProfile, error) {
	if apperrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
