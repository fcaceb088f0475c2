package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/providers"
	"github.com/zatekoja/campusmove/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/campusmove/pkg/errors"
	"github.com/zatekoja/campusmove/pkg/latency"
)

// SessionKey is the key holding the signed-in profile.
const SessionKey = "user"

// DefaultSessionUser is adopted when no session has been stored yet.
func DefaultSessionUser() *entities.UserProfile {
	return &entities.UserProfile{
		ID:       "user1",
		Name:     "Demo User",
		Email:    "demo@college.edu",
		Avatar:   "https://i.pravatar.cc/150?img=3",
		School:   "State University",
		Rating:   4.8,
		Reviews:  12,
		IsHelper: false,
	}
}

// SessionService tracks the one signed-in identity and keeps it in a
// CacheProvider so it survives restarts.
//
// Loading reports true from construction until Initialize completes.
// Changes are written to the store before they are applied in memory, so
// a failed write leaves the session as it was.
type SessionService struct {
	mu        sync.RWMutex // guards user, loading and generation
	writeMu   sync.Mutex   // serializes store writes with their in-memory apply
	store     providers.CacheProvider
	loadDelay time.Duration
	user      *entities.UserProfile
	loading   bool
	// generation counts completed Login, Logout and UpdateUser calls;
	// settled is its value when the last Initialize finished
	generation uint64
	settled    uint64
}

// NewSessionService creates a session backed by store
func NewSessionService(store providers.CacheProvider, loadDelay time.Duration) *SessionService {
	return &SessionService{
		store:     store,
		loadDelay: loadDelay,
		loading:   true,
	}
}

// Initialize restores the stored profile, or stores and adopts the demo
// profile when nothing usable is stored. A Login, Logout or UpdateUser
// completed since construction, or since the previous Initialize, wins and
// nothing is restored. Only cancellation fails it.
func (s *SessionService) Initialize(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	if err := latency.Wait(ctx, s.loadDelay); err != nil {
		s.finishLoading()
		return apperrors.NewInternalError("session load canceled", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	logger := observability.LoggerFromContext(ctx)
	s.mu.RLock()
	changed := s.generation != s.settled
	s.mu.RUnlock()
	if changed {
		s.finishLoading()
		logger.Info().Msg("session changed while loading, keeping it")
		return nil
	}

	user, err := s.load(ctx)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("stored session unreadable, using demo profile")
		}
		user = DefaultSessionUser()
		if err := s.save(ctx, user); err != nil {
			logger.Error().Err(err).Msg("failed to store demo session")
		}
	}

	s.mu.Lock()
	s.user = user
	s.loading = false
	s.settled = s.generation
	s.mu.Unlock()

	logger.Info().Str("user_id", user.ID).Msg("session initialized")
	return nil
}

func (s *SessionService) finishLoading() {
	s.mu.Lock()
	s.loading = false
	s.settled = s.generation
	s.mu.Unlock()
}

// apply installs user as the current session. Caller holds writeMu.
func (s *SessionService) apply(user *entities.UserProfile) {
	s.mu.Lock()
	s.user = user
	s.generation++
	s.mu.Unlock()
}

// Login replaces the current session with profile
func (s *SessionService) Login(ctx context.Context, profile *entities.UserProfile) error {
	if profile == nil {
		return apperrors.NewValidationError("profile is required")
	}
	user := profile.Clone()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.save(ctx, user); err != nil {
		return apperrors.NewInternalError("failed to store session", err)
	}
	s.apply(user)

	observability.LoggerFromContext(ctx).Info().Str("user_id", user.ID).Msg("session login")
	return nil
}

// Logout clears the current session and its stored copy
func (s *SessionService) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Delete(ctx, SessionKey); err != nil {
		return apperrors.NewInternalError("failed to remove session", err)
	}
	s.apply(nil)

	observability.LoggerFromContext(ctx).Info().Msg("session logout")
	return nil
}

// UpdateUser merges patch into the current user and stores the result.
// Without a signed-in user it does nothing and returns nil.
func (s *SessionService) UpdateUser(ctx context.Context, patch entities.UserProfilePatch) (*entities.UserProfile, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	user := s.CurrentUser()
	if user == nil {
		return nil, nil
	}
	patch.Apply(user)

	if err := s.save(ctx, user); err != nil {
		return nil, apperrors.NewInternalError("failed to store session", err)
	}
	s.apply(user)
	return user.Clone(), nil
}

// CurrentUser returns a copy of the signed-in profile, or nil
func (s *SessionService) CurrentUser() *entities.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// IsAuthenticated reports whether a user is signed in
func (s *SessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Loading reports whether Initialize has not completed yet
func (s *SessionService) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *SessionService) load(ctx context.Context) (*entities.UserProfile, error) {
	data, err := s.store.Get(ctx, SessionKey)
	if err != nil {
		return nil, err
	}

	var user entities.UserProfile
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, errors.New("stored session has no user id")
	}
	return &user, nil
}

func (s *SessionService) save(ctx context.Context, user *entities.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, SessionKey, data, 0)
}
