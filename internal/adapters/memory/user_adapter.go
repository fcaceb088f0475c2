package memory

import (
	"context"

	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/repositories"
	apperrors "github.com/zatekoja/campusmove/pkg/errors"
)

// UserAdapter implements UserRepository over a Store.
type UserAdapter struct {
	store *Store
}

// NewUserAdapter creates a new user adapter.
func NewUserAdapter(store *Store) repositories.UserRepository {
	return &UserAdapter{store: store}
}

// GetByID retrieves a user by ID.
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.UserProfile, error) {
	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.findUser(id)
	if u == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return u.Clone(), nil
}

// GetByEmail retrieves a user by exact email match.
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.UserProfile, error) {
	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u := s.findUserByEmail(email)
	if u == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return u.Clone(), nil
}

// CreateIfAbsent appends the user unless the email is taken. The email
// check and the append happen under one lock.
func (a *UserAdapter) CreateIfAbsent(ctx context.Context, user entities.UserProfile) (*entities.UserProfile, bool, error) {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.findUserByEmail(user.Email); existing != nil {
		return existing.Clone(), false, nil
	}

	stored := user.Clone()
	stored.ID = nextID("user", len(s.users), func(id string) bool { return s.findUser(id) != nil })
	s.users = append(s.users, stored)
	return stored.Clone(), true, nil
}

// Update merges patch into the stored profile. An email already held by
// another user is rejected and nothing is applied.
func (a *UserAdapter) Update(ctx context.Context, id string, patch entities.UserProfilePatch) (*entities.UserProfile, error) {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u := s.findUser(id)
	if u == nil {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	if patch.Email != nil {
		if holder := s.findUserByEmail(*patch.Email); holder != nil && holder.ID != id {
			return nil, apperrors.NewValidationError("email is already in use")
		}
	}
	patch.Apply(u)
	return u.Clone(), nil
}

// List returns copies of the matching users in insertion order.
func (a *UserAdapter) List(ctx context.Context, filter repositories.UserFilter) ([]*entities.UserProfile, error) {
	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.UserProfile, 0, len(s.users))
	for _, u := range s.users {
		if filter.HelpersOnly && !u.IsHelper {
			continue
		}
		result = append(result, u.Clone())
	}
	return result, nil
}
