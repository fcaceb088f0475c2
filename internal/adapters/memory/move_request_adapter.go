package memory

import (
	"context"

	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/repositories"
	apperrors "github.com/zatekoja/campusmove/pkg/errors"
)

// MoveRequestAdapter implements MoveRequestRepository over a Store.
type MoveRequestAdapter struct {
	store *Store
}

// NewMoveRequestAdapter creates a new move request adapter.
func NewMoveRequestAdapter(store *Store) repositories.MoveRequestRepository {
	return &MoveRequestAdapter{store: store}
}

// Create appends a request with a fresh id and creation timestamp.
func (a *MoveRequestAdapter) Create(ctx context.Context, request entities.MoveRequest) (*entities.MoveRequest, error) {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := request.Clone()
	stored.ID = nextID("req", len(s.requests), func(id string) bool { return s.findRequest(id) != nil })
	stored.CreatedAt = s.now()
	s.requests = append(s.requests, stored)

	return stored.Clone(), nil
}

// GetByID retrieves a request by ID.
func (a *MoveRequestAdapter) GetByID(ctx context.Context, id string) (*entities.MoveRequest, error) {
	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.findRequest(id)
	if r == nil {
		return nil, apperrors.NewNotFoundError("request not found")
	}
	return r.Clone(), nil
}

// Update merges patch into the stored request. A missing id leaves the
// collection untouched.
func (a *MoveRequestAdapter) Update(ctx context.Context, id string, patch entities.MoveRequestPatch) (*entities.MoveRequest, error) {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findRequest(id)
	if r == nil {
		return nil, apperrors.NewNotFoundError("request not found")
	}
	patch.Apply(r)
	return r.Clone(), nil
}

// List returns copies of the matching requests in insertion order.
func (a *MoveRequestAdapter) List(ctx context.Context, filter repositories.MoveRequestFilter) ([]*entities.MoveRequest, error) {
	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.MoveRequest, 0, len(s.requests))
	for _, r := range s.requests {
		if filter.Matches(r) {
			result = append(result, r.Clone())
		}
	}
	return result, nil
}
