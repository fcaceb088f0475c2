package repositories

import (
	"context"

	"github.com/zatekoja/campusmove/internal/domain/entities"
)

// MoveRequestFilter selects requests by equality on the non-empty fields.
// An empty filter matches every request.
type MoveRequestFilter struct {
	UserID   string
	HelperID string
	Status   entities.RequestStatus
}

// Matches reports whether r satisfies the filter.
func (f MoveRequestFilter) Matches(r *entities.MoveRequest) bool {
	if f.UserID != "" && r.UserID != f.UserID {
		return false
	}
	if f.HelperID != "" && r.HelperID != f.HelperID {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	return true
}

// MoveRequestRepository defines the interface for move request operations
type MoveRequestRepository interface {
	// Create stores a new request. The repository assigns ID and CreatedAt,
	// overwriting whatever the caller supplied.
	Create(ctx context.Context, request entities.MoveRequest) (*entities.MoveRequest, error)

	// GetByID retrieves a request by ID
	GetByID(ctx context.Context, id string) (*entities.MoveRequest, error)

	// Update merges the patch into an existing request
	Update(ctx context.Context, id string, patch entities.MoveRequestPatch) (*entities.MoveRequest, error)

	// List returns matching requests in insertion order
	List(ctx context.Context, filter MoveRequestFilter) ([]*entities.MoveRequest, error)
}
