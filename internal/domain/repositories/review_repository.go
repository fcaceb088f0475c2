package repositories

import (
	"context"

	"github.com/zatekoja/campusmove/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create stores a review and recomputes the target user's rating and
	// review count in the same step. ID and Date are assigned by the repository.
	Create(ctx context.Context, review entities.Review) (*entities.Review, error)

	// ListByTarget retrieves reviews received by a user
	ListByTarget(ctx context.Context, userID string) ([]*entities.Review, error)
}
