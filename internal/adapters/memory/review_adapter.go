package memory

import (
	"context"

	"github.com/zatekoja/campusmove/internal/domain/entities"
	"github.com/zatekoja/campusmove/internal/domain/repositories"
)

// ReviewAdapter implements ReviewRepository over a Store.
type ReviewAdapter struct {
	store *Store
}

// NewReviewAdapter creates a new review adapter.
func NewReviewAdapter(store *Store) repositories.ReviewRepository {
	return &ReviewAdapter{store: store}
}

// Create appends the review and refreshes the target's rating and review
// count before releasing the lock, so readers never see one without the
// other. A review for an unknown user is stored without touching any profile.
func (a *ReviewAdapter) Create(ctx context.Context, review entities.Review) (*entities.Review, error) {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := review
	stored.ID = nextID("rev", len(s.reviews), s.reviewExists)
	stored.Date = s.now()
	s.reviews = append(s.reviews, &stored)

	s.recomputeRating(stored.ToUserID)

	result := stored
	return &result, nil
}

// ListByTarget returns reviews received by userID in insertion order.
func (a *ReviewAdapter) ListByTarget(ctx context.Context, userID string) ([]*entities.Review, error) {
	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*entities.Review, 0)
	for _, r := range s.reviews {
		if r.ToUserID == userID {
			review := *r
			result = append(result, &review)
		}
	}
	return result, nil
}
