// Package memory holds the marketplace collections in process memory.
//
// A Store is the single owner of users, requests and reviews. It is built
// once per process from a Seed and shared with the adapters by reference.
// Every mutation takes the write lock, so the store stays consistent when
// the HTTP server serves concurrent callers.
package memory

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/zatekoja/campusmove/internal/domain/entities"
)

// Store owns the in-memory collections.
type Store struct {
	mu       sync.RWMutex
	users    []*entities.UserProfile
	requests []*entities.MoveRequest
	reviews  []*entities.Review
	now      func() time.Time
}

// NewStore creates a store populated with deep copies of the seed.
func NewStore(seed *Seed) *Store {
	s := &Store{now: func() time.Time { return time.Now().UTC() }}
	if seed == nil {
		return s
	}

	for i := range seed.Users {
		s.users = append(s.users, seed.Users[i].Clone())
	}
	for i := range seed.Requests {
		s.requests = append(s.requests, seed.Requests[i].Clone())
	}
	for i := range seed.Reviews {
		review := seed.Reviews[i]
		s.reviews = append(s.reviews, &review)
	}
	return s
}

// SetClock replaces the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Counts returns the collection sizes.
func (s *Store) Counts() (users, requests, reviews int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.requests), len(s.reviews)
}

func (s *Store) findUser(id string) *entities.UserProfile {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) findUserByEmail(email string) *entities.UserProfile {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *Store) findRequest(id string) *entities.MoveRequest {
	for _, r := range s.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *Store) reviewExists(id string) bool {
	for _, r := range s.reviews {
		if r.ID == id {
			return true
		}
	}
	return false
}

// recomputeRating refreshes the aggregate of userID from every review
// targeting them. Caller holds the write lock.
func (s *Store) recomputeRating(userID string) {
	target := s.findUser(userID)
	if target == nil {
		return
	}

	total, count := 0, 0
	for _, r := range s.reviews {
		if r.ToUserID == userID {
			total += r.Rating
			count++
		}
	}
	if count == 0 {
		target.Rating, target.Reviews = 0, 0
		return
	}
	target.Rating = roundRating(float64(total) / float64(count))
	target.Reviews = count
}

// nextID returns prefix+(n+1), bumping the counter past ids already taken.
func nextID(prefix string, n int, taken func(string) bool) string {
	for {
		n++
		id := fmt.Sprintf("%s%d", prefix, n)
		if !taken(id) {
			return id
		}
	}
}

// roundRating rounds to one decimal place.
func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
