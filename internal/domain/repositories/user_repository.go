package repositories

import (
	"context"

	"github.com/zatekoja/campusmove/internal/domain/entities"
)

// UserFilter selects users. The zero value matches everyone.
type UserFilter struct {
	HelpersOnly bool
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.UserProfile, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.UserProfile, error)

	// CreateIfAbsent stores the profile unless the email is already taken,
	// in which case the existing profile is returned with created=false.
	CreateIfAbsent(ctx context.Context, user entities.UserProfile) (stored *entities.UserProfile, created bool, err error)

	// Update merges the patch into an existing user
	Update(ctx context.Context, id string, patch entities.UserProfilePatch) (*entities.UserProfile, error)

	// List returns matching users in insertion order
	List(ctx context.Context, filter UserFilter) ([]*entities.UserProfile, error)
}
