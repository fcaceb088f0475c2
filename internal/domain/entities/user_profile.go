package entities

import (
	"time"
)

// UserProfile represents a marketplace member, either a student posting
// move requests or a helper accepting them.
type UserProfile struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Email      string     `json:"email" yaml:"email"`
	Avatar     string     `json:"avatar,omitempty" yaml:"avatar"`
	School     string     `json:"school" yaml:"school"`
	Rating     float64    `json:"rating" yaml:"rating"`   // 0-5, mean of received reviews
	Reviews    int        `json:"reviews" yaml:"reviews"` // count of received reviews
	IsHelper   bool       `json:"is_helper" yaml:"is_helper"`
	Phone      string     `json:"phone,omitempty" yaml:"phone"`
	Bio        string     `json:"bio,omitempty" yaml:"bio"`
	Location   string     `json:"location,omitempty" yaml:"location"`
	JoinedDate *time.Time `json:"joined_date,omitempty" yaml:"joined_date"`
}

// Clone returns a deep copy of the profile.
func (u *UserProfile) Clone() *UserProfile {
	if u == nil {
		return nil
	}
	c := *u
	if u.JoinedDate != nil {
		joined := *u.JoinedDate
		c.JoinedDate = &joined
	}
	return &c
}

// UserProfilePatch is a shallow merge applied to a profile. Nil fields are
// left untouched. Rating and review count are derived and cannot be patched.
type UserProfilePatch struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
	School   *string `json:"school,omitempty"`
	IsHelper *bool   `json:"is_helper,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Location *string `json:"location,omitempty"`
}

// Apply merges the patch into u.
func (p UserProfilePatch) Apply(u *UserProfile) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.School != nil {
		u.School = *p.School
	}
	if p.IsHelper != nil {
		u.IsHelper = *p.IsHelper
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Location != nil {
		u.Location = *p.Location
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p UserProfilePatch) IsEmpty() bool {
	return p == UserProfilePatch{}
}
