package memory

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/zatekoja/campusmove/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the initial content of the store.
type Seed struct {
	Users    []entities.UserProfile `yaml:"users"`
	Requests []entities.MoveRequest `yaml:"requests"`
	Reviews  []entities.Review      `yaml:"reviews"`
}

// DefaultSeed returns the embedded fixture.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

// LoadSeed reads a fixture from path, or the embedded one when path is empty.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and validates a YAML fixture.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate checks the referential and uniqueness constraints the store relies on.
func (s *Seed) Validate() error {
	userIDs := make(map[string]struct{}, len(s.Users))
	emails := make(map[string]struct{}, len(s.Users))
	for _, u := range s.Users {
		if u.ID == "" {
			return fmt.Errorf("seed user %q has no id", u.Email)
		}
		if _, dup := userIDs[u.ID]; dup {
			return fmt.Errorf("duplicate seed user id %q", u.ID)
		}
		if _, dup := emails[u.Email]; dup {
			return fmt.Errorf("duplicate seed user email %q", u.Email)
		}
		userIDs[u.ID] = struct{}{}
		emails[u.Email] = struct{}{}
	}

	requestIDs := make(map[string]struct{}, len(s.Requests))
	for _, r := range s.Requests {
		if r.ID == "" {
			return fmt.Errorf("seed request %q has no id", r.Title)
		}
		if _, dup := requestIDs[r.ID]; dup {
			return fmt.Errorf("duplicate seed request id %q", r.ID)
		}
		if _, ok := userIDs[r.UserID]; !ok {
			return fmt.Errorf("seed request %s references unknown user %q", r.ID, r.UserID)
		}
		if !r.Status.Valid() {
			return fmt.Errorf("seed request %s has invalid status %q", r.ID, r.Status)
		}
		if r.IsHourly != (r.EstimatedHours != nil) {
			return fmt.Errorf("seed request %s: estimated_hours must be set iff is_hourly", r.ID)
		}
		requestIDs[r.ID] = struct{}{}
	}

	reviewIDs := make(map[string]struct{}, len(s.Reviews))
	for _, r := range s.Reviews {
		if r.ID == "" {
			return fmt.Errorf("seed review from %q has no id", r.FromUserID)
		}
		if _, dup := reviewIDs[r.ID]; dup {
			return fmt.Errorf("duplicate seed review id %q", r.ID)
		}
		if r.Rating < 1 || r.Rating > 5 {
			return fmt.Errorf("seed review %s has rating %d outside 1-5", r.ID, r.Rating)
		}
		reviewIDs[r.ID] = struct{}{}
	}

	return nil
}
