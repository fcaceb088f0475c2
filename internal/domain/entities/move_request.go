package entities

import (
	"time"
)

// RequestStatus is the lifecycle state of a move request.
// Transitions are forward-only: open -> assigned -> completed.
type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "open"
	RequestStatusAssigned  RequestStatus = "assigned"
	RequestStatusCompleted RequestStatus = "completed"
)

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusOpen, RequestStatusAssigned, RequestStatusCompleted:
		return true
	}
	return false
}

// Location is the pickup address of a move request.
type Location struct {
	Address string  `json:"address" yaml:"address"`
	Lat     float64 `json:"lat" yaml:"lat"`
	Lng     float64 `json:"lng" yaml:"lng"`
}

// MoveRequest is a job posting seeking help with a relocation.
//
// UserName and UserAvatar are snapshots of the owner taken at creation time.
// Later profile edits do not touch them.
type MoveRequest struct {
	ID             string        `json:"id" yaml:"id"`
	UserID         string        `json:"user_id" yaml:"user_id"`
	UserName       string        `json:"user_name" yaml:"user_name"`
	UserAvatar     string        `json:"user_avatar,omitempty" yaml:"user_avatar"`
	Title          string        `json:"title" yaml:"title"`
	Description    string        `json:"description" yaml:"description"`
	Location       Location      `json:"location" yaml:"location"`
	Date           string        `json:"date" yaml:"date"` // YYYY-MM-DD
	Time           string        `json:"time" yaml:"time"` // HH:MM, local
	Price          float64       `json:"price" yaml:"price"`
	IsHourly       bool          `json:"is_hourly" yaml:"is_hourly"`
	EstimatedHours *float64      `json:"estimated_hours,omitempty" yaml:"estimated_hours"`
	Status         RequestStatus `json:"status" yaml:"status"`
	HelperID       string        `json:"helper_id,omitempty" yaml:"helper_id"`
	CreatedAt      time.Time     `json:"created_at" yaml:"created_at"`
}

// Clone returns a deep copy of the request.
func (r *MoveRequest) Clone() *MoveRequest {
	if r == nil {
		return nil
	}
	c := *r
	if r.EstimatedHours != nil {
		hours := *r.EstimatedHours
		c.EstimatedHours = &hours
	}
	return &c
}

// MoveRequestPatch is a shallow merge applied to a request. Nil fields are
// left untouched; ID, owner and CreatedAt are immutable.
type MoveRequestPatch struct {
	Title          *string        `json:"title,omitempty"`
	Description    *string        `json:"description,omitempty"`
	Location       *Location      `json:"location,omitempty"`
	Date           *string        `json:"date,omitempty"`
	Time           *string        `json:"time,omitempty"`
	Price          *float64       `json:"price,omitempty"`
	IsHourly       *bool          `json:"is_hourly,omitempty"`
	EstimatedHours *float64       `json:"estimated_hours,omitempty"`
	Status         *RequestStatus `json:"status,omitempty"`
	HelperID       *string        `json:"helper_id,omitempty"`
}

// Apply merges the patch into r.
func (p MoveRequestPatch) Apply(r *MoveRequest) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Location != nil {
		r.Location = *p.Location
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Time != nil {
		r.Time = *p.Time
	}
	if p.Price != nil {
		r.Price = *p.Price
	}
	if p.IsHourly != nil {
		r.IsHourly = *p.IsHourly
	}
	if p.EstimatedHours != nil {
		hours := *p.EstimatedHours
		r.EstimatedHours = &hours
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.HelperID != nil {
		r.HelperID = *p.HelperID
	}
}
