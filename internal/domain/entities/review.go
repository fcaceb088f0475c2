package entities

import "time"

// Review is feedback left after a completed engagement.
type Review struct {
	ID             string    `json:"id" yaml:"id"`
	FromUserID     string    `json:"from_user_id" yaml:"from_user_id"`
	FromUserName   string    `json:"from_user_name,omitempty" yaml:"from_user_name"`
	FromUserAvatar string    `json:"from_user_avatar,omitempty" yaml:"from_user_avatar"`
	ToUserID       string    `json:"to_user_id" yaml:"to_user_id"`
	RequestID      string    `json:"request_id,omitempty" yaml:"request_id"`
	Rating         int       `json:"rating" yaml:"rating"` // 1-5
	Comment        string    `json:"comment" yaml:"comment"`
	Date           time.Time `json:"date" yaml:"date"`
}
