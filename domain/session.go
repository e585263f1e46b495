package domain

import "time"

// Session represents a cached login session stored in Redis.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}
