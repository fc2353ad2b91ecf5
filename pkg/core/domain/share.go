package domain

import "time"

// Share is a stored comparison: a link token reachable through a short code.
type Share struct {
	ID         int64      `json:"id"`
	ShortCode  string     `json:"short_code"`
	Title      string     `json:"title"`
	Token      string     `json:"token"`
	EntryCount int        `json:"entry_count"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
	Clicks     int64      `json:"clicks,omitempty"` // Aggregated count
}
