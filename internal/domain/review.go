package domain

import (
	"time"
)

// Review is one user's review of a company. The three totals are derived
// counters owned by the counter-update path; nothing else writes them.
type Review struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Score        int        `json:"score"`
	IsAnonymous  bool       `json:"is_anonymous"`
	TotalLike    int        `json:"total_like"`
	TotalDislike int        `json:"total_dislike"`
	TotalReply   int        `json:"total_reply"`
	IsDeleted    bool       `json:"-"`
	DeletedAt    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// UserStatus is the requesting user's own reaction, populated on reads
	// that carry a caller identity. Empty means neutral or anonymous read.
	UserStatus Status `json:"user_like_status,omitempty"`
}

// Score bounds for a review, inclusive.
const (
	MinScore = 1
	MaxScore = 5
)
