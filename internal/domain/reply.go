package domain

import (
	"time"
)

// Reply is a threaded response to a review. Creating or destroying a reply
// adjusts exactly one review's TotalReply by one; editing only flips IsEdited.
type Reply struct {
	ID        string    `json:"id"`
	ReviewID  string    `json:"review_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	IsEdited  bool      `json:"is_edited"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
