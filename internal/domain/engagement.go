package domain

import (
	"fmt"
	"time"
)

// Status is the reaction state of one user toward one review.
type Status string

const (
	StatusNeutral  Status = "neutral"
	StatusLiked    Status = "liked"
	StatusDisliked Status = "disliked"
)

// IsValidStatus reports whether s is one of the three engagement states.
func IsValidStatus(s Status) bool {
	return s == StatusNeutral || s == StatusLiked || s == StatusDisliked
}

// ParseRequestedStatus maps a wire-level action ("like" or "dislike") to the
// status it requests. Neutral is never requested directly; it is only reached
// by toggling.
func ParseRequestedStatus(action string) (Status, error) {
	switch action {
	case "like":
		return StatusLiked, nil
	case "dislike":
		return StatusDisliked, nil
	default:
		return "", fmt.Errorf("unknown engagement action %q", action)
	}
}

// Engagement is the single per-(user, review) record tracking reaction state.
// At most one row exists per pair, enforced by a unique constraint.
type Engagement struct {
	ID        string    `json:"id"`
	ReviewID  string    `json:"review_id"`
	UserID    string    `json:"user_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Delta is the signed counter adjustment produced by one status transition.
type Delta struct {
	Like    int
	Dislike int
}

// IsZero reports whether the delta changes nothing.
func (d Delta) IsZero() bool {
	return d.Like == 0 && d.Dislike == 0
}

// Decide maps (current, requested) to the resulting status and counter delta.
// Requesting the status already held toggles the engagement back to neutral;
// anything else moves to the requested status. Leaving a state decrements its
// counter, entering a state increments it, and neutral touches neither.
//
// Every (status, status) pair is defined, which is what makes replayed
// bus deliveries safe: re-applying a "like" to an already-liked row is the
// same toggle a double-click produces, not a double count.
func Decide(current, requested Status) (Status, Delta) {
	next := requested
	if current == requested {
		next = StatusNeutral
	}

	var d Delta
	switch current {
	case StatusLiked:
		d.Like--
	case StatusDisliked:
		d.Dislike--
	}
	switch next {
	case StatusLiked:
		d.Like++
	case StatusDisliked:
		d.Dislike++
	}

	return next, d
}
