package domain

import (
	"time"
)

// EntityKind identifies a soft-deletable entity class for the lifecycle
// scheduler. Each kind carries its own retention window and sweep cadence.
type EntityKind string

const (
	KindReview  EntityKind = "review"
	KindCompany EntityKind = "company"
	KindUser    EntityKind = "user"
)

// User is tracked here only for lifecycle purposes: account data management
// belongs to the identity service, but stale soft-deleted accounts are purged
// by this service's scheduler.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	IsDeleted bool       `json:"-"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
