package domain

import (
	"time"
)

// Company type constants.
const (
	CompanyTypeUnknown    = "unknown"
	CompanyTypePersonal   = "personal"
	CompanyTypeGovernment = "government"
)

// Company aggregates its reviews. TotalReviews and AvgScore are derived
// values: TotalReviews is maintained by the review mutation path and
// AvgScore only ever changes through a full recompute, never through a
// relative adjustment. AvgScore is nil while the company has no
// non-deleted reviews.
type Company struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Owner        string     `json:"owner"`
	CompanyType  string     `json:"company_type"`
	TotalReviews int        `json:"total_reviews"`
	AvgScore     *float64   `json:"avg_score"`
	IsDeleted    bool       `json:"-"`
	DeletedAt    *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
