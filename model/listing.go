package model

import "time"

// CompanyBrief company fields nested in a job summary
type CompanyBrief struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// JobSummary list view of a job, without the description
type JobSummary struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Slug     string       `json:"slug"`
	Category string       `json:"category"`
	Type     string       `json:"type"`
	Location string       `json:"location"`
	City     string       `json:"city"`
	Featured bool         `json:"featured"`
	Company  CompanyBrief `json:"company"`
}

// CompanyCounts related row counts
type CompanyCounts struct {
	Jobs    int64 `json:"jobs"`
	Reviews int64 `json:"reviews"`
}

// CompanySummary list view of a company
type CompanySummary struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Slug   string        `json:"slug"`
	Logo   string        `json:"logo"`
	Counts CompanyCounts `json:"_count"`
}

// CursorPage one page of a cursor paginated listing.
// Cursor is nil when there are no more rows.
type CursorPage[T any] struct {
	Items  []T
	Cursor *string
}

// OffsetPage one page of an offset paginated listing
type OffsetPage[T any] struct {
	Items      []T
	Page       int
	TotalItems int64
	TotalPages int
}

// JobDetail full job view
type JobDetail struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Slug        string        `json:"slug"`
	Category    string        `json:"category"`
	Type        string        `json:"type"`
	ApplyLink   string        `json:"applyLink"`
	Location    string        `json:"location"`
	City        string        `json:"city"`
	Draft       bool          `json:"draft"`
	Featured    bool          `json:"featured"`
	Expired     bool          `json:"expired"`
	SalaryRange string        `json:"salaryRange"`
	SavedBy     []string      `json:"savedBy"`
	Company     CompanyDetail `json:"company"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// CompanyDetail company nested in a job detail
type CompanyDetail struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Slug    string        `json:"slug"`
	Logo    string        `json:"logo"`
	Website string        `json:"website"`
	Counts  CompanyCounts `json:"_count"`
}

// RatingStats aggregate over reviews or interviews
type RatingStats struct {
	Average         *float64 `json:"average"`
	AverageDuration *float64 `json:"averageDuration,omitempty"`
	Count           int64    `json:"count"`
}

// CompanyProfile company detail page
type CompanyProfile struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Logo        string            `json:"logo"`
	Website     string            `json:"website"`
	Region      string            `json:"region"`
	City        string            `json:"city"`
	Jobs        []JobSummary      `json:"jobs"`
	Reviews     []ReviewEntity    `json:"reviews"`
	Interviews  []InterviewEntity `json:"interviews"`
	Stats       CompanyStats      `json:"stats"`
}

// CompanyStats review and interview aggregates
type CompanyStats struct {
	Reviews    RatingStats `json:"reviews"`
	Interviews RatingStats `json:"interviews"`
}

// ViewCount page views of one day
type ViewCount struct {
	Date  string `json:"date"`
	Views uint64 `json:"visitors"`
}
