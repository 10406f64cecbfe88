package model

// Company listing sort keys
const (
	CompanySortCreatedAt = "createdAt"
	CompanySortJobs      = "jobs"
	CompanySortReviews   = "reviews"
)

// JobFilter normalized job listing criteria.
// Empty slices and strings mean "no constraint". Page > 0 selects offset
// pagination, otherwise Cursor (possibly empty) is used.
type JobFilter struct {
	Title    string
	Location []string
	Category []string
	Type     []string
	Cursor   string
	Page     int
}

// IsEmpty reports whether no field narrows the result
func (f JobFilter) IsEmpty() bool {
	return f.Title == "" && len(f.Location) == 0 && len(f.Category) == 0 && len(f.Type) == 0
}

// CompanyFilter normalized company listing criteria
type CompanyFilter struct {
	Search string
	Sort   string
	Cursor string
	Page   int
}
