package model

// OwnedJob job row of an employer account page
type OwnedJob struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Featured bool   `json:"featured"`
	Draft    bool   `json:"draft"`
	Expired  bool   `json:"expired"`
}

// OwnedCompany company of an employer with all of its jobs
type OwnedCompany struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Slug   string        `json:"slug"`
	Logo   string        `json:"logo"`
	Counts CompanyCounts `json:"_count"`
	Jobs   []OwnedJob    `json:"jobs"`
}

// Account the caller's own data. USER accounts carry preferences and saved
// jobs, EMPLOYER accounts their companies.
type Account struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	Role        string           `json:"role"`
	Preferences *FeedPreferences `json:"preferences,omitempty"`
	SavedJobs   []JobSummary     `json:"savedJobs,omitempty"`
	Companies   []OwnedCompany   `json:"companies,omitempty"`
}
