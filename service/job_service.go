package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mycareerlist/config"
	"mycareerlist/model"
	"mycareerlist/repository"
	"mycareerlist/utils"
)

const (
	defaultViewTimeout = 5 * time.Second
	// views beyond this many in-flight writes are dropped
	maxPendingViews = 64
)

// jobListColumns list views never load the description
const jobListColumns = "jobs.id, jobs.title, jobs.slug, jobs.category, jobs.type, jobs.location, " +
	"jobs.city, jobs.featured, jobs.company_id, jobs.created_at"

// CreateJobInput body of a new job posting
type CreateJobInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	City        string `json:"city"`
	ApplyLink   string `json:"applyLink"`
	CompanyID   string `json:"companyId"`
	SalaryMin   int    `json:"salaryMin"`
	SalaryMax   int    `json:"salaryMax"`
}

// JobService job listing, creation and detail
type JobService struct {
	jobRepo     repository.JobRepository
	companyRepo repository.CompanyRepository
	reviewRepo  repository.ReviewRepository
	views       ViewTracker
	db          *gorm.DB
	listing     config.ListingConfig
	now         func() time.Time
	viewTimeout time.Duration
	viewSlots   chan struct{}
}

func NewJobService(
	jobRepo repository.JobRepository,
	companyRepo repository.CompanyRepository,
	reviewRepo repository.ReviewRepository,
	views ViewTracker,
	db *gorm.DB,
	listing config.ListingConfig,
) *JobService {
	return &JobService{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		reviewRepo:  reviewRepo,
		views:       views,
		db:          db,
		listing:     listing,
		now:         time.Now,
		viewTimeout: defaultViewTimeout,
		viewSlots:   make(chan struct{}, maxPendingViews),
	}
}

// ListJobs returns one cursor page of active jobs, newest first.
// The cursor is the id of the last job of the previous page.
func (s *JobService) ListJobs(ctx context.Context, f model.JobFilter) (*model.CursorPage[model.JobSummary], error) {
	size := s.listing.JobPageSize
	wrapper := s.jobWrapper(ctx, f)

	if f.Cursor != "" {
		anchor, err := s.jobRepo.FindByID(ctx, f.Cursor)
		if err != nil {
			return nil, fmt.Errorf("load cursor job: %w", err)
		}
		if anchor == nil {
			return emptyCursorPage[model.JobSummary](), nil
		}
		wrapper = wrapper.Where(
			"(jobs.created_at < ? OR (jobs.created_at = ? AND jobs.id < ?))",
			anchor.CreatedAt, anchor.CreatedAt, anchor.ID,
		)
	}

	jobs, err := s.jobRepo.FindByWrapper(selectJobList(wrapper).Limit(size))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	items := toJobSummaries(jobs)
	page := &model.CursorPage[model.JobSummary]{Items: items}
	if len(jobs) == size {
		last := jobs[len(jobs)-1].ID
		page.Cursor = &last
	}
	return page, nil
}

// ListJobsPage returns page f.Page (1-based) of active jobs with exact totals
func (s *JobService) ListJobsPage(ctx context.Context, f model.JobFilter) (*model.OffsetPage[model.JobSummary], error) {
	size := s.listing.OffsetPageSize
	page := f.Page
	if page < 1 {
		page = 1
	}

	total, err := s.jobRepo.CountByWrapper(s.jobWrapper(ctx, f))
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}

	jobs, err := s.jobRepo.FindByWrapper(selectJobList(s.jobWrapper(ctx, f)).Offset((page - 1) * size).Limit(size))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	return &model.OffsetPage[model.JobSummary]{
		Items:      toJobSummaries(jobs),
		Page:       page,
		TotalItems: total,
		TotalPages: totalPages(total, size),
	}, nil
}

// jobWrapper composes the listing predicate. Draft and expired jobs are always excluded.
func (s *JobService) jobWrapper(ctx context.Context, f model.JobFilter) *gorm.DB {
	wrapper := s.db.WithContext(ctx).Model(&model.JobEntity{}).
		Where("jobs.expired = ?", false).
		Where("jobs.draft = ?", false)

	if f.Title != "" {
		wrapper = wrapper.Where(titleContains(s.db), f.Title)
	}
	if len(f.Location) > 0 {
		wrapper = wrapper.Where("jobs.location IN ?", f.Location)
	}
	if len(f.Category) > 0 {
		wrapper = wrapper.Where("jobs.category IN ?", f.Category)
	}
	if len(f.Type) > 0 {
		wrapper = wrapper.Where("jobs.type IN ?", f.Type)
	}
	return wrapper
}

func selectJobList(wrapper *gorm.DB) *gorm.DB {
	return wrapper.
		Select(jobListColumns).
		Preload("Company", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "logo")
		}).
		Order("jobs.created_at DESC").
		Order("jobs.id DESC")
}

// titleContains case-sensitive substring match for the connected dialect
func titleContains(db *gorm.DB) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "INSTR(BINARY jobs.title, ?) > 0"
	case "postgres":
		return "strpos(jobs.title, ?) > 0"
	default:
		return "instr(jobs.title, ?) > 0"
	}
}

func toJobSummaries(jobs []*model.JobEntity) []model.JobSummary {
	items := make([]model.JobSummary, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, toJobSummary(job))
	}
	return items
}

func toJobSummary(job *model.JobEntity) model.JobSummary {
	return model.JobSummary{
		ID:       job.ID,
		Title:    job.Title,
		Slug:     job.Slug,
		Category: job.Category,
		Type:     job.Type,
		Location: job.Location,
		City:     job.City,
		Featured: job.Featured,
		Company: model.CompanyBrief{
			Name: job.Company.Name,
			Logo: job.Company.Logo,
		},
	}
}

func emptyCursorPage[T any]() *model.CursorPage[T] {
	return &model.CursorPage[T]{Items: []T{}}
}

func totalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// CreateJob stores a draft job for a company owned by the caller.
// The slug is derived once from the title and company name.
func (s *JobService) CreateJob(ctx context.Context, session *model.Session, in CreateJobInput) (*model.JobEntity, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	if !session.IsEmployer() {
		return nil, ErrForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, invalid("title", "is required")
	}
	if strings.TrimSpace(in.ApplyLink) == "" {
		return nil, invalid("applyLink", "is required")
	}
	if in.CompanyID == "" {
		return nil, invalid("companyId", "is required")
	}

	company, err := s.companyRepo.FindByID(ctx, in.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return nil, ErrNotFound
	}
	if company.UserID != session.UserID {
		return nil, ErrForbidden
	}

	job := &model.JobEntity{
		Title:       in.Title,
		Description: in.Description,
		Slug:        utils.JobSlug(in.Title, company.Name),
		Type:        in.Type,
		Category:    in.Category,
		Location:    in.Location,
		City:        in.City,
		ApplyLink:   strings.TrimSpace(in.ApplyLink),
		Draft:       true,
		SalaryRange: salaryRange(in.SalaryMin, in.SalaryMax),
		CompanyID:   company.ID,
		UserID:      session.UserID,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("job slug %q: %w", job.Slug, ErrConflict)
		}
		return nil, fmt.Errorf("create job: %w", err)
	}
	job.Company = *company

	log.WithFields(log.Fields{"job": job.ID, "slug": job.Slug, "company": company.ID}).Info("draft job created")
	return job, nil
}

func salaryRange(min, max int) string {
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("$%d - $%d", min, max)
	case min > 0:
		return fmt.Sprintf("From $%d", min)
	case max > 0:
		return fmt.Sprintf("Up to $%d", max)
	}
	return ""
}

// ToggleSave adds or removes the job from the caller's saved jobs
func (s *JobService) ToggleSave(ctx context.Context, session *model.Session, slug string, save bool) error {
	if session == nil {
		return ErrUnauthorized
	}
	if strings.TrimSpace(slug) == "" {
		return invalid("slug", "is required")
	}

	job, err := s.jobRepo.FindBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		return ErrNotFound
	}

	if save {
		err = s.jobRepo.Save(ctx, session.UserID, job.ID)
	} else {
		err = s.jobRepo.Unsave(ctx, session.UserID, job.ID)
	}
	if err != nil {
		return fmt.Errorf("toggle saved job: %w", err)
	}
	return nil
}

// GetJob returns the full job. Drafts are only visible to their owner.
// A view is recorded for published jobs.
func (s *JobService) GetJob(ctx context.Context, session *model.Session, slug string) (*model.JobDetail, error) {
	job, err := s.jobRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}
	if job.Draft && (session == nil || session.UserID != job.UserID) {
		return nil, ErrNotFound
	}

	savedBy, err := s.jobRepo.FindSavedBy(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("load saved by: %w", err)
	}
	counts, err := s.companyCounts(ctx, job.CompanyID)
	if err != nil {
		return nil, err
	}

	if !job.Draft {
		s.recordView(job.Slug, s.now())
	}

	return &model.JobDetail{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Slug:        job.Slug,
		Category:    job.Category,
		Type:        job.Type,
		ApplyLink:   job.ApplyLink,
		Location:    job.Location,
		City:        job.City,
		Draft:       job.Draft,
		Featured:    job.Featured,
		Expired:     job.Expired,
		SalaryRange: job.SalaryRange,
		SavedBy:     savedBy,
		Company: model.CompanyDetail{
			ID:      job.Company.ID,
			Name:    job.Company.Name,
			Slug:    job.Company.Slug,
			Logo:    job.Company.Logo,
			Website: job.Company.Website,
			Counts:  counts,
		},
		CreatedAt: job.CreatedAt,
	}, nil
}

// recordView stores a page view in the background, bounded by viewTimeout
func (s *JobService) recordView(slug string, at time.Time) {
	select {
	case s.viewSlots <- struct{}{}:
	default:
		log.WithField("slug", slug).Debug("view dropped, too many pending writes")
		return
	}

	go func() {
		defer func() { <-s.viewSlots }()
		ctx, cancel := context.WithTimeout(context.Background(), s.viewTimeout)
		defer cancel()
		if err := s.views.RecordView(ctx, slug, at); err != nil {
			log.WithError(err).WithField("slug", slug).Warn("record job view failed")
		}
	}()
}

func (s *JobService) companyCounts(ctx context.Context, companyID string) (model.CompanyCounts, error) {
	jobs, err := s.jobRepo.CountActiveByCompanies(ctx, []string{companyID})
	if err != nil {
		return model.CompanyCounts{}, fmt.Errorf("count company jobs: %w", err)
	}
	reviews, err := s.reviewRepo.CountReviewsByCompanies(ctx, []string{companyID})
	if err != nil {
		return model.CompanyCounts{}, fmt.Errorf("count company reviews: %w", err)
	}
	return model.CompanyCounts{Jobs: jobs[companyID], Reviews: reviews[companyID]}, nil
}

// Analytics daily views of a job since it was last updated. Owner only.
func (s *JobService) Analytics(ctx context.Context, session *model.Session, slug string) ([]model.ViewCount, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	job, err := s.jobRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}
	if job.UserID != session.UserID {
		return nil, ErrForbidden
	}

	views, err := s.views.DailyViews(ctx, job.Slug, job.UpdatedAt, s.now())
	if err != nil {
		return nil, fmt.Errorf("load job views: %w", err)
	}
	if views == nil {
		views = []model.ViewCount{}
	}
	return views, nil
}

// isNotFound reports a missing row
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
