package service

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mycareerlist/config"
	"mycareerlist/model"
	"mycareerlist/repository"
	"mycareerlist/utils"
)

// CreateCompanyInput body of a new company
type CreateCompanyInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Logo        string `json:"logo"`
	Region      string `json:"region"`
	City        string `json:"city"`
}

// ReviewInput body of a new review
type ReviewInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Pros    string `json:"pros"`
	Cons    string `json:"cons"`
	Rating  int    `json:"rating"`
	Status  string `json:"status"`
}

// InterviewInput body of a new interview report
type InterviewInput struct {
	Title      string `json:"title"`
	Position   string `json:"position"`
	Year       int    `json:"year"`
	HR         string `json:"hr"`
	Technical  string `json:"technical"`
	Duration   int    `json:"duration"`
	Difficulty int    `json:"difficulty"`
	Offer      string `json:"offer"`
	Rating     int    `json:"rating"`
}

// CompanyService company listing, profiles, reviews and interviews
type CompanyService struct {
	companyRepo repository.CompanyRepository
	jobRepo     repository.JobRepository
	reviewRepo  repository.ReviewRepository
	db          *gorm.DB
	listing     config.ListingConfig
}

func NewCompanyService(
	companyRepo repository.CompanyRepository,
	jobRepo repository.JobRepository,
	reviewRepo repository.ReviewRepository,
	db *gorm.DB,
	listing config.ListingConfig,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		jobRepo:     jobRepo,
		reviewRepo:  reviewRepo,
		db:          db,
		listing:     listing,
	}
}

// companySortKey SQL expression of a sort key; larger values come first
func companySortKey(sort string) string {
	switch sort {
	case model.CompanySortJobs:
		return "(SELECT COUNT(*) FROM jobs WHERE jobs.company_id = companies.id AND jobs.expired = false AND jobs.draft = false)"
	case model.CompanySortReviews:
		return "(SELECT COUNT(*) FROM reviews WHERE reviews.company_id = companies.id)"
	default:
		return "companies.created_at"
	}
}

// ListCompanies returns one cursor page of companies in the requested order
func (s *CompanyService) ListCompanies(ctx context.Context, f model.CompanyFilter) (*model.CursorPage[model.CompanySummary], error) {
	size := s.listing.CompanyPageSize
	key := companySortKey(f.Sort)
	wrapper := s.companyWrapper(ctx, f.Search)

	if f.Cursor != "" {
		anchor, err := s.companyRepo.FindByID(ctx, f.Cursor)
		if err != nil {
			return nil, fmt.Errorf("load cursor company: %w", err)
		}
		if anchor == nil {
			return emptyCursorPage[model.CompanySummary](), nil
		}

		var value interface{} = anchor.CreatedAt
		if key != companySortKey(model.CompanySortCreatedAt) {
			var count int64
			row := s.db.WithContext(ctx).Model(&model.CompanyEntity{}).
				Select(key).
				Where("companies.id = ?", anchor.ID).
				Row()
			if err := row.Scan(&count); err != nil {
				return nil, fmt.Errorf("load cursor sort key: %w", err)
			}
			value = count
		}
		wrapper = wrapper.Where(
			fmt.Sprintf("(%s < ? OR (%s = ? AND companies.id < ?))", key, key),
			value, value, anchor.ID,
		)
	}

	companies, err := s.companyRepo.FindByWrapper(orderCompanies(wrapper, key).Limit(size))
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	items, err := s.summarize(ctx, companies)
	if err != nil {
		return nil, err
	}

	page := &model.CursorPage[model.CompanySummary]{Items: items}
	if len(companies) == size {
		last := companies[len(companies)-1].ID
		page.Cursor = &last
	}
	return page, nil
}

// ListCompaniesPage offset variant of ListCompanies
func (s *CompanyService) ListCompaniesPage(ctx context.Context, f model.CompanyFilter) (*model.OffsetPage[model.CompanySummary], error) {
	size := s.listing.OffsetPageSize
	page := f.Page
	if page < 1 {
		page = 1
	}

	total, err := s.companyRepo.CountByWrapper(s.companyWrapper(ctx, f.Search))
	if err != nil {
		return nil, fmt.Errorf("count companies: %w", err)
	}

	wrapper := orderCompanies(s.companyWrapper(ctx, f.Search), companySortKey(f.Sort))
	companies, err := s.companyRepo.FindByWrapper(wrapper.Offset((page - 1) * size).Limit(size))
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	items, err := s.summarize(ctx, companies)
	if err != nil {
		return nil, err
	}

	return &model.OffsetPage[model.CompanySummary]{
		Items:      items,
		Page:       page,
		TotalItems: total,
		TotalPages: totalPages(total, size),
	}, nil
}

func (s *CompanyService) companyWrapper(ctx context.Context, search string) *gorm.DB {
	wrapper := s.db.WithContext(ctx).Model(&model.CompanyEntity{})
	if search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		wrapper = wrapper.Where("LOWER(companies.name) LIKE ? ESCAPE '!'", pattern)
	}
	return wrapper
}

func orderCompanies(wrapper *gorm.DB, key string) *gorm.DB {
	return wrapper.Order(key + " DESC").Order("companies.id DESC")
}

// escapeLike escapes LIKE wildcards with '!'
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

func (s *CompanyService) summarize(ctx context.Context, companies []*model.CompanyEntity) ([]model.CompanySummary, error) {
	ids := make([]string, 0, len(companies))
	for _, c := range companies {
		ids = append(ids, c.ID)
	}
	jobCounts, err := s.jobRepo.CountActiveByCompanies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count company jobs: %w", err)
	}
	reviewCounts, err := s.reviewRepo.CountReviewsByCompanies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count company reviews: %w", err)
	}

	items := make([]model.CompanySummary, 0, len(companies))
	for _, c := range companies {
		items = append(items, model.CompanySummary{
			ID:   c.ID,
			Name: c.Name,
			Slug: c.Slug,
			Logo: c.Logo,
			Counts: model.CompanyCounts{
				Jobs:    jobCounts[c.ID],
				Reviews: reviewCounts[c.ID],
			},
		})
	}
	return items, nil
}

// CreateCompany stores a company owned by the calling employer.
// Name and slug are unique; a collision is reported as ErrConflict.
func (s *CompanyService) CreateCompany(ctx context.Context, session *model.Session, in CreateCompanyInput) (*model.CompanyEntity, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	if !session.IsEmployer() {
		return nil, ErrForbidden
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	slug := utils.Slugify(name)
	if slug == "" {
		return nil, invalid("name", "must contain letters or digits")
	}

	company := &model.CompanyEntity{
		Name:        name,
		Slug:        slug,
		Description: in.Description,
		Website:     strings.TrimSpace(in.Website),
		Logo:        strings.TrimSpace(in.Logo),
		Region:      in.Region,
		City:        in.City,
		UserID:      session.UserID,
	}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("company %q: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("create company: %w", err)
	}

	log.WithFields(log.Fields{"company": company.ID, "slug": company.Slug}).Info("company created")
	return company, nil
}

func (s *CompanyService) findBySlug(ctx context.Context, slug string) (*model.CompanyEntity, error) {
	company, err := s.companyRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return nil, ErrNotFound
	}
	return company, nil
}

// GetProfile company page with active jobs, reviews, interviews and their stats
func (s *CompanyService) GetProfile(ctx context.Context, slug string) (*model.CompanyProfile, error) {
	company, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	jobs, err := s.jobRepo.FindByCompany(ctx, company.ID, true)
	if err != nil {
		return nil, fmt.Errorf("load company jobs: %w", err)
	}
	for _, job := range jobs {
		job.Company = *company
	}

	reviews, err := s.reviewRepo.FindReviews(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	interviews, err := s.reviewRepo.FindInterviews(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("load interviews: %w", err)
	}
	reviewStats, err := s.reviewRepo.ReviewStats(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	interviewStats, err := s.reviewRepo.InterviewStats(ctx, company.ID)
	if err != nil {
		return nil, fmt.Errorf("interview stats: %w", err)
	}

	return &model.CompanyProfile{
		ID:          company.ID,
		Slug:        company.Slug,
		Name:        company.Name,
		Description: company.Description,
		Logo:        company.Logo,
		Website:     company.Website,
		Region:      company.Region,
		City:        company.City,
		Jobs:        toJobSummaries(jobs),
		Reviews:     reviews,
		Interviews:  interviews,
		Stats: model.CompanyStats{
			Reviews:    reviewStats,
			Interviews: interviewStats,
		},
	}, nil
}

// OwnedCompanies companies of an employer with counts and every job,
// including drafts and expired ones
func (s *CompanyService) OwnedCompanies(ctx context.Context, userID string) ([]model.OwnedCompany, error) {
	companies, err := s.companyRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load companies: %w", err)
	}
	summaries, err := s.summarize(ctx, companies)
	if err != nil {
		return nil, err
	}

	owned := make([]model.OwnedCompany, 0, len(companies))
	for i, c := range companies {
		jobs, err := s.jobRepo.FindByCompany(ctx, c.ID, false)
		if err != nil {
			return nil, fmt.Errorf("load company jobs: %w", err)
		}
		rows := make([]model.OwnedJob, 0, len(jobs))
		for _, job := range jobs {
			rows = append(rows, model.OwnedJob{
				ID:       job.ID,
				Title:    job.Title,
				Slug:     job.Slug,
				Featured: job.Featured,
				Draft:    job.Draft,
				Expired:  job.Expired,
			})
		}
		owned = append(owned, model.OwnedCompany{
			ID:     c.ID,
			Name:   c.Name,
			Slug:   c.Slug,
			Logo:   c.Logo,
			Counts: summaries[i].Counts,
			Jobs:   rows,
		})
	}
	return owned, nil
}

func (s *CompanyService) ListReviews(ctx context.Context, slug string) ([]model.ReviewEntity, error) {
	company, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.FindReviews(ctx, company.ID)
}

func (s *CompanyService) ListInterviews(ctx context.Context, slug string) ([]model.InterviewEntity, error) {
	company, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.FindInterviews(ctx, company.ID)
}

// CreateReview adds a review by the caller. Reviews cannot be edited later.
func (s *CompanyService) CreateReview(ctx context.Context, session *model.Session, slug string, in ReviewInput) (*model.ReviewEntity, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title", "is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, invalid("rating", "must be between 1 and 5")
	}
	switch in.Status {
	case model.ReviewStatusEmployed, model.ReviewStatusPreviouslyEmployed:
	default:
		return nil, invalid("status", "must be Employed or Previously employed")
	}

	company, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	review := &model.ReviewEntity{
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Pros:      in.Pros,
		Cons:      in.Cons,
		Rating:    in.Rating,
		Status:    in.Status,
		CompanyID: company.ID,
		UserID:    session.UserID,
	}
	if err := s.reviewRepo.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// CreateInterview adds an interview report by the caller
func (s *CompanyService) CreateInterview(ctx context.Context, session *model.Session, slug string, in InterviewInput) (*model.InterviewEntity, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("title", "is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, invalid("rating", "must be between 1 and 5")
	}
	if in.Difficulty < 1 || in.Difficulty > 5 {
		return nil, invalid("difficulty", "must be between 1 and 5")
	}
	if in.Duration < 0 {
		return nil, invalid("duration", "must not be negative")
	}
	switch in.Offer {
	case model.OfferAccepted, model.OfferDeclined, model.OfferNone:
	default:
		return nil, invalid("offer", "must be accepted, declined or no")
	}

	company, err := s.findBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	interview := &model.InterviewEntity{
		Title:      strings.TrimSpace(in.Title),
		Position:   in.Position,
		Year:       in.Year,
		HR:         in.HR,
		Technical:  in.Technical,
		Duration:   in.Duration,
		Difficulty: in.Difficulty,
		Offer:      in.Offer,
		Rating:     in.Rating,
		CompanyID:  company.ID,
		UserID:     session.UserID,
	}
	if err := s.reviewRepo.CreateInterview(ctx, interview); err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}
	return interview, nil
}
