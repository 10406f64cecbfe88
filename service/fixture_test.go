package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mycareerlist/config"
	"mycareerlist/model"
	"mycareerlist/repository"
	"mycareerlist/utils"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu     sync.Mutex
	emails []EmailMessage
	events []JobPublishedEvent
}

func (n *recordingNotifier) SendEmail(_ context.Context, msg EmailMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.emails = append(n.emails, msg)
	return nil
}

func (n *recordingNotifier) JobPublished(_ context.Context, event JobPublishedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

type recordingViews struct {
	mu     sync.Mutex
	viewed []string
	daily  []model.ViewCount
}

func (v *recordingViews) RecordView(_ context.Context, slug string, _ time.Time) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewed = append(v.viewed, slug)
	return nil
}

func (v *recordingViews) recorded() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.viewed...)
}

func (v *recordingViews) DailyViews(context.Context, string, time.Time, time.Time) ([]model.ViewCount, error) {
	return v.daily, nil
}

type fixture struct {
	ctx        context.Context
	db         *gorm.DB
	jobRepo    repository.JobRepository
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	jobs       *JobService
	companies  *CompanyService
	users      *UserService
	payments   *PaymentService
	expiration *ExpirationService
	mail       *MailService
	seed       *SeedService
	notifier   *recordingNotifier
	views      *recordingViews
}

func testListing() config.ListingConfig {
	return config.ListingConfig{JobPageSize: 3, CompanyPageSize: 2, OffsetPageSize: 2}
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithListing(t, testListing())
}

func newFixtureWithListing(t *testing.T, listing config.ListingConfig) *fixture {
	t.Helper()

	db, err := repository.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { _ = repository.Close(db) })

	jobRepo := repository.NewJobRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)

	notifier := &recordingNotifier{}
	views := &recordingViews{}

	jobs := NewJobService(jobRepo, companyRepo, reviewRepo, views, db, listing)
	companies := NewCompanyService(companyRepo, jobRepo, reviewRepo, db, listing)
	mail := NewMailService(jobRepo, userRepo, notifier, db, config.MailConfig{
		From:               "noreply@mycareerlist.com",
		ContactTo:          "hello@mycareerlist.com",
		NewsletterTemplate: "weekly-digest",
	}, "https://mycareerlist.com")
	mail.now = func() time.Time { return base }

	return &fixture{
		ctx:        context.Background(),
		db:         db,
		jobRepo:    jobRepo,
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		jobs:       jobs,
		companies:  companies,
		users:      NewUserService(userRepo, jobRepo, jobs, companies),
		payments:   NewPaymentService(jobRepo, notifier, db, "https://mycareerlist.com/"),
		expiration: NewExpirationService(jobRepo, 30*24*time.Hour),
		mail:       mail,
		seed:       NewSeedService(userRepo, companyRepo, jobRepo),
		notifier:   notifier,
		views:      views,
	}
}

func (f *fixture) user(t *testing.T, email, role string) *model.UserEntity {
	t.Helper()
	u := &model.UserEntity{Email: email, Role: role}
	require.NoError(t, f.userRepo.Create(f.ctx, u))
	return u
}

func (f *fixture) company(t *testing.T, name string, owner *model.UserEntity, createdAt time.Time) *model.CompanyEntity {
	t.Helper()
	c := &model.CompanyEntity{
		Name:      name,
		Slug:      utils.Slugify(name),
		Logo:      "https://cdn.example.com/" + utils.Slugify(name) + ".png",
		UserID:    owner.ID,
		CreatedAt: createdAt,
	}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

type jobOpts struct {
	title     string
	category  string
	location  string
	jobType   string
	draft     bool
	expired   bool
	featured  bool
	createdAt time.Time
}

func (f *fixture) job(t *testing.T, company *model.CompanyEntity, opts jobOpts) *model.JobEntity {
	t.Helper()
	if opts.jobType == "" {
		opts.jobType = model.JobTypeFullTime
	}
	j := &model.JobEntity{
		Title:       opts.title,
		Description: "long description of " + opts.title,
		Slug:        utils.JobSlug(opts.title, company.Name),
		Type:        opts.jobType,
		Category:    opts.category,
		Location:    opts.location,
		ApplyLink:   "https://example.com/apply",
		Draft:       opts.draft,
		Expired:     opts.expired,
		Featured:    opts.featured,
		CompanyID:   company.ID,
		UserID:      company.UserID,
		CreatedAt:   opts.createdAt,
	}
	require.NoError(t, f.jobRepo.Create(f.ctx, j))
	return j
}

func (f *fixture) session(u *model.UserEntity) *model.Session {
	return &model.Session{UserID: u.ID, Role: u.Role}
}

func summaryIDs(items []model.JobSummary) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

func companyIDs(items []model.CompanySummary) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
