package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mycareerlist/model"
	"mycareerlist/repository"
	"mycareerlist/utils"
)

// UserService accounts, sessions and the personal job feed
type UserService struct {
	userRepo  repository.UserRepository
	jobRepo   repository.JobRepository
	jobs      *JobService
	companies *CompanyService
	now       func() time.Time
}

func NewUserService(
	userRepo repository.UserRepository,
	jobRepo repository.JobRepository,
	jobs *JobService,
	companies *CompanyService,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jobRepo:   jobRepo,
		jobs:      jobs,
		companies: companies,
		now:       time.Now,
	}
}

// ResolveSession maps a session token to the caller, nil for anonymous
func (s *UserService) ResolveSession(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}
	session, err := s.userRepo.FindSession(ctx, token, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	return session, nil
}

// GetAccount the caller's account page data
func (s *UserService) GetAccount(ctx context.Context, session *model.Session) (*model.Account, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	account := &model.Account{ID: user.ID, Email: user.Email, Role: user.Role}
	if user.Role == model.RoleEmployer {
		companies, err := s.companies.OwnedCompanies(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		account.Companies = companies
		return account, nil
	}

	prefs := normalizePreferences(user.Preferences.Data())
	saved, err := s.jobRepo.FindSavedActive(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load saved jobs: %w", err)
	}
	account.Preferences = &prefs
	account.SavedJobs = toJobSummaries(saved)
	return account, nil
}

// Feed the caller's job feed. Without explicit filter values the stored
// preferences are applied.
func (s *UserService) Feed(ctx context.Context, session *model.Session, f model.JobFilter) (*model.CursorPage[model.JobSummary], error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	// the feed does not search by title
	f.Title = ""
	if f.IsEmpty() {
		user, err := s.userRepo.FindByID(ctx, session.UserID)
		if err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
		if user == nil {
			return nil, ErrNotFound
		}
		stored := FilterFromPreferences(user.Preferences.Data())
		stored.Cursor = f.Cursor
		f = stored
	}
	return s.jobs.ListJobs(ctx, f)
}

// SavePreferences replaces the caller's feed preferences
func (s *UserService) SavePreferences(ctx context.Context, session *model.Session, prefs model.FeedPreferences) (model.FeedPreferences, error) {
	if session == nil {
		return model.FeedPreferences{}, ErrUnauthorized
	}
	prefs = normalizePreferences(prefs)
	if err := s.userRepo.UpdatePreferences(ctx, session.UserID, prefs); err != nil {
		if isNotFound(err) {
			return model.FeedPreferences{}, ErrNotFound
		}
		return model.FeedPreferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return prefs, nil
}

func normalizePreferences(p model.FeedPreferences) model.FeedPreferences {
	return model.FeedPreferences{
		Location: utils.ParseListValues(p.Location),
		Category: utils.ParseListValues(p.Category),
		Type:     utils.ParseListValues(p.Type),
	}
}

// Subscribe adds an email to the newsletter list. Repeats are ignored.
func (s *UserService) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return invalid("email", "is not a valid address")
	}
	if err := s.userRepo.AddSubscriber(ctx, email); err != nil {
		return fmt.Errorf("add subscriber: %w", err)
	}
	return nil
}

func validEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}
