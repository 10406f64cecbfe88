package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mycareerlist/config"
	"mycareerlist/model"
	"mycareerlist/repository"
)

const (
	digestMaxJobs = 10
	digestWindow  = 6 * 24 * time.Hour
)

// ContactInput contact form
type ContactInput struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"body"`
}

// MailService newsletter digest and contact form forwarding
type MailService struct {
	jobRepo  repository.JobRepository
	userRepo repository.UserRepository
	notifier Notifier
	db       *gorm.DB
	mail     config.MailConfig
	baseURL  string
	now      func() time.Time
}

func NewMailService(
	jobRepo repository.JobRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	db *gorm.DB,
	mail config.MailConfig,
	baseURL string,
) *MailService {
	return &MailService{
		jobRepo:  jobRepo,
		userRepo: userRepo,
		notifier: notifier,
		db:       db,
		mail:     mail,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

// DigestJobs the newest active jobs of the last six days, at most ten
func (s *MailService) DigestJobs(ctx context.Context) ([]model.JobSummary, error) {
	since := s.now().UTC().Add(-digestWindow)
	wrapper := s.db.WithContext(ctx).Model(&model.JobEntity{}).
		Preload("Company").
		Where("jobs.expired = ? AND jobs.draft = ?", false, false).
		Where("jobs.created_at >= ?", since).
		Order("jobs.created_at DESC").
		Order("jobs.id DESC").
		Limit(digestMaxJobs)
	jobs, err := s.jobRepo.FindByWrapper(wrapper)
	if err != nil {
		return nil, fmt.Errorf("load digest jobs: %w", err)
	}
	return toJobSummaries(jobs), nil
}

// SendDigest mails the digest to every subscriber and returns the number
// of recipients. Nothing is sent when there are no new jobs.
func (s *MailService) SendDigest(ctx context.Context) (int, error) {
	jobs, err := s.DigestJobs(ctx)
	if err != nil {
		return 0, err
	}
	if len(jobs) == 0 {
		log.Info("newsletter skipped, no new jobs")
		return 0, nil
	}

	emails, err := s.userRepo.FindSubscriberEmails(ctx)
	if err != nil {
		return 0, fmt.Errorf("load subscribers: %w", err)
	}
	if len(emails) == 0 {
		return 0, nil
	}

	msg := EmailMessage{
		To:         emails,
		From:       s.mail.From,
		TemplateID: s.mail.NewsletterTemplate,
		Data: map[string]any{
			"jobs":    jobs,
			"baseUrl": s.baseURL,
		},
	}
	if err := s.notifier.SendEmail(ctx, msg); err != nil {
		return 0, fmt.Errorf("send newsletter: %w", err)
	}
	log.WithFields(log.Fields{"jobs": len(jobs), "recipients": len(emails)}).Info("newsletter sent")
	return len(emails), nil
}

// Contact forwards a contact form to the site inbox
func (s *MailService) Contact(ctx context.Context, in ContactInput) error {
	email := strings.TrimSpace(in.Email)
	if !validEmail(email) {
		return invalid("email", "is not a valid address")
	}
	if strings.TrimSpace(in.Message) == "" {
		return invalid("body", "is required")
	}

	msg := EmailMessage{
		To:      []string{s.mail.ContactTo},
		From:    s.mail.From,
		ReplyTo: email,
		Subject: "MCL - " + strings.TrimSpace(in.Subject),
		Text:    in.Message,
	}
	if err := s.notifier.SendEmail(ctx, msg); err != nil {
		return fmt.Errorf("send contact mail: %w", err)
	}
	return nil
}
