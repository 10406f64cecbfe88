package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mycareerlist/model"
	"mycareerlist/repository"
)

// CaptureInput payment provider capture callback
type CaptureInput struct {
	Status   string      `json:"status"`
	OrderID  string      `json:"id"`
	Total    json.Number `json:"total"`
	Featured bool        `json:"featured"`
	Job      struct {
		ID string `json:"id"`
	} `json:"job"`
}

// PaymentService publishes jobs once their payment is captured
type PaymentService struct {
	jobRepo  repository.JobRepository
	notifier Notifier
	db       *gorm.DB
	baseURL  string
	now      func() time.Time
}

func NewPaymentService(jobRepo repository.JobRepository, notifier Notifier, db *gorm.DB, baseURL string) *PaymentService {
	return &PaymentService{
		jobRepo:  jobRepo,
		notifier: notifier,
		db:       db,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

// Capture records a completed payment and publishes the job in one
// transaction. A replayed order id is rejected with ErrConflict.
func (s *PaymentService) Capture(ctx context.Context, session *model.Session, in CaptureInput) (*model.JobEntity, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	if in.Status != model.PaymentStatusCompleted {
		return nil, invalid("status", fmt.Sprintf("payment not completed: %q", in.Status))
	}
	if in.OrderID == "" {
		return nil, invalid("id", "is required")
	}
	if in.Job.ID == "" {
		return nil, invalid("job.id", "is required")
	}

	job, err := s.jobRepo.FindByID(ctx, in.Job.ID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	if job == nil {
		return nil, ErrNotFound
	}
	if job.UserID != session.UserID {
		return nil, ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment := &model.PaymentEntity{
			OrderID: in.OrderID,
			UserID:  session.UserID,
			JobID:   job.ID,
			Amount:  in.Total.String(),
		}
		if err := repository.NewPaymentRepository(tx).Create(ctx, payment); err != nil {
			return err
		}
		return repository.NewJobRepository(tx).Publish(ctx, job.ID, in.Featured)
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, fmt.Errorf("order %s: %w", in.OrderID, ErrConflict)
		}
		return nil, fmt.Errorf("capture payment: %w", err)
	}

	job.Draft = false
	job.Featured = in.Featured
	log.WithFields(log.Fields{"job": job.ID, "order": in.OrderID, "featured": in.Featured}).Info("job published")

	if in.Featured {
		published, err := s.jobRepo.FindBySlug(ctx, job.Slug)
		if err == nil && published != nil {
			job.Company = published.Company
		}
		event := JobPublishedEvent{
			ID:          job.ID,
			Title:       job.Title,
			Slug:        job.Slug,
			Category:    job.Category,
			Type:        job.Type,
			Location:    job.Location,
			City:        job.City,
			URL:         fmt.Sprintf("%s/jobs/%s", s.baseURL, job.Slug),
			Featured:    true,
			Company:     model.CompanyBrief{Name: job.Company.Name, Logo: job.Company.Logo},
			CompanyURL:  fmt.Sprintf("%s/companies/%s", s.baseURL, job.Company.Slug),
			PublishedAt: s.now().UTC(),
		}
		if err := s.notifier.JobPublished(ctx, event); err != nil {
			log.WithError(err).WithField("job", job.ID).Warn("publish job event failed")
		}
	}
	return job, nil
}
