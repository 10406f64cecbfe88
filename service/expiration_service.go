package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"mycareerlist/repository"
)

// ExpirationService hides jobs older than the visibility window.
// A job expires once created_at <= now - window.
type ExpirationService struct {
	jobRepo repository.JobRepository
	window  time.Duration
	now     func() time.Time
}

func NewExpirationService(jobRepo repository.JobRepository, window time.Duration) *ExpirationService {
	return &ExpirationService{jobRepo: jobRepo, window: window, now: time.Now}
}

// Cutoff the creation time at or before which jobs are expired now
func (s *ExpirationService) Cutoff() time.Time {
	return s.now().UTC().Add(-s.window)
}

// Sweep marks every unexpired job created at or before cutoff as expired in
// a single bulk update. Running it again with the same cutoff changes nothing.
func (s *ExpirationService) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	count, err := s.jobRepo.ExpireCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("expire jobs: %w", err)
	}
	log.WithFields(log.Fields{"cutoff": cutoff.Format(time.RFC3339), "count": count}).Info("expiration sweep finished")
	return count, nil
}

// Run sweeps with the current cutoff
func (s *ExpirationService) Run(ctx context.Context) (int64, error) {
	return s.Sweep(ctx, s.Cutoff())
}
