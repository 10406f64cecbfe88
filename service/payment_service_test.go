package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycareerlist/model"
)

func captureFor(job *model.JobEntity, orderID string, featured bool) CaptureInput {
	in := CaptureInput{
		Status:   model.PaymentStatusCompleted,
		OrderID:  orderID,
		Total:    json.Number("49.00"),
		Featured: featured,
	}
	in.Job.ID = job.ID
	return in
}

func TestCapturePublishesDraftJob(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@acme.com", model.RoleEmployer)
	acme := f.company(t, "Acme", owner, base)
	job := f.job(t, acme, jobOpts{title: "Go Developer", draft: true, createdAt: base})

	published, err := f.payments.Capture(f.ctx, f.session(owner), captureFor(job, "ORDER-1", true))
	require.NoError(t, err)
	assert.False(t, published.Draft)
	assert.True(t, published.Featured)

	stored, err := f.jobRepo.FindByID(f.ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, stored.Draft)
	assert.True(t, stored.Featured)

	page, err := f.jobs.ListJobs(f.ctx, model.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{job.ID}, summaryIDs(page.Items))

	payments, err := repositoryPayments(f, job.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "49.00", payments[0].Amount)
	assert.Equal(t, owner.ID, payments[0].UserID)

	require.Len(t, f.notifier.events, 1)
	event := f.notifier.events[0]
	assert.Equal(t, job.Slug, event.Slug)
	assert.Equal(t, "https://mycareerlist.com/jobs/"+job.Slug, event.URL)
	assert.Equal(t, "https://mycareerlist.com/companies/acme", event.CompanyURL)
	assert.Equal(t, "Acme", event.Company.Name)
}

func TestCaptureWithoutFeatureSendsNoEvent(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@acme.com", model.RoleEmployer)
	acme := f.company(t, "Acme", owner, base)
	job := f.job(t, acme, jobOpts{title: "Go Developer", draft: true, createdAt: base})

	_, err := f.payments.Capture(f.ctx, f.session(owner), captureFor(job, "ORDER-1", false))
	require.NoError(t, err)
	assert.Empty(t, f.notifier.events)
}

func TestCaptureRejections(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@acme.com", model.RoleEmployer)
	stranger := f.user(t, "stranger@corp.com", model.RoleEmployer)
	acme := f.company(t, "Acme", owner, base)
	job := f.job(t, acme, jobOpts{title: "Go Developer", draft: true, createdAt: base})

	_, err := f.payments.Capture(f.ctx, nil, captureFor(job, "ORDER-1", false))
	assert.ErrorIs(t, err, ErrUnauthorized)

	pending := captureFor(job, "ORDER-1", false)
	pending.Status = "PENDING"
	_, err = f.payments.Capture(f.ctx, f.session(owner), pending)
	assert.True(t, IsValidation(err))

	_, err = f.payments.Capture(f.ctx, f.session(stranger), captureFor(job, "ORDER-1", false))
	assert.ErrorIs(t, err, ErrForbidden)

	missing := captureFor(job, "ORDER-1", false)
	missing.Job.ID = "nope"
	_, err = f.payments.Capture(f.ctx, f.session(owner), missing)
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := f.jobRepo.FindByID(f.ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, stored.Draft, "rejected captures leave the job in draft")

	_, err = f.payments.Capture(f.ctx, f.session(owner), captureFor(job, "ORDER-1", false))
	require.NoError(t, err)
	_, err = f.payments.Capture(f.ctx, f.session(owner), captureFor(job, "ORDER-1", true))
	assert.ErrorIs(t, err, ErrConflict, "replayed order id")
}

func repositoryPayments(f *fixture, jobID string) ([]*model.PaymentEntity, error) {
	var payments []*model.PaymentEntity
	err := f.db.Where("job_id = ?", jobID).Find(&payments).Error
	return payments, err
}
