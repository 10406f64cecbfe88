package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycareerlist/model"
)

func TestSweepIsIdempotent(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@acme.com", model.RoleEmployer)
	acme := f.company(t, "Acme", owner, base)

	cutoff := base
	old := f.job(t, acme, jobOpts{title: "Old", createdAt: base.Add(-48 * time.Hour)})
	boundary := f.job(t, acme, jobOpts{title: "Boundary", createdAt: base})
	fresh := f.job(t, acme, jobOpts{title: "Fresh", createdAt: base.Add(time.Second)})
	f.job(t, acme, jobOpts{title: "Already", expired: true, createdAt: base.Add(-72 * time.Hour)})

	count, err := f.expiration.Sweep(f.ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	var before []model.JobEntity
	require.NoError(t, f.db.Order("id").Find(&before).Error)

	count, err = f.expiration.Sweep(f.ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	var after []model.JobEntity
	require.NoError(t, f.db.Order("id").Find(&after).Error)
	assert.Equal(t, before, after, "second run changes nothing")

	for _, j := range []*model.JobEntity{old, boundary} {
		stored, err := f.jobRepo.FindByID(f.ctx, j.ID)
		require.NoError(t, err)
		assert.True(t, stored.Expired, j.Title)
	}
	stored, err := f.jobRepo.FindByID(f.ctx, fresh.ID)
	require.NoError(t, err)
	assert.False(t, stored.Expired)
}

func TestRunUsesWindow(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "owner@acme.com", model.RoleEmployer)
	acme := f.company(t, "Acme", owner, base)
	f.expiration.now = func() time.Time { return base }

	f.job(t, acme, jobOpts{title: "Month old", createdAt: base.Add(-31 * 24 * time.Hour)})
	f.job(t, acme, jobOpts{title: "Week old", createdAt: base.Add(-7 * 24 * time.Hour)})

	assert.Equal(t, base.Add(-30*24*time.Hour), f.expiration.Cutoff())

	count, err := f.expiration.Run(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	page, err := f.jobs.ListJobs(f.ctx, model.JobFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Week old", page.Items[0].Title)
}
