package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycareerlist/model"
)

const seedYAML = `
owner: Seeder@MyCareerList.com
companies:
  - name: Acme Corp
    description: "  Rockets and anvils  "
    website: https://acme.example.com
    city: Phoenix
  - name: Globex
    region: usa
jobs:
  - title: Backend Engineer
    company: Acme Corp
    type: Full-Time
    category: programming
    apply: https://acme.example.com/apply
    featured: true
  - title: Designer
    company: Globex
    type: contract
    category: design
    location: usa
`

func TestSeedImport(t *testing.T) {
	f := newFixture(t)

	result, err := f.seed.Import(f.ctx, strings.NewReader(seedYAML))
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{Companies: 2, Jobs: 2}, result)

	owner, err := f.userRepo.FindByEmail(f.ctx, "seeder@mycareerlist.com")
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, model.RoleEmployer, owner.Role)

	page, err := f.jobs.ListJobs(f.ctx, model.JobFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	detail, err := f.jobs.GetJob(f.ctx, nil, "backend-engineer-at-acme-corp")
	require.NoError(t, err)
	assert.Equal(t, model.JobTypeFullTime, detail.Type)
	assert.Equal(t, "remote", detail.Location)
	assert.False(t, detail.Draft)

	again, err := f.seed.Import(f.ctx, strings.NewReader(seedYAML))
	require.NoError(t, err)
	assert.Equal(t, &SeedResult{}, again, "importing twice creates nothing")
}

func TestSeedImportRejectsUnknownCompany(t *testing.T) {
	f := newFixture(t)
	doc := "owner: a@b.com\njobs:\n  - title: Orphan\n    company: Nobody\n"
	_, err := f.seed.Import(f.ctx, strings.NewReader(doc))
	assert.True(t, IsValidation(err))

	_, err = f.seed.Import(f.ctx, strings.NewReader("companies: []\n"))
	assert.True(t, IsValidation(err))

	_, err = f.seed.Import(f.ctx, strings.NewReader("owner: [unterminated"))
	assert.Error(t, err)
}
