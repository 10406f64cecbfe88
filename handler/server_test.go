package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mycareerlist/config"
	"mycareerlist/model"
	"mycareerlist/repository"
	"mycareerlist/service"
	"mycareerlist/utils"
)

const cronSecret = "s3cret"

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	server *Server
	users  repository.UserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := repository.Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { _ = repository.Close(db) })

	listing := config.ListingConfig{JobPageSize: 2, CompanyPageSize: 2, OffsetPageSize: 2}
	jobRepo := repository.NewJobRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)

	jobs := service.NewJobService(jobRepo, companyRepo, reviewRepo, service.NoopViewTracker{}, db, listing)
	companies := service.NewCompanyService(companyRepo, jobRepo, reviewRepo, db, listing)
	svc := Services{
		Jobs:       jobs,
		Companies:  companies,
		Users:      service.NewUserService(userRepo, jobRepo, jobs, companies),
		Payments:   service.NewPaymentService(jobRepo, service.NoopNotifier{}, db, "http://localhost"),
		Expiration: service.NewExpirationService(jobRepo, 30*24*time.Hour),
		Mail:       service.NewMailService(jobRepo, userRepo, service.NoopNotifier{}, db, config.MailConfig{}, "http://localhost"),
	}

	return &testServer{
		t:  t,
		db: db,
		server: New(svc, config.ServerConfig{
			CronSecret:     cronSecret,
			AllowedOrigins: []string{"*"},
		}),
		users: userRepo,
	}
}

// login creates a user with a live session and returns its token
func (ts *testServer) login(email, role string) (*model.UserEntity, string) {
	u := &model.UserEntity{Email: email, Role: role}
	require.NoError(ts.t, ts.users.Create(context.Background(), u))
	token := "token-" + u.ID
	require.NoError(ts.t, ts.users.CreateSession(context.Background(), &model.SessionEntity{
		Token:   token,
		UserID:  u.ID,
		Expires: time.Now().Add(time.Hour),
	}))
	return u, token
}

func (ts *testServer) company(name string, owner *model.UserEntity) *model.CompanyEntity {
	c := &model.CompanyEntity{Name: name, Slug: utils.Slugify(name), UserID: owner.ID}
	require.NoError(ts.t, ts.db.Create(c).Error)
	return c
}

func (ts *testServer) job(title string, c *model.CompanyEntity, draft bool, createdAt time.Time) *model.JobEntity {
	j := &model.JobEntity{
		Title:     title,
		Slug:      utils.JobSlug(title, c.Name),
		Category:  "programming",
		Location:  "remote",
		Draft:     draft,
		CompanyID: c.ID,
		UserID:    c.UserID,
		CreatedAt: createdAt,
	}
	require.NoError(ts.t, ts.db.Omit("Company").Create(j).Error)
	return j
}

type call struct {
	method string
	path   string
	body   interface{}
	token  string
	cookie string
}

func (ts *testServer) do(c call) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if c.body != nil {
		require.NoError(ts.t, json.NewEncoder(&body).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: "next-auth.session-token", Value: c.cookie})
	}
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestListJobsResponseShape(t *testing.T) {
	ts := newTestServer(t)
	owner, _ := ts.login("owner@acme.com", model.RoleEmployer)
	acme := ts.company("Acme", owner)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ts.job("One", acme, false, base)
	ts.job("Two", acme, false, base.Add(time.Hour))
	ts.job("Three", acme, false, base.Add(2*time.Hour))
	ts.job("Hidden", acme, true, base.Add(3*time.Hour))

	rec := ts.do(call{method: http.MethodGet, path: "/api/job"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	jobs := body["jobs"].([]interface{})
	require.Len(t, jobs, 2)
	first := jobs[0].(map[string]interface{})
	assert.Equal(t, "Three", first["title"])
	assert.NotContains(t, first, "description")
	assert.Equal(t, "Acme", first["company"].(map[string]interface{})["name"])
	cursor, ok := body["cursor"].(string)
	require.True(t, ok)

	rec = ts.do(call{method: http.MethodGet, path: "/api/job?cursor=" + cursor})
	body = decode(t, rec)
	assert.Len(t, body["jobs"], 1)
	assert.Nil(t, body["cursor"])

	rec = ts.do(call{method: http.MethodGet, path: "/api/job?category=design"})
	assert.JSONEq(t, `{"jobs":[],"cursor":null}`, rec.Body.String())

	rec = ts.do(call{method: http.MethodGet, path: "/api/job?page=2"})
	body = decode(t, rec)
	assert.Len(t, body["jobs"], 1)
	assert.EqualValues(t, 2, body["page"])
	assert.EqualValues(t, 3, body["totalItems"])
	assert.EqualValues(t, 2, body["totalPages"])
}

func TestCreateJobAuth(t *testing.T) {
	ts := newTestServer(t)
	owner, ownerToken := ts.login("owner@acme.com", model.RoleEmployer)
	_, userToken := ts.login("seeker@mail.com", model.RoleUser)
	acme := ts.company("Acme", owner)
	body := map[string]interface{}{"title": "Go Dev", "applyLink": "jobs@acme.com", "companyId": acme.ID}

	rec := ts.do(call{method: http.MethodPost, path: "/api/job", body: body})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(call{method: http.MethodPost, path: "/api/job", body: body, token: "bogus"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(call{method: http.MethodPost, path: "/api/job", body: body, token: userToken})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(call{method: http.MethodPost, path: "/api/job", body: map[string]interface{}{"companyId": acme.ID}, token: ownerToken})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title", decode(t, rec)["field"])

	rec = ts.do(call{method: http.MethodPost, path: "/api/job", body: body, cookie: ownerToken})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "go-dev-at-acme", created["slug"])
	assert.Equal(t, true, created["draft"])

	rec = ts.do(call{method: http.MethodPost, path: "/api/job", body: body, token: ownerToken})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.login("owner@acme.com", model.RoleEmployer)

	req := httptest.NewRequest(http.MethodPost, "/api/company", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleSaveAndAccount(t *testing.T) {
	ts := newTestServer(t)
	owner, _ := ts.login("owner@acme.com", model.RoleEmployer)
	_, token := ts.login("seeker@mail.com", model.RoleUser)
	acme := ts.company("Acme", owner)
	job := ts.job("Go Dev", acme, false, time.Now().UTC())

	rec := ts.do(call{method: http.MethodPut, path: "/api/job", body: map[string]interface{}{"slug": job.Slug, "save": true}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(call{method: http.MethodPut, path: "/api/job", body: map[string]interface{}{"slug": job.Slug, "save": true}, token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = ts.do(call{method: http.MethodGet, path: "/api/user", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	account := decode(t, rec)
	saved := account["savedJobs"].([]interface{})
	require.Len(t, saved, 1)
	assert.Equal(t, job.Slug, saved[0].(map[string]interface{})["slug"])

	rec = ts.do(call{method: http.MethodGet, path: "/api/user"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFeedPreferences(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.login("seeker@mail.com", model.RoleUser)

	rec := ts.do(call{method: http.MethodPost, path: "/api/user/feed", body: map[string]interface{}{"location": []string{"remote"}}, token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"preferences":{"location":["remote"],"category":[],"type":[]}}`, rec.Body.String())

	rec = ts.do(call{method: http.MethodGet, path: "/api/user/feed", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jobs":[],"cursor":null}`, rec.Body.String())
}

func TestCompanyRoutes(t *testing.T) {
	ts := newTestServer(t)
	_, employer := ts.login("boss@corp.com", model.RoleEmployer)
	_, seeker := ts.login("seeker@mail.com", model.RoleUser)

	rec := ts.do(call{method: http.MethodPost, path: "/api/company", body: map[string]string{"name": "Initech"}, token: seeker})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(call{method: http.MethodPost, path: "/api/company", body: map[string]string{"name": "Initech"}, token: employer})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "initech", decode(t, rec)["slug"])

	rec = ts.do(call{method: http.MethodPost, path: "/api/company/initech/reviews", body: map[string]interface{}{
		"title": "Fine", "rating": 4, "status": "Employed",
	}, token: seeker})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(call{method: http.MethodGet, path: "/api/company?sort=reviews"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	companies := body["companies"].([]interface{})
	require.Len(t, companies, 1)
	counts := companies[0].(map[string]interface{})["_count"].(map[string]interface{})
	assert.EqualValues(t, 1, counts["reviews"])
	assert.Nil(t, body["cursor"])

	rec = ts.do(call{method: http.MethodGet, path: "/api/company/initech"})
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode(t, rec)
	assert.Len(t, profile["reviews"], 1)

	rec = ts.do(call{method: http.MethodGet, path: "/api/company/initech/reviews"})
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	require.Len(t, reviews, 1)
	assert.NotContains(t, reviews[0], "userId")

	rec = ts.do(call{method: http.MethodGet, path: "/api/company/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJobAnalyticsAuth(t *testing.T) {
	ts := newTestServer(t)
	owner, ownerToken := ts.login("owner@acme.com", model.RoleEmployer)
	_, strangerToken := ts.login("stranger@corp.com", model.RoleEmployer)
	acme := ts.company("Acme", owner)
	job := ts.job("Go Dev", acme, false, time.Now().UTC())
	path := "/api/job/" + job.Slug + "/analytics"

	assert.Equal(t, http.StatusUnauthorized, ts.do(call{method: http.MethodGet, path: path}).Code)
	assert.Equal(t, http.StatusForbidden, ts.do(call{method: http.MethodGet, path: path, token: strangerToken}).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(call{method: http.MethodGet, path: "/api/job/missing/analytics", token: ownerToken}).Code)

	rec := ts.do(call{method: http.MethodGet, path: path, token: ownerToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"views":[]}`, rec.Body.String())
}

func TestPaymentPublishesJob(t *testing.T) {
	ts := newTestServer(t)
	owner, token := ts.login("owner@acme.com", model.RoleEmployer)
	acme := ts.company("Acme", owner)
	job := ts.job("Go Dev", acme, true, time.Now().UTC())

	capture := map[string]interface{}{"status": "COMPLETED", "id": "ORDER-9", "total": 99, "featured": true, "job": map[string]string{"id": job.ID}}

	rec := ts.do(call{method: http.MethodPost, path: "/api/payment", body: map[string]interface{}{"status": "VOIDED", "id": "x", "job": map[string]string{"id": job.ID}}, token: token})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(call{method: http.MethodPost, path: "/api/payment", body: capture, token: token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(call{method: http.MethodGet, path: "/api/job"})
	assert.Len(t, decode(t, rec)["jobs"], 1)

	rec = ts.do(call{method: http.MethodPost, path: "/api/payment", body: capture, token: token})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCronEndpoints(t *testing.T) {
	ts := newTestServer(t)
	owner, _ := ts.login("owner@acme.com", model.RoleEmployer)
	acme := ts.company("Acme", owner)
	ts.job("Ancient", acme, false, time.Now().UTC().Add(-60*24*time.Hour))

	assert.Equal(t, http.StatusUnauthorized, ts.do(call{method: http.MethodPost, path: "/api/expire"}).Code)
	assert.Equal(t, http.StatusUnauthorized, ts.do(call{method: http.MethodPost, path: "/api/expire", token: "wrong"}).Code)

	rec := ts.do(call{method: http.MethodPost, path: "/api/expire", token: cronSecret})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	rec = ts.do(call{method: http.MethodPost, path: "/api/expire", token: cronSecret})
	assert.JSONEq(t, `{"count":0}`, rec.Body.String())

	rec = ts.do(call{method: http.MethodPost, path: "/api/newsletter", token: cronSecret})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"recipients":0}`, rec.Body.String())
}

func TestSignupAndContact(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(call{method: http.MethodPost, path: "/api/signup", body: map[string]string{"email": "reader@mail.com"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(call{method: http.MethodPost, path: "/api/signup", body: map[string]string{"email": "reader@mail.com"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = ts.do(call{method: http.MethodPost, path: "/api/signup", body: map[string]string{"email": "bad"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(call{method: http.MethodPost, path: "/api/contact", body: map[string]string{"email": "a@mail.com", "subject": "Hi", "body": "Hello"}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/job", nil)
	req.Header.Set("Origin", "https://mycareerlist.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
