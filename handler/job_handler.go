package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mycareerlist/model"
	"mycareerlist/service"
)

type jobsCursorResponse struct {
	Jobs   []model.JobSummary `json:"jobs"`
	Cursor *string            `json:"cursor"`
}

type jobsPageResponse struct {
	Jobs       []model.JobSummary `json:"jobs"`
	Page       int                `json:"page"`
	TotalItems int64              `json:"totalItems"`
	TotalPages int                `json:"totalPages"`
}

type createdJobResponse struct {
	ID      string             `json:"id"`
	Title   string             `json:"title"`
	Slug    string             `json:"slug"`
	Draft   bool               `json:"draft"`
	Company model.CompanyBrief `json:"company"`
}

type saveJobRequest struct {
	Slug string `json:"slug"`
	Save bool   `json:"save"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	f := service.ParseJobFilter(r.URL.Query())

	if f.Page > 0 {
		page, err := s.svc.Jobs.ListJobsPage(r.Context(), f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, jobsPageResponse{
			Jobs:       page.Items,
			Page:       page.Page,
			TotalItems: page.TotalItems,
			TotalPages: page.TotalPages,
		})
		return
	}

	page, err := s.svc.Jobs.ListJobs(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobsCursorResponse{Jobs: page.Items, Cursor: page.Cursor})
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	if session == nil {
		writeError(w, r, service.ErrUnauthorized)
		return
	}

	var in service.CreateJobInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	job, err := s.svc.Jobs.CreateJob(r.Context(), session, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdJobResponse{
		ID:      job.ID,
		Title:   job.Title,
		Slug:    job.Slug,
		Draft:   job.Draft,
		Company: model.CompanyBrief{Name: job.Company.Name, Logo: job.Company.Logo},
	})
}

func (s *Server) handleToggleSave(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	if session == nil {
		writeError(w, r, service.ErrUnauthorized)
		return
	}

	var req saveJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Jobs.ToggleSave(r.Context(), session, req.Slug, req.Save); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.svc.Jobs.GetJob(r.Context(), SessionFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleJobAnalytics(w http.ResponseWriter, r *http.Request) {
	views, err := s.svc.Jobs.Analytics(r.Context(), SessionFrom(r.Context()), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"views": views})
}
