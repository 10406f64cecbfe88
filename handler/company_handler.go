package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mycareerlist/model"
	"mycareerlist/service"
)

type companiesCursorResponse struct {
	Companies []model.CompanySummary `json:"companies"`
	Cursor    *string                `json:"cursor"`
}

type companiesPageResponse struct {
	Companies  []model.CompanySummary `json:"companies"`
	Page       int                    `json:"page"`
	TotalItems int64                  `json:"totalItems"`
	TotalPages int                    `json:"totalPages"`
}

type createdCompanyResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	f := service.ParseCompanyFilter(r.URL.Query())

	if f.Page > 0 {
		page, err := s.svc.Companies.ListCompaniesPage(r.Context(), f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, companiesPageResponse{
			Companies:  page.Items,
			Page:       page.Page,
			TotalItems: page.TotalItems,
			TotalPages: page.TotalPages,
		})
		return
	}

	page, err := s.svc.Companies.ListCompanies(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, companiesCursorResponse{Companies: page.Items, Cursor: page.Cursor})
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	if session == nil {
		writeError(w, r, service.ErrUnauthorized)
		return
	}

	var in service.CreateCompanyInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	company, err := s.svc.Companies.CreateCompany(r.Context(), session, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createdCompanyResponse{ID: company.ID, Name: company.Name, Slug: company.Slug})
}

func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	profile, err := s.svc.Companies.GetProfile(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.svc.Companies.ListReviews(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	if session == nil {
		writeError(w, r, service.ErrUnauthorized)
		return
	}

	var in service.ReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	review, err := s.svc.Companies.CreateReview(r.Context(), session, chi.URLParam(r, "slug"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	interviews, err := s.svc.Companies.ListInterviews(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, interviews)
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	if session == nil {
		writeError(w, r, service.ErrUnauthorized)
		return
	}

	var in service.InterviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	interview, err := s.svc.Companies.CreateInterview(r.Context(), session, chi.URLParam(r, "slug"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, interview)
}
