package handler

import (
	"net/http"

	"mycareerlist/service"
)

type capturedResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"jobId"`
	Slug    string `json:"slug"`
}

type signupRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleCapturePayment(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	if session == nil {
		writeError(w, r, service.ErrUnauthorized)
		return
	}

	var in service.CaptureInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	job, err := s.svc.Payments.Capture(r.Context(), session, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, capturedResponse{Success: true, JobID: job.ID, Slug: job.Slug})
}

func (s *Server) handleExpire(w http.ResponseWriter, r *http.Request) {
	count, err := s.svc.Expiration.Run(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	recipients, err := s.svc.Mail.SendDigest(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "recipients": recipients})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Users.Subscribe(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.svc.Mail.Contact(r.Context(), in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
