package handler

import (
	"net/http"

	"mycareerlist/model"
	"mycareerlist/service"
)

type preferencesResponse struct {
	Preferences model.FeedPreferences `json:"preferences"`
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.svc.Users.GetAccount(r.Context(), SessionFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	f := service.ParseJobFilter(r.URL.Query())
	page, err := s.svc.Users.Feed(r.Context(), SessionFrom(r.Context()), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobsCursorResponse{Jobs: page.Items, Cursor: page.Cursor})
}

func (s *Server) handleSaveFeed(w http.ResponseWriter, r *http.Request) {
	session := SessionFrom(r.Context())
	if session == nil {
		writeError(w, r, service.ErrUnauthorized)
		return
	}

	var prefs model.FeedPreferences
	if err := decodeJSON(w, r, &prefs); err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.svc.Users.SavePreferences(r.Context(), session, prefs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preferencesResponse{Preferences: saved})
}
