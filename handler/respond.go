package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"mycareerlist/service"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("write response failed")
	}
}

// writeError maps service errors to HTTP status codes. Anything unexpected
// is logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: validation.Error(), Field: validation.Field})
	case errors.Is(err, service.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Message: "Forbidden"})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Not Found"})
	case errors.Is(err, service.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})
	case errors.Is(err, context.Canceled):
		log.WithField("path", r.URL.Path).Debug("request cancelled by client")
	default:
		log.WithError(err).WithFields(log.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"request": middleware.GetReqID(r.Context()),
		}).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal Server Error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &service.ValidationError{Field: "body", Message: "invalid JSON"}
	}
	return nil
}
