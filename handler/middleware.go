package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"mycareerlist/model"
)

// session cookies set by the auth provider, secure variant first
var sessionCookies = []string{"__Secure-next-auth.session-token", "next-auth.session-token"}

type sessionKey struct{}

// SessionFrom the caller resolved by the session middleware, nil if anonymous
func SessionFrom(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionKey{}).(*model.Session)
	return session
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.WithFields(log.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start).String(),
				"request":  middleware.GetReqID(r.Context()),
			}).Info("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// sessionMiddleware attaches the caller's session to the request context.
// Unknown or expired tokens leave the request anonymous.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		session, err := s.svc.Users.ResolveSession(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if session != nil {
			r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, session))
		}
		next.ServeHTTP(w, r)
	})
}

func sessionToken(r *http.Request) string {
	if token := bearerToken(r); token != "" {
		return token
	}
	for _, name := range sessionCookies {
		if c, err := r.Cookie(name); err == nil && c.Value != "" {
			return c.Value
		}
	}
	return ""
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// cronAuth guards scheduler endpoints with the shared cron secret.
// An unset secret disables them.
func (s *Server) cronAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := s.cfg.CronSecret
		token := bearerToken(r)
		if secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
