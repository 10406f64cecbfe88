package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"mycareerlist/config"
	"mycareerlist/service"
)

// Services everything the HTTP layer calls into
type Services struct {
	Jobs       *service.JobService
	Companies  *service.CompanyService
	Users      *service.UserService
	Payments   *service.PaymentService
	Expiration *service.ExpirationService
	Mail       *service.MailService
}

// Server JSON API of the job board
type Server struct {
	svc    Services
	cfg    config.ServerConfig
	router chi.Router
}

func New(svc Services, cfg config.ServerConfig) *Server {
	s := &Server{
		svc:    svc,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Route("/job", func(r chi.Router) {
			r.Get("/", s.handleListJobs)
			r.Post("/", s.handleCreateJob)
			r.Put("/", s.handleToggleSave)
			r.Get("/{slug}", s.handleGetJob)
			r.Get("/{slug}/analytics", s.handleJobAnalytics)
		})

		r.Route("/company", func(r chi.Router) {
			r.Get("/", s.handleListCompanies)
			r.Post("/", s.handleCreateCompany)
			r.Get("/{slug}", s.handleGetCompany)
			r.Get("/{slug}/reviews", s.handleListReviews)
			r.Post("/{slug}/reviews", s.handleCreateReview)
			r.Get("/{slug}/interviews", s.handleListInterviews)
			r.Post("/{slug}/interviews", s.handleCreateInterview)
		})

		r.Get("/user", s.handleGetAccount)
		r.Get("/user/feed", s.handleGetFeed)
		r.Post("/user/feed", s.handleSaveFeed)

		r.Post("/payment", s.handleCapturePayment)
		r.Post("/signup", s.handleSignup)
		r.Post("/contact", s.handleContact)

		r.Group(func(r chi.Router) {
			r.Use(s.cronAuth)
			r.Post("/expire", s.handleExpire)
			r.Post("/newsletter", s.handleNewsletter)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
