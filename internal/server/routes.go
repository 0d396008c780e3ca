package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/metrics"
	"github.com/yasinhessnawi1/password-reset-backend/internal/middleware"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// SetupRoutes configures the middleware chain and the routes.
//
// The configured routes include:
//   - Welcome, health, version and metrics endpoints
//   - Registration and login
//   - Forgot password and reset password
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	// CORS runs first so preflight requests never reach the handlers
	r.Use(middleware.CORS(&s.Config.CORS))

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery())
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.NotFound(w, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.MethodNotAllowed(w)
	})

	r.Get(constants.RootPath, s.welcome)
	r.Get(constants.HealthPath, s.health)
	r.Get(constants.VersionPath, s.version)
	r.Method(http.MethodGet, constants.MetricsPath, metrics.Handler(s.registry))

	// Credential routes carry passwords and tokens and must never be cached
	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore())

		r.Post(constants.RegisterPath, s.Handlers.AuthHandler.Register)
		r.Post(constants.LoginPath, s.Handlers.AuthHandler.Login)
		r.Post(constants.ForgotPasswordPath, s.Handlers.PasswordResetHandler.ForgotPassword)
		r.Post(constants.ResetPasswordPath, s.Handlers.PasswordResetHandler.ResetPassword)
	})

	s.router = r
}

// GetRouter returns the configured router.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

func (s *Server) welcome(w http.ResponseWriter, r *http.Request) {
	utils.Text(w, http.StatusOK, constants.MsgWelcome)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.HealthCheck(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		utils.Error(w, http.StatusServiceUnavailable, constants.CodeServiceUnavailable, constants.MsgServiceUnhealthy, nil)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.Config.App.Version,
	})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"name":        s.Config.App.Name,
		"version":     s.Config.App.Version,
		"environment": s.Config.App.Environment,
	})
}
