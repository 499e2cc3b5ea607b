// Package server exposes the application over a JSON HTTP API.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/planmyoutings/outings/internal/assistant"
	"github.com/planmyoutings/outings/internal/auth"
	"github.com/planmyoutings/outings/internal/metrics"
	"github.com/planmyoutings/outings/internal/service"
)

// Server bundles the services behind the HTTP handlers.
type Server struct {
	groups  *service.GroupService
	plans   *service.PlanService
	votes   *service.VoteService
	suggest *service.SuggestService
	authSvc *service.AuthService
	events  *service.EventService
	planpal *assistant.PlanPal
}

// New creates a Server over the given services.
func New(
	groups *service.GroupService,
	plans *service.PlanService,
	votes *service.VoteService,
	suggest *service.SuggestService,
	authSvc *service.AuthService,
	events *service.EventService,
	planpal *assistant.PlanPal,
) *Server {
	return &Server{
		groups:  groups,
		plans:   plans,
		votes:   votes,
		suggest: suggest,
		authSvc: authSvc,
		events:  events,
		planpal: planpal,
	}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router(jwtManager *auth.JWTManager, corsOrigin string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{corsOrigin},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(requestLogger)
	r.Use(optionalAuth(jwtManager))

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Route("/groups", func(r chi.Router) {
		r.Post("/", s.handleCreateGroup)
		r.Route("/{token}", func(r chi.Router) {
			r.Post("/join", s.handleJoinGroup)
			r.Get("/plans", s.handleListPlans)
			r.Post("/plans", s.handleAddPlans)
			r.Post("/plans/{planID}/vote", s.handleToggleVote)
			r.Post("/suggest", s.handleSuggest)
			r.Post("/events", s.handleCreateEvent)
		})
	})

	r.Post("/events/{eventID}/rsvp", s.handleRSVP)
	r.Get("/events/{eventID}/participants", s.handleParticipants)
	r.Get("/users/{userID}/events", s.handleUserEvents)
	r.Get("/users/{userID}/groups", s.handleUserGroups)
	r.Delete("/users/{userID}", s.handleDeleteAccount)

	r.Post("/assistant/chat", s.handleAssistantChat)
	r.Post("/assistant/suggestions", s.handleAssistantSuggestions)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
