// Package handler implements the HTTP handlers for the TripWeaver API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, auth.go, trip.go, generate.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/llm"
	"github.com/tripweaver/backend/internal/middleware"
)

// AuthServicer defines the account operations the auth handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type AuthServicer interface {
	Register(ctx context.Context, name, email, password string) (domain.User, error)
	Verify(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (string, domain.User, error)
	Me(ctx context.Context, userID uuid.UUID) (domain.User, error)
}

// TripServicer defines the trip operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	Delete(ctx context.Context, userID, tripID uuid.UUID) error
}

// ItineraryServicer defines the itinerary persistence operations the trip
// handlers depend on.
type ItineraryServicer interface {
	Save(ctx context.Context, userID, tripID uuid.UUID, it domain.Itinerary) (uuid.UUID, error)
	GetByTrip(ctx context.Context, userID, tripID uuid.UUID) (domain.Itinerary, error)
}

// Enricher attaches images and weather to a parsed itinerary. It never
// fails; lookups that error leave their fields unset.
type Enricher interface {
	Enrich(ctx context.Context, it domain.Itinerary) domain.Itinerary
}

// Server holds the dependencies for all API endpoints.
type Server struct {
	auth        AuthServicer
	trips       TripServicer
	itineraries ItineraryServicer
	generator   llm.Generator
	enricher    Enricher
	jwtSecret   string
	log         *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	auth AuthServicer,
	trips TripServicer,
	itineraries ItineraryServicer,
	generator llm.Generator,
	enricher Enricher,
	jwtSecret string,
	log *slog.Logger,
) *Server {
	return &Server{
		auth:        auth,
		trips:       trips,
		itineraries: itineraries,
		generator:   generator,
		enricher:    enricher,
		jwtSecret:   jwtSecret,
		log:         log,
	}
}

// Routes mounts all API endpoints on a fresh router. Middleware that applies
// to the whole server (logging, CORS, recovery) is wired in main, not here.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-itinerary", s.GenerateItinerary)
		r.Get("/suggested-trips", s.SuggestedTrips)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.Register)
			r.Post("/verify", s.VerifyEmail)
			r.Post("/login", s.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth(s.jwtSecret))
				r.Get("/me", s.Me)
			})
		})

		r.Route("/trips", func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwtSecret))
			r.Post("/", s.CreateTrip)
			r.Get("/", s.ListTrips)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Delete("/", s.DeleteTrip)
				r.Post("/itinerary", s.SaveItinerary)
				r.Get("/itinerary", s.GetItinerary)
			})
		})
	})

	return r
}
