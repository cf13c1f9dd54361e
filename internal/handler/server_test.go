package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/backend/internal/auth"
	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/handler"
	"github.com/tripweaver/backend/internal/llm"
)

const testSecret = "test-secret"

// ---- test doubles ----------------------------------------------------------

type mockAuth struct {
	register func(ctx context.Context, name, email, password string) (domain.User, error)
	verify   func(ctx context.Context, email, code string) error
	login    func(ctx context.Context, email, password string) (string, domain.User, error)
	me       func(ctx context.Context, userID uuid.UUID) (domain.User, error)
}

func (m *mockAuth) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	return m.register(ctx, name, email, password)
}
func (m *mockAuth) Verify(ctx context.Context, email, code string) error {
	return m.verify(ctx, email, code)
}
func (m *mockAuth) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuth) Me(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return m.me(ctx, userID)
}

var _ handler.AuthServicer = (*mockAuth)(nil)

type mockTrips struct {
	create     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID    func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	listByUser func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	delete     func(ctx context.Context, userID, tripID uuid.UUID) error
}

func (m *mockTrips) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTrips) GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, userID, tripID)
}
func (m *mockTrips) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockTrips) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.delete(ctx, userID, tripID)
}

var _ handler.TripServicer = (*mockTrips)(nil)

type mockItineraries struct {
	save      func(ctx context.Context, userID, tripID uuid.UUID, it domain.Itinerary) (uuid.UUID, error)
	getByTrip func(ctx context.Context, userID, tripID uuid.UUID) (domain.Itinerary, error)
}

func (m *mockItineraries) Save(ctx context.Context, userID, tripID uuid.UUID, it domain.Itinerary) (uuid.UUID, error) {
	return m.save(ctx, userID, tripID, it)
}
func (m *mockItineraries) GetByTrip(ctx context.Context, userID, tripID uuid.UUID) (domain.Itinerary, error) {
	return m.getByTrip(ctx, userID, tripID)
}

var _ handler.ItineraryServicer = (*mockItineraries)(nil)

// mockGenerator scripts the streaming generation call.
type mockGenerator struct {
	generate func(ctx context.Context, prompt string) (<-chan llm.Chunk, error)
}

func (m *mockGenerator) GenerateStream(ctx context.Context, prompt string) (<-chan llm.Chunk, error) {
	return m.generate(ctx, prompt)
}

var _ llm.Generator = (*mockGenerator)(nil)

// enrichFunc adapts a function to handler.Enricher.
type enrichFunc func(ctx context.Context, it domain.Itinerary) domain.Itinerary

func (f enrichFunc) Enrich(ctx context.Context, it domain.Itinerary) domain.Itinerary {
	return f(ctx, it)
}

// passthroughEnricher returns the itinerary unchanged.
var passthroughEnricher = enrichFunc(func(_ context.Context, it domain.Itinerary) domain.Itinerary {
	return it
})

// ---- fixtures --------------------------------------------------------------

// testServer builds a Server around the given doubles; nil doubles stay nil,
// which is fine as long as the test does not route to them.
type testServer struct {
	auth        *mockAuth
	trips       *mockTrips
	itineraries *mockItineraries
	generator   *mockGenerator
	enricher    handler.Enricher
}

func (ts testServer) build() *handler.Server {
	enricher := ts.enricher
	if enricher == nil {
		enricher = passthroughEnricher
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewServer(ts.auth, ts.trips, ts.itineraries, ts.generator, enricher, testSecret, log)
}

// do routes a request through the full router, so middleware and URL params
// behave as in production.
func (ts testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.build().Routes().ServeHTTP(rec, req)
	return rec
}

// bearerToken issues a valid token for userID.
func bearerToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, "ada@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

// chunkStream builds a closed channel pre-loaded with text fragments.
func chunkStream(fragments ...string) <-chan llm.Chunk {
	ch := make(chan llm.Chunk, len(fragments))
	for _, f := range fragments {
		ch <- llm.Chunk{Text: f}
	}
	close(ch)
	return ch
}
