package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/llm"
	"github.com/tripweaver/backend/internal/planner"
)

// busyMessage is shown when the generation model is overloaded or the retry
// budget is exhausted; the user should simply try again.
const busyMessage = "The AI service is currently busy. Please try again in a few moments."

type generateRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Interests   string `json:"interests"`
	Budget      string `json:"budget"`
	Travelers   int    `json:"travelers"`
}

// GenerateItinerary handles POST /api/generate-itinerary.
//
// The response is a single chunked stream: model text relayed fragment by
// fragment as it arrives, then — when the accumulated text parses as an
// itinerary — a sentinel followed by the enriched result as JSON. Clients
// render the text live and swap in the structured result at the end.
func (s *Server) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid startDate", err.Error())
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid endDate", err.Error())
		return
	}

	trip := domain.TripRequest{
		Destination: req.Destination,
		StartDate:   start,
		EndDate:     end,
		Interests:   req.Interests,
		Budget:      req.Budget,
		Travelers:   req.Travelers,
	}
	if err := trip.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	ctx := r.Context()
	ch, err := s.generator.GenerateStream(ctx, planner.BuildPrompt(trip))
	if err != nil {
		s.writeGenerateError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported", "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var acc strings.Builder
	for chunk := range ch {
		if chunk.Err != nil {
			// Headers are already sent; the only honest signal left is to
			// kill the connection. ErrAbortHandler is chi Recoverer's
			// designated quiet abort.
			s.log.ErrorContext(ctx, "generation stream failed mid-response", "error", chunk.Err)
			panic(http.ErrAbortHandler)
		}
		if _, err := w.Write([]byte(chunk.Text)); err != nil {
			// Client went away; the generator stops via ctx cancellation.
			return
		}
		flusher.Flush()
		acc.WriteString(chunk.Text)
	}

	it, err := planner.ParseItinerary(acc.String())
	if err != nil {
		// Non-fatal: the client already has the full text. It just gets no
		// structured trailer.
		s.log.WarnContext(ctx, "generated text did not parse as itinerary", "error", err)
		return
	}

	enriched := s.enricher.Enrich(ctx, it)

	trailer, err := planner.EncodeEnriched(enriched)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to encode enriched itinerary", "error", err)
		return
	}
	if _, err := w.Write(trailer); err != nil {
		return
	}
	flusher.Flush()
}

// writeGenerateError maps an upstream generation failure to the error body.
// Overload (including an exhausted retry budget on overload) is the one case
// with a user-actionable message.
func (s *Server) writeGenerateError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.ErrorContext(r.Context(), "failed to start generation", "error", err)

	status := llm.StatusCode(err)
	if errors.Is(err, llm.ErrMaxRetries) && llm.IsOverloaded(err) {
		status = http.StatusServiceUnavailable
	}

	message := "Failed to generate itinerary. Please try again."
	if status == http.StatusServiceUnavailable {
		message = busyMessage
	}
	writeError(w, status, message, err.Error())
}

// parseDate accepts RFC 3339 timestamps and bare 2006-01-02 dates, the two
// formats browsers send depending on the date input used.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
