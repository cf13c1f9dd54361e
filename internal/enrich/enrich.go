// Package enrich attaches photographs and weather data to a parsed
// itinerary. Lookups go to rate-limited third-party APIs, so only a small
// fixed subset of the itinerary is enriched: the destination, the first two
// highlights, the first activity of the first day, and one weather
// snapshot — at most 5 outbound requests per itinerary.
package enrich

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/tripweaver/backend/internal/domain"
)

// maxHighlightImages bounds how many highlights receive an image.
const maxHighlightImages = 2

// defaultLookupTimeout bounds each individual lookup so one slow provider
// cannot stall the whole settle barrier.
const defaultLookupTimeout = 10 * time.Second

// ImageSearcher finds one representative image URL for a search query.
// An empty URL with a nil error means "no image found".
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (string, error)
}

// WeatherProvider returns a current-conditions snapshot for a place name.
type WeatherProvider interface {
	Current(ctx context.Context, place string) (domain.Weather, error)
}

// Enricher fans out the bounded set of lookups for one itinerary.
// A nil provider disables that lookup kind entirely (credentials absent).
type Enricher struct {
	images  ImageSearcher
	weather WeatherProvider
	timeout time.Duration
	log     *slog.Logger
}

// New constructs an Enricher. Either provider may be nil.
func New(images ImageSearcher, weather WeatherProvider, log *slog.Logger) *Enricher {
	return &Enricher{images: images, weather: weather, timeout: defaultLookupTimeout, log: log}
}

// Enrich runs all lookups for it concurrently, waits for every one of them
// to settle, and returns a copy of the itinerary with the results merged in
// at the join point. The input is never mutated. A failed lookup leaves its
// field unset and is logged; Enrich itself never fails.
func (e *Enricher) Enrich(ctx context.Context, it domain.Itinerary) domain.Itinerary {
	if e.images == nil && e.weather == nil {
		return it
	}

	dest := it.Destination
	var (
		wg              sync.WaitGroup
		destImage       string
		weather         *domain.Weather
		highlightImages [maxHighlightImages]string
		activityImage   string
	)
	run := func(task func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task()
		}()
	}

	if e.images != nil {
		run(func() { destImage = e.lookupImage(ctx, dest) })

		for i := range min(len(it.Highlights), maxHighlightImages) {
			name := it.Highlights[i].Name
			if name == "" {
				continue
			}
			run(func() { highlightImages[i] = e.lookupImage(ctx, name+" "+dest) })
		}

		if len(it.Days) > 0 && len(it.Days[0].Activities) > 0 {
			first := it.Days[0].Activities[0]
			term := first.Location
			if term == "" {
				term = first.Name
			}
			if term != "" {
				run(func() { activityImage = e.lookupImage(ctx, term+" "+dest) })
			}
		}
	}

	if e.weather != nil {
		run(func() {
			lctx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()
			w, err := e.weather.Current(lctx, dest)
			if err != nil {
				e.log.Warn("weather lookup failed", "place", dest, "error", err)
				return
			}
			weather = &w
		})
	}

	wg.Wait()

	// Merge into a copy: the slices written to are cloned first so the
	// caller's itinerary stays untouched.
	out := it
	out.DestinationImage = destImage
	out.Weather = weather

	out.Highlights = slices.Clone(it.Highlights)
	for i := range min(len(out.Highlights), maxHighlightImages) {
		if highlightImages[i] != "" {
			out.Highlights[i].Image = highlightImages[i]
		}
	}

	if activityImage != "" {
		out.Days = slices.Clone(it.Days)
		out.Days[0].Activities = slices.Clone(it.Days[0].Activities)
		out.Days[0].Activities[0].Image = activityImage
	}

	return out
}

// lookupImage runs one bounded image search, degrading to "" on any error.
func (e *Enricher) lookupImage(ctx context.Context, query string) string {
	lctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	url, err := e.images.SearchImage(lctx, query)
	if err != nil {
		e.log.Warn("image lookup failed", "query", query, "error", err)
		return ""
	}
	return url
}
