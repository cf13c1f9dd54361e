package enrich

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/backend/internal/domain"
)

// fakeImages records queries and answers from a canned map.
type fakeImages struct {
	mu      sync.Mutex
	queries []string
	urls    map[string]string
	err     error
}

func (f *fakeImages) SearchImage(_ context.Context, query string) (string, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.urls[query], nil
}

type fakeWeather struct {
	snapshot domain.Weather
	err      error
	calls    int
}

func (f *fakeWeather) Current(context.Context, string) (domain.Weather, error) {
	f.calls++
	if f.err != nil {
		return domain.Weather{}, f.err
	}
	return f.snapshot, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// richItinerary has more highlights and activities than the enrichment cap
// covers, to prove the lookup budget holds.
func richItinerary() domain.Itinerary {
	return domain.Itinerary{
		Destination: "Rome, Italy",
		Highlights: []domain.Highlight{
			{Name: "Colosseum"},
			{Name: "Vatican Museums"},
			{Name: "Trevi Fountain"},
			{Name: "Pantheon"},
			{Name: "Spanish Steps"},
		},
		Days: []domain.Day{
			{Day: 1, Activities: []domain.Activity{
				{Name: "Forum walk", Location: "Roman Forum"},
				{Name: "Palatine Hill"},
			}},
			{Day: 2, Activities: []domain.Activity{
				{Name: "Vatican tour", Location: "Vatican City"},
			}},
			{Day: 3, Activities: []domain.Activity{
				{Name: "Trastevere evening"},
			}},
		},
	}
}

func TestEnrich_NoProviders(t *testing.T) {
	e := New(nil, nil, testLogger())
	in := richItinerary()

	out := e.Enrich(context.Background(), in)

	assert.Equal(t, in, out)
}

func TestEnrich_LookupBudget(t *testing.T) {
	images := &fakeImages{urls: map[string]string{
		"Rome, Italy":               "https://img.example.com/rome",
		"Colosseum Rome, Italy":     "https://img.example.com/colosseum",
		"Vatican Museums Rome, Italy": "https://img.example.com/vatican",
		"Roman Forum Rome, Italy":   "https://img.example.com/forum",
	}}
	weather := &fakeWeather{snapshot: domain.Weather{
		Temperature: "24°C", Condition: "Clear", Humidity: "40%", Description: "clear sky",
	}}
	e := New(images, weather, testLogger())

	out := e.Enrich(context.Background(), richItinerary())

	assert.Equal(t, "https://img.example.com/rome", out.DestinationImage)
	require.NotNil(t, out.Weather)
	assert.Equal(t, "24°C", out.Weather.Temperature)

	// Only the first two highlights get images; the rest stay bare.
	assert.Equal(t, "https://img.example.com/colosseum", out.Highlights[0].Image)
	assert.Equal(t, "https://img.example.com/vatican", out.Highlights[1].Image)
	for _, h := range out.Highlights[2:] {
		assert.Empty(t, h.Image)
	}

	// Only the first activity of the first day gets an image, searched by
	// its location rather than its name.
	assert.Equal(t, "https://img.example.com/forum", out.Days[0].Activities[0].Image)
	assert.Empty(t, out.Days[0].Activities[1].Image)
	assert.Empty(t, out.Days[1].Activities[0].Image)

	assert.Len(t, images.queries, 4, "image lookups: destination + 2 highlights + 1 activity")
	assert.Equal(t, 1, weather.calls)
}

func TestEnrich_InputNotMutated(t *testing.T) {
	images := &fakeImages{urls: map[string]string{"Rome, Italy": "https://img.example.com/rome"}}
	e := New(images, nil, testLogger())
	in := richItinerary()

	_ = e.Enrich(context.Background(), in)

	assert.Empty(t, in.DestinationImage)
	assert.Nil(t, in.Weather)
	for _, h := range in.Highlights {
		assert.Empty(t, h.Image)
	}
	assert.Empty(t, in.Days[0].Activities[0].Image)
}

func TestEnrich_FailuresAreIsolated(t *testing.T) {
	images := &fakeImages{urls: map[string]string{"Rome, Italy": "https://img.example.com/rome"}}
	weather := &fakeWeather{err: errors.New("openweather 500")}
	e := New(images, weather, testLogger())

	out := e.Enrich(context.Background(), richItinerary())

	assert.Equal(t, "https://img.example.com/rome", out.DestinationImage, "image result survives weather failure")
	assert.Nil(t, out.Weather, "failed weather lookup leaves the field unset")
}

func TestEnrich_AllImageLookupsFail(t *testing.T) {
	images := &fakeImages{err: errors.New("unsplash down")}
	weather := &fakeWeather{snapshot: domain.Weather{Temperature: "24°C"}}
	e := New(images, weather, testLogger())

	out := e.Enrich(context.Background(), richItinerary())

	assert.Empty(t, out.DestinationImage)
	assert.Empty(t, out.Highlights[0].Image)
	require.NotNil(t, out.Weather, "weather result survives image failures")
}

func TestEnrich_ActivityFallsBackToName(t *testing.T) {
	it := domain.Itinerary{
		Destination: "Rome, Italy",
		Days: []domain.Day{
			{Day: 1, Activities: []domain.Activity{{Name: "Trastevere evening"}}},
		},
	}
	images := &fakeImages{urls: map[string]string{
		"Trastevere evening Rome, Italy": "https://img.example.com/trastevere",
	}}
	e := New(images, nil, testLogger())

	out := e.Enrich(context.Background(), it)

	assert.Equal(t, "https://img.example.com/trastevere", out.Days[0].Activities[0].Image)
}

func TestEnrich_SparseItinerary(t *testing.T) {
	it := domain.Itinerary{Destination: "Rome, Italy"}
	images := &fakeImages{urls: map[string]string{"Rome, Italy": "https://img.example.com/rome"}}
	e := New(images, nil, testLogger())

	out := e.Enrich(context.Background(), it)

	assert.Equal(t, "https://img.example.com/rome", out.DestinationImage)
	assert.Len(t, images.queries, 1, "nothing else to look up")
}
