package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tripweaver/backend/internal/domain"
)

// ParseItinerary parses the fully accumulated model output into an
// Itinerary, tolerating markdown code-fence wrapping despite the prompt
// forbidding it. The language-tagged fence is checked before the bare
// fence so a "```json" prefix is never half-consumed by the "```" check.
//
// A parse failure is a non-fatal signal: the raw text already streamed to
// the caller stands, and enrichment is skipped.
func ParseItinerary(raw string) (domain.Itinerary, error) {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "```json"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "```"); ok {
		s = rest
	}
	if rest, ok := strings.CutSuffix(s, "```"); ok {
		s = rest
	}
	s = strings.TrimSpace(s)

	var it domain.Itinerary
	if err := json.Unmarshal([]byte(s), &it); err != nil {
		return domain.Itinerary{}, fmt.Errorf("planner.ParseItinerary: %w", err)
	}
	return it, nil
}
