package planner

import (
	"encoding/json"
	"fmt"

	"github.com/tripweaver/backend/internal/domain"
)

// Sentinel separates the live model text from the trailing structured
// result within the single response stream. The client scans for it and
// parses everything after it as the result envelope.
//
// Known fragility: the multiplexing is only as reliable as the model never
// emitting this exact substring as content. The prompt forbids non-JSON
// output, which makes a collision unlikely but not impossible; the literal
// is part of the wire contract with existing clients.
const Sentinel = "\n\n__IMAGES__"

// resultEnvelope tags the trailing payload so the client can distinguish
// payload kinds if more are ever added.
type resultEnvelope struct {
	Type string           `json:"type"`
	Data domain.Itinerary `json:"data"`
}

// EncodeEnriched serializes the final itinerary as the out-of-band stream
// trailer: the sentinel followed by {"type":"images","data":<itinerary>}.
func EncodeEnriched(it domain.Itinerary) ([]byte, error) {
	payload, err := json.Marshal(resultEnvelope{Type: "images", Data: it})
	if err != nil {
		return nil, fmt.Errorf("planner.EncodeEnriched: %w", err)
	}
	return append([]byte(Sentinel), payload...), nil
}
