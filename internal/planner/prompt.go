// Package planner implements the itinerary generation pipeline pieces that
// shape text: the prompt sent to the model, the normalizer that parses the
// accumulated response, and the out-of-band encoder that appends the final
// structured result to the byte stream.
package planner

import (
	"fmt"

	"github.com/tripweaver/backend/internal/domain"
)

// promptTemplate mandates the exact JSON object shape the rest of the
// pipeline parses. Placeholders: duration, destination, travelers, budget,
// interests, then the schema skeleton's destination/duration, then budget
// again for the closing instruction.
const promptTemplate = `You are an expert travel planner. Create a detailed %d-day travel itinerary for %s for %d traveler(s) with a %s budget.

User interests: %s

CRITICAL: You must respond with ONLY valid JSON. Do not include any text before or after the JSON. Do not use markdown code blocks. Start directly with { and end with }.

Required JSON format:
{
  "destination": "%s",
  "duration": %d,
  "bestTime": "month/season",
  "estimatedBudget": {
    "total": "total budget range",
    "perPerson": "per person cost",
    "breakdown": {
      "accommodation": "cost range with description",
      "food": "daily food cost range",
      "transportation": "transport cost estimate",
      "activities": "activities cost range"
    }
  },
  "highlights": [
    {
      "name": "highlight name",
      "description": "brief description",
      "estimatedCost": "cost if applicable"
    }
  ],
  "days": [
    {
      "day": 1,
      "title": "Day title",
      "activities": [
        {
          "name": "activity name",
          "description": "brief description",
          "duration": "estimated time",
          "cost": "estimated cost per person",
          "location": "specific location name"
        }
      ],
      "meals": [
        {
          "type": "Breakfast/Lunch/Dinner",
          "suggestion": "restaurant or food type",
          "estimatedCost": "cost per person",
          "cuisine": "cuisine type"
        }
      ],
      "accommodation": {
        "type": "hotel/hostel/resort type",
        "priceRange": "cost per night",
        "area": "recommended area/neighborhood"
      }
    }
  ],
  "travelTips": [
    "practical tip 1",
    "practical tip 2",
    "practical tip 3"
  ],
  "localInfo": {
    "currency": "local currency",
    "language": "primary language(s)",
    "transport": "main transportation options",
    "safety": "brief safety notes"
  }
}

Provide realistic cost estimates based on the %s budget level (budget/moderate/luxury). Be specific with activity names and locations so images can be fetched. Return ONLY the JSON, nothing else.`

// BuildPrompt renders the generation prompt for a trip request.
// Deterministic: identical requests produce byte-identical prompts.
// Place names are requested to be specific and searchable because they
// feed the image lookups during enrichment.
func BuildPrompt(req domain.TripRequest) string {
	duration := req.Duration()
	return fmt.Sprintf(promptTemplate,
		duration,
		req.Destination,
		req.Travelers,
		req.Budget,
		req.Interests,
		req.Destination,
		duration,
		req.Budget,
	)
}
