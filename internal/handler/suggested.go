package handler

import (
	"net/http"

	"github.com/tripweaver/backend/internal/domain"
)

// suggestedTrips is the curated landing-page destination list. Static by
// design: these are editorial picks, not generated content.
var suggestedTrips = []domain.SuggestedTrip{
	{
		ID:          1,
		Destination: "Bali, Indonesia",
		Duration:    "7 Days",
		Budget:      "Moderate",
		Image:       "https://images.unsplash.com/photo-1537996194471-e657df975ab4?w=800&q=80",
		Highlights:  []string{"Beaches", "Temples", "Rice Terraces"},
	},
	{
		ID:          2,
		Destination: "Paris, France",
		Duration:    "5 Days",
		Budget:      "Luxury",
		Image:       "https://images.unsplash.com/photo-1502602898657-3e91760cbb34?w=800&q=80",
		Highlights:  []string{"Eiffel Tower", "Louvre", "Cuisine"},
	},
	{
		ID:          3,
		Destination: "Tokyo, Japan",
		Duration:    "6 Days",
		Budget:      "Moderate",
		Image:       "https://images.unsplash.com/photo-1540959733332-eab4deabeeaf?w=800&q=80",
		Highlights:  []string{"Culture", "Food", "Technology"},
	},
	{
		ID:          4,
		Destination: "Santorini, Greece",
		Duration:    "5 Days",
		Budget:      "Luxury",
		Image:       "https://images.unsplash.com/photo-1613395877344-13d4a8e0d49e?w=800&q=80",
		Highlights:  []string{"Sunsets", "Islands", "History"},
	},
}

// SuggestedTrips handles GET /api/suggested-trips.
func (s *Server) SuggestedTrips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, suggestedTrips)
}
