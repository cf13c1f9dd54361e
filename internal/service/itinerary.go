package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/repo"
)

// ItineraryService persists and retrieves generated itineraries. Every
// operation checks trip ownership first, so a user can never read or write
// another user's itinerary.
type ItineraryService struct {
	itineraries repo.ItineraryRepo
	trips       repo.TripRepo
}

// NewItineraryService constructs an ItineraryService.
func NewItineraryService(itineraries repo.ItineraryRepo, trips repo.TripRepo) *ItineraryService {
	return &ItineraryService{itineraries: itineraries, trips: trips}
}

// Save stores the itinerary for one of the user's trips, replacing any
// previously saved itinerary. Returns the new itinerary's ID.
func (s *ItineraryService) Save(ctx context.Context, userID, tripID uuid.UUID, it domain.Itinerary) (uuid.UUID, error) {
	if it.Destination == "" {
		return uuid.Nil, fmt.Errorf("%w: itinerary destination is required", domain.ErrValidation)
	}
	if len(it.Days) == 0 {
		return uuid.Nil, fmt.Errorf("%w: itinerary must have at least one day", domain.ErrValidation)
	}

	// Ownership check: GetByID is scoped to userID.
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return uuid.Nil, fmt.Errorf("service.ItineraryService.Save: %w", err)
	}

	id, err := s.itineraries.Save(ctx, tripID, it)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.ItineraryService.Save: %w", err)
	}
	return id, nil
}

// GetByTrip returns the saved itinerary for one of the user's trips.
func (s *ItineraryService) GetByTrip(ctx context.Context, userID, tripID uuid.UUID) (domain.Itinerary, error) {
	if _, err := s.trips.GetByID(ctx, userID, tripID); err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.GetByTrip: %w", err)
	}

	it, err := s.itineraries.GetByTripID(ctx, tripID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.GetByTrip: %w", err)
	}
	return it, nil
}
