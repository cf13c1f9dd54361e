package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/repo"
)

// TripService implements business logic for saved trips.
type TripService struct {
	repo repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r}
}

// Create validates and persists a new trip for the given user.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip.Destination = strings.TrimSpace(trip.Destination)
	trip.Interests = lo.Filter(
		lo.Map(trip.Interests, func(i string, _ int) string { return strings.TrimSpace(i) }),
		func(i string, _ int) bool { return i != "" },
	)

	if len(trip.Destination) < 2 {
		return domain.Trip{}, fmt.Errorf("%w: destination must be at least 2 characters", domain.ErrValidation)
	}
	if trip.NumberOfDays < 1 {
		return domain.Trip{}, fmt.Errorf("%w: number of days must be at least 1", domain.ErrValidation)
	}
	if trip.NumberOfPeople < 1 {
		return domain.Trip{}, fmt.Errorf("%w: number of people must be at least 1", domain.ErrValidation)
	}
	if !domain.ValidBudget(trip.Budget) {
		return domain.Trip{}, fmt.Errorf("%w: budget must be budget, moderate, or luxury", domain.ErrValidation)
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip owned by the user.
func (s *TripService) GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, userID, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// ListByUser returns all trips owned by the user, most recent first.
func (s *TripService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	trips, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByUser: %w", err)
	}
	return trips, nil
}

// Delete removes a trip owned by the user, along with its saved itinerary.
func (s *TripService) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}
