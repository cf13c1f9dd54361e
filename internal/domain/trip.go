// Package domain contains the core data types for the TripWeaver backend.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (llm, planner, enrich, repo, service, handler).
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Budget tiers accepted by the trip form and the generation prompt.
const (
	BudgetBudget   = "budget"
	BudgetModerate = "moderate"
	BudgetLuxury   = "luxury"
)

// ValidBudget reports whether tier is one of the accepted budget tiers.
func ValidBudget(tier string) bool {
	switch tier {
	case BudgetBudget, BudgetModerate, BudgetLuxury:
		return true
	}
	return false
}

// Trip is a persisted trip owned by a user. It records the parameters the
// user submitted; generated itineraries reference it by trip ID.
type Trip struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Destination    string    `json:"destination"`
	NumberOfDays   int       `json:"numberOfDays"`
	NumberOfPeople int       `json:"numberOfPeople"`
	Budget         string    `json:"budget"`
	Interests      []string  `json:"interests"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TripRequest is the input to itinerary generation. It is not persisted;
// a Trip row is created separately when the user saves the result.
type TripRequest struct {
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Interests   string
	Budget      string
	Travelers   int
}

// Duration returns the trip length in days: ceil((end − start) / 24h).
// For any request passing Validate (end strictly after start) it is ≥ 1.
func (r TripRequest) Duration() int {
	return int(math.Ceil(r.EndDate.Sub(r.StartDate).Hours() / 24))
}

// Validate enforces the trip form rules:
//   - destination at least 2 characters
//   - end date strictly after start date
//   - at least 1 traveler
//   - budget is one of budget/moderate/luxury
func (r TripRequest) Validate() error {
	if len(strings.TrimSpace(r.Destination)) < 2 {
		return fmt.Errorf("%w: destination must be at least 2 characters", ErrValidation)
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if !r.EndDate.After(r.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", ErrValidation)
	}
	if r.Travelers < 1 {
		return fmt.Errorf("%w: at least 1 traveler required", ErrValidation)
	}
	if !ValidBudget(r.Budget) {
		return fmt.Errorf("%w: budget must be budget, moderate, or luxury", ErrValidation)
	}
	return nil
}
