package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/backend/internal/domain"
)

func validRequest() domain.TripRequest {
	return domain.TripRequest{
		Destination: "Rome, Italy",
		StartDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		Interests:   "history, food",
		Budget:      domain.BudgetModerate,
		Travelers:   2,
	}
}

func TestTripRequest_Duration(t *testing.T) {
	req := validRequest()
	assert.Equal(t, 3, req.Duration())
}

func TestTripRequest_Duration_PartialDaysRoundUp(t *testing.T) {
	req := validRequest()
	// 2 days and 6 hours rounds up to 3 days.
	req.EndDate = req.StartDate.Add(54 * time.Hour)
	assert.Equal(t, 3, req.Duration())
}

func TestTripRequest_Duration_SubDayTrip(t *testing.T) {
	req := validRequest()
	req.EndDate = req.StartDate.Add(6 * time.Hour)
	assert.Equal(t, 1, req.Duration(), "any trip passing validation lasts at least one day")
}

func TestTripRequest_Validate_OK(t *testing.T) {
	require.NoError(t, validRequest().Validate())
}

func TestTripRequest_Validate_ShortDestination(t *testing.T) {
	req := validRequest()
	req.Destination = " R "

	err := req.Validate()

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "destination")
}

func TestTripRequest_Validate_MissingDates(t *testing.T) {
	req := validRequest()
	req.StartDate = time.Time{}

	assert.ErrorIs(t, req.Validate(), domain.ErrValidation)
}

func TestTripRequest_Validate_EndNotAfterStart(t *testing.T) {
	req := validRequest()
	req.EndDate = req.StartDate

	err := req.Validate()

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "end date")
}

func TestTripRequest_Validate_NoTravelers(t *testing.T) {
	req := validRequest()
	req.Travelers = 0

	assert.ErrorIs(t, req.Validate(), domain.ErrValidation)
}

func TestTripRequest_Validate_BadBudget(t *testing.T) {
	req := validRequest()
	req.Budget = "extravagant"

	err := req.Validate()

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "budget")
}

func TestValidBudget(t *testing.T) {
	assert.True(t, domain.ValidBudget(domain.BudgetBudget))
	assert.True(t, domain.ValidBudget(domain.BudgetModerate))
	assert.True(t, domain.ValidBudget(domain.BudgetLuxury))
	assert.False(t, domain.ValidBudget("Moderate"), "tiers are lowercase")
	assert.False(t, domain.ValidBudget(""))
}
