package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripweaver/backend/internal/domain"
)

// txDB extends db with the ability to open a transaction. *pgxpool.Pool and
// pgx.Conn satisfy it; the itinerary repo needs it because saving an itinerary
// touches five tables and must be all-or-nothing.
type txDB interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ItineraryRepo defines the persistence operations for generated itineraries.
// An itinerary is stored relationally across five tables (itineraries,
// highlights, itinerary_days, activities, meals); child rows carry an
// order_index so reads reproduce the original array order.
type ItineraryRepo interface {
	// Save stores the itinerary for a trip inside one transaction, replacing
	// any previously saved itinerary for that trip. Day numbers are taken
	// from array position (1-based), not from the day field in the payload.
	// Returns the new itinerary's ID.
	Save(ctx context.Context, tripID uuid.UUID, it domain.Itinerary) (uuid.UUID, error)

	// GetByTripID reassembles the full itinerary for a trip.
	// Returns domain.ErrNotFound if the trip has no saved itinerary.
	GetByTripID(ctx context.Context, tripID uuid.UUID) (domain.Itinerary, error)
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db txDB
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db
// connection. In production pass *pgxpool.Pool.
func NewItineraryRepo(db txDB) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

func (r *pgItineraryRepo) Save(ctx context.Context, tripID uuid.UUID, it domain.Itinerary) (uuid.UUID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repo.ItineraryRepo.Save: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	itineraryID, err := saveItineraryTx(ctx, tx, tripID, it)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repo.ItineraryRepo.Save: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("repo.ItineraryRepo.Save: commit: %w", err)
	}
	return itineraryID, nil
}

// saveItineraryTx performs all inserts for one itinerary inside tx.
func saveItineraryTx(ctx context.Context, tx pgx.Tx, tripID uuid.UUID, it domain.Itinerary) (uuid.UUID, error) {
	// Replace semantics: the cascade removes highlights, days, activities, and meals.
	const del = `DELETE FROM itineraries WHERE trip_id = @trip_id`
	if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return uuid.Nil, fmt.Errorf("delete previous: %w", err)
	}

	const insItinerary = `
		INSERT INTO itineraries (
			trip_id, destination, destination_image, duration, best_time,
			budget_total, budget_per_person,
			budget_accommodation, budget_food, budget_transportation, budget_activities,
			travel_tips, currency, language, transport, safety,
			weather_temperature, weather_condition, weather_humidity, weather_description
		) VALUES (
			@trip_id, @destination, @destination_image, @duration, @best_time,
			@budget_total, @budget_per_person,
			@budget_accommodation, @budget_food, @budget_transportation, @budget_activities,
			@travel_tips, @currency, @language, @transport, @safety,
			@weather_temperature, @weather_condition, @weather_humidity, @weather_description
		)
		RETURNING id`

	args := pgx.NamedArgs{
		"trip_id":               tripID,
		"destination":           it.Destination,
		"destination_image":     it.DestinationImage,
		"duration":              it.Duration,
		"best_time":             it.BestTime,
		"budget_total":          it.EstimatedBudget.Total,
		"budget_per_person":     it.EstimatedBudget.PerPerson,
		"budget_accommodation":  it.EstimatedBudget.Breakdown.Accommodation,
		"budget_food":           it.EstimatedBudget.Breakdown.Food,
		"budget_transportation": it.EstimatedBudget.Breakdown.Transportation,
		"budget_activities":     it.EstimatedBudget.Breakdown.Activities,
		"travel_tips":           it.TravelTips,
		"currency":              it.LocalInfo.Currency,
		"language":              it.LocalInfo.Language,
		"transport":             it.LocalInfo.Transport,
		"safety":                it.LocalInfo.Safety,
	}
	if it.Weather != nil {
		args["weather_temperature"] = it.Weather.Temperature
		args["weather_condition"] = it.Weather.Condition
		args["weather_humidity"] = it.Weather.Humidity
		args["weather_description"] = it.Weather.Description
	} else {
		args["weather_temperature"] = nil
		args["weather_condition"] = nil
		args["weather_humidity"] = nil
		args["weather_description"] = nil
	}

	var rawID pgtype.UUID
	if err := tx.QueryRow(ctx, insItinerary, args).Scan(&rawID); err != nil {
		return uuid.Nil, fmt.Errorf("insert itinerary: %w", err)
	}
	itineraryID := uuid.UUID(rawID.Bytes)

	const insHighlight = `
		INSERT INTO highlights (itinerary_id, name, description, estimated_cost, image, order_index)
		VALUES (@itinerary_id, @name, @description, @estimated_cost, @image, @order_index)`

	for i, h := range it.Highlights {
		args := pgx.NamedArgs{
			"itinerary_id":   itineraryID,
			"name":           h.Name,
			"description":    h.Description,
			"estimated_cost": h.EstimatedCost,
			"image":          h.Image,
			"order_index":    i,
		}
		if _, err := tx.Exec(ctx, insHighlight, args); err != nil {
			return uuid.Nil, fmt.Errorf("insert highlight %d: %w", i, err)
		}
	}

	const insDay = `
		INSERT INTO itinerary_days (
			itinerary_id, day_number, title,
			accommodation_type, accommodation_price_range, accommodation_area,
			order_index
		) VALUES (
			@itinerary_id, @day_number, @title,
			@accommodation_type, @accommodation_price_range, @accommodation_area,
			@order_index
		)
		RETURNING id`

	const insActivity = `
		INSERT INTO activities (day_id, name, description, duration, cost, location, image, order_index)
		VALUES (@day_id, @name, @description, @duration, @cost, @location, @image, @order_index)`

	const insMeal = `
		INSERT INTO meals (day_id, meal_type, suggestion, estimated_cost, cuisine, order_index)
		VALUES (@day_id, @meal_type, @suggestion, @estimated_cost, @cuisine, @order_index)`

	for di, day := range it.Days {
		args := pgx.NamedArgs{
			"itinerary_id":              itineraryID,
			"day_number":                di + 1, // renumber from position
			"title":                     day.Title,
			"accommodation_type":        day.Accommodation.Type,
			"accommodation_price_range": day.Accommodation.PriceRange,
			"accommodation_area":        day.Accommodation.Area,
			"order_index":               di,
		}
		var dayRaw pgtype.UUID
		if err := tx.QueryRow(ctx, insDay, args).Scan(&dayRaw); err != nil {
			return uuid.Nil, fmt.Errorf("insert day %d: %w", di+1, err)
		}
		dayID := uuid.UUID(dayRaw.Bytes)

		for ai, a := range day.Activities {
			args := pgx.NamedArgs{
				"day_id":      dayID,
				"name":        a.Name,
				"description": a.Description,
				"duration":    a.Duration,
				"cost":        a.Cost,
				"location":    a.Location,
				"image":       a.Image,
				"order_index": ai,
			}
			if _, err := tx.Exec(ctx, insActivity, args); err != nil {
				return uuid.Nil, fmt.Errorf("insert day %d activity %d: %w", di+1, ai, err)
			}
		}

		for mi, m := range day.Meals {
			args := pgx.NamedArgs{
				"day_id":         dayID,
				"meal_type":      m.Type,
				"suggestion":     m.Suggestion,
				"estimated_cost": m.EstimatedCost,
				"cuisine":        m.Cuisine,
				"order_index":    mi,
			}
			if _, err := tx.Exec(ctx, insMeal, args); err != nil {
				return uuid.Nil, fmt.Errorf("insert day %d meal %d: %w", di+1, mi, err)
			}
		}
	}

	return itineraryID, nil
}

func (r *pgItineraryRepo) GetByTripID(ctx context.Context, tripID uuid.UUID) (domain.Itinerary, error) {
	it, itineraryID, err := r.getItineraryRow(ctx, tripID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByTripID: %w", err)
	}

	it.Highlights, err = r.listHighlights(ctx, itineraryID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByTripID: %w", err)
	}

	it.Days, err = r.listDays(ctx, itineraryID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByTripID: %w", err)
	}

	return it, nil
}

func (r *pgItineraryRepo) getItineraryRow(ctx context.Context, tripID uuid.UUID) (domain.Itinerary, uuid.UUID, error) {
	const q = `
		SELECT id, destination, destination_image, duration, best_time,
		       budget_total, budget_per_person,
		       budget_accommodation, budget_food, budget_transportation, budget_activities,
		       travel_tips, currency, language, transport, safety,
		       weather_temperature, weather_condition, weather_humidity, weather_description
		FROM itineraries
		WHERE trip_id = @trip_id`

	var (
		it          domain.Itinerary
		rawID       pgtype.UUID
		temperature pgtype.Text
		condition   pgtype.Text
		humidity    pgtype.Text
		description pgtype.Text
	)

	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID}).Scan(
		&rawID, &it.Destination, &it.DestinationImage, &it.Duration, &it.BestTime,
		&it.EstimatedBudget.Total, &it.EstimatedBudget.PerPerson,
		&it.EstimatedBudget.Breakdown.Accommodation, &it.EstimatedBudget.Breakdown.Food,
		&it.EstimatedBudget.Breakdown.Transportation, &it.EstimatedBudget.Breakdown.Activities,
		&it.TravelTips, &it.LocalInfo.Currency, &it.LocalInfo.Language,
		&it.LocalInfo.Transport, &it.LocalInfo.Safety,
		&temperature, &condition, &humidity, &description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Itinerary{}, uuid.Nil, domain.ErrNotFound
		}
		return domain.Itinerary{}, uuid.Nil, err
	}

	// Weather is present only if enrichment supplied it at save time.
	if temperature.Valid {
		it.Weather = &domain.Weather{
			Temperature: temperature.String,
			Condition:   condition.String,
			Humidity:    humidity.String,
			Description: description.String,
		}
	}

	return it, uuid.UUID(rawID.Bytes), nil
}

func (r *pgItineraryRepo) listHighlights(ctx context.Context, itineraryID uuid.UUID) ([]domain.Highlight, error) {
	const q = `
		SELECT name, description, estimated_cost, image
		FROM highlights
		WHERE itinerary_id = @itinerary_id
		ORDER BY order_index`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"itinerary_id": itineraryID})
	if err != nil {
		return nil, fmt.Errorf("highlights: %w", err)
	}
	defer rows.Close()

	var highlights []domain.Highlight
	for rows.Next() {
		var h domain.Highlight
		if err := rows.Scan(&h.Name, &h.Description, &h.EstimatedCost, &h.Image); err != nil {
			return nil, fmt.Errorf("highlights: scan: %w", err)
		}
		highlights = append(highlights, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("highlights: rows: %w", err)
	}
	return highlights, nil
}

func (r *pgItineraryRepo) listDays(ctx context.Context, itineraryID uuid.UUID) ([]domain.Day, error) {
	const q = `
		SELECT id, day_number, title,
		       accommodation_type, accommodation_price_range, accommodation_area
		FROM itinerary_days
		WHERE itinerary_id = @itinerary_id
		ORDER BY order_index`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"itinerary_id": itineraryID})
	if err != nil {
		return nil, fmt.Errorf("days: %w", err)
	}
	defer rows.Close()

	var days []domain.Day
	var dayIDs []uuid.UUID
	for rows.Next() {
		var (
			d     domain.Day
			rawID pgtype.UUID
		)
		err := rows.Scan(&rawID, &d.Day, &d.Title,
			&d.Accommodation.Type, &d.Accommodation.PriceRange, &d.Accommodation.Area)
		if err != nil {
			return nil, fmt.Errorf("days: scan: %w", err)
		}
		days = append(days, d)
		dayIDs = append(dayIDs, uuid.UUID(rawID.Bytes))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("days: rows: %w", err)
	}
	if len(days) == 0 {
		return days, nil
	}

	activities, err := r.listActivities(ctx, dayIDs)
	if err != nil {
		return nil, err
	}
	meals, err := r.listMeals(ctx, dayIDs)
	if err != nil {
		return nil, err
	}

	for i, id := range dayIDs {
		days[i].Activities = activities[id]
		days[i].Meals = meals[id]
	}
	return days, nil
}

func (r *pgItineraryRepo) listActivities(ctx context.Context, dayIDs []uuid.UUID) (map[uuid.UUID][]domain.Activity, error) {
	const q = `
		SELECT day_id, name, description, duration, cost, location, image
		FROM activities
		WHERE day_id = ANY(@day_ids)
		ORDER BY order_index`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_ids": dayIDs})
	if err != nil {
		return nil, fmt.Errorf("activities: %w", err)
	}
	defer rows.Close()

	byDay := make(map[uuid.UUID][]domain.Activity, len(dayIDs))
	for rows.Next() {
		var (
			dayID pgtype.UUID
			a     domain.Activity
		)
		err := rows.Scan(&dayID, &a.Name, &a.Description, &a.Duration, &a.Cost, &a.Location, &a.Image)
		if err != nil {
			return nil, fmt.Errorf("activities: scan: %w", err)
		}
		id := uuid.UUID(dayID.Bytes)
		byDay[id] = append(byDay[id], a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activities: rows: %w", err)
	}
	return byDay, nil
}

func (r *pgItineraryRepo) listMeals(ctx context.Context, dayIDs []uuid.UUID) (map[uuid.UUID][]domain.Meal, error) {
	const q = `
		SELECT day_id, meal_type, suggestion, estimated_cost, cuisine
		FROM meals
		WHERE day_id = ANY(@day_ids)
		ORDER BY order_index`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_ids": dayIDs})
	if err != nil {
		return nil, fmt.Errorf("meals: %w", err)
	}
	defer rows.Close()

	byDay := make(map[uuid.UUID][]domain.Meal, len(dayIDs))
	for rows.Next() {
		var (
			dayID pgtype.UUID
			m     domain.Meal
		)
		err := rows.Scan(&dayID, &m.Type, &m.Suggestion, &m.EstimatedCost, &m.Cuisine)
		if err != nil {
			return nil, fmt.Errorf("meals: scan: %w", err)
		}
		id := uuid.UUID(dayID.Bytes)
		byDay[id] = append(byDay[id], m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("meals: rows: %w", err)
	}
	return byDay, nil
}
