package domain

// Itinerary is the structured travel plan produced by the generation model.
// The JSON shape is part of the wire contract: the prompt instructs the model
// to emit exactly this object, the browser parses it from the stream, and the
// enriched copy is appended to the stream after the result sentinel.
//
// An Itinerary is created once per generation request and never mutated after
// enrichment: the enrichment orchestrator merges lookup results into a fresh
// copy at its join point.
type Itinerary struct {
	Destination      string          `json:"destination"`
	DestinationImage string          `json:"destinationImage,omitempty"`
	Duration         int             `json:"duration"`
	BestTime         string          `json:"bestTime"`
	EstimatedBudget  EstimatedBudget `json:"estimatedBudget"`
	Highlights       []Highlight     `json:"highlights"`
	Days             []Day           `json:"days"`
	TravelTips       []string        `json:"travelTips"`
	LocalInfo        LocalInfo       `json:"localInfo"`
	Weather          *Weather        `json:"weather,omitempty"`
}

// EstimatedBudget is a free-text cost summary for the whole trip.
type EstimatedBudget struct {
	Total     string          `json:"total"`
	PerPerson string          `json:"perPerson"`
	Breakdown BudgetBreakdown `json:"breakdown"`
}

// BudgetBreakdown splits the estimate into four fixed categories.
type BudgetBreakdown struct {
	Accommodation  string `json:"accommodation"`
	Food           string `json:"food"`
	Transportation string `json:"transportation"`
	Activities     string `json:"activities"`
}

// Highlight is a notable sight or experience for the whole trip.
type Highlight struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	EstimatedCost string `json:"estimatedCost"`
	Image         string `json:"image,omitempty"`
}

// Day is one day of the itinerary. Day numbers are 1-based and contiguous;
// the persistence layer renumbers from array position on save.
type Day struct {
	Day           int           `json:"day"`
	Title         string        `json:"title"`
	Activities    []Activity    `json:"activities"`
	Meals         []Meal        `json:"meals"`
	Accommodation Accommodation `json:"accommodation"`
}

// Activity is a single scheduled activity. Duration and cost are free-text
// estimates as produced by the model.
type Activity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Cost        string `json:"cost"`
	Location    string `json:"location"`
	Image       string `json:"image,omitempty"`
}

// Meal is a dining suggestion for a day.
type Meal struct {
	Type          string `json:"type"`
	Suggestion    string `json:"suggestion"`
	EstimatedCost string `json:"estimatedCost"`
	Cuisine       string `json:"cuisine"`
}

// Accommodation is the lodging suggestion for a day.
type Accommodation struct {
	Type       string `json:"type"`
	PriceRange string `json:"priceRange"`
	Area       string `json:"area"`
}

// LocalInfo is a block of practical destination facts.
type LocalInfo struct {
	Currency  string `json:"currency"`
	Language  string `json:"language"`
	Transport string `json:"transport"`
	Safety    string `json:"safety"`
}

// Weather is a current-conditions snapshot attached during enrichment.
// Fields that the weather provider could not supply hold the literal "N/A".
type Weather struct {
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	Humidity    string `json:"humidity"`
	Description string `json:"description"`
}

// SuggestedTrip is a curated destination shown on the landing page.
type SuggestedTrip struct {
	ID          int      `json:"id"`
	Destination string   `json:"destination"`
	Duration    string   `json:"duration"`
	Budget      string   `json:"budget"`
	Image       string   `json:"image"`
	Highlights  []string `json:"highlights"`
}
