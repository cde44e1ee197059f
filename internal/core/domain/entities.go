package domain

import (
	"time"
)

// POICategory is the semantic slot a point of interest fills in a day plan.
type POICategory string

const (
	CategoryActivity POICategory = "activity"
	CategoryLunch    POICategory = "lunch"
	CategoryLodging  POICategory = "lodging"
)

// Categories lists all day-plan slots in selection order.
var Categories = []POICategory{CategoryActivity, CategoryLunch, CategoryLodging}

// DefaultEcoRating is assumed for lodging whose eco_rating tag is missing or unparsable.
const DefaultEcoRating = 3

// GeocodeResult is a resolved endpoint of an itinerary. Produced once per
// endpoint per request and never mutated.
type GeocodeResult struct {
	City     string   `json:"city"`
	Location GeoPoint `json:"location"`
}

// RawPOI is an unclassified tagged record returned by the POI source.
type RawPOI struct {
	ID       int64             `json:"id"`
	Location GeoPoint          `json:"location"`
	Tags     map[string]string `json:"tags"`
}

// Name returns the record's display name, if tagged.
func (r RawPOI) Name() string {
	return r.Tags["name"]
}

// PointOfInterest is a classified, selectable place. Synthetic entries carry
// Synthetic=true and sit at the day's waypoint.
type PointOfInterest struct {
	Name      string      `json:"name"`
	Category  POICategory `json:"category"`
	Kind      string      `json:"kind"` // source tag value, e.g. "nature_reserve", "cafe"
	Location  GeoPoint    `json:"location"`
	EcoRating int         `json:"eco_rating,omitempty"` // 1..5, lodging only
	Synthetic bool        `json:"synthetic,omitempty"`
}

// DayPlan is one day of an itinerary: a waypoint plus exactly one POI per category.
type DayPlan struct {
	Day      int             `json:"day"` // 1-based
	Waypoint GeoPoint        `json:"waypoint"`
	Activity PointOfInterest `json:"activity"`
	Lunch    PointOfInterest `json:"lunch"`
	Lodging  PointOfInterest `json:"lodging"`
}

// ByCategory returns the day's POI for the given category.
func (d DayPlan) ByCategory(c POICategory) PointOfInterest {
	switch c {
	case CategoryLunch:
		return d.Lunch
	case CategoryLodging:
		return d.Lodging
	default:
		return d.Activity
	}
}

// Itinerary is a complete generated plan. Immutable once assembled; editing
// is not supported.
type Itinerary struct {
	ID              string        `json:"id,omitempty"`
	Source          GeocodeResult `json:"source"`
	Destination     GeocodeResult `json:"destination"`
	TotalDistanceKm float64       `json:"total_distance_km"`
	Days            []DayPlan     `json:"days"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ItineraryRequest is the validated input to itinerary generation.
type ItineraryRequest struct {
	SourceCity      string `json:"source_city"`
	DestinationCity string `json:"destination_city"`
	NumberOfDays    int    `json:"number_of_days"`
}
