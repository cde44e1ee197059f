package usecases

import (
	"strconv"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

var (
	activityNatural = map[string]bool{
		"peak": true, "waterfall": true, "volcano": true,
		"glacier": true, "cave": true, "beach": true,
	}
	activityHistoric = map[string]bool{
		"castle": true, "monument": true, "ruins": true,
	}
	lodgingTourism = map[string]bool{
		"hotel": true, "guest_house": true, "hostel": true,
		"chalet": true, "apartment": true,
	}
	lunchAmenity = map[string]bool{
		"restaurant": true, "cafe": true, "fast_food": true,
		"bar": true, "pub": true, "food_court": true,
	}
)

// Classify maps a raw map element to a categorized POI. Elements without a
// name or without any recognized category tag are discarded. When an element
// carries tags for more than one category, lodging wins over activity, which
// wins over lunch, so a hotel with a restaurant inside stays a lodging.
func Classify(raw domain.RawPOI) (domain.PointOfInterest, bool) {
	name := raw.Name()
	if name == "" {
		return domain.PointOfInterest{}, false
	}

	if kind, ok := lodgingKind(raw.Tags); ok {
		return domain.PointOfInterest{
			Name:      name,
			Category:  domain.CategoryLodging,
			Kind:      kind,
			Location:  raw.Location,
			EcoRating: ecoRating(raw.Tags),
		}, true
	}
	if kind, ok := activityKind(raw.Tags); ok {
		return domain.PointOfInterest{
			Name:     name,
			Category: domain.CategoryActivity,
			Kind:     kind,
			Location: raw.Location,
		}, true
	}
	if kind, ok := lunchKind(raw.Tags); ok {
		return domain.PointOfInterest{
			Name:     name,
			Category: domain.CategoryLunch,
			Kind:     kind,
			Location: raw.Location,
		}, true
	}
	return domain.PointOfInterest{}, false
}

func lodgingKind(tags map[string]string) (string, bool) {
	if v, ok := tags["tourism"]; ok && lodgingTourism[v] {
		return v, true
	}
	return "", false
}

func activityKind(tags map[string]string) (string, bool) {
	if tags["leisure"] == "nature_reserve" {
		return "nature_reserve", true
	}
	if tags["tourism"] == "attraction" {
		return "attraction", true
	}
	if v, ok := tags["natural"]; ok && activityNatural[v] {
		return v, true
	}
	if v, ok := tags["historic"]; ok && activityHistoric[v] {
		return v, true
	}
	return "", false
}

func lunchKind(tags map[string]string) (string, bool) {
	if v, ok := tags["amenity"]; ok && lunchAmenity[v] {
		return v, true
	}
	return "", false
}

func ecoRating(tags map[string]string) int {
	v, ok := tags["eco_rating"]
	if !ok {
		return domain.DefaultEcoRating
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 5 {
		return domain.DefaultEcoRating
	}
	return n
}
