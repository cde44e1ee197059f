package usecases

import (
	"fmt"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// FallbackEntry is one synthetic POI template.
type FallbackEntry struct {
	Name      string
	Kind      string
	EcoRating int // lodging only
}

// FallbackCatalog holds the synthetic content substituted when no live
// candidate is available for a category. Tables are rotated by day number;
// entries past the table length are disambiguated with a day suffix so names
// never repeat within one itinerary.
type FallbackCatalog struct {
	Activities  []FallbackEntry
	Restaurants []FallbackEntry
	Lodgings    []FallbackEntry
}

// Validate checks that every category has at least one entry.
func (c FallbackCatalog) Validate() error {
	if len(c.Activities) == 0 || len(c.Restaurants) == 0 || len(c.Lodgings) == 0 {
		return fmt.Errorf("fallback catalog must have at least one entry per category")
	}
	return nil
}

func (c FallbackCatalog) table(category domain.POICategory) []FallbackEntry {
	switch category {
	case domain.CategoryLunch:
		return c.Restaurants
	case domain.CategoryLodging:
		return c.Lodgings
	default:
		return c.Activities
	}
}

// DefaultFallbackCatalog returns the built-in synthetic content.
func DefaultFallbackCatalog() FallbackCatalog {
	return FallbackCatalog{
		Activities: []FallbackEntry{
			{Name: "Nature Reserve Exploration", Kind: "nature_reserve"},
			{Name: "Mountain Hiking Adventure", Kind: "peak"},
			{Name: "Waterfall Discovery Tour", Kind: "waterfall"},
			{Name: "Volcanic Landscape Tour", Kind: "volcano"},
			{Name: "Glacier Viewing Experience", Kind: "glacier"},
			{Name: "Cave Exploration", Kind: "cave"},
			{Name: "Beach Day", Kind: "beach"},
			{Name: "Historic Castle Visit", Kind: "castle"},
			{Name: "Ancient Monument Tour", Kind: "monument"},
			{Name: "Archaeological Site Visit", Kind: "ruins"},
		},
		Restaurants: []FallbackEntry{
			{Name: "Organic Farm-to-Table Restaurant", Kind: "restaurant"},
			{Name: "Local Vegan Cafe", Kind: "cafe"},
			{Name: "Sustainable Seafood Restaurant", Kind: "restaurant"},
			{Name: "Zero-Waste Bistro", Kind: "restaurant"},
			{Name: "Farmers Market Food Court", Kind: "food_court"},
			{Name: "Eco-Friendly Pub", Kind: "pub"},
			{Name: "Green Kitchen", Kind: "restaurant"},
			{Name: "Sustainable Sushi Bar", Kind: "bar"},
			{Name: "Plant-Based Deli", Kind: "restaurant"},
			{Name: "Local Food Experience", Kind: "restaurant"},
		},
		Lodgings: []FallbackEntry{
			{Name: "Eco-Lodge Retreat", Kind: "hotel", EcoRating: 4},
			{Name: "Sustainable Mountain Resort", Kind: "hotel", EcoRating: 5},
			{Name: "Green Valley Hotel", Kind: "hotel", EcoRating: 3},
			{Name: "Eco-Friendly Beach Resort", Kind: "hotel", EcoRating: 4},
			{Name: "Sustainable Forest Lodge", Kind: "hotel", EcoRating: 5},
			{Name: "Green City Hotel", Kind: "hotel", EcoRating: 3},
			{Name: "Eco-Camping Resort", Kind: "hotel", EcoRating: 4},
			{Name: "Sustainable Chalet", Kind: "chalet", EcoRating: 4},
			{Name: "Green Apartment Hotel", Kind: "apartment", EcoRating: 3},
			{Name: "Eco-Friendly Hostel", Kind: "hostel", EcoRating: 3},
		},
	}
}
