package usecases_test

import (
	"testing"

	"github.com/anaizpurua/ekobide/internal/core/domain"
	"github.com/anaizpurua/ekobide/internal/core/usecases"
)

func TestClassify_Categories(t *testing.T) {
	tests := []struct {
		name     string
		tags     map[string]string
		category domain.POICategory
		kind     string
	}{
		{"nature reserve", map[string]string{"name": "Urdaibai", "leisure": "nature_reserve"}, domain.CategoryActivity, "nature_reserve"},
		{"attraction", map[string]string{"name": "Guggenheim", "tourism": "attraction"}, domain.CategoryActivity, "attraction"},
		{"peak", map[string]string{"name": "Anboto", "natural": "peak"}, domain.CategoryActivity, "peak"},
		{"castle", map[string]string{"name": "Butron", "historic": "castle"}, domain.CategoryActivity, "castle"},
		{"restaurant", map[string]string{"name": "Azurmendi", "amenity": "restaurant"}, domain.CategoryLunch, "restaurant"},
		{"cafe", map[string]string{"name": "Cafe Iruna", "amenity": "cafe"}, domain.CategoryLunch, "cafe"},
		{"hotel", map[string]string{"name": "Hotel Carlton", "tourism": "hotel"}, domain.CategoryLodging, "hotel"},
		{"hostel", map[string]string{"name": "Ganbara", "tourism": "hostel"}, domain.CategoryLodging, "hostel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poi, ok := usecases.Classify(domain.RawPOI{Tags: tt.tags})
			if !ok {
				t.Fatal("expected element to classify")
			}
			if poi.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, poi.Category)
			}
			if poi.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, poi.Kind)
			}
			if poi.Synthetic {
				t.Error("classified element must not be synthetic")
			}
		})
	}
}

func TestClassify_LodgingWinsOverLunch(t *testing.T) {
	// A hotel with an in-house restaurant stays a lodging.
	poi, ok := usecases.Classify(domain.RawPOI{
		Tags: map[string]string{"name": "Gran Hotel", "tourism": "hotel", "amenity": "restaurant"},
	})
	if !ok {
		t.Fatal("expected element to classify")
	}
	if poi.Category != domain.CategoryLodging {
		t.Errorf("expected lodging, got %s", poi.Category)
	}
}

func TestClassify_ActivityWinsOverLunch(t *testing.T) {
	poi, ok := usecases.Classify(domain.RawPOI{
		Tags: map[string]string{"name": "Castle Tavern", "historic": "castle", "amenity": "pub"},
	})
	if !ok {
		t.Fatal("expected element to classify")
	}
	if poi.Category != domain.CategoryActivity {
		t.Errorf("expected activity, got %s", poi.Category)
	}
}

func TestClassify_Drops(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
	}{
		{"unnamed", map[string]string{"tourism": "hotel"}},
		{"unmatched tags", map[string]string{"name": "Something", "shop": "bakery"}},
		{"no tags", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := usecases.Classify(domain.RawPOI{Tags: tt.tags}); ok {
				t.Error("expected element to be dropped")
			}
		})
	}
}

func TestClassify_EcoRating(t *testing.T) {
	tests := []struct {
		name   string
		rating string
		want   int
	}{
		{"valid", "5", 5},
		{"lowest", "1", 1},
		{"missing", "", 3},
		{"unparsable", "five", 3},
		{"below range", "0", 3},
		{"above range", "9", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := map[string]string{"name": "Lodge", "tourism": "hotel"}
			if tt.rating != "" {
				tags["eco_rating"] = tt.rating
			}
			poi, ok := usecases.Classify(domain.RawPOI{Tags: tags})
			if !ok {
				t.Fatal("expected element to classify")
			}
			if poi.EcoRating != tt.want {
				t.Errorf("expected eco rating %d, got %d", tt.want, poi.EcoRating)
			}
		})
	}
}

func TestClassify_ActivityHasNoEcoRating(t *testing.T) {
	poi, ok := usecases.Classify(domain.RawPOI{
		Tags: map[string]string{"name": "Anboto", "natural": "peak", "eco_rating": "5"},
	})
	if !ok {
		t.Fatal("expected element to classify")
	}
	if poi.EcoRating != 0 {
		t.Errorf("expected zero eco rating for activity, got %d", poi.EcoRating)
	}
}
