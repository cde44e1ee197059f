package usecases

import (
	"fmt"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// DedupState tracks which POI names have been used per category within a
// single itinerary. A fresh state is created per generation run, so identical
// requests always produce identical picks.
type DedupState struct {
	used map[domain.POICategory]map[string]struct{}
}

func NewDedupState() *DedupState {
	used := make(map[domain.POICategory]map[string]struct{}, len(domain.Categories))
	for _, c := range domain.Categories {
		used[c] = make(map[string]struct{})
	}
	return &DedupState{used: used}
}

func (s *DedupState) Seen(category domain.POICategory, name string) bool {
	_, ok := s.used[category][name]
	return ok
}

func (s *DedupState) Mark(category domain.POICategory, name string) {
	s.used[category][name] = struct{}{}
}

// Composer assembles day plans from classified candidates, falling back to
// the synthetic catalog when a category has no unused candidate.
type Composer struct {
	catalog FallbackCatalog
}

func NewComposer(catalog FallbackCatalog) (*Composer, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &Composer{catalog: catalog}, nil
}

// SelectDay picks one activity, one lunch spot, and one lodging for the given
// day, never reusing a name already marked in dedup. Candidates keep their
// fetch order except for lodging, where the highest eco rating wins and ties
// keep fetch order.
func (c *Composer) SelectDay(day int, waypoint domain.GeoPoint, candidates []domain.PointOfInterest, dedup *DedupState) domain.DayPlan {
	return domain.DayPlan{
		Day:      day,
		Waypoint: waypoint,
		Activity: c.pick(day, waypoint, domain.CategoryActivity, candidates, dedup),
		Lunch:    c.pick(day, waypoint, domain.CategoryLunch, candidates, dedup),
		Lodging:  c.pick(day, waypoint, domain.CategoryLodging, candidates, dedup),
	}
}

func (c *Composer) pick(day int, waypoint domain.GeoPoint, category domain.POICategory, candidates []domain.PointOfInterest, dedup *DedupState) domain.PointOfInterest {
	if poi, ok := bestCandidate(category, candidates, dedup); ok {
		dedup.Mark(category, poi.Name)
		return poi
	}
	return c.synthesize(day, waypoint, category, dedup)
}

func bestCandidate(category domain.POICategory, candidates []domain.PointOfInterest, dedup *DedupState) (domain.PointOfInterest, bool) {
	var best domain.PointOfInterest
	found := false
	for _, poi := range candidates {
		if poi.Category != category || dedup.Seen(category, poi.Name) {
			continue
		}
		if category != domain.CategoryLodging {
			return poi, true
		}
		if !found || poi.EcoRating > best.EcoRating {
			best = poi
			found = true
		}
	}
	return best, found
}

func (c *Composer) synthesize(day int, waypoint domain.GeoPoint, category domain.POICategory, dedup *DedupState) domain.PointOfInterest {
	table := c.catalog.table(category)
	entry := table[(day-1)%len(table)]
	name := entry.Name
	if dedup.Seen(category, name) {
		name = fmt.Sprintf("%s (Day %d)", name, day)
	}
	dedup.Mark(category, name)

	poi := domain.PointOfInterest{
		Name:      name,
		Category:  category,
		Kind:      entry.Kind,
		Location:  waypoint,
		Synthetic: true,
	}
	if category == domain.CategoryLodging {
		poi.EcoRating = entry.EcoRating
	}
	return poi
}
