package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Origin is the degraded-mode anchor used when a city cannot be geocoded.
// Waypoints for an unresolvable endpoint collapse onto this point.
var Origin = GeoPoint{Lat: 0, Lon: 0}

// IsOrigin reports whether the point is the degraded {0,0} anchor.
func (p GeoPoint) IsOrigin() bool {
	return p.Lat == 0 && p.Lon == 0
}
