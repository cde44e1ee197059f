package domain

// TransportMode is a transport option with its average emission factor in
// grams of CO2 per passenger-kilometre.
type TransportMode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Kind        string  `json:"kind"` // rail, bus, car, air, bike
	GramsPerKm  float64 `json:"grams_per_km"`
	Description string  `json:"description,omitempty"`
}

// CarbonEstimate is the footprint of one transport mode over a distance.
type CarbonEstimate struct {
	Mode                 TransportMode `json:"mode"`
	DistanceKm           float64       `json:"distance_km"`
	Passengers           int           `json:"passengers"`
	GramsPerPassenger    float64       `json:"grams_per_passenger"`
	TotalGrams           float64       `json:"total_grams"`
	SavingsVsWorstOption float64       `json:"savings_vs_worst_option"`
}
