package domain

import "errors"

// Failure classes for the generation pipeline. Only ErrInvalidInput aborts a
// request; the external-service errors are absorbed by the pipeline, which
// degrades to default coordinates or synthetic content.
var (
	// ErrInvalidInput marks malformed request parameters (empty city names,
	// non-positive or out-of-range day counts). Raised before any external call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGeocodeNoResult means the geocoding service answered with zero matches.
	ErrGeocodeNoResult = errors.New("geocoding returned no results")

	// ErrGeocodingUnavailable means the geocoding call failed or timed out.
	ErrGeocodingUnavailable = errors.New("geocoding service unavailable")

	// ErrPOIServiceUnavailable means the POI query failed or returned garbage.
	ErrPOIServiceUnavailable = errors.New("poi service unavailable")

	// ErrNotFound marks a missing stored record.
	ErrNotFound = errors.New("not found")
)
