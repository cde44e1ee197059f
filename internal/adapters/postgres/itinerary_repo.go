package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// ItineraryRepo implements ports.ItineraryRepository with pgx. Endpoints and
// day plans are stored as JSONB: an itinerary is written once and read whole,
// never queried by inner fields.
type ItineraryRepo struct {
	db *DB
}

// NewItineraryRepo creates a new ItineraryRepo.
func NewItineraryRepo(db *DB) *ItineraryRepo {
	return &ItineraryRepo{db: db}
}

// Save stores a finished itinerary and returns its assigned ID.
func (r *ItineraryRepo) Save(ctx context.Context, it *domain.Itinerary) (string, error) {
	source, err := json.Marshal(it.Source)
	if err != nil {
		return "", fmt.Errorf("marshal source: %w", err)
	}
	destination, err := json.Marshal(it.Destination)
	if err != nil {
		return "", fmt.Errorf("marshal destination: %w", err)
	}
	days, err := json.Marshal(it.Days)
	if err != nil {
		return "", fmt.Errorf("marshal days: %w", err)
	}

	var id string
	err = r.db.Pool.QueryRow(ctx, `
		INSERT INTO itineraries (source, destination, total_distance_km, days)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, source, destination, it.TotalDistanceKm, days).Scan(&id, &it.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert itinerary: %w", err)
	}

	it.ID = id
	return id, nil
}

// List returns stored itineraries newest first, plus the total row count.
func (r *ItineraryRepo) List(ctx context.Context, offset, limit int) ([]domain.Itinerary, int, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, source, destination, total_distance_km, days, created_at,
		       count(*) OVER () AS total
		FROM itineraries
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		itineraries []domain.Itinerary
		total       int
	)
	for rows.Next() {
		it, n, err := scanItinerary(rows)
		if err != nil {
			return nil, 0, err
		}
		total = n
		itineraries = append(itineraries, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if total == 0 && len(itineraries) == 0 {
		// Window count is absent when the page is empty; fall back to a plain count.
		if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM itineraries`).Scan(&total); err != nil {
			return nil, 0, err
		}
	}

	return itineraries, total, nil
}

// GetByID returns a single itinerary.
func (r *ItineraryRepo) GetByID(ctx context.Context, id string) (*domain.Itinerary, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT id, source, destination, total_distance_km, days, created_at, 0
		FROM itineraries WHERE id = $1
	`, id)

	it, _, err := scanItinerary(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes a stored itinerary. Used by the planning workflow's
// compensation step.
func (r *ItineraryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM itineraries WHERE id = $1`, id)
	return err
}

func scanItinerary(row pgx.Row) (*domain.Itinerary, int, error) {
	var (
		it          domain.Itinerary
		source      []byte
		destination []byte
		days        []byte
		total       int
	)
	if err := row.Scan(&it.ID, &source, &destination, &it.TotalDistanceKm, &days, &it.CreatedAt, &total); err != nil {
		return nil, 0, err
	}
	if err := json.Unmarshal(source, &it.Source); err != nil {
		return nil, 0, fmt.Errorf("unmarshal source: %w", err)
	}
	if err := json.Unmarshal(destination, &it.Destination); err != nil {
		return nil, 0, fmt.Errorf("unmarshal destination: %w", err)
	}
	if err := json.Unmarshal(days, &it.Days); err != nil {
		return nil, 0, fmt.Errorf("unmarshal days: %w", err)
	}
	return &it, total, nil
}
