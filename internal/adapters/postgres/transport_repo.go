package postgres

import (
	"context"

	"github.com/anaizpurua/ekobide/internal/core/domain"
)

// TransportModeRepo reads the seeded transport emission factors.
type TransportModeRepo struct {
	db *DB
}

// NewTransportModeRepo creates a new TransportModeRepo.
func NewTransportModeRepo(db *DB) *TransportModeRepo {
	return &TransportModeRepo{db: db}
}

// List returns all transport modes, cleanest first.
func (r *TransportModeRepo) List(ctx context.Context) ([]domain.TransportMode, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, kind, grams_per_km, COALESCE(description, '')
		FROM transport_modes
		ORDER BY grams_per_km ASC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modes []domain.TransportMode
	for rows.Next() {
		var m domain.TransportMode
		if err := rows.Scan(&m.ID, &m.Name, &m.Kind, &m.GramsPerKm, &m.Description); err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, rows.Err()
}
