package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/anaizpurua/ekobide/internal/core/domain"
	"github.com/anaizpurua/ekobide/internal/core/usecases"
)

type mockTransportRepo struct {
	listFn func(ctx context.Context) ([]domain.TransportMode, error)
}

func (m *mockTransportRepo) List(ctx context.Context) ([]domain.TransportMode, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func seedModes() []domain.TransportMode {
	return []domain.TransportMode{
		{ID: "bicycle", Name: "Bicycle", GramsPerKm: 0},
		{ID: "train", Name: "Train", GramsPerKm: 14},
		{ID: "car-ev", Name: "Electric car", GramsPerKm: 53},
		{ID: "bus", Name: "Coach", GramsPerKm: 68},
		{ID: "car-petrol", Name: "Petrol car", GramsPerKm: 192},
		{ID: "plane", Name: "Short-haul flight", GramsPerKm: 255},
	}
}

func TestCarbonService_Compare(t *testing.T) {
	repo := &mockTransportRepo{
		listFn: func(ctx context.Context) ([]domain.TransportMode, error) {
			return seedModes(), nil
		},
	}
	svc := usecases.NewCarbonService(repo, nil)

	estimates, err := svc.Compare(context.Background(), 100, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(estimates) != 6 {
		t.Fatalf("expected 6 estimates, got %d", len(estimates))
	}

	// Sorted by total emissions, cleanest first.
	if estimates[0].Mode.ID != "bicycle" {
		t.Errorf("expected bicycle first, got %s", estimates[0].Mode.ID)
	}
	if estimates[5].Mode.ID != "plane" {
		t.Errorf("expected plane last, got %s", estimates[5].Mode.ID)
	}

	// Train over 100 km: 1400 g per passenger.
	for _, e := range estimates {
		if e.Mode.ID == "train" {
			if e.GramsPerPassenger != 1400 {
				t.Errorf("expected 1400 g for train, got %f", e.GramsPerPassenger)
			}
			if e.SavingsVsWorstOption != 25500-1400 {
				t.Errorf("expected savings vs plane of 24100 g, got %f", e.SavingsVsWorstOption)
			}
		}
	}

	// The worst option saves nothing against itself.
	if estimates[5].SavingsVsWorstOption != 0 {
		t.Errorf("expected zero savings for the worst mode, got %f", estimates[5].SavingsVsWorstOption)
	}
}

func TestCarbonService_Compare_PassengersScaleTotals(t *testing.T) {
	repo := &mockTransportRepo{
		listFn: func(ctx context.Context) ([]domain.TransportMode, error) {
			return []domain.TransportMode{{ID: "train", Name: "Train", GramsPerKm: 14}}, nil
		},
	}
	svc := usecases.NewCarbonService(repo, nil)

	estimates, err := svc.Compare(context.Background(), 50, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if estimates[0].GramsPerPassenger != 700 {
		t.Errorf("expected 700 g per passenger, got %f", estimates[0].GramsPerPassenger)
	}
	if estimates[0].TotalGrams != 2800 {
		t.Errorf("expected 2800 g total, got %f", estimates[0].TotalGrams)
	}
}

func TestCarbonService_Compare_DefaultsPassengersToOne(t *testing.T) {
	repo := &mockTransportRepo{
		listFn: func(ctx context.Context) ([]domain.TransportMode, error) {
			return []domain.TransportMode{{ID: "train", GramsPerKm: 14}}, nil
		},
	}
	svc := usecases.NewCarbonService(repo, nil)

	estimates, err := svc.Compare(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if estimates[0].Passengers != 1 {
		t.Errorf("expected passengers defaulted to 1, got %d", estimates[0].Passengers)
	}
}

func TestCarbonService_Compare_NegativeDistance(t *testing.T) {
	svc := usecases.NewCarbonService(&mockTransportRepo{}, nil)
	_, err := svc.Compare(context.Background(), -1, 1)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCarbonService_Compare_RepoError(t *testing.T) {
	repo := &mockTransportRepo{
		listFn: func(ctx context.Context) ([]domain.TransportMode, error) {
			return nil, errors.New("db down")
		},
	}
	svc := usecases.NewCarbonService(repo, nil)
	if _, err := svc.Compare(context.Background(), 10, 1); err == nil {
		t.Error("expected error from repository")
	}
}
