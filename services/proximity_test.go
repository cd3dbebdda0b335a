package services

import (
	"context"
	"testing"
)

func seedLocations(t *testing.T, m *MemoryStores, coords map[uint][2]float64) {
	t.Helper()
	locations := m.Bundle().Locations
	for userID, c := range coords {
		if err := locations.Upsert(context.Background(), userID, c[0], c[1]); err != nil {
			t.Fatalf("seed location for user %d: %v", userID, err)
		}
	}
}

func TestFindWithinRadius(t *testing.T) {
	m := NewMemoryStores()
	seedLocations(t, m, map[uint][2]float64{
		1: {52.5200, 13.4050}, // origin user
		2: {52.5300, 13.4100}, // ~1.2km away
		3: {52.6000, 13.9000}, // tens of km away
		4: {52.5210, 13.4060}, // ~130m away
	})

	resolver := NewProximityResolver(m.Bundle().Locations)
	candidates, err := resolver.FindWithinRadius(context.Background(), 52.5200, 13.4050, 3000, 1)
	if err != nil {
		t.Fatalf("FindWithinRadius: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2: %+v", len(candidates), candidates)
	}

	// Nearest first.
	if candidates[0].UserID != 4 || candidates[1].UserID != 2 {
		t.Errorf("wrong order: %+v", candidates)
	}
	for _, cand := range candidates {
		if cand.UserID == 1 {
			t.Error("origin user must be excluded")
		}
		if cand.Distance > 3000 {
			t.Errorf("candidate %d outside radius: %.1f", cand.UserID, cand.Distance)
		}
	}
}

func TestFindWithinRadiusBoundaryInclusive(t *testing.T) {
	m := NewMemoryStores()
	seedLocations(t, m, map[uint][2]float64{
		1: {52.5200, 13.4050},
		2: {52.5300, 13.4100},
	})

	resolver := NewProximityResolver(m.Bundle().Locations)
	d := Haversine(52.5200, 13.4050, 52.5300, 13.4100)

	// A radius of exactly the distance must still include the user.
	candidates, err := resolver.FindWithinRadius(context.Background(), 52.5200, 13.4050, d, 1)
	if err != nil {
		t.Fatalf("FindWithinRadius: %v", err)
	}
	if len(candidates) != 1 || candidates[0].UserID != 2 {
		t.Errorf("boundary user missing: %+v", candidates)
	}
}

func TestFindWithinRadiusTieBreakByUserID(t *testing.T) {
	m := NewMemoryStores()
	// Three users at the identical coordinate, seeded out of order.
	seedLocations(t, m, map[uint][2]float64{
		9: {52.5300, 13.4100},
		2: {52.5300, 13.4100},
		5: {52.5300, 13.4100},
	})

	resolver := NewProximityResolver(m.Bundle().Locations)
	candidates, err := resolver.FindWithinRadius(context.Background(), 52.5200, 13.4050, 3000, 0)
	if err != nil {
		t.Fatalf("FindWithinRadius: %v", err)
	}

	want := []uint{2, 5, 9}
	if len(candidates) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(candidates), len(want))
	}
	for i, id := range want {
		if candidates[i].UserID != id {
			t.Errorf("candidates[%d].UserID = %d, want %d", i, candidates[i].UserID, id)
		}
	}
}

func TestFindWithinRadiusEmptyStore(t *testing.T) {
	m := NewMemoryStores()
	resolver := NewProximityResolver(m.Bundle().Locations)

	candidates, err := resolver.FindWithinRadius(context.Background(), 52.5200, 13.4050, 3000, 1)
	if err != nil {
		t.Fatalf("FindWithinRadius: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("got %d candidates from empty store", len(candidates))
	}
}
