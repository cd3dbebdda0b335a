package services

import (
	"context"
	"sort"
)

// Candidate is a user whose stored location satisfies the radius
// predicate relative to an origin, before selection bounding.
type Candidate struct {
	UserID   uint    `json:"user_id"`
	Distance float64 `json:"distance"` // meters
}

// ProximityResolver scans every stored location and keeps those within
// the radius. Full-table scan distance math is fine at current scale;
// swapping in a spatial index only touches the LocationStore behind it.
type ProximityResolver struct {
	Locations LocationStore
}

func NewProximityResolver(locations LocationStore) *ProximityResolver {
	return &ProximityResolver{Locations: locations}
}

// FindWithinRadius returns every user except excludeUserID whose stored
// location is at most radiusMeters from the origin (boundary inclusive),
// each exactly once, sorted nearest first with ascending user id as the
// tie-break so downstream selection is deterministic.
func (r *ProximityResolver) FindWithinRadius(ctx context.Context, originLat, originLon, radiusMeters float64, excludeUserID uint) ([]Candidate, error) {
	locs, err := r.Locations.All(ctx, excludeUserID)
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, loc := range locs {
		d := Haversine(originLat, originLon, loc.Latitude, loc.Longitude)
		if d <= radiusMeters {
			candidates = append(candidates, Candidate{UserID: loc.UserID, Distance: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance == candidates[j].Distance {
			return candidates[i].UserID < candidates[j].UserID
		}
		return candidates[i].Distance < candidates[j].Distance
	})
	return candidates, nil
}
