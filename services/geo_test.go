package services

import "testing"

func TestHaversine(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		minMeters, maxMeters   float64
	}{
		{
			name: "zero distance",
			lat1: 52.5200, lon1: 13.4050, lat2: 52.5200, lon2: 13.4050,
			minMeters: 0, maxMeters: 0.001,
		},
		{
			name: "central Berlin, about 1.2km",
			lat1: 52.5200, lon1: 13.4050, lat2: 52.5300, lon2: 13.4100,
			minMeters: 1000, maxMeters: 1300,
		},
		{
			name: "Berlin to outskirts, tens of km",
			lat1: 52.5200, lon1: 13.4050, lat2: 52.6000, lon2: 13.9000,
			minMeters: 30000, maxMeters: 40000,
		},
		{
			name: "across the equator",
			lat1: -0.01, lon1: 0, lat2: 0.01, lon2: 0,
			minMeters: 2100, maxMeters: 2300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if d < tt.minMeters || d > tt.maxMeters {
				t.Errorf("Haversine() = %.1f m, want between %.1f and %.1f", d, tt.minMeters, tt.maxMeters)
			}
		})
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := Haversine(52.5200, 13.4050, 52.5300, 13.4100)
	b := Haversine(52.5300, 13.4100, 52.5200, 13.4050)
	if a != b {
		t.Errorf("distance not symmetric: %.6f vs %.6f", a, b)
	}
}

func TestValidCoordinate(t *testing.T) {
	valid := [][2]float64{{0, 0}, {90, 180}, {-90, -180}, {52.52, 13.405}}
	for _, c := range valid {
		if !validCoordinate(c[0], c[1]) {
			t.Errorf("validCoordinate(%v, %v) = false, want true", c[0], c[1])
		}
	}

	invalid := [][2]float64{{91, 0}, {-91, 0}, {0, 181}, {0, -181}}
	for _, c := range invalid {
		if validCoordinate(c[0], c[1]) {
			t.Errorf("validCoordinate(%v, %v) = true, want false", c[0], c[1])
		}
	}
}
