package config

import (
	"os"
	"strconv"
)

// BroadcastConfig carries the fan-out policy knobs. Defaults match the
// product policy: 3 km radius, at most 5 recipients per broadcast.
type BroadcastConfig struct {
	RadiusMeters    float64
	MaxRecipients   int
	SubmitPerMinute int // per-user rate limit on photo submission
	SubmitBurst     int
}

func GetBroadcastConfig() *BroadcastConfig {
	return &BroadcastConfig{
		RadiusMeters:    envFloat("BROADCAST_RADIUS_METERS", 3000),
		MaxRecipients:   envInt("BROADCAST_MAX_RECIPIENTS", 5),
		SubmitPerMinute: envInt("BROADCAST_SUBMIT_PER_MINUTE", 10),
		SubmitBurst:     envInt("BROADCAST_SUBMIT_BURST", 3),
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
