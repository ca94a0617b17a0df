package api

import (
	"context"

	"github.com/tasarini/trip-planner/internal/activity"
	"github.com/tasarini/trip-planner/internal/itinerary"
)

// PlannerRepo defines the storage operations needed by handlers.
type PlannerRepo interface {
	GetItinerary(ctx context.Context, id string) (*itinerary.Saved, error)
	CreateItinerary(ctx context.Context, s *itinerary.Saved) error
	UpdateItinerary(ctx context.Context, id, title string, data itinerary.Itinerary) (*itinerary.Saved, error)
	DeleteItinerary(ctx context.Context, id string) (bool, error)
	GetActivityPOIsInRadius(ctx context.Context, lat, lon, radiusKm float64) ([]activity.POI, error)
}

// ItineraryCache defines the cache operations needed by handlers.
type ItineraryCache interface {
	Get(ctx context.Context, id string) (*itinerary.Saved, error)
	Set(ctx context.Context, s *itinerary.Saved) error
	Delete(ctx context.Context, id string) error
}

// ActivityScorer defines the compatibility scoring needed by handlers.
type ActivityScorer interface {
	Score(ctx context.Context, poi activity.POI, prefs activity.Preferences) activity.CompatibilityScore
	Rank(ctx context.Context, pois []activity.POI, prefs activity.Preferences) []activity.CompatibilityScore
}
