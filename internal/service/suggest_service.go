package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/planmyoutings/outings/internal/geo"
	"github.com/planmyoutings/outings/internal/metrics"
	"github.com/planmyoutings/outings/internal/models"
)

// ErrNoLocations is returned when none of the member locations resolve, so
// no centroid exists to search around.
var ErrNoLocations = errors.New("none of the locations could be resolved")

// Moods recognized by the pipeline. Anything else falls back to restaurant.
const (
	MoodChill       = "Chill"
	MoodFoodie      = "Foodie"
	MoodAdventurous = "Adventurous"
)

// searchBoxKm is the side of the square region searched around the
// centroid.
const searchBoxKm = 6

// minCandidates is the floor below which the pipeline pads results with
// placeholder candidates near the centroid.
const minCandidates = 3

// SuggestService turns member locations into candidate plans: geocode each
// location, average the coordinates, search venues matching the group's
// mood near the centroid, and publish the results into the plan catalog.
type SuggestService struct {
	geocoder geo.Geocoder
	places   geo.PlacesSearcher
	plans    *PlanService
}

// NewSuggestService creates a SuggestService over the given collaborators
// and plan catalog.
func NewSuggestService(geocoder geo.Geocoder, places geo.PlacesSearcher, plans *PlanService) *SuggestService {
	return &SuggestService{geocoder: geocoder, places: places, plans: plans}
}

// Centroid geocodes each location, discards unresolvable entries, and
// returns the arithmetic mean of the rest. ok is false when nothing
// resolved. The mean is not geodesic-correct, which is acceptable at city
// scale.
func (s *SuggestService) Centroid(ctx context.Context, locations []string) (lat, lon float64, ok bool) {
	var sumLat, sumLon float64
	var resolved int

	for _, name := range locations {
		la, lo, err := s.geocoder.Geocode(ctx, name)
		if err != nil {
			slog.Debug("geocode miss", "location", name, "error", err)
			if !errors.Is(err, geo.ErrNotResolved) {
				metrics.UpstreamErrors.WithLabelValues("geocode").Inc()
			}
			continue
		}
		sumLat += la
		sumLon += lo
		resolved++
	}

	if resolved == 0 {
		return 0, 0, false
	}
	return sumLat / float64(resolved), sumLon / float64(resolved), true
}

// CategoryForMood maps the closed mood enumeration to a search category.
func CategoryForMood(mood string) string {
	switch mood {
	case MoodChill:
		return "cafe"
	case MoodFoodie:
		return "restaurant"
	case MoodAdventurous:
		return "park"
	default:
		return "restaurant"
	}
}

// SuggestPlaces queries the places service for venues matching the mood in
// a bounded region around (lat, lon). Upstream failure yields an empty
// slice, never an error: the caller owns the fallback.
func (s *SuggestService) SuggestPlaces(ctx context.Context, lat, lon float64, mood string, limit int) []models.Place {
	places, err := s.places.Search(ctx, CategoryForMood(mood), lat, lon, searchBoxKm, limit)
	if err != nil {
		slog.Warn("places search failed", "mood", mood, "error", err)
		metrics.UpstreamErrors.WithLabelValues("places").Inc()
		return nil
	}
	return places
}

// Publish runs the full pipeline for a group: centroid, venue search,
// placeholder padding when too few real candidates come back, then a batch
// insert into the plan catalog. Returns the inserted count.
func (s *SuggestService) Publish(ctx context.Context, token string, locations []string, mood string, limit int) (int, error) {
	lat, lon, ok := s.Centroid(ctx, locations)
	if !ok {
		return 0, ErrNoLocations
	}

	if limit <= 0 {
		limit = minCandidates
	}
	candidates := s.SuggestPlaces(ctx, lat, lon, mood, limit)
	if len(candidates) < minCandidates {
		slog.Info("padding suggestions with placeholders",
			"real", len(candidates), "centroid_lat", lat, "centroid_lon", lon)
		metrics.SuggestionFallbacks.Inc()
		candidates = append(candidates, placeholders(lat, lon, minCandidates-len(candidates))...)
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	batch := make([]NewPlan, len(candidates))
	for i, place := range candidates {
		payload, err := json.Marshal(place)
		if err != nil {
			return 0, fmt.Errorf("failed to encode place: %w", err)
		}
		batch[i] = NewPlan{
			Title: fmt.Sprintf("%d. %s", i+1, place.Name),
			Place: payload,
		}
	}

	return s.plans.Add(ctx, token, batch)
}

// placeholders synthesizes candidates near the centroid so a group always
// has something to vote on even when the places service comes back empty.
func placeholders(lat, lon float64, n int) []models.Place {
	offsets := [][2]float64{{0.001, 0.001}, {-0.001, 0.001}, {0.001, -0.001}}
	out := make([]models.Place, 0, n)
	for i := 0; i < n && i < len(offsets); i++ {
		out = append(out, models.Place{
			Name:    fmt.Sprintf("Suggested Spot %c", 'A'+i),
			Address: "Near your group's midpoint",
			Lat:     lat + offsets[i][0],
			Lon:     lon + offsets[i][1],
		})
	}
	return out
}
