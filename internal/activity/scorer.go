package activity

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
)

// levelSource is the subset of ReferenceClient the scorer needs.
type levelSource interface {
	IntensityLevels(ctx context.Context) ([]IntensityLevel, error)
}

// Scorer computes compatibility scores between activity POIs and traveler
// preferences. It never returns an error: every missing-data condition
// degrades to a documented neutral or zero component.
type Scorer struct {
	weights Weights
	levels  levelSource
}

// NewScorer constructs a Scorer with the given weights and reference-data
// source.
func NewScorer(w Weights, levels levelSource) *Scorer {
	return &Scorer{weights: w, levels: levels}
}

// Score computes the weighted 0-100 compatibility score for one POI against
// one preference set, with a per-component breakdown and reasons for every
// component that contributed positively.
func (s *Scorer) Score(ctx context.Context, poi POI, prefs Preferences) CompatibilityScore {
	var breakdown Breakdown
	var reasons []string

	categoryScore := matchCategories(poi.Categories, prefs.Categories)
	breakdown.CategoryMatch = categoryScore * s.weights.Category
	if categoryScore > 0 {
		reasons = append(reasons, "Matching categories: "+strings.Join(intersect(poi.Categories, prefs.Categories), ", "))
	}

	intensityScore := s.matchIntensity(ctx, poi, prefs.Intensity)
	breakdown.IntensityMatch = intensityScore * s.weights.Intensity
	if intensityScore > 0 {
		reasons = append(reasons, "Compatible intensity level: "+prefs.Intensity)
	}

	interestScore := matchInterests(poi.Interests, prefs.Interests)
	breakdown.InterestMatch = interestScore * s.weights.Interest
	if interestScore > 0 {
		reasons = append(reasons, "Shared interests: "+strings.Join(intersect(poi.Interests, prefs.Interests), ", "))
	}

	avoidanceScore := checkAvoidances(poi.Avoidances, prefs.Avoidances)
	breakdown.AvoidanceCheck = avoidanceScore * s.weights.Avoidance
	if avoidanceScore == 1 {
		reasons = append(reasons, "No conflicting avoidances detected")
	}

	difficultyScore := matchDifficulty(poi)
	breakdown.DifficultyMatch = difficultyScore * s.weights.Difficulty
	if difficultyScore > 0 {
		reasons = append(reasons, "Suitable difficulty level")
	}

	total := breakdown.CategoryMatch + breakdown.IntensityMatch +
		breakdown.InterestMatch + breakdown.AvoidanceCheck + breakdown.DifficultyMatch

	return CompatibilityScore{
		POI:       poi,
		Score:     int(math.Round(total * 100)),
		Breakdown: breakdown,
		Reasons:   reasons,
	}
}

// Rank filters out non-activity POIs, scores the rest, discards zero scores,
// and sorts descending by score. Ties keep input order.
func (s *Scorer) Rank(ctx context.Context, pois []POI, prefs Preferences) []CompatibilityScore {
	scored := make([]CompatibilityScore, 0, len(pois))
	for _, poi := range pois {
		if !poi.IsActivity {
			continue
		}
		cs := s.Score(ctx, poi, prefs)
		if cs.Score > 0 {
			scored = append(scored, cs)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	return scored
}

// matchCategories returns the fraction of the user's requested categories
// present on the POI. Zero when either side lists none.
func matchCategories(poiCategories, userCategories []string) float64 {
	if len(userCategories) == 0 || len(poiCategories) == 0 {
		return 0
	}
	return float64(len(intersect(poiCategories, userCategories))) / float64(len(userCategories))
}

// matchIntensity scores closeness of the POI's intensity level to the user's.
// Neutral 0.5 whenever either side is unset or reference data is unavailable.
func (s *Scorer) matchIntensity(ctx context.Context, poi POI, userIntensity string) float64 {
	if poi.IntensityLevelID == "" || userIntensity == "" {
		return 0.5
	}

	levels, err := s.levels.IntensityLevels(ctx)
	if err != nil {
		slog.Warn("intensity levels unavailable, scoring neutral", "err", err)
		return 0.5
	}
	if len(levels) == 0 {
		return 0.5
	}

	poiLevel := findLevel(levels, poi.IntensityLevelID)
	userLevel := findLevel(levels, userIntensity)
	if poiLevel == nil || userLevel == nil {
		return 0.5
	}

	minVal, maxVal := levels[0].LevelValue, levels[0].LevelValue
	for _, l := range levels {
		if l.LevelValue < minVal {
			minVal = l.LevelValue
		}
		if l.LevelValue > maxVal {
			maxVal = l.LevelValue
		}
	}
	if maxVal == minVal {
		return 1
	}

	diff := math.Abs(float64(poiLevel.LevelValue - userLevel.LevelValue))
	return math.Max(0, 1-diff/float64(maxVal-minVal))
}

// matchInterests scores overlap between POI and user interests. A user with
// no interest preferences is unconstrained (1); a POI with none listed is
// neutral (0.5).
func matchInterests(poiInterests, userInterests []string) float64 {
	if len(userInterests) == 0 {
		return 1
	}
	if len(poiInterests) == 0 {
		return 0.5
	}

	matches := len(intersect(poiInterests, userInterests))
	smaller := len(poiInterests)
	if len(userInterests) < smaller {
		smaller = len(userInterests)
	}
	return math.Min(1, float64(matches)/float64(smaller))
}

// checkAvoidances is all-or-nothing: 1 when the POI's avoidance tags and the
// user's share no member (or either list is empty), 0 on any conflict.
func checkAvoidances(poiAvoidances, userAvoidances []string) float64 {
	if len(userAvoidances) == 0 || len(poiAvoidances) == 0 {
		return 1
	}
	if len(intersect(poiAvoidances, userAvoidances)) == 0 {
		return 1
	}
	return 0
}

// matchDifficulty is a pass-through: all difficulties are currently accepted.
func matchDifficulty(_ POI) float64 {
	return 1
}

// findLevel returns the level with the given code, or nil.
func findLevel(levels []IntensityLevel, code string) *IntensityLevel {
	for i := range levels {
		if levels[i].Code == code {
			return &levels[i]
		}
	}
	return nil
}

// intersect returns the members of a that also appear in b, in a's order.
func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}

	var out []string
	for _, s := range a {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
