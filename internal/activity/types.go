package activity

// POI is the activity-facing projection of a point of interest.
type POI struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description,omitempty"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	Rating            float64  `json:"rating,omitempty"`
	IsActivity        bool     `json:"is_activity"`
	Categories        []string `json:"activity_categories"`
	IntensityLevelID  string   `json:"activity_intensity_level_id,omitempty"`
	Interests         []string `json:"activity_interests"`
	Avoidances        []string `json:"activity_avoidances"`
	DurationMinutes   int      `json:"activity_duration_minutes,omitempty"`
	DifficultyLevelID string   `json:"activity_difficulty_level_id,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	PriceRange        string   `json:"price_range,omitempty"`
}

// Preferences holds a traveler's stated activity preferences.
type Preferences struct {
	Categories []string `json:"categories"`
	Intensity  string   `json:"intensity"`
	Interests  []string `json:"interests"`
	Avoidances []string `json:"avoidances"`
}

// IntensityLevel is a reference-data row ranking how demanding an activity is.
type IntensityLevel struct {
	Code       string `json:"code"`
	LevelValue int    `json:"level_value"`
}

// DifficultyLevel is a reference-data row describing activity difficulty.
type DifficultyLevel struct {
	Code             string `json:"code"`
	LevelValue       int    `json:"level_value"`
	IsChildFriendly  bool   `json:"is_child_friendly"`
	IsSeniorFriendly bool   `json:"is_senior_friendly"`
}

// Breakdown holds the five weighted score components. Each value is already
// multiplied by its weight; the components sum to score/100.
type Breakdown struct {
	CategoryMatch   float64 `json:"categoryMatch"`
	IntensityMatch  float64 `json:"intensityMatch"`
	InterestMatch   float64 `json:"interestMatch"`
	AvoidanceCheck  float64 `json:"avoidanceCheck"`
	DifficultyMatch float64 `json:"difficultyMatch"`
}

// CompatibilityScore is the scorer's result for one POI/preferences pair.
type CompatibilityScore struct {
	POI       POI       `json:"poi"`
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
	Reasons   []string  `json:"reasons"`
}
