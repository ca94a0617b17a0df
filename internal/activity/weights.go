package activity

import (
	"encoding/json"
	"fmt"
	"os"
)

// Weights defines the share of the total score each component carries.
// The five weights are expected to sum to 1.0.
type Weights struct {
	Category   float64 `json:"category"`
	Intensity  float64 `json:"intensity"`
	Interest   float64 `json:"interest"`
	Avoidance  float64 `json:"avoidance"`
	Difficulty float64 `json:"difficulty"`
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Category:   0.4,
		Intensity:  0.25,
		Interest:   0.2,
		Avoidance:  0.1,
		Difficulty: 0.05,
	}
}

// LoadWeightsFromFile loads weights from a JSON file, returning defaults
// alongside the error when the file cannot be read or parsed.
func LoadWeightsFromFile(path string) (Weights, error) {
	w := DefaultWeights()
	b, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("reading weights file: %w", err)
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return DefaultWeights(), fmt.Errorf("unmarshaling weights: %w", err)
	}
	return w, nil
}
