package itinerary

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Location is an activity's place. Older itineraries store it as a bare
// string; newer ones as an object with a name and address.
type Location struct {
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// UnmarshalJSON accepts either a plain string or a full location object.
func (l *Location) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*l = Location{Name: name}
		return nil
	}

	type plain Location
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = Location(p)
	return nil
}

// MarshalJSON emits a bare string when only the name is set, preserving the
// original storage shape.
func (l Location) MarshalJSON() ([]byte, error) {
	if l.Address == "" && l.Latitude == 0 && l.Longitude == 0 {
		return json.Marshal(l.Name)
	}
	type plain Location
	return json.Marshal(plain(l))
}

// Activity is one scheduled item within a day.
type Activity struct {
	ID          string   `json:"id,omitempty"`
	Time        string   `json:"time"`
	EndTime     string   `json:"endTime,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Location    Location `json:"location,omitempty"`
	Type        string   `json:"type,omitempty"`
	Cost        float64  `json:"cost"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Tips        string   `json:"tips,omitempty"`
}

// Key returns the activity's drag identity: the generated ID when present,
// otherwise the legacy title+time concatenation.
func (a Activity) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return a.Title + a.Time
}

// Day is one day of an itinerary with its ordered activities.
type Day struct {
	DayNumber       int        `json:"dayNumber"`
	Date            string     `json:"date,omitempty"`
	Destination     string     `json:"destination,omitempty"`
	Theme           string     `json:"theme,omitempty"`
	Activities      []Activity `json:"activities"`
	Transportation  string     `json:"transportation,omitempty"`
	TotalCost       float64    `json:"totalCost,omitempty"`
	WalkingDistance float64    `json:"walkingDistance,omitempty"`
}

// Itinerary is the nested day-by-day trip plan.
type Itinerary struct {
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Days        []Day   `json:"days"`
	TotalCost   float64 `json:"totalCost,omitempty"`
}

// Saved is a persisted itinerary record.
type Saved struct {
	ID        string
	Title     string
	Data      Itinerary
	CreatedAt time.Time
	UpdatedAt time.Time
}

const dayKeyPrefix = "day-"

// DayKey returns the drop-container key for the day at the given index.
func DayKey(index int) string {
	return dayKeyPrefix + strconv.Itoa(index)
}

// parseDayKey reports whether key addresses a day container and, if so,
// which index.
func parseDayKey(key string) (int, bool) {
	if !strings.HasPrefix(key, dayKeyPrefix) {
		return 0, false
	}
	idx, err := strconv.Atoi(strings.TrimPrefix(key, dayKeyPrefix))
	if err != nil {
		return 0, false
	}
	return idx, true
}
