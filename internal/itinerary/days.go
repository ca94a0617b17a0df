package itinerary

import (
	"errors"
	"fmt"
)

// ErrLastDay is returned when deleting a day would leave the itinerary empty.
var ErrLastDay = errors.New("itinerary must keep at least one day")

// ErrDayNotFound is returned for a day index outside the itinerary.
var ErrDayNotFound = errors.New("day not found")

// AddDay appends a new empty day numbered after the existing ones.
func AddDay(itin Itinerary, date string) Itinerary {
	out := cloneDays(itin)
	out.Days = append(out.Days, Day{
		DayNumber:  len(itin.Days) + 1,
		Date:       date,
		Activities: []Activity{},
	})
	return out
}

// DeleteDay removes the day at the given index. An itinerary always keeps at
// least one day; deleting below that floor is rejected.
func DeleteDay(itin Itinerary, index int) (Itinerary, error) {
	if index < 0 || index >= len(itin.Days) {
		return itin, fmt.Errorf("deleting day %d: %w", index, ErrDayNotFound)
	}
	if len(itin.Days) <= 1 {
		return itin, ErrLastDay
	}

	out := itin
	out.Days = make([]Day, 0, len(itin.Days)-1)
	out.Days = append(out.Days, itin.Days[:index]...)
	out.Days = append(out.Days, itin.Days[index+1:]...)
	return out, nil
}

// AddActivity appends an activity to the day at the given index.
func AddActivity(itin Itinerary, dayIndex int, act Activity) (Itinerary, error) {
	if dayIndex < 0 || dayIndex >= len(itin.Days) {
		return itin, fmt.Errorf("adding activity to day %d: %w", dayIndex, ErrDayNotFound)
	}

	out := cloneDays(itin)
	out.Days[dayIndex].Activities = append(copyActivities(itin.Days[dayIndex].Activities), act)
	return out, nil
}
