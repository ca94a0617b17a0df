package itinerary

// Outcome tags what a reorder call did, so callers can tell an intentional
// no-op apart from a failed lookup.
type Outcome int

const (
	// Moved means the activity was relocated and the itinerary changed.
	Moved Outcome = iota
	// NoOpUnchanged means the drop resolved to the activity's current
	// position (or its own key) and nothing needed to change.
	NoOpUnchanged
	// NoOpNotFound means the source or target key matched nothing.
	NoOpNotFound
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case NoOpUnchanged:
		return "unchanged"
	case NoOpNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// MoveResult is the outcome of a Reorder call. Itinerary always holds a
// usable value: the reordered plan on Moved, the input otherwise.
type MoveResult struct {
	Itinerary Itinerary
	Outcome   Outcome
	CrossDay  bool
}

// Reorder computes the itinerary resulting from a drag-and-drop move.
// sourceKey must address an activity; targetKey addresses either an
// activity or a day container ("day-<index>", which appends to that day).
// Only the affected days' activity lists are replaced; every other day is
// carried over untouched.
func Reorder(itin Itinerary, sourceKey, targetKey string) MoveResult {
	if sourceKey == targetKey {
		return MoveResult{Itinerary: itin, Outcome: NoOpUnchanged}
	}

	srcDay, srcIdx, ok := locate(itin, sourceKey)
	if !ok {
		return MoveResult{Itinerary: itin, Outcome: NoOpNotFound}
	}

	if dayIdx, isDay := parseDayKey(targetKey); isDay {
		if dayIdx < 0 || dayIdx >= len(itin.Days) {
			return MoveResult{Itinerary: itin, Outcome: NoOpNotFound}
		}
		if dayIdx == srcDay {
			return MoveResult{Itinerary: itin, Outcome: NoOpUnchanged}
		}

		moved := itin.Days[srcDay].Activities[srcIdx]
		out := cloneDays(itin)
		out.Days[srcDay].Activities = removeAt(itin.Days[srcDay].Activities, srcIdx)
		out.Days[dayIdx].Activities = append(copyActivities(itin.Days[dayIdx].Activities), moved)
		return MoveResult{Itinerary: out, Outcome: Moved, CrossDay: true}
	}

	tgtDay, tgtIdx, ok := locate(itin, targetKey)
	if !ok {
		return MoveResult{Itinerary: itin, Outcome: NoOpNotFound}
	}

	out := cloneDays(itin)
	if srcDay == tgtDay {
		out.Days[srcDay].Activities = arrayMove(itin.Days[srcDay].Activities, srcIdx, tgtIdx)
		return MoveResult{Itinerary: out, Outcome: Moved}
	}

	moved := itin.Days[srcDay].Activities[srcIdx]
	out.Days[srcDay].Activities = removeAt(itin.Days[srcDay].Activities, srcIdx)
	out.Days[tgtDay].Activities = insertAt(itin.Days[tgtDay].Activities, tgtIdx, moved)
	return MoveResult{Itinerary: out, Outcome: Moved, CrossDay: true}
}

// locate finds the day index and in-day index of the first activity whose
// key matches.
func locate(itin Itinerary, key string) (dayIdx, actIdx int, ok bool) {
	for d, day := range itin.Days {
		for a, act := range day.Activities {
			if act.Key() == key {
				return d, a, true
			}
		}
	}
	return 0, 0, false
}

// cloneDays shallow-copies the day list so affected days can be swapped out
// without touching the input.
func cloneDays(itin Itinerary) Itinerary {
	out := itin
	out.Days = make([]Day, len(itin.Days))
	copy(out.Days, itin.Days)
	return out
}

func copyActivities(list []Activity) []Activity {
	out := make([]Activity, len(list))
	copy(out, list)
	return out
}

// arrayMove removes the element at from and reinserts it at to, preserving
// the relative order of everything else.
func arrayMove(list []Activity, from, to int) []Activity {
	moved := list[from]
	out := removeAt(list, from)
	return insertAt(out, to, moved)
}

func removeAt(list []Activity, i int) []Activity {
	out := make([]Activity, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func insertAt(list []Activity, i int, a Activity) []Activity {
	if i > len(list) {
		i = len(list)
	}
	out := make([]Activity, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, a)
	return append(out, list[i:]...)
}
