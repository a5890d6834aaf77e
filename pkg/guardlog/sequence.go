package guardlog

import (
	"slices"
)

// Sort returns a copy of events ordered by timestamp.
// The sort is stable so events logged in the same minute keep their input order.
func Sort(events []Event) []Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b Event) int {
		return a.Time.Compare(b.Time)
	})
	return sorted
}
