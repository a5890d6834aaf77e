package analysis

import (
	"github.com/codeGROOVE-dev/guardlog/pkg/guardlog"
)

// SleepiestGuard finds the guard with the most minutes asleep, then the
// minute that guard is asleep most often. Ties go to the lowest guard id,
// then to the lowest minute.
func SleepiestGuard(intervals []guardlog.Interval) (Result, error) {
	if len(intervals) == 0 {
		return Result{}, ErrNoSleep
	}

	totals := make(map[int]int)
	for _, iv := range intervals {
		totals[iv.Guard] += iv.Minutes()
	}

	best := Result{}
	for guard, total := range totals {
		if total > best.TotalMinutes || (total == best.TotalMinutes && guard < best.Guard) {
			best = Result{Guard: guard, TotalMinutes: total}
		}
	}

	h := histogramFor(intervals, best.Guard)
	best.Minute, best.Count = h.Peak()
	return best, nil
}
