package analysis

import (
	"fmt"
	"math"

	"github.com/codeGROOVE-dev/guardlog/pkg/guardlog"
)

// Strategy finds the (guard, minute) pair covered by the most sleep intervals.
// Ties go to the lowest guard id, then to the lowest minute.
type Strategy interface {
	Name() string
	MostFrequent(intervals []guardlog.Interval) (Result, error)
}

// Strategies lists every available strategy, primary first.
func Strategies() []Strategy {
	return []Strategy{Histogram{}, Pairwise{}}
}

// StrategyByName looks a strategy up by its Name.
func StrategyByName(name string) (Strategy, error) {
	for _, s := range Strategies() {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

type guardMinute struct {
	guard  int
	minute int
}

// better reports whether (k, n) beats the current best (bk, bn).
func better(k guardMinute, n int, bk guardMinute, bn int) bool {
	switch {
	case n != bn:
		return n > bn
	case k.guard != bk.guard:
		return k.guard < bk.guard
	default:
		return k.minute < bk.minute
	}
}

// Histogram counts every covered minute of every interval. Linear in the
// number of intervals.
type Histogram struct{}

// Name implements Strategy.
func (Histogram) Name() string { return "histogram" }

// MostFrequent implements Strategy.
func (Histogram) MostFrequent(intervals []guardlog.Interval) (Result, error) {
	if len(intervals) == 0 {
		return Result{}, ErrNoSleep
	}

	counts := make(map[guardMinute]int)
	for _, iv := range intervals {
		for m := iv.StartMinute(); m < iv.EndMinute(); m++ {
			counts[guardMinute{iv.Guard, m}]++
		}
	}

	var (
		bestKey guardMinute
		best    int
	)
	for k, n := range counts {
		if best == 0 || better(k, n, bestKey, best) {
			bestKey, best = k, n
		}
	}
	return Result{Guard: bestKey.guard, Minute: bestKey.minute, Count: best}, nil
}

// Pairwise intersects every pair of intervals belonging to the same guard.
// Each overlap starts at the later-starting interval's first minute and runs
// to the earlier end; every overlapping minute is tallied. A minute covered by
// d intervals collects d*(d-1)/2 tallies, so the ranking matches Histogram.
// Quadratic in the number of intervals.
type Pairwise struct{}

// Name implements Strategy.
func (Pairwise) Name() string { return "pairwise" }

// MostFrequent implements Strategy.
func (Pairwise) MostFrequent(intervals []guardlog.Interval) (Result, error) {
	if len(intervals) == 0 {
		return Result{}, ErrNoSleep
	}

	pairs := make(map[guardMinute]int)
	for i := range intervals {
		a := intervals[i]
		for j := i + 1; j < len(intervals); j++ {
			b := intervals[j]
			if a.Guard != b.Guard {
				continue
			}
			from := max(a.StartMinute(), b.StartMinute())
			to := min(a.EndMinute(), b.EndMinute())
			for m := from; m < to; m++ {
				pairs[guardMinute{a.Guard, m}]++
			}
		}
	}

	if len(pairs) == 0 {
		// Nothing overlaps: every covered minute has depth one.
		bestKey := guardMinute{guard: intervals[0].Guard, minute: intervals[0].StartMinute()}
		for _, iv := range intervals[1:] {
			k := guardMinute{iv.Guard, iv.StartMinute()}
			if better(k, 1, bestKey, 1) {
				bestKey = k
			}
		}
		return Result{Guard: bestKey.guard, Minute: bestKey.minute, Count: 1}, nil
	}

	var (
		bestKey guardMinute
		best    int
	)
	for k, n := range pairs {
		if best == 0 || better(k, n, bestKey, best) {
			bestKey, best = k, n
		}
	}
	return Result{Guard: bestKey.guard, Minute: bestKey.minute, Count: depthFromPairs(best)}, nil
}

// depthFromPairs inverts n = d*(d-1)/2.
func depthFromPairs(n int) int {
	return int((1 + math.Sqrt(float64(1+8*n))) / 2)
}

// DisagreementError reports two strategies returning different answers.
type DisagreementError struct {
	A, B       string
	GotA, GotB Result
}

func (e *DisagreementError) Error() string {
	return fmt.Sprintf("strategies disagree: %s found %v (%d), %s found %v (%d)",
		e.A, e.GotA, e.GotA.Count, e.B, e.GotB, e.GotB.Count)
}

// Compare runs both strategies and fails if their results differ.
func Compare(intervals []guardlog.Interval, a, b Strategy) (Result, error) {
	ra, err := a.MostFrequent(intervals)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.Name(), err)
	}
	rb, err := b.MostFrequent(intervals)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if ra != rb {
		return Result{}, &DisagreementError{A: a.Name(), B: b.Name(), GotA: ra, GotB: rb}
	}
	return ra, nil
}
