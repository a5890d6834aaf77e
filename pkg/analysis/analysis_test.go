package analysis

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/guardlog/pkg/guardlog"
)

const sampleLog = `[1518-11-01 00:00] Guard #10 begins shift
[1518-11-01 00:05] falls asleep
[1518-11-01 00:25] wakes up
[1518-11-01 00:30] falls asleep
[1518-11-01 00:55] wakes up
[1518-11-01 23:58] Guard #99 begins shift
[1518-11-02 00:40] falls asleep
[1518-11-02 00:50] wakes up
[1518-11-03 00:05] Guard #10 begins shift
[1518-11-03 00:24] falls asleep
[1518-11-03 00:29] wakes up
[1518-11-04 00:02] Guard #99 begins shift
[1518-11-04 00:36] falls asleep
[1518-11-04 00:46] wakes up
[1518-11-05 00:03] Guard #99 begins shift
[1518-11-05 00:45] falls asleep
[1518-11-05 00:55] wakes up`

func sampleIntervals(t *testing.T) []guardlog.Interval {
	t.Helper()
	events, err := guardlog.ReadEvents(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("ReadEvents() error = %v", err)
	}
	intervals, err := guardlog.Reconstruct(guardlog.Sort(events))
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	return intervals
}

func interval(guard, day, start, end int) guardlog.Interval {
	return guardlog.Interval{
		Guard: guard,
		Start: time.Date(1518, 11, day, 0, start, 0, 0, time.UTC),
		End:   time.Date(1518, 11, day, 0, end, 0, 0, time.UTC),
	}
}

func TestSleepiestGuardSample(t *testing.T) {
	got, err := SleepiestGuard(sampleIntervals(t))
	if err != nil {
		t.Fatalf("SleepiestGuard() error = %v", err)
	}
	want := Result{Guard: 10, Minute: 24, Count: 2, TotalMinutes: 50}
	if got != want {
		t.Errorf("SleepiestGuard() = %+v, want %+v", got, want)
	}
	if got.Answer() != 240 {
		t.Errorf("Answer() = %d, want 240", got.Answer())
	}
}

func TestMostFrequentSample(t *testing.T) {
	intervals := sampleIntervals(t)
	want := Result{Guard: 99, Minute: 45, Count: 3}
	for _, s := range Strategies() {
		t.Run(s.Name(), func(t *testing.T) {
			got, err := s.MostFrequent(intervals)
			if err != nil {
				t.Fatalf("MostFrequent() error = %v", err)
			}
			if got != want {
				t.Errorf("MostFrequent() = %+v, want %+v", got, want)
			}
			if got.Answer() != 4455 {
				t.Errorf("Answer() = %d, want 4455", got.Answer())
			}
		})
	}
}

func TestEmptyIntervals(t *testing.T) {
	if _, err := SleepiestGuard(nil); !errors.Is(err, ErrNoSleep) {
		t.Errorf("SleepiestGuard(nil) error = %v, want ErrNoSleep", err)
	}
	for _, s := range Strategies() {
		if _, err := s.MostFrequent(nil); !errors.Is(err, ErrNoSleep) {
			t.Errorf("%s.MostFrequent(nil) error = %v, want ErrNoSleep", s.Name(), err)
		}
	}
}

func TestMinuteHistogramBoundary(t *testing.T) {
	var h MinuteHistogram
	h.Add(interval(10, 1, 5, 25))

	buckets := 0
	for m, c := range h {
		if c > 0 {
			buckets++
		}
		inside := m >= 5 && m < 25
		if inside != (c == 1) {
			t.Errorf("bucket %d = %d", m, c)
		}
	}
	if buckets != 20 || h.Total() != 20 {
		t.Errorf("touched %d buckets totaling %d, want 20", buckets, h.Total())
	}
}

func TestTieBreaks(t *testing.T) {
	t.Run("guard totals tie to lowest id", func(t *testing.T) {
		got, err := SleepiestGuard([]guardlog.Interval{
			interval(20, 1, 10, 20),
			interval(7, 2, 30, 40),
		})
		if err != nil {
			t.Fatal(err)
		}
		if got.Guard != 7 || got.Minute != 30 {
			t.Errorf("SleepiestGuard() = %+v, want guard 7 minute 30", got)
		}
	})

	t.Run("minute ties to lowest minute", func(t *testing.T) {
		got, err := SleepiestGuard([]guardlog.Interval{
			interval(3, 1, 40, 45),
			interval(3, 2, 10, 15),
		})
		if err != nil {
			t.Fatal(err)
		}
		if got.Minute != 10 || got.Count != 1 {
			t.Errorf("SleepiestGuard() = %+v, want minute 10 count 1", got)
		}
	})

	t.Run("no overlaps", func(t *testing.T) {
		intervals := []guardlog.Interval{
			interval(9, 1, 50, 55),
			interval(4, 2, 20, 30),
			interval(4, 3, 12, 14),
		}
		want := Result{Guard: 4, Minute: 12, Count: 1}
		for _, s := range Strategies() {
			got, err := s.MostFrequent(intervals)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("%s.MostFrequent() = %+v, want %+v", s.Name(), got, want)
			}
		}
	})
}

func TestPairwiseIgnoresOtherGuards(t *testing.T) {
	// Four different guards share minute 20 but guard 1 covers minute 10 three times.
	intervals := []guardlog.Interval{
		interval(1, 1, 10, 11),
		interval(1, 2, 10, 11),
		interval(1, 3, 10, 11),
		interval(2, 4, 20, 21),
		interval(3, 5, 20, 21),
		interval(4, 6, 20, 21),
		interval(5, 7, 20, 21),
	}
	got, err := Pairwise{}.MostFrequent(intervals)
	if err != nil {
		t.Fatal(err)
	}
	if want := (Result{Guard: 1, Minute: 10, Count: 3}); got != want {
		t.Errorf("Pairwise.MostFrequent() = %+v, want %+v", got, want)
	}
}

// randomIntervals builds a well formed shift log and reconstructs it.
func randomIntervals(t *testing.T, rng *rand.Rand) []guardlog.Interval {
	t.Helper()
	guards := []int{rng.IntN(50) + 1, rng.IntN(50) + 1, rng.IntN(50) + 1}
	base := time.Date(1518, 1, 1, 0, 0, 0, 0, time.UTC)

	var events []guardlog.Event
	for day := range rng.IntN(30) + 1 {
		midnight := base.AddDate(0, 0, day)
		shift := midnight.Add(-time.Duration(rng.IntN(5)+1) * time.Minute)
		events = append(events, guardlog.Event{Time: shift, Action: guardlog.ShiftStart, Guard: guards[rng.IntN(len(guards))]})

		minute := rng.IntN(10)
		for minute < 58 && rng.IntN(4) > 0 {
			sleep := minute + rng.IntN(10) + 1
			wake := sleep + rng.IntN(20) + 1
			if wake >= 60 {
				break
			}
			events = append(events,
				guardlog.Event{Time: midnight.Add(time.Duration(sleep) * time.Minute), Action: guardlog.FallAsleep},
				guardlog.Event{Time: midnight.Add(time.Duration(wake) * time.Minute), Action: guardlog.WakeUp},
			)
			minute = wake
		}
	}

	rng.Shuffle(len(events), func(i, j int) { events[i], events[j] = events[j], events[i] })
	intervals, err := guardlog.Reconstruct(guardlog.Sort(events))
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}
	return intervals
}

func TestStrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(1518, 11))
	checked := 0
	for range 300 {
		intervals := randomIntervals(t, rng)
		if len(intervals) == 0 {
			continue
		}
		if _, err := Compare(intervals, Histogram{}, Pairwise{}); err != nil {
			t.Fatalf("Compare() error = %v", err)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("generator produced no intervals")
	}
}

func TestStrategyByName(t *testing.T) {
	for _, name := range []string{"histogram", "pairwise"} {
		s, err := StrategyByName(name)
		if err != nil {
			t.Fatalf("StrategyByName(%q) error = %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("StrategyByName(%q).Name() = %q", name, s.Name())
		}
	}
	if _, err := StrategyByName("guesswork"); err == nil {
		t.Error("StrategyByName(guesswork) succeeded, want error")
	}
}

type fixedStrategy struct{ r Result }

func (fixedStrategy) Name() string { return "fixed" }

func (f fixedStrategy) MostFrequent([]guardlog.Interval) (Result, error) { return f.r, nil }

func TestCompareDisagreement(t *testing.T) {
	_, err := Compare(sampleIntervals(t), Histogram{}, fixedStrategy{Result{Guard: 1, Minute: 1, Count: 1}})
	var de *DisagreementError
	if !errors.As(err, &de) {
		t.Fatalf("Compare() error = %v, want *DisagreementError", err)
	}
	if de.A != "histogram" || de.B != "fixed" {
		t.Errorf("DisagreementError = %+v", de)
	}
}
