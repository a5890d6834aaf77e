package guardlog

import (
	"fmt"
	"time"
)

// WindowHour is the hour of day in which sleep is analyzed.
// Intervals that start in any other hour are dropped.
const WindowHour = 0

// MinutesPerHour bounds every covered minute.
const MinutesPerHour = 60

// Interval is a half-open stretch of sleep [Start, End) attributed to a guard.
type Interval struct {
	Start time.Time
	End   time.Time
	Guard int
}

// StartMinute is the first covered minute.
func (iv Interval) StartMinute() int {
	return iv.Start.Minute()
}

// EndMinute is the exclusive last covered minute.
// Sleep that runs past the start hour is clamped to the end of that hour.
func (iv Interval) EndMinute() int {
	if iv.End.Sub(iv.Start.Truncate(time.Hour)) >= time.Hour {
		return MinutesPerHour
	}
	return iv.End.Minute()
}

// Minutes is the number of covered minutes.
func (iv Interval) Minutes() int {
	return iv.EndMinute() - iv.StartMinute()
}

// Covers reports whether minute m lies in [StartMinute, EndMinute).
func (iv Interval) Covers(m int) bool {
	return m >= iv.StartMinute() && m < iv.EndMinute()
}

// InWindow reports whether the interval starts in WindowHour.
func (iv Interval) InWindow() bool {
	return iv.Start.Hour() == WindowHour
}

// SequenceError reports an event that makes no sense given the events before it.
type SequenceError struct {
	Reason string
	Event  Event
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("out of sequence at %q: %s", e.Event.String(), e.Reason)
}

// State is what the reconstructor carries between events.
// The zero value is the state before the first shift.
type State struct {
	SleepStart time.Time
	Guard      int
	OnDuty     bool
	Asleep     bool
}

// Apply advances the state by one event. When the event closes a sleep it
// also returns the finished interval, whether or not it is in the window.
func (s State) Apply(e Event) (State, *Interval, error) {
	switch e.Action {
	case ShiftStart:
		if s.Asleep {
			return s, nil, &SequenceError{Event: e, Reason: fmt.Sprintf("guard #%d still asleep at shift change", s.Guard)}
		}
		s.Guard = e.Guard
		s.OnDuty = true
		return s, nil, nil

	case FallAsleep:
		if !s.OnDuty {
			return s, nil, &SequenceError{Event: e, Reason: "no guard on duty"}
		}
		if s.Asleep {
			return s, nil, &SequenceError{Event: e, Reason: fmt.Sprintf("guard #%d is already asleep", s.Guard)}
		}
		s.SleepStart = e.Time
		s.Asleep = true
		return s, nil, nil

	case WakeUp:
		if !s.OnDuty {
			return s, nil, &SequenceError{Event: e, Reason: "no guard on duty"}
		}
		if !s.Asleep {
			return s, nil, &SequenceError{Event: e, Reason: fmt.Sprintf("guard #%d wakes without falling asleep", s.Guard)}
		}
		if !e.Time.After(s.SleepStart) {
			return s, nil, &SequenceError{Event: e, Reason: "wakes up no later than falling asleep"}
		}
		iv := &Interval{Guard: s.Guard, Start: s.SleepStart, End: e.Time}
		s.SleepStart = time.Time{}
		s.Asleep = false
		return s, iv, nil

	default:
		return s, nil, &SequenceError{Event: e, Reason: "unknown action"}
	}
}

// Reconstruct walks time-ordered events and returns the sleep intervals that
// start in WindowHour. The walk depends on order and must stay sequential.
func Reconstruct(ordered []Event) ([]Interval, error) {
	var (
		state     State
		intervals []Interval
	)
	for _, e := range ordered {
		next, iv, err := state.Apply(e)
		if err != nil {
			return nil, err
		}
		state = next
		if iv != nil && iv.InWindow() {
			intervals = append(intervals, *iv)
		}
	}
	if state.Asleep {
		return nil, &SequenceError{
			Event:  Event{Time: state.SleepStart, Action: FallAsleep},
			Reason: fmt.Sprintf("log ends while guard #%d is asleep", state.Guard),
		}
	}
	return intervals, nil
}
