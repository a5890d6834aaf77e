// Package analysis answers the sleepy guard questions over reconstructed sleep intervals.
package analysis

import (
	"errors"
	"fmt"

	"github.com/codeGROOVE-dev/guardlog/pkg/guardlog"
)

// ErrNoSleep means no guard has a sleep interval inside the analysis window.
var ErrNoSleep = errors.New("no qualifying sleep intervals")

// Result names a guard and a minute of the window.
type Result struct {
	Guard        int `json:"guard"`
	Minute       int `json:"minute"`
	Count        int `json:"count"`                   // intervals covering Minute
	TotalMinutes int `json:"total_minutes,omitempty"` // only set by SleepiestGuard
}

// Answer combines the guard and minute the conventional way.
func (r Result) Answer() int {
	return r.Guard * r.Minute
}

func (r Result) String() string {
	return fmt.Sprintf("guard #%d minute %d", r.Guard, r.Minute)
}

// MinuteHistogram counts how many intervals cover each minute of the window.
type MinuteHistogram [guardlog.MinutesPerHour]int

// Add counts every minute covered by iv.
func (h *MinuteHistogram) Add(iv guardlog.Interval) {
	for m := iv.StartMinute(); m < iv.EndMinute(); m++ {
		h[m]++
	}
}

// Peak returns the most covered minute and its count. Ties go to the lowest minute.
func (h *MinuteHistogram) Peak() (minute, count int) {
	for m, c := range h {
		if c > count {
			minute, count = m, c
		}
	}
	return minute, count
}

// Total sums all buckets.
func (h *MinuteHistogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// histogramFor builds the minute histogram of a single guard.
func histogramFor(intervals []guardlog.Interval, guard int) MinuteHistogram {
	var h MinuteHistogram
	for _, iv := range intervals {
		if iv.Guard == guard {
			h.Add(iv)
		}
	}
	return h
}
