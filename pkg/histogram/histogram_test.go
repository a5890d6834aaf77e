package histogram

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestGenerateHistogram(t *testing.T) {
	color.NoColor = true

	counts := make([]int, 60)
	for m := 5; m < 25; m++ {
		counts[m] = 1
	}
	counts[24] = 2

	out := GenerateHistogram(Minutes{Counts: counts, Guard: 10, PeakMinute: 24})

	if !strings.Contains(out, "guard #10") {
		t.Errorf("missing guard header:\n%s", out)
	}
	if !strings.Contains(out, "00:24 ^ ( 2) ██\n") {
		t.Errorf("peak minute not marked:\n%s", out)
	}
	if !strings.Contains(out, "00:05   ( 1) █\n") {
		t.Errorf("minute 5 missing:\n%s", out)
	}
	if strings.Contains(out, "00:25 ") {
		t.Errorf("minute 25 should not be listed:\n%s", out)
	}
	if got := strings.Count(out, "\n00:"); got != 20 {
		t.Errorf("listed %d minutes, want 20", got)
	}
}

func TestGenerateHistogramEmpty(t *testing.T) {
	out := GenerateHistogram(Minutes{Counts: make([]int, 60), Guard: 3})
	if !strings.Contains(out, "No sleep data available") {
		t.Errorf("GenerateHistogram() = %q, want no-data notice", out)
	}
}

func TestGenerateHistogramScalesBars(t *testing.T) {
	color.NoColor = true

	counts := make([]int, 60)
	counts[0] = 400
	counts[1] = 1
	out := GenerateHistogram(Minutes{Counts: counts, Guard: 1, PeakMinute: 0})
	for _, line := range strings.Split(out, "\n") {
		if n := strings.Count(line, "█"); n > maxBar {
			t.Errorf("bar of %d exceeds %d: %q", n, maxBar, line)
		}
	}
	if !strings.Contains(out, "00:01   ( 1) █\n") {
		t.Errorf("small bucket should keep a visible bar:\n%s", out)
	}
}

func TestPlot(t *testing.T) {
	counts := make([]int, 60)
	counts[30] = 4
	out := Plot(Minutes{Counts: counts, Guard: 7}, 1)
	if !strings.Contains(out, "guard #7, minutes 00-59") {
		t.Errorf("Plot() missing caption:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines < 3 {
		t.Errorf("Plot() produced %d lines, want at least 3", lines)
	}
}
