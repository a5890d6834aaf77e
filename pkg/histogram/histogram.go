// Package histogram provides visualization of sleep patterns.
package histogram

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
)

// Minutes is a per-minute sleep count for one guard, imported type needed for rendering.
type Minutes struct {
	Counts     []int
	Guard      int
	PeakMinute int
}

// maxBar caps bar length so long logs still fit a terminal.
const maxBar = 40

// GenerateHistogram creates a visual representation of when a guard sleeps.
// Only minutes with at least one sleep are listed; the peak minute is marked.
func GenerateHistogram(m Minutes) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("💤 Sleep Pattern for guard #%d (1-minute resolution)\n", m.Guard))
	output.WriteString(strings.Repeat("─", 50) + "\n")

	maxCount := 0
	for _, c := range m.Counts {
		maxCount = max(maxCount, c)
	}
	if maxCount == 0 {
		return output.String() + "No sleep data available\n"
	}

	peakColor := color.New(color.FgYellow)
	barColor := color.New(color.FgBlue)
	for minute, count := range m.Counts {
		if count == 0 {
			continue
		}

		line := fmt.Sprintf("00:%02d ", minute)
		if minute == m.PeakMinute {
			line += peakColor.Sprint("^") + " "
		} else {
			line += "  "
		}
		line += fmt.Sprintf("(%2d) ", count)

		barLength := count
		if maxCount > maxBar {
			barLength = max(1, count*maxBar/maxCount)
		}
		c := barColor
		if minute == m.PeakMinute {
			c = peakColor
		}
		line += c.Sprint(strings.Repeat("█", barLength))

		output.WriteString(line + "\n")
	}

	return output.String()
}

// Plot renders the counts as an ASCII line chart spanning the whole hour.
func Plot(m Minutes, height int) string {
	if len(m.Counts) == 0 {
		return "No sleep data available\n"
	}
	if height < 3 {
		height = 3
	}

	data := make([]float64, len(m.Counts))
	for i, c := range m.Counts {
		data[i] = float64(c)
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("guard #%d, minutes 00-%02d", m.Guard, len(m.Counts)-1)),
	) + "\n"
}
