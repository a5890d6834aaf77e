// Package main implements the guardlog CLI for finding sleepy guards in shift logs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/guardlog/pkg/analysis"
	"github.com/codeGROOVE-dev/guardlog/pkg/histogram"
	"github.com/codeGROOVE-dev/guardlog/pkg/source"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

var (
	session   = flag.String("session", "", "Session cookie for URL inputs (or set GUARDLOG_SESSION)")
	strategy  = flag.String("strategy", "histogram", "Strategy for the most frequent minute: histogram or pairwise")
	verify    = flag.Bool("verify", false, "Cross-check every strategy and fail if they disagree")
	showHist  = flag.Bool("histogram", false, "Show the sleepiest guard's minute histogram")
	jsonOut   = flag.Bool("json", false, "Print the report as JSON")
	noColor   = flag.Bool("no-color", false, "Disable colored output")
	verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	version   = flag.Bool("version", false, "Show version")
	timeout   = flag.Duration("timeout", 30*time.Second, "Timeout for fetching URL inputs")
	plotLines = flag.Int("plot-height", 0, "Also draw a line plot of the histogram with this many rows")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("guardlog CLI v1.0.0")
		return
	}

	_ = godotenv.Load() // .env is optional

	input := os.Getenv("GUARDLOG_INPUT")
	switch args := flag.Args(); {
	case len(args) == 1:
		input = args[0]
	case len(args) > 1 || input == "":
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <log file | URL | ->\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *session == "" {
		*session = os.Getenv("GUARDLOG_SESSION")
	}

	// Configure logging
	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if *noColor || *jsonOut {
		color.NoColor = true
	}

	if err := run(logger, input); err != nil {
		logger.Error("Analysis failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, input string) error {
	s, err := analysis.StrategyByName(*strategy)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rc, err := source.Open(ctx, input,
		source.WithLogger(logger),
		source.WithSession(*session))
	if err != nil {
		return err
	}
	defer func() {
		if err := rc.Close(); err != nil {
			logger.Debug("Failed to close input", "error", err)
		}
	}()

	report, err := analysis.AnalyzeReader(rc,
		analysis.WithLogger(logger),
		analysis.WithStrategy(s),
		analysis.WithCrossCheck(*verify))
	if errors.Is(err, analysis.ErrNoSleep) {
		return fmt.Errorf("%w: nobody slept between 00:00 and 00:59", err)
	}
	if err != nil {
		return err
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(report)

	minutes := histogram.Minutes{
		Counts:     report.Histogram[:],
		Guard:      report.SleepiestGuard.Guard,
		PeakMinute: report.SleepiestGuard.Minute,
	}
	if *showHist {
		fmt.Println()
		fmt.Print(histogram.GenerateHistogram(minutes))
	}
	if *plotLines > 0 {
		fmt.Println()
		fmt.Print(histogram.Plot(minutes, *plotLines))
	}
	return nil
}

func printReport(report *analysis.Report) {
	bold := color.New(color.Bold)

	fmt.Printf("\n💂 Guard Log: %d events, %d sleeps, %d guards\n", report.Events, report.Intervals, report.Guards)
	fmt.Println(strings.Repeat("─", 50))

	q1 := report.SleepiestGuard
	fmt.Printf("😴 Sleepiest:     guard #%d, %d minutes asleep, most at 00:%02d (%d times)\n",
		q1.Guard, q1.TotalMinutes, q1.Minute, q1.Count)
	fmt.Printf("                  └─ answer: %s\n", bold.Sprint(q1.Answer()))

	q2 := report.FrequentMinute
	fmt.Printf("🕛 Most frequent: guard #%d asleep at 00:%02d (%d times)\n", q2.Guard, q2.Minute, q2.Count)
	fmt.Printf("                  └─ answer: %s\n", bold.Sprint(q2.Answer()))

	method := report.Strategy
	if report.CrossChecked {
		method += ", cross-checked"
	}
	fmt.Printf("🔍 Method:        %s\n", color.HiBlackString(method))
}
