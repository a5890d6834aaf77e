package analysis

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/codeGROOVE-dev/guardlog/pkg/guardlog"
)

// Report holds both answers for one log.
type Report struct {
	SleepiestGuard Result          `json:"sleepiest_guard"`
	FrequentMinute Result          `json:"frequent_minute"`
	Strategy       string          `json:"strategy"`
	Histogram      MinuteHistogram `json:"histogram"` // minutes of the sleepiest guard
	Events         int             `json:"events"`
	Intervals      int             `json:"intervals"`
	Guards         int             `json:"guards"`
	CrossChecked   bool            `json:"cross_checked"`
}

// Option configures Analyze.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	strategy   Strategy
	crossCheck bool
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStrategy picks the strategy that answers the frequent minute question.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithCrossCheck also runs every other strategy and fails if any disagrees.
func WithCrossCheck(enabled bool) Option {
	return func(o *options) {
		o.crossCheck = enabled
	}
}

// AnalyzeReader reads a log from r and analyzes it.
func AnalyzeReader(r io.Reader, opts ...Option) (*Report, error) {
	events, err := guardlog.ReadEvents(r)
	if err != nil {
		return nil, err
	}
	return Analyze(events, opts...)
}

// Analyze orders the events, rebuilds sleep intervals and answers both questions.
func Analyze(events []guardlog.Event, opts ...Option) (*Report, error) {
	o := &options{
		logger:   slog.New(slog.DiscardHandler),
		strategy: Histogram{},
	}
	for _, opt := range opts {
		opt(o)
	}

	intervals, err := guardlog.Reconstruct(guardlog.Sort(events))
	if err != nil {
		return nil, err
	}
	o.logger.Debug("reconstructed sleep intervals", "events", len(events), "intervals", len(intervals))

	sleepiest, err := SleepiestGuard(intervals)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("sleepiest guard", "guard", sleepiest.Guard, "total_minutes", sleepiest.TotalMinutes,
		"minute", sleepiest.Minute, "count", sleepiest.Count)

	frequent, err := o.strategy.MostFrequent(intervals)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("most frequent minute", "strategy", o.strategy.Name(), "guard", frequent.Guard,
		"minute", frequent.Minute, "count", frequent.Count)

	if o.crossCheck {
		for _, other := range Strategies() {
			if other.Name() == o.strategy.Name() {
				continue
			}
			if _, err := Compare(intervals, o.strategy, other); err != nil {
				return nil, fmt.Errorf("cross check: %w", err)
			}
			o.logger.Debug("cross check passed", "primary", o.strategy.Name(), "other", other.Name())
		}
	}

	guards := make(map[int]struct{})
	for _, iv := range intervals {
		guards[iv.Guard] = struct{}{}
	}

	return &Report{
		SleepiestGuard: sleepiest,
		FrequentMinute: frequent,
		Strategy:       o.strategy.Name(),
		Histogram:      histogramFor(intervals, sleepiest.Guard),
		Events:         len(events),
		Intervals:      len(intervals),
		Guards:         len(guards),
		CrossChecked:   o.crossCheck,
	}, nil
}
