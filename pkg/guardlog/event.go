// Package guardlog parses guard shift logs and rebuilds the sleep intervals they describe.
package guardlog

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timestampLayout is the bracketed prefix of every log line.
const timestampLayout = "[2006-01-02 15:04]"

// timestampWidth is the fixed width of the timestamp segment, brackets included.
const timestampWidth = len(timestampLayout)

var shiftRegex = regexp.MustCompile(`^Guard #(\S+) begins shift$`)

// Action is what happened at a logged minute.
type Action int

// Log actions.
const (
	ShiftStart Action = iota + 1
	FallAsleep
	WakeUp
)

func (a Action) String() string {
	switch a {
	case ShiftStart:
		return "shift_start"
	case FallAsleep:
		return "fall_asleep"
	case WakeUp:
		return "wake_up"
	default:
		return "unknown"
	}
}

// Event is a single parsed log record.
// Guard is only set for ShiftStart; the other actions inherit it from the
// preceding shift in time order.
type Event struct {
	Time   time.Time
	Action Action
	Guard  int
}

// String renders the event back into the log grammar.
func (e Event) String() string {
	ts := e.Time.Format(timestampLayout)
	switch e.Action {
	case ShiftStart:
		return fmt.Sprintf("%s Guard #%d begins shift", ts, e.Guard)
	case FallAsleep:
		return ts + " falls asleep"
	case WakeUp:
		return ts + " wakes up"
	default:
		return ts + " ?"
	}
}

// Component names the part of a line that failed to parse.
type Component string

// Parse failure components.
const (
	ComponentTimestamp Component = "timestamp"
	ComponentAction    Component = "action"
	ComponentGuardID   Component = "guard id"
)

// ParseError reports a malformed log line.
type ParseError struct {
	Err       error
	Input     string
	Component Component
	Line      int // 1-based; zero when parsing a lone line
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid %s in %q: %v", e.Line, e.Component, e.Input, e.Err)
	}
	return fmt.Sprintf("invalid %s in %q: %v", e.Component, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	errTooShort      = fmt.Errorf("shorter than %d characters", timestampWidth)
	errUnknownAction = errors.New("unrecognized action")
	errNonPositiveID = errors.New("guard id must be positive")
)

// ParseLine parses one log line such as "[1518-11-01 00:05] falls asleep".
func ParseLine(line string) (Event, error) {
	if len(line) < timestampWidth {
		return Event{}, &ParseError{Input: line, Component: ComponentTimestamp, Err: errTooShort}
	}

	ts, err := time.Parse(timestampLayout, line[:timestampWidth])
	if err != nil {
		return Event{}, &ParseError{Input: line, Component: ComponentTimestamp, Err: err}
	}

	rest := strings.TrimSpace(line[timestampWidth:])
	switch rest {
	case "falls asleep":
		return Event{Time: ts, Action: FallAsleep}, nil
	case "wakes up":
		return Event{Time: ts, Action: WakeUp}, nil
	}

	m := shiftRegex.FindStringSubmatch(rest)
	if m == nil {
		return Event{}, &ParseError{Input: line, Component: ComponentAction, Err: errUnknownAction}
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return Event{}, &ParseError{Input: line, Component: ComponentGuardID, Err: err}
	}
	if id <= 0 {
		return Event{}, &ParseError{Input: line, Component: ComponentGuardID, Err: errNonPositiveID}
	}

	return Event{Time: ts, Action: ShiftStart, Guard: id}, nil
}
