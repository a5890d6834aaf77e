package guardlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxLineLength caps a single log line; real lines are under 50 bytes.
const maxLineLength = 64 * 1024

// ReadEvents parses every non-blank line from r, in input order.
// It stops at the first malformed line and returns no events in that case.
func ReadEvents(r io.Reader) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	var events []Event
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		event, err := ParseLine(line)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = lineNo
			}
			return nil, err
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return events, nil
}
