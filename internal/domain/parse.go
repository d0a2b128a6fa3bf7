package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrTooFewFields means the line has fewer columns than the layout requires.
	ErrTooFewFields = errors.New("too few fields")

	// ErrNumericFormat means a coordinate column is not a decimal number.
	ErrNumericFormat = errors.New("invalid numeric field")
)

// ParseError describes a line that could not be turned into an Event.
// Fields holds the split line for diagnostics.
type ParseError struct {
	Kind   error
	Column string
	Value  string
	Fields []string
}

func (e *ParseError) Error() string {
	if errors.Is(e.Kind, ErrTooFewFields) {
		return fmt.Sprintf("parse event: %s: got %d", e.Kind, len(e.Fields))
	}
	return fmt.Sprintf("parse event: %s: %s %q", e.Kind, e.Column, e.Value)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// ParseEvent parses a line using DefaultLayout.
func ParseEvent(line string) (Event, error) {
	return DefaultLayout.Parse(line)
}

// Parse splits line on the layout separator and extracts the coordinate and
// date columns. No trimming is applied.
func (l RecordLayout) Parse(line string) (Event, error) {
	fields := strings.Split(line, l.Separator)
	if len(fields) < l.MinFields {
		return Event{}, &ParseError{Kind: ErrTooFewFields, Fields: fields}
	}

	lat, err := parseCoordinate(fields, l.Latitude, "latitude")
	if err != nil {
		return Event{}, err
	}
	lon, err := parseCoordinate(fields, l.Longitude, "longitude")
	if err != nil {
		return Event{}, err
	}

	date := make([]string, len(l.DateFields))
	for i, col := range l.DateFields {
		date[i] = fields[col]
	}

	return Event{
		Latitude:  lat,
		Longitude: lon,
		Date:      strings.Join(date, l.DateJoin),
	}, nil
}

func parseCoordinate(fields []string, col int, name string) (float32, error) {
	v, err := strconv.ParseFloat(fields[col], 32)
	// Out-of-range values saturate to ±Inf and can never fall inside a square.
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, &ParseError{Kind: ErrNumericFormat, Column: name, Value: fields[col], Fields: fields}
	}
	return float32(v), nil
}
