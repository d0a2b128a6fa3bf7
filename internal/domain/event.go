package domain

import (
	"strconv"
	"strings"
)

// Event is a single parsed lightning strike.
type Event struct {
	Latitude  float32 `json:"latitude"`
	Longitude float32 `json:"longitude"`
	Date      string  `json:"date"` // date tokens joined by ",", e.g. "2021,06,15"
}

// Point is a WGS-84 coordinate in decimal degrees.
type Point struct {
	Lat float32 `json:"lat"`
	Lon float32 `json:"lon"`
}

// String renders the point as "<lat>,<lon>".
func (p Point) String() string {
	return FormatFloat(p.Lat) + "," + FormatFloat(p.Lon)
}

// RecordLayout names the column positions of a strike record.
type RecordLayout struct {
	Separator  string
	MinFields  int
	DateFields []int
	DateJoin   string
	Latitude   int
	Longitude  int
}

// DefaultLayout is the layout of the yearly strike logs.
var DefaultLayout = RecordLayout{
	Separator:  " ",
	MinFields:  11,
	DateFields: []int{1, 2, 3},
	DateJoin:   ",",
	Latitude:   8,
	Longitude:  9,
}

// Format renders an event as a line accepted by Parse. Columns not owned by
// the layout are taken from filler in order and default to "0".
func (l RecordLayout) Format(e Event, filler ...string) string {
	fields := make([]string, l.MinFields)
	owned := make(map[int]bool, len(l.DateFields)+2)

	dateParts := strings.Split(e.Date, l.DateJoin)
	for i, col := range l.DateFields {
		owned[col] = true
		if i < len(dateParts) {
			fields[col] = dateParts[i]
		}
	}
	owned[l.Latitude] = true
	owned[l.Longitude] = true
	fields[l.Latitude] = FormatFloat(e.Latitude)
	fields[l.Longitude] = FormatFloat(e.Longitude)

	next := 0
	for i := range fields {
		if owned[i] {
			continue
		}
		fields[i] = "0"
		if next < len(filler) {
			fields[i] = filler[next]
			next++
		}
	}
	return strings.Join(fields, l.Separator)
}

// FormatFloat renders a float32 in its shortest round-trip decimal form
// without an exponent: 10 -> "10", 0.1 -> "0.1".
func FormatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
