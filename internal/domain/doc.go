// Package domain models lightning strike observations and the yearly
// statistics derived from them.
//
// # Data Source
//
// Strike logs arrive as one plain-text file per year. Each line is a single
// strike observation whose columns are separated by exactly one ASCII space.
// The parser relies on column positions, not names:
//
//	col 0      format version (ignored)
//	col 1..3   year, month, day, e.g. "2021 06 15"
//	col 4..7   hour, minute, second, nanosecond (ignored)
//	col 8      latitude, decimal degrees
//	col 9      longitude, decimal degrees
//	col 10..   peak current, multiplicity, cloud indicator, sensor count
//	           and error ellipse (ignored)
//
// A record must have at least 11 columns. Runs of spaces produce empty
// columns and shift every later index, so such lines are rejected or parsed
// into the wrong columns. [RecordLayout] names the positions so the contract
// is stated once.
//
// # Date Key
//
// The three date tokens are joined with "," and used verbatim as the day
// key ("2021,06,15"). No calendar validation is done; two lines fall on the
// same strike-day exactly when their keys are equal strings.
//
// # Bounding Square
//
// The target region is an axis-aligned square in degree space around a
// center point. Its half side in kilometres is sqrt(area)/2, converted to
// degrees by dividing by [KmPerDegree] on both axes. This ignores the
// shrinking of longitude degrees away from the equator, so at 60°N the
// region is roughly twice as tall (in km) as it is wide. The approximation is
// intentional and must be kept for output compatibility.
//
// # Numeric Precision
//
// Coordinates, area and derived bounds are float32 throughout; results are
// rendered with the shortest float32 representation (see [FormatFloat]).
package domain
