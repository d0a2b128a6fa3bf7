package domain

// Tally accumulates accepted strikes for a single year. It is owned by one
// aggregation call and must not be shared.
type Tally struct {
	year    string
	square  BoundingSquare
	strikes int64
	days    map[string]struct{}
}

// NewTally starts an empty tally for year over square.
func NewTally(year string, square BoundingSquare) *Tally {
	return &Tally{
		year:   year,
		square: square,
		days:   make(map[string]struct{}),
	}
}

// Add folds e into the tally if it lies inside the square and reports whether
// it was accepted.
func (t *Tally) Add(e Event) bool {
	if !t.square.Contains(e) {
		return false
	}
	t.strikes++
	t.days[e.Date] = struct{}{}
	return true
}

// Summary returns the statistics accumulated so far.
func (t *Tally) Summary() YearSummary {
	return YearSummary{
		Year:    t.year,
		Strikes: t.strikes,
		AreaKm2: t.square.AreaKm2,
		Days:    len(t.days),
	}
}
