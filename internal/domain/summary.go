package domain

import "strconv"

// SummaryHeader is the first line written to every output file per run.
const SummaryHeader = "År : Antall nedslag : Nedslag/areal : Antall dager"

// YearSummary holds the strike statistics for one year's log.
type YearSummary struct {
	Year    string  `json:"year"`
	Strikes int64   `json:"strikes"`
	AreaKm2 float32 `json:"area_km2"`
	Days    int     `json:"days"`
}

// StrikesPerArea is the strike density in strikes per km².
func (s YearSummary) StrikesPerArea() float32 {
	return float32(s.Strikes) / s.AreaKm2
}

// Empty reports whether no strikes were accepted for the year.
func (s YearSummary) Empty() bool {
	return s.Strikes == 0
}

// Row renders the summary as "<year> <strikes> <strikes_per_area> <days>".
func (s YearSummary) Row() string {
	return s.Year + " " +
		strconv.FormatInt(s.Strikes, 10) + " " +
		FormatFloat(s.StrikesPerArea()) + " " +
		strconv.Itoa(s.Days)
}

// RunStatus is a point-in-time view of a run's progress.
type RunStatus struct {
	Running        bool   `json:"running"`
	YearStart      int    `json:"year_start"`
	YearEnd        int    `json:"year_end"`
	YearsProcessed int64  `json:"years_processed"`
	LastYear       string `json:"last_year,omitempty"`
}
