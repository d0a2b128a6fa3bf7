package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTally_Add(t *testing.T) {
	sq := NewBoundingSquare(osloLat, osloLon, 10)
	tally := NewTally("2021", sq)

	assert.True(t, tally.Add(Event{Latitude: 59.93, Longitude: 10.98, Date: "2021,06,15"}))
	assert.True(t, tally.Add(Event{Latitude: 59.931, Longitude: 10.981, Date: "2021,06,15"}))
	assert.False(t, tally.Add(Event{Latitude: 61, Longitude: 10.98, Date: "2021,06,16"}))
	assert.True(t, tally.Add(Event{Latitude: 59.93, Longitude: 10.98, Date: "2021,07,01"}))

	assert.Equal(t, YearSummary{Year: "2021", Strikes: 3, AreaKm2: 10, Days: 2}, tally.Summary())
}

func TestTally_SameDateCountsOneDay(t *testing.T) {
	tally := NewTally("2021", NewBoundingSquare(osloLat, osloLon, 10))
	e := Event{Latitude: 59.93, Longitude: 10.98, Date: "2021,06,15"}

	tally.Add(e)
	before := tally.Summary()
	tally.Add(e)
	after := tally.Summary()

	assert.Equal(t, before.Strikes+1, after.Strikes)
	assert.Equal(t, 1, after.Days)
}

func TestTally_Empty(t *testing.T) {
	tally := NewTally("2005", NewBoundingSquare(osloLat, osloLon, 10))
	tally.Add(Event{Latitude: 0, Longitude: 0, Date: "2005,01,01"})

	s := tally.Summary()
	assert.True(t, s.Empty())
	assert.Equal(t, 0, s.Days)
}

func TestYearSummary_Row(t *testing.T) {
	tests := []struct {
		name    string
		summary YearSummary
		want    string
	}{
		{"single strike", YearSummary{Year: "2021", Strikes: 1, AreaKm2: 10, Days: 1}, "2021 1 0.1 1"},
		{"whole density", YearSummary{Year: "2002", Strikes: 40, AreaKm2: 10, Days: 3}, "2002 40 4 3"},
		{"fractional area", YearSummary{Year: "2010", Strikes: 3, AreaKm2: 2.5, Days: 2}, "2010 3 1.2 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.summary.Row())
		})
	}
}

func TestYearSummary_StrikesPerArea(t *testing.T) {
	s := YearSummary{Year: "2021", Strikes: 1, AreaKm2: 10}
	assert.Equal(t, float32(0.1), s.StrikesPerArea())
}
