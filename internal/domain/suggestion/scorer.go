// Package suggestion holds the pure scoring math for seat recommendations.
// It blends historical occupancy, thermal comfort and the marginal energy
// cost of powering a room into one explainable score per seat.
package suggestion

import (
	"fmt"
	"math"
	"time"

	"seatsense/internal/domain/seat"
)

const (
	DefaultHistoryDays  = 90
	DefaultTopN         = 10
	DefaultRecentWeight = 0.7

	// TempWindowDays is the trailing window for the room temperature mean.
	TempWindowDays = 30

	// neutralComfort applies when a room has no temperature history at all.
	neutralComfort = 0.5

	annualWeeks = 52.0

	occupancyWeight = 0.4
	comfortWeight   = 0.3
	energyWeight    = 0.3
)

// Inputs are the per-seat observations a generation run gathers before
// scoring. AvgRecentTemp is nil when the room has no readings in the window.
type Inputs struct {
	RecentCount   int
	AnnualCount   int
	HistoryDays   int
	RecentWeight  float64
	AvgRecentTemp *float64
	Exposure      seat.Exposure
	Month         time.Month
	RoomPowered   bool
}

// Factors is the decomposed score for one seat.
type Factors struct {
	OccupancyProbability float64
	ComfortScore         float64
	EnergyCost           float64
	Score                float64
}

// Reason renders the human-readable decomposition persisted with each
// suggestion row.
func (f Factors) Reason() string {
	return fmt.Sprintf("occupancy probability=%.2f,comfort score=%.2f,energy cost=%.2f",
		f.OccupancyProbability, f.ComfortScore, f.EnergyCost)
}

// Score computes all factors and the final blend for one seat.
func Score(in Inputs) Factors {
	occ := occupancyProbability(in)
	comfort := comfortScore(in)
	energy := energyCost(in.RoomPowered, occ)

	return Factors{
		OccupancyProbability: occ,
		ComfortScore:         comfort,
		EnergyCost:           energy,
		Score:                occupancyWeight*occ + comfortWeight*comfort - energyWeight*energy,
	}
}

// occupancyProbability is an empirical same-weekday-same-hour booking
// frequency, blending a recent window against a full year. Each window
// normalizes the booking count by the number of weeks it spans, capped at 1.
func occupancyProbability(in Inputs) float64 {
	weeksRecent := math.Max(1.0, float64(in.HistoryDays)/7.0)

	probRecent := math.Min(1.0, float64(in.RecentCount)/weeksRecent)
	probAnnual := math.Min(1.0, float64(in.AnnualCount)/annualWeeks)

	return in.RecentWeight*probRecent + (1-in.RecentWeight)*probAnnual
}

// comfortScore decays linearly with distance from the seasonal ideal over a
// 10 degree band, then subtracts the room's sun-exposure penalty.
func comfortScore(in Inputs) float64 {
	if in.AvgRecentTemp == nil {
		return neutralComfort
	}

	score := math.Max(0.0, 1.0-math.Abs(*in.AvgRecentTemp-IdealTemp(in.Month))/10.0)
	return math.Max(0.0, score-in.Exposure.Penalty())
}

// IdealTemp is the seasonal comfort setpoint for the target month.
func IdealTemp(month time.Month) float64 {
	switch month {
	case time.June, time.July, time.August:
		return 23.0
	case time.December, time.January, time.February:
		return 21.0
	default:
		return 22.0
	}
}

// energyCost reflects the marginal cost of activating climate control for a
// single occupant: cheap when the room already runs and the seat is likely
// to be used anyway, expensive when the room is cold and dark.
func energyCost(powered bool, occupancyProb float64) float64 {
	if !powered {
		return 0.8
	}
	if occupancyProb > 0.6 {
		return 0.1
	}
	return 0.4
}
