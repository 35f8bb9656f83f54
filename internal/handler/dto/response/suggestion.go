package response

import (
	"time"

	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
)

type GeneratedSuggestionResponse struct {
	SeatID        uuid.UUID `json:"seat_id"`
	Date          string    `json:"date"`
	Score         float64   `json:"score"`
	Occupancy     float64   `json:"occupancy_probability"`
	Comfort       float64   `json:"comfort_score"`
	EnergyCost    float64   `json:"energy_cost"`
	Reason        string    `json:"reason"`
	IsRecommended bool      `json:"is_recommended"`
}

func FromGeneratedSuggestion(g *commands.GeneratedSuggestion) *GeneratedSuggestionResponse {
	return &GeneratedSuggestionResponse{
		SeatID:        g.SeatID,
		Date:          g.Date.Format(time.DateOnly),
		Score:         g.Factors.Score,
		Occupancy:     g.Factors.OccupancyProbability,
		Comfort:       g.Factors.ComfortScore,
		EnergyCost:    g.Factors.EnergyCost,
		Reason:        g.Reason,
		IsRecommended: g.IsRecommended,
	}
}
