package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	reqdto "seatsense/internal/handler/dto/request"
	resdto "seatsense/internal/handler/dto/response"
	"seatsense/internal/handler/httperr"
	"seatsense/internal/pkg/clock"
	"seatsense/internal/usecase/commands"
	"seatsense/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SuggestionHandler struct {
	suggestionCommands commands.SuggestionCommands
	suggestionQueries  queries.SuggestionQueries
	clock              clock.Clock
}

func NewSuggestionHandler(
	suggestionCommands commands.SuggestionCommands,
	suggestionQueries queries.SuggestionQueries,
	clk clock.Clock,
) *SuggestionHandler {
	return &SuggestionHandler{
		suggestionCommands: suggestionCommands,
		suggestionQueries:  suggestionQueries,
		clock:              clk,
	}
}

// @Summary List suggestions
// @Description Return the saved suggestion snapshot for a date (today by default)
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Param date query string false "Target date (YYYY-MM-DD)"
// @Success 200 {array} queries.SuggestionView
// @Failure 400 {object} httperr.Response
// @Router /suggestions [get]
func (h *SuggestionHandler) List(c *gin.Context) {
	// Defaulting must match the date Generate stamps on its snapshot.
	now := h.clock.Now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if s := c.Query("date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date, expected YYYY-MM-DD", nil)
			return
		}
		date = t
	}

	views, err := h.suggestionQueries.ListByDate(c.Request.Context(), date)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load suggestions", nil)
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Generate suggestions
// @Description Rescore all active seats and replace the snapshot for the date
// @Tags suggestions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.GenerateSuggestionsRequest true "Scoring parameters"
// @Success 200 {array} resdto.GeneratedSuggestionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /suggestions/generate [post]
func (h *SuggestionHandler) Generate(c *gin.Context) {
	var req reqdto.GenerateSuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	params, err := toGenerateParams(req)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	generated, err := h.suggestionCommands.Generate(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidHour), errors.Is(err, commands.ErrInvalidRecentWeight):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid scoring parameters", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to generate suggestions", nil)
		}
		return
	}

	response := make([]*resdto.GeneratedSuggestionResponse, len(generated))
	for i := range generated {
		response[i] = resdto.FromGeneratedSuggestion(&generated[i])
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Explain seat score
// @Description Compute the factor breakdown for one seat without saving it
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Param seatId path string true "Seat ID"
// @Param date query string false "Target date (YYYY-MM-DD)"
// @Param hour query int false "Hour of day (0-23)"
// @Success 200 {object} resdto.GeneratedSuggestionResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /suggestions/explain/{seatId} [get]
func (h *SuggestionHandler) Explain(c *gin.Context) {
	seatID, err := uuid.Parse(c.Param("seatId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid seat ID format", nil)
		return
	}

	params, err := explainParams(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	generated, err := h.suggestionCommands.Explain(c.Request.Context(), seatID, params)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSeatNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Seat not found", nil)
		case errors.Is(err, commands.ErrInvalidHour):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid scoring parameters", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to explain seat score", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromGeneratedSuggestion(generated))
}

func explainParams(c *gin.Context) (commands.GenerateParams, error) {
	var params commands.GenerateParams
	if s := c.Query("date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return commands.GenerateParams{}, errors.New("invalid date, expected YYYY-MM-DD")
		}
		params.Date = &t
	}
	if s := c.Query("hour"); s != "" {
		h, err := strconv.Atoi(s)
		if err != nil {
			return commands.GenerateParams{}, errors.New("invalid hour, expected an integer")
		}
		params.Hour = &h
	}
	return params, nil
}

func toGenerateParams(req reqdto.GenerateSuggestionsRequest) (commands.GenerateParams, error) {
	params := commands.GenerateParams{
		Hour:         req.Hour,
		HistoryDays:  req.HistoryDays,
		TopN:         req.TopN,
		RecentWeight: req.RecentWeight,
	}
	if req.Date != nil {
		t, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			return commands.GenerateParams{}, errors.New("invalid date, expected YYYY-MM-DD")
		}
		params.Date = &t
	}
	return params, nil
}
