package commands

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"seatsense/internal/domain/suggestion"
	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/clock"
	"seatsense/internal/pkg/errs"
	"seatsense/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidHour         = errs.New("hour must be between 0 and 23")
	ErrInvalidRecentWeight = errs.New("recent weight must be between 0 and 1")
	ErrGenerationFailed    = errs.New("suggestion generation failed")
)

// GenerateParams tunes one scoring run. Zero values fall back to the
// documented defaults (today, current hour, 90 days, top 10, 0.7 blend).
type GenerateParams struct {
	Date         *time.Time
	Hour         *int
	HistoryDays  int
	TopN         int
	RecentWeight *float64
}

type GeneratedSuggestion struct {
	SeatID        uuid.UUID
	Date          time.Time
	Factors       suggestion.Factors
	Reason        string
	IsRecommended bool
}

type SuggestionCommands interface {
	// Generate replaces the snapshot for the target date: it deletes prior
	// rows, scores every active seat, persists the batch and marks the
	// top-N. Running it twice on unchanged data yields the same snapshot.
	Generate(ctx context.Context, params GenerateParams) ([]GeneratedSuggestion, error)
	// Explain computes the factor breakdown for one seat without persisting.
	Explain(ctx context.Context, seatID uuid.UUID, params GenerateParams) (*GeneratedSuggestion, error)
}

type suggestionCommandsImpl struct {
	uow            shared.UnitOfWork
	seatRepo       SeatRepository
	roomRepo       RoomRepository
	bookingRepo    BookingRepository
	tempRepo       TemperatureRepository
	energyRepo     EnergyRepository
	suggestionRepo SuggestionRepository
	cache          SuggestionCache
	clock          clock.Clock
	logger         *slog.Logger
}

func NewSuggestionCommands(
	uow shared.UnitOfWork,
	seatRepo SeatRepository,
	roomRepo RoomRepository,
	bookingRepo BookingRepository,
	tempRepo TemperatureRepository,
	energyRepo EnergyRepository,
	suggestionRepo SuggestionRepository,
	cache SuggestionCache,
	clk clock.Clock,
	logger *slog.Logger,
) SuggestionCommands {
	return &suggestionCommandsImpl{
		uow:            uow,
		seatRepo:       seatRepo,
		roomRepo:       roomRepo,
		bookingRepo:    bookingRepo,
		tempRepo:       tempRepo,
		energyRepo:     energyRepo,
		suggestionRepo: suggestionRepo,
		cache:          cache,
		clock:          clk,
		logger:         logger,
	}
}

type resolvedParams struct {
	date         time.Time
	hour         int
	historyDays  int
	topN         int
	recentWeight float64
}

func (c *suggestionCommandsImpl) resolve(params GenerateParams) (resolvedParams, error) {
	now := c.clock.Now()

	r := resolvedParams{
		date:         truncateToDate(now),
		hour:         now.Hour(),
		historyDays:  suggestion.DefaultHistoryDays,
		topN:         suggestion.DefaultTopN,
		recentWeight: suggestion.DefaultRecentWeight,
	}
	if params.Date != nil {
		r.date = truncateToDate(*params.Date)
	}
	if params.Hour != nil {
		if *params.Hour < 0 || *params.Hour > 23 {
			return resolvedParams{}, ErrInvalidHour
		}
		r.hour = *params.Hour
	}
	if params.HistoryDays > 0 {
		r.historyDays = params.HistoryDays
	}
	if params.TopN > 0 {
		r.topN = params.TopN
	}
	if params.RecentWeight != nil {
		if *params.RecentWeight < 0 || *params.RecentWeight > 1 {
			return resolvedParams{}, ErrInvalidRecentWeight
		}
		r.recentWeight = *params.RecentWeight
	}
	return r, nil
}

func (c *suggestionCommandsImpl) Generate(ctx context.Context, params GenerateParams) ([]GeneratedSuggestion, error) {
	rp, err := c.resolve(params)
	if err != nil {
		return nil, err
	}
	now := c.clock.Now()

	var results []GeneratedSuggestion
	err = c.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		results = nil

		if err := c.suggestionRepo.DeleteByDate(ctx, tx, rp.date); err != nil {
			return errs.Mark(err, ErrGenerationFailed)
		}

		seats, err := c.seatRepo.ListActiveWithRooms(ctx, tx)
		if err != nil {
			return errs.Mark(err, ErrGenerationFailed)
		}

		rows := make([]SuggestionRow, 0, len(seats))
		for _, sw := range seats {
			factors, err := c.scoreSeat(ctx, tx, sw, rp, now)
			if err != nil {
				return err
			}

			results = append(results, GeneratedSuggestion{
				SeatID:  sw.Seat.ID(),
				Date:    rp.date,
				Factors: factors,
				Reason:  factors.Reason(),
			})
			rows = append(rows, SuggestionRow{
				ID:        uuid.New(),
				SeatID:    sw.Seat.ID(),
				Date:      rp.date,
				Score:     factors.Score,
				Reason:    factors.Reason(),
				CreatedAt: now,
			})
		}

		if err := c.suggestionRepo.InsertBatch(ctx, tx, rows); err != nil {
			return errs.Mark(err, ErrGenerationFailed)
		}

		recommended := markTopN(results, rows, rp.topN)
		if len(recommended) > 0 {
			if err := c.suggestionRepo.MarkRecommended(ctx, tx, recommended); err != nil {
				return errs.Mark(err, ErrGenerationFailed)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dateKey := rp.date.Format(time.DateOnly)
	if err := c.cache.Invalidate(ctx, dateKey); err != nil {
		c.logger.Warn("failed to invalidate suggestion cache", "date", dateKey, "error", err.Error())
	}

	c.logger.Info("suggestion snapshot generated",
		"date", dateKey, "hour", rp.hour, "seats", len(results))
	return results, nil
}

func (c *suggestionCommandsImpl) Explain(ctx context.Context, seatID uuid.UUID, params GenerateParams) (*GeneratedSuggestion, error) {
	rp, err := c.resolve(params)
	if err != nil {
		return nil, err
	}
	now := c.clock.Now()

	tx := c.uow.DB()
	st, err := c.seatRepo.FindByID(ctx, tx, seatID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	room, err := c.roomRepo.FindByID(ctx, tx, st.RoomID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	factors, err := c.scoreSeat(ctx, tx, SeatWithRoom{Seat: st, Room: room}, rp, now)
	if err != nil {
		return nil, err
	}

	return &GeneratedSuggestion{
		SeatID:  seatID,
		Date:    rp.date,
		Factors: factors,
		Reason:  factors.Reason(),
	}, nil
}

func (c *suggestionCommandsImpl) scoreSeat(ctx context.Context, tx db.DBTX, sw SeatWithRoom, rp resolvedParams, now time.Time) (suggestion.Factors, error) {
	weekday := int(rp.date.Weekday())

	recentCount, err := c.bookingRepo.CountByWeekdayHour(ctx, tx, sw.Seat.ID(),
		now.AddDate(0, 0, -rp.historyDays), weekday, rp.hour)
	if err != nil {
		return suggestion.Factors{}, errs.Mark(err, ErrGenerationFailed)
	}

	annualCount, err := c.bookingRepo.CountByWeekdayHour(ctx, tx, sw.Seat.ID(),
		now.AddDate(0, 0, -365), weekday, rp.hour)
	if err != nil {
		return suggestion.Factors{}, errs.Mark(err, ErrGenerationFailed)
	}

	avgTemp, err := c.tempRepo.AvgSince(ctx, tx, sw.Room.ID(),
		now.AddDate(0, 0, -suggestion.TempWindowDays))
	if err != nil {
		return suggestion.Factors{}, errs.Mark(err, ErrGenerationFailed)
	}

	powered := false
	state, err := c.energyRepo.FindByRoom(ctx, tx, sw.Room.ID())
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			return suggestion.Factors{}, errs.Mark(err, ErrGenerationFailed)
		}
	} else {
		powered = state.Powered()
	}

	return suggestion.Score(suggestion.Inputs{
		RecentCount:   recentCount,
		AnnualCount:   annualCount,
		HistoryDays:   rp.historyDays,
		RecentWeight:  rp.recentWeight,
		AvgRecentTemp: avgTemp,
		Exposure:      sw.Room.Exposure(),
		Month:         rp.date.Month(),
		RoomPowered:   powered,
	}), nil
}

// markTopN flags the best-scoring rows, breaking score ties by seat id so a
// regeneration over unchanged data marks the same set.
func markTopN(results []GeneratedSuggestion, rows []SuggestionRow, topN int) []uuid.UUID {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		fa, fb := results[order[a]], results[order[b]]
		if fa.Factors.Score != fb.Factors.Score {
			return fa.Factors.Score > fb.Factors.Score
		}
		return fa.SeatID.String() < fb.SeatID.String()
	})

	if topN > len(order) {
		topN = len(order)
	}

	ids := make([]uuid.UUID, 0, topN)
	for _, idx := range order[:topN] {
		results[idx].IsRecommended = true
		rows[idx].IsRecommended = true
		ids = append(ids, rows[idx].ID)
	}
	return ids
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
