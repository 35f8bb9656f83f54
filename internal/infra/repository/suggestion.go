package repository

import (
	"context"
	"time"

	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
)

type SuggestionRepository struct{}

func NewSuggestionRepository() *SuggestionRepository {
	return &SuggestionRepository{}
}

// DeleteByDate clears the previous snapshot so generation stays idempotent
// per target date.
func (r *SuggestionRepository) DeleteByDate(ctx context.Context, tx db.DBTX, date time.Time) error {
	_, err := tx.Exec(ctx,
		`DELETE FROM seat_suggestions WHERE target_date = $1`, date)
	if err != nil {
		return infra.WrapRepoErr("failed to delete suggestions for date", err)
	}
	return nil
}

func (r *SuggestionRepository) InsertBatch(ctx context.Context, tx db.DBTX, rows []commands.SuggestionRow) error {
	for _, row := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO seat_suggestions (id, seat_id, target_date, score, reason, is_recommended, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			row.ID, row.SeatID, row.Date, row.Score, row.Reason, row.IsRecommended, row.CreatedAt)
		if err != nil {
			return infra.WrapRepoErr("failed to insert suggestion", err)
		}
	}
	return nil
}

func (r *SuggestionRepository) MarkRecommended(ctx context.Context, tx db.DBTX, ids []uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE seat_suggestions SET is_recommended = TRUE WHERE id = ANY($1)`, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to mark recommended suggestions", err)
	}
	return nil
}
