package readstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/pkg/config"
	"seatsense/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
)

const suggestionCachePrefix = "suggestions:"

// SuggestionReadStore serves saved snapshots through a Redis read-through
// cache. A cache outage degrades to direct reads, never to an error.
type SuggestionReadStore struct {
	db     db.DBTX
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewSuggestionReadStore(dbtx db.DBTX, rdb *redis.Client, cfg config.Config, logger *slog.Logger) *SuggestionReadStore {
	return &SuggestionReadStore{
		db:     dbtx,
		rdb:    rdb,
		ttl:    cfg.Redis.CacheTTL,
		logger: logger,
	}
}

func (r *SuggestionReadStore) ListByDate(ctx context.Context, date time.Time) ([]queries.SuggestionView, error) {
	key := suggestionCachePrefix + date.Format(time.DateOnly)

	if cached, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		var views []queries.SuggestionView
		if err := json.Unmarshal(cached, &views); err == nil {
			return views, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		r.logger.Warn("suggestion cache read failed", "key", key, "error", err.Error())
	}

	views, err := r.listFromDB(ctx, date)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(views); err == nil {
		if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("suggestion cache write failed", "key", key, "error", err.Error())
		}
	}
	return views, nil
}

// Invalidate drops the cached snapshot after a regeneration run.
func (r *SuggestionReadStore) Invalidate(ctx context.Context, date string) error {
	return r.rdb.Del(ctx, suggestionCachePrefix+date).Err()
}

func (r *SuggestionReadStore) listFromDB(ctx context.Context, date time.Time) ([]queries.SuggestionView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT g.seat_id, s.seat_identifier, g.target_date, g.score, g.reason, g.is_recommended
		FROM seat_suggestions g
		JOIN seats s ON s.id = g.seat_id
		WHERE g.target_date = $1
		ORDER BY g.is_recommended DESC, g.score DESC, g.seat_id`, date)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list suggestions", err)
	}
	defer rows.Close()

	views := make([]queries.SuggestionView, 0)
	for rows.Next() {
		var (
			v          queries.SuggestionView
			targetDate time.Time
		)
		if err := rows.Scan(&v.SeatID, &v.SeatIdentifier, &targetDate, &v.Score, &v.Reason, &v.IsRecommended); err != nil {
			return nil, infra.WrapRepoErr("failed to scan suggestion view", err)
		}
		v.Date = targetDate.Format(time.DateOnly)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate suggestion views", err)
	}
	return views, nil
}
