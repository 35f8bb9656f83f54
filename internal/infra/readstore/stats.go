package readstore

import (
	"context"

	"seatsense/internal/infra"
	"seatsense/internal/infra/db"
	"seatsense/internal/usecase/queries"
)

type StatsReadStore struct {
	db db.DBTX
}

func NewStatsReadStore(dbtx db.DBTX) *StatsReadStore {
	return &StatsReadStore{db: dbtx}
}

func (r *StatsReadStore) AdminStats(ctx context.Context) (*queries.AdminStatsView, error) {
	byStatus, err := r.bookingsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	occupancy, err := r.roomOccupancy(ctx)
	if err != nil {
		return nil, err
	}

	temps, err := r.TemperatureStats(ctx)
	if err != nil {
		return nil, err
	}

	return &queries.AdminStatsView{
		BookingsByStatus: byStatus,
		RoomOccupancy:    occupancy,
		Temperature:      *temps,
	}, nil
}

func (r *StatsReadStore) TemperatureStats(ctx context.Context) (*queries.TemperatureStatsView, error) {
	var v queries.TemperatureStatsView
	err := r.db.QueryRow(ctx, `
		SELECT AVG(temperature), MAX(temperature), MIN(temperature)
		FROM temperature_readings`).
		Scan(&v.Average, &v.Max, &v.Min)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read temperature stats", err)
	}
	return &v, nil
}

func (r *StatsReadStore) bookingsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count bookings by status", err)
	}
	defer rows.Close()

	byStatus := make(map[string]int64)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan status count", err)
		}
		byStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate status counts", err)
	}
	return byStatus, nil
}

func (r *StatsReadStore) roomOccupancy(ctx context.Context) ([]queries.RoomOccupancyView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.name,
		       COUNT(s.id),
		       COUNT(s.id) FILTER (WHERE s.is_occupied)
		FROM rooms r
		LEFT JOIN seats s ON s.room_id = r.id AND s.is_active
		GROUP BY r.id, r.name
		ORDER BY r.name`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read room occupancy", err)
	}
	defer rows.Close()

	views := make([]queries.RoomOccupancyView, 0)
	for rows.Next() {
		var v queries.RoomOccupancyView
		if err := rows.Scan(&v.RoomID, &v.RoomName, &v.TotalSeats, &v.OccupiedSeats); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room occupancy", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate room occupancy", err)
	}
	return views, nil
}
