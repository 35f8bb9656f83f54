package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	btreeGistSQL = `CREATE EXTENSION IF NOT EXISTS btree_gist`

	roomsTableSQL = `
		CREATE TABLE IF NOT EXISTS rooms (
			id           uuid PRIMARY KEY,
			name         text NOT NULL UNIQUE,
			floor        integer NOT NULL,
			sun_exposure text NOT NULL
				CHECK (sun_exposure IN ('north', 'south', 'east', 'west')),
			created_at   timestamptz NOT NULL DEFAULT now()
		)`

	seatsTableSQL = `
		CREATE TABLE IF NOT EXISTS seats (
			id              uuid PRIMARY KEY,
			room_id         uuid NOT NULL REFERENCES rooms (id),
			seat_identifier uuid NOT NULL UNIQUE,
			is_active       boolean NOT NULL DEFAULT TRUE,
			is_occupied     boolean NOT NULL DEFAULT FALSE,
			created_at      timestamptz NOT NULL DEFAULT now(),
			updated_at      timestamptz NOT NULL DEFAULT now()
		)`

	usersTableSQL = `
		CREATE TABLE IF NOT EXISTS users (
			id            uuid PRIMARY KEY,
			email         text NOT NULL UNIQUE,
			username      text NOT NULL,
			password_hash text NOT NULL,
			role          text NOT NULL CHECK (role IN ('user', 'admin')),
			created_at    timestamptz NOT NULL DEFAULT now()
		)`

	// The exclusion constraint is the authority on double booking; the
	// application-level overlap count only exists for a friendlier error.
	// Repository code maps its 23P01 violation to a conflict.
	bookingsTableSQL = `
		CREATE TABLE IF NOT EXISTS bookings (
			id         uuid PRIMARY KEY,
			seat_id    uuid NOT NULL REFERENCES seats (id),
			user_id    uuid NOT NULL REFERENCES users (id),
			start_time timestamptz NOT NULL,
			end_time   timestamptz NOT NULL,
			status     text NOT NULL
				CHECK (status IN ('pending_checkin', 'confirmed', 'completed',
					'force_released', 'cancelled', 'expired')),
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now(),
			CHECK (start_time < end_time),
			EXCLUDE USING gist (
				seat_id WITH =,
				tstzrange(start_time, end_time) WITH &&
			) WHERE (status IN ('pending_checkin', 'confirmed'))
		)`

	bookingsIndexSQL = `
		CREATE INDEX IF NOT EXISTS bookings_seat_start_idx
			ON bookings (seat_id, start_time)`

	temperatureReadingsTableSQL = `
		CREATE TABLE IF NOT EXISTS temperature_readings (
			id          bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			room_id     uuid NOT NULL REFERENCES rooms (id),
			temperature double precision NOT NULL,
			recorded_at timestamptz NOT NULL
		)`

	temperatureReadingsIndexSQL = `
		CREATE INDEX IF NOT EXISTS temperature_readings_room_recorded_idx
			ON temperature_readings (room_id, recorded_at)`

	roomEnergyStateTableSQL = `
		CREATE TABLE IF NOT EXISTS room_energy_state (
			room_id            uuid PRIMARY KEY REFERENCES rooms (id),
			lights_on          boolean NOT NULL DEFAULT FALSE,
			ac_on              boolean NOT NULL DEFAULT FALSE,
			target_temperature double precision,
			updated_at         timestamptz NOT NULL
		)`

	seatSuggestionsTableSQL = `
		CREATE TABLE IF NOT EXISTS seat_suggestions (
			id             uuid PRIMARY KEY,
			seat_id        uuid NOT NULL REFERENCES seats (id),
			target_date    date NOT NULL,
			score          double precision NOT NULL,
			reason         text NOT NULL,
			is_recommended boolean NOT NULL DEFAULT FALSE,
			created_at     timestamptz NOT NULL,
			UNIQUE (seat_id, target_date)
		)`
)

// EnsureSchema creates all tables if they do not exist yet. Statements run in
// dependency order so foreign keys resolve on a fresh database.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		btreeGistSQL,
		roomsTableSQL,
		seatsTableSQL,
		usersTableSQL,
		bookingsTableSQL,
		bookingsIndexSQL,
		temperatureReadingsTableSQL,
		temperatureReadingsIndexSQL,
		roomEnergyStateTableSQL,
		seatSuggestionsTableSQL,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
