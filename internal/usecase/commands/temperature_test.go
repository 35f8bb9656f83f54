//go:build unit

package commands_test

import (
	"context"
	"math"
	"testing"

	"seatsense/internal/domain/seat"
	"seatsense/internal/pkg/clock"
	"seatsense/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemperatureCommands_Ingest(t *testing.T) {
	ctx := context.Background()

	newFixture := func() (*fakeRoomRepo, *fakeTemperatureRepo, commands.TemperatureCommands) {
		roomRepo := newFakeRoomRepo()
		tempRepo := newFakeTemperatureRepo()
		sut := commands.NewTemperatureCommands(fakeUoW{}, roomRepo, tempRepo, clock.NewMockClock(testNow))
		return roomRepo, tempRepo, sut
	}

	addRoom := func(roomRepo *fakeRoomRepo) *seat.Room {
		room := seat.ReconstructRoom(uuid.New(), "reading room", 1, seat.ExposureNorth)
		roomRepo.rooms[room.ID()] = room
		return room
	}

	t.Run("empty room gets everything off", func(t *testing.T) {
		roomRepo, tempRepo, sut := newFixture()
		room := addRoom(roomRepo)

		hint, err := sut.Ingest(ctx, room.ID(), 30.0)
		require.NoError(t, err)

		assert.Equal(t, commands.HVACOff, hint.Action)
		assert.False(t, hint.LightsOn)
		assert.Equal(t, 1, tempRepo.inserts)
	})

	t.Run("occupied room too warm asks for cooling", func(t *testing.T) {
		roomRepo, _, sut := newFixture()
		room := addRoom(roomRepo)
		roomRepo.confirmedAt[room.ID()] = true

		// March ideal is 22, tolerance 2 degrees.
		hint, err := sut.Ingest(ctx, room.ID(), 25.0)
		require.NoError(t, err)

		assert.Equal(t, commands.HVACCool, hint.Action)
		assert.True(t, hint.LightsOn)
	})

	t.Run("occupied room too cold asks for heating", func(t *testing.T) {
		roomRepo, _, sut := newFixture()
		room := addRoom(roomRepo)
		roomRepo.confirmedAt[room.ID()] = true

		hint, err := sut.Ingest(ctx, room.ID(), 18.0)
		require.NoError(t, err)

		assert.Equal(t, commands.HVACHeat, hint.Action)
		assert.True(t, hint.LightsOn)
	})

	t.Run("occupied room inside the dead band stays off", func(t *testing.T) {
		roomRepo, _, sut := newFixture()
		room := addRoom(roomRepo)
		roomRepo.confirmedAt[room.ID()] = true

		hint, err := sut.Ingest(ctx, room.ID(), 22.5)
		require.NoError(t, err)

		assert.Equal(t, commands.HVACOff, hint.Action)
		assert.True(t, hint.LightsOn)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, tempRepo, sut := newFixture()

		_, err := sut.Ingest(ctx, uuid.New(), 22.0)
		assert.ErrorIs(t, err, commands.ErrRoomNotFound)
		assert.Zero(t, tempRepo.inserts)
	})

	t.Run("non-finite readings are rejected before any write", func(t *testing.T) {
		roomRepo, tempRepo, sut := newFixture()
		room := addRoom(roomRepo)

		_, err := sut.Ingest(ctx, room.ID(), math.NaN())
		assert.ErrorIs(t, err, commands.ErrInvalidTemperature)

		_, err = sut.Ingest(ctx, room.ID(), math.Inf(1))
		assert.ErrorIs(t, err, commands.ErrInvalidTemperature)

		assert.Zero(t, tempRepo.inserts)
	})
}
