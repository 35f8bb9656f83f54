package bootstrap

import (
	"context"
	"log/slog"

	ingest "seatsense/internal/ingest/mqtt"
	"seatsense/internal/pkg/config"
	"seatsense/internal/usecase/commands"

	"go.uber.org/fx"
)

var MQTTModule = fx.Module("mqtt",
	fx.Provide(
		NewMQTTSubscriber,
	),
	fx.Invoke(
		startMQTTSubscriber,
	),
)

func NewMQTTSubscriber(
	cfg config.Config,
	occupancy commands.OccupancyCommands,
	temperature commands.TemperatureCommands,
	logger *slog.Logger,
) *ingest.Subscriber {
	return ingest.NewSubscriber(cfg.MQTT, occupancy, temperature, logger)
}

func startMQTTSubscriber(lc fx.Lifecycle, sub *ingest.Subscriber) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return sub.Connect()
		},
		OnStop: func(_ context.Context) error {
			sub.Disconnect()
			return nil
		},
	})
}
