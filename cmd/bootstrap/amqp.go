package bootstrap

import (
	"context"
	"log/slog"

	"seatsense/internal/infra/notify"
	"seatsense/internal/pkg/config"
	"seatsense/internal/usecase/commands"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

var AMQPModule = fx.Module("amqp",
	fx.Provide(
		NewAMQPConnection,
		NewNotificationPublisher,
	),
)

func NewAMQPConnection(lc fx.Lifecycle, cfg config.Config) (*amqp.Connection, error) {
	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return conn.Close()
		},
	})

	return conn, nil
}

func NewNotificationPublisher(
	lc fx.Lifecycle,
	conn *amqp.Connection,
	cfg config.Config,
	logger *slog.Logger,
) (commands.NotificationPublisher, error) {
	publisher, err := notify.NewAMQPPublisher(conn, cfg.AMQP, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}
