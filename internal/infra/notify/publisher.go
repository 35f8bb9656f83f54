// Package notify publishes booking notifications to a RabbitMQ exchange.
// A separate mailer process consumes them; from the core's perspective
// delivery is best-effort and a publish failure is only logged.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"seatsense/internal/pkg/config"
	"seatsense/internal/pkg/errs"
	"seatsense/internal/usecase/commands"

	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPPublisher struct {
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

func NewAMQPPublisher(conn *amqp.Connection, cfg config.AMQPConfig, logger *slog.Logger) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, errs.Wrap(err, "failed to open AMQP channel")
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, errs.Wrap(err, "failed to declare notification exchange")
	}

	return &AMQPPublisher{
		channel:  ch,
		exchange: cfg.Exchange,
		logger:   logger,
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, n commands.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return errs.Wrap(err, "failed to encode notification")
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		string(n.Kind), // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return errs.Wrap(err, "failed to publish notification")
	}

	p.logger.Debug("notification published",
		"kind", string(n.Kind), "booking_id", n.BookingID)
	return nil
}

func (p *AMQPPublisher) Close() error {
	return p.channel.Close()
}
