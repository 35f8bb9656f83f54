// Package mqtt subscribes to the device topics and feeds readings into the
// reconciliation and temperature usecases. A single subscription per topic
// keeps per-seat events in arrival order.
package mqtt

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"seatsense/internal/pkg/config"
	"seatsense/internal/usecase/commands"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const handleTimeout = 10 * time.Second

type temperaturePayload struct {
	RoomID      uuid.UUID `json:"room_id"`
	Temperature float64   `json:"temperature"`
}

type Subscriber struct {
	client      mqtt.Client
	cfg         config.MQTTConfig
	occupancy   commands.OccupancyCommands
	temperature commands.TemperatureCommands
	logger      *slog.Logger
}

func NewSubscriber(
	cfg config.MQTTConfig,
	occupancy commands.OccupancyCommands,
	temperature commands.TemperatureCommands,
	logger *slog.Logger,
) *Subscriber {
	s := &Subscriber{
		cfg:         cfg,
		occupancy:   occupancy,
		temperature: temperature,
		logger:      logger,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		logger.Info("connected to MQTT broker", "broker", cfg.Broker)
		// Re-subscribe on every (re)connect; subscriptions are not retained
		// across connection loss.
		s.subscribeAll()
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", "error", err.Error())
	})

	s.client = mqtt.NewClient(opts)
	return s
}

func (s *Subscriber) Connect() error {
	token := s.client.Connect()
	token.Wait()
	return token.Error()
}

func (s *Subscriber) Disconnect() {
	s.client.Disconnect(250)
}

func (s *Subscriber) subscribeAll() {
	if token := s.client.Subscribe(s.cfg.OccupancyTopic, 1, s.handleOccupancy); token.Wait() && token.Error() != nil {
		s.logger.Error("failed to subscribe to occupancy topic",
			"topic", s.cfg.OccupancyTopic, "error", token.Error().Error())
	}
	if token := s.client.Subscribe(s.cfg.TemperatureTopic, 1, s.handleTemperature); token.Wait() && token.Error() != nil {
		s.logger.Error("failed to subscribe to temperature topic",
			"topic", s.cfg.TemperatureTopic, "error", token.Error().Error())
	}
}

func (s *Subscriber) handleOccupancy(_ mqtt.Client, msg mqtt.Message) {
	var ev commands.OccupancyEvent
	if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
		s.logger.Warn("malformed occupancy payload", "topic", msg.Topic(), "error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := s.occupancy.Apply(ctx, ev); err != nil {
		// Dropped events are fine: occupancy delivery is at-least-once and
		// the sweep bounds how long a stale booking can linger.
		s.logger.Warn("occupancy event rejected",
			"device_id", ev.DeviceID, "occupied", ev.IsOccupied, "error", err.Error())
	}
}

func (s *Subscriber) handleTemperature(_ mqtt.Client, msg mqtt.Message) {
	var p temperaturePayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		s.logger.Warn("malformed temperature payload", "topic", msg.Topic(), "error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if _, err := s.temperature.Ingest(ctx, p.RoomID, p.Temperature); err != nil {
		s.logger.Warn("temperature reading rejected",
			"room_id", p.RoomID, "error", err.Error())
	}
}
