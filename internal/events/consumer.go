package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/segmentio/kafka-go"

	"heavyhaul-assistant/internal/config"
	"heavyhaul-assistant/internal/logging"
	"heavyhaul-assistant/internal/monitor"
)

// orderEvent is a status transition published by the TMS.
type orderEvent struct {
	OrderID int    `json:"order_id"`
	Status  string `json:"status"`
}

// Consumer feeds order status events from Kafka into the proactive monitor,
// so status alerts fire without waiting for the next poll cycle.
type Consumer struct {
	reader  *kafka.Reader
	monitor *monitor.Monitor
	logger  *logging.Logger
}

// NewConsumer builds a consumer, or returns nil when no broker is configured.
func NewConsumer(cfg config.Config, mon *monitor.Monitor, logger *logging.Logger) *Consumer {
	if cfg.Kafka.Broker == "" {
		return nil
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Kafka.Broker},
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	return &Consumer{reader: reader, monitor: mon, logger: logger}
}

// Run consumes events until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	c.logger.Infof("Order event consumer started")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			c.logger.Errorf("Read message failed: %v", err)
			continue
		}

		var event orderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Errorf("Unmarshal message failed: %v", err)
			continue
		}
		if event.OrderID == 0 || event.Status == "" {
			c.logger.Errorf("Invalid message: missing order_id or status")
			continue
		}

		c.monitor.NotifyStatusChange(event.OrderID, event.Status)
		c.logger.Debugf("Processed status event for order %d", event.OrderID)
	}
}

// Close releases the underlying Kafka reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
