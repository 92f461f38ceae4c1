package config

import (
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/course-authoring-service/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled      bool
	Publisher    string // kafka or channel
	KafkaBrokers string
	Topic        string
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	brokers := strings.Split(c.KafkaBrokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}
	return brokers
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using in-process channel publisher")
		return c.channelPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.Topic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.Topic,
			Logger:       logger,
		})
	case "channel":
		logger.Info("Using in-process channel event publisher")
		return c.channelPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to channel", "publisher", c.Publisher)
		return c.channelPublisher(logger), nil
	}
}

func (c *EventConfig) channelPublisher(logger *slog.Logger) events.EventPublisher {
	return events.NewChannelEventPublisher(events.NewGoChannel(logger), c.Topic, logger)
}
