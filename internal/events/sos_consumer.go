package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/FleetPro/service-dashboard/internal/application"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
	"github.com/FleetPro/service-dashboard/internal/platform/kafka"
)

// AlertRaiser opens an SOS alert from a panic-button trigger.
type AlertRaiser interface {
	RaiseAlert(ctx context.Context, evt application.SOSTriggeredEvent) (*application.SOSAlertDTO, error)
}

// SOSEventConsumer listens to in-vehicle panic buttons and raises SOS alerts.
type SOSEventConsumer struct {
	consumer *kafka.Consumer
	raiser   AlertRaiser
	logger   *zap.Logger
}

// NewSOSEventConsumer creates a new SOSEventConsumer.
func NewSOSEventConsumer(
	brokers []string,
	groupID, topic string,
	raiser AlertRaiser,
	logger *zap.Logger,
) *SOSEventConsumer {
	return &SOSEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, topic, logger),
		raiser:   raiser,
		logger:   logger,
	}
}

// Start begins consuming. This blocks until the context is cancelled.
func (c *SOSEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *SOSEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *SOSEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from sos topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case application.EventSOSTriggered:
		return c.handleTriggered(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled sos event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *SOSEventConsumer) handleTriggered(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt application.SOSTriggeredEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse SOSTriggeredEvent data",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return nil
	}

	alert, err := c.raiser.RaiseAlert(ctx, evt)
	if err != nil {
		if domain.IsCode(err, domain.CodeValidation) {
			c.logger.Error("discarding invalid sos trigger",
				zap.String("event_id", cloudEvent.ID),
				zap.String("vehicle_number", evt.VehicleNumber),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to raise sos alert",
			zap.String("event_id", cloudEvent.ID),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("sos alert raised from panic button",
		zap.String("event_id", cloudEvent.ID),
		zap.String("alert_number", alert.AlertNumber),
		zap.String("vehicle_number", alert.VehicleNumber),
	)
	return nil
}
