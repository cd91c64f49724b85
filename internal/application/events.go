package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/FleetPro/service-dashboard/internal/platform/kafka"
)

// EventSource is the CloudEvents source of everything this service publishes.
const EventSource = "service-dashboard"

// Event types published on the fleet events topic.
const (
	EventRideRequestApproved  = "ride.request.approved"
	EventRideRequestRejected  = "ride.request.rejected"
	EventRideRequestCompleted = "ride.request.completed"
	EventRideRequestCancelled = "ride.request.cancelled"
	EventSOSAlertRaised       = "sos.alert.raised"
	EventSOSAlertAcknowledged = "sos.alert.acknowledged"
	EventSOSAlertResolved     = "sos.alert.resolved"
	EventEmployeeUpdated      = "employee.updated"
)

// EventSOSTriggered is consumed from the vehicle panic-button topic.
const EventSOSTriggered = "sos.triggered"

// RideRequestEvent is the payload of every ride.request.* event.
type RideRequestEvent struct {
	RequestID     string    `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	EmployeeName  string    `json:"employee_name"`
	Status        string    `json:"status"`
	Note          string    `json:"note,omitempty"`
	Actor         string    `json:"actor"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// SOSAlertEvent is the payload of every sos.alert.* event.
type SOSAlertEvent struct {
	AlertID       string    `json:"alert_id"`
	AlertNumber   string    `json:"alert_number"`
	VehicleNumber string    `json:"vehicle_number"`
	Location      string    `json:"location"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	Note          string    `json:"note,omitempty"`
	Actor         string    `json:"actor,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EmployeeUpdatedEvent is the payload of employee.updated.
type EmployeeUpdatedEvent struct {
	EmployeeID    string    `json:"employee_id"`
	EmployeeCode  string    `json:"employee_code"`
	ChangedFields []string  `json:"changed_fields"`
	Status        string    `json:"status"`
	Actor         string    `json:"actor"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// SOSTriggeredEvent is what an in-vehicle panic button sends.
type SOSTriggeredEvent struct {
	VehicleNumber string    `json:"vehicle_number"`
	DriverName    string    `json:"driver_name"`
	EmployeeName  string    `json:"employee_name"`
	Location      string    `json:"location"`
	Message       string    `json:"message"`
	Priority      string    `json:"priority"`
	TriggeredAt   time.Time `json:"triggered_at"`
}

// EventPublisher wraps a kafka.Publisher bound to one topic. Failures are
// logged and never returned to the caller.
type EventPublisher struct {
	publisher kafka.Publisher
	topic     string
	logger    *zap.Logger
}

// NewEventPublisher creates an EventPublisher for topic.
func NewEventPublisher(publisher kafka.Publisher, topic string, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{publisher: publisher, topic: topic, logger: logger}
}

func (p *EventPublisher) publish(ctx context.Context, eventType, subject string, data interface{}) {
	if p == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(EventSource, eventType, data)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = subject

	if err := p.publisher.PublishEvent(ctx, p.topic, cloudEvent); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", p.topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
