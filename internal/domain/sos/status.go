package sos

import "fmt"

// AlertStatus is the lifecycle state of an SOS alert.
type AlertStatus string

const (
	StatusOpen         AlertStatus = "open"
	StatusAcknowledged AlertStatus = "acknowledged"
	StatusResolved     AlertStatus = "resolved"
)

var validTransitions = map[AlertStatus][]AlertStatus{
	StatusOpen:         {StatusAcknowledged, StatusResolved},
	StatusAcknowledged: {StatusResolved},
	StatusResolved:     {},
}

// IsValid returns true if the status is recognized.
func (s AlertStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s AlertStatus) CanTransitionTo(target AlertStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ParseAlertStatus converts a string to an AlertStatus.
func ParseAlertStatus(s string) (AlertStatus, error) {
	status := AlertStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid sos alert status: %s", s)
	}
	return status, nil
}

// Priority ranks how urgently an alert needs attention.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid returns true if the priority is recognized.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}
