package route

import "fmt"

// Status is the closed set of route states.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusScheduled Status = "scheduled"
)

// IsValid returns true if the status is one of the three route states.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusScheduled:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid route status: %s", s)
	}
	return status, nil
}
