package enums

import "fmt"

// EventSource identifies how a tracking event entered the system.
type EventSource string

const (
	EventSourceWebhook EventSource = "webhook"
	EventSourcePolling EventSource = "polling"
	EventSourceManual  EventSource = "manual"
)

var validEventSources = []EventSource{
	EventSourceWebhook,
	EventSourcePolling,
	EventSourceManual,
}

// String implements fmt.Stringer.
func (e EventSource) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventSource.
func (e EventSource) IsValid() bool {
	for _, candidate := range validEventSources {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventSource converts raw input into an EventSource.
func ParseEventSource(value string) (EventSource, error) {
	for _, candidate := range validEventSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event source %q", value)
}
