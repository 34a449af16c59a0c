package models

import "time"

// Event types written to the controller log.
const (
	EventReset       = "RESET"
	EventDefaults    = "DEFAULTS"
	EventZoneCount   = "ZONE_COUNT"
	EventZoneConfig  = "ZONE_CONFIG"
	EventRainLimit   = "RAIN_LIMIT"
	EventRainReading = "RAIN_READING"
	EventClock       = "CLOCK"
	EventSchedule    = "SCHEDULE"
	EventPopulate    = "POPULATE"
	EventError       = "ERROR"
)

// ControllerEvent is a single log entry.
type ControllerEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}

var eventTypes = map[string]struct{}{
	EventReset: {}, EventDefaults: {}, EventZoneCount: {}, EventZoneConfig: {},
	EventRainLimit: {}, EventRainReading: {}, EventClock: {}, EventSchedule: {},
	EventPopulate: {}, EventError: {},
}

// IsEventType reports whether t is one of the Event* constants.
func IsEventType(t string) bool {
	_, ok := eventTypes[t]
	return ok
}
