package service

import "time"

// ZoneParams configures one zone. Sequence is 1-based.
type ZoneParams struct {
	Sequence        int
	OperationDate   int // day offset, may be negative
	StartTime       int // minutes from midnight
	DurationMinutes int
}

// ClockParams are calendar fields; overflow is normalised.
type ClockParams struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "RESET", "ZONE_COUNT", "SCHEDULE", ...
}
