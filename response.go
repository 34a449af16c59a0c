package irrigation_controller

import "time"

// ZoneView is one zone as reported by the API.
type ZoneView struct {
	Sequence      int    `json:"sequence"`
	OperationDate int    `json:"operation_date"` // day offset from the controller clock
	OperationDay  string `json:"operation_day"`  // YYYY-MM-DD
	StartTime     int    `json:"start_time"`     // minutes from midnight
	TotalMinutes  int    `json:"total_minutes"`
	EndTime       int    `json:"end_time"`
	Start         string `json:"start"` // HH:MM
	End           string `json:"end"`   // HH:MM
	Skipped       bool   `json:"skipped"`
	On            bool   `json:"on"`
}

// ControllerState is the current snapshot of the zone controller.
type ControllerState struct {
	NumZones    int          `json:"num_zones"`
	RainLimit   float64      `json:"rain_limit"`   // inches
	RainReading float64      `json:"rain_reading"` // inches
	Clock       time.Time    `json:"clock"`
	Policy      string       `json:"policy"` // all | single
	Zones       []ZoneView   `json:"zones"`
	LastRun     *ScheduleRun `json:"last_run,omitempty"`
}

// ScheduleRun records one application of the rain rule.
type ScheduleRun struct {
	RunID       string     `json:"run_id"`
	RanAt       time.Time  `json:"ran_at"`
	RainReading float64    `json:"rain_reading"`
	RainLimit   float64    `json:"rain_limit"`
	Policy      string     `json:"policy"`
	Active      int        `json:"active"`
	Skipped     int        `json:"skipped"`
	Zones       []ZoneView `json:"zones"`
}

// CircleView is a circle with its position in the populated collection.
type CircleView struct {
	Index         int     `json:"index"`
	Radius        float64 `json:"radius"`
	Area          float64 `json:"area"`
	Circumference float64 `json:"circumference"`
}

// CircleExtremes holds the largest and smallest circle.
type CircleExtremes struct {
	Largest  CircleView `json:"largest"`
	Smallest CircleView `json:"smallest"`
}
