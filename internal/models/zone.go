package models

// Zone is one irrigation slot.
// EndTime always equals StartTime + TotalMinutes; Skipped and On belong to the scheduler.
type Zone struct {
	Sequence      int  `json:"sequence"`       // 1-based, fixed at allocation
	OperationDate int  `json:"operation_date"` // day offset from today, may be negative
	StartTime     int  `json:"start_time"`     // minutes from midnight
	TotalMinutes  int  `json:"total_minutes"`
	EndTime       int  `json:"end_time"`
	Skipped       bool `json:"skipped"`
	On            bool `json:"on"`
}

// Configure sets the timing inputs and recomputes EndTime.
// Values are taken as-is: range checks belong to the input layer.
func (z *Zone) Configure(operationDate, startTime, durationMinutes int) {
	z.OperationDate = operationDate
	z.StartTime = startTime
	z.TotalMinutes = durationMinutes
	z.EndTime = z.StartTime + z.TotalMinutes
}

// Reset zeroes the zone and assigns its sequence.
func (z *Zone) Reset(sequence int) {
	*z = Zone{Sequence: sequence}
}

// NewZones allocates n reset zones numbered 1..n.
func NewZones(n int) []Zone {
	zones := make([]Zone, n)
	for i := range zones {
		zones[i].Reset(i + 1)
	}
	return zones
}
