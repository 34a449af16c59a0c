package service

import (
	"fmt"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/models"
)

const (
	minutesPerDay = 24 * 60
	dayLayout     = "2006-01-02"
)

// clockLabel renders minutes from midnight as HH:MM, wrapping past midnight.
func clockLabel(minutes int) string {
	m := ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func zoneView(z models.Zone, clock time.Time) ic.ZoneView {
	return ic.ZoneView{
		Sequence:      z.Sequence,
		OperationDate: z.OperationDate,
		OperationDay:  clock.AddDate(0, 0, z.OperationDate).Format(dayLayout),
		StartTime:     z.StartTime,
		TotalMinutes:  z.TotalMinutes,
		EndTime:       z.EndTime,
		Start:         clockLabel(z.StartTime),
		End:           clockLabel(z.EndTime),
		Skipped:       z.Skipped,
		On:            z.On,
	}
}

func zoneViews(zones []models.Zone, clock time.Time) []ic.ZoneView {
	out := make([]ic.ZoneView, len(zones))
	for i, z := range zones {
		out[i] = zoneView(z, clock)
	}
	return out
}

func circleView(i int, c models.Circle) ic.CircleView {
	return ic.CircleView{Index: i, Radius: c.Radius, Area: c.Area, Circumference: c.Circumference}
}
