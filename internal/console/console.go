// Package console drives the zone controller and the circle calculator from
// an interactive text menu.
package console

import (
	"context"
	"errors"

	ic "irrigation_controller"
	"irrigation_controller/internal/controller"
	"irrigation_controller/internal/prompt"
	"irrigation_controller/internal/service"
)

const (
	minutesPerDay = 24 * 60
	minYear       = 1970
	maxYear       = 9999
)

type Console struct {
	p       *prompt.Prompter
	zones   service.Zones
	monitor service.Monitoring
	circles service.Circles
}

func New(p *prompt.Prompter, zones service.Zones, monitor service.Monitoring, circles service.Circles) *Console {
	return &Console{p: p, zones: zones, monitor: monitor, circles: circles}
}

// Run shows the main menu until the operator quits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.p.Printf("\nMain menu:\n1 - Zone controller\n2 - Circle calculator\n0 - Quit\n")
		choice, err := c.p.IntInRange("Enter your choice: ", 0, 2)
		if err != nil {
			return quitOnEOF(err)
		}
		switch choice {
		case 0:
			c.p.Printf("Goodbye.\n")
			return nil
		case 1:
			err = c.zoneMenu(ctx)
		case 2:
			err = c.circleMenu(ctx)
		}
		if err != nil {
			return quitOnEOF(err)
		}
	}
}

func quitOnEOF(err error) error {
	if errors.Is(err, prompt.ErrNoInput) {
		return nil
	}
	return err
}

// report prints a service failure; only input errors end the menu.
func (c *Console) report(err error) {
	c.p.Printf("Error: %v\n", err)
}

func (c *Console) zoneMenu(ctx context.Context) error {
	for {
		c.p.Printf("\nZone controller:\n" +
			"1 - Show current state\n" +
			"2 - Load defaults\n" +
			"3 - Reset system\n" +
			"4 - Set number of zones\n" +
			"5 - Configure a zone\n" +
			"6 - Set rain limit\n" +
			"7 - Set rain reading\n" +
			"8 - Set date and time\n" +
			"9 - Run schedule\n" +
			"0 - Back\n")
		choice, err := c.p.IntInRange("Enter your choice: ", 0, 9)
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			return nil
		case 1:
			err = c.showState(ctx)
		case 2:
			if err = c.zones.LoadDefaults(ctx); err == nil {
				c.p.Printf("Defaults loaded.\n")
			}
		case 3:
			if err = c.zones.Reset(ctx); err == nil {
				c.p.Printf("System reset.\n")
			}
		case 4:
			err = c.setZoneCount(ctx)
		case 5:
			err = c.configureZone(ctx)
		case 6:
			err = c.setRainLimit(ctx)
		case 7:
			err = c.setRainReading(ctx)
		case 8:
			err = c.setClock(ctx)
		case 9:
			err = c.schedule(ctx)
		}
		if err != nil {
			if errors.Is(err, prompt.ErrNoInput) {
				return err
			}
			c.report(err)
		}
	}
}

func (c *Console) showState(ctx context.Context) error {
	st, err := c.monitor.GetState(ctx)
	if err != nil {
		return err
	}
	c.p.Printf("Date/time: %s\n", st.Clock.Format("2006-01-02 15:04"))
	c.p.Printf("Rain limit: %.1f in, reading: %.1f in, policy: %s\n", st.RainLimit, st.RainReading, st.Policy)
	c.printZones(st.Zones)
	if st.LastRun != nil {
		c.p.Printf("Last run %s: %d on, %d skipped\n", st.LastRun.RanAt.Format("2006-01-02 15:04:05"), st.LastRun.Active, st.LastRun.Skipped)
	}
	return nil
}

func (c *Console) printZones(zones []ic.ZoneView) {
	c.p.Printf("%-5s %-11s %-6s %-6s %-8s %s\n", "Zone", "Day", "Start", "End", "Minutes", "Status")
	for _, z := range zones {
		c.p.Printf("%-5d %-11s %-6s %-6s %-8d %s\n", z.Sequence, z.OperationDay, z.Start, z.End, z.TotalMinutes, zoneStatus(z))
	}
}

func zoneStatus(z ic.ZoneView) string {
	switch {
	case z.Skipped:
		return "skipped"
	case z.On:
		return "on"
	default:
		return "off"
	}
}

func (c *Console) setZoneCount(ctx context.Context) error {
	n, err := c.p.IntInRange("Number of zones: ", 1, controller.MaxZones)
	if err != nil {
		return err
	}
	if err := c.zones.SetZoneCount(ctx, n); err != nil {
		return err
	}
	c.p.Printf("Zone count set to %d. Previous zone settings were cleared.\n", n)
	return nil
}

func (c *Console) configureZone(ctx context.Context) error {
	st, err := c.monitor.GetState(ctx)
	if err != nil {
		return err
	}
	if st.NumZones == 0 {
		c.p.Printf("No zones configured. Set the number of zones first.\n")
		return nil
	}

	var p service.ZoneParams
	if p.Sequence, err = c.p.IntInRange("Zone number: ", 1, st.NumZones); err != nil {
		return err
	}
	if p.OperationDate, err = c.p.Int("Operation date (days from today): "); err != nil {
		return err
	}
	if p.StartTime, err = c.p.IntInRange("Start time (minutes after midnight): ", 0, minutesPerDay-1); err != nil {
		return err
	}
	if p.DurationMinutes, err = c.p.IntInRange("Duration (minutes): ", 0, minutesPerDay); err != nil {
		return err
	}

	z, err := c.zones.ConfigureZone(ctx, p)
	if err != nil {
		return err
	}
	c.p.Printf("Zone %d runs %s from %s to %s (%d minutes).\n", z.Sequence, z.OperationDay, z.Start, z.End, z.TotalMinutes)
	return nil
}

// setRainLimit re-prompts until the controller accepts the value.
func (c *Console) setRainLimit(ctx context.Context) error {
	limit, err := c.p.FloatCheck("Rain limit (0.5, 1.0, 1.5 or 2.0 inches): ", func(v float64) error {
		return c.zones.SetRainLimit(ctx, v)
	})
	if err != nil {
		return err
	}
	c.p.Printf("Rain limit set to %.1f inches.\n", limit)
	return nil
}

func (c *Console) setRainReading(ctx context.Context) error {
	reading, err := c.p.FloatCheck("Rain reading (inches): ", func(v float64) error {
		return c.zones.SetRainReading(ctx, v)
	})
	if err != nil {
		return err
	}
	c.p.Printf("Rain reading set to %.1f inches.\n", reading)
	return nil
}

func (c *Console) setClock(ctx context.Context) error {
	var (
		p   service.ClockParams
		err error
	)
	if p.Year, err = c.p.IntInRange("Year: ", minYear, maxYear); err != nil {
		return err
	}
	if p.Month, err = c.p.Int("Month: "); err != nil {
		return err
	}
	if p.Day, err = c.p.Int("Day: "); err != nil {
		return err
	}
	if p.Hour, err = c.p.Int("Hour: "); err != nil {
		return err
	}
	if p.Minute, err = c.p.Int("Minute: "); err != nil {
		return err
	}

	t, err := c.zones.SetClock(ctx, p)
	if err != nil {
		return err
	}
	c.p.Printf("Date/time set to %s.\n", t.Format("2006-01-02 15:04"))
	return nil
}

func (c *Console) schedule(ctx context.Context) error {
	run, err := c.zones.Schedule(ctx)
	if run.RunID == "" {
		return err
	}
	verdict := "no rain, zones watering"
	if run.RainReading > 0 {
		verdict = "rain detected, zones skipped"
	}
	c.p.Printf("Schedule applied (%s, reading %.1f in): %s.\n", run.Policy, run.RainReading, verdict)
	c.printZones(run.Zones)
	if err != nil {
		c.p.Printf("Warning: %v\n", err)
	}
	return nil
}

func (c *Console) circleMenu(ctx context.Context) error {
	for {
		c.p.Printf("\nCircle calculator:\n" +
			"1 - Populate all circles\n" +
			"2 - Search and display circles by radius range\n" +
			"3 - Display largest and smallest circle\n" +
			"0 - Back\n")
		choice, err := c.p.IntInRange("Enter your choice: ", 0, 3)
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			return nil
		case 1:
			err = c.populate(ctx)
		case 2:
			err = c.search(ctx)
		case 3:
			err = c.extremes(ctx)
		}
		if err != nil {
			if errors.Is(err, prompt.ErrNoInput) {
				return err
			}
			c.report(err)
		}
	}
}

func (c *Console) populate(ctx context.Context) error {
	if c.circles.Populated() {
		c.p.Printf("Circles already populated.\n")
		return nil
	}
	views, err := c.circles.Populate(ctx)
	if err != nil {
		return err
	}
	c.p.Printf("%d circles populated with random radius values.\n", len(views))
	return nil
}

func (c *Console) search(ctx context.Context) error {
	if !c.circles.Populated() {
		c.p.Printf("Circles must be populated first. Select option 1.\n")
		return nil
	}
	low, err := c.p.Float("Enter lower bound of radius range: ")
	if err != nil {
		return err
	}
	high, err := c.p.Float("Enter upper bound of radius range: ")
	if err != nil {
		return err
	}
	found, err := c.circles.Search(ctx, low, high)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		c.p.Printf("No circles found within the specified radius range.\n")
		return nil
	}
	for _, v := range found {
		c.printCircle(v)
	}
	return nil
}

func (c *Console) extremes(ctx context.Context) error {
	if !c.circles.Populated() {
		c.p.Printf("Circles must be populated first. Select option 1.\n")
		return nil
	}
	ext, err := c.circles.Extremes(ctx)
	if err != nil {
		return err
	}
	c.p.Printf("Circle with largest radius:\n")
	c.printCircle(ext.Largest)
	c.p.Printf("\nCircle with smallest radius:\n")
	c.printCircle(ext.Smallest)
	return nil
}

func (c *Console) printCircle(v ic.CircleView) {
	c.p.Printf("Circle with radius %.2f\n", v.Radius)
	c.p.Printf("Area: %.2f\n", v.Area)
	c.p.Printf("Circumference: %.2f\n", v.Circumference)
}
