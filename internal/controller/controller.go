// Package controller owns the zone collection and rain sensor settings.
package controller

import (
	"errors"
	"fmt"
	"math"
	"time"

	"irrigation_controller/internal/models"
	"irrigation_controller/internal/scheduler"
)

// Defaults applied by LoadDefaults.
const (
	DefaultZoneCount   = 5
	DefaultRainLimit   = 2.0
	DefaultRainReading = 0.0

	defaultFirstStart = 480 // 08:00
	defaultStagger    = 30
	defaultDuration   = 30

	MaxZones = 64

	rainLimitMin  = 0.5
	rainLimitMax  = 2.0
	rainLimitStep = 0.5
)

var (
	ErrInvalidZoneCount   = errors.New("invalid zone count")
	ErrInvalidRainLimit   = errors.New("rain limit must be 0.5, 1.0, 1.5 or 2.0 inches")
	ErrInvalidRainReading = errors.New("rain reading must be a non-negative number")
	ErrZoneNotFound       = errors.New("zone not found")
)

// Controller is the configuration store. It is not safe for concurrent use;
// callers serialise access and hand out Snapshot values.
type Controller struct {
	zones       []models.Zone
	rainLimit   float64
	rainReading float64
	clock       time.Time
	location    *time.Location
	policy      scheduler.Policy
}

// Option customises a Controller.
type Option func(*Controller)

// WithPolicy sets the scheduling policy (default scheduler.AllZones).
func WithPolicy(p scheduler.Policy) Option {
	return func(c *Controller) {
		if p != nil {
			c.policy = p
		}
	}
}

// WithClock sets the initial current date/time.
func WithClock(t time.Time) Option {
	return func(c *Controller) {
		c.clock = t
		c.location = t.Location()
	}
}

// New returns a controller already at its defaults.
func New(opts ...Option) *Controller {
	now := time.Now()
	c := &Controller{
		policy:   scheduler.AllZones{},
		clock:    now,
		location: now.Location(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.LoadDefaults()
	return c
}

// LoadDefaults restores the baseline: five zones on a 30 minute ladder
// starting at 08:00, limit 2.0, no rain.
func (c *Controller) LoadDefaults() {
	c.zones = models.NewZones(DefaultZoneCount)
	for i := range c.zones {
		c.zones[i].Configure(0, defaultFirstStart+i*defaultStagger, defaultDuration)
	}
	c.rainLimit = DefaultRainLimit
	c.rainReading = DefaultRainReading
}

// ResetSystem discards every setting and reloads the defaults.
func (c *Controller) ResetSystem() {
	c.zones = nil
	c.rainLimit = 0
	c.rainReading = 0
	c.LoadDefaults()
}

// SetZoneCount replaces the collection with n zeroed zones.
// The previous zone configuration is dropped.
func (c *Controller) SetZoneCount(n int) error {
	if n <= 0 || n > MaxZones {
		return fmt.Errorf("%w: %d (allowed 1..%d)", ErrInvalidZoneCount, n, MaxZones)
	}
	c.zones = models.NewZones(n)
	return nil
}

// NumZones is always len of the current collection.
func (c *Controller) NumZones() int { return len(c.zones) }

// ConfigureZone sets the timing of the zone with the given 1-based sequence.
func (c *Controller) ConfigureZone(sequence, operationDate, startTime, durationMinutes int) (models.Zone, error) {
	if sequence < 1 || sequence > len(c.zones) {
		return models.Zone{}, fmt.Errorf("%w: sequence %d (have %d zones)", ErrZoneNotFound, sequence, len(c.zones))
	}
	z := &c.zones[sequence-1]
	z.Configure(operationDate, startTime, durationMinutes)
	return *z, nil
}

// SetRainLimit accepts 0.5, 1.0, 1.5 or 2.0.
func (c *Controller) SetRainLimit(limit float64) error {
	if !validRainLimit(limit) {
		return fmt.Errorf("%w: got %v", ErrInvalidRainLimit, limit)
	}
	c.rainLimit = limit
	return nil
}

func validRainLimit(limit float64) bool {
	if math.IsNaN(limit) || limit < rainLimitMin || limit > rainLimitMax {
		return false
	}
	steps := limit / rainLimitStep
	return steps == math.Trunc(steps)
}

// RainLimit returns the configured limit.
func (c *Controller) RainLimit() float64 { return c.rainLimit }

// SetRainReading stores the current sensor value.
func (c *Controller) SetRainReading(reading float64) error {
	if math.IsNaN(reading) || math.IsInf(reading, 0) || reading < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidRainReading, reading)
	}
	c.rainReading = reading
	return nil
}

// RainReading returns the last stored sensor value.
func (c *Controller) RainReading() float64 { return c.rainReading }

// SetDateTime sets the current date/time from calendar fields. Out-of-range
// fields wrap the way mktime does: month 13 is January of the next year,
// February 30 rolls into March, and so on.
func (c *Controller) SetDateTime(year, month, day, hour, minute int) time.Time {
	c.clock = time.Date(year, time.Month(month), day, hour, minute, 0, 0, c.location)
	return c.clock
}

// Clock returns the current date/time.
func (c *Controller) Clock() time.Time { return c.clock }

// Policy returns the active scheduling policy.
func (c *Controller) Policy() scheduler.Policy { return c.policy }

// Schedule applies the policy with the current rain reading.
func (c *Controller) Schedule() scheduler.Counts {
	c.policy.Apply(c.zones, c.rainReading)
	return scheduler.Summary(c.zones)
}

// Zones returns a copy of the collection.
func (c *Controller) Zones() []models.Zone {
	out := make([]models.Zone, len(c.zones))
	copy(out, c.zones)
	return out
}

// State is a by-value view of the controller.
type State struct {
	NumZones    int
	RainLimit   float64
	RainReading float64
	Clock       time.Time
	Policy      string
	Zones       []models.Zone
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() State {
	return State{
		NumZones:    len(c.zones),
		RainLimit:   c.rainLimit,
		RainReading: c.rainReading,
		Clock:       c.clock,
		Policy:      c.policy.Name(),
		Zones:       c.Zones(),
	}
}
