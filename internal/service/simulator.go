package service

import (
	"context"
	"math"
	"time"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/random"
)

// Rain sensor simulation constants.
const (
	rainStep   = 0.1 // inches per sensor count
	percentMax = 100
)

// SimulatorService stands in for the rain sensor: every tick it stores a new
// reading and runs the scheduler.
type SimulatorService struct {
	zones      *ZoneService
	src        random.Source
	rainChance float64
	log        *logger.Logger
}

// NewSimulatorService returns a simulator. rainChance is clamped to [0, 1].
func NewSimulatorService(zones *ZoneService, src random.Source, rainChance float64, log *logger.Logger) *SimulatorService {
	if log == nil {
		log = logger.Nop()
	}
	return &SimulatorService{
		zones:      zones,
		src:        src,
		rainChance: math.Min(math.Max(rainChance, 0), 1),
		log:        log,
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.Step(ctx); err != nil {
				s.log.Warnw("simulator_step_failed", "err", err)
			}
		}
	}
}

// Step takes one reading and schedules the zones with it.
func (s *SimulatorService) Step(ctx context.Context) error {
	reading := s.nextReading(s.zones.rainLimit())
	if err := s.zones.SetRainReading(ctx, reading); err != nil {
		return err
	}
	run, err := s.zones.Schedule(ctx)
	if err != nil {
		return err
	}
	s.log.Debugw("simulator_tick", "reading", reading, "active", run.Active, "skipped", run.Skipped)
	return nil
}

// nextReading is 0 unless the rain roll hits; a wet reading is a whole number
// of 0.1 inch steps in (0, limit].
func (s *SimulatorService) nextReading(limit float64) float64 {
	if s.rainChance == 0 || float64(s.src.Intn(1, percentMax)) > s.rainChance*percentMax {
		return 0
	}
	steps := int(math.Round(limit / rainStep))
	if steps < 1 {
		steps = 1
	}
	return float64(s.src.Intn(1, steps)) / 10
}
