package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/controller"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/metrics"
	"irrigation_controller/internal/models"
	"irrigation_controller/internal/publisher"
	"irrigation_controller/internal/repository"

	"github.com/google/uuid"
)

// ZoneService serialises access to the single controller. Every successful
// mutation is written to the event log; log failures do not undo it.
type ZoneService struct {
	mu  sync.Mutex
	ctl *controller.Controller

	runRepo   repository.RunRepo
	eventRepo repository.EventRepo
	publisher publisher.Publisher
	metrics   *metrics.Metrics
	log       *logger.Logger
}

func NewZoneService(
	ctl *controller.Controller,
	runRepo repository.RunRepo,
	eventRepo repository.EventRepo,
	pub publisher.Publisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *ZoneService {
	if pub == nil {
		pub = publisher.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ZoneService{ctl: ctl, runRepo: runRepo, eventRepo: eventRepo, publisher: pub, metrics: m, log: log}
}

func (s *ZoneService) appendEvent(ctx context.Context, typ, desc string, meta map[string]any) {
	err := s.eventRepo.Append(ctx, models.ControllerEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    meta,
	})
	if err != nil {
		s.log.Warnw("event_append_failed", "type", typ, "err", err)
	}
}

// Reset discards all configuration and reloads the defaults.
func (s *ZoneService) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.ctl.ResetSystem()
	n := s.ctl.NumZones()
	s.mu.Unlock()

	s.appendEvent(ctx, models.EventReset, "System reset to defaults", map[string]any{"zones": n})
	return nil
}

// LoadDefaults reapplies the default zones and rain settings.
func (s *ZoneService) LoadDefaults(ctx context.Context) error {
	s.mu.Lock()
	s.ctl.LoadDefaults()
	n := s.ctl.NumZones()
	s.mu.Unlock()

	s.appendEvent(ctx, models.EventDefaults, "Defaults loaded", map[string]any{"zones": n})
	return nil
}

func (s *ZoneService) SetZoneCount(ctx context.Context, n int) error {
	s.mu.Lock()
	err := s.ctl.SetZoneCount(n)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.appendEvent(ctx, models.EventZoneCount, fmt.Sprintf("Zone count set to %d", n), map[string]any{"count": n})
	return nil
}

func (s *ZoneService) ConfigureZone(ctx context.Context, p ZoneParams) (ic.ZoneView, error) {
	s.mu.Lock()
	z, err := s.ctl.ConfigureZone(p.Sequence, p.OperationDate, p.StartTime, p.DurationMinutes)
	clock := s.ctl.Clock()
	s.mu.Unlock()
	if err != nil {
		return ic.ZoneView{}, err
	}

	view := zoneView(z, clock)
	s.appendEvent(ctx, models.EventZoneConfig, fmt.Sprintf("Zone %d configured", z.Sequence), map[string]any{
		"sequence":       z.Sequence,
		"operation_date": z.OperationDate,
		"start":          view.Start,
		"end":            view.End,
		"total_minutes":  z.TotalMinutes,
	})
	return view, nil
}

func (s *ZoneService) SetRainLimit(ctx context.Context, limit float64) error {
	s.mu.Lock()
	err := s.ctl.SetRainLimit(limit)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.appendEvent(ctx, models.EventRainLimit, fmt.Sprintf("Rain limit set to %.1f in", limit), map[string]any{"limit": limit})
	return nil
}

func (s *ZoneService) SetRainReading(ctx context.Context, reading float64) error {
	s.mu.Lock()
	err := s.ctl.SetRainReading(reading)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.metrics.ObserveRainReading(reading)
	s.appendEvent(ctx, models.EventRainReading, fmt.Sprintf("Rain reading %.1f in", reading), map[string]any{"reading": reading})
	return nil
}

// SetClock sets the controller date/time and returns the normalised value.
func (s *ZoneService) SetClock(ctx context.Context, p ClockParams) (time.Time, error) {
	s.mu.Lock()
	t := s.ctl.SetDateTime(p.Year, p.Month, p.Day, p.Hour, p.Minute)
	s.mu.Unlock()

	s.appendEvent(ctx, models.EventClock, "Clock set to "+t.Format("2006-01-02 15:04"), nil)
	return t, nil
}

// Schedule applies the rain rule and records the run. The zones have already
// changed when recording, logging or publishing runs, so those failures are
// logged and never returned.
func (s *ZoneService) Schedule(ctx context.Context) (ic.ScheduleRun, error) {
	s.mu.Lock()
	counts := s.ctl.Schedule()
	st := s.ctl.Snapshot()
	s.mu.Unlock()

	run := ic.ScheduleRun{
		RunID:       uuid.NewString(),
		RanAt:       time.Now().UTC(),
		RainReading: st.RainReading,
		RainLimit:   st.RainLimit,
		Policy:      st.Policy,
		Active:      counts.Active,
		Skipped:     counts.Skipped,
		Zones:       zoneViews(st.Zones, st.Clock),
	}

	s.metrics.ObserveSchedule(run.Policy, run.Active, run.Skipped)
	s.appendEvent(ctx, models.EventSchedule,
		fmt.Sprintf("Scheduled %d zones: %d on, %d skipped", len(run.Zones), run.Active, run.Skipped),
		map[string]any{"run_id": run.RunID, "reading": run.RainReading, "active": run.Active, "skipped": run.Skipped},
	)
	s.publish(ctx, run)

	if err := s.runRepo.Save(ctx, run); err != nil {
		s.metrics.ObserveAuditFailure()
		s.log.Warnw("schedule_record_failed", "run_id", run.RunID, "err", err)
		s.appendEvent(ctx, models.EventError, "Schedule run could not be recorded",
			map[string]any{"run_id": run.RunID, "err": err.Error()})
	}
	return run, nil
}

func (s *ZoneService) publish(ctx context.Context, run ic.ScheduleRun) {
	payload, err := json.Marshal(run)
	if err != nil {
		s.log.Errorw("schedule_encode_failed", "run_id", run.RunID, "err", err)
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.metrics.ObservePublishFailure()
		s.log.Warnw("schedule_publish_failed", "run_id", run.RunID, "err", err)
	}
}

// LatestRun returns the most recent schedule run, or a zero value.
func (s *ZoneService) LatestRun(ctx context.Context) (ic.ScheduleRun, error) {
	return s.runRepo.Latest(ctx)
}

func (s *ZoneService) snapshot() controller.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctl.Snapshot()
}

func (s *ZoneService) rainLimit() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctl.RainLimit()
}
