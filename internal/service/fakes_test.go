package service

import (
	"context"
	"sync"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/controller"
	"irrigation_controller/internal/models"
)

// memEventRepo records appends and filters them like the SQL query does.
type memEventRepo struct {
	mu        sync.Mutex
	events    []models.ControllerEvent
	appendErr error
	listErr   error

	gotFrom, gotTo time.Time
	gotType        string
}

func (r *memEventRepo) Append(ctx context.Context, e models.ControllerEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.ControllerEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gotFrom, r.gotTo, r.gotType = from, to, typ
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.ControllerEvent
	for _, e := range r.events {
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to) {
			continue
		}
		if typ != "" && e.Type != typ {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *memEventRepo) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type memRunRepo struct {
	mu        sync.Mutex
	runs      []ic.ScheduleRun
	saveErr   error
	latestErr error
}

func (r *memRunRepo) Save(ctx context.Context, run ic.ScheduleRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.runs = append(r.runs, run)
	return nil
}

func (r *memRunRepo) Latest(ctx context.Context) (ic.ScheduleRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latestErr != nil {
		return ic.ScheduleRun{}, r.latestErr
	}
	if len(r.runs) == 0 {
		return ic.ScheduleRun{}, nil
	}
	return r.runs[len(r.runs)-1], nil
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return p.err
}

func (p *fakePublisher) Close() {}

// seqSource replays fixed values regardless of bounds.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) Intn(low, high int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

var testClock = time.Date(2024, 4, 26, 7, 0, 0, 0, time.UTC)

type zoneFixture struct {
	svc    *ZoneService
	events *memEventRepo
	runs   *memRunRepo
	pub    *fakePublisher
}

func newZoneFixture() zoneFixture {
	f := zoneFixture{events: &memEventRepo{}, runs: &memRunRepo{}, pub: &fakePublisher{}}
	f.svc = NewZoneService(controller.New(controller.WithClock(testClock)), f.runs, f.events, f.pub, nil, nil)
	return f
}
