package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/geometry"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/metrics"
	"irrigation_controller/internal/models"
	"irrigation_controller/internal/random"
	"irrigation_controller/internal/repository"

	"github.com/google/uuid"
)

// CircleSettings sizes the collection and the populate range.
type CircleSettings struct {
	Count     int
	MinRadius int
	MaxRadius int
}

func (c *CircleSettings) fill() {
	if c.Count <= 0 {
		c.Count = geometry.DefaultCount
	}
	if c.MinRadius <= 0 {
		c.MinRadius = geometry.DefaultMinRadius
	}
	if c.MaxRadius <= 0 {
		c.MaxRadius = geometry.DefaultMaxRadius
	}
}

// CircleService holds one circle collection. Until Populate succeeds every
// query returns geometry.ErrEmptyCollection.
type CircleService struct {
	mu        sync.Mutex
	circles   []models.Circle
	populated bool

	src       random.Source
	settings  CircleSettings
	eventRepo repository.EventRepo
	metrics   *metrics.Metrics
	log       *logger.Logger
}

func NewCircleService(src random.Source, settings CircleSettings, eventRepo repository.EventRepo, m *metrics.Metrics, log *logger.Logger) *CircleService {
	settings.fill()
	if log == nil {
		log = logger.Nop()
	}
	return &CircleService{
		circles:   make([]models.Circle, settings.Count),
		src:       src,
		settings:  settings,
		eventRepo: eventRepo,
		metrics:   m,
		log:       log,
	}
}

// Populate draws a fresh radius for every circle and derives area and
// circumference. Repopulating replaces the previous values.
func (s *CircleService) Populate(ctx context.Context) ([]ic.CircleView, error) {
	s.mu.Lock()
	next := make([]models.Circle, s.settings.Count)
	if err := geometry.Populate(next, s.src, s.settings.MinRadius, s.settings.MaxRadius); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	geometry.DeriveAreas(next)
	geometry.DeriveCircumferences(next)
	s.circles = next
	s.populated = true
	views := s.viewsLocked()
	s.mu.Unlock()

	s.metrics.ObservePopulate()
	err := s.eventRepo.Append(ctx, models.ControllerEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventPopulate,
		Description: fmt.Sprintf("Populated %d circles", len(views)),
		Metadata:    map[string]any{"count": len(views), "min": s.settings.MinRadius, "max": s.settings.MaxRadius},
	})
	if err != nil {
		s.log.Warnw("event_append_failed", "type", models.EventPopulate, "err", err)
	}
	return views, nil
}

func (s *CircleService) Populated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.populated
}

func (s *CircleService) viewsLocked() []ic.CircleView {
	out := make([]ic.CircleView, len(s.circles))
	for i, c := range s.circles {
		out[i] = circleView(i, c)
	}
	return out
}

func (s *CircleService) All(ctx context.Context) ([]ic.CircleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.populated {
		return nil, geometry.ErrEmptyCollection
	}
	return s.viewsLocked(), nil
}

// Search returns circles with low <= radius <= high in collection order.
// No match is an empty slice, not an error.
func (s *CircleService) Search(ctx context.Context, low, high float64) ([]ic.CircleView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.populated {
		return nil, geometry.ErrEmptyCollection
	}
	idx := geometry.MatchRadiusRange(s.circles, low, high)
	out := make([]ic.CircleView, 0, len(idx))
	for _, i := range idx {
		out = append(out, circleView(i, s.circles[i]))
	}
	return out, nil
}

func (s *CircleService) Extremes(ctx context.Context) (ic.CircleExtremes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.populated {
		return ic.CircleExtremes{}, geometry.ErrEmptyCollection
	}
	largest, smallest, err := geometry.Extremes(s.circles)
	if err != nil {
		return ic.CircleExtremes{}, err
	}
	return ic.CircleExtremes{
		Largest:  circleView(largest, s.circles[largest]),
		Smallest: circleView(smallest, s.circles[smallest]),
	}, nil
}
