package service

import (
	"context"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/controller"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/metrics"
	"irrigation_controller/internal/models"
	"irrigation_controller/internal/publisher"
	"irrigation_controller/internal/random"
	"irrigation_controller/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Zones exposes the controller mutations and the schedule run.
type Zones interface {
	Reset(ctx context.Context) error
	LoadDefaults(ctx context.Context) error
	SetZoneCount(ctx context.Context, n int) error
	ConfigureZone(ctx context.Context, p ZoneParams) (ic.ZoneView, error)
	SetRainLimit(ctx context.Context, limit float64) error
	SetRainReading(ctx context.Context, reading float64) error
	SetClock(ctx context.Context, p ClockParams) (time.Time, error)
	Schedule(ctx context.Context) (ic.ScheduleRun, error)
	LatestRun(ctx context.Context) (ic.ScheduleRun, error)
}

// Monitoring exposes a read-only snapshot of the controller.
type Monitoring interface {
	GetState(ctx context.Context) (ic.ControllerState, error)
}

// Circles is the circle calculator.
type Circles interface {
	Populate(ctx context.Context) ([]ic.CircleView, error)
	Populated() bool
	All(ctx context.Context) ([]ic.CircleView, error)
	Search(ctx context.Context, low, high float64) ([]ic.CircleView, error)
	Extremes(ctx context.Context) (ic.CircleExtremes, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ControllerEvent, error)
}

// Simulator feeds synthetic rain readings until ctx is canceled.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

type Service struct {
	Zones
	Monitoring
	Circles
	EventLog
	Simulator
	Authorization
}

// Deps carries everything the services need beyond the repositories.
// Zero values are replaced with working defaults.
type Deps struct {
	Controller *controller.Controller
	Random     random.Source
	Publisher  publisher.Publisher
	Metrics    *metrics.Metrics
	Log        *logger.Logger

	SigningKey string
	TokenTTL   time.Duration

	CircleCount     int
	CircleMinRadius int
	CircleMaxRadius int

	RainChance float64
}

func (d *Deps) fill() {
	if d.Controller == nil {
		d.Controller = controller.New()
	}
	if d.Random == nil {
		d.Random = random.New(0)
	}
	if d.Publisher == nil {
		d.Publisher = publisher.Nop{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.TokenTTL <= 0 {
		d.TokenTTL = defaultTokenTTL
	}
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	deps.fill()

	zones := NewZoneService(deps.Controller, repos.RunRepo, repos.EventRepo, deps.Publisher, deps.Metrics, deps.Log)
	return &Service{
		Zones:      zones,
		Monitoring: NewMonitoringService(zones),
		Circles: NewCircleService(deps.Random, CircleSettings{
			Count:     deps.CircleCount,
			MinRadius: deps.CircleMinRadius,
			MaxRadius: deps.CircleMaxRadius,
		}, repos.EventRepo, deps.Metrics, deps.Log),
		EventLog:      NewEventLogService(repos.EventRepo),
		Simulator:     NewSimulatorService(zones, deps.Random, deps.RainChance, deps.Log),
		Authorization: NewAuthService(repos.Auth, deps.SigningKey, deps.TokenTTL),
	}
}
