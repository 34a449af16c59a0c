package handlers

import (
	"context"
	"net/http"
	"time"

	ic "irrigation_controller"
	"irrigation_controller/internal/models"
	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastGenUsername    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockZones struct {
	err       error
	calls     []string
	lastCount int
	lastZone  service.ZoneParams
	lastLimit float64
	lastRain  float64
	lastClock service.ClockParams
	zoneView  ic.ZoneView
	run       ic.ScheduleRun
	latest    ic.ScheduleRun
}

func (m *mockZones) Reset(ctx context.Context) error {
	m.calls = append(m.calls, "reset")
	return m.err
}
func (m *mockZones) LoadDefaults(ctx context.Context) error {
	m.calls = append(m.calls, "defaults")
	return m.err
}
func (m *mockZones) SetZoneCount(ctx context.Context, n int) error {
	m.calls = append(m.calls, "count")
	m.lastCount = n
	return m.err
}
func (m *mockZones) ConfigureZone(ctx context.Context, p service.ZoneParams) (ic.ZoneView, error) {
	m.calls = append(m.calls, "zone")
	m.lastZone = p
	return m.zoneView, m.err
}
func (m *mockZones) SetRainLimit(ctx context.Context, limit float64) error {
	m.calls = append(m.calls, "limit")
	m.lastLimit = limit
	return m.err
}
func (m *mockZones) SetRainReading(ctx context.Context, reading float64) error {
	m.calls = append(m.calls, "reading")
	m.lastRain = reading
	return m.err
}
func (m *mockZones) SetClock(ctx context.Context, p service.ClockParams) (time.Time, error) {
	m.calls = append(m.calls, "clock")
	m.lastClock = p
	return time.Date(p.Year, time.Month(p.Month), p.Day, p.Hour, p.Minute, 0, 0, time.UTC), m.err
}
func (m *mockZones) Schedule(ctx context.Context) (ic.ScheduleRun, error) {
	m.calls = append(m.calls, "schedule")
	return m.run, m.err
}
func (m *mockZones) LatestRun(ctx context.Context) (ic.ScheduleRun, error) {
	return m.latest, m.err
}

type mockMonitoring struct {
	state ic.ControllerState
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (ic.ControllerState, error) {
	return m.state, m.err
}

type mockCircles struct {
	views     []ic.CircleView
	extremes  ic.CircleExtremes
	err       error
	populated bool
	lastLow   float64
	lastHigh  float64
}

func (m *mockCircles) Populate(ctx context.Context) ([]ic.CircleView, error) {
	m.populated = m.err == nil
	return m.views, m.err
}
func (m *mockCircles) Populated() bool { return m.populated }
func (m *mockCircles) All(ctx context.Context) ([]ic.CircleView, error) {
	return m.views, m.err
}
func (m *mockCircles) Search(ctx context.Context, low, high float64) ([]ic.CircleView, error) {
	m.lastLow, m.lastHigh = low, high
	return m.views, m.err
}
func (m *mockCircles) Extremes(ctx context.Context) (ic.CircleExtremes, error) {
	return m.extremes, m.err
}

type mockEventLog struct {
	resp     []models.ControllerEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ControllerEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	h := NewHandler(s, nil, opts...)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
