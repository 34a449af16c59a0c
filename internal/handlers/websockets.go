package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 1 * time.Second
	maxInterval      = 10 * time.Second
	maxIntervalMilli = 10_000
)

// Message types on the stream.
const (
	msgState    = "state"
	msgSchedule = "schedule"
)

type wsEnvelope struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// stateStream pushes controller snapshots to one client. A schedule message
// precedes the snapshot whenever a run the client has not seen appears.
type stateStream struct {
	conn      *websocket.Conn
	monitor   service.Monitoring
	log       *logger.Logger
	lastRunID string
}

func (s *stateStream) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

func (s *stateStream) push(ctx context.Context) error {
	st, err := s.monitor.GetState(ctx)
	if err != nil {
		s.log.Errorw("ws_get_state_failed", "err", err)
		return err
	}
	if st.LastRun != nil && st.LastRun.RunID != s.lastRunID {
		s.lastRunID = st.LastRun.RunID
		if err := s.write(wsEnvelope{Type: msgSchedule, Data: st.LastRun}); err != nil {
			return err
		}
	}
	return s.write(wsEnvelope{Type: msgState, Data: st})
}

func (s *stateStream) ping() error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.PingMessage, nil)
}

// drain reads until the client goes away so control frames are processed.
func (s *stateStream) drain(done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}

// @Summary      Controller state stream
// @Description  WebSocket upgrade. Sends {"type":"state","data":ControllerState} every interval and {"type":"schedule","data":ScheduleRun} when a new run is recorded. ?interval=2s or ?interval_ms=2000, max 10s.
// @Tags         controller
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stream := &stateStream{conn: conn, monitor: h.services.Monitoring, log: h.log}
	ctx := c.Request.Context()

	done := make(chan struct{})
	go stream.drain(done)

	if err := stream.push(ctx); err != nil {
		h.log.Infow("ws_write_failed_initial", "err", err)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	pings := time.NewTicker(pingPeriod)
	defer pings.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-pings.C:
			if err := stream.ping(); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case <-ticker.C:
			if err := stream.push(ctx); err != nil {
				h.log.Infow("ws_write_failed", "err", err)
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000; invalid or
// out-of-range values fall back to the default.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultInterval
}
