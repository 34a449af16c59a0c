package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"irrigation_controller/internal/models"
	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

var queryTimeLayouts = []string{time.RFC3339, layoutDateTime, layoutDate}

var errUnknownEventType = errors.New("unknown event type")

// @Summary      List logs
// @Description  Controller event history. Times accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD' (UTC). A date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query   string  false  "Start of range"  example(2024-04-26)
// @Param        to    query   string  false  "End of range, inclusive"  example(2024-04-30)
// @Param        type  query   string  false  "Event type"  Enums(RESET,DEFAULTS,ZONE_COUNT,ZONE_CONFIG,RAIN_LIMIT,RAIN_READING,CLOCK,SCHEDULE,POPULATE,ERROR)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	f, err := parseLogFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := h.services.EventLog.List(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err, "logs_list_failed", "from", f.From, "to", f.To, "type", f.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseLogFilter reads from, to and type. The type is upper-cased and must be known.
func parseLogFilter(c *gin.Context) (service.LogFilter, error) {
	var f service.LogFilter
	if qs := c.Query("from"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			return f, fmt.Errorf("from: %w", err)
		}
		f.From = t
	}
	if qs := c.Query("to"); qs != "" {
		t, err := parseQueryTime(qs)
		if err != nil {
			return f, fmt.Errorf("to: %w", err)
		}
		if !strings.ContainsAny(qs, "T ") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, service.ErrInvalidTimeRange
	}
	if typ := strings.ToUpper(strings.TrimSpace(c.Query("type"))); typ != "" {
		if !models.IsEventType(typ) {
			return f, fmt.Errorf("%w %q", errUnknownEventType, typ)
		}
		f.Type = typ
	}
	return f, nil
}

// parseQueryTime accepts any of queryTimeLayouts and returns UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range queryTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'", s)
}
