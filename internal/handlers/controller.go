package handlers

import (
	"net/http"
	"strconv"

	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK          = "ok"
	statusReset       = "reset"
	statusDefaults    = "defaults_loaded"
	statusZoneCount   = "zone_count_set"
	statusRainLimit   = "rain_limit_set"
	statusRainReading = "rain_reading_set"
	statusClock       = "clock_set"
)

// Pointers let "required" accept legitimate zero values.
type zoneCountRequest struct {
	Count *int `json:"count" binding:"required"`
}

type zoneConfigRequest struct {
	OperationDate   *int `json:"operation_date" binding:"required"`
	StartTime       *int `json:"start_time" binding:"required,min=0"`
	DurationMinutes *int `json:"duration_minutes" binding:"required,min=0"`
}

type rainLimitRequest struct {
	Limit *float64 `json:"limit" binding:"required"`
}

type rainReadingRequest struct {
	Reading *float64 `json:"reading" binding:"required"`
}

// Month and day may be 0 or negative; they roll over like the other fields.
type clockRequest struct {
	Year   *int `json:"year" binding:"required"`
	Month  *int `json:"month" binding:"required"`
	Day    *int `json:"day" binding:"required"`
	Hour   *int `json:"hour" binding:"required"`
	Minute *int `json:"minute" binding:"required"`
}

// ZoneConfigRequest documents the zone payload for Swagger.
type ZoneConfigRequest struct {
	// Day offset from the controller date; negative is allowed
	OperationDate int `json:"operation_date" example:"0"`
	// Minutes from midnight
	StartTime int `json:"start_time" example:"480"`
	// Watering time in minutes
	DurationMinutes int `json:"duration_minutes" example:"30"`
}

// respondWithStatusAndState includes the current state when it can be loaded.
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	h.log.Infow("controller_updated", "status", status, "operator_id", operatorID(c))
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	if st, err := h.services.Monitoring.GetState(c.Request.Context()); err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Get controller state
// @Tags         controller
// @Produce      json
// @Success      200  {object}  irrigation_controller.ControllerState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/controller/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	st, err := h.services.Monitoring.GetState(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "controller_get_state_failed")
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Reset controller
// @Description  Discards every setting and reloads the defaults
// @Tags         controller
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/controller/reset [post]
// @Security     BearerAuth
func (h *Handler) resetSystem(c *gin.Context) {
	if err := h.services.Zones.Reset(c.Request.Context()); err != nil {
		h.respondError(c, err, "controller_reset_failed")
		return
	}
	h.respondWithStatusAndState(c, statusReset, nil)
}

// @Summary      Load defaults
// @Tags         controller
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/controller/defaults [post]
// @Security     BearerAuth
func (h *Handler) loadDefaults(c *gin.Context) {
	if err := h.services.Zones.LoadDefaults(c.Request.Context()); err != nil {
		h.respondError(c, err, "controller_defaults_failed")
		return
	}
	h.respondWithStatusAndState(c, statusDefaults, nil)
}

// @Summary      Set zone count
// @Description  Replaces the zones with count zeroed zones (1..64)
// @Tags         controller
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/controller/zones/count [post]
// @Security     BearerAuth
func (h *Handler) setZoneCount(c *gin.Context) {
	var req zoneCountRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Zones.SetZoneCount(c.Request.Context(), *req.Count); err != nil {
		h.respondError(c, err, "controller_zone_count_failed", "count", *req.Count)
		return
	}
	h.respondWithStatusAndState(c, statusZoneCount, gin.H{"count": *req.Count})
}

// @Summary      Configure zone
// @Tags         controller
// @Accept       json
// @Produce      json
// @Param        sequence  path  int                true  "1-based zone sequence"
// @Param        body      body  ZoneConfigRequest  true  "Zone timing"
// @Success      200  {object}  irrigation_controller.ZoneView
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/controller/zones/{sequence} [put]
// @Security     BearerAuth
func (h *Handler) configureZone(c *gin.Context) {
	seq, err := strconv.Atoi(c.Param("sequence"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sequence must be an integer"})
		return
	}
	var req zoneConfigRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	view, err := h.services.Zones.ConfigureZone(c.Request.Context(), service.ZoneParams{
		Sequence:        seq,
		OperationDate:   *req.OperationDate,
		StartTime:       *req.StartTime,
		DurationMinutes: *req.DurationMinutes,
	})
	if err != nil {
		h.respondError(c, err, "controller_configure_zone_failed", "sequence", seq)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary      Set rain limit
// @Description  Accepts 0.5, 1.0, 1.5 or 2.0 inches
// @Tags         controller
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/controller/rain/limit [put]
// @Security     BearerAuth
func (h *Handler) setRainLimit(c *gin.Context) {
	var req rainLimitRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Zones.SetRainLimit(c.Request.Context(), *req.Limit); err != nil {
		h.respondError(c, err, "controller_rain_limit_failed", "limit", *req.Limit)
		return
	}
	h.respondWithStatusAndState(c, statusRainLimit, gin.H{"limit": *req.Limit})
}

// @Summary      Set rain reading
// @Tags         controller
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/controller/rain/reading [put]
// @Security     BearerAuth
func (h *Handler) setRainReading(c *gin.Context) {
	var req rainReadingRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	if err := h.services.Zones.SetRainReading(c.Request.Context(), *req.Reading); err != nil {
		h.respondError(c, err, "controller_rain_reading_failed", "reading", *req.Reading)
		return
	}
	h.respondWithStatusAndState(c, statusRainReading, gin.H{"reading": *req.Reading})
}

// @Summary      Set clock
// @Description  Out-of-range fields roll over (month 13, February 30, ...)
// @Tags         controller
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/controller/clock [put]
// @Security     BearerAuth
func (h *Handler) setClock(c *gin.Context) {
	var req clockRequest
	if !h.bindJSONOrBadRequest(c, &req) {
		return
	}
	t, err := h.services.Zones.SetClock(c.Request.Context(), service.ClockParams{
		Year: *req.Year, Month: *req.Month, Day: *req.Day, Hour: *req.Hour, Minute: *req.Minute,
	})
	if err != nil {
		h.respondError(c, err, "controller_clock_failed")
		return
	}
	h.respondWithStatusAndState(c, statusClock, gin.H{"clock": t})
}

// @Summary      Run schedule
// @Description  Any rain skips every zone; a dry reading turns them on
// @Tags         controller
// @Produce      json
// @Success      200  {object}  irrigation_controller.ScheduleRun
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/controller/schedule [post]
// @Security     BearerAuth
func (h *Handler) runSchedule(c *gin.Context) {
	run, err := h.services.Zones.Schedule(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "controller_schedule_failed", "run_id", run.RunID)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary      Latest schedule run
// @Tags         controller
// @Produce      json
// @Success      200  {object}  irrigation_controller.ScheduleRun
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/controller/schedule/latest [get]
// @Security     BearerAuth
func (h *Handler) latestRun(c *gin.Context) {
	run, err := h.services.Zones.LatestRun(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "controller_latest_run_failed")
		return
	}
	if run.RunID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no schedule run yet"})
		return
	}
	c.JSON(http.StatusOK, run)
}
