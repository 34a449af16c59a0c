package handlers

import (
	"errors"
	"net/http"

	"irrigation_controller/internal/controller"
	"irrigation_controller/internal/geometry"
	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"
)

const errInvalidBodyPref = "invalid body: "

// statusFor maps service errors to HTTP codes. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, controller.ErrInvalidZoneCount),
		errors.Is(err, controller.ErrInvalidRainLimit),
		errors.Is(err, controller.ErrInvalidRainReading),
		errors.Is(err, geometry.ErrInvalidRange),
		errors.Is(err, service.ErrInvalidTimeRange):
		return http.StatusBadRequest
	case errors.Is(err, controller.ErrZoneNotFound):
		return http.StatusNotFound
	case errors.Is(err, geometry.ErrEmptyCollection),
		errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs and writes {"error": ...}. Internal errors hide their detail.
func (h *Handler) respondError(c *gin.Context, err error, logKey string, kv ...any) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
		h.log.Errorw(logKey, append([]any{"err", err}, kv...)...)
	} else {
		h.log.Infow(logKey, append([]any{"err", err}, kv...)...)
	}
	c.JSON(code, gin.H{"error": msg})
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	return true
}
