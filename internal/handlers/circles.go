package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const errBoundsInvalid = "low and high must be numbers"

// @Summary      Populate circles
// @Description  Draws a new random radius for every circle
// @Tags         circles
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, circles"
// @Router       /api/v1/circles/populate [post]
// @Security     BearerAuth
func (h *Handler) populateCircles(c *gin.Context) {
	views, err := h.services.Circles.Populate(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "circles_populate_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "circles": views})
}

// @Summary      List circles
// @Tags         circles
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, circles"
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/circles [get]
// @Security     BearerAuth
func (h *Handler) listCircles(c *gin.Context) {
	views, err := h.services.Circles.All(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "circles_list_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "circles": views})
}

// @Summary      Search circles by radius
// @Description  Inclusive range; no match returns count 0
// @Tags         circles
// @Produce      json
// @Param        low   query  number  true  "Lower radius bound"
// @Param        high  query  number  true  "Upper radius bound"
// @Success      200  {object}  map[string]interface{}  "count, circles"
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/circles/search [get]
// @Security     BearerAuth
func (h *Handler) searchCircles(c *gin.Context) {
	low, errLow := strconv.ParseFloat(c.Query("low"), 64)
	high, errHigh := strconv.ParseFloat(c.Query("high"), 64)
	if errLow != nil || errHigh != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBoundsInvalid})
		return
	}
	views, err := h.services.Circles.Search(c.Request.Context(), low, high)
	if err != nil {
		h.respondError(c, err, "circles_search_failed", "low", low, "high", high)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(views), "circles": views})
}

// @Summary      Largest and smallest circle
// @Tags         circles
// @Produce      json
// @Success      200  {object}  irrigation_controller.CircleExtremes
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/circles/extremes [get]
// @Security     BearerAuth
func (h *Handler) circleExtremes(c *gin.Context) {
	ext, err := h.services.Circles.Extremes(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "circles_extremes_failed")
		return
	}
	c.JSON(http.StatusOK, ext)
}
