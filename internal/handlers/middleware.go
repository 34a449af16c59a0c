package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const operatorCtxKey = "operatorId"

func (h *Handler) rejectUnauthorized(c *gin.Context, reason string) {
	h.log.Debugw("auth_rejected", "path", c.Request.URL.Path, "reason", reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
}

// operatorIdMiddleware requires a Bearer token and stores the operator ID.
func (h *Handler) operatorIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		h.rejectUnauthorized(c, "missing Authorization header")
		return
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		h.rejectUnauthorized(c, "invalid Authorization header format")
		return
	}

	operatorId, err := h.services.ParseToken(token)
	if err != nil {
		h.rejectUnauthorized(c, "invalid or expired token")
		return
	}

	c.Set(operatorCtxKey, operatorId)
	c.Next()
}

// operatorID returns the authenticated operator, or 0 outside the middleware.
func operatorID(c *gin.Context) int {
	return c.GetInt(operatorCtxKey)
}
