package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mehfilportal/admin-api/internal/model"
	apperrors "github.com/mehfilportal/admin-api/pkg/errors"
)

// ActorKey is the gin context key holding the authenticated karkun.
const ActorKey = "actor"

// Handler carries the health and metrics endpoints.
type Handler struct {
	db *sqlx.DB
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}

// Actor returns the authenticated karkun placed on the context by the
// auth middleware.
func Actor(c *gin.Context) (*model.Karkun, error) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return nil, apperrors.Unauthorized(nil)
	}
	actor, ok := v.(*model.Karkun)
	if !ok || actor == nil {
		return nil, apperrors.Unauthorized(nil)
	}
	return actor, nil
}
