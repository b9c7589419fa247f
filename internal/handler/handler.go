package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hemovault/bloodbank-api/internal/model"
)

// Handler carries the cross-cutting endpoints (health, metrics).
type Handler struct {
	db *sqlx.DB
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, NewSuccessResponse(gin.H{"status": "alive"}))
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, NewErrorResponse("database unavailable"))
		return
	}
	c.JSON(http.StatusOK, NewSuccessResponse(gin.H{"status": "ready"}))
}

func (h *Handler) MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// ActorFrom reads the authenticated actor placed in the context by the
// auth middleware. Routes behind the middleware always have one.
func ActorFrom(c *gin.Context) (model.Actor, bool) {
	v, ok := c.Get("actor")
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return model.Actor{}, false
	}
	actor, ok := v.(model.Actor)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse("authentication required"))
		return model.Actor{}, false
	}
	return actor, true
}

func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
