package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping() error
}

// SystemHandler serves the service descriptor and health probe
type SystemHandler struct {
	name    string
	version string
	redis   Pinger // nil when Redis is disabled
}

func NewSystemHandler(name, version string, redis Pinger) *SystemHandler {
	return &SystemHandler{name: name, version: version, redis: redis}
}

func (h *SystemHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
}

// Root describes the service
// @Summary Service descriptor
// @Tags System
// @Produce json
// @Success 200 {object} RootResponse
// @Router / [get]
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Name:    h.name,
		Version: h.version,
		Status:  "running",
		Docs:    "/swagger/index.html",
	})
}

// Health reports service and Redis state
// @Summary Health probe
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	redis := "disconnected"
	if h.redis != nil && h.redis.Ping() == nil {
		redis = "connected"
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Redis: redis})
}
