package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service is reachable. *pgxpool.Pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of the health endpoints
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Cache     string    `json:"cache,omitempty"`
}

// HealthController reports service liveness
type HealthController struct {
	serviceName string
	version     string
	db          Pinger
	cache       Pinger
}

// NewHealthController creates a health controller. db and cache may be nil.
func NewHealthController(serviceName, version string, db, cache Pinger) *HealthController {
	return &HealthController{
		serviceName: serviceName,
		version:     version,
		db:          db,
		cache:       cache,
	}
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}

	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := p.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

// HealthCheck always answers 200; dependency state is reported in the body
func (h *HealthController) HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        pingStatus(ctx.Request.Context(), h.db),
		Cache:     pingStatus(ctx.Request.Context(), h.cache),
	})
}

// RegisterRoutes mounts /health and /healthz on r
func (h *HealthController) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
