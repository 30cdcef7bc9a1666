package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Pinger is anything whose liveness the health check reports.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			log.Error().Err(err).Msg("Health check failed")
			respond(c, http.StatusServiceUnavailable, "unavailable", map[string]interface{}{"database": "down"})
			return
		}
		respond(c, http.StatusOK, "ok", map[string]interface{}{"database": "up"})
	}
}
