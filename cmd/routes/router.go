package routes

import (
	"time"

	"jobboard-service/cmd/controllers"
	"jobboard-service/internal/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers is everything the route table is built from.
type Handlers struct {
	Auth    *controllers.AuthController
	Jobs    *controllers.JobController
	Gate    *auth.Gate
	Health  gin.HandlerFunc
	Limiter *controllers.RateLimiter
}

// NewRouter builds the engine with CORS, request logging and a per-request timeout.
func NewRouter(h Handlers, corsOrigins []string, requestTimeout time.Duration) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), controllers.RequestLogger())
	if len(corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if requestTimeout > 0 {
		router.Use(controllers.Timeout(requestTimeout))
	}

	router.GET("/healthz", h.Health)
	api := router.Group("/api")
	AuthRoute(api, h)
	JobRoute(api, h)
	return router
}
