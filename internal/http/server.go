// README: API gateway; builds the gin engine and registers routes.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"travelai/internal/http/handlers"
	"travelai/internal/http/middleware"
	"travelai/internal/infra"
)

type ServerDeps struct {
	Planner  handlers.Planner
	Verifier infra.TokenVerifier
	Limiter  middleware.Limiter
	Logger   *zap.Logger

	CORSOrigins     []string
	GenerateTimeout time.Duration
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Recovery(s.deps.Logger))
	r.Use(middleware.Logging(s.deps.Logger))
	if len(s.deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  s.deps.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	itineraryHandler := handlers.NewItineraryHandler(s.deps.Planner, s.deps.GenerateTimeout)

	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(s.deps.Verifier, s.deps.Logger))
	api.GET("/planner/options", itineraryHandler.Options)
	api.POST("/itineraries", middleware.RateLimit(s.deps.Limiter, s.deps.Logger), itineraryHandler.Generate)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
