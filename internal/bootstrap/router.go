package bootstrap

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/Gorgija/ehour/internal/api/http"
	"github.com/Gorgija/ehour/internal/api/http/middleware"
	"github.com/Gorgija/ehour/internal/api/http/routes"
	"github.com/Gorgija/ehour/internal/auth"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	DB             httpapi.Pinger
	Services       *Services
	Logger         *slog.Logger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	logger := dep.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestIDMiddleware(logger), cors.New(corsConfig(dep.AllowedOrigins)))
	if dep.RateLimitRPS > 0 {
		r.Use(middleware.NewRateLimiter(dep.RateLimitRPS, dep.RateLimitBurst).Middleware())
	}

	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB).RegisterRoutes(r)

	svc := dep.Services
	routes.RegisterV1(r, routes.V1Deps{
		Users:       svc.Users,
		Projects:    svc.Projects,
		Assignments: svc.Assignments,
		Timesheets:  svc.Timesheets,
		Reports:     svc.Reports,
		Audit:       svc.Audit,
		Logger:      logger,
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", auth.HeaderUserID, middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
