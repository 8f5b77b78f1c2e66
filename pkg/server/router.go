package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkorsakov/dutyroster/pkg/metrics"
)

// Router builds the gin engine with middleware and all routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(s.logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if s.cfg.CORSAllowedOrigins == "*" || s.cfg.CORSAllowedOrigins == "" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = []string{s.cfg.CORSAllowedOrigins}
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", s.healthzHandler)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	r.GET("/auth/google", s.loginHandler)
	r.GET("/auth/google/callback", s.callbackHandler)
	r.GET("/logout", s.logoutHandler)

	api := r.Group("/api")
	api.Use(s.authenticated())
	{
		api.GET("/user", s.userHandler)
		api.GET("/schedule", s.scheduleHandler)
		api.POST("/schedule/save", s.saveScheduleHandler)
		api.GET("/schedule/latest", s.latestScheduleHandler)
		api.GET("/schedule/saved", s.savedScheduleHandler)
	}

	return r
}
