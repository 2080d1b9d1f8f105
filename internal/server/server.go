package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	activitydomain "github.com/smallbiznis/badgescan/internal/activity/domain"
	"github.com/smallbiznis/badgescan/internal/config"
	frienddomain "github.com/smallbiznis/badgescan/internal/friendship/domain"
	"github.com/smallbiznis/badgescan/internal/observability"
	obslogger "github.com/smallbiznis/badgescan/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/badgescan/internal/observability/metrics"
	obstracing "github.com/smallbiznis/badgescan/internal/observability/tracing"
	"github.com/smallbiznis/badgescan/internal/ratelimit"
	scandomain "github.com/smallbiznis/badgescan/internal/scan/domain"
	userdomain "github.com/smallbiznis/badgescan/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	userSvc       userdomain.Service
	scanSvc       scandomain.Service
	activitySvc   activitydomain.Service
	friendshipSvc frienddomain.Service
	obsMetrics    *obsmetrics.Metrics
	scanLimiter   *ratelimit.ScanIngestLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	UserSvc       userdomain.Service
	ScanSvc       scandomain.Service
	ActivitySvc   activitydomain.Service
	FriendshipSvc frienddomain.Service
	ObsMetrics    *obsmetrics.Metrics          `optional:"true"`
	ScanLimiter   *ratelimit.ScanIngestLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		userSvc:       p.UserSvc,
		scanSvc:       p.ScanSvc,
		activitySvc:   p.ActivitySvc,
		friendshipSvc: p.FriendshipSvc,
		obsMetrics:    p.ObsMetrics,
		scanLimiter:   p.ScanLimiter,
	}

	svc.registerRoutes()
	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	users := s.engine.Group("/users")
	{
		users.GET("", s.ListUsers)
		users.GET("/:code", s.GetUser)
		users.PUT("/:code", s.UpdateUser)
		users.GET("/:code/friends", s.ListFriends)
		users.POST("/friend/:myBadgeCode/:friendBadgeCode", s.CreateFriendship)
		users.POST("/unfriend/:myBadgeCode/:friendBadgeCode", s.RemoveFriendship)
	}

	s.engine.PUT("/scan/:code", s.ScanIngestRateLimit(), s.RecordScan)
	s.engine.GET("/scans", s.ListScanStats)
}
