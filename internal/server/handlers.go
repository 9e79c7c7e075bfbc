package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authHttp "github.com/vidforge/vidforge/internal/auth/delivery/http"
	authRepository "github.com/vidforge/vidforge/internal/auth/repository"
	authUsecase "github.com/vidforge/vidforge/internal/auth/usecase"
	"github.com/vidforge/vidforge/internal/middleware"
	"github.com/vidforge/vidforge/internal/notifier"
	"github.com/vidforge/vidforge/internal/processor"
	videoHttp "github.com/vidforge/vidforge/internal/videos/delivery/http"
	videoRepository "github.com/vidforge/vidforge/internal/videos/repository"
	videoUsecase "github.com/vidforge/vidforge/internal/videos/usecase"
	"github.com/vidforge/vidforge/pkg/utils"
)

const healthCPUCeiling = 95.0

func (s *Server) MapHandlers(e *echo.Echo) error {
	aRepo := authRepository.NewAuthRepo(s.db)
	vRepo := videoRepository.NewVideoRepo(s.db)
	vAWSRepo := videoRepository.NewAwsRepository(s.s3Client, s.preSignClient)

	notif := notifier.NewRedisNotifier(s.redisClient, s.cfg.Redis.NotifyPrefix, s.logger)
	inspector := processor.NewFFInspector(s.cfg.Processor.FFprobePath, s.cfg.Processor.FFmpegPath, s.logger)
	metrics := processor.NewMetrics(prometheus.DefaultRegisterer)

	s.queue = processor.NewQueue(processor.Config{
		MaxConcurrent: s.cfg.Processor.MaxConcurrent,
		PollInterval:  s.cfg.Processor.PollInterval(),
		VideoBucket:   s.cfg.S3.VideoBucket,
		MediaBucket:   s.cfg.S3.MediaBucket,
		TempDir:       s.cfg.Processor.TempDir,
		Keywords:      s.cfg.Processor.Keywords,
	}, vRepo, vAWSRepo, notif, inspector, s.logger, metrics)
	s.queue.Start()

	authUC := authUsecase.NewAuthUseCase(s.cfg, aRepo, s.logger)
	videoUC := videoUsecase.NewVideoUseCase(s.cfg, vRepo, vAWSRepo, s.queue, s.logger)

	authHandlers := authHttp.NewAuthHandler(s.cfg, authUC, s.logger)
	videoHandlers := videoHttp.NewVideoHandler(videoUC, s.logger)

	mw := middleware.NewMiddlewareManager(authUC, s.cfg, []string{"*"}, s.logger)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")
	authGroup := v1.Group("/auth")
	videoGroup := v1.Group("/videos")

	authHttp.MapAuthRoutes(authGroup, authHandlers, mw)
	videoHttp.MapVideoRoutes(videoGroup, videoHandlers, mw)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		healthy, cpuUsage := utils.CheckCPUUsage(healthCPUCeiling)
		status := http.StatusOK
		statusText := "OK"
		if !healthy {
			status = http.StatusServiceUnavailable
			statusText = "DEGRADED"
		}
		return c.JSON(status, map[string]interface{}{
			"status":    statusText,
			"cpu_usage": cpuUsage,
			"queue":     s.queue.Stats(),
		})
	})
	return nil
}
