package http

import (
	"github.com/labstack/echo/v4"

	"github.com/vidforge/vidforge/internal/middleware"
	"github.com/vidforge/vidforge/internal/videos"
)

func MapVideoRoutes(videoGroup *echo.Group, h videos.Handler, mw *middleware.MiddlewareManager) {
	videoGroup.Use(mw.AuthJWTMiddleware)
	videoGroup.POST("/upload", h.UploadVideo())
	videoGroup.POST("/get-upload-url", h.GetPresignUpload())
	videoGroup.GET("/list-videos", h.ListVideos())
	videoGroup.GET("/search", h.SearchVideos())
	videoGroup.GET("/queue/stats", h.QueueStats())
	videoGroup.GET("/:video_id", h.GetVideoByID())
	videoGroup.GET("/:video_id/status", h.GetVideoStatus())
	videoGroup.POST("/:video_id/reprocess", h.ReprocessVideo())
	videoGroup.PUT("/:video_id", h.UpdateVideo())
	videoGroup.DELETE("/:video_id", h.DeleteVideo())
}
