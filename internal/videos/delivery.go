package videos

import "github.com/labstack/echo/v4"

type Handler interface {
	UploadVideo() echo.HandlerFunc
	GetPresignUpload() echo.HandlerFunc
	GetVideoByID() echo.HandlerFunc
	GetVideoStatus() echo.HandlerFunc
	ListVideos() echo.HandlerFunc
	SearchVideos() echo.HandlerFunc
	UpdateVideo() echo.HandlerFunc
	DeleteVideo() echo.HandlerFunc
	ReprocessVideo() echo.HandlerFunc
	QueueStats() echo.HandlerFunc
}
