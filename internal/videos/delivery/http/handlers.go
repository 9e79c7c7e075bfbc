package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vidforge/vidforge/internal/models"
	"github.com/vidforge/vidforge/internal/videos"
	"github.com/vidforge/vidforge/pkg/logger"
	"github.com/vidforge/vidforge/pkg/utils"
)

type videoHandler struct {
	videoUC videos.UseCase
	logger  logger.Logger
}

func NewVideoHandler(videoUC videos.UseCase, log logger.Logger) videos.Handler {
	return &videoHandler{
		videoUC: videoUC,
		logger:  log,
	}
}

// UploadVideo accepts a multipart form with a "file" part plus title and
// description fields. The response is the freshly created record, still in
// the uploaded state.
func (h *videoHandler) UploadVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "file is required"})
		}
		src, err := fileHeader.Open()
		if err != nil {
			h.logger.Errorf("UploadVideo - failed to open multipart file: %v", err)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "could not read uploaded file"})
		}
		defer src.Close()

		input := &models.UploadVideoInput{
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			FileName:    fileHeader.Filename,
			Size:        fileHeader.Size,
			MimeType:    fileHeader.Header.Get("Content-Type"),
			File:        src,
		}
		if input.Title == "" {
			input.Title = fileHeader.Filename
		}
		if input.MimeType == "" {
			input.MimeType = "application/octet-stream"
		}

		video, err := h.videoUC.UploadVideo(c.Request().Context(), input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, video)
	}
}

func (h *videoHandler) GetPresignUpload() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.PresignInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		presignUrl, err := h.videoUC.GetPresignUrl(c.Request().Context(), input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"presignUrl": presignUrl})
	}
}

func (h *videoHandler) GetVideoByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID, err := uuid.Parse(c.Param("video_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		video, err := h.videoUC.GetVideo(c.Request().Context(), videoID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, video)
	}
}

func (h *videoHandler) GetVideoStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID, err := uuid.Parse(c.Param("video_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		status, err := h.videoUC.GetVideoStatus(c.Request().Context(), videoID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, status)
	}
}

func (h *videoHandler) ListVideos() echo.HandlerFunc {
	return func(c echo.Context) error {
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		list, err := h.videoUC.ListVideos(c.Request().Context(), pagination)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	}
}

func (h *videoHandler) SearchVideos() echo.HandlerFunc {
	return func(c echo.Context) error {
		query := c.QueryParam("query")
		if query == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Query param is required"})
		}
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		list, err := h.videoUC.SearchVideos(c.Request().Context(), query, pagination)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	}
}

func (h *videoHandler) UpdateVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID, err := uuid.Parse(c.Param("video_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		input := &models.VideoUpdateInput{}
		if err = c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		video, err := h.videoUC.UpdateVideo(c.Request().Context(), videoID, input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, video)
	}
}

func (h *videoHandler) DeleteVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID, err := uuid.Parse(c.Param("video_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		if err = h.videoUC.DeleteVideo(c.Request().Context(), videoID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Video deleted successfully"})
	}
}

func (h *videoHandler) ReprocessVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		videoID, err := uuid.Parse(c.Param("video_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid video id"})
		}
		if err = h.videoUC.ReprocessVideo(c.Request().Context(), videoID); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusAccepted, map[string]string{"message": "Video queued for reprocessing"})
	}
}

func (h *videoHandler) QueueStats() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, h.videoUC.QueueStats())
	}
}
