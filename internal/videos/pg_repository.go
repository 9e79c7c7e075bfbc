package videos

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge/internal/models"
	"github.com/vidforge/vidforge/pkg/utils"
)

type Repository interface {
	CreateVideo(ctx context.Context, video *models.Video) (*models.Video, error)
	GetVideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error)
	GetVideos(ctx context.Context, userID uuid.UUID, pagination *utils.Pagination) (*models.VideoList, error)
	GetVideosByQuery(ctx context.Context, userID uuid.UUID, query string, pagination *utils.Pagination) (*models.VideoList, error)
	UpdateVideo(ctx context.Context, video *models.Video) (*models.Video, error)
	DeleteVideo(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) error
}
