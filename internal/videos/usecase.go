package videos

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge/internal/models"
	"github.com/vidforge/vidforge/internal/processor"
	"github.com/vidforge/vidforge/pkg/utils"
)

type UseCase interface {
	UploadVideo(ctx context.Context, input *models.UploadVideoInput) (*models.Video, error)
	GetPresignUrl(ctx context.Context, input *models.PresignInput) (string, error)
	GetVideo(ctx context.Context, videoID uuid.UUID) (*models.Video, error)
	GetVideoStatus(ctx context.Context, videoID uuid.UUID) (*models.VideoStatusInfo, error)
	ListVideos(ctx context.Context, pagination *utils.Pagination) (*models.VideoList, error)
	SearchVideos(ctx context.Context, query string, pagination *utils.Pagination) (*models.VideoList, error)
	UpdateVideo(ctx context.Context, videoID uuid.UUID, input *models.VideoUpdateInput) (*models.Video, error)
	DeleteVideo(ctx context.Context, videoID uuid.UUID) error
	ReprocessVideo(ctx context.Context, videoID uuid.UUID) error
	QueueStats() processor.Stats
}
