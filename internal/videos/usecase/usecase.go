package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge/internal/config"
	"github.com/vidforge/vidforge/internal/models"
	"github.com/vidforge/vidforge/internal/processor"
	"github.com/vidforge/vidforge/internal/videos"
	"github.com/vidforge/vidforge/pkg/logger"
	"github.com/vidforge/vidforge/pkg/utils"
)

type videoUC struct {
	cfg       *config.Config
	videoRepo videos.Repository
	awsRepo   videos.AWSRepository
	queue     videos.ProcessingQueue
	logger    logger.Logger
}

func NewVideoUseCase(
	cfg *config.Config,
	videoRepo videos.Repository,
	awsRepo videos.AWSRepository,
	queue videos.ProcessingQueue,
	log logger.Logger,
) videos.UseCase {
	return &videoUC{
		cfg:       cfg,
		videoRepo: videoRepo,
		awsRepo:   awsRepo,
		queue:     queue,
		logger:    log,
	}
}

// UploadVideo stores the blob, creates the record as "uploaded" and hands the
// id to the processing queue.
func (v *videoUC) UploadVideo(ctx context.Context, input *models.UploadVideoInput) (*models.Video, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		v.logger.Errorf("UploadVideo - GetUserFromCtx error: %v", err)
		return nil, err
	}
	if err = utils.ValidateStruct(ctx, input); err != nil {
		v.logger.Errorf("UploadVideo - ValidateStruct error: %v", err)
		return nil, fmt.Errorf("invalid input: %v", err)
	}

	key := fmt.Sprintf("uploads/%s/%s/%s", user.UserID, uuid.New(), input.FileName)
	if err = v.awsRepo.UploadObject(ctx, v.cfg.S3.VideoBucket, key, input.File, input.MimeType); err != nil {
		v.logger.Errorf("UploadVideo - UploadObject error: %v", err)
		return nil, fmt.Errorf("failed to store video file: %v", err)
	}

	video := &models.Video{
		UserID:      user.UserID,
		Title:       input.Title,
		Description: input.Description,
		FileName:    input.FileName,
		FileSize:    input.Size,
		S3Key:       key,
		S3Bucket:    v.cfg.S3.VideoBucket,
		Status:      models.VideoStatusUploaded,
	}
	created, err := v.videoRepo.CreateVideo(ctx, video)
	if err != nil {
		v.logger.Errorf("UploadVideo - CreateVideo error: %v", err)
		if rmErr := v.awsRepo.RemoveObject(ctx, v.cfg.S3.VideoBucket, key); rmErr != nil {
			v.logger.Warnf("UploadVideo - orphan blob cleanup failed: %v", rmErr)
		}
		return nil, fmt.Errorf("failed to create video record: %v", err)
	}

	v.queue.Enqueue(created.VideoID)
	v.logger.Infof("UploadVideo - enqueued video %s for user %s", created.VideoID, user.UserID)
	return created, nil
}

func (v *videoUC) GetPresignUrl(ctx context.Context, input *models.PresignInput) (string, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		v.logger.Errorf("GetPresignUrl - GetUserFromCtx error: %v", err)
		return "", err
	}
	if err = utils.ValidateStruct(ctx, input); err != nil {
		v.logger.Errorf("GetPresignUrl - ValidateStruct error: %v", err)
		return "", err
	}

	input.BucketName = v.cfg.S3.VideoBucket
	input.Key = fmt.Sprintf("uploads/%s/%s", user.UserID, input.Name)

	url, err := v.awsRepo.GetPresignedURL(ctx, input)
	if err != nil {
		v.logger.Errorf("GetPresignUrl - GetPresignedURL error: %v", err)
		return "", fmt.Errorf("failed to generate presigned URL: %v", err)
	}
	return url, nil
}

func (v *videoUC) GetVideo(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	if videoID == uuid.Nil {
		return nil, fmt.Errorf("invalid video id: cannot be empty")
	}
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		v.logger.Errorf("GetVideo - GetUserFromCtx error: %v", err)
		return nil, fmt.Errorf("unauthorized: %v", err)
	}

	video, err := v.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("video not found")
		}
		v.logger.Errorf("GetVideo - GetVideoByID error: %v", err)
		return nil, fmt.Errorf("failed to fetch video: %v", err)
	}

	if video.UserID != user.UserID && user.Role != models.AdminRole {
		v.logger.Warnf("user %s is not authorized to access video %s", user.UserID, videoID)
		return nil, fmt.Errorf("unauthorized access to video")
	}
	return video, nil
}

func (v *videoUC) GetVideoStatus(ctx context.Context, videoID uuid.UUID) (*models.VideoStatusInfo, error) {
	video, err := v.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return &models.VideoStatusInfo{
		VideoID:          video.VideoID,
		Status:           video.Status,
		Sensitivity:      video.Sensitivity,
		SensitivityFlags: video.SensitivityFlags,
		ProcessingError:  video.ProcessingError,
		ThumbnailKey:     video.ThumbnailKey,
	}, nil
}

func (v *videoUC) ListVideos(ctx context.Context, pagination *utils.Pagination) (*models.VideoList, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		v.logger.Errorf("ListVideos - GetUserFromCtx error: %v", err)
		return nil, err
	}
	pagination = normalizePagination(pagination)

	list, err := v.videoRepo.GetVideos(ctx, user.UserID, pagination)
	if err != nil {
		v.logger.Errorf("ListVideos - GetVideos error for user %s: %v", user.UserID, err)
		return nil, fmt.Errorf("failed to fetch videos: %v", err)
	}
	return list, nil
}

func (v *videoUC) SearchVideos(ctx context.Context, query string, pagination *utils.Pagination) (*models.VideoList, error) {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		v.logger.Errorf("SearchVideos - GetUserFromCtx error: %v", err)
		return nil, err
	}
	if query == "" {
		return nil, fmt.Errorf("invalid query: cannot be empty")
	}
	pagination = normalizePagination(pagination)

	list, err := v.videoRepo.GetVideosByQuery(ctx, user.UserID, query, pagination)
	if err != nil {
		v.logger.Errorf("SearchVideos - GetVideosByQuery error: %v", err)
		return nil, fmt.Errorf("failed to search videos: %v", err)
	}
	return list, nil
}

func (v *videoUC) UpdateVideo(ctx context.Context, videoID uuid.UUID, input *models.VideoUpdateInput) (*models.Video, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return nil, fmt.Errorf("invalid input: %v", err)
	}
	video, err := v.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if input.Title != "" {
		video.Title = input.Title
	}
	if input.Description != "" {
		video.Description = input.Description
	}

	updated, err := v.videoRepo.UpdateVideo(ctx, video)
	if err != nil {
		v.logger.Errorf("UpdateVideo - UpdateVideo error: %v", err)
		return nil, fmt.Errorf("failed to update video: %v", err)
	}
	return updated, nil
}

func (v *videoUC) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	user, err := utils.GetUserFromCtx(ctx)
	if err != nil {
		v.logger.Errorf("DeleteVideo - GetUserFromCtx error: %v", err)
		return err
	}
	video, err := v.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}

	if err = v.videoRepo.DeleteVideo(ctx, user.UserID, videoID); err != nil {
		v.logger.Errorf("DeleteVideo - DeleteVideo error: %v", err)
		return fmt.Errorf("failed to delete video: %v", err)
	}

	// Blob cleanup is best effort; the record is already gone.
	if err = v.awsRepo.RemoveObject(ctx, video.S3Bucket, video.S3Key); err != nil {
		v.logger.Warnf("DeleteVideo - blob cleanup failed for %s: %v", video.S3Key, err)
	}
	if video.ThumbnailKey != "" {
		if err = v.awsRepo.RemoveObject(ctx, v.cfg.S3.MediaBucket, video.ThumbnailKey); err != nil {
			v.logger.Warnf("DeleteVideo - thumbnail cleanup failed for %s: %v", video.ThumbnailKey, err)
		}
	}
	return nil
}

// ReprocessVideo resets a record and re-enqueues it. This is the external
// re-enqueue action for videos stuck in the failed state.
func (v *videoUC) ReprocessVideo(ctx context.Context, videoID uuid.UUID) error {
	video, err := v.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}
	if video.Status == models.VideoStatusProcessing {
		return fmt.Errorf("video %s is already being processed", videoID)
	}

	video.Status = models.VideoStatusUploaded
	video.ProcessingError = ""
	if _, err = v.videoRepo.UpdateVideo(ctx, video); err != nil {
		v.logger.Errorf("ReprocessVideo - UpdateVideo error: %v", err)
		return fmt.Errorf("failed to reset video: %v", err)
	}

	v.queue.Enqueue(videoID)
	return nil
}

func (v *videoUC) QueueStats() processor.Stats {
	return v.queue.Stats()
}

func normalizePagination(p *utils.Pagination) *utils.Pagination {
	if p == nil {
		p = &utils.Pagination{Page: 1, Size: 10}
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 || p.Size > 100 {
		p.Size = 10
	}
	return p
}
