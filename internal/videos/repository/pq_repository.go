package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/vidforge/vidforge/internal/models"
	"github.com/vidforge/vidforge/internal/videos"
	"github.com/vidforge/vidforge/pkg/utils"
)

type videoRepo struct {
	db *sqlx.DB
}

func NewVideoRepo(db *sqlx.DB) videos.Repository {
	return &videoRepo{
		db: db,
	}
}

func (v *videoRepo) CreateVideo(ctx context.Context, video *models.Video) (*models.Video, error) {
	created := &models.Video{}
	if err := v.db.QueryRowxContext(
		ctx,
		createVideoQuery,
		video.UserID,
		video.Title,
		video.Description,
		video.FileName,
		video.FileSize,
		video.S3Key,
		video.S3Bucket,
		video.Status,
	).StructScan(created); err != nil {
		return nil, errors.Wrap(err, "videoRepo.CreateVideo.StructScan")
	}
	return created, nil
}

func (v *videoRepo) GetVideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error) {
	video := &models.Video{}
	if err := v.db.QueryRowxContext(
		ctx,
		getVideoByIDQuery,
		videoID,
	).StructScan(video); err != nil {
		return nil, errors.Wrap(err, "videoRepo.GetVideoByID.StructScan")
	}
	return video, nil
}

func (v *videoRepo) GetVideos(ctx context.Context, userID uuid.UUID, pagination *utils.Pagination) (*models.VideoList, error) {
	var totalCount int
	if err := v.db.GetContext(
		ctx,
		&totalCount,
		getTotalVideosByUserIDQuery,
		userID,
	); err != nil {
		return nil, errors.Wrap(err, "videoRepo.GetVideos.GetContext")
	}
	if totalCount == 0 {
		return &models.VideoList{
			Videos:     make([]*models.Video, 0),
			TotalCount: 0,
			Page:       pagination.GetPage(),
			PageSize:   pagination.GetSize(),
			HasMore:    false,
		}, nil
	}

	rows, err := v.db.QueryxContext(
		ctx,
		getVideosByUserIDQuery,
		userID,
		pagination.GetOffset(),
		pagination.GetLimit(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "videoRepo.GetVideos.QueryxContext")
	}
	defer rows.Close()

	list := make([]*models.Video, 0, pagination.GetSize())
	for rows.Next() {
		var video models.Video
		if err = rows.StructScan(&video); err != nil {
			return nil, errors.Wrap(err, "videoRepo.GetVideos.StructScan")
		}
		list = append(list, &video)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "videoRepo.GetVideos.rows.Err")
	}
	return &models.VideoList{
		Videos:     list,
		TotalCount: totalCount,
		Page:       pagination.GetPage(),
		PageSize:   pagination.GetSize(),
		HasMore:    utils.GetHasMore(pagination.GetPage(), totalCount, pagination.GetSize()),
	}, nil
}

func (v *videoRepo) GetVideosByQuery(ctx context.Context, userID uuid.UUID, query string, pagination *utils.Pagination) (*models.VideoList, error) {
	var totalCount int
	if err := v.db.GetContext(
		ctx,
		&totalCount,
		getTotalVideosByQueryQuery,
		userID,
		query,
	); err != nil {
		return nil, errors.Wrap(err, "videoRepo.GetVideosByQuery.GetContext")
	}
	if totalCount == 0 {
		return &models.VideoList{
			Videos:     make([]*models.Video, 0),
			TotalCount: 0,
			Page:       pagination.GetPage(),
			PageSize:   pagination.GetSize(),
			HasMore:    false,
		}, nil
	}

	rows, err := v.db.QueryxContext(
		ctx,
		getVideosBySearchQuery,
		userID,
		query,
		pagination.GetOffset(),
		pagination.GetLimit(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "videoRepo.GetVideosByQuery.QueryxContext")
	}
	defer rows.Close()

	list := make([]*models.Video, 0, pagination.GetSize())
	for rows.Next() {
		var video models.Video
		if err = rows.StructScan(&video); err != nil {
			return nil, errors.Wrap(err, "videoRepo.GetVideosByQuery.StructScan")
		}
		list = append(list, &video)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "videoRepo.GetVideosByQuery.rows.Err")
	}
	return &models.VideoList{
		Videos:     list,
		TotalCount: totalCount,
		Page:       pagination.GetPage(),
		PageSize:   pagination.GetSize(),
		HasMore:    utils.GetHasMore(pagination.GetPage(), totalCount, pagination.GetSize()),
	}, nil
}

func (v *videoRepo) UpdateVideo(ctx context.Context, video *models.Video) (*models.Video, error) {
	updated := &models.Video{}
	if err := v.db.QueryRowxContext(
		ctx,
		updateVideoQuery,
		video.VideoID,
		video.Title,
		video.Description,
		video.Status,
		video.Duration,
		video.Width,
		video.Height,
		video.Codec,
		video.Format,
		video.FrameRate,
		video.BitRate,
		video.AudioCodec,
		video.AudioSampleRate,
		video.AudioChannels,
		video.ThumbnailKey,
		video.Sensitivity,
		video.SensitivityFlags,
		video.ProcessingError,
	).StructScan(updated); err != nil {
		return nil, errors.Wrap(err, "videoRepo.UpdateVideo.StructScan")
	}
	return updated, nil
}

func (v *videoRepo) DeleteVideo(ctx context.Context, userID uuid.UUID, videoID uuid.UUID) error {
	res, err := v.db.ExecContext(
		ctx,
		deleteVideoQuery,
		videoID,
		userID,
	)
	if err != nil {
		return errors.Wrap(err, "videoRepo.DeleteVideo.ExecContext")
	}
	count, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "videoRepo.DeleteVideo.RowsAffected")
	}
	if count == 0 {
		return errors.New("no video found to delete")
	}
	return nil
}
