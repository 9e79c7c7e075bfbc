package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge/internal/models"
)

// runJob executes the per-video state machine: fetch record, download blob,
// inspect, classify, persist, notify. Every exit path is caught here; the
// scheduler's completion handling is unconditional.
func (q *Queue) runJob(videoID uuid.UUID) {
	ctx := context.Background()
	started := time.Now()

	video, err := q.records.GetVideoByID(ctx, videoID)
	if err != nil || video == nil {
		// Enqueued id without a record is a caller bug; abandon silently.
		q.logger.Errorf("processor: no record for video %s: %v", videoID, err)
		q.emit(Event{Type: EventError, VideoID: videoID, Err: err, Message: "video record not found"})
		q.metrics.observeOutcome("abandoned", time.Since(started).Seconds())
		return
	}
	owner := video.UserID

	video.Status = models.VideoStatusProcessing
	q.persist(ctx, video)
	q.notifier.EmitStatus(ctx, owner, StatusPayload{
		VideoID:          videoID,
		Status:           models.VideoStatusProcessing,
		SensitivityFlags: []string{},
		Timestamp:        time.Now(),
	})
	q.progress(ctx, owner, videoID, 0)

	workDir, err := os.MkdirTemp(q.cfg.TempDir, "vidforge-job-")
	if err != nil {
		q.fail(ctx, video, started, fmt.Sprintf("failed to allocate work directory: %v", err))
		return
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			q.logger.Warnf("processor: failed to clean work dir %s: %v", workDir, err)
		}
	}()

	localPath := filepath.Join(workDir, filepath.Base(video.S3Key))
	if err := q.downloadBlob(ctx, video, localPath); err != nil {
		q.fail(ctx, video, started, fmt.Sprintf("download failed: %v", err))
		return
	}
	q.progress(ctx, owner, videoID, 25)

	info, err := q.inspector.Probe(ctx, localPath)
	if err != nil {
		q.fail(ctx, video, started, fmt.Sprintf("media inspection failed: %v", err))
		return
	}

	thumbPath := filepath.Join(workDir, "thumbnail.jpg")
	if err := q.inspector.ExtractThumbnail(ctx, localPath, thumbPath, ThumbnailOffset(info.Duration)); err != nil {
		q.fail(ctx, video, started, fmt.Sprintf("thumbnail extraction failed: %v", err))
		return
	}
	thumbKey := fmt.Sprintf("thumbnails/%s.jpg", videoID)
	if err := q.uploadThumbnail(ctx, thumbPath, thumbKey); err != nil {
		q.fail(ctx, video, started, fmt.Sprintf("thumbnail upload failed: %v", err))
		return
	}
	q.progress(ctx, owner, videoID, 75)

	if info.Size == 0 {
		info.Size = video.FileSize
	}
	result := AnalyzeSensitivityWithKeywords(info, video.Title, video.Description, q.cfg.Keywords)

	video.Duration = int64(info.Duration)
	video.Width = info.Video.Width
	video.Height = info.Video.Height
	video.Codec = info.Video.Codec
	video.FrameRate = info.Video.FrameRate
	video.Format = info.Format
	video.BitRate = info.BitRate
	if info.Audio != nil {
		video.AudioCodec = info.Audio.Codec
		video.AudioSampleRate = info.Audio.SampleRate
		video.AudioChannels = info.Audio.Channels
	}
	video.ThumbnailKey = thumbKey
	video.Sensitivity = result.Level
	video.SensitivityFlags = result.Flags
	video.ProcessingError = ""
	video.Status = models.VideoStatusReady
	q.persist(ctx, video)

	q.progress(ctx, owner, videoID, 100)
	q.notifier.EmitStatus(ctx, owner, StatusPayload{
		VideoID:          videoID,
		Status:           models.VideoStatusReady,
		Sensitivity:      result.Level,
		SensitivityFlags: result.Flags,
		Timestamp:        time.Now(),
	})
	q.emit(Event{Type: EventSuccess, VideoID: videoID, Result: result})
	q.metrics.observeOutcome("success", time.Since(started).Seconds())
}

func (q *Queue) downloadBlob(ctx context.Context, video *models.Video, localPath string) error {
	body, err := q.blobs.DownloadObject(ctx, video.S3Bucket, video.S3Key)
	if err != nil {
		return err
	}
	defer body.Close()

	outFile, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, body); err != nil {
		return fmt.Errorf("failed to write local file: %w", err)
	}
	return nil
}

func (q *Queue) uploadThumbnail(ctx context.Context, thumbPath, thumbKey string) error {
	thumbFile, err := os.Open(thumbPath)
	if err != nil {
		return fmt.Errorf("failed to open thumbnail: %w", err)
	}
	defer thumbFile.Close()
	return q.blobs.UploadObject(ctx, q.cfg.MediaBucket, thumbKey, thumbFile, "image/jpeg")
}

// fail records the terminal failed state. The video keeps its failed status
// and error message until re-upload or an explicit re-enqueue; there is no
// automatic retry.
func (q *Queue) fail(ctx context.Context, video *models.Video, started time.Time, message string) {
	q.logger.Errorf("processor: video %s failed: %s", video.VideoID, message)
	video.Status = models.VideoStatusFailed
	video.ProcessingError = message
	q.persist(ctx, video)

	q.notifier.EmitError(ctx, video.UserID, ErrorPayload{
		VideoID:   video.VideoID,
		Error:     message,
		Timestamp: time.Now(),
	})
	q.notifier.EmitStatus(ctx, video.UserID, StatusPayload{
		VideoID:          video.VideoID,
		Status:           models.VideoStatusFailed,
		SensitivityFlags: []string{},
		Timestamp:        time.Now(),
	})
	q.emit(Event{Type: EventFailed, VideoID: video.VideoID, Message: message})
	q.metrics.observeOutcome("failed", time.Since(started).Seconds())
}

// persist saves the record; a failed save is logged and swallowed so the job
// body always runs to completion. Accepted gap: the in-memory outcome of that
// attempt is lost.
func (q *Queue) persist(ctx context.Context, video *models.Video) {
	if _, err := q.records.UpdateVideo(ctx, video); err != nil {
		q.logger.Errorf("processor: failed to persist video %s: %v", video.VideoID, err)
		q.emit(Event{Type: EventError, VideoID: video.VideoID, Err: err, Message: "persist failed"})
	}
}

func (q *Queue) progress(ctx context.Context, owner, videoID uuid.UUID, percent int) {
	q.notifier.EmitProgress(ctx, owner, ProgressPayload{
		VideoID:   videoID,
		Percent:   percent,
		Timestamp: time.Now(),
	})
}
