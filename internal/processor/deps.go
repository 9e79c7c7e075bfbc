package processor

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge/internal/models"
)

// The processor consumes its collaborators through the narrow contracts below.
// Production wiring satisfies them with the postgres video repository, the S3
// repository and the redis notifier; tests use in-memory fakes.

// RecordStore is the durable home of Video records.
type RecordStore interface {
	GetVideoByID(ctx context.Context, videoID uuid.UUID) (*models.Video, error)
	UpdateVideo(ctx context.Context, video *models.Video) (*models.Video, error)
}

// BlobStore moves video and thumbnail binaries in and out of object storage.
type BlobStore interface {
	DownloadObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	UploadObject(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
}

// Notifier pushes events to the owning client. Delivery is best effort: a
// missed event must never surface as a job failure, so these do not return
// errors.
type Notifier interface {
	EmitProgress(ctx context.Context, ownerID uuid.UUID, payload ProgressPayload)
	EmitStatus(ctx context.Context, ownerID uuid.UUID, payload StatusPayload)
	EmitError(ctx context.Context, ownerID uuid.UUID, payload ErrorPayload)
}

// Inspector extracts media metadata and still frames from a local file.
type Inspector interface {
	Probe(ctx context.Context, path string) (*MediaInfo, error)
	ExtractThumbnail(ctx context.Context, videoPath, thumbPath string, offsetSec float64) error
}

type ProgressPayload struct {
	VideoID   uuid.UUID `json:"videoId"`
	Percent   int       `json:"percent"`
	Timestamp time.Time `json:"timestamp"`
}

type StatusPayload struct {
	VideoID          uuid.UUID               `json:"videoId"`
	Status           models.VideoStatus      `json:"status"`
	Sensitivity      models.SensitivityLevel `json:"sensitivity,omitempty"`
	SensitivityFlags []string                `json:"sensitivityFlags"`
	Timestamp        time.Time               `json:"timestamp"`
}

type ErrorPayload struct {
	VideoID   uuid.UUID `json:"videoId"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
