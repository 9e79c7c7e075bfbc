package videos

import (
	"context"
	"io"

	"github.com/vidforge/vidforge/internal/models"
)

type AWSRepository interface {
	GetPresignedURL(ctx context.Context, input *models.PresignInput) (string, error)
	UploadObject(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	DownloadObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	ListObjects(ctx context.Context, bucket string) ([]string, error)
	RemoveObject(ctx context.Context, bucket, key string) error
}
