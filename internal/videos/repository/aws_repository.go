package repository

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vidforge/vidforge/internal/models"
	"github.com/vidforge/vidforge/internal/videos"
)

var videoFilePattern = regexp.MustCompile(`.+\.(mp4|mkv|avi|mov|wmv|flv|webm|m4v|mpeg|mpg|3gp|ogv|vob|ts|mxf)$`)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
}

func NewAwsRepository(client *s3.Client, preSignClient *s3.PresignClient) videos.AWSRepository {
	return &awsRepository{
		client:        client,
		preSignClient: preSignClient,
	}
}

func (a *awsRepository) GetPresignedURL(ctx context.Context, input *models.PresignInput) (string, error) {
	if !videoFilePattern.MatchString(input.Name) {
		return "", fmt.Errorf("invalid file format: %s", input.Name)
	}
	putObjectReq, err := a.preSignClient.PresignPutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &input.BucketName,
			Key:           &input.Key,
			ContentLength: &input.Size,
			ContentType:   &input.MimeType,
		},
		s3.WithPresignExpires(60*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign put object: %w", err)
	}
	return putObjectReq.URL, nil
}

func (a *awsRepository) UploadObject(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	_, err := a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:      &bucket,
			Key:         &key,
			ContentType: &contentType,
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to upload object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (a *awsRepository) DownloadObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	res, err := a.client.GetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to download object %s/%s: %w", bucket, key, err)
	}
	return res.Body, nil
}

func (a *awsRepository) ListObjects(ctx context.Context, bucket string) ([]string, error) {
	res, err := a.client.ListObjectsV2(
		ctx,
		&s3.ListObjectsV2Input{
			Bucket: &bucket,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	var keys []string
	for _, obj := range res.Contents {
		keys = append(keys, *obj.Key)
	}
	return keys, nil
}

func (a *awsRepository) RemoveObject(ctx context.Context, bucket, key string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to remove object %s/%s: %w", bucket, key, err)
	}
	return nil
}
