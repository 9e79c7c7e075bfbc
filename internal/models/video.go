package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type VideoStatus string

const (
	VideoStatusUploaded   VideoStatus = "uploaded"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusFailed     VideoStatus = "failed"
)

type SensitivityLevel string

const (
	SensitivitySafe    SensitivityLevel = "safe"
	SensitivityUnknown SensitivityLevel = "unknown"
	SensitivityFlagged SensitivityLevel = "flagged"
)

// Video is the durable record of one uploaded file and its processing outcome.
// The processor owns every transition out of "uploaded"; derived media fields
// are populated only on a "ready" outcome and ProcessingError only on "failed".
type Video struct {
	VideoID     uuid.UUID   `json:"video_id" db:"video_id" validate:"omitempty"`
	UserID      uuid.UUID   `json:"user_id" db:"user_id" validate:"omitempty"`
	Title       string      `json:"title" db:"title" validate:"required,lte=255"`
	Description string      `json:"description" db:"description" validate:"lte=5000"`
	FileName    string      `json:"file_name" db:"file_name" validate:"required,lte=255"`
	FileSize    int64       `json:"file_size" db:"file_size" validate:"required"`
	S3Key       string      `json:"s3_key" db:"s3_key" validate:"required,lte=512"`
	S3Bucket    string      `json:"s3_bucket" db:"s3_bucket" validate:"required,lte=255"`
	Status      VideoStatus `json:"status" db:"status" validate:"omitempty"`

	Duration        int64   `json:"duration" db:"duration"`
	Width           int     `json:"width" db:"width"`
	Height          int     `json:"height" db:"height"`
	Codec           string  `json:"codec" db:"codec"`
	Format          string  `json:"format" db:"format"`
	FrameRate       float64 `json:"frame_rate" db:"frame_rate"`
	BitRate         int64   `json:"bit_rate" db:"bit_rate"`
	AudioCodec      string  `json:"audio_codec" db:"audio_codec"`
	AudioSampleRate int     `json:"audio_sample_rate" db:"audio_sample_rate"`
	AudioChannels   int     `json:"audio_channels" db:"audio_channels"`
	ThumbnailKey    string  `json:"thumbnail_key" db:"thumbnail_key"`

	Sensitivity      SensitivityLevel `json:"sensitivity" db:"sensitivity"`
	SensitivityFlags pq.StringArray   `json:"sensitivity_flags" db:"sensitivity_flags"`
	ProcessingError  string           `json:"processing_error" db:"processing_error"`

	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// SensitivityResult is the ephemeral classifier verdict; it is folded into the
// Video record on success and never persisted standalone.
type SensitivityResult struct {
	Level      SensitivityLevel `json:"level"`
	Flags      []string         `json:"flags"`
	AnalyzedAt time.Time        `json:"analyzed_at"`
}

type VideoList struct {
	Videos     []*Video `json:"videos"`
	TotalCount int      `json:"total_count"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	HasMore    bool     `json:"has_more"`
}

type VideoStatusInfo struct {
	VideoID          uuid.UUID        `json:"video_id"`
	Status           VideoStatus      `json:"status"`
	Sensitivity      SensitivityLevel `json:"sensitivity,omitempty"`
	SensitivityFlags []string         `json:"sensitivity_flags"`
	ProcessingError  string           `json:"processing_error,omitempty"`
	ThumbnailKey     string           `json:"thumbnail_key,omitempty"`
}

type VideoUpdateInput struct {
	Title       string `json:"title" validate:"omitempty,lte=255"`
	Description string `json:"description" validate:"omitempty,lte=5000"`
}
