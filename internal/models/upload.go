package models

import "io"

// UploadVideoInput carries one multipart upload from the delivery layer into
// the videos usecase.
type UploadVideoInput struct {
	Title       string    `json:"title" validate:"required,lte=255"`
	Description string    `json:"description" validate:"lte=5000"`
	FileName    string    `json:"file_name" validate:"required,lte=255"`
	Size        int64     `json:"size" validate:"required"`
	MimeType    string    `json:"mime_type" validate:"required,lte=100"`
	File        io.Reader `json:"-"`
}

// PresignInput requests a presigned PUT for client-side uploads.
type PresignInput struct {
	Name       string `json:"name" validate:"required,lte=255"`
	MimeType   string `json:"mime_type" validate:"required,lte=100"`
	Size       int64  `json:"size" validate:"required"`
	Key        string `json:"-"`
	BucketName string `json:"-"`
}
