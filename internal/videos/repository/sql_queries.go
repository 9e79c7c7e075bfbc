package repository

const (
	createVideoQuery = `INSERT INTO videos (user_id, title, description, file_name, file_size, s3_key, s3_bucket, status)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING *`

	getVideoByIDQuery = `SELECT video_id, user_id, title, description, file_name, file_size, s3_key, s3_bucket, status,
					duration, width, height, codec, format, frame_rate, bit_rate,
					audio_codec, audio_sample_rate, audio_channels, thumbnail_key,
					sensitivity, sensitivity_flags, processing_error, uploaded_at, updated_at
					FROM videos WHERE video_id = $1`

	getVideosByUserIDQuery = `SELECT video_id, user_id, title, description, file_name, file_size, s3_key, s3_bucket, status,
					duration, width, height, codec, format, frame_rate, bit_rate,
					audio_codec, audio_sample_rate, audio_channels, thumbnail_key,
					sensitivity, sensitivity_flags, processing_error, uploaded_at, updated_at
					FROM videos WHERE user_id = $1 ORDER BY uploaded_at DESC OFFSET $2 LIMIT $3`

	getTotalVideosByUserIDQuery = `SELECT COUNT(video_id) FROM videos WHERE user_id = $1`

	getTotalVideosByQueryQuery = `SELECT COUNT(video_id) FROM videos
					WHERE user_id = $1 AND (title ILIKE '%' || $2 || '%' OR file_name ILIKE '%' || $2 || '%')`

	getVideosBySearchQuery = `SELECT video_id, user_id, title, description, file_name, file_size, s3_key, s3_bucket, status,
					duration, width, height, codec, format, frame_rate, bit_rate,
					audio_codec, audio_sample_rate, audio_channels, thumbnail_key,
					sensitivity, sensitivity_flags, processing_error, uploaded_at, updated_at
					FROM videos
					WHERE user_id = $1 AND (title ILIKE '%' || $2 || '%' OR file_name ILIKE '%' || $2 || '%')
					ORDER BY uploaded_at DESC OFFSET $3 LIMIT $4`

	updateVideoQuery = `UPDATE videos
					SET title = $2,
					    description = $3,
					    status = $4,
					    duration = $5,
					    width = $6,
					    height = $7,
					    codec = $8,
					    format = $9,
					    frame_rate = $10,
					    bit_rate = $11,
					    audio_codec = $12,
					    audio_sample_rate = $13,
					    audio_channels = $14,
					    thumbnail_key = $15,
					    sensitivity = $16,
					    sensitivity_flags = $17,
					    processing_error = $18,
					    updated_at = now()
					WHERE video_id = $1
					RETURNING *`

	deleteVideoQuery = `DELETE FROM videos WHERE video_id = $1 AND user_id = $2`
)
