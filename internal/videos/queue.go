package videos

import (
	"github.com/google/uuid"

	"github.com/vidforge/vidforge/internal/processor"
)

// ProcessingQueue is the slice of the scheduler the videos feature needs.
// Kept as an interface so a durable queue can replace the in-process one.
type ProcessingQueue interface {
	Enqueue(videoID uuid.UUID)
	Stats() processor.Stats
}
