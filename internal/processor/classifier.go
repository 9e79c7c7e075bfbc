package processor

import (
	"fmt"
	"strings"
	"time"

	"github.com/vidforge/vidforge/internal/models"
)

const (
	minNormalDuration   = 5.0
	maxNormalDuration   = 3600.0
	minAspectRatio      = 0.5
	maxAspectRatio      = 3.0
	minBytesPerSecond   = 10000.0
	silentVideoDuration = 30.0
	flagCountThreshold  = 3
)

// DefaultKeywords is the fixed screening list matched against title and
// description. The first hit forces the flagged level.
var DefaultKeywords = []string{"explicit", "nsfw", "adult", "18+", "mature", "violence", "graphic"}

// AnalyzeSensitivity is a pure function: identical inputs yield identical
// level and flags. Rules run in fixed order and each may append one flag.
func AnalyzeSensitivity(info *MediaInfo, title, description string) *models.SensitivityResult {
	return AnalyzeSensitivityWithKeywords(info, title, description, DefaultKeywords)
}

func AnalyzeSensitivityWithKeywords(info *MediaInfo, title, description string, keywords []string) *models.SensitivityResult {
	result := &models.SensitivityResult{
		Flags:      []string{},
		AnalyzedAt: time.Now(),
	}
	forcedFlagged := false

	if info.Duration < minNormalDuration {
		result.Flags = append(result.Flags, "very short duration")
	} else if info.Duration > maxNormalDuration {
		result.Flags = append(result.Flags, "very long duration")
	}

	if info.Video.Width > 0 && info.Video.Height > 0 {
		ratio := float64(info.Video.Width) / float64(info.Video.Height)
		if ratio < minAspectRatio || ratio > maxAspectRatio {
			result.Flags = append(result.Flags, "unusual aspect ratio")
		}
	}

	// Only the first matching keyword is reported; the remaining rules still
	// run even though the level is already forced.
	text := strings.ToLower(title + " " + description)
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			result.Flags = append(result.Flags, fmt.Sprintf("sensitive keyword %q in title/description", keyword))
			forcedFlagged = true
			break
		}
	}

	if info.Duration > 0 {
		if float64(info.Size)/info.Duration < minBytesPerSecond {
			result.Flags = append(result.Flags, "unusually low bitrate/quality")
		}
	}

	if info.Audio == nil && info.Duration > silentVideoDuration {
		result.Flags = append(result.Flags, "no audio stream in video > 30s")
	}

	switch {
	case forcedFlagged:
		result.Level = models.SensitivityFlagged
	case len(result.Flags) == 0:
		result.Level = models.SensitivitySafe
	case len(result.Flags) >= flagCountThreshold:
		result.Level = models.SensitivityFlagged
	default:
		result.Level = models.SensitivityUnknown
	}

	return result
}
