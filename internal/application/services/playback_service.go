package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/zatekoja/strokescreening/internal/domain/providers"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// playbackTTL bounds how long a resume position survives without updates
const playbackTTL = 24 * time.Hour

// PlaybackService persists per-video resume positions so instructional
// videos continue where the user left off across app restarts.
type PlaybackService struct {
	cache providers.CacheProvider
}

// NewPlaybackService creates a playback position service
func NewPlaybackService(cache providers.CacheProvider) *PlaybackService {
	return &PlaybackService{cache: cache}
}

// Position returns the stored resume position in seconds, or 0 when none
// has been recorded for the key.
func (s *PlaybackService) Position(ctx context.Context, key string) (float64, error) {
	if key == "" {
		return 0, apperrors.NewValidationError("playback key is required")
	}

	raw, err := s.cache.Get(ctx, s.cacheKey(key))
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeNotFound {
			return 0, nil
		}
		return 0, err
	}

	position, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, apperrors.NewInternalError("stored playback position is corrupt", err)
	}
	return position, nil
}

// SavePosition records the resume position in seconds for a video key
func (s *PlaybackService) SavePosition(ctx context.Context, key string, position float64) error {
	if key == "" {
		return apperrors.NewValidationError("playback key is required")
	}
	if position < 0 {
		return apperrors.NewValidationError("playback position cannot be negative")
	}
	raw := strconv.FormatFloat(position, 'f', -1, 64)
	return s.cache.Set(ctx, s.cacheKey(key), []byte(raw), playbackTTL)
}

func (s *PlaybackService) cacheKey(key string) string {
	return fmt.Sprintf("playback:position:%s", key)
}
