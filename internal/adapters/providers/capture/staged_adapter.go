package capture

import (
	"context"
	"io"
	"time"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/domain/providers"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// StagedAdapter resolves captures against media the device already uploaded
// to the staging store. The device records locally and posts the files; the
// capture step then only has to confirm both are present and fresh.
type StagedAdapter struct {
	media  providers.MediaStore
	maxAge time.Duration
}

// NewStagedAdapter creates a capture provider backed by staged uploads.
// maxAge bounds how old a staged file may be before it is treated as stale.
func NewStagedAdapter(media providers.MediaStore, maxAge time.Duration) providers.CaptureProvider {
	if maxAge <= 0 {
		maxAge = 10 * time.Minute
	}
	return &StagedAdapter{media: media, maxAge: maxAge}
}

// StartFaceCapture resolves the staged face video for the session
func (a *StagedAdapter) StartFaceCapture(ctx context.Context, sessionID string, duration time.Duration) (*entities.MediaRef, error) {
	return a.resolve(ctx, sessionID, entities.MediaKindFace)
}

// StartAudioCapture verifies the staged speech recording exists
func (a *StagedAdapter) StartAudioCapture(ctx context.Context, sessionID string) error {
	_, err := a.resolve(ctx, sessionID, entities.MediaKindSpeech)
	return err
}

// StopAudioCapture resolves the staged speech recording for the session
func (a *StagedAdapter) StopAudioCapture(ctx context.Context, sessionID string) (*entities.MediaRef, error) {
	return a.resolve(ctx, sessionID, entities.MediaKindSpeech)
}

func (a *StagedAdapter) resolve(ctx context.Context, sessionID string, kind entities.MediaKind) (*entities.MediaRef, error) {
	key := providers.MediaKey(sessionID, kind)
	ref, err := a.media.Stat(ctx, key)
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeNotFound {
			if reason, ok := a.failureReason(ctx, sessionID, kind); ok {
				return nil, apperrors.NewCaptureErrorWithReason(string(kind)+" capture failed on device", string(reason))
			}
			return nil, apperrors.NewCaptureError("no "+string(kind)+" media staged for this session", err)
		}
		return nil, err
	}
	if !ref.StagedAt.IsZero() && time.Since(ref.StagedAt) > a.maxAge {
		return nil, apperrors.NewCaptureError("staged "+string(kind)+" media is stale", nil)
	}
	return ref, nil
}

// failureReason looks up a device failure report staged for the capture.
func (a *StagedAdapter) failureReason(ctx context.Context, sessionID string, kind entities.MediaKind) (providers.CaptureReason, bool) {
	rc, err := a.media.Open(ctx, providers.FailureKey(sessionID, kind))
	if err != nil {
		return "", false
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, 64))
	if err != nil {
		return "", false
	}
	reason := providers.CaptureReason(raw)
	if !reason.Valid() {
		return "", false
	}
	return reason, true
}
