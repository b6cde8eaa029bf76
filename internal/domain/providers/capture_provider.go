package providers

import (
	"context"
	"time"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
)

// CaptureReason classifies capture failures the device can report
type CaptureReason string

const (
	CaptureReasonPermissionDenied  CaptureReason = "permission_denied"
	CaptureReasonDeviceUnavailable CaptureReason = "device_unavailable"
	CaptureReasonUserCancelled     CaptureReason = "user_cancelled"
)

// Valid reports whether r is one of the known device failure reasons
func (r CaptureReason) Valid() bool {
	switch r {
	case CaptureReasonPermissionDenied, CaptureReasonDeviceUnavailable, CaptureReasonUserCancelled:
		return true
	}
	return false
}

// CaptureProvider wraps the device-side camera and microphone. The face
// capture runs for a fixed duration; the audio capture runs until stopped.
type CaptureProvider interface {
	// StartFaceCapture records face video for the given duration and
	// returns a reference to the staged file.
	StartFaceCapture(ctx context.Context, sessionID string, duration time.Duration) (*entities.MediaRef, error)

	// StartAudioCapture begins a speech recording for the session.
	StartAudioCapture(ctx context.Context, sessionID string) error

	// StopAudioCapture ends the speech recording and returns a reference
	// to the staged file.
	StopAudioCapture(ctx context.Context, sessionID string) (*entities.MediaRef, error)
}
