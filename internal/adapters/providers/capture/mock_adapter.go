package capture

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/domain/providers"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// MockAdapter fabricates deterministic captures for local development. It
// writes small placeholder files into the media store so the rest of the
// pipeline exercises real staged media.
type MockAdapter struct {
	media providers.MediaStore

	mu        sync.Mutex
	recording map[string]bool
}

// NewMockAdapter creates a mock capture provider
func NewMockAdapter(media providers.MediaStore) providers.CaptureProvider {
	return &MockAdapter{
		media:     media,
		recording: make(map[string]bool),
	}
}

// StartFaceCapture stages a placeholder face video
func (m *MockAdapter) StartFaceCapture(ctx context.Context, sessionID string, duration time.Duration) (*entities.MediaRef, error) {
	payload := []byte(fmt.Sprintf("mock face video for %s (%s)", sessionID, duration))
	key := providers.MediaKey(sessionID, entities.MediaKindFace)
	return m.media.Save(ctx, key, entities.MediaKindFace, "video/mp4", bytes.NewReader(payload), int64(len(payload)))
}

// StartAudioCapture marks the session as recording
func (m *MockAdapter) StartAudioCapture(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recording[sessionID] = true
	return nil
}

// StopAudioCapture stages a placeholder speech recording
func (m *MockAdapter) StopAudioCapture(ctx context.Context, sessionID string) (*entities.MediaRef, error) {
	m.mu.Lock()
	active := m.recording[sessionID]
	delete(m.recording, sessionID)
	m.mu.Unlock()
	if !active {
		return nil, apperrors.NewCaptureError("no speech recording in progress", nil)
	}

	payload := []byte("mock speech recording for " + sessionID)
	key := providers.MediaKey(sessionID, entities.MediaKindSpeech)
	return m.media.Save(ctx, key, entities.MediaKindSpeech, "audio/m4a", bytes.NewReader(payload), int64(len(payload)))
}
