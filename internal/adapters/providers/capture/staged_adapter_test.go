package capture_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/strokescreening/internal/adapters/providers/capture"
	"github.com/zatekoja/strokescreening/internal/adapters/storage"
	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/domain/providers"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

func stageFile(t *testing.T, store providers.MediaStore, key string, kind entities.MediaKind) {
	t.Helper()
	payload := "staged bytes"
	_, err := store.Save(context.Background(), key, kind, "application/octet-stream", strings.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
}

func TestStagedAdapter_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves freshly staged media", func(t *testing.T) {
		store, err := storage.NewLocalStore(t.TempDir())
		require.NoError(t, err)
		stageFile(t, store, providers.MediaKey("sess-1", entities.MediaKindFace), entities.MediaKindFace)
		adapter := capture.NewStagedAdapter(store, time.Minute)

		ref, err := adapter.StartFaceCapture(ctx, "sess-1", 5*time.Second)

		require.NoError(t, err)
		assert.Equal(t, entities.MediaKindFace, ref.Kind)
	})

	t.Run("missing media is a capture failure", func(t *testing.T) {
		store, err := storage.NewLocalStore(t.TempDir())
		require.NoError(t, err)
		adapter := capture.NewStagedAdapter(store, time.Minute)

		_, err = adapter.StartFaceCapture(ctx, "sess-1", 5*time.Second)

		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeCapture, appErr.Type)
		assert.Empty(t, appErr.Reason)
	})

	t.Run("surfaces the device-reported failure reason", func(t *testing.T) {
		// Arrange
		store, err := storage.NewLocalStore(t.TempDir())
		require.NoError(t, err)
		reason := string(providers.CaptureReasonPermissionDenied)
		key := providers.FailureKey("sess-1", entities.MediaKindFace)
		_, err = store.Save(ctx, key, entities.MediaKindFace, "text/plain", strings.NewReader(reason), int64(len(reason)))
		require.NoError(t, err)
		adapter := capture.NewStagedAdapter(store, time.Minute)

		// Act
		_, err = adapter.StartFaceCapture(ctx, "sess-1", 5*time.Second)

		// Assert
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeCapture, appErr.Type)
		assert.Equal(t, reason, appErr.Reason)
	})

	t.Run("ignores an unrecognized failure marker", func(t *testing.T) {
		store, err := storage.NewLocalStore(t.TempDir())
		require.NoError(t, err)
		key := providers.FailureKey("sess-1", entities.MediaKindSpeech)
		_, err = store.Save(ctx, key, entities.MediaKindSpeech, "text/plain", strings.NewReader("battery_low"), 11)
		require.NoError(t, err)
		adapter := capture.NewStagedAdapter(store, time.Minute)

		err = adapter.StartAudioCapture(ctx, "sess-1")

		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Empty(t, appErr.Reason)
	})

	t.Run("rejects stale staged media", func(t *testing.T) {
		store, err := storage.NewLocalStore(t.TempDir())
		require.NoError(t, err)
		stageFile(t, store, providers.MediaKey("sess-1", entities.MediaKindSpeech), entities.MediaKindSpeech)
		adapter := capture.NewStagedAdapter(store, time.Nanosecond)
		time.Sleep(10 * time.Millisecond)

		_, err = adapter.StopAudioCapture(ctx, "sess-1")

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeCapture, apperrors.TypeOf(err))
	})
}
