package storage_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/strokescreening/internal/adapters/storage"
	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/domain/providers"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

func TestLocalStore_SaveAndOpen(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	key := providers.MediaKey("sess-1", entities.MediaKindFace)

	t.Run("round trips a staged file", func(t *testing.T) {
		// Arrange
		payload := "fake video bytes"

		// Act
		ref, err := store.Save(ctx, key, entities.MediaKindFace, "video/mp4", strings.NewReader(payload), int64(len(payload)))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, key, ref.Key)
		assert.Equal(t, int64(len(payload)), ref.Size)

		reader, err := store.Open(ctx, key)
		require.NoError(t, err)
		defer reader.Close()
		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, payload, string(data))
	})

	t.Run("stat reports kind and freshness", func(t *testing.T) {
		ref, err := store.Stat(ctx, key)

		require.NoError(t, err)
		assert.Equal(t, entities.MediaKindFace, ref.Kind)
		assert.False(t, ref.StagedAt.IsZero())
	})

	t.Run("missing keys are not found", func(t *testing.T) {
		_, err := store.Open(ctx, "sess-2/face")

		assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		_, err := store.Open(ctx, "../etc/passwd")

		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, key))
		assert.NoError(t, store.Delete(ctx, key))
	})
}
