package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/strokescreening/internal/application/services"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// MockCacheProvider is a testify mock of providers.CacheProvider
type MockCacheProvider struct {
	mock.Mock
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func TestPlaybackService_Position(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the stored position", func(t *testing.T) {
		// Arrange
		cache := new(MockCacheProvider)
		cache.On("Get", ctx, "playback:position:intro-video").Return([]byte("42.5"), nil)
		service := services.NewPlaybackService(cache)

		// Act
		position, err := service.Position(ctx, "intro-video")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 42.5, position)
		cache.AssertExpectations(t)
	})

	t.Run("should return zero when no position is stored", func(t *testing.T) {
		cache := new(MockCacheProvider)
		cache.On("Get", ctx, "playback:position:intro-video").
			Return(nil, apperrors.NewNotFoundError("key not found"))
		service := services.NewPlaybackService(cache)

		position, err := service.Position(ctx, "intro-video")

		require.NoError(t, err)
		assert.Zero(t, position)
	})

	t.Run("should surface a corrupt stored value", func(t *testing.T) {
		cache := new(MockCacheProvider)
		cache.On("Get", ctx, "playback:position:intro-video").Return([]byte("not-a-number"), nil)
		service := services.NewPlaybackService(cache)

		_, err := service.Position(ctx, "intro-video")

		assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
	})

	t.Run("should reject an empty key", func(t *testing.T) {
		service := services.NewPlaybackService(new(MockCacheProvider))

		_, err := service.Position(ctx, "")

		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})
}

func TestPlaybackService_SavePosition(t *testing.T) {
	ctx := context.Background()

	t.Run("should store the position with a bounded TTL", func(t *testing.T) {
		// Arrange
		cache := new(MockCacheProvider)
		cache.On("Set", ctx, "playback:position:intro-video", []byte("90.25"), 24*time.Hour).Return(nil)
		service := services.NewPlaybackService(cache)

		// Act
		err := service.SavePosition(ctx, "intro-video", 90.25)

		// Assert
		require.NoError(t, err)
		cache.AssertExpectations(t)
	})

	t.Run("should reject a negative position", func(t *testing.T) {
		service := services.NewPlaybackService(new(MockCacheProvider))

		err := service.SavePosition(ctx, "intro-video", -1)

		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})

	t.Run("should reject an empty key", func(t *testing.T) {
		service := services.NewPlaybackService(new(MockCacheProvider))

		err := service.SavePosition(ctx, "", 10)

		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})
}
