package strokeapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/strokescreening/internal/adapters/storage"
	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/domain/providers"
	"github.com/zatekoja/strokescreening/internal/infrastructure/clients/strokeapi"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

func stageBundle(t *testing.T, media providers.MediaStore) *entities.CaptureBundle {
	t.Helper()
	ctx := context.Background()

	face, err := media.Save(ctx, providers.MediaKey("sess-1", entities.MediaKindFace),
		entities.MediaKindFace, "video/mp4", strings.NewReader("face-bytes"), 10)
	require.NoError(t, err)
	speech, err := media.Save(ctx, providers.MediaKey("sess-1", entities.MediaKindSpeech),
		entities.MediaKindSpeech, "audio/m4a", strings.NewReader("speech-bytes"), 12)
	require.NoError(t, err)

	return &entities.CaptureBundle{FaceVideo: *face, SpeechAudio: *speech}
}

func intRef(v int) *int {
	return &v
}

func TestHTTPClient_UploadCapture(t *testing.T) {
	media, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	bundle := stageBundle(t, media)

	t.Run("streams both files and decodes the prediction", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/diagnosis/predict", r.URL.Path)
			assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

			require.NoError(t, r.ParseMultipartForm(1<<20))
			_, _, faceErr := r.FormFile("face")
			assert.NoError(t, faceErr)
			_, _, speechErr := r.FormFile("speech")
			assert.NoError(t, speechErr)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"data":{"face_prediction":true,"face_probability":0.91,"speech_prediction":false,"speech_probability":0.12}}`))
		}))
		defer server.Close()
		client := strokeapi.NewClient(server.URL, 5*time.Second, media)

		// Act
		prediction, err := client.UploadCapture(context.Background(), strokeapi.Credentials{BearerToken: "token-1"}, bundle)

		// Assert
		require.NoError(t, err)
		assert.True(t, prediction.FacePrediction)
		assert.False(t, prediction.SpeechPrediction)
		assert.InDelta(t, 0.91, prediction.FaceProbability, 0.001)
		assert.Equal(t, entities.BranchCaution, prediction.DecideBranch())
	})

	t.Run("maps envelope failure to a server rejection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false,"message":"media unreadable"}`))
		}))
		defer server.Close()
		client := strokeapi.NewClient(server.URL, 5*time.Second, media)

		_, err := client.UploadCapture(context.Background(), strokeapi.Credentials{}, bundle)

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeServerRejected, apperrors.TypeOf(err))
		assert.Contains(t, err.Error(), "media unreadable")
	})

	t.Run("maps an unreachable host to a retryable network error", func(t *testing.T) {
		client := strokeapi.NewClient("http://127.0.0.1:1", time.Second, media)

		_, err := client.UploadCapture(context.Background(), strokeapi.Credentials{}, bundle)

		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeNetwork, appErr.Type)
		assert.True(t, appErr.Retryable())
	})

	t.Run("rejects an incomplete bundle locally", func(t *testing.T) {
		client := strokeapi.NewClient("http://unused", time.Second, media)

		_, err := client.UploadCapture(context.Background(), strokeapi.Credentials{}, &entities.CaptureBundle{})

		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})
}

func TestHTTPClient_SubmitOrientationSurvey(t *testing.T) {
	media, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	answer := &entities.OrientationSurveyAnswer{
		OrientationMonth: intRef(2),
		OrientationAge:   intRef(65),
		Gaze:             intRef(1),
		Arm:              intRef(0),
	}

	t.Run("decodes the assessment and hospitals", func(t *testing.T) {
		// Arrange
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/diagnosis/survey", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			w.Write([]byte(`{"success":true,"data":{
				"assessment":{"total_score":6,"total_score_percentage":75.0,"severity":"ELEVATED"},
				"hospitals":[{"id":"h1","name":"General Hospital","stroke_unit":true}]
			}}`))
		}))
		defer server.Close()
		client := strokeapi.NewClient(server.URL, 5*time.Second, media)

		// Act
		result, err := client.SubmitOrientationSurvey(context.Background(), strokeapi.Credentials{}, answer)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 6, result.Assessment.TotalScore)
		assert.InDelta(t, 75.0, result.Assessment.TotalScorePercentage, 0.001)
		assert.Equal(t, entities.SeverityElevated, result.Assessment.Severity)
		require.Len(t, result.Hospitals, 1)
		assert.True(t, result.Hospitals[0].StrokeUnit)
	})

	t.Run("maps 401 to unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()
		client := strokeapi.NewClient(server.URL, 5*time.Second, media)

		_, err := client.SubmitOrientationSurvey(context.Background(), strokeapi.Credentials{}, answer)

		assert.Equal(t, apperrors.ErrorTypeUnauthorized, apperrors.TypeOf(err))
	})

	t.Run("maps 5xx to a network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()
		client := strokeapi.NewClient(server.URL, 5*time.Second, media)

		_, err := client.SubmitOrientationSurvey(context.Background(), strokeapi.Credentials{}, answer)

		assert.Equal(t, apperrors.ErrorTypeNetwork, apperrors.TypeOf(err))
	})
}
