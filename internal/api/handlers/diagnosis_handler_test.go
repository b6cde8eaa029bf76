package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/strokescreening/internal/api/handlers"
	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/infrastructure/clients/strokeapi"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// MockDiagnosisService defines the mock workflow service
type MockDiagnosisService struct {
	mock.Mock
}

func (m *MockDiagnosisService) StartSession(ctx context.Context, profile entities.PatientProfile) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func (m *MockDiagnosisService) GetSession(ctx context.Context, id string) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func (m *MockDiagnosisService) BeginCapture(ctx context.Context, id string) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func (m *MockDiagnosisService) BeginUpload(ctx context.Context, id string, creds strokeapi.Credentials) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, id, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func (m *MockDiagnosisService) BeginQuestionnaire(ctx context.Context, id string) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func (m *MockDiagnosisService) SubmitOrientation(ctx context.Context, id string, answer *entities.OrientationSurveyAnswer) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, id, answer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func (m *MockDiagnosisService) AnswerExtended(ctx context.Context, id, questionID string, value int) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, id, questionID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func (m *MockDiagnosisService) CompleteQuestionnaire(ctx context.Context, id string) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func (m *MockDiagnosisService) Submit(ctx context.Context, id string, creds strokeapi.Credentials) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, id, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func (m *MockDiagnosisService) Retry(ctx context.Context, id string, creds strokeapi.Credentials) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, id, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func (m *MockDiagnosisService) Abandon(ctx context.Context, id string) (*entities.DiagnosisSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DiagnosisSession), args.Error(1)
}

func TestDiagnosisHandler_StartSession(t *testing.T) {
	t.Run("successfully starts a session", func(t *testing.T) {
		// Arrange
		mockService := new(MockDiagnosisService)
		handler := handlers.NewDiagnosisHandler(mockService)

		body, _ := json.Marshal(map[string]interface{}{
			"profile": map[string]interface{}{"age": 70},
		})
		req := httptest.NewRequest("POST", "/api/diagnosis/sessions", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		mockService.On("StartSession", mock.Anything, entities.PatientProfile{Age: 70}).
			Return(&entities.DiagnosisSession{ID: "sess-1", State: entities.StateIdle}, nil)

		// Act
		handler.StartSession(w, req)

		// Assert
		assert.Equal(t, http.StatusCreated, w.Code)
		var session entities.DiagnosisSession
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
		assert.Equal(t, "sess-1", session.ID)
		assert.Equal(t, entities.StateIdle, session.State)
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		handler := handlers.NewDiagnosisHandler(new(MockDiagnosisService))

		req := httptest.NewRequest("POST", "/api/diagnosis/sessions", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()

		handler.StartSession(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps validation errors to 400", func(t *testing.T) {
		mockService := new(MockDiagnosisService)
		handler := handlers.NewDiagnosisHandler(mockService)

		body, _ := json.Marshal(map[string]interface{}{
			"profile": map[string]interface{}{"age": 0},
		})
		req := httptest.NewRequest("POST", "/api/diagnosis/sessions", bytes.NewBuffer(body))
		w := httptest.NewRecorder()

		mockService.On("StartSession", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewValidationError("profile age must be between 1 and 120"))

		handler.StartSession(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDiagnosisHandler_BeginUpload(t *testing.T) {
	t.Run("forwards the bearer token", func(t *testing.T) {
		// Arrange
		mockService := new(MockDiagnosisService)
		handler := handlers.NewDiagnosisHandler(mockService)

		req := httptest.NewRequest("POST", "/api/diagnosis/sessions/sess-1/upload", nil)
		req.SetPathValue("id", "sess-1")
		req.Header.Set("Authorization", "Bearer token-123")
		w := httptest.NewRecorder()

		mockService.On("BeginUpload", mock.Anything, "sess-1", strokeapi.Credentials{BearerToken: "token-123"}).
			Return(&entities.DiagnosisSession{ID: "sess-1", State: entities.StateCautionPath}, nil)

		// Act
		handler.BeginUpload(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("maps conflicts to 409", func(t *testing.T) {
		mockService := new(MockDiagnosisService)
		handler := handlers.NewDiagnosisHandler(mockService)

		req := httptest.NewRequest("POST", "/api/diagnosis/sessions/sess-1/upload", nil)
		req.SetPathValue("id", "sess-1")
		w := httptest.NewRecorder()

		mockService.On("BeginUpload", mock.Anything, "sess-1", strokeapi.Credentials{}).
			Return(nil, apperrors.NewConflictError("an upload is already in flight for this session"))

		handler.BeginUpload(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestDiagnosisHandler_SubmitOrientation(t *testing.T) {
	t.Run("passes the decoded answer through", func(t *testing.T) {
		// Arrange
		mockService := new(MockDiagnosisService)
		handler := handlers.NewDiagnosisHandler(mockService)

		body, _ := json.Marshal(map[string]int{
			"orientation_month": 2,
			"orientation_age":   65,
			"gaze":              1,
			"arm":               0,
		})
		req := httptest.NewRequest("PUT", "/api/diagnosis/sessions/sess-1/orientation", bytes.NewBuffer(body))
		req.SetPathValue("id", "sess-1")
		w := httptest.NewRecorder()

		mockService.On("SubmitOrientation", mock.Anything, "sess-1", mock.MatchedBy(func(a *entities.OrientationSurveyAnswer) bool {
			return a.Complete() && *a.OrientationMonth == 2 && *a.Arm == 0
		})).Return(&entities.DiagnosisSession{ID: "sess-1", State: entities.StateQuestionnaire}, nil)

		// Act
		handler.SubmitOrientation(w, req)

		// Assert
		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestDiagnosisHandler_GetSession(t *testing.T) {
	t.Run("maps unknown sessions to 404", func(t *testing.T) {
		mockService := new(MockDiagnosisService)
		handler := handlers.NewDiagnosisHandler(mockService)

		req := httptest.NewRequest("GET", "/api/diagnosis/sessions/missing", nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()

		mockService.On("GetSession", mock.Anything, "missing").
			Return(nil, apperrors.NewNotFoundError("diagnosis session not found"))

		handler.GetSession(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDiagnosisHandler_ListExtendedQuestions(t *testing.T) {
	t.Run("returns the fixed question set", func(t *testing.T) {
		handler := handlers.NewDiagnosisHandler(new(MockDiagnosisService))

		req := httptest.NewRequest("GET", "/api/diagnosis/questions", nil)
		w := httptest.NewRecorder()

		handler.ListExtendedQuestions(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var payload struct {
			Questions []entities.SymptomQuestion `json:"questions"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Len(t, payload.Questions, 11)
	})
}
