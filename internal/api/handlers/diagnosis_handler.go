package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/infrastructure/clients/strokeapi"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// DiagnosisService defines the interface for diagnosis workflow operations
type DiagnosisService interface {
	StartSession(ctx context.Context, profile entities.PatientProfile) (*entities.DiagnosisSession, error)
	GetSession(ctx context.Context, id string) (*entities.DiagnosisSession, error)
	BeginCapture(ctx context.Context, id string) (*entities.DiagnosisSession, error)
	BeginUpload(ctx context.Context, id string, creds strokeapi.Credentials) (*entities.DiagnosisSession, error)
	BeginQuestionnaire(ctx context.Context, id string) (*entities.DiagnosisSession, error)
	SubmitOrientation(ctx context.Context, id string, answer *entities.OrientationSurveyAnswer) (*entities.DiagnosisSession, error)
	AnswerExtended(ctx context.Context, id, questionID string, value int) (*entities.DiagnosisSession, error)
	CompleteQuestionnaire(ctx context.Context, id string) (*entities.DiagnosisSession, error)
	Submit(ctx context.Context, id string, creds strokeapi.Credentials) (*entities.DiagnosisSession, error)
	Retry(ctx context.Context, id string, creds strokeapi.Credentials) (*entities.DiagnosisSession, error)
	Abandon(ctx context.Context, id string) (*entities.DiagnosisSession, error)
}

// DiagnosisHandler handles diagnosis workflow requests
type DiagnosisHandler struct {
	service DiagnosisService
}

// NewDiagnosisHandler creates a new diagnosis handler
func NewDiagnosisHandler(service DiagnosisService) *DiagnosisHandler {
	return &DiagnosisHandler{
		service: service,
	}
}

// StartSession handles POST /api/diagnosis/sessions
func (h *DiagnosisHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Profile entities.PatientProfile `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.service.StartSession(r.Context(), payload.Profile)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /api/diagnosis/sessions/{id}
func (h *DiagnosisHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// BeginCapture handles POST /api/diagnosis/sessions/{id}/capture
func (h *DiagnosisHandler) BeginCapture(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.BeginCapture(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// BeginUpload handles POST /api/diagnosis/sessions/{id}/upload
func (h *DiagnosisHandler) BeginUpload(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.BeginUpload(r.Context(), r.PathValue("id"), credentialsFrom(r))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// BeginQuestionnaire handles POST /api/diagnosis/sessions/{id}/questionnaire
func (h *DiagnosisHandler) BeginQuestionnaire(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.BeginQuestionnaire(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// SubmitOrientation handles PUT /api/diagnosis/sessions/{id}/orientation
func (h *DiagnosisHandler) SubmitOrientation(w http.ResponseWriter, r *http.Request) {
	var answer entities.OrientationSurveyAnswer
	if err := json.NewDecoder(r.Body).Decode(&answer); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.service.SubmitOrientation(r.Context(), r.PathValue("id"), &answer)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// AnswerExtended handles PUT /api/diagnosis/sessions/{id}/extended/{questionId}
func (h *DiagnosisHandler) AnswerExtended(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Value *int `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Value == nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.service.AnswerExtended(r.Context(), r.PathValue("id"), r.PathValue("questionId"), *payload.Value)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// ListExtendedQuestions handles GET /api/diagnosis/questions
func (h *DiagnosisHandler) ListExtendedQuestions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"questions": entities.ExtendedQuestionSet(),
	})
}

// CompleteQuestionnaire handles POST /api/diagnosis/sessions/{id}/questionnaire/complete
func (h *DiagnosisHandler) CompleteQuestionnaire(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.CompleteQuestionnaire(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// Submit handles POST /api/diagnosis/sessions/{id}/submit
func (h *DiagnosisHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Submit(r.Context(), r.PathValue("id"), credentialsFrom(r))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// Retry handles POST /api/diagnosis/sessions/{id}/retry
func (h *DiagnosisHandler) Retry(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Retry(r.Context(), r.PathValue("id"), credentialsFrom(r))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// Abandon handles POST /api/diagnosis/sessions/{id}/abandon
func (h *DiagnosisHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Abandon(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// credentialsFrom extracts the bearer token forwarded to the diagnosis API
func credentialsFrom(r *http.Request) strokeapi.Credentials {
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strokeapi.Credentials{BearerToken: token}
	}
	return strokeapi.Credentials{}
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithServiceError maps the error taxonomy onto HTTP status codes
func respondWithServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation, apperrors.ErrorTypeInvalidInput:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
		case apperrors.ErrorTypeNetwork, apperrors.ErrorTypeServerRejected:
			respondWithError(w, http.StatusBadGateway, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, appErr.Message)
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, err.Error())
}
