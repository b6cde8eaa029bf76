package strokeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/domain/providers"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// Credentials carries the bearer token attached to every call. Tokens are
// injected per call instead of living in shared client state; refresh is the
// auth collaborator's problem.
type Credentials struct {
	BearerToken string
}

// Client exposes the three remote diagnosis operations
type Client interface {
	// UploadCapture transmits both media files and returns the prediction.
	// Every call is a fresh transmission; nothing is retried internally.
	UploadCapture(ctx context.Context, creds Credentials, bundle *entities.CaptureBundle) (*entities.PredictionResult, error)

	// SubmitOrientationSurvey submits the baseline answers; the server
	// scores them and attaches hospital recommendations.
	SubmitOrientationSurvey(ctx context.Context, creds Credentials, answer *entities.OrientationSurveyAnswer) (*SurveyResult, error)

	// SubmitFinalSymptoms refines the assessment with the extended set.
	SubmitFinalSymptoms(ctx context.Context, creds Credentials, answers *entities.ExtendedSymptomAnswers) (*entities.RiskAssessment, error)
}

// SurveyResult is the combined payload of the survey endpoint
type SurveyResult struct {
	Assessment entities.RiskAssessment           `json:"assessment"`
	Hospitals  []entities.HospitalRecommendation `json:"hospitals"`
}

// HTTPClient is the production implementation of Client
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	media      providers.MediaStore
}

// NewClient creates a diagnosis API client. The media store is used to
// stream staged capture files into the upload request.
func NewClient(baseURL string, timeout time.Duration, media providers.MediaStore) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		media:      media,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// UploadCapture transmits the capture bundle as a multipart request
func (c *HTTPClient) UploadCapture(ctx context.Context, creds Credentials, bundle *entities.CaptureBundle) (*entities.PredictionResult, error) {
	if !bundle.Complete() {
		return nil, apperrors.NewValidationError("capture bundle is incomplete")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := c.writePart(ctx, writer, "face", bundle.FaceVideo); err != nil {
		return nil, err
	}
	if err := c.writePart(ctx, writer, "speech", bundle.SpeechAudio); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.NewInternalError("failed to finalize upload body", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/diagnosis/predict", &body)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build upload request", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	prediction := &entities.PredictionResult{}
	if err := c.do(req, creds, prediction); err != nil {
		return nil, err
	}
	return prediction, nil
}

// SubmitOrientationSurvey submits the four baseline answers
func (c *HTTPClient) SubmitOrientationSurvey(ctx context.Context, creds Credentials, answer *entities.OrientationSurveyAnswer) (*SurveyResult, error) {
	if !answer.Complete() {
		return nil, apperrors.NewValidationError("orientation answer is incomplete")
	}

	req, err := c.jsonRequest(ctx, http.MethodPost, "/v1/diagnosis/survey", answer)
	if err != nil {
		return nil, err
	}

	result := &SurveyResult{}
	if err := c.do(req, creds, result); err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitFinalSymptoms submits the completed extended symptom set
func (c *HTTPClient) SubmitFinalSymptoms(ctx context.Context, creds Credentials, answers *entities.ExtendedSymptomAnswers) (*entities.RiskAssessment, error) {
	if !answers.Complete() {
		return nil, apperrors.NewValidationError("extended symptom set is incomplete")
	}

	req, err := c.jsonRequest(ctx, http.MethodPost, "/v1/diagnosis/final", answers)
	if err != nil {
		return nil, err
	}

	assessment := &entities.RiskAssessment{}
	if err := c.do(req, creds, assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

func (c *HTTPClient) writePart(ctx context.Context, writer *multipart.Writer, field string, ref entities.MediaRef) error {
	reader, err := c.media.Open(ctx, ref.Key)
	if err != nil {
		return apperrors.NewCaptureError(fmt.Sprintf("staged media %s is unavailable", ref.Key), err)
	}
	defer reader.Close()

	part, err := writer.CreateFormFile(field, ref.Key)
	if err != nil {
		return apperrors.NewInternalError("failed to create upload part", err)
	}
	if _, err := io.Copy(part, reader); err != nil {
		return apperrors.NewInternalError("failed to copy media into upload", err)
	}
	return nil
}

func (c *HTTPClient) jsonRequest(ctx context.Context, method, path string, payload interface{}) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode request", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends the request and maps transport, status and envelope failures onto
// the workflow error taxonomy.
func (c *HTTPClient) do(req *http.Request, creds Credentials, out interface{}) error {
	if creds.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+creds.BearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		// Timeouts and connection failures are equally transient here.
		return apperrors.NewNetworkError("diagnosis api unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.NewUnauthorizedError("diagnosis api rejected credentials")
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return apperrors.NewValidationError(fmt.Sprintf("diagnosis api rejected request: status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return apperrors.NewNetworkError(fmt.Sprintf("diagnosis api returned status %d", resp.StatusCode), nil)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return apperrors.NewNetworkError("failed to decode diagnosis api response", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "diagnosis api reported failure"
		}
		return apperrors.NewServerRejectedError(msg)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperrors.NewNetworkError("failed to decode diagnosis api payload", err)
		}
	}
	return nil
}
