package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/domain/providers"
	"github.com/zatekoja/strokescreening/internal/domain/repositories"
	"github.com/zatekoja/strokescreening/internal/infrastructure/clients/strokeapi"
	"github.com/zatekoja/strokescreening/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// WorkflowConfig tunes the diagnosis workflow engine
type WorkflowConfig struct {
	FaceDuration      time.Duration
	MaxCaptureRetries int
	MaxSessions       int
	HospitalLimit     int
}

// WorkflowService owns the diagnosis state machine. One session per
// screening run; each session advances through its stages strictly in order
// and carries all accumulated state between them.
type WorkflowService struct {
	capture   providers.CaptureProvider
	api       strokeapi.Client
	scoring   *ScoringService
	hospitals repositories.HospitalRepository
	bus       providers.EventBus
	metrics   *observability.Metrics
	sessions  *lru.Cache[string, *sessionSlot]
	cfg       WorkflowConfig
}

// sessionSlot serializes all access to one session. The lock is held for
// state checks and mutations but released across blocking stage calls; the
// epoch check on re-acquire drops results that arrived after an abandon.
type sessionSlot struct {
	session *entities.DiagnosisSession
	locked  chan struct{}
}

func newSessionSlot(s *entities.DiagnosisSession) *sessionSlot {
	slot := &sessionSlot{session: s, locked: make(chan struct{}, 1)}
	slot.locked <- struct{}{}
	return slot
}

func (slot *sessionSlot) lock(ctx context.Context) error {
	select {
	case <-slot.locked:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (slot *sessionSlot) unlock() {
	slot.locked <- struct{}{}
}

// NewWorkflowService creates a fully wired workflow engine. The hospital
// repository and event bus are optional collaborators and may be nil.
func NewWorkflowService(
	capture providers.CaptureProvider,
	api strokeapi.Client,
	scoring *ScoringService,
	hospitals repositories.HospitalRepository,
	bus providers.EventBus,
	metrics *observability.Metrics,
	cfg WorkflowConfig,
) (*WorkflowService, error) {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1024
	}
	if cfg.MaxCaptureRetries <= 0 {
		cfg.MaxCaptureRetries = 3
	}
	if cfg.FaceDuration <= 0 {
		cfg.FaceDuration = 5 * time.Second
	}
	if cfg.HospitalLimit <= 0 {
		cfg.HospitalLimit = 5
	}

	sessions, err := lru.New[string, *sessionSlot](cfg.MaxSessions)
	if err != nil {
		return nil, err
	}

	return &WorkflowService{
		capture:   capture,
		api:       api,
		scoring:   scoring,
		hospitals: hospitals,
		bus:       bus,
		metrics:   metrics,
		sessions:  sessions,
		cfg:       cfg,
	}, nil
}

// StartSession creates an empty idle session
func (s *WorkflowService) StartSession(ctx context.Context, profile entities.PatientProfile) (*entities.DiagnosisSession, error) {
	if profile.Age < 1 || profile.Age > 120 {
		return nil, apperrors.NewValidationError("profile age must be between 1 and 120")
	}

	now := time.Now()
	session := &entities.DiagnosisSession{
		ID:        uuid.New().String(),
		Profile:   profile,
		State:     entities.StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions.Add(session.ID, newSessionSlot(session))

	observability.LoggerFromContext(ctx).Info().
		Str("session_id", session.ID).
		Msg("diagnosis session started")
	return snapshot(session), nil
}

// GetSession returns a point-in-time copy of the session state
func (s *WorkflowService) GetSession(ctx context.Context, id string) (*entities.DiagnosisSession, error) {
	slot, err := s.slot(id)
	if err != nil {
		return nil, err
	}
	if err := slot.lock(ctx); err != nil {
		return nil, err
	}
	defer slot.unlock()
	return snapshot(slot.session), nil
}

// BeginCapture runs the face and speech captures for an idle session
func (s *WorkflowService) BeginCapture(ctx context.Context, id string) (*entities.DiagnosisSession, error) {
	slot, err := s.slot(id)
	if err != nil {
		return nil, err
	}
	if err := slot.lock(ctx); err != nil {
		return nil, err
	}

	session := slot.session
	if session.InFlight {
		slot.unlock()
		return nil, apperrors.NewConflictError("a stage is already in flight for this session")
	}
	if session.State != entities.StateIdle {
		slot.unlock()
		return nil, apperrors.NewConflictError("capture can only start from the idle state")
	}

	session.State = entities.StateCapturing
	session.CaptureAttempts++
	session.InFlight = true
	epoch := session.Epoch
	slot.unlock()

	bundle, captureErr := s.runCapture(ctx, id)

	if err := slot.lock(context.Background()); err != nil {
		return nil, err
	}
	defer slot.unlock()
	session = slot.session
	if session.Epoch != epoch {
		// Session was abandoned mid-capture; drop the result. InFlight
		// belongs to the successor run now and must not be touched.
		return snapshot(session), nil
	}
	session.InFlight = false

	if captureErr != nil {
		session.Fail(entities.StageCapture, captureErr)
		s.recordFailure(ctx, entities.StageCapture)
		return snapshot(session), nil
	}

	session.CaptureBundle = bundle
	session.State = entities.StateUploading
	session.UpdatedAt = time.Now()
	observability.LoggerFromContext(ctx).Info().
		Str("session_id", id).
		Str("face_key", bundle.FaceVideo.Key).
		Str("speech_key", bundle.SpeechAudio.Key).
		Msg("capture bundle complete")
	return snapshot(session), nil
}

func (s *WorkflowService) runCapture(ctx context.Context, sessionID string) (*entities.CaptureBundle, error) {
	face, err := s.capture.StartFaceCapture(ctx, sessionID, s.cfg.FaceDuration)
	if err != nil {
		return nil, err
	}
	if err := s.capture.StartAudioCapture(ctx, sessionID); err != nil {
		return nil, err
	}
	speech, err := s.capture.StopAudioCapture(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &entities.CaptureBundle{FaceVideo: *face, SpeechAudio: *speech}, nil
}

// BeginUpload transmits the capture bundle and applies the branch rule
func (s *WorkflowService) BeginUpload(ctx context.Context, id string, creds strokeapi.Credentials) (*entities.DiagnosisSession, error) {
	slot, err := s.slot(id)
	if err != nil {
		return nil, err
	}
	if err := slot.lock(ctx); err != nil {
		return nil, err
	}

	session := slot.session
	if session.InFlight {
		slot.unlock()
		return nil, apperrors.NewConflictError("an upload is already in flight for this session")
	}
	if session.State != entities.StateUploading {
		slot.unlock()
		return nil, apperrors.NewConflictError("upload requires a completed capture bundle")
	}

	bundle := session.CaptureBundle
	session.InFlight = true
	epoch := session.Epoch
	slot.unlock()

	prediction, uploadErr := s.api.UploadCapture(ctx, creds, bundle)

	if err := slot.lock(context.Background()); err != nil {
		return nil, err
	}
	defer slot.unlock()
	session = slot.session
	if session.Epoch != epoch {
		return snapshot(session), nil
	}
	session.InFlight = false

	if uploadErr != nil {
		session.Fail(entities.StageUpload, uploadErr)
		s.recordFailure(ctx, entities.StageUpload)
		return snapshot(session), nil
	}

	session.Prediction = prediction
	session.State = entities.StateAwaitingBranch
	session.Branch = prediction.DecideBranch()
	if session.Branch == entities.BranchNormal {
		session.State = entities.StateNormalPath
	} else {
		session.State = entities.StateCautionPath
	}
	session.UpdatedAt = time.Now()

	observability.LoggerFromContext(ctx).Info().
		Str("session_id", id).
		Str("branch", string(session.Branch)).
		Float64("face_probability", prediction.FaceProbability).
		Float64("speech_probability", prediction.SpeechProbability).
		Msg("prediction received")
	return snapshot(session), nil
}

// BeginQuestionnaire converges both branch paths on the questionnaire
func (s *WorkflowService) BeginQuestionnaire(ctx context.Context, id string) (*entities.DiagnosisSession, error) {
	return s.mutate(ctx, id, func(session *entities.DiagnosisSession) error {
		if session.State != entities.StateNormalPath && session.State != entities.StateCautionPath {
			return apperrors.NewConflictError("questionnaire requires a branch decision")
		}
		session.State = entities.StateQuestionnaire
		return nil
	})
}

// SubmitOrientation stores the four-field baseline answer
func (s *WorkflowService) SubmitOrientation(ctx context.Context, id string, answer *entities.OrientationSurveyAnswer) (*entities.DiagnosisSession, error) {
	return s.mutate(ctx, id, func(session *entities.DiagnosisSession) error {
		if session.State != entities.StateQuestionnaire {
			return apperrors.NewConflictError("orientation answers require an open questionnaire")
		}
		if err := answer.Validate(); err != nil {
			return err
		}
		session.Orientation = answer
		return nil
	})
}

// AnswerExtended records one extended symptom answer
func (s *WorkflowService) AnswerExtended(ctx context.Context, id, questionID string, value int) (*entities.DiagnosisSession, error) {
	return s.mutate(ctx, id, func(session *entities.DiagnosisSession) error {
		if session.State != entities.StateQuestionnaire {
			return apperrors.NewConflictError("extended answers require an open questionnaire")
		}
		if session.Extended == nil {
			session.Extended = &entities.ExtendedSymptomAnswers{}
		}
		return session.Extended.Set(questionID, value)
	})
}

// CompleteQuestionnaire guards completeness, grades the answers and runs
// the local scoring step. Scoring is synchronous and has no failure mode
// once the guard passes.
func (s *WorkflowService) CompleteQuestionnaire(ctx context.Context, id string) (*entities.DiagnosisSession, error) {
	return s.mutate(ctx, id, func(session *entities.DiagnosisSession) error {
		if session.State != entities.StateQuestionnaire {
			return apperrors.NewConflictError("questionnaire is not open")
		}
		if !session.Orientation.Complete() {
			return apperrors.NewValidationError("orientation survey is not fully answered")
		}
		if session.Extended.Started() && !session.Extended.Complete() {
			return apperrors.NewValidationError("extended symptom set is partially answered")
		}

		ref := OrientationReference{
			Month: int(time.Now().Month()),
			Age:   session.Profile.Age,
		}
		score, err := s.scoring.GradeOrientation(session.Orientation, ref)
		if err != nil {
			return err
		}

		session.OrientationScore = score
		session.State = entities.StateScoring

		var extended *entities.ExtendedSymptomAnswers
		if session.Extended.Started() {
			extended = session.Extended
		}
		assessment, err := s.scoring.ComputeRiskAssessment(session.Prediction, score, extended)
		if err != nil {
			return apperrors.NewInternalError("scoring failed despite completeness guard", err)
		}

		session.Assessment = assessment
		session.State = entities.StateSubmitting
		return nil
	})
}

// Submit sends the confirmed answers, merges the server assessment and
// hospital recommendations, and completes the session
func (s *WorkflowService) Submit(ctx context.Context, id string, creds strokeapi.Credentials) (*entities.DiagnosisSession, error) {
	slot, err := s.slot(id)
	if err != nil {
		return nil, err
	}
	if err := slot.lock(ctx); err != nil {
		return nil, err
	}

	session := slot.session
	if session.InFlight {
		slot.unlock()
		return nil, apperrors.NewConflictError("a submission is already in flight for this session")
	}
	if session.State != entities.StateSubmitting {
		slot.unlock()
		return nil, apperrors.NewConflictError("submission requires a scored questionnaire")
	}

	orientation := session.Orientation
	var extended *entities.ExtendedSymptomAnswers
	if session.Extended.Started() {
		extended = session.Extended
	}
	session.InFlight = true
	epoch := session.Epoch
	slot.unlock()

	assessment, hospitals, submitErr := s.runSubmit(ctx, creds, orientation, extended)

	if err := slot.lock(context.Background()); err != nil {
		return nil, err
	}
	defer slot.unlock()
	session = slot.session
	if session.Epoch != epoch {
		return snapshot(session), nil
	}
	session.InFlight = false

	if submitErr != nil {
		session.Fail(entities.StageSubmit, submitErr)
		s.recordFailure(ctx, entities.StageSubmit)
		return snapshot(session), nil
	}

	if len(hospitals) == 0 && s.hospitals != nil {
		fallback, err := s.hospitals.ListBySeverity(ctx, assessment.Severity, s.cfg.HospitalLimit)
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().
				Err(err).
				Str("session_id", id).
				Msg("hospital fallback lookup failed")
		} else {
			hospitals = fallback
		}
	}

	session.Assessment = assessment
	session.Hospitals = hospitals
	session.State = entities.StateComplete
	session.UpdatedAt = time.Now()

	s.publishCompletion(ctx, session)
	s.recordCompletion(ctx, assessment.Severity)

	observability.LoggerFromContext(ctx).Info().
		Str("session_id", id).
		Str("severity", string(assessment.Severity)).
		Int("hospitals", len(hospitals)).
		Msg("diagnosis complete")
	return snapshot(session), nil
}

func (s *WorkflowService) runSubmit(
	ctx context.Context,
	creds strokeapi.Credentials,
	orientation *entities.OrientationSurveyAnswer,
	extended *entities.ExtendedSymptomAnswers,
) (*entities.RiskAssessment, []entities.HospitalRecommendation, error) {
	survey, err := s.api.SubmitOrientationSurvey(ctx, creds, orientation)
	if err != nil {
		return nil, nil, err
	}

	assessment := survey.Assessment
	if extended != nil {
		refined, err := s.api.SubmitFinalSymptoms(ctx, creds, extended)
		if err != nil {
			return nil, nil, err
		}
		assessment = *refined
	}
	return &assessment, survey.Hospitals, nil
}

// Retry re-dispatches the failed stage with the accumulated session state
func (s *WorkflowService) Retry(ctx context.Context, id string, creds strokeapi.Credentials) (*entities.DiagnosisSession, error) {
	slot, err := s.slot(id)
	if err != nil {
		return nil, err
	}
	if err := slot.lock(ctx); err != nil {
		return nil, err
	}

	session := slot.session
	if !session.Failed() {
		slot.unlock()
		return nil, apperrors.NewConflictError("retry requires a failed session")
	}

	stage := session.FailedStage
	if stage == entities.StageCapture && session.CaptureAttempts >= s.cfg.MaxCaptureRetries {
		slot.unlock()
		return nil, apperrors.NewValidationError("capture retry limit reached; abandon the session to start over")
	}

	session.ClearFailure()
	switch stage {
	case entities.StageCapture:
		session.State = entities.StateIdle
		slot.unlock()
		return s.BeginCapture(ctx, id)
	case entities.StageUpload:
		session.State = entities.StateUploading
		slot.unlock()
		return s.BeginUpload(ctx, id, creds)
	case entities.StageSubmit:
		session.State = entities.StateSubmitting
		slot.unlock()
		return s.Submit(ctx, id, creds)
	default:
		slot.unlock()
		return nil, apperrors.NewInternalError("unknown failed stage", nil)
	}
}

// Abandon discards the session and returns a fresh idle one. Results of any
// in-flight work from the discarded run are dropped on arrival.
func (s *WorkflowService) Abandon(ctx context.Context, id string) (*entities.DiagnosisSession, error) {
	slot, err := s.slot(id)
	if err != nil {
		return nil, err
	}
	if err := slot.lock(ctx); err != nil {
		return nil, err
	}
	defer slot.unlock()

	old := slot.session
	now := time.Now()
	slot.session = &entities.DiagnosisSession{
		ID:        old.ID,
		Profile:   old.Profile,
		State:     entities.StateIdle,
		Epoch:     old.Epoch + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	observability.LoggerFromContext(ctx).Info().
		Str("session_id", id).
		Msg("diagnosis session abandoned")
	return snapshot(slot.session), nil
}

// mutate runs a synchronous state change under the session lock
func (s *WorkflowService) mutate(ctx context.Context, id string, fn func(*entities.DiagnosisSession) error) (*entities.DiagnosisSession, error) {
	slot, err := s.slot(id)
	if err != nil {
		return nil, err
	}
	if err := slot.lock(ctx); err != nil {
		return nil, err
	}
	defer slot.unlock()

	session := slot.session
	if session.InFlight {
		return nil, apperrors.NewConflictError("a stage is already in flight for this session")
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = time.Now()
	return snapshot(session), nil
}

func (s *WorkflowService) slot(id string) (*sessionSlot, error) {
	slot, ok := s.sessions.Get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("diagnosis session not found")
	}
	return slot, nil
}

func (s *WorkflowService) publishCompletion(ctx context.Context, session *entities.DiagnosisSession) {
	if s.bus == nil || session.Assessment == nil {
		return
	}
	event := &entities.DiagnosisEvent{
		ID:                   uuid.New().String(),
		SessionID:            session.ID,
		Severity:             session.Assessment.Severity,
		TotalScorePercentage: session.Assessment.TotalScorePercentage,
		OccurredAt:           time.Now(),
	}
	if err := s.bus.Publish(ctx, providers.EventChannelDiagnosisCompleted, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("session_id", session.ID).
			Msg("failed to publish diagnosis event")
	}
}

func (s *WorkflowService) recordFailure(ctx context.Context, stage entities.Stage) {
	if s.metrics != nil {
		observability.RecordStageFailure(ctx, s.metrics, string(stage))
	}
}

func (s *WorkflowService) recordCompletion(ctx context.Context, severity entities.Severity) {
	if s.metrics != nil {
		observability.RecordDiagnosisComplete(ctx, s.metrics, string(severity))
	}
}

// snapshot deep-copies the session so handlers can serialize it after the
// slot lock is released. Every pointer and slice field must be detached;
// AnswerExtended mutates items in place under the lock.
func snapshot(session *entities.DiagnosisSession) *entities.DiagnosisSession {
	cp := *session

	if session.CaptureBundle != nil {
		bundle := *session.CaptureBundle
		cp.CaptureBundle = &bundle
	}
	if session.Prediction != nil {
		prediction := *session.Prediction
		cp.Prediction = &prediction
	}
	if session.Orientation != nil {
		cp.Orientation = &entities.OrientationSurveyAnswer{
			OrientationMonth: copyIntPtr(session.Orientation.OrientationMonth),
			OrientationAge:   copyIntPtr(session.Orientation.OrientationAge),
			Gaze:             copyIntPtr(session.Orientation.Gaze),
			Arm:              copyIntPtr(session.Orientation.Arm),
		}
	}
	if session.OrientationScore != nil {
		score := *session.OrientationScore
		cp.OrientationScore = &score
	}
	if session.Extended != nil {
		extended := *session.Extended
		extended.Items = make([]entities.ExtendedAnswer, len(session.Extended.Items))
		copy(extended.Items, session.Extended.Items)
		cp.Extended = &extended
	}
	if session.Assessment != nil {
		assessment := *session.Assessment
		cp.Assessment = &assessment
	}
	if session.Hospitals != nil {
		cp.Hospitals = make([]entities.HospitalRecommendation, len(session.Hospitals))
		copy(cp.Hospitals, session.Hospitals)
	}
	return &cp
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
