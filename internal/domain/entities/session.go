package entities

import (
	"time"
)

// WorkflowState is one step of the diagnosis state machine
type WorkflowState string

const (
	StateIdle           WorkflowState = "idle"
	StateCapturing      WorkflowState = "capturing"
	StateUploading      WorkflowState = "uploading"
	StateAwaitingBranch WorkflowState = "awaiting_branch"
	StateNormalPath     WorkflowState = "normal_path"
	StateCautionPath    WorkflowState = "caution_path"
	StateQuestionnaire  WorkflowState = "questionnaire"
	StateScoring        WorkflowState = "scoring"
	StateSubmitting     WorkflowState = "submitting"
	StateComplete       WorkflowState = "complete"
	StateFailed         WorkflowState = "failed"
)

// Stage names the asynchronous step a failure occurred in
type Stage string

const (
	StageCapture Stage = "capture"
	StageUpload  Stage = "upload"
	StageSubmit  Stage = "submit"
)

// PatientProfile carries the reference data orientation grading needs
type PatientProfile struct {
	Age int `json:"age"`
}

// DiagnosisSession is the aggregate root for one screening run. It exists
// only in memory for the duration of the workflow and every field after ID
// is filled in strict stage order.
type DiagnosisSession struct {
	ID          string         `json:"id"`
	Profile     PatientProfile `json:"profile"`
	State       WorkflowState  `json:"state"`
	Branch      Branch         `json:"branch,omitempty"`
	FailedStage Stage          `json:"failed_stage,omitempty"`
	LastError   string         `json:"last_error,omitempty"`

	CaptureBundle    *CaptureBundle           `json:"capture_bundle,omitempty"`
	Prediction       *PredictionResult        `json:"prediction,omitempty"`
	Orientation      *OrientationSurveyAnswer `json:"orientation,omitempty"`
	OrientationScore *OrientationScore        `json:"orientation_score,omitempty"`
	Extended         *ExtendedSymptomAnswers  `json:"extended,omitempty"`
	Assessment       *RiskAssessment          `json:"assessment,omitempty"`
	Hospitals        []HospitalRecommendation `json:"hospitals,omitempty"`

	CaptureAttempts int       `json:"capture_attempts"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Epoch counts abandon resets; results of work dispatched under an
	// older epoch are discarded when they arrive.
	Epoch int `json:"-"`

	// InFlight marks the stage currently being executed, if any.
	InFlight bool `json:"-"`
}

// Terminal reports whether the session reached a terminal state
func (s *DiagnosisSession) Terminal() bool {
	return s.State == StateComplete
}

// Failed reports whether the session is parked in the failed state
func (s *DiagnosisSession) Failed() bool {
	return s.State == StateFailed
}

// Fail records a stage failure without discarding accumulated state
func (s *DiagnosisSession) Fail(stage Stage, cause error) {
	s.State = StateFailed
	s.FailedStage = stage
	s.LastError = cause.Error()
	s.UpdatedAt = time.Now()
}

// ClearFailure resets failure bookkeeping before a retry
func (s *DiagnosisSession) ClearFailure() {
	s.FailedStage = ""
	s.LastError = ""
}
