package entities

import (
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// OrientationSurveyAnswer holds the four-question baseline screening answers.
// Pointer fields distinguish "not answered" from a legitimate zero; gaze and
// arm are binary impairment indicators (0 = normal, 1 = impaired).
type OrientationSurveyAnswer struct {
	OrientationMonth *int `json:"orientation_month,omitempty"`
	OrientationAge   *int `json:"orientation_age,omitempty"`
	Gaze             *int `json:"gaze,omitempty"`
	Arm              *int `json:"arm,omitempty"`
}

// Complete reports whether all four fields are present
func (a *OrientationSurveyAnswer) Complete() bool {
	return a != nil &&
		a.OrientationMonth != nil &&
		a.OrientationAge != nil &&
		a.Gaze != nil &&
		a.Arm != nil
}

// Validate checks every present field against its closed domain
func (a *OrientationSurveyAnswer) Validate() error {
	if a == nil {
		return apperrors.NewValidationError("orientation answer is required")
	}
	if a.OrientationMonth != nil && (*a.OrientationMonth < 1 || *a.OrientationMonth > 12) {
		return apperrors.NewValidationError("orientation_month must be between 1 and 12")
	}
	if a.OrientationAge != nil && (*a.OrientationAge < 1 || *a.OrientationAge > 120) {
		return apperrors.NewValidationError("orientation_age must be between 1 and 120")
	}
	if a.Gaze != nil && *a.Gaze != 0 && *a.Gaze != 1 {
		return apperrors.NewValidationError("gaze must be 0 or 1")
	}
	if a.Arm != nil && *a.Arm != 0 && *a.Arm != 1 {
		return apperrors.NewValidationError("arm must be 0 or 1")
	}
	return nil
}

// SymptomQuestion is one item of the extended self-assessment
type SymptomQuestion struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	MaxValue int    `json:"max_value"`
}

// ExtendedQuestionSet returns the fixed 11-item ordinal question set.
// Each item is answered on a 0..3 scale (0 = never, 3 = constantly).
func ExtendedQuestionSet() []SymptomQuestion {
	return []SymptomQuestion{
		{ID: "numbness", Text: "Sudden numbness or weakness in the face, arm or leg", MaxValue: 3},
		{ID: "one_sided_weakness", Text: "Weakness affecting one side of the body only", MaxValue: 3},
		{ID: "speech_difficulty", Text: "Trouble speaking or slurred speech", MaxValue: 3},
		{ID: "comprehension", Text: "Trouble understanding what others are saying", MaxValue: 3},
		{ID: "vision_loss", Text: "Sudden trouble seeing in one or both eyes", MaxValue: 3},
		{ID: "double_vision", Text: "Double vision or blurred vision", MaxValue: 3},
		{ID: "dizziness", Text: "Sudden dizziness or loss of balance", MaxValue: 3},
		{ID: "coordination", Text: "Trouble walking or loss of coordination", MaxValue: 3},
		{ID: "headache", Text: "Sudden severe headache with no known cause", MaxValue: 3},
		{ID: "facial_droop", Text: "Drooping on one side of the face", MaxValue: 3},
		{ID: "swallowing", Text: "Difficulty swallowing", MaxValue: 3},
	}
}

// ExtendedAnswer is one selected ordinal value
type ExtendedAnswer struct {
	QuestionID string `json:"question_id"`
	Value      int    `json:"value"`
}

// ExtendedSymptomAnswers collects answers for the extended question set in
// the order they were given. Answers are append-only while the questionnaire
// is open; an item may be re-answered before the set is complete but the set
// is immutable once consumed by scoring.
type ExtendedSymptomAnswers struct {
	Items []ExtendedAnswer `json:"items"`
}

// Set records an answer, overwriting a previous answer to the same question
func (e *ExtendedSymptomAnswers) Set(questionID string, value int) error {
	var question *SymptomQuestion
	for _, q := range ExtendedQuestionSet() {
		if q.ID == questionID {
			qq := q
			question = &qq
			break
		}
	}
	if question == nil {
		return apperrors.NewValidationError("unknown extended question: " + questionID)
	}
	if value < 0 || value > question.MaxValue {
		return apperrors.NewValidationError("answer out of range for question " + questionID)
	}

	for i := range e.Items {
		if e.Items[i].QuestionID == questionID {
			e.Items[i].Value = value
			return nil
		}
	}
	e.Items = append(e.Items, ExtendedAnswer{QuestionID: questionID, Value: value})
	return nil
}

// Complete reports whether every question in the fixed set has an answer
func (e *ExtendedSymptomAnswers) Complete() bool {
	if e == nil {
		return false
	}
	answered := make(map[string]bool, len(e.Items))
	for _, item := range e.Items {
		answered[item.QuestionID] = true
	}
	for _, q := range ExtendedQuestionSet() {
		if !answered[q.ID] {
			return false
		}
	}
	return true
}

// Started reports whether at least one extended answer was given
func (e *ExtendedSymptomAnswers) Started() bool {
	return e != nil && len(e.Items) > 0
}
