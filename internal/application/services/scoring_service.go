package services

import (
	"github.com/zatekoja/strokescreening/internal/domain/entities"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

// Severity band thresholds over the score percentage. The bands are
// exhaustive and non-overlapping across [0,100] and must match the server's
// classification.
const (
	cautionThreshold  = 40.0
	elevatedThreshold = 70.0
)

// impairedItemScore is the weight of one wrong or impaired orientation item
const impairedItemScore = 2

// OrientationReference carries the ground truth orientation answers are
// graded against: the actual current month and the patient's registered age.
type OrientationReference struct {
	Month int
	Age   int
}

// ScoringService computes local risk assessments. All methods are pure and
// deterministic; the workflow supplies the orientation reference so nothing
// in here reads the clock.
type ScoringService struct{}

// NewScoringService creates a scoring service
func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// GradeOrientation converts raw orientation answers into graded items.
// A wrong month, a wrong age, an impaired gaze or an impaired arm each score
// 2 points; intact items score 0.
func (s *ScoringService) GradeOrientation(answer *entities.OrientationSurveyAnswer, ref OrientationReference) (*entities.OrientationScore, error) {
	if !answer.Complete() {
		return nil, apperrors.NewInvalidInputError("orientation answer must be fully populated before grading")
	}
	if err := answer.Validate(); err != nil {
		return nil, err
	}

	score := &entities.OrientationScore{}
	if *answer.OrientationMonth != ref.Month {
		score.Month = impairedItemScore
	}
	if *answer.OrientationAge != ref.Age {
		score.Age = impairedItemScore
	}
	if *answer.Gaze == 1 {
		score.Gaze = impairedItemScore
	}
	if *answer.Arm == 1 {
		score.Arm = impairedItemScore
	}
	return score, nil
}

// ComputeRiskAssessment derives the composite risk from the graded
// orientation items plus the extended ordinals when that branch was taken.
// The denominator tracks the question set actually answered. The prediction
// selects the narrative branch upstream and does not contribute points.
func (s *ScoringService) ComputeRiskAssessment(
	prediction *entities.PredictionResult,
	orientation *entities.OrientationScore,
	extended *entities.ExtendedSymptomAnswers,
) (*entities.RiskAssessment, error) {
	total := 0
	max := 0

	if orientation != nil {
		total += orientation.Total()
		max += entities.MaxOrientationScore
	}

	if extended != nil {
		if !extended.Complete() {
			return nil, apperrors.NewInvalidInputError("extended symptom set must be fully answered before scoring")
		}
		for _, item := range extended.Items {
			total += item.Value
		}
		for _, q := range entities.ExtendedQuestionSet() {
			max += q.MaxValue
		}
	}

	if max == 0 {
		return nil, apperrors.NewInvalidInputError("no scored questions supplied")
	}

	percentage := float64(total) / float64(max) * 100
	return &entities.RiskAssessment{
		TotalScore:           total,
		TotalScorePercentage: percentage,
		Severity:             SeverityForPercentage(percentage),
	}, nil
}

// SeverityForPercentage maps a score percentage onto the severity bands
func SeverityForPercentage(p float64) entities.Severity {
	switch {
	case p < cautionThreshold:
		return entities.SeverityNormal
	case p < elevatedThreshold:
		return entities.SeverityCaution
	default:
		return entities.SeverityElevated
	}
}
