package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/strokescreening/internal/application/services"
	"github.com/zatekoja/strokescreening/internal/domain/entities"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

func intPtr(v int) *int {
	return &v
}

func fullOrientation(month, age, gaze, arm int) *entities.OrientationSurveyAnswer {
	return &entities.OrientationSurveyAnswer{
		OrientationMonth: intPtr(month),
		OrientationAge:   intPtr(age),
		Gaze:             intPtr(gaze),
		Arm:              intPtr(arm),
	}
}

func fullExtended(t *testing.T, value int) *entities.ExtendedSymptomAnswers {
	t.Helper()
	answers := &entities.ExtendedSymptomAnswers{}
	for _, q := range entities.ExtendedQuestionSet() {
		require.NoError(t, answers.Set(q.ID, value))
	}
	return answers
}

func TestScoringService_GradeOrientation(t *testing.T) {
	scoring := services.NewScoringService()
	ref := services.OrientationReference{Month: 7, Age: 70}

	t.Run("all items intact score zero", func(t *testing.T) {
		score, err := scoring.GradeOrientation(fullOrientation(7, 70, 0, 0), ref)

		assert.NoError(t, err)
		assert.Equal(t, 0, score.Total())
	})

	t.Run("each impaired item scores two", func(t *testing.T) {
		score, err := scoring.GradeOrientation(fullOrientation(2, 65, 1, 0), ref)

		assert.NoError(t, err)
		assert.Equal(t, 2, score.Month)
		assert.Equal(t, 2, score.Age)
		assert.Equal(t, 2, score.Gaze)
		assert.Equal(t, 0, score.Arm)
		assert.Equal(t, 6, score.Total())
	})

	t.Run("everything impaired hits the maximum", func(t *testing.T) {
		score, err := scoring.GradeOrientation(fullOrientation(1, 30, 1, 1), ref)

		assert.NoError(t, err)
		assert.Equal(t, entities.MaxOrientationScore, score.Total())
	})

	t.Run("rejects a partially answered survey", func(t *testing.T) {
		answer := fullOrientation(7, 70, 0, 0)
		answer.Gaze = nil

		score, err := scoring.GradeOrientation(answer, ref)

		assert.Nil(t, score)
		assert.Equal(t, apperrors.ErrorTypeInvalidInput, apperrors.TypeOf(err))
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		score, err := scoring.GradeOrientation(fullOrientation(13, 70, 0, 0), ref)

		assert.Nil(t, score)
		assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	})
}

func TestScoringService_ComputeRiskAssessment(t *testing.T) {
	scoring := services.NewScoringService()
	ref := services.OrientationReference{Month: 7, Age: 70}

	t.Run("orientation only uses the eight point denominator", func(t *testing.T) {
		score, err := scoring.GradeOrientation(fullOrientation(2, 65, 1, 0), ref)
		require.NoError(t, err)

		assessment, err := scoring.ComputeRiskAssessment(nil, score, nil)

		assert.NoError(t, err)
		assert.Equal(t, 6, assessment.TotalScore)
		assert.InDelta(t, 75.0, assessment.TotalScorePercentage, 0.001)
		assert.Equal(t, entities.SeverityElevated, assessment.Severity)
	})

	t.Run("extended answers widen the denominator to forty one", func(t *testing.T) {
		score, err := scoring.GradeOrientation(fullOrientation(7, 70, 0, 0), ref)
		require.NoError(t, err)

		assessment, err := scoring.ComputeRiskAssessment(nil, score, fullExtended(t, 0))

		assert.NoError(t, err)
		assert.Equal(t, 0, assessment.TotalScore)
		assert.InDelta(t, 0.0, assessment.TotalScorePercentage, 0.001)
		assert.Equal(t, entities.SeverityNormal, assessment.Severity)
	})

	t.Run("maximal answers reach one hundred percent", func(t *testing.T) {
		score, err := scoring.GradeOrientation(fullOrientation(1, 30, 1, 1), ref)
		require.NoError(t, err)

		assessment, err := scoring.ComputeRiskAssessment(nil, score, fullExtended(t, 3))

		assert.NoError(t, err)
		assert.Equal(t, 41, assessment.TotalScore)
		assert.InDelta(t, 100.0, assessment.TotalScorePercentage, 0.001)
		assert.Equal(t, entities.SeverityElevated, assessment.Severity)
	})

	t.Run("is deterministic for identical input", func(t *testing.T) {
		score, err := scoring.GradeOrientation(fullOrientation(2, 65, 1, 0), ref)
		require.NoError(t, err)
		extended := fullExtended(t, 1)

		first, err := scoring.ComputeRiskAssessment(nil, score, extended)
		require.NoError(t, err)
		second, err := scoring.ComputeRiskAssessment(nil, score, extended)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("rejects a partially answered extended set", func(t *testing.T) {
		score, err := scoring.GradeOrientation(fullOrientation(7, 70, 0, 0), ref)
		require.NoError(t, err)
		partial := &entities.ExtendedSymptomAnswers{}
		require.NoError(t, partial.Set("numbness", 2))

		assessment, err := scoring.ComputeRiskAssessment(nil, score, partial)

		assert.Nil(t, assessment)
		assert.Equal(t, apperrors.ErrorTypeInvalidInput, apperrors.TypeOf(err))
	})

	t.Run("rejects an empty question set", func(t *testing.T) {
		assessment, err := scoring.ComputeRiskAssessment(nil, nil, nil)

		assert.Nil(t, assessment)
		assert.Equal(t, apperrors.ErrorTypeInvalidInput, apperrors.TypeOf(err))
	})
}

func TestSeverityForPercentage(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		expected   entities.Severity
	}{
		{"zero is normal", 0, entities.SeverityNormal},
		{"just below caution is normal", 39.9, entities.SeverityNormal},
		{"caution boundary is caution", 40, entities.SeverityCaution},
		{"just below elevated is caution", 69.9, entities.SeverityCaution},
		{"elevated boundary is elevated", 70, entities.SeverityElevated},
		{"full score is elevated", 100, entities.SeverityElevated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, services.SeverityForPercentage(tt.percentage))
		})
	}
}
