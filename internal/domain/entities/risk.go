package entities

// Severity is the discrete risk classification derived from the score
type Severity string

const (
	SeverityNormal   Severity = "NORMAL"
	SeverityCaution  Severity = "CAUTION"
	SeverityElevated Severity = "ELEVATED"
)

// RiskAssessment is the composite screening outcome
type RiskAssessment struct {
	TotalScore           int      `json:"total_score"`
	TotalScorePercentage float64  `json:"total_score_percentage"`
	Severity             Severity `json:"severity"`
}

// OrientationScore holds the graded orientation items. Each item scores 0
// when intact and 2 when wrong or impaired.
type OrientationScore struct {
	Month int `json:"month"`
	Age   int `json:"age"`
	Gaze  int `json:"gaze"`
	Arm   int `json:"arm"`
}

// MaxOrientationScore is the orientation-only scoring denominator
const MaxOrientationScore = 8

// Total sums the graded orientation items
func (s OrientationScore) Total() int {
	return s.Month + s.Age + s.Gaze + s.Arm
}
