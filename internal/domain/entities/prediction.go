package entities

// Branch is the narrative path selected from a prediction result
type Branch string

const (
	BranchNormal  Branch = "normal"
	BranchCaution Branch = "caution"
)

// PredictionResult is the server's verdict on the uploaded capture bundle
type PredictionResult struct {
	FacePrediction    bool    `json:"face_prediction"`
	FaceProbability   float64 `json:"face_probability"`
	SpeechPrediction  bool    `json:"speech_prediction"`
	SpeechProbability float64 `json:"speech_probability"`
}

// DecideBranch applies the branch rule: only a fully negative prediction
// stays on the normal path.
func (p PredictionResult) DecideBranch() Branch {
	if !p.FacePrediction && !p.SpeechPrediction {
		return BranchNormal
	}
	return BranchCaution
}
