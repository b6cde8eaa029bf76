package entities

import (
	"time"
)

// MediaKind identifies which of the two screening captures a file holds
type MediaKind string

const (
	MediaKindFace   MediaKind = "face"
	MediaKindSpeech MediaKind = "speech"
)

// MediaRef is an opaque handle to a staged media file
type MediaRef struct {
	Key         string    `json:"key"`
	Kind        MediaKind `json:"kind"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StagedAt    time.Time `json:"staged_at"`
}

// CaptureBundle holds the two media references a diagnosis upload needs.
// It is only considered created once both captures succeeded; after that it
// is immutable and owned by the session until consumed by the upload stage.
type CaptureBundle struct {
	FaceVideo   MediaRef `json:"face_video"`
	SpeechAudio MediaRef `json:"speech_audio"`
}

// Complete reports whether both captures are present
func (b *CaptureBundle) Complete() bool {
	return b != nil && b.FaceVideo.Key != "" && b.SpeechAudio.Key != ""
}
