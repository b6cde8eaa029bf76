package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/domain/providers"
)

// maxMediaSize caps a single staged upload at 64 MiB
const maxMediaSize = 64 << 20

// MediaHandler handles device media staging requests
type MediaHandler struct {
	media providers.MediaStore
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(media providers.MediaStore) *MediaHandler {
	return &MediaHandler{
		media: media,
	}
}

// StageMedia handles POST /api/diagnosis/sessions/{id}/media/{kind}.
// The device posts its locally recorded file here; the capture stage later
// resolves it by session and kind.
func (h *MediaHandler) StageMedia(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	kind := entities.MediaKind(r.PathValue("kind"))
	if kind != entities.MediaKindFace && kind != entities.MediaKindSpeech {
		respondWithError(w, http.StatusBadRequest, "media kind must be face or speech")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		respondWithError(w, http.StatusBadRequest, "Content-Type header is required")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxMediaSize)
	defer body.Close()

	key := providers.MediaKey(sessionID, kind)
	ref, err := h.media.Save(r.Context(), key, kind, contentType, body, r.ContentLength)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	// A successful upload supersedes any earlier failure report for the
	// same capture. Delete is a no-op when no marker exists.
	failureKey := providers.FailureKey(sessionID, kind)
	_ = h.media.Delete(r.Context(), failureKey)

	respondWithJSON(w, http.StatusCreated, ref)
}

// captureFailureRequest is the body of a device failure report
type captureFailureRequest struct {
	Reason string `json:"reason"`
}

// ReportCaptureFailure handles POST /api/diagnosis/sessions/{id}/media/{kind}/failure.
// The device reports why it could not record; the capture stage surfaces the
// reason when it finds no staged media for the session.
func (h *MediaHandler) ReportCaptureFailure(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	kind := entities.MediaKind(r.PathValue("kind"))
	if kind != entities.MediaKindFace && kind != entities.MediaKindSpeech {
		respondWithError(w, http.StatusBadRequest, "media kind must be face or speech")
		return
	}

	var req captureFailureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reason := providers.CaptureReason(req.Reason)
	if !reason.Valid() {
		respondWithError(w, http.StatusBadRequest, "reason must be permission_denied, device_unavailable or user_cancelled")
		return
	}

	key := providers.FailureKey(sessionID, kind)
	payload := strings.NewReader(string(reason))
	if _, err := h.media.Save(r.Context(), key, kind, "text/plain", payload, int64(len(reason))); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
