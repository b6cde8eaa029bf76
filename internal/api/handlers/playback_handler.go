package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

// PlaybackService defines the interface for playback position operations
type PlaybackService interface {
	Position(ctx context.Context, key string) (float64, error)
	SavePosition(ctx context.Context, key string, position float64) error
}

// PlaybackHandler handles instructional video resume positions
type PlaybackHandler struct {
	service PlaybackService
}

// NewPlaybackHandler creates a new playback handler
func NewPlaybackHandler(service PlaybackService) *PlaybackHandler {
	return &PlaybackHandler{
		service: service,
	}
}

// GetPosition handles GET /api/playback/{key}
func (h *PlaybackHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	position, err := h.service.Position(r.Context(), r.PathValue("key"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]float64{
		"position": position,
	})
}

// SavePosition handles PUT /api/playback/{key}
func (h *PlaybackHandler) SavePosition(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Position *float64 `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Position == nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.SavePosition(r.Context(), r.PathValue("key"), *payload.Position); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]float64{
		"position": *payload.Position,
	})
}
