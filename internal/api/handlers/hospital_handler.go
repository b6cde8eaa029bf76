package handlers

import (
	"net/http"
	"strconv"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/domain/repositories"
)

// HospitalHandler exposes the local hospital directory
type HospitalHandler struct {
	repo repositories.HospitalRepository
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(repo repositories.HospitalRepository) *HospitalHandler {
	return &HospitalHandler{
		repo: repo,
	}
}

// ListHospitals handles GET /api/hospitals
func (h *HospitalHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	severity := entities.Severity(r.URL.Query().Get("severity"))
	switch severity {
	case "", entities.SeverityNormal, entities.SeverityCaution, entities.SeverityElevated:
	default:
		respondWithError(w, http.StatusBadRequest, "severity must be NORMAL, CAUTION or ELEVATED")
		return
	}
	if severity == "" {
		severity = entities.SeverityNormal
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			respondWithError(w, http.StatusBadRequest, "limit must be between 1 and 50")
			return
		}
		limit = parsed
	}

	hospitals, err := h.repo.ListBySeverity(r.Context(), severity, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// GetHospital handles GET /api/hospitals/{id}
func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	hospital, err := h.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, hospital)
}
