package repositories

import (
	"context"

	"github.com/zatekoja/strokescreening/internal/domain/entities"
)

// HospitalRepository looks up locally known hospitals when the remote survey
// response carries no recommendations
type HospitalRepository interface {
	// ListBySeverity returns hospitals suited to the given outcome, most
	// capable first.
	ListBySeverity(ctx context.Context, severity entities.Severity, limit int) ([]entities.HospitalRecommendation, error)

	// GetByID retrieves a single hospital.
	GetByID(ctx context.Context, id string) (*entities.HospitalRecommendation, error)
}
