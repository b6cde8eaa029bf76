package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/internal/domain/repositories"
	"github.com/zatekoja/strokescreening/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/strokescreening/pkg/errors"
)

var hospitalColumns = []interface{}{
	"id", "name", "phone_number",
	"street", "city", "state", "zip_code", "country",
	"latitude", "longitude",
	"emergency_capable", "stroke_unit",
}

// HospitalAdapter implements the HospitalRepository interface
type HospitalAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHospitalAdapter creates a new hospital adapter
func NewHospitalAdapter(client *postgres.Client) repositories.HospitalRepository {
	return &HospitalAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListBySeverity returns active hospitals matched to the diagnosis outcome.
// An elevated outcome requires a stroke unit, a caution outcome requires
// emergency capability, and a normal outcome accepts any active hospital.
func (a *HospitalAdapter) ListBySeverity(ctx context.Context, severity entities.Severity, limit int) ([]entities.HospitalRecommendation, error) {
	if limit <= 0 {
		limit = 5
	}

	ds := a.db.From("hospitals").
		Select(hospitalColumns...).
		Where(goqu.Ex{"is_active": true})

	switch severity {
	case entities.SeverityElevated:
		ds = ds.Where(goqu.Ex{"stroke_unit": true})
	case entities.SeverityCaution:
		ds = ds.Where(goqu.Ex{"emergency_capable": true})
	}

	ds = ds.Order(
		goqu.I("stroke_unit").Desc(),
		goqu.I("emergency_capable").Desc(),
		goqu.I("name").Asc(),
	).Limit(uint(limit))

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build hospital query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list hospitals", err)
	}
	defer rows.Close()

	hospitals := make([]entities.HospitalRecommendation, 0, limit)
	for rows.Next() {
		hospital, err := scanHospital(rows)
		if err != nil {
			return nil, err
		}
		hospitals = append(hospitals, *hospital)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read hospital rows", err)
	}

	return hospitals, nil
}

// GetByID retrieves a single hospital
func (a *HospitalAdapter) GetByID(ctx context.Context, id string) (*entities.HospitalRecommendation, error) {
	query, args, err := a.db.From("hospitals").
		Select(hospitalColumns...).
		Where(goqu.Ex{"id": id, "is_active": true}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build hospital query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	hospital, err := scanHospital(row)
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeNotFound {
			return nil, apperrors.NewNotFoundError("hospital not found")
		}
		return nil, err
	}
	return hospital, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHospital(row rowScanner) (*entities.HospitalRecommendation, error) {
	hospital := &entities.HospitalRecommendation{}
	err := row.Scan(
		&hospital.ID,
		&hospital.Name,
		&hospital.PhoneNumber,
		&hospital.Address.Street,
		&hospital.Address.City,
		&hospital.Address.State,
		&hospital.Address.ZipCode,
		&hospital.Address.Country,
		&hospital.Location.Latitude,
		&hospital.Location.Longitude,
		&hospital.EmergencyCapable,
		&hospital.StrokeUnit,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("hospital not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan hospital", err)
	}
	return hospital, nil
}
