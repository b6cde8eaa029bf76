package entities

import (
	"time"
)

// HospitalRecommendation is a read-only hospital suggestion attached to a
// completed diagnosis
type HospitalRecommendation struct {
	ID               string   `json:"id" db:"id"`
	Name             string   `json:"name" db:"name"`
	PhoneNumber      string   `json:"phone_number" db:"phone_number"`
	Address          Address  `json:"address" db:"-"`
	Location         Location `json:"location" db:"-"`
	EmergencyCapable bool     `json:"emergency_capable" db:"emergency_capable"`
	StrokeUnit       bool     `json:"stroke_unit" db:"stroke_unit"`
}

// Address represents a physical address
type Address struct {
	Street  string `json:"street" db:"street"`
	City    string `json:"city" db:"city"`
	State   string `json:"state" db:"state"`
	ZipCode string `json:"zip_code" db:"zip_code"`
	Country string `json:"country" db:"country"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// DiagnosisEvent is published when a diagnosis completes. It deliberately
// carries no media references and no raw answers.
type DiagnosisEvent struct {
	ID                   string    `json:"id"`
	SessionID            string    `json:"session_id"`
	Severity             Severity  `json:"severity"`
	TotalScorePercentage float64   `json:"total_score_percentage"`
	OccurredAt           time.Time `json:"occurred_at"`
}
