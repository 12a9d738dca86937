package models

import (
	"database/sql"
	"time"
)

type Incident struct {
	ID             string
	OrganizationID string
	StationID      string
	ReporterID     sql.NullString
	IncidentType   string
	Severity       string
	Description    string
	Status         string
	ReportedAt     time.Time
	ResolvedAt     sql.NullTime
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
