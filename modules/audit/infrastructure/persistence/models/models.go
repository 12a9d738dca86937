package models

import (
	"database/sql"
	"time"
)

type Audit struct {
	ID             string
	OrganizationID string
	StationID      string
	AuditorID      sql.NullString
	AuditNumber    string
	ScheduledDate  time.Time
	CompletedDate  sql.NullTime
	Status         string
	OverallScore   sql.NullFloat64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
