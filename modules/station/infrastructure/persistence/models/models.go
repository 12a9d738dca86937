package models

import (
	"database/sql"
	"time"
)

type Station struct {
	ID             string
	OrganizationID string
	Name           string
	Brand          sql.NullString
	Region         sql.NullString
	Address        sql.NullString
	RiskCategory   sql.NullString
	AuditFrequency sql.NullString
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
