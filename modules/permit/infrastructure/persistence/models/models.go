package models

import (
	"database/sql"
	"time"
)

type WorkPermit struct {
	ID             string
	OrganizationID string
	StationID      string
	PermitType     string
	ValidFrom      time.Time
	ValidUntil     time.Time
	Status         string
	ApproverID     sql.NullString
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
