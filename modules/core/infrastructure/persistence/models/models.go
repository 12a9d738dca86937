package models

import (
	"database/sql"
	"time"
)

type Tenant struct {
	ID                 string
	Name               string
	Domain             sql.NullString
	SubscriptionPlan   string
	SubscriptionStatus string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type User struct {
	ID             string
	OrganizationID sql.NullString
	Email          string
	Name           string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
