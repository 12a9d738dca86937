package tenancy

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/hse-digital/platform/pkg/composables"
)

// Outcome classifies what the guard decided for one data access.
type Outcome string

const (
	OutcomeAllowed          Outcome = "allowed"
	OutcomeBlockedNoContext Outcome = "blocked_no_context"
	OutcomeBlockedMismatch  Outcome = "blocked_mismatch"
	OutcomeRejectedByPolicy Outcome = "rejected_by_policy"
)

// AccessDecision is the observability record emitted for guarded operations.
// It is logged and counted, never persisted.
type AccessDecision struct {
	TenantID  uuid.UUID
	Entity    string
	Operation string
	Outcome   Outcome
}

var decisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tenancy_access_decisions_total",
		Help: "Guarded data-access decisions by entity, operation and outcome.",
	},
	[]string{"entity", "operation", "outcome"},
)

func recordDecision(ctx context.Context, d AccessDecision) {
	decisionsTotal.WithLabelValues(d.Entity, d.Operation, string(d.Outcome)).Inc()

	logger, ok := composables.TryUseLogger(ctx)
	if !ok {
		return
	}
	entry := logger.WithFields(logrus.Fields{
		"tenant-id": d.TenantID.String(),
		"entity":    d.Entity,
		"operation": d.Operation,
		"outcome":   d.Outcome,
	})
	switch d.Outcome {
	case OutcomeRejectedByPolicy:
		// The policy layer contradicted the guard: an application defect,
		// not a business error.
		entry.Error("row-level policy rejected guarded operation")
	case OutcomeBlockedMismatch:
		entry.Warn("guarded mutation matched zero rows; possible cross-tenant access attempt")
	case OutcomeBlockedNoContext:
		entry.Debug("guarded operation without tenant context")
	default:
		entry.Debug("guarded operation allowed")
	}
}
