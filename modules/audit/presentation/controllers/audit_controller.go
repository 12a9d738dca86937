package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/hse-digital/platform/modules/audit/domain/entities/audit"
	"github.com/hse-digital/platform/modules/audit/services"
	coreservices "github.com/hse-digital/platform/modules/core/services"
	"github.com/hse-digital/platform/pkg/application"
	"github.com/hse-digital/platform/pkg/composables"
	"github.com/hse-digital/platform/pkg/configuration"
	"github.com/hse-digital/platform/pkg/httpapi"
	"github.com/hse-digital/platform/pkg/middleware"
	"github.com/hse-digital/platform/pkg/serrors"
	"github.com/hse-digital/platform/pkg/tenancy"
)

var (
	errAuditNotFound   = serrors.NewError("AUDIT_NOT_FOUND", "audit not found", "")
	errInvalidAuditID  = serrors.NewError("INVALID_AUDIT_ID", "invalid audit id", "expected a uuid")
	errInvalidPayload  = serrors.NewError("INVALID_PAYLOAD", "invalid request payload", "")
	errNoTenantContext = serrors.NewError("NO_TENANT_CONTEXT", "no organization selected", "writes require an organization context")
)

type AuditController struct {
	app      application.Application
	service  *services.AuditService
	basePath string
}

func NewAuditController(app application.Application) application.Controller {
	return &AuditController{
		app:      app,
		service:  app.Service(services.AuditService{}).(*services.AuditService),
		basePath: "/api/audits",
	}
}

func (c *AuditController) Key() string {
	return c.basePath
}

func (c *AuditController) Register(r *mux.Router) {
	tenantService := c.app.Service(coreservices.TenantService{}).(*coreservices.TenantService)

	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.RequireTenant(tenantService),
		middleware.WithTenantTransaction(),
	)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/{id}/start", c.Start).Methods(http.MethodPost)
	router.HandleFunc("/{id}/complete", c.Complete).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

type auditResponse struct {
	ID            uuid.UUID  `json:"id"`
	StationID     uuid.UUID  `json:"station_id"`
	AuditorID     *uuid.UUID `json:"auditor_id,omitempty"`
	AuditNumber   string     `json:"audit_number"`
	ScheduledDate time.Time  `json:"scheduled_date"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`
	Status        string     `json:"status"`
	OverallScore  *float64   `json:"overall_score,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toAuditResponse(a *audit.Audit) *auditResponse {
	resp := &auditResponse{
		ID:            a.ID(),
		StationID:     a.StationID(),
		AuditNumber:   a.AuditNumber(),
		ScheduledDate: a.ScheduledDate(),
		CompletedDate: a.CompletedDate(),
		Status:        string(a.Status()),
		OverallScore:  a.OverallScore(),
		CreatedAt:     a.CreatedAt(),
		UpdatedAt:     a.UpdatedAt(),
	}
	if a.AuditorID() != uuid.Nil {
		auditorID := a.AuditorID()
		resp.AuditorID = &auditorID
	}
	return resp
}

func (c *AuditController) List(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	params := &audit.FindParams{Limit: conf.PageSize}

	query := r.URL.Query()
	if raw := query.Get("station_id"); raw != "" {
		stationID, err := uuid.Parse(raw)
		if err != nil {
			_ = httpapi.WriteCoded(w, http.StatusBadRequest, errInvalidPayload)
			return
		}
		params.StationID = &stationID
	}
	if raw := query.Get("status"); raw != "" {
		status := audit.Status(raw)
		params.Status = &status
	}

	audits, err := c.service.GetPaginated(r.Context(), params)
	if err != nil {
		c.writeFailure(w, r, err)
		return
	}

	resp := make([]*auditResponse, 0, len(audits))
	for _, a := range audits {
		resp = append(resp, toAuditResponse(a))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, resp)
}

func (c *AuditController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteCoded(w, http.StatusBadRequest, errInvalidAuditID)
		return
	}

	a, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		c.writeFailure(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAuditResponse(a))
}

type createAuditRequest struct {
	StationID     uuid.UUID  `json:"station_id"`
	AuditorID     *uuid.UUID `json:"auditor_id"`
	AuditNumber   string     `json:"audit_number"`
	ScheduledDate time.Time  `json:"scheduled_date"`
}

func (c *AuditController) Create(w http.ResponseWriter, r *http.Request) {
	var req createAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteCoded(w, http.StatusBadRequest, errInvalidPayload)
		return
	}
	if req.StationID == uuid.Nil || req.AuditNumber == "" {
		_ = httpapi.WriteCoded(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	opts := []audit.Option{}
	if req.AuditorID != nil {
		opts = append(opts, audit.WithAuditorID(*req.AuditorID))
	}
	a := audit.New(req.StationID, req.AuditNumber, req.ScheduledDate, opts...)

	created, err := c.service.Create(r.Context(), a)
	if err != nil {
		c.writeFailure(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, toAuditResponse(created))
}

type completeAuditRequest struct {
	OverallScore float64 `json:"overall_score"`
}

func (c *AuditController) Start(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteCoded(w, http.StatusBadRequest, errInvalidAuditID)
		return
	}

	a, err := c.service.Start(r.Context(), id)
	if err != nil {
		c.writeFailure(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAuditResponse(a))
}

func (c *AuditController) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteCoded(w, http.StatusBadRequest, errInvalidAuditID)
		return
	}

	var req completeAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httpapi.WriteCoded(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	a, err := c.service.Complete(r.Context(), id, req.OverallScore)
	if err != nil {
		c.writeFailure(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, toAuditResponse(a))
}

func (c *AuditController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteCoded(w, http.StatusBadRequest, errInvalidAuditID)
		return
	}

	if err := c.service.Delete(r.Context(), id); err != nil {
		c.writeFailure(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusNoContent, nil)
}

// writeFailure maps data-access failures onto the API envelope. A target in
// another organization is indistinguishable from a missing one.
func (c *AuditController) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tenancy.ErrNotFound):
		_ = httpapi.WriteCoded(w, http.StatusNotFound, errAuditNotFound)
	case errors.Is(err, tenancy.ErrAmbiguousWrite), errors.Is(err, tenancy.ErrNoTenantContext):
		_ = httpapi.WriteCoded(w, http.StatusForbidden, errNoTenantContext)
	default:
		logger := composables.UseLogger(r.Context())
		logger.WithError(err).Error("audit request failed")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
	}
}
