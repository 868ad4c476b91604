// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/velamar/crewops/internal/app"
	"github.com/velamar/crewops/internal/adapters/repository"
	"github.com/velamar/crewops/internal/domain/certguard"
	"github.com/velamar/crewops/internal/domain/compliance"
	"github.com/velamar/crewops/internal/domain/crewmatch"
	"github.com/velamar/crewops/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Work/rest records and compliance reporting.
	CreateWorkRestRecord(ctx context.Context, r model.WorkRestRecord) (model.WorkRestRecord, compliance.Verdict, error)
	ListWorkRest(ctx context.Context, f repository.WorkRestFilter) ([]model.WorkRestRecord, map[string]compliance.WindowAnnotation, error)
	ComplianceOverview(ctx context.Context, vesselID string, days int) (service.Overview, error)

	// Agent operations.
	MatchCrew(ctx context.Context, req crewmatch.Request) (crewmatch.Response, error)
	CheckExpiringCertificates(ctx context.Context, days int) (expiring, expired []certguard.Alert)
	GenerateExpiryAlerts(ctx context.Context) []certguard.Alert
	PlanRenewal(ctx context.Context, certificateID string) (service.RenewalPlan, error)
	AgentStatuses(ctx context.Context) []service.AgentStatus

	// Record administration.
	AddCrew(ctx context.Context, c model.CrewMember) (model.CrewMember, error)
	AddVessel(ctx context.Context, v model.Vessel) (model.Vessel, error)
	AddCertificate(ctx context.Context, cert model.Certificate) (model.Certificate, error)
	RevokeCertificate(ctx context.Context, id string) error
	AddContract(ctx context.Context, c model.Contract) (model.Contract, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	workRestHandler     *WorkRestHandler
	complianceHandler   *ComplianceHandler
	agentsHandler       *AgentsHandler
	certificatesHandler *CertificatesHandler
	adminHandler        *AdminHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, defaultComplianceDays int) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		workRestHandler:     NewWorkRestHandler(deps),
		complianceHandler:   NewComplianceHandler(deps, defaultComplianceDays),
		agentsHandler:       NewAgentsHandler(deps),
		certificatesHandler: NewCertificatesHandler(deps),
		adminHandler:        NewAdminHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/crew/work-rest-hours", MetricsMiddleware(s.workRestHandler.HandleWorkRest, "work_rest_hours"))
	mux.HandleFunc("/crew/compliance", MetricsMiddleware(s.complianceHandler.HandleOverview, "compliance"))
	mux.HandleFunc("/agents/status", MetricsMiddleware(s.agentsHandler.HandleStatus, "agents_status"))
	mux.HandleFunc("/agents/crew-match", MetricsMiddleware(s.agentsHandler.HandleCrewMatch, "crew_match"))
	mux.HandleFunc("/agents/cert-guardian", MetricsMiddleware(s.agentsHandler.HandleCertGuardian, "cert_guardian"))
	mux.HandleFunc("/certificates/expiring", MetricsMiddleware(s.certificatesHandler.HandleExpiring, "certificates_expiring"))
	mux.HandleFunc("/certificates/", MetricsMiddleware(s.adminHandler.HandleCertificateByID, "certificates"))
	mux.HandleFunc("/certificates", MetricsMiddleware(s.adminHandler.HandleCertificates, "certificates"))
	mux.HandleFunc("/crew", MetricsMiddleware(s.adminHandler.HandleCrew, "crew"))
	mux.HandleFunc("/vessels", MetricsMiddleware(s.adminHandler.HandleVessels, "vessels"))
	mux.HandleFunc("/contracts", MetricsMiddleware(s.adminHandler.HandleContracts, "contracts"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStoreError translates record store and validation errors to the
// matching status code: not-found, conflict, and validation outcomes are
// distinct, per the error taxonomy.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, repository.ErrDuplicateRecord), errors.Is(err, repository.ErrContractOverlap):
		writeError(w, http.StatusConflict, "conflict", Wrap(op, err))
	case errors.Is(err, repository.ErrValidation),
		errors.Is(err, compliance.ErrHoursSum),
		errors.Is(err, compliance.ErrHoursOutOfRange),
		errors.Is(err, compliance.ErrOutOfOrder):
		writeError(w, http.StatusBadRequest, "validation_error", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
