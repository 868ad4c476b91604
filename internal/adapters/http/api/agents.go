// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/velamar/crewops/internal/domain/crewmatch"
)

// Cert-guardian actions accepted by the tagged dispatch endpoint.
const (
	actionCheckExpiring  = "check_expiring"
	actionGenerateAlerts = "generate_alerts"
	actionPlanRenewal    = "plan_renewal"
)

// AgentsHandler serves the evaluator endpoints: status, crew matching, and
// certificate guardian actions.
type AgentsHandler struct {
	deps Dependencies
}

// NewAgentsHandler creates a new agents handler.
func NewAgentsHandler(deps Dependencies) *AgentsHandler {
	return &AgentsHandler{deps: deps}
}

// HandleStatus handles GET /agents/status requests.
func (h *AgentsHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"agents": h.deps.AgentStatuses(r.Context()),
	})
}

type crewMatchRequest struct {
	VesselID     string `json:"vessel_id"`
	Rank         string `json:"rank"`
	RequiredDate string `json:"required_date"`
	Port         string `json:"port"`
	Requirements struct {
		Certificates    []string `json:"certificates"`
		ExperienceYears float64  `json:"experience_years"`
		VesselType      string   `json:"vessel_type"`
	} `json:"requirements"`
}

// HandleCrewMatch handles POST /agents/crew-match requests.
func (h *AgentsHandler) HandleCrewMatch(w http.ResponseWriter, r *http.Request) {
	const op = "agents.crewmatch"

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req crewMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.VesselID == "" || req.RequiredDate == "" {
		writeError(w, http.StatusBadRequest, "validation_error",
			NewKind(op+": vessel_id and required_date are required", ErrBadRequest))
		return
	}
	date, err := parseDate(req.RequiredDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
		return
	}

	resp, err := h.deps.MatchCrew(r.Context(), crewmatch.Request{
		VesselID:     req.VesselID,
		Rank:         req.Rank,
		RequiredDate: date,
		Port:         req.Port,
		Requirements: crewmatch.Requirements{
			Certificates:    req.Requirements.Certificates,
			ExperienceYears: req.Requirements.ExperienceYears,
			VesselType:      req.Requirements.VesselType,
		},
	})
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type certGuardianRequest struct {
	Action        string `json:"action"`
	Days          int    `json:"days"`
	CertificateID string `json:"certificate_id"`
}

// HandleCertGuardian handles POST /agents/cert-guardian requests, dispatching
// on the action tag in the request body.
func (h *AgentsHandler) HandleCertGuardian(w http.ResponseWriter, r *http.Request) {
	const op = "agents.certguardian"

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req certGuardianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	switch req.Action {
	case actionCheckExpiring:
		expiring, expired := h.deps.CheckExpiringCertificates(r.Context(), req.Days)
		writeJSON(w, http.StatusOK, map[string]any{
			"expiring_certificates": expiring,
			"expired_certificates":  expired,
			"total_expiring":        len(expiring),
			"total_expired":         len(expired),
		})
	case actionGenerateAlerts:
		alerts := h.deps.GenerateExpiryAlerts(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{
			"alerts": alerts,
			"total":  len(alerts),
		})
	case actionPlanRenewal:
		if req.CertificateID == "" {
			writeError(w, http.StatusBadRequest, "validation_error",
				NewKind(op+": certificate_id is required", ErrBadRequest))
			return
		}
		plan, err := h.deps.PlanRenewal(r.Context(), req.CertificateID)
		if err != nil {
			writeStoreError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	default:
		writeError(w, http.StatusBadRequest, "unknown_action",
			NewKind(op+": "+req.Action, ErrUnknownAction))
	}
}
