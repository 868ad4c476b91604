// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// ComplianceHandler serves the compliance overview endpoint.
type ComplianceHandler struct {
	deps        Dependencies
	defaultDays int
}

// NewComplianceHandler creates a new compliance handler.
func NewComplianceHandler(deps Dependencies, defaultDays int) *ComplianceHandler {
	return &ComplianceHandler{deps: deps, defaultDays: defaultDays}
}

// HandleOverview handles GET /crew/compliance requests. The optional vesselId
// query restricts the report to one vessel; days bounds the trailing window.
func (h *ComplianceHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "compliance.overview"

	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	days := h.defaultDays
	if s := q.Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "validation_error",
				NewKind(op+": days must be a positive integer", ErrBadRequest))
			return
		}
		days = n
	}

	overview, err := h.deps.ComplianceOverview(r.Context(), q.Get("vesselId"), days)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
