// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strconv"
)

// CertificatesHandler serves certificate expiry queries.
type CertificatesHandler struct {
	deps Dependencies
}

// NewCertificatesHandler creates a new certificates handler.
func NewCertificatesHandler(deps Dependencies) *CertificatesHandler {
	return &CertificatesHandler{deps: deps}
}

// HandleExpiring handles GET /certificates/expiring requests. The optional
// days query bounds the lookahead window; zero falls back to the service
// default.
func (h *CertificatesHandler) HandleExpiring(w http.ResponseWriter, r *http.Request) {
	const op = "certificates.expiring"

	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	days := 0
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "validation_error",
				NewKind(op+": days must be a positive integer", ErrBadRequest))
			return
		}
		days = n
	}

	expiring, expired := h.deps.CheckExpiringCertificates(r.Context(), days)
	writeJSON(w, http.StatusOK, map[string]any{
		"expiring_certificates": expiring,
		"expired_certificates":  expired,
		"total_expiring":        len(expiring),
		"total_expired":         len(expired),
	})
}
