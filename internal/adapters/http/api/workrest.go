// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/velamar/crewops/internal/adapters/repository"
	"github.com/velamar/crewops/internal/domain/compliance"
	"github.com/velamar/crewops/internal/domain/model"
)

const dateLayout = "2006-01-02"

// parseDate accepts a bare date or a full RFC 3339 timestamp and normalizes
// the result to midnight UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return model.Day(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s or RFC 3339", s, dateLayout)
	}
	return model.Day(t), nil
}

// WorkRestHandler handles work/rest record submission and listing.
type WorkRestHandler struct {
	deps Dependencies
}

// NewWorkRestHandler creates a new work/rest handler.
func NewWorkRestHandler(deps Dependencies) *WorkRestHandler {
	return &WorkRestHandler{deps: deps}
}

// HandleWorkRest dispatches /crew/work-rest-hours by method.
func (h *WorkRestHandler) HandleWorkRest(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.NotFound(w, r)
	}
}

type workRestRequest struct {
	CrewID        string  `json:"crewId"`
	VesselID      string  `json:"vesselId"`
	RecordDate    string  `json:"recordDate"`
	WorkHours     float64 `json:"workHours"`
	RestHours     float64 `json:"restHours"`
	OvertimeHours float64 `json:"overtimeHours"`
	Notes         string  `json:"notes"`
}

type workRestRecord struct {
	ID               string  `json:"id"`
	CrewID           string  `json:"crewId"`
	VesselID         string  `json:"vesselId"`
	RecordDate       string  `json:"recordDate"`
	WorkHours        float64 `json:"workHours"`
	RestHours        float64 `json:"restHours"`
	OvertimeHours    float64 `json:"overtimeHours"`
	ComplianceStatus string  `json:"complianceStatus"`
	ViolationType    string  `json:"violationType,omitempty"`
	Notes            string  `json:"notes,omitempty"`

	// Rolling 7-day annotation; present only once the record has a full
	// week of history behind it.
	SevenDayRestHours *float64 `json:"sevenDayRestHours,omitempty"`
	SevenDayCompliant *bool    `json:"sevenDayCompliant,omitempty"`
}

func toWorkRestRecord(rec model.WorkRestRecord, ann *compliance.WindowAnnotation) workRestRecord {
	out := workRestRecord{
		ID:               rec.ID,
		CrewID:           rec.CrewID,
		VesselID:         rec.VesselID,
		RecordDate:       rec.RecordDate.Format(dateLayout),
		WorkHours:        rec.WorkHours,
		RestHours:        rec.RestHours,
		OvertimeHours:    rec.OvertimeHours,
		ComplianceStatus: string(rec.ComplianceStatus),
		ViolationType:    string(rec.ViolationType),
		Notes:            rec.Notes,
	}
	if ann != nil && ann.Evaluated {
		rest, ok := ann.SevenDayRestHours, ann.Compliant
		out.SevenDayRestHours = &rest
		out.SevenDayCompliant = &ok
	}
	return out
}

func (h *WorkRestHandler) create(w http.ResponseWriter, r *http.Request) {
	const op = "workrest.create"

	var req workRestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.CrewID == "" || req.VesselID == "" || req.RecordDate == "" {
		writeError(w, http.StatusBadRequest, "validation_error",
			NewKind(op+": crewId, vesselId and recordDate are required", ErrBadRequest))
		return
	}
	date, err := parseDate(req.RecordDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
		return
	}

	stored, verdict, err := h.deps.CreateWorkRestRecord(r.Context(), model.WorkRestRecord{
		CrewID:        req.CrewID,
		VesselID:      req.VesselID,
		RecordDate:    date,
		WorkHours:     req.WorkHours,
		RestHours:     req.RestHours,
		OvertimeHours: req.OvertimeHours,
		Notes:         req.Notes,
	})
	if err != nil {
		writeStoreError(w, op, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Record  workRestRecord     `json:"record"`
		Verdict compliance.Verdict `json:"verdict"`
	}{
		Record:  toWorkRestRecord(stored, nil),
		Verdict: verdict,
	})
}

func (h *WorkRestHandler) list(w http.ResponseWriter, r *http.Request) {
	const op = "workrest.list"

	q := r.URL.Query()
	filter := repository.WorkRestFilter{
		CrewID:   q.Get("crewId"),
		VesselID: q.Get("vesselId"),
	}
	if s := q.Get("startDate"); s != "" {
		from, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
			return
		}
		filter.From = from
	}
	if s := q.Get("endDate"); s != "" {
		to, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
			return
		}
		filter.To = to
	}

	records, annotations, err := h.deps.ListWorkRest(r.Context(), filter)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}

	out := make([]workRestRecord, 0, len(records))
	for _, rec := range records {
		var ann *compliance.WindowAnnotation
		if a, ok := annotations[rec.ID]; ok {
			ann = &a
		}
		out = append(out, toWorkRestRecord(rec, ann))
	}

	writeJSON(w, http.StatusOK, struct {
		Records []workRestRecord `json:"records"`
		Total   int              `json:"total"`
	}{Records: out, Total: len(out)})
}
