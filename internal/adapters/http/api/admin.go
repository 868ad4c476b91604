// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/velamar/crewops/internal/domain/model"
)

// AdminHandler serves record administration: crew, vessels, certificates,
// and contracts.
type AdminHandler struct {
	deps Dependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

type crewRequest struct {
	EmployeeID  string `json:"employeeId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Rank        string `json:"rank"`
	Nationality string `json:"nationality"`
	Status      string `json:"status"`
}

type crewResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employeeId"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Rank        string `json:"rank"`
	Nationality string `json:"nationality"`
	Status      string `json:"status"`
}

// HandleCrew handles POST /crew requests.
func (h *AdminHandler) HandleCrew(w http.ResponseWriter, r *http.Request) {
	const op = "admin.crew"

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req crewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		writeError(w, http.StatusBadRequest, "validation_error",
			NewKind(op+": firstName and lastName are required", ErrBadRequest))
		return
	}
	status := model.CrewStatus(req.Status)
	if status == "" {
		status = model.CrewActive
	}

	crew, err := h.deps.AddCrew(r.Context(), model.CrewMember{
		EmployeeID:  req.EmployeeID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Rank:        req.Rank,
		Nationality: req.Nationality,
		Status:      status,
	})
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, crewResponse{
		ID:          crew.ID,
		EmployeeID:  crew.EmployeeID,
		FirstName:   crew.FirstName,
		LastName:    crew.LastName,
		Rank:        crew.Rank,
		Nationality: crew.Nationality,
		Status:      string(crew.Status),
	})
}

type vesselRequest struct {
	Name       string `json:"name"`
	IMONumber  string `json:"imoNumber"`
	VesselType string `json:"vesselType"`
	Flag       string `json:"flag"`
}

type vesselResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IMONumber  string `json:"imoNumber"`
	VesselType string `json:"vesselType"`
	Flag       string `json:"flag"`
}

// HandleVessels handles POST /vessels requests.
func (h *AdminHandler) HandleVessels(w http.ResponseWriter, r *http.Request) {
	const op = "admin.vessels"

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req vesselRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "validation_error",
			NewKind(op+": name is required", ErrBadRequest))
		return
	}

	vessel, err := h.deps.AddVessel(r.Context(), model.Vessel{
		Name:       req.Name,
		IMONumber:  req.IMONumber,
		VesselType: req.VesselType,
		Flag:       req.Flag,
	})
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, vesselResponse{
		ID:         vessel.ID,
		Name:       vessel.Name,
		IMONumber:  vessel.IMONumber,
		VesselType: vessel.VesselType,
		Flag:       vessel.Flag,
	})
}

type certificateRequest struct {
	CrewID             string `json:"crewId"`
	TypeCode           string `json:"typeCode"`
	TypeName           string `json:"typeName"`
	IssueDate          string `json:"issueDate"`
	ExpiryDate         string `json:"expiryDate"`
	Status             string `json:"status"`
	VerificationStatus string `json:"verificationStatus"`
}

type certificateResponse struct {
	ID                 string `json:"id"`
	CrewID             string `json:"crewId"`
	TypeCode           string `json:"typeCode"`
	TypeName           string `json:"typeName"`
	IssueDate          string `json:"issueDate"`
	ExpiryDate         string `json:"expiryDate"`
	Status             string `json:"status"`
	VerificationStatus string `json:"verificationStatus"`
}

// HandleCertificates handles POST /certificates requests.
func (h *AdminHandler) HandleCertificates(w http.ResponseWriter, r *http.Request) {
	const op = "admin.certificates"

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req certificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.CrewID == "" || req.TypeCode == "" || req.IssueDate == "" || req.ExpiryDate == "" {
		writeError(w, http.StatusBadRequest, "validation_error",
			NewKind(op+": crewId, typeCode, issueDate and expiryDate are required", ErrBadRequest))
		return
	}
	issue, err := parseDate(req.IssueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
		return
	}
	expiry, err := parseDate(req.ExpiryDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
		return
	}
	status := model.CertificateStatus(req.Status)
	if status == "" {
		status = model.CertValid
	}

	cert, err := h.deps.AddCertificate(r.Context(), model.Certificate{
		CrewID:             req.CrewID,
		TypeCode:           req.TypeCode,
		TypeName:           req.TypeName,
		IssueDate:          issue,
		ExpiryDate:         expiry,
		Status:             status,
		VerificationStatus: req.VerificationStatus,
	})
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, certificateResponse{
		ID:                 cert.ID,
		CrewID:             cert.CrewID,
		TypeCode:           cert.TypeCode,
		TypeName:           cert.TypeName,
		IssueDate:          cert.IssueDate.Format(dateLayout),
		ExpiryDate:         cert.ExpiryDate.Format(dateLayout),
		Status:             string(cert.Status),
		VerificationStatus: cert.VerificationStatus,
	})
}

// HandleCertificateByID handles DELETE /certificates/{id} requests.
// Deletion is a soft revoke; the certificate stays queryable.
func (h *AdminHandler) HandleCertificateByID(w http.ResponseWriter, r *http.Request) {
	const op = "admin.certificates.revoke"

	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/certificates/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "validation_error",
			NewKind(op+": certificate id is required", ErrBadRequest))
		return
	}
	if err := h.deps.RevokeCertificate(r.Context(), id); err != nil {
		writeStoreError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type contractRequest struct {
	CrewID          string `json:"crewId"`
	VesselID        string `json:"vesselId"`
	SignOnDate      string `json:"signOnDate"`
	ContractEndDate string `json:"contractEndDate"`
	Status          string `json:"status"`
}

type contractResponse struct {
	ID              string `json:"id"`
	CrewID          string `json:"crewId"`
	VesselID        string `json:"vesselId"`
	SignOnDate      string `json:"signOnDate"`
	ContractEndDate string `json:"contractEndDate"`
	Status          string `json:"status"`
}

// HandleContracts handles POST /contracts requests.
func (h *AdminHandler) HandleContracts(w http.ResponseWriter, r *http.Request) {
	const op = "admin.contracts"

	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req contractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.CrewID == "" || req.VesselID == "" || req.SignOnDate == "" || req.ContractEndDate == "" {
		writeError(w, http.StatusBadRequest, "validation_error",
			NewKind(op+": crewId, vesselId, signOnDate and contractEndDate are required", ErrBadRequest))
		return
	}
	signOn, err := parseDate(req.SignOnDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
		return
	}
	end, err := parseDate(req.ContractEndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
		return
	}
	status := model.ContractStatus(req.Status)
	if status == "" {
		status = model.ContractActive
	}

	contract, err := h.deps.AddContract(r.Context(), model.Contract{
		CrewID:          req.CrewID,
		VesselID:        req.VesselID,
		SignOnDate:      signOn,
		ContractEndDate: end,
		Status:          status,
	})
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, contractResponse{
		ID:              contract.ID,
		CrewID:          contract.CrewID,
		VesselID:        contract.VesselID,
		SignOnDate:      contract.SignOnDate.Format(dateLayout),
		ContractEndDate: contract.ContractEndDate.Format(dateLayout),
		Status:          string(contract.Status),
	})
}
