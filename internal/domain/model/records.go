// Package model contains domain records passed between layers.
package model

import "time"

// CrewStatus enumerates the lifecycle states of a crew member.
type CrewStatus string

// Crew lifecycle states.
const (
	CrewActive   CrewStatus = "active"
	CrewOnLeave  CrewStatus = "on_leave"
	CrewInactive CrewStatus = "inactive"
)

// CertificateStatus enumerates certificate lifecycle states.
// A certificate is never hard-deleted; revocation is the terminal state.
type CertificateStatus string

// Certificate lifecycle states.
const (
	CertValid        CertificateStatus = "valid"
	CertExpiringSoon CertificateStatus = "expiring_soon"
	CertExpired      CertificateStatus = "expired"
	CertRevoked      CertificateStatus = "revoked"
)

// ContractStatus enumerates contract lifecycle states.
type ContractStatus string

// Contract lifecycle states.
const (
	ContractActive    ContractStatus = "active"
	ContractPending   ContractStatus = "pending"
	ContractCompleted ContractStatus = "completed"
)

// ComplianceStatus is the daily MLC 2006 verdict stored on a work/rest record.
type ComplianceStatus string

// Daily compliance verdicts.
const (
	StatusCompliant ComplianceStatus = "compliant"
	StatusWarning   ComplianceStatus = "warning"
	StatusViolation ComplianceStatus = "violation"
)

// ViolationType identifies which MLC 2006 rule a record breaks.
type ViolationType string

// MLC 2006 violation types. Empty means no violation.
const (
	ViolationMinRest24H ViolationType = "MLC_2006_MIN_REST_24H"
	ViolationMaxWork24H ViolationType = "MLC_2006_MAX_WORK_24H"
)

// CrewMember is a seafarer on the company roster.
type CrewMember struct {
	ID          string
	EmployeeID  string
	FirstName   string
	LastName    string
	Rank        string
	Nationality string
	Status      CrewStatus
}

// FullName returns the display name used in reports and alerts.
func (c CrewMember) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Vessel is a ship in the managed fleet.
type Vessel struct {
	ID         string
	Name       string
	IMONumber  string
	VesselType string
	Flag       string
}

// Certificate is one issued certification instance for a crew member.
type Certificate struct {
	ID                 string
	CrewID             string
	TypeCode           string // e.g. "STCW_BASIC", "COC_CLASS_I"
	TypeName           string
	IssueDate          time.Time
	ExpiryDate         time.Time
	Status             CertificateStatus
	VerificationStatus string
}

// Contract is a crew member's engagement on a vessel.
type Contract struct {
	ID              string
	CrewID          string
	VesselID        string
	SignOnDate      time.Time
	ContractEndDate time.Time
	Status          ContractStatus
}

// Covers reports whether t falls inside the contract interval.
// Bounds are inclusive: a contract ending on t still occupies t.
func (c Contract) Covers(t time.Time) bool {
	return !t.Before(c.SignOnDate) && !t.After(c.ContractEndDate)
}

// WorkRestRecord is one crew member's logged hours for one vessel on one
// calendar day. (CrewID, VesselID, RecordDate) is the uniqueness key.
type WorkRestRecord struct {
	ID               string
	CrewID           string
	VesselID         string
	RecordDate       time.Time // normalized to midnight UTC
	WorkHours        float64
	RestHours        float64
	OvertimeHours    float64
	ComplianceStatus ComplianceStatus
	ViolationType    ViolationType
	Notes            string
}

// Day normalizes t to midnight UTC. Work/rest records are day-granular and
// must be keyed and compared on normalized dates.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
