// Package repository defines the record store interface and errors.
//
// The store owns all persisted crew-management records. The domain packages
// never mutate it; they compute over snapshots the caller reads from here.
package repository

import (
	"context"
	"time"

	"github.com/velamar/crewops/internal/domain/model"
)

// WorkRestFilter narrows a work/rest record listing. Zero fields match all.
type WorkRestFilter struct {
	CrewID   string
	VesselID string
	From     time.Time
	To       time.Time
}

// Store provides read/write access to crew-management records.
type Store interface {
	// AddCrew registers a crew member. Assigns an ID when empty.
	AddCrew(ctx context.Context, c model.CrewMember) (model.CrewMember, error)
	// Crew returns a crew member by ID. Returns ErrNotFound if unknown.
	Crew(ctx context.Context, id string) (model.CrewMember, error)
	// ListCrew returns crew members in insertion order, optionally filtered
	// by status ("" matches all).
	ListCrew(ctx context.Context, status model.CrewStatus) []model.CrewMember

	// AddVessel registers a vessel. Assigns an ID when empty.
	AddVessel(ctx context.Context, v model.Vessel) (model.Vessel, error)
	// Vessel returns a vessel by ID. Returns ErrNotFound if unknown.
	Vessel(ctx context.Context, id string) (model.Vessel, error)

	// AddCertificate stores a certificate after validating that the crew
	// exists and expiry is after issue.
	AddCertificate(ctx context.Context, cert model.Certificate) (model.Certificate, error)
	// Certificate returns a certificate by ID. Returns ErrNotFound if unknown.
	Certificate(ctx context.Context, id string) (model.Certificate, error)
	// CertificatesByCrew returns a crew member's certificates in insertion order.
	CertificatesByCrew(ctx context.Context, crewID string) []model.Certificate
	// ListCertificates returns all certificates in insertion order.
	ListCertificates(ctx context.Context) []model.Certificate
	// RevokeCertificate soft-deletes a certificate by transitioning it to
	// revoked. Returns ErrNotFound if unknown.
	RevokeCertificate(ctx context.Context, id string) error

	// AddContract stores a contract after validating dates, referenced
	// records, and that no active/pending contract for the same crew
	// member overlaps the new interval (ErrContractOverlap).
	AddContract(ctx context.Context, c model.Contract) (model.Contract, error)
	// ContractsByCrew returns a crew member's contracts in insertion order,
	// optionally filtered to the given statuses (none matches all).
	ContractsByCrew(ctx context.Context, crewID string, statuses ...model.ContractStatus) []model.Contract

	// AddWorkRest stores a daily work/rest record. The record date is
	// normalized to midnight UTC; a second record for the same
	// (crew, vessel, date) returns ErrDuplicateRecord.
	AddWorkRest(ctx context.Context, r model.WorkRestRecord) (model.WorkRestRecord, error)
	// WorkRest returns matching records ordered by record date ascending,
	// ties in insertion order.
	WorkRest(ctx context.Context, f WorkRestFilter) []model.WorkRestRecord

	// Counts reports record counts per entity kind, for status reporting.
	Counts(ctx context.Context) map[string]int
}
