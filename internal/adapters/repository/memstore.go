package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/velamar/crewops/internal/domain/model"
)

// MemStore implements Store with in-memory maps guarded by a single RWMutex.
// Slices preserve insertion order so listings and aggregate tie-breaks are
// deterministic.
type MemStore struct {
	mu sync.RWMutex

	crew      []model.CrewMember
	crewByID  map[string]int
	vessels   []model.Vessel
	vesselIdx map[string]int

	certs    []model.Certificate
	certIdx  map[string]int
	certByCrew map[string][]int

	contracts      []model.Contract
	contractByCrew map[string][]int

	workRest    []model.WorkRestRecord
	workRestKey map[string]struct{} // crewID|vesselID|date uniqueness

	newID func() string
}

// NewMemStore creates an empty in-memory record store.
func NewMemStore(opts ...StoreOption) *MemStore {
	s := &MemStore{
		crewByID:       make(map[string]int),
		vesselIdx:      make(map[string]int),
		certIdx:        make(map[string]int),
		certByCrew:     make(map[string][]int),
		contractByCrew: make(map[string][]int),
		workRestKey:    make(map[string]struct{}),
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCrew registers a crew member.
func (s *MemStore) AddCrew(_ context.Context, c model.CrewMember) (model.CrewMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.newID()
	}
	if _, exists := s.crewByID[c.ID]; exists {
		return model.CrewMember{}, fmt.Errorf("%w: crew %s", ErrDuplicateRecord, c.ID)
	}
	if c.Status == "" {
		c.Status = model.CrewActive
	}
	s.crewByID[c.ID] = len(s.crew)
	s.crew = append(s.crew, c)
	return c, nil
}

// Crew returns a crew member by ID.
func (s *MemStore) Crew(_ context.Context, id string) (model.CrewMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.crewByID[id]
	if !ok {
		return model.CrewMember{}, fmt.Errorf("%w: crew %s", ErrNotFound, id)
	}
	return s.crew[i], nil
}

// ListCrew returns crew members in insertion order.
func (s *MemStore) ListCrew(_ context.Context, status model.CrewStatus) []model.CrewMember {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.CrewMember, 0, len(s.crew))
	for _, c := range s.crew {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// AddVessel registers a vessel.
func (s *MemStore) AddVessel(_ context.Context, v model.Vessel) (model.Vessel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.ID == "" {
		v.ID = s.newID()
	}
	if _, exists := s.vesselIdx[v.ID]; exists {
		return model.Vessel{}, fmt.Errorf("%w: vessel %s", ErrDuplicateRecord, v.ID)
	}
	s.vesselIdx[v.ID] = len(s.vessels)
	s.vessels = append(s.vessels, v)
	return v, nil
}

// Vessel returns a vessel by ID.
func (s *MemStore) Vessel(_ context.Context, id string) (model.Vessel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.vesselIdx[id]
	if !ok {
		return model.Vessel{}, fmt.Errorf("%w: vessel %s", ErrNotFound, id)
	}
	return s.vessels[i], nil
}

// AddCertificate stores a certificate.
func (s *MemStore) AddCertificate(_ context.Context, cert model.Certificate) (model.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.crewByID[cert.CrewID]; !ok {
		return model.Certificate{}, fmt.Errorf("%w: crew %s", ErrNotFound, cert.CrewID)
	}
	if !cert.ExpiryDate.After(cert.IssueDate) {
		return model.Certificate{}, fmt.Errorf("%w: expiry date must be after issue date", ErrValidation)
	}
	if cert.ID == "" {
		cert.ID = s.newID()
	}
	if _, exists := s.certIdx[cert.ID]; exists {
		return model.Certificate{}, fmt.Errorf("%w: certificate %s", ErrDuplicateRecord, cert.ID)
	}
	if cert.Status == "" {
		cert.Status = model.CertValid
	}
	s.certIdx[cert.ID] = len(s.certs)
	s.certByCrew[cert.CrewID] = append(s.certByCrew[cert.CrewID], len(s.certs))
	s.certs = append(s.certs, cert)
	return cert, nil
}

// Certificate returns a certificate by ID.
func (s *MemStore) Certificate(_ context.Context, id string) (model.Certificate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.certIdx[id]
	if !ok {
		return model.Certificate{}, fmt.Errorf("%w: certificate %s", ErrNotFound, id)
	}
	return s.certs[i], nil
}

// CertificatesByCrew returns a crew member's certificates in insertion order.
func (s *MemStore) CertificatesByCrew(_ context.Context, crewID string) []model.Certificate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.certByCrew[crewID]
	out := make([]model.Certificate, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.certs[i])
	}
	return out
}

// ListCertificates returns all certificates in insertion order.
func (s *MemStore) ListCertificates(_ context.Context) []model.Certificate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Certificate, len(s.certs))
	copy(out, s.certs)
	return out
}

// RevokeCertificate transitions a certificate to revoked.
func (s *MemStore) RevokeCertificate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.certIdx[id]
	if !ok {
		return fmt.Errorf("%w: certificate %s", ErrNotFound, id)
	}
	s.certs[i].Status = model.CertRevoked
	return nil
}

// AddContract stores a contract.
func (s *MemStore) AddContract(_ context.Context, c model.Contract) (model.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.crewByID[c.CrewID]; !ok {
		return model.Contract{}, fmt.Errorf("%w: crew %s", ErrNotFound, c.CrewID)
	}
	if _, ok := s.vesselIdx[c.VesselID]; !ok {
		return model.Contract{}, fmt.Errorf("%w: vessel %s", ErrNotFound, c.VesselID)
	}
	if !c.ContractEndDate.After(c.SignOnDate) {
		return model.Contract{}, fmt.Errorf("%w: contract end must be after sign-on", ErrValidation)
	}
	if c.Status == "" {
		c.Status = model.ContractActive
	}
	if c.Status == model.ContractActive || c.Status == model.ContractPending {
		for _, i := range s.contractByCrew[c.CrewID] {
			other := s.contracts[i]
			if other.Status != model.ContractActive && other.Status != model.ContractPending {
				continue
			}
			if !c.SignOnDate.After(other.ContractEndDate) && !other.SignOnDate.After(c.ContractEndDate) {
				return model.Contract{}, fmt.Errorf("%w: crew %s already engaged %s to %s",
					ErrContractOverlap, c.CrewID,
					other.SignOnDate.Format("2006-01-02"), other.ContractEndDate.Format("2006-01-02"))
			}
		}
	}
	if c.ID == "" {
		c.ID = s.newID()
	}
	s.contractByCrew[c.CrewID] = append(s.contractByCrew[c.CrewID], len(s.contracts))
	s.contracts = append(s.contracts, c)
	return c, nil
}

// ContractsByCrew returns a crew member's contracts in insertion order.
func (s *MemStore) ContractsByCrew(_ context.Context, crewID string, statuses ...model.ContractStatus) []model.Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Contract{}
	for _, i := range s.contractByCrew[crewID] {
		c := s.contracts[i]
		if len(statuses) == 0 {
			out = append(out, c)
			continue
		}
		for _, st := range statuses {
			if c.Status == st {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// AddWorkRest stores a daily work/rest record.
func (s *MemStore) AddWorkRest(_ context.Context, r model.WorkRestRecord) (model.WorkRestRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.crewByID[r.CrewID]; !ok {
		return model.WorkRestRecord{}, fmt.Errorf("%w: crew %s", ErrNotFound, r.CrewID)
	}
	if _, ok := s.vesselIdx[r.VesselID]; !ok {
		return model.WorkRestRecord{}, fmt.Errorf("%w: vessel %s", ErrNotFound, r.VesselID)
	}
	r.RecordDate = model.Day(r.RecordDate)
	key := r.CrewID + "|" + r.VesselID + "|" + r.RecordDate.Format("2006-01-02")
	if _, exists := s.workRestKey[key]; exists {
		return model.WorkRestRecord{}, fmt.Errorf("%w: %s on %s",
			ErrDuplicateRecord, r.CrewID, r.RecordDate.Format("2006-01-02"))
	}
	if r.ID == "" {
		r.ID = s.newID()
	}
	s.workRestKey[key] = struct{}{}
	s.workRest = append(s.workRest, r)
	return r, nil
}

// WorkRest returns matching records ordered by record date ascending.
func (s *MemStore) WorkRest(_ context.Context, f WorkRestFilter) []model.WorkRestRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.WorkRestRecord{}
	for _, r := range s.workRest {
		if f.CrewID != "" && r.CrewID != f.CrewID {
			continue
		}
		if f.VesselID != "" && r.VesselID != f.VesselID {
			continue
		}
		if !f.From.IsZero() && r.RecordDate.Before(model.Day(f.From)) {
			continue
		}
		if !f.To.IsZero() && r.RecordDate.After(model.Day(f.To)) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecordDate.Before(out[j].RecordDate)
	})
	return out
}

// Counts reports record counts per entity kind.
func (s *MemStore) Counts(_ context.Context) map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]int{
		"crew":         len(s.crew),
		"vessels":      len(s.vessels),
		"certificates": len(s.certs),
		"contracts":    len(s.contracts),
		"work_rest":    len(s.workRest),
	}
}
