// Package crewmatch filters a crew pool for assignment eligibility and ranks
// the eligible candidates with weighted multi-criteria scoring.
package crewmatch

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/velamar/crewops/internal/domain/certguard"
	"github.com/velamar/crewops/internal/domain/model"
)

// Scoring weights. These encode the business priority ordering (technical
// competency and track record dominate cost and preference) and must sum to
// 1.0; do not tune them independently.
const (
	weightTechnical   = 0.30
	weightPerformance = 0.25
	weightCost        = 0.20
	weightPreference  = 0.15
	weightContinuity  = 0.10
)

// Technical sub-score point allocation and result bounds.
const (
	certMatchPoints   = 40.0
	experiencePoints  = 30.0
	familiarityPoints = 30.0

	maxScore      = 100.0
	topCandidates = 5

	expiryRiskWindowDays = 90
)

// Default signals for sub-scores whose real inputs (appraisals, travel cost,
// stated preferences, service history) live outside this core. Each default
// matches the production scoring baseline.
const (
	defaultExperienceYears   = 5.0
	defaultPerformanceScore  = 75.0
	defaultCostScore         = 70.0
	defaultPreferenceScore   = 60.0
	defaultContinuityScore   = 50.0
	defaultFamiliarityPoints = 20.0
)

// Request describes one crew-assignment query. Transient; never persisted.
type Request struct {
	VesselID     string
	Rank         string
	RequiredDate time.Time
	Port         string
	Requirements Requirements
}

// Requirements are the hard and scored constraints of a Request.
type Requirements struct {
	Certificates    []string
	ExperienceYears float64
	VesselType      string
}

// Profile bundles the read-only snapshot of one candidate: the crew record
// plus their certificates and active/pending contracts.
type Profile struct {
	Crew         model.CrewMember
	Certificates []model.Certificate
	Contracts    []model.Contract
}

// RiskAssessment flags conditions that could jeopardize an assignment.
type RiskAssessment struct {
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

// Availability reports when the candidate can join and any known conflicts.
type Availability struct {
	AvailableFrom string   `json:"available_from"`
	Conflicts     []string `json:"conflicts"`
}

// Candidate is one scored crew member. Ephemeral, produced fresh per request.
type Candidate struct {
	CrewID           string         `json:"crew_id"`
	EmployeeID       string         `json:"employee_id"`
	Name             string         `json:"name"`
	TotalScore       float64        `json:"total_score"`
	TechnicalScore   float64        `json:"technical_score"`
	PerformanceScore float64        `json:"performance_score"`
	CostScore        float64        `json:"cost_score"`
	PreferenceScore  float64        `json:"preference_score"`
	ContinuityScore  float64        `json:"continuity_score"`
	RiskAssessment   RiskAssessment `json:"risk_assessment"`
	Availability     Availability   `json:"availability"`
}

// Response is the outcome of one assignment query. An empty eligible pool is
// a "failed" response with a message, not an error.
type Response struct {
	Candidates []Candidate `json:"candidates"`
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
}

// SubScorer computes one scoring criterion for a candidate, in [0, 100].
// Implementations must be pure functions of their inputs.
type SubScorer func(p Profile, req Request, vessel model.Vessel) float64

// Matcher scores and ranks assignment candidates. Sub-scorers for criteria
// whose data sources live outside this core are pluggable; defaults return
// the production baseline values.
type Matcher struct {
	performance SubScorer
	cost        SubScorer
	preference  SubScorer
	continuity  SubScorer

	experienceYears func(p Profile) float64
	familiarity     func(p Profile, vessel model.Vessel) float64

	now func() time.Time
}

// NewMatcher creates a Matcher with configuration options.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		performance: func(Profile, Request, model.Vessel) float64 { return defaultPerformanceScore },
		cost:        func(Profile, Request, model.Vessel) float64 { return defaultCostScore },
		preference:  func(Profile, Request, model.Vessel) float64 { return defaultPreferenceScore },
		continuity:  func(Profile, Request, model.Vessel) float64 { return defaultContinuityScore },
		experienceYears: func(Profile) float64 {
			return defaultExperienceYears
		},
		familiarity: func(Profile, model.Vessel) float64 {
			return defaultFamiliarityPoints
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FilterEligible returns the candidates that pass the hard gates: every
// required certificate valid for the assignment date, and no active or
// pending contract occupying that date.
func (m *Matcher) FilterEligible(pool []Profile, req Request) []Profile {
	eligible := []Profile{}
	for _, p := range pool {
		if !hasRequiredCertificates(p.Certificates, req.Requirements.Certificates, req.RequiredDate) {
			continue
		}
		if hasContractConflict(p.Contracts, req.RequiredDate) {
			continue
		}
		eligible = append(eligible, p)
	}
	return eligible
}

func hasRequiredCertificates(certs []model.Certificate, required []string, asOf time.Time) bool {
	for _, code := range required {
		found := false
		for _, cert := range certs {
			if cert.TypeCode == code && certguard.IsValidForDate(cert, asOf) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func hasContractConflict(contracts []model.Contract, date time.Time) bool {
	for _, c := range contracts {
		if c.Status != model.ContractActive && c.Status != model.ContractPending {
			continue
		}
		if c.Covers(date) {
			return true
		}
	}
	return false
}

// Score computes the weighted multi-criteria score for one candidate.
func (m *Matcher) Score(p Profile, req Request, vessel model.Vessel) Candidate {
	technical := m.technicalScore(p, req, vessel)
	performance := m.performance(p, req, vessel)
	cost := m.cost(p, req, vessel)
	preference := m.preference(p, req, vessel)
	continuity := m.continuity(p, req, vessel)

	total := technical*weightTechnical +
		performance*weightPerformance +
		cost*weightCost +
		preference*weightPreference +
		continuity*weightContinuity

	return Candidate{
		CrewID:           p.Crew.ID,
		EmployeeID:       p.Crew.EmployeeID,
		Name:             p.Crew.FullName(),
		TotalScore:       round2(total),
		TechnicalScore:   round2(technical),
		PerformanceScore: round2(performance),
		CostScore:        round2(cost),
		PreferenceScore:  round2(preference),
		ContinuityScore:  round2(continuity),
		RiskAssessment:   m.assessRisk(p),
		Availability:     m.availability(p),
	}
}

// technicalScore combines certificate coverage, experience against the
// requirement, and vessel-type familiarity, capped at 100.
func (m *Matcher) technicalScore(p Profile, req Request, vessel model.Vessel) float64 {
	score := certificateMatchFraction(p.Certificates, req.Requirements.Certificates) * certMatchPoints

	if req.Requirements.ExperienceYears > 0 {
		ratio := m.experienceYears(p) / req.Requirements.ExperienceYears
		score += math.Min(ratio, 1) * experiencePoints
	} else {
		score += experiencePoints
	}

	score += math.Min(m.familiarity(p, vessel), familiarityPoints)

	return math.Min(score, maxScore)
}

func certificateMatchFraction(certs []model.Certificate, required []string) float64 {
	if len(required) == 0 {
		return 1
	}
	matched := 0
	for _, code := range required {
		for _, cert := range certs {
			if cert.TypeCode == code && cert.Status == model.CertValid {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(required))
}

// assessRisk starts at low and escalates when any certificate expires within
// the 90-day risk window.
func (m *Matcher) assessRisk(p Profile) RiskAssessment {
	risk := RiskAssessment{Level: "low", Factors: []string{}}
	now := m.now()
	for _, cert := range p.Certificates {
		days := certguard.DaysUntilExpiry(cert.ExpiryDate, now)
		if days > 0 && days < expiryRiskWindowDays {
			risk.Level = "medium"
			risk.Factors = append(risk.Factors, "Certificates expiring within 90 days")
			break
		}
	}
	return risk
}

// availability reports the earliest join date: now, or the latest end date
// among active contracts.
func (m *Matcher) availability(p Profile) Availability {
	availableFrom := m.now()
	for _, c := range p.Contracts {
		if c.Status == model.ContractActive && c.ContractEndDate.After(availableFrom) {
			availableFrom = c.ContractEndDate
		}
	}
	return Availability{
		AvailableFrom: availableFrom.Format(time.RFC3339),
		Conflicts:     []string{},
	}
}

// Match runs the full assignment pipeline: eligibility filter, scoring,
// ranking, and top-5 selection. Ties keep input order.
func (m *Matcher) Match(_ context.Context, req Request, vessel model.Vessel, pool []Profile) Response {
	eligible := m.FilterEligible(pool, req)
	if len(eligible) == 0 {
		return Response{
			Candidates: []Candidate{},
			Status:     "failed",
			Message:    "No eligible crew members found",
		}
	}

	candidates := make([]Candidate, 0, len(eligible))
	for _, p := range eligible {
		candidates = append(candidates, m.Score(p, req, vessel))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].TotalScore > candidates[j].TotalScore
	})
	if len(candidates) > topCandidates {
		candidates = candidates[:topCandidates]
	}

	return Response{Candidates: candidates, Status: "success"}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
