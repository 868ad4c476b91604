// Package service provides the core business service that implements
// the dependencies required by the HTTP API. It holds explicit references
// to the three stateless evaluators (compliance, certificate alerts, crew
// matching) and the record store, constructed once at process start.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/velamar/crewops/internal/adapters/batch"
	"github.com/velamar/crewops/internal/adapters/repository"
	"github.com/velamar/crewops/internal/domain/certguard"
	"github.com/velamar/crewops/internal/domain/compliance"
	"github.com/velamar/crewops/internal/domain/crewmatch"
	"github.com/velamar/crewops/internal/domain/dedupe"
	"github.com/velamar/crewops/internal/domain/model"
	"github.com/velamar/crewops/pkg/logger"
	"github.com/velamar/crewops/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultBatchQueue    = 1024
	defaultDedupeSize    = 50_000
	defaultLookaheadDays = certguard.DefaultLookaheadDays
)

// Service implements the API dependencies for the crew compliance system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	certEngine *certguard.Engine
	matcher    *crewmatch.Matcher
	pool       *batch.Pool
	alertCache dedupe.Deduper

	// Configuration
	batchWorkers     int
	batchQueue       int
	dedupeSize       int
	lookaheadDays    int
	thresholdWindows bool

	// State
	started bool

	now    func() time.Time
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBatchWorkerCount sets the number of batch evaluation workers.
func WithBatchWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.batchWorkers = count
		}
	}
}

// WithBatchQueueSize bounds the pending batch job queue.
func WithBatchQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchQueue = size
		}
	}
}

// WithAlertDedupeSize sets the size of the alert suppression cache.
func WithAlertDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithExpiryLookaheadDays sets the default expiring-certificate scan window.
func WithExpiryLookaheadDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.lookaheadDays = days
		}
	}
}

// WithThresholdWindows selects the legacy sparse alert schedule.
func WithThresholdWindows(enabled bool) Option {
	return func(s *Service) {
		s.thresholdWindows = enabled
	}
}

// WithStore replaces the record store. Tests use this to seed state.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock fixes the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		batchWorkers:  0, // batch.NewPool defaults to NumCPU
		batchQueue:    defaultBatchQueue,
		dedupeSize:    defaultDedupeSize,
		lookaheadDays: defaultLookaheadDays,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting crew compliance service...")

	if s.store == nil {
		s.store = repository.NewMemStore()
	}
	s.alertCache = &meteredDeduper{inner: dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)}

	engineOpts := []certguard.Option{certguard.WithAlertDeduper(s.alertCache)}
	if s.thresholdWindows {
		engineOpts = append(engineOpts, certguard.WithThresholdWindows())
	}
	s.certEngine = certguard.NewEngine(engineOpts...)

	s.matcher = crewmatch.NewMatcher(crewmatch.WithClock(s.now))

	poolOpts := []batch.Option{
		batch.WithQueueSize(s.batchQueue),
		batch.WithLogger(s.logger.Named("batch")),
	}
	if s.batchWorkers > 0 {
		poolOpts = append(poolOpts, batch.WithWorkerCount(s.batchWorkers))
	}
	s.pool = batch.NewPool(poolOpts...)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "crew compliance service started",
		logger.Int("batchWorkers", s.batchWorkers),
		logger.Int("alertDedupeSize", s.dedupeSize),
		logger.Int("expiryLookaheadDays", s.lookaheadDays),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping crew compliance service...")
	if s.pool != nil {
		s.pool.Stop()
	}
	s.started = false
	s.logger.Info(context.Background(), "crew compliance service stopped")
}

func (s *Service) refreshStoreGauges(ctx context.Context) {
	for kind, count := range s.store.Counts(ctx) {
		metrics.UpdateStoreRecords(kind, count)
	}
}

// AddCrew registers a crew member.
func (s *Service) AddCrew(ctx context.Context, c model.CrewMember) (model.CrewMember, error) {
	out, err := s.store.AddCrew(ctx, c)
	if err != nil {
		return model.CrewMember{}, err
	}
	s.refreshStoreGauges(ctx)
	return out, nil
}

// AddVessel registers a vessel.
func (s *Service) AddVessel(ctx context.Context, v model.Vessel) (model.Vessel, error) {
	out, err := s.store.AddVessel(ctx, v)
	if err != nil {
		return model.Vessel{}, err
	}
	s.refreshStoreGauges(ctx)
	return out, nil
}

// AddCertificate stores a certificate.
func (s *Service) AddCertificate(ctx context.Context, cert model.Certificate) (model.Certificate, error) {
	out, err := s.store.AddCertificate(ctx, cert)
	if err != nil {
		return model.Certificate{}, err
	}
	s.refreshStoreGauges(ctx)
	return out, nil
}

// RevokeCertificate soft-deletes a certificate.
func (s *Service) RevokeCertificate(ctx context.Context, id string) error {
	return s.store.RevokeCertificate(ctx, id)
}

// AddContract stores a contract.
func (s *Service) AddContract(ctx context.Context, c model.Contract) (model.Contract, error) {
	out, err := s.store.AddContract(ctx, c)
	if err != nil {
		return model.Contract{}, err
	}
	s.refreshStoreGauges(ctx)
	return out, nil
}

// CreateWorkRestRecord validates and classifies one day's hours, then stores
// the record with its derived compliance status.
func (s *Service) CreateWorkRestRecord(ctx context.Context, r model.WorkRestRecord) (model.WorkRestRecord, compliance.Verdict, error) {
	if err := compliance.ValidateHours(r.WorkHours, r.RestHours, r.OvertimeHours); err != nil {
		return model.WorkRestRecord{}, compliance.Verdict{}, err
	}

	verdict := compliance.CheckDaily(r.WorkHours, r.RestHours)
	r.ComplianceStatus = verdict.Status
	r.ViolationType = verdict.ViolationType

	stored, err := s.store.AddWorkRest(ctx, r)
	if err != nil {
		return model.WorkRestRecord{}, compliance.Verdict{}, err
	}

	metrics.RecordEvaluation()
	if verdict.Status == model.StatusViolation {
		metrics.RecordViolation(string(verdict.ViolationType))
		s.logger.Warn(ctx, "MLC 2006 violation recorded",
			logger.String("crewID", stored.CrewID),
			logger.String("vesselID", stored.VesselID),
			logger.String("violationType", string(verdict.ViolationType)),
		)
	}
	s.refreshStoreGauges(ctx)
	return stored, verdict, nil
}

// ListWorkRest returns matching records plus their rolling 7-day annotations,
// keyed by record ID. Records are grouped per crew+vessel before windowing.
func (s *Service) ListWorkRest(ctx context.Context, f repository.WorkRestFilter) ([]model.WorkRestRecord, map[string]compliance.WindowAnnotation, error) {
	records := s.store.WorkRest(ctx, f)

	annotations := make(map[string]compliance.WindowAnnotation, len(records))
	for _, group := range groupByCrewVessel(records) {
		anns, err := compliance.EvaluateSevenDay(group)
		if err != nil {
			return nil, nil, err
		}
		for _, a := range anns {
			annotations[a.RecordID] = a
		}
	}
	return records, annotations, nil
}

// GroupSevenDay reports rolling 7-day violations for one crew+vessel pair.
type GroupSevenDay struct {
	CrewID     string `json:"crewId"`
	CrewName   string `json:"crewName"`
	VesselID   string `json:"vesselId"`
	Violations int    `json:"violations"`
	TotalWeeks int    `json:"totalWeeks"`
}

// Overview is the compliance dashboard payload.
type Overview struct {
	Summary  compliance.Summary `json:"summary"`
	SevenDay []GroupSevenDay    `json:"sevenDayCompliance"`
}

// ComplianceOverview aggregates records from the trailing days window,
// optionally restricted to one vessel. Crew+vessel groups are evaluated in
// parallel on the batch pool; groups are independent so ordering between
// them does not matter.
func (s *Service) ComplianceOverview(ctx context.Context, vesselID string, days int) (Overview, error) {
	from := model.Day(s.now()).AddDate(0, 0, -days)
	records := s.store.WorkRest(ctx, repository.WorkRestFilter{VesselID: vesselID, From: from})

	names := make(map[string]string)
	for _, c := range s.store.ListCrew(ctx, "") {
		names[c.ID] = c.FullName()
	}

	overview := Overview{
		Summary:  compliance.Summarize(records, names),
		SevenDay: []GroupSevenDay{},
	}

	groups := groupByCrewVessel(records)
	results := make([]GroupSevenDay, len(groups))
	jobs := make([]batch.Job, 0, len(groups))
	for i, group := range groups {
		i, group := i, group
		jobs = append(jobs, func(context.Context) {
			violations := 0
			anns, err := compliance.EvaluateSevenDay(group)
			if err != nil {
				// Store listings are date-sorted; treat a bad group
				// as zero evaluable weeks.
				anns = nil
			}
			for _, a := range anns {
				if a.Evaluated && !a.Compliant {
					violations++
					metrics.RecordSevenDayShortfall()
				}
			}
			totalWeeks := len(group) - 6
			if totalWeeks < 0 {
				totalWeeks = 0
			}
			results[i] = GroupSevenDay{
				CrewID:     group[0].CrewID,
				CrewName:   names[group[0].CrewID],
				VesselID:   group[0].VesselID,
				Violations: violations,
				TotalWeeks: totalWeeks,
			}
			if results[i].CrewName == "" {
				results[i].CrewName = group[0].CrewID
			}
		})
	}
	if err := s.pool.Run(ctx, jobs); err != nil {
		return Overview{}, fmt.Errorf("seven-day evaluation: %w", err)
	}
	sortGroupSevenDay(results)
	overview.SevenDay = append(overview.SevenDay, results...)
	return overview, nil
}

// groupByCrewVessel splits records into per crew+vessel groups, preserving
// the date order of the input. Group order follows first appearance.
func groupByCrewVessel(records []model.WorkRestRecord) [][]model.WorkRestRecord {
	index := make(map[string]int)
	groups := [][]model.WorkRestRecord{}
	for _, r := range records {
		key := r.CrewID + "|" + r.VesselID
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], r)
	}
	return groups
}

// MatchCrew runs the assignment pipeline for one request: load the vessel,
// snapshot the active crew pool, filter, score, and rank.
func (s *Service) MatchCrew(ctx context.Context, req crewmatch.Request) (crewmatch.Response, error) {
	start := time.Now()
	metrics.RecordMatchRequest()

	vessel, err := s.store.Vessel(ctx, req.VesselID)
	if err != nil {
		return crewmatch.Response{}, err
	}

	pool := []crewmatch.Profile{}
	for _, crew := range s.store.ListCrew(ctx, model.CrewActive) {
		pool = append(pool, crewmatch.Profile{
			Crew:         crew,
			Certificates: s.store.CertificatesByCrew(ctx, crew.ID),
			Contracts: s.store.ContractsByCrew(ctx, crew.ID,
				model.ContractActive, model.ContractPending),
		})
	}

	resp := s.matcher.Match(ctx, req, vessel, pool)
	metrics.RecordCandidatesScored(len(resp.Candidates))
	metrics.RecordMatchLatency(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "crew match completed",
		logger.String("vesselID", req.VesselID),
		logger.String("rank", req.Rank),
		logger.String("status", resp.Status),
		logger.Int("candidates", len(resp.Candidates)),
	)
	return resp, nil
}

// CheckExpiringCertificates splits the certificate inventory into expiring
// and already-expired alert lists.
func (s *Service) CheckExpiringCertificates(ctx context.Context, days int) (expiring, expired []certguard.Alert) {
	if days <= 0 {
		days = s.lookaheadDays
	}
	expiring, expired = s.certEngine.CheckExpiring(ctx, s.store.ListCertificates(ctx), s.now(), days)
	return expiring, expired
}

// GenerateExpiryAlerts classifies every certificate and returns the alerts
// that should fire now, with duplicate suppression applied.
func (s *Service) GenerateExpiryAlerts(ctx context.Context) []certguard.Alert {
	alerts := s.certEngine.GenerateAlerts(ctx, s.store.ListCertificates(ctx), s.now())
	for _, a := range alerts {
		metrics.RecordAlert(string(a.Severity))
	}
	return alerts
}

// RenewalPlan is the recommended renewal for one certificate.
type RenewalPlan struct {
	CertificateID   string  `json:"certificate_id"`
	CrewID          string  `json:"crew_id"`
	RecommendedDate string  `json:"recommended_date"`
	EstimatedCost   float64 `json:"estimated_cost"`
}

// PlanRenewal recommends a renewal date and cost for one certificate,
// shifted around the crew member's active contract when present.
func (s *Service) PlanRenewal(ctx context.Context, certificateID string) (RenewalPlan, error) {
	cert, err := s.store.Certificate(ctx, certificateID)
	if err != nil {
		return RenewalPlan{}, err
	}

	var active *model.Contract
	if contracts := s.store.ContractsByCrew(ctx, cert.CrewID, model.ContractActive); len(contracts) > 0 {
		active = &contracts[0]
	}

	recommended := certguard.PlanRenewal(cert, active)
	return RenewalPlan{
		CertificateID:   cert.ID,
		CrewID:          cert.CrewID,
		RecommendedDate: recommended.Format(time.RFC3339),
		EstimatedCost:   certguard.EstimateRenewalCost(cert.TypeCode),
	}, nil
}

// AgentStatus describes one evaluator for the status endpoint.
type AgentStatus struct {
	AgentID string `json:"agent_id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Status  string `json:"status"`
}

// AgentStatuses lists the three evaluators and their readiness.
func (s *Service) AgentStatuses(_ context.Context) []AgentStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := "idle"
	if !s.started {
		state = "stopped"
	}
	return []AgentStatus{
		{AgentID: "crew_match_001", Name: "CrewMatchAI", Type: "crew_match", Status: state},
		{AgentID: "cert_guardian_001", Name: "CertGuardianAI", Type: "cert_guardian", Status: state},
		{AgentID: "fatigue_guardian_001", Name: "FatigueGuardianAI", Type: "fatigue_guardian", Status: state},
	}
}

// GetStats returns service statistics for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":               started,
		"alert_cache_size":      int64(0),
		"expiry_lookahead_days": s.lookaheadDays,
	}
	if s.alertCache != nil {
		stats["alert_cache_size"] = s.alertCache.Size()
	}
	if s.store != nil {
		for kind, count := range s.store.Counts(context.Background()) {
			stats[kind] = count
		}
	}
	return stats
}

// meteredDeduper counts suppressed alerts as they are absorbed by the cache.
type meteredDeduper struct {
	inner dedupe.Deduper
}

func (d *meteredDeduper) SeenAndRecord(ctx context.Context, key string) bool {
	seen := d.inner.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordAlertSuppressed()
	}
	return seen
}

func (d *meteredDeduper) Unrecord(ctx context.Context, key string) {
	d.inner.Unrecord(ctx, key)
}

func (d *meteredDeduper) Size() int64 {
	return d.inner.Size()
}

// sortGroupSevenDay orders overview groups for stable presentation.
func sortGroupSevenDay(groups []GroupSevenDay) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].CrewID != groups[j].CrewID {
			return groups[i].CrewID < groups[j].CrewID
		}
		return groups[i].VesselID < groups[j].VesselID
	})
}
