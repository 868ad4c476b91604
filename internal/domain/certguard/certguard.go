// Package certguard classifies certificate expiry into severity tiers,
// decides certificate validity for assignment dates, and plans renewals.
package certguard

import (
	"context"
	"math"
	"time"

	"github.com/velamar/crewops/internal/domain/dedupe"
	"github.com/velamar/crewops/internal/domain/model"
)

// Severity is the urgency tier derived from days until expiry.
type Severity string

// Severity tiers, least to most urgent.
const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
	SeverityBlocker  Severity = "blocker"
)

// Action is the recommended response to an expiring certificate.
type Action string

// Recommended actions, one per severity tier.
const (
	ActionPlanRenewal      Action = "plan_renewal"
	ActionScheduleCourse   Action = "schedule_course"
	ActionConfirmBooking   Action = "confirm_booking"
	ActionUrgentAction     Action = "urgent_action"
	ActionEmergencyRenewal Action = "emergency_renewal"
	ActionUnfitForService  Action = "unfit_for_service"
)

// Renewal planning and alerting constants.
const (
	// DefaultLookaheadDays bounds the expiring-certificate scan window.
	DefaultLookaheadDays = 180

	renewalLeadDays       = 30 // default: renew 30 days before expiry
	renewalAfterSignOff   = 3  // renew 3 days after contract sign-off
	renewalSafetyMargin   = 14 // never recommend less than 14 days before expiry
	alwaysAlertWithinDays = 30 // alerts at 30 days or less are never suppressed

	hoursPerDay = 24
)

// thresholdWindows is the legacy alert schedule: an alert fires only within
// the 7 days leading up to each threshold. Kept selectable for parity with
// historical alert volume; coverage between windows is deliberately sparse.
var thresholdWindows = []struct {
	days     int
	severity Severity
	action   Action
}{
	{180, SeverityInfo, ActionPlanRenewal},
	{90, SeverityLow, ActionScheduleCourse},
	{60, SeverityMedium, ActionConfirmBooking},
	{30, SeverityHigh, ActionUrgentAction},
	{14, SeverityCritical, ActionEmergencyRenewal},
	{0, SeverityBlocker, ActionUnfitForService},
}

// DaysUntilExpiry returns the number of days from now until expiry, rounded
// up. Negative for certificates already expired.
func DaysUntilExpiry(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / hoursPerDay))
}

// Classification is the severity verdict for one certificate.
type Classification struct {
	DaysRemaining     int      `json:"days_remaining"`
	Severity          Severity `json:"severity"`
	RecommendedAction Action   `json:"recommended_action"`
}

// ClassifyExpiry maps days-until-expiry onto the continuous severity table.
// Every possible day count lands in exactly one tier.
func ClassifyExpiry(expiry, now time.Time) Classification {
	days := DaysUntilExpiry(expiry, now)
	c := Classification{DaysRemaining: days}
	switch {
	case days < 0:
		c.Severity, c.RecommendedAction = SeverityBlocker, ActionUnfitForService
	case days < 14:
		c.Severity, c.RecommendedAction = SeverityCritical, ActionEmergencyRenewal
	case days < 30:
		c.Severity, c.RecommendedAction = SeverityHigh, ActionUrgentAction
	case days < 60:
		c.Severity, c.RecommendedAction = SeverityMedium, ActionConfirmBooking
	case days < 90:
		c.Severity, c.RecommendedAction = SeverityLow, ActionScheduleCourse
	default:
		c.Severity, c.RecommendedAction = SeverityInfo, ActionPlanRenewal
	}
	return c
}

// classifyWindowed is the legacy schedule: returns false when the day count
// falls outside every threshold window and no alert should fire.
func classifyWindowed(expiry, now time.Time) (Classification, bool) {
	days := DaysUntilExpiry(expiry, now)
	for _, w := range thresholdWindows {
		if days <= w.days && days > w.days-7 {
			c := Classification{DaysRemaining: days, Severity: w.severity, RecommendedAction: w.action}
			if days < 0 {
				c.Severity, c.RecommendedAction = SeverityBlocker, ActionUnfitForService
			}
			return c, true
		}
	}
	if days < 0 {
		return Classification{DaysRemaining: days, Severity: SeverityBlocker, RecommendedAction: ActionUnfitForService}, true
	}
	return Classification{}, false
}

// IsValidForDate reports whether cert can cover an assignment on asOf.
// A certificate expiring exactly on asOf does not cover it.
func IsValidForDate(cert model.Certificate, asOf time.Time) bool {
	return cert.Status != model.CertRevoked && cert.ExpiryDate.After(asOf)
}

// PlanRenewal recommends a renewal date for cert: 30 days before expiry by
// default, shifted to 3 days after sign-off when an active contract ends
// earlier. The result is clamped to at least 14 days before expiry.
func PlanRenewal(cert model.Certificate, activeContract *model.Contract) time.Time {
	recommended := cert.ExpiryDate.AddDate(0, 0, -renewalLeadDays)

	if activeContract != nil && activeContract.ContractEndDate.Before(recommended) {
		recommended = activeContract.ContractEndDate.AddDate(0, 0, renewalAfterSignOff)
	}

	if !recommended.Before(cert.ExpiryDate) {
		recommended = cert.ExpiryDate.AddDate(0, 0, -renewalSafetyMargin)
	}
	return recommended
}

// Alert is an ephemeral expiry notification for one certificate.
type Alert struct {
	CrewID            string   `json:"crew_id"`
	CertificateID     string   `json:"certificate_id"`
	CertificateType   string   `json:"certificate_type"`
	ExpiryDate        string   `json:"expiry_date"`
	DaysRemaining     int      `json:"days_remaining"`
	Severity          Severity `json:"severity"`
	RecommendedAction Action   `json:"recommended_action"`
}

// Engine generates expiry alerts over certificate snapshots. Alerts for the
// same certificate and severity are suppressed through the deduper, except
// inside the 30-day emergency window where every scan re-alerts.
type Engine struct {
	windowed bool
	deduper  dedupe.Deduper
}

// NewEngine creates an alert engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.deduper == nil {
		e.deduper = dedupe.NewInMemoryDeduper()
	}
	return e
}

func newAlert(cert model.Certificate, c Classification) Alert {
	return Alert{
		CrewID:            cert.CrewID,
		CertificateID:     cert.ID,
		CertificateType:   cert.TypeName,
		ExpiryDate:        cert.ExpiryDate.Format(time.RFC3339),
		DaysRemaining:     c.DaysRemaining,
		Severity:          c.Severity,
		RecommendedAction: c.RecommendedAction,
	}
}

// GenerateAlerts classifies every non-revoked certificate and returns the
// alerts that should fire now.
func (e *Engine) GenerateAlerts(ctx context.Context, certs []model.Certificate, now time.Time) []Alert {
	alerts := []Alert{}
	for _, cert := range certs {
		if cert.Status == model.CertRevoked {
			continue
		}
		var (
			c  Classification
			ok bool
		)
		if e.windowed {
			c, ok = classifyWindowed(cert.ExpiryDate, now)
		} else {
			c, ok = ClassifyExpiry(cert.ExpiryDate, now), true
		}
		if !ok {
			continue
		}
		if c.DaysRemaining > alwaysAlertWithinDays {
			key := cert.ID + "|" + string(c.Severity)
			if e.deduper.SeenAndRecord(ctx, key) {
				continue
			}
		}
		alerts = append(alerts, newAlert(cert, c))
	}
	return alerts
}

// CheckExpiring splits non-revoked certificates into those expiring within
// lookaheadDays and those already expired. lookaheadDays <= 0 uses the
// default 180-day window.
func (e *Engine) CheckExpiring(_ context.Context, certs []model.Certificate, now time.Time, lookaheadDays int) (expiring, expired []Alert) {
	if lookaheadDays <= 0 {
		lookaheadDays = DefaultLookaheadDays
	}
	expiring, expired = []Alert{}, []Alert{}
	for _, cert := range certs {
		if cert.Status == model.CertRevoked {
			continue
		}
		c := ClassifyExpiry(cert.ExpiryDate, now)
		switch {
		case c.DaysRemaining < 0:
			expired = append(expired, newAlert(cert, c))
		case c.DaysRemaining <= lookaheadDays:
			expiring = append(expiring, newAlert(cert, c))
		}
	}
	return expiring, expired
}

// renewalCosts estimates course fees per certificate type code.
var renewalCosts = map[string]float64{
	"COC_CLASS_I":     2000,
	"COC_CLASS_II":    1500,
	"COC_CLASS_III":   1000,
	"STCW_BASIC":      800,
	"STCW_ADVANCED":   1200,
	"MEDICAL":         200,
	"TANKER_OIL":      1000,
	"TANKER_CHEMICAL": 1000,
	"TANKER_GAS":      1200,
}

const defaultRenewalCost = 500

// EstimateRenewalCost returns the estimated renewal cost for a certificate
// type code, with a flat default for unknown codes.
func EstimateRenewalCost(typeCode string) float64 {
	if cost, ok := renewalCosts[typeCode]; ok {
		return cost
	}
	return defaultRenewalCost
}
