// Package compliance evaluates work/rest-hour records against the MLC 2006
// rest-hour rules: minimum 10 hours rest and maximum 14 hours work in any
// 24-hour period, and minimum 77 hours rest in any rolling 7-day period.
package compliance

import (
	"fmt"
	"sort"
	"time"

	"github.com/velamar/crewops/internal/domain/model"
)

// MLC 2006 thresholds and report limits.
const (
	MinDailyRestHours  = 10.0
	MaxDailyWorkHours  = 14.0
	WarningRestHours   = 11.0
	WeeklyMinRestHours = 77.0

	windowDays     = 7
	hoursPerDay    = 24.0
	hoursTolerance = 0.1

	topViolatorLimit     = 10
	recentViolationLimit = 20
)

// Verdict is the daily classification of a single work/rest record.
type Verdict struct {
	Status        model.ComplianceStatus `json:"status"`
	ViolationType model.ViolationType    `json:"violationType,omitempty"`
}

// CheckDaily classifies a single day's hours. Rules are evaluated in
// priority order; the first match wins.
func CheckDaily(workHours, restHours float64) Verdict {
	switch {
	case restHours < MinDailyRestHours:
		return Verdict{Status: model.StatusViolation, ViolationType: model.ViolationMinRest24H}
	case workHours > MaxDailyWorkHours:
		return Verdict{Status: model.StatusViolation, ViolationType: model.ViolationMaxWork24H}
	case restHours < WarningRestHours:
		// Compliant but within an hour of the rest minimum; flag for
		// proactive attention before it becomes a violation.
		return Verdict{Status: model.StatusWarning}
	default:
		return Verdict{Status: model.StatusCompliant}
	}
}

// ValidateHours rejects hour figures that cannot describe a real day.
// Work and rest must each be within [0, 24], overtime non-negative, and
// work + rest must account for the full 24 hours (0.1h tolerance).
func ValidateHours(workHours, restHours, overtimeHours float64) error {
	if workHours < 0 || workHours > hoursPerDay {
		return fmt.Errorf("%w: work hours %.2f outside [0, 24]", ErrHoursOutOfRange, workHours)
	}
	if restHours < 0 || restHours > hoursPerDay {
		return fmt.Errorf("%w: rest hours %.2f outside [0, 24]", ErrHoursOutOfRange, restHours)
	}
	if overtimeHours < 0 {
		return fmt.Errorf("%w: overtime hours %.2f negative", ErrHoursOutOfRange, overtimeHours)
	}
	if diff := workHours + restHours - hoursPerDay; diff > hoursTolerance || diff < -hoursTolerance {
		return fmt.Errorf("%w: work %.2f + rest %.2f must equal 24", ErrHoursSum, workHours, restHours)
	}
	return nil
}

// WindowAnnotation is the rolling 7-day evaluation attached to one record.
// Evaluated is false for records with fewer than 7 records of history,
// where no weekly verdict can be produced.
type WindowAnnotation struct {
	RecordID          string  `json:"recordId"`
	SevenDayRestHours float64 `json:"sevenDayRestHours"`
	Evaluated         bool    `json:"evaluated"`
	Compliant         bool    `json:"sevenDayCompliant"`
}

// EvaluateSevenDay annotates an ordered-by-date record sequence for a single
// crew+vessel pair with rolling 7-day rest totals. The window is the calendar
// span [date-6d, date]; gaps in daily logging reduce the sum, surfacing the
// compliance risk of incomplete logging. Records must be in chronological
// order or ErrOutOfOrder is returned.
func EvaluateSevenDay(records []model.WorkRestRecord) ([]WindowAnnotation, error) {
	for i := 1; i < len(records); i++ {
		if records[i].RecordDate.Before(records[i-1].RecordDate) {
			return nil, fmt.Errorf("%w: record %d dated %s precedes record %d",
				ErrOutOfOrder, i, records[i].RecordDate.Format("2006-01-02"), i-1)
		}
	}

	annotations := make([]WindowAnnotation, len(records))
	for i, rec := range records {
		annotations[i] = WindowAnnotation{RecordID: rec.ID}
		if i < windowDays-1 {
			// Not enough history for a weekly verdict; no false
			// positives from short sequences.
			continue
		}
		windowStart := model.Day(rec.RecordDate).AddDate(0, 0, -(windowDays - 1))
		var total float64
		for j := i; j >= 0; j-- {
			if records[j].RecordDate.Before(windowStart) {
				break
			}
			total += records[j].RestHours
		}
		annotations[i].SevenDayRestHours = total
		annotations[i].Evaluated = true
		annotations[i].Compliant = total >= WeeklyMinRestHours
	}
	return annotations, nil
}

// ViolatorCount pairs a crew display name with their violation count.
type ViolatorCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RecentViolation is a violation-status record surfaced in the summary.
type RecentViolation struct {
	ID            string              `json:"id"`
	Date          time.Time           `json:"date"`
	Crew          string              `json:"crew"`
	ViolationType model.ViolationType `json:"violationType"`
	WorkHours     float64             `json:"workHours"`
	RestHours     float64             `json:"restHours"`
}

// Summary aggregates compliance statistics over a record set.
type Summary struct {
	TotalRecords     int                         `json:"totalRecords"`
	Violations       int                         `json:"violations"`
	Warnings         int                         `json:"warnings"`
	Compliant        int                         `json:"compliant"`
	ComplianceRate   string                      `json:"complianceRate"`
	ViolationsByType map[model.ViolationType]int `json:"violationsByType"`
	TopViolators     []ViolatorCount             `json:"topViolators"`
	RecentViolations []RecentViolation           `json:"recentViolations"`
}

// Summarize reduces a record set to aggregate compliance statistics.
// crewNames maps crew IDs to display names; unknown IDs fall back to the ID.
// An empty record set yields a "0.00" compliance rate, never a division error.
func Summarize(records []model.WorkRestRecord, crewNames map[string]string) Summary {
	s := Summary{
		ComplianceRate:   "0.00",
		ViolationsByType: make(map[model.ViolationType]int),
		TopViolators:     []ViolatorCount{},
		RecentViolations: []RecentViolation{},
	}
	s.TotalRecords = len(records)

	nameOf := func(crewID string) string {
		if name, ok := crewNames[crewID]; ok {
			return name
		}
		return crewID
	}

	violationsByCrew := make(map[string]int)
	var crewOrder []string
	for _, rec := range records {
		switch rec.ComplianceStatus {
		case model.StatusViolation:
			s.Violations++
			name := nameOf(rec.CrewID)
			if _, seen := violationsByCrew[name]; !seen {
				crewOrder = append(crewOrder, name)
			}
			violationsByCrew[name]++
		case model.StatusWarning:
			s.Warnings++
		case model.StatusCompliant:
			s.Compliant++
		}
		if rec.ViolationType != "" {
			s.ViolationsByType[rec.ViolationType]++
		}
	}

	if s.TotalRecords > 0 {
		s.ComplianceRate = fmt.Sprintf("%.2f", float64(s.Compliant)/float64(s.TotalRecords)*100)
	}

	for _, name := range crewOrder {
		s.TopViolators = append(s.TopViolators, ViolatorCount{Name: name, Count: violationsByCrew[name]})
	}
	// Ties keep first-seen order.
	sort.SliceStable(s.TopViolators, func(i, j int) bool {
		return s.TopViolators[i].Count > s.TopViolators[j].Count
	})
	if len(s.TopViolators) > topViolatorLimit {
		s.TopViolators = s.TopViolators[:topViolatorLimit]
	}

	for _, rec := range records {
		if rec.ComplianceStatus != model.StatusViolation {
			continue
		}
		s.RecentViolations = append(s.RecentViolations, RecentViolation{
			ID:            rec.ID,
			Date:          rec.RecordDate,
			Crew:          nameOf(rec.CrewID),
			ViolationType: rec.ViolationType,
			WorkHours:     rec.WorkHours,
			RestHours:     rec.RestHours,
		})
	}
	sort.SliceStable(s.RecentViolations, func(i, j int) bool {
		return s.RecentViolations[i].Date.After(s.RecentViolations[j].Date)
	})
	if len(s.RecentViolations) > recentViolationLimit {
		s.RecentViolations = s.RecentViolations[:recentViolationLimit]
	}

	return s
}
