// Package seed generates a demo fleet and posts it to a running service:
// vessels, crew, certificates, contracts, and a work/rest history with a
// realistic mix of compliant days, warnings, and violations.
package seed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/velamar/crewops/pkg/logger"
)

const randomFloatDivisor = 1_000_000

// Daily hour generation ranges. Work and rest must sum to 24 so the service
// accepts the record.
const (
	compliantWorkMin   = 8.0
	compliantWorkRange = 4.0

	warningRestHours   = 10.5
	violationRestHours = 8.0
	longWorkHours      = 15.0

	warningShare   = 0.10
	violationShare = 0.08
	overworkShare  = 0.04
)

// Config controls the generated fleet.
type Config struct {
	BaseURL string
	Vessels int
	Crew    int
	Days    int
	Timeout time.Duration
}

var vesselNames = []string{
	"MV Northern Star", "MV Coral Trader", "MT Baltic Dawn", "MV Pacific Crest",
	"MT Amber Horizon", "MV Southern Cross", "MV Atlantic Gull", "MT Cedar Wave",
}

var vesselTypes = []string{"bulk_carrier", "container", "oil_tanker", "chemical_tanker"}

var flags = []string{"PA", "LR", "MH", "SG", "MT"}

var firstNames = []string{
	"Andrei", "Jose", "Mikhail", "Rajesh", "Olexandr", "Marco", "Nikolai",
	"Ferdinand", "Dmytro", "Santiago", "Ivan", "Emilio",
}

var lastNames = []string{
	"Popescu", "Santos", "Ivanov", "Kumar", "Shevchenko", "Rossi", "Petrov",
	"Reyes", "Bondar", "Garcia", "Kovac", "Moreno",
}

var ranks = []string{"Master", "Chief Officer", "Second Officer", "Chief Engineer", "Able Seaman", "Bosun"}

var nationalities = []string{"RO", "PH", "RU", "IN", "UA", "IT", "BG", "HR"}

type certSpec struct {
	code string
	name string
}

var certCatalog = []certSpec{
	{"STCW_BASIC", "STCW Basic Safety Training"},
	{"STCW_ADVANCED", "STCW Advanced Fire Fighting"},
	{"MEDICAL", "Seafarer Medical Certificate"},
	{"COC_CLASS_I", "Certificate of Competency Class I"},
	{"COC_CLASS_III", "Certificate of Competency Class III"},
	{"TANKER_OIL", "Oil Tanker Familiarization"},
}

// randomFloat returns a random float64 in [0, 1) using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func pick[T any](items []T) T {
	return items[int(randomFloat()*float64(len(items)))%len(items)]
}

// Stats counts what the run created and how many submissions failed.
type Stats struct {
	Vessels      int
	Crew         int
	Certificates int
	Contracts    int
	WorkRest     int
	Failed       int
}

// Run generates the demo fleet and posts it to the service at cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	log := logger.Get()
	client := newClient(cfg.BaseURL, cfg.Timeout)
	stats := &Stats{}
	now := time.Now().UTC()

	log.Info(ctx, "seeding demo fleet",
		logger.Int("vessels", cfg.Vessels),
		logger.Int("crew", cfg.Crew),
		logger.Int("days", cfg.Days),
	)

	vesselIDs := make([]string, 0, cfg.Vessels)
	for i := 0; i < cfg.Vessels; i++ {
		id, err := client.createVessel(ctx, map[string]any{
			"name":       vesselNames[i%len(vesselNames)],
			"imoNumber":  fmt.Sprintf("9%06d", 100000+i),
			"vesselType": pick(vesselTypes),
			"flag":       pick(flags),
		})
		if err != nil {
			return stats, fmt.Errorf("create vessel %d: %w", i, err)
		}
		vesselIDs = append(vesselIDs, id)
		stats.Vessels++
	}

	for i := 0; i < cfg.Crew; i++ {
		crewID, err := client.createCrew(ctx, map[string]any{
			"employeeId":  "EMP-" + uuid.NewString()[:8],
			"firstName":   pick(firstNames),
			"lastName":    pick(lastNames),
			"rank":        pick(ranks),
			"nationality": pick(nationalities),
			"status":      "active",
		})
		if err != nil {
			return stats, fmt.Errorf("create crew %d: %w", i, err)
		}
		stats.Crew++

		// Two to four certificates per crew member, with expiry spread from
		// already-expired through comfortably valid so every severity tier
		// shows up in alert output.
		certCount := 2 + int(randomFloat()*3)
		for c := 0; c < certCount; c++ {
			spec := certCatalog[(i+c)%len(certCatalog)]
			expiryDays := int(randomFloat()*400) - 20
			err := client.createCertificate(ctx, map[string]any{
				"crewId":     crewID,
				"typeCode":   spec.code,
				"typeName":   spec.name,
				"issueDate":  now.AddDate(-5, 0, 0).Format("2006-01-02"),
				"expiryDate": now.AddDate(0, 0, expiryDays).Format("2006-01-02"),
				"status":     "valid",
			})
			if err != nil {
				stats.Failed++
				continue
			}
			stats.Certificates++
		}

		vesselID := vesselIDs[i%len(vesselIDs)]

		// Roughly half the roster is mid-contract; the rest is ashore and
		// available for matching.
		if i%2 == 0 {
			err := client.createContract(ctx, map[string]any{
				"crewId":          crewID,
				"vesselId":        vesselID,
				"signOnDate":      now.AddDate(0, 0, -cfg.Days).Format("2006-01-02"),
				"contractEndDate": now.AddDate(0, 2, 0).Format("2006-01-02"),
				"status":          "active",
			})
			if err != nil {
				stats.Failed++
			} else {
				stats.Contracts++
			}
		}

		for d := cfg.Days - 1; d >= 0; d-- {
			work, rest := dailyHours()
			err := client.createWorkRest(ctx, map[string]any{
				"crewId":     crewID,
				"vesselId":   vesselID,
				"recordDate": now.AddDate(0, 0, -d).Format("2006-01-02"),
				"workHours":  work,
				"restHours":  rest,
			})
			if err != nil {
				stats.Failed++
				continue
			}
			stats.WorkRest++
		}
	}

	log.Info(ctx, "seeding complete",
		logger.Int("vessels", stats.Vessels),
		logger.Int("crew", stats.Crew),
		logger.Int("certificates", stats.Certificates),
		logger.Int("contracts", stats.Contracts),
		logger.Int("workRestRecords", stats.WorkRest),
		logger.Int("failed", stats.Failed),
	)
	return stats, nil
}

// dailyHours produces one day's work/rest split: mostly compliant, with a
// fixed share of warnings, rest violations, and overwork violations.
func dailyHours() (work, rest float64) {
	r := randomFloat()
	switch {
	case r < violationShare:
		return 24 - violationRestHours, violationRestHours
	case r < violationShare+overworkShare:
		return longWorkHours, 24 - longWorkHours
	case r < violationShare+overworkShare+warningShare:
		return 24 - warningRestHours, warningRestHours
	default:
		work = compliantWorkMin + randomFloat()*compliantWorkRange
		return work, 24 - work
	}
}
