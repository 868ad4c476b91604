package crewmatch_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/velamar/crewops/internal/domain/crewmatch"
	"github.com/velamar/crewops/internal/domain/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var assignmentDate = day("2025-04-01")

func fixedClock() time.Time { return day("2025-03-01") }

func profile(id string, certs []model.Certificate, contracts []model.Contract) crewmatch.Profile {
	return crewmatch.Profile{
		Crew: model.CrewMember{
			ID:         id,
			EmployeeID: "EMP-" + id,
			FirstName:  "Crew",
			LastName:   id,
			Rank:       "Second Officer",
			Status:     model.CrewActive,
		},
		Certificates: certs,
		Contracts:    contracts,
	}
}

func validCert(code string) model.Certificate {
	return model.Certificate{
		TypeCode:   code,
		Status:     model.CertValid,
		ExpiryDate: day("2026-01-01"),
	}
}

func request(certCodes ...string) crewmatch.Request {
	return crewmatch.Request{
		VesselID:     "vessel-1",
		Rank:         "Second Officer",
		RequiredDate: assignmentDate,
		Requirements: crewmatch.Requirements{Certificates: certCodes},
	}
}

func TestFilterEligible(t *testing.T) {
	Convey("Given the eligibility gates", t, func() {
		m := crewmatch.NewMatcher(crewmatch.WithClock(fixedClock))

		Convey("When a candidate is missing a required certificate", func() {
			pool := []crewmatch.Profile{
				profile("a", []model.Certificate{validCert("STCW_BASIC")}, nil),
				profile("b", []model.Certificate{validCert("STCW_BASIC"), validCert("MEDICAL")}, nil),
			}
			eligible := m.FilterEligible(pool, request("STCW_BASIC", "MEDICAL"))

			Convey("Then only the fully certified candidate passes", func() {
				So(eligible, ShouldHaveLength, 1)
				So(eligible[0].Crew.ID, ShouldEqual, "b")
			})
		})

		Convey("When a required certificate expires on the assignment date", func() {
			cert := validCert("STCW_BASIC")
			cert.ExpiryDate = assignmentDate
			pool := []crewmatch.Profile{profile("a", []model.Certificate{cert}, nil)}

			Convey("Then the candidate is excluded", func() {
				So(m.FilterEligible(pool, request("STCW_BASIC")), ShouldBeEmpty)
			})
		})

		Convey("When a required certificate is revoked", func() {
			cert := validCert("STCW_BASIC")
			cert.Status = model.CertRevoked
			pool := []crewmatch.Profile{profile("a", []model.Certificate{cert}, nil)}

			Convey("Then the candidate is excluded", func() {
				So(m.FilterEligible(pool, request("STCW_BASIC")), ShouldBeEmpty)
			})
		})

		Convey("When a contract covers the assignment date", func() {
			contracts := []model.Contract{{
				Status:          model.ContractActive,
				SignOnDate:      day("2025-03-01"),
				ContractEndDate: day("2025-05-01"),
			}}
			pool := []crewmatch.Profile{profile("a", []model.Certificate{validCert("STCW_BASIC")}, contracts)}

			Convey("Then the candidate is excluded", func() {
				So(m.FilterEligible(pool, request("STCW_BASIC")), ShouldBeEmpty)
			})
		})

		Convey("When a contract ends exactly on the assignment date", func() {
			contracts := []model.Contract{{
				Status:          model.ContractActive,
				SignOnDate:      day("2025-01-01"),
				ContractEndDate: assignmentDate,
			}}
			pool := []crewmatch.Profile{profile("a", []model.Certificate{validCert("STCW_BASIC")}, contracts)}

			Convey("Then the date is still occupied and the candidate excluded", func() {
				So(m.FilterEligible(pool, request("STCW_BASIC")), ShouldBeEmpty)
			})
		})

		Convey("When only a completed contract covers the date", func() {
			contracts := []model.Contract{{
				Status:          model.ContractCompleted,
				SignOnDate:      day("2025-03-01"),
				ContractEndDate: day("2025-05-01"),
			}}
			pool := []crewmatch.Profile{profile("a", []model.Certificate{validCert("STCW_BASIC")}, contracts)}

			Convey("Then the candidate stays eligible", func() {
				So(m.FilterEligible(pool, request("STCW_BASIC")), ShouldHaveLength, 1)
			})
		})
	})
}

func TestScore(t *testing.T) {
	Convey("Given the weighted scoring model", t, func() {
		m := crewmatch.NewMatcher(crewmatch.WithClock(fixedClock))
		vessel := model.Vessel{ID: "vessel-1", VesselType: "bulk_carrier"}

		Convey("When a candidate holds every required certificate", func() {
			p := profile("a", []model.Certificate{validCert("STCW_BASIC")}, nil)
			req := request("STCW_BASIC")
			c := m.Score(p, req, vessel)

			Convey("Then the technical score is cert + experience + familiarity", func() {
				// 40 (full cert match) + 30 (no experience requirement)
				// + 20 (default familiarity)
				So(c.TechnicalScore, ShouldEqual, 90)
			})

			Convey("Then the defaults feed the remaining criteria", func() {
				So(c.PerformanceScore, ShouldEqual, 75)
				So(c.CostScore, ShouldEqual, 70)
				So(c.PreferenceScore, ShouldEqual, 60)
				So(c.ContinuityScore, ShouldEqual, 50)
			})

			Convey("Then the total is the weighted sum, rounded to cents", func() {
				// 90*0.30 + 75*0.25 + 70*0.20 + 60*0.15 + 50*0.10
				So(c.TotalScore, ShouldEqual, 73.75)
			})
		})

		Convey("When half the required certificates are held", func() {
			p := profile("a", []model.Certificate{validCert("STCW_BASIC")}, nil)
			req := request("STCW_BASIC", "MEDICAL")
			c := m.Score(p, req, vessel)

			Convey("Then the cert contribution is proportional", func() {
				// 20 + 30 + 20
				So(c.TechnicalScore, ShouldEqual, 70)
			})
		})

		Convey("When the experience requirement exceeds the candidate's", func() {
			p := profile("a", nil, nil)
			req := request()
			req.Requirements.ExperienceYears = 10 // default candidate has 5
			c := m.Score(p, req, vessel)

			Convey("Then the experience contribution is scaled", func() {
				// 40 (no certs required) + 15 (5/10 of 30) + 20
				So(c.TechnicalScore, ShouldEqual, 75)
			})
		})

		Convey("When a certificate expires within 90 days", func() {
			cert := validCert("STCW_BASIC")
			cert.ExpiryDate = day("2025-04-15")
			p := profile("a", []model.Certificate{cert}, nil)
			c := m.Score(p, request(), vessel)

			Convey("Then the risk level escalates to medium", func() {
				So(c.RiskAssessment.Level, ShouldEqual, "medium")
				So(c.RiskAssessment.Factors, ShouldContain, "Certificates expiring within 90 days")
			})
		})

		Convey("When no certificate is near expiry", func() {
			p := profile("a", []model.Certificate{validCert("STCW_BASIC")}, nil)
			c := m.Score(p, request(), vessel)

			Convey("Then the risk stays low", func() {
				So(c.RiskAssessment.Level, ShouldEqual, "low")
				So(c.RiskAssessment.Factors, ShouldBeEmpty)
			})
		})

		Convey("When an active contract runs past today", func() {
			contracts := []model.Contract{{
				Status:          model.ContractActive,
				SignOnDate:      day("2025-01-01"),
				ContractEndDate: day("2025-03-20"),
			}}
			p := profile("a", nil, contracts)
			c := m.Score(p, request(), vessel)

			Convey("Then availability starts at the contract end", func() {
				So(c.Availability.AvailableFrom, ShouldEqual, day("2025-03-20").Format(time.RFC3339))
			})
		})
	})
}

func TestMatch(t *testing.T) {
	Convey("Given the full match pipeline", t, func() {
		ctx := context.Background()
		vessel := model.Vessel{ID: "vessel-1"}
		m := crewmatch.NewMatcher(crewmatch.WithClock(fixedClock))

		Convey("When no candidate is eligible", func() {
			pool := []crewmatch.Profile{profile("a", nil, nil)}
			resp := m.Match(ctx, request("STCW_BASIC"), vessel, pool)

			Convey("Then the response is failed with a message, not an error", func() {
				So(resp.Status, ShouldEqual, "failed")
				So(resp.Message, ShouldEqual, "No eligible crew members found")
				So(resp.Candidates, ShouldBeEmpty)
			})
		})

		Convey("When more than five candidates are eligible", func() {
			perf := 100.0
			scorer := func(crewmatch.Profile, crewmatch.Request, model.Vessel) float64 {
				perf -= 10
				return perf
			}
			scored := crewmatch.NewMatcher(
				crewmatch.WithClock(fixedClock),
				crewmatch.WithPerformanceScorer(scorer),
			)

			pool := make([]crewmatch.Profile, 0, 7)
			for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
				pool = append(pool, profile(id, nil, nil))
			}
			resp := scored.Match(ctx, request(), vessel, pool)

			Convey("Then only the top five are returned, best first", func() {
				So(resp.Status, ShouldEqual, "success")
				So(resp.Candidates, ShouldHaveLength, 5)
				So(resp.Candidates[0].CrewID, ShouldEqual, "a")
				So(resp.Candidates[4].CrewID, ShouldEqual, "e")
				So(resp.Candidates[0].TotalScore, ShouldBeGreaterThan, resp.Candidates[4].TotalScore)
			})
		})

		Convey("When candidates tie on total score", func() {
			pool := []crewmatch.Profile{
				profile("first", nil, nil),
				profile("second", nil, nil),
			}
			resp := m.Match(ctx, request(), vessel, pool)

			Convey("Then input order is preserved", func() {
				So(resp.Candidates[0].CrewID, ShouldEqual, "first")
				So(resp.Candidates[1].CrewID, ShouldEqual, "second")
			})
		})
	})
}
