package compliance_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/velamar/crewops/internal/domain/compliance"
	"github.com/velamar/crewops/internal/domain/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// records builds a chronological sequence of daily records for one crew+vessel
// pair starting at start, with the given rest hours per day.
func records(start string, restHours ...float64) []model.WorkRestRecord {
	out := make([]model.WorkRestRecord, len(restHours))
	base := day(start)
	for i, rest := range restHours {
		out[i] = model.WorkRestRecord{
			ID:         "rec-" + string(rune('a'+i)),
			CrewID:     "crew-1",
			VesselID:   "vessel-1",
			RecordDate: base.AddDate(0, 0, i),
			WorkHours:  24 - rest,
			RestHours:  rest,
		}
	}
	return out
}

func TestCheckDaily(t *testing.T) {
	Convey("Given the daily MLC 2006 rules", t, func() {
		Convey("When rest is below 10 hours", func() {
			v := compliance.CheckDaily(15, 9)

			Convey("Then it is a minimum-rest violation", func() {
				So(v.Status, ShouldEqual, model.StatusViolation)
				So(v.ViolationType, ShouldEqual, model.ViolationMinRest24H)
			})
		})

		Convey("When work exceeds 14 hours but rest is above 10", func() {
			v := compliance.CheckDaily(14.5, 10.2)

			Convey("Then it is a maximum-work violation", func() {
				So(v.Status, ShouldEqual, model.StatusViolation)
				So(v.ViolationType, ShouldEqual, model.ViolationMaxWork24H)
			})
		})

		Convey("When both rules are broken", func() {
			v := compliance.CheckDaily(16, 8)

			Convey("Then the rest rule wins", func() {
				So(v.ViolationType, ShouldEqual, model.ViolationMinRest24H)
			})
		})

		Convey("When rest is between 10 and 11 hours", func() {
			v := compliance.CheckDaily(13.5, 10.5)

			Convey("Then it is a warning without a violation type", func() {
				So(v.Status, ShouldEqual, model.StatusWarning)
				So(v.ViolationType, ShouldBeEmpty)
			})
		})

		Convey("When rest is exactly 10 hours", func() {
			v := compliance.CheckDaily(14, 10)

			Convey("Then it is a warning, not a violation", func() {
				So(v.Status, ShouldEqual, model.StatusWarning)
			})
		})

		Convey("When hours are comfortably within limits", func() {
			v := compliance.CheckDaily(12, 12)

			Convey("Then the day is compliant", func() {
				So(v.Status, ShouldEqual, model.StatusCompliant)
				So(v.ViolationType, ShouldBeEmpty)
			})
		})
	})
}

func TestValidateHours(t *testing.T) {
	Convey("Given hour validation", t, func() {
		Convey("When work and rest sum to 24", func() {
			So(compliance.ValidateHours(12, 12, 2), ShouldBeNil)
		})

		Convey("When the sum is within the tolerance", func() {
			So(compliance.ValidateHours(12.05, 12, 0), ShouldBeNil)
		})

		Convey("When the sum misses 24", func() {
			err := compliance.ValidateHours(10, 10, 0)
			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, compliance.ErrHoursSum)
		})

		Convey("When work hours are out of range", func() {
			err := compliance.ValidateHours(25, -1, 0)
			So(err, ShouldWrap, compliance.ErrHoursOutOfRange)
		})

		Convey("When rest hours are negative", func() {
			err := compliance.ValidateHours(24.5, -0.5, 0)
			So(err, ShouldWrap, compliance.ErrHoursOutOfRange)
		})

		Convey("When overtime is negative", func() {
			err := compliance.ValidateHours(12, 12, -1)
			So(err, ShouldWrap, compliance.ErrHoursOutOfRange)
		})
	})
}

func TestEvaluateSevenDay(t *testing.T) {
	Convey("Given rolling 7-day evaluation", t, func() {
		Convey("When there are fewer than 7 records", func() {
			anns, err := compliance.EvaluateSevenDay(records("2025-03-01", 11, 11, 11, 11, 11, 11))

			Convey("Then no record gets a weekly verdict", func() {
				So(err, ShouldBeNil)
				So(anns, ShouldHaveLength, 6)
				for _, a := range anns {
					So(a.Evaluated, ShouldBeFalse)
				}
			})
		})

		Convey("When 7 consecutive days each have 11 hours rest", func() {
			anns, err := compliance.EvaluateSevenDay(records("2025-03-01", 11, 11, 11, 11, 11, 11, 11))

			Convey("Then the 7th record is evaluated and compliant", func() {
				So(err, ShouldBeNil)
				So(anns[6].Evaluated, ShouldBeTrue)
				So(anns[6].SevenDayRestHours, ShouldEqual, 77)
				So(anns[6].Compliant, ShouldBeTrue)
			})
		})

		Convey("When 7 consecutive days each have 10 hours rest", func() {
			anns, err := compliance.EvaluateSevenDay(records("2025-03-01", 10, 10, 10, 10, 10, 10, 10))

			Convey("Then each day passes daily rules but the week fails", func() {
				So(err, ShouldBeNil)
				So(anns[6].Evaluated, ShouldBeTrue)
				So(anns[6].SevenDayRestHours, ShouldEqual, 70)
				So(anns[6].Compliant, ShouldBeFalse)
			})
		})

		Convey("When there is a gap in daily logging", func() {
			recs := records("2025-03-01", 12, 12, 12, 12, 12, 12, 12)
			// Push the last record outside the calendar window of the first six.
			recs[6].RecordDate = day("2025-03-10")
			anns, err := compliance.EvaluateSevenDay(recs)

			Convey("Then only records inside the calendar span count", func() {
				So(err, ShouldBeNil)
				So(anns[6].Evaluated, ShouldBeTrue)
				// Window [2025-03-04, 2025-03-10] covers records 3..6.
				So(anns[6].SevenDayRestHours, ShouldEqual, 48)
				So(anns[6].Compliant, ShouldBeFalse)
			})
		})

		Convey("When records are out of chronological order", func() {
			recs := records("2025-03-01", 12, 12)
			recs[1].RecordDate = day("2025-02-27")
			_, err := compliance.EvaluateSevenDay(recs)

			Convey("Then evaluation is rejected", func() {
				So(err, ShouldWrap, compliance.ErrOutOfOrder)
			})
		})

		Convey("When evaluating the same input twice", func() {
			recs := records("2025-03-01", 11, 11, 11, 11, 11, 11, 11, 9)
			first, err1 := compliance.EvaluateSevenDay(recs)
			second, err2 := compliance.EvaluateSevenDay(recs)

			Convey("Then the results are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
			})
		})

		Convey("When the input is empty", func() {
			anns, err := compliance.EvaluateSevenDay(nil)

			Convey("Then the result is empty without error", func() {
				So(err, ShouldBeNil)
				So(anns, ShouldBeEmpty)
			})
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given compliance summarization", t, func() {
		names := map[string]string{"crew-1": "Andrei Popescu", "crew-2": "Jose Santos"}

		Convey("When the record set is empty", func() {
			s := compliance.Summarize(nil, names)

			Convey("Then the rate is the zero string, not an error", func() {
				So(s.TotalRecords, ShouldEqual, 0)
				So(s.ComplianceRate, ShouldEqual, "0.00")
				So(s.TopViolators, ShouldBeEmpty)
				So(s.RecentViolations, ShouldBeEmpty)
			})
		})

		Convey("When records mix statuses", func() {
			recs := []model.WorkRestRecord{
				{ID: "1", CrewID: "crew-1", RecordDate: day("2025-03-01"), WorkHours: 12, RestHours: 12, ComplianceStatus: model.StatusCompliant},
				{ID: "2", CrewID: "crew-1", RecordDate: day("2025-03-02"), WorkHours: 16, RestHours: 8, ComplianceStatus: model.StatusViolation, ViolationType: model.ViolationMinRest24H},
				{ID: "3", CrewID: "crew-2", RecordDate: day("2025-03-03"), WorkHours: 13.5, RestHours: 10.5, ComplianceStatus: model.StatusWarning},
				{ID: "4", CrewID: "crew-2", RecordDate: day("2025-03-04"), WorkHours: 14.5, RestHours: 10.2, ComplianceStatus: model.StatusViolation, ViolationType: model.ViolationMaxWork24H},
			}
			s := compliance.Summarize(recs, names)

			Convey("Then counts and rate are correct", func() {
				So(s.TotalRecords, ShouldEqual, 4)
				So(s.Violations, ShouldEqual, 2)
				So(s.Warnings, ShouldEqual, 1)
				So(s.Compliant, ShouldEqual, 1)
				So(s.ComplianceRate, ShouldEqual, "25.00")
			})

			Convey("Then violations are grouped by type", func() {
				So(s.ViolationsByType[model.ViolationMinRest24H], ShouldEqual, 1)
				So(s.ViolationsByType[model.ViolationMaxWork24H], ShouldEqual, 1)
			})

			Convey("Then recent violations are newest first with display names", func() {
				So(s.RecentViolations, ShouldHaveLength, 2)
				So(s.RecentViolations[0].Crew, ShouldEqual, "Jose Santos")
				So(s.RecentViolations[1].Crew, ShouldEqual, "Andrei Popescu")
			})

			Convey("Then unknown crew IDs fall back to the ID", func() {
				extra := append(recs, model.WorkRestRecord{
					ID: "5", CrewID: "crew-9", RecordDate: day("2025-03-05"),
					ComplianceStatus: model.StatusViolation, ViolationType: model.ViolationMinRest24H,
				})
				s2 := compliance.Summarize(extra, names)
				So(s2.RecentViolations[0].Crew, ShouldEqual, "crew-9")
			})
		})

		Convey("When one crew member violates more than another", func() {
			recs := []model.WorkRestRecord{
				{ID: "1", CrewID: "crew-2", RecordDate: day("2025-03-01"), ComplianceStatus: model.StatusViolation, ViolationType: model.ViolationMinRest24H},
				{ID: "2", CrewID: "crew-1", RecordDate: day("2025-03-02"), ComplianceStatus: model.StatusViolation, ViolationType: model.ViolationMinRest24H},
				{ID: "3", CrewID: "crew-1", RecordDate: day("2025-03-03"), ComplianceStatus: model.StatusViolation, ViolationType: model.ViolationMaxWork24H},
			}
			s := compliance.Summarize(recs, names)

			Convey("Then top violators are ordered by count", func() {
				So(s.TopViolators, ShouldHaveLength, 2)
				So(s.TopViolators[0].Name, ShouldEqual, "Andrei Popescu")
				So(s.TopViolators[0].Count, ShouldEqual, 2)
				So(s.TopViolators[1].Name, ShouldEqual, "Jose Santos")
			})
		})
	})
}
