package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/velamar/crewops/internal/adapters/repository"
	"github.com/velamar/crewops/internal/domain/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// seedStore creates a store with one crew member and one vessel.
func seedStore() (*repository.MemStore, model.CrewMember, model.Vessel) {
	ctx := context.Background()
	s := repository.NewMemStore()
	crew, err := s.AddCrew(ctx, model.CrewMember{FirstName: "Andrei", LastName: "Popescu", Rank: "Master"})
	if err != nil {
		panic(err)
	}
	vessel, err := s.AddVessel(ctx, model.Vessel{Name: "MV Northern Star", VesselType: "bulk_carrier"})
	if err != nil {
		panic(err)
	}
	return s, crew, vessel
}

func TestMemStoreCrewAndVessels(t *testing.T) {
	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		s := repository.NewMemStore()

		Convey("When adding a crew member without an ID", func() {
			crew, err := s.AddCrew(ctx, model.CrewMember{FirstName: "Jose", LastName: "Santos"})

			Convey("Then an ID and active status are assigned", func() {
				So(err, ShouldBeNil)
				So(crew.ID, ShouldNotBeEmpty)
				So(crew.Status, ShouldEqual, model.CrewActive)
			})

			Convey("And the member is retrievable", func() {
				got, err := s.Crew(ctx, crew.ID)
				So(err, ShouldBeNil)
				So(got.FullName(), ShouldEqual, "Jose Santos")
			})
		})

		Convey("When adding a crew member with a duplicate ID", func() {
			first, _ := s.AddCrew(ctx, model.CrewMember{ID: "crew-1", FirstName: "A", LastName: "B"})
			_, err := s.AddCrew(ctx, model.CrewMember{ID: first.ID, FirstName: "C", LastName: "D"})

			Convey("Then the duplicate is rejected", func() {
				So(err, ShouldWrap, repository.ErrDuplicateRecord)
			})
		})

		Convey("When looking up a missing record", func() {
			_, crewErr := s.Crew(ctx, "missing")
			_, vesselErr := s.Vessel(ctx, "missing")

			Convey("Then both return not-found", func() {
				So(crewErr, ShouldWrap, repository.ErrNotFound)
				So(vesselErr, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When listing crew by status", func() {
			_, _ = s.AddCrew(ctx, model.CrewMember{FirstName: "A", LastName: "A", Status: model.CrewActive})
			_, _ = s.AddCrew(ctx, model.CrewMember{FirstName: "B", LastName: "B", Status: model.CrewOnLeave})

			Convey("Then the filter applies and empty status lists everyone", func() {
				So(s.ListCrew(ctx, model.CrewActive), ShouldHaveLength, 1)
				So(s.ListCrew(ctx, ""), ShouldHaveLength, 2)
			})
		})
	})
}

func TestMemStoreCertificates(t *testing.T) {
	Convey("Given a store with a crew member", t, func() {
		ctx := context.Background()
		s, crew, _ := seedStore()

		Convey("When adding a certificate for an unknown crew member", func() {
			_, err := s.AddCertificate(ctx, model.Certificate{
				CrewID:     "missing",
				IssueDate:  day("2020-01-01"),
				ExpiryDate: day("2026-01-01"),
			})

			Convey("Then it is rejected as not-found", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When the expiry date is not after the issue date", func() {
			_, err := s.AddCertificate(ctx, model.Certificate{
				CrewID:     crew.ID,
				IssueDate:  day("2026-01-01"),
				ExpiryDate: day("2020-01-01"),
			})

			Convey("Then it is rejected as invalid", func() {
				So(err, ShouldWrap, repository.ErrValidation)
			})
		})

		Convey("When adding a valid certificate", func() {
			cert, err := s.AddCertificate(ctx, model.Certificate{
				CrewID:     crew.ID,
				TypeCode:   "STCW_BASIC",
				IssueDate:  day("2020-01-01"),
				ExpiryDate: day("2026-01-01"),
			})
			So(err, ShouldBeNil)

			Convey("Then it defaults to valid status", func() {
				So(cert.Status, ShouldEqual, model.CertValid)
			})

			Convey("And it appears in crew and global listings", func() {
				So(s.CertificatesByCrew(ctx, crew.ID), ShouldHaveLength, 1)
				So(s.ListCertificates(ctx), ShouldHaveLength, 1)
			})

			Convey("And revoking flips its status without deleting it", func() {
				So(s.RevokeCertificate(ctx, cert.ID), ShouldBeNil)
				got, err := s.Certificate(ctx, cert.ID)
				So(err, ShouldBeNil)
				So(got.Status, ShouldEqual, model.CertRevoked)
			})
		})

		Convey("When revoking a missing certificate", func() {
			So(s.RevokeCertificate(ctx, "missing"), ShouldWrap, repository.ErrNotFound)
		})
	})
}

func TestMemStoreContracts(t *testing.T) {
	Convey("Given a store with a crew member and vessel", t, func() {
		ctx := context.Background()
		s, crew, vessel := seedStore()

		base := model.Contract{
			CrewID:          crew.ID,
			VesselID:        vessel.ID,
			SignOnDate:      day("2025-01-01"),
			ContractEndDate: day("2025-06-01"),
		}

		Convey("When adding a valid contract", func() {
			c, err := s.AddContract(ctx, base)

			Convey("Then it defaults to active", func() {
				So(err, ShouldBeNil)
				So(c.Status, ShouldEqual, model.ContractActive)
			})
		})

		Convey("When a second active contract overlaps", func() {
			_, err := s.AddContract(ctx, base)
			So(err, ShouldBeNil)

			overlapping := base
			overlapping.SignOnDate = day("2025-05-01")
			overlapping.ContractEndDate = day("2025-09-01")
			_, err = s.AddContract(ctx, overlapping)

			Convey("Then the overlap is a conflict", func() {
				So(err, ShouldWrap, repository.ErrContractOverlap)
			})
		})

		Convey("When the overlap is with a completed contract", func() {
			done := base
			done.Status = model.ContractCompleted
			_, err := s.AddContract(ctx, done)
			So(err, ShouldBeNil)

			next := base
			next.SignOnDate = day("2025-05-01")
			next.ContractEndDate = day("2025-09-01")
			_, err = s.AddContract(ctx, next)

			Convey("Then the new contract is accepted", func() {
				So(err, ShouldBeNil)
			})
		})

		Convey("When contracts only touch end to start", func() {
			_, err := s.AddContract(ctx, base)
			So(err, ShouldBeNil)

			adjacent := base
			adjacent.SignOnDate = day("2025-06-01")
			adjacent.ContractEndDate = day("2025-09-01")
			_, err = s.AddContract(ctx, adjacent)

			Convey("Then sharing a boundary day still conflicts", func() {
				So(err, ShouldWrap, repository.ErrContractOverlap)
			})
		})

		Convey("When the end date is not after sign-on", func() {
			bad := base
			bad.ContractEndDate = bad.SignOnDate
			_, err := s.AddContract(ctx, bad)

			Convey("Then it is rejected as invalid", func() {
				So(err, ShouldWrap, repository.ErrValidation)
			})
		})

		Convey("When filtering contracts by status", func() {
			_, _ = s.AddContract(ctx, base)
			done := base
			done.Status = model.ContractCompleted
			done.SignOnDate = day("2024-01-01")
			done.ContractEndDate = day("2024-06-01")
			_, _ = s.AddContract(ctx, done)

			Convey("Then the status filter applies", func() {
				So(s.ContractsByCrew(ctx, crew.ID, model.ContractActive), ShouldHaveLength, 1)
				So(s.ContractsByCrew(ctx, crew.ID), ShouldHaveLength, 2)
			})
		})
	})
}

func TestMemStoreWorkRest(t *testing.T) {
	Convey("Given a store with a crew member and vessel", t, func() {
		ctx := context.Background()
		s, crew, vessel := seedStore()

		record := func(date string) model.WorkRestRecord {
			return model.WorkRestRecord{
				CrewID:     crew.ID,
				VesselID:   vessel.ID,
				RecordDate: day(date),
				WorkHours:  12,
				RestHours:  12,
			}
		}

		Convey("When adding a record", func() {
			r, err := s.AddWorkRest(ctx, record("2025-03-01"))

			Convey("Then it gets an ID and a normalized date", func() {
				So(err, ShouldBeNil)
				So(r.ID, ShouldNotBeEmpty)
				So(r.RecordDate, ShouldEqual, day("2025-03-01"))
			})
		})

		Convey("When adding the same crew, vessel and date twice", func() {
			_, err := s.AddWorkRest(ctx, record("2025-03-01"))
			So(err, ShouldBeNil)

			late := record("2025-03-01")
			late.RecordDate = late.RecordDate.Add(15 * time.Hour) // same day, different time
			_, err = s.AddWorkRest(ctx, late)

			Convey("Then the duplicate day is a conflict", func() {
				So(err, ShouldWrap, repository.ErrDuplicateRecord)
			})
		})

		Convey("When the crew or vessel is unknown", func() {
			bad := record("2025-03-01")
			bad.CrewID = "missing"
			_, err := s.AddWorkRest(ctx, bad)

			Convey("Then it is rejected as not-found", func() {
				So(err, ShouldWrap, repository.ErrNotFound)
			})
		})

		Convey("When filtering records", func() {
			for i := 1; i <= 5; i++ {
				_, err := s.AddWorkRest(ctx, record(fmt.Sprintf("2025-03-0%d", i)))
				So(err, ShouldBeNil)
			}

			Convey("Then date bounds are inclusive", func() {
				got := s.WorkRest(ctx, repository.WorkRestFilter{
					From: day("2025-03-02"),
					To:   day("2025-03-04"),
				})
				So(got, ShouldHaveLength, 3)
			})

			Convey("Then results come back date ascending", func() {
				got := s.WorkRest(ctx, repository.WorkRestFilter{CrewID: crew.ID})
				So(got, ShouldHaveLength, 5)
				for i := 1; i < len(got); i++ {
					So(got[i].RecordDate.After(got[i-1].RecordDate), ShouldBeTrue)
				}
			})

			Convey("Then a non-matching filter yields an empty slice", func() {
				So(s.WorkRest(ctx, repository.WorkRestFilter{CrewID: "missing"}), ShouldBeEmpty)
			})
		})

		Convey("When counting records", func() {
			_, _ = s.AddWorkRest(ctx, record("2025-03-01"))
			counts := s.Counts(ctx)

			Convey("Then every entity kind is reported", func() {
				So(counts["crew"], ShouldEqual, 1)
				So(counts["vessels"], ShouldEqual, 1)
				So(counts["work_rest"], ShouldEqual, 1)
			})
		})
	})
}
