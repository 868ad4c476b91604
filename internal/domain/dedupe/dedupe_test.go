package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/velamar/crewops/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording keys", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the key is new", func() {
				seen := d.SeenAndRecord(ctx, "cert-1|critical")

				Convey("Then it should return false and record the key", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the key was already seen", func() {
				d.SeenAndRecord(ctx, "cert-1|critical")
				seen := d.SeenAndRecord(ctx, "cert-1|critical")

				Convey("Then it should return true", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the same certificate reaches a new severity", func() {
				d.SeenAndRecord(ctx, "cert-1|low")
				seen := d.SeenAndRecord(ctx, "cert-1|medium")

				Convey("Then the new severity is a distinct key", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 2)
				})
			})
		})

		Convey("When unrecording keys", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "cert-1|high")

			Convey("And the key exists", func() {
				d.Unrecord(ctx, "cert-1|high")

				Convey("Then the key can be recorded again", func() {
					So(d.Size(), ShouldEqual, 0)
					So(d.SeenAndRecord(ctx, "cert-1|high"), ShouldBeFalse)
				})
			})

			Convey("And the key does not exist", func() {
				d.Unrecord(ctx, "missing")

				Convey("Then nothing changes", func() {
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When the cache is bounded", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for i := 0; i < 3; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("key-%d", i))
			}

			Convey("And one more key arrives", func() {
				d.SeenAndRecord(ctx, "key-3")

				Convey("Then the oldest key is evicted", func() {
					So(d.Size(), ShouldEqual, 3)
					So(d.SeenAndRecord(ctx, "key-0"), ShouldBeFalse)
					So(d.SeenAndRecord(ctx, "key-3"), ShouldBeTrue)
				})
			})
		})

		Convey("When accessed concurrently", func() {
			d := dedupe.NewInMemoryDeduper()
			var wg sync.WaitGroup
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func(n int) {
					defer wg.Done()
					for j := 0; j < 100; j++ {
						d.SeenAndRecord(ctx, fmt.Sprintf("key-%d-%d", n, j))
					}
				}(i)
			}
			wg.Wait()

			Convey("Then every distinct key is tracked exactly once", func() {
				So(d.Size(), ShouldEqual, 1000)
			})
		})
	})
}
