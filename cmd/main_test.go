package main

import (
	"context"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	service "github.com/velamar/crewops/internal/app"
	"github.com/velamar/crewops/internal/config"
	"github.com/velamar/crewops/pkg/metrics"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("CREWOPS_ADDR", ":8080")
			_ = os.Setenv("CREWOPS_BATCH_WORKER_COUNT", "4")
			_ = os.Setenv("CREWOPS_EXPIRY_LOOKAHEAD_DAYS", "90")
			defer func() {
				_ = os.Unsetenv("CREWOPS_ADDR")
				_ = os.Unsetenv("CREWOPS_BATCH_WORKER_COUNT")
				_ = os.Unsetenv("CREWOPS_EXPIRY_LOOKAHEAD_DAYS")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BatchWorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.ExpiryLookaheadDays, convey.ShouldEqual, 90)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then service should be creatable with default options", func() {
				svc := service.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And service should be creatable with custom options", func() {
				svc := service.New(
					service.WithBatchWorkerCount(2),
					service.WithBatchQueueSize(64),
					service.WithAlertDedupeSize(100),
					service.WithExpiryLookaheadDays(60),
				)
				convey.So(svc, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then a manager should be creatable on a fresh registry", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When updating system metrics", func() {
			convey.Convey("Then the update should not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})
	})
}
