package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})

		Convey("When applying options to a manager", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the manager should carry the configured values", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.enabled, ShouldBeTrue)
				So(manager.refreshInterval, ShouldEqual, 10*time.Second)
			})
		})

		Convey("When options receive zero values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be preserved", func() {
				So(manager.namespace, ShouldEqual, "crewplan")
				So(manager.subsystem, ShouldEqual, "allocation")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.runsTotal, ShouldNotBeNil)
				So(manager.runDuration, ShouldNotBeNil)
				So(manager.rejections, ShouldNotBeNil)
				So(manager.httpRequests, ShouldNotBeNil)
				So(manager.rosterSize, ShouldNotBeNil)
			})

			Convey("Then the registry should hold the metric families", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := make([]string, 0, len(families))
				for _, mf := range families {
					names = append(names, mf.GetName())
				}
				joined := strings.Join(names, " ")
				// Vec metrics only appear after a label observation, so check
				// the plain counters and gauges.
				So(joined, ShouldContainSubstring, "crewplan_allocation_run_duration_milliseconds")
				So(joined, ShouldContainSubstring, "crewplan_allocation_tasks_assigned_total")
				So(joined, ShouldContainSubstring, "crewplan_allocation_roster_size")
				So(joined, ShouldContainSubstring, "crewplan_system_goroutines")
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		So(globalManager, ShouldNotBeNil)
		So(GetRegistry(), ShouldNotBeNil)

		Convey("When recording run metrics", func() {
			RecordRun("deterministic", 12.5)
			RecordRun("external", 40)
			RecordRunCost(3200)
			RecordTaskOutcomes(3, 1)

			Convey("Then the run counters should appear in the exposition", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				found := false
				for _, mf := range families {
					if mf.GetName() == "crewplan_allocation_runs_total" {
						found = true
						So(len(mf.GetMetric()), ShouldBeGreaterThanOrEqualTo, 2)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When recording rejections", func() {
			RecordRejection("Wrong domain")
			RecordRejection("Over budget")
			RecordRejection("85% workload")

			Convey("Then free-form workload reasons should fold to a fixed label", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				labels := make(map[string]bool)
				for _, mf := range families {
					if mf.GetName() != "crewplan_allocation_rejections_total" {
						continue
					}
					for _, m := range mf.GetMetric() {
						for _, lp := range m.GetLabel() {
							if lp.GetName() == "reason" {
								labels[lp.GetValue()] = true
							}
						}
					}
				}
				So(labels["Wrong domain"], ShouldBeTrue)
				So(labels["Over budget"], ShouldBeTrue)
				So(labels["Workload cap"], ShouldBeTrue)
				So(labels["85% workload"], ShouldBeFalse)
			})
		})

		Convey("When recording repair metrics", func() {
			RecordRepairStrip()
			RecordReplacementSearch(true)
			RecordReplacementSearch(false)

			Convey("Then both search outcomes should be labelled", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				outcomes := make(map[string]bool)
				for _, mf := range families {
					if mf.GetName() != "crewplan_allocation_replacement_searches_total" {
						continue
					}
					for _, m := range mf.GetMetric() {
						for _, lp := range m.GetLabel() {
							if lp.GetName() == "outcome" {
								outcomes[lp.GetValue()] = true
							}
						}
					}
				}
				So(outcomes["found"], ShouldBeTrue)
				So(outcomes["empty"], ShouldBeTrue)
			})
		})

		Convey("When updating gauges", func() {
			UpdateRosterSize(7)
			UpdateRunStoreSize(12)
			UpdateSystemMemoryUsage(1 << 20)
			UpdateSystemGoroutineCount(42)

			Convey("Then the gauges should report the last values", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				values := make(map[string]float64)
				for _, mf := range families {
					if len(mf.GetMetric()) == 1 && mf.GetMetric()[0].GetGauge() != nil {
						values[mf.GetName()] = mf.GetMetric()[0].GetGauge().GetValue()
					}
				}
				So(values["crewplan_allocation_roster_size"], ShouldEqual, 7)
				So(values["crewplan_allocation_run_store_size"], ShouldEqual, 12)
				So(values["crewplan_system_memory_bytes"], ShouldEqual, float64(1<<20))
				So(values["crewplan_system_goroutines"], ShouldEqual, 42)
			})
		})

		Convey("When recording HTTP metrics", func() {
			RecordHTTPRequest("/allocate", "POST", "200")
			RecordHTTPRequestDuration("/allocate", "POST", 8.2)
			RecordErrorByEndpoint("/allocate", "client_error")

			Convey("Then the recorders should not panic and should register samples", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool)
				for _, mf := range families {
					names[mf.GetName()] = true
				}
				So(names["crewplan_http_requests_total"], ShouldBeTrue)
				So(names["crewplan_http_request_duration_milliseconds"], ShouldBeTrue)
				So(names["crewplan_http_errors_total"], ShouldBeTrue)
			})
		})
	})
}
