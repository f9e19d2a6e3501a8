package assign_test

import (
	"testing"

	assign "github.com/okian/crewplan/internal/domain/assign"
	"github.com/okian/crewplan/internal/domain/model"
	"github.com/okian/crewplan/internal/domain/scoring"
	"github.com/okian/crewplan/internal/domain/taxonomy"
	. "github.com/smartystreets/goconvey/convey"
)

func webTask(id string, hours float64, weeks int) model.TaskSpec {
	return model.TaskSpec{
		ID:             id,
		Title:          "Build web dashboard",
		RequiredSkills: []string{"react"},
		EstimatedHours: hours,
		DeadlineWeeks:  weeks,
	}
}

func webDev(id string, workload, stress, efficiency, rate float64) model.Employee {
	return model.Employee{
		ID:         id,
		Name:       id,
		Role:       "Web Developer",
		Skills:     []string{"react"},
		Workload:   workload,
		Stress:     stress,
		Efficiency: efficiency,
		HourlyRate: rate,
		Available:  true,
	}
}

func rankFor(task model.TaskSpec, employees []model.Employee, domains []taxonomy.Domain) []scoring.Candidate {
	return scoring.New().Rank(task, taxonomy.Web, employees, domains)
}

func TestTeamSize(t *testing.T) {
	Convey("Given an assigner with 30 productive hours per week", t, func() {
		a := assign.New()

		Convey("Then headcount follows hours over deadline capacity", func() {
			So(a.TeamSize(model.TaskSpec{EstimatedHours: 20, DeadlineWeeks: 2}), ShouldEqual, 1)
			So(a.TeamSize(model.TaskSpec{EstimatedHours: 61, DeadlineWeeks: 2}), ShouldEqual, 2)
			So(a.TeamSize(model.TaskSpec{EstimatedHours: 150, DeadlineWeeks: 2}), ShouldEqual, 3)
		})

		Convey("Then headcount is clamped to three even for huge tasks", func() {
			So(a.TeamSize(model.TaskSpec{EstimatedHours: 10000, DeadlineWeeks: 1}), ShouldEqual, 3)
		})

		Convey("Then a missing deadline counts as one week", func() {
			So(a.TeamSize(model.TaskSpec{EstimatedHours: 45, DeadlineWeeks: 0}), ShouldEqual, 2)
		})

		Convey("And a custom hours-per-week setting changes the sizing", func() {
			wide := assign.New(assign.WithProductiveHoursPerWeek(60))
			So(wide.TeamSize(model.TaskSpec{EstimatedHours: 61, DeadlineWeeks: 2}), ShouldEqual, 1)
		})
	})
}

func TestAssignBudget(t *testing.T) {
	Convey("Given a task that costs more than the budget", t, func() {
		a := assign.New()
		task := webTask("t1", 10, 4)
		employees := []model.Employee{webDev("dev", 0.10, 0.10, 0.9, 50)}
		ranked := rankFor(task, employees, []taxonomy.Domain{taxonomy.Web})

		budget := 100.0 // task costs 10h * 50 = 500
		ledger := assign.NewLedger(&budget)
		log := assign.NewRejectionLog()

		Convey("When assigning", func() {
			allocs := a.Assign([]model.TaskSpec{task}, [][]scoring.Candidate{ranked}, ledger, log)

			Convey("Then the task stays unassigned with an over-budget rejection", func() {
				So(allocs, ShouldBeEmpty)
				So(log.Len(), ShouldEqual, 1)
				So(log.Rejections()[0].Reason, ShouldEqual, assign.ReasonOverBudget)
				So(ledger.Committed(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given two tasks sharing one budget", t, func() {
		a := assign.New()
		t1 := webTask("t1", 10, 4)
		t2 := webTask("t2", 10, 4)
		employees := []model.Employee{webDev("dev", 0.10, 0.10, 0.9, 50)}
		domains := []taxonomy.Domain{taxonomy.Web}

		budget := 600.0 // each task costs 500; only the first fits
		ledger := assign.NewLedger(&budget)
		log := assign.NewRejectionLog()

		Convey("When assigning in input order", func() {
			allocs := a.Assign(
				[]model.TaskSpec{t1, t2},
				[][]scoring.Candidate{rankFor(t1, employees, domains), rankFor(t2, employees, domains)},
				ledger, log,
			)

			Convey("Then the earlier task claims the budget first", func() {
				So(allocs, ShouldHaveLength, 1)
				So(allocs[0].TaskID, ShouldEqual, "t1")
				So(ledger.Committed(), ShouldEqual, 500)
				So(log.Has("t2", "dev"), ShouldBeTrue)
			})
		})
	})

	Convey("Given no budget at all", t, func() {
		ledger := assign.NewLedger(nil)

		Convey("Then any cost is permitted", func() {
			So(ledger.Permits(1e12), ShouldBeTrue)
		})
	})
}

func TestAssignWorkloadCeiling(t *testing.T) {
	Convey("Given the workload ceiling with role leniency", t, func() {
		a := assign.New()
		task := webTask("t1", 10, 4)

		Convey("When a direct-role candidate sits at 85% workload", func() {
			employees := []model.Employee{webDev("busy", 0.85, 0.10, 0.9, 50)}
			ranked := rankFor(task, employees, []taxonomy.Domain{taxonomy.Web})
			log := assign.NewRejectionLog()

			allocs := a.Assign([]model.TaskSpec{task}, [][]scoring.Candidate{ranked}, assign.NewLedger(nil), log)

			Convey("Then the lenient 90% ceiling admits them directly", func() {
				So(allocs, ShouldHaveLength, 1)
				So(allocs[0].Assignees, ShouldResemble, []string{"busy"})
			})
		})

		Convey("When a direct-role candidate sits at 92% workload", func() {
			employees := []model.Employee{webDev("slammed", 0.92, 0.10, 0.9, 50)}
			ranked := rankFor(task, employees, []taxonomy.Domain{taxonomy.Web})
			log := assign.NewRejectionLog()

			allocs := a.Assign([]model.TaskSpec{task}, [][]scoring.Candidate{ranked}, assign.NewLedger(nil), log)

			Convey("Then even the lenient ceiling defers them to the fallback tier", func() {
				// Capacity 0.08 is under the fallback floor too.
				So(allocs, ShouldBeEmpty)
				So(log.Has("t1", "slammed"), ShouldBeTrue)
				So(log.Rejections()[0].Reason, ShouldEqual, assign.ReasonFullyBooked)
			})
		})

		Convey("When the only candidate is over the ceiling but has fallback capacity", func() {
			// Workload 0.88 without role leniency: over 0.75, capacity 0.12.
			emp := webDev("edge", 0.88, 0.10, 0.9, 50)
			emp.Role = "Engineer" // domain-tag bonus only, no leniency
			ranked := rankFor(task, []model.Employee{emp}, []taxonomy.Domain{taxonomy.Web})
			log := assign.NewRejectionLog()

			allocs := a.Assign([]model.TaskSpec{task}, [][]scoring.Candidate{ranked}, assign.NewLedger(nil), log)

			Convey("Then the fallback tier assigns them anyway", func() {
				So(allocs, ShouldHaveLength, 1)
				So(allocs[0].Assignees, ShouldResemble, []string{"edge"})
				So(log.Has("t1", "edge"), ShouldBeFalse)
			})
		})
	})
}

func TestAssignStress(t *testing.T) {
	Convey("Given the stress ceiling", t, func() {
		a := assign.New()
		task := webTask("t1", 10, 4)

		Convey("When a domain-tag candidate is over 65% stress", func() {
			emp := webDev("tense", 0.10, 0.70, 0.9, 50)
			emp.Role = "Engineer"
			ranked := rankFor(task, []model.Employee{emp}, []taxonomy.Domain{taxonomy.Web})
			log := assign.NewRejectionLog()

			allocs := a.Assign([]model.TaskSpec{task}, [][]scoring.Candidate{ranked}, assign.NewLedger(nil), log)

			Convey("Then they are rejected for high stress", func() {
				So(allocs, ShouldBeEmpty)
				So(log.Rejections()[0].Reason, ShouldEqual, assign.ReasonHighStress)
			})
		})

		Convey("When a direct-role candidate is at 70% stress", func() {
			ranked := rankFor(task, []model.Employee{webDev("tense", 0.10, 0.70, 0.9, 50)}, []taxonomy.Domain{taxonomy.Web})
			log := assign.NewRejectionLog()

			allocs := a.Assign([]model.TaskSpec{task}, [][]scoring.Candidate{ranked}, assign.NewLedger(nil), log)

			Convey("Then the lenient 75% ceiling admits them", func() {
				So(allocs, ShouldHaveLength, 1)
			})
		})
	})
}

func TestAssignExplainability(t *testing.T) {
	Convey("Given more qualified candidates than the task needs", t, func() {
		a := assign.New()
		task := webTask("t1", 10, 4) // team size 1

		employees := []model.Employee{
			webDev("winner", 0.10, 0.10, 0.95, 50),
			webDev("second", 0.30, 0.10, 0.80, 50),
			webDev("third", 0.40, 0.70, 0.80, 50),
			webDev("fourth", 0.50, 0.10, 0.80, 50),
			webDev("fifth", 0.55, 0.10, 0.80, 50),
		}
		employees[2].Role = "Engineer" // keeps third under the direct-role leniency
		domains := []taxonomy.Domain{taxonomy.Web, taxonomy.Web, taxonomy.Web, taxonomy.Web, taxonomy.Web}
		ranked := rankFor(task, employees, domains)
		log := assign.NewRejectionLog()

		Convey("When assigning", func() {
			allocs := a.Assign([]model.TaskSpec{task}, [][]scoring.Candidate{ranked}, assign.NewLedger(nil), log)

			Convey("Then the best candidate wins", func() {
				So(allocs, ShouldHaveLength, 1)
				So(allocs[0].Assignees, ShouldResemble, []string{"winner"})
			})

			Convey("And at most three passed-over candidates get a courtesy rejection", func() {
				courtesy := 0
				for _, r := range log.Rejections() {
					if r.Reason == assign.ReasonBetterMatch || r.Reason == assign.ReasonPartialSkills {
						courtesy++
					}
				}
				So(courtesy, ShouldBeLessThanOrEqualTo, 3)
				So(log.Has("t1", "winner"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a task nobody qualifies for", t, func() {
		a := assign.New()
		task := webTask("t1", 10, 4)
		emp := webDev("unrelated", 0.10, 0.10, 0.9, 50)
		emp.Skills = []string{"cobol"}
		ranked := rankFor(task, []model.Employee{emp}, []taxonomy.Domain{taxonomy.Web})
		log := assign.NewRejectionLog()

		Convey("When assigning", func() {
			allocs := a.Assign([]model.TaskSpec{task}, [][]scoring.Candidate{ranked}, assign.NewLedger(nil), log)

			Convey("Then the task is unassigned without spurious rejections", func() {
				// Domain-compatible but underskilled: not a wrong-domain
				// rejection and not a courtesy one either.
				So(allocs, ShouldBeEmpty)
				So(log.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a domain-incompatible candidate", t, func() {
		a := assign.New()
		task := webTask("t1", 10, 4)
		emp := model.Employee{ID: "ios", Name: "ios", Role: "iOS Developer", Skills: []string{"react"}, Available: true}
		ranked := rankFor(task, []model.Employee{emp}, []taxonomy.Domain{taxonomy.Mobile})
		log := assign.NewRejectionLog()

		Convey("When assigning", func() {
			a.Assign([]model.TaskSpec{task}, [][]scoring.Candidate{ranked}, assign.NewLedger(nil), log)

			Convey("Then the rejection reads wrong domain", func() {
				So(log.Rejections()[0].Reason, ShouldEqual, assign.ReasonWrongDomain)
			})
		})
	})
}

func TestBuildAllocation(t *testing.T) {
	Convey("Given a two-person team", t, func() {
		a := assign.New()
		task := webTask("t1", 70, 1) // needs ceil(70/30) = 3, but only 2 qualify
		employees := []model.Employee{
			webDev("lead", 0.10, 0.10, 0.95, 50),
			webDev("pair", 0.20, 0.10, 0.85, 60),
		}
		domains := []taxonomy.Domain{taxonomy.Web, taxonomy.Web}
		ranked := rankFor(task, employees, domains)
		log := assign.NewRejectionLog()

		Convey("When assigning", func() {
			allocs := a.Assign([]model.TaskSpec{task}, [][]scoring.Candidate{ranked}, assign.NewLedger(nil), log)

			Convey("Then hours split evenly and the reasoning names the lead", func() {
				So(allocs, ShouldHaveLength, 1)
				So(allocs[0].Assignees, ShouldHaveLength, 2)
				So(allocs[0].EstimatedHours, ShouldAlmostEqual, 35)
				So(allocs[0].Reasoning, ShouldContainSubstring, "lead")
				So(allocs[0].Reasoning, ShouldContainSubstring, "supported by")
				So(allocs[0].Confidence, ShouldBeGreaterThan, 0)
				So(allocs[0].Confidence, ShouldBeLessThanOrEqualTo, 1)
			})

			Convey("And the tight deadline shows up as a risk factor", func() {
				So(allocs[0].RiskFactors, ShouldNotBeEmpty)
				So(allocs[0].RiskFactors[0], ShouldContainSubstring, "deadline pressure")
			})
		})
	})
}

func TestRejectionLog(t *testing.T) {
	Convey("Given a rejection log", t, func() {
		log := assign.NewRejectionLog()

		Convey("When adding the same pair twice", func() {
			first := log.Add("t1", "e1", assign.ReasonWrongDomain)
			second := log.Add("t1", "e1", assign.ReasonHighStress)

			Convey("Then the first reason wins", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
				So(log.Len(), ShouldEqual, 1)
				So(log.Rejections()[0].Reason, ShouldEqual, assign.ReasonWrongDomain)
			})
		})

		Convey("When seeding from a draft", func() {
			seeded := assign.NewRejectionLog(model.Rejection{TaskID: "t1", EmployeeID: "e1", Reason: assign.ReasonOverBudget})

			Convey("Then the seed is present and deduplicated", func() {
				So(seeded.Has("t1", "e1"), ShouldBeTrue)
				So(seeded.Add("t1", "e1", assign.ReasonHighStress), ShouldBeFalse)
				So(seeded.Len(), ShouldEqual, 1)
			})
		})
	})
}
