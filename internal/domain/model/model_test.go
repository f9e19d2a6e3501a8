package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/crewplan/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validEmployee() model.Employee {
	return model.Employee{
		ID:         "e1",
		Name:       "Dana",
		Role:       "Web Developer",
		Skills:     []string{"react"},
		Workload:   0.4,
		HourlyRate: 80,
		Experience: 5,
		Stress:     0.2,
		Efficiency: 0.9,
		Available:  true,
	}
}

func validTask() model.TaskSpec {
	return model.TaskSpec{ID: "t1", Title: "Build web dashboard", EstimatedHours: 40, DeadlineWeeks: 2}
}

func TestValidateEmployee(t *testing.T) {
	Convey("Given employee validation", t, func() {
		Convey("Then a complete employee passes", func() {
			So(model.ValidateEmployee(validEmployee()), ShouldBeNil)
		})

		Convey("Then missing or blank ids fail", func() {
			e := validEmployee()
			e.ID = "  "
			err := model.ValidateEmployee(e)
			So(err, ShouldNotBeNil)
			So(errors.Is(err, model.ErrInvalidEmployee), ShouldBeTrue)
		})

		Convey("Then out-of-range fractions fail", func() {
			for _, mutate := range []func(*model.Employee){
				func(e *model.Employee) { e.Workload = 1.2 },
				func(e *model.Employee) { e.Stress = -0.1 },
				func(e *model.Employee) { e.Efficiency = 2 },
			} {
				e := validEmployee()
				mutate(&e)
				So(errors.Is(model.ValidateEmployee(e), model.ErrInvalidEmployee), ShouldBeTrue)
			}
		})

		Convey("Then negative rate or experience fails", func() {
			e := validEmployee()
			e.HourlyRate = -1
			So(errors.Is(model.ValidateEmployee(e), model.ErrInvalidEmployee), ShouldBeTrue)
		})
	})
}

func TestValidateTask(t *testing.T) {
	Convey("Given task validation", t, func() {
		Convey("Then a complete task passes", func() {
			So(model.ValidateTask(validTask()), ShouldBeNil)
		})

		Convey("Then zero hours fail", func() {
			tk := validTask()
			tk.EstimatedHours = 0
			So(errors.Is(model.ValidateTask(tk), model.ErrInvalidTask), ShouldBeTrue)
		})

		Convey("Then a missing deadline fails", func() {
			tk := validTask()
			tk.DeadlineWeeks = 0
			So(errors.Is(model.ValidateTask(tk), model.ErrInvalidTask), ShouldBeTrue)
		})
	})
}

func TestValidateCollections(t *testing.T) {
	Convey("Given collection validation", t, func() {
		Convey("Then duplicate employee ids fail", func() {
			err := model.ValidateRoster([]model.Employee{validEmployee(), validEmployee()})
			So(errors.Is(err, model.ErrInvalidEmployee), ShouldBeTrue)
		})

		Convey("Then duplicate task ids fail", func() {
			err := model.ValidateTasks([]model.TaskSpec{validTask(), validTask()})
			So(errors.Is(err, model.ErrInvalidTask), ShouldBeTrue)
		})

		Convey("Then empty collections pass", func() {
			So(model.ValidateRoster(nil), ShouldBeNil)
			So(model.ValidateTasks(nil), ShouldBeNil)
		})
	})
}

func TestAvailableCapacity(t *testing.T) {
	Convey("Given the capacity helper", t, func() {
		So(model.Employee{Workload: 0.3}.AvailableCapacity(), ShouldAlmostEqual, 0.7)
		So(model.Employee{Workload: 1.4}.AvailableCapacity(), ShouldEqual, 0)
	})
}

func TestAllocated(t *testing.T) {
	Convey("Given a result with one staffed and one empty allocation", t, func() {
		r := model.AllocationResult{Allocations: []model.Allocation{
			{TaskID: "t1", Assignees: []string{"e1"}},
			{TaskID: "t2"},
		}}

		So(r.Allocated("t1"), ShouldBeTrue)
		So(r.Allocated("t2"), ShouldBeFalse)
		So(r.Allocated("t3"), ShouldBeFalse)
	})
}

func TestInvalidTaskError(t *testing.T) {
	Convey("Given the structured invalid-task rejection", t, func() {
		e := model.NewInvalidTaskError("unclear request", "describe a concrete feature")

		So(e.Type, ShouldEqual, "invalid_task")
		So(e.Error(), ShouldContainSubstring, "invalid_task")
		So(e.Error(), ShouldContainSubstring, "unclear request")
	})
}
