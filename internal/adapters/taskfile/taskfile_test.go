package taskfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/crewplan/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

const fixtureYAML = `tasks:
  - id: t1
    title: Build web dashboard
    required_skills: [react]
    estimated_hours: 40
    deadline_weeks: 2
  - id: t2
    title: Expose reporting API
    required_skills: [go, sql]
    estimated_hours: 60
    deadline_weeks: 3
`

const fixtureJSON = `{"tasks":[{"id":"t1","title":"Build web dashboard","required_skills":["react"],"estimated_hours":40,"deadline_weeks":2}]}`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	convey.Convey("Given task files", t, func() {
		convey.Convey("When loading YAML", func() {
			tasks, err := Load(writeFixture(t, "tasks.yaml", fixtureYAML))
			convey.So(err, convey.ShouldBeNil)
			convey.So(tasks, convey.ShouldHaveLength, 2)
			convey.So(tasks[0].ID, convey.ShouldEqual, "t1")
			convey.So(tasks[1].RequiredSkills, convey.ShouldResemble, []string{"go", "sql"})
		})

		convey.Convey("When loading JSON", func() {
			tasks, err := Load(writeFixture(t, "tasks.json", fixtureJSON))
			convey.So(err, convey.ShouldBeNil)
			convey.So(tasks, convey.ShouldHaveLength, 1)
			convey.So(tasks[0].EstimatedHours, convey.ShouldEqual, 40)
		})

		convey.Convey("When the file is missing", func() {
			_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			convey.So(errors.Is(err, ErrLoad), convey.ShouldBeTrue)
		})

		convey.Convey("When a task fails validation", func() {
			bad := writeFixture(t, "tasks.yaml", "tasks:\n  - id: t1\n    title: No hours\n")
			_, err := Load(bad)
			convey.So(errors.Is(err, ErrLoad), convey.ShouldBeTrue)
			convey.So(errors.Is(err, model.ErrInvalidTask), convey.ShouldBeTrue)
		})
	})
}

func TestSource(t *testing.T) {
	convey.Convey("Given a fixture task source", t, func() {
		src, err := NewSourceFromFile(writeFixture(t, "tasks.yaml", fixtureYAML))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When decomposing a feature", func() {
			tasks, err := src.Decompose(context.Background(), "reporting overhaul")
			convey.So(err, convey.ShouldBeNil)
			convey.So(tasks, convey.ShouldHaveLength, 2)

			convey.Convey("Then callers get a copy, not the backing slice", func() {
				tasks[0].Title = "changed"
				again, _ := src.Decompose(context.Background(), "reporting overhaul")
				convey.So(again[0].Title, convey.ShouldEqual, "Build web dashboard")
			})
		})

		convey.Convey("When the feature is blank", func() {
			_, err := src.Decompose(context.Background(), "   ")

			convey.Convey("Then the structured invalid-task rejection comes back", func() {
				var invalid *model.InvalidTaskError
				convey.So(errors.As(err, &invalid), convey.ShouldBeTrue)
				convey.So(invalid.Type, convey.ShouldEqual, "invalid_task")
				convey.So(invalid.Suggestion, convey.ShouldNotBeEmpty)
			})
		})

		convey.Convey("When the fixed list is invalid", func() {
			_, err := NewSource([]model.TaskSpec{{ID: "t1"}})
			convey.So(errors.Is(err, model.ErrInvalidTask), convey.ShouldBeTrue)
		})
	})
}
