package service

import "github.com/okian/crewplan/internal/domain/model"

// buildTimeline spreads each task evenly across the weeks before its
// deadline. Deliberately trivial: the timeline is a pass-through view for
// the presentation layer, not part of the allocation decision.
func buildTimeline(tasks []model.TaskSpec) []model.TimelineWeek {
	maxWeeks := 0
	for _, t := range tasks {
		if t.DeadlineWeeks > maxWeeks {
			maxWeeks = t.DeadlineWeeks
		}
	}

	weeks := make([]model.TimelineWeek, 0, maxWeeks)
	for w := 1; w <= maxWeeks; w++ {
		entry := model.TimelineWeek{Week: w}
		for _, t := range tasks {
			if w <= t.DeadlineWeeks {
				entry.TaskIDs = append(entry.TaskIDs, t.ID)
				entry.Hours += t.EstimatedHours / float64(t.DeadlineWeeks)
			}
		}
		weeks = append(weeks, entry)
	}
	return weeks
}
