package tracker

import (
	"context"
	"fmt"
	"math"
	"time"

	"task-tracker/pkg/task"
)

// Report summarizes completion and lateness over a set of tasks.
// Percentages are rounded to two decimal places.
type Report struct {
	Total            int     `json:"total"`
	Completed        int     `json:"completed"`
	PastDue          int     `json:"past_due"`
	CompletedPercent float64 `json:"completed_percent"`
	PastDuePercent   float64 `json:"past_due_percent"`
	Summary          string  `json:"summary"`
}

// Analysis reports over every task.
func (s *Service) Analysis(ctx context.Context, call Call) (Report, error) {
	tasks, err := s.filter(ctx, "no tasks found", func(task.Task) bool { return true })
	if err != nil {
		return Report{}, err
	}
	r := analyze(tasks, call.Now)
	r.Summary = fmt.Sprintf("Out of %d tasks, %.2f%% are completed and %.2f%% are past due.",
		r.Total, r.CompletedPercent, r.PastDuePercent)
	return r, nil
}

// AnalysisForAssignee reports over the tasks assigned to employeeID.
func (s *Service) AnalysisForAssignee(ctx context.Context, call Call, employeeID string) (Report, error) {
	tasks, err := s.filter(ctx, "no tasks found for assignee "+employeeID, func(t task.Task) bool {
		return assignedTo(t, employeeID)
	})
	if err != nil {
		return Report{}, err
	}
	r := analyze(tasks, call.Now)
	r.Summary = fmt.Sprintf("Out of %d tasks assigned to %s, %.2f%% are completed and %.2f%% are past due.",
		r.Total, employeeID, r.CompletedPercent, r.PastDuePercent)
	return r, nil
}

func analyze(tasks []task.Task, now time.Time) Report {
	r := Report{Total: len(tasks)}
	for _, t := range tasks {
		if isCompleted(t) {
			r.Completed++
		}
		if pastDue(t, now) {
			r.PastDue++
		}
	}
	// filter never returns an empty set, so Total is positive here.
	if r.Total > 0 {
		r.CompletedPercent = round2(float64(r.Completed) / float64(r.Total) * 100)
		r.PastDuePercent = round2(float64(r.PastDue) / float64(r.Total) * 100)
	}
	return r
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
