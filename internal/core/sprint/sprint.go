// Package sprint contains pure rules for sprints and the burndown computation
// over per-day task snapshots.
package sprint

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/taskboard/internal/core/board"
)

// DateLayout is the calendar-day layout used for snapshots and sprint bounds.
const DateLayout = "2006-01-02"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateSprintContext provides context for sprint creation guards.
type CreateSprintContext struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// RetireSprintContext provides context for archive/delete guards.
type RetireSprintContext struct {
	SprintID string
	Name     string
	IsActive bool
	Action   string // "archived" or "deleted"
}

// CanCreateSprint evaluates whether a sprint can be created.
// Rules:
// - Name is required
// - End date must not precede start date
func CanCreateSprint(ctx CreateSprintContext) GuardResult {
	if ctx.Name == "" {
		return GuardResult{Reason: "sprint name is required"}
	}
	if ctx.EndDate.Before(ctx.StartDate) {
		return GuardResult{Reason: fmt.Sprintf("sprint end date %s is before start date %s",
			ctx.EndDate.Format(DateLayout), ctx.StartDate.Format(DateLayout))}
	}
	return GuardResult{Allowed: true}
}

// CanRetireSprint evaluates whether a sprint can be archived or deleted.
// Rules:
// - The active sprint cannot be archived or deleted
func CanRetireSprint(ctx RetireSprintContext) GuardResult {
	if ctx.IsActive {
		return GuardResult{Reason: fmt.Sprintf("the active sprint '%s' cannot be %s", ctx.Name, ctx.Action)}
	}
	return GuardResult{Allowed: true}
}

// Snapshot is one task's state on one calendar day.
type Snapshot struct {
	TaskID   string
	Date     time.Time
	Category string
}

// Burndown is a per-day series for charting.
type Burndown struct {
	Labels  []string
	Pending []int
	Total   []int
}

// ComputeBurndown walks every day in [start, end]. On each day a task carries
// the category of its latest snapshot dated on or before that day; tasks with
// no such snapshot are not yet counted.
func ComputeBurndown(start, end time.Time, taskIDs []string, snapshots []Snapshot) Burndown {
	start, end = Day(start), Day(end)

	inSprint := make(map[string]bool, len(taskIDs))
	for _, id := range taskIDs {
		inSprint[id] = true
	}

	byTask := make(map[string][]Snapshot)
	for _, s := range snapshots {
		if !inSprint[s.TaskID] {
			continue
		}
		s.Date = Day(s.Date)
		byTask[s.TaskID] = append(byTask[s.TaskID], s)
	}
	ids := make([]string, 0, len(byTask))
	for id, list := range byTask {
		sort.Slice(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out Burndown
	cursor := make(map[string]int, len(ids))
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		total, pending := 0, 0
		for _, id := range ids {
			list := byTask[id]
			i := cursor[id]
			for i < len(list) && !list[i].Date.After(day) {
				i++
			}
			cursor[id] = i
			if i == 0 {
				continue
			}
			total++
			if board.IsPending(list[i-1].Category) {
				pending++
			}
		}
		out.Labels = append(out.Labels, day.Format(DateLayout))
		out.Total = append(out.Total, total)
		out.Pending = append(out.Pending, pending)
	}
	return out
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
