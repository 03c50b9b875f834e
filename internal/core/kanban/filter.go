package kanban

// Filters narrows cards before projection. Values within a dimension are
// any-of; dimensions are combined all-of. Empty dimensions match everything.
type Filters struct {
	Assignees  []string
	TaskTypes  []string
	Priorities []string
	Labels     []string
	Estimates  []string
	Sprints    []string
}

// Empty reports whether no dimension is constrained.
func (f Filters) Empty() bool {
	return len(f.Assignees) == 0 && len(f.TaskTypes) == 0 && len(f.Priorities) == 0 &&
		len(f.Labels) == 0 && len(f.Estimates) == 0 && len(f.Sprints) == 0
}

// Filter returns the cards matching f, preserving input order.
func Filter(cards []Card, f Filters) []Card {
	if f.Empty() {
		return cards
	}
	var (
		assignees  = set(f.Assignees)
		taskTypes  = set(f.TaskTypes)
		priorities = set(f.Priorities)
		labels     = set(f.Labels)
		estimates  = set(f.Estimates)
		sprints    = set(f.Sprints)
	)

	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		if !match(assignees, c.AssigneeID) || !match(taskTypes, c.TaskType) ||
			!match(priorities, c.PriorityID) || !match(estimates, c.EstimateID) ||
			!match(sprints, c.SprintID) {
			continue
		}
		if labels != nil && !anyMatch(labels, c.LabelIDs) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func set(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

func match(allowed map[string]bool, v string) bool {
	return allowed == nil || allowed[v]
}

func anyMatch(allowed map[string]bool, vs []string) bool {
	for _, v := range vs {
		if allowed[v] {
			return true
		}
	}
	return false
}
