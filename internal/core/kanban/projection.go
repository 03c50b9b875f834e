// Package kanban projects a flat task collection into display-ready columns
// and swimlanes. Everything here is a pure function of its input.
package kanban

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/taskboard/internal/core/task"
)

// Grouping dimensions for swimlanes.
const (
	GroupByNone     = ""
	GroupByAssignee = "assignee"
	GroupByPriority = "priority"
	GroupByTaskType = "task_type"
	GroupBySprint   = "sprint"
)

// ErrUnknownGroupBy is returned for a dimension outside the fixed set.
var ErrUnknownGroupBy = errors.New("unknown group_by dimension")

// Card is the projection's view of a task.
type Card struct {
	ID         string
	Name       string
	Summary    string
	StateID    string
	AssigneeID string
	PriorityID string
	SprintID   string
	EstimateID string
	TaskType   string
	LabelIDs   []string
	Sequence   float64
	CreatedAt  time.Time
}

// State is a column definition.
type State struct {
	ID        string
	Name      string
	Category  string
	Sequence  float64
	CreatedAt time.Time
}

// Member is an assignee lane candidate.
type Member struct {
	ID          string
	DisplayName string
}

// Priority is a priority lane candidate.
type Priority struct {
	ID       string
	Name     string
	Position int
}

// Sprint is a sprint lane candidate.
type Sprint struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Input is everything needed to build a board.
type Input struct {
	States     []State
	Cards      []Card
	GroupBy    string
	Members    []Member
	Priorities []Priority
	Sprints    []Sprint
}

// Column is one state with its ordered cards.
type Column struct {
	State State
	Cards []Card
}

// Lane is one value of the grouping dimension with a full column partition.
type Lane struct {
	Key     string
	Label   string
	None    bool
	Columns []Column
}

// Board is the projection result. Exactly one of Columns or Lanes is populated.
type Board struct {
	GroupBy string
	Columns []Column
	Lanes   []Lane
}

// Project partitions cards by state and, optionally, by a secondary dimension.
func Project(in Input) (Board, error) {
	states := sortedStates(in.States)
	cards := sortedCards(in.Cards)

	if in.GroupBy == GroupByNone {
		return Board{Columns: partition(states, cards)}, nil
	}

	var (
		lanes []Lane
		keyOf func(Card) string
	)
	switch in.GroupBy {
	case GroupByAssignee:
		lanes = assigneeLanes(in.Members)
		keyOf = func(c Card) string { return c.AssigneeID }
	case GroupByPriority:
		lanes = priorityLanes(in.Priorities)
		keyOf = func(c Card) string { return c.PriorityID }
	case GroupByTaskType:
		lanes = taskTypeLanes()
		keyOf = func(c Card) string { return c.TaskType }
	case GroupBySprint:
		lanes = sprintLanes(in.Sprints)
		keyOf = func(c Card) string { return c.SprintID }
	default:
		return Board{}, fmt.Errorf("%w: %q", ErrUnknownGroupBy, in.GroupBy)
	}

	known := make(map[string]bool, len(lanes))
	for _, l := range lanes {
		known[l.Key] = true
	}
	lanes = append(lanes, Lane{Key: "no_" + in.GroupBy, None: true})

	for i := range lanes {
		lane := &lanes[i]
		var laneCards []Card
		for _, c := range cards {
			k := keyOf(c)
			if lane.None && !known[k] || !lane.None && k == lane.Key {
				laneCards = append(laneCards, c)
			}
		}
		lane.Columns = partition(states, laneCards)
	}

	return Board{GroupBy: in.GroupBy, Lanes: lanes}, nil
}

func partition(states []State, cards []Card) []Column {
	cols := make([]Column, len(states))
	index := make(map[string]int, len(states))
	for i, s := range states {
		cols[i] = Column{State: s, Cards: []Card{}}
		index[s.ID] = i
	}
	for _, c := range cards {
		if i, ok := index[c.StateID]; ok {
			cols[i].Cards = append(cols[i].Cards, c)
		}
	}
	return cols
}

func sortedStates(in []State) []State {
	out := append([]State(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func sortedCards(in []Card) []Card {
	out := make([]Card, len(in))
	for i, c := range in {
		c.LabelIDs = append([]string(nil), c.LabelIDs...)
		out[i] = c
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Sequence != b.Sequence {
			return a.Sequence < b.Sequence
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func assigneeLanes(members []Member) []Lane {
	ms := append([]Member(nil), members...)
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := strings.ToLower(ms[i].DisplayName), strings.ToLower(ms[j].DisplayName)
		if a != b {
			return a < b
		}
		return ms[i].ID < ms[j].ID
	})
	lanes := make([]Lane, 0, len(ms))
	for _, m := range ms {
		lanes = append(lanes, Lane{Key: m.ID, Label: m.DisplayName})
	}
	return lanes
}

func priorityLanes(priorities []Priority) []Lane {
	ps := append([]Priority(nil), priorities...)
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].Position != ps[j].Position {
			return ps[i].Position < ps[j].Position
		}
		return ps[i].ID < ps[j].ID
	})
	lanes := make([]Lane, 0, len(ps))
	for _, p := range ps {
		lanes = append(lanes, Lane{Key: p.ID, Label: p.Name})
	}
	return lanes
}

func taskTypeLanes() []Lane {
	lanes := make([]Lane, 0, len(task.Types))
	for _, t := range task.Types {
		lanes = append(lanes, Lane{Key: t, Label: task.TypeLabel(t)})
	}
	return lanes
}

// Sprints are shown newest first.
func sprintLanes(sprints []Sprint) []Lane {
	ss := append([]Sprint(nil), sprints...)
	sort.SliceStable(ss, func(i, j int) bool {
		if !ss[i].CreatedAt.Equal(ss[j].CreatedAt) {
			return ss[i].CreatedAt.After(ss[j].CreatedAt)
		}
		return ss[i].ID < ss[j].ID
	})
	lanes := make([]Lane, 0, len(ss))
	for _, s := range ss {
		lanes = append(lanes, Lane{Key: s.ID, Label: s.Name})
	}
	return lanes
}
