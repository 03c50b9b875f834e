// Package task contains the pure business logic for task operations.
// Guards are pure functions that evaluate preconditions without side effects.
package task

import (
	"fmt"
	"slices"
)

// Task types in their canonical display order.
const (
	TypeTask  = "task"
	TypeBug   = "bug"
	TypeStory = "story"
	TypeEpic  = "epic"
)

// Types lists every task type in display order.
var Types = []string{TypeTask, TypeBug, TypeStory, TypeEpic}

var typeLabels = map[string]string{
	TypeTask:  "Task",
	TypeBug:   "Bug",
	TypeStory: "Story",
	TypeEpic:  "Epic",
}

// TypeLabel returns the human label for a task type.
func TypeLabel(t string) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return t
}

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

// CreateTaskContext provides context for task creation guards.
type CreateTaskContext struct {
	BoardID        string
	Summary        string
	TaskType       string
	StateID        string
	StateExists    bool
	PriorityID     string // optional
	PriorityExists bool
	AssigneeID     string // optional
	AssigneeMember bool
	SprintID       string // optional
	SprintExists   bool
}

// NeighborContext describes a neighbour referenced by a reorder request.
type NeighborContext struct {
	Role          string // "previous" or "next"
	ID            string
	Exists        bool
	BoardID       string
	StateID       string
	TargetBoardID string
	TargetStateID string
}

// ArchiveTaskContext provides context for archive/restore guards.
type ArchiveTaskContext struct {
	TaskID   string
	Archived bool
}

// CanCreateTask evaluates whether a task can be created.
// Rules:
// - Summary must not be empty
// - Task type must be known
// - State must exist on the board
// - Priority, assignee and sprint must belong to the board when given
func CanCreateTask(ctx CreateTaskContext) GuardResult {
	if ctx.Summary == "" {
		return GuardResult{Reason: "task summary is required"}
	}

	if !ValidType(ctx.TaskType) {
		return GuardResult{Reason: fmt.Sprintf("unknown task type %q", ctx.TaskType)}
	}

	if !ctx.StateExists {
		return GuardResult{Reason: fmt.Sprintf("state %s not found on board %s", ctx.StateID, ctx.BoardID)}
	}

	if ctx.PriorityID != "" && !ctx.PriorityExists {
		return GuardResult{Reason: fmt.Sprintf("priority %s not found on board %s", ctx.PriorityID, ctx.BoardID)}
	}

	if ctx.AssigneeID != "" && !ctx.AssigneeMember {
		return GuardResult{Reason: fmt.Sprintf("user %s is not a member of board %s", ctx.AssigneeID, ctx.BoardID)}
	}

	if ctx.SprintID != "" && !ctx.SprintExists {
		return GuardResult{Reason: fmt.Sprintf("sprint %s not found on board %s", ctx.SprintID, ctx.BoardID)}
	}

	return GuardResult{Allowed: true}
}

// CanUseNeighbor evaluates whether a neighbour can anchor a reorder.
// Rules:
// - Neighbour must exist
// - Neighbour must be on the same board
// - Neighbour must already sit in the destination state
func CanUseNeighbor(ctx NeighborContext) GuardResult {
	if !ctx.Exists {
		return GuardResult{Reason: fmt.Sprintf("%s task %s not found", ctx.Role, ctx.ID)}
	}

	if ctx.BoardID != ctx.TargetBoardID {
		return GuardResult{Reason: fmt.Sprintf("%s task %s belongs to another board", ctx.Role, ctx.ID)}
	}

	if ctx.StateID != ctx.TargetStateID {
		return GuardResult{Reason: fmt.Sprintf("%s task %s is not in state %s", ctx.Role, ctx.ID, ctx.TargetStateID)}
	}

	return GuardResult{Allowed: true}
}

// CanArchiveTask evaluates whether a task can be archived.
func CanArchiveTask(ctx ArchiveTaskContext) GuardResult {
	if ctx.Archived {
		return GuardResult{Reason: fmt.Sprintf("task %s is already archived", ctx.TaskID)}
	}
	return GuardResult{Allowed: true}
}

// CanRestoreTask evaluates whether a task can be restored.
func CanRestoreTask(ctx ArchiveTaskContext) GuardResult {
	if !ctx.Archived {
		return GuardResult{Reason: fmt.Sprintf("task %s is not archived", ctx.TaskID)}
	}
	return GuardResult{Allowed: true}
}

// CanMoveTask evaluates whether a task can be repositioned or change state.
// Archived tasks stay where they were archived until restored.
func CanMoveTask(ctx ArchiveTaskContext) GuardResult {
	if ctx.Archived {
		return GuardResult{Reason: fmt.Sprintf("task %s is archived and cannot be moved", ctx.TaskID)}
	}
	return GuardResult{Allowed: true}
}

// ValidType reports whether t is a known task type.
func ValidType(t string) bool {
	return slices.Contains(Types, t)
}
