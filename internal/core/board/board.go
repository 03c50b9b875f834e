// Package board contains pure rules for boards: creation guards and the
// default catalogue a new board is provisioned with.
package board

import (
	"fmt"
	"regexp"

	"github.com/example/taskboard/internal/core/sequence"
)

// State categories.
const (
	CategoryOpen      = "open"
	CategoryActive    = "active"
	CategoryCompleted = "completed"
)

// Member roles.
const (
	RoleAdmin        = "admin"
	RoleMaintainer   = "maintainer"
	RoleCollaborator = "collaborator"
	RoleGuest        = "guest"
)

// DefaultState is a state provisioned for every new board.
type DefaultState struct {
	Name     string
	Category string
	Sequence float64
}

// DefaultPriority is a priority provisioned for every new board.
type DefaultPriority struct {
	Name     string
	Position int
}

// DefaultEstimate is an estimate provisioned for every new board.
type DefaultEstimate struct {
	Key   int
	Value string
}

// Catalog is the full set of rows written alongside a new board.
type Catalog struct {
	States     []DefaultState
	Priorities []DefaultPriority
	Estimates  []DefaultEstimate
}

// DefaultCatalog returns the states, priorities and estimates for a new board.
func DefaultCatalog() Catalog {
	names := []struct{ name, category string }{
		{"Backlog", CategoryOpen},
		{"Todo", CategoryOpen},
		{"In-progress", CategoryActive},
		{"Review", CategoryActive},
		{"Done", CategoryCompleted},
	}
	seqs := sequence.Renumber(len(names))
	states := make([]DefaultState, len(names))
	for i, n := range names {
		states[i] = DefaultState{Name: n.name, Category: n.category, Sequence: seqs[i]}
	}

	return Catalog{
		States: states,
		Priorities: []DefaultPriority{
			{Name: "Urgent", Position: 1},
			{Name: "High", Position: 2},
			{Name: "Medium", Position: 3},
			{Name: "Low", Position: 4},
		},
		Estimates: []DefaultEstimate{
			{Key: 1, Value: "1h"},
			{Key: 2, Value: "2h"},
			{Key: 3, Value: "4h"},
			{Key: 4, Value: "1d"},
			{Key: 5, Value: "2d"},
			{Key: 6, Value: "4d"},
		},
	}
}

// IsPending reports whether a state category counts as unfinished work.
func IsPending(category string) bool {
	return category == CategoryOpen || category == CategoryActive
}

// ValidCategory reports whether c is a known state category.
func ValidCategory(c string) bool {
	return c == CategoryOpen || c == CategoryActive || c == CategoryCompleted
}

// ValidRole reports whether r is a known member role.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleMaintainer, RoleCollaborator, RoleGuest:
		return true
	}
	return false
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

// CreateBoardContext provides context for board creation guards.
type CreateBoardContext struct {
	WorkspaceID     string
	WorkspaceExists bool
	ActorID         string
	ActorIsMember   bool
	Name            string
	Key             string
	KeyTaken        bool
}

var keyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,9}$`)

// CanCreateBoard evaluates whether a board can be created.
// Rules:
// - Workspace must exist and the actor must belong to it
// - Name is required
// - Key is 2-10 upper-case alphanumerics and unique in the workspace
func CanCreateBoard(ctx CreateBoardContext) GuardResult {
	if !ctx.WorkspaceExists {
		return GuardResult{Reason: fmt.Sprintf("workspace %s not found", ctx.WorkspaceID)}
	}
	if !ctx.ActorIsMember {
		return GuardResult{Reason: fmt.Sprintf("user %s is not a member of workspace %s", ctx.ActorID, ctx.WorkspaceID)}
	}
	if ctx.Name == "" {
		return GuardResult{Reason: "board name is required"}
	}
	if !keyPattern.MatchString(ctx.Key) {
		return GuardResult{Reason: fmt.Sprintf("invalid board key %q (2-10 upper-case letters or digits)", ctx.Key)}
	}
	if ctx.KeyTaken {
		return GuardResult{Reason: fmt.Sprintf("board key %s is already used in workspace %s", ctx.Key, ctx.WorkspaceID)}
	}
	return GuardResult{Allowed: true}
}

// TaskName formats the human task reference, e.g. WEB-12.
func TaskName(key string, number int) string {
	return fmt.Sprintf("%s-%d", key, number)
}
