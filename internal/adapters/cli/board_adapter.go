// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/taskboard/internal/core/board"
	"github.com/example/taskboard/internal/core/task"
	"github.com/example/taskboard/internal/ports/primary"
)

const rule = "────────────────────────────────────────────────────────────────"

// BoardAdapter translates board, state and kanban commands to service calls.
type BoardAdapter struct {
	boards primary.BoardService
	states primary.StateService
	tasks  primary.TaskService
	out    io.Writer
}

// NewBoardAdapter creates a new BoardAdapter.
func NewBoardAdapter(boards primary.BoardService, states primary.StateService, tasks primary.TaskService, out io.Writer) *BoardAdapter {
	return &BoardAdapter{boards: boards, states: states, tasks: tasks, out: out}
}

// Create provisions a board in a workspace.
func (a *BoardAdapter) Create(ctx context.Context, workspaceID, name, key, description string) (*primary.Board, error) {
	b, err := a.boards.CreateBoard(ctx, primary.CreateBoardRequest{
		WorkspaceID: workspaceID,
		Name:        name,
		Key:         key,
		Description: description,
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Created board %s (%s): %s\n", b.Key, b.ID, b.Name)
	return b, nil
}

// List lists the boards of a workspace.
func (a *BoardAdapter) List(ctx context.Context, workspaceID string) error {
	list, err := a.boards.ListBoards(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("failed to list boards: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No boards found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-10s %s\n", "ID", "KEY", "NAME")
	fmt.Fprintln(a.out, rule)
	for _, b := range list {
		fmt.Fprintf(a.out, "%-38s %-10s %s\n", b.ID, b.Key, b.Name)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show prints a board's catalogue.
func (a *BoardAdapter) Show(ctx context.Context, boardID string) (*primary.BoardMetadata, error) {
	meta, err := a.boards.GetMetadata(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	fmt.Fprintf(a.out, "\nBoard: %s (%s)\n", meta.Board.Name, meta.Board.Key)
	if meta.Board.Description != "" {
		fmt.Fprintf(a.out, "Description: %s\n", meta.Board.Description)
	}

	fmt.Fprintln(a.out, "\nStates:")
	for _, st := range meta.States {
		fmt.Fprintf(a.out, "  %s %s\n", categoryColor(st.Category).Sprintf("%-14s", st.Name), color.New(color.FgHiBlack).Sprintf("[%s]", st.Category))
	}

	names := make([]string, len(meta.Priorities))
	for i, p := range meta.Priorities {
		names[i] = p.Name
	}
	fmt.Fprintf(a.out, "Priorities: %s\n", strings.Join(names, ", "))

	names = make([]string, len(meta.Estimates))
	for i, e := range meta.Estimates {
		names[i] = e.Value
	}
	fmt.Fprintf(a.out, "Estimates:  %s\n", strings.Join(names, ", "))

	if len(meta.Labels) > 0 {
		names = make([]string, len(meta.Labels))
		for i, l := range meta.Labels {
			names[i] = l.Name
		}
		fmt.Fprintf(a.out, "Labels:     %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintln(a.out, "Members:")
	for _, m := range meta.Members {
		fmt.Fprintf(a.out, "  %-20s %s\n", m.DisplayName, m.Role)
	}
	fmt.Fprintln(a.out)
	return meta, nil
}

// States lists board states in display order.
func (a *BoardAdapter) States(ctx context.Context, boardID string) error {
	list, err := a.states.ListStates(ctx, boardID)
	if err != nil {
		return fmt.Errorf("failed to list states: %w", err)
	}

	fmt.Fprintf(a.out, "\n%-38s %-14s %-10s %s\n", "ID", "NAME", "CATEGORY", "SEQUENCE")
	fmt.Fprintln(a.out, rule)
	for _, st := range list {
		fmt.Fprintf(a.out, "%-38s %-14s %-10s %g\n", st.ID, st.Name, st.Category, st.Sequence)
	}
	fmt.Fprintln(a.out)
	return nil
}

// MoveState repositions a state between two neighbours.
func (a *BoardAdapter) MoveState(ctx context.Context, boardID, stateID, previousID, nextID string) error {
	seq, err := a.states.ReorderState(ctx, primary.ReorderStateRequest{
		BoardID:         boardID,
		StateID:         stateID,
		PreviousStateID: previousID,
		NextStateID:     nextID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ State %s moved (sequence %g)\n", stateID, seq)
	return nil
}

// Kanban renders the board as columns, or as swimlanes when groupBy is set.
func (a *BoardAdapter) Kanban(ctx context.Context, req primary.KanbanRequest) error {
	kb, err := a.tasks.Kanban(ctx, req)
	if err != nil {
		return err
	}

	if kb.GroupBy == "" {
		a.writeColumns(kb.Columns, "")
		return nil
	}

	for _, lane := range kb.Lanes {
		label := lane.Label
		if lane.None {
			label = "No " + strings.ReplaceAll(kb.GroupBy, "_", " ")
		}
		count := 0
		for _, col := range lane.States {
			count += len(col.Tasks)
		}
		fmt.Fprintf(a.out, "\n%s %s\n", color.New(color.Bold).Sprintf("━━ %s", label), color.New(color.FgHiBlack).Sprintf("(%d)", count))
		a.writeColumns(lane.States, "  ")
	}
	fmt.Fprintln(a.out)
	return nil
}

func (a *BoardAdapter) writeColumns(cols []*primary.KanbanColumn, indent string) {
	for _, col := range cols {
		fmt.Fprintf(a.out, "%s%s %d\n", indent, categoryColor(col.State.Category).Sprintf("▌ %s", col.State.Name), len(col.Tasks))
		for _, t := range col.Tasks {
			fmt.Fprintf(a.out, "%s  %s %s %s\n", indent, color.New(color.FgCyan).Sprintf("%-10s", t.Name), typeMarker(t.TaskType), t.Summary)
		}
	}
}

func categoryColor(category string) *color.Color {
	switch category {
	case board.CategoryActive:
		return color.New(color.FgYellow)
	case board.CategoryCompleted:
		return color.New(color.FgHiGreen)
	default:
		return color.New(color.FgHiBlue)
	}
}

func typeMarker(taskType string) string {
	label := "[" + task.TypeLabel(taskType) + "]"
	switch taskType {
	case task.TypeBug:
		return color.New(color.FgRed).Sprint(label)
	case task.TypeStory:
		return color.New(color.FgHiMagenta).Sprint(label)
	case task.TypeEpic:
		return color.New(color.FgHiYellow).Sprint(label)
	default:
		return color.New(color.FgWhite).Sprint(label)
	}
}
