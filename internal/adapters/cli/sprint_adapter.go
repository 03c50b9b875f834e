package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/taskboard/internal/ports/primary"
)

// SprintAdapter translates sprint commands to SprintService calls.
type SprintAdapter struct {
	service primary.SprintService
	out     io.Writer
}

// NewSprintAdapter creates a new SprintAdapter.
func NewSprintAdapter(service primary.SprintService, out io.Writer) *SprintAdapter {
	return &SprintAdapter{service: service, out: out}
}

// Create creates a sprint.
func (a *SprintAdapter) Create(ctx context.Context, req primary.CreateSprintRequest) error {
	sp, err := a.service.CreateSprint(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created sprint %s (%s): %s → %s\n", sp.Name, sp.ID, sp.StartDate, sp.EndDate)
	return nil
}

// List lists the board's sprints, newest first.
func (a *SprintAdapter) List(ctx context.Context, boardID string) error {
	list, err := a.service.ListSprints(ctx, boardID)
	if err != nil {
		return fmt.Errorf("failed to list sprints: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No sprints found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-20s %-10s %-10s\n", "ID", "NAME", "START", "END")
	fmt.Fprintln(a.out, rule)
	for _, sp := range list {
		marker := ""
		if sp.IsActive {
			marker = color.New(color.FgHiGreen).Sprint(" [active]")
		}
		fmt.Fprintf(a.out, "%-38s %-20s %-10s %-10s%s\n", sp.ID, sp.Name, sp.StartDate, sp.EndDate, marker)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Activate makes a sprint the board's active one.
func (a *SprintAdapter) Activate(ctx context.Context, boardID, sprintID string) error {
	sp, err := a.service.ActivateSprint(ctx, boardID, sprintID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Sprint %s is now active\n", sp.Name)
	return nil
}

// Burndown prints the per-day total and pending counts with a bar per day.
func (a *SprintAdapter) Burndown(ctx context.Context, boardID, sprintID string) error {
	bd, err := a.service.Burndown(ctx, boardID, sprintID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%-10s %6s %8s\n", "DATE", "TOTAL", "PENDING")
	fmt.Fprintln(a.out, rule)
	for i, day := range bd.Labels {
		bar := color.New(color.FgYellow).Sprint(strings.Repeat("█", bd.PendingTasks[i]))
		fmt.Fprintf(a.out, "%-10s %6d %8d  %s\n", day, bd.TotalTasks[i], bd.PendingTasks[i], bar)
	}
	fmt.Fprintln(a.out)
	return nil
}
