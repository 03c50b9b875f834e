package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/taskboard/internal/ports/primary"
)

// TaskAdapter translates task commands to TaskService and ReorderService calls.
type TaskAdapter struct {
	tasks   primary.TaskService
	reorder primary.ReorderService
	out     io.Writer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(tasks primary.TaskService, reorder primary.ReorderService, out io.Writer) *TaskAdapter {
	return &TaskAdapter{tasks: tasks, reorder: reorder, out: out}
}

// Create creates a task.
func (a *TaskAdapter) Create(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error) {
	t, err := a.tasks.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(a.out, "✓ Created task %s: %s\n", t.Name, t.Summary)
	return t, nil
}

// List lists the live tasks of a board.
func (a *TaskAdapter) List(ctx context.Context, boardID, parentID string) error {
	list, err := a.tasks.ListTasks(ctx, primary.TaskFilters{BoardID: boardID, ParentID: parentID})
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tasks found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-38s %-8s %s\n", "NAME", "ID", "TYPE", "SUMMARY")
	fmt.Fprintln(a.out, rule)
	for _, t := range list {
		fmt.Fprintf(a.out, "%-10s %-38s %-8s %s\n", t.Name, t.ID, t.TaskType, t.Summary)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Move repositions a task between neighbours, optionally into another state.
func (a *TaskAdapter) Move(ctx context.Context, req primary.ReorderTaskRequest) error {
	seq, err := a.reorder.ReorderTask(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Task %s moved (sequence %g)\n", req.TaskID, seq)
	return nil
}

// BulkMove appends tasks to the end of a state in the given order.
func (a *TaskAdapter) BulkMove(ctx context.Context, boardID, stateID string, taskIDs []string) error {
	moved, err := a.reorder.BulkMoveTasks(ctx, primary.BulkMoveTasksRequest{
		BoardID: boardID,
		StateID: stateID,
		TaskIDs: taskIDs,
	})
	if err != nil {
		return err
	}
	for _, t := range moved {
		fmt.Fprintf(a.out, "  %-10s %g\n", t.Name, t.Sequence)
	}
	fmt.Fprintf(a.out, "✓ Moved %d task(s)\n", len(moved))
	return nil
}

// Update applies a partial update and prints the activity line.
func (a *TaskAdapter) Update(ctx context.Context, req primary.UpdateTaskRequest) error {
	resp, err := a.tasks.UpdateTask(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if resp.Log == "" {
		fmt.Fprintf(a.out, "Task %s unchanged\n", resp.Task.Name)
		return nil
	}
	fmt.Fprintf(a.out, "✓ %s %s\n", resp.Task.Name, color.New(color.FgHiBlack).Sprint(resp.Log))
	return nil
}

// Archive archives a task.
func (a *TaskAdapter) Archive(ctx context.Context, boardID, taskID string) error {
	if err := a.tasks.ArchiveTask(ctx, boardID, taskID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Task %s archived\n", taskID)
	return nil
}

// Restore brings an archived task back.
func (a *TaskAdapter) Restore(ctx context.Context, boardID, taskID string) error {
	if err := a.tasks.RestoreTask(ctx, boardID, taskID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Task %s restored\n", taskID)
	return nil
}

// Comment adds a comment to a task.
func (a *TaskAdapter) Comment(ctx context.Context, boardID, taskID, content string) error {
	c, err := a.tasks.AddComment(ctx, primary.AddCommentRequest{BoardID: boardID, TaskID: taskID, Content: content})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Comment %s added\n", c.ID)
	return nil
}

// Comments prints the comments of a task, newest first.
func (a *TaskAdapter) Comments(ctx context.Context, boardID, taskID, commentType string) error {
	list, err := a.tasks.ListComments(ctx, boardID, taskID, commentType)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No comments")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(a.out, "%s %s %s\n",
			color.New(color.FgHiBlack).Sprint(c.CreatedAt.Format("2006-01-02 15:04")),
			color.New(color.FgYellow).Sprintf("[%s]", c.CommentType),
			c.Content)
	}
	return nil
}
