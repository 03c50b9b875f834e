package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/taskboard/internal/core/sprint"
	"github.com/example/taskboard/internal/ports/secondary"
)

// Comment types.
const (
	CommentUpdate   = "update"
	CommentActivity = "activity"
)

// taskOnBoard loads a task and hides tasks of other boards behind ErrNotFound.
func taskOnBoard(ctx context.Context, tasks secondary.TaskRepository, boardID, taskID string) (*secondary.TaskRecord, error) {
	t, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t.BoardID != boardID {
		return nil, notFound("task", taskID)
	}
	return t, nil
}

// stateOnBoard loads a state and hides states of other boards behind ErrNotFound.
func stateOnBoard(ctx context.Context, states secondary.StateRepository, boardID, stateID string) (*secondary.StateRecord, error) {
	st, err := states.GetByID(ctx, stateID)
	if err != nil {
		return nil, err
	}
	if st.BoardID != boardID {
		return nil, notFound("state", stateID)
	}
	return st, nil
}

// snapshotDay formats the calendar day of t for snapshot rows.
func snapshotDay(t time.Time) string {
	return sprint.Day(t).Format(sprint.DateLayout)
}

// writeSnapshot records the task's state for the calendar day of now.
func writeSnapshot(ctx context.Context, snaps secondary.SnapshotRepository, taskID, stateID string, now time.Time) error {
	if err := snaps.Upsert(ctx, &secondary.SnapshotRecord{
		TaskID:    taskID,
		Date:      snapshotDay(now),
		StateID:   stateID,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}
	return nil
}

// writeActivity records a system-generated activity comment.
func writeActivity(ctx context.Context, comments secondary.CommentRepository, taskID, actorID, content string, now time.Time) error {
	if err := comments.Create(ctx, &secondary.CommentRecord{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		AuthorID:    actorID,
		Content:     content,
		CommentType: CommentActivity,
		CreatedAt:   now,
	}); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
