package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/taskboard/internal/ports/secondary"
)

// SnapshotRepository implements secondary.SnapshotRepository with SQLite.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SQLite snapshot repository.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Upsert writes the snapshot for (task, date). An existing row for the same
// day keeps its ID and takes the new state.
func (r *SnapshotRepository) Upsert(ctx context.Context, snap *secondary.SnapshotRecord) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}

	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO task_snapshots (id, task_id, date, state_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id, date) DO UPDATE SET
			state_id = excluded.state_id,
			updated_at = excluded.updated_at`,
		snap.ID, snap.TaskID, snap.Date, snap.StateID, snap.UpdatedAt, snap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert task snapshot: %w", err)
	}
	return nil
}

const snapshotSelect = `SELECT s.id, s.task_id, s.date, s.state_id, st.category, s.updated_at
	FROM task_snapshots s
	JOIN states st ON st.id = s.state_id`

func scanSnapshots(rows *sql.Rows) ([]*secondary.SnapshotRecord, error) {
	defer rows.Close()

	var out []*secondary.SnapshotRecord
	for rows.Next() {
		var updatedAt time.Time
		s := &secondary.SnapshotRecord{}
		if err := rows.Scan(&s.ID, &s.TaskID, &s.Date, &s.StateID, &s.StateCategory, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task snapshot: %w", err)
		}
		s.UpdatedAt = updatedAt
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListForTask retrieves every snapshot of a task by date.
func (r *SnapshotRepository) ListForTask(ctx context.Context, taskID string) ([]*secondary.SnapshotRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, snapshotSelect+" WHERE s.task_id = ? ORDER BY s.date ASC", taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list task snapshots: %w", err)
	}
	return scanSnapshots(rows)
}

// ListForTasks retrieves snapshots of the given tasks dated on or before until.
func (r *SnapshotRepository) ListForTasks(ctx context.Context, taskIDs []string, until string) ([]*secondary.SnapshotRecord, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(taskIDs)+1)
	for _, id := range taskIDs {
		args = append(args, id)
	}
	args = append(args, until)

	rows, err := conn(ctx, r.db).QueryContext(ctx,
		snapshotSelect+" WHERE s.task_id IN ("+placeholders(len(taskIDs))+") AND s.date <= ? ORDER BY s.task_id ASC, s.date ASC",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list task snapshots: %w", err)
	}
	return scanSnapshots(rows)
}

var _ secondary.SnapshotRepository = (*SnapshotRepository)(nil)
