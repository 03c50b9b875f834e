package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// scanTask scans a task row into a TaskRecord.
func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskRecord, error) {
	var (
		parentID   sql.NullString
		priorityID sql.NullString
		assigneeID sql.NullString
		sprintID   sql.NullString
		estimateID sql.NullString
		desc       sql.NullString
		createdAt  time.Time
		updatedAt  time.Time
		archivedAt sql.NullTime
	)

	record := &secondary.TaskRecord{}
	err := scanner.Scan(
		&record.ID, &record.BoardID, &parentID, &record.StateID, &priorityID, &assigneeID, &sprintID, &estimateID,
		&record.TaskType, &record.Number, &record.Name, &record.Summary, &desc, &record.Sequence,
		&record.CreatedBy, &createdAt, &updatedAt, &archivedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ParentID = parentID.String
	record.PriorityID = priorityID.String
	record.AssigneeID = assigneeID.String
	record.SprintID = sprintID.String
	record.EstimateID = estimateID.String
	record.Description = desc.String
	record.CreatedAt = createdAt
	record.UpdatedAt = updatedAt
	record.ArchivedAt = nullTime(&archivedAt)
	record.LabelIDs = []string{}

	return record, nil
}

const taskSelectCols = "id, board_id, parent_id, state_id, priority_id, assignee_id, sprint_id, estimate_id, task_type, number, name, summary, description, sequence, created_by, created_at, updated_at, archived_at"

const taskOrder = " ORDER BY sequence ASC, created_at ASC, id ASC"

// Create persists a new task and its labels.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	q := conn(ctx, r.db)
	_, err := q.ExecContext(ctx,
		`INSERT INTO tasks (id, board_id, parent_id, state_id, priority_id, assignee_id, sprint_id, estimate_id,
			task_type, number, name, summary, description, sequence, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.BoardID, nullString(task.ParentID), task.StateID,
		nullString(task.PriorityID), nullString(task.AssigneeID), nullString(task.SprintID), nullString(task.EstimateID),
		task.TaskType, task.Number, task.Name, task.Summary, nullString(task.Description), task.Sequence,
		task.CreatedBy, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if len(task.LabelIDs) > 0 {
		return r.SetLabels(ctx, task.ID, task.LabelIDs)
	}
	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	q := conn(ctx, r.db)
	row := q.QueryRowContext(ctx, "SELECT "+taskSelectCols+" FROM tasks WHERE id = ?", id)

	record, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := loadLabels(ctx, q, []*secondary.TaskRecord{record}); err != nil {
		return nil, err
	}
	return record, nil
}

// List retrieves tasks matching the given filters, ordered by sequence.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	query := "SELECT " + taskSelectCols + " FROM tasks WHERE 1=1"
	args := []any{}

	if filters.BoardID != "" {
		query += " AND board_id = ?"
		args = append(args, filters.BoardID)
	}
	if filters.ParentID != "" {
		query += " AND parent_id = ?"
		args = append(args, filters.ParentID)
	}
	if filters.SprintID != "" {
		query += " AND sprint_id = ?"
		args = append(args, filters.SprintID)
	}
	if len(filters.IDs) > 0 {
		query += " AND id IN (" + placeholders(len(filters.IDs)) + ")"
		for _, id := range filters.IDs {
			args = append(args, id)
		}
	}
	if !filters.IncludeArchived {
		query += " AND archived_at IS NULL"
	}
	query += taskOrder

	return r.query(ctx, query, args...)
}

// ListInState returns every task of a state, archived ones included, ordered by sequence.
func (r *TaskRepository) ListInState(ctx context.Context, stateID string) ([]*secondary.TaskRecord, error) {
	return r.query(ctx, "SELECT "+taskSelectCols+" FROM tasks WHERE state_id = ?"+taskOrder, stateID)
}

func (r *TaskRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.TaskRecord, error) {
	q := conn(ctx, r.db)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	// Close before the label query: a single-connection pool cannot serve both.
	rows.Close()

	if err := loadLabels(ctx, q, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update writes every mutable field of a task.
func (r *TaskRepository) Update(ctx context.Context, task *secondary.TaskRecord) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE tasks SET parent_id = ?, state_id = ?, priority_id = ?, assignee_id = ?, sprint_id = ?, estimate_id = ?,
			task_type = ?, summary = ?, description = ?, sequence = ?, updated_at = ?
		WHERE id = ?`,
		nullString(task.ParentID), task.StateID,
		nullString(task.PriorityID), nullString(task.AssigneeID), nullString(task.SprintID), nullString(task.EstimateID),
		task.TaskType, task.Summary, nullString(task.Description), task.Sequence, task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s %w", task.ID, secondary.ErrNotFound)
	}
	return nil
}

// UpdatePosition writes the ordering fields of a task.
func (r *TaskRepository) UpdatePosition(ctx context.Context, id, stateID string, sequence float64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE tasks SET state_id = ?, sequence = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		stateID, sequence, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task position: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

// TailSequence returns the largest sequence in a state, nil if the state is empty.
// Archived tasks count so that a restored task never ties with a newer one.
func (r *TaskRepository) TailSequence(ctx context.Context, stateID string) (*float64, error) {
	var tail sql.NullFloat64
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT MAX(sequence) FROM tasks WHERE state_id = ?", stateID,
	).Scan(&tail)
	if err != nil {
		return nil, fmt.Errorf("failed to read task tail: %w", err)
	}
	if !tail.Valid {
		return nil, nil
	}
	return &tail.Float64, nil
}

// SetArchived sets or clears the archive timestamp.
func (r *TaskRepository) SetArchived(ctx context.Context, id string, at *time.Time) error {
	var archivedAt sql.NullTime
	if at != nil {
		archivedAt = sql.NullTime{Time: *at, Valid: true}
	}
	result, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE tasks SET archived_at = ? WHERE id = ?", archivedAt, id)
	if err != nil {
		return fmt.Errorf("failed to archive task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("task %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

// SetLabels replaces the label set of a task.
func (r *TaskRepository) SetLabels(ctx context.Context, taskID string, labelIDs []string) error {
	q := conn(ctx, r.db)
	if _, err := q.ExecContext(ctx, "DELETE FROM task_labels WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("failed to clear task labels: %w", err)
	}
	for _, labelID := range labelIDs {
		_, err := q.ExecContext(ctx,
			"INSERT OR IGNORE INTO task_labels (task_id, label_id) VALUES (?, ?)", taskID, labelID)
		if err != nil {
			return fmt.Errorf("failed to add task label: %w", err)
		}
	}
	return nil
}

func loadLabels(ctx context.Context, q querier, tasks []*secondary.TaskRecord) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[string]*secondary.TaskRecord, len(tasks))
	args := make([]any, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		args = append(args, t.ID)
	}

	rows, err := q.QueryContext(ctx,
		"SELECT task_id, label_id FROM task_labels WHERE task_id IN ("+placeholders(len(args))+") ORDER BY label_id ASC",
		args...)
	if err != nil {
		return fmt.Errorf("failed to load task labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, labelID string
		if err := rows.Scan(&taskID, &labelID); err != nil {
			return fmt.Errorf("failed to scan task label: %w", err)
		}
		if t, ok := byID[taskID]; ok {
			t.LabelIDs = append(t.LabelIDs, labelID)
		}
	}
	return rows.Err()
}

var _ secondary.TaskRepository = (*TaskRepository)(nil)
