package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// SprintRepository implements secondary.SprintRepository with SQLite.
type SprintRepository struct {
	db *sql.DB
}

// NewSprintRepository creates a new SQLite sprint repository.
func NewSprintRepository(db *sql.DB) *SprintRepository {
	return &SprintRepository{db: db}
}

const sprintSelectCols = "id, board_id, name, goal, start_date, end_date, is_active, created_at, archived_at"

func scanSprint(scanner interface {
	Scan(dest ...any) error
}) (*secondary.SprintRecord, error) {
	var (
		goal       sql.NullString
		createdAt  time.Time
		archivedAt sql.NullTime
	)
	record := &secondary.SprintRecord{}
	err := scanner.Scan(&record.ID, &record.BoardID, &record.Name, &goal, &record.StartDate, &record.EndDate,
		&record.IsActive, &createdAt, &archivedAt)
	if err != nil {
		return nil, err
	}
	record.Goal = goal.String
	record.CreatedAt = createdAt
	record.ArchivedAt = nullTime(&archivedAt)
	return record, nil
}

// Create persists a new sprint.
func (r *SprintRepository) Create(ctx context.Context, s *secondary.SprintRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO sprints (id, board_id, name, goal, start_date, end_date, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		s.ID, s.BoardID, s.Name, nullString(s.Goal), s.StartDate, s.EndDate, s.IsActive, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sprint: %w", err)
	}
	return nil
}

// GetByID retrieves a sprint by its ID.
func (r *SprintRepository) GetByID(ctx context.Context, id string) (*secondary.SprintRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+sprintSelectCols+" FROM sprints WHERE id = ?", id)
	record, err := scanSprint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sprint %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sprint: %w", err)
	}
	return record, nil
}

// ListByBoard retrieves the sprints of a board, newest first.
func (r *SprintRepository) ListByBoard(ctx context.Context, boardID string, includeArchived bool) ([]*secondary.SprintRecord, error) {
	query := "SELECT " + sprintSelectCols + " FROM sprints WHERE board_id = ?"
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	defer rows.Close()

	var out []*secondary.SprintRecord
	for rows.Next() {
		record, err := scanSprint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sprint: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// DeactivateAll clears the active flag of every sprint on the board.
func (r *SprintRepository) DeactivateAll(ctx context.Context, boardID string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE sprints SET is_active = 0 WHERE board_id = ? AND is_active = 1", boardID)
	if err != nil {
		return fmt.Errorf("failed to deactivate sprints: %w", err)
	}
	return nil
}

// SetActive sets the active flag of a sprint.
func (r *SprintRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE sprints SET is_active = ? WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("failed to update sprint: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("sprint %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

// SetArchived stamps the archive time of a sprint.
func (r *SprintRepository) SetArchived(ctx context.Context, id string, at time.Time) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE sprints SET archived_at = ? WHERE id = ?", at, id)
	if err != nil {
		return fmt.Errorf("failed to archive sprint: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("sprint %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

// Delete removes a sprint. Tasks referencing it lose the reference.
func (r *SprintRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM sprints WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete sprint: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("sprint %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

var _ secondary.SprintRepository = (*SprintRepository)(nil)
