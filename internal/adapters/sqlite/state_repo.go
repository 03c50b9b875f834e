package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// StateRepository implements secondary.StateRepository with SQLite.
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new SQLite state repository.
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

const stateSelectCols = "id, board_id, name, description, category, sequence, created_at"

func scanState(scanner interface {
	Scan(dest ...any) error
}) (*secondary.StateRecord, error) {
	var (
		desc      sql.NullString
		createdAt time.Time
	)
	record := &secondary.StateRecord{}
	err := scanner.Scan(&record.ID, &record.BoardID, &record.Name, &desc, &record.Category, &record.Sequence, &createdAt)
	if err != nil {
		return nil, err
	}
	record.Description = desc.String
	record.CreatedAt = createdAt
	return record, nil
}

// Create persists a new state.
func (r *StateRepository) Create(ctx context.Context, state *secondary.StateRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO states (id, board_id, name, description, category, sequence, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		state.ID, state.BoardID, state.Name, nullString(state.Description), state.Category, state.Sequence, state.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create state: %w", err)
	}
	return nil
}

// GetByID retrieves a state by its ID.
func (r *StateRepository) GetByID(ctx context.Context, id string) (*secondary.StateRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+stateSelectCols+" FROM states WHERE id = ?", id)
	record, err := scanState(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("state %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return record, nil
}

// ListByBoard retrieves the states of a board in display order.
func (r *StateRepository) ListByBoard(ctx context.Context, boardID string) ([]*secondary.StateRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT "+stateSelectCols+" FROM states WHERE board_id = ? ORDER BY sequence ASC, created_at ASC, id ASC", boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	defer rows.Close()

	var states []*secondary.StateRecord
	for rows.Next() {
		record, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		states = append(states, record)
	}
	return states, rows.Err()
}

// Update writes name, description and category.
func (r *StateRepository) Update(ctx context.Context, state *secondary.StateRecord) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE states SET name = ?, description = ?, category = ? WHERE id = ?",
		state.Name, nullString(state.Description), state.Category, state.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("state %s %w", state.ID, secondary.ErrNotFound)
	}
	return nil
}

// UpdateSequence writes the ordering key of a state.
func (r *StateRepository) UpdateSequence(ctx context.Context, id string, sequence float64) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "UPDATE states SET sequence = ? WHERE id = ?", sequence, id)
	if err != nil {
		return fmt.Errorf("failed to update state sequence: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("state %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

// TailSequence returns the largest state sequence on the board, nil if it has none.
func (r *StateRepository) TailSequence(ctx context.Context, boardID string) (*float64, error) {
	var tail sql.NullFloat64
	err := conn(ctx, r.db).QueryRowContext(ctx, "SELECT MAX(sequence) FROM states WHERE board_id = ?", boardID).Scan(&tail)
	if err != nil {
		return nil, fmt.Errorf("failed to read state tail: %w", err)
	}
	if !tail.Valid {
		return nil, nil
	}
	return &tail.Float64, nil
}

var _ secondary.StateRepository = (*StateRepository)(nil)
