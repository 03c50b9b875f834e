package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/taskboard/internal/ports/secondary"
)

// CatalogRepository implements secondary.CatalogRepository with SQLite.
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new SQLite catalog repository.
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CreatePriority persists a new priority.
func (r *CatalogRepository) CreatePriority(ctx context.Context, p *secondary.PriorityRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO priorities (id, board_id, name, position) VALUES (?, ?, ?, ?)",
		p.ID, p.BoardID, p.Name, p.Position,
	)
	if err != nil {
		return fmt.Errorf("failed to create priority: %w", err)
	}
	return nil
}

// ListPriorities retrieves the priorities of a board by position.
func (r *CatalogRepository) ListPriorities(ctx context.Context, boardID string) ([]*secondary.PriorityRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, board_id, name, position FROM priorities WHERE board_id = ? ORDER BY position ASC, id ASC", boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list priorities: %w", err)
	}
	defer rows.Close()

	var out []*secondary.PriorityRecord
	for rows.Next() {
		p := &secondary.PriorityRecord{}
		if err := rows.Scan(&p.ID, &p.BoardID, &p.Name, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan priority: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetPriority retrieves a priority by its ID.
func (r *CatalogRepository) GetPriority(ctx context.Context, id string) (*secondary.PriorityRecord, error) {
	p := &secondary.PriorityRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, board_id, name, position FROM priorities WHERE id = ?", id,
	).Scan(&p.ID, &p.BoardID, &p.Name, &p.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("priority %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get priority: %w", err)
	}
	return p, nil
}

// UpdatePriority writes name and position.
func (r *CatalogRepository) UpdatePriority(ctx context.Context, p *secondary.PriorityRecord) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE priorities SET name = ?, position = ? WHERE id = ?", p.Name, p.Position, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update priority: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("priority %s %w", p.ID, secondary.ErrNotFound)
	}
	return nil
}

// DeletePriority removes a priority. Tasks referencing it are cleared by the foreign key.
func (r *CatalogRepository) DeletePriority(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM priorities WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete priority: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("priority %s %w", id, secondary.ErrNotFound)
	}
	return nil
}

// CreateEstimate persists a new estimate.
func (r *CatalogRepository) CreateEstimate(ctx context.Context, e *secondary.EstimateRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO estimates (id, board_id, key, value) VALUES (?, ?, ?, ?)",
		e.ID, e.BoardID, e.Key, e.Value,
	)
	if err != nil {
		return fmt.Errorf("failed to create estimate: %w", err)
	}
	return nil
}

// ListEstimates retrieves the estimates of a board by key.
func (r *CatalogRepository) ListEstimates(ctx context.Context, boardID string) ([]*secondary.EstimateRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, board_id, key, value FROM estimates WHERE board_id = ? ORDER BY key ASC, id ASC", boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list estimates: %w", err)
	}
	defer rows.Close()

	var out []*secondary.EstimateRecord
	for rows.Next() {
		e := &secondary.EstimateRecord{}
		if err := rows.Scan(&e.ID, &e.BoardID, &e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("failed to scan estimate: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateLabel persists a new label.
func (r *CatalogRepository) CreateLabel(ctx context.Context, l *secondary.LabelRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO labels (id, board_id, name, color) VALUES (?, ?, ?, ?)",
		l.ID, l.BoardID, l.Name, nullString(l.Color),
	)
	if err != nil {
		return fmt.Errorf("failed to create label: %w", err)
	}
	return nil
}

// ListLabels retrieves the labels of a board by name.
func (r *CatalogRepository) ListLabels(ctx context.Context, boardID string) ([]*secondary.LabelRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, board_id, name, color FROM labels WHERE board_id = ? ORDER BY name ASC", boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	defer rows.Close()

	var out []*secondary.LabelRecord
	for rows.Next() {
		var color sql.NullString
		l := &secondary.LabelRecord{}
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Name, &color); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		l.Color = color.String
		out = append(out, l)
	}
	return out, rows.Err()
}

var _ secondary.CatalogRepository = (*CatalogRepository)(nil)
