package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// WorkspaceRepository implements secondary.WorkspaceRepository with SQLite.
type WorkspaceRepository struct {
	db *sql.DB
}

// NewWorkspaceRepository creates a new SQLite workspace repository.
func NewWorkspaceRepository(db *sql.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

const workspaceSelectCols = "w.id, w.name, w.slug, w.created_by, w.created_at"

func scanWorkspace(scanner interface {
	Scan(dest ...any) error
}) (*secondary.WorkspaceRecord, error) {
	var createdAt time.Time
	record := &secondary.WorkspaceRecord{}
	if err := scanner.Scan(&record.ID, &record.Name, &record.Slug, &record.CreatedBy, &createdAt); err != nil {
		return nil, err
	}
	record.CreatedAt = createdAt
	return record, nil
}

// Create persists a new workspace.
func (r *WorkspaceRepository) Create(ctx context.Context, ws *secondary.WorkspaceRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO workspaces (id, name, slug, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
		ws.ID, ws.Name, ws.Slug, ws.CreatedBy, ws.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

// GetByID retrieves a workspace by its ID.
func (r *WorkspaceRepository) GetByID(ctx context.Context, id string) (*secondary.WorkspaceRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+workspaceSelectCols+" FROM workspaces w WHERE w.id = ?", id)
	record, err := scanWorkspace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workspace %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return record, nil
}

// ListForUser retrieves the workspaces a user belongs to.
func (r *WorkspaceRepository) ListForUser(ctx context.Context, userID string) ([]*secondary.WorkspaceRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT "+workspaceSelectCols+` FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = ?
		ORDER BY w.name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	defer rows.Close()

	var out []*secondary.WorkspaceRecord
	for rows.Next() {
		record, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// AddMember adds a user to a workspace; an existing membership keeps its row and takes the new role.
func (r *WorkspaceRepository) AddMember(ctx context.Context, workspaceID, userID, role string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role) VALUES (?, ?, ?)
		ON CONFLICT(workspace_id, user_id) DO UPDATE SET role = excluded.role`,
		workspaceID, userID, role,
	)
	if err != nil {
		return fmt.Errorf("failed to add workspace member: %w", err)
	}
	return nil
}

// IsMember reports whether the user belongs to the workspace.
func (r *WorkspaceRepository) IsMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM workspace_members WHERE workspace_id = ? AND user_id = ?",
		workspaceID, userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check workspace membership: %w", err)
	}
	return n > 0, nil
}

var _ secondary.WorkspaceRepository = (*WorkspaceRepository)(nil)
