package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// BoardRepository implements secondary.BoardRepository with SQLite.
type BoardRepository struct {
	db *sql.DB
}

// NewBoardRepository creates a new SQLite board repository.
func NewBoardRepository(db *sql.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

const boardSelectCols = "id, workspace_id, name, key, description, created_by, created_at"

func scanBoard(scanner interface {
	Scan(dest ...any) error
}) (*secondary.BoardRecord, error) {
	var (
		desc      sql.NullString
		createdAt time.Time
	)
	record := &secondary.BoardRecord{}
	err := scanner.Scan(&record.ID, &record.WorkspaceID, &record.Name, &record.Key, &desc, &record.CreatedBy, &createdAt)
	if err != nil {
		return nil, err
	}
	record.Description = desc.String
	record.CreatedAt = createdAt
	return record, nil
}

// Create persists a new board.
func (r *BoardRepository) Create(ctx context.Context, board *secondary.BoardRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO boards (id, workspace_id, name, key, description, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		board.ID, board.WorkspaceID, board.Name, board.Key, nullString(board.Description), board.CreatedBy, board.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}
	return nil
}

// GetByID retrieves a board by its ID.
func (r *BoardRepository) GetByID(ctx context.Context, id string) (*secondary.BoardRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+boardSelectCols+" FROM boards WHERE id = ?", id)
	record, err := scanBoard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("board %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	return record, nil
}

// ListByWorkspace retrieves the boards of a workspace ordered by name.
func (r *BoardRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*secondary.BoardRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT "+boardSelectCols+" FROM boards WHERE workspace_id = ? ORDER BY name ASC", workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var boards []*secondary.BoardRecord
	for rows.Next() {
		record, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, record)
	}
	return boards, rows.Err()
}

// KeyExists reports whether the key is already used in the workspace.
func (r *BoardRepository) KeyExists(ctx context.Context, workspaceID, key string) (bool, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM boards WHERE workspace_id = ? AND key = ?", workspaceID, key,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check board key: %w", err)
	}
	return n > 0, nil
}

// NextTaskNumber increments the board's task counter and returns the new value.
func (r *BoardRepository) NextTaskNumber(ctx context.Context, boardID string) (int, error) {
	q := conn(ctx, r.db)
	result, err := q.ExecContext(ctx, "UPDATE boards SET task_counter = task_counter + 1 WHERE id = ?", boardID)
	if err != nil {
		return 0, fmt.Errorf("failed to increment task counter: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return 0, fmt.Errorf("board %s %w", boardID, secondary.ErrNotFound)
	}

	var number int
	if err := q.QueryRowContext(ctx, "SELECT task_counter FROM boards WHERE id = ?", boardID).Scan(&number); err != nil {
		return 0, fmt.Errorf("failed to read task counter: %w", err)
	}
	return number, nil
}

// AddMember adds a user to a board, replacing the role of an existing membership.
func (r *BoardRepository) AddMember(ctx context.Context, member *secondary.MemberRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO board_members (board_id, user_id, role) VALUES (?, ?, ?)
		ON CONFLICT(board_id, user_id) DO UPDATE SET role = excluded.role`,
		member.BoardID, member.UserID, member.Role,
	)
	if err != nil {
		return fmt.Errorf("failed to add board member: %w", err)
	}
	return nil
}

// ListMembers retrieves board members joined with their user data, ordered by display name.
func (r *BoardRepository) ListMembers(ctx context.Context, boardID string) ([]*secondary.MemberRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		`SELECT m.board_id, m.user_id, m.role, u.username, u.display_name
		FROM board_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.board_id = ?
		ORDER BY LOWER(u.display_name) ASC, u.id ASC`, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list board members: %w", err)
	}
	defer rows.Close()

	var members []*secondary.MemberRecord
	for rows.Next() {
		m := &secondary.MemberRecord{}
		if err := rows.Scan(&m.BoardID, &m.UserID, &m.Role, &m.Username, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan board member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// IsMember reports whether the user belongs to the board.
func (r *BoardRepository) IsMember(ctx context.Context, boardID, userID string) (bool, error) {
	var n int
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT COUNT(*) FROM board_members WHERE board_id = ? AND user_id = ?", boardID, userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check board membership: %w", err)
	}
	return n > 0, nil
}

var _ secondary.BoardRepository = (*BoardRepository)(nil)
