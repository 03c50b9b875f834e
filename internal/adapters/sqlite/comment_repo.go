package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// CommentRepository implements secondary.CommentRepository with SQLite.
type CommentRepository struct {
	db *sql.DB
}

// NewCommentRepository creates a new SQLite comment repository.
func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create persists a new comment.
func (r *CommentRepository) Create(ctx context.Context, c *secondary.CommentRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO task_comments (id, task_id, author_id, content, comment_type, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.TaskID, nullString(c.AuthorID), c.Content, c.CommentType, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// ListForTask retrieves comments of a task, newest first. An empty commentType lists every type.
func (r *CommentRepository) ListForTask(ctx context.Context, taskID, commentType string) ([]*secondary.CommentRecord, error) {
	query := "SELECT id, task_id, author_id, content, comment_type, created_at FROM task_comments WHERE task_id = ?"
	args := []any{taskID}
	if commentType != "" {
		query += " AND comment_type = ?"
		args = append(args, commentType)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var out []*secondary.CommentRecord
	for rows.Next() {
		var (
			authorID  sql.NullString
			createdAt time.Time
		)
		c := &secondary.CommentRecord{}
		if err := rows.Scan(&c.ID, &c.TaskID, &authorID, &c.Content, &c.CommentType, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.AuthorID = authorID.String
		c.CreatedAt = createdAt
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ secondary.CommentRepository = (*CommentRepository)(nil)
