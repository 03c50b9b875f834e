package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/taskboard/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userSelectCols = "id, username, display_name, email, created_at"

func scanUser(scanner interface {
	Scan(dest ...any) error
}) (*secondary.UserRecord, error) {
	var (
		email     sql.NullString
		createdAt time.Time
	)
	record := &secondary.UserRecord{}
	if err := scanner.Scan(&record.ID, &record.Username, &record.DisplayName, &email, &createdAt); err != nil {
		return nil, err
	}
	record.Email = email.String
	record.CreatedAt = createdAt
	return record, nil
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO users (id, username, display_name, email, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Username, user.DisplayName, nullString(user.Email), user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, "SELECT "+userSelectCols+" FROM users WHERE id = ?", id)
	record, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return record, nil
}

// List retrieves every user ordered by username.
func (r *UserRepository) List(ctx context.Context) ([]*secondary.UserRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, "SELECT "+userSelectCols+" FROM users ORDER BY username ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*secondary.UserRecord
	for rows.Next() {
		record, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, record)
	}
	return users, rows.Err()
}

var _ secondary.UserRepository = (*UserRepository)(nil)
