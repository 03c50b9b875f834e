// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is wrapped by repositories when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Transactor runs a unit of work atomically. Repositories called with the
// context passed to fn participate in the same transaction.
type Transactor interface {
	// WithinTx runs fn in a transaction, committing if fn returns nil.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	// OnCommit registers fn to run after the surrounding transaction commits.
	// Outside a transaction fn runs immediately.
	OnCommit(ctx context.Context, fn func(ctx context.Context))
}

// UserRepository defines the secondary port for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *UserRecord) error
	GetByID(ctx context.Context, id string) (*UserRecord, error)
	List(ctx context.Context) ([]*UserRecord, error)
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID          string
	Username    string
	DisplayName string
	Email       string
	CreatedAt   time.Time
}

// WorkspaceRepository defines the secondary port for workspace persistence.
type WorkspaceRepository interface {
	Create(ctx context.Context, ws *WorkspaceRecord) error
	GetByID(ctx context.Context, id string) (*WorkspaceRecord, error)
	ListForUser(ctx context.Context, userID string) ([]*WorkspaceRecord, error)
	AddMember(ctx context.Context, workspaceID, userID, role string) error
	IsMember(ctx context.Context, workspaceID, userID string) (bool, error)
}

// WorkspaceRecord represents a workspace as stored in persistence.
type WorkspaceRecord struct {
	ID        string
	Name      string
	Slug      string
	CreatedBy string
	CreatedAt time.Time
}

// BoardRepository defines the secondary port for board persistence.
type BoardRepository interface {
	Create(ctx context.Context, board *BoardRecord) error
	GetByID(ctx context.Context, id string) (*BoardRecord, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*BoardRecord, error)
	KeyExists(ctx context.Context, workspaceID, key string) (bool, error)

	// NextTaskNumber atomically increments and returns the board's task counter.
	NextTaskNumber(ctx context.Context, boardID string) (int, error)

	AddMember(ctx context.Context, member *MemberRecord) error
	ListMembers(ctx context.Context, boardID string) ([]*MemberRecord, error)
	IsMember(ctx context.Context, boardID, userID string) (bool, error)
}

// BoardRecord represents a board as stored in persistence.
type BoardRecord struct {
	ID          string
	WorkspaceID string
	Name        string
	Key         string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
}

// MemberRecord is a board membership joined with the user's display data.
type MemberRecord struct {
	BoardID     string
	UserID      string
	Role        string
	Username    string
	DisplayName string
}

// StateRepository defines the secondary port for board state (column) persistence.
type StateRepository interface {
	Create(ctx context.Context, state *StateRecord) error
	GetByID(ctx context.Context, id string) (*StateRecord, error)
	ListByBoard(ctx context.Context, boardID string) ([]*StateRecord, error)
	Update(ctx context.Context, state *StateRecord) error
	UpdateSequence(ctx context.Context, id string, sequence float64) error

	// TailSequence returns the largest state sequence on the board, nil if none.
	TailSequence(ctx context.Context, boardID string) (*float64, error)
}

// StateRecord represents a state as stored in persistence.
type StateRecord struct {
	ID          string
	BoardID     string
	Name        string
	Description string
	Category    string
	Sequence    float64
	CreatedAt   time.Time
}

// CatalogRepository holds the small per-board lookup tables.
type CatalogRepository interface {
	CreatePriority(ctx context.Context, p *PriorityRecord) error
	GetPriority(ctx context.Context, id string) (*PriorityRecord, error)
	ListPriorities(ctx context.Context, boardID string) ([]*PriorityRecord, error)
	UpdatePriority(ctx context.Context, p *PriorityRecord) error
	DeletePriority(ctx context.Context, id string) error
	CreateEstimate(ctx context.Context, e *EstimateRecord) error
	ListEstimates(ctx context.Context, boardID string) ([]*EstimateRecord, error)
	CreateLabel(ctx context.Context, l *LabelRecord) error
	ListLabels(ctx context.Context, boardID string) ([]*LabelRecord, error)
}

// PriorityRecord represents a priority as stored in persistence.
type PriorityRecord struct {
	ID       string
	BoardID  string
	Name     string
	Position int
}

// EstimateRecord represents an estimate as stored in persistence.
type EstimateRecord struct {
	ID      string
	BoardID string
	Key     int
	Value   string
}

// LabelRecord represents a label as stored in persistence.
type LabelRecord struct {
	ID      string
	BoardID string
	Name    string
	Color   string
}

// TaskRepository defines the secondary port for task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *TaskRecord) error
	GetByID(ctx context.Context, id string) (*TaskRecord, error)
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)
	Update(ctx context.Context, task *TaskRecord) error

	// UpdatePosition writes the ordering fields only.
	UpdatePosition(ctx context.Context, id, stateID string, sequence float64) error

	// TailSequence returns the largest sequence in a state, archived tasks included; nil if empty.
	TailSequence(ctx context.Context, stateID string) (*float64, error)

	// ListInState returns every task of a state, archived ones included, ordered by sequence.
	ListInState(ctx context.Context, stateID string) ([]*TaskRecord, error)

	SetArchived(ctx context.Context, id string, at *time.Time) error
	SetLabels(ctx context.Context, taskID string, labelIDs []string) error
}

// TaskRecord represents a task as stored in persistence.
type TaskRecord struct {
	ID          string
	BoardID     string
	ParentID    string // Empty string means null
	StateID     string
	PriorityID  string // Empty string means null
	AssigneeID  string // Empty string means null
	SprintID    string // Empty string means null
	EstimateID  string // Empty string means null
	TaskType    string
	Number      int
	Name        string
	Summary     string
	Description string
	Sequence    float64
	LabelIDs    []string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ArchivedAt  *time.Time
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	BoardID         string
	ParentID        string
	IncludeArchived bool
	SprintID        string
	IDs             []string
}

// SnapshotRepository defines the secondary port for per-day task snapshots.
type SnapshotRepository interface {
	// Upsert writes the snapshot for (task, date), overwriting the state of an existing row.
	Upsert(ctx context.Context, snap *SnapshotRecord) error
	ListForTask(ctx context.Context, taskID string) ([]*SnapshotRecord, error)

	// ListForTasks returns snapshots of the given tasks dated on or before `until`,
	// joined with the category of the snapshot state.
	ListForTasks(ctx context.Context, taskIDs []string, until string) ([]*SnapshotRecord, error)
}

// SnapshotRecord represents a task snapshot as stored in persistence.
type SnapshotRecord struct {
	ID            string
	TaskID        string
	Date          string // YYYY-MM-DD
	StateID       string
	StateCategory string // populated on reads
	UpdatedAt     time.Time
}

// CommentRepository defines the secondary port for task comments and activity.
type CommentRepository interface {
	Create(ctx context.Context, c *CommentRecord) error
	ListForTask(ctx context.Context, taskID, commentType string) ([]*CommentRecord, error)
}

// CommentRecord represents a comment as stored in persistence.
type CommentRecord struct {
	ID          string
	TaskID      string
	AuthorID    string
	Content     string
	CommentType string // "update" or "activity"
	CreatedAt   time.Time
}

// SprintRepository defines the secondary port for sprint persistence.
type SprintRepository interface {
	Create(ctx context.Context, s *SprintRecord) error
	GetByID(ctx context.Context, id string) (*SprintRecord, error)
	ListByBoard(ctx context.Context, boardID string, includeArchived bool) ([]*SprintRecord, error)
	DeactivateAll(ctx context.Context, boardID string) error
	SetActive(ctx context.Context, id string, active bool) error
	SetArchived(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}

// SprintRecord represents a sprint as stored in persistence.
type SprintRecord struct {
	ID         string
	BoardID    string
	Name       string
	Goal       string
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
	IsActive   bool
	CreatedAt  time.Time
	ArchivedAt *time.Time
}
