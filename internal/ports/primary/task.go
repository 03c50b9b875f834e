package primary

import (
	"context"
	"time"
)

// TaskService defines the primary port for task operations.
type TaskService interface {
	// CreateTask creates a task at the end of its state.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error)

	// GetTask retrieves a task by ID within a board.
	GetTask(ctx context.Context, boardID, taskID string) (*Task, error)

	// ListTasks lists live tasks ordered by sequence.
	ListTasks(ctx context.Context, filters TaskFilters) ([]*Task, error)

	// UpdateTask applies a partial update and records one activity comment.
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*UpdateTaskResponse, error)

	// ArchiveTask hides a task from listings.
	ArchiveTask(ctx context.Context, boardID, taskID string) error

	// RestoreTask brings an archived task back.
	RestoreTask(ctx context.Context, boardID, taskID string) error

	// Kanban projects the board's tasks into columns and optional swimlanes.
	Kanban(ctx context.Context, req KanbanRequest) (*Kanban, error)

	// AddComment adds a user comment to a task.
	AddComment(ctx context.Context, req AddCommentRequest) (*Comment, error)

	// ListComments lists comments of a task, newest first.
	ListComments(ctx context.Context, boardID, taskID, commentType string) ([]*Comment, error)
}

// ReorderService defines the primary port for ordering and grouping changes.
type ReorderService interface {
	// ReorderTask positions a task between two neighbours, optionally in a new state,
	// and returns the new sequence.
	ReorderTask(ctx context.Context, req ReorderTaskRequest) (float64, error)

	// BulkMoveTasks appends tasks to the end of a state in the given order.
	BulkMoveTasks(ctx context.Context, req BulkMoveTasksRequest) ([]*Task, error)
}

// CreateTaskRequest contains parameters for creating a task.
type CreateTaskRequest struct {
	BoardID     string `json:"boardId"`
	ParentID    string `json:"parentId"`   // Optional
	StateID     string `json:"stateId"`
	PriorityID  string `json:"priorityId"` // Optional
	AssigneeID  string `json:"assigneeId"` // Optional
	SprintID    string `json:"sprintId"`   // Optional
	EstimateID  string `json:"estimateId"` // Optional
	TaskType    string `json:"taskType"`   // task, bug, story, epic
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

// UpdateTaskRequest contains parameters for a partial task update.
// Nil pointers are left unchanged; a pointer to "" clears an optional reference.
type UpdateTaskRequest struct {
	BoardID     string    `json:"boardId"`
	TaskID      string    `json:"taskId"`
	Summary     *string   `json:"summary"`
	Description *string   `json:"description"`
	TaskType    *string   `json:"taskType"`
	StateID     *string   `json:"stateId"`
	PriorityID  *string   `json:"priorityId"`
	AssigneeID  *string   `json:"assigneeId"`
	SprintID    *string   `json:"sprintId"`
	EstimateID  *string   `json:"estimateId"`
	LabelIDs    *[]string `json:"labelIds"`
}

// UpdateTaskResponse contains the updated task and the activity line written.
type UpdateTaskResponse struct {
	Task *Task  `json:"task"`
	Log  string `json:"log"`
}

// ReorderTaskRequest contains parameters for repositioning a task.
type ReorderTaskRequest struct {
	BoardID        string `json:"boardId"`
	TaskID         string `json:"taskId"`
	StateID        string `json:"stateId"`
	PreviousTaskID string `json:"previousTask"`
	NextTaskID     string `json:"nextTask"`
}

// BulkMoveTasksRequest contains parameters for moving several tasks into one state.
type BulkMoveTasksRequest struct {
	BoardID string   `json:"boardId"`
	StateID string   `json:"stateId"`
	TaskIDs []string `json:"taskIds"`
}

// KanbanRequest contains parameters for the kanban projection.
type KanbanRequest struct {
	BoardID    string   `json:"boardId"`
	ParentID   string   `json:"parentId"`
	GroupBy    string   `json:"groupBy"`
	Assignees  []string `json:"assignees"`
	TaskTypes  []string `json:"taskTypes"`
	Priorities []string `json:"priorities"`
	Labels     []string `json:"labels"`
	Estimates  []string `json:"estimates"`
	Sprints    []string `json:"sprints"`
}

// AddCommentRequest contains parameters for adding a comment.
type AddCommentRequest struct {
	BoardID string `json:"boardId"`
	TaskID  string `json:"taskId"`
	Content string `json:"content"`
}

// Task represents a task at the port boundary.
type Task struct {
	ID          string     `json:"id"`
	BoardID     string     `json:"boardId"`
	ParentID    string     `json:"parentId,omitempty"`
	StateID     string     `json:"stateId"`
	PriorityID  string     `json:"priorityId,omitempty"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	SprintID    string     `json:"sprintId,omitempty"`
	EstimateID  string     `json:"estimateId,omitempty"`
	TaskType    string     `json:"taskType"`
	Number      int        `json:"number"`
	Name        string     `json:"name"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	Sequence    float64    `json:"sequence"`
	LabelIDs    []string   `json:"labelIds"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	BoardID  string
	ParentID string
}

// Comment represents a task comment or activity entry.
type Comment struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	AuthorID    string    `json:"authorId"`
	Content     string    `json:"content"`
	CommentType string    `json:"commentType"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Kanban is the projected board ready for rendering.
type Kanban struct {
	GroupBy string          `json:"groupBy,omitempty"`
	Columns []*KanbanColumn `json:"columns,omitempty"`
	Lanes   []*KanbanLane   `json:"lanes,omitempty"`
}

// KanbanColumn is a state and its ordered tasks.
type KanbanColumn struct {
	State *State  `json:"state"`
	Tasks []*Task `json:"tasks"`
}

// KanbanLane is one swimlane of a grouped kanban.
type KanbanLane struct {
	GroupKey string          `json:"groupKey"`
	Label    string          `json:"label,omitempty"`
	None     bool            `json:"none,omitempty"`
	States   []*KanbanColumn `json:"states"`
}
