package primary

import (
	"context"
	"time"
)

// BoardService defines the primary port for board operations.
type BoardService interface {
	// CreateBoard creates a board with its admin membership and default catalogue.
	CreateBoard(ctx context.Context, req CreateBoardRequest) (*Board, error)

	// GetBoard retrieves a board by ID.
	GetBoard(ctx context.Context, boardID string) (*Board, error)

	// ListBoards lists boards of a workspace.
	ListBoards(ctx context.Context, workspaceID string) ([]*Board, error)

	// AddMember adds a user to a board with a role.
	AddMember(ctx context.Context, req AddMemberRequest) error

	// ListMembers lists board members.
	ListMembers(ctx context.Context, boardID string) ([]*Member, error)

	// GetMetadata returns the board catalogue (states, priorities, estimates, labels, sprints, members).
	GetMetadata(ctx context.Context, boardID string) (*BoardMetadata, error)

	// CreateLabel adds a label to a board.
	CreateLabel(ctx context.Context, req CreateLabelRequest) (*Label, error)

	// ListPriorities lists the board's priorities by position.
	ListPriorities(ctx context.Context, boardID string) ([]*Priority, error)

	// CreatePriority appends a priority after the board's last one.
	CreatePriority(ctx context.Context, req CreatePriorityRequest) (*Priority, error)

	// UpdatePriority renames or repositions a priority.
	UpdatePriority(ctx context.Context, req UpdatePriorityRequest) (*Priority, error)

	// DeletePriority removes a priority. Tasks using it lose their priority.
	DeletePriority(ctx context.Context, boardID, priorityID string) error
}

// CreateBoardRequest contains parameters for creating a board.
type CreateBoardRequest struct {
	WorkspaceID string `json:"workspaceId"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

// AddMemberRequest contains parameters for adding a board member.
type AddMemberRequest struct {
	BoardID string `json:"boardId"`
	UserID  string `json:"userId"`
	Role    string `json:"role"`
}

// CreateLabelRequest contains parameters for creating a label.
type CreateLabelRequest struct {
	BoardID string `json:"boardId"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}

// CreatePriorityRequest contains parameters for creating a priority.
type CreatePriorityRequest struct {
	BoardID string `json:"boardId"`
	Name    string `json:"name"`
}

// UpdatePriorityRequest contains the fields to change on a priority.
// Nil fields are left untouched.
type UpdatePriorityRequest struct {
	BoardID    string  `json:"boardId"`
	PriorityID string  `json:"priorityId"`
	Name       *string `json:"name"`
	Position   *int    `json:"position"`
}

// Board represents a board at the port boundary.
type Board struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	Key         string    `json:"key"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Member represents a board member.
type Member struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// Priority represents a board priority.
type Priority struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Estimate represents a board estimate.
type Estimate struct {
	ID    string `json:"id"`
	Key   int    `json:"key"`
	Value string `json:"value"`
}

// Label represents a board label.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// BoardMetadata is the catalogue a client needs to render a board.
type BoardMetadata struct {
	Board      *Board      `json:"board"`
	States     []*State    `json:"states"`
	Priorities []*Priority `json:"priorities"`
	Estimates  []*Estimate `json:"estimates"`
	Labels     []*Label    `json:"labels"`
	Sprints    []*Sprint   `json:"sprints"`
	Members    []*Member   `json:"members"`
}
