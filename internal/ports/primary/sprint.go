package primary

import (
	"context"
	"time"
)

// SprintService defines the primary port for sprint operations.
type SprintService interface {
	// CreateSprint creates a sprint, optionally making it the active one.
	CreateSprint(ctx context.Context, req CreateSprintRequest) (*Sprint, error)

	// ListSprints lists non-archived sprints of a board, newest first.
	ListSprints(ctx context.Context, boardID string) ([]*Sprint, error)

	// ActivateSprint makes a sprint the board's only active sprint.
	ActivateSprint(ctx context.Context, boardID, sprintID string) (*Sprint, error)

	// ArchiveSprint archives an inactive sprint.
	ArchiveSprint(ctx context.Context, boardID, sprintID string) error

	// DeleteSprint deletes an inactive sprint.
	DeleteSprint(ctx context.Context, boardID, sprintID string) error

	// Burndown computes the per-day total/pending series for a sprint.
	Burndown(ctx context.Context, boardID, sprintID string) (*Burndown, error)
}

// CreateSprintRequest contains parameters for creating a sprint.
type CreateSprintRequest struct {
	BoardID   string `json:"boardId"`
	Name      string `json:"name"`
	Goal      string `json:"goal"`
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD
	IsActive  bool   `json:"isActive"`
}

// Sprint represents a sprint at the port boundary.
type Sprint struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"boardId"`
	Name      string    `json:"name"`
	Goal      string    `json:"goal,omitempty"`
	StartDate string    `json:"startDate"`
	EndDate   string    `json:"endDate"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Burndown is a chart-ready series.
type Burndown struct {
	SprintID     string   `json:"sprintId"`
	Labels       []string `json:"labels"`
	PendingTasks []int    `json:"pendingTasks"`
	TotalTasks   []int    `json:"totalTasks"`
}
