package primary

import (
	"context"
	"time"
)

// StateService defines the primary port for board state (column) operations.
type StateService interface {
	// CreateState appends a state to the end of the board.
	CreateState(ctx context.Context, req CreateStateRequest) (*State, error)

	// UpdateState changes name, description and/or category.
	UpdateState(ctx context.Context, req UpdateStateRequest) (*State, error)

	// ListStates lists states of a board in display order.
	ListStates(ctx context.Context, boardID string) ([]*State, error)

	// ReorderState moves a state between two neighbours and returns its new sequence.
	ReorderState(ctx context.Context, req ReorderStateRequest) (float64, error)
}

// CreateStateRequest contains parameters for creating a state.
type CreateStateRequest struct {
	BoardID     string `json:"boardId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"` // Optional: defaults to open
}

// UpdateStateRequest contains parameters for updating a state.
// Nil fields are left unchanged.
type UpdateStateRequest struct {
	BoardID     string  `json:"boardId"`
	StateID     string  `json:"stateId"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// ReorderStateRequest contains parameters for moving a state.
type ReorderStateRequest struct {
	BoardID         string `json:"boardId"`
	StateID         string `json:"stateId"`
	PreviousStateID string `json:"previousState"`
	NextStateID     string `json:"nextState"`
}

// State represents a board state at the port boundary.
type State struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"boardId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Sequence    float64   `json:"sequence"`
	CreatedAt   time.Time `json:"createdAt"`
}
