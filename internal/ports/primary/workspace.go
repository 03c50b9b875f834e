// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
// The acting user is carried on the context (see ctxutil).
package primary

import (
	"context"
	"time"
)

// UserService defines the primary port for user operations.
type UserService interface {
	// CreateUser registers a new user.
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*User, error)

	// ListUsers lists every user.
	ListUsers(ctx context.Context) ([]*User, error)
}

// CreateUserRequest contains parameters for creating a user.
type CreateUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// User represents a user at the port boundary.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WorkspaceService defines the primary port for workspace operations.
type WorkspaceService interface {
	// CreateWorkspace creates a workspace owned by the acting user.
	CreateWorkspace(ctx context.Context, req CreateWorkspaceRequest) (*Workspace, error)

	// GetWorkspace retrieves a workspace by ID.
	GetWorkspace(ctx context.Context, workspaceID string) (*Workspace, error)

	// ListWorkspaces lists workspaces the acting user belongs to.
	ListWorkspaces(ctx context.Context) ([]*Workspace, error)

	// AddMember adds a user to a workspace.
	AddMember(ctx context.Context, workspaceID, userID string) error
}

// CreateWorkspaceRequest contains parameters for creating a workspace.
type CreateWorkspaceRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Workspace represents a workspace at the port boundary.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}
