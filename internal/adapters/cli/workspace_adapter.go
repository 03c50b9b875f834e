package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/taskboard/internal/ports/primary"
)

// WorkspaceAdapter translates user and workspace commands to service calls.
type WorkspaceAdapter struct {
	users      primary.UserService
	workspaces primary.WorkspaceService
	out        io.Writer
}

// NewWorkspaceAdapter creates a new WorkspaceAdapter.
func NewWorkspaceAdapter(users primary.UserService, workspaces primary.WorkspaceService, out io.Writer) *WorkspaceAdapter {
	return &WorkspaceAdapter{users: users, workspaces: workspaces, out: out}
}

// CreateUser registers a user.
func (a *WorkspaceAdapter) CreateUser(ctx context.Context, username, displayName, email string) error {
	u, err := a.users.CreateUser(ctx, primary.CreateUserRequest{Username: username, DisplayName: displayName, Email: email})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created user %s (%s)\n", u.Username, u.ID)
	return nil
}

// ListUsers lists every user.
func (a *WorkspaceAdapter) ListUsers(ctx context.Context) error {
	list, err := a.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-16s %s\n", "ID", "USERNAME", "NAME")
	fmt.Fprintln(a.out, rule)
	for _, u := range list {
		fmt.Fprintf(a.out, "%-38s %-16s %s\n", u.ID, u.Username, u.DisplayName)
	}
	fmt.Fprintln(a.out)
	return nil
}

// CreateWorkspace creates a workspace owned by the acting user.
func (a *WorkspaceAdapter) CreateWorkspace(ctx context.Context, name, slug string) error {
	ws, err := a.workspaces.CreateWorkspace(ctx, primary.CreateWorkspaceRequest{Name: name, Slug: slug})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Created workspace %s (%s)\n", ws.Slug, ws.ID)
	return nil
}

// ListWorkspaces lists the acting user's workspaces.
func (a *WorkspaceAdapter) ListWorkspaces(ctx context.Context) error {
	list, err := a.workspaces.ListWorkspaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No workspaces found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-20s %s\n", "ID", "SLUG", "NAME")
	fmt.Fprintln(a.out, rule)
	for _, ws := range list {
		fmt.Fprintf(a.out, "%-38s %-20s %s\n", ws.ID, ws.Slug, ws.Name)
	}
	fmt.Fprintln(a.out)
	return nil
}

// AddMember adds a user to a workspace.
func (a *WorkspaceAdapter) AddMember(ctx context.Context, workspaceID, userID string) error {
	if err := a.workspaces.AddMember(ctx, workspaceID, userID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Added %s to workspace %s\n", userID, workspaceID)
	return nil
}
