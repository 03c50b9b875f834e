package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/wire"
)

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(userCreateCmd())
	cmd.AddCommand(userListCmd())
	return cmd
}

func userCreateCmd() *cobra.Command {
	var displayName, email string

	cmd := &cobra.Command{
		Use:   "create [username]",
		Short: "Register a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.WorkspaceAdapterWithOutput(cmd.OutOrStdout()).CreateUser(actorContext(cmd), args[0], displayName, email)
		},
	}
	cmd.Flags().StringVarP(&displayName, "name", "n", "", "Display name (defaults to the username)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.WorkspaceAdapterWithOutput(cmd.OutOrStdout()).ListUsers(actorContext(cmd))
		},
	}
}

// WorkspaceCmd returns the workspace command
func WorkspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage workspaces",
	}
	cmd.AddCommand(workspaceCreateCmd())
	cmd.AddCommand(workspaceListCmd())
	cmd.AddCommand(workspaceAddMemberCmd())
	return cmd
}

func workspaceCreateCmd() *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a workspace owned by the acting user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.WorkspaceAdapterWithOutput(cmd.OutOrStdout()).CreateWorkspace(actorContext(cmd), args[0], slug)
		},
	}
	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (derived from the name when empty)")
	return cmd
}

func workspaceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the acting user's workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.WorkspaceAdapterWithOutput(cmd.OutOrStdout()).ListWorkspaces(actorContext(cmd))
		},
	}
}

func workspaceAddMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-member [workspace-id] [user-id]",
		Short: "Add a user to a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.WorkspaceAdapterWithOutput(cmd.OutOrStdout()).AddMember(actorContext(cmd), args[0], args[1])
		},
	}
}
