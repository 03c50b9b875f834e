// Package cli implements the taskboard command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/config"
	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/version"
)

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "taskboard",
		Short:   "Taskboard - boards, states and fractionally ordered tasks",
		Version: version.String(),
		Long: `Taskboard manages workspaces, kanban boards, tasks and sprints.
Run "taskboard serve" for the REST API or use the subcommands directly.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("as", "", "Acting user ID (defaults to $"+config.EnvActor+")")

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(UserCmd())
	rootCmd.AddCommand(WorkspaceCmd())
	rootCmd.AddCommand(BoardCmd())
	rootCmd.AddCommand(StateCmd())
	rootCmd.AddCommand(TaskCmd())
	rootCmd.AddCommand(SprintCmd())
	rootCmd.AddCommand(TokenCmd())
	rootCmd.AddCommand(VersionCmd())

	return rootCmd
}

// actorContext returns the command context carrying the acting user from
// --as or TASKBOARD_ACTOR.
func actorContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	actor := ""
	if f := cmd.Flag("as"); f != nil {
		actor = f.Value.String()
	}
	if actor == "" {
		actor = os.Getenv(config.EnvActor)
	}
	return ctxutil.WithActorID(ctx, actor)
}

// VersionCmd prints build information.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
