package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/adapters/api"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/wire"
)

// SprintCmd returns the sprint command
func SprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Manage sprints",
	}
	cmd.AddCommand(sprintCreateCmd())
	cmd.AddCommand(sprintListCmd())
	cmd.AddCommand(sprintActivateCmd())
	cmd.AddCommand(sprintBurndownCmd())
	return cmd
}

func sprintCreateCmd() *cobra.Command {
	var req primary.CreateSprintRequest

	cmd := &cobra.Command{
		Use:   "create [board-id] [name]",
		Short: "Create a sprint",
		Long: `Create a sprint. Dates use YYYY-MM-DD. --active makes it the board's only
active sprint.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.BoardID = args[0]
			req.Name = args[1]
			return wire.SprintAdapterWithOutput(cmd.OutOrStdout()).Create(actorContext(cmd), req)
		},
	}
	cmd.Flags().StringVar(&req.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Goal, "goal", "", "Sprint goal")
	cmd.Flags().BoolVar(&req.IsActive, "active", false, "Make this the active sprint")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func sprintListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [board-id]",
		Short: "List sprints, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SprintAdapterWithOutput(cmd.OutOrStdout()).List(actorContext(cmd), args[0])
		},
	}
}

func sprintActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate [board-id] [sprint-id]",
		Short: "Make a sprint the active one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SprintAdapterWithOutput(cmd.OutOrStdout()).Activate(actorContext(cmd), args[0], args[1])
		},
	}
}

func sprintBurndownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "burndown [board-id] [sprint-id]",
		Short: "Print the sprint's daily total and pending tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SprintAdapterWithOutput(cmd.OutOrStdout()).Burndown(actorContext(cmd), args[0], args[1])
		},
	}
}

// TokenCmd returns the token command
func TokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token [user-id]",
		Short: "Issue an API bearer token for a user",
		Long:  `Sign an HS256 token with the configured jwt_secret. Requires TASKBOARD_JWT_SECRET or jwt_secret in config.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := api.NewAuth(wire.Config().JWTSecret).IssueToken(args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime (0 for no expiry)")
	return cmd
}
