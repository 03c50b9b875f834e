package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/wire"
)

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
		Long:  `Create boards (with their default states, priorities and estimates) and render them as kanban.`,
	}
	cmd.AddCommand(boardCreateCmd())
	cmd.AddCommand(boardListCmd())
	cmd.AddCommand(boardShowCmd())
	cmd.AddCommand(boardKanbanCmd())
	return cmd
}

func boardCreateCmd() *cobra.Command {
	var workspaceID, key, description string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a board",
		Long: `Create a board in a workspace.

This command:
1. Creates the board and makes you its admin
2. Adds the states Backlog, Todo, In-progress, Review and Done
3. Adds the priorities Urgent, High, Medium and Low
4. Adds the estimates 1h, 2h, 4h, 1d, 2d and 4d

Examples:
  taskboard board create "Platform" --workspace <id> --key ENG`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.BoardAdapterWithOutput(cmd.OutOrStdout()).Create(actorContext(cmd), workspaceID, args[0], key, description)
			return err
		},
	}
	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace ID")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Task name prefix (e.g. ENG)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Board description")
	_ = cmd.MarkFlagRequired("workspace")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func boardListCmd() *cobra.Command {
	var workspaceID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List boards of a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.BoardAdapterWithOutput(cmd.OutOrStdout()).List(actorContext(cmd), workspaceID)
		},
	}
	cmd.Flags().StringVarP(&workspaceID, "workspace", "w", "", "Workspace ID")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

func boardShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [board-id]",
		Short: "Show a board's states, priorities, estimates and members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.BoardAdapterWithOutput(cmd.OutOrStdout()).Show(actorContext(cmd), args[0])
			return err
		},
	}
}

func boardKanbanCmd() *cobra.Command {
	var req primary.KanbanRequest

	cmd := &cobra.Command{
		Use:   "kanban [board-id]",
		Short: "Render the board as kanban columns",
		Long: `Render the board's live tasks per state.

--group-by splits the board into swimlanes: assignee, priority, task_type or sprint.
Tasks without a value land in a trailing "No ..." lane.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.BoardID = args[0]
			return wire.BoardAdapterWithOutput(cmd.OutOrStdout()).Kanban(actorContext(cmd), req)
		},
	}
	cmd.Flags().StringVarP(&req.GroupBy, "group-by", "g", "", "Swimlane dimension")
	cmd.Flags().StringVar(&req.ParentID, "parent", "", "Only sub-tasks of this task")
	cmd.Flags().StringSliceVar(&req.Assignees, "assignee", nil, "Filter by assignee IDs")
	cmd.Flags().StringSliceVar(&req.TaskTypes, "type", nil, "Filter by task types")
	cmd.Flags().StringSliceVar(&req.Priorities, "priority", nil, "Filter by priority IDs")
	cmd.Flags().StringSliceVar(&req.Labels, "label", nil, "Filter by label IDs")
	cmd.Flags().StringSliceVar(&req.Estimates, "estimate", nil, "Filter by estimate IDs")
	cmd.Flags().StringSliceVar(&req.Sprints, "sprint", nil, "Filter by sprint IDs")
	return cmd
}

// StateCmd returns the state command
func StateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage board states (columns)",
	}
	cmd.AddCommand(stateListCmd())
	cmd.AddCommand(stateMoveCmd())
	return cmd
}

func stateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [board-id]",
		Short: "List states in display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.BoardAdapterWithOutput(cmd.OutOrStdout()).States(actorContext(cmd), args[0])
		},
	}
}

func stateMoveCmd() *cobra.Command {
	var after, before string

	cmd := &cobra.Command{
		Use:   "move [board-id] [state-id]",
		Short: "Move a state between two neighbours",
		Long: `Move a state. --after names the state it should follow, --before the one it
should precede. Omit both ends to move to the front or back.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.BoardAdapterWithOutput(cmd.OutOrStdout()).MoveState(actorContext(cmd), args[0], args[1], after, before)
		},
	}
	cmd.Flags().StringVar(&after, "after", "", "Previous state ID")
	cmd.Flags().StringVar(&before, "before", "", "Next state ID")
	return cmd
}
