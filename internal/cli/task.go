package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/wire"
)

// TaskCmd returns the task command
func TaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
		Long:  `Create, order, move and update tasks on a board.`,
	}
	cmd.AddCommand(taskCreateCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskMoveCmd())
	cmd.AddCommand(taskBulkMoveCmd())
	cmd.AddCommand(taskUpdateCmd())
	cmd.AddCommand(taskArchiveCmd())
	cmd.AddCommand(taskRestoreCmd())
	cmd.AddCommand(taskCommentCmd())
	cmd.AddCommand(taskCommentsCmd())
	return cmd
}

func taskCreateCmd() *cobra.Command {
	var req primary.CreateTaskRequest

	cmd := &cobra.Command{
		Use:   "create [board-id] [summary]",
		Short: "Create a task at the end of a state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.BoardID = args[0]
			req.Summary = args[1]
			_, err := wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Create(actorContext(cmd), req)
			return err
		},
	}
	cmd.Flags().StringVarP(&req.StateID, "state", "s", "", "State ID")
	cmd.Flags().StringVarP(&req.TaskType, "type", "t", "", "task, bug, story or epic (default task)")
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&req.PriorityID, "priority", "", "Priority ID")
	cmd.Flags().StringVar(&req.AssigneeID, "assignee", "", "Assignee user ID")
	cmd.Flags().StringVar(&req.SprintID, "sprint", "", "Sprint ID")
	cmd.Flags().StringVar(&req.EstimateID, "estimate", "", "Estimate ID")
	cmd.Flags().StringVar(&req.ParentID, "parent", "", "Parent task ID")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

func taskListCmd() *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "list [board-id]",
		Short: "List live tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).List(actorContext(cmd), args[0], parentID)
		},
	}
	cmd.Flags().StringVar(&parentID, "parent", "", "Only sub-tasks of this task")
	return cmd
}

func taskMoveCmd() *cobra.Command {
	var req primary.ReorderTaskRequest

	cmd := &cobra.Command{
		Use:   "move [board-id] [task-id]",
		Short: "Move a task between two neighbours",
		Long: `Reposition a task, optionally in another state.

Examples:
  taskboard task move <board> <task> --after <task-a> --before <task-b>
  taskboard task move <board> <task> --state <done-state>`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.BoardID = args[0]
			req.TaskID = args[1]
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Move(actorContext(cmd), req)
		},
	}
	cmd.Flags().StringVarP(&req.StateID, "state", "s", "", "Destination state ID (default: current)")
	cmd.Flags().StringVar(&req.PreviousTaskID, "after", "", "Previous task ID")
	cmd.Flags().StringVar(&req.NextTaskID, "before", "", "Next task ID")
	return cmd
}

func taskBulkMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk-move [board-id] [state-id] [task-id...]",
		Short: "Append tasks to the end of a state in the given order",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).BulkMove(actorContext(cmd), args[0], args[1], args[2:])
		},
	}
}

func taskUpdateCmd() *cobra.Command {
	var summary, description, taskType, stateID, priorityID, assigneeID, sprintID, estimateID string
	var labels []string

	cmd := &cobra.Command{
		Use:   "update [board-id] [task-id]",
		Short: "Update task fields",
		Long: `Update only the fields whose flags are given. An empty value clears an
optional reference (e.g. --assignee "").`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := primary.UpdateTaskRequest{BoardID: args[0], TaskID: args[1]}
			set := func(flag string, v *string) *string {
				if cmd.Flags().Changed(flag) {
					return v
				}
				return nil
			}
			req.Summary = set("summary", &summary)
			req.Description = set("description", &description)
			req.TaskType = set("type", &taskType)
			req.StateID = set("state", &stateID)
			req.PriorityID = set("priority", &priorityID)
			req.AssigneeID = set("assignee", &assigneeID)
			req.SprintID = set("sprint", &sprintID)
			req.EstimateID = set("estimate", &estimateID)
			if cmd.Flags().Changed("labels") {
				req.LabelIDs = &labels
			}
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Update(actorContext(cmd), req)
		},
	}
	cmd.Flags().StringVar(&summary, "summary", "", "New summary")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&taskType, "type", "t", "", "New type")
	cmd.Flags().StringVarP(&stateID, "state", "s", "", "New state ID")
	cmd.Flags().StringVar(&priorityID, "priority", "", "Priority ID")
	cmd.Flags().StringVar(&assigneeID, "assignee", "", "Assignee user ID")
	cmd.Flags().StringVar(&sprintID, "sprint", "", "Sprint ID")
	cmd.Flags().StringVar(&estimateID, "estimate", "", "Estimate ID")
	cmd.Flags().StringSliceVar(&labels, "labels", nil, "Replace labels (comma-separated IDs)")
	return cmd
}

func taskArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive [board-id] [task-id]",
		Short: "Archive a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Archive(actorContext(cmd), args[0], args[1])
		},
	}
}

func taskRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore [board-id] [task-id]",
		Short: "Restore an archived task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Restore(actorContext(cmd), args[0], args[1])
		},
	}
}

func taskCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment [board-id] [task-id] [text]",
		Short: "Comment on a task",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Comment(actorContext(cmd), args[0], args[1], args[2])
		},
	}
}

func taskCommentsCmd() *cobra.Command {
	var commentType string

	cmd := &cobra.Command{
		Use:   "comments [board-id] [task-id]",
		Short: "List comments and activity, newest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.TaskAdapterWithOutput(cmd.OutOrStdout()).Comments(actorContext(cmd), args[0], args[1], commentType)
		},
	}
	cmd.Flags().StringVar(&commentType, "type", "", "user or activity (default both)")
	return cmd
}
