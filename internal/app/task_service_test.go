package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/taskboard/internal/ports/primary"
)

func TestTaskService_CreateTask(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")

	first := f.newTask(t, b.ID, states["Todo"].ID, "  Write the docs  ")
	second := f.newTask(t, b.ID, states["Todo"].ID, "Review the docs")

	if first.Name != "ENG-1" || second.Name != "ENG-2" {
		t.Errorf("expected ENG-1 and ENG-2, got %s and %s", first.Name, second.Name)
	}
	if first.Summary != "Write the docs" {
		t.Errorf("expected trimmed summary, got %q", first.Summary)
	}
	if first.TaskType != "task" {
		t.Errorf("expected default type task, got %q", first.TaskType)
	}
	if first.CreatedBy != f.owner.ID {
		t.Errorf("expected creator %s, got %s", f.owner.ID, first.CreatedBy)
	}
	if first.LabelIDs == nil {
		t.Error("expected empty, non-nil label list")
	}

	snaps := f.snapshotsOf(t, first.ID)
	if len(snaps) != 1 || snaps[0].StateID != states["Todo"].ID {
		t.Errorf("expected creation snapshot in Todo, got %+v", snaps)
	}
	activity := f.activityOf(t, first.ID)
	if len(activity) != 1 || activity[0].Content != "created the task." {
		t.Errorf("unexpected creation activity: %+v", activity)
	}
}

func TestTaskService_CreateTask_Validation(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	_, otherStates := f.newBoard(t, "OPS")
	outsider, err := f.userSvc.CreateUser(context.Background(), primary.CreateUserRequest{Username: "grace"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	todo := states["Todo"].ID
	tests := []struct {
		name string
		req  primary.CreateTaskRequest
	}{
		{"empty summary", primary.CreateTaskRequest{BoardID: b.ID, StateID: todo, Summary: "   "}},
		{"unknown type", primary.CreateTaskRequest{BoardID: b.ID, StateID: todo, Summary: "x", TaskType: "chore"}},
		{"unknown state", primary.CreateTaskRequest{BoardID: b.ID, StateID: "ghost", Summary: "x"}},
		{"state of another board", primary.CreateTaskRequest{BoardID: b.ID, StateID: otherStates["Todo"].ID, Summary: "x"}},
		{"unknown priority", primary.CreateTaskRequest{BoardID: b.ID, StateID: todo, Summary: "x", PriorityID: "ghost"}},
		{"assignee not a member", primary.CreateTaskRequest{BoardID: b.ID, StateID: todo, Summary: "x", AssigneeID: outsider.ID}},
		{"unknown sprint", primary.CreateTaskRequest{BoardID: b.ID, StateID: todo, Summary: "x", SprintID: "ghost"}},
		{"unknown estimate", primary.CreateTaskRequest{BoardID: b.ID, StateID: todo, Summary: "x", EstimateID: "ghost"}},
		{"unknown parent", primary.CreateTaskRequest{BoardID: b.ID, StateID: todo, Summary: "x", ParentID: "ghost"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.taskSvc.CreateTask(f.ctx(), tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}

	_, err = f.taskSvc.CreateTask(f.ctx(), primary.CreateTaskRequest{BoardID: "ghost", StateID: todo, Summary: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown board, got %v", err)
	}

	// Rejected creates do not consume task numbers.
	created := f.newTask(t, b.ID, todo, "valid")
	if created.Number != 1 {
		t.Errorf("expected number 1, got %d", created.Number)
	}
}

func TestTaskService_UpdateTask_CombinedActivity(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	task := f.newTask(t, b.ID, states["Todo"].ID, "draft")

	priorities, err := f.catalog.ListPriorities(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("ListPriorities failed: %v", err)
	}
	high := priorities[1]

	f.advance(time.Minute)
	resp, err := f.taskSvc.UpdateTask(f.ctx(), primary.UpdateTaskRequest{
		BoardID:    b.ID,
		TaskID:     task.ID,
		Summary:    strPtr("final"),
		PriorityID: strPtr(high.ID),
		AssigneeID: strPtr(f.owner.ID),
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	want := "updated the summary, set the priority to High, assigned the task to Ada Lovelace."
	if resp.Log != want {
		t.Errorf("log = %q, want %q", resp.Log, want)
	}
	if resp.Task.Summary != "final" || resp.Task.PriorityID != high.ID || resp.Task.AssigneeID != f.owner.ID {
		t.Errorf("unexpected task: %+v", resp.Task)
	}
	if resp.Task.Sequence != task.Sequence {
		t.Errorf("update must not move the task, sequence %v -> %v", task.Sequence, resp.Task.Sequence)
	}

	activity := f.activityOf(t, task.ID)
	if len(activity) != 2 || activity[0].Content != want {
		t.Errorf("expected one combined activity entry, got %+v", activity)
	}

	f.advance(time.Minute)
	resp, err = f.taskSvc.UpdateTask(f.ctx(), primary.UpdateTaskRequest{
		BoardID:    b.ID,
		TaskID:     task.ID,
		PriorityID: strPtr(""),
		AssigneeID: strPtr(""),
		TaskType:   strPtr("bug"),
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	want = "changed the type to Bug, removed the priority, unassigned the task."
	if resp.Log != want {
		t.Errorf("log = %q, want %q", resp.Log, want)
	}
}

func TestTaskService_UpdateTask_StateChangeWritesSnapshot(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	task := f.newTask(t, b.ID, states["Todo"].ID, "move me")

	f.advance(24 * time.Hour)
	resp, err := f.taskSvc.UpdateTask(f.ctx(), primary.UpdateTaskRequest{
		BoardID: b.ID,
		TaskID:  task.ID,
		StateID: strPtr(states["Review"].ID),
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if resp.Log != "changed the state to Review." {
		t.Errorf("unexpected log %q", resp.Log)
	}

	snaps := f.snapshotsOf(t, task.ID)
	if len(snaps) != 2 || snaps[1].StateID != states["Review"].ID {
		t.Errorf("expected a next-day snapshot in Review, got %+v", snaps)
	}
}

func TestTaskService_UpdateTask_NoChanges(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	task := f.newTask(t, b.ID, states["Todo"].ID, "same")

	resp, err := f.taskSvc.UpdateTask(f.ctx(), primary.UpdateTaskRequest{
		BoardID: b.ID,
		TaskID:  task.ID,
		Summary: strPtr(" same "),
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if resp.Log != "" {
		t.Errorf("expected no log, got %q", resp.Log)
	}
	if n := len(f.activityOf(t, task.ID)); n != 1 {
		t.Errorf("expected no new activity, got %d entries", n)
	}
}

func TestTaskService_UpdateTask_Labels(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	task := f.newTask(t, b.ID, states["Todo"].ID, "labelled")

	bug, err := f.boardSvc.CreateLabel(f.ctx(), primary.CreateLabelRequest{BoardID: b.ID, Name: "bug", Color: "#f00"})
	if err != nil {
		t.Fatalf("CreateLabel failed: %v", err)
	}

	resp, err := f.taskSvc.UpdateTask(f.ctx(), primary.UpdateTaskRequest{
		BoardID:  b.ID,
		TaskID:   task.ID,
		LabelIDs: &[]string{bug.ID, bug.ID},
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if resp.Log != "updated the labels." {
		t.Errorf("unexpected log %q", resp.Log)
	}
	if got := f.reload(t, task.ID).LabelIDs; len(got) != 1 || got[0] != bug.ID {
		t.Errorf("expected labels [%s], got %v", bug.ID, got)
	}

	_, err = f.taskSvc.UpdateTask(f.ctx(), primary.UpdateTaskRequest{
		BoardID:  b.ID,
		TaskID:   task.ID,
		LabelIDs: &[]string{"ghost"},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for an unknown label, got %v", err)
	}
}

func TestTaskService_ArchiveRestore(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	task := f.newTask(t, b.ID, states["Todo"].ID, "temporary")

	if err := f.taskSvc.ArchiveTask(f.ctx(), b.ID, task.ID); err != nil {
		t.Fatalf("ArchiveTask failed: %v", err)
	}
	tasks, err := f.taskSvc.ListTasks(f.ctx(), primary.TaskFilters{BoardID: b.ID})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("archived task must not be listed, got %d", len(tasks))
	}

	var verr *ValidationError
	if err := f.taskSvc.ArchiveTask(f.ctx(), b.ID, task.ID); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError archiving twice, got %v", err)
	}

	f.advance(time.Minute)
	if err := f.taskSvc.RestoreTask(f.ctx(), b.ID, task.ID); err != nil {
		t.Fatalf("RestoreTask failed: %v", err)
	}
	if err := f.taskSvc.RestoreTask(f.ctx(), b.ID, task.ID); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError restoring a live task, got %v", err)
	}

	activity := f.activityOf(t, task.ID)
	if len(activity) != 3 || activity[0].Content != "restored the task." {
		t.Errorf("unexpected activity: %+v", activity)
	}
}

func TestTaskService_RestoreDoesNotTie(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	todo, done := states["Todo"], states["Done"]

	f.newTask(t, b.ID, todo.ID, "a")
	shelved := f.newTask(t, b.ID, todo.ID, "shelved")
	if err := f.taskSvc.ArchiveTask(f.ctx(), b.ID, shelved.ID); err != nil {
		t.Fatalf("ArchiveTask failed: %v", err)
	}

	created := f.newTask(t, b.ID, todo.ID, "c")
	if created.Sequence != 30000 {
		t.Errorf("expected the new task after the archived one (30000), got %v", created.Sequence)
	}

	stray := f.newTask(t, b.ID, done.ID, "stray")
	moved, err := f.reorderSvc.BulkMoveTasks(f.ctx(), primary.BulkMoveTasksRequest{BoardID: b.ID, StateID: todo.ID, TaskIDs: []string{stray.ID}})
	if err != nil {
		t.Fatalf("BulkMoveTasks failed: %v", err)
	}
	if moved[0].Sequence != 40000 {
		t.Errorf("expected the bulk-moved task at 40000, got %v", moved[0].Sequence)
	}

	if err := f.taskSvc.RestoreTask(f.ctx(), b.ID, shelved.ID); err != nil {
		t.Fatalf("RestoreTask failed: %v", err)
	}
	tasks, err := f.taskSvc.ListTasks(f.ctx(), primary.TaskFilters{BoardID: b.ID})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	seen := make(map[float64]string)
	for _, task := range tasks {
		if task.StateID != todo.ID {
			continue
		}
		if other, ok := seen[task.Sequence]; ok {
			t.Errorf("%s and %s share sequence %v", other, task.Summary, task.Sequence)
		}
		seen[task.Sequence] = task.Summary
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct sequences in Todo, got %v", seen)
	}
}

func TestTaskService_Kanban_Columns(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")

	a := f.newTask(t, b.ID, states["Todo"].ID, "a")
	c := f.newTask(t, b.ID, states["Todo"].ID, "c")
	d := f.newTask(t, b.ID, states["Done"].ID, "d")
	if _, err := f.reorderSvc.ReorderTask(f.ctx(), primary.ReorderTaskRequest{BoardID: b.ID, TaskID: c.ID, NextTaskID: a.ID}); err != nil {
		t.Fatalf("ReorderTask failed: %v", err)
	}

	board, err := f.taskSvc.Kanban(f.ctx(), primary.KanbanRequest{BoardID: b.ID})
	if err != nil {
		t.Fatalf("Kanban failed: %v", err)
	}
	if board.Lanes != nil {
		t.Errorf("ungrouped kanban must not have lanes")
	}

	names := make([]string, len(board.Columns))
	for i, col := range board.Columns {
		names[i] = col.State.Name
	}
	wantNames := []string{"Backlog", "Todo", "In-progress", "Review", "Done"}
	for i := range wantNames {
		if names[i] != wantNames[i] {
			t.Fatalf("columns = %v, want %v", names, wantNames)
		}
	}

	todo := board.Columns[1].Tasks
	if len(todo) != 2 || todo[0].ID != c.ID || todo[1].ID != a.ID {
		t.Errorf("expected Todo = [c a], got %v", todo)
	}
	if len(board.Columns[0].Tasks) != 0 || board.Columns[0].Tasks == nil {
		t.Errorf("empty columns must carry an empty task list")
	}
	if done := board.Columns[4].Tasks; len(done) != 1 || done[0].ID != d.ID {
		t.Errorf("expected Done = [d], got %v", done)
	}
}

func TestTaskService_Kanban_GroupByPriority(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	todo := states["Todo"].ID

	priorities, err := f.catalog.ListPriorities(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("ListPriorities failed: %v", err)
	}
	urgent := priorities[0]

	hot, err := f.taskSvc.CreateTask(f.ctx(), primary.CreateTaskRequest{BoardID: b.ID, StateID: todo, Summary: "hot", PriorityID: urgent.ID})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	plain := f.newTask(t, b.ID, todo, "plain")

	board, err := f.taskSvc.Kanban(f.ctx(), primary.KanbanRequest{BoardID: b.ID, GroupBy: "priority"})
	if err != nil {
		t.Fatalf("Kanban failed: %v", err)
	}
	if board.GroupBy != "priority" {
		t.Errorf("expected groupBy priority, got %q", board.GroupBy)
	}
	if len(board.Lanes) != 5 {
		t.Fatalf("expected 4 priority lanes plus the none lane, got %d", len(board.Lanes))
	}

	first, last := board.Lanes[0], board.Lanes[4]
	if first.Label != "Urgent" || first.GroupKey != urgent.ID {
		t.Errorf("expected Urgent lane first, got %+v", first)
	}
	if !last.None || last.GroupKey != "no_priority" {
		t.Errorf("expected trailing none lane, got %+v", last)
	}
	if tasks := first.States[1].Tasks; len(tasks) != 1 || tasks[0].ID != hot.ID {
		t.Errorf("expected hot task in the Urgent lane, got %v", tasks)
	}
	if tasks := last.States[1].Tasks; len(tasks) != 1 || tasks[0].ID != plain.ID {
		t.Errorf("expected plain task in the none lane, got %v", tasks)
	}
}

func TestTaskService_Kanban_GroupBySprintKeepsArchivedSprints(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	todo := states["Todo"].ID

	old, err := f.sprintSvc.CreateSprint(f.ctx(), primary.CreateSprintRequest{
		BoardID: b.ID, Name: "Old", StartDate: "2024-02-19", EndDate: "2024-03-01",
	})
	if err != nil {
		t.Fatalf("CreateSprint failed: %v", err)
	}
	leftover, err := f.taskSvc.CreateTask(f.ctx(), primary.CreateTaskRequest{BoardID: b.ID, StateID: todo, Summary: "leftover", SprintID: old.ID})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if err := f.sprintSvc.ArchiveSprint(f.ctx(), b.ID, old.ID); err != nil {
		t.Fatalf("ArchiveSprint failed: %v", err)
	}

	board, err := f.taskSvc.Kanban(f.ctx(), primary.KanbanRequest{BoardID: b.ID, GroupBy: "sprint"})
	if err != nil {
		t.Fatalf("Kanban failed: %v", err)
	}
	if len(board.Lanes) != 2 {
		t.Fatalf("expected the archived sprint lane plus the none lane, got %d", len(board.Lanes))
	}
	lane, none := board.Lanes[0], board.Lanes[1]
	if lane.GroupKey != old.ID || lane.Label != "Old" {
		t.Errorf("expected the Old sprint lane first, got %+v", lane)
	}
	if tasks := lane.States[1].Tasks; len(tasks) != 1 || tasks[0].ID != leftover.ID {
		t.Errorf("expected leftover in its sprint lane, got %v", tasks)
	}
	if tasks := none.States[1].Tasks; len(tasks) != 0 {
		t.Errorf("expected an empty none lane, got %v", tasks)
	}
}

func TestTaskService_Kanban_FiltersAndUnknownGroup(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	todo := states["Todo"].ID

	bug, err := f.taskSvc.CreateTask(f.ctx(), primary.CreateTaskRequest{BoardID: b.ID, StateID: todo, Summary: "bug", TaskType: "bug"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	f.newTask(t, b.ID, todo, "task")

	board, err := f.taskSvc.Kanban(f.ctx(), primary.KanbanRequest{BoardID: b.ID, TaskTypes: []string{"bug"}})
	if err != nil {
		t.Fatalf("Kanban failed: %v", err)
	}
	if tasks := board.Columns[1].Tasks; len(tasks) != 1 || tasks[0].ID != bug.ID {
		t.Errorf("expected only the bug, got %v", tasks)
	}

	_, err = f.taskSvc.Kanban(f.ctx(), primary.KanbanRequest{BoardID: b.ID, GroupBy: "color"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for unknown group, got %v", err)
	}
}

func TestTaskService_Comments(t *testing.T) {
	f := newFixture(t)
	b, states := f.newBoard(t, "ENG")
	task := f.newTask(t, b.ID, states["Todo"].ID, "discuss")

	f.advance(time.Minute)
	c, err := f.taskSvc.AddComment(f.ctx(), primary.AddCommentRequest{BoardID: b.ID, TaskID: task.ID, Content: "looks good"})
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if c.CommentType != CommentUpdate || c.AuthorID != f.owner.ID {
		t.Errorf("unexpected comment: %+v", c)
	}

	tests := []struct {
		filter string
		want   int
	}{
		{"", 2},
		{"all", 2},
		{"update", 1},
		{"activity", 1},
	}
	for _, tt := range tests {
		t.Run("filter "+tt.filter, func(t *testing.T) {
			got, err := f.taskSvc.ListComments(f.ctx(), b.ID, task.ID, tt.filter)
			if err != nil {
				t.Fatalf("ListComments failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d comments, got %d", tt.want, len(got))
			}
		})
	}

	var verr *ValidationError
	if _, err := f.taskSvc.ListComments(f.ctx(), b.ID, task.ID, "mentions"); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for unknown type, got %v", err)
	}
	if _, err := f.taskSvc.AddComment(f.ctx(), primary.AddCommentRequest{BoardID: b.ID, TaskID: task.ID, Content: " "}); !errors.As(err, &verr) {
		t.Errorf("expected ValidationError for empty content, got %v", err)
	}
}
