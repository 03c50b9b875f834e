package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/taskboard/internal/ports/primary"
)

func newTestBoardAdapter(boards *mockBoardService, states *mockStateService, tasks *mockTaskService) (*BoardAdapter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewBoardAdapter(boards, states, tasks, &buf), &buf
}

func TestBoardAdapter_Create(t *testing.T) {
	boards := &mockBoardService{}
	adapter, buf := newTestBoardAdapter(boards, &mockStateService{}, &mockTaskService{})

	b, err := adapter.Create(context.Background(), "ws-1", "Platform", "ENG", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.Key != "ENG" || boards.lastCreateReq.WorkspaceID != "ws-1" {
		t.Errorf("unexpected request %+v", boards.lastCreateReq)
	}
	if !strings.Contains(buf.String(), "Created board ENG") {
		t.Errorf("expected confirmation, got '%s'", buf.String())
	}
}

func TestBoardAdapter_List_Empty(t *testing.T) {
	adapter, buf := newTestBoardAdapter(&mockBoardService{}, &mockStateService{}, &mockTaskService{})

	if err := adapter.List(context.Background(), "ws-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "No boards found") {
		t.Errorf("expected 'No boards found', got '%s'", buf.String())
	}
}

func TestBoardAdapter_Show(t *testing.T) {
	boards := &mockBoardService{
		getMetadataFn: func(ctx context.Context, boardID string) (*primary.BoardMetadata, error) {
			return &primary.BoardMetadata{
				Board:      &primary.Board{ID: boardID, Name: "Platform", Key: "ENG"},
				States:     []*primary.State{{Name: "Todo", Category: "open"}, {Name: "Done", Category: "completed"}},
				Priorities: []*primary.Priority{{Name: "Urgent"}, {Name: "High"}},
				Estimates:  []*primary.Estimate{{Value: "1h"}, {Value: "2h"}},
				Members:    []*primary.Member{{DisplayName: "Ada Lovelace", Role: "admin"}},
			}, nil
		},
	}
	adapter, buf := newTestBoardAdapter(boards, &mockStateService{}, &mockTaskService{})

	if _, err := adapter.Show(context.Background(), "board-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	for _, want := range []string{"Platform (ENG)", "Todo", "Done", "Urgent, High", "1h, 2h", "Ada Lovelace"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}
}

func TestBoardAdapter_Show_NotFound(t *testing.T) {
	boards := &mockBoardService{
		getMetadataFn: func(ctx context.Context, boardID string) (*primary.BoardMetadata, error) {
			return nil, errors.New("board not found")
		},
	}
	adapter, _ := newTestBoardAdapter(boards, &mockStateService{}, &mockTaskService{})

	_, err := adapter.Show(context.Background(), "ghost")
	if err == nil || !strings.Contains(err.Error(), "failed to get board") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestBoardAdapter_MoveState(t *testing.T) {
	states := &mockStateService{}
	adapter, buf := newTestBoardAdapter(&mockBoardService{}, states, &mockTaskService{})

	if err := adapter.MoveState(context.Background(), "board-1", "s3", "s1", "s2"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if states.lastReorderReq.PreviousStateID != "s1" || states.lastReorderReq.NextStateID != "s2" {
		t.Errorf("unexpected request %+v", states.lastReorderReq)
	}
	if !strings.Contains(buf.String(), "sequence 15000") {
		t.Errorf("expected the new sequence, got '%s'", buf.String())
	}
}

func TestBoardAdapter_Kanban_Columns(t *testing.T) {
	tasks := &mockTaskService{
		kanbanFn: func(ctx context.Context, req primary.KanbanRequest) (*primary.Kanban, error) {
			return &primary.Kanban{Columns: []*primary.KanbanColumn{
				{State: &primary.State{Name: "Todo", Category: "open"}, Tasks: []*primary.Task{
					{Name: "ENG-1", Summary: "Write docs", TaskType: "task"},
					{Name: "ENG-2", Summary: "Fix login", TaskType: "bug"},
				}},
				{State: &primary.State{Name: "Done", Category: "completed"}, Tasks: []*primary.Task{}},
			}}, nil
		},
	}
	adapter, buf := newTestBoardAdapter(&mockBoardService{}, &mockStateService{}, tasks)

	if err := adapter.Kanban(context.Background(), primary.KanbanRequest{BoardID: "board-1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	for _, want := range []string{"Todo", "ENG-1", "Write docs", "[Bug]", "Done"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got '%s'", want, output)
		}
	}
	if strings.Index(output, "ENG-1") > strings.Index(output, "ENG-2") {
		t.Error("expected tasks in column order")
	}
}

func TestBoardAdapter_Kanban_Lanes(t *testing.T) {
	tasks := &mockTaskService{
		kanbanFn: func(ctx context.Context, req primary.KanbanRequest) (*primary.Kanban, error) {
			col := func(name string, ts ...*primary.Task) *primary.KanbanColumn {
				return &primary.KanbanColumn{State: &primary.State{Name: name, Category: "open"}, Tasks: ts}
			}
			return &primary.Kanban{GroupBy: "task_type", Lanes: []*primary.KanbanLane{
				{GroupKey: "bug", Label: "Bug", States: []*primary.KanbanColumn{col("Todo", &primary.Task{Name: "ENG-2", TaskType: "bug"})}},
				{GroupKey: "no_task_type", None: true, States: []*primary.KanbanColumn{col("Todo")}},
			}}, nil
		},
	}
	adapter, buf := newTestBoardAdapter(&mockBoardService{}, &mockStateService{}, tasks)

	if err := adapter.Kanban(context.Background(), primary.KanbanRequest{BoardID: "board-1", GroupBy: "task_type"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tasks.lastKanbanReq.GroupBy != "task_type" {
		t.Errorf("expected group by to be forwarded, got %q", tasks.lastKanbanReq.GroupBy)
	}
	output := buf.String()
	if !strings.Contains(output, "━━ Bug") || !strings.Contains(output, "No task type") {
		t.Errorf("expected both lanes, got '%s'", output)
	}
	if strings.Index(output, "━━ Bug") > strings.Index(output, "No task type") {
		t.Error("expected the none lane last")
	}
}
