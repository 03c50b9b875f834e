package cli

import (
	"context"
	"errors"

	"github.com/example/taskboard/internal/ports/primary"
)

var errNotImplemented = errors.New("not implemented in adapter")

// mockBoardService implements primary.BoardService for testing
type mockBoardService struct {
	createBoardFn func(ctx context.Context, req primary.CreateBoardRequest) (*primary.Board, error)
	listBoardsFn  func(ctx context.Context, workspaceID string) ([]*primary.Board, error)
	getMetadataFn func(ctx context.Context, boardID string) (*primary.BoardMetadata, error)

	lastCreateReq primary.CreateBoardRequest
}

func (m *mockBoardService) CreateBoard(ctx context.Context, req primary.CreateBoardRequest) (*primary.Board, error) {
	m.lastCreateReq = req
	if m.createBoardFn != nil {
		return m.createBoardFn(ctx, req)
	}
	return &primary.Board{ID: "board-1", Key: req.Key, Name: req.Name, WorkspaceID: req.WorkspaceID}, nil
}

func (m *mockBoardService) GetBoard(ctx context.Context, boardID string) (*primary.Board, error) {
	return nil, errNotImplemented
}

func (m *mockBoardService) ListBoards(ctx context.Context, workspaceID string) ([]*primary.Board, error) {
	if m.listBoardsFn != nil {
		return m.listBoardsFn(ctx, workspaceID)
	}
	return []*primary.Board{}, nil
}

func (m *mockBoardService) AddMember(ctx context.Context, req primary.AddMemberRequest) error {
	return errNotImplemented
}

func (m *mockBoardService) ListMembers(ctx context.Context, boardID string) ([]*primary.Member, error) {
	return nil, errNotImplemented
}

func (m *mockBoardService) GetMetadata(ctx context.Context, boardID string) (*primary.BoardMetadata, error) {
	if m.getMetadataFn != nil {
		return m.getMetadataFn(ctx, boardID)
	}
	return nil, errNotImplemented
}

func (m *mockBoardService) CreateLabel(ctx context.Context, req primary.CreateLabelRequest) (*primary.Label, error) {
	return nil, errNotImplemented
}

func (m *mockBoardService) ListPriorities(ctx context.Context, boardID string) ([]*primary.Priority, error) {
	return nil, errNotImplemented
}

func (m *mockBoardService) CreatePriority(ctx context.Context, req primary.CreatePriorityRequest) (*primary.Priority, error) {
	return nil, errNotImplemented
}

func (m *mockBoardService) UpdatePriority(ctx context.Context, req primary.UpdatePriorityRequest) (*primary.Priority, error) {
	return nil, errNotImplemented
}

func (m *mockBoardService) DeletePriority(ctx context.Context, boardID, priorityID string) error {
	return errNotImplemented
}

// mockStateService implements primary.StateService for testing
type mockStateService struct {
	listStatesFn   func(ctx context.Context, boardID string) ([]*primary.State, error)
	reorderStateFn func(ctx context.Context, req primary.ReorderStateRequest) (float64, error)

	lastReorderReq primary.ReorderStateRequest
}

func (m *mockStateService) CreateState(ctx context.Context, req primary.CreateStateRequest) (*primary.State, error) {
	return nil, errNotImplemented
}

func (m *mockStateService) UpdateState(ctx context.Context, req primary.UpdateStateRequest) (*primary.State, error) {
	return nil, errNotImplemented
}

func (m *mockStateService) ListStates(ctx context.Context, boardID string) ([]*primary.State, error) {
	if m.listStatesFn != nil {
		return m.listStatesFn(ctx, boardID)
	}
	return []*primary.State{}, nil
}

func (m *mockStateService) ReorderState(ctx context.Context, req primary.ReorderStateRequest) (float64, error) {
	m.lastReorderReq = req
	if m.reorderStateFn != nil {
		return m.reorderStateFn(ctx, req)
	}
	return 15000, nil
}

// mockTaskService implements primary.TaskService for testing
type mockTaskService struct {
	createTaskFn   func(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error)
	listTasksFn    func(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error)
	updateTaskFn   func(ctx context.Context, req primary.UpdateTaskRequest) (*primary.UpdateTaskResponse, error)
	archiveTaskFn  func(ctx context.Context, boardID, taskID string) error
	kanbanFn       func(ctx context.Context, req primary.KanbanRequest) (*primary.Kanban, error)
	listCommentsFn func(ctx context.Context, boardID, taskID, commentType string) ([]*primary.Comment, error)

	lastKanbanReq primary.KanbanRequest
}

func (m *mockTaskService) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error) {
	if m.createTaskFn != nil {
		return m.createTaskFn(ctx, req)
	}
	return &primary.Task{ID: "task-1", Name: "ENG-1", Summary: req.Summary}, nil
}

func (m *mockTaskService) GetTask(ctx context.Context, boardID, taskID string) (*primary.Task, error) {
	return nil, errNotImplemented
}

func (m *mockTaskService) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	if m.listTasksFn != nil {
		return m.listTasksFn(ctx, filters)
	}
	return []*primary.Task{}, nil
}

func (m *mockTaskService) UpdateTask(ctx context.Context, req primary.UpdateTaskRequest) (*primary.UpdateTaskResponse, error) {
	if m.updateTaskFn != nil {
		return m.updateTaskFn(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockTaskService) ArchiveTask(ctx context.Context, boardID, taskID string) error {
	if m.archiveTaskFn != nil {
		return m.archiveTaskFn(ctx, boardID, taskID)
	}
	return nil
}

func (m *mockTaskService) RestoreTask(ctx context.Context, boardID, taskID string) error {
	return nil
}

func (m *mockTaskService) Kanban(ctx context.Context, req primary.KanbanRequest) (*primary.Kanban, error) {
	m.lastKanbanReq = req
	if m.kanbanFn != nil {
		return m.kanbanFn(ctx, req)
	}
	return &primary.Kanban{}, nil
}

func (m *mockTaskService) AddComment(ctx context.Context, req primary.AddCommentRequest) (*primary.Comment, error) {
	return &primary.Comment{ID: "comment-1", TaskID: req.TaskID, Content: req.Content, CommentType: "user"}, nil
}

func (m *mockTaskService) ListComments(ctx context.Context, boardID, taskID, commentType string) ([]*primary.Comment, error) {
	if m.listCommentsFn != nil {
		return m.listCommentsFn(ctx, boardID, taskID, commentType)
	}
	return []*primary.Comment{}, nil
}

// mockReorderService implements primary.ReorderService for testing
type mockReorderService struct {
	reorderTaskFn   func(ctx context.Context, req primary.ReorderTaskRequest) (float64, error)
	bulkMoveTasksFn func(ctx context.Context, req primary.BulkMoveTasksRequest) ([]*primary.Task, error)
}

func (m *mockReorderService) ReorderTask(ctx context.Context, req primary.ReorderTaskRequest) (float64, error) {
	if m.reorderTaskFn != nil {
		return m.reorderTaskFn(ctx, req)
	}
	return 15000, nil
}

func (m *mockReorderService) BulkMoveTasks(ctx context.Context, req primary.BulkMoveTasksRequest) ([]*primary.Task, error) {
	if m.bulkMoveTasksFn != nil {
		return m.bulkMoveTasksFn(ctx, req)
	}
	return []*primary.Task{}, nil
}

// mockSprintService implements primary.SprintService for testing
type mockSprintService struct {
	listSprintsFn func(ctx context.Context, boardID string) ([]*primary.Sprint, error)
	burndownFn    func(ctx context.Context, boardID, sprintID string) (*primary.Burndown, error)
}

func (m *mockSprintService) CreateSprint(ctx context.Context, req primary.CreateSprintRequest) (*primary.Sprint, error) {
	return &primary.Sprint{ID: "sprint-1", Name: req.Name, StartDate: req.StartDate, EndDate: req.EndDate, IsActive: req.IsActive}, nil
}

func (m *mockSprintService) ListSprints(ctx context.Context, boardID string) ([]*primary.Sprint, error) {
	if m.listSprintsFn != nil {
		return m.listSprintsFn(ctx, boardID)
	}
	return []*primary.Sprint{}, nil
}

func (m *mockSprintService) ActivateSprint(ctx context.Context, boardID, sprintID string) (*primary.Sprint, error) {
	return &primary.Sprint{ID: sprintID, Name: "Sprint 1", IsActive: true}, nil
}

func (m *mockSprintService) ArchiveSprint(ctx context.Context, boardID, sprintID string) error {
	return nil
}

func (m *mockSprintService) DeleteSprint(ctx context.Context, boardID, sprintID string) error {
	return nil
}

func (m *mockSprintService) Burndown(ctx context.Context, boardID, sprintID string) (*primary.Burndown, error) {
	if m.burndownFn != nil {
		return m.burndownFn(ctx, boardID, sprintID)
	}
	return &primary.Burndown{SprintID: sprintID}, nil
}

var (
	_ primary.BoardService   = (*mockBoardService)(nil)
	_ primary.StateService   = (*mockStateService)(nil)
	_ primary.TaskService    = (*mockTaskService)(nil)
	_ primary.ReorderService = (*mockReorderService)(nil)
	_ primary.SprintService  = (*mockSprintService)(nil)
)
