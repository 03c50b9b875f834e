package app

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/taskboard/internal/adapters/sqlite"
	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/logging"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

var fixtureTime = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

// Ensure spyCache implements the interface
var _ secondary.BoardMetadataCache = (*spyCache)(nil)

// spyCache is an in-memory BoardMetadataCache that records invalidations.
type spyCache struct {
	mu          sync.Mutex
	entries     map[string]*secondary.BoardMetadata
	invalidated []string
	gets        int
	hits        int
}

func newSpyCache() *spyCache {
	return &spyCache{entries: make(map[string]*secondary.BoardMetadata)}
}

func (c *spyCache) Get(ctx context.Context, boardID string) (*secondary.BoardMetadata, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	m, ok := c.entries[boardID]
	if ok {
		c.hits++
	}
	return m, ok
}

func (c *spyCache) Set(ctx context.Context, boardID string, meta *secondary.BoardMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[boardID] = meta
}

func (c *spyCache) Invalidate(ctx context.Context, boardID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, boardID)
	c.invalidated = append(c.invalidated, boardID)
}

func (c *spyCache) invalidations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.invalidated...)
}

// failingSnapshots wraps a SnapshotRepository and fails every Upsert.
type failingSnapshots struct {
	secondary.SnapshotRepository
}

var errSnapshotStore = errors.New("snapshot store unavailable")

func (failingSnapshots) Upsert(ctx context.Context, snap *secondary.SnapshotRecord) error {
	return errSnapshotStore
}

// fixture wires every service against one in-memory database.
type fixture struct {
	db    *sql.DB
	cache *spyCache
	clock time.Time

	users      *sqlite.UserRepository
	workspaces *sqlite.WorkspaceRepository
	boards     *sqlite.BoardRepository
	states     *sqlite.StateRepository
	catalog    *sqlite.CatalogRepository
	tasks      *sqlite.TaskRepository
	snaps      *sqlite.SnapshotRepository
	comments   *sqlite.CommentRepository
	sprints    *sqlite.SprintRepository
	tx         *sqlite.Transactor

	userSvc      *UserServiceImpl
	workspaceSvc *WorkspaceServiceImpl
	boardSvc     *BoardServiceImpl
	stateSvc     *StateServiceImpl
	taskSvc      *TaskServiceImpl
	reorderSvc   *ReorderServiceImpl
	sprintSvc    *SprintServiceImpl

	owner     *primary.User
	workspace *primary.Workspace
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database, err := db.Open(db.DriverCGO, ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	f := &fixture{
		db:         database,
		cache:      newSpyCache(),
		clock:      fixtureTime,
		users:      sqlite.NewUserRepository(database),
		workspaces: sqlite.NewWorkspaceRepository(database),
		boards:     sqlite.NewBoardRepository(database),
		states:     sqlite.NewStateRepository(database),
		catalog:    sqlite.NewCatalogRepository(database),
		tasks:      sqlite.NewTaskRepository(database),
		snaps:      sqlite.NewSnapshotRepository(database),
		comments:   sqlite.NewCommentRepository(database),
		sprints:    sqlite.NewSprintRepository(database),
		tx:         sqlite.NewTransactor(database),
	}
	logger := logging.Discard()
	now := func() time.Time { return f.clock }

	f.userSvc = NewUserService(f.users)
	f.userSvc.now = now
	f.workspaceSvc = NewWorkspaceService(f.tx, f.users, f.workspaces)
	f.workspaceSvc.now = now
	f.boardSvc = NewBoardService(f.tx, f.workspaces, f.users, f.boards, f.states, f.catalog, f.sprints, f.cache, logger)
	f.boardSvc.now = now
	f.stateSvc = NewStateService(f.tx, f.boards, f.states, f.cache, logger)
	f.stateSvc.now = now
	f.taskSvc = NewTaskService(f.tx, f.boards, f.states, f.catalog, f.tasks, f.snaps, f.comments, f.sprints, logger)
	f.taskSvc.now = now
	f.reorderSvc = NewReorderService(f.tx, f.tasks, f.states, f.snaps, f.comments, logger)
	f.reorderSvc.now = now
	f.sprintSvc = NewSprintService(f.tx, f.boards, f.sprints, f.tasks, f.snaps, f.cache, logger)
	f.sprintSvc.now = now

	f.owner, err = f.userSvc.CreateUser(context.Background(), primary.CreateUserRequest{Username: "ada", DisplayName: "Ada Lovelace"})
	if err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}
	f.workspace, err = f.workspaceSvc.CreateWorkspace(f.ctx(), primary.CreateWorkspaceRequest{Name: "Engineering"})
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}
	return f
}

// ctx returns a context acting as the workspace owner.
func (f *fixture) ctx() context.Context {
	return ctxutil.WithActorID(context.Background(), f.owner.ID)
}

// withActor returns a context acting as the given user.
func withActor(userID string) context.Context {
	return ctxutil.WithActorID(context.Background(), userID)
}

// advance moves the fixture clock forward.
func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

// newBoard creates a provisioned board and returns it with its states by name.
func (f *fixture) newBoard(t *testing.T, key string) (*primary.Board, map[string]*primary.State) {
	t.Helper()
	b, err := f.boardSvc.CreateBoard(f.ctx(), primary.CreateBoardRequest{
		WorkspaceID: f.workspace.ID,
		Name:        key + " board",
		Key:         key,
	})
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	states, err := f.stateSvc.ListStates(f.ctx(), b.ID)
	if err != nil {
		t.Fatalf("failed to list states: %v", err)
	}
	byName := make(map[string]*primary.State, len(states))
	for _, st := range states {
		byName[st.Name] = st
	}
	return b, byName
}

// newTask creates a task with the given summary in the given state.
func (f *fixture) newTask(t *testing.T, boardID, stateID, summary string) *primary.Task {
	t.Helper()
	task, err := f.taskSvc.CreateTask(f.ctx(), primary.CreateTaskRequest{
		BoardID: boardID,
		StateID: stateID,
		Summary: summary,
	})
	if err != nil {
		t.Fatalf("failed to create task %q: %v", summary, err)
	}
	return task
}

// setSequence forces a task's sequence, bypassing the services.
func (f *fixture) setSequence(t *testing.T, taskID, stateID string, seq float64) {
	t.Helper()
	if err := f.tasks.UpdatePosition(context.Background(), taskID, stateID, seq); err != nil {
		t.Fatalf("failed to set sequence: %v", err)
	}
}

// reload fetches the stored task.
func (f *fixture) reload(t *testing.T, taskID string) *secondary.TaskRecord {
	t.Helper()
	rec, err := f.tasks.GetByID(context.Background(), taskID)
	if err != nil {
		t.Fatalf("failed to reload task %s: %v", taskID, err)
	}
	return rec
}

// snapshotsOf returns the stored snapshots of a task.
func (f *fixture) snapshotsOf(t *testing.T, taskID string) []*secondary.SnapshotRecord {
	t.Helper()
	snaps, err := f.snaps.ListForTask(context.Background(), taskID)
	if err != nil {
		t.Fatalf("failed to list snapshots: %v", err)
	}
	return snaps
}

// activityOf returns the activity comments of a task, newest first.
func (f *fixture) activityOf(t *testing.T, taskID string) []*secondary.CommentRecord {
	t.Helper()
	comments, err := f.comments.ListForTask(context.Background(), taskID, CommentActivity)
	if err != nil {
		t.Fatalf("failed to list activity: %v", err)
	}
	return comments
}

func strPtr(s string) *string {
	return &s
}
