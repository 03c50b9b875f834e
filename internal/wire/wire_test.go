package wire

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/example/taskboard/internal/adapters/redis"
	"github.com/example/taskboard/internal/config"
	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/db"
	"github.com/example/taskboard/internal/logging"
	"github.com/example/taskboard/internal/ports/primary"
)

func TestBuild_PureGoDriver(t *testing.T) {
	database, err := db.Open(db.DriverPureGo, ":memory:")
	if err != nil {
		t.Fatalf("db.Open failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	svc := Build(database, redis.NoopCache{}, logging.Discard())

	ctx := context.Background()
	user, err := svc.Users.CreateUser(ctx, primary.CreateUserRequest{Username: "ada"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	ctx = ctxutil.WithActorID(ctx, user.ID)

	ws, err := svc.Workspaces.CreateWorkspace(ctx, primary.CreateWorkspaceRequest{Name: "Engineering"})
	if err != nil {
		t.Fatalf("CreateWorkspace failed: %v", err)
	}
	board, err := svc.Boards.CreateBoard(ctx, primary.CreateBoardRequest{WorkspaceID: ws.ID, Name: "Platform", Key: "PLT"})
	if err != nil {
		t.Fatalf("CreateBoard failed: %v", err)
	}
	states, err := svc.States.ListStates(ctx, board.ID)
	if err != nil {
		t.Fatalf("ListStates failed: %v", err)
	}
	if len(states) != 5 {
		t.Errorf("expected 5 provisioned states, got %d", len(states))
	}
}

func TestNewCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	tests := []struct {
		name     string
		url      string
		wantNoop bool
	}{
		{"no url", "", true},
		{"bad url", "not a url", true},
		{"redis", "redis://" + mr.Addr() + "/0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.RedisURL = tt.url
			_, noop := newCache(cfg, logging.Discard()).(redis.NoopCache)
			if noop != tt.wantNoop {
				t.Errorf("noop = %v, want %v", noop, tt.wantNoop)
			}
		})
	}
}
