package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/taskboard/internal/adapters/sqlite"
	"github.com/example/taskboard/internal/ports/secondary"
)

func TestBoardRepository_NextTaskNumber(t *testing.T) {
	db := setupTestDB(t)
	seedBoard(t, db, "board-1")
	repo := sqlite.NewBoardRepository(db)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := repo.NextTaskNumber(ctx, "board-1")
		if err != nil {
			t.Fatalf("NextTaskNumber failed: %v", err)
		}
		if got != want {
			t.Errorf("expected %d, got %d", want, got)
		}
	}

	if _, err := repo.NextTaskNumber(ctx, "missing"); !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBoardRepository_Members(t *testing.T) {
	db := setupTestDB(t)
	seedBoard(t, db, "board-1")
	seedUser(t, db, "u-zoe", "zoe")
	seedUser(t, db, "u-amy", "Amy")
	repo := sqlite.NewBoardRepository(db)
	ctx := context.Background()

	for _, m := range []*secondary.MemberRecord{
		{BoardID: "board-1", UserID: "u-zoe", Role: "guest"},
		{BoardID: "board-1", UserID: "u-amy", Role: "admin"},
		{BoardID: "board-1", UserID: "u-zoe", Role: "collaborator"},
	} {
		if err := repo.AddMember(ctx, m); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
	}

	members, err := repo.ListMembers(ctx, "board-1")
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].DisplayName != "Amy" || members[1].Role != "collaborator" {
		t.Errorf("unexpected members: %+v %+v", members[0], members[1])
	}

	ok, err := repo.IsMember(ctx, "board-1", "u-amy")
	if err != nil || !ok {
		t.Errorf("expected u-amy to be a member, got %v, %v", ok, err)
	}
	ok, _ = repo.IsMember(ctx, "board-1", "stranger")
	if ok {
		t.Error("expected stranger not to be a member")
	}
}

func TestBoardRepository_KeyExists(t *testing.T) {
	db := setupTestDB(t)
	seedBoard(t, db, "board-1")
	repo := sqlite.NewBoardRepository(db)
	ctx := context.Background()

	taken, err := repo.KeyExists(ctx, "ws-board-1", "KEY")
	if err != nil || !taken {
		t.Errorf("expected KEY to be taken, got %v, %v", taken, err)
	}
	taken, _ = repo.KeyExists(ctx, "ws-board-1", "OTHER")
	if taken {
		t.Error("expected OTHER to be free")
	}
}

func TestStateRepository_ListAndTail(t *testing.T) {
	db := setupTestDB(t)
	seedBoard(t, db, "board-1")
	seedState(t, db, "late", "board-1", "completed", 30000)
	seedState(t, db, "early", "board-1", "open", 10000)
	repo := sqlite.NewStateRepository(db)
	ctx := context.Background()

	states, err := repo.ListByBoard(ctx, "board-1")
	if err != nil {
		t.Fatalf("ListByBoard failed: %v", err)
	}
	if len(states) != 2 || states[0].ID != "early" {
		t.Fatalf("expected early first, got %+v", states)
	}

	if err := repo.UpdateSequence(ctx, "early", 40000); err != nil {
		t.Fatalf("UpdateSequence failed: %v", err)
	}
	tail, err := repo.TailSequence(ctx, "board-1")
	if err != nil || tail == nil || *tail != 40000 {
		t.Errorf("expected tail 40000, got %v, %v", tail, err)
	}

	empty, err := repo.TailSequence(ctx, "no-board")
	if err != nil || empty != nil {
		t.Errorf("expected nil tail, got %v, %v", empty, err)
	}
}

func TestSprintRepository_ActiveAndDelete(t *testing.T) {
	db := setupTestDB(t)
	seedBoard(t, db, "board-1")
	seedState(t, db, "todo", "board-1", "open", 10000)
	seedSprint(t, db, "s-old", "board-1", true, seedTime)
	seedSprint(t, db, "s-new", "board-1", false, seedTime.Add(24*time.Hour))
	seedTask(t, db, "a", "board-1", "todo", 1, 10000)
	if _, err := db.Exec("UPDATE tasks SET sprint_id = 's-new' WHERE id = 'a'"); err != nil {
		t.Fatalf("assign sprint: %v", err)
	}
	repo := sqlite.NewSprintRepository(db)
	ctx := context.Background()

	if err := repo.DeactivateAll(ctx, "board-1"); err != nil {
		t.Fatalf("DeactivateAll failed: %v", err)
	}
	if err := repo.SetActive(ctx, "s-new", true); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}

	sprints, err := repo.ListByBoard(ctx, "board-1", false)
	if err != nil {
		t.Fatalf("ListByBoard failed: %v", err)
	}
	if len(sprints) != 2 || sprints[0].ID != "s-new" || !sprints[0].IsActive || sprints[1].IsActive {
		t.Fatalf("expected newest-first with only s-new active, got %+v %+v", sprints[0], sprints[1])
	}

	if err := repo.SetArchived(ctx, "s-old", seedTime); err != nil {
		t.Fatalf("SetArchived failed: %v", err)
	}
	live, _ := repo.ListByBoard(ctx, "board-1", false)
	if len(live) != 1 {
		t.Errorf("expected archived sprint hidden, got %d", len(live))
	}

	if err := repo.Delete(ctx, "s-new"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	task, err := sqlite.NewTaskRepository(db).GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if task.SprintID != "" {
		t.Errorf("expected sprint reference cleared, got %q", task.SprintID)
	}
}
