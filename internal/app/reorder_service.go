package app

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/core/sequence"
	"github.com/example/taskboard/internal/core/task"
	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/metrics"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// ReorderServiceImpl implements the ReorderService interface.
type ReorderServiceImpl struct {
	tx        secondary.Transactor
	taskRepo  secondary.TaskRepository
	stateRepo secondary.StateRepository
	snapRepo  secondary.SnapshotRepository
	comments  secondary.CommentRepository
	logger    *log.Logger
	now       func() time.Time
}

// NewReorderService creates a new ReorderService with injected dependencies.
func NewReorderService(
	tx secondary.Transactor,
	taskRepo secondary.TaskRepository,
	stateRepo secondary.StateRepository,
	snapRepo secondary.SnapshotRepository,
	comments secondary.CommentRepository,
	logger *log.Logger,
) *ReorderServiceImpl {
	return &ReorderServiceImpl{
		tx:        tx,
		taskRepo:  taskRepo,
		stateRepo: stateRepo,
		snapRepo:  snapRepo,
		comments:  comments,
		logger:    logger,
		now:       utcNow,
	}
}

// ReorderTask places a task between two neighbours of the destination state.
// The position write, the snapshot and the activity entry commit together.
func (s *ReorderServiceImpl) ReorderTask(ctx context.Context, req primary.ReorderTaskRequest) (float64, error) {
	var result float64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := taskOnBoard(ctx, s.taskRepo, req.BoardID, req.TaskID)
		if err != nil {
			return err
		}
		if err := invalid(task.CanMoveTask(task.ArchiveTaskContext{TaskID: t.Name, Archived: t.ArchivedAt != nil}).Error()); err != nil {
			return err
		}

		stateID := req.StateID
		if stateID == "" {
			stateID = t.StateID
		}
		dest, err := stateOnBoard(ctx, s.stateRepo, req.BoardID, stateID)
		if err != nil {
			return err
		}

		prev, err := s.neighbor(ctx, "previous", req.PreviousTaskID, t, dest)
		if err != nil {
			return err
		}
		next, err := s.neighbor(ctx, "next", req.NextTaskID, t, dest)
		if err != nil {
			return err
		}

		seq := sequence.Allocate(prev, next)
		if sequence.Exhausted(prev, next, seq) {
			prev, next, err = s.renumber(ctx, dest.ID, t.ID, req.PreviousTaskID, req.NextTaskID)
			if err != nil {
				return err
			}
			seq = sequence.Allocate(prev, next)
		}

		if err := s.taskRepo.UpdatePosition(ctx, t.ID, dest.ID, seq); err != nil {
			return err
		}

		if dest.ID != t.StateID {
			if err := s.transition(ctx, t, dest); err != nil {
				return err
			}
		}

		metrics.TaskMoves.WithLabelValues("reorder").Inc()
		result = seq
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// BulkMoveTasks appends the tasks to the tail of the destination state in
// request order, each Gap after the previous one.
func (s *ReorderServiceImpl) BulkMoveTasks(ctx context.Context, req primary.BulkMoveTasksRequest) ([]*primary.Task, error) {
	if len(req.TaskIDs) == 0 {
		return nil, invalidf("at least one task is required")
	}
	seen := make(map[string]bool, len(req.TaskIDs))
	for _, id := range req.TaskIDs {
		if seen[id] {
			return nil, invalidf("task %s listed more than once", id)
		}
		seen[id] = true
	}

	var moved []*primary.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		dest, err := stateOnBoard(ctx, s.stateRepo, req.BoardID, req.StateID)
		if err != nil {
			return err
		}

		batch := make([]*secondary.TaskRecord, 0, len(req.TaskIDs))
		for _, id := range req.TaskIDs {
			t, err := taskOnBoard(ctx, s.taskRepo, req.BoardID, id)
			if err != nil {
				return err
			}
			if err := invalid(task.CanMoveTask(task.ArchiveTaskContext{TaskID: t.Name, Archived: t.ArchivedAt != nil}).Error()); err != nil {
				return err
			}
			batch = append(batch, t)
		}

		tail, err := s.taskRepo.TailSequence(ctx, dest.ID)
		if err != nil {
			return err
		}

		now := s.now()
		for k, t := range batch {
			seq := sequence.Append(tail, k+1)
			if err := s.taskRepo.UpdatePosition(ctx, t.ID, dest.ID, seq); err != nil {
				return err
			}
			if err := writeSnapshot(ctx, s.snapRepo, t.ID, dest.ID, now); err != nil {
				return err
			}
			if t.StateID != dest.ID {
				if err := writeActivity(ctx, s.comments, t.ID, ctxutil.ActorFromContext(ctx), stateChanged(dest.Name), now); err != nil {
					return err
				}
				metrics.StateTransitions.Inc()
			}
			t.StateID = dest.ID
			t.Sequence = seq
			moved = append(moved, toTask(t))
		}

		metrics.TaskMoves.WithLabelValues("bulk").Add(float64(len(batch)))
		s.logger.WithFields(log.Fields{
			"board_id": req.BoardID,
			"state_id": dest.ID,
			"count":    len(batch),
		}).Debug("bulk moved tasks")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// neighbor resolves an optional anchor task to its sequence.
func (s *ReorderServiceImpl) neighbor(ctx context.Context, role, id string, moving *secondary.TaskRecord, dest *secondary.StateRecord) (*float64, error) {
	if id == "" {
		return nil, nil
	}
	if id == moving.ID {
		return nil, &InvalidNeighborError{Role: role, ID: id, Reason: fmt.Sprintf("%s task %s is the task being moved", role, id)}
	}

	n, err := s.taskRepo.GetByID(ctx, id)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	gc := task.NeighborContext{
		Role:          role,
		ID:            id,
		Exists:        n != nil && n.ArchivedAt == nil,
		TargetBoardID: moving.BoardID,
		TargetStateID: dest.ID,
	}
	if n != nil {
		gc.BoardID = n.BoardID
		gc.StateID = n.StateID
	}
	if res := task.CanUseNeighbor(gc); !res.Allowed {
		return nil, &InvalidNeighborError{Role: role, ID: id, Reason: res.Reason}
	}
	return sequence.Ptr(n.Sequence), nil
}

// renumber spreads the destination state's tasks (except the moving one) at
// even Gap spacing and returns the refreshed neighbour sequences.
func (s *ReorderServiceImpl) renumber(ctx context.Context, stateID, movingID, prevID, nextID string) (*float64, *float64, error) {
	group, err := s.taskRepo.ListInState(ctx, stateID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(log.Fields{
		"state_id":   stateID,
		"tasks":      len(group),
		"request_id": ctxutil.RequestIDFromContext(ctx),
	}).Warn("task sequences exhausted, renumbering state")

	fresh := make(map[string]float64, len(group))
	var others []*secondary.TaskRecord
	for _, t := range group {
		if t.ID != movingID {
			others = append(others, t)
		}
	}
	for i, seq := range sequence.Renumber(len(others)) {
		if err := s.taskRepo.UpdatePosition(ctx, others[i].ID, stateID, seq); err != nil {
			return nil, nil, err
		}
		fresh[others[i].ID] = seq
	}
	metrics.SequenceRenumbers.WithLabelValues(metrics.GroupTasks).Inc()

	var prev, next *float64
	if v, ok := fresh[prevID]; ok {
		prev = sequence.Ptr(v)
	}
	if v, ok := fresh[nextID]; ok {
		next = sequence.Ptr(v)
	}
	return prev, next, nil
}

// transition records the state change of a task moved by ReorderTask.
func (s *ReorderServiceImpl) transition(ctx context.Context, t *secondary.TaskRecord, dest *secondary.StateRecord) error {
	now := s.now()
	if err := writeSnapshot(ctx, s.snapRepo, t.ID, dest.ID, now); err != nil {
		return err
	}
	if err := writeActivity(ctx, s.comments, t.ID, ctxutil.ActorFromContext(ctx), stateChanged(dest.Name), now); err != nil {
		return err
	}
	metrics.StateTransitions.Inc()

	s.logger.WithFields(log.Fields{
		"task_id": t.ID,
		"from":    t.StateID,
		"to":      dest.ID,
	}).Debug("task changed state")
	return nil
}

func stateChanged(name string) string {
	return fmt.Sprintf("state changed to %s.", name)
}

var _ primary.ReorderService = (*ReorderServiceImpl)(nil)
