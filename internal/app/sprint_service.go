package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/core/sprint"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// SprintServiceImpl implements the SprintService interface.
type SprintServiceImpl struct {
	tx         secondary.Transactor
	boardRepo  secondary.BoardRepository
	sprintRepo secondary.SprintRepository
	taskRepo   secondary.TaskRepository
	snapRepo   secondary.SnapshotRepository
	cache      secondary.BoardMetadataCache
	logger     *log.Logger
	now        func() time.Time
}

// NewSprintService creates a new SprintService with injected dependencies.
func NewSprintService(
	tx secondary.Transactor,
	boardRepo secondary.BoardRepository,
	sprintRepo secondary.SprintRepository,
	taskRepo secondary.TaskRepository,
	snapRepo secondary.SnapshotRepository,
	cache secondary.BoardMetadataCache,
	logger *log.Logger,
) *SprintServiceImpl {
	return &SprintServiceImpl{
		tx:         tx,
		boardRepo:  boardRepo,
		sprintRepo: sprintRepo,
		taskRepo:   taskRepo,
		snapRepo:   snapRepo,
		cache:      cache,
		logger:     logger,
		now:        utcNow,
	}
}

// CreateSprint creates a sprint. An active sprint replaces the board's
// current active sprint in the same transaction.
func (s *SprintServiceImpl) CreateSprint(ctx context.Context, req primary.CreateSprintRequest) (*primary.Sprint, error) {
	start, err := time.Parse(sprint.DateLayout, req.StartDate)
	if err != nil {
		return nil, invalidf("invalid start date %q (expected YYYY-MM-DD)", req.StartDate)
	}
	end, err := time.Parse(sprint.DateLayout, req.EndDate)
	if err != nil {
		return nil, invalidf("invalid end date %q (expected YYYY-MM-DD)", req.EndDate)
	}
	name := strings.TrimSpace(req.Name)
	if err := invalid(sprint.CanCreateSprint(sprint.CreateSprintContext{Name: name, StartDate: start, EndDate: end}).Error()); err != nil {
		return nil, err
	}

	var created *secondary.SprintRecord
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.boardRepo.GetByID(ctx, req.BoardID); err != nil {
			return err
		}
		if req.IsActive {
			if err := s.sprintRepo.DeactivateAll(ctx, req.BoardID); err != nil {
				return err
			}
		}

		created = &secondary.SprintRecord{
			ID:        uuid.NewString(),
			BoardID:   req.BoardID,
			Name:      name,
			Goal:      req.Goal,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			IsActive:  req.IsActive,
			CreatedAt: s.now(),
		}
		if err := s.sprintRepo.Create(ctx, created); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, req.BoardID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSprint(created), nil
}

// ListSprints lists non-archived sprints of a board, newest first.
func (s *SprintServiceImpl) ListSprints(ctx context.Context, boardID string) ([]*primary.Sprint, error) {
	if _, err := s.boardRepo.GetByID(ctx, boardID); err != nil {
		return nil, err
	}
	records, err := s.sprintRepo.ListByBoard(ctx, boardID, false)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.Sprint, len(records))
	for i, r := range records {
		out[i] = toSprint(r)
	}
	return out, nil
}

// ActivateSprint makes the sprint the board's only active sprint.
func (s *SprintServiceImpl) ActivateSprint(ctx context.Context, boardID, sprintID string) (*primary.Sprint, error) {
	var activated *secondary.SprintRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sp, err := s.sprintOnBoard(ctx, boardID, sprintID)
		if err != nil {
			return err
		}
		if sp.ArchivedAt != nil {
			return invalidf("sprint '%s' is archived", sp.Name)
		}
		if err := s.sprintRepo.DeactivateAll(ctx, boardID); err != nil {
			return err
		}
		if err := s.sprintRepo.SetActive(ctx, sp.ID, true); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, boardID)
		sp.IsActive = true
		activated = sp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toSprint(activated), nil
}

// ArchiveSprint archives an inactive sprint.
func (s *SprintServiceImpl) ArchiveSprint(ctx context.Context, boardID, sprintID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sp, err := s.sprintOnBoard(ctx, boardID, sprintID)
		if err != nil {
			return err
		}
		if err := invalid(sprint.CanRetireSprint(sprint.RetireSprintContext{
			SprintID: sp.ID, Name: sp.Name, IsActive: sp.IsActive, Action: "archived",
		}).Error()); err != nil {
			return err
		}
		if sp.ArchivedAt != nil {
			return invalidf("sprint '%s' is already archived", sp.Name)
		}
		if err := s.sprintRepo.SetArchived(ctx, sp.ID, s.now()); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, boardID)
		return nil
	})
}

// DeleteSprint deletes an inactive sprint; its tasks lose the sprint reference.
func (s *SprintServiceImpl) DeleteSprint(ctx context.Context, boardID, sprintID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sp, err := s.sprintOnBoard(ctx, boardID, sprintID)
		if err != nil {
			return err
		}
		if err := invalid(sprint.CanRetireSprint(sprint.RetireSprintContext{
			SprintID: sp.ID, Name: sp.Name, IsActive: sp.IsActive, Action: "deleted",
		}).Error()); err != nil {
			return err
		}
		if err := s.sprintRepo.Delete(ctx, sp.ID); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, boardID)
		return nil
	})
}

// Burndown computes the per-day total/pending series over the sprint's days.
func (s *SprintServiceImpl) Burndown(ctx context.Context, boardID, sprintID string) (*primary.Burndown, error) {
	sp, err := s.sprintOnBoard(ctx, boardID, sprintID)
	if err != nil {
		return nil, err
	}
	start, err := time.Parse(sprint.DateLayout, sp.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(sprint.DateLayout, sp.EndDate)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, secondary.TaskFilters{BoardID: boardID, SprintID: sp.ID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	records, err := s.snapRepo.ListForTasks(ctx, ids, sp.EndDate)
	if err != nil {
		return nil, err
	}
	snaps := make([]sprint.Snapshot, 0, len(records))
	for _, r := range records {
		day, err := time.Parse(sprint.DateLayout, r.Date)
		if err != nil {
			s.logger.WithFields(log.Fields{"task_id": r.TaskID, "date": r.Date}).Warn("skipping snapshot with malformed date")
			continue
		}
		snaps = append(snaps, sprint.Snapshot{TaskID: r.TaskID, Date: day, Category: r.StateCategory})
	}

	bd := sprint.ComputeBurndown(start, end, ids, snaps)
	return &primary.Burndown{
		SprintID:     sp.ID,
		Labels:       bd.Labels,
		PendingTasks: bd.Pending,
		TotalTasks:   bd.Total,
	}, nil
}

func (s *SprintServiceImpl) sprintOnBoard(ctx context.Context, boardID, sprintID string) (*secondary.SprintRecord, error) {
	sp, err := s.sprintRepo.GetByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	if sp.BoardID != boardID {
		return nil, notFound("sprint", sprintID)
	}
	return sp, nil
}

func (s *SprintServiceImpl) invalidateOnCommit(ctx context.Context, boardID string) {
	s.tx.OnCommit(ctx, func(ctx context.Context) { s.cache.Invalidate(ctx, boardID) })
}

func toSprint(r *secondary.SprintRecord) *primary.Sprint {
	return &primary.Sprint{
		ID:        r.ID,
		BoardID:   r.BoardID,
		Name:      r.Name,
		Goal:      r.Goal,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
	}
}

var _ primary.SprintService = (*SprintServiceImpl)(nil)
