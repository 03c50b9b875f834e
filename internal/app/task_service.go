package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/core/board"
	"github.com/example/taskboard/internal/core/kanban"
	"github.com/example/taskboard/internal/core/sequence"
	"github.com/example/taskboard/internal/core/task"
	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	tx         secondary.Transactor
	boardRepo  secondary.BoardRepository
	stateRepo  secondary.StateRepository
	catalog    secondary.CatalogRepository
	taskRepo   secondary.TaskRepository
	snapRepo   secondary.SnapshotRepository
	comments   secondary.CommentRepository
	sprintRepo secondary.SprintRepository
	logger     *log.Logger
	now        func() time.Time
}

// NewTaskService creates a new TaskService with injected dependencies.
func NewTaskService(
	tx secondary.Transactor,
	boardRepo secondary.BoardRepository,
	stateRepo secondary.StateRepository,
	catalog secondary.CatalogRepository,
	taskRepo secondary.TaskRepository,
	snapRepo secondary.SnapshotRepository,
	comments secondary.CommentRepository,
	sprintRepo secondary.SprintRepository,
	logger *log.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		tx:         tx,
		boardRepo:  boardRepo,
		stateRepo:  stateRepo,
		catalog:    catalog,
		taskRepo:   taskRepo,
		snapRepo:   snapRepo,
		comments:   comments,
		sprintRepo: sprintRepo,
		logger:     logger,
		now:        utcNow,
	}
}

// CreateTask creates a task at the tail of its state, records the initial
// snapshot and the creation activity.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error) {
	if req.TaskType == "" {
		req.TaskType = task.TypeTask
	}
	summary := strings.TrimSpace(req.Summary)

	var created *secondary.TaskRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.boardRepo.GetByID(ctx, req.BoardID)
		if err != nil {
			return err
		}

		draft := &secondary.TaskRecord{
			BoardID:     b.ID,
			ParentID:    req.ParentID,
			StateID:     req.StateID,
			PriorityID:  req.PriorityID,
			AssigneeID:  req.AssigneeID,
			SprintID:    req.SprintID,
			EstimateID:  req.EstimateID,
			TaskType:    req.TaskType,
			Summary:     summary,
			Description: req.Description,
		}
		if err := s.validate(ctx, draft); err != nil {
			return err
		}

		number, err := s.boardRepo.NextTaskNumber(ctx, b.ID)
		if err != nil {
			return err
		}
		tail, err := s.taskRepo.TailSequence(ctx, draft.StateID)
		if err != nil {
			return err
		}

		now := s.now()
		actor := ctxutil.ActorFromContext(ctx)
		draft.ID = uuid.NewString()
		draft.Number = number
		draft.Name = board.TaskName(b.Key, number)
		draft.Sequence = sequence.Append(tail, 1)
		draft.CreatedBy = actor
		draft.CreatedAt = now
		draft.UpdatedAt = now

		if err := s.taskRepo.Create(ctx, draft); err != nil {
			return err
		}
		if err := writeSnapshot(ctx, s.snapRepo, draft.ID, draft.StateID, now); err != nil {
			return err
		}
		if err := writeActivity(ctx, s.comments, draft.ID, actor, "created the task.", now); err != nil {
			return err
		}

		created = draft
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(log.Fields{"board_id": created.BoardID, "task": created.Name}).Debug("task created")
	return toTask(created), nil
}

// GetTask retrieves a task by ID within a board.
func (s *TaskServiceImpl) GetTask(ctx context.Context, boardID, taskID string) (*primary.Task, error) {
	t, err := taskOnBoard(ctx, s.taskRepo, boardID, taskID)
	if err != nil {
		return nil, err
	}
	return toTask(t), nil
}

// ListTasks lists live tasks ordered by sequence.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{BoardID: filters.BoardID, ParentID: filters.ParentID})
	if err != nil {
		return nil, err
	}
	out := make([]*primary.Task, len(records))
	for i, r := range records {
		out[i] = toTask(r)
	}
	return out, nil
}

// UpdateTask applies a partial update. Every changed field contributes one
// clause to a single activity entry; a state change also writes the snapshot.
// The sequence is left alone: ordering changes go through the reorder service.
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, req primary.UpdateTaskRequest) (*primary.UpdateTaskResponse, error) {
	var (
		updated *secondary.TaskRecord
		entry   string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := taskOnBoard(ctx, s.taskRepo, req.BoardID, req.TaskID)
		if err != nil {
			return err
		}

		next := *current
		next.LabelIDs = slices.Clone(current.LabelIDs)
		set := func(dst *string, v *string) {
			if v != nil {
				*dst = strings.TrimSpace(*v)
			}
		}
		set(&next.Summary, req.Summary)
		if req.Description != nil {
			next.Description = *req.Description
		}
		set(&next.TaskType, req.TaskType)
		set(&next.StateID, req.StateID)
		set(&next.PriorityID, req.PriorityID)
		set(&next.AssigneeID, req.AssigneeID)
		set(&next.SprintID, req.SprintID)
		set(&next.EstimateID, req.EstimateID)
		if req.LabelIDs != nil {
			next.LabelIDs = slices.Clone(*req.LabelIDs)
			slices.Sort(next.LabelIDs)
			next.LabelIDs = slices.Compact(next.LabelIDs)
		}

		if err := s.validate(ctx, &next); err != nil {
			return err
		}
		if err := s.validateLabels(ctx, next.BoardID, next.LabelIDs); err != nil {
			return err
		}

		clauses, err := s.describe(ctx, current, &next)
		if err != nil {
			return err
		}
		if len(clauses) == 0 {
			updated = current
			return nil
		}

		now := s.now()
		next.UpdatedAt = now
		if err := s.taskRepo.Update(ctx, &next); err != nil {
			return err
		}
		if !slices.Equal(sortedCopy(current.LabelIDs), next.LabelIDs) {
			if err := s.taskRepo.SetLabels(ctx, next.ID, next.LabelIDs); err != nil {
				return err
			}
		}
		if next.StateID != current.StateID {
			if err := writeSnapshot(ctx, s.snapRepo, next.ID, next.StateID, now); err != nil {
				return err
			}
		}

		entry = strings.Join(clauses, ", ") + "."
		if err := writeActivity(ctx, s.comments, next.ID, ctxutil.ActorFromContext(ctx), entry, now); err != nil {
			return err
		}

		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &primary.UpdateTaskResponse{Task: toTask(updated), Log: entry}, nil
}

// ArchiveTask hides a task from listings and the kanban.
func (s *TaskServiceImpl) ArchiveTask(ctx context.Context, boardID, taskID string) error {
	return s.setArchived(ctx, boardID, taskID, true)
}

// RestoreTask brings an archived task back.
func (s *TaskServiceImpl) RestoreTask(ctx context.Context, boardID, taskID string) error {
	return s.setArchived(ctx, boardID, taskID, false)
}

func (s *TaskServiceImpl) setArchived(ctx context.Context, boardID, taskID string, archive bool) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		t, err := taskOnBoard(ctx, s.taskRepo, boardID, taskID)
		if err != nil {
			return err
		}

		gc := task.ArchiveTaskContext{TaskID: t.Name, Archived: t.ArchivedAt != nil}
		now := s.now()
		var (
			at    *time.Time
			entry string
		)
		if archive {
			if err := invalid(task.CanArchiveTask(gc).Error()); err != nil {
				return err
			}
			at, entry = &now, "archived the task."
		} else {
			if err := invalid(task.CanRestoreTask(gc).Error()); err != nil {
				return err
			}
			entry = "restored the task."
		}

		if err := s.taskRepo.SetArchived(ctx, t.ID, at); err != nil {
			return err
		}
		return writeActivity(ctx, s.comments, t.ID, ctxutil.ActorFromContext(ctx), entry, now)
	})
}

// Kanban filters the board's live tasks and projects them into columns, or
// into swimlanes when a grouping dimension is requested.
func (s *TaskServiceImpl) Kanban(ctx context.Context, req primary.KanbanRequest) (*primary.Kanban, error) {
	if _, err := s.boardRepo.GetByID(ctx, req.BoardID); err != nil {
		return nil, err
	}

	states, err := s.stateRepo.ListByBoard(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	records, err := s.taskRepo.List(ctx, secondary.TaskFilters{BoardID: req.BoardID, ParentID: req.ParentID})
	if err != nil {
		return nil, err
	}

	in := kanban.Input{GroupBy: req.GroupBy}
	for _, st := range states {
		in.States = append(in.States, kanban.State{ID: st.ID, Name: st.Name, Category: st.Category, Sequence: st.Sequence, CreatedAt: st.CreatedAt})
	}

	switch req.GroupBy {
	case kanban.GroupByAssignee:
		members, err := s.boardRepo.ListMembers(ctx, req.BoardID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			in.Members = append(in.Members, kanban.Member{ID: m.UserID, DisplayName: m.DisplayName})
		}
	case kanban.GroupByPriority:
		priorities, err := s.catalog.ListPriorities(ctx, req.BoardID)
		if err != nil {
			return nil, err
		}
		for _, p := range priorities {
			in.Priorities = append(in.Priorities, kanban.Priority{ID: p.ID, Name: p.Name, Position: p.Position})
		}
	case kanban.GroupBySprint:
		sprints, err := s.sprintRepo.ListByBoard(ctx, req.BoardID, true)
		if err != nil {
			return nil, err
		}
		for _, sp := range sprints {
			in.Sprints = append(in.Sprints, kanban.Sprint{ID: sp.ID, Name: sp.Name, CreatedAt: sp.CreatedAt})
		}
	}

	byID := make(map[string]*primary.Task, len(records))
	cards := make([]kanban.Card, 0, len(records))
	for _, r := range records {
		byID[r.ID] = toTask(r)
		cards = append(cards, toCard(r))
	}
	in.Cards = kanban.Filter(cards, kanban.Filters{
		Assignees:  req.Assignees,
		TaskTypes:  req.TaskTypes,
		Priorities: req.Priorities,
		Labels:     req.Labels,
		Estimates:  req.Estimates,
		Sprints:    req.Sprints,
	})

	projected, err := kanban.Project(in)
	if errors.Is(err, kanban.ErrUnknownGroupBy) {
		return nil, invalidf("unknown group_by %q", req.GroupBy)
	}
	if err != nil {
		return nil, err
	}

	stateByID := make(map[string]*primary.State, len(states))
	for _, st := range states {
		stateByID[st.ID] = toState(st)
	}
	columns := func(cols []kanban.Column) []*primary.KanbanColumn {
		out := make([]*primary.KanbanColumn, len(cols))
		for i, c := range cols {
			col := &primary.KanbanColumn{State: stateByID[c.State.ID], Tasks: make([]*primary.Task, 0, len(c.Cards))}
			for _, card := range c.Cards {
				col.Tasks = append(col.Tasks, byID[card.ID])
			}
			out[i] = col
		}
		return out
	}

	out := &primary.Kanban{GroupBy: projected.GroupBy}
	if projected.GroupBy == kanban.GroupByNone {
		out.Columns = columns(projected.Columns)
		return out, nil
	}
	for _, lane := range projected.Lanes {
		out.Lanes = append(out.Lanes, &primary.KanbanLane{
			GroupKey: lane.Key,
			Label:    lane.Label,
			None:     lane.None,
			States:   columns(lane.Columns),
		})
	}
	return out, nil
}

// AddComment adds a user comment to a task.
func (s *TaskServiceImpl) AddComment(ctx context.Context, req primary.AddCommentRequest) (*primary.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, invalidf("comment content is required")
	}

	t, err := taskOnBoard(ctx, s.taskRepo, req.BoardID, req.TaskID)
	if err != nil {
		return nil, err
	}

	c := &secondary.CommentRecord{
		ID:          uuid.NewString(),
		TaskID:      t.ID,
		AuthorID:    ctxutil.ActorFromContext(ctx),
		Content:     content,
		CommentType: CommentUpdate,
		CreatedAt:   s.now(),
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return toComment(c), nil
}

// ListComments lists comments of a task, newest first. commentType is
// "all" (or empty), "update" or "activity".
func (s *TaskServiceImpl) ListComments(ctx context.Context, boardID, taskID, commentType string) ([]*primary.Comment, error) {
	switch commentType {
	case "", "all":
		commentType = ""
	case CommentUpdate, CommentActivity:
	default:
		return nil, invalidf("unknown comment type %q (all, update or activity)", commentType)
	}

	t, err := taskOnBoard(ctx, s.taskRepo, boardID, taskID)
	if err != nil {
		return nil, err
	}
	records, err := s.comments.ListForTask(ctx, t.ID, commentType)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.Comment, len(records))
	for i, c := range records {
		out[i] = toComment(c)
	}
	return out, nil
}

// validate checks the references of a task against its board.
func (s *TaskServiceImpl) validate(ctx context.Context, t *secondary.TaskRecord) error {
	gc := task.CreateTaskContext{
		BoardID:    t.BoardID,
		Summary:    t.Summary,
		TaskType:   t.TaskType,
		StateID:    t.StateID,
		PriorityID: t.PriorityID,
		AssigneeID: t.AssigneeID,
		SprintID:   t.SprintID,
	}

	if _, err := stateOnBoard(ctx, s.stateRepo, t.BoardID, t.StateID); err == nil {
		gc.StateExists = true
	} else if !isNotFound(err) {
		return err
	}

	if t.PriorityID != "" {
		priorities, err := s.catalog.ListPriorities(ctx, t.BoardID)
		if err != nil {
			return err
		}
		gc.PriorityExists = slices.ContainsFunc(priorities, func(p *secondary.PriorityRecord) bool { return p.ID == t.PriorityID })
	}

	if t.AssigneeID != "" {
		ok, err := s.boardRepo.IsMember(ctx, t.BoardID, t.AssigneeID)
		if err != nil {
			return err
		}
		gc.AssigneeMember = ok
	}

	if t.SprintID != "" {
		sp, err := s.sprintRepo.GetByID(ctx, t.SprintID)
		if err != nil && !isNotFound(err) {
			return err
		}
		gc.SprintExists = sp != nil && sp.BoardID == t.BoardID && sp.ArchivedAt == nil
	}

	if err := invalid(task.CanCreateTask(gc).Error()); err != nil {
		return err
	}

	if t.EstimateID != "" {
		estimates, err := s.catalog.ListEstimates(ctx, t.BoardID)
		if err != nil {
			return err
		}
		if !slices.ContainsFunc(estimates, func(e *secondary.EstimateRecord) bool { return e.ID == t.EstimateID }) {
			return invalidf("estimate %s not found on board %s", t.EstimateID, t.BoardID)
		}
	}

	if t.ParentID != "" {
		if t.ParentID == t.ID {
			return invalidf("task cannot be its own parent")
		}
		if _, err := taskOnBoard(ctx, s.taskRepo, t.BoardID, t.ParentID); err != nil {
			if isNotFound(err) {
				return invalidf("parent task %s not found on board %s", t.ParentID, t.BoardID)
			}
			return err
		}
	}
	return nil
}

func (s *TaskServiceImpl) validateLabels(ctx context.Context, boardID string, labelIDs []string) error {
	if len(labelIDs) == 0 {
		return nil
	}
	labels, err := s.catalog.ListLabels(ctx, boardID)
	if err != nil {
		return err
	}
	for _, id := range labelIDs {
		if !slices.ContainsFunc(labels, func(l *secondary.LabelRecord) bool { return l.ID == id }) {
			return invalidf("label %s not found on board %s", id, boardID)
		}
	}
	return nil
}

// describe returns one activity clause per changed field, in a fixed order.
func (s *TaskServiceImpl) describe(ctx context.Context, before, after *secondary.TaskRecord) ([]string, error) {
	var clauses []string

	if before.Summary != after.Summary {
		clauses = append(clauses, "updated the summary")
	}
	if before.Description != after.Description {
		clauses = append(clauses, "updated the description")
	}
	if before.TaskType != after.TaskType {
		clauses = append(clauses, fmt.Sprintf("changed the type to %s", task.TypeLabel(after.TaskType)))
	}
	if before.StateID != after.StateID {
		st, err := s.stateRepo.GetByID(ctx, after.StateID)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, fmt.Sprintf("changed the state to %s", st.Name))
	}
	if before.PriorityID != after.PriorityID {
		if after.PriorityID == "" {
			clauses = append(clauses, "removed the priority")
		} else {
			priorities, err := s.catalog.ListPriorities(ctx, after.BoardID)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, fmt.Sprintf("set the priority to %s", priorityName(priorities, after.PriorityID)))
		}
	}
	if before.AssigneeID != after.AssigneeID {
		if after.AssigneeID == "" {
			clauses = append(clauses, "unassigned the task")
		} else {
			members, err := s.boardRepo.ListMembers(ctx, after.BoardID)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, fmt.Sprintf("assigned the task to %s", memberName(members, after.AssigneeID)))
		}
	}
	if before.EstimateID != after.EstimateID {
		if after.EstimateID == "" {
			clauses = append(clauses, "removed the estimate")
		} else {
			estimates, err := s.catalog.ListEstimates(ctx, after.BoardID)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, fmt.Sprintf("set the estimate to %s", estimateValue(estimates, after.EstimateID)))
		}
	}
	if before.SprintID != after.SprintID {
		if after.SprintID == "" {
			clauses = append(clauses, "removed the task from its sprint")
		} else {
			sp, err := s.sprintRepo.GetByID(ctx, after.SprintID)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, fmt.Sprintf("moved the task to sprint %s", sp.Name))
		}
	}
	if !slices.Equal(sortedCopy(before.LabelIDs), after.LabelIDs) {
		clauses = append(clauses, "updated the labels")
	}
	return clauses, nil
}

func priorityName(ps []*secondary.PriorityRecord, id string) string {
	for _, p := range ps {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func memberName(ms []*secondary.MemberRecord, id string) string {
	for _, m := range ms {
		if m.UserID == id {
			return m.DisplayName
		}
	}
	return id
}

func estimateValue(es []*secondary.EstimateRecord, id string) string {
	for _, e := range es {
		if e.ID == id {
			return e.Value
		}
	}
	return id
}

func sortedCopy(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

func toTask(r *secondary.TaskRecord) *primary.Task {
	labels := r.LabelIDs
	if labels == nil {
		labels = []string{}
	}
	return &primary.Task{
		ID:          r.ID,
		BoardID:     r.BoardID,
		ParentID:    r.ParentID,
		StateID:     r.StateID,
		PriorityID:  r.PriorityID,
		AssigneeID:  r.AssigneeID,
		SprintID:    r.SprintID,
		EstimateID:  r.EstimateID,
		TaskType:    r.TaskType,
		Number:      r.Number,
		Name:        r.Name,
		Summary:     r.Summary,
		Description: r.Description,
		Sequence:    r.Sequence,
		LabelIDs:    labels,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		ArchivedAt:  r.ArchivedAt,
	}
}

func toCard(r *secondary.TaskRecord) kanban.Card {
	return kanban.Card{
		ID:         r.ID,
		Name:       r.Name,
		Summary:    r.Summary,
		StateID:    r.StateID,
		AssigneeID: r.AssigneeID,
		PriorityID: r.PriorityID,
		SprintID:   r.SprintID,
		EstimateID: r.EstimateID,
		TaskType:   r.TaskType,
		LabelIDs:   r.LabelIDs,
		Sequence:   r.Sequence,
		CreatedAt:  r.CreatedAt,
	}
}

func toComment(c *secondary.CommentRecord) *primary.Comment {
	return &primary.Comment{
		ID:          c.ID,
		TaskID:      c.TaskID,
		AuthorID:    c.AuthorID,
		Content:     c.Content,
		CommentType: c.CommentType,
		CreatedAt:   c.CreatedAt,
	}
}

var _ primary.TaskService = (*TaskServiceImpl)(nil)
