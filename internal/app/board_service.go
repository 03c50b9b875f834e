package app

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/core/board"
	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// BoardServiceImpl implements the BoardService interface.
type BoardServiceImpl struct {
	tx            secondary.Transactor
	workspaceRepo secondary.WorkspaceRepository
	userRepo      secondary.UserRepository
	boardRepo     secondary.BoardRepository
	stateRepo     secondary.StateRepository
	catalog       secondary.CatalogRepository
	sprintRepo    secondary.SprintRepository
	cache         secondary.BoardMetadataCache
	logger        *log.Logger
	now           func() time.Time
}

// NewBoardService creates a new BoardService with injected dependencies.
func NewBoardService(
	tx secondary.Transactor,
	workspaceRepo secondary.WorkspaceRepository,
	userRepo secondary.UserRepository,
	boardRepo secondary.BoardRepository,
	stateRepo secondary.StateRepository,
	catalog secondary.CatalogRepository,
	sprintRepo secondary.SprintRepository,
	cache secondary.BoardMetadataCache,
	logger *log.Logger,
) *BoardServiceImpl {
	return &BoardServiceImpl{
		tx:            tx,
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		boardRepo:     boardRepo,
		stateRepo:     stateRepo,
		catalog:       catalog,
		sprintRepo:    sprintRepo,
		cache:         cache,
		logger:        logger,
		now:           utcNow,
	}
}

// CreateBoard creates a board and provisions, in the same transaction and in
// this order: the creator's admin membership, the default states, the
// default priorities and the default estimates.
func (s *BoardServiceImpl) CreateBoard(ctx context.Context, req primary.CreateBoardRequest) (*primary.Board, error) {
	actor := ctxutil.ActorFromContext(ctx)
	if actor == "" {
		return nil, invalidf("an acting user is required to create a board")
	}
	name := strings.TrimSpace(req.Name)
	key := strings.ToUpper(strings.TrimSpace(req.Key))

	var created *secondary.BoardRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		gc := board.CreateBoardContext{
			WorkspaceID: req.WorkspaceID,
			ActorID:     actor,
			Name:        name,
			Key:         key,
		}

		if _, err := s.workspaceRepo.GetByID(ctx, req.WorkspaceID); err == nil {
			gc.WorkspaceExists = true
		} else if !isNotFound(err) {
			return err
		}
		if gc.WorkspaceExists {
			member, err := s.workspaceRepo.IsMember(ctx, req.WorkspaceID, actor)
			if err != nil {
				return err
			}
			gc.ActorIsMember = member

			taken, err := s.boardRepo.KeyExists(ctx, req.WorkspaceID, key)
			if err != nil {
				return err
			}
			gc.KeyTaken = taken
		}

		if err := invalid(board.CanCreateBoard(gc).Error()); err != nil {
			return err
		}

		now := s.now()
		created = &secondary.BoardRecord{
			ID:          uuid.NewString(),
			WorkspaceID: req.WorkspaceID,
			Name:        name,
			Key:         key,
			Description: req.Description,
			CreatedBy:   actor,
			CreatedAt:   now,
		}
		if err := s.boardRepo.Create(ctx, created); err != nil {
			return err
		}

		if err := s.boardRepo.AddMember(ctx, &secondary.MemberRecord{
			BoardID: created.ID,
			UserID:  actor,
			Role:    board.RoleAdmin,
		}); err != nil {
			return err
		}

		catalog := board.DefaultCatalog()
		for _, st := range catalog.States {
			if err := s.stateRepo.Create(ctx, &secondary.StateRecord{
				ID:        uuid.NewString(),
				BoardID:   created.ID,
				Name:      st.Name,
				Category:  st.Category,
				Sequence:  st.Sequence,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		for _, p := range catalog.Priorities {
			if err := s.catalog.CreatePriority(ctx, &secondary.PriorityRecord{
				ID:       uuid.NewString(),
				BoardID:  created.ID,
				Name:     p.Name,
				Position: p.Position,
			}); err != nil {
				return err
			}
		}
		for _, e := range catalog.Estimates {
			if err := s.catalog.CreateEstimate(ctx, &secondary.EstimateRecord{
				ID:      uuid.NewString(),
				BoardID: created.ID,
				Key:     e.Key,
				Value:   e.Value,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(log.Fields{"board_id": created.ID, "key": created.Key}).Info("board created")
	return toBoard(created), nil
}

// GetBoard retrieves a board by ID.
func (s *BoardServiceImpl) GetBoard(ctx context.Context, boardID string) (*primary.Board, error) {
	b, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return toBoard(b), nil
}

// ListBoards lists boards of a workspace.
func (s *BoardServiceImpl) ListBoards(ctx context.Context, workspaceID string) ([]*primary.Board, error) {
	if _, err := s.workspaceRepo.GetByID(ctx, workspaceID); err != nil {
		return nil, err
	}
	records, err := s.boardRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.Board, len(records))
	for i, r := range records {
		out[i] = toBoard(r)
	}
	return out, nil
}

// AddMember adds a user to a board, or changes the role of an existing member.
func (s *BoardServiceImpl) AddMember(ctx context.Context, req primary.AddMemberRequest) error {
	role := req.Role
	if role == "" {
		role = board.RoleCollaborator
	}
	if !board.ValidRole(role) {
		return invalidf("unknown role %q", role)
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.boardRepo.GetByID(ctx, req.BoardID); err != nil {
			return err
		}
		if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
			return err
		}
		if err := s.boardRepo.AddMember(ctx, &secondary.MemberRecord{
			BoardID: req.BoardID,
			UserID:  req.UserID,
			Role:    role,
		}); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, req.BoardID)
		return nil
	})
}

// ListMembers lists board members.
func (s *BoardServiceImpl) ListMembers(ctx context.Context, boardID string) ([]*primary.Member, error) {
	if _, err := s.boardRepo.GetByID(ctx, boardID); err != nil {
		return nil, err
	}
	records, err := s.boardRepo.ListMembers(ctx, boardID)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.Member, len(records))
	for i, m := range records {
		out[i] = toMember(m)
	}
	return out, nil
}

// GetMetadata returns the board catalogue, served from the cache when present.
func (s *BoardServiceImpl) GetMetadata(ctx context.Context, boardID string) (*primary.BoardMetadata, error) {
	if meta, ok := s.cache.Get(ctx, boardID); ok {
		return toMetadata(meta), nil
	}

	meta, err := s.loadMetadata(ctx, boardID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, boardID, meta)
	return toMetadata(meta), nil
}

func (s *BoardServiceImpl) loadMetadata(ctx context.Context, boardID string) (*secondary.BoardMetadata, error) {
	b, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	meta := &secondary.BoardMetadata{Board: b}
	if meta.States, err = s.stateRepo.ListByBoard(ctx, boardID); err != nil {
		return nil, err
	}
	if meta.Priorities, err = s.catalog.ListPriorities(ctx, boardID); err != nil {
		return nil, err
	}
	if meta.Estimates, err = s.catalog.ListEstimates(ctx, boardID); err != nil {
		return nil, err
	}
	if meta.Labels, err = s.catalog.ListLabels(ctx, boardID); err != nil {
		return nil, err
	}
	if meta.Sprints, err = s.sprintRepo.ListByBoard(ctx, boardID, false); err != nil {
		return nil, err
	}
	if meta.Members, err = s.boardRepo.ListMembers(ctx, boardID); err != nil {
		return nil, err
	}
	return meta, nil
}

// CreateLabel adds a label to a board.
func (s *BoardServiceImpl) CreateLabel(ctx context.Context, req primary.CreateLabelRequest) (*primary.Label, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("label name is required")
	}

	var created *secondary.LabelRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.boardRepo.GetByID(ctx, req.BoardID); err != nil {
			return err
		}
		existing, err := s.catalog.ListLabels(ctx, req.BoardID)
		if err != nil {
			return err
		}
		for _, l := range existing {
			if strings.EqualFold(l.Name, name) {
				return invalidf("label %q already exists on board %s", name, req.BoardID)
			}
		}

		created = &secondary.LabelRecord{
			ID:      uuid.NewString(),
			BoardID: req.BoardID,
			Name:    name,
			Color:   req.Color,
		}
		if err := s.catalog.CreateLabel(ctx, created); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, req.BoardID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toLabel(created), nil
}

// ListPriorities lists the board's priorities by position.
func (s *BoardServiceImpl) ListPriorities(ctx context.Context, boardID string) ([]*primary.Priority, error) {
	if _, err := s.boardRepo.GetByID(ctx, boardID); err != nil {
		return nil, err
	}
	records, err := s.catalog.ListPriorities(ctx, boardID)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.Priority, 0, len(records))
	for _, p := range records {
		out = append(out, toPriority(p))
	}
	return out, nil
}

// CreatePriority appends a priority after the board's last one.
func (s *BoardServiceImpl) CreatePriority(ctx context.Context, req primary.CreatePriorityRequest) (*primary.Priority, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("priority name is required")
	}

	var created *secondary.PriorityRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.boardRepo.GetByID(ctx, req.BoardID); err != nil {
			return err
		}
		existing, err := s.catalog.ListPriorities(ctx, req.BoardID)
		if err != nil {
			return err
		}
		if err := uniquePriorityName(existing, "", name); err != nil {
			return err
		}

		last := 0
		for _, p := range existing {
			last = max(last, p.Position)
		}
		created = &secondary.PriorityRecord{
			ID:       uuid.NewString(),
			BoardID:  req.BoardID,
			Name:     name,
			Position: last + 1,
		}
		if err := s.catalog.CreatePriority(ctx, created); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, req.BoardID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPriority(created), nil
}

// UpdatePriority renames a priority and/or moves it to a 1-based position.
// Positions of the board's priorities are kept dense.
func (s *BoardServiceImpl) UpdatePriority(ctx context.Context, req primary.UpdatePriorityRequest) (*primary.Priority, error) {
	var updated *secondary.PriorityRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.boardRepo.GetByID(ctx, req.BoardID); err != nil {
			return err
		}
		existing, err := s.catalog.ListPriorities(ctx, req.BoardID)
		if err != nil {
			return err
		}
		idx := slices.IndexFunc(existing, func(p *secondary.PriorityRecord) bool { return p.ID == req.PriorityID })
		if idx < 0 {
			return notFound("priority", req.PriorityID)
		}
		target := existing[idx]

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return invalidf("priority name is required")
			}
			if err := uniquePriorityName(existing, target.ID, name); err != nil {
				return err
			}
			target.Name = name
		}

		order := existing
		if req.Position != nil {
			pos := *req.Position
			if pos < 1 || pos > len(existing) {
				return invalidf("priority position must be between 1 and %d", len(existing))
			}
			order = slices.Delete(slices.Clone(existing), idx, idx+1)
			order = slices.Insert(order, pos-1, target)
		}

		if err := s.writePositions(ctx, order, target.ID); err != nil {
			return err
		}
		updated = target
		s.invalidateOnCommit(ctx, req.BoardID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPriority(updated), nil
}

// DeletePriority removes a priority and closes the gap it leaves.
func (s *BoardServiceImpl) DeletePriority(ctx context.Context, boardID, priorityID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.catalog.GetPriority(ctx, priorityID)
		if err != nil {
			return err
		}
		if p.BoardID != boardID {
			return notFound("priority", priorityID)
		}
		if err := s.catalog.DeletePriority(ctx, p.ID); err != nil {
			return err
		}
		rest, err := s.catalog.ListPriorities(ctx, boardID)
		if err != nil {
			return err
		}
		if err := s.writePositions(ctx, rest, ""); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, boardID)
		s.logger.WithFields(log.Fields{"board_id": boardID, "priority": p.Name}).Info("priority deleted")
		return nil
	})
}

// writePositions stores positions 1..n in slice order. Rows already in place
// are skipped unless their ID is force.
func (s *BoardServiceImpl) writePositions(ctx context.Context, order []*secondary.PriorityRecord, force string) error {
	for i, p := range order {
		if p.Position == i+1 && p.ID != force {
			continue
		}
		p.Position = i + 1
		if err := s.catalog.UpdatePriority(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func uniquePriorityName(existing []*secondary.PriorityRecord, selfID, name string) error {
	for _, p := range existing {
		if p.ID != selfID && strings.EqualFold(p.Name, name) {
			return invalidf("priority %q already exists on board %s", name, p.BoardID)
		}
	}
	return nil
}

func (s *BoardServiceImpl) invalidateOnCommit(ctx context.Context, boardID string) {
	s.tx.OnCommit(ctx, func(ctx context.Context) { s.cache.Invalidate(ctx, boardID) })
}

func toBoard(r *secondary.BoardRecord) *primary.Board {
	return &primary.Board{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		Name:        r.Name,
		Key:         r.Key,
		Description: r.Description,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}

func toMember(m *secondary.MemberRecord) *primary.Member {
	return &primary.Member{
		UserID:      m.UserID,
		Username:    m.Username,
		DisplayName: m.DisplayName,
		Role:        m.Role,
	}
}

func toPriority(p *secondary.PriorityRecord) *primary.Priority {
	return &primary.Priority{ID: p.ID, Name: p.Name, Position: p.Position}
}

func toLabel(l *secondary.LabelRecord) *primary.Label {
	return &primary.Label{ID: l.ID, Name: l.Name, Color: l.Color}
}

func toMetadata(m *secondary.BoardMetadata) *primary.BoardMetadata {
	out := &primary.BoardMetadata{
		Board:      toBoard(m.Board),
		States:     make([]*primary.State, 0, len(m.States)),
		Priorities: make([]*primary.Priority, 0, len(m.Priorities)),
		Estimates:  make([]*primary.Estimate, 0, len(m.Estimates)),
		Labels:     make([]*primary.Label, 0, len(m.Labels)),
		Sprints:    make([]*primary.Sprint, 0, len(m.Sprints)),
		Members:    make([]*primary.Member, 0, len(m.Members)),
	}
	for _, st := range m.States {
		out.States = append(out.States, toState(st))
	}
	for _, p := range m.Priorities {
		out.Priorities = append(out.Priorities, toPriority(p))
	}
	for _, e := range m.Estimates {
		out.Estimates = append(out.Estimates, &primary.Estimate{ID: e.ID, Key: e.Key, Value: e.Value})
	}
	for _, l := range m.Labels {
		out.Labels = append(out.Labels, toLabel(l))
	}
	for _, sp := range m.Sprints {
		out.Sprints = append(out.Sprints, toSprint(sp))
	}
	for _, mem := range m.Members {
		out.Members = append(out.Members, toMember(mem))
	}
	return out
}

var _ primary.BoardService = (*BoardServiceImpl)(nil)
