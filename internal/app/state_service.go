package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/core/board"
	"github.com/example/taskboard/internal/core/sequence"
	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/metrics"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// StateServiceImpl implements the StateService interface.
type StateServiceImpl struct {
	tx        secondary.Transactor
	boardRepo secondary.BoardRepository
	stateRepo secondary.StateRepository
	cache     secondary.BoardMetadataCache
	logger    *log.Logger
	now       func() time.Time
}

// NewStateService creates a new StateService with injected dependencies.
func NewStateService(
	tx secondary.Transactor,
	boardRepo secondary.BoardRepository,
	stateRepo secondary.StateRepository,
	cache secondary.BoardMetadataCache,
	logger *log.Logger,
) *StateServiceImpl {
	return &StateServiceImpl{
		tx:        tx,
		boardRepo: boardRepo,
		stateRepo: stateRepo,
		cache:     cache,
		logger:    logger,
		now:       utcNow,
	}
}

// CreateState appends a state after the board's last state.
func (s *StateServiceImpl) CreateState(ctx context.Context, req primary.CreateStateRequest) (*primary.State, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("state name is required")
	}
	category := req.Category
	if category == "" {
		category = board.CategoryOpen
	}
	if !board.ValidCategory(category) {
		return nil, invalidf("unknown state category %q (open, active or completed)", category)
	}

	var created *secondary.StateRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.boardRepo.GetByID(ctx, req.BoardID); err != nil {
			return err
		}
		tail, err := s.stateRepo.TailSequence(ctx, req.BoardID)
		if err != nil {
			return err
		}

		created = &secondary.StateRecord{
			ID:          uuid.NewString(),
			BoardID:     req.BoardID,
			Name:        name,
			Description: req.Description,
			Category:    category,
			Sequence:    sequence.Append(tail, 1),
			CreatedAt:   s.now(),
		}
		if err := s.stateRepo.Create(ctx, created); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, req.BoardID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toState(created), nil
}

// UpdateState changes name, description and/or category.
func (s *StateServiceImpl) UpdateState(ctx context.Context, req primary.UpdateStateRequest) (*primary.State, error) {
	var updated *secondary.StateRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		st, err := stateOnBoard(ctx, s.stateRepo, req.BoardID, req.StateID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return invalidf("state name is required")
			}
			st.Name = name
		}
		if req.Description != nil {
			st.Description = *req.Description
		}
		if req.Category != nil {
			if !board.ValidCategory(*req.Category) {
				return invalidf("unknown state category %q (open, active or completed)", *req.Category)
			}
			st.Category = *req.Category
		}

		if err := s.stateRepo.Update(ctx, st); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, req.BoardID)
		updated = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toState(updated), nil
}

// ListStates lists states of a board in display order.
func (s *StateServiceImpl) ListStates(ctx context.Context, boardID string) ([]*primary.State, error) {
	if _, err := s.boardRepo.GetByID(ctx, boardID); err != nil {
		return nil, err
	}
	records, err := s.stateRepo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.State, len(records))
	for i, r := range records {
		out[i] = toState(r)
	}
	return out, nil
}

// ReorderState moves a state between two neighbouring states of the same board.
func (s *StateServiceImpl) ReorderState(ctx context.Context, req primary.ReorderStateRequest) (float64, error) {
	var result float64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		st, err := stateOnBoard(ctx, s.stateRepo, req.BoardID, req.StateID)
		if err != nil {
			return err
		}

		prev, err := s.neighbor(ctx, "previous", req.PreviousStateID, st)
		if err != nil {
			return err
		}
		next, err := s.neighbor(ctx, "next", req.NextStateID, st)
		if err != nil {
			return err
		}

		seq := sequence.Allocate(prev, next)
		if sequence.Exhausted(prev, next, seq) {
			prev, next, err = s.renumber(ctx, st, req.PreviousStateID, req.NextStateID)
			if err != nil {
				return err
			}
			seq = sequence.Allocate(prev, next)
		}

		if err := s.stateRepo.UpdateSequence(ctx, st.ID, seq); err != nil {
			return err
		}
		s.invalidateOnCommit(ctx, req.BoardID)
		result = seq
		return nil
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

func (s *StateServiceImpl) neighbor(ctx context.Context, role, id string, moving *secondary.StateRecord) (*float64, error) {
	if id == "" {
		return nil, nil
	}
	if id == moving.ID {
		return nil, &InvalidNeighborError{Role: role, ID: id, Reason: fmt.Sprintf("%s state %s is the state being moved", role, id)}
	}

	n, err := s.stateRepo.GetByID(ctx, id)
	if isNotFound(err) {
		return nil, &InvalidNeighborError{Role: role, ID: id, Reason: fmt.Sprintf("%s state %s not found", role, id)}
	}
	if err != nil {
		return nil, err
	}
	if n.BoardID != moving.BoardID {
		return nil, &InvalidNeighborError{Role: role, ID: id, Reason: fmt.Sprintf("%s state %s belongs to another board", role, id)}
	}
	return sequence.Ptr(n.Sequence), nil
}

func (s *StateServiceImpl) renumber(ctx context.Context, moving *secondary.StateRecord, prevID, nextID string) (*float64, *float64, error) {
	all, err := s.stateRepo.ListByBoard(ctx, moving.BoardID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(log.Fields{
		"board_id":   moving.BoardID,
		"states":     len(all),
		"request_id": ctxutil.RequestIDFromContext(ctx),
	}).Warn("state sequences exhausted, renumbering board")

	var others []*secondary.StateRecord
	for _, st := range all {
		if st.ID != moving.ID {
			others = append(others, st)
		}
	}
	fresh := make(map[string]float64, len(others))
	for i, seq := range sequence.Renumber(len(others)) {
		if err := s.stateRepo.UpdateSequence(ctx, others[i].ID, seq); err != nil {
			return nil, nil, err
		}
		fresh[others[i].ID] = seq
	}
	metrics.SequenceRenumbers.WithLabelValues(metrics.GroupStates).Inc()

	var prev, next *float64
	if v, ok := fresh[prevID]; ok {
		prev = sequence.Ptr(v)
	}
	if v, ok := fresh[nextID]; ok {
		next = sequence.Ptr(v)
	}
	return prev, next, nil
}

func (s *StateServiceImpl) invalidateOnCommit(ctx context.Context, boardID string) {
	s.tx.OnCommit(ctx, func(ctx context.Context) { s.cache.Invalidate(ctx, boardID) })
}

func toState(r *secondary.StateRecord) *primary.State {
	return &primary.State{
		ID:          r.ID,
		BoardID:     r.BoardID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Sequence:    r.Sequence,
		CreatedAt:   r.CreatedAt,
	}
}

var _ primary.StateService = (*StateServiceImpl)(nil)
