package app

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/taskboard/internal/ctxutil"
	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/ports/secondary"
)

// Workspace member roles.
const (
	WorkspaceOwner  = "owner"
	WorkspaceMember = "member"
)

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,47}$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{2,32}$`)
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9]+`)
)

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userRepo secondary.UserRepository
	now      func() time.Time
}

// NewUserService creates a new UserService with injected dependencies.
func NewUserService(userRepo secondary.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{userRepo: userRepo, now: utcNow}
}

// CreateUser registers a new user. The display name defaults to the username.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	username := strings.TrimSpace(req.Username)
	if !usernamePattern.MatchString(username) {
		return nil, invalidf("invalid username %q (2-32 letters, digits, '.', '_' or '-')", username)
	}
	display := strings.TrimSpace(req.DisplayName)
	if display == "" {
		display = username
	}

	record := &secondary.UserRecord{
		ID:          uuid.NewString(),
		Username:    username,
		DisplayName: display,
		Email:       strings.TrimSpace(req.Email),
		CreatedAt:   s.now(),
	}
	if err := s.userRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return toUser(record), nil
}

// GetUser retrieves a user by ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID string) (*primary.User, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUser(u), nil
}

// ListUsers lists every user.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*primary.User, error) {
	records, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.User, len(records))
	for i, u := range records {
		out[i] = toUser(u)
	}
	return out, nil
}

// WorkspaceServiceImpl implements the WorkspaceService interface.
type WorkspaceServiceImpl struct {
	tx            secondary.Transactor
	userRepo      secondary.UserRepository
	workspaceRepo secondary.WorkspaceRepository
	now           func() time.Time
}

// NewWorkspaceService creates a new WorkspaceService with injected dependencies.
func NewWorkspaceService(
	tx secondary.Transactor,
	userRepo secondary.UserRepository,
	workspaceRepo secondary.WorkspaceRepository,
) *WorkspaceServiceImpl {
	return &WorkspaceServiceImpl{
		tx:            tx,
		userRepo:      userRepo,
		workspaceRepo: workspaceRepo,
		now:           utcNow,
	}
}

// CreateWorkspace creates a workspace and makes the acting user its owner.
func (s *WorkspaceServiceImpl) CreateWorkspace(ctx context.Context, req primary.CreateWorkspaceRequest) (*primary.Workspace, error) {
	actor := ctxutil.ActorFromContext(ctx)
	if actor == "" {
		return nil, invalidf("an acting user is required to create a workspace")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("workspace name is required")
	}
	slug := req.Slug
	if slug == "" {
		slug = Slugify(name)
	}
	if !slugPattern.MatchString(slug) {
		return nil, invalidf("invalid workspace slug %q", slug)
	}

	var created *secondary.WorkspaceRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.userRepo.GetByID(ctx, actor); err != nil {
			return err
		}
		created = &secondary.WorkspaceRecord{
			ID:        uuid.NewString(),
			Name:      name,
			Slug:      slug,
			CreatedBy: actor,
			CreatedAt: s.now(),
		}
		if err := s.workspaceRepo.Create(ctx, created); err != nil {
			return err
		}
		return s.workspaceRepo.AddMember(ctx, created.ID, actor, WorkspaceOwner)
	})
	if err != nil {
		return nil, err
	}
	return toWorkspace(created), nil
}

// GetWorkspace retrieves a workspace by ID.
func (s *WorkspaceServiceImpl) GetWorkspace(ctx context.Context, workspaceID string) (*primary.Workspace, error) {
	ws, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return toWorkspace(ws), nil
}

// ListWorkspaces lists workspaces the acting user belongs to.
func (s *WorkspaceServiceImpl) ListWorkspaces(ctx context.Context) ([]*primary.Workspace, error) {
	actor := ctxutil.ActorFromContext(ctx)
	if actor == "" {
		return nil, invalidf("an acting user is required to list workspaces")
	}
	records, err := s.workspaceRepo.ListForUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := make([]*primary.Workspace, len(records))
	for i, ws := range records {
		out[i] = toWorkspace(ws)
	}
	return out, nil
}

// AddMember adds a user to a workspace.
func (s *WorkspaceServiceImpl) AddMember(ctx context.Context, workspaceID, userID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.workspaceRepo.GetByID(ctx, workspaceID); err != nil {
			return err
		}
		if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
			return err
		}
		member, err := s.workspaceRepo.IsMember(ctx, workspaceID, userID)
		if err != nil || member {
			return err
		}
		return s.workspaceRepo.AddMember(ctx, workspaceID, userID, WorkspaceMember)
	})
}

// Slugify derives a URL-safe slug from a name.
func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 48 {
		slug = strings.TrimRight(slug[:48], "-")
	}
	return slug
}

func toUser(u *secondary.UserRecord) *primary.User {
	return &primary.User{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
	}
}

func toWorkspace(ws *secondary.WorkspaceRecord) *primary.Workspace {
	return &primary.Workspace{
		ID:        ws.ID,
		Name:      ws.Name,
		Slug:      ws.Slug,
		CreatedBy: ws.CreatedBy,
		CreatedAt: ws.CreatedAt,
	}
}

var (
	_ primary.UserService      = (*UserServiceImpl)(nil)
	_ primary.WorkspaceService = (*WorkspaceServiceImpl)(nil)
)
