package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/example/taskboard/internal/ports/primary"
	"github.com/example/taskboard/internal/version"
)

type handler struct {
	svc    Services
	logger *log.Logger
}

type sequenceResponse struct {
	Sequence float64 `json:"sequence"`
}

type memberRequest struct {
	UserID string `json:"userId"`
}

type commentRequest struct {
	Content string `json:"content"`
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, svc Services, auth *Auth, logger *log.Logger) {
	h := &handler{svc: svc, logger: logger}

	e.GET("/healthz", healthz)

	g := e.Group("/api", ActorMiddleware(auth))

	g.POST("/users", h.createUser)
	g.GET("/users", h.listUsers)
	g.GET("/users/:userID", h.getUser)

	g.POST("/workspaces", h.createWorkspace)
	g.GET("/workspaces", h.listWorkspaces)
	g.GET("/workspaces/:workspaceID", h.getWorkspace)
	g.POST("/workspaces/:workspaceID/members", h.addWorkspaceMember)
	g.POST("/workspaces/:workspaceID/boards", h.createBoard)
	g.GET("/workspaces/:workspaceID/boards", h.listBoards)

	b := g.Group("/boards/:boardID")
	b.GET("", h.getBoard)
	b.GET("/metadata", h.getMetadata)
	b.GET("/members", h.listBoardMembers)
	b.POST("/members", h.addBoardMember)
	b.POST("/labels", h.createLabel)
	b.GET("/priorities", h.listPriorities)
	b.POST("/priorities", h.createPriority)
	b.PATCH("/priorities/:priorityID", h.updatePriority)
	b.DELETE("/priorities/:priorityID", h.deletePriority)

	b.GET("/states", h.listStates)
	b.POST("/states", h.createState)
	b.PATCH("/states/:stateID", h.updateState)
	b.POST("/states/:stateID/reorder", h.reorderState)

	b.GET("/kanban", h.kanban)
	b.GET("/tasks", h.listTasks)
	b.POST("/tasks", h.createTask)
	b.POST("/tasks/bulk-state", h.bulkMoveTasks)
	b.GET("/tasks/:taskID", h.getTask)
	b.PATCH("/tasks/:taskID", h.updateTask)
	b.POST("/tasks/:taskID/sequence", h.reorderTask)
	b.POST("/tasks/:taskID/archive", h.archiveTask)
	b.POST("/tasks/:taskID/restore", h.restoreTask)
	b.GET("/tasks/:taskID/comments", h.listComments)
	b.POST("/tasks/:taskID/comments", h.addComment)

	b.GET("/sprints", h.listSprints)
	b.POST("/sprints", h.createSprint)
	b.POST("/sprints/:sprintID/activate", h.activateSprint)
	b.POST("/sprints/:sprintID/archive", h.archiveSprint)
	b.DELETE("/sprints/:sprintID", h.deleteSprint)
	b.GET("/sprints/:sprintID/burndown", h.burndown)
}

type healthResponse struct {
	Status string `json:"status"`
	version.Info
}

func healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "ok", Info: version.Get()})
}

func decode(c echo.Context, v any) error {
	return c.Echo().JSONSerializer.Deserialize(c, v)
}

// Users and workspaces

func (h *handler) createUser(c echo.Context) error {
	var req primary.CreateUserRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	u, err := h.svc.Users.CreateUser(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *handler) listUsers(c echo.Context) error {
	users, err := h.svc.Users.ListUsers(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *handler) getUser(c echo.Context) error {
	u, err := h.svc.Users.GetUser(c.Request().Context(), c.Param("userID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *handler) createWorkspace(c echo.Context) error {
	var req primary.CreateWorkspaceRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	ws, err := h.svc.Workspaces.CreateWorkspace(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, ws)
}

func (h *handler) listWorkspaces(c echo.Context) error {
	list, err := h.svc.Workspaces.ListWorkspaces(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *handler) getWorkspace(c echo.Context) error {
	ws, err := h.svc.Workspaces.GetWorkspace(c.Request().Context(), c.Param("workspaceID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ws)
}

func (h *handler) addWorkspaceMember(c echo.Context) error {
	var req memberRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	if err := h.svc.Workspaces.AddMember(c.Request().Context(), c.Param("workspaceID"), req.UserID); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Boards

func (h *handler) createBoard(c echo.Context) error {
	var req primary.CreateBoardRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.WorkspaceID = c.Param("workspaceID")
	b, err := h.svc.Boards.CreateBoard(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *handler) listBoards(c echo.Context) error {
	list, err := h.svc.Boards.ListBoards(c.Request().Context(), c.Param("workspaceID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *handler) getBoard(c echo.Context) error {
	b, err := h.svc.Boards.GetBoard(c.Request().Context(), c.Param("boardID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handler) getMetadata(c echo.Context) error {
	meta, err := h.svc.Boards.GetMetadata(c.Request().Context(), c.Param("boardID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, meta)
}

func (h *handler) listBoardMembers(c echo.Context) error {
	members, err := h.svc.Boards.ListMembers(c.Request().Context(), c.Param("boardID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *handler) addBoardMember(c echo.Context) error {
	var req primary.AddMemberRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	if err := h.svc.Boards.AddMember(c.Request().Context(), req); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) createLabel(c echo.Context) error {
	var req primary.CreateLabelRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	l, err := h.svc.Boards.CreateLabel(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *handler) listPriorities(c echo.Context) error {
	ps, err := h.svc.Boards.ListPriorities(c.Request().Context(), c.Param("boardID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, ps)
}

func (h *handler) createPriority(c echo.Context) error {
	var req primary.CreatePriorityRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	p, err := h.svc.Boards.CreatePriority(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *handler) updatePriority(c echo.Context) error {
	var req primary.UpdatePriorityRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	req.PriorityID = c.Param("priorityID")
	p, err := h.svc.Boards.UpdatePriority(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *handler) deletePriority(c echo.Context) error {
	if err := h.svc.Boards.DeletePriority(c.Request().Context(), c.Param("boardID"), c.Param("priorityID")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// States

func (h *handler) listStates(c echo.Context) error {
	states, err := h.svc.States.ListStates(c.Request().Context(), c.Param("boardID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, states)
}

func (h *handler) createState(c echo.Context) error {
	var req primary.CreateStateRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	st, err := h.svc.States.CreateState(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *handler) updateState(c echo.Context) error {
	var req primary.UpdateStateRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	req.StateID = c.Param("stateID")
	st, err := h.svc.States.UpdateState(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *handler) reorderState(c echo.Context) error {
	var req primary.ReorderStateRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	req.StateID = c.Param("stateID")
	seq, err := h.svc.States.ReorderState(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, sequenceResponse{Sequence: seq})
}

// Tasks

func (h *handler) kanban(c echo.Context) error {
	q := c.QueryParams()
	req := primary.KanbanRequest{
		BoardID:    c.Param("boardID"),
		ParentID:   q.Get("parentId"),
		GroupBy:    q.Get("groupBy"),
		Assignees:  q["assignee"],
		TaskTypes:  q["taskType"],
		Priorities: q["priority"],
		Labels:     q["label"],
		Estimates:  q["estimate"],
		Sprints:    q["sprint"],
	}
	board, err := h.svc.Tasks.Kanban(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, board)
}

func (h *handler) listTasks(c echo.Context) error {
	tasks, err := h.svc.Tasks.ListTasks(c.Request().Context(), primary.TaskFilters{
		BoardID:  c.Param("boardID"),
		ParentID: c.QueryParam("parentId"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *handler) createTask(c echo.Context) error {
	var req primary.CreateTaskRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	task, err := h.svc.Tasks.CreateTask(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *handler) getTask(c echo.Context) error {
	task, err := h.svc.Tasks.GetTask(c.Request().Context(), c.Param("boardID"), c.Param("taskID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *handler) updateTask(c echo.Context) error {
	var req primary.UpdateTaskRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	req.TaskID = c.Param("taskID")
	resp, err := h.svc.Tasks.UpdateTask(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handler) reorderTask(c echo.Context) error {
	var req primary.ReorderTaskRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	req.TaskID = c.Param("taskID")
	seq, err := h.svc.Reorder.ReorderTask(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, sequenceResponse{Sequence: seq})
}

func (h *handler) bulkMoveTasks(c echo.Context) error {
	var req primary.BulkMoveTasksRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	tasks, err := h.svc.Reorder.BulkMoveTasks(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *handler) archiveTask(c echo.Context) error {
	if err := h.svc.Tasks.ArchiveTask(c.Request().Context(), c.Param("boardID"), c.Param("taskID")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) restoreTask(c echo.Context) error {
	if err := h.svc.Tasks.RestoreTask(c.Request().Context(), c.Param("boardID"), c.Param("taskID")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) listComments(c echo.Context) error {
	comments, err := h.svc.Tasks.ListComments(c.Request().Context(), c.Param("boardID"), c.Param("taskID"), c.QueryParam("type"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *handler) addComment(c echo.Context) error {
	var body commentRequest
	if err := decode(c, &body); err != nil {
		return h.fail(c, err)
	}
	comment, err := h.svc.Tasks.AddComment(c.Request().Context(), primary.AddCommentRequest{
		BoardID: c.Param("boardID"),
		TaskID:  c.Param("taskID"),
		Content: body.Content,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, comment)
}

// Sprints

func (h *handler) listSprints(c echo.Context) error {
	list, err := h.svc.Sprints.ListSprints(c.Request().Context(), c.Param("boardID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *handler) createSprint(c echo.Context) error {
	var req primary.CreateSprintRequest
	if err := decode(c, &req); err != nil {
		return h.fail(c, err)
	}
	req.BoardID = c.Param("boardID")
	sp, err := h.svc.Sprints.CreateSprint(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, sp)
}

func (h *handler) activateSprint(c echo.Context) error {
	sp, err := h.svc.Sprints.ActivateSprint(c.Request().Context(), c.Param("boardID"), c.Param("sprintID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *handler) archiveSprint(c echo.Context) error {
	if err := h.svc.Sprints.ArchiveSprint(c.Request().Context(), c.Param("boardID"), c.Param("sprintID")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) deleteSprint(c echo.Context) error {
	if err := h.svc.Sprints.DeleteSprint(c.Request().Context(), c.Param("boardID"), c.Param("sprintID")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) burndown(c echo.Context) error {
	bd, err := h.svc.Sprints.Burndown(c.Request().Context(), c.Param("boardID"), c.Param("sprintID"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, bd)
}
