package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/api/transport"
	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/pkg/httpcontext"
	taskUC "github.com/Esraa999/TeamManagementTask/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.Service
}

func NewTaskHandler(uc *taskUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List all tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.GetAll(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks, "")
}

// @Summary Get one task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task, "")
}

// @Summary List tasks by status
// @Tags tasks
// @Router /api/v1/tasks/status/{status} [get]
func (h *TaskHandler) GetTasksByStatus(ctx *fasthttp.RequestCtx) {
	status, _ := ctx.UserValue("status").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.GetByStatus(stdCtx, status)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks, "")
}

// @Summary List a user's assigned tasks
// @Tags tasks
// @Router /api/v1/users/{id}/tasks [get]
func (h *TaskHandler) GetUserTasks(ctx *fasthttp.RequestCtx) {
	userID, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.GetByUser(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks, "")
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == 0 {
		return
	}

	var req transport.CreateTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), "due_date must be RFC3339"))
		return
	}

	input := taskUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		ActivityID:  req.ActivityID,
		AssigneeID:  req.AssigneeID,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     dueDate,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, input, actorID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created, "Task created successfully")
}

// @Summary Update task status
// @Tags tasks
// @Router /api/v1/tasks/{id}/status [put]
func (h *TaskHandler) UpdateTaskStatus(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == 0 {
		return
	}
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	var req transport.UpdateTaskStatusRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateStatus(stdCtx, id, req.Status, actorID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated, "Task status updated successfully")
}

// @Summary Assign task to a user
// @Tags tasks
// @Router /api/v1/tasks/{id}/assign [put]
func (h *TaskHandler) AssignTask(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == 0 {
		return
	}
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	var req transport.AssignTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Assign(stdCtx, id, req.UserID, actorID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated, "Task assigned successfully")
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == 0 {
		return
	}
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil, "Task deleted successfully")
}

// parseDate accepts an empty string as "no date"; anything non-empty must
// be valid RFC3339.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
