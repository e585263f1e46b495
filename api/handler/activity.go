package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/api/transport"
	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/pkg/httpcontext"
	activityUC "github.com/Esraa999/TeamManagementTask/usecase/activity"
)

type ActivityHandler struct {
	baseHandler
	uc *activityUC.Service
}

func NewActivityHandler(uc *activityUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List all activities
// @Tags activities
// @Router /api/v1/activities [get]
func (h *ActivityHandler) GetActivities(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activities, err := h.uc.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, activities, "")
}

// @Summary Get one activity
// @Tags activities
// @Router /api/v1/activities/{id} [get]
func (h *ActivityHandler) GetActivity(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	activity, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, activity, "")
}

// @Summary Create activity
// @Tags activities
// @Router /api/v1/activities [post]
func (h *ActivityHandler) CreateActivity(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == 0 {
		return
	}

	var req transport.CreateActivityRequest
	if !h.decode(ctx, &req) {
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), "start_date must be RFC3339"))
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), "end_date must be RFC3339"))
		return
	}

	input := activityUC.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, input, actorID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created, "Activity created successfully")
}

// @Summary Delete activity
// @Tags activities
// @Router /api/v1/activities/{id} [delete]
func (h *ActivityHandler) DeleteActivity(ctx *fasthttp.RequestCtx) {
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

	soft, err := h.uc.Delete(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	message := "Activity deleted successfully"
	if soft {
		message = "Activity deactivated; existing tasks keep their history"
	}
	h.respondSuccess(ctx, http.StatusOK, nil, message)
}
