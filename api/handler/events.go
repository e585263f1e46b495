package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/api/transport"
	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/internal/infrastructure/eventlog"
	"github.com/Esraa999/TeamManagementTask/pkg/httpcontext"
)

const defaultEventLimit = 50

// EventsHandler exposes the broadcast audit log for operators.
type EventsHandler struct {
	baseHandler
	store *eventlog.Store
}

func NewEventsHandler(store *eventlog.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		store:       store,
	}
}

// @Summary Recent broadcast events
// @Tags admin
// @Router /api/v1/admin/events [get]
func (h *EventsHandler) Recent(ctx *fasthttp.RequestCtx) {
	limit := defaultEventLimit
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.respondJSON(ctx, http.StatusBadRequest,
				transport.NewError(string(domain.ErrCodeInvalid), "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.store.Recent(limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries, "")
}
