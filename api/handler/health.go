package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/api/transport"
	"github.com/Esraa999/TeamManagementTask/internal/infrastructure/monitor"
	"github.com/Esraa999/TeamManagementTask/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"services": map[string]interface{}{
			"postgresql": status.PostgreSQL,
			"redis":      status.Redis,
			"event_log": map[string]interface{}{
				"online": status.EventLog,
				"size":   status.EventLogSize,
			},
		},
		"observers": status.Observers,
	}

	if status.PostgreSQL && status.Redis {
		h.respondSuccess(ctx, http.StatusOK, payload, "")
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy"))
}
