package handler

import (
	"net/http"

	"github.com/fasthttp/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/api/transport"
	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/internal/hub"
	"github.com/Esraa999/TeamManagementTask/pkg/httpcontext"
)

type WSHandler struct {
	baseHandler
	hub      *hub.Hub
	upgrader websocket.FastHTTPUpgrader
}

func NewWSHandler(h *hub.Hub, adapter *httpcontext.Adapter, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		baseHandler: newBaseHandler(adapter, logger),
		hub:         h,
		upgrader: websocket.FastHTTPUpgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(ctx *fasthttp.RequestCtx) bool { return true },
		},
	}
}

// @Summary Upgrade to the event stream
// @Tags events
// @Router /ws [get]
func (h *WSHandler) Serve(ctx *fasthttp.RequestCtx) {
	err := h.upgrader.Upgrade(ctx, func(ws *websocket.Conn) {
		h.hub.ServeConn(ws)
	})
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), "websocket upgrade failed"))
	}
}
