package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/api/transport"
	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}, message string) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, message))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	h.respondJSON(ctx, status, transport.NewError(code, err.Error()))
}

// decode parses a request body while rejecting unknown fields.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, v interface{}) bool {
	dec := json.NewDecoder(bytes.NewReader(ctx.PostBody()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), "invalid request payload"))
		return false
	}
	return true
}

// actorID resolves the already-authenticated acting user injected by the
// auth middleware. Zero means the request carried no identity.
func (h baseHandler) actorID(ctx *fasthttp.RequestCtx) int64 {
	raw := string(ctx.Request.Header.Peek("X-User-ID"))
	if raw == "" {
		h.respondJSON(ctx, http.StatusUnauthorized,
			transport.NewError(string(domain.ErrCodeUnauthorized), "missing acting user"))
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondJSON(ctx, http.StatusUnauthorized,
			transport.NewError(string(domain.ErrCodeUnauthorized), "malformed acting user"))
		return 0
	}
	return id
}

// pathID extracts an integer path parameter.
func (h baseHandler) pathID(ctx *fasthttp.RequestCtx, name string) (int64, bool) {
	raw, _ := ctx.UserValue(name).(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), "missing or malformed id"))
		return 0, false
	}
	return id, true
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeEnum):
		return http.StatusBadRequest, string(domain.ErrCodeEnum)
	case domain.IsDomainError(err, domain.ErrCodeReference):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeReference)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeStorage):
		return http.StatusInternalServerError, string(domain.ErrCodeStorage)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
