package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/api/transport"
	"github.com/Esraa999/TeamManagementTask/pkg/httpcontext"
	userUC "github.com/Esraa999/TeamManagementTask/usecase/user"
)

type UserHandler struct {
	baseHandler
	uc *userUC.Service
}

func NewUserHandler(uc *userUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List all users
// @Tags users
// @Router /api/v1/users [get]
func (h *UserHandler) GetUsers(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	users, err := h.uc.List(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, users, "")
}

// @Summary Get one user
// @Tags users
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx, "id")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Get(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, user, "")
}

// @Summary Create user
// @Tags users
// @Router /api/v1/users [post]
func (h *UserHandler) CreateUser(ctx *fasthttp.RequestCtx) {
	actorID := h.actorID(ctx)
	if actorID == 0 {
		return
	}

	var req transport.CreateUserRequest
	if !h.decode(ctx, &req) {
		return
	}

	input := userUC.CreateInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, input)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created, "User created successfully")
}

// @Summary Deactivate user
// @Tags users
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) DeleteUser(ctx *fasthttp.RequestCtx) {
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
	h.respondSuccess(ctx, http.StatusOK, nil, "User deactivated successfully")
}
