package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/api/transport"
	"github.com/Esraa999/TeamManagementTask/domain"
	"github.com/Esraa999/TeamManagementTask/pkg/httpcontext"
	authUC "github.com/Esraa999/TeamManagementTask/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc         *authUC.Service
	jwtSecret  string
	jwtIssuer  string
	defaultTTL time.Duration
}

func NewAuthHandler(uc *authUC.Service, adapter *httpcontext.Adapter, logger *zap.Logger, secret, issuer string, ttl time.Duration) *AuthHandler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		jwtSecret:   secret,
		jwtIssuer:   issuer,
		defaultTTL:  ttl,
	}
}

type loginResponse struct {
	Token     string                 `json:"token"`
	SessionID string                 `json:"session_id"`
	ExpiresAt time.Time              `json:"expires_at"`
	User      *domain.UserProjection `json:"user"`
}

// @Summary Issue a new session
// @Tags auth
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if !h.decode(ctx, &req) {
		return
	}
	if req.Username == "" {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), "username is required"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, user, err := h.uc.Login(stdCtx, req.Username, h.defaultTTL)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	token, err := h.signToken(session, user)
	if err != nil {
		h.logger.Error("signing session token", zap.Error(err))
		h.respondJSON(ctx, http.StatusInternalServerError,
			transport.NewError(string(domain.ErrCodeInternal), "could not issue token"))
		return
	}

	h.respondSuccess(ctx, http.StatusCreated, loginResponse{
		Token:     token,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
		User:      domain.ProjectUser(user),
	}, "Login successful")
}

// @Summary Refresh an existing session
// @Tags auth
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	var req transport.SessionRequest
	if !h.decode(ctx, &req) {
		return
	}
	if req.SessionID == "" {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), "session_id is required"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.RefreshSession(stdCtx, req.SessionID, h.defaultTTL)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, session, "Session refreshed")
}

// @Summary Revoke a session
// @Tags auth
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	var req transport.SessionRequest
	if !h.decode(ctx, &req) {
		return
	}
	if req.SessionID == "" {
		h.respondJSON(ctx, http.StatusBadRequest,
			transport.NewError(string(domain.ErrCodeInvalid), "session_id is required"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, req.SessionID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, nil, "Logged out")
}

func (h *AuthHandler) signToken(session *domain.Session, user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    strconv.FormatInt(user.ID, 10),
		"username":   user.Username,
		"session_id": session.ID,
		"iss":        h.jwtIssuer,
		"exp":        session.ExpiresAt.Unix(),
		"iat":        time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}
