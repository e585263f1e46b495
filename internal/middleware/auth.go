package middleware

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/Esraa999/TeamManagementTask/api/transport"
	"github.com/Esraa999/TeamManagementTask/domain"
)

// JWTAuth validates the bearer token and injects the authenticated user id
// into the X-User-ID header for downstream handlers.
func JWTAuth(secret string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx, "missing bearer token")
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, domain.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				unauthorized(ctx, "invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				unauthorized(ctx, "invalid or expired token")
				return
			}
			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				unauthorized(ctx, "token carries no user identity")
				return
			}
			ctx.Request.Header.Set("X-User-ID", userID)

			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), message))
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
