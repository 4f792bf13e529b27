package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
	"github.com/taskforge/backend/repository"
)

const identityKey = "identity"

const fallbackDenylistTimeout = 2 * time.Second

// SessionAuth verifies the session cookie before any handler logic runs. It
// checks signature and expiry, consults the revocation denylist, and attaches
// the derived identity to the request for downstream handlers. The denylist
// lookup runs under the same configured request timeout as handler I/O.
func SessionAuth(secret string, denylist repository.TokenDenylist, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := []byte(secret)

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			raw := string(ctx.Request.Header.Cookie(transport.SessionCookie))
			if raw == "" {
				respondMessage(ctx, fasthttp.StatusUnauthorized, domain.ErrSessionMissing.Message)
				return
			}

			token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid session token", zap.Error(err))
				respondMessage(ctx, fasthttp.StatusUnauthorized, domain.ErrSessionInvalid.Message)
				return
			}

			identity, ok := identityFromClaims(token.Claims)
			if !ok {
				logger.Warn("session token missing identity claims")
				respondMessage(ctx, fasthttp.StatusUnauthorized, domain.ErrSessionInvalid.Message)
				return
			}

			if denylist != nil && identity.TokenID != "" {
				checkCtx, cancel := denylistContext(adapter)
				revoked, err := denylist.IsRevoked(checkCtx, identity.TokenID)
				cancel()
				if err != nil {
					logger.Error("denylist lookup failed", zap.Error(err))
					respondMessage(ctx, fasthttp.StatusInternalServerError, "internal server error")
					return
				}
				if revoked {
					respondMessage(ctx, fasthttp.StatusUnauthorized, domain.ErrSessionInvalid.Message)
					return
				}
			}

			ctx.SetUserValue(identityKey, identity)
			next(ctx)
		}
	}
}

func denylistContext(adapter *httpcontext.Adapter) (context.Context, context.CancelFunc) {
	if adapter != nil {
		return adapter.WithTimeout(context.Background())
	}
	return context.WithTimeout(context.Background(), fallbackDenylistTimeout)
}

// RequireAdmin allows only admin-flagged identities through. It expects to
// run after SessionAuth; a missing identity means the chain is wired wrong
// and is reported as an internal error, not an auth failure.
func RequireAdmin(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			identity, ok := IdentityFrom(ctx)
			if !ok {
				logger.Error("admin check reached without authenticated identity")
				respondMessage(ctx, fasthttp.StatusInternalServerError, "internal server error")
				return
			}
			if !identity.IsAdmin {
				respondMessage(ctx, fasthttp.StatusForbidden, domain.ErrAdminOnly.Message)
				return
			}
			next(ctx)
		}
	}
}

// IdentityFrom returns the authenticated identity attached by SessionAuth.
func IdentityFrom(ctx *fasthttp.RequestCtx) (domain.Identity, bool) {
	identity, ok := ctx.UserValue(identityKey).(domain.Identity)
	return identity, ok
}

func identityFromClaims(claims jwt.Claims) (domain.Identity, bool) {
	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, false
	}

	id, _ := mapClaims["id"].(string)
	if id == "" {
		return domain.Identity{}, false
	}

	identity := domain.Identity{ID: id}
	identity.Email, _ = mapClaims["email"].(string)
	identity.IsAdmin, _ = mapClaims["is_admin"].(bool)
	identity.TokenID, _ = mapClaims["jti"].(string)
	if exp, ok := mapClaims["exp"].(float64); ok {
		identity.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return identity, true
}

func respondMessage(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(transport.Message{Message: message})
	ctx.SetBody(body)
}
