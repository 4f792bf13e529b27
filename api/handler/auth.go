package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
	authUC "github.com/taskforge/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Log in and receive the session cookie
// @Tags auth
// @Router /login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrMissingCredentials)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, token, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.setSessionCookie(ctx, token, int(h.uc.TokenTTL().Seconds()))
	h.respondJSON(ctx, http.StatusOK, transport.LoginResponse{
		Message: "Login successful",
		User: transport.UserSummary{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.FullName(),
		},
	})
}

// @Summary Revoke the current session
// @Tags auth
// @Router /logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, identity); err != nil {
		h.respondError(ctx, err)
		return
	}

	// Expire the cookie client-side as well.
	h.setSessionCookie(ctx, "", -1)
	h.respondMessage(ctx, http.StatusOK, "Logged out")
}

func (h *AuthHandler) setSessionCookie(ctx *fasthttp.RequestCtx, value string, maxAge int) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(transport.SessionCookie)
	cookie.SetValue(value)
	cookie.SetPath("/")
	cookie.SetMaxAge(maxAge)
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(true)
	ctx.Response.Header.SetCookie(cookie)
}
