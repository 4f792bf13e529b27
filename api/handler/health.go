package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/internal/infrastructure/audit"
	"github.com/taskforge/backend/internal/infrastructure/monitor"
	"github.com/taskforge/backend/pkg/httpcontext"
)

const defaultActivityLimit = 50

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
	journal *audit.Store
}

func NewHealthHandler(mon *monitor.Monitor, journal *audit.Store, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		journal:     journal,
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
			"audit": map[string]interface{}{
				"online": status.Audit,
				"events": status.AuditSize,
			},
		},
	}

	if status.PostgreSQL && status.Redis {
		h.respondJSON(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, payload)
}

// @Summary Recent audit activity (admin only)
// @Tags health
// @Router /activity [get]
func (h *HealthHandler) RecentActivity(ctx *fasthttp.RequestCtx) {
	limit := parseInt(string(ctx.QueryArgs().Peek("limit")), defaultActivityLimit)

	events, err := h.journal.Recent(limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	h.respondJSON(ctx, http.StatusOK, events)
}
