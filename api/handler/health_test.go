package handler

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/taskforge/backend/internal/infrastructure/audit"
)

func newTestJournal(t *testing.T) *audit.Store {
	t.Helper()
	store, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"), "audit")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecentActivity_ReturnsJournaledEventsNewestFirst(t *testing.T) {
	store := newTestJournal(t)

	base := time.Now().Add(-time.Minute)
	for i, action := range []string{"login", "create", "toggle"} {
		err := store.Append(audit.Event{
			ActorID:   "u1",
			Entity:    "task",
			Action:    action,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	h := NewHealthHandler(nil, store, nil, nil)
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/activity")
	h.RecentActivity(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}

	var events []audit.Event
	if err := json.Unmarshal(ctx.Response.Body(), &events); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Action != "toggle" || events[2].Action != "login" {
		t.Fatalf("events not newest first: %v", events)
	}
}

func TestRecentActivity_HonorsLimit(t *testing.T) {
	store := newTestJournal(t)

	base := time.Now().Add(-time.Minute)
	for i := 0; i < 5; i++ {
		err := store.Append(audit.Event{
			ActorID:   "u1",
			Entity:    "auth",
			Action:    "login",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	h := NewHealthHandler(nil, store, nil, nil)
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/activity?limit=2")
	h.RecentActivity(ctx)

	var events []audit.Event
	if err := json.Unmarshal(ctx.Response.Body(), &events); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
}

func TestRecentActivity_EmptyJournalIsEmptyList(t *testing.T) {
	h := NewHealthHandler(nil, newTestJournal(t), nil, nil)
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/activity")
	h.RecentActivity(ctx)

	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	if string(ctx.Response.Body()) != "[]" {
		t.Fatalf("expected an empty JSON list, got %q", ctx.Response.Body())
	}
}
