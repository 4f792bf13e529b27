package audit

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "audit.db"), "audit")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndSize(t *testing.T) {
	store := openTestStore(t)

	if size, _ := store.Size(); size != 0 {
		t.Fatalf("expected empty store, got %d", size)
	}

	for i := 0; i < 3; i++ {
		if err := store.Append(Event{ActorID: "u1", Entity: "task", Action: "create"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != 3 {
		t.Fatalf("expected 3 events, got %d", size)
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().Add(-time.Minute)
	for i, action := range []string{"register", "login", "logout"} {
		event := Event{
			ActorID:   "u1",
			Entity:    "auth",
			Action:    action,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.Append(event); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	events, err := store.Recent(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Action != "logout" || events[1].Action != "login" {
		t.Fatalf("events not newest-first: %v", events)
	}
}

func TestCleanup_RemovesOnlyOldEvents(t *testing.T) {
	store := openTestStore(t)

	old := Event{ActorID: "u1", Entity: "task", Action: "create", Timestamp: time.Now().Add(-48 * time.Hour)}
	fresh := Event{ActorID: "u1", Entity: "task", Action: "update", Timestamp: time.Now()}
	if err := store.Append(old); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Append(fresh); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Cleanup(time.Now().Add(-24 * time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := store.Recent(10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 || events[0].Action != "update" {
		t.Fatalf("cleanup removed the wrong events: %v", events)
	}
}
