package task

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type fakeTaskRepo struct {
	tasks     map[string]*domain.Task
	lastQuery repository.TaskQuery
	nextID    int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id, userID string) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) Search(_ context.Context, query repository.TaskQuery) (*repository.TaskPage, error) {
	f.lastQuery = query
	items := []domain.Task{}
	for _, task := range f.tasks {
		if task.UserID == query.UserID {
			items = append(items, *task)
		}
	}
	pages := 0
	if len(items) > 0 {
		pages = (len(items) + query.Limit - 1) / query.Limit
	}
	return &repository.TaskPage{Items: items, Total: len(items), Page: query.Page, Pages: pages}, nil
}

func (f *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	f.nextID++
	task.ID = fmt.Sprintf("task-%d", f.nextID)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	f.tasks[task.ID] = &stored
	return task, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	existing, ok := f.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return domain.ErrTaskNotFound
	}
	stored := *task
	f.tasks[task.ID] = &stored
	return nil
}

func (f *fakeTaskRepo) ToggleComplete(_ context.Context, id, userID string) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	task.Completed = !task.Completed
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id, userID string) error {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func TestCreate_DefaultsAndTrimming(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	created, err := uc.Create(context.Background(), "u1", CreateInput{
		Title:       "  Pay rent  ",
		Description: "  before the 5th  ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Title != "Pay rent" {
		t.Fatalf("title not trimmed: %q", created.Title)
	}
	if created.Description != "before the 5th" {
		t.Fatalf("description not trimmed: %q", created.Description)
	}
	if created.Category != "general" {
		t.Fatalf("expected default category, got %q", created.Category)
	}
	if created.Priority != domain.PriorityMedium {
		t.Fatalf("expected default priority, got %q", created.Priority)
	}
	if created.Completed {
		t.Fatalf("new task should not be completed")
	}
	if created.DueDate != nil {
		t.Fatalf("expected no due date, got %v", created.DueDate)
	}
}

func TestCreate_EmptyTitleRejected(t *testing.T) {
	uc := New(newFakeTaskRepo(), nil, nil)

	if _, err := uc.Create(context.Background(), "u1", CreateInput{Title: "   "}); err == nil {
		t.Fatalf("expected error for blank title")
	} else if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreate_InvalidPriorityRejected(t *testing.T) {
	uc := New(newFakeTaskRepo(), nil, nil)

	_, err := uc.Create(context.Background(), "u1", CreateInput{Title: "x", Priority: "urgent"})
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseDueDate_DateOnlyMergesWallClock(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 35, 22, 123456789, time.UTC)

	due := parseDueDate("2025-01-01", now)
	if due == nil {
		t.Fatalf("expected a due date")
	}
	if due.Year() != 2025 || due.Month() != time.January || due.Day() != 1 {
		t.Fatalf("calendar date wrong: %v", due)
	}
	if due.Hour() != 14 || due.Minute() != 35 || due.Second() != 22 {
		t.Fatalf("time-of-day not merged: %v", due)
	}
}

func TestParseDueDate_FullTimestampKept(t *testing.T) {
	now := time.Now()
	due := parseDueDate("2025-06-01T09:30:00Z", now)
	if due == nil {
		t.Fatalf("expected a due date")
	}
	if due.Hour() != 9 || due.Minute() != 30 {
		t.Fatalf("explicit timestamp altered: %v", due)
	}
}

func TestParseDueDate_GarbageYieldsNil(t *testing.T) {
	if due := parseDueDate("not-a-date", time.Now()); due != nil {
		t.Fatalf("expected nil, got %v", due)
	}
}

func TestToggleComplete_TwiceRestoresOriginal(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	created, err := uc.Create(context.Background(), "u1", CreateInput{Title: "laundry"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	once, err := uc.ToggleComplete(context.Background(), created.ID, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !once.Completed {
		t.Fatalf("expected completed after first toggle")
	}

	twice, err := uc.ToggleComplete(context.Background(), created.ID, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if twice.Completed {
		t.Fatalf("expected original state after second toggle")
	}
}

func TestOwnerScoping_OtherUserSeesNotFound(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	created, err := uc.Create(context.Background(), "u1", CreateInput{Title: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uc.Get(context.Background(), created.ID, "u2"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("expected not-found for other user, got %v", err)
	}
	if _, err := uc.ToggleComplete(context.Background(), created.ID, "u2"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("expected not-found for other user, got %v", err)
	}
	if err := uc.Delete(context.Background(), created.ID, "u2"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("expected not-found for other user, got %v", err)
	}

	// The owner still gets through.
	if _, err := uc.Get(context.Background(), created.ID, "u1"); err != nil {
		t.Fatalf("owner access failed: %v", err)
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	created, err := uc.Create(context.Background(), "u1", CreateInput{
		Title:    "draft",
		Category: "work",
		Priority: domain.PriorityLow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	title := "  final  "
	updated, err := uc.Update(context.Background(), created.ID, "u1", UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "final" {
		t.Fatalf("title not applied: %q", updated.Title)
	}
	if updated.Category != "work" || updated.Priority != domain.PriorityLow {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestBuildQuery_Defaults(t *testing.T) {
	query, err := BuildQuery("u1", ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.UserID != "u1" {
		t.Fatalf("owner scope missing: %q", query.UserID)
	}
	if query.SortField != "createdAt" || !query.SortDesc {
		t.Fatalf("expected default sort -createdAt, got %q desc=%v", query.SortField, query.SortDesc)
	}
	if query.Page != 1 || query.Limit != 20 {
		t.Fatalf("expected page 1 limit 20, got %d/%d", query.Page, query.Limit)
	}
	if query.Completed != nil {
		t.Fatalf("expected no status filter")
	}
}

func TestBuildQuery_StatusMapping(t *testing.T) {
	query, err := BuildQuery("u1", ListParams{Status: "completed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.Completed == nil || !*query.Completed {
		t.Fatalf("expected completed=true filter")
	}

	query, err = BuildQuery("u1", ListParams{Status: "incomplete"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.Completed == nil || *query.Completed {
		t.Fatalf("expected completed=false filter")
	}

	query, err = BuildQuery("u1", ListParams{Status: "whatever"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.Completed != nil {
		t.Fatalf("unknown status should apply no filter")
	}
}

func TestBuildQuery_RejectsMalformedDates(t *testing.T) {
	if _, err := BuildQuery("u1", ListParams{DueBefore: "next tuesday"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := BuildQuery("u1", ListParams{DueAfter: "2025-13-45"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildQuery_DateRange(t *testing.T) {
	query, err := BuildQuery("u1", ListParams{DueAfter: "2025-01-01", DueBefore: "2025-02-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.DueAfter == nil || query.DueBefore == nil {
		t.Fatalf("expected both bounds set")
	}
	if !query.DueAfter.Before(*query.DueBefore) {
		t.Fatalf("bounds inverted: %v .. %v", query.DueAfter, query.DueBefore)
	}
}

func TestBuildQuery_SortWhitelist(t *testing.T) {
	query, err := BuildQuery("u1", ListParams{Sort: "dueDate"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.SortField != "dueDate" || query.SortDesc {
		t.Fatalf("expected ascending dueDate sort, got %q desc=%v", query.SortField, query.SortDesc)
	}

	query, err = BuildQuery("u1", ListParams{Sort: "-title"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.SortField != "title" || !query.SortDesc {
		t.Fatalf("expected descending title sort")
	}

	if _, err := BuildQuery("u1", ListParams{Sort: "passwordHash"}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected validation error for unknown sort field, got %v", err)
	}
}

func TestBuildQuery_LimitClampAndOffset(t *testing.T) {
	query, err := BuildQuery("u1", ListParams{Page: 2, Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.Offset() != 5 {
		t.Fatalf("expected offset 5, got %d", query.Offset())
	}

	query, err = BuildQuery("u1", ListParams{Limit: 100000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.Limit != 100 {
		t.Fatalf("expected limit clamped to 100, got %d", query.Limit)
	}

	query, err = BuildQuery("u1", ListParams{Page: -3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query.Page != 1 || query.Offset() != 0 {
		t.Fatalf("negative page not normalized: page=%d offset=%d", query.Page, query.Offset())
	}
}

func TestList_PassesOwnerScopedQueryToStore(t *testing.T) {
	repo := newFakeTaskRepo()
	uc := New(repo, nil, nil)

	_, err := uc.List(context.Background(), "u1", ListParams{Search: " rent ", Category: "bills"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQuery.UserID != "u1" {
		t.Fatalf("owner scope not forwarded: %+v", repo.lastQuery)
	}
	if repo.lastQuery.Search != "rent" || repo.lastQuery.Category != "bills" {
		t.Fatalf("filters not trimmed/forwarded: %+v", repo.lastQuery)
	}
	if strings.Contains(repo.lastQuery.Search, " ") {
		t.Fatalf("search not trimmed: %q", repo.lastQuery.Search)
	}
}
