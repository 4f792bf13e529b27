package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
	"github.com/taskforge/backend/usecase"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultSort     = "-createdAt"
	defaultCategory = "general"

	dateOnlyLayout = "2006-01-02"
)

var sortableFields = map[string]bool{
	"createdAt": true,
	"updatedAt": true,
	"dueDate":   true,
	"title":     true,
	"priority":  true,
	"category":  true,
}

// CreateInput carries a new task payload before normalization.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	DueDate     string
	Completed   bool
	Priority    string
}

// UpdateInput carries a partial task update; nil fields stay untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	DueDate     *string
	Completed   *bool
	Priority    *string
}

// ListParams is the raw filter/sort/page surface of a list request.
type ListParams struct {
	Search    string
	Category  string
	Status    string
	DueBefore string
	DueAfter  string
	Priority  string
	Sort      string
	Page      int
	Limit     int
}

type UseCase struct {
	tasks  repository.TaskRepository
	audit  usecase.AuditTrail
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, audit usecase.AuditTrail, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		audit:  audit,
		logger: logger,
	}
}

// Create normalizes and persists a new task for userID.
func (uc *UseCase) Create(ctx context.Context, userID string, input CreateInput) (*domain.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.ErrTitleRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "priority must be low, medium or high")
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = defaultCategory
	}

	task := &domain.Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		DueDate:     parseDueDate(input.DueDate, time.Now()),
		Completed:   input.Completed,
		Priority:    priority,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Record(userID, usecase.EntityTask, usecase.ActionCreate, created.ID)
	}
	return created, nil
}

// List builds an owner-scoped query from the raw parameters and executes it.
func (uc *UseCase) List(ctx context.Context, userID string, params ListParams) (*repository.TaskPage, error) {
	query, err := BuildQuery(userID, params)
	if err != nil {
		return nil, err
	}
	return uc.tasks.Search(ctx, query)
}

func (uc *UseCase) Get(ctx context.Context, id, userID string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id, userID)
}

// Update applies the provided fields to an owned task. A wrong owner surfaces
// as not-found, same as a wrong id.
func (uc *UseCase) Update(ctx context.Context, id, userID string, input UpdateInput) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			task.Title = title
		}
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		if category := strings.TrimSpace(*input.Category); category != "" {
			task.Category = category
		}
	}
	if input.DueDate != nil {
		task.DueDate = parseDueDate(*input.DueDate, time.Now())
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, domain.NewError(domain.ErrCodeInvalid, "priority must be low, medium or high")
		}
		task.Priority = *input.Priority
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	if uc.audit != nil {
		uc.audit.Record(userID, usecase.EntityTask, usecase.ActionUpdate, task.ID)
	}
	return task, nil
}

// ToggleComplete flips the completed flag and returns the stored task.
func (uc *UseCase) ToggleComplete(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := uc.tasks.ToggleComplete(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if uc.audit != nil {
		uc.audit.Record(userID, usecase.EntityTask, usecase.ActionToggle, task.ID)
	}
	return task, nil
}

func (uc *UseCase) Delete(ctx context.Context, id, userID string) error {
	if err := uc.tasks.Delete(ctx, id, userID); err != nil {
		return err
	}
	if uc.audit != nil {
		uc.audit.Record(userID, usecase.EntityTask, usecase.ActionDelete, id)
	}
	return nil
}

// BuildQuery validates the raw parameters and produces a bounded, owner-scoped
// query: malformed dates and unknown sort fields are rejected, the page size
// is clamped, and the owner filter is always present.
func BuildQuery(userID string, params ListParams) (repository.TaskQuery, error) {
	query := repository.TaskQuery{
		UserID:   userID,
		Search:   strings.TrimSpace(params.Search),
		Category: strings.TrimSpace(params.Category),
		Priority: params.Priority,
	}

	switch params.Status {
	case "completed":
		completed := true
		query.Completed = &completed
	case "incomplete":
		completed := false
		query.Completed = &completed
	}

	if params.DueBefore != "" {
		bound, err := parseDateBound(params.DueBefore)
		if err != nil {
			return repository.TaskQuery{}, domain.NewError(domain.ErrCodeInvalid, "dueBefore is not a valid date")
		}
		query.DueBefore = &bound
	}
	if params.DueAfter != "" {
		bound, err := parseDateBound(params.DueAfter)
		if err != nil {
			return repository.TaskQuery{}, domain.NewError(domain.ErrCodeInvalid, "dueAfter is not a valid date")
		}
		query.DueAfter = &bound
	}

	sort := params.Sort
	if sort == "" {
		sort = defaultSort
	}
	if strings.HasPrefix(sort, "-") {
		query.SortDesc = true
		sort = strings.TrimPrefix(sort, "-")
	}
	if !sortableFields[sort] {
		return repository.TaskQuery{}, domain.NewError(domain.ErrCodeInvalid, "unsupported sort field")
	}
	query.SortField = sort

	query.Page = params.Page
	if query.Page < 1 {
		query.Page = 1
	}
	query.Limit = params.Limit
	if query.Limit < 1 {
		query.Limit = defaultPageSize
	}
	if query.Limit > maxPageSize {
		query.Limit = maxPageSize
	}

	return query, nil
}

func parseDateBound(raw string) (time.Time, error) {
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// parseDueDate accepts a date-only or full timestamp string. A date-only value
// is stored with the current wall-clock time-of-day merged onto the calendar
// date, matching how due dates have always been recorded. Unparseable input
// yields no due date.
func parseDueDate(raw string, now time.Time) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if day, err := time.Parse(dateOnlyLayout, raw); err == nil {
		merged := time.Date(
			day.Year(), day.Month(), day.Day(),
			now.Hour(), now.Minute(), now.Second(), now.Nanosecond(),
			now.Location(),
		)
		return &merged
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	return nil
}
