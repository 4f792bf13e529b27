package repository

import (
	"context"
	"time"

	"github.com/taskforge/backend/domain"
)

// TaskQuery is a validated, owner-scoped query against the task store. All
// filter fields are optional; UserID is not — every query is bound to its
// caller before it reaches storage.
type TaskQuery struct {
	UserID    string
	Search    string
	Category  string
	Completed *bool
	DueBefore *time.Time
	DueAfter  *time.Time
	Priority  string
	SortField string
	SortDesc  bool
	Page      int
	Limit     int
}

// Offset returns the pagination window start for the query.
func (q TaskQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// TaskPage is one window of query results plus the total match count.
type TaskPage struct {
	Items []domain.Task `json:"items"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
}

// TaskRepository reads and writes task records. Every operation that names an
// existing task takes the owner's id alongside the task id; a wrong owner is
// reported exactly like a missing task.
type TaskRepository interface {
	GetByID(ctx context.Context, id, userID string) (*domain.Task, error)
	Search(ctx context.Context, query TaskQuery) (*TaskPage, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	ToggleComplete(ctx context.Context, id, userID string) (*domain.Task, error)
	Delete(ctx context.Context, id, userID string) error
}
