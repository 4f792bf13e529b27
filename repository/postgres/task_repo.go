package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

const taskColumns = "id, user_id, title, description, category, due_date, completed, priority, created_at, updated_at"

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1 AND user_id = $2`, taskColumns)
	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanTask(row)
}

// Search runs the windowed fetch and the total count as one all-or-nothing
// pair: both share the same predicate and either failure fails the call.
func (r *taskRepository) Search(ctx context.Context, q repository.TaskQuery) (*repository.TaskPage, error) {
	where, args := buildTaskPredicate(q)

	fetchQuery := fmt.Sprintf(
		`SELECT %s FROM tasks WHERE %s %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, buildTaskOrder(q), len(args)+1, len(args)+2,
	)
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tasks WHERE %s`, where)

	fetchArgs := make([]interface{}, 0, len(args)+2)
	fetchArgs = append(fetchArgs, args...)
	fetchArgs = append(fetchArgs, q.Limit, q.Offset())

	items := []domain.Task{}
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := r.pool.Query(gctx, fetchQuery, fetchArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			task, err := scanTask(rows)
			if err != nil {
				return err
			}
			items = append(items, *task)
		}
		return rows.Err()
	})
	g.Go(func() error {
		return r.pool.QueryRow(gctx, countQuery, args...).Scan(&total)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &repository.TaskPage{
		Items: items,
		Total: total,
		Page:  q.Page,
		Pages: pageCount(total, q.Limit),
	}, nil
}

// pageCount derives the page total for a result window. Zero matches mean
// zero pages; a non-positive limit counts as one item per page so a raw
// query can never divide by zero.
func pageCount(total, limit int) int {
	if total <= 0 {
		return 0
	}
	if limit <= 0 {
		limit = 1
	}
	return (total + limit - 1) / limit
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, user_id, title, description, category, due_date, completed, priority)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Category,
		nullTimePtr(task.DueDate),
		task.Completed,
		task.Priority,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $3,
		description = $4,
		category = $5,
		due_date = $6,
		completed = $7,
		priority = $8,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Category,
		nullTimePtr(task.DueDate),
		task.Completed,
		task.Priority,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

// ToggleComplete flips the completed flag in a single statement so no other
// field is touched between read and write.
func (r *taskRepository) ToggleComplete(ctx context.Context, id, userID string) (*domain.Task, error) {
	query := fmt.Sprintf(`
	UPDATE tasks
	SET completed = NOT completed, updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING %s`, taskColumns)

	row := r.pool.QueryRow(ctx, query, id, userID)
	return scanTask(row)
}

func (r *taskRepository) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var due *time.Time

	if err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Category,
		&due,
		&task.Completed,
		&task.Priority,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.DueDate = due
	return &task, nil
}
