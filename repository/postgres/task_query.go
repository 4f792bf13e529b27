package postgres

import (
	"fmt"
	"strings"

	"github.com/taskforge/backend/repository"
)

// sortColumns maps API sort field names to task table columns. The usecase
// layer whitelists field names before they get here; this map keeps raw
// input away from the ORDER BY clause even so.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"title":     "title",
	"priority":  "priority",
	"category":  "category",
}

// buildTaskPredicate renders the WHERE clause for a task query. The owner
// scope is always the first clause; every supplied filter is ANDed onto it
// as a positional argument.
func buildTaskPredicate(q repository.TaskQuery) (string, []interface{}) {
	clauses := []string{"user_id = $1"}
	args := []interface{}{q.UserID}

	add := func(format string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if q.Category != "" {
		add("category = $%d", q.Category)
	}
	if q.Priority != "" {
		add("priority = $%d", q.Priority)
	}
	if q.Completed != nil {
		add("completed = $%d", *q.Completed)
	}
	if q.DueAfter != nil {
		add("due_date >= $%d", *q.DueAfter)
	}
	if q.DueBefore != nil {
		add("due_date <= $%d", *q.DueBefore)
	}
	if q.Search != "" {
		add("search_vector @@ websearch_to_tsquery('english', $%d)", q.Search)
	}

	return strings.Join(clauses, " AND "), args
}

func buildTaskOrder(q repository.TaskQuery) string {
	column, ok := sortColumns[q.SortField]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}
	return "ORDER BY " + column + " " + direction
}
