package store

import (
	"context"

	"github.com/phrazzld/goalpost/internal/domain"
)

// TaskStore defines the operations the reminder engine needs from the
// external task store. The engine never creates or deletes tasks.
// Version: 1.0
type TaskStore interface {
	// QueryIncomplete returns every task whose completion flag is false.
	QueryIncomplete(ctx context.Context) ([]domain.Task, error)

	// QueryCompleted returns every task whose completion flag is true.
	QueryCompleted(ctx context.Context) ([]domain.Task, error)

	// Update persists the completion flag, due date and completion counter of
	// the given task. Returns ErrTaskNotFound if no task has the task's ID.
	Update(ctx context.Context, task domain.Task) error
}
