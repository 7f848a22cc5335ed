package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/goalpost/internal/domain"
	"github.com/phrazzld/goalpost/internal/platform/logger"
	"github.com/phrazzld/goalpost/internal/store"
)

const taskColumns = `id, user_id, title, description, due_date, is_completed, recurrence, completed_count`

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL
type PostgresTaskStore struct {
	db      store.DBTX
	timeNow func() time.Time
}

// Ensure PostgresTaskStore implements store.TaskStore
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgresTaskStore
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:      db,
		timeNow: time.Now,
	}
}

// QueryIncomplete retrieves all tasks whose completion flag is false
func (s *PostgresTaskStore) QueryIncomplete(ctx context.Context) ([]domain.Task, error) {
	return s.queryByCompletion(ctx, false)
}

// QueryCompleted retrieves all tasks whose completion flag is true
func (s *PostgresTaskStore) QueryCompleted(ctx context.Context) ([]domain.Task, error) {
	return s.queryByCompletion(ctx, true)
}

// Update writes the mutable scheduling fields of a task back to the database
func (s *PostgresTaskStore) Update(ctx context.Context, task domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET is_completed = $1, due_date = $2, completed_count = $3, updated_at = $4
		WHERE id = $5
	`

	var dueDate sql.NullTime
	if task.DueDate != nil {
		dueDate = sql.NullTime{Time: *task.DueDate, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, query,
		task.Completed,
		dueDate,
		task.CompletedCount,
		s.timeNow().UTC(),
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			"task_id", task.ID,
			"error", err)
		mapped := MapError(err)
		if IsCheckConstraintViolation(err) {
			mapped = fmt.Errorf("%w: %w", store.ErrUpdateFailed, mapped)
		}
		return store.NewStoreError("task", "update", "failed to update task", mapped)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("no task found with ID to update",
				"task_id", task.ID)
			return err
		}
		return store.NewStoreError("task", "update", "failed to confirm update", err)
	}

	return nil
}

// queryByCompletion is a helper to list tasks filtered by completion flag
func (s *PostgresTaskStore) queryByCompletion(ctx context.Context, completed bool) ([]domain.Task, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE is_completed = $1
		ORDER BY user_id, due_date NULLS LAST, created_at
	`

	rows, err := s.db.QueryContext(ctx, query, completed)
	if err != nil {
		log.Error("failed to query tasks by completion",
			"completed", completed,
			"error", err)
		return nil, fmt.Errorf("failed to query tasks: %w", MapError(err))
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				"completed", completed,
				"error", err)
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}

		if task.recurrenceErr != nil {
			log.Warn("unknown recurrence rule treated as none",
				"task_id", task.ID,
				"error", task.recurrenceErr)
		}

		tasks = append(tasks, task.Task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows",
			"completed", completed,
			"error", err)
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

// scannedTask carries the recurrence parse error next to the parsed task so
// unknown values can be reported.
type scannedTask struct {
	domain.Task
	recurrenceErr error
}

// rowScanner is satisfied by *sql.Rows and *sql.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (scannedTask, error) {
	var (
		id             uuid.UUID
		ownerID        uuid.UUID
		title          string
		description    sql.NullString
		dueDate        sql.NullTime
		completed      bool
		recurrence     sql.NullString
		completedCount int
	)

	if err := row.Scan(&id, &ownerID, &title, &description, &dueDate, &completed, &recurrence, &completedCount); err != nil {
		return scannedTask{}, err
	}

	// Unknown values degrade to none; the caller logs them.
	rule, ruleErr := domain.ParseRecurrence(recurrence.String)

	t := scannedTask{
		Task: domain.Task{
			ID:             id,
			OwnerID:        ownerID,
			Title:          title,
			Description:    description.String,
			Completed:      completed,
			Recurrence:     rule,
			CompletedCount: completedCount,
		},
		recurrenceErr: ruleErr,
	}
	if dueDate.Valid {
		d := dueDate.Time
		t.DueDate = &d
	}

	return t, nil
}
