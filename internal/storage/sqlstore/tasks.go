package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mledan/taskometer-sub001/internal/models"
)

const taskColumns = `id, name, activity_type, duration_min, priority, status,
	placement_mode, placement_date, placement_weekday, placement_time, placement_delay_min,
	scheduled_at, assigned_block_id, confidence, failure_reason, created_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var weekday sql.NullInt64
	var placementTime, scheduledAt, deletedAt sql.NullString
	var createdAt string

	err := row.Scan(
		&t.ID, &t.Name, &t.ActivityType, &t.DurationMin, &t.Priority, &t.Status,
		&t.Placement.Mode, &t.Placement.Date, &weekday, &placementTime, &t.Placement.DelayMin,
		&scheduledAt, &t.AssignedBlockID, &t.Confidence, &t.FailureReason, &createdAt, &deletedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	if weekday.Valid {
		wd := time.Weekday(weekday.Int64)
		t.Placement.Weekday = &wd
	}
	if placementTime.Valid {
		tod, err := models.ParseTimeOfDay(placementTime.String)
		if err != nil {
			return models.Task{}, fmt.Errorf("task %s: %w", t.ID, err)
		}
		t.Placement.Time = &tod
	}
	if scheduledAt.Valid {
		at, err := time.Parse(time.RFC3339, scheduledAt.String)
		if err != nil {
			return models.Task{}, fmt.Errorf("task %s: invalid scheduled_at: %w", t.ID, err)
		}
		t.ScheduledAt = &at
	}
	if createdAt != "" {
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			t.CreatedAt = ts
		}
	}
	if deletedAt.Valid {
		t.DeletedAt = &deletedAt.String
	}

	return t, nil
}

func taskArgs(t models.Task) []any {
	var weekday, placementTime, scheduledAt, deletedAt any
	if t.Placement.Weekday != nil {
		weekday = int64(*t.Placement.Weekday)
	}
	if t.Placement.Time != nil {
		placementTime = t.Placement.Time.String()
	}
	if t.ScheduledAt != nil {
		scheduledAt = t.ScheduledAt.Format(time.RFC3339)
	}
	if t.DeletedAt != nil {
		deletedAt = *t.DeletedAt
	}
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	mode := t.Placement.Mode
	if mode == "" {
		mode = models.PlacementAuto
	}

	return []any{
		t.ID, t.Name, t.ActivityType, t.DurationMin, string(t.Priority), string(t.Status),
		string(mode), t.Placement.Date, weekday, placementTime, t.Placement.DelayMin,
		scheduledAt, t.AssignedBlockID, t.Confidence, string(t.FailureReason),
		createdAt.UTC().Format(time.RFC3339), deletedAt,
	}
}

const upsertTaskSQL = `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		activity_type = excluded.activity_type,
		duration_min = excluded.duration_min,
		priority = excluded.priority,
		status = excluded.status,
		placement_mode = excluded.placement_mode,
		placement_date = excluded.placement_date,
		placement_weekday = excluded.placement_weekday,
		placement_time = excluded.placement_time,
		placement_delay_min = excluded.placement_delay_min,
		scheduled_at = excluded.scheduled_at,
		assigned_block_id = excluded.assigned_block_id,
		confidence = excluded.confidence,
		failure_reason = excluded.failure_reason,
		deleted_at = excluded.deleted_at`

func (s *Store) AddTask(task models.Task) error {
	return s.UpdateTask(task)
}

func (s *Store) UpdateTask(task models.Task) error {
	_, err := s.exec(upsertTaskSQL, taskArgs(task)...)
	return err
}

func (s *Store) UpdateTasks(tasks []models.Task) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.upsertTasks(tx, tasks); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) upsertTasks(e execer, tasks []models.Task) error {
	for _, t := range tasks {
		if _, err := s.execIn(e, upsertTaskSQL, taskArgs(t)...); err != nil {
			return fmt.Errorf("saving task %s: %w", t.ID, err)
		}
	}
	return nil
}

func (s *Store) GetTask(id string) (models.Task, error) {
	row := s.queryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ? AND deleted_at IS NULL`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, errNotFound)
	}
	return t, err
}

func (s *Store) GetAllTasks() ([]models.Task, error) {
	return s.listTasks(`SELECT ` + taskColumns + ` FROM tasks WHERE deleted_at IS NULL ORDER BY created_at, id`)
}

func (s *Store) GetAllTasksIncludingDeleted() ([]models.Task, error) {
	return s.listTasks(`SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at, id`)
}

func (s *Store) listTasks(query string, args ...any) ([]models.Task, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) DeleteTask(id string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.exec(`UPDATE tasks SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, now, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "task", id)
}

func (s *Store) RestoreTask(id string) error {
	res, err := s.exec(`UPDATE tasks SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "deleted task", id)
}
