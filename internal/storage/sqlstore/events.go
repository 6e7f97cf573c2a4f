package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mledan/taskometer-sub001/internal/models"
)

func scanEvent(row rowScanner) (models.Event, error) {
	var e models.Event
	var start, end, createdAt string
	if err := row.Scan(&e.ID, &e.Name, &e.Date, &start, &end, &createdAt); err != nil {
		return models.Event{}, err
	}
	var err error
	if e.Start, err = models.ParseTimeOfDay(start); err != nil {
		return models.Event{}, fmt.Errorf("event %s: %w", e.ID, err)
	}
	if e.End, err = models.ParseTimeOfDay(end); err != nil {
		return models.Event{}, fmt.Errorf("event %s: %w", e.ID, err)
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		e.CreatedAt = ts
	}
	return e, nil
}

func (s *Store) GetEvent(id string) (models.Event, error) {
	row := s.queryRow(`SELECT id, name, date, start_time, end_time, created_at FROM events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, fmt.Errorf("event %s: %w", id, errNotFound)
	}
	return e, err
}

func (s *Store) GetEvents() ([]models.Event, error) {
	rows, err := s.query(`SELECT id, name, date, start_time, end_time, created_at FROM events ORDER BY date, start_time, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) DeleteEvent(id string) error {
	res, err := s.exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res, "event", id)
}

// ApplyEvent inserts the event and the repaired tasks atomically.
func (s *Store) ApplyEvent(event models.Event, updated []models.Task) error {
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := s.execIn(tx, `
		INSERT INTO events (id, name, date, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Name, event.Date, event.Start.String(), event.End.String(), createdAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("saving event %s: %w", event.ID, err)
	}

	if err := s.upsertTasks(tx, updated); err != nil {
		return err
	}

	return tx.Commit()
}
