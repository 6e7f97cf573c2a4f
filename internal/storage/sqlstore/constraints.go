package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/mledan/taskometer-sub001/internal/models"
)

func (s *Store) GetConstraints() (models.ConstraintSet, error) {
	rows, err := s.query(`
		SELECT activity_type, preferred_start, preferred_end, allowed_weekdays
		FROM task_type_constraints ORDER BY activity_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.TaskTypeConstraint
	for rows.Next() {
		var c models.TaskTypeConstraint
		var start, end, weekdays sql.NullString
		if err := rows.Scan(&c.ActivityType, &start, &end, &weekdays); err != nil {
			return nil, err
		}
		if start.Valid {
			tod, err := models.ParseTimeOfDay(start.String)
			if err != nil {
				return nil, fmt.Errorf("constraint %s: %w", c.ActivityType, err)
			}
			c.PreferredStart = &tod
		}
		if end.Valid {
			tod, err := models.ParseTimeOfDay(end.String)
			if err != nil {
				return nil, fmt.Errorf("constraint %s: %w", c.ActivityType, err)
			}
			c.PreferredEnd = &tod
		}
		if weekdays.Valid {
			mask, err := models.ParseWeekdayMask(weekdays.String)
			if err != nil {
				return nil, fmt.Errorf("constraint %s: %w", c.ActivityType, err)
			}
			c.AllowedWeekdays = &mask
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return models.NewConstraintSet(list), nil
}

func (s *Store) SaveConstraint(c models.TaskTypeConstraint) error {
	if c.ActivityType == "" {
		return fmt.Errorf("constraint activity type cannot be empty")
	}

	var start, end, weekdays any
	if c.PreferredStart != nil {
		start = c.PreferredStart.String()
	}
	if c.PreferredEnd != nil {
		end = c.PreferredEnd.String()
	}
	if c.AllowedWeekdays != nil {
		// An empty mask is stored as "none" so it stays distinct from NULL.
		weekdays = c.AllowedWeekdays.String()
	}

	_, err := s.exec(`
		INSERT INTO task_type_constraints (activity_type, preferred_start, preferred_end, allowed_weekdays)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (activity_type) DO UPDATE SET
			preferred_start = excluded.preferred_start,
			preferred_end = excluded.preferred_end,
			allowed_weekdays = excluded.allowed_weekdays`,
		c.ActivityType, start, end, weekdays)
	return err
}

func (s *Store) DeleteConstraint(activityType string) error {
	res, err := s.exec(`DELETE FROM task_type_constraints WHERE activity_type = ?`, activityType)
	if err != nil {
		return err
	}
	return checkAffected(res, "constraint", activityType)
}
