package sqlstore

import (
	"encoding/json"
	"fmt"

	"github.com/mledan/taskometer-sub001/internal/models"
)

func (s *Store) GetTemplate() ([]models.TimeBlock, error) {
	rows, err := s.query(`
		SELECT id, name, start_time, end_time, activity_type, category, allowed_activity_types, flexibility
		FROM template_blocks ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.TimeBlock
	for rows.Next() {
		var b models.TimeBlock
		var start, end, allowed string
		if err := rows.Scan(&b.ID, &b.Name, &start, &end, &b.ActivityType, &b.Category, &allowed, &b.Flexibility); err != nil {
			return nil, err
		}
		if b.Start, err = models.ParseTimeOfDay(start); err != nil {
			return nil, fmt.Errorf("block %s: %w", b.ID, err)
		}
		if b.End, err = models.ParseTimeOfDay(end); err != nil {
			return nil, fmt.Errorf("block %s: %w", b.ID, err)
		}
		if allowed != "" {
			if err := json.Unmarshal([]byte(allowed), &b.AllowedActivityTypes); err != nil {
				return nil, fmt.Errorf("block %s: invalid allowed_activity_types: %w", b.ID, err)
			}
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

func (s *Store) SaveTemplate(blocks []models.TimeBlock) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := s.execIn(tx, `DELETE FROM template_blocks`); err != nil {
		return err
	}

	for i, b := range blocks {
		allowed := b.AllowedActivityTypes
		if allowed == nil {
			allowed = []string{}
		}
		allowedJSON, err := json.Marshal(allowed)
		if err != nil {
			return err
		}
		flex := b.Flexibility
		if flex == "" {
			flex = models.FlexibilityPreferred
		}
		if _, err := s.execIn(tx, `
			INSERT INTO template_blocks (id, position, name, start_time, end_time, activity_type, category, allowed_activity_types, flexibility)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			b.ID, i, b.Name, b.Start.String(), b.End.String(), b.ActivityType, b.Category, string(allowedJSON), string(flex),
		); err != nil {
			return fmt.Errorf("saving block %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}
