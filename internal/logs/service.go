package logs

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

type LogService struct {
	DB *gorm.DB
}

// Log persists an audit entry. The payload (map/struct) is serialized into
// the Metadata column when provided.
func (ls *LogService) Log(entry SystemLog, payload interface{}) error {
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			entry.Metadata = b
		}
	}

	entry.ID = 0
	entry.CreatedAt = time.Now()

	return ls.DB.Create(&entry).Error
}

// GetLogs returns the most recent entries, optionally filtered by level and
// action. Limit defaults to 50 and is capped at 200.
func (ls *LogService) GetLogs(level, action string, limit int) ([]SystemLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := ls.DB.Model(&SystemLog{})
	if v := strings.TrimSpace(level); v != "" {
		q = q.Where("level = ?", v)
	}
	if v := strings.TrimSpace(action); v != "" {
		q = q.Where("action = ?", v)
	}

	var entries []SystemLog
	if err := q.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
