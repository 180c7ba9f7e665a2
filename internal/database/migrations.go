package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database.
// Postgres only: the existence check queries pg_indexes.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task indexes for calendar aggregation and worker feeds
		{"tasks", "idx_tasks_project_id", "project_id"},
		{"tasks", "idx_tasks_assigned_to", "assigned_to"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_scheduled_date", "scheduled_date"},

		// Activity log lookup per task
		{"activity_entries", "idx_activity_entries_task_id", "task_id"},

		// Message thread lookup
		{"messages", "idx_messages_thread_id", "thread_id"},
		{"message_threads", "idx_threads_task_id", "task_id"},

		// Notification feeds
		{"notifications", "idx_notifications_target_worker_id", "target_worker_id"},
		{"notifications", "idx_notifications_timestamp", "timestamp"},

		// PIN login lookup
		{"workers", "idx_workers_pin", "pin"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
