package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes creates the lookup indexes the hot queries depend on. Uses the
// GORM migrator so the same code works on mysql and postgres.
func AddIndexes(conn *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_workspace_id", "workspace_id"},
		{"tasks", "idx_tasks_assigned_to", "assigned_to"},
		{"tasks", "idx_tasks_status", "status"},
		{"subtasks", "idx_subtasks_task_id", "task_id"},
		{"workspace_members", "idx_workspace_members_workspace_id", "workspace_id"},
		{"workspace_members", "idx_workspace_members_user_id", "user_id"},
	}

	for _, idx := range indexes {
		if conn.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := conn.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
