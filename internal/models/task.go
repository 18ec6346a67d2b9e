package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ValidTaskStatus reports whether s is one of the three task states.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          string     `gorm:"type:char(36);primarykey" json:"id"`
	WorkspaceID string     `gorm:"type:char(36);not null" json:"workspace_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	AssignedTo  string     `gorm:"type:char(36);not null" json:"assigned_to"`
	CreatedBy   string     `gorm:"type:char(36);not null" json:"created_by"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
	Assignee  User      `gorm:"foreignKey:AssignedTo" json:"-"`
	Creator   User      `gorm:"foreignKey:CreatedBy" json:"-"`
	Subtasks  []Subtask `gorm:"foreignKey:TaskID" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	return nil
}

// DeriveTaskStatus computes a task's status from its subtask set. A task
// with no subtasks keeps whatever status it already has; otherwise the
// completion ratio decides: all completed, some completed, none completed.
func DeriveTaskStatus(subtasks []Subtask, current TaskStatus) TaskStatus {
	if len(subtasks) == 0 {
		return current
	}

	completed := 0
	for _, s := range subtasks {
		if s.Status == SubtaskStatusCompleted {
			completed++
		}
	}

	switch {
	case completed == len(subtasks):
		return TaskStatusCompleted
	case completed > 0:
		return TaskStatusInProgress
	default:
		return TaskStatusPending
	}
}
