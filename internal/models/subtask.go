package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubtaskStatus string

const (
	SubtaskStatusTodo      SubtaskStatus = "todo"
	SubtaskStatusCompleted SubtaskStatus = "completed"
)

// ValidSubtaskStatus reports whether s is a known subtask state.
func ValidSubtaskStatus(s SubtaskStatus) bool {
	return s == SubtaskStatusTodo || s == SubtaskStatusCompleted
}

type Subtask struct {
	ID        string        `gorm:"type:char(36);primarykey" json:"id"`
	TaskID    string        `gorm:"type:char(36);not null;index" json:"task_id"`
	Title     string        `gorm:"type:varchar(255);not null" json:"title"`
	Status    SubtaskStatus `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	CreatedAt time.Time     `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}

func (s *Subtask) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = SubtaskStatusTodo
	}
	return nil
}
