package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Workspace struct {
	ID        string    `gorm:"type:char(36);primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	ManagerID string    `gorm:"type:char(36);not null" json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`

	// MemberCount is populated by list queries, not stored.
	MemberCount int64 `gorm:"->;-:migration" json:"member_count"`

	// Relations
	Manager User              `gorm:"foreignKey:ManagerID" json:"-"`
	Members []WorkspaceMember `gorm:"foreignKey:WorkspaceID" json:"-"`
	Tasks   []Task            `gorm:"foreignKey:WorkspaceID" json:"-"`
}

func (w *Workspace) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
