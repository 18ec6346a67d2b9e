package models

import "time"

type WorkspaceRole string

const (
	WorkspaceRoleManager WorkspaceRole = "manager"
	WorkspaceRoleMember  WorkspaceRole = "member"
)

type WorkspaceMember struct {
	WorkspaceID string        `gorm:"type:char(36);primarykey" json:"workspace_id"`
	UserID      string        `gorm:"type:char(36);primarykey" json:"user_id"`
	Role        WorkspaceRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt   time.Time     `json:"created_at"`

	// Relations
	Workspace Workspace `gorm:"foreignKey:WorkspaceID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
