package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleManager UserRole = "manager"
	RoleMember  UserRole = "member"
)

type User struct {
	ID           string     `gorm:"type:char(36);primarykey" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Salt         string     `gorm:"type:varchar(255);not null" json:"-"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"-"`

	// Relations
	AssignedTasks []Task            `gorm:"foreignKey:AssignedTo" json:"-"`
	CreatedTasks  []Task            `gorm:"foreignKey:CreatedBy" json:"-"`
	Memberships   []WorkspaceMember `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
