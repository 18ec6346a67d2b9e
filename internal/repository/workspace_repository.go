package repository

import (
	"context"

	"github.com/teamsync/teamsync-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

const memberCountSelect = "workspaces.*, COUNT(workspace_members.user_id) AS member_count"

// Create creates a workspace and the owner's manager membership atomically.
// A failure on either insert rolls back both, so no workspace exists without
// its manager membership.
func (r *GormWorkspaceRepository) Create(ctx context.Context, workspace *models.Workspace, owner *models.WorkspaceMember) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(workspace).Error; err != nil {
			return err
		}

		owner.WorkspaceID = workspace.ID

		if err := tx.Create(owner).Error; err != nil {
			return err
		}

		return nil
	})
}

// FindByID finds a workspace by ID, annotated with its member count
func (r *GormWorkspaceRepository) FindByID(ctx context.Context, id string) (*models.Workspace, error) {
	var workspace models.Workspace
	err := r.db.WithContext(ctx).
		Model(&models.Workspace{}).
		Select(memberCountSelect).
		Joins("LEFT JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspaces.id = ?", id).
		Group("workspaces.id").
		First(&workspace).Error
	if err != nil {
		return nil, err
	}
	return &workspace, nil
}

// List returns all workspaces annotated with member counts
func (r *GormWorkspaceRepository) List(ctx context.Context) ([]models.Workspace, error) {
	var workspaces []models.Workspace
	err := r.db.WithContext(ctx).
		Model(&models.Workspace{}).
		Select(memberCountSelect).
		Joins("LEFT JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Group("workspaces.id").
		Order("workspaces.created_at ASC").
		Find(&workspaces).Error
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

// AddMember upserts a membership. Re-adding an existing member is a no-op so
// a manager is never demoted by a duplicate add.
func (r *GormWorkspaceRepository) AddMember(ctx context.Context, member *models.WorkspaceMember) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(member).Error
}

// PromoteManager sets the workspace manager and upserts the matching manager
// membership in one transaction.
func (r *GormWorkspaceRepository) PromoteManager(ctx context.Context, workspaceID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var workspace models.Workspace
		if err := tx.First(&workspace, "id = ?", workspaceID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Workspace{}).
			Where("id = ?", workspaceID).
			Update("manager_id", userID).Error; err != nil {
			return err
		}

		member := models.WorkspaceMember{
			WorkspaceID: workspaceID,
			UserID:      userID,
			Role:        models.WorkspaceRoleManager,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "workspace_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"role": models.WorkspaceRoleManager}),
		}).Create(&member).Error
	})
}

// FindMember finds a specific workspace membership
func (r *GormWorkspaceRepository) FindMember(ctx context.Context, workspaceID, userID string) (*models.WorkspaceMember, error) {
	var member models.WorkspaceMember
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a workspace with their user profiles
func (r *GormWorkspaceRepository) ListMembers(ctx context.Context, workspaceID string) ([]models.WorkspaceMember, error) {
	var members []models.WorkspaceMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("workspace_id = ?", workspaceID).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

// Count counts all workspaces
func (r *GormWorkspaceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Workspace{}).Count(&count).Error
	return count, err
}
