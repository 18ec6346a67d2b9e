package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/teamsync/teamsync-api/internal/models"
	"github.com/teamsync/teamsync-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrWorkspaceNameRequired = errors.New("workspace name is required")
	ErrWorkspaceNotFound     = errors.New("workspace not found")
	ErrNoMemberIDsProvided   = errors.New("at least one user ID is required")
)

// WorkspaceService handles workspace and membership business logic.
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
	}
}

// CreateWorkspace creates a workspace owned by ownerID. The owner becomes a
// manager member in the same transaction, so the new workspace always has
// exactly one membership on return.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, name, ownerID string) (*models.Workspace, error) {
	if name == "" {
		return nil, ErrWorkspaceNameRequired
	}

	workspace := &models.Workspace{
		Name:      name,
		ManagerID: ownerID,
	}
	owner := &models.WorkspaceMember{
		UserID: ownerID,
		Role:   models.WorkspaceRoleManager,
	}

	if err := s.workspaceRepo.Create(ctx, workspace, owner); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	workspace.MemberCount = 1
	return workspace, nil
}

// ListWorkspaces returns all workspaces with member counts.
func (s *WorkspaceService) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	workspaces, err := s.workspaceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return workspaces, nil
}

// GetWorkspace returns one workspace with its member count.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return workspace, nil
}

// AddMemberByEmail looks up a user by email and adds them to the workspace.
// Re-adding an existing member keeps their current role, so a manager is
// never demoted by a duplicate add.
func (s *WorkspaceService) AddMemberByEmail(ctx context.Context, workspaceID, email string) error {
	if _, err := s.workspaceRepo.FindByID(ctx, workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("failed to find workspace: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	member := &models.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      user.ID,
		Role:        models.WorkspaceRoleMember,
	}
	if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// AssignMembers bulk-adds users to a workspace as members.
func (s *WorkspaceService) AssignMembers(ctx context.Context, workspaceID string, userIDs []string) error {
	if workspaceID == "" || len(userIDs) == 0 {
		return ErrNoMemberIDsProvided
	}

	if _, err := s.workspaceRepo.FindByID(ctx, workspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("failed to find workspace: %w", err)
	}

	for _, userID := range userIDs {
		member := &models.WorkspaceMember{
			WorkspaceID: workspaceID,
			UserID:      userID,
			Role:        models.WorkspaceRoleMember,
		}
		if err := s.workspaceRepo.AddMember(ctx, member); err != nil {
			return fmt.Errorf("failed to add member %s: %w", userID, err)
		}
	}

	return nil
}

// AssignManager makes the user the workspace's manager: the workspace row
// and the membership role change together. Other managers keep their role.
func (s *WorkspaceService) AssignManager(ctx context.Context, workspaceID, managerID string) error {
	if _, err := s.userRepo.FindByID(ctx, managerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.workspaceRepo.PromoteManager(ctx, workspaceID, managerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("failed to assign manager: %w", err)
	}

	return nil
}

// ListMembers returns the workspace's members joined with user profiles.
func (s *WorkspaceService) ListMembers(ctx context.Context, workspaceID string) ([]models.WorkspaceMember, error) {
	members, err := s.workspaceRepo.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}
