package dto

import (
	"time"

	"github.com/teamsync/teamsync-api/internal/models"
)

// WorkspaceDTO represents a workspace in API responses
type WorkspaceDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ManagerID   string    `json:"manager_id"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int64     `json:"member_count"`
}

// MemberDTO represents a workspace member joined with their profile
type MemberDTO struct {
	ID    string               `json:"id"`
	Email string               `json:"email"`
	Name  string               `json:"name"`
	Role  models.WorkspaceRole `json:"role"`
}

// ToWorkspaceDTO converts a Workspace model to WorkspaceDTO
func ToWorkspaceDTO(workspace models.Workspace) WorkspaceDTO {
	return WorkspaceDTO{
		ID:          workspace.ID,
		Name:        workspace.Name,
		ManagerID:   workspace.ManagerID,
		CreatedAt:   workspace.CreatedAt,
		MemberCount: workspace.MemberCount,
	}
}

// ToWorkspaceDTOs converts a slice of workspaces
func ToWorkspaceDTOs(workspaces []models.Workspace) []WorkspaceDTO {
	dtos := make([]WorkspaceDTO, len(workspaces))
	for i, w := range workspaces {
		dtos[i] = ToWorkspaceDTO(w)
	}
	return dtos
}

// ToMemberDTO converts a membership with a preloaded user
func ToMemberDTO(member models.WorkspaceMember) MemberDTO {
	return MemberDTO{
		ID:    member.UserID,
		Email: member.User.Email,
		Name:  member.User.Name,
		Role:  member.Role,
	}
}

// ToMemberDTOs converts a slice of memberships
func ToMemberDTOs(members []models.WorkspaceMember) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = ToMemberDTO(m)
	}
	return dtos
}
