package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamsync/teamsync-api/internal/dto"
	apierrors "github.com/teamsync/teamsync-api/internal/errors"
	"github.com/teamsync/teamsync-api/internal/middleware"
	"github.com/teamsync/teamsync-api/internal/services"
)

// WorkspaceHandler coordinates workspace and membership HTTP handlers.
type WorkspaceHandler struct {
	workspaceService *services.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler.
func NewWorkspaceHandler(workspaceService *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
	}
}

// ListWorkspaces returns all workspaces with member counts.
func (h *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	workspaces, err := h.workspaceService.ListWorkspaces(c.Request.Context())
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": dto.ToWorkspaceDTOs(workspaces)})
}

// CreateWorkspace creates a workspace owned by the authenticated user.
func (h *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateWorkspaceRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Workspace name is required")
		return
	}

	workspace, err := h.workspaceService.CreateWorkspace(c.Request.Context(), req.Name, userID)
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"workspace": dto.ToWorkspaceDTO(*workspace)})
}

// GetWorkspace returns a single workspace.
func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	workspace, err := h.workspaceService.GetWorkspace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspace": dto.ToWorkspaceDTO(*workspace)})
}

// AddMember adds a user to a workspace by email.
func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	type AddMemberRequest struct {
		Email string `json:"email" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Email is required")
		return
	}

	if err := h.workspaceService.AddMemberByEmail(c.Request.Context(), c.Param("id"), req.Email); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Member added successfully"})
}

// ListMembers returns the workspace's members with their profiles.
func (h *WorkspaceHandler) ListMembers(c *gin.Context) {
	members, err := h.workspaceService.ListMembers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToMemberDTOs(members)})
}

// AssignMembers bulk-adds users to a workspace.
func (h *WorkspaceHandler) AssignMembers(c *gin.Context) {
	type AssignMembersRequest struct {
		WorkspaceID string   `json:"workspace_id" binding:"required"`
		UserIDs     []string `json:"user_ids" binding:"required"`
	}

	var req AssignMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "workspace_id and an array of user_ids are required")
		return
	}

	if err := h.workspaceService.AssignMembers(c.Request.Context(), req.WorkspaceID, req.UserIDs); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workspace members assigned successfully"})
}

// AssignManager sets the workspace's manager.
func (h *WorkspaceHandler) AssignManager(c *gin.Context) {
	type AssignManagerRequest struct {
		WorkspaceID string `json:"workspace_id" binding:"required"`
		ManagerID   string `json:"manager_id" binding:"required"`
	}

	var req AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "workspace_id and manager_id are required")
		return
	}

	if err := h.workspaceService.AssignManager(c.Request.Context(), req.WorkspaceID, req.ManagerID); err != nil {
		respondWorkspaceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Manager assigned successfully"})
}

func respondWorkspaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWorkspaceNameRequired),
		errors.Is(err, services.ErrNoMemberIDsProvided):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrWorkspaceNotFound):
		apierrors.NotFound(c, "Workspace not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
