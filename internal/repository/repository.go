package repository

import (
	"context"
	"time"

	"github.com/teamsync/teamsync-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// RecordLogin stamps the user's last successful login
	RecordLogin(ctx context.Context, id string, at time.Time) error

	// Count counts all registered users
	Count(ctx context.Context) (int64, error)
}

// WorkspaceRepository defines the interface for workspace and membership data access
type WorkspaceRepository interface {
	// Create creates a workspace and the owner's manager membership atomically
	Create(ctx context.Context, workspace *models.Workspace, owner *models.WorkspaceMember) error

	// FindByID finds a workspace by ID, annotated with its member count
	FindByID(ctx context.Context, id string) (*models.Workspace, error)

	// List returns all workspaces annotated with member counts
	List(ctx context.Context) ([]models.Workspace, error)

	// AddMember upserts a membership; an existing membership keeps its role
	AddMember(ctx context.Context, member *models.WorkspaceMember) error

	// PromoteManager sets the workspace manager and upserts the matching
	// manager membership in one transaction
	PromoteManager(ctx context.Context, workspaceID, userID string) error

	// FindMember finds a specific workspace membership
	FindMember(ctx context.Context, workspaceID, userID string) (*models.WorkspaceMember, error)

	// ListMembers lists all members of a workspace with their user profiles
	ListMembers(ctx context.Context, workspaceID string) ([]models.WorkspaceMember, error)

	// Count counts all workspaces
	Count(ctx context.Context) (int64, error)
}

// TaskRepository defines the interface for task and subtask data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.Task, error)

	// FindInWorkspace finds a task scoped to a workspace
	FindInWorkspace(ctx context.Context, workspaceID, taskID string, preload ...string) (*models.Task, error)

	// ListByWorkspace lists a workspace's tasks with assignee and creator loaded
	ListByWorkspace(ctx context.Context, workspaceID string) ([]models.Task, error)

	// ListAssignedTo lists a user's tasks with workspace and subtasks loaded
	ListAssignedTo(ctx context.Context, userID string) ([]models.Task, error)

	// UpdateStatus overwrites a task's status directly
	UpdateStatus(ctx context.Context, taskID string, status models.TaskStatus) error

	// CreateSubtask creates a new subtask
	CreateSubtask(ctx context.Context, subtask *models.Subtask) error

	// SetSubtaskStatus updates a subtask and re-derives the parent task's
	// status from the full subtask set inside one transaction with the task
	// row locked. Returns the task with its refreshed subtask list.
	SetSubtaskStatus(ctx context.Context, taskID, subtaskID string, status models.SubtaskStatus) (*models.Task, error)

	// DeleteSubtask removes a subtask and re-derives the parent task's
	// status in the same transaction. Returns the updated task.
	DeleteSubtask(ctx context.Context, taskID, subtaskID string) (*models.Task, error)

	// CountByStatus counts tasks, optionally filtered to one status
	CountByStatus(ctx context.Context, status *models.TaskStatus) (int64, error)
}
