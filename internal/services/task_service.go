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
	ErrTaskNotFound         = errors.New("task not found")
	ErrSubtaskNotFound      = errors.New("subtask not found")
	ErrTaskFieldsRequired   = errors.New("title and assignedTo are required")
	ErrSubtaskTitleEmpty    = errors.New("subtask title is required")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrInvalidSubtaskStatus = errors.New("invalid subtask status")
)

// TaskService handles task and subtask business logic, including the
// derived-status propagation from subtasks to their parent task.
type TaskService struct {
	taskRepo      repository.TaskRepository
	workspaceRepo repository.WorkspaceRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, workspaceRepo repository.WorkspaceRepository) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		workspaceRepo: workspaceRepo,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	WorkspaceID string
	Title       string
	Description string
	AssignedTo  string
	CreatedBy   string
}

// CreateTask creates a task in a workspace, defaulting to pending status.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" || input.AssignedTo == "" {
		return nil, ErrTaskFieldsRequired
	}

	if _, err := s.workspaceRepo.FindByID(ctx, input.WorkspaceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}

	task := &models.Task{
		WorkspaceID: input.WorkspaceID,
		Title:       input.Title,
		Description: input.Description,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   input.CreatedBy,
		Status:      models.TaskStatusPending,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(ctx, task.ID, "Assignee", "Creator")
}

// ListWorkspaceTasks lists a workspace's tasks.
func (s *TaskService) ListWorkspaceTasks(ctx context.Context, workspaceID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListAssignedTasks lists the tasks assigned to a user, each with its
// subtasks eagerly loaded.
func (s *TaskService) ListAssignedTasks(ctx context.Context, userID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListAssignedTo(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	return tasks, nil
}

// SetTaskStatus overwrites a task's status directly. This path does not
// consult subtasks; only subtask mutations re-derive the status.
func (s *TaskService) SetTaskStatus(ctx context.Context, workspaceID, taskID string, status models.TaskStatus) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	if _, err := s.taskRepo.FindInWorkspace(ctx, workspaceID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return s.taskRepo.FindInWorkspace(ctx, workspaceID, taskID, "Assignee", "Creator")
}

// AddSubtask creates a subtask under a task. The parent task's status is
// deliberately left untouched here; a fresh todo subtask carries no
// completion information.
func (s *TaskService) AddSubtask(ctx context.Context, taskID, title string) (*models.Subtask, error) {
	if title == "" {
		return nil, ErrSubtaskTitleEmpty
	}

	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	subtask := &models.Subtask{
		TaskID: taskID,
		Title:  title,
		Status: models.SubtaskStatusTodo,
	}

	if err := s.taskRepo.CreateSubtask(ctx, subtask); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}

	return subtask, nil
}

// SetSubtaskStatus updates a subtask's status and propagates the derived
// status to the parent task atomically. Returns the updated task with its
// refreshed subtask list.
func (s *TaskService) SetSubtaskStatus(ctx context.Context, taskID, subtaskID string, status models.SubtaskStatus) (*models.Task, error) {
	if !models.ValidSubtaskStatus(status) {
		return nil, ErrInvalidSubtaskStatus
	}

	task, err := s.taskRepo.SetSubtaskStatus(ctx, taskID, subtaskID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}

	return s.attachTaskRelations(ctx, task)
}

// ToggleSubtask flips a subtask between completed and todo.
func (s *TaskService) ToggleSubtask(ctx context.Context, taskID, subtaskID string, completed bool) (*models.Task, error) {
	status := models.SubtaskStatusTodo
	if completed {
		status = models.SubtaskStatusCompleted
	}
	return s.SetSubtaskStatus(ctx, taskID, subtaskID, status)
}

// DeleteSubtask removes a subtask and re-derives the parent task's status in
// the same transaction, so deleting the last incomplete subtask completes
// the task.
func (s *TaskService) DeleteSubtask(ctx context.Context, taskID, subtaskID string) (*models.Task, error) {
	task, err := s.taskRepo.DeleteSubtask(ctx, taskID, subtaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to delete subtask: %w", err)
	}

	return s.attachTaskRelations(ctx, task)
}

// attachTaskRelations fills in the display relations on a task returned by
// a subtask mutation. The mutation's recomputed status and subtask list stay
// authoritative.
func (s *TaskService) attachTaskRelations(ctx context.Context, task *models.Task) (*models.Task, error) {
	loaded, err := s.taskRepo.FindByID(ctx, task.ID, "Workspace", "Assignee", "Creator")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	task.Workspace = loaded.Workspace
	task.Assignee = loaded.Assignee
	task.Creator = loaded.Creator
	return task, nil
}
